package fakeapi

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"quiz-data-client/pkg/metrics"
)

type RouterOptions struct {
	AllowedOrigins []string
	// Registry receives the server metrics and backs /metrics. Nil disables both.
	Registry *prometheus.Registry
}

// NewRouter serves the json-server compatible quiz API.
func NewRouter(h *Handler, opts RouterOptions) http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/quizzes", h.ListQuizzes).Methods(http.MethodGet)
	router.HandleFunc("/quizzes", h.CreateQuiz).Methods(http.MethodPost)
	router.HandleFunc("/quizzes/{id}", h.GetQuiz).Methods(http.MethodGet)
	router.HandleFunc("/quizzes/{id}", h.ReplaceQuiz).Methods(http.MethodPut)
	router.HandleFunc("/quizzes/{id}", h.DeleteQuiz).Methods(http.MethodDelete)
	router.HandleFunc("/attempts", h.ListAttempts).Methods(http.MethodGet)
	router.HandleFunc("/attempts", h.CreateAttempt).Methods(http.MethodPost)
	router.HandleFunc("/attempts/{id}", h.DeleteAttempt).Methods(http.MethodDelete)

	if opts.Registry != nil {
		m := metrics.NewMetrics("stub", opts.Registry)
		router.Use(metricsMiddleware(m))
		router.Handle("/metrics", promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Accept"},
		MaxAge:         300,
	})

	return corsMiddleware.Handler(router)
}

func metricsMiddleware(m *metrics.Metrics) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route := r.URL.Path
			if current := mux.CurrentRoute(r); current != nil {
				if tpl, err := current.GetPathTemplate(); err == nil {
					route = tpl
				}
			}
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			done := m.Track(r.Method, route)
			next.ServeHTTP(rec, r)
			done(strconv.Itoa(rec.status))
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
