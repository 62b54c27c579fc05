package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quiz-data-client/pkg/metrics"
)

type item struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestClient_Do(t *testing.T) {
	ctx := context.Background()

	t.Run("DecodesJSON", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "application/json", r.Header.Get("Accept"))
			assert.Empty(t, r.Header.Get("Content-Type"))
			json.NewEncoder(w).Encode(item{ID: "q1", Name: "Go"})
		}))
		defer srv.Close()

		var got item
		err := New(srv.URL, time.Second).Do(ctx, Request{Method: http.MethodGet, Path: "/quizzes/q1"}, &got)
		require.NoError(t, err)
		assert.Equal(t, item{ID: "q1", Name: "Go"}, got)
	})

	t.Run("SendsJSONBody", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			var in item
			require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			in.ID = "generated"
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(in)
		}))
		defer srv.Close()

		var got item
		err := New(srv.URL, time.Second).Do(ctx, Request{Method: http.MethodPost, Path: "/quizzes", Body: item{Name: "Go"}}, &got)
		require.NoError(t, err)
		assert.Equal(t, "generated", got.ID)
	})

	t.Run("EncodesQuery", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "quiz 1&x", r.URL.Query().Get("quizId"))
			w.Write([]byte("[]"))
		}))
		defer srv.Close()

		var got []item
		err := New(srv.URL+"/", time.Second).Do(ctx, Request{
			Method: http.MethodGet,
			Path:   "/attempts",
			Query:  url.Values{"quizId": {"quiz 1&x"}},
		}, &got)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("EmptyBodyAccepted", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))
		defer srv.Close()

		var got item
		err := New(srv.URL, time.Second).Do(ctx, Request{Method: http.MethodDelete, Path: "/attempts/a1"}, &got)
		require.NoError(t, err)
		assert.Equal(t, item{}, got)
	})

	t.Run("EmptyBodyWithoutResult", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		err := New(srv.URL, time.Second).Do(ctx, Request{Method: http.MethodDelete, Path: "/attempts/a1"}, nil)
		require.NoError(t, err)
	})

	t.Run("EmptyBodyRejectedWhenResultExpected", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		var got item
		err := New(srv.URL, time.Second).Do(ctx, Request{Method: http.MethodGet, Path: "/quizzes/q1"}, &got)
		require.Error(t, err)
		assert.Equal(t, KindDecode, KindOf(err))

		err = New(srv.URL, time.Second).Do(ctx, Request{Method: http.MethodPost, Path: "/quizzes", Body: item{Name: "Go"}}, &got)
		assert.Equal(t, KindDecode, KindOf(err))
	})

	t.Run("HTTPErrorBodyText", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "Quiz not found", http.StatusNotFound)
		}))
		defer srv.Close()

		err := New(srv.URL, time.Second).Do(ctx, Request{Method: http.MethodGet, Path: "/quizzes/nope"}, nil)
		require.Error(t, err)
		assert.Equal(t, KindHTTP, KindOf(err))
		assert.Equal(t, http.StatusNotFound, StatusOf(err))
		assert.Equal(t, "Quiz not found", err.Error())
	})

	t.Run("HTTPErrorEmptyBody", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		err := New(srv.URL, time.Second).Do(ctx, Request{Method: http.MethodGet, Path: "/quizzes"}, nil)
		require.Error(t, err)
		assert.Equal(t, "HTTP error! status: 500", err.Error())
	})

	t.Run("MalformedJSON", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("{not json"))
		}))
		defer srv.Close()

		var got item
		err := New(srv.URL, time.Second).Do(ctx, Request{Method: http.MethodGet, Path: "/quizzes/q1"}, &got)
		assert.Equal(t, KindDecode, KindOf(err))
	})

	t.Run("UnencodableBody", func(t *testing.T) {
		err := New("http://127.0.0.1:1", time.Second).Do(ctx, Request{Method: http.MethodPost, Path: "/quizzes", Body: make(chan int)}, nil)
		assert.Equal(t, KindEncode, KindOf(err))
	})
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	hc := New(srv.URL, 50*time.Millisecond)
	start := time.Now()
	err := hc.Do(context.Background(), Request{Method: http.MethodGet, Path: "/quizzes"}, nil)
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.Equal(t, KindTimeout, KindOf(err))
	assert.True(t, errors.Is(err, ErrTimeout))
	assert.Less(t, elapsed, 2*time.Second)
}

func TestClient_TimeoutDoesNotCoverBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"q1",`))
		w.(http.Flusher).Flush()
		time.Sleep(150 * time.Millisecond)
		w.Write([]byte(`"name":"slow"}`))
	}))
	defer srv.Close()

	var got item
	err := New(srv.URL, 50*time.Millisecond).Do(context.Background(), Request{Method: http.MethodGet, Path: "/quizzes/q1"}, &got)
	require.NoError(t, err)
	assert.Equal(t, "slow", got.Name)
}

func TestClient_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	t.Run("Online", func(t *testing.T) {
		err := New(addr, time.Second, WithConnectivity(AlwaysOnline)).Do(context.Background(), Request{Method: http.MethodGet, Path: "/quizzes"}, nil)
		assert.Equal(t, KindNetwork, KindOf(err))
	})

	t.Run("Offline", func(t *testing.T) {
		offline := ConnectivityFunc(func() bool { return false })
		err := New(addr, time.Second, WithConnectivity(offline)).Do(context.Background(), Request{Method: http.MethodGet, Path: "/quizzes"}, nil)
		assert.Equal(t, KindOffline, KindOf(err))
	})
}

func TestClient_CallerCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	err := New(srv.URL, 5*time.Second).Do(ctx, Request{Method: http.MethodGet, Path: "/quizzes"}, nil)
	assert.Equal(t, KindCanceled, KindOf(err))
}

func TestClient_Metrics(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/quizzes/missing" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("{}"))
	}))
	defer srv.Close()

	m := metrics.NewMetrics("client", prometheus.NewRegistry())
	hc := New(srv.URL, time.Second, WithMetrics(m))
	ctx := context.Background()

	require.NoError(t, hc.Do(ctx, Request{Method: http.MethodGet, Path: "/quizzes/q1", Route: "/quizzes/{id}"}, nil))
	require.Error(t, hc.Do(ctx, Request{Method: http.MethodGet, Path: "/quizzes/missing", Route: "/quizzes/{id}"}, nil))

	assert.Equal(t, float64(1), testutil.ToFloat64(m.RequestCounter.WithLabelValues("GET", "/quizzes/{id}", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.RequestCounter.WithLabelValues("GET", "/quizzes/{id}", "404")))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "timeout", KindTimeout.String())
	assert.Equal(t, "kind(42)", Kind(42).String())
}
