package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"quiz-data-client/internal/fakeapi"
	"quiz-data-client/pkg/config"
	"quiz-data-client/pkg/logger"
)

func main() {
	cfg, err := config.LoadStub()
	if err != nil {
		logger.NewLogger("quiz-api-stub", "info").Fatalf("Failed to load config: %v", err)
	}
	log := logger.NewLogger("quiz-api-stub", cfg.LogLevel)

	store := fakeapi.NewStore()
	if cfg.SeedFile != "" {
		store, err = fakeapi.NewStoreFromSeed(cfg.SeedFile)
		if err != nil {
			log.Fatalf("Failed to load seed: %v", err)
		}
		log.Entry().WithField("seed", cfg.SeedFile).Infof("Loaded %d quizzes", len(store.ListQuizzes()))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	handler := fakeapi.NewRouter(fakeapi.NewHandler(store, log), fakeapi.RouterOptions{
		AllowedOrigins: cfg.AllowedOrigins,
		Registry:       reg,
	})

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Entry().WithField("addr", cfg.Addr).Info("Stub API starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}

	log.Entry().Info("Server shutdown gracefully")
}
