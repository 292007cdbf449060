package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	mailgate "github.com/mkarlsen/mailgate/internal"
)

func main() {
	_ = godotenv.Load()

	logger := newLogger()
	config := mailgate.LoadConfig()

	limiter := mailgate.NewRateLimiter(config.RateLimit, config.RateWindow, config.SweepInterval)
	limiter.Start()

	mux := http.NewServeMux()
	mux.HandleFunc("/health", mailgate.HandleHealth)
	mux.Handle("/v1/contact", mailgate.NewContactHandler(config, limiter))

	handler := loggingMiddleware(logger, secHeaders(mux))

	s := &http.Server{
		Addr:              config.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.ListenAndServe()
	}()

	logger.Info("mailgate listening", "addr", config.ListenAddr, "rate_limit", config.RateLimit)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "err", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", "err", err)
		}
	}

	limiter.Stop()
}

func secHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Referrer-Policy", "no-referrer-when-downgrade")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-XSS-Protection", "0")
		next.ServeHTTP(w, r)
	})
}

func loggingMiddleware(baseLogger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestLogger := baseLogger.With(
			"request_id", uuid.NewString(),
			"method", r.Method,
			"path", r.URL.Path,
		)

		ctx := mailgate.ContextWithLogger(r.Context(), requestLogger)
		r = r.WithContext(ctx)

		lrw := &loggingResponseWriter{ResponseWriter: w, status: http.StatusOK}

		defer func() {
			if rec := recover(); rec != nil {
				requestLogger.Error("panic recovered",
					"err", rec,
					"type", fmt.Sprintf("%T", rec),
					"stack", string(debug.Stack()),
				)
				lrw.WriteHeader(http.StatusInternalServerError)
			}
			duration := time.Since(start)
			level := slog.LevelInfo
			switch {
			case lrw.status >= 500:
				level = slog.LevelError
			case lrw.status >= 400:
				level = slog.LevelWarn
			}
			requestLogger.Log(ctx, level, "request completed",
				"status", lrw.status,
				"duration_ms", duration.Milliseconds(),
				"bytes", lrw.length,
			)
		}()

		next.ServeHTTP(lrw, r)
	})
}

type loggingResponseWriter struct {
	http.ResponseWriter
	status int
	length int
	wrote  bool
}

func (lrw *loggingResponseWriter) WriteHeader(status int) {
	if !lrw.wrote {
		lrw.ResponseWriter.WriteHeader(status)
		lrw.wrote = true
	}
	lrw.status = status
}

func (lrw *loggingResponseWriter) Write(p []byte) (int, error) {
	if !lrw.wrote {
		lrw.WriteHeader(http.StatusOK)
	}
	n, err := lrw.ResponseWriter.Write(p)
	lrw.length += n
	return n, err
}

func newLogger() *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: logLevelFromEnv(),
	}

	var handler slog.Handler
	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "json") {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func logLevelFromEnv() slog.Leveler {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
