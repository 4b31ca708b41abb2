package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"farmer/internal/metrics"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

func NewRouter(handler *Handler, limiter *RateLimiter) http.Handler {
	r := mux.NewRouter()
	r.Use(metrics.Middleware)
	r.Handle("/metrics", metrics.Handler()).Methods("GET")
	handler.RegisterRoutes(r, limiter)
	return Chain(r, RequestLogger(handler.Log), CORS())
}

// StartServer serves until ctx is cancelled, then drains for up to 10s.
func StartServer(ctx context.Context, addr string, handler http.Handler, log logrus.FieldLogger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", addr).Info("farmer starting")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
