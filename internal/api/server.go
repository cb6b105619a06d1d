package api

import (
	"context"
	"net/http"
	"time"
)

// shutdownTimeout bounds how long in-flight requests may run after a stop
// signal before the listener is torn down
const shutdownTimeout = 10 * time.Second

// Serve runs the HTTP server on addr until ctx is cancelled, then shuts it
// down gracefully, draining in-flight requests. It returns nil on a clean
// shutdown, the listen error if the server fails to start, or the shutdown
// error if draining exceeds the timeout.
func Serve(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
