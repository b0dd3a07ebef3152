package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"ns-advisor/applog"
	"ns-advisor/config"
)

type AdvisorHttpServer struct {
	router    *Router
	muxRouter *mux.Router
	addr      string
}

func NewAdvisorHttpServer(router *Router, muxRouter *mux.Router, addr string) *AdvisorHttpServer {
	if addr == "" {
		addr = config.HTTP_SERVER_ADDR
	}
	return &AdvisorHttpServer{
		router:    router,
		muxRouter: muxRouter,
		addr:      addr,
	}
}

// Start serves until SIGINT or SIGTERM, then shuts down gracefully.
func (s *AdvisorHttpServer) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.Run(ctx)
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *AdvisorHttpServer) Run(ctx context.Context) error {
	s.router.RegisterRoutes()

	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.muxRouter,
	}

	serveErr := make(chan error, 1)
	go func() {
		applog.Infof("Starting server on %s", s.addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			applog.Errorf("ListenAndServe(): %v", err)
		}
		return err
	case <-ctx.Done():
	}

	applog.Infof("Shutting down the server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.HTTP_SHUTDOWN_TIMEOUT_SECONDS*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		applog.Errorf("Server forced to shutdown: %v", err)
		return err
	}

	applog.Infof("Server exiting")
	return nil
}
