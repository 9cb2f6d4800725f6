package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"smsctl/internal/modem"
	"smsctl/internal/server"
	"smsctl/internal/sms"
)

// serve runs the read-only HTTP surface until SIGINT or SIGTERM.
func (a *app) serve(addr string, mgr *sms.Manager, disc *modem.Discoverer) error {
	h := &server.Handler{
		Manager:      mgr,
		Discoverer:   disc,
		DisplayCount: a.cfg.DisplayCount,
		Log:          a.log.With().Str("component", "server").Logger(),
	}

	srv := &http.Server{
		Addr:         addr,
		Handler:      server.NewRouter(h),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info().Str("addr", addr).Msg("smsctl listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-quit:
	}

	a.log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
