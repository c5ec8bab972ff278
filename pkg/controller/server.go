package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

// Handler serves the controller's HTTP API.
func (c *Controller) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/state", c.handleGetState)
	mux.HandleFunc("POST /api/calibrate", c.handleCalibrate)
	return mux
}

// StartServer listens on addr until ctx is done.
func (c *Controller) StartServer(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           c.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	c.logger.Info("server running", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (c *Controller) handleGetState(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(c.State())
}

func (c *Controller) handleCalibrate(w http.ResponseWriter, r *http.Request) {
	if err := c.Calibrate(); err != nil {
		c.logger.Error("calibration failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	c.handleGetState(w, r)
}
