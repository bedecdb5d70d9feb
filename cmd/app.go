package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/pawfetch/pawfetch/internal/api"
	"github.com/pawfetch/pawfetch/internal/colors"
	"github.com/pawfetch/pawfetch/internal/config"
	"github.com/pawfetch/pawfetch/internal/logging"
	"github.com/pawfetch/pawfetch/internal/metrics"
	"github.com/pawfetch/pawfetch/internal/session"
	"github.com/pawfetch/pawfetch/internal/storage"
)

// app holds the collaborators shared by the commands of one invocation.
type app struct {
	store    storage.Store
	sessions *session.Manager
	values   *session.Values
	jar      *session.Jar
	client   *api.Client
	recorder metrics.Recorder
	logger   logging.Logger
	server   *http.Server
}

// openApp wires storage, the session and the API client. With a fresh
// session the previous one is ended and a new one started; otherwise the
// active session is required.
func openApp(ctx context.Context, fresh bool) (*app, error) {
	store, err := storage.NewFromConfig()
	if err != nil {
		return nil, err
	}
	a := &app{
		store:    store,
		logger:   logging.GetGlobal(),
		recorder: metrics.NoopRecorder{},
	}
	a.sessions = session.NewManager(store, a.logger)

	if fresh {
		_, err = a.sessions.Start(ctx)
	} else {
		_, err = a.sessions.Current(ctx)
	}
	if err != nil {
		a.Close()
		return nil, err
	}
	if a.values, err = a.sessions.Values(ctx); err != nil {
		a.Close()
		return nil, err
	}

	site, err := url.Parse(config.Get("api_base_url", config.DefaultAPIBaseURL))
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("invalid api_base_url: %w", err)
	}
	if a.jar, err = session.NewJar(ctx, a.values, site); err != nil {
		a.Close()
		return nil, err
	}

	a.startMetrics()
	a.client, err = api.NewFromConfig(
		api.WithCookieJar(a.jar),
		api.WithRecorder(a.recorder),
		api.WithLogger(a.logger),
	)
	if err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// startMetrics serves Prometheus metrics on metrics_addr when it is set.
func (a *app) startMetrics() {
	addr := config.Get("metrics_addr", "")
	if addr == "" {
		return
	}
	reg := prom.NewRegistry()
	a.recorder = metrics.NewPrometheusRecorder(reg)
	a.server = &http.Server{Addr: addr, Handler: metrics.HTTPHandler(reg), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			colors.Warning(fmt.Sprintf("metrics server stopped: %v", err))
		}
	}()
	a.logger.Info("serving metrics", "addr", addr)
}

// Close saves the session cookies and releases resources.
func (a *app) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if a.jar != nil {
		if err := a.jar.Save(ctx); err != nil {
			a.logger.Warn("failed to save cookies", "error", err.Error())
		}
	}
	if a.server != nil {
		_ = a.server.Shutdown(ctx)
	}
	if err := a.store.Close(); err != nil {
		a.logger.Warn("failed to close storage", "error", err.Error())
	}
}
