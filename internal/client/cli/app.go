package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/dmitrijs2005/ledgerclient/internal/client/apierr"
	"github.com/dmitrijs2005/ledgerclient/internal/client/client"
	"github.com/dmitrijs2005/ledgerclient/internal/client/config"
	"github.com/dmitrijs2005/ledgerclient/internal/client/metrics"
	"github.com/dmitrijs2005/ledgerclient/internal/client/services"
	"github.com/dmitrijs2005/ledgerclient/internal/logging"
)

const (
	pingTimeout         = 2 * time.Second
	healthInitialDelay  = 200 * time.Millisecond
	healthMaxDelay      = 2 * time.Second
	metricsShutdownWait = 5 * time.Second
)

// App is the interactive ledger client.
type App struct {
	config    *config.Config
	logger    logging.Logger
	client    *client.HTTPClient
	auth      services.AuthService
	resources services.ResourceService
	registry  *prometheus.Registry

	reader   *bufio.Reader
	out      io.Writer
	userName string
}

// NewApp wires the HTTP client and services for cfg. Commands are read from
// in and all user-facing output goes to out.
func NewApp(cfg *config.Config, logger logging.Logger, in io.Reader, out io.Writer) (*App, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	a := &App{
		config: cfg,
		logger: logger,
		reader: bufio.NewReader(in),
		out:    out,
	}

	var opts []client.Option
	if cfg.MetricsAddr != "" {
		a.registry = prometheus.NewRegistry()
		a.registry.MustRegister(collectors.NewGoCollector())
		opts = append(opts, client.WithRecorder(metrics.NewPrometheus(a.registry)))
	}

	c, err := client.NewHTTPClient(cfg, logger, opts...)
	if err != nil {
		return nil, err
	}

	a.client = c
	a.auth = services.NewAuthService(c, cfg.Endpoints)
	a.resources = services.NewResourceService(c)
	return a, nil
}

// Run waits for the server, starts the metrics listener when configured and
// serves the REPL until the input ends or the user exits.
func (a *App) Run(ctx context.Context) error {
	defer a.client.Close()

	if a.registry != nil {
		stop := a.serveMetrics(ctx)
		defer stop()
	}

	if err := a.waitForServer(ctx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		a.logger.Warn(ctx, "server is not reachable, continuing anyway", "base_url", a.config.BaseURL, "error", err)
		fmt.Fprintf(a.out, "Server %s is not reachable: %v\n", a.config.BaseURL, err)
	}

	a.Root(ctx)
	return nil
}

// waitForServer polls the health endpoint with exponential backoff until it
// answers, a non-network error comes back, or ConnectTimeout elapses.
func (a *App) waitForServer(ctx context.Context) error {
	operation := func() error {
		pctx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()

		err := a.auth.Ping(pctx)
		if err != nil && !errors.Is(err, apierr.ErrUnavailable) {
			return backoff.Permanent(err)
		}
		return err
	}

	strategy := backoff.WithContext(
		backoff.NewExponentialBackOff(
			backoff.WithInitialInterval(healthInitialDelay),
			backoff.WithMaxInterval(healthMaxDelay),
			backoff.WithMaxElapsedTime(a.config.ConnectTimeout),
		),
		ctx,
	)

	return backoff.RetryNotify(operation, strategy, func(err error, d time.Duration) {
		a.logger.Debug(ctx, "server not ready, retrying", "error", err, "retry_in", d)
	})
}

// serveMetrics exposes the registry on MetricsAddr. The returned func shuts
// the listener down.
func (a *App) serveMetrics(ctx context.Context) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(a.registry))
	srv := &http.Server{Addr: a.config.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		a.logger.Info(ctx, "serving metrics", "addr", a.config.MetricsAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error(ctx, "metrics listener stopped", "error", err)
		}
	}()

	return func() {
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), metricsShutdownWait)
		defer cancel()
		_ = srv.Shutdown(sctx)
	}
}
