package cmd

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/felixgeelhaar/taskflow/internal/api"
	"github.com/felixgeelhaar/taskflow/internal/auth"
	"github.com/felixgeelhaar/taskflow/internal/config"
	"github.com/felixgeelhaar/taskflow/internal/errors"
	"github.com/felixgeelhaar/taskflow/internal/health"
	"github.com/felixgeelhaar/taskflow/internal/metrics"
	"github.com/felixgeelhaar/taskflow/internal/server"
	"github.com/felixgeelhaar/taskflow/internal/store"
	"github.com/felixgeelhaar/taskflow/internal/telemetry"
	"github.com/felixgeelhaar/taskflow/internal/version"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the taskflow API server",
		Long: `Start the HTTP API together with health probes and metrics:

  /api/...          accounts, projects, tasks and scheduling
  /openapi.yaml     API description
  /health/live      liveness probe
  /health/ready     readiness probe
  /health/startup   startup probe
  /metrics          Prometheus metrics

The server drains in-flight requests on SIGINT or SIGTERM.

Example:
  TASKFLOW_JWT_KEY=$(openssl rand -hex 32) taskflow serve --address :9090`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
	cmd.Flags().String("address", "", "listen address (overrides config)")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	cfg, err := cc.LoadConfig()
	if err != nil {
		return err
	}
	if addr, _ := cmd.Flags().GetString("address"); addr != "" {
		cfg.Server.Address = addr
	}
	if err := cfg.Validate(); err != nil {
		return errors.NewConfigInvalidError(err.Error()).
			WithSuggestion(fmt.Sprintf("Set %s to a random value of at least %d bytes", config.EnvJWTKey, config.MinSigningKeyBytes))
	}

	info := version.GetInfo()
	logger, err := cc.Logger(cfg.Log, info.Version)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	shutdownTracing, err := telemetry.InitProvider(ctx, telemetry.Config{
		ServiceName:    "taskflow",
		ServiceVersion: info.Version,
		Environment:    cfg.Telemetry.Environment,
		Enabled:        cfg.Telemetry.Enabled,
		Endpoint:       cfg.Telemetry.Endpoint,
		Insecure:       cfg.Telemetry.Insecure,
		SampleRate:     cfg.Telemetry.SampleRate,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}

	registry, m := metrics.NewRegistry()
	st := store.NewMemoryStore()
	defer st.Close()
	if path := cfg.Store.SnapshotPath; path != "" {
		loaded, err := st.LoadSnapshot(path)
		if err != nil {
			return err
		}
		logger.Info("store snapshot", "path", path, "restored", loaded)
	}

	tokens := auth.NewTokenService([]byte(cfg.Auth.SigningKey), cfg.Auth.Issuer, cfg.Auth.Audience, cfg.Auth.TokenTTL)
	handler, err := api.New(ctx, api.Options{
		Store:    st,
		Accounts: auth.NewService(st, tokens, m, logger),
		Tokens:   tokens,
		Metrics:  m,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	probes := health.NewProbeManager(info.Version)
	probes.AddChecker(health.NewStoreChecker(st))

	srv := server.New(server.Options{
		Config:   cfg.Server,
		CORS:     cfg.CORS,
		Probes:   probes,
		API:      handler.Handler(),
		Metrics:  m,
		Gatherer: registry,
		Logger:   logger,
	})

	logger.Info("starting taskflow",
		"version", info.Version,
		"address", cfg.Server.Address,
		"tracing", cfg.Telemetry.Enabled,
		"allowed_origins", cfg.CORS.AllowedOrigins,
	)

	g, gctx := errgroup.WithContext(ctx)

	// The snapshotter outlives the request drain so its final save sees
	// every completed write.
	snapCtx, stopSnapshots := context.WithCancel(context.WithoutCancel(ctx))
	defer stopSnapshots()
	if path := cfg.Store.SnapshotPath; path != "" {
		snapshotter := store.NewSnapshotter(st, path, cfg.Store.SnapshotInterval, logger)
		g.Go(func() error { return snapshotter.Run(snapCtx) })
	}

	g.Go(func() error {
		if err := srv.Start(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		// The parent context is already cancelled here.
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), cfg.Server.ShutdownTimeout)
		defer cancel()
		shutdownErr := srv.Shutdown(shutdownCtx)
		stopSnapshots()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Warn("failed to flush traces", "error", err.Error())
		}
		return shutdownErr
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("server stopped gracefully")
	return nil
}
