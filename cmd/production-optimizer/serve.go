package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/iwvelando/production-optimizer/internal/config"
	"github.com/iwvelando/production-optimizer/internal/metrics"
	"github.com/iwvelando/production-optimizer/internal/optimizer"
	"github.com/iwvelando/production-optimizer/internal/server"
	"github.com/iwvelando/production-optimizer/pkg/constants"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

type serveOpts struct {
	serverConfig   string
	address        string
	maxRequestSize string
	profile        string
}

func newServeCommand() *cobra.Command {
	opts := serveOpts{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web form, solve API and metrics over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.serverConfig, "server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	flags.StringVar(&opts.address, "address", "", "listen address override")
	flags.StringVar(&opts.maxRequestSize, "max-request-size", "", "request body limit override, e.g. 256KiB")
	flags.StringVar(&opts.profile, "profile", "", "capacity profile override: standard, extended")
	return cmd
}

func runServe(ctx context.Context, cmd *cobra.Command, opts serveOpts) error {
	flags := cmd.Flags()
	configPath, _ := flags.GetString("config")
	logLevel, _ := flags.GetString("log-level")

	srvCfg, err := server.LoadConfig(opts.serverConfig)
	if err != nil {
		return err
	}
	if opts.address != "" {
		srvCfg.Address = opts.address
	}
	if opts.maxRequestSize != "" {
		size, err := server.ParseSize(opts.maxRequestSize)
		if err != nil {
			return err
		}
		srvCfg.SetRequestSizeBytes(size)
	}
	if opts.profile != "" {
		srvCfg.Profile = strings.ToLower(strings.TrimSpace(opts.profile))
	}

	logger, err := initializeLogger(srvCfg.Logging, logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	conf, err := loadConfiguration(configPath, flags.Changed("config"))
	if err != nil {
		return fmt.Errorf("failed to load configuration at %s: %w", configPath, err)
	}

	handler, err := newServeHandler(logger, srvCfg, conf)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              srvCfg.Address,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting web server",
			zap.String("op", "serve"),
			zap.String("address", srvCfg.Address),
			zap.String("profile", conf.Profile),
			zap.Int64("maxRequestSize", srvCfg.RequestSizeBytes()),
			zap.String("version", version),
		)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("web server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down web server", zap.String("op", "serve"))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

// newServeHandler settles the capacity profile and checks the form defaults
// against it before building the handler. The profile comes from --profile or
// the server config, then from the solve configuration.
func newServeHandler(logger *zap.Logger, srvCfg *server.Config, conf *config.Configuration) (http.Handler, error) {
	profile, _ := lo.Coalesce(srvCfg.Profile, conf.Profile, constants.ProfileStandard)
	conf.Profile = profile
	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("form defaults do not fit the %s capacity profile: %w", profile, err)
	}
	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "serve"),
		)
	}

	m := metrics.New()
	runnerOpts := optimizer.OptionsFromConfig(conf)
	runnerOpts.Metrics = m
	runner, err := optimizer.NewRunner(logger, runnerOpts)
	if err != nil {
		return nil, err
	}

	return server.NewHandler(logger, runner, server.Options{
		MaxRequestSize: srvCfg.RequestSizeBytes(),
		Version:        version,
		Profile:        profile,
		Defaults:       conf,
		Metrics:        m,
	})
}
