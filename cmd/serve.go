package cmd

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/talentscout/internal/dialogue"
	"github.com/spigell/talentscout/internal/httpapi"
	"github.com/spigell/talentscout/internal/logger"
	"github.com/spigell/talentscout/internal/metrics"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve interviews over HTTP",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "listen address (default :8080)")
	serveCmd.Flags().Bool("consent", false, "store finished interviews")

	viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
	viper.BindPFlag("consent", serveCmd.Flags().Lookup("consent"))
}

func serve() {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"), "stdout")
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the talentscout server", zap.String("version", version))

	store, err := newBackend(ctx, config.Storage, logger)
	if err != nil {
		logger.Fatal("creating the storage backend", zap.Error(err))
	}
	defer store.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg, config.MetricsNamespace)

	generator := newGenerator(ctx, config.LLM, logger)
	sessions := httpapi.NewRegistry(config.Server.IdleTimeout)
	defer sessions.Close()

	api := httpapi.New(sessions, func() *dialogue.Controller {
		return dialogue.New(dialogue.Deps{
			Generator: generator,
			Store:     store.Store,
			Logger:    logger,
			Metrics:   m,
			Consent:   config.Consent,
		})
	}, reg, logger)

	httpServer := &http.Server{
		Addr:              config.Server.Addr,
		Handler:           api.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	runCtx, runCancel := context.WithCancel(ctx)
	defer runCancel()
	sessions.StartJanitor(runCtx, time.Minute)

	go func() {
		logger.Info("server listening", zap.String("addr", config.Server.Addr), zap.Bool("consent", config.Consent))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen error", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	logger.Info("shutdown signal received")

	runCancel()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
		_ = httpServer.Close()
	}

	logger.Info("shutdown complete")
}
