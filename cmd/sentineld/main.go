package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"sentinel/internal/bus"
	"sentinel/internal/catalog"
	"sentinel/internal/config"
	"sentinel/internal/daemon"
	"sentinel/internal/fleet"
	"sentinel/internal/logging"
	"sentinel/internal/media"
	"sentinel/internal/notifications"
	"sentinel/internal/reconcile"
	"sentinel/internal/recorder"
	"sentinel/internal/simulate"
	"sentinel/internal/supervisor"
)

func main() {
	configPath := flag.String("config", "", "configuration file path")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatalf("prepare directories: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	store, err := catalog.Open(cfg)
	if err != nil {
		logger.Error("open catalog", logging.Error(err))
		os.Exit(1)
	}

	runner, err := media.NewRunner(cfg.FFmpegBinary())
	if err != nil {
		logger.Error("init process runner", logging.Error(err))
		os.Exit(1)
	}

	registry := fleet.NewRegistry(cfg)
	states := fleet.NewStateMap(registry)
	eventBus := bus.New()
	notifier := notifications.NewService(cfg)

	pipeline := recorder.New(states, runner, store, eventBus, notifier, cfg, logger)
	classifier := supervisor.NewClassifier(states, pipeline, logger)
	sup := supervisor.New(registry, states, supervisor.NewMQTTDialer(cfg.Supervisor), classifier, cfg.Supervisor, logger)
	scanner := reconcile.New(registry, store, runner, cfg, logger)
	engine := simulate.New(registry, store, eventBus, cfg, logger)

	d, err := daemon.New(daemon.Deps{
		Config:     cfg,
		Logger:     logger,
		Store:      store,
		Registry:   registry,
		States:     states,
		Supervisor: sup,
		Scanner:    scanner,
		Engine:     engine,
		Bus:        eventBus,
		Notifier:   notifier,
	})
	if err != nil {
		logger.Error("create daemon", logging.Error(err))
		os.Exit(1)
	}
	defer d.Close()

	if err := d.Start(ctx); err != nil {
		logger.Error("daemon start", logging.Error(err))
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("sentineld shutting down")
	d.Stop()
	classifier.Wait()
}
