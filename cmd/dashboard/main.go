package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"streamlab/internal/config"
	"streamlab/internal/display"
	"streamlab/internal/logging"
	"streamlab/internal/source"
	"streamlab/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	var sources []source.Source
	for _, path := range cfg.Consumer.Files {
		sources = append(sources, source.NewFile(path, logger))
	}
	kafkaSource := source.NewKafka(cfg.Queue.Brokers, cfg.Queue.GroupID, cfg.Queue.Topic, cfg.Queue.PollWait, logger)
	sources = append(sources, kafkaSource)
	defer func() {
		for _, s := range sources {
			s.Close()
		}
	}()

	dash := display.NewDashboard(cfg.Dashboard.FlowWindow, cfg.Dashboard.StatsWindow)
	w := worker.NewAggregator(sources, dash, cfg.Consumer.Interval, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		logger.Info("shutting down")
		cancel()
	}()

	go w.Start(ctx)

	logger.Infow("dashboard started",
		"poll_interval", cfg.Consumer.Interval,
		"render_interval", cfg.Dashboard.RenderInterval,
		"kafka", kafkaSource.Enabled(),
	)

	// Render on the main goroutine; the polling loop keeps feeding the
	// dashboard even if rendering dies.
	r := display.NewRenderer(dash, os.Stdout, cfg.Dashboard.RenderInterval, logger)
	if err := r.Run(ctx); err != nil {
		<-ctx.Done()
	}
}
