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

	// Files in configured order first, broker last.
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

	w := worker.NewAggregator(sources, display.NewConsole(os.Stdout), cfg.Consumer.Interval, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go w.Start(ctx)

	logger.Infow("consumer started",
		"interval", cfg.Consumer.Interval,
		"files", cfg.Consumer.Files,
		"kafka", kafkaSource.Enabled(),
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	cancel()
}
