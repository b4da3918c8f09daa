package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"streamlab/internal/config"
	"streamlab/internal/domain"
	"streamlab/internal/logging"
	"streamlab/internal/sink"
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

	fileSink, err := sink.NewFile(cfg.Storage.FilePath)
	if err != nil {
		log.Fatalf("failed to open file sink: %v", err)
	}

	sqliteSink, err := sink.NewSQLite(cfg.Storage.SQLitePath)
	if err != nil {
		log.Fatalf("failed to open sqlite sink: %v", err)
	}

	duckSink, err := sink.NewDuckDB(cfg.Storage.DuckDBPath)
	if err != nil {
		log.Fatalf("failed to open duckdb sink: %v", err)
	}

	kafkaSink := sink.NewKafka(cfg.Queue.Brokers, cfg.Queue.Topic, logger)

	fanout := sink.NewFanout(logger, fileSink, sqliteSink, duckSink, kafkaSink)
	defer fanout.Close()

	gen := domain.Generator{Author: cfg.Producer.Author}
	w := worker.NewEmitter(gen, fanout, cfg.Producer.Interval, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go w.Start(ctx)

	logger.Infow("producer started",
		"interval", cfg.Producer.Interval,
		"file", cfg.Storage.FilePath,
		"sqlite", cfg.Storage.SQLitePath,
		"duckdb", cfg.Storage.DuckDBPath,
		"kafka", kafkaSink.Enabled(),
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Infow("shutting down", "sent", w.Sent())
	cancel()
}
