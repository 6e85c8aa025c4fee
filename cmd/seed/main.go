// Package main loads the activity catalogue into the configured database.
//
// Usage:
//
//	seed [-file activities.yaml] [-reset]
//
// Without -file the SEED_FILE environment variable is used, then the
// embedded Mergington catalogue.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mergington/activities/config"
	"github.com/mergington/activities/internal/seed"
	"github.com/mergington/activities/internal/store/backend"
)

func main() {
	file := flag.String("file", "", "catalogue YAML file (default: $SEED_FILE or embedded catalogue)")
	reset := flag.Bool("reset", false, "delete listed activities and their participants before recreating them")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}

	logger := newLogger()
	defer logger.Sync()

	path := *file
	if path == "" {
		path = cfg.Seed.File
	}
	entries, err := seed.Load(path)
	if err != nil {
		logger.Fatal("load catalogue", zap.Error(err), zap.String("file", path))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := backend.Open(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer st.Close()

	res, err := seed.Apply(ctx, st, entries, seed.Options{Reset: *reset}, logger)
	if err != nil {
		logger.Fatal("seed", zap.Error(err))
	}
	fmt.Printf("created %d, updated %d, deleted %d activities\n", res.Created, res.Updated, res.Deleted)
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
