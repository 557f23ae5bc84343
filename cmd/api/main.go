package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"yatube/internal/app"
	"yatube/internal/config"
	"yatube/internal/pkg"
)

func main() {
	conf, err := config.New(".env")
	if err != nil {
		log.Fatalf("[SETUP ERROR] error when reading config: %v", err)
	}

	logger := pkg.NewLogger(conf.Log.Level, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, conf, logger); err != nil {
		logger.Error("application stopped", pkg.Err(err))
		os.Exit(1)
	}

	logger.Info("service shut down gracefully")
}
