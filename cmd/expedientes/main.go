package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/DioBrando0203/expedientes/internal/buildinfo"
	"github.com/DioBrando0203/expedientes/internal/cli"
	"github.com/DioBrando0203/expedientes/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	if len(cfg.Args) == 0 {
		buildinfo.PrintBuildData(os.Stdout)
	}

	app, err := cli.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		stop()
		log.Fatalf("%v", err)
	}
}
