package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benbeisheim/chessrules-backend/cmd/server/cli"
	"github.com/benbeisheim/chessrules-backend/internal/config"
	"github.com/benbeisheim/chessrules-backend/internal/controller"
	"github.com/benbeisheim/chessrules-backend/internal/service"
	"github.com/benbeisheim/chessrules-backend/internal/storage"
)

const gracefulShutdownTimeout = 5 * time.Second

func main() {
	// inspection commands against the stores
	if len(os.Args) > 1 && os.Args[1] == "db" {
		if err := cli.Run(os.Args[2:]); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		os.Exit(0)
	}

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	opts := service.Options{
		MatchInterval: cfg.MatchInterval,
		InitialTime:   cfg.InitialClock,
	}

	if cfg.MovesDB != "" {
		moveLog, err := storage.NewMoveLog(cfg.MovesDB, cfg.Dev)
		if err != nil {
			log.Fatalf("Failed to open move log: %v", err)
		}
		defer func() {
			if err := moveLog.Close(); err != nil {
				log.Printf("Warning: failed to close move log cleanly: %v", err)
			}
		}()
		opts.Recorder = moveLog
		log.Printf("Move log: %s", cfg.MovesDB)
	} else {
		log.Printf("Move log disabled (use -moves-db to enable)")
	}

	if cfg.SnapshotDir != "" {
		snapshots, err := storage.OpenSnapshotStore(cfg.SnapshotDir)
		if err != nil {
			log.Fatalf("Failed to open snapshot store: %v", err)
		}
		defer func() {
			if err := snapshots.Close(); err != nil {
				log.Printf("Warning: failed to close snapshot store cleanly: %v", err)
			}
		}()
		opts.Snapshots = snapshots
		log.Printf("Snapshots: %s", cfg.SnapshotDir)
	} else {
		log.Printf("Snapshots disabled (use -snapshots to enable)")
	}

	gameManager := service.NewGameManager(opts)
	gameService := service.NewGameService(gameManager)

	rateLimit := 10
	if cfg.Dev {
		rateLimit = 20
	}
	app := controller.NewApp(gameService, controller.AppConfig{
		Origins:   cfg.Origins,
		RateLimit: rateLimit,
		AccessLog: true,
	})

	go func() {
		log.Printf("Chess server listening on %s (origins %v, %d req/s)", cfg.Addr, cfg.Origins, rateLimit)
		if err := app.Listen(cfg.Addr); err != nil {
			log.Printf("Server listen error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	gameManager.Close()
	log.Println("Server exited")
}
