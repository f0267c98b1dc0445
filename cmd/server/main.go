package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"impulse-server/internal/engine"
	"impulse-server/internal/journal"
	"impulse-server/internal/server"
	"impulse-server/internal/version"
	"impulse-server/pkg/logger"
)

func init() {
	logger.Init()
}

func main() {
	// 1. Парсинг конфигурации
	var replayPath string
	var replayDir string
	var journalPath string
	var historyLimit int
	var holdMs int

	flag.StringVar(&replayPath, "replay", "", "Path to .imrp replay file to simulate")
	flag.StringVar(&replayDir, "replay-dir", "replays", "Directory for recorded input sessions")
	flag.StringVar(&journalPath, "journal", "data/journal.db", "Path to command journal database (empty to disable)")
	flag.IntVar(&historyLimit, "history", 64, "Undo history depth")
	flag.IntVar(&holdMs, "hold", 500, "Hold threshold in milliseconds")
	flag.Parse()

	logger.Log.Info("Starting Impulse Server...")
	logger.Log.Info(version.String())

	cfg := engine.NewConfig()
	cfg.ReplayDir = replayDir
	cfg.JournalPath = journalPath
	cfg.HistoryLimit = historyLimit
	cfg.HoldThreshold = time.Duration(holdMs) * time.Millisecond

	// РЕЖИМ РЕПЛЕЯ
	if replayPath != "" {
		logger.Log.Info("💿 Mode: Replay Simulation")

		svc := engine.NewService(cfg)
		session, err := svc.Replay.Load(replayPath)
		if err != nil {
			logger.Log.Fatal("Failed to load replay: ", err)
		}

		svc.Playback(session)
		logger.Log.Infof("Simulation done: actor at (%d,%d), history depth %d",
			svc.Actor.Pos.X, svc.Actor.Pos.Y, svc.History.Len())
		return
	}

	port := os.Getenv("IMPULSE_PORT")
	if port == "" {
		port = "8080"
	}

	// 2. Инициализация ядра
	svc := engine.NewService(cfg)

	if journalPath != "" {
		jr, err := journal.Open(context.Background(), journalPath)
		if err != nil {
			logger.Log.WithError(err).Warn("Journal disabled")
		} else {
			svc.Journal = jr
			defer jr.Close()
		}
	}

	svc.Start()

	// Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// 3. Запуск сервера
	srv := server.New(svc, port)

	go func() {
		if err := srv.Run(); err != nil {
			logger.Log.Fatal("Server start error:", err)
		}
	}()

	<-stop
	logger.Log.Info("Shutting down...")

	svc.Stop()

	logger.Log.Info("Done.")
}
