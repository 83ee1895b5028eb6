package main

import (
	"context"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"attendanceBot/internal/checker"
	"attendanceBot/internal/cli"
	"attendanceBot/internal/config"
	"attendanceBot/internal/database"
	"attendanceBot/internal/logger"
	"attendanceBot/internal/migrations"
	"attendanceBot/internal/server"
	"attendanceBot/internal/vision"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Logger.Env, cfg.Logger.Level)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if err := migrations.Run(cfg, log); err != nil {
		log.Fatal("Ошибка миграций", zap.Error(err))
	}

	db, err := database.New(cfg, log)
	if err != nil {
		log.Fatal("Ошибка подключения к БД", zap.Error(err))
	}
	defer db.Close(log)

	repo := database.NewRunRepository(db.DB)

	var visionClient *vision.OpenAIClient
	if cfg.OpenAI.KeyAI != "" {
		visionClient = vision.NewClient(cfg.OpenAI.KeyAI, cfg.OpenAI.Model, cfg.OpenAI.MaxTokens, repo)
	} else {
		log.Warn("OPENAI_API_KEY не задан, решение капчи недоступно")
	}

	chk := checker.New(cfg, log.Logger, visionClient, repo)
	srv := server.New(cfg, log.Logger, chk, repo)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	console := cli.New(cfg, log, chk, repo, srv)
	console.Run(ctx)
}
