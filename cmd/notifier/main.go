package main

import (
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/chikibriki1888/telegram-vacation-bot/internal/app"
	"github.com/chikibriki1888/telegram-vacation-bot/internal/shared/apperror"
)

func main() {
	_ = godotenv.Load()
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	apperror.Init()

	if err := app.RunNotifier(); err != nil {
		logger.Fatal("run notifier failed", zap.Error(err))
	}
}
