package app

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/chikibriki1888/telegram-vacation-bot/internal/middleware"
	"github.com/chikibriki1888/telegram-vacation-bot/internal/shared/connection"
)

func BuildApp(router *gin.Engine) error {
	// 1. Setup Infrastructure
	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}
	log.Println("✅ Database connection established")

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}

	redisClient, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		return err
	}
	log.Println("✅ Redis connection established")

	if err := migrate(gormDB); err != nil {
		return err
	}
	log.Println("✅ Schema migrated")

	router.Use(middleware.RequestID())
	router.Use(middleware.ContextLogger(zap.L()))

	// Register Modules & Routes
	return registerModules(router, sqlDB, gormDB, redisClient)
}
