package app

import (
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"payclaim/internal/config"
	"payclaim/internal/employee"
	"payclaim/internal/shared/connection"
)

func BuildApp(router *gin.Engine) error {
	cfg := config.Load()

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
	zap.L().Info("database connection established")

	if err := gormDB.AutoMigrate(&employee.Employee{}); err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}

	redisClient, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, 5)
	if err != nil {
		return err
	}
	zap.L().Info("redis connection established")

	return registerModules(router, cfg, sqlDB, gormDB, redisClient)
}
