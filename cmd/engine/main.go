package main

import (
	"go-leaveflow/internal/app"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	if err := app.RunEngine(); err != nil {
		logger.Fatal("run engine failed", zap.Error(err))
	}
}
