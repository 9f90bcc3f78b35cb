package app

import (
	"database/sql"

	"go-leaveflow/internal/decision"
	"go-leaveflow/internal/engine"
	"go-leaveflow/internal/leaverequest"
	"go-leaveflow/internal/messaging/kafka"
	"go-leaveflow/internal/middleware"
	"go-leaveflow/internal/saga"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	kafkaWriter *kafkago.Writer,
) error {
	// --- Repositories ---
	leaveRepo := leaverequest.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Engine client ---
	tokens := engine.NewTokenStore(rdb)
	eng := engine.NewKafkaEngine(kafkaWriter, tokens)

	// --- Services ---
	orchestrator := saga.NewOrchestrator(outboxRepo)
	leaveService := leaverequest.NewService(db, leaveRepo, orchestrator)
	decisionService := decision.NewService(leaveRepo, eng)

	// --- Handlers ---
	leaveHandler := leaverequest.NewHandler(leaveService)
	decisionHandler := decision.NewHandler(decisionService)

	// --- Routes Registration ---
	router.Use(middleware.RequestID())
	router.Use(middleware.RateLimitByIP(20, 40))

	api := router.Group("/api/v1")
	{
		leaverequest.RegisterRoutes(api, leaveHandler)
		decision.RegisterRoutes(api, decisionHandler)
	}

	return nil
}
