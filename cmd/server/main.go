package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/32iterations/hccg-hsinchu-pass-guardian-sub000/config"
	"github.com/32iterations/hccg-hsinchu-pass-guardian-sub000/module/core"
	"github.com/32iterations/hccg-hsinchu-pass-guardian-sub000/module/core/service"
)

func main() {
	cfg := config.Load()

	logger, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := config.NewPostgres(cfg)
	if err != nil {
		logger.Fatal("postgres", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	amqpConn, err := config.NewRabbitMQ(cfg)
	if err != nil {
		logger.Fatal("rabbitmq", zap.Error(err))
	}
	defer func() { _ = amqpConn.Close() }()

	mqttClient, err := config.NewMQTT(cfg)
	if err != nil {
		logger.Fatal("mqtt", zap.Error(err))
	}
	defer mqttClient.Disconnect(250)

	redisClient, err := config.NewRedis(cfg)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer func() { _ = redisClient.Close() }()

	coreModule, err := core.Build(db, amqpConn, mqttClient, redisClient, service.DefaultBeaconConfig(), logger)
	if err != nil {
		logger.Fatal("core module", zap.Error(err))
	}

	if err := coreModule.StartSubscribers(); err != nil {
		logger.Fatal("start subscribers", zap.Error(err))
	}
	defer coreModule.StopSubscribers()

	r := gin.Default()

	health := config.NewHealthChecker(db, amqpConn, mqttClient, redisClient)
	health.Register(r)

	coreModule.RegisterRoutes(&r.RouterGroup)

	logger.Info("listening", zap.String("port", cfg.HTTPPort))
	if err := r.Run(":" + cfg.HTTPPort); err != nil {
		logger.Fatal("server", zap.Error(err))
	}
}
