package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"lingua_tutor_server/internal/config"
	dao "lingua_tutor_server/internal/dao/mysql"
	myredis "lingua_tutor_server/internal/dao/redis"
	"lingua_tutor_server/internal/handler"
	"lingua_tutor_server/internal/https_server"
	"lingua_tutor_server/internal/infrastructure/logger"
	"lingua_tutor_server/internal/service"
	"lingua_tutor_server/internal/service/realtime"
	"lingua_tutor_server/pkg/util/jwt"
	"lingua_tutor_server/pkg/util/snowflake"

	"go.uber.org/zap"
)

func main() {
	// 1. configuration
	conf := config.GetConfig()

	// 2. logging
	if err := logger.Init(&conf.LogConfig, "dev"); err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	zap.L().Info("logger initialized")

	// 3. database
	dao.Init()
	zap.L().Info("database initialized")

	// 4. redis
	myredis.Init()
	zap.L().Info("redis initialized")

	// 5. jwt and snowflake
	jwt.Init(conf.JWTConfig.Secret, conf.JWTConfig.AccessTokenExpiry, conf.JWTConfig.RefreshTokenExpiry)
	snowflake.Init(conf.SnowflakeConfig.MachineID)
	zap.L().Info("jwt and snowflake initialized")

	// 6. validator translation
	if err := handler.InitTrans("en"); err != nil {
		zap.L().Fatal("validator translation init failed", zap.Error(err))
	}

	// 7. realtime event fan-out
	rtServer := realtime.NewServer(conf.KafkaConfig.MessageMode)
	rtServer.Start()
	zap.L().Info("realtime server started", zap.String("mode", conf.KafkaConfig.MessageMode))

	// 8. services and handlers (dependency injection)
	service.InitServices(dao.Repos, myredis.GetCacheService(), rtServer)
	handlers := handler.NewHandlers(service.Svc, rtServer)
	zap.L().Info("service layer initialized")

	// 9. http server
	engine := https_server.Init(handlers)

	host := conf.MainConfig.Host
	port := conf.MainConfig.Port
	go func() {
		if err := engine.Run(fmt.Sprintf("%s:%d", host, port)); err != nil {
			zap.L().Fatal("server running fault", zap.Error(err))
		}
	}()
	zap.L().Info("server listening", zap.String("addr", fmt.Sprintf("%s:%d", host, port)))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zap.L().Info("shutting down...")
	rtServer.Close()
	zap.L().Info("server stopped")
}
