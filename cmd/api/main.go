package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/srgjo27/transit_ticket/internal/app"
	"github.com/srgjo27/transit_ticket/internal/platform/config"
	"github.com/srgjo27/transit_ticket/internal/platform/database"
	"github.com/srgjo27/transit_ticket/internal/platform/logging"
	"github.com/srgjo27/transit_ticket/internal/platform/tracing"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(".env", os.Args[1:])
	if err != nil {
		logrus.WithError(err).Fatal("Invalid configuration")
	}

	logging.Init(cfg.Level(), cfg.DevMode)

	traceProvider, err := tracing.ConfigureTraceProvider(cfg.JaegerEndpoint)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to configure tracing")
	}

	db, err := database.NewPostgresDB(database.Config{
		Host:         cfg.DB.Host,
		Port:         cfg.DB.Port,
		User:         cfg.DB.User,
		Password:     cfg.DB.Password,
		DBName:       cfg.DB.Name,
		MaxOpenConns: cfg.DB.MaxOpenConns,
	})
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	logrus.WithField("addr", cfg.Redis.Addr).Info("Connecting to Redis")
	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		logrus.WithError(err).Fatal("Failed to connect to Redis")
	}

	a, err := app.New(cfg, db, redisClient, traceProvider)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to build application")
	}

	if err := a.Run(ctx); err != nil {
		logrus.WithError(err).Error("Application stopped with error")
		os.Exit(1)
	}

	logrus.Info("Server exiting")
}
