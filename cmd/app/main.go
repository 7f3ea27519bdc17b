package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"parcelhub/cmd"
	httpin "parcelhub/internal/adapters/in/http"
	"parcelhub/internal/adapters/out/kafkanotify"
	"parcelhub/internal/adapters/out/postgres"
	"parcelhub/internal/adapters/out/postgres/chatrepo"
	"parcelhub/internal/adapters/out/redisroom"
	"parcelhub/internal/core/ports"
	"parcelhub/internal/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/sirupsen/logrus"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs, err := cmd.LoadConfig(".env", os.Args[1:])
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	appLogger := logger.New(logger.Config{Level: configs.LogLevel, Format: configs.LogFormat})
	if err = run(configs, appLogger); err != nil {
		appLogger.WithError(err).Fatal("service stopped")
	}
}

func run(configs cmd.Config, appLogger *logrus.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB, err := gorm.Open(gormpostgres.Open(configs.PostgresDSN()), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("failed to connect to Postgres: %w", err)
	}
	if err = postgres.Migrate(gormDB); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	redisClient, err := redisroom.Connect(ctx, redisroom.Config{
		Addr:     configs.RedisAddr,
		Password: configs.RedisPassword,
		DB:       configs.RedisDB,
	})
	if err != nil {
		return err
	}
	defer redisClient.Close()

	notifier, closeNotifier, err := newNotifier(configs, appLogger)
	if err != nil {
		return err
	}
	defer closeNotifier()

	app := cmd.NewCompositionRoot(configs, gormDB, cmd.Collaborators{
		Notifier: notifier,
		Chats:    chatrepo.NewGormChatProvisioner(gormDB),
		Rooms:    redisroom.NewBroker(redisClient, appLogger),
	}, appLogger)

	jobManager := app.JobManager()
	if err = jobManager.StartAll(); err != nil {
		return err
	}
	defer jobManager.StopAll()

	return startWebServer(ctx, &app, configs, appLogger)
}

func newNotifier(configs cmd.Config, appLogger *logrus.Logger) (ports.Notifier, func(), error) {
	if len(configs.KafkaBrokers) == 0 {
		appLogger.Warn("KAFKA_BROKERS not set, notifications are only logged")
		return kafkanotify.NewLogNotifier(appLogger), func() {}, nil
	}

	notifier, err := kafkanotify.Connect(kafkanotify.Config{
		Brokers: configs.KafkaBrokers,
		Topic:   configs.KafkaNotificationsTopic,
	}, appLogger)
	if err != nil {
		return nil, nil, err
	}
	return notifier, func() {
		if err := notifier.Close(); err != nil {
			appLogger.WithError(err).Warn("failed to close Kafka producer")
		}
	}, nil
}

func startWebServer(ctx context.Context, app *cmd.CompositionRoot, configs cmd.Config, appLogger *logrus.Logger) error {
	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(echoLogLevel(configs.LogLevel))
	e.Use(middleware.Recover())
	e.Use(httpin.Observability(appLogger.WithField("component", "http")))

	if err := app.HTTPServer().Register(e); err != nil {
		return fmt.Errorf("failed to register HTTP routes: %w", err)
	}
	e.GET("/ws/tracking", app.TrackingHub().Serve)

	errCh := make(chan error, 1)
	go func() {
		errCh <- e.Start(fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort))
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	appLogger.Info("shutting down")
	return e.Shutdown(shutdownCtx)
}

func echoLogLevel(level string) log.Lvl {
	switch level {
	case "debug", "trace":
		return log.DEBUG
	case "warn", "warning":
		return log.WARN
	case "error", "fatal", "panic":
		return log.ERROR
	default:
		return log.INFO
	}
}
