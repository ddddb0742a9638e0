package bootstrap

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"pdflingua/internal/config"
	"pdflingua/internal/model"
	mysqlClient "pdflingua/internal/platform/mysql"
	rabbitmqClient "pdflingua/internal/platform/rabbitmq"
	redisClient "pdflingua/internal/platform/redis"
	"pdflingua/internal/repository"
	"pdflingua/internal/storage"
	"pdflingua/internal/worker"
)

type App struct {
	Config      *config.Config
	MySQL       *gorm.DB
	Redis       *redis.Client
	MQConn      *amqp.Connection
	FileStore   *storage.FileStore
	UsageWorker *worker.UsagePersistWorker

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	mysqlDB, err := mysqlClient.New(ctx, cfg.MySQLDSN())
	if err != nil {
		return nil, err
	}
	if err := mysqlDB.AutoMigrate(
		&model.User{},
		&model.File{},
		&model.TranslationRecord{},
		&model.Prompt{},
		&model.UsageLog{},
	); err != nil {
		return nil, fmt.Errorf("auto migrate tables failed: %w", err)
	}

	redisCli, err := redisClient.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, err
	}

	mqConn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL)
	if err != nil {
		return nil, err
	}

	fileStore, err := storage.NewFileStore(cfg.Storage.UploadDir)
	if err != nil {
		return nil, err
	}

	usageRepo := repository.NewUsageLogRepository(mysqlDB)
	usageWorker := worker.NewUsagePersistWorker(mqConn, usageRepo, cfg.RabbitMQ.UsagePersistQueue)
	if err := usageWorker.Start(ctx); err != nil {
		return nil, fmt.Errorf("start usage worker failed: %w", err)
	}

	return &App{
		Config:      cfg,
		MySQL:       mysqlDB,
		Redis:       redisCli,
		MQConn:      mqConn,
		FileStore:   fileStore,
		UsageWorker: usageWorker,
		StartedAt:   time.Now(),
	}, nil
}

func (a *App) Close() error {
	var closeErr error
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.UsageWorker != nil {
		a.UsageWorker.Close()
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MySQL != nil {
		sqlDB, err := a.MySQL.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	return closeErr
}
