package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	accountcmd "github.com/eaglebank/banque/internal/command"
	"github.com/eaglebank/banque/internal/config"
	"github.com/eaglebank/banque/internal/events"
	"github.com/eaglebank/banque/internal/handler"
	"github.com/eaglebank/banque/internal/models"
	accountqry "github.com/eaglebank/banque/internal/query"
	redisClient "github.com/eaglebank/banque/internal/redis"
	"github.com/eaglebank/banque/internal/repository"
	"github.com/eaglebank/banque/internal/server"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.WithError(err).Warn("failed to load .env file")
	}

	cfg, err := config.Load(".")
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}
	setupLogging(cfg)
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("failed to open account store")
	}
	defer closeStore()

	// Redis is optional: it carries the read cache and the event stream.
	var (
		cache     *redisClient.ViewCache[models.Account]
		publisher events.Publisher = events.NopPublisher{}
	)
	if cfg.CacheEnabled() {
		rdb, err := redisClient.NewClient(ctx, cfg.RedisOptions())
		if err != nil {
			log.WithError(err).Fatal("failed to connect to redis")
		}
		defer rdb.Close()

		cache = redisClient.NewViewCache[models.Account](rdb, cfg.CacheTTL)
		publisher = events.NewPublisher(rdb, cfg.EventStreamMax)
		log.WithField("addr", cfg.RedisAddr).Info("redis cache and event stream enabled")
	}

	readRepo := repository.NewAccountReadRepository(store, cache)
	commandSvc := accountcmd.NewAccountCommandService(store, readRepo, publisher)
	querySvc := accountqry.NewAccountQueryService(readRepo)
	accountHandler := handler.NewAccountHandler(commandSvc, querySvc, handler.WithStrictNotFound(cfg.StrictNotFound))

	router := server.NewRouter(cfg, accountHandler)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.WithFields(log.Fields{"port": cfg.Port, "store": cfg.StoreDriver}).Info("banque service starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("forced shutdown")
	}
}

func setupLogging(cfg *config.Config) {
	if cfg.LogFormat == "text" {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	} else {
		log.SetFormatter(&log.JSONFormatter{})
	}
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
}

// openStore returns the repository selected by STORE_DRIVER and a func that
// releases its connections.
func openStore(ctx context.Context, cfg *config.Config) (repository.AccountRepository, func(), error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open database: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to ping database: %w", err)
		}
		repo := repository.NewPostgresAccountRepository(db)
		if err := repo.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return repo, func() { db.Close() }, nil

	case config.DriverMySQL:
		db, err := gorm.Open(mysql.Open(cfg.MySQLDSN), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Warn),
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open mysql: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get mysql handle: %w", err)
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			sqlDB.Close()
			return nil, nil, fmt.Errorf("failed to ping mysql: %w", err)
		}
		repo := repository.NewGormAccountRepository(db)
		if err := repo.Migrate(ctx); err != nil {
			sqlDB.Close()
			return nil, nil, err
		}
		return repo, func() { sqlDB.Close() }, nil

	default:
		return repository.NewMemoryAccountRepository(), func() {}, nil
	}
}
