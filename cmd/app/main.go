package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MemeBoard/board-service/internal/config"
	"github.com/MemeBoard/board-service/internal/handler"
	"github.com/MemeBoard/board-service/internal/media"
	natsClient "github.com/MemeBoard/board-service/internal/nats"
	"github.com/MemeBoard/board-service/internal/publisher"
	"github.com/MemeBoard/board-service/internal/repository"
	"github.com/MemeBoard/board-service/internal/repository/postgres"
	"github.com/MemeBoard/board-service/internal/server"
	"github.com/MemeBoard/board-service/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	if err := loadEnv(); err != nil {
		logger.Sugar().Warnf("failed to load .env file, using process environment: %s", err.Error())
	}

	if err := initConfig(); err != nil {
		logger.Sugar().Panicf("failed to initialize yaml config: %s", err.Error())
	}

	if viper.GetString("app.env") != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	dbConfig := config.DBConfig{
		Username:                 os.Getenv("POSTGRES_USER"),
		Password:                 os.Getenv("POSTGRES_PASSWORD"),
		Host:                     os.Getenv("POSTGRES_HOST"),
		Port:                     os.Getenv("POSTGRES_PORT"),
		DBName:                   os.Getenv("POSTGRES_DATABASE"),
		SSLMode:                  os.Getenv("POSTGRES_SSLMODE"),
		MaxConns:                 viper.GetInt32("postgres.max_conns"),
		StatementTimeout:         viper.GetDuration("postgres.statement_timeout"),
		LockTimeout:              viper.GetDuration("postgres.lock_timeout"),
		IdleInTransactionTimeout: viper.GetDuration("postgres.idle_in_transaction_timeout"),
	}
	db, err := postgres.Connect(ctx, dbConfig)
	if err != nil {
		logger.Sugar().Panicf("failed to connect to postgres: %s", err.Error())
	}
	defer db.Close()
	if err := db.Ping(ctx); err != nil {
		logger.Sugar().Panicf("failed to ping postgres: %s", err.Error())
	}
	logger.Info("Successfully connected to PostgreSQL")

	if err := postgres.Migrate(ctx, db); err != nil {
		logger.Sugar().Panicf("failed to migrate postgres schema: %s", err.Error())
	}

	redisConfig := config.RedisConfig{
		Addr:     os.Getenv("REDIS_ADDR"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       viper.GetInt("redis.db"),
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     redisConfig.Addr,
		Password: redisConfig.Password,
		DB:       redisConfig.DB,
	})
	defer rdb.Close()
	pong, err := rdb.Ping(ctx).Result()
	if err != nil {
		logger.Sugar().Panicf("failed to ping redis: %s", err.Error())
	}
	logger.Sugar().Infof("Successfully connected to Redis: %s", pong)

	var nats *natsClient.Client
	if natsURL := os.Getenv("NATS_URL"); natsURL != "" {
		nats, err = natsClient.NewClient(natsClient.Config{
			URL:           natsURL,
			MaxReconnects: viper.GetInt("nats.max_reconnects"),
			ReconnectWait: viper.GetDuration("nats.reconnect_wait"),
			ClientName:    viper.GetString("app.name"),
		}, logger)
		if err != nil {
			logger.Sugar().Panicf("failed to connect to nats: %s", err.Error())
		}
		defer nats.Drain()
		logger.Info("Successfully connected to NATS")
	} else {
		logger.Info("NATS_URL is not set, domain events are disabled")
	}

	mediaConfig := config.MediaConfig{
		Driver:    viper.GetString("media.driver"),
		Dir:       viper.GetString("media.dir"),
		URLPrefix: viper.GetString("media.url_prefix"),
		CDNOrigin: os.Getenv("CDN_ORIGIN"),
		MaxSize:   viper.GetInt64("media.max_size"),
	}
	storage, err := newMediaStorage(mediaConfig)
	if err != nil {
		logger.Sugar().Panicf("failed to initialize media storage: %s", err.Error())
	}

	repos := repository.New(db, rdb, logger)
	services := service.New(logger, repos, storage, publisher.New(nats), service.Config{
		MaxMediaSize:     mediaConfig.MaxSize,
		TrendingCacheTTL: viper.GetDuration("cache.trending_ttl"),
	})

	handlerConfig := handler.Config{
		AllowOrigins:   viper.GetStringSlice("client.origins"),
		MaxUploadSize:  mediaConfig.MaxSize,
		RequestTimeout: viper.GetDuration("app.request_timeout"),
	}
	if mediaConfig.Driver == config.MediaDriverLocal {
		handlerConfig.MediaDir = mediaConfig.Dir
		handlerConfig.MediaURLPrefix = mediaConfig.URLPrefix
	}
	handlers := handler.New(services, logger, handlerConfig)

	srv := server.New()
	serverConfig := config.ServerConfig{
		Port:           viper.GetString("app.port"),
		Handler:        handlers.InitRoutes(),
		MaxHeaderBytes: 1 << 20,
		ReadTimeout:    viper.GetDuration("app.read_timeout"),
		WriteTimeout:   viper.GetDuration("app.write_timeout"),
	}
	go func(srv *server.Server, cfg config.ServerConfig) {
		if err := srv.Run(cfg); err != nil {
			logger.Sugar().Panicf("failed to run http server: %s", err.Error())
		}
	}(srv, serverConfig)

	logger.Sugar().Infof("Server started on port %s", serverConfig.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logger.Info("Server shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Errorf("failed to shut down http server: %s", err.Error())
	}
}

func loadEnv() error {
	return godotenv.Load()
}

func initConfig() error {
	viper.AddConfigPath(".")
	viper.SetConfigType("yaml")
	viper.SetConfigName("app")
	return viper.ReadInConfig()
}

func newMediaStorage(cfg config.MediaConfig) (media.Storage, error) {
	if cfg.Driver == config.MediaDriverCDN {
		return media.NewCDN(cfg.CDNOrigin), nil
	}
	return media.NewLocal(cfg.Dir, cfg.URLPrefix)
}
