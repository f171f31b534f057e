package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	redisCache "github.com/oleksiikond/contactdeck/internal/adapters/cache/redis"
	pgRepo "github.com/oleksiikond/contactdeck/internal/adapters/db/postgres"
	"github.com/oleksiikond/contactdeck/internal/adapters/mail"
	httpTransport "github.com/oleksiikond/contactdeck/internal/adapters/transport/http"
	"github.com/oleksiikond/contactdeck/internal/app/auth/password"
	"github.com/oleksiikond/contactdeck/internal/app/auth/service"
	"github.com/oleksiikond/contactdeck/internal/app/auth/token"
	"github.com/oleksiikond/contactdeck/internal/app/auth/verify"
	"github.com/oleksiikond/contactdeck/internal/infra/config"
	lg "github.com/oleksiikond/contactdeck/internal/infra/log"
	"github.com/oleksiikond/contactdeck/internal/infra/migrate"
)

const cacheTTL = time.Hour

func main() {
	zapLog := lg.Must(os.Getenv("LOG_LEVEL"))
	defer zapLog.Sync()

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("failed to load config", zap.Error(err))
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		zapLog.Fatal("failed to connect to database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		zapLog.Fatal("db handle", zap.Error(err))
	}
	defer sqlDB.Close()
	if err := migrate.Up(sqlDB); err != nil {
		zapLog.Fatal("run migrations", zap.Error(err))
	}

	redisCli := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer redisCli.Close()

	codec, err := token.NewCodec(cfg.JWTSecret, cfg.JWTAlgorithm, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	if err != nil {
		zapLog.Fatal("failed to init token codec", zap.Error(err))
	}

	validate := validator.New()
	hasher := password.NewHasher()
	users := pgRepo.NewUserRepo(db)
	cache := redisCache.NewUserCache(redisCli, cacheTTL)
	mailer := mail.NewSMTPMailer(
		cfg.MailServer, cfg.MailPort,
		cfg.MailUsername, cfg.MailPassword,
		cfg.MailFrom, cfg.BaseURL,
	)

	flow := verify.New(users, cache, codec, hasher, mailer, validate, zapLog)
	svc := service.New(users, cache, codec, hasher, flow, validate, zapLog)

	handler := httpTransport.NewHandler(svc, flow, validate, zapLog)
	router := httpTransport.NewRouter(handler, zapLog, httpTransport.RouterOptions{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: cfg.AllowCredentials,
	})

	srv := &http.Server{Addr: cfg.HTTPAddress, Handler: router}
	rootCtx, cancel := context.WithCancel(context.Background())
	g, _ := errgroup.WithContext(rootCtx)

	g.Go(func() error {
		zapLog.Info("http server listening", zap.String("addr", cfg.HTTPAddress))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLog.Info("shutdown signal received")
	cancel()

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		zapLog.Error("shutdown error", zap.Error(err))
	}
	if err := g.Wait(); err != nil {
		zapLog.Error("server terminated", zap.Error(err))
	}
}
