package main

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/iliyamo/conduit/internal/auth"
	"github.com/iliyamo/conduit/internal/config"
	"github.com/iliyamo/conduit/internal/database"
	"github.com/iliyamo/conduit/internal/handler"
	"github.com/iliyamo/conduit/internal/logger"
	"github.com/iliyamo/conduit/internal/queue"
	"github.com/iliyamo/conduit/internal/repository"
	"github.com/iliyamo/conduit/internal/router"
)

func main() {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	logger.Init(cfg.Env)
	defer func() { _ = logger.Sync() }()
	log := logger.Named("server")

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal("database connect failed", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	codec := auth.NewTokenCodec([]byte(cfg.HMACKey), time.Duration(cfg.SessionTTLDays)*24*time.Hour)
	hasher := auth.NewHasher(cfg.BcryptCost, cfg.HashWorkers)

	users := repository.NewUserRepo(db)
	profiles := repository.NewProfileRepo(db)
	articles := repository.NewArticleRepo(db)
	comments := repository.NewCommentRepo(db)

	// Redis is optional; with no client the cache middleware passes through.
	rdb := config.NewRedisClient()
	cacheCfg := config.LoadCacheConfig()

	go queue.StartArticleConsumer()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())

	router.RegisterRoutes(e)
	router.RegisterAPI(e, router.Handlers{
		Users:    handler.NewUserHandler(users, codec, hasher),
		Profiles: handler.NewProfileHandler(profiles),
		Articles: handler.NewArticleHandler(articles),
		Comments: handler.NewCommentHandler(comments),
	}, codec, cacheCfg, rdb)

	addr := ":" + cfg.Port
	log.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
	if err := e.Start(addr); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
