package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	_ "github.com/addisbites/ordering-system/docs"
	"github.com/addisbites/ordering-system/internal/api"
	"github.com/addisbites/ordering-system/internal/core/ports"
	"github.com/addisbites/ordering-system/internal/core/service"
	"github.com/addisbites/ordering-system/internal/infrastructure/config"
	"github.com/addisbites/ordering-system/internal/infrastructure/db/memory"
	mongodb "github.com/addisbites/ordering-system/internal/infrastructure/db/mongo"
	redisdb "github.com/addisbites/ordering-system/internal/infrastructure/db/redis"
	"github.com/addisbites/ordering-system/internal/infrastructure/queue"
	"github.com/addisbites/ordering-system/internal/initdata"
	"github.com/addisbites/ordering-system/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title        Ordering System API
// @version      1.0
// @description  Telegram mini-app food ordering backend with courier dispatch.
// @BasePath     /api/v1
//
// @securityDefinitions.apikey BearerAuth
// @in   header
// @name Authorization
func main() {
	boot := zerolog.New(os.Stderr).With().Timestamp().Logger()
	cfg := config.Load(boot)

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- MongoDB ---
	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	orderRepo := mongodb.NewOrderRepository(db)
	staffRepo := mongodb.NewStaffRepository(db)
	eventRepo := mongodb.NewDeliveryEventRepository(db)

	if err := orderRepo.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("order index creation failed")
	}
	if err := staffRepo.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("staff index creation failed")
	}

	// --- Redis (optional: in-memory fallback for single-node deployments) ---
	var (
		rdb         *redis.Client
		sessionRepo ports.SessionRepository
		dedup       service.DedupChecker
	)
	if cfg.Redis.Addr != "" {
		rdb, err = redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			log.Fatal().Err(err).Msg("redis connection failed")
		}
		defer func() { _ = rdb.Close() }()
		sessionRepo = redisdb.NewSessionRepository(rdb)
		dedup = redisdb.NewDedupChecker(rdb)
	} else {
		log.Warn().Msg("redis not configured, using in-memory session and dedup stores")
		sessionRepo = memory.NewSessionRepository()
		dedup = memory.NewDedupChecker()
	}

	// --- Handshake verification (fails closed without a bot token) ---
	validator, err := initdata.NewValidator(cfg.BotToken, initdata.Options{
		MaxAge:    cfg.InitData.MaxAge,
		ClockSkew: cfg.InitData.ClockSkew,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("telegram handshake verification unavailable")
	}

	// --- Services ---
	sessionService := service.NewSessionService(sessionRepo, cfg.Session.TTL, cfg.Session.TokenBytes, log)
	authService := service.NewAuthService(validator, sessionService, log)
	orderService := service.NewOrderService(orderRepo, log)
	staffService := service.NewStaffService(staffRepo, cfg.JWTSecret, 24*time.Hour)
	eventService := service.NewEventService(orderRepo, eventRepo, dedup, log)

	dispatcher := queue.NewDispatcher(0, eventService, log)
	dispatcher.Start(ctx)

	e := api.NewRouter(api.Deps{
		Log:          log,
		JWTSecret:    cfg.JWTSecret,
		AuthService:  authService,
		OrderService: orderService,
		StaffService: staffService,
		StaffRepo:    staffRepo,
		Dispatcher:   dispatcher,
		Mongo:        db,
		Redis:        rdb,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server started")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
