package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"sosy-match/internal/config"
	"sosy-match/internal/db"
	apihttp "sosy-match/internal/http"
	"sosy-match/internal/repository"
	"sosy-match/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	userRepo := repository.NewPgUserRepository(pool)
	testRepo := repository.NewPgPersonalityTestRepository(pool)
	daylightRepo := repository.NewPgDaylightSessionRepository(pool)
	profileRepo := repository.NewPgUserProfileRepository(pool)
	attendeeRepo := repository.NewPgEventAttendeeRepository(pool)
	eventSessionRepo := repository.NewPgEventSessionRepository(pool)
	feedbackRepo := repository.NewPgEnergyFeedbackRepository(pool)

	var (
		tokenStore  service.TokenStore
		resultCache service.SessionResultCache
	)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			tokenStore = service.NewRedisTokenStore(redisClient)
			resultCache = service.NewRedisSessionResultCache(redisClient, logger, time.Duration(cfg.SessionCacheTTLMins)*time.Minute)
		}
		cancel()
	}

	jwtSvc := service.NewJWTServiceWithStore(
		cfg.JWTSecret,
		time.Duration(cfg.JWTAccessTTLMinutes)*time.Minute,
		time.Duration(cfg.JWTRefreshTTLMinutes)*time.Minute,
		tokenStore,
	)

	userSvc := service.NewUserService(logger, userRepo)
	daylightSvc := service.NewDaylightService(logger, userRepo, testRepo, daylightRepo, resultCache)
	daylightSvc.DefaultThreshold = cfg.MatchThreshold
	daylightSvc.SeedLimit = cfg.MatchSeedLimit
	eventSvc := service.NewEventMatchingService(logger, attendeeRepo, profileRepo, eventSessionRepo)
	eventSvc.EnforceBalance = cfg.EnforceGroupBalance
	profileSvc := service.NewProfileService(profileRepo)
	feedbackSvc := service.NewFeedbackService(logger, feedbackRepo, profileRepo, service.ReliabilityRule{Alpha: cfg.ReliabilitySmoothing})

	authHandler := apihttp.NewAuthHandler(logger, userSvc, jwtSvc)
	daylightHandler := apihttp.NewDaylightHandler(logger, daylightSvc)
	eventHandler := apihttp.NewEventHandler(logger, eventSvc)
	profileHandler := apihttp.NewProfileHandler(logger, profileSvc, feedbackSvc)
	router := apihttp.NewRouter(logger, jwtSvc, authHandler, daylightHandler, eventHandler, profileHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
