package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/k1s0-platform/system-server-go-coupon/internal/adapter/handler"
	"github.com/k1s0-platform/system-server-go-coupon/internal/adapter/middleware"
	couponrepo "github.com/k1s0-platform/system-server-go-coupon/internal/adapter/repository"
	"github.com/k1s0-platform/system-server-go-coupon/internal/infra/cache"
	"github.com/k1s0-platform/system-server-go-coupon/internal/infra/clock"
	"github.com/k1s0-platform/system-server-go-coupon/internal/infra/config"
	"github.com/k1s0-platform/system-server-go-coupon/internal/infra/messaging"
	"github.com/k1s0-platform/system-server-go-coupon/internal/infra/persistence"
	"github.com/k1s0-platform/system-server-go-coupon/internal/infra/quota"
	"github.com/k1s0-platform/system-server-go-coupon/internal/usecase"
)

func main() {
	// --- Config ---
	cfg, err := config.Load("config/config.yaml")
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("config validation failed", "error", err)
		os.Exit(1)
	}

	// --- Logger ---
	logger := config.NewLogger(
		cfg.App.Environment, cfg.App.Name, cfg.App.Version, cfg.App.Tier,
	)
	slog.SetDefault(logger)

	// --- Database ---
	db, err := persistence.NewDB(cfg.Database)
	if err != nil {
		slog.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// --- Redis（キャッシュと使用量カウンターで共用） ---
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	cacheClient := cache.NewRedisCacheClient(redisClient)
	store := cache.NewStore(cacheClient)
	counterStore := quota.NewRedisCounterStore(redisClient)

	// --- Kafka ---
	producer := messaging.NewKafkaProducer(cfg.Kafka)
	defer producer.Close()

	// --- DI ---
	clk := clock.NewSystemClock()
	tracker := quota.NewTracker(counterStore, clk)
	cacheTTL := cfg.Redis.GetCacheTTL()

	couponRepo := couponrepo.NewCouponPostgresRepository(db)
	recordRepo := couponrepo.NewRedeemRecordPostgresRepository(db)
	apiKeyRepo := couponrepo.NewApiKeyPostgresRepository(db)
	companyRepo := couponrepo.NewCompanyPostgresRepository(db)

	// Usecases
	listCouponsUC := usecase.NewListCouponsUseCase(couponRepo, store, clk, cacheTTL)
	getCouponUC := usecase.NewGetCouponUseCase(couponRepo, store, clk, cacheTTL)
	createCouponUC := usecase.NewCreateCouponUseCase(couponRepo, store, producer, clk)
	updateCouponUC := usecase.NewUpdateCouponUseCase(couponRepo, store, producer, clk)
	deleteCouponUC := usecase.NewDeleteCouponUseCase(couponRepo, store, producer, clk)
	redeemUC := usecase.NewRedeemCouponUseCase(couponRepo, recordRepo, store, producer, clk, cacheTTL)
	authKeyUC := usecase.NewAuthenticateAPIKeyUseCase(apiKeyRepo, store, cacheTTL)
	registerUC := usecase.NewRegisterCompanyUseCase(companyRepo, apiKeyRepo, clk)
	issueMagicLinkUC := usecase.NewIssueMagicLinkUseCase(companyRepo, cacheClient, cfg.Server.BaseURL)
	verifyMagicLinkUC := usecase.NewVerifyMagicLinkUseCase(companyRepo, apiKeyRepo, cacheClient)
	applyPlanUC := usecase.NewApplyPlanChangeUseCase(apiKeyRepo, store, producer, clk)

	// --- REST Router ---
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())

	// ヘルスチェック
	healthHandler := handler.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handler.HealthChecker{
		"database": db,
		"cache":    cacheClient,
		"kafka":    producer,
	})
	r.GET("/healthz", healthHandler.Healthz)
	r.GET("/readyz", healthHandler.Readyz)

	// ハンドラー
	couponHandler := handler.NewCouponHandler(
		listCouponsUC, getCouponUC, createCouponUC, updateCouponUC, deleteCouponUC,
	)
	redeemHandler := handler.NewRedeemHandler(redeemUC)
	companyHandler := handler.NewCompanyHandler(registerUC, issueMagicLinkUC)
	authHandler := handler.NewAuthHandler(issueMagicLinkUC, verifyMagicLinkUC)
	webhookHandler := handler.NewBillingWebhookHandler(applyPlanUC, cfg.Billing.WebhookSecret)
	gate := middleware.NewAPIKeyGate(authKeyUC, tracker)

	v1 := r.Group("/v1")
	{
		// 課金対象（認証 + クォータ消費）
		v1.GET("/coupons", gate.Handler(true), couponHandler.ListCoupons)
		v1.GET("/coupons/:id", gate.Handler(true), couponHandler.GetCoupon)
		v1.POST("/redeem", gate.Handler(true), redeemHandler.Redeem)

		// 認証必須・非課金（クーポン管理）
		v1.POST("/coupons", gate.Handler(false), couponHandler.CreateCoupon)
		v1.PUT("/coupons/:id", gate.Handler(false), couponHandler.UpdateCoupon)
		v1.DELETE("/coupons/:id", gate.Handler(false), couponHandler.DeleteCoupon)

		// 認証不要
		v1.POST("/companies", companyHandler.Register)
		v1.POST("/auth/magiclink", authHandler.IssueMagicLink)
		v1.POST("/auth/magiclink/verify", authHandler.VerifyMagicLink)
	}
	r.POST("/webhooks/billing", webhookHandler.HandlePlanChange)

	// --- REST Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		slog.Info("REST server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("REST server failed", "error", err)
			os.Exit(1)
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server...")

	shutdownTimeout := cfg.Server.ShutdownTimeout
	if shutdownTimeout == 0 {
		shutdownTimeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("REST server forced to shutdown", "error", err)
	}
	slog.Info("server exited")
}
