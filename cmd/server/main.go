package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fxvest/internal/auth"
	"fxvest/internal/config"
	cronrunner "fxvest/internal/cron"
	"fxvest/internal/db"
	"fxvest/internal/handler"
	"fxvest/internal/logger"
	"fxvest/internal/referral"
	gormrepository "fxvest/internal/repository/gorm"
	"fxvest/internal/service"
)

func main() {
	cfgPath := os.Getenv("FX_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("FX_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	logger, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	dbConn, err := db.Open(cfg.DB)
	if err != nil {
		logger.Fatal("db open failed", zap.Error(err))
	}
	defer db.Close(dbConn)

	if err := db.SetTimezone(dbConn, cfg.DB.Timezone); err != nil {
		logger.Warn("failed to set timezone", zap.Error(err))
	}
	if err := db.AutoMigrate(dbConn); err != nil {
		logger.Fatal("auto-migrate failed", zap.Error(err))
	}

	store := gormrepository.New(dbConn.Gorm)
	graph := &referral.Graph{Repo: store}

	rateSvc := &service.RateService{Repo: store}
	if err := rateSvc.EnsureDefaultRates(context.Background(), cfg.Rates); err != nil {
		logger.Fatal("seed commission rates failed", zap.Error(err))
	}

	accountSvc := &service.AccountService{Repo: store, Logger: logger}
	rewardSvc := &service.RewardService{Repo: store, Rates: rateSvc, Logger: logger}
	investmentSvc := &service.InvestmentService{Repo: store, Reward: rewardSvc, Logger: logger}
	statsSvc := &service.StatsService{Repo: store, Graph: graph}
	batch := &service.CommissionBatch{Repo: store, Graph: graph, Rates: rateSvc, Logger: logger}

	jwtSigner := auth.JWT{
		Secret:   []byte(cfg.Auth.JWTSecret),
		TokenTTL: cfg.Auth.TokenTTL,
	}
	if len(jwtSigner.Secret) == 0 {
		logger.Fatal("auth.jwt_secret must be configured")
	}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware())

	handler.NewHealthHandler(dbConn).Register(engine)
	handler.NewAuthHandler(accountSvc, jwtSigner).Register(engine)
	handler.NewUserHandler(accountSvc, jwtSigner).Register(engine)
	handler.NewInvestmentHandler(investmentSvc, jwtSigner).Register(engine)
	handler.NewTransactionHandler(accountSvc, jwtSigner).Register(engine)
	handler.NewReferralHandler(statsSvc, jwtSigner).Register(engine)
	handler.NewAdminHandler(batch, rateSvc, cfg.Auth.AdminToken).Register(engine)

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cronRunner := cronrunner.New(logger, ctx)
	if cfg.Cron.Enabled {
		_, err = cronRunner.Add(cfg.Cron.DailyCommissions, func(ctx context.Context) {
			result, err := batch.RunDailyCommissions(ctx)
			if err != nil {
				logger.Error("daily commission run failed", zap.Error(err))
				return
			}
			logger.Info("daily commission run ok",
				zap.String("day", result.Day.Format("2006-01-02")),
				zap.Int("positions", result.Positions),
				zap.Int("credited", result.Credited),
				zap.Int("skipped", result.Skipped),
				zap.Int("failed", result.Failed),
			)
		})
		if err != nil {
			logger.Fatal("cron register daily commissions failed", zap.Error(err))
		}
		cronRunner.Start()
		defer cronRunner.Stop()
	}

	errCh := make(chan error, 2)

	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
