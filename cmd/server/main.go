package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"productivity-ranker/internal/cache"
	"productivity-ranker/internal/config"
	"productivity-ranker/internal/handler"
	"productivity-ranker/internal/logger"
	"productivity-ranker/internal/middleware"
	"productivity-ranker/internal/service"
	"productivity-ranker/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
)

func main() {
	configFile := flag.String("config", "", "config file path (e.g. etc/config-dev.yaml)")
	flag.Parse()

	cfg := config.Load(*configFile)
	closeLog := logger.Init(cfg.Log)
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := cfg.OpenGormDB()
	if err != nil {
		slog.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	st := store.New(db)
	if err := st.Migrate(ctx); err != nil {
		slog.Error("migrate failed", "err", err)
		os.Exit(1)
	}

	var lbCache service.LeaderboardCache
	if rc, err := cache.NewRedis(ctx, cfg.Redis, cfg.LeaderboardTTL()); err != nil {
		slog.Warn("redis unavailable, leaderboard cache disabled", "err", err)
	} else if rc != nil {
		lbCache = rc
		defer rc.Close()
	}

	var mirror service.ScoreMirror
	raw, err := cfg.NewRawClient()
	if err != nil {
		slog.Warn("sdk client init failed", "err", err)
	}
	if raw != nil {
		mirror = service.NewCatalogSync(raw, cfg.MOI)
		slog.Info("catalog sync enabled", "database_id", cfg.MOI.DatabaseID)
	}

	if cfg.LLM.APIKey == "" {
		slog.Warn("llm api key not set, scoring and chat will fail")
	}
	aiSvc := service.NewAIService(cfg.LLM)
	lbSvc := service.NewLeaderboardService(st, lbCache)
	authSvc := service.NewAuthService(st, cfg.Auth.JWTSecret, cfg.SessionTTL(), lbSvc)
	scoringSvc := service.NewScoringService(st, aiSvc, lbSvc, mirror)
	chatSvc := service.NewChatService(st, aiSvc)
	limiter := middleware.NewRateLimiter(cfg.RateLimit.PerMinute, cfg.RateLimit.Burst)

	sched := cron.New()
	if _, err := sched.AddFunc(cfg.Cron.SessionSweep, func() {
		n, err := authSvc.SweepExpired(context.Background())
		if err != nil {
			slog.Error("session sweep failed", "err", err)
			return
		}
		dropped := limiter.Cleanup(time.Hour)
		slog.Info("session sweep", "expired", n, "idle_limiters", dropped)
	}); err != nil {
		slog.Error("bad cron schedule", "schedule", cfg.Cron.SessionSweep, "err", err)
		os.Exit(1)
	}
	sched.Start()
	defer sched.Stop()

	gin.SetMode(gin.ReleaseMode)
	r := handler.NewRouter(handler.Routes{
		Auth:          handler.NewAuthHandler(authSvc, cfg.SessionTTL(), cfg.Auth.CookieSecure),
		Entries:       handler.NewEntryHandler(service.NewEntryService(st)),
		Scores:        handler.NewScoreHandler(scoringSvc),
		Leaderboard:   handler.NewLeaderboardHandler(lbSvc),
		Chat:          handler.NewChatHandler(chatSvc),
		Authenticator: authSvc,
		Limiter:       limiter,
		DB:            st,
		AllowOrigins:  cfg.Server.AllowOrigins,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		slog.Info("server starting", "addr", cfg.Addr(), "db", cfg.Database.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownSeconds)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "err", err)
	}
}
