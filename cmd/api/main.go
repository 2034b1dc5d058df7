package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"recipe-catalog/internal/api"
	"recipe-catalog/internal/api/middleware"
	"recipe-catalog/internal/core/auth"
	"recipe-catalog/internal/core/image"
	"recipe-catalog/internal/core/searchstate"
	"recipe-catalog/internal/core/store"
	"recipe-catalog/internal/infrastructure/config"
	"recipe-catalog/internal/pkg/common"
)

func main() {
	// 載入設定（含 .env）
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.String("store_driver", cfg.Store.Driver),
		zap.String("search_state_backend", cfg.SearchState.Backend),
		zap.String("chart_color_scheme", cfg.Chart.ColorScheme),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// 開啟食譜儲存
	db, err := store.Open(ctx, cfg.Store)
	if err != nil {
		common.LogFatal("Failed to open store", zap.Error(err))
	}
	defer db.Close()

	if cfg.Store.Seed {
		n, err := store.Seed(ctx, db)
		if err != nil {
			common.LogFatal("Failed to seed recipes", zap.Error(err))
		}
		if n > 0 {
			common.LogInfo("已寫入範例食譜", zap.Int("count", n))
		}
	}

	authService := auth.NewService(db)
	if _, err := authService.EnsureUsers(ctx, cfg.Auth.Users); err != nil {
		common.LogFatal("Failed to create users", zap.Error(err))
	}

	// 搜尋結果暫存
	states, err := searchstate.Open(cfg.SearchState)
	if err != nil {
		common.LogFatal("Failed to open search state store", zap.Error(err))
	}
	defer states.Close()

	images := image.NewService(cfg.Media)
	if err := images.EnsureDefault(); err != nil {
		common.LogWarn("無法建立預設圖片", zap.Error(err))
	}

	var limiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		limiter = middleware.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window, cfg.RateLimit.Burst)
		limiter.StartCleanup(time.Minute)
		defer limiter.Stop()
	}

	// 設置路由
	router, err := api.SetupRouter(cfg, api.Dependencies{
		Store:       db,
		States:      states,
		Auth:        authService,
		Images:      images,
		RateLimiter: limiter,
	})
	if err != nil {
		common.LogError("Failed to setup router", zap.Error(err))
		os.Exit(1)
	}

	// 設置 HTTP 服務器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 啟動服務器
	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Int("port", cfg.Server.Port),
			zap.Bool("debug", cfg.App.Debug),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			common.LogFatal("Failed to start server", zap.Error(err))
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		common.LogError("Server forced to shutdown", zap.Error(err))
		return
	}

	common.LogInfo("Server exited")
}
