package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	authHandler "recipe-catalog/internal/api/handlers/auth"
	"recipe-catalog/internal/api/handlers/health"
	recipeHandler "recipe-catalog/internal/api/handlers/recipe"
	"recipe-catalog/internal/api/middleware"
	"recipe-catalog/internal/core/auth"
	"recipe-catalog/internal/core/image"
	"recipe-catalog/internal/core/searchstate"
	"recipe-catalog/internal/core/store"
	"recipe-catalog/internal/infrastructure/config"
	"recipe-catalog/internal/pkg/common"
	"recipe-catalog/internal/web"
)

const (
	// 超時設置
	timeoutDuration = 30 * time.Second
	// 請求體大小限制 (10MB)，設定未指定時使用
	defaultMaxBodySize = 10 << 20
	// 登入頁
	loginPath = "/login"
)

// Dependencies 路由需要的服務
type Dependencies struct {
	Store       store.Store
	States      searchstate.Store
	Auth        *auth.Service
	Images      *image.Service
	RateLimiter *middleware.RateLimiter // nil 表示不限速
}

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, deps Dependencies) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if deps.Store == nil || deps.States == nil || deps.Auth == nil || deps.Images == nil {
		return nil, fmt.Errorf("router dependencies are incomplete")
	}

	// 設置 gin 模式
	if !cfg.App.Debug && gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(requestid.New())
	router.Use(middleware.Logger())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	maxBodySize := cfg.Server.MaxBodyBytes
	if maxBodySize <= 0 {
		maxBodySize = defaultMaxBodySize
	}
	router.Use(middleware.BodySizeLimit(maxBodySize))

	if deps.RateLimiter != nil {
		router.Use(middleware.RateLimit(deps.RateLimiter))
	}

	router.Use(requestTimeout(timeoutDuration))

	sessions := middleware.NewSessions(cfg.Session)
	router.Use(sessions.LoadUser())

	tmpl, err := web.Templates(cfg.Media.URLPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}
	router.SetHTMLTemplate(tmpl)

	recipes := recipeHandler.NewHandler(recipeHandler.Options{
		Store:       deps.Store,
		States:      deps.States,
		Sessions:    sessions,
		Images:      deps.Images,
		ColorScheme: cfg.Chart.ColorScheme,
		Debug:       cfg.App.Debug,
	})
	logins := authHandler.NewHandler(deps.Auth, sessions)
	checks := health.NewHandler(cfg.App.Version, map[string]health.Pinger{"store": deps.Store})

	// 健康檢查與監控
	router.GET("/health", checks.HealthCheck)
	router.GET("/ready", checks.ReadinessCheck)
	router.GET("/live", checks.LivenessCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 上傳的圖片
	router.Static(cfg.Media.URLPrefix, cfg.Media.Dir)

	// 頁面
	router.GET("/", recipeHandler.Home)
	router.GET(loginPath, logins.LoginPage)
	router.POST(loginPath, logins.Login)
	router.POST("/logout", logins.Logout)

	pages := router.Group("/", middleware.RequireLogin(loginPath))
	{
		pages.GET("/recipes", recipes.ListPage)
		pages.GET("/recipes/:id", recipes.DetailPage)
		pages.GET("/search", recipes.SearchPage)
		pages.POST("/search", recipes.SubmitSearch)
	}

	// API 路由組
	api := router.Group("/api/v1")
	api.Use(middleware.Deduplication(middleware.NewDeduplicator(cfg.DedupWindow)))
	{
		api.POST("/auth/login", logins.APILogin)
		api.POST("/auth/logout", logins.APILogout)

		recipeGroup := api.Group("/recipes", middleware.RequireAPILogin())
		{
			recipeGroup.GET("", recipes.List)
			recipeGroup.POST("", recipes.Create)
			recipeGroup.POST("/search", recipes.Search)
			recipeGroup.GET("/:id", recipes.Get)
			recipeGroup.PUT("/:id", recipes.Update)
			recipeGroup.DELETE("/:id", recipes.Delete)
			recipeGroup.POST("/:id/image", recipes.UploadImage)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, common.NewError(common.ErrCodeNotFound, "Route not found", http.StatusNotFound, nil).Response(false))
			return
		}
		recipeHandler.NotFound(c)
	})

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("store_driver", cfg.Store.Driver),
		zap.String("search_state_backend", cfg.SearchState.Backend),
		zap.Bool("rate_limit", deps.RateLimiter != nil),
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router, nil
}

// requestTimeout 為每個請求加上逾時
func requestTimeout(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		if ctx.Err() == context.DeadlineExceeded {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", requestid.Get(c)),
				zap.Duration("timeout", timeout),
			)
		}
	}
}
