package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"recipe-catalog/internal/core/chart"
)

// Config 應用配置
type Config struct {
	App         AppConfig         `mapstructure:"app"`
	Server      ServerConfig      `mapstructure:"server"`
	Store       StoreConfig       `mapstructure:"store"`
	Session     SessionConfig     `mapstructure:"session"`
	SearchState SearchStateConfig `mapstructure:"search_state"`
	Chart       ChartConfig       `mapstructure:"chart"`
	Media       MediaConfig       `mapstructure:"media"`
	Auth        AuthConfig        `mapstructure:"auth"`
	RateLimit   RateLimitConfig   `mapstructure:"rate_limit"`
	DedupWindow time.Duration     `mapstructure:"dedup_window"`
	LogLevel    string            `mapstructure:"log_level"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env     string `mapstructure:"env"`
	Debug   bool   `mapstructure:"debug"`
	Version string `mapstructure:"version"`
	Name    string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	MaxBodyBytes int64         `mapstructure:"max_body_bytes"`
}

// StoreConfig 食譜儲存設定
type StoreConfig struct {
	Driver        string `mapstructure:"driver"` // memory | postgres | mongo
	PostgresDSN   string `mapstructure:"postgres_dsn"`
	MongoURI      string `mapstructure:"mongo_uri"`
	MongoDatabase string `mapstructure:"mongo_database"`
	Seed          bool   `mapstructure:"seed"`
}

// SessionConfig 登入 session 設定
type SessionConfig struct {
	Name   string `mapstructure:"name"`
	Secret string `mapstructure:"secret"`
	MaxAge int    `mapstructure:"max_age"` // 秒
	Secure bool   `mapstructure:"secure"`
}

// SearchStateConfig 搜尋結果暫存設定
type SearchStateConfig struct {
	Backend         string        `mapstructure:"backend"` // memory | redis
	RedisAddr       string        `mapstructure:"redis_addr"`
	RedisPassword   string        `mapstructure:"redis_password"`
	RedisDB         int           `mapstructure:"redis_db"`
	TTL             time.Duration `mapstructure:"ttl"`
	MaxSize         int           `mapstructure:"max_size"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// ChartConfig 圖表設定
type ChartConfig struct {
	ColorScheme string `mapstructure:"color_scheme"`
}

// MediaConfig 上傳圖片設定
type MediaConfig struct {
	Dir            string `mapstructure:"dir"`
	URLPrefix      string `mapstructure:"url_prefix"`
	MaxSizeBytes   int64  `mapstructure:"max_size_bytes"`
	ThumbnailWidth int    `mapstructure:"thumbnail_width"`
}

// AuthConfig 預設帳號
type AuthConfig struct {
	Users []string `mapstructure:"users"` // "name:password"
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
	Burst    int           `mapstructure:"burst"`
}

// LoadConfig 載入設定，.env 不存在時只使用環境變數與預設值
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	// 設定環境變數前綴
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 綁定環境變量
	v.BindEnv("server.port", "PORT")
	v.BindEnv("store.driver", "STORE_DRIVER")
	v.BindEnv("store.postgres_dsn", "DATABASE_URL")
	v.BindEnv("store.mongo_uri", "MONGO_URI")
	v.BindEnv("session.secret", "SESSION_SECRET")
	v.BindEnv("search_state.backend", "SEARCH_STATE_BACKEND")
	v.BindEnv("search_state.redis_addr", "REDIS_ADDR")
	v.BindEnv("chart.color_scheme", "CHART_COLOR_SCHEME")
	v.BindEnv("auth.users", "AUTH_USERS")
	v.BindEnv("rate_limit.enabled", "RATE_LIMIT_ENABLED")
	v.BindEnv("rate_limit.requests", "RATE_LIMIT_REQUESTS")
	v.BindEnv("rate_limit.window", "RATE_LIMIT_WINDOW")
	v.BindEnv("dedup_window", "DEDUP_WINDOW")
	v.BindEnv("log_level", "LOG_LEVEL")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// AUTH_USERS 以逗號分隔
	config.Auth.Users = splitList(strings.Join(config.Auth.Users, ","))

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// setDefaults 設定預設值
func setDefaults(v *viper.Viper) {
	// 應用程式設定
	v.SetDefault("app.env", "development")
	v.SetDefault("app.debug", true)
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.name", "recipe-catalog")

	// 伺服器設定
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.max_body_bytes", 12*1024*1024)

	// 儲存設定
	v.SetDefault("store.driver", "memory")
	v.SetDefault("store.mongo_uri", "mongodb://localhost:27017")
	v.SetDefault("store.mongo_database", "recipes")
	v.SetDefault("store.seed", true)

	// session 設定
	v.SetDefault("session.name", "recipe_session")
	v.SetDefault("session.secret", "change-me-in-production")
	v.SetDefault("session.max_age", 86400*7)
	v.SetDefault("session.secure", false)

	// 搜尋暫存設定
	v.SetDefault("search_state.backend", "memory")
	v.SetDefault("search_state.redis_addr", "localhost:6379")
	v.SetDefault("search_state.ttl", "10m")
	v.SetDefault("search_state.max_size", 1000)
	v.SetDefault("search_state.cleanup_interval", "1m")

	v.SetDefault("chart.color_scheme", "brand")

	// 圖片設定
	v.SetDefault("media.dir", "media")
	v.SetDefault("media.url_prefix", "/media")
	v.SetDefault("media.max_size_bytes", 10*1024*1024) // 10MB
	v.SetDefault("media.thumbnail_width", 600)

	v.SetDefault("auth.users", []string{})

	// 限流設定
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests", 100)
	v.SetDefault("rate_limit.window", "1m")
	v.SetDefault("rate_limit.burst", 20)

	v.SetDefault("dedup_window", "1s")
	v.SetDefault("log_level", "info")
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", config.Server.Port)
	}

	switch config.Store.Driver {
	case "memory":
	case "postgres":
		if config.Store.PostgresDSN == "" {
			return fmt.Errorf("store.postgres_dsn is required for postgres driver")
		}
	case "mongo":
		if config.Store.MongoURI == "" || config.Store.MongoDatabase == "" {
			return fmt.Errorf("store.mongo_uri and store.mongo_database are required for mongo driver")
		}
	default:
		return fmt.Errorf("unknown store driver %q", config.Store.Driver)
	}

	if config.Session.Secret == "" {
		return fmt.Errorf("session secret is required")
	}
	if config.App.Env == "production" && config.Session.Secret == "change-me-in-production" {
		return fmt.Errorf("session secret must be set in production")
	}

	switch config.SearchState.Backend {
	case "memory":
		if config.SearchState.MaxSize <= 0 {
			return fmt.Errorf("invalid search state max size")
		}
		if config.SearchState.CleanupInterval <= 0 {
			return fmt.Errorf("invalid search state cleanup interval")
		}
	case "redis":
		if config.SearchState.RedisAddr == "" {
			return fmt.Errorf("search_state.redis_addr is required for redis backend")
		}
	default:
		return fmt.Errorf("unknown search state backend %q", config.SearchState.Backend)
	}
	if config.SearchState.TTL <= 0 {
		return fmt.Errorf("invalid search state ttl")
	}

	if !chart.SchemeExists(config.Chart.ColorScheme) {
		return fmt.Errorf("unknown chart color scheme %q", config.Chart.ColorScheme)
	}

	if config.Media.MaxSizeBytes <= 0 {
		return fmt.Errorf("invalid media max size")
	}
	if config.Media.ThumbnailWidth <= 0 {
		return fmt.Errorf("invalid thumbnail width")
	}

	for _, u := range config.Auth.Users {
		name, pass, ok := strings.Cut(u, ":")
		if !ok || strings.TrimSpace(name) == "" || pass == "" {
			return fmt.Errorf("invalid auth user entry %q, expected name:password", u)
		}
	}

	if config.RateLimit.Enabled {
		if config.RateLimit.Requests <= 0 || config.RateLimit.Window <= 0 {
			return fmt.Errorf("invalid rate limit")
		}
		if config.RateLimit.Burst <= 0 {
			return fmt.Errorf("invalid rate limit burst")
		}
	}

	return nil
}
