package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func newViper(overrides map[string]interface{}) *viper.Viper {
	v := viper.New()
	setDefaults(v)
	for k, val := range overrides {
		v.Set(k, val)
	}
	return v
}

func TestDefaults(t *testing.T) {
	cfg, err := decode(newViper(nil))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cfg.Store.Driver != "memory" || !cfg.Store.Seed {
		t.Errorf("unexpected store defaults %+v", cfg.Store)
	}
	if cfg.SearchState.TTL != 10*time.Minute {
		t.Errorf("unexpected ttl %v", cfg.SearchState.TTL)
	}
	if cfg.Chart.ColorScheme != "brand" {
		t.Errorf("unexpected scheme %q", cfg.Chart.ColorScheme)
	}
	if cfg.DedupWindow != time.Second {
		t.Errorf("unexpected dedup window %v", cfg.DedupWindow)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("AUTH_USERS", "alice:secret, bob:pw")
	t.Setenv("APP_CHART_COLOR_SCHEME", "pastel")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if strings.Join(cfg.Auth.Users, "|") != "alice:secret|bob:pw" {
		t.Errorf("unexpected users %v", cfg.Auth.Users)
	}
	if cfg.Chart.ColorScheme != "pastel" {
		t.Errorf("unexpected scheme %q", cfg.Chart.ColorScheme)
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]interface{}
		wantErr   string
	}{
		{"bad port", map[string]interface{}{"server.port": 0}, "invalid server port"},
		{"unknown driver", map[string]interface{}{"store.driver": "sqlite"}, "unknown store driver"},
		{"postgres without dsn", map[string]interface{}{"store.driver": "postgres"}, "postgres_dsn"},
		{"postgres with dsn", map[string]interface{}{"store.driver": "postgres", "store.postgres_dsn": "host=db"}, ""},
		{"production default secret", map[string]interface{}{"app.env": "production"}, "production"},
		{"unknown backend", map[string]interface{}{"search_state.backend": "memcached"}, "unknown search state backend"},
		{"redis backend", map[string]interface{}{"search_state.backend": "redis"}, ""},
		{"zero ttl", map[string]interface{}{"search_state.ttl": "0s"}, "ttl"},
		{"unknown color scheme", map[string]interface{}{"chart.color_scheme": "neon"}, "unknown chart color scheme"},
		{"pastel color scheme", map[string]interface{}{"chart.color_scheme": "pastel"}, ""},
		{"bad user", map[string]interface{}{"auth.users": []string{"nopassword"}}, "name:password"},
		{"bad burst", map[string]interface{}{"rate_limit.burst": 0}, "burst"},
		{"rate limit disabled", map[string]interface{}{"rate_limit.enabled": false, "rate_limit.burst": 0}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decode(newViper(tt.overrides))
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
