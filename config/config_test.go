package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoadConfigFromEnvironment(t *testing.T) {
	viper.Reset()
	t.Chdir(t.TempDir())
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("JWT_ACCESS_EXPIRY", "30m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://ward.example, https://desk.example,")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.App.Port != "9090" {
		t.Errorf("App.Port = %q, want 9090", cfg.App.Port)
	}
	if cfg.DB.Host != "db.internal" {
		t.Errorf("DB.Host = %q, want db.internal", cfg.DB.Host)
	}
	if cfg.JWT.AccessExpiry != 30*time.Minute {
		t.Errorf("JWT.AccessExpiry = %v, want 30m", cfg.JWT.AccessExpiry)
	}
	if got := cfg.App.CORSAllowedOrigins; len(got) != 2 || got[0] != "https://ward.example" || got[1] != "https://desk.example" {
		t.Errorf("App.CORSAllowedOrigins = %q", got)
	}
	if cfg.App.LogLevel != "info" {
		t.Errorf("App.LogLevel default = %q, want info", cfg.App.LogLevel)
	}
	if cfg.Billing.InvoicePrefix != "INV" {
		t.Errorf("Billing.InvoicePrefix default = %q, want INV", cfg.Billing.InvoicePrefix)
	}
}

func TestLoadConfigRequiresSecret(t *testing.T) {
	viper.Reset()
	t.Chdir(t.TempDir())
	t.Setenv("JWT_SECRET", "")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error when JWT_SECRET is empty")
	}
}
