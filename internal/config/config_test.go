package config

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"sevaledger/internal/core"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8081" {
		t.Errorf("Port = %q, want 8081", cfg.Port)
	}
	if cfg.StoreBackend != "sqlite" {
		t.Errorf("StoreBackend = %q, want sqlite", cfg.StoreBackend)
	}
	if len(cfg.Channels) != 2 || cfg.Channels.Default() != "paypal" {
		t.Errorf("Channels = %v, want [paypal zelle]", cfg.Channels)
	}
	if cfg.NotifyBackend != "log" {
		t.Errorf("NotifyBackend = %q, want log", cfg.NotifyBackend)
	}
	if cfg.ReconcileInterval != 5*time.Minute {
		t.Errorf("ReconcileInterval = %v, want 5m", cfg.ReconcileInterval)
	}
	if !cfg.WalletWarnBelow.Equal(decimal.NewFromInt(500)) {
		t.Errorf("WalletWarnBelow = %s, want 500", cfg.WalletWarnBelow)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on defaults = %v, want nil", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("CHANNELS", "Venmo, CashApp")
	t.Setenv("NOTIFY_BACKEND", "kafka")
	t.Setenv("KAFKA_BROKERS", "b1:9092,b2:9092")
	t.Setenv("RECONCILE_INTERVAL", "30s")
	t.Setenv("WALLET_WARN_BELOW", "120.50")

	cfg := Load()

	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}
	want := core.Channels{"venmo", "cashapp"}
	if len(cfg.Channels) != 2 || cfg.Channels[0] != want[0] || cfg.Channels[1] != want[1] {
		t.Errorf("Channels = %v, want %v", cfg.Channels, want)
	}
	if len(cfg.KafkaBrokers) != 2 {
		t.Errorf("KafkaBrokers = %v, want two brokers", cfg.KafkaBrokers)
	}
	if cfg.ReconcileInterval != 30*time.Second {
		t.Errorf("ReconcileInterval = %v, want 30s", cfg.ReconcileInterval)
	}
	if !cfg.WalletWarnBelow.Equal(decimal.RequireFromString("120.50")) {
		t.Errorf("WalletWarnBelow = %s, want 120.50", cfg.WalletWarnBelow)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestValidateFailures(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantMsg string
	}{
		{
			name:    "bad port",
			mutate:  func(c *Config) { c.Port = "http" },
			wantMsg: "invalid port",
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Port = "70000" },
			wantMsg: "invalid port",
		},
		{
			name:    "unknown store backend",
			mutate:  func(c *Config) { c.StoreBackend = "redis" },
			wantMsg: "invalid store backend",
		},
		{
			name: "postgres without dsn",
			mutate: func(c *Config) {
				c.StoreBackend = "postgres"
				c.PostgresDSN = ""
			},
			wantMsg: "POSTGRES_DSN is required",
		},
		{
			name:    "no channels",
			mutate:  func(c *Config) { c.Channels = nil },
			wantMsg: "at least one channel",
		},
		{
			name:    "duplicate channels",
			mutate:  func(c *Config) { c.Channels = core.Channels{"paypal", "paypal"} },
			wantMsg: "duplicate channel",
		},
		{
			name:    "unknown notify backend",
			mutate:  func(c *Config) { c.NotifyBackend = "smtp" },
			wantMsg: "invalid notify backend",
		},
		{
			name: "bad amqp scheme",
			mutate: func(c *Config) {
				c.NotifyBackend = "amqp"
				c.AMQPURL = "http://localhost"
			},
			wantMsg: "invalid AMQP URL scheme",
		},
		{
			name: "kafka without brokers",
			mutate: func(c *Config) {
				c.NotifyBackend = "kafka"
				c.KafkaBrokers = nil
			},
			wantMsg: "KAFKA_BROKERS cannot be empty",
		},
		{
			name:    "reconcile interval too short",
			mutate:  func(c *Config) { c.ReconcileInterval = 100 * time.Millisecond },
			wantMsg: "reconcile interval",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Load()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Validate() = %q, want it to mention %q", err, tt.wantMsg)
			}
		})
	}
}
