package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8081" {
		t.Fatalf("port default: %q", cfg.Port)
	}
	if cfg.SQLiteDBPath == "" {
		t.Fatalf("db path should have a default")
	}
	if cfg.USDToINRRate != 0 {
		t.Fatalf("rate should default to 0 (projector picks the constant): %v", cfg.USDToINRRate)
	}
	if cfg.LedgerSync || cfg.RolloverReset {
		t.Fatalf("optional integrations must default off")
	}
	if cfg.ConsumeTimeout != 30*time.Second {
		t.Fatalf("consume timeout default: %v", cfg.ConsumeTimeout)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("USD_INR_RATE", "85.5")
	t.Setenv("LEDGER_SYNC", "true")
	t.Setenv("CONSUME_TIMEOUT", "45s")

	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("port: %q", cfg.Port)
	}
	if cfg.USDToINRRate != 85.5 {
		t.Fatalf("rate: %v", cfg.USDToINRRate)
	}
	if !cfg.LedgerSync {
		t.Fatalf("ledger sync should be enabled")
	}
	if cfg.ConsumeTimeout != 45*time.Second {
		t.Fatalf("consume timeout: %v", cfg.ConsumeTimeout)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg := Load()
		cfg.SQLiteDBPath = "./lifeadmin-test.db"
		return cfg
	}

	if err := base().Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Port = "not-a-port" }},
		{"port out of range", func(c *Config) { c.Port = "70000" }},
		{"negative rate", func(c *Config) { c.USDToINRRate = -1 }},
		{"empty db path", func(c *Config) { c.SQLiteDBPath = "" }},
		{"bad amqp scheme", func(c *Config) { c.LedgerSync = true; c.AMQPURL = "http://host" }},
		{"empty queue with sync", func(c *Config) { c.LedgerSync = true; c.AMQPQueue = "" }},
		{"tiny consume timeout", func(c *Config) { c.ConsumeTimeout = 10 * time.Millisecond }},
	}
	for _, tc := range cases {
		cfg := base()
		tc.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
	}
}
