package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("default port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Cache.Type != "memory" {
		t.Errorf("default cache type = %q, want memory", cfg.Cache.Type)
	}
	if cfg.Auth.TokenTTL != 24*time.Hour {
		t.Errorf("default token TTL = %v, want 24h", cfg.Auth.TokenTTL)
	}
	if cfg.Rules.StrictRendezVousTransitions {
		t.Error("strict transitions should default to off")
	}
	if cfg.Rules.DecrementStockOnPrescribe {
		t.Error("stock decrement should default to off")
	}
	if cfg.Seed.Enabled {
		t.Error("seeding should default to off")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("RULES_STRICT_RDV_TRANSITIONS", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Server.Port)
	}
	if !cfg.Rules.StrictRendezVousTransitions {
		t.Error("expected strict transitions enabled")
	}
	if len(cfg.CORS.AllowedOrigins) != 2 || cfg.CORS.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("origins = %v, want trimmed two entries", cfg.CORS.AllowedOrigins)
	}
}

func TestValidateRejectsMissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation failure without JWT_SECRET")
	}
}

func TestValidateRejectsUnknownCacheType(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("CACHE_TYPE", "memcached")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation failure for unknown cache type")
	}
}
