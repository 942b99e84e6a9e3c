package config

import (
	"slices"
	"testing"
)

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 10 {
		t.Errorf("expected WriteTimeoutSec=10, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.Nominatim.BaseURL != "https://nominatim.openstreetmap.org" {
		t.Errorf("unexpected nominatim base url %q", cfg.Nominatim.BaseURL)
	}
	if cfg.Overpass.AttemptTimeoutSec != 60 {
		t.Errorf("expected AttemptTimeoutSec=60, got %d", cfg.Overpass.AttemptTimeoutSec)
	}
	if cfg.Search.RadiusMeters != 50000 {
		t.Errorf("expected RadiusMeters=50000, got %d", cfg.Search.RadiusMeters)
	}
	if cfg.Search.ResultLimit != 20 {
		t.Errorf("expected ResultLimit=20, got %d", cfg.Search.ResultLimit)
	}
	if !slices.Contains(cfg.Search.AmenityDenylist, "bank") {
		t.Error("default denylist must contain bank")
	}
	if cfg.Retry.MaxAttempts != 3 {
		t.Errorf("expected MaxAttempts=3, got %d", cfg.Retry.MaxAttempts)
	}
	if cfg.Retry.DelayMs != 5000 {
		t.Errorf("expected DelayMs=5000, got %d", cfg.Retry.DelayMs)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:     HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		Search:   SearchConfig{RadiusMeters: 10000, ResultLimit: 5, AmenityDenylist: []string{"casino"}},
		Retry:    RetryConfig{MaxAttempts: 1, DelayMs: 100},
		Overpass: OverpassConfig{AttemptTimeoutSec: 5},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 30 {
		t.Errorf("expected ReadTimeoutSec=30, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.Search.RadiusMeters != 10000 {
		t.Errorf("expected RadiusMeters=10000, got %d", cfg.Search.RadiusMeters)
	}
	if len(cfg.Search.AmenityDenylist) != 1 || cfg.Search.AmenityDenylist[0] != "casino" {
		t.Errorf("denylist overridden: %v", cfg.Search.AmenityDenylist)
	}
	if cfg.Retry.MaxAttempts != 1 || cfg.Retry.DelayMs != 100 {
		t.Errorf("retry overridden: %+v", cfg.Retry)
	}
	if cfg.Overpass.AttemptTimeoutSec != 5 {
		t.Errorf("expected AttemptTimeoutSec=5, got %d", cfg.Overpass.AttemptTimeoutSec)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := Config{HTTP: HTTPConfig{Port: 0}}
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_BadBaseURL(t *testing.T) {
	cfg := Config{HTTP: HTTPConfig{Port: 8080}}
	cfg.ApplyDefaults()
	cfg.Nominatim.BaseURL = "nominatim.openstreetmap.org"

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for non-http base url")
	}
}
