package config

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"

	"github.com/cityfeedback/portal/internal/core/domain"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("LoadFrom returned error: %v", err)
	}
	if cfg.Backend.URL != "http://localhost:8080" {
		t.Fatalf("unexpected backend URL %q", cfg.Backend.URL)
	}
	if cfg.Backend.Timeout != 0 {
		t.Fatalf("expected no timeout by default, got %s", cfg.Backend.Timeout)
	}
	if cfg.Portal.Port != "3000" || cfg.Portal.SessionTTL != 24*time.Hour {
		t.Fatalf("unexpected portal config %+v", cfg.Portal)
	}
	schema, err := cfg.Schema()
	if err != nil || schema.Name != domain.SchemaFourState.Name {
		t.Fatalf("expected four-state schema, got %v, %v", schema.Name, err)
	}
	if !cfg.IsDevelopment() {
		t.Fatal("expected development by default")
	}
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"BACKEND_URL":     "https://api.example.org",
		"BACKEND_TIMEOUT": "5s",
		"STATUS_SCHEMA":   "three-state",
		"ENV":             "production",
		"STORAGE_PATH":    "/tmp/cf.yaml",
		"REDIS_DB":        "2",
	}))
	if err != nil {
		t.Fatalf("LoadFrom returned error: %v", err)
	}
	if cfg.Backend.Timeout != 5*time.Second {
		t.Fatalf("unexpected timeout %s", cfg.Backend.Timeout)
	}
	if s, _ := cfg.Schema(); s.Name != domain.SchemaThreeState.Name {
		t.Fatalf("expected three-state schema, got %s", s.Name)
	}
	if cfg.IsDevelopment() {
		t.Fatal("expected production")
	}
	if p, _ := cfg.LocalStorePath(); p != "/tmp/cf.yaml" {
		t.Fatalf("unexpected storage path %q", p)
	}
	if cfg.Redis.DB != 2 {
		t.Fatalf("unexpected redis db %d", cfg.Redis.DB)
	}
}

func TestLoadFrom_UnknownSchema(t *testing.T) {
	_, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{"STATUS_SCHEMA": "five-state"}))
	if err == nil || !strings.Contains(err.Error(), "five-state") {
		t.Fatalf("expected unknown schema error, got %v", err)
	}
}
