package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"BACKEND_BASE_URL": "https://hr.example.com/v1/api",
	}))
	if err != nil {
		t.Fatalf("LoadWith returned error: %v", err)
	}

	if cfg.Port != "8080" || !cfg.IsDevelopment() {
		t.Fatalf("unexpected server defaults: port=%s env=%s", cfg.Port, cfg.Env)
	}
	if cfg.Session.ProtectedPrefix != "/dashboard" || cfg.Session.LoginPath != "/login" {
		t.Fatalf("unexpected session defaults %+v", cfg.Session)
	}
	if len(cfg.Session.AllowedRoles) != 2 || cfg.Session.AllowedRoles[1] != "hr" {
		t.Fatalf("unexpected roles %v", cfg.Session.AllowedRoles)
	}
	if cfg.Session.CookieTTL != 30*24*time.Hour {
		t.Fatalf("expected 30 day cookies, got %s", cfg.Session.CookieTTL)
	}
	if cfg.Notice.BodyMinLength != 10 || cfg.Notice.MaxUploadBytes != 10<<20 {
		t.Fatalf("unexpected notice defaults %+v", cfg.Notice)
	}
	if cfg.Backend.Timeout != 15*time.Second {
		t.Fatalf("unexpected backend timeout %s", cfg.Backend.Timeout)
	}
	if cfg.Storage.Driver != "cloudinary" || cfg.Mongo.URI != "" {
		t.Fatalf("unexpected storage defaults %+v", cfg.Storage)
	}
}

func TestLoadWith_RequiresBackend(t *testing.T) {
	if _, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{})); err == nil {
		t.Fatal("expected error without BACKEND_BASE_URL")
	}
}

func TestLoadWith_Validation(t *testing.T) {
	cases := map[string]map[string]string{
		"unknown driver":       {"STORAGE_DRIVER": "s3"},
		"gridfs without mongo": {"STORAGE_DRIVER": "gridfs"},
		"zero body minimum":    {"NOTICE_BODY_MIN_LENGTH": "0"},
	}
	for name, env := range cases {
		env["BACKEND_BASE_URL"] = "https://hr.example.com"
		if _, err := LoadWith(context.Background(), envconfig.MapLookuper(env)); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}
