package config

import "testing"

func TestEnsureDSNBuiltFromParts(t *testing.T) {
	cfg := DBConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "inventory",
		Password: "secret",
		Name:     "inventory",
		SSLMode:  "disable",
	}
	if err := cfg.ensureDSN(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "host=localhost port=5432 user=inventory password=secret dbname=inventory sslmode=disable"
	if cfg.DSN != want {
		t.Fatalf("expected %q, got %q", want, cfg.DSN)
	}
}

func TestEnsureDSNKeepsExplicitDSN(t *testing.T) {
	cfg := DBConfig{DSN: "postgres://u:p@h/db"}
	if err := cfg.ensureDSN(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DSN != "postgres://u:p@h/db" {
		t.Fatalf("explicit DSN must be untouched, got %q", cfg.DSN)
	}
}

func TestEnsureDSNRequiresParts(t *testing.T) {
	cfg := DBConfig{Host: "localhost"}
	if err := cfg.ensureDSN(); err == nil {
		t.Fatal("expected error when user/name are missing")
	}
}

func TestAppEnvHelpers(t *testing.T) {
	if !(AppConfig{Env: "DEV"}).IsDev() {
		t.Fatal("expected IsDev to be case-insensitive")
	}
	if !(AppConfig{Env: "prod"}).IsProd() {
		t.Fatal("expected IsProd to match prod")
	}
	if (AppConfig{Env: "staging"}).IsProd() {
		t.Fatal("staging is not prod")
	}
}
