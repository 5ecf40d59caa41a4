package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig_DefaultsWithoutEnvFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.App.Port != "5000" {
		t.Errorf("App.Port = %q, want 5000", cfg.App.Port)
	}
	if len(cfg.App.CORSOrigins) != 1 || cfg.App.CORSOrigins[0] != "*" {
		t.Errorf("App.CORSOrigins = %v, want [*]", cfg.App.CORSOrigins)
	}
	if cfg.DB.Driver != DriverSQLite {
		t.Errorf("DB.Driver = %q, want %q", cfg.DB.Driver, DriverSQLite)
	}
	if !cfg.DB.AutoMigrate {
		t.Error("DB.AutoMigrate should default to true")
	}
	if cfg.Export.Debounce != 2*time.Second {
		t.Errorf("Export.Debounce = %v, want 2s", cfg.Export.Debounce)
	}
	if got := len(cfg.Export.Formats); got != 3 {
		t.Errorf("Export.Formats = %v, want 3 formats", cfg.Export.Formats)
	}
	if cfg.JWT.Enabled() {
		t.Error("JWT should be disabled without a secret")
	}
	if cfg.Kafka.Enabled() {
		t.Error("Kafka should be disabled without brokers")
	}
}

func TestLoadConfig_EnvFileAndOverrides(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	content := "DB_DRIVER=Postgres\nDB_NAME=registry\nEXPORT_FORMATS=csv, pdf\nEXPORT_DEBOUNCE=nonsense\nAPP_PORT=7000\n"
	if err := os.WriteFile(envFile, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("APP_PORT", "8080")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")

	cfg, err := LoadConfig(envFile)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.App.Port != "8080" {
		t.Errorf("App.Port = %q, want environment override 8080", cfg.App.Port)
	}
	if cfg.DB.Driver != DriverPostgres {
		t.Errorf("DB.Driver = %q, want %q", cfg.DB.Driver, DriverPostgres)
	}
	if cfg.DB.Name != "registry" {
		t.Errorf("DB.Name = %q, want registry", cfg.DB.Name)
	}
	if len(cfg.Export.Formats) != 2 || cfg.Export.Formats[1] != "pdf" {
		t.Errorf("Export.Formats = %v, want [csv pdf]", cfg.Export.Formats)
	}
	if cfg.Export.Debounce != 2*time.Second {
		t.Errorf("unparseable debounce should fall back to 2s, got %v", cfg.Export.Debounce)
	}
	if !cfg.Kafka.Enabled() || len(cfg.Kafka.Brokers) != 2 {
		t.Errorf("Kafka = %+v, want two brokers", cfg.Kafka)
	}
}
