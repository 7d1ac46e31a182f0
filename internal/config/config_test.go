package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.HTTPAddress != ":4000" {
		t.Errorf("HTTPAddress = %q", cfg.HTTPAddress)
	}
	if cfg.TargetDistanceKM != 14 {
		t.Errorf("TargetDistanceKM = %v, want 14", cfg.TargetDistanceKM)
	}
	if cfg.OutboxPollInterval != 2*time.Second {
		t.Errorf("OutboxPollInterval = %v", cfg.OutboxPollInterval)
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("TARGET_DISTANCE_KM", "21.1")
	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092 ,")

	cfg := Load()
	if cfg.TargetDistanceKM != 21.1 {
		t.Errorf("TargetDistanceKM = %v, want 21.1", cfg.TargetDistanceKM)
	}
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[0] != "a:9092" || cfg.KafkaBrokers[1] != "b:9092" {
		t.Errorf("KafkaBrokers = %v", cfg.KafkaBrokers)
	}
}

func TestLoadUnitsFallsBackToDefaults(t *testing.T) {
	units, err := LoadUnits("")
	if err != nil {
		t.Fatalf("LoadUnits: %v", err)
	}
	if len(units) == 0 {
		t.Fatal("default roster must not be empty")
	}
}

func TestLoadUnitsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "units.yaml")
	contents := "units:\n  - Batalyon 1\n  - Batalyon 2\n"
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatal(err)
	}

	units, err := LoadUnits(path)
	if err != nil {
		t.Fatalf("LoadUnits: %v", err)
	}
	if len(units) != 2 || units[0] != "Batalyon 1" {
		t.Errorf("units = %v", units)
	}
}

func TestLoadUnitsRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "units.yaml")
	if err := os.WriteFile(path, []byte("units: ["), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadUnits(path); err == nil {
		t.Error("malformed YAML should fail")
	}
}
