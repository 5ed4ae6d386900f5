package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"soilsafe/internal/classifier"
	"soilsafe/internal/config"
	"soilsafe/internal/regions"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestLoadClassifier_MissingArtifactDegrades(t *testing.T) {
	cfg := &config.Config{}
	cfg.Model.Path = filepath.Join(t.TempDir(), "does-not-exist.json.zst")

	adapter := loadClassifier(cfg, testLogger())

	if adapter.Available() {
		t.Fatal("expected unavailable adapter for missing artifact")
	}
	if adapter.LoadError() == nil {
		t.Fatal("expected load error to be retained")
	}
}

func TestLoadClassifier_ValidArtifact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "soil_model.json.zst")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := classifier.Encode(f, classifier.BuildReferenceModel()); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	cfg := &config.Config{}
	cfg.Model.Path = path

	adapter := loadClassifier(cfg, testLogger())

	if !adapter.Available() {
		t.Fatal("expected adapter to be available")
	}
	if adapter.ModelVersion() != classifier.ReferenceVersion {
		t.Errorf("expected version %s, got %s", classifier.ReferenceVersion, adapter.ModelVersion())
	}
}

func TestLoadRegionTable_EmbeddedDefault(t *testing.T) {
	table, err := loadRegionTable(&config.Config{})
	if err != nil {
		t.Fatalf("loadRegionTable: %v", err)
	}
	if table.Len() == 0 {
		t.Fatal("expected a populated table")
	}
}

func TestLoadRegionTable_FileOverride(t *testing.T) {
	cfg := &config.Config{}
	cfg.Regions.Path = filepath.Join(t.TempDir(), "missing.json")

	if _, err := loadRegionTable(cfg); err == nil {
		t.Fatal("expected error for missing override file")
	}
}

func TestHealthProbes(t *testing.T) {
	table, err := regions.Load()
	if err != nil {
		t.Fatalf("regions.Load: %v", err)
	}

	if err := (regionsProbe{table: table}).Healthy(context.Background()); err != nil {
		t.Errorf("expected healthy regions probe, got %v", err)
	}
	if err := (regionsProbe{}).Healthy(context.Background()); err == nil {
		t.Error("expected nil table to be unhealthy")
	}

	available := modelProbe{adapter: classifier.NewAdapter(classifier.BuildReferenceModel())}
	if err := available.Healthy(context.Background()); err != nil {
		t.Errorf("expected healthy model probe, got %v", err)
	}

	broken := modelProbe{adapter: classifier.NewUnavailableAdapter(os.ErrNotExist)}
	if err := broken.Healthy(context.Background()); err == nil {
		t.Error("expected unavailable model to be unhealthy")
	}
}
