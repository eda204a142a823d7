package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/neilberkman/chatrider/pkg/waexport"
)

func TestLoadFile_MissingUsesDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.ExportsDir != DefaultExportsDir || cfg.OutputDir != DefaultOutputDir {
		t.Errorf("dirs = %s, %s", cfg.ExportsDir, cfg.OutputDir)
	}
	if cfg.Workers != DefaultWorkers || !cfg.CopyMedia || !cfg.Archive {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadFile_Overlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
exports_dir = "/data/exports"
workers = 8
copy_media = false
system_phrases = ["hat die Gruppe erstellt"]
omitted_phrases = ["Bild weggelassen"]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.ExportsDir != "/data/exports" {
		t.Errorf("ExportsDir = %s", cfg.ExportsDir)
	}
	if cfg.OutputDir != DefaultOutputDir {
		t.Errorf("OutputDir = %s, want default", cfg.OutputDir)
	}
	if cfg.Workers != 8 {
		t.Errorf("Workers = %d", cfg.Workers)
	}
	if cfg.CopyMedia {
		t.Error("CopyMedia should be false")
	}
	if !cfg.Archive {
		t.Error("Archive should keep its default")
	}

	rules := cfg.ContentRules()
	if typ, _ := rules.Analyze("Alice hat die Gruppe erstellt"); typ != waexport.MessageTypeSystem {
		t.Errorf("configured system phrase not applied, got %s", typ)
	}
	if typ, _ := rules.Analyze("Bild weggelassen"); typ != waexport.MessageTypeMediaOmitted {
		t.Errorf("configured omitted phrase not applied, got %s", typ)
	}
}

func TestLoadFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("workers = ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Error("expected a parse error")
	}
}
