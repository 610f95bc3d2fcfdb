package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadServerConfigDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	cfg, err := LoadServerConfig(tmpDir)
	if err != nil {
		t.Fatalf("LoadServerConfig failed: %v", err)
	}
	if cfg.Quotas.MaxTotalStorageBytes != DefaultMaxStorageBytes {
		t.Errorf("MaxTotalStorageBytes = %d, want %d", cfg.Quotas.MaxTotalStorageBytes, DefaultMaxStorageBytes)
	}
	if cfg.Quotas.MaxUploadBytes != 500*1024*1024 {
		t.Errorf("MaxUploadBytes = %d, want 500 MiB", cfg.Quotas.MaxUploadBytes)
	}
	if cfg.RateLimits.WritePerMin != 60 || cfg.RateLimits.ReadPerMin != 6000 {
		t.Errorf("RateLimits = %+v", cfg.RateLimits)
	}

	// The defaults are written back so operators can edit them.
	if _, err := os.Stat(filepath.Join(tmpDir, "config.json")); err != nil {
		t.Errorf("config.json not created: %v", err)
	}
}

func TestLoadServerConfigRoundtrip(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := &ServerConfig{Quotas: DefaultUploadQuotas(), RateLimits: DefaultRateLimits()}
	cfg.Quotas.MaxUploadBytes = 1024
	cfg.Quotas.AllowedExtensions = []string{"md"}
	if err := cfg.Save(tmpDir); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := LoadServerConfig(tmpDir)
	if err != nil {
		t.Fatalf("LoadServerConfig failed: %v", err)
	}
	if loaded.Quotas.MaxUploadBytes != 1024 {
		t.Errorf("MaxUploadBytes = %d, want 1024", loaded.Quotas.MaxUploadBytes)
	}
	if len(loaded.Quotas.AllowedExtensions) != 1 || loaded.Quotas.AllowedExtensions[0] != "md" {
		t.Errorf("AllowedExtensions = %v, want [md]", loaded.Quotas.AllowedExtensions)
	}
}

func TestLoadServerConfigRejectsInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmpDir, "config.json"), []byte(`{"quotas":{"max_total_storage_bytes":-1}}`), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadServerConfig(tmpDir); err == nil {
		t.Error("LoadServerConfig accepted a negative storage limit")
	}
}

func TestAllowsExtension(t *testing.T) {
	q := DefaultUploadQuotas()
	tests := []struct {
		name string
		want bool
	}{
		{"report.pdf", true},
		{"PHOTO.JPG", true},
		{"archive.zip", true},
		{"script.sh", false},
		{"noextension", false},
		{"double.tar.gz", false},
	}
	for _, tt := range tests {
		if got := q.AllowsExtension(tt.name); got != tt.want {
			t.Errorf("AllowsExtension(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}

	open := UploadQuotas{}
	if !open.AllowsExtension("anything.weird") {
		t.Error("empty allow-list should accept anything")
	}
}
