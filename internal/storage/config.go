package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// ServerConfig stores server-wide settings, persisted as config.json in the
// data directory.
type ServerConfig struct {
	Quotas     UploadQuotas `json:"quotas"`
	RateLimits RateLimits   `json:"rate_limits"`
}

// UploadQuotas bounds what uploads may consume.
type UploadQuotas struct {
	// MaxTotalStorageBytes caps bytes across content and upload files.
	MaxTotalStorageBytes int64 `json:"max_total_storage_bytes"`
	// MaxUploadBytes caps a single request body.
	MaxUploadBytes int64 `json:"max_upload_bytes"`
	// AllowedExtensions lists acceptable upload extensions without the dot.
	// Empty accepts anything.
	AllowedExtensions []string `json:"allowed_extensions"`
}

// RateLimits configures the per-IP request limiters. A zero rate disables the
// corresponding limiter.
type RateLimits struct {
	WritePerMin int `json:"write_per_min"`
	ReadPerMin  int `json:"read_per_min"`
}

// DefaultUploadQuotas returns the default quota configuration.
func DefaultUploadQuotas() UploadQuotas {
	return UploadQuotas{
		MaxTotalStorageBytes: DefaultMaxStorageBytes,
		MaxUploadBytes:       500 * 1024 * 1024, // 500 MiB
		AllowedExtensions: []string{
			"txt", "pdf", "png", "jpg", "jpeg", "gif",
			"doc", "docx", "xls", "xlsx", "zip",
		},
	}
}

// DefaultRateLimits returns the default rate limit configuration.
func DefaultRateLimits() RateLimits {
	return RateLimits{
		WritePerMin: 60,
		ReadPerMin:  6000,
	}
}

// AllowsExtension reports whether the file name's extension is acceptable for
// upload. Names without an extension are rejected unless the allow-list is
// empty.
func (q *UploadQuotas) AllowsExtension(name string) bool {
	if len(q.AllowedExtensions) == 0 {
		return true
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	return slices.Contains(q.AllowedExtensions, ext)
}

// Validate checks that the quotas are usable.
func (q *UploadQuotas) Validate() error {
	if q.MaxTotalStorageBytes <= 0 {
		return errors.New("max_total_storage_bytes must be positive")
	}
	if q.MaxUploadBytes <= 0 {
		return errors.New("max_upload_bytes must be positive")
	}
	if q.MaxUploadBytes > q.MaxTotalStorageBytes {
		return errors.New("max_upload_bytes cannot exceed max_total_storage_bytes")
	}
	return nil
}

// Validate checks that the rate limits are usable.
func (r *RateLimits) Validate() error {
	if r.WritePerMin < 0 {
		return errors.New("write_per_min cannot be negative")
	}
	if r.ReadPerMin < 0 {
		return errors.New("read_per_min cannot be negative")
	}
	return nil
}

// Validate checks that the configuration is valid.
func (c *ServerConfig) Validate() error {
	if err := c.Quotas.Validate(); err != nil {
		return fmt.Errorf("quotas: %w", err)
	}
	if err := c.RateLimits.Validate(); err != nil {
		return fmt.Errorf("rate_limits: %w", err)
	}
	return nil
}

// LoadServerConfig loads configuration from dataDir/config.json, creating the
// file with defaults when it does not exist.
func LoadServerConfig(dataDir string) (*ServerConfig, error) {
	path := filepath.Join(dataDir, "config.json")

	cfg := ServerConfig{Quotas: DefaultUploadQuotas(), RateLimits: DefaultRateLimits()}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config.json: %w", err)
		}
	} else {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config.json: %w", err)
		}
	}

	if errors.Is(err, os.ErrNotExist) {
		if err := cfg.Save(dataDir); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config.json: %w", err)
	}

	return &cfg, nil
}

// Save saves configuration to dataDir/config.json.
func (c *ServerConfig) Save(dataDir string) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(filepath.Join(dataDir, "config.json"), data, 0o600); err != nil {
		return fmt.Errorf("failed to write config.json: %w", err)
	}
	return nil
}
