package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/voicebind/voicebind/pkg/voice"
	"gopkg.in/yaml.v3"
)

// Load reads the YAML configuration file at path and returns a validated [Config].
// It is a convenience wrapper around [LoadFromReader] and [Validate].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r and validates the result.
// Useful in tests where configs are constructed from string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.LogLevel != "" && !cfg.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("log_level %q is invalid; valid values: debug, info, warn, error", cfg.LogLevel))
	}

	// Store backend
	if cfg.Store.Backend != "" && !cfg.Store.Backend.IsValid() {
		errs = append(errs, fmt.Errorf("store.backend %q is invalid; valid values: memory, file, postgres", cfg.Store.Backend))
	}
	switch cfg.Store.Backend {
	case StoreFile:
		if cfg.Store.Path == "" {
			errs = append(errs, errors.New("store.path is required for the file backend"))
		}
	case StorePostgres:
		if cfg.Store.PostgresDSN == "" {
			errs = append(errs, errors.New("store.postgres_dsn is required for the postgres backend"))
		}
	}

	// Catalog entries
	idsSeen := make(map[string]int, len(cfg.Catalog))
	for i, v := range cfg.Catalog {
		prefix := fmt.Sprintf("catalog[%d]", i)
		if v.ID == "" {
			errs = append(errs, fmt.Errorf("%s: id must not be empty", prefix))
		}
		if v.VoiceID == "" {
			errs = append(errs, fmt.Errorf("%s: voice_id must not be empty", prefix))
		}
		if v.Provider != "" && !voice.Provider(v.Provider).IsValid() {
			slog.Warn("unrecognised TTS provider in catalog", "index", i, "provider", v.Provider)
		}
		if prev, dup := idsSeen[v.ID]; dup && v.ID != "" {
			// Duplicate IDs break deterministic ordering beyond the stable
			// tie-break, so reject rather than warn.
			errs = append(errs, fmt.Errorf("%s: id %q duplicates catalog[%d]", prefix, v.ID, prev))
		}
		idsSeen[v.ID] = i
	}

	if len(cfg.Catalog) == 0 {
		slog.Warn("catalog is empty; no voice can be assigned to any agent")
	}

	return errors.Join(errs...)
}
