// Package config provides the configuration schema and loader for the
// voicebind CLI.
package config

import "github.com/voicebind/voicebind/pkg/voice"

// LogLevel controls log verbosity.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// StoreBackend selects which binding store implementation the CLI uses.
type StoreBackend string

const (
	// StoreMemory keeps bindings in memory for the duration of one run.
	StoreMemory StoreBackend = "memory"

	// StoreFile persists bindings as a JSON file on local disk.
	StoreFile StoreBackend = "file"

	// StorePostgres persists bindings in a PostgreSQL database.
	StorePostgres StoreBackend = "postgres"
)

// IsValid reports whether b is a recognised store backend.
func (b StoreBackend) IsValid() bool {
	switch b {
	case StoreMemory, StoreFile, StorePostgres:
		return true
	}
	return false
}

// Config is the root configuration structure for voicebind.
// It is typically loaded from a YAML file using [Load] or [LoadFromReader].
type Config struct {
	LogLevel LogLevel      `yaml:"log_level"`
	Store    StoreConfig   `yaml:"store"`
	Catalog  []VoiceConfig `yaml:"catalog"`
	Agents   []string      `yaml:"agents"`
}

// StoreConfig selects and parameterises the binding store backend.
type StoreConfig struct {
	// Backend is the store implementation to use. Defaults to "memory".
	Backend StoreBackend `yaml:"backend"`

	// Path is the JSON file location for the "file" backend.
	Path string `yaml:"path"`

	// PostgresDSN is the connection string for the "postgres" backend.
	PostgresDSN string `yaml:"postgres_dsn"`
}

// VoiceConfig is the YAML shape of one catalog entry.
type VoiceConfig struct {
	ID       string `yaml:"id"`
	VoiceID  string `yaml:"voice_id"`
	Name     string `yaml:"name"`
	Provider string `yaml:"provider"`
}

// Voices converts the configured catalog entries into the domain type.
func (c *Config) Voices() []voice.VoiceConfig {
	voices := make([]voice.VoiceConfig, 0, len(c.Catalog))
	for _, v := range c.Catalog {
		voices = append(voices, voice.VoiceConfig{
			ID:       v.ID,
			VoiceID:  v.VoiceID,
			Name:     v.Name,
			Provider: voice.Provider(v.Provider),
		})
	}
	return voices
}
