package config_test

import (
	"strings"
	"testing"

	"github.com/voicebind/voicebind/internal/config"
	"github.com/voicebind/voicebind/pkg/voice"
)

// ── helpers ──────────────────────────────────────────────────────────────────

const sampleYAML = `
log_level: info

store:
  backend: file
  path: bindings.json

catalog:
  - id: brass-01
    voice_id: pNInz6obpgDQGcFmaJgB
    name: Adam
    provider: elevenlabs
  - id: brass-02
    voice_id: EXAVITQu4vr4xnSDxMaL
    name: Sarah
    provider: elevenlabs

agents:
  - agent-123
  - npub1xyz
`

func loadSample(t *testing.T, yaml string) *config.Config {
	t.Helper()
	cfg, err := config.LoadFromReader(strings.NewReader(yaml))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	return cfg
}

// ── loading ──────────────────────────────────────────────────────────────────

func TestLoadFromReader(t *testing.T) {
	t.Parallel()

	cfg := loadSample(t, sampleYAML)

	if cfg.LogLevel != config.LogInfo {
		t.Errorf("LogLevel: expected info, got %q", cfg.LogLevel)
	}
	if cfg.Store.Backend != config.StoreFile {
		t.Errorf("Store.Backend: expected file, got %q", cfg.Store.Backend)
	}
	if cfg.Store.Path != "bindings.json" {
		t.Errorf("Store.Path: expected bindings.json, got %q", cfg.Store.Path)
	}
	if len(cfg.Catalog) != 2 {
		t.Fatalf("Catalog: expected 2 entries, got %d", len(cfg.Catalog))
	}
	if cfg.Catalog[0].ID != "brass-01" || cfg.Catalog[0].VoiceID != "pNInz6obpgDQGcFmaJgB" {
		t.Errorf("Catalog[0]: unexpected entry: %+v", cfg.Catalog[0])
	}
	if len(cfg.Agents) != 2 || cfg.Agents[1] != "npub1xyz" {
		t.Errorf("Agents: unexpected: %v", cfg.Agents)
	}
}

func TestLoadFromReader_RejectsUnknownFields(t *testing.T) {
	t.Parallel()

	_, err := config.LoadFromReader(strings.NewReader("listen_addr: :8080\n"))
	if err == nil {
		t.Fatal("LoadFromReader: expected error for unknown field, got nil")
	}
}

func TestVoices_ConvertsToDomainType(t *testing.T) {
	t.Parallel()

	cfg := loadSample(t, sampleYAML)
	voices := cfg.Voices()
	if len(voices) != 2 {
		t.Fatalf("Voices: expected 2, got %d", len(voices))
	}
	if voices[1].Provider != voice.ProviderElevenLabs {
		t.Errorf("Voices[1].Provider: expected elevenlabs, got %q", voices[1].Provider)
	}
	if voices[0].Name != "Adam" {
		t.Errorf("Voices[0].Name: expected Adam, got %q", voices[0].Name)
	}
}

// ── validation ───────────────────────────────────────────────────────────────

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		yaml    string
		wantErr []string // substrings that must appear in the error
	}{
		{
			name: "valid minimal",
			yaml: "catalog:\n  - id: a\n    voice_id: v1\n",
		},
		{
			name:    "bad log level",
			yaml:    "log_level: loud\n",
			wantErr: []string{"log_level"},
		},
		{
			name:    "bad store backend",
			yaml:    "store:\n  backend: floppy\n",
			wantErr: []string{"store.backend"},
		},
		{
			name:    "file backend without path",
			yaml:    "store:\n  backend: file\n",
			wantErr: []string{"store.path"},
		},
		{
			name:    "postgres backend without dsn",
			yaml:    "store:\n  backend: postgres\n",
			wantErr: []string{"store.postgres_dsn"},
		},
		{
			name:    "catalog entry without id",
			yaml:    "catalog:\n  - voice_id: v1\n",
			wantErr: []string{"catalog[0]", "id must not be empty"},
		},
		{
			name:    "catalog entry without voice_id",
			yaml:    "catalog:\n  - id: a\n",
			wantErr: []string{"catalog[0]", "voice_id must not be empty"},
		},
		{
			name:    "duplicate catalog ids",
			yaml:    "catalog:\n  - id: a\n    voice_id: v1\n  - id: a\n    voice_id: v2\n",
			wantErr: []string{"catalog[1]", "duplicates catalog[0]"},
		},
		{
			name: "multiple failures joined",
			yaml: "log_level: loud\nstore:\n  backend: file\n",
			wantErr: []string{
				"log_level",
				"store.path",
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := config.LoadFromReader(strings.NewReader(tc.yaml))
			if len(tc.wantErr) == 0 {
				if err != nil {
					t.Fatalf("LoadFromReader: unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("LoadFromReader: expected error containing %v, got nil", tc.wantErr)
			}
			for _, want := range tc.wantErr {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("error %q does not contain %q", err, want)
				}
			}
		})
	}
}
