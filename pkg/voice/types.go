// Package voice defines the voice catalog types shared by the assignment
// layer and the host application's configuration.
//
// A [VoiceConfig] describes one synthesis voice the host can request from a
// TTS provider. A [Catalog] is an immutable, deterministically ordered
// snapshot of the voices currently available; the assignment layer consumes
// catalogs but never fetches or mutates them — discovery is the host's job.
package voice

// Provider identifies which TTS backend a voice belongs to.
type Provider string

const (
	ProviderElevenLabs Provider = "elevenlabs"
	ProviderCoqui      Provider = "coqui"
	ProviderPolly      Provider = "polly"
	ProviderAzure      Provider = "azure"
	ProviderSystem     Provider = "system"
)

// IsValid reports whether p is a recognised TTS provider.
func (p Provider) IsValid() bool {
	switch p {
	case ProviderElevenLabs, ProviderCoqui, ProviderPolly, ProviderAzure, ProviderSystem:
		return true
	}
	return false
}

// VoiceConfig describes one usable synthesis voice.
//
// ID and VoiceID serve different purposes and must not be conflated:
//
//   - ID is an opaque, stable identifier owned by the host's configuration.
//     It is the sort key for deterministic catalog ordering and must stay
//     stable across catalog snapshots even when the provider reshuffles its
//     own identifiers.
//   - VoiceID is the provider-specific identifier passed to the synthesis
//     API, and the value persisted in agent voice bindings.
//
// A VoiceConfig is immutable once constructed.
type VoiceConfig struct {
	// ID is the stable catalog identifier (sort key).
	ID string

	// VoiceID is the provider-specific voice identifier used for synthesis.
	VoiceID string

	// Name is the human-readable voice name.
	Name string

	// Provider identifies which TTS provider offers this voice.
	Provider Provider
}
