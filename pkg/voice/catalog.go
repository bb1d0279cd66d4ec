package voice

import (
	"slices"
	"strings"

	"github.com/antzucaro/matchr"
)

// defaultNameThreshold is the minimum Jaro-Winkler score required for
// [Catalog.FindByName] to accept an approximate match.
const defaultNameThreshold = 0.85

// Catalog is an immutable, ordered snapshot of the voices available to the
// host. Construction sorts the voices ascending by [VoiceConfig.ID] (byte
// order), so two catalogs built from the same set of voices are identical
// regardless of input order.
//
// Voices with duplicate IDs keep their relative input order (stable sort).
// That tie-break is documented behaviour, not a contract callers may rely on.
//
// A Catalog is read-only after construction and safe for concurrent use.
type Catalog struct {
	voices []VoiceConfig
}

// NewCatalog builds a [Catalog] from the given voices. The input slice is
// copied; later mutation of it does not affect the catalog.
func NewCatalog(voices []VoiceConfig) *Catalog {
	sorted := slices.Clone(voices)
	slices.SortStableFunc(sorted, func(a, b VoiceConfig) int {
		return strings.Compare(a.ID, b.ID)
	})
	return &Catalog{voices: sorted}
}

// Len returns the number of voices in the catalog.
func (c *Catalog) Len() int { return len(c.voices) }

// Voices returns a copy of the catalog's voices in sorted order.
func (c *Catalog) Voices() []VoiceConfig {
	return slices.Clone(c.voices)
}

// ContainsVoiceID reports whether any catalog entry has the given
// provider-specific voice identifier.
func (c *Catalog) ContainsVoiceID(voiceID string) bool {
	_, ok := c.ByVoiceID(voiceID)
	return ok
}

// ByVoiceID returns the first voice whose VoiceID matches exactly.
func (c *Catalog) ByVoiceID(voiceID string) (VoiceConfig, bool) {
	for _, v := range c.voices {
		if v.VoiceID == voiceID {
			return v, true
		}
	}
	return VoiceConfig{}, false
}

// ByID returns the voice with the given catalog identifier.
func (c *Catalog) ByID(id string) (VoiceConfig, bool) {
	for _, v := range c.voices {
		if v.ID == id {
			return v, true
		}
	}
	return VoiceConfig{}, false
}

// FindOption configures [Catalog.FindByName].
type FindOption func(*findConfig)

type findConfig struct {
	threshold float64
}

// WithNameThreshold sets the minimum Jaro-Winkler score an approximate name
// match must reach. Default: 0.85.
func WithNameThreshold(threshold float64) FindOption {
	return func(fc *findConfig) {
		fc.threshold = threshold
	}
}

// FindByName returns the voice whose display name best matches the given
// name. An exact, case-insensitive match wins immediately; otherwise the
// highest-scoring Jaro-Winkler candidate is returned, provided its score
// reaches the configured threshold.
//
// This exists for host configs that reference voices by friendly name
// ("rachel") rather than by catalog or provider identifier.
func (c *Catalog) FindByName(name string, opts ...FindOption) (VoiceConfig, bool) {
	fc := findConfig{threshold: defaultNameThreshold}
	for _, opt := range opts {
		opt(&fc)
	}

	want := strings.ToLower(name)
	best := VoiceConfig{}
	bestScore := 0.0
	for _, v := range c.voices {
		have := strings.ToLower(v.Name)
		if have == want {
			return v, true
		}
		if score := matchr.JaroWinkler(want, have, false); score > bestScore {
			best = v
			bestScore = score
		}
	}
	if bestScore >= fc.threshold {
		return best, true
	}
	return VoiceConfig{}, false
}
