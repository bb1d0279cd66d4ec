// Package assign resolves which synthesis voice an agent should speak with.
//
// Resolution is deterministic: an agent with no persisted binding is mapped
// onto the catalog by hashing its identifier and taking the hash modulo the
// catalog size, so the same agent always lands on the same voice for a given
// set of voices, no matter what order the caller lists them in. Persisted
// bindings short-circuit the computation and survive catalog growth; a
// binding whose voice has left the catalog is pruned and the agent is
// re-bucketed.
package assign

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/voicebind/voicebind/pkg/observe"
	"github.com/voicebind/voicebind/pkg/voice"
	"github.com/voicebind/voicebind/pkg/voice/configstore"
)

// Config holds the dependencies needed to create an [Assigner].
type Config struct {
	// Store persists agent voice bindings. Must not be nil.
	Store configstore.Store

	// Metrics receives selection telemetry. When nil, the package default
	// instance is used.
	Metrics *observe.Metrics
}

// Assigner deterministically resolves agent voices against a binding store.
//
// SelectVoice calls are serialised by an internal mutex, so the
// lookup-validate-persist sequence acts as an atomic unit and two concurrent
// calls for the same agent cannot both observe a missing binding and persist
// independent selections. The store must still provide its own
// synchronisation, since explicit Assign/Clear calls and other store users
// are not funnelled through the same lock.
type Assigner struct {
	store   configstore.Store
	metrics *observe.Metrics

	// mu guards the get-validate-set sequence in SelectVoice.
	mu sync.Mutex
}

// New creates an [Assigner] from the given configuration.
// Errors are prefixed with "assign: ".
func New(cfg Config) (*Assigner, error) {
	if cfg.Store == nil {
		return nil, errors.New("assign: Store must not be nil")
	}
	m := cfg.Metrics
	if m == nil {
		m = observe.DefaultMetrics()
	}
	return &Assigner{store: cfg.Store, metrics: m}, nil
}

// SelectOption configures a single [Assigner.SelectVoice] call.
type SelectOption func(*selectConfig)

type selectConfig struct {
	persist bool
}

// WithoutPersist makes the call compute the selection fresh without writing
// it back to the store. Useful for previewing what an agent would sound like
// without making the choice sticky.
func WithoutPersist() SelectOption {
	return func(sc *selectConfig) {
		sc.persist = false
	}
}

// SelectVoice returns the provider-specific voice identifier the given agent
// should use, given the currently available voices.
//
// A valid persisted binding is returned as-is with no mutation. A stale
// binding (voice no longer in available) is removed from the store before a
// fresh selection is computed — deliberately even under [WithoutPersist],
// since a dangling reference is wrong regardless of how this call was made.
// A fresh selection is derived by hashing the agent identifier onto the
// voices sorted by their stable catalog ID, and is persisted unless
// [WithoutPersist] is given.
//
// When available is empty and no valid binding exists, SelectVoice returns
// an empty voiceID and a nil error: no voice available is an absence, not a
// failure. Errors are only ever the store's own, wrapped but unmodified in
// identity.
func (a *Assigner) SelectVoice(ctx context.Context, agentID string, available []voice.VoiceConfig, opts ...SelectOption) (string, error) {
	sc := selectConfig{persist: true}
	for _, opt := range opts {
		opt(&sc)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	return a.selectVoice(ctx, agentID, available, sc)
}

func (a *Assigner) selectVoice(ctx context.Context, agentID string, available []voice.VoiceConfig, sc selectConfig) (string, error) {
	start := time.Now()

	existing, err := a.store.Get(ctx, agentID)
	switch {
	case err == nil:
		if containsVoiceID(available, existing.VoiceID) {
			a.metrics.RecordAssignment(ctx, observe.OutcomeCached, time.Since(start).Seconds())
			return existing.VoiceID, nil
		}
		// The bound voice left the catalog: prune the stale binding before
		// recomputing, so no dangling reference survives this call.
		if err := a.store.Remove(ctx, agentID); err != nil {
			a.metrics.RecordStoreError(ctx, "remove")
			return "", fmt.Errorf("assign: prune stale binding for %q: %w", agentID, err)
		}
		a.metrics.RecordStalePrune(ctx)
	case errors.Is(err, configstore.ErrNotFound):
		// No binding yet; fall through to fresh selection.
	default:
		a.metrics.RecordStoreError(ctx, "get")
		return "", fmt.Errorf("assign: look up binding for %q: %w", agentID, err)
	}

	if len(available) == 0 {
		a.metrics.RecordAssignment(ctx, observe.OutcomeNone, time.Since(start).Seconds())
		return "", nil
	}

	selected := bucketVoice(agentID, available)

	if sc.persist {
		if err := a.store.Set(ctx, agentID, configstore.AgentVoice{VoiceID: selected.VoiceID}); err != nil {
			a.metrics.RecordStoreError(ctx, "set")
			return "", fmt.Errorf("assign: persist binding for %q: %w", agentID, err)
		}
	}

	a.metrics.RecordAssignment(ctx, observe.OutcomeComputed, time.Since(start).Seconds())
	return selected.VoiceID, nil
}

// Assign explicitly binds the agent to the given voice identifier,
// overwriting any previous binding. The voiceID is not validated against a
// catalog: explicit choices are the caller's responsibility, and a later
// SelectVoice self-heals if the voice disappears.
func (a *Assigner) Assign(ctx context.Context, agentID, voiceID string) error {
	if err := a.store.Set(ctx, agentID, configstore.AgentVoice{VoiceID: voiceID}); err != nil {
		a.metrics.RecordStoreError(ctx, "set")
		return fmt.Errorf("assign: set binding for %q: %w", agentID, err)
	}
	return nil
}

// Clear removes the agent's binding. The next SelectVoice call falls back to
// deterministic bucketing. Clearing an absent binding is not an error.
func (a *Assigner) Clear(ctx context.Context, agentID string) error {
	if err := a.store.Remove(ctx, agentID); err != nil {
		a.metrics.RecordStoreError(ctx, "remove")
		return fmt.Errorf("assign: clear binding for %q: %w", agentID, err)
	}
	return nil
}

// bucketVoice maps the agent identifier onto one of the available voices.
// available must be non-empty.
//
// The voices are sorted ascending by their stable catalog ID (byte order,
// stable for duplicate IDs) so the result does not depend on the caller's
// slice order. The sort key is deliberately the catalog ID and never the
// provider VoiceID: providers may reshuffle their own identifiers between
// catalog snapshots, but catalog IDs stay put.
func bucketVoice(agentID string, available []voice.VoiceConfig) voice.VoiceConfig {
	sorted := slices.Clone(available)
	slices.SortStableFunc(sorted, func(a, b voice.VoiceConfig) int {
		return strings.Compare(a.ID, b.ID)
	})
	return sorted[agentBucket(agentID, len(sorted))]
}

// agentBucket hashes agentID into [0, n). The hash is the first 8 bytes of
// the SHA-256 digest of the identifier's UTF-8 bytes, read big-endian as a
// uint64. SHA-256 is used for its distribution, not for security; the choice
// of digest and byte order is fixed here and only needs to be consistent
// within one deployment — persisted bindings, not hash values, are what
// cross process boundaries.
func agentBucket(agentID string, n int) int {
	digest := sha256.Sum256([]byte(agentID))
	return int(binary.BigEndian.Uint64(digest[:8]) % uint64(n))
}

func containsVoiceID(voices []voice.VoiceConfig, voiceID string) bool {
	for _, v := range voices {
		if v.VoiceID == voiceID {
			return true
		}
	}
	return false
}
