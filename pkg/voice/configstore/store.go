// Package configstore persists per-agent voice bindings.
//
// A binding maps an agent identifier (an opaque string, typically a
// public-key-like token in the host application) to the provider-specific
// voice identifier that agent should speak with. The assignment layer
// consults the store before computing a fresh assignment and writes back
//auto-selections so they stick across runs.
//
// Three implementations are provided: [MemStore] for tests and single-run
// use, [FileStore] for a local write-through JSON blob, and [PostgresStore]
// for shared durable storage. [NotifyingStore] wraps any of them with change
// callbacks for hosts that need to react to binding updates.
package configstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the agent has no persisted binding.
var ErrNotFound = errors.New("agent voice binding not found")

// AgentVoice is the persisted binding of one agent to one voice.
//
// VoiceID references a catalog entry's provider-specific identifier. The
// reference is not an ownership relation: the catalog may drop the voice
// while the binding survives, in which case the binding is stale and the
// assignment layer prunes it on next lookup.
type AgentVoice struct {
	// VoiceID is the provider-specific voice identifier.
	VoiceID string `json:"voice_id"`
}

// Store maps agent identifiers to their persisted voice bindings.
//
// All operations are synchronous and side-effect-complete on return: once a
// mutating call returns, the durable representation (if any) already
// reflects the change. Implementations must be safe for concurrent use.
type Store interface {
	// Get retrieves the binding for the given agent.
	// Returns [ErrNotFound] when no binding exists.
	Get(ctx context.Context, agentID string) (AgentVoice, error)

	// Set creates or replaces the binding for the given agent.
	Set(ctx context.Context, agentID string, binding AgentVoice) error

	// Remove deletes the binding for the given agent.
	// Removing an absent binding is not an error.
	Remove(ctx context.Context, agentID string) error

	// List returns a copy of all bindings keyed by agent identifier.
	List(ctx context.Context) (map[string]AgentVoice, error)
}
