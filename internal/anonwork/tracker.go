// Package anonwork tracks the unsaved chat transcript and file-system
// snapshot of an unauthenticated visitor, keyed by their browser-session
// id. At most one snapshot exists per session; it is consumed exactly once
// during post-auth reconciliation or expires with the session.
package anonwork

import (
	"context"
	"encoding/json"
	"time"

	"uigen/internal/domain/models/llm"
)

// Storage key prefixes; the full key is prefix + ":" + session id.
const (
	hasWorkKey = "uigen_has_anon_work"
	dataKey    = "uigen_anon_data"
)

// sessionTTL approximates a browser session lifetime.
const sessionTTL = 24 * time.Hour

// Snapshot is the tracked anonymous work.
type Snapshot struct {
	Messages       []llm.Message          `json:"messages"`
	FileSystemData map[string]interface{} `json:"fileSystemData"`
}

// Tracker records, reads and clears anonymous work. A nil storage means the
// capability is unavailable: reads degrade to "no work", writes to no-ops,
// and nothing ever panics or returns an error to the caller.
type Tracker struct {
	storage Storage
}

// NewTracker creates a tracker over the given storage; storage may be nil.
func NewTracker(storage Storage) *Tracker {
	return &Tracker{storage: storage}
}

// hasContent reports whether the snapshot is non-trivial: any message, or a
// file system with more than the root entry.
func hasContent(messages []llm.Message, fileSystemData map[string]interface{}) bool {
	if len(messages) > 0 {
		return true
	}
	for path := range fileSystemData {
		if path != "/" {
			return true
		}
	}
	return false
}

// Record stores the snapshot for the session. Trivial snapshots (no
// messages, nothing beyond the root entry) are never written - an "empty
// work" marker must not exist.
func (t *Tracker) Record(ctx context.Context, sessionID string, messages []llm.Message, fileSystemData map[string]interface{}) {
	if t.storage == nil || sessionID == "" {
		return
	}
	if !hasContent(messages, fileSystemData) {
		return
	}

	if messages == nil {
		messages = []llm.Message{}
	}
	payload, err := json.Marshal(Snapshot{Messages: messages, FileSystemData: fileSystemData})
	if err != nil {
		return
	}

	if err := t.storage.Set(ctx, dataKey+":"+sessionID, string(payload), sessionTTL); err != nil {
		return
	}
	_ = t.storage.Set(ctx, hasWorkKey+":"+sessionID, "true", sessionTTL)
}

// HasWork reports whether the session has tracked work. False, never an
// error, when storage is unavailable.
func (t *Tracker) HasWork(ctx context.Context, sessionID string) bool {
	if t.storage == nil || sessionID == "" {
		return false
	}
	value, ok := t.storage.Get(ctx, hasWorkKey+":"+sessionID)
	return ok && value == "true"
}

// Read returns the session's snapshot, or nil when absent, unreadable, or
// corrupt - bad stored data degrades to "no data".
func (t *Tracker) Read(ctx context.Context, sessionID string) *Snapshot {
	if t.storage == nil || sessionID == "" {
		return nil
	}

	raw, ok := t.storage.Get(ctx, dataKey+":"+sessionID)
	if !ok {
		return nil
	}

	var snapshot Snapshot
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		return nil
	}
	return &snapshot
}

// Clear removes both entries for the session. No-op when storage is
// unavailable.
func (t *Tracker) Clear(ctx context.Context, sessionID string) {
	if t.storage == nil || sessionID == "" {
		return
	}
	_ = t.storage.Del(ctx, hasWorkKey+":"+sessionID, dataKey+":"+sessionID)
}
