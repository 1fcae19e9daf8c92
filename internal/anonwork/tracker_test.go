package anonwork

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uigen/internal/domain/models/llm"
)

func newTestTracker(t *testing.T) (*Tracker, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewTracker(NewRedisStorage(client)), server
}

func sampleSnapshot() ([]llm.Message, map[string]interface{}) {
	messages := []llm.Message{
		{Role: llm.RoleUser, Content: "Build a pricing card"},
		{Role: llm.RoleAssistant, Content: "Done."},
	}
	files := map[string]interface{}{
		"/": map[string]interface{}{
			"type": "directory", "name": "/", "path": "/",
		},
		"/App.jsx": map[string]interface{}{
			"type": "file", "name": "App.jsx", "path": "/App.jsx", "content": "export default App",
		},
	}
	return messages, files
}

func TestTracker_RecordAndRead(t *testing.T) {
	tracker, server := newTestTracker(t)
	ctx := context.Background()

	messages, files := sampleSnapshot()
	tracker.Record(ctx, "session-1", messages, files)

	require.True(t, tracker.HasWork(ctx, "session-1"))

	snapshot := tracker.Read(ctx, "session-1")
	require.NotNil(t, snapshot)
	assert.Equal(t, messages, snapshot.Messages)
	assert.Contains(t, snapshot.FileSystemData, "/App.jsx")

	// both keys are session-scoped
	assert.False(t, tracker.HasWork(ctx, "session-2"))
	assert.Nil(t, tracker.Read(ctx, "session-2"))

	// entries expire with the session
	server.FastForward(sessionTTL + time.Minute)
	assert.False(t, tracker.HasWork(ctx, "session-1"))
	assert.Nil(t, tracker.Read(ctx, "session-1"))
}

func TestTracker_TrivialSnapshotNotRecorded(t *testing.T) {
	tracker, _ := newTestTracker(t)
	ctx := context.Background()

	rootOnly := map[string]interface{}{
		"/": map[string]interface{}{"type": "directory", "name": "/", "path": "/"},
	}
	tracker.Record(ctx, "session-1", nil, rootOnly)

	assert.False(t, tracker.HasWork(ctx, "session-1"))
	assert.Nil(t, tracker.Read(ctx, "session-1"))
}

func TestTracker_FilesAloneCount(t *testing.T) {
	tracker, _ := newTestTracker(t)
	ctx := context.Background()

	_, files := sampleSnapshot()
	tracker.Record(ctx, "session-1", nil, files)

	require.True(t, tracker.HasWork(ctx, "session-1"))
	snapshot := tracker.Read(ctx, "session-1")
	require.NotNil(t, snapshot)
	assert.Empty(t, snapshot.Messages)
	assert.NotNil(t, snapshot.Messages, "messages serialize as an empty list, not null")
}

func TestTracker_CorruptDataDegradesToNil(t *testing.T) {
	tracker, server := newTestTracker(t)
	ctx := context.Background()

	server.Set(dataKey+":session-1", "{not json")
	server.Set(hasWorkKey+":session-1", "true")

	assert.True(t, tracker.HasWork(ctx, "session-1"))
	assert.Nil(t, tracker.Read(ctx, "session-1"))
}

func TestTracker_Clear(t *testing.T) {
	tracker, _ := newTestTracker(t)
	ctx := context.Background()

	messages, files := sampleSnapshot()
	tracker.Record(ctx, "session-1", messages, files)
	require.True(t, tracker.HasWork(ctx, "session-1"))

	tracker.Clear(ctx, "session-1")

	assert.False(t, tracker.HasWork(ctx, "session-1"))
	assert.Nil(t, tracker.Read(ctx, "session-1"))
}

func TestTracker_NilStorage(t *testing.T) {
	tracker := NewTracker(nil)
	ctx := context.Background()

	messages, files := sampleSnapshot()

	// every operation degrades quietly
	tracker.Record(ctx, "session-1", messages, files)
	assert.False(t, tracker.HasWork(ctx, "session-1"))
	assert.Nil(t, tracker.Read(ctx, "session-1"))
	tracker.Clear(ctx, "session-1")
}

func TestTracker_EmptySessionID(t *testing.T) {
	tracker, _ := newTestTracker(t)
	ctx := context.Background()

	messages, files := sampleSnapshot()
	tracker.Record(ctx, "", messages, files)

	assert.False(t, tracker.HasWork(ctx, ""))
	assert.Nil(t, tracker.Read(ctx, ""))
}
