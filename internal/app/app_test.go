package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xaenox/chatlog-analytics/internal/analytics"
	"github.com/xaenox/chatlog-analytics/internal/storage"
	"github.com/xaenox/chatlog-analytics/pkg/config"
)

const fixture = `[
  {"id":"c1","type":"conversation","userId":"u1","title":"Lost my phone","createdAt":"2025-07-01T10:00:00Z"},
  {"id":"m1","type":"message","conversationId":"c1","userId":"u1","role":"user","content":"I lost my phone","createdAt":"2025-07-01T10:00:01Z"},
  {"id":"a1","type":"message","conversationId":"c1","role":"assistant","content":"Visit the front desk.","createdAt":"2025-07-01T10:00:03Z"}
]`

func TestOpenStoreInMemoryWithSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	require.NoError(t, os.WriteFile(path, []byte(fixture), 0o600))

	cfg := &config.Config{Database: config.DatabaseConfig{UseInMemory: true, SeedFile: path}}
	store, err := OpenStore(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer store.Close()

	c := Build(cfg, store, nil, zap.NewNop())

	snapshot, err := c.Assembler.Snapshot(context.Background(), analytics.Query{})
	require.NoError(t, err)
	assert.Equal(t, 3, snapshot.Summary.TotalInteractions)
	assert.Equal(t, []string{"lost"}, snapshot.Questions.Recent[0].Themes)

	tr, err := c.Transcripts.ByTitle(context.Background(), "lost my phone")
	require.NoError(t, err)
	require.Len(t, tr.Entries, 1)
}

func TestOpenStoreMissingSeedFile(t *testing.T) {
	cfg := &config.Config{Database: config.DatabaseConfig{
		UseInMemory: true,
		SeedFile:    filepath.Join(t.TempDir(), "missing.json"),
	}}

	_, err := OpenStore(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestOpenStorePostgresNotConfigured(t *testing.T) {
	cfg := &config.Config{}

	_, err := OpenStore(context.Background(), cfg, zap.NewNop())
	assert.ErrorIs(t, err, storage.ErrUpstreamUnavailable)
}

func TestSampleFixture(t *testing.T) {
	cfg := &config.Config{Database: config.DatabaseConfig{
		UseInMemory: true,
		SeedFile:    filepath.Join("..", "..", "testdata", "events.json"),
	}}
	store, err := OpenStore(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer store.Close()

	c := Build(cfg, store, nil, zap.NewNop())
	snapshot, err := c.Assembler.Snapshot(context.Background(), analytics.Query{})
	require.NoError(t, err)

	assert.Equal(t, 13, snapshot.Summary.TotalInteractions)
	assert.Equal(t, 2, snapshot.Summary.UniqueUsers)
	assert.Equal(t, 3, snapshot.Summary.TotalConversations)
	assert.Equal(t, 3, snapshot.Citations.TotalCitations)
	assert.Equal(t, 50.0, snapshot.Engagement.CitationEngagementRate)
	assert.Equal(t, 1, snapshot.Engagement.ReturningUsers)

	tr, err := c.Transcripts.ByConversationID(context.Background(), "conv-003")
	require.NoError(t, err)
	require.Len(t, tr.Entries, 1)
	turn := tr.Entries[0].Turn
	require.Len(t, turn.Citations, 1)
	assert.True(t, turn.Citations[0].Opaque)
	assert.Equal(t, "search service timed out", turn.Citations[0].Content)
}
