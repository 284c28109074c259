package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crackify-ai/crackify-client/internal/api"
)

func TestSaveAndLoadInterview(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	pairs := []api.QA{
		{Question: "What is a mutex?", Answer: "A lock around shared state."},
		{Question: "What is a channel?", Answer: "A typed conduit between goroutines."},
	}

	path, err := store.SaveInterview("sess-1", pairs)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "sess-1.jsonl"))

	loaded, err := store.LoadInterview("sess-1")
	require.NoError(t, err)
	assert.Equal(t, pairs, loaded)
}

func TestSaveInterviewWritesMarkdown(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	_, err = store.SaveInterview("sess-1", []api.QA{
		{Question: "What is a mutex?", Answer: "A lock."},
	})
	require.NoError(t, err)

	md, err := os.ReadFile(filepath.Join(dir, "answers", "sess-1.md"))
	require.NoError(t, err)
	assert.Contains(t, string(md), "## Q1: What is a mutex?")
	assert.Contains(t, string(md), "A lock.")
}

func TestSaveInterviewOverwrites(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.SaveInterview("sess-1", []api.QA{{Question: "old", Answer: "old"}})
	require.NoError(t, err)
	_, err = store.SaveInterview("sess-1", []api.QA{{Question: "new", Answer: "new"}})
	require.NoError(t, err)

	loaded, err := store.LoadInterview("sess-1")
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "new", loaded[0].Question)
}

func TestLoadInterviewMissing(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.LoadInterview("nope")
	assert.Error(t, err)
}

func TestGenerateSessionID(t *testing.T) {
	a := GenerateSessionID()
	b := GenerateSessionID()

	assert.True(t, strings.HasPrefix(a, "session_"))
	assert.NotEqual(t, a, b)
}
