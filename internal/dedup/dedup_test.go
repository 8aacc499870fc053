package dedup

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURLCache_AddAndIsSeen(t *testing.T) {
	dir := t.TempDir()
	cache := NewURLCache(dir)

	assert.False(t, cache.IsSeen("https://example.com/vaga/1"))

	cache.Add([]string{"https://example.com/vaga/1", "https://example.com/vaga/2"})
	assert.True(t, cache.IsSeen("https://example.com/vaga/1"))
	assert.True(t, cache.IsSeen("https://example.com/vaga/2"))

	//a fresh cache instance reads the same file
	reloaded := NewURLCache(dir)
	assert.True(t, reloaded.IsSeen("https://example.com/vaga/1"))
}

func TestURLCache_ExpiresOldEntries(t *testing.T) {
	dir := t.TempDir()

	old := time.Now().UnixMilli() - 40*24*60*60*1000
	fresh := time.Now().UnixMilli()
	entries := []seenEntry{
		{URL: "https://example.com/vaga/old", Timestamp: old},
		{URL: "https://example.com/vaga/fresh", Timestamp: fresh},
	}
	data, err := json.Marshal(entries)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "seen_urls.json"), data, 0644))

	cache := NewURLCache(dir)
	assert.False(t, cache.IsSeen("https://example.com/vaga/old"))
	assert.True(t, cache.IsSeen("https://example.com/vaga/fresh"))
}
