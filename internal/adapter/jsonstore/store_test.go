package jsonstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/couchcryptid/incident-feed-etl/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, string, string) {
	t.Helper()
	base := t.TempDir()
	rawDir := filepath.Join(base, "raw")
	processedDir := filepath.Join(base, "processed")
	require.NoError(t, os.MkdirAll(rawDir, 0o755))
	return New(rawDir, processedDir), rawDir, processedDir
}

func TestStore_ReadRawPosts(t *testing.T) {
	s, rawDir, _ := newTestStore(t)

	batch := `[
		{"text": "Flooding near Manila", "date": "2024-03-01"},
		{"text": "Aftershocks continue", "created_at": "2024-03-02"}
	]`
	require.NoError(t, os.WriteFile(filepath.Join(rawDir, "batch.json"), []byte(batch), 0o644))

	posts, err := s.ReadRawPosts("batch.json")
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "Flooding near Manila", posts[0].Text)
	assert.Equal(t, "2024-03-01", posts[0].PostedOn())
	assert.Equal(t, "2024-03-02", posts[1].PostedOn())
}

func TestStore_ReadRawPosts_Errors(t *testing.T) {
	s, rawDir, _ := newTestStore(t)

	t.Run("missing file", func(t *testing.T) {
		_, err := s.ReadRawPosts("absent.json")
		require.Error(t, err)
	})

	t.Run("malformed JSON", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(rawDir, "bad.json"), []byte("{not json"), 0o644))
		_, err := s.ReadRawPosts("bad.json")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bad.json")
	})
}

func TestStore_WriteIncidents(t *testing.T) {
	s, _, processedDir := newTestStore(t)

	incidents := []domain.StandardizedIncident{
		{
			IncidentType: "flooding",
			Location:     domain.LocationInfo{City: "Manila", Country: "Philippines", Coordinates: []float64{14.6, 120.98}},
			Date:         "2024-03-01",
			Description:  "Severe flooding reported near Manila after heavy rain",
			OriginalLink: "https://t.co/abc123",
		},
	}

	require.NoError(t, s.WriteIncidents("batch.json", incidents))

	data, err := os.ReadFile(filepath.Join(processedDir, "batch.json"))
	require.NoError(t, err)

	out := string(data)
	assert.True(t, strings.HasPrefix(out, "[\n    {"), "output should be a 4-space-indented array")
	assert.Contains(t, out, `"incident_type": "flooding"`)
	assert.NotContains(t, out, "ProcessedAt")

	// Round-trips back into the same records.
	var roundtrip []domain.StandardizedIncident
	require.NoError(t, json.Unmarshal(data, &roundtrip))
	assert.Equal(t, incidents, roundtrip)
}

func TestStore_WriteIncidents_EmptyBatch(t *testing.T) {
	s, _, processedDir := newTestStore(t)

	require.NoError(t, s.WriteIncidents("empty.json", nil))

	data, err := os.ReadFile(filepath.Join(processedDir, "empty.json"))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestStore_WriteIncidents_FailureLeavesBatchUnprocessed(t *testing.T) {
	base := t.TempDir()
	rawDir := filepath.Join(base, "raw")
	require.NoError(t, os.MkdirAll(rawDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(rawDir, "batch.json"), []byte("[]"), 0o644))

	// A regular file where the processed dir should be makes every write fail.
	blockedDir := filepath.Join(base, "processed")
	require.NoError(t, os.WriteFile(blockedDir, []byte("in the way"), 0o644))
	s := New(rawDir, blockedDir)

	err := s.WriteIncidents("batch.json", []domain.StandardizedIncident{{IncidentType: "fire"}})
	require.Error(t, err)

	names, err := s.ListUnprocessed()
	require.NoError(t, err)
	assert.Equal(t, []string{"batch.json"}, names, "a failed write must leave the batch visible for reprocessing")
}

func TestStore_WriteIncidents_NoPartialOutputVisible(t *testing.T) {
	s, rawDir, processedDir := newTestStore(t)

	// A leftover temp file from an interrupted write must not count as the
	// processed counterpart.
	require.NoError(t, os.MkdirAll(processedDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(processedDir, "batch.json.tmp-42"), []byte("[{"), 0o644))

	require.NoError(t, os.WriteFile(filepath.Join(rawDir, "batch.json"), []byte("[]"), 0o644))

	names, err := s.ListUnprocessed()
	require.NoError(t, err)
	assert.Equal(t, []string{"batch.json"}, names)

	// A completed write leaves exactly the batch file, no temp residue.
	require.NoError(t, s.WriteIncidents("batch.json", nil))
	entries, err := os.ReadDir(processedDir)
	require.NoError(t, err)
	require.Len(t, entries, 2) // batch.json + the pre-seeded orphan
	leftover, err := filepath.Glob(filepath.Join(processedDir, "batch.json.tmp-*"))
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(processedDir, "batch.json.tmp-42")}, leftover,
		"only the pre-seeded orphan remains, the write's own temp file is renamed away")
}

func TestStore_WriteRawPosts(t *testing.T) {
	s, rawDir, _ := newTestStore(t)
	require.NoError(t, os.RemoveAll(rawDir), "collector must create the raw dir itself")

	posts := []domain.RawPost{{Text: "Storm warning", Date: "2024-03-01"}}
	require.NoError(t, s.WriteRawPosts("collected.json", posts))

	read, err := s.ReadRawPosts("collected.json")
	require.NoError(t, err)
	assert.Equal(t, posts, read)
}

func TestStore_ListUnprocessed(t *testing.T) {
	s, rawDir, processedDir := newTestStore(t)

	for _, name := range []string{"b.json", "a.json", "c.json", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(rawDir, name), []byte("[]"), 0o644))
	}
	// b.json already has a processed counterpart.
	require.NoError(t, os.MkdirAll(processedDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(processedDir, "b.json"), []byte("[]"), 0o644))

	names, err := s.ListUnprocessed()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.json", "c.json"}, names)
}

func TestStore_ListUnprocessed_MissingRawDir(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "absent"), t.TempDir())

	names, err := s.ListUnprocessed()
	require.NoError(t, err)
	assert.Empty(t, names)
}
