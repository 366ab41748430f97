package sqlite

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadJSONLSkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.jsonl")
	data := strings.Join([]string{
		`{"name":"boxes","kind":"box","slots_per_container":30,"container_count":8,"record_format":"pk9","future":1}`,
		``,
		`{"name":`,
		`["not","an","object"]`,
		`{"name":"party","kind":"party","slots_per_container":6,"container_count":1,"record_format":"pk9"}`,
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	rows, skipped, err := readRows[viewerRow](path)
	require.NoError(t, err)
	assert.Equal(t, 1, skipped, "valid JSON of the wrong shape")
	require.Len(t, rows, 2)
	assert.Equal(t, "boxes", rows[0].Name)
	assert.Equal(t, 30, rows[0].SlotsPerContainer)
	assert.Equal(t, "party", rows[1].Kind)
}

func TestReadJSONLMissingFileIsEmpty(t *testing.T) {
	lines, err := readJSONL(filepath.Join(t.TempDir(), "absent.jsonl"))
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestWriteJSONLIsAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, slotsFile)
	rows := []slotRow{
		{Viewer: "boxes", Container: 0, Index: 1, RecordID: "a", Record: []byte(`{"id":"a"}`), UpdatedAt: "2026-01-01T00:00:00Z"},
		{Viewer: "boxes", Container: 2, Index: 0, Locked: true, UpdatedAt: "2026-01-01T00:00:00Z"},
	}

	require.NoError(t, writeJSONL(path, rows))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"record":{"id":"a"}`)
	assert.NotContains(t, lines[1], `"record"`)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")

	got, _, err := readRows[slotRow](path)
	require.NoError(t, err)
	assert.Equal(t, rows, got)
}
