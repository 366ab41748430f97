package sqlite

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// JSONL file names inside DataDir and inside dropped container directories.
const (
	viewersFile = "viewers.jsonl"
	slotsFile   = "slots.jsonl"
)

// viewerRow is one line of viewers.jsonl.
type viewerRow struct {
	Name              string `json:"name"`
	Kind              string `json:"kind"`
	SlotsPerContainer int    `json:"slots_per_container"`
	ContainerCount    int    `json:"container_count"`
	RecordFormat      string `json:"record_format"`
	VariantLock       string `json:"variant_lock,omitempty"`
	CreatedAt         string `json:"created_at"`
}

// slotRow is one line of slots.jsonl. Record holds the decrypted transport
// form of the slot's record; it is absent for locked empty slots.
type slotRow struct {
	Viewer    string          `json:"viewer"`
	Container int             `json:"container"`
	Index     int             `json:"index"`
	RecordID  string          `json:"record_id,omitempty"`
	Record    json.RawMessage `json:"record,omitempty"`
	Locked    bool            `json:"locked,omitempty"`
	UpdatedAt string          `json:"updated_at"`
}

// readJSONL reads a JSONL file and returns each non-empty, parseable line as
// a json.RawMessage. Malformed lines are skipped. A missing file reads as
// empty.
func readJSONL(path string) ([]json.RawMessage, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var lines []json.RawMessage
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 || !json.Valid(line) {
			continue
		}
		cp := make([]byte, len(line))
		copy(cp, line)
		lines = append(lines, json.RawMessage(cp))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}
	return lines, nil
}

// readRows decodes every line of a JSONL file into T. Lines that do not
// unmarshal are skipped and counted.
func readRows[T any](path string) (rows []T, skipped int, err error) {
	lines, err := readJSONL(path)
	if err != nil {
		return nil, 0, err
	}
	for _, line := range lines {
		var row T
		if err := json.Unmarshal(line, &row); err != nil {
			skipped++
			continue
		}
		rows = append(rows, row)
	}
	return rows, skipped, nil
}

// writeJSONL atomically writes rows to a JSONL file using the temp-file,
// fsync, rename pattern.
func writeJSONL[T any](path string, rows []T) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".jsonl-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	fail := func(err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}

	w := bufio.NewWriter(tmp)
	enc := json.NewEncoder(w)
	for _, row := range rows {
		if err := enc.Encode(row); err != nil {
			return fail(fmt.Errorf("writing row: %w", err))
		}
	}
	if err := w.Flush(); err != nil {
		return fail(fmt.Errorf("flushing buffer: %w", err))
	}
	if err := tmp.Sync(); err != nil {
		return fail(fmt.Errorf("syncing temp file: %w", err))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// touchJSONL creates an empty JSONL file when none exists.
func touchJSONL(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	return f.Close()
}
