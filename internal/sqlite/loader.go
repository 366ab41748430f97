package sqlite

import (
	"database/sql"
	"fmt"
	"path/filepath"

	"github.com/mesh-intelligence/slotshift/internal/entity"
)

// loadSnapshot reads viewers.jsonl and slots.jsonl from dataDir into the
// database. Loading is transactional: all rows land or none do. Malformed
// lines, rows of unknown viewers and rows outside a viewer's layout are
// skipped; unknown fields are ignored.
func (s *Store) loadSnapshot(dataDir string) error {
	viewers, skippedViewers, err := readRows[viewerRow](filepath.Join(dataDir, viewersFile))
	if err != nil {
		return err
	}
	slots, skippedSlots, err := readRows[slotRow](filepath.Join(dataDir, slotsFile))
	if err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	for _, row := range viewers {
		if _, err := tx.Exec(
			`INSERT INTO viewers (name, kind, slots_per_container, container_count, record_format, variant_lock, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			row.Name, row.Kind, row.SlotsPerContainer, row.ContainerCount, row.RecordFormat, row.VariantLock, row.CreatedAt,
		); err != nil {
			skippedViewers++
		}
	}

	layouts, err := s.loadViewers(tx)
	if err != nil {
		return err
	}
	n, err := insertSlots(tx, layouts, slots)
	if err != nil {
		return err
	}
	skippedSlots += len(slots) - n

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing load transaction: %w", err)
	}
	if skippedViewers+skippedSlots > 0 {
		s.logger.Warn("skipped snapshot rows", "dir", dataDir, "viewers", skippedViewers, "slots", skippedSlots)
	}
	return nil
}

// insertSlots writes slot rows whose viewer exists and whose address fits
// that viewer's layout. It returns the number of rows written.
func insertSlots(tx *sql.Tx, viewers map[string]*Viewer, rows []slotRow) (int, error) {
	stmt, err := tx.Prepare(
		`INSERT INTO slots (viewer, container, idx, record_id, payload, locked, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (viewer, container, idx) DO UPDATE SET
		   record_id = excluded.record_id, payload = excluded.payload,
		   locked = excluded.locked, updated_at = excluded.updated_at`)
	if err != nil {
		return 0, fmt.Errorf("preparing slot insert: %w", err)
	}
	defer stmt.Close()

	written := 0
	for _, row := range rows {
		v, ok := viewers[row.Viewer]
		if !ok {
			continue
		}
		addr := v.Addr(row.Container, row.Index)
		if !v.inRange(addr) {
			continue
		}
		var payload []byte
		recordID := ""
		if len(row.Record) > 0 {
			e, err := entity.Decode(row.Record)
			if err != nil || e.IsBlank() {
				continue
			}
			payload = []byte(row.Record)
			recordID = e.ID()
		}
		if payload == nil && !row.Locked {
			continue
		}
		if _, err := stmt.Exec(row.Viewer, addr.Container, addr.Index, recordID, blob(payload), row.Locked, orNow(row.UpdatedAt)); err != nil {
			continue
		}
		written++
	}
	return written, nil
}
