package sqlite

import (
	"fmt"

	"github.com/mesh-intelligence/slotshift/pkg/types"
)

// Editor commits slot mutations to a Store.
type Editor struct {
	store *Store
}

var _ types.SlotEditor = (*Editor)(nil)

// Set writes rec into slot. A blank or nil rec vacates the slot. Both touch
// kinds overwrite; the source side of a swap is written by a separate Set.
func (e *Editor) Set(slot types.Slot, rec types.Record, touch types.TouchType) error {
	v, err := e.viewer(slot)
	if err != nil {
		return err
	}

	s := e.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.attached {
		return types.ErrStoreDetached
	}
	if !v.inRange(slot.Addr) {
		return fmt.Errorf("write %s: %w", slot, types.ErrOutOfRange)
	}
	probe := rec
	if probe == nil {
		probe = v.Blank()
	}
	if blocked := v.canWriteLocked(slot.Addr, probe); blocked != types.WriteBlockedNone {
		return fmt.Errorf("%w: %s: %s", types.ErrWriteBlocked, slot, blocked)
	}

	if probe.IsBlank() {
		if _, err := s.db.Exec(
			`UPDATE slots SET record_id = '', payload = NULL, updated_at = ? WHERE viewer = ? AND container = ? AND idx = ?`,
			now(), v.name, slot.Addr.Container, slot.Addr.Index,
		); err != nil {
			return fmt.Errorf("clearing %s: %w", slot, err)
		}
		if _, err := s.db.Exec(`DELETE FROM slots WHERE locked = 0 AND payload IS NULL`); err != nil {
			return err
		}
	} else {
		payload, err := rec.Encode(types.EncodingDecrypted)
		if err != nil {
			return fmt.Errorf("encoding record for %s: %w", slot, err)
		}
		if _, err := s.db.Exec(
			`INSERT INTO slots (viewer, container, idx, record_id, payload, locked, updated_at) VALUES (?, ?, ?, ?, ?, 0, ?)
			 ON CONFLICT (viewer, container, idx) DO UPDATE SET
			   record_id = excluded.record_id, payload = excluded.payload, updated_at = excluded.updated_at`,
			v.name, slot.Addr.Container, slot.Addr.Index, rec.ID(), blob(payload), now(),
		); err != nil {
			return fmt.Errorf("writing %s: %w", slot, err)
		}
	}

	s.logger.Debug("slot written", "slot", slot.String(), "touch", touch.String(), "blank", probe.IsBlank())
	return s.persistLocked()
}

// Delete vacates slot.
func (e *Editor) Delete(slot types.Slot) error {
	return e.Set(slot, nil, types.TouchNone)
}

// View records slot as the one the host shows in its detail view.
func (e *Editor) View(slot types.Slot) {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()

	e.store.lastViewed = &slot
}

// SwapContainers exchanges the contents of containers a and b, locks
// included.
func (e *Editor) SwapContainers(view types.Viewer, a, b int) error {
	v, err := e.viewer(types.Slot{View: view})
	if err != nil {
		return err
	}
	n := v.layout.ContainerCount
	if a < 0 || b < 0 || a >= n || b >= n {
		return fmt.Errorf("swap %d and %d in %s: %w", a, b, v.name, types.ErrOutOfRange)
	}
	if a == b {
		return nil
	}

	s := e.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.attached {
		return types.ErrStoreDetached
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning swap: %w", err)
	}
	defer tx.Rollback()

	const move = `UPDATE slots SET container = ? WHERE viewer = ? AND container = ?`
	for _, step := range [][2]int{{-1, a}, {a, b}, {b, -1}} {
		if _, err := tx.Exec(move, step[0], v.name, step[1]); err != nil {
			return fmt.Errorf("swapping containers %d and %d: %w", a, b, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing swap: %w", err)
	}
	return s.persistLocked()
}

func (e *Editor) viewer(slot types.Slot) (*Viewer, error) {
	v, ok := slot.View.(*Viewer)
	if !ok || v.store != e.store {
		return nil, fmt.Errorf("%w: viewer does not belong to this store", types.ErrViewerNotFound)
	}
	return v, nil
}
