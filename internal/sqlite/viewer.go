package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/slotshift/internal/entity"
	"github.com/mesh-intelligence/slotshift/pkg/types"
)

// Viewer is a group of containers held by a Store: the boxes, or the party.
type Viewer struct {
	store  *Store
	name   string
	kind   types.AddressKind
	layout types.Layout
	format string
	lock   string
}

var (
	_ types.Viewer        = (*Viewer)(nil)
	_ types.VariantLocked = (*Viewer)(nil)
)

func (v *Viewer) Name() string            { return v.name }
func (v *Viewer) Layout() types.Layout    { return v.layout }
func (v *Viewer) RecordFormat() string    { return v.format }
func (v *Viewer) VariantLock() string     { return v.lock }
func (v *Viewer) Kind() types.AddressKind { return v.kind }
func (v *Viewer) Blank() types.Record     { return entity.Blank(v.format) }

// Addr returns the address of index in container using the viewer's scheme.
func (v *Viewer) Addr(container, index int) types.Address {
	if v.kind == types.AddressParty {
		return types.PartyAddress(index)
	}
	return types.BoxAddress(container, index)
}

// Slot returns the slot handle for addr.
func (v *Viewer) Slot(addr types.Address) types.Slot {
	return types.Slot{View: v, Addr: addr}
}

// Read returns the record at addr, or the blank record when it is empty.
func (v *Viewer) Read(addr types.Address) (types.Record, error) {
	v.store.mu.RLock()
	defer v.store.mu.RUnlock()

	if !v.inRange(addr) {
		return nil, fmt.Errorf("read %s/%s: %w", v.name, addr, types.ErrOutOfRange)
	}
	payload, _, err := v.slotLocked(addr)
	if err != nil {
		return nil, err
	}
	if len(payload) == 0 {
		return v.Blank(), nil
	}
	e, err := entity.Decode(payload)
	if err != nil {
		return nil, fmt.Errorf("decoding %s/%s: %w", v.name, addr, err)
	}
	return e, nil
}

func (v *Viewer) IsEmpty(addr types.Address) bool {
	v.store.mu.RLock()
	defer v.store.mu.RUnlock()

	payload, _, err := v.slotLocked(addr)
	return err != nil || len(payload) == 0
}

// CanWriteTo reports why rec cannot be written at addr. Locked slots refuse
// everything; records of another format are refused; a party refuses the
// blank write that would leave it empty.
func (v *Viewer) CanWriteTo(addr types.Address, rec types.Record) types.WriteBlocked {
	v.store.mu.RLock()
	defer v.store.mu.RUnlock()

	return v.canWriteLocked(addr, rec)
}

func (v *Viewer) canWriteLocked(addr types.Address, rec types.Record) types.WriteBlocked {
	if !v.inRange(addr) {
		return types.WriteBlockedLocked
	}
	payload, locked, err := v.slotLocked(addr)
	if err != nil || locked {
		return types.WriteBlockedLocked
	}
	if rec == nil {
		return types.WriteBlockedNone
	}
	if !rec.IsBlank() && rec.Format() != v.format {
		return types.WriteBlockedFormat
	}
	if v.kind == types.AddressParty && rec.IsBlank() && len(payload) > 0 && v.occupiedLocked() <= 1 {
		return types.WriteBlockedPartyEmpty
	}
	return types.WriteBlockedNone
}

// slotLocked returns the payload and lock flag at addr. The caller must
// hold store.mu.
func (v *Viewer) slotLocked(addr types.Address) ([]byte, bool, error) {
	if v.store.db == nil {
		return nil, false, types.ErrStoreDetached
	}
	var (
		payload []byte
		locked  bool
	)
	err := v.store.db.QueryRow(
		`SELECT payload, locked FROM slots WHERE viewer = ? AND container = ? AND idx = ?`,
		v.name, addr.Container, addr.Index,
	).Scan(&payload, &locked)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading %s/%s: %w", v.name, addr, err)
	}
	return payload, locked, nil
}

func (v *Viewer) occupiedLocked() int {
	var n int
	if err := v.store.db.QueryRow(
		`SELECT COUNT(*) FROM slots WHERE viewer = ? AND length(payload) > 0`, v.name,
	).Scan(&n); err != nil {
		return 0
	}
	return n
}

func (v *Viewer) inRange(addr types.Address) bool {
	if addr.Kind != v.kind {
		return false
	}
	if addr.Index < 0 || addr.Index >= v.layout.SlotsPerContainer {
		return false
	}
	return addr.Container >= 0 && addr.Container < v.layout.ContainerCount
}
