// Package slottest provides in-memory viewers, records, and collaborators
// for exercising the transfer engine in tests.
package slottest

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/mesh-intelligence/slotshift/pkg/types"
)

// Record is a minimal types.Record.
type Record struct {
	Key        string
	Blank      bool
	Egg        bool
	Var        string
	Fmt        string
	FailEncode bool
}

var _ types.Record = (*Record)(nil)

// NewRecord returns a non-blank record with the given key.
func NewRecord(key string) *Record {
	return &Record{Key: key, Fmt: "test"}
}

// BlankRecord returns the blank record used to vacate slots.
func BlankRecord() *Record {
	return &Record{Key: "", Blank: true, Fmt: "test"}
}

func (r *Record) ID() string       { return r.Key }
func (r *Record) FileStem() string { return "rec-" + r.Key }

func (r *Record) Encode(enc types.Encoding) ([]byte, error) {
	if r.FailEncode {
		return nil, errors.New("encode failed")
	}
	return []byte(enc.Extension() + ":" + r.Key), nil
}

func (r *Record) IsBlank() bool       { return r.Blank }
func (r *Record) IsPlaceholder() bool { return r.Egg }
func (r *Record) Variant() string     { return r.Var }
func (r *Record) Format() string      { return r.Fmt }

// Viewer is an in-memory types.Viewer.
type Viewer struct {
	name   string
	kind   types.AddressKind
	layout types.Layout
	slots  map[types.Address]types.Record
	locked map[types.Address]bool
	blank  types.Record
	lock   string

	// Reject, when set, is consulted for record-specific write checks.
	Reject func(addr types.Address, rec types.Record) types.WriteBlocked
}

var _ types.Viewer = (*Viewer)(nil)

// NewBoxes returns a box viewer with count containers of capacity slots.
func NewBoxes(name string, capacity, count int) *Viewer {
	return &Viewer{
		name:   name,
		kind:   types.AddressBox,
		layout: types.Layout{SlotsPerContainer: capacity, ContainerCount: count},
		slots:  make(map[types.Address]types.Record),
		locked: make(map[types.Address]bool),
		blank:  BlankRecord(),
	}
}

// NewParty returns a party viewer with the given capacity.
func NewParty(name string, capacity int) *Viewer {
	v := NewBoxes(name, capacity, 1)
	v.kind = types.AddressParty
	return v
}

// Addr returns the address of index in container using the viewer's scheme.
func (v *Viewer) Addr(container, index int) types.Address {
	if v.kind == types.AddressParty {
		return types.PartyAddress(index)
	}
	return types.BoxAddress(container, index)
}

// Slot returns the slot handle for container and index.
func (v *Viewer) Slot(container, index int) types.Slot {
	return types.Slot{View: v, Addr: v.Addr(container, index)}
}

// Put stores rec at container and index.
func (v *Viewer) Put(container, index int, rec types.Record) {
	v.store(v.Addr(container, index), rec)
}

// At returns the record at container and index, or nil when empty.
func (v *Viewer) At(container, index int) types.Record {
	return v.slots[v.Addr(container, index)]
}

// Lock marks a slot as write-protected.
func (v *Viewer) Lock(container, index int) {
	v.locked[v.Addr(container, index)] = true
}

// SetVariantLock makes the viewer implement a language lock.
func (v *Viewer) SetVariantLock(lock string) {
	v.lock = lock
}

// Occupied returns the number of non-empty slots.
func (v *Viewer) Occupied() int {
	return len(v.slots)
}

func (v *Viewer) store(addr types.Address, rec types.Record) {
	if rec == nil || rec.IsBlank() {
		delete(v.slots, addr)
		return
	}
	v.slots[addr] = rec
}

func (v *Viewer) Name() string { return v.name }

func (v *Viewer) Read(addr types.Address) (types.Record, error) {
	if !v.inRange(addr) {
		return nil, fmt.Errorf("read %s: %w", addr, types.ErrOutOfRange)
	}
	if rec, ok := v.slots[addr]; ok {
		return rec, nil
	}
	return v.blank, nil
}

func (v *Viewer) IsEmpty(addr types.Address) bool {
	_, ok := v.slots[addr]
	return !ok
}

func (v *Viewer) CanWriteTo(addr types.Address, rec types.Record) types.WriteBlocked {
	if v.locked[addr] {
		return types.WriteBlockedLocked
	}
	if rec != nil && v.Reject != nil {
		return v.Reject(addr, rec)
	}
	return types.WriteBlockedNone
}

func (v *Viewer) Layout() types.Layout { return v.layout }
func (v *Viewer) Blank() types.Record  { return v.blank }
func (v *Viewer) RecordFormat() string { return "test" }

// VariantLock returns the configured lock; empty means unlocked.
func (v *Viewer) VariantLock() string { return v.lock }

func (v *Viewer) inRange(addr types.Address) bool {
	if addr.Index < 0 || addr.Index >= v.layout.SlotsPerContainer {
		return false
	}
	return addr.Container >= 0 && addr.Container < v.layout.ContainerCount
}

// Write is one mutation recorded by Editor.
type Write struct {
	Slot   types.Slot
	Record types.Record
	Touch  types.TouchType
	Delete bool
}

// Editor applies mutations to in-memory viewers and records them.
type Editor struct {
	Writes []Write
	Viewed []types.Slot
	Swaps  [][2]int
	Err    error

	// FailOn, when set, is consulted before every Set and Delete; a non-nil
	// result fails that write. Delete passes the viewer's blank record.
	FailOn func(slot types.Slot, rec types.Record) error
}

var _ types.SlotEditor = (*Editor)(nil)

func (e *Editor) Set(slot types.Slot, rec types.Record, touch types.TouchType) error {
	if e.Err != nil {
		return e.Err
	}
	if e.FailOn != nil {
		if err := e.FailOn(slot, rec); err != nil {
			return err
		}
	}
	v := slot.View.(*Viewer)
	v.store(slot.Addr, rec)
	e.Writes = append(e.Writes, Write{Slot: slot, Record: rec, Touch: touch})
	return nil
}

func (e *Editor) Delete(slot types.Slot) error {
	if e.Err != nil {
		return e.Err
	}
	v := slot.View.(*Viewer)
	if e.FailOn != nil {
		if err := e.FailOn(slot, v.blank); err != nil {
			return err
		}
	}
	v.store(slot.Addr, nil)
	e.Writes = append(e.Writes, Write{Slot: slot, Record: v.blank, Touch: types.TouchNone, Delete: true})
	return nil
}

func (e *Editor) View(slot types.Slot) {
	e.Viewed = append(e.Viewed, slot)
}

func (e *Editor) SwapContainers(view types.Viewer, a, b int) error {
	v := view.(*Viewer)
	moved := make(map[types.Address]types.Record)
	for addr, rec := range v.slots {
		switch addr.Container {
		case a:
			moved[types.BoxAddress(b, addr.Index)] = rec
		case b:
			moved[types.BoxAddress(a, addr.Index)] = rec
		default:
			continue
		}
		delete(v.slots, addr)
	}
	for addr, rec := range moved {
		v.slots[addr] = rec
	}
	e.Swaps = append(e.Swaps, [2]int{a, b})
	return nil
}

// Host records every call made to it.
type Host struct {
	mu        sync.Mutex
	Alerts    []string
	Prompts   []string
	Answer    bool
	Beeps     int
	Loaded    []string
	Forwarded [][]string
	Refreshes int
	Viewed    []types.Slot
	LoadErr   error
}

var _ types.Host = (*Host)(nil)

func (h *Host) Alert(msg string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Alerts = append(h.Alerts, msg)
}

func (h *Host) Confirm(msg string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Prompts = append(h.Prompts, msg)
	return h.Answer
}

func (h *Host) Beep() { h.Beeps++ }

func (h *Host) LoadContainers(dir string) error {
	h.Loaded = append(h.Loaded, dir)
	return h.LoadErr
}

func (h *Host) ForwardDrop(paths []string) {
	h.Forwarded = append(h.Forwarded, paths)
}

func (h *Host) RefreshParty() { h.Refreshes++ }

func (h *Host) View(slot types.Slot) {
	h.Viewed = append(h.Viewed, slot)
}

// AlertCount returns the number of alerts shown.
func (h *Host) AlertCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.Alerts)
}

// Renderer records visual swaps.
type Renderer struct {
	Dragged  []types.Slot
	Restored []types.Slot
	Cursors  int
	Resets   int
}

var _ types.Renderer = (*Renderer)(nil)

func (r *Renderer) SetDragVisual(slot types.Slot) { r.Dragged = append(r.Dragged, slot) }
func (r *Renderer) RestoreVisual(slot types.Slot) { r.Restored = append(r.Restored, slot) }
func (r *Renderer) SetDragCursor(types.Slot)      { r.Cursors++ }
func (r *Renderer) ResetCursor()                  { r.Resets++ }

// Codec decodes the bytes produced by Record.Encode, looking records up by
// key in a registry.
type Codec struct {
	Records map[string]types.Record
}

var _ types.Codec = (*Codec)(nil)

// NewCodec returns a Codec that knows the given records.
func NewCodec(recs ...types.Record) *Codec {
	c := &Codec{Records: make(map[string]types.Record)}
	for _, r := range recs {
		c.Register(r)
	}
	return c
}

// Register makes rec decodable.
func (c *Codec) Register(rec types.Record) {
	c.Records[rec.ID()] = rec
}

func (c *Codec) Decode(data []byte) (types.Record, error) {
	s := string(data)
	for _, prefix := range []string{"pk:", "ek:"} {
		if key, ok := strings.CutPrefix(s, prefix); ok {
			if rec, ok := c.Records[key]; ok {
				return rec, nil
			}
		}
	}
	return nil, types.ErrUnrecognized
}

// Converter converts by rewriting the format. Fail forces a conversion
// failure; Advisories are returned from EvaluateCompatibility.
type Converter struct {
	Fail       bool
	Advisories []string
}

var _ types.Converter = (*Converter)(nil)

func (c *Converter) Convert(rec types.Record, format string) (types.Record, error) {
	if c.Fail {
		return nil, fmt.Errorf("%w: cannot convert %s to %s", types.ErrConversionFailed, rec.Format(), format)
	}
	return rec, nil
}

func (c *Converter) CompatibleVariant(raw, converted types.Record, lock string) bool {
	return lock == "" || converted.Variant() == "" || converted.Variant() == lock
}

func (c *Converter) EvaluateCompatibility(types.Viewer, types.Record) []string {
	return c.Advisories
}
