// Package sqlite implements the reference container store: box and party
// viewers backed by SQLite as the query engine and JSONL files as the source
// of truth.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/slotshift/internal/entity"
	"github.com/mesh-intelligence/slotshift/pkg/types"
)

const dbFile = "slotshift.db"

// Store holds the viewers of one data directory. Every mutation is written
// through to the JSONL files before it returns.
type Store struct {
	mu       sync.RWMutex
	attached bool
	dataDir  string
	db       *sql.DB
	viewers  map[string]*Viewer

	lastViewed *types.Slot
	logger     *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for snapshot and persistence warnings.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewStore creates a detached store. Call Attach before use.
func NewStore(opts ...Option) *Store {
	s := &Store{
		viewers: make(map[string]*Viewer),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ViewerSpec describes a viewer to create.
type ViewerSpec struct {
	Name              string
	Kind              types.AddressKind
	SlotsPerContainer int
	ContainerCount    int
	RecordFormat      string
	VariantLock       string
}

// Entry is one occupied or locked slot, as listed by Entries.
type Entry struct {
	Viewer string
	Addr   types.Address
	Record *entity.Entity
	Locked bool
}

// Attach opens the store on config.DataDir. The SQLite file is recreated
// and filled from the JSONL files, which are created empty when missing.
// Returns ErrAlreadyAttached if already attached.
func (s *Store) Attach(config types.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.attached {
		return types.ErrAlreadyAttached
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}

	dbPath := filepath.Join(dataDir, dbFile)
	_ = os.Remove(dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return err
	}
	db.SetMaxOpenConns(1)
	for _, ddl := range append(append([]string{}, schemaDDL...), indexDDL...) {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return fmt.Errorf("creating schema: %w", err)
		}
	}

	for _, name := range []string{viewersFile, slotsFile} {
		if err := touchJSONL(filepath.Join(dataDir, name)); err != nil {
			db.Close()
			return err
		}
	}

	s.db = db
	s.dataDir = dataDir
	if err := s.loadSnapshot(dataDir); err != nil {
		db.Close()
		s.db = nil
		return fmt.Errorf("load JSONL: %w", err)
	}
	viewers, err := s.loadViewers(db)
	if err != nil {
		db.Close()
		s.db = nil
		return err
	}
	s.viewers = viewers
	s.attached = true
	return nil
}

// Detach closes the database. Detach is idempotent.
func (s *Store) Detach() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.attached {
		return nil
	}
	if err := s.db.Close(); err != nil {
		return err
	}
	s.db = nil
	s.attached = false
	s.viewers = make(map[string]*Viewer)
	return nil
}

// CreateViewer adds a viewer. Party viewers always have one container.
func (s *Store) CreateViewer(spec ViewerSpec) (*Viewer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.attached {
		return nil, types.ErrStoreDetached
	}
	if spec.Name == "" {
		return nil, errors.New("viewer name must not be empty")
	}
	if _, ok := s.viewers[spec.Name]; ok {
		return nil, fmt.Errorf("%w: %s", types.ErrViewerExists, spec.Name)
	}
	if spec.Kind == types.AddressParty {
		spec.ContainerCount = 1
	}
	if spec.SlotsPerContainer <= 0 || spec.ContainerCount <= 0 {
		return nil, fmt.Errorf("viewer %s: layout must be positive", spec.Name)
	}
	if _, ok := entity.Lookup(spec.RecordFormat); !ok {
		return nil, fmt.Errorf("viewer %s: unknown record format %q", spec.Name, spec.RecordFormat)
	}

	if _, err := s.db.Exec(
		`INSERT INTO viewers (name, kind, slots_per_container, container_count, record_format, variant_lock, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		spec.Name, spec.Kind.String(), spec.SlotsPerContainer, spec.ContainerCount,
		spec.RecordFormat, spec.VariantLock, now(),
	); err != nil {
		return nil, fmt.Errorf("inserting viewer %s: %w", spec.Name, err)
	}

	v := &Viewer{
		store:  s,
		name:   spec.Name,
		kind:   spec.Kind,
		layout: types.Layout{SlotsPerContainer: spec.SlotsPerContainer, ContainerCount: spec.ContainerCount},
		format: spec.RecordFormat,
		lock:   spec.VariantLock,
	}
	s.viewers[v.name] = v
	if err := s.persistLocked(); err != nil {
		return nil, err
	}
	return v, nil
}

// Viewer returns the named viewer. The same pointer is returned on every
// call, so Slots built from it compare equal.
func (s *Store) Viewer(name string) (*Viewer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.attached {
		return nil, types.ErrStoreDetached
	}
	v, ok := s.viewers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", types.ErrViewerNotFound, name)
	}
	return v, nil
}

// Viewers returns all viewers ordered by name.
func (s *Store) Viewers() []*Viewer {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Viewer, 0, len(s.viewers))
	for _, v := range s.viewers {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// Editor returns the SlotEditor that commits mutations to this store.
func (s *Store) Editor() *Editor {
	return &Editor{store: s}
}

// LastViewed returns the slot most recently passed to Editor.View.
func (s *Store) LastViewed() (types.Slot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.lastViewed == nil {
		return types.Slot{}, false
	}
	return *s.lastViewed, true
}

// LockSlot marks a slot write-protected, or clears the mark.
func (s *Store) LockSlot(viewer string, addr types.Address, locked bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, err := s.viewerLocked(viewer)
	if err != nil {
		return err
	}
	if !v.inRange(addr) {
		return fmt.Errorf("lock %s/%s: %w", viewer, addr, types.ErrOutOfRange)
	}
	if _, err := s.db.Exec(
		`INSERT INTO slots (viewer, container, idx, locked, updated_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (viewer, container, idx) DO UPDATE SET locked = excluded.locked, updated_at = excluded.updated_at`,
		viewer, addr.Container, addr.Index, locked, now(),
	); err != nil {
		return fmt.Errorf("locking %s/%s: %w", viewer, addr, err)
	}
	if _, err := s.db.Exec(`DELETE FROM slots WHERE locked = 0 AND payload IS NULL`); err != nil {
		return err
	}
	return s.persistLocked()
}

// Entries lists the occupied or locked slots of a viewer in address order.
func (s *Store) Entries(viewer string) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, err := s.viewerLocked(viewer)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.Query(
		`SELECT container, idx, payload, locked FROM slots WHERE viewer = ? ORDER BY container, idx`, viewer)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", viewer, err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			container, idx int
			payload        []byte
			locked         bool
		)
		if err := rows.Scan(&container, &idx, &payload, &locked); err != nil {
			return nil, err
		}
		entry := Entry{Viewer: viewer, Addr: v.Addr(container, idx), Locked: locked}
		if len(payload) > 0 {
			e, err := entity.Decode(payload)
			if err != nil {
				return nil, fmt.Errorf("decoding %s/%s: %w", viewer, entry.Addr, err)
			}
			entry.Record = e
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}

// ExportJSONL writes a snapshot of every slot row to path atomically.
func (s *Store) ExportJSONL(path string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.attached {
		return types.ErrStoreDetached
	}
	rows, err := s.slotRows()
	if err != nil {
		return err
	}
	return writeJSONL(path, rows)
}

// ImportJSONL replaces the contents of every viewer named in the snapshot
// at path. Rows of unknown viewers are skipped. It returns the number of
// slot rows loaded.
func (s *Store) ImportJSONL(path string) (int, error) {
	rows, skipped, err := readRows[slotRow](path)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.attached {
		return 0, types.ErrStoreDetached
	}
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning import: %w", err)
	}
	defer tx.Rollback()

	cleared := make(map[string]bool)
	for _, row := range rows {
		if _, ok := s.viewers[row.Viewer]; !ok || cleared[row.Viewer] {
			continue
		}
		if _, err := tx.Exec(`DELETE FROM slots WHERE viewer = ?`, row.Viewer); err != nil {
			return 0, fmt.Errorf("clearing %s: %w", row.Viewer, err)
		}
		cleared[row.Viewer] = true
	}
	n, err := insertSlots(tx, s.viewers, rows)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing import: %w", err)
	}
	if skipped += len(rows) - n; skipped > 0 {
		s.logger.Warn("skipped snapshot rows", "path", path, "slots", skipped)
	}
	return n, s.persistLocked()
}

// LoadContainers imports the slots.jsonl snapshot found in dir.
func (s *Store) LoadContainers(dir string) error {
	path := filepath.Join(dir, slotsFile)
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("no container snapshot in %s: %w", dir, err)
	}
	_, err := s.ImportJSONL(path)
	return err
}

type querier interface {
	Query(query string, args ...any) (*sql.Rows, error)
}

func (s *Store) loadViewers(q querier) (map[string]*Viewer, error) {
	rows, err := q.Query(
		`SELECT name, kind, slots_per_container, container_count, record_format, variant_lock FROM viewers`)
	if err != nil {
		return nil, fmt.Errorf("loading viewers: %w", err)
	}
	defer rows.Close()

	out := make(map[string]*Viewer)
	for rows.Next() {
		var (
			v    = &Viewer{store: s}
			kind string
		)
		if err := rows.Scan(&v.name, &kind, &v.layout.SlotsPerContainer, &v.layout.ContainerCount, &v.format, &v.lock); err != nil {
			return nil, err
		}
		if kind == types.AddressParty.String() {
			v.kind = types.AddressParty
		}
		out[v.name] = v
	}
	return out, rows.Err()
}

func (s *Store) viewerLocked(name string) (*Viewer, error) {
	if !s.attached {
		return nil, types.ErrStoreDetached
	}
	v, ok := s.viewers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", types.ErrViewerNotFound, name)
	}
	return v, nil
}

func (s *Store) slotRows() ([]slotRow, error) {
	rows, err := s.db.Query(
		`SELECT viewer, container, idx, record_id, payload, locked, updated_at FROM slots ORDER BY viewer, container, idx`)
	if err != nil {
		return nil, fmt.Errorf("reading slots: %w", err)
	}
	defer rows.Close()

	var out []slotRow
	for rows.Next() {
		var (
			row     slotRow
			payload []byte
		)
		if err := rows.Scan(&row.Viewer, &row.Container, &row.Index, &row.RecordID, &payload, &row.Locked, &row.UpdatedAt); err != nil {
			return nil, err
		}
		if len(payload) > 0 {
			row.Record = payload
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// persistLocked rewrites both JSONL files from the database. The caller
// must hold s.mu for writing.
func (s *Store) persistLocked() error {
	viewers := make([]viewerRow, 0, len(s.viewers))
	rows, err := s.db.Query(
		`SELECT name, kind, slots_per_container, container_count, record_format, variant_lock, created_at FROM viewers ORDER BY name`)
	if err != nil {
		return fmt.Errorf("reading viewers: %w", err)
	}
	for rows.Next() {
		var row viewerRow
		if err := rows.Scan(&row.Name, &row.Kind, &row.SlotsPerContainer, &row.ContainerCount, &row.RecordFormat, &row.VariantLock, &row.CreatedAt); err != nil {
			rows.Close()
			return err
		}
		viewers = append(viewers, row)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	slots, err := s.slotRows()
	if err != nil {
		return err
	}
	if err := writeJSONL(filepath.Join(s.dataDir, viewersFile), viewers); err != nil {
		return fmt.Errorf("persisting viewers: %w", err)
	}
	if err := writeJSONL(filepath.Join(s.dataDir, slotsFile), slots); err != nil {
		return fmt.Errorf("persisting slots: %w", err)
	}
	return nil
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func orNow(ts string) string {
	if ts == "" {
		return now()
	}
	return ts
}

// blob maps an empty payload to SQL NULL.
func blob(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return b
}
