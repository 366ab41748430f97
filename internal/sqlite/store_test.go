package sqlite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/slotshift/internal/entity"
	"github.com/mesh-intelligence/slotshift/pkg/types"
)

func attach(t *testing.T, dir string) *Store {
	t.Helper()
	s := NewStore()
	require.NoError(t, s.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dir}))
	t.Cleanup(func() { s.Detach() })
	return s
}

func seed(t *testing.T, s *Store) (boxes, party *Viewer) {
	t.Helper()
	boxes, err := s.CreateViewer(ViewerSpec{Name: "boxes", Kind: types.AddressBox, SlotsPerContainer: 4, ContainerCount: 3, RecordFormat: "pk9"})
	require.NoError(t, err)
	party, err = s.CreateViewer(ViewerSpec{Name: "party", Kind: types.AddressParty, SlotsPerContainer: 6, RecordFormat: "pk9"})
	require.NoError(t, err)
	return boxes, party
}

func TestAttachCreatesFiles(t *testing.T) {
	dir := t.TempDir()
	s := attach(t, dir)

	for _, name := range []string{dbFile, viewersFile, slotsFile} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
	assert.ErrorIs(t, s.Attach(types.Config{DataDir: dir}), types.ErrAlreadyAttached)
}

func TestDetachIsIdempotent(t *testing.T) {
	s := attach(t, t.TempDir())

	require.NoError(t, s.Detach())
	require.NoError(t, s.Detach())

	_, err := s.Viewer("boxes")
	assert.ErrorIs(t, err, types.ErrStoreDetached)
	_, err = s.CreateViewer(ViewerSpec{Name: "boxes", SlotsPerContainer: 1, ContainerCount: 1, RecordFormat: "pk9"})
	assert.ErrorIs(t, err, types.ErrStoreDetached)
}

func TestCreateViewer(t *testing.T) {
	s := attach(t, t.TempDir())
	boxes, party := seed(t, s)

	assert.Equal(t, types.Layout{SlotsPerContainer: 4, ContainerCount: 3}, boxes.Layout())
	assert.Equal(t, 1, party.Layout().ContainerCount)
	assert.Equal(t, types.AddressParty, party.Kind())

	got, err := s.Viewer("boxes")
	require.NoError(t, err)
	assert.Same(t, boxes, got)

	_, err = s.CreateViewer(ViewerSpec{Name: "boxes", SlotsPerContainer: 1, ContainerCount: 1, RecordFormat: "pk9"})
	assert.ErrorIs(t, err, types.ErrViewerExists)
	_, err = s.CreateViewer(ViewerSpec{Name: "odd", SlotsPerContainer: 1, ContainerCount: 1, RecordFormat: "nope"})
	assert.Error(t, err)
	_, err = s.Viewer("missing")
	assert.ErrorIs(t, err, types.ErrViewerNotFound)

	names := []string{}
	for _, v := range s.Viewers() {
		names = append(names, v.Name())
	}
	assert.Equal(t, []string{"boxes", "party"}, names)
}

func TestEditorWritesAndReads(t *testing.T) {
	s := attach(t, t.TempDir())
	boxes, _ := seed(t, s)
	ed := s.Editor()
	slot := boxes.Slot(types.BoxAddress(1, 2))

	assert.True(t, slot.IsEmpty())
	rec, err := slot.Read()
	require.NoError(t, err)
	assert.True(t, rec.IsBlank())

	mon := entity.New("pk9", 25, "Sparky", "en")
	require.NoError(t, ed.Set(slot, mon, types.TouchSet))
	assert.False(t, slot.IsEmpty())
	rec, err = slot.Read()
	require.NoError(t, err)
	assert.Equal(t, mon, rec)

	require.NoError(t, ed.Delete(slot))
	assert.True(t, slot.IsEmpty())

	_, err = boxes.Read(types.BoxAddress(3, 0))
	assert.ErrorIs(t, err, types.ErrOutOfRange)
	assert.ErrorIs(t, ed.Set(boxes.Slot(types.BoxAddress(0, 4)), mon, types.TouchSet), types.ErrOutOfRange)
}

func TestStatePersistsAcrossAttach(t *testing.T) {
	dir := t.TempDir()
	s := attach(t, dir)
	boxes, _ := seed(t, s)
	mon := entity.New("pk9", 4, "Ember", "ja")
	require.NoError(t, s.Editor().Set(boxes.Slot(types.BoxAddress(2, 3)), mon, types.TouchSet))
	require.NoError(t, s.LockSlot("boxes", types.BoxAddress(0, 0), true))
	require.NoError(t, s.Detach())

	s2 := attach(t, dir)
	boxes2, err := s2.Viewer("boxes")
	require.NoError(t, err)
	rec, err := boxes2.Read(types.BoxAddress(2, 3))
	require.NoError(t, err)
	assert.Equal(t, mon, rec)
	assert.Equal(t, types.WriteBlockedLocked, boxes2.CanWriteTo(types.BoxAddress(0, 0), nil))
}

func TestCanWriteTo(t *testing.T) {
	s := attach(t, t.TempDir())
	boxes, party := seed(t, s)
	ed := s.Editor()
	mon := entity.New("pk9", 1, "", "en")
	require.NoError(t, ed.Set(party.Slot(types.PartyAddress(0)), mon, types.TouchSet))
	require.NoError(t, s.LockSlot("boxes", types.BoxAddress(0, 1), true))

	tests := []struct {
		name string
		view *Viewer
		addr types.Address
		rec  types.Record
		want types.WriteBlocked
	}{
		{name: "free slot", view: boxes, addr: types.BoxAddress(0, 0), rec: mon, want: types.WriteBlockedNone},
		{name: "generic probe", view: boxes, addr: types.BoxAddress(0, 0), want: types.WriteBlockedNone},
		{name: "locked slot", view: boxes, addr: types.BoxAddress(0, 1), want: types.WriteBlockedLocked},
		{name: "out of range", view: boxes, addr: types.BoxAddress(9, 0), want: types.WriteBlockedLocked},
		{name: "wrong address kind", view: boxes, addr: types.PartyAddress(0), want: types.WriteBlockedLocked},
		{name: "other format", view: boxes, addr: types.BoxAddress(0, 0), rec: entity.New("pk3", 1, "", "en"), want: types.WriteBlockedFormat},
		{name: "emptying the party", view: party, addr: types.PartyAddress(0), rec: party.Blank(), want: types.WriteBlockedPartyEmpty},
		{name: "blank onto empty party slot", view: party, addr: types.PartyAddress(1), rec: party.Blank(), want: types.WriteBlockedNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.view.CanWriteTo(tt.addr, tt.rec))
		})
	}
}

func TestDeleteRefusesToEmptyParty(t *testing.T) {
	s := attach(t, t.TempDir())
	_, party := seed(t, s)
	ed := s.Editor()
	require.NoError(t, ed.Set(party.Slot(types.PartyAddress(0)), entity.New("pk9", 1, "", "en"), types.TouchSet))

	assert.ErrorIs(t, ed.Delete(party.Slot(types.PartyAddress(0))), types.ErrWriteBlocked)
	assert.False(t, party.IsEmpty(types.PartyAddress(0)))

	require.NoError(t, ed.Set(party.Slot(types.PartyAddress(1)), entity.New("pk9", 2, "", "en"), types.TouchSet))
	assert.NoError(t, ed.Delete(party.Slot(types.PartyAddress(0))))
}

func TestSwapContainers(t *testing.T) {
	s := attach(t, t.TempDir())
	boxes, _ := seed(t, s)
	ed := s.Editor()
	a := entity.New("pk9", 10, "", "en")
	b := entity.New("pk9", 20, "", "en")
	require.NoError(t, ed.Set(boxes.Slot(types.BoxAddress(0, 1)), a, types.TouchSet))
	require.NoError(t, ed.Set(boxes.Slot(types.BoxAddress(2, 3)), b, types.TouchSet))

	require.NoError(t, ed.SwapContainers(boxes, 0, 2))

	got, err := boxes.Read(types.BoxAddress(2, 1))
	require.NoError(t, err)
	assert.Equal(t, a, got)
	got, err = boxes.Read(types.BoxAddress(0, 3))
	require.NoError(t, err)
	assert.Equal(t, b, got)
	assert.True(t, boxes.IsEmpty(types.BoxAddress(0, 1)))

	assert.NoError(t, ed.SwapContainers(boxes, 1, 1))
	assert.ErrorIs(t, ed.SwapContainers(boxes, 0, 3), types.ErrOutOfRange)
}

func TestEditorRejectsForeignViewer(t *testing.T) {
	s := attach(t, t.TempDir())
	other := attach(t, t.TempDir())
	boxes, _ := seed(t, other)

	err := s.Editor().Set(boxes.Slot(types.BoxAddress(0, 0)), entity.New("pk9", 1, "", "en"), types.TouchSet)
	assert.ErrorIs(t, err, types.ErrViewerNotFound)
}

func TestViewRecordsLastSlot(t *testing.T) {
	s := attach(t, t.TempDir())
	boxes, _ := seed(t, s)

	_, ok := s.LastViewed()
	assert.False(t, ok)

	slot := boxes.Slot(types.BoxAddress(1, 1))
	s.Editor().View(slot)
	got, ok := s.LastViewed()
	assert.True(t, ok)
	assert.Equal(t, slot, got)
}

func TestEntries(t *testing.T) {
	s := attach(t, t.TempDir())
	boxes, _ := seed(t, s)
	mon := entity.New("pk9", 7, "Shell", "en")
	require.NoError(t, s.Editor().Set(boxes.Slot(types.BoxAddress(1, 0)), mon, types.TouchSet))
	require.NoError(t, s.LockSlot("boxes", types.BoxAddress(0, 2), true))

	entries, err := s.Entries("boxes")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, types.BoxAddress(0, 2), entries[0].Addr)
	assert.True(t, entries[0].Locked)
	assert.Nil(t, entries[0].Record)
	assert.Equal(t, mon, entries[1].Record)

	require.NoError(t, s.LockSlot("boxes", types.BoxAddress(0, 2), false))
	entries, err = s.Entries("boxes")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestExportImportRoundTrip(t *testing.T) {
	s := attach(t, t.TempDir())
	boxes, _ := seed(t, s)
	ed := s.Editor()
	mon := entity.New("pk9", 150, "Mew2", "en")
	require.NoError(t, ed.Set(boxes.Slot(types.BoxAddress(0, 0)), mon, types.TouchSet))

	snapshot := filepath.Join(t.TempDir(), "dump.jsonl")
	require.NoError(t, s.ExportJSONL(snapshot))

	require.NoError(t, ed.Delete(boxes.Slot(types.BoxAddress(0, 0))))
	require.NoError(t, ed.Set(boxes.Slot(types.BoxAddress(2, 2)), entity.New("pk9", 3, "", "en"), types.TouchSet))

	n, err := s.ImportJSONL(snapshot)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	got, err := boxes.Read(types.BoxAddress(0, 0))
	require.NoError(t, err)
	assert.Equal(t, mon, got)
	assert.True(t, boxes.IsEmpty(types.BoxAddress(2, 2)), "import replaces the viewer contents")
}

func TestLoadContainers(t *testing.T) {
	s := attach(t, t.TempDir())
	boxes, party := seed(t, s)
	require.NoError(t, s.Editor().Set(party.Slot(types.PartyAddress(0)), entity.New("pk9", 9, "", "en"), types.TouchSet))

	dir := t.TempDir()
	lines := `{"viewer":"boxes","container":1,"index":3,"record":{"id":"r-1","format":"pk9","species":12}}
not json
{"viewer":"ghost","container":0,"index":0,"record":{"id":"r-2","format":"pk9","species":1}}
{"viewer":"boxes","container":8,"index":0,"record":{"id":"r-3","format":"pk9","species":1}}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, slotsFile), []byte(lines), 0o644))

	require.NoError(t, s.LoadContainers(dir))

	rec, err := boxes.Read(types.BoxAddress(1, 3))
	require.NoError(t, err)
	assert.Equal(t, "r-1", rec.ID())
	assert.False(t, party.IsEmpty(types.PartyAddress(0)), "viewers absent from the snapshot are untouched")

	assert.Error(t, s.LoadContainers(t.TempDir()))
}
