package transport

import (
	"fmt"
	"path"
	"sync"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"

	"github.com/mesh-intelligence/slotshift/pkg/types"
)

// DropHandler is the drop side of the transfer engine.
type DropHandler interface {
	DragEnter(ev types.DragEnterEvent) types.Effect
	QueryContinueDrag(action types.DragAction)
	Drop(ev types.DropEvent) (types.Effect, error)
}

// SlotTarget releases a drag over a slot of the same application. The drop
// error, if any, is kept for Err; the transport itself does not fail.
type SlotTarget struct {
	Handler DropHandler
	Slot    types.Slot
	Mods    types.Modifiers

	mu  sync.Mutex
	err error
}

func (t *SlotTarget) Accept(paths []string, allowed types.Effect) (types.Effect, error) {
	slot := t.Slot
	effect := t.Handler.DragEnter(types.DragEnterEvent{Slot: &slot, Allowed: allowed, HasPayload: len(paths) > 0})
	if effect == types.EffectNone {
		t.Handler.QueryContinueDrag(types.DragCancel)
		return types.EffectNone, nil
	}
	t.Handler.QueryContinueDrag(types.DragDrop)
	effect, err := t.Handler.Drop(types.DropEvent{Slot: &slot, Paths: paths, Mods: t.Mods})

	t.mu.Lock()
	t.err = err
	t.mu.Unlock()
	return effect, nil
}

// Err returns the error of the last drop.
func (t *SlotTarget) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// DirTarget releases a drag outside the application, into a directory. It
// copies every dragged file and answers Copy.
type DirTarget struct {
	// Dest receives the copies.
	Dest billy.Filesystem
	// Source reads the dragged paths; nil reads the host filesystem.
	Source billy.Filesystem

	mu     sync.Mutex
	copied []string
}

// NewDirTarget returns a DirTarget that copies into dir on the host
// filesystem.
func NewDirTarget(dir string) *DirTarget {
	return &DirTarget{Dest: osfs.New(dir)}
}

func (t *DirTarget) Accept(paths []string, allowed types.Effect) (types.Effect, error) {
	if !allowed.Has(types.EffectCopy) {
		return types.EffectNone, nil
	}
	src := t.Source
	if src == nil {
		src = osfs.New("/")
	}
	var copied []string
	for _, p := range paths {
		data, err := util.ReadFile(src, p)
		if err != nil {
			return types.EffectNone, fmt.Errorf("reading %s: %w", p, err)
		}
		name := path.Base(p)
		if err := util.WriteFile(t.Dest, name, data, 0o644); err != nil {
			return types.EffectNone, fmt.Errorf("writing %s: %w", name, err)
		}
		copied = append(copied, name)
	}

	t.mu.Lock()
	t.copied = append(t.copied, copied...)
	t.mu.Unlock()
	return types.EffectCopy, nil
}

// Copied returns the names of the files written so far.
func (t *DirTarget) Copied() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.copied...)
}

// CancelTarget abandons the drag.
type CancelTarget struct{}

func (CancelTarget) Accept([]string, types.Effect) (types.Effect, error) {
	return types.EffectNone, nil
}
