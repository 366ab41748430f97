package transfer

import (
	"fmt"

	"github.com/mesh-intelligence/slotshift/pkg/types"
)

// PointerDown arms a drag on a primary-button press. Pressing a slot that is
// not selected without holding Control starts a fresh single-slot drag.
func (o *Orchestrator) PointerDown(ev types.PointerEvent) {
	if ev.Button != types.ButtonPrimary {
		return
	}
	o.session.Press(ev.Position)
	if ev.Slot != nil && !ev.Mods.Only(types.ModControl) && !o.selection.Contains(*ev.Slot) {
		o.selection.Clear()
	}
}

// PointerUp ends a press that never became a drag.
func (o *Orchestrator) PointerUp(ev types.PointerEvent) {
	o.session.Release(ev.Button == types.ButtonPrimary)
}

// Click toggles the slot in the selection when Control is held, otherwise
// clears the selection and opens the slot in the host. Clicks during a
// transfer are ignored.
func (o *Orchestrator) Click(ev types.PointerEvent) {
	if o.session.InProgress() || ev.Slot == nil {
		return
	}
	if ev.Mods&types.ModControl != 0 {
		if ev.Slot.IsEmpty() {
			return
		}
		o.selection.Toggle(*ev.Slot)
		return
	}
	o.selection.Clear()
	o.host.View(*ev.Slot)
}

// PointerMove starts a transfer once the pointer has travelled past the drag
// threshold from an occupied slot. Moves during a transfer are ignored.
// Holding exactly Control drags the encrypted form.
func (o *Orchestrator) PointerMove(ev types.PointerEvent) error {
	if !o.session.CanStartDrag(ev.Position) {
		return nil
	}
	if ev.Slot == nil || ev.Slot.IsEmpty() {
		return nil
	}
	return o.StartTransfer(*ev.Slot, ev.Mods.Only(types.ModControl))
}

// DragEnter classifies a payload entering a slot: Copy for file drops from
// outside, Move for internal payloads.
func (o *Orchestrator) DragEnter(ev types.DragEnterEvent) types.Effect {
	effect := types.EffectNone
	switch {
	case ev.Allowed.Has(types.EffectCopy):
		effect = types.EffectCopy
	case ev.HasPayload:
		effect = types.EffectMove
	}
	if o.session.InProgress() {
		if src := o.session.Source(); src != nil {
			o.renderer.SetDragCursor(*src)
		}
	}
	return effect
}

// QueryContinueDrag observes the transport's poll. A drop or cancel ends the
// gesture.
func (o *Orchestrator) QueryContinueDrag(action types.DragAction) {
	if action != types.DragDrop && action != types.DragCancel {
		return
	}
	o.session.Abort()
}

// Drop handles a payload dropped onto a slot. A destination or source that
// is not writable refuses the drop with a beep.
func (o *Orchestrator) Drop(ev types.DropEvent) (types.Effect, error) {
	if ev.Slot == nil {
		o.finishDrop()
		return types.EffectNone, types.ErrNoDestination
	}
	dest := *ev.Slot
	src := o.session.Source()
	if blocked := dest.CanWriteTo(nil); blocked != types.WriteBlockedNone {
		return o.refuse(fmt.Errorf("%w: %s: %s", types.ErrWriteBlocked, dest, blocked))
	}
	if src != nil {
		if blocked := src.CanWriteTo(nil); blocked != types.WriteBlockedNone {
			return o.refuse(fmt.Errorf("%w: %s: %s", types.ErrWriteBlocked, src, blocked))
		}
	}

	if src == nil {
		o.transferID = newTransferID()
	}
	o.session.SetSwap(ev.Mods&types.ModControl != 0)
	o.session.Resolve(&dest)
	return o.CompleteDrop(ev.Paths, types.DropModifierFor(ev.Mods))
}

func (o *Orchestrator) refuse(err error) (types.Effect, error) {
	o.host.Beep()
	o.session.Reset()
	o.logger.Debug("drop refused", "transfer_id", o.transferID, "error", err)
	return types.EffectCopy, err
}

// Reset clears the session and selection, as when the host reloads its
// containers.
func (o *Orchestrator) Reset() {
	o.session.Reset()
	o.session.TakeResolution()
	o.selection.Clear()
}
