package transfer

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mesh-intelligence/slotshift/internal/placement"
	"github.com/mesh-intelligence/slotshift/pkg/types"
)

// CompleteDrop applies a resolved drop of payload onto the session's
// destination. It returns the effect to answer to the transport. The
// selection and session are cleared on every path.
func (o *Orchestrator) CompleteDrop(payload []string, mod types.DropModifier) (types.Effect, error) {
	defer o.finishDrop()
	log := o.logger.With("transfer_id", o.transferID)

	if len(payload) == 0 {
		return types.EffectNone, nil
	}
	if len(payload) == 1 && o.files.IsDir(payload[0]) {
		o.metrics.IncDrop("directory")
		if err := o.host.LoadContainers(payload[0]); err != nil {
			log.Error("loading containers", "path", payload[0], "error", err)
			o.host.Alert(err.Error())
			return types.EffectNone, fmt.Errorf("loading containers from %s: %w", payload[0], err)
		}
		return types.EffectCopy, nil
	}

	if o.session.IsSameLocation() {
		return types.EffectLink, nil
	}
	dest := o.session.Destination()
	if dest == nil {
		return types.EffectNone, types.ErrNoDestination
	}

	var err error
	src := o.session.Source()
	switch {
	case src == nil:
		o.metrics.IncDrop("import")
		err = o.importExternal(log, payload, *dest)
	case len(payload) > 1:
		o.metrics.IncDrop("multi")
		err = o.applyMulti(log, payload, *dest, mod)
	default:
		o.metrics.IncDrop("single")
		err = o.applySingle(log, *src, *dest, mod)
	}
	if err != nil {
		log.Info("drop not applied", "slot", dest.String(), "error", err)
		return types.EffectNone, err
	}
	return mod.Effect(), nil
}

func (o *Orchestrator) finishDrop() {
	o.session.Reset()
	o.selection.Clear()
}

// applySingle moves, swaps, or clones one record from src to dest.
func (o *Orchestrator) applySingle(log *slog.Logger, src, dest types.Slot, mod types.DropModifier) error {
	rec, err := src.Read()
	if err != nil {
		return o.fail(fmt.Errorf("reading %s: %w", src, err))
	}
	if blocked := dest.CanWriteTo(rec); blocked != types.WriteBlockedNone {
		return o.fail(fmt.Errorf("%w: %s: %s", types.ErrWriteBlocked, dest, blocked))
	}

	touch := types.TouchSet
	if o.session.Swap() {
		touch = types.TouchSwap
	}
	var j journal
	if !mod.Clones() {
		if dest.IsEmpty() || mod == types.DropOverwrite {
			if err := j.write(src, func() error { return o.editor.Delete(src) }); err != nil {
				return o.fail(fmt.Errorf("vacating %s: %w", src, err))
			}
		} else {
			prev, err := dest.Read()
			if err != nil {
				return o.fail(fmt.Errorf("reading %s: %w", dest, err))
			}
			if err := j.write(src, func() error { return o.editor.Set(src, prev, touch) }); err != nil {
				return o.fail(fmt.Errorf("swapping into %s: %w", src, err))
			}
		}
	}
	if err := j.write(dest, func() error { return o.editor.Set(dest, rec, touch) }); err != nil {
		j.rollback(log, o.editor)
		return o.fail(fmt.Errorf("writing %s: %w", dest, err))
	}
	log.Debug("record placed", "slot", dest.String(), "touch", touch.String(), "modifier", mod.String())
	return nil
}

// applyMulti places a multi-record payload starting at dest. Every file is
// decoded before anything is written; a decode failure aborts the batch.
func (o *Orchestrator) applyMulti(log *slog.Logger, payload []string, dest types.Slot, mod types.DropModifier) error {
	format := dest.View.RecordFormat()
	records := make([]types.Record, 0, len(payload))
	for _, path := range payload {
		data, err := o.files.Read(path)
		if err != nil {
			return o.fail(fmt.Errorf("%w: %v", types.ErrConversionFailed, err))
		}
		raw, err := o.codec.Decode(data)
		if err != nil {
			return o.fail(fmt.Errorf("%w: %s: %v", types.ErrConversionFailed, path, err))
		}
		rec, err := o.converter.Convert(raw, format)
		if err != nil {
			return o.fail(err)
		}
		records = append(records, rec)
	}

	plan, err := placement.Build(placement.Request{
		Records:   records,
		Start:     dest.Addr,
		Layout:    dest.View.Layout(),
		Overwrite: mod.Overwrites(),
	}, dest.View)
	if err != nil {
		return o.fail(err)
	}

	// A failed write rolls back the whole batch.
	var j journal
	for _, pl := range plan.Placements {
		slot := types.Slot{View: dest.View, Addr: pl.Addr}
		if err := j.write(slot, func() error { return o.editor.Set(slot, pl.Record, types.TouchSet) }); err != nil {
			j.rollback(log, o.editor)
			return o.fail(fmt.Errorf("placing record at %s: %w", slot, err))
		}
	}

	if !mod.Clones() {
		// Sources line up with the payload; only the placed prefix is vacated.
		blank := dest.View.Blank()
		sources := o.selection.All()
		if placed := len(plan.Placements); len(sources) > placed {
			sources = sources[:placed]
		}
		for _, src := range sources {
			if src.View == dest.View && plan.Placed(src.Addr) {
				continue
			}
			if err := j.write(src, func() error { return o.editor.Set(src, blank, types.TouchNone) }); err != nil {
				j.rollback(log, o.editor)
				return o.fail(fmt.Errorf("vacating %s: %w", src, err))
			}
		}
	}

	log.Info("batch placed", "slot", dest.String(), "placed", len(plan.Placements), "unplaced", plan.Unplaced)
	if plan.Unplaced > 0 {
		o.metrics.AddUnplaced(plan.Unplaced)
		o.host.Alert(fmt.Sprintf("%d of %d records could not be placed: no free slots left.", plan.Unplaced, len(records)))
	}
	return nil
}

// importExternal writes the first dropped file from outside the
// application into dest. Files the codec does not recognise are forwarded
// to the host and count as handled.
func (o *Orchestrator) importExternal(log *slog.Logger, payload []string, dest types.Slot) error {
	path := payload[0]
	data, err := o.files.Read(path)
	if err != nil {
		return o.fail(fmt.Errorf("%w: %v", types.ErrConversionFailed, err))
	}
	raw, err := o.codec.Decode(data)
	if errors.Is(err, types.ErrUnrecognized) {
		log.Debug("forwarding unrecognised drop", "path", path)
		o.metrics.IncDrop("forwarded")
		o.host.ForwardDrop(payload)
		return nil
	}
	if err != nil {
		return o.fail(fmt.Errorf("%w: %s: %v", types.ErrConversionFailed, path, err))
	}

	rec, err := o.converter.Convert(raw, dest.View.RecordFormat())
	if err != nil {
		return o.fail(err)
	}

	badDest := dest.CanWriteTo(nil) != types.WriteBlockedNone
	if badDest && (rec.IsBlank() || rec.IsPlaceholder()) {
		return types.ErrEmptyDisallowed
	}

	if vl, ok := dest.View.(types.VariantLocked); ok {
		if lock := vl.VariantLock(); lock != "" && !o.converter.CompatibleVariant(raw, rec, lock) {
			return o.fail(fmt.Errorf("%w: %q cannot be stored with %q records", types.ErrIncompatibleVariant, rec.Variant(), lock))
		}
	}

	if advisories := o.converter.EvaluateCompatibility(dest.View, rec); len(advisories) > 0 {
		if !o.host.Confirm(strings.Join(advisories, "\n")) {
			log.Debug("import declined", "path", path, "advisories", len(advisories))
			return types.ErrUserCancelled
		}
	}

	if blocked := dest.CanWriteTo(rec); blocked != types.WriteBlockedNone {
		return o.fail(fmt.Errorf("%w: %s: %s", types.ErrWriteBlocked, dest, blocked))
	}
	if err := o.editor.Set(dest, rec, types.TouchSet); err != nil {
		return o.fail(fmt.Errorf("writing %s: %w", dest, err))
	}
	log.Info("record imported", "path", path, "slot", dest.String())
	return nil
}

// journal remembers what a drop overwrote so a failed drop can be undone.
type journal struct {
	entries []journalEntry
}

type journalEntry struct {
	slot types.Slot
	prev types.Record
}

// write reads slot's current record, runs fn, and journals the old record
// when fn succeeds.
func (j *journal) write(slot types.Slot, fn func() error) error {
	prev, err := slot.Read()
	if err != nil {
		return err
	}
	if err := fn(); err != nil {
		return err
	}
	j.entries = append(j.entries, journalEntry{slot: slot, prev: prev})
	return nil
}

// rollback restores journaled slots, newest first.
func (j *journal) rollback(log *slog.Logger, editor types.SlotEditor) {
	for i := len(j.entries) - 1; i >= 0; i-- {
		e := j.entries[i]
		if err := editor.Set(e.slot, e.prev, types.TouchNone); err != nil {
			log.Error("restoring slot", "slot", e.slot.String(), "error", err)
		}
	}
	j.entries = nil
}

// fail surfaces err to the user once and returns it.
func (o *Orchestrator) fail(err error) error {
	o.host.Alert(err.Error())
	return err
}
