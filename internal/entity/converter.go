package entity

import (
	"fmt"
	"unicode/utf8"

	"github.com/mesh-intelligence/slotshift/pkg/types"
)

// Language locks used by viewers whose storage keeps Japanese and
// international records apart.
const (
	LockJapanese      = "ja"
	LockInternational = "intl"
)

// Converter converts entities between formats. Conversion only moves
// forward: an entity cannot be stored in a generation older than its own.
type Converter struct{}

var _ types.Converter = Converter{}

// Convert returns rec in format.
func (Converter) Convert(rec types.Record, format string) (types.Record, error) {
	e, ok := rec.(*Entity)
	if !ok {
		return nil, fmt.Errorf("%w: %T is not an entity", types.ErrConversionFailed, rec)
	}
	to, ok := Lookup(format)
	if !ok {
		return nil, fmt.Errorf("%w: unknown format %q", types.ErrConversionFailed, format)
	}
	from, ok := Lookup(e.Generation)
	if !ok {
		return nil, fmt.Errorf("%w: unknown format %q", types.ErrConversionFailed, e.Generation)
	}
	if from.Name == to.Name {
		return e, nil
	}
	if to.Generation < from.Generation {
		return nil, fmt.Errorf("%w: cannot convert %s to older format %s", types.ErrConversionFailed, from.Name, to.Name)
	}
	if e.Species > to.MaxSpecies {
		return nil, fmt.Errorf("%w: species %d does not exist in %s", types.ErrConversionFailed, e.Species, to.Name)
	}
	out := e.Clone()
	out.Generation = to.Name
	return out, nil
}

// CompatibleVariant reports whether converted may be stored under lock.
func (Converter) CompatibleVariant(raw, converted types.Record, lock string) bool {
	japanese := converted.Variant() == LockJapanese
	switch lock {
	case LockJapanese:
		return japanese
	case LockInternational:
		return !japanese
	default:
		return true
	}
}

// EvaluateCompatibility lists the things that change when rec is stored in
// view.
func (Converter) EvaluateCompatibility(view types.Viewer, rec types.Record) []string {
	e, ok := rec.(*Entity)
	if !ok {
		return nil
	}
	var out []string
	if f, ok := Lookup(view.RecordFormat()); ok && utf8.RuneCountInString(e.Nickname) > f.MaxNickname {
		out = append(out, fmt.Sprintf("Nickname %q is longer than %d characters.", e.Nickname, f.MaxNickname))
	}
	if e.Egg && isParty(view) {
		out = append(out, "Eggs in the party cannot battle.")
	}
	return out
}

func isParty(view types.Viewer) bool {
	k, ok := view.(interface{ Kind() types.AddressKind })
	return ok && k.Kind() == types.AddressParty
}
