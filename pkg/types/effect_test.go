package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDropModifierFor(t *testing.T) {
	tests := []struct {
		name string
		mods Modifiers
		want DropModifier
	}{
		{name: "no modifiers moves", mods: 0, want: DropMove},
		{name: "control alone moves", mods: ModControl, want: DropMove},
		{name: "shift clones", mods: ModShift, want: DropClone},
		{name: "alt overwrites", mods: ModAlt, want: DropOverwrite},
		{name: "shift and alt clone and overwrite", mods: ModShift | ModAlt, want: DropCloneOverwrite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DropModifierFor(tt.mods))
		})
	}
}

func TestDropModifierPolicy(t *testing.T) {
	assert.False(t, DropMove.Clones())
	assert.False(t, DropMove.Overwrites())
	assert.Equal(t, EffectLink, DropMove.Effect())

	assert.True(t, DropClone.Clones())
	assert.False(t, DropClone.Overwrites())
	assert.Equal(t, EffectCopy, DropClone.Effect())

	assert.False(t, DropOverwrite.Clones())
	assert.True(t, DropOverwrite.Overwrites())
	assert.Equal(t, EffectLink, DropOverwrite.Effect())

	assert.True(t, DropCloneOverwrite.Clones())
	assert.True(t, DropCloneOverwrite.Overwrites())
	assert.Equal(t, EffectCopy, DropCloneOverwrite.Effect())
}

func TestEffectHas(t *testing.T) {
	allowed := EffectCopy | EffectMove
	assert.True(t, allowed.Has(EffectCopy))
	assert.True(t, allowed.Has(EffectMove))
	assert.False(t, allowed.Has(EffectLink))
	assert.False(t, allowed.Has(EffectNone), "EffectNone is never contained")
	assert.Equal(t, "copy|move", allowed.String())
	assert.Equal(t, "none", EffectNone.String())
}

func TestAddressString(t *testing.T) {
	assert.Equal(t, "3:17", BoxAddress(3, 17).String())
	assert.Equal(t, "party:2", PartyAddress(2).String())
	assert.Equal(t, "pk", EncodingFor(false).Extension())
	assert.Equal(t, "ek", EncodingFor(true).Extension())
}

func TestParseAddress(t *testing.T) {
	tests := []struct {
		in      string
		want    Address
		wantErr bool
	}{
		{in: "3:17", want: BoxAddress(3, 17)},
		{in: " 0:0 ", want: BoxAddress(0, 0)},
		{in: "party:2", want: PartyAddress(2)},
		{in: "party", wantErr: true},
		{in: "x:1", wantErr: true},
		{in: "1:-2", wantErr: true},
		{in: "-1:2", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAddress(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
