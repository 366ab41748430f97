package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/slotshift/internal/slottest"
	"github.com/mesh-intelligence/slotshift/pkg/types"
)

func TestDecodeBothForms(t *testing.T) {
	e := New("pk7", 25, "Sparky", "en")

	for _, enc := range []types.Encoding{types.EncodingDecrypted, types.EncodingEncrypted} {
		t.Run(enc.Extension(), func(t *testing.T) {
			data, err := e.Encode(enc)
			require.NoError(t, err)

			got, err := Codec{}.Decode(data)
			require.NoError(t, err)
			assert.Equal(t, e, got)
		})
	}
}

func TestEncryptedFormIsObfuscated(t *testing.T) {
	e := New("pk7", 25, "Sparky", "en")
	data, err := e.Encode(types.EncodingEncrypted)
	require.NoError(t, err)

	assert.Equal(t, "SSEK", string(data[:4]))
	assert.NotContains(t, string(data), "Sparky")
}

func TestDecodeRejects(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{name: "text", data: "hello", want: types.ErrUnrecognized},
		{name: "other json", data: `{"title":"notes"}`, want: types.ErrUnrecognized},
		{name: "unknown format", data: `{"format":"pk0","species":1}`, want: types.ErrUnrecognized},
		{name: "corrupt encrypted", data: "SSEK\x00\x00\x00\x01garbage", want: types.ErrInvalidData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.data))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestFileStemIsStable(t *testing.T) {
	e := New("pk9", 7, "Shelly Two", "en")
	assert.Equal(t, e.FileStem(), e.Clone().FileStem())
	assert.Contains(t, e.FileStem(), "007-Shelly_Two-")
	assert.Equal(t, "000-entity-", Blank("pk9").FileStem())
}

func TestPredicates(t *testing.T) {
	assert.True(t, Blank("pk9").IsBlank())
	egg := New("pk9", 1, "", "en")
	egg.Egg = true
	assert.False(t, egg.IsBlank())
	assert.True(t, egg.IsPlaceholder())
}

func TestConvert(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		species int
		to      string
		wantErr bool
	}{
		{name: "same format", from: "pk7", species: 25, to: "pk7"},
		{name: "forward", from: "pk3", species: 25, to: "pk9"},
		{name: "backward", from: "pk9", species: 25, to: "pk3", wantErr: true},
		{name: "unknown target", from: "pk9", species: 1, to: "xyz", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(tt.from, tt.species, "", "en")
			got, err := Converter{}.Convert(e, tt.to)
			if tt.wantErr {
				assert.ErrorIs(t, err, types.ErrConversionFailed)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.to, got.Format())
			assert.Equal(t, tt.from, e.Format(), "source entity is not modified")
		})
	}
}

func TestConvertRejectsForeignRecord(t *testing.T) {
	_, err := Converter{}.Convert(slottest.NewRecord("x"), "pk9")
	assert.ErrorIs(t, err, types.ErrConversionFailed)
}

func TestCompatibleVariant(t *testing.T) {
	ja := New("pk1", 1, "", LockJapanese)
	en := New("pk1", 1, "", "en")
	c := Converter{}

	assert.True(t, c.CompatibleVariant(ja, ja, ""))
	assert.True(t, c.CompatibleVariant(ja, ja, LockJapanese))
	assert.False(t, c.CompatibleVariant(en, en, LockJapanese))
	assert.True(t, c.CompatibleVariant(en, en, LockInternational))
	assert.False(t, c.CompatibleVariant(ja, ja, LockInternational))
}

type pk9Boxes struct{ *slottest.Viewer }

func (pk9Boxes) RecordFormat() string { return "pk9" }

func TestEvaluateCompatibility(t *testing.T) {
	box := pk9Boxes{slottest.NewBoxes("boxes", 30, 1)}
	long := New("pk9", 1, "Longnickname1234", "en")

	adv := Converter{}.EvaluateCompatibility(box, long)
	assert.Len(t, adv, 1)

	assert.Empty(t, Converter{}.EvaluateCompatibility(box, New("pk9", 1, "Bud", "en")))
}

func TestFormats(t *testing.T) {
	assert.Equal(t, []string{"pk1", "pk3", "pk7", "pk9"}, Formats())
	_, ok := Lookup("PK7")
	assert.True(t, ok)
}
