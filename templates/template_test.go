package templates

import (
	"math"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMinutiaNormalizesDirection(t *testing.T) {
	m := NewMinutia(1, 2, -math.Pi/2, Bifurcation)
	assert.InDelta(t, 3*math.Pi/2, m.Direction, 1e-9)
	assert.Equal(t, 1, m.Position.X)
	assert.Equal(t, "bifurcation", m.Type.String())
}

func TestTemplateLen(t *testing.T) {
	var nilTemplate *Template
	assert.Equal(t, 0, nilTemplate.Len())
	assert.Equal(t, 2, New(10, 10, NewMinutia(0, 0, 0, Ending), NewMinutia(1, 1, 0, Ending)).Len())
}

func TestTranslate(t *testing.T) {
	tpl := New(100, 100, NewMinutia(10, 10, 1, Ending))
	shifted := tpl.Translate(5, -3)
	assert.Equal(t, 15, shifted.Minutiae[0].Position.X)
	assert.Equal(t, 7, shifted.Minutiae[0].Position.Y)
	assert.Equal(t, 10, tpl.Minutiae[0].Position.X, "original must not change")
}

func TestSerializeDeserialize(t *testing.T) {
	tpl := New(300, 400,
		NewMinutia(10, 20, 0.5, Ending),
		NewMinutia(30, 40, 6, Bifurcation),
	)
	data, err := Serialize(tpl)
	require.NoError(t, err)

	decoded, err := Deserialize(data)
	require.NoError(t, err)
	assert.Equal(t, tpl, decoded)
}

func TestDeserializeMalformed(t *testing.T) {
	badType, err := cbor.Marshal(persistentTemplate{
		Version:  FormatVersion,
		Minutiae: []persistentMinutia{{X: 1, Y: 1, Type: 7}},
	})
	require.NoError(t, err)
	badVersion, err := cbor.Marshal(persistentTemplate{Version: 99})
	require.NoError(t, err)
	badDirection, err := cbor.Marshal(persistentTemplate{
		Version:  FormatVersion,
		Minutiae: []persistentMinutia{{Direction: math.NaN()}},
	})
	require.NoError(t, err)

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"garbage", []byte("this is not a template")},
		{"unknown type", badType},
		{"unknown version", badVersion},
		{"nan direction", badDirection},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Deserialize(tt.data)
			assert.ErrorIs(t, err, ErrMalformedTemplate)
		})
	}
}
