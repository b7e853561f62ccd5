package templates

import (
	"errors"
	"fmt"
	"math"

	"github.com/fxamacker/cbor/v2"

	"github.com/high-horse/sourceafis/internal/primitives"
)

// FormatVersion is written into every serialized template.
const FormatVersion = 1

var (
	// ErrMalformedTemplate is returned for blobs that cannot be decoded into a template.
	ErrMalformedTemplate = errors.New("malformed template")
)

type persistentMinutia struct {
	X         int     `cbor:"x"`
	Y         int     `cbor:"y"`
	Direction float64 `cbor:"direction"`
	Type      int     `cbor:"type"`
}

type persistentTemplate struct {
	Version  int                 `cbor:"version"`
	Width    int                 `cbor:"width"`
	Height   int                 `cbor:"height"`
	Minutiae []persistentMinutia `cbor:"minutiae"`
}

var encMode cbor.EncMode

func init() {
	var err error
	encMode, err = cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
}

// Serialize encodes the template into its CBOR blob.
func Serialize(t *Template) ([]byte, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: nil template", ErrMalformedTemplate)
	}
	p := persistentTemplate{
		Version:  FormatVersion,
		Width:    t.Width,
		Height:   t.Height,
		Minutiae: make([]persistentMinutia, len(t.Minutiae)),
	}
	for i, m := range t.Minutiae {
		p.Minutiae[i] = persistentMinutia{
			X:         m.Position.X,
			Y:         m.Position.Y,
			Direction: m.Direction,
			Type:      int(m.Type),
		}
	}
	return encMode.Marshal(p)
}

// Deserialize decodes a CBOR blob. Every failure wraps ErrMalformedTemplate.
func Deserialize(data []byte) (*Template, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty blob", ErrMalformedTemplate)
	}
	var p persistentTemplate
	if err := cbor.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedTemplate, err)
	}
	if p.Version != FormatVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrMalformedTemplate, p.Version)
	}
	t := &Template{
		Width:    p.Width,
		Height:   p.Height,
		Minutiae: make([]Minutia, len(p.Minutiae)),
	}
	for i, m := range p.Minutiae {
		mt := MinutiaType(m.Type)
		if !mt.Valid() {
			return nil, fmt.Errorf("%w: minutia %d has unknown type %d", ErrMalformedTemplate, i, m.Type)
		}
		if math.IsNaN(m.Direction) || math.IsInf(m.Direction, 0) {
			return nil, fmt.Errorf("%w: minutia %d has non-finite direction", ErrMalformedTemplate, i)
		}
		t.Minutiae[i] = Minutia{
			Position:  primitives.IntPoint{X: m.X, Y: m.Y},
			Direction: primitives.NormalizeAngle(m.Direction),
			Type:      mt,
		}
	}
	return t, nil
}
