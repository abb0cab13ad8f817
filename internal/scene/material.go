package scene

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/tiendc/go-deepcopy"
)

// Color is a linear RGBA color with components in [0,1].
type Color struct {
	R, G, B, A float64
}

// White is the neutral base color.
var White = Color{1, 1, 1, 1}

// ParseColor parses "#rgb" or "#rrggbb" (leading '#' optional) into an opaque color.
func ParseColor(s string) (Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return Color{}, errors.Errorf("scene: invalid color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, errors.Wrapf(err, "scene: invalid color %q", s)
	}
	return Color{
		R: float64(v>>16&0xff) / 255,
		G: float64(v>>8&0xff) / 255,
		B: float64(v&0xff) / 255,
		A: 1,
	}, nil
}

// Hex formats c as "#rrggbb".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", to8(c.R), to8(c.G), to8(c.B))
}

func to8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

// Material is one material slot's shading parameters.
type Material struct {
	Name             string
	BaseColor        Color
	BaseColorTexture string // texture URI; empty when untextured
	DoubleSided      bool
	Extras           map[string]string

	Origin *Material // authored material this one was cloned from; nil when authored
}

// Clone returns a deep copy so color edits do not leak into other users of m.
// The copy's Origin is the authored material at the root of the clone chain.
func (m *Material) Clone() (*Material, error) {
	out := *m
	out.Extras = nil
	if err := deepcopy.Copy(&out.Extras, m.Extras); err != nil {
		return nil, errors.Wrapf(err, "scene: clone material %q", m.Name)
	}
	out.Origin = m.Authored()
	return &out, nil
}

// Authored returns the material m was cloned from, or m itself.
func (m *Material) Authored() *Material {
	if m.Origin != nil {
		return m.Origin
	}
	return m
}
