package scene

import (
	"github.com/pkg/errors"

	"avatar-engine/internal/mathutil"
)

// ErrNoRoot is returned by Validate for an asset without a root node.
var ErrNoRoot = errors.New("scene: asset has no root node")

// Validate checks the structural invariants the engine relies on.
func (a *Asset) Validate() error {
	if a == nil || a.Root == nil {
		return ErrNoRoot
	}
	if a.Root.Parent != nil {
		return errors.New("scene: root node has a parent")
	}
	for _, n := range a.Nodes() {
		if !mathutil.IsFinite(n.Position[:]...) || !mathutil.IsFinite(n.Scale[:]...) || !mathutil.QuatIsFinite(n.Rotation) {
			return errors.Errorf("scene: node %q has a non-finite transform", n.Name)
		}
	}
	for i, m := range a.Meshes {
		if m == nil {
			return errors.Errorf("scene: mesh %d is nil", i)
		}
		if m.Node == nil {
			return errors.Errorf("scene: mesh %q is not attached to a node", m.Name)
		}
		for _, g := range m.Groups {
			if g.Material < 0 || g.Material >= len(m.Materials) {
				return errors.Errorf("scene: mesh %q group references material %d of %d", m.Name, g.Material, len(m.Materials))
			}
			if g.Start < 0 || g.Start+g.Count > len(m.Indices) {
				return errors.Errorf("scene: mesh %q group range out of bounds", m.Name)
			}
		}
		if m.Morph != nil && len(m.Morph.Weights) != len(m.Morph.Names) {
			return errors.Errorf("scene: mesh %q has %d morph names but %d weights", m.Name, len(m.Morph.Names), len(m.Morph.Weights))
		}
		if m.IsSkinned() && len(m.Skin.InverseBind) != 0 && len(m.Skin.InverseBind) != len(m.Skin.Joints) {
			return errors.Errorf("scene: mesh %q skin has %d joints but %d inverse bind matrices", m.Name, len(m.Skin.Joints), len(m.Skin.InverseBind))
		}
	}
	for i, c := range a.Clips {
		if c == nil {
			return errors.Errorf("scene: clip %d is nil", i)
		}
		for j, tr := range c.Tracks {
			if tr == nil {
				return errors.Errorf("scene: clip %q track %d is nil", c.Name, j)
			}
			if tr.Node == nil {
				return errors.Errorf("scene: clip %q has a track without target", c.Name)
			}
			if len(tr.Times) == 0 {
				continue
			}
			if len(tr.Values)%len(tr.Times) != 0 {
				return errors.Errorf("scene: clip %q %s track on %q has %d values for %d keys", c.Name, tr.Property, tr.Node.Name, len(tr.Values), len(tr.Times))
			}
		}
	}
	return nil
}

// Stride returns the number of values per keyframe.
func (t *Track) Stride() int {
	switch t.Property {
	case Translation, Scale:
		return 3
	case Rotation:
		return 4
	}
	if len(t.Times) == 0 {
		return 0
	}
	return len(t.Values) / len(t.Times)
}
