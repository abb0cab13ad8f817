package skeleton

import (
	"github.com/go-gl/mathgl/mgl64"

	"avatar-engine/internal/scene"
)

// BuildWorldMatrices computes the world transform of every node under root in a
// single top-down pass. Parents are always resolved before their children.
func BuildWorldMatrices(root *scene.Node) map[*scene.Node]mgl64.Mat4 {
	worlds := make(map[*scene.Node]mgl64.Mat4)
	scene.Walk(root, func(n *scene.Node) bool {
		local := n.Local()
		if parent, ok := worlds[n.Parent]; ok && n.Parent != nil {
			worlds[n] = parent.Mul4(local)
		} else {
			worlds[n] = local
		}
		return true
	})
	return worlds
}

// Deform returns the mesh's vertex positions in world space after applying the
// current morph weights and, for skinned meshes, linear blend skinning.
func Deform(m *scene.Mesh, worlds map[*scene.Node]mgl64.Mat4) []mgl64.Vec3 {
	out := make([]mgl64.Vec3, len(m.Positions))
	copy(out, m.Positions)

	// Morph targets
	if m.Morph != nil {
		for ch, deltas := range m.Morph.Deltas {
			if ch >= len(m.Morph.Weights) {
				break
			}
			w := m.Morph.Weights[ch]
			if w == 0 {
				continue
			}
			for vi := range out {
				if vi >= len(deltas) {
					break
				}
				out[vi] = out[vi].Add(deltas[vi].Mul(w))
			}
		}
	}

	if !m.IsSkinned() || len(m.Weights) != len(out) {
		// Rigid: mesh follows its node
		nodeWorld := lookup(worlds, m.Node)
		for vi := range out {
			out[vi] = mgl64.TransformCoordinate(out[vi], nodeWorld)
		}
		return out
	}

	jointMats := make([]mgl64.Mat4, len(m.Skin.Joints))
	for i, j := range m.Skin.Joints {
		jm := lookup(worlds, j)
		if i < len(m.Skin.InverseBind) {
			jm = jm.Mul4(m.Skin.InverseBind[i])
		}
		jointMats[i] = jm
	}

	for vi := range out {
		v := out[vi]
		var acc mgl64.Vec3
		var total float64
		for k := 0; k < 4; k++ {
			w := m.Weights[vi][k]
			ji := m.Joints[vi][k]
			if w == 0 || ji < 0 || ji >= len(jointMats) {
				continue
			}
			acc = acc.Add(mgl64.TransformCoordinate(v, jointMats[ji]).Mul(w))
			total += w
		}
		if total > 0 {
			out[vi] = acc.Mul(1 / total)
		} else {
			out[vi] = mgl64.TransformCoordinate(v, lookup(worlds, m.Node))
		}
	}
	return out
}

func lookup(worlds map[*scene.Node]mgl64.Mat4, n *scene.Node) mgl64.Mat4 {
	if n == nil {
		return mgl64.Ident4()
	}
	if w, ok := worlds[n]; ok {
		return w
	}
	return n.World()
}
