package scene

// IsSkinned reports whether the mesh carries a skin binding.
func (m *Mesh) IsSkinned() bool {
	return m.Skin != nil && len(m.Skin.Joints) > 0
}

// MaterialGroups returns the draw groups, synthesizing a single group over all
// indices when the mesh declares none.
func (m *Mesh) MaterialGroups() []Group {
	if len(m.Groups) > 0 {
		return m.Groups
	}
	return []Group{{Start: 0, Count: len(m.Indices), Material: 0}}
}

// Len returns the number of morph channels.
func (mt *MorphTargets) Len() int {
	if mt == nil {
		return 0
	}
	return len(mt.Names)
}

// Dictionary returns the name → index map. Duplicate names keep the first index.
func (mt *MorphTargets) Dictionary() map[string]int {
	dict := make(map[string]int, mt.Len())
	if mt == nil {
		return dict
	}
	for i, name := range mt.Names {
		if _, ok := dict[name]; !ok {
			dict[name] = i
		}
	}
	return dict
}

// SetWeight writes channel i's weight; out-of-range indices are ignored.
func (mt *MorphTargets) SetWeight(i int, w float64) {
	if mt == nil || i < 0 || i >= len(mt.Weights) {
		return
	}
	mt.Weights[i] = w
}
