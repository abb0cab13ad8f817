package scene

// Instance returns a copy of the asset that can be posed, normalized and
// recolored independently. Nodes, clips, material slot arrays, skins and morph
// weights are copied; vertex data, deltas and the materials themselves stay shared.
// Slots holding a per-instance clone are reset to the authored material.
func (a *Asset) Instance() *Asset {
	if a == nil {
		return nil
	}
	nodes := make(map[*Node]*Node)
	out := &Asset{Source: a.Source, Images: a.Images}
	out.Root = copyNode(a.Root, nil, nodes)

	meshes := make(map[*Mesh]*Mesh, len(a.Meshes))
	for _, m := range a.Meshes {
		if m == nil {
			continue
		}
		c := *m
		c.Node = nodes[m.Node]
		c.Materials = make([]*Material, len(m.Materials))
		for i, mat := range m.Materials {
			if mat != nil {
				mat = mat.Authored()
			}
			c.Materials[i] = mat
		}
		if m.Skin != nil {
			skin := &Skin{InverseBind: m.Skin.InverseBind}
			for _, j := range m.Skin.Joints {
				skin.Joints = append(skin.Joints, nodes[j])
			}
			c.Skin = skin
		}
		if m.Morph != nil {
			c.Morph = &MorphTargets{
				Names:   m.Morph.Names,
				Weights: append([]float64(nil), m.Morph.Weights...),
				Deltas:  m.Morph.Deltas,
			}
		}
		meshes[m] = &c
		out.Meshes = append(out.Meshes, &c)
	}
	for _, n := range nodes {
		if n.Mesh != nil {
			if c, ok := meshes[n.Mesh]; ok {
				n.Mesh = c
			}
		}
	}

	for _, clip := range a.Clips {
		if clip == nil {
			continue
		}
		c := &Clip{Name: clip.Name, Duration: clip.Duration}
		for _, tr := range clip.Tracks {
			if tr == nil {
				continue
			}
			t := *tr
			t.Node = nodes[tr.Node]
			c.Tracks = append(c.Tracks, &t)
		}
		out.Clips = append(out.Clips, c)
	}
	return out
}

func copyNode(n, parent *Node, seen map[*Node]*Node) *Node {
	if n == nil {
		return nil
	}
	c := &Node{
		Name:     n.Name,
		Position: n.Position,
		Rotation: n.Rotation,
		Scale:    n.Scale,
		Parent:   parent,
		Mesh:     n.Mesh,
	}
	seen[n] = c
	for _, child := range n.Children {
		c.Children = append(c.Children, copyNode(child, c, seen))
	}
	return c
}
