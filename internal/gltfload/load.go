// Package gltfload converts glTF 2.0 documents (.gltf/.glb) into scene assets.
package gltfload

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"

	"avatar-engine/internal/scene"
)

// RootName is the synthetic node every scene root is attached to.
const RootName = "AvatarRoot"

// Load opens path and converts its default scene.
func Load(path string) (*scene.Asset, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "gltfload: open %s", path)
	}
	a, err := Convert(doc, path)
	if err != nil {
		return nil, errors.Wrapf(err, "gltfload: convert %s", path)
	}
	return a, nil
}

type converter struct {
	doc       *gltf.Document
	nodes     []*scene.Node
	materials []*scene.Material
	asset     *scene.Asset
}

// Convert builds an asset from an already decoded document. source is
// recorded on the asset and used to name embedded images.
func Convert(doc *gltf.Document, source string) (*scene.Asset, error) {
	c := &converter{doc: doc, asset: &scene.Asset{Source: source}}

	c.convertMaterials()
	if err := c.convertNodes(); err != nil {
		return nil, err
	}
	if err := c.convertMeshes(); err != nil {
		return nil, err
	}
	if err := c.convertAnimations(); err != nil {
		return nil, err
	}
	return c.asset, nil
}

func (c *converter) convertMaterials() {
	for i, m := range c.doc.Materials {
		mat := &scene.Material{Name: m.Name, BaseColor: scene.White, DoubleSided: m.DoubleSided}
		if mat.Name == "" {
			mat.Name = fmt.Sprintf("material_%d", i)
		}
		if pbr := m.PBRMetallicRoughness; pbr != nil {
			if f := pbr.BaseColorFactor; f != nil {
				mat.BaseColor = scene.Color{R: float64(f[0]), G: float64(f[1]), B: float64(f[2]), A: float64(f[3])}
			}
			if ti := pbr.BaseColorTexture; ti != nil {
				mat.BaseColorTexture = c.textureRef(ti.Index)
			}
		}
		c.materials = append(c.materials, mat)
	}
}

// textureRef returns the image URI of a texture, or an "embedded:" key whose
// bytes are stored in Asset.Images.
func (c *converter) textureRef(tex uint32) string {
	if int(tex) >= len(c.doc.Textures) {
		return ""
	}
	src := c.doc.Textures[tex].Source
	if src == nil || int(*src) >= len(c.doc.Images) {
		return ""
	}
	img := c.doc.Images[*src]
	if img.URI != "" && !img.IsEmbeddedResource() {
		return img.URI
	}
	key := fmt.Sprintf("embedded:%s#%d", filepath.Base(c.asset.Source), *src)
	if _, ok := c.asset.Images[key]; ok {
		return key
	}
	var data []byte
	switch {
	case img.BufferView != nil && int(*img.BufferView) < len(c.doc.BufferViews):
		bv := c.doc.BufferViews[*img.BufferView]
		if int(bv.Buffer) < len(c.doc.Buffers) {
			buf := c.doc.Buffers[bv.Buffer].Data
			end := int(bv.ByteOffset + bv.ByteLength)
			if end <= len(buf) {
				data = buf[bv.ByteOffset:end]
			}
		}
	case img.IsEmbeddedResource():
		data, _ = img.MarshalData()
	}
	if data == nil {
		return ""
	}
	if c.asset.Images == nil {
		c.asset.Images = make(map[string][]byte)
	}
	c.asset.Images[key] = data
	return key
}

func (c *converter) convertNodes() error {
	c.nodes = make([]*scene.Node, len(c.doc.Nodes))
	for i, n := range c.doc.Nodes {
		name := n.Name
		if name == "" {
			name = fmt.Sprintf("node_%d", i)
		}
		sn := scene.NewNode(name)
		setTransform(sn, n)
		c.nodes[i] = sn
	}
	for i, n := range c.doc.Nodes {
		for _, ch := range n.Children {
			if int(ch) >= len(c.nodes) || c.nodes[ch].Parent != nil || int(ch) == i {
				return errors.Errorf("gltfload: node %d has an invalid child %d", i, ch)
			}
			c.nodes[i].Add(c.nodes[ch])
		}
	}

	root := scene.NewNode(RootName)
	for _, idx := range c.sceneRoots() {
		if int(idx) >= len(c.nodes) {
			return errors.Errorf("gltfload: scene references node %d of %d", idx, len(c.nodes))
		}
		if c.nodes[idx].Parent != nil {
			continue
		}
		root.Add(c.nodes[idx])
	}
	c.asset.Root = root
	return nil
}

// sceneRoots returns the root node indices of the default scene. Documents
// without scenes use every parentless node.
func (c *converter) sceneRoots() []uint32 {
	if len(c.doc.Scenes) > 0 {
		s := 0
		if c.doc.Scene != nil && int(*c.doc.Scene) < len(c.doc.Scenes) {
			s = int(*c.doc.Scene)
		}
		return c.doc.Scenes[s].Nodes
	}
	hasParent := make([]bool, len(c.doc.Nodes))
	for _, n := range c.doc.Nodes {
		for _, ch := range n.Children {
			if int(ch) < len(hasParent) {
				hasParent[ch] = true
			}
		}
	}
	var roots []uint32
	for i, p := range hasParent {
		if !p {
			roots = append(roots, uint32(i))
		}
	}
	return roots
}

func setTransform(sn *scene.Node, n *gltf.Node) {
	if n.Matrix != gltf.DefaultMatrix && n.Matrix != [16]float32{} {
		var m mgl64.Mat4
		for i, v := range n.Matrix {
			m[i] = float64(v)
		}
		sn.Position = m.Col(3).Vec3()
		sx := m.Col(0).Vec3().Len()
		sy := m.Col(1).Vec3().Len()
		sz := m.Col(2).Vec3().Len()
		sn.Scale = mgl64.Vec3{sx, sy, sz}
		rot := mgl64.Mat4{}
		for col, s := range [3]float64{sx, sy, sz} {
			if s == 0 {
				s = 1
			}
			for row := 0; row < 3; row++ {
				rot.Set(row, col, m.At(row, col)/s)
			}
		}
		rot.Set(3, 3, 1)
		sn.Rotation = mgl64.Mat4ToQuat(rot).Normalize()
		return
	}
	t, r, s := n.Translation, n.Rotation, n.Scale
	sn.Position = mgl64.Vec3{float64(t[0]), float64(t[1]), float64(t[2])}
	sn.Rotation = mgl64.Quat{W: float64(r[3]), V: mgl64.Vec3{float64(r[0]), float64(r[1]), float64(r[2])}}.Normalize()
	sn.Scale = mgl64.Vec3{float64(s[0]), float64(s[1]), float64(s[2])}
}

func (c *converter) convertMeshes() error {
	for i, n := range c.doc.Nodes {
		if n.Mesh == nil {
			continue
		}
		if int(*n.Mesh) >= len(c.doc.Meshes) {
			return errors.Errorf("gltfload: node %d references mesh %d of %d", i, *n.Mesh, len(c.doc.Meshes))
		}
		m, err := c.convertMesh(c.doc.Meshes[*n.Mesh], n)
		if err != nil {
			return errors.Wrapf(err, "mesh %d", *n.Mesh)
		}
		m.Node = c.nodes[i]
		c.nodes[i].Mesh = m
		c.asset.Meshes = append(c.asset.Meshes, m)
	}
	return nil
}

func (c *converter) convertMesh(gm *gltf.Mesh, n *gltf.Node) (*scene.Mesh, error) {
	m := &scene.Mesh{Name: gm.Name}
	if m.Name == "" {
		m.Name = n.Name
	}
	slot := make(map[uint32]int)
	targetCount := 0
	for _, p := range gm.Primitives {
		if len(p.Targets) > targetCount {
			targetCount = len(p.Targets)
		}
	}
	var deltas [][]mgl64.Vec3
	if targetCount > 0 {
		deltas = make([][]mgl64.Vec3, targetCount)
	}

	for pi, p := range gm.Primitives {
		if p.Mode != gltf.PrimitiveTriangles {
			continue
		}
		posIdx, ok := p.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		base := len(m.Positions)
		pos, err := readFloats(c.doc, posIdx)
		if err != nil {
			return nil, err
		}
		for _, v := range pos {
			m.Positions = append(m.Positions, mgl64.Vec3{v[0], v[1], v[2]})
		}
		count := len(pos)

		m.Normals = appendVec3(m.Normals, c.doc, p.Attributes, gltf.NORMAL, base, count)
		m.UVs = appendUV(m.UVs, c.doc, p.Attributes, base, count)
		if err := c.appendSkinAttributes(m, p.Attributes, base, count); err != nil {
			return nil, err
		}

		for ti := 0; ti < targetCount; ti++ {
			d := make([]mgl64.Vec3, count)
			if ti < len(p.Targets) {
				if idx, ok := p.Targets[ti][gltf.POSITION]; ok {
					rows, err := readFloats(c.doc, idx)
					if err != nil {
						return nil, err
					}
					for k := 0; k < count && k < len(rows); k++ {
						d[k] = mgl64.Vec3{rows[k][0], rows[k][1], rows[k][2]}
					}
				}
			}
			deltas[ti] = append(deltas[ti], d...)
		}

		start := len(m.Indices)
		if p.Indices != nil {
			idx, err := readInts(c.doc, *p.Indices)
			if err != nil {
				return nil, err
			}
			for _, r := range idx {
				if r[0] >= count {
					return nil, errors.Errorf("primitive %d index %d out of %d vertices", pi, r[0], count)
				}
				m.Indices = append(m.Indices, base+r[0])
			}
		} else {
			for k := 0; k < count; k++ {
				m.Indices = append(m.Indices, base+k)
			}
		}

		matIdx := 0
		if p.Material != nil && int(*p.Material) < len(c.materials) {
			s, ok := slot[*p.Material]
			if !ok {
				s = len(m.Materials)
				slot[*p.Material] = s
				m.Materials = append(m.Materials, c.materials[*p.Material])
			}
			matIdx = s
		} else {
			if len(m.Materials) == 0 {
				m.Materials = append(m.Materials, &scene.Material{Name: m.Name, BaseColor: scene.White})
			}
		}
		m.Groups = append(m.Groups, scene.Group{Start: start, Count: len(m.Indices) - start, Material: matIdx})
	}

	if targetCount > 0 {
		m.Morph = &scene.MorphTargets{
			Names:   targetNames(gm, targetCount),
			Weights: make([]float64, targetCount),
			Deltas:  deltas,
		}
		for i := 0; i < targetCount && i < len(gm.Weights); i++ {
			m.Morph.Weights[i] = float64(gm.Weights[i])
		}
		for i := 0; i < targetCount && i < len(n.Weights); i++ {
			m.Morph.Weights[i] = float64(n.Weights[i])
		}
	}

	if n.Skin != nil {
		if err := c.bindSkin(m, *n.Skin); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func appendVec3(dst []mgl64.Vec3, doc *gltf.Document, attrs gltf.Attribute, name string, base, count int) []mgl64.Vec3 {
	if idx, ok := attrs[name]; ok {
		if rows, err := readFloats(doc, idx); err == nil && len(rows) == count {
			for _, r := range rows {
				dst = append(dst, mgl64.Vec3{r[0], r[1], r[2]})
			}
			return dst
		}
	}
	for len(dst) < base+count {
		dst = append(dst, mgl64.Vec3{})
	}
	return dst
}

func appendUV(dst [][2]float64, doc *gltf.Document, attrs gltf.Attribute, base, count int) [][2]float64 {
	if idx, ok := attrs[gltf.TEXCOORD_0]; ok {
		if rows, err := readFloats(doc, idx); err == nil && len(rows) == count {
			for _, r := range rows {
				dst = append(dst, [2]float64{r[0], r[1]})
			}
			return dst
		}
	}
	for len(dst) < base+count {
		dst = append(dst, [2]float64{})
	}
	return dst
}

func (c *converter) appendSkinAttributes(m *scene.Mesh, attrs gltf.Attribute, base, count int) error {
	jIdx, hasJ := attrs[gltf.JOINTS_0]
	wIdx, hasW := attrs[gltf.WEIGHTS_0]
	if !hasJ || !hasW {
		if len(m.Joints) > 0 {
			for len(m.Joints) < base+count {
				m.Joints = append(m.Joints, [4]int{})
				m.Weights = append(m.Weights, [4]float64{})
			}
		}
		return nil
	}
	for len(m.Joints) < base {
		m.Joints = append(m.Joints, [4]int{})
		m.Weights = append(m.Weights, [4]float64{})
	}
	joints, err := readInts(c.doc, jIdx)
	if err != nil {
		return err
	}
	weights, err := readFloats(c.doc, wIdx)
	if err != nil {
		return err
	}
	for k := 0; k < count; k++ {
		var j [4]int
		var w [4]float64
		if k < len(joints) {
			copy(j[:], joints[k])
		}
		if k < len(weights) {
			copy(w[:], weights[k])
		}
		m.Joints = append(m.Joints, j)
		m.Weights = append(m.Weights, w)
	}
	return nil
}

func (c *converter) bindSkin(m *scene.Mesh, idx uint32) error {
	if int(idx) >= len(c.doc.Skins) {
		return errors.Errorf("skin %d out of range", idx)
	}
	gs := c.doc.Skins[idx]
	skin := &scene.Skin{}
	for _, j := range gs.Joints {
		if int(j) >= len(c.nodes) {
			return errors.Errorf("skin %d joint %d out of range", idx, j)
		}
		skin.Joints = append(skin.Joints, c.nodes[j])
	}
	if gs.InverseBindMatrices != nil {
		rows, err := readFloats(c.doc, *gs.InverseBindMatrices)
		if err != nil {
			return err
		}
		for _, r := range rows {
			var mat mgl64.Mat4
			copy(mat[:], r)
			skin.InverseBind = append(skin.InverseBind, mat)
		}
	} else {
		for range skin.Joints {
			skin.InverseBind = append(skin.InverseBind, mgl64.Ident4())
		}
	}
	m.Skin = skin
	return nil
}

// targetNames reads the conventional extras.targetNames array.
func targetNames(gm *gltf.Mesh, n int) []string {
	names := make([]string, n)
	if extras, ok := gm.Extras.(map[string]interface{}); ok {
		if list, ok := extras["targetNames"].([]interface{}); ok {
			for i := 0; i < n && i < len(list); i++ {
				if s, ok := list[i].(string); ok {
					names[i] = s
				}
			}
		}
	}
	for i, s := range names {
		if strings.TrimSpace(s) == "" {
			names[i] = fmt.Sprintf("target_%d", i)
		}
	}
	return names
}
