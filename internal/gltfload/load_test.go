package gltfload

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/qmuntal/gltf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"avatar-engine/internal/scene"
)

// docBuilder packs accessor data into a single buffer.
type docBuilder struct {
	doc *gltf.Document
	buf []byte
}

func newDocBuilder() *docBuilder {
	return &docBuilder{doc: &gltf.Document{}}
}

func (b *docBuilder) add(data []byte, ct gltf.ComponentType, at gltf.AccessorType, count int, normalized bool) uint32 {
	for len(b.buf)%4 != 0 {
		b.buf = append(b.buf, 0)
	}
	b.doc.BufferViews = append(b.doc.BufferViews, &gltf.BufferView{
		Buffer:     0,
		ByteOffset: uint32(len(b.buf)),
		ByteLength: uint32(len(data)),
	})
	b.buf = append(b.buf, data...)
	b.doc.Accessors = append(b.doc.Accessors, &gltf.Accessor{
		BufferView:    gltf.Index(uint32(len(b.doc.BufferViews) - 1)),
		ComponentType: ct,
		Type:          at,
		Count:         uint32(count),
		Normalized:    normalized,
	})
	return uint32(len(b.doc.Accessors) - 1)
}

func (b *docBuilder) floats(at gltf.AccessorType, per int, v ...float32) uint32 {
	data := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(data[i*4:], math.Float32bits(f))
	}
	return b.add(data, gltf.ComponentFloat, at, len(v)/per, false)
}

func (b *docBuilder) ushorts(at gltf.AccessorType, per int, v ...uint16) uint32 {
	data := make([]byte, 2*len(v))
	for i, x := range v {
		binary.LittleEndian.PutUint16(data[i*2:], x)
	}
	return b.add(data, gltf.ComponentUshort, at, len(v)/per, false)
}

func (b *docBuilder) finish() *gltf.Document {
	b.doc.Buffers = []*gltf.Buffer{{ByteLength: uint32(len(b.buf)), Data: b.buf}}
	return b.doc
}

func riggedDocument() *gltf.Document {
	b := newDocBuilder()
	pos := b.floats(gltf.AccessorVec3, 3, 0, 0, 0, 1, 0, 0, 0, 1, 0)
	idx := b.ushorts(gltf.AccessorScalar, 1, 0, 1, 2)
	joints := b.ushorts(gltf.AccessorVec4, 4, 0, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0)
	weights := b.floats(gltf.AccessorVec4, 4, 1, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0)
	morph := b.floats(gltf.AccessorVec3, 3, 0, 0, 0, 0, 0.5, 0, 0, 0, 0)
	ibm := b.floats(gltf.AccessorMat4, 16,
		1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1,
		1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, -1, 0, 1,
	)
	times := b.floats(gltf.AccessorScalar, 1, 0, 1)
	rot := b.floats(gltf.AccessorVec4, 4, 0, 0, 0, 1, 0, 0.7071068, 0, 0.7071068)
	scl := b.floats(gltf.AccessorVec3, 3, 1, 1, 1, 2, 2, 2)
	doc := b.finish()

	doc.Materials = []*gltf.Material{{
		Name: "Shirt",
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor:  &[4]float32{1, 0, 0, 1},
			BaseColorTexture: &gltf.TextureInfo{Index: 0},
		},
	}}
	doc.Textures = []*gltf.Texture{{Source: gltf.Index(0)}}
	doc.Images = []*gltf.Image{{URI: "textures/shirt.png"}}
	doc.Meshes = []*gltf.Mesh{{
		Name: "Body",
		Primitives: []*gltf.Primitive{{
			Attributes: gltf.Attribute{gltf.POSITION: pos, gltf.JOINTS_0: joints, gltf.WEIGHTS_0: weights},
			Indices:    gltf.Index(idx),
			Material:   gltf.Index(0),
			Targets:    []gltf.Attribute{{gltf.POSITION: morph}},
		}},
		Extras: map[string]interface{}{"targetNames": []interface{}{"Blink"}},
	}}
	doc.Skins = []*gltf.Skin{{Joints: []uint32{1, 2}, InverseBindMatrices: gltf.Index(ibm)}}
	doc.Nodes = []*gltf.Node{
		{Name: "Armature", Children: []uint32{1, 3}, Rotation: gltf.DefaultRotation, Scale: gltf.DefaultScale, Matrix: gltf.DefaultMatrix},
		{Name: "Hips", Children: []uint32{2}, Rotation: gltf.DefaultRotation, Scale: gltf.DefaultScale, Matrix: gltf.DefaultMatrix},
		{Name: "Spine", Translation: [3]float32{0, 1, 0}, Rotation: gltf.DefaultRotation, Scale: gltf.DefaultScale, Matrix: gltf.DefaultMatrix},
		{Name: "BodyMesh", Mesh: gltf.Index(0), Skin: gltf.Index(0), Rotation: gltf.DefaultRotation, Scale: gltf.DefaultScale, Matrix: gltf.DefaultMatrix},
	}
	doc.Scenes = []*gltf.Scene{{Nodes: []uint32{0}}}
	doc.Scene = gltf.Index(0)
	doc.Animations = []*gltf.Animation{{
		Name: "Idle",
		Samplers: []*gltf.AnimationSampler{
			{Input: gltf.Index(times), Output: gltf.Index(rot)},
			{Input: gltf.Index(times), Output: gltf.Index(scl), Interpolation: gltf.InterpolationStep},
		},
		Channels: []*gltf.Channel{
			{Sampler: gltf.Index(0), Target: gltf.ChannelTarget{Node: gltf.Index(2), Path: gltf.TRSRotation}},
			{Sampler: gltf.Index(1), Target: gltf.ChannelTarget{Node: gltf.Index(1), Path: gltf.TRSScale}},
		},
	}}
	return doc
}

func TestConvertRiggedDocument(t *testing.T) {
	a, err := Convert(riggedDocument(), "avatar.glb")
	require.NoError(t, err)
	require.NoError(t, a.Validate())

	assert.Equal(t, RootName, a.Root.Name)
	require.Len(t, a.Root.Children, 1)
	assert.Equal(t, "Armature", a.Root.Children[0].Name)
	spine := a.Find("Spine")
	require.NotNil(t, spine)
	assert.Equal(t, "Hips", spine.Parent.Name)
	assert.Equal(t, mgl64.Vec3{0, 1, 0}, spine.Position)

	require.Len(t, a.Meshes, 1)
	m := a.Meshes[0]
	assert.Equal(t, "Body", m.Name)
	assert.Equal(t, "BodyMesh", m.Node.Name)
	assert.Equal(t, []int{0, 1, 2}, m.Indices)
	assert.Len(t, m.Positions, 3)
	assert.Equal(t, [][4]int{{0, 0, 0, 0}, {1, 0, 0, 0}, {1, 0, 0, 0}}, m.Joints)

	require.Len(t, m.Materials, 1)
	assert.Equal(t, "Shirt", m.Materials[0].Name)
	assert.Equal(t, scene.Color{R: 1, A: 1}, m.Materials[0].BaseColor)
	assert.Equal(t, "textures/shirt.png", m.Materials[0].BaseColorTexture)

	require.True(t, m.IsSkinned())
	assert.Same(t, spine, m.Skin.Joints[1])
	assert.InDelta(t, -1, m.Skin.InverseBind[1].At(1, 3), 1e-6)

	require.NotNil(t, m.Morph)
	assert.Equal(t, []string{"Blink"}, m.Morph.Names)
	assert.InDelta(t, 0.5, m.Morph.Deltas[0][1][1], 1e-6)

	require.Len(t, a.Clips, 1)
	clip := a.Clips[0]
	assert.Equal(t, "Idle", clip.Name)
	assert.InDelta(t, 1, clip.Duration, 1e-9)
	require.Len(t, clip.Tracks, 2)
	assert.Equal(t, scene.Rotation, clip.Tracks[0].Property)
	assert.Same(t, spine, clip.Tracks[0].Node)
	assert.Equal(t, scene.Scale, clip.Tracks[1].Property)
	assert.Equal(t, scene.Step, clip.Tracks[1].Interpolation)
}

func TestConvertMatrixNode(t *testing.T) {
	doc := &gltf.Document{Nodes: []*gltf.Node{{
		Name:     "Scaled",
		Rotation: gltf.DefaultRotation,
		Scale:    gltf.DefaultScale,
		Matrix:   [16]float32{2, 0, 0, 0, 0, 2, 0, 0, 0, 0, 2, 0, 1, 2, 3, 1},
	}}}
	a, err := Convert(doc, "m.gltf")
	require.NoError(t, err)
	n := a.Find("Scaled")
	require.NotNil(t, n)
	assert.True(t, n.Position.ApproxEqual(mgl64.Vec3{1, 2, 3}))
	assert.True(t, n.Scale.ApproxEqual(mgl64.Vec3{2, 2, 2}))
	assert.True(t, n.Rotation.ApproxEqualThreshold(mgl64.QuatIdent(), 1e-6))
}

func TestConvertRejectsBrokenHierarchy(t *testing.T) {
	doc := &gltf.Document{Nodes: []*gltf.Node{
		{Name: "a", Children: []uint32{5}},
	}}
	_, err := Convert(doc, "bad.gltf")
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("does/not/exist.glb")
	assert.Error(t, err)
}
