// Package scenetest builds small synthetic assets for tests.
package scenetest

import (
	"github.com/go-gl/mathgl/mgl64"

	"avatar-engine/internal/scene"
)

// Names lists the literal node names used for each humanoid joint.
// Empty entries are replaced by a neutral filler name.
type Names struct {
	Hips, Spine, Chest, Neck, Head               string
	LeftShoulder, RightShoulder                  string
	LeftArm, RightArm, LeftForeArm, RightForeArm string
	LeftUpLeg, RightUpLeg, LeftLeg, RightLeg     string
}

// Anatomical is the "human anatomical" convention (Mixamo-like).
var Anatomical = Names{
	Hips: "mixamorig:Hips", Spine: "mixamorig:Spine", Chest: "mixamorig:Spine2",
	Neck: "mixamorig:Neck", Head: "mixamorig:Head",
	LeftShoulder: "mixamorig:LeftShoulder", RightShoulder: "mixamorig:RightShoulder",
	LeftArm: "mixamorig:LeftArm", RightArm: "mixamorig:RightArm",
	LeftForeArm: "mixamorig:LeftForeArm", RightForeArm: "mixamorig:RightForeArm",
	LeftUpLeg: "mixamorig:LeftUpLeg", RightUpLeg: "mixamorig:RightUpLeg",
	LeftLeg: "mixamorig:LeftLeg", RightLeg: "mixamorig:RightLeg",
}

// Biped is the "biped-numbered" convention.
var Biped = Names{
	Hips: "Bip01 Pelvis", Spine: "Bip01 Spine", Chest: "Bip01 Spine2",
	Neck: "Bip01 Neck", Head: "Bip01 Head",
	LeftShoulder: "Bip01 L Clavicle", RightShoulder: "Bip01 R Clavicle",
	LeftArm: "Bip01 L UpperArm", RightArm: "Bip01 R UpperArm",
	LeftForeArm: "Bip01 L Forearm", RightForeArm: "Bip01 R Forearm",
	LeftUpLeg: "Bip01 L Thigh", RightUpLeg: "Bip01 R Thigh",
	LeftLeg: "Bip01 L Calf", RightLeg: "Bip01 R Calf",
}

// CCBase is the "CC-base" convention.
var CCBase = Names{
	Hips: "CC_Base_Hip", Spine: "CC_Base_Waist", Chest: "CC_Base_Spine02",
	Neck: "CC_Base_NeckTwist01", Head: "CC_Base_Head",
	LeftShoulder: "CC_Base_L_Clavicle", RightShoulder: "CC_Base_R_Clavicle",
	LeftArm: "CC_Base_L_Upperarm", RightArm: "CC_Base_R_Upperarm",
	LeftForeArm: "CC_Base_L_Forearm", RightForeArm: "CC_Base_R_Forearm",
	LeftUpLeg: "CC_Base_L_Thigh", RightUpLeg: "CC_Base_R_Thigh",
	LeftLeg: "CC_Base_L_Calf", RightLeg: "CC_Base_R_Calf",
}

// SidePart is the generic "side_part" convention.
var SidePart = Names{
	Hips: "hips", Spine: "spine", Chest: "chest",
	Neck: "neck", Head: "head",
	LeftShoulder: "left_shoulder", RightShoulder: "right_shoulder",
	LeftArm: "left_upper_arm", RightArm: "right_upper_arm",
	LeftForeArm: "left_lower_arm", RightForeArm: "right_lower_arm",
	LeftUpLeg: "left_upper_leg", RightUpLeg: "right_upper_leg",
	LeftLeg: "left_lower_leg", RightLeg: "right_lower_leg",
}

// Unrecognizable has no name any alias table should match.
var Unrecognizable = Names{
	Hips: "n00", Spine: "n01", Chest: "n02", Neck: "n03", Head: "n04",
	LeftShoulder: "n05", RightShoulder: "n06",
	LeftArm: "n07", RightArm: "n08", LeftForeArm: "n09", RightForeArm: "n10",
	LeftUpLeg: "n11", RightUpLeg: "n12", LeftLeg: "n13", RightLeg: "n14",
}

// Humanoid builds a T-pose skeleton named after n, plus a skinned body box
// spanning [0,height] on Y, centered on the origin in X and Z.
func Humanoid(n Names, height float64) *scene.Asset {
	root := scene.NewNode("Armature")
	h := height

	hips := child(root, n.Hips, 0, 0.5*h, 0)
	spine := child(hips, n.Spine, 0, 0.06*h, 0)
	chest := child(spine, n.Chest, 0, 0.12*h, 0)
	neck := child(chest, n.Neck, 0, 0.15*h, 0)
	child(neck, n.Head, 0, 0.05*h, 0)

	ls := child(chest, n.LeftShoulder, 0.05*h, 0.12*h, 0)
	la := child(ls, n.LeftArm, 0.08*h, 0, 0)
	child(la, n.LeftForeArm, 0.17*h, 0, 0)
	rs := child(chest, n.RightShoulder, -0.05*h, 0.12*h, 0)
	ra := child(rs, n.RightArm, -0.08*h, 0, 0)
	child(ra, n.RightForeArm, -0.17*h, 0, 0)

	lu := child(hips, n.LeftUpLeg, 0.06*h, -0.03*h, 0)
	child(lu, n.LeftLeg, 0, -0.24*h, 0)
	ru := child(hips, n.RightUpLeg, -0.06*h, -0.03*h, 0)
	child(ru, n.RightLeg, 0, -0.24*h, 0)

	asset := &scene.Asset{Root: root, Source: "scenetest"}
	body := Box("Body", mgl64.Vec3{-0.2 * h, 0, -0.1 * h}, mgl64.Vec3{0.2 * h, h, 0.1 * h})
	body.Materials = []*scene.Material{{Name: "Body_Skin", BaseColor: scene.White}}
	Attach(asset, root, body)
	Skin(body, hips)
	return asset
}

func child(parent *scene.Node, name string, x, y, z float64) *scene.Node {
	if name == "" {
		name = "joint"
	}
	n := scene.NewNode(name)
	n.Position = mgl64.Vec3{x, y, z}
	return parent.Add(n)
}

// Box returns an axis-aligned box mesh between lo and hi with one material group.
func Box(name string, lo, hi mgl64.Vec3) *scene.Mesh {
	var pos []mgl64.Vec3
	for i := 0; i < 8; i++ {
		p := lo
		if i&1 != 0 {
			p[0] = hi[0]
		}
		if i&2 != 0 {
			p[1] = hi[1]
		}
		if i&4 != 0 {
			p[2] = hi[2]
		}
		pos = append(pos, p)
	}
	idx := []int{
		0, 2, 1, 1, 2, 3, // -z
		4, 5, 6, 5, 7, 6, // +z
		0, 1, 4, 1, 5, 4, // -y
		2, 6, 3, 3, 6, 7, // +y
		0, 4, 2, 2, 4, 6, // -x
		1, 3, 5, 3, 7, 5, // +x
	}
	uvs := make([][2]float64, len(pos))
	return &scene.Mesh{
		Name:      name,
		Positions: pos,
		UVs:       uvs,
		Indices:   idx,
		Groups:    []scene.Group{{Start: 0, Count: len(idx), Material: 0}},
	}
}

// Attach hangs m from node and registers it with the asset.
func Attach(a *scene.Asset, node *scene.Node, m *scene.Mesh) {
	m.Node = node
	node.Mesh = m
	a.Meshes = append(a.Meshes, m)
}

// Skin binds every vertex of m fully to joint with an identity inverse bind
// relative to joint's current world transform.
func Skin(m *scene.Mesh, joint *scene.Node) {
	inv := joint.World().Inv().Mul4(m.Node.World())
	m.Skin = &scene.Skin{Joints: []*scene.Node{joint}, InverseBind: []mgl64.Mat4{inv}}
	m.Joints = make([][4]int, len(m.Positions))
	m.Weights = make([][4]float64, len(m.Positions))
	for i := range m.Weights {
		m.Weights[i] = [4]float64{1, 0, 0, 0}
	}
}

// Morphs adds a morph table with the given channel names to m.
func Morphs(m *scene.Mesh, names ...string) {
	m.Morph = &scene.MorphTargets{
		Names:   append([]string(nil), names...),
		Weights: make([]float64, len(names)),
	}
}
