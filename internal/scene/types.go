package scene

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Node is one element of the asset hierarchy. Transforms are local to Parent.
type Node struct {
	Name     string
	Position mgl64.Vec3
	Rotation mgl64.Quat
	Scale    mgl64.Vec3
	Parent   *Node
	Children []*Node
	Mesh     *Mesh // optional, attached mesh
}

// Group is a contiguous index range drawn with one material slot.
type Group struct {
	Start    int // first index into Mesh.Indices
	Count    int // number of indices
	Material int // index into Mesh.Materials
}

// MorphTargets is a mesh's blend shape table. Names and Weights share indexing.
type MorphTargets struct {
	Names   []string
	Weights []float64
	Deltas  [][]mgl64.Vec3 // per channel, per vertex; nil when only weights are known
}

// Skin binds a mesh to a subset of nodes acting as bones.
type Skin struct {
	Joints      []*Node
	InverseBind []mgl64.Mat4
}

// Mesh holds geometry for one (optionally skinned) mesh.
type Mesh struct {
	Name      string
	Node      *Node // node the mesh hangs from
	Positions []mgl64.Vec3
	Normals   []mgl64.Vec3
	UVs       [][2]float64
	Indices   []int // triangle list
	Groups    []Group
	Materials []*Material
	Joints    [][4]int     // skin joint slot per vertex
	Weights   [][4]float64 // skin weight per vertex
	Skin      *Skin
	Morph     *MorphTargets
}

// Property is the node channel a keyframe track animates.
type Property int

const (
	Translation Property = iota
	Rotation
	Scale
	Weights
)

func (p Property) String() string {
	switch p {
	case Translation:
		return "translation"
	case Rotation:
		return "rotation"
	case Scale:
		return "scale"
	case Weights:
		return "weights"
	}
	return "unknown"
}

// Interpolation selects how samples between keyframes are computed.
type Interpolation int

const (
	Linear Interpolation = iota
	Step
)

// Track is one keyframe channel. Values are flattened: 3 per key for
// translation/scale, 4 (x,y,z,w) for rotation, morph-count for weights.
type Track struct {
	Node          *Node
	Property      Property
	Interpolation Interpolation
	Times         []float64
	Values        []float64
}

// Clip is a named set of keyframe tracks.
type Clip struct {
	Name     string
	Duration float64
	Tracks   []*Track
}

// Asset is a loaded rig: node tree, meshes and clips.
type Asset struct {
	Root   *Node
	Meshes []*Mesh
	Clips  []*Clip
	Source string            // path or identifier the asset was loaded from
	Images map[string][]byte // embedded image bytes keyed by texture reference
}
