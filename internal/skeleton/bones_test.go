package skeleton

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"avatar-engine/internal/scene"
	"avatar-engine/internal/scene/scenetest"
)

func TestBuildWorldMatricesMatchesNodeWorld(t *testing.T) {
	asset := scenetest.Humanoid(scenetest.SidePart, 1.6)
	asset.Root.Scale = mgl64.Vec3{0.5, 0.5, 0.5}
	worlds := BuildWorldMatrices(asset.Root)

	for _, n := range asset.Nodes() {
		got, ok := worlds[n]
		if !ok {
			t.Fatalf("missing world matrix for %s", n.Name)
		}
		if !got.ApproxEqualThreshold(n.World(), 1e-9) {
			t.Fatalf("world mismatch for %s: got=%v want=%v", n.Name, got, n.World())
		}
	}
}

func TestDeformBindPoseKeepsPositions(t *testing.T) {
	asset := scenetest.Humanoid(scenetest.SidePart, 1.6)
	body := asset.Meshes[0]
	got := Deform(body, BuildWorldMatrices(asset.Root))
	for i, p := range body.Positions {
		if !got[i].ApproxEqualThreshold(p, 1e-9) {
			t.Fatalf("vertex %d moved in bind pose: got=%v want=%v", i, got[i], p)
		}
	}
}

func TestDeformFollowsJointAndMorph(t *testing.T) {
	asset := scenetest.Humanoid(scenetest.SidePart, 1.6)
	body := asset.Meshes[0]
	scenetest.Morphs(body, "lift")
	body.Morph.Deltas = [][]mgl64.Vec3{make([]mgl64.Vec3, len(body.Positions))}
	for i := range body.Morph.Deltas[0] {
		body.Morph.Deltas[0][i] = mgl64.Vec3{0, 1, 0}
	}
	body.Morph.Weights[0] = 0.5

	hips := asset.Find("hips")
	hips.Position = hips.Position.Add(mgl64.Vec3{1, 0, 0})

	got := Deform(body, BuildWorldMatrices(asset.Root))
	want := body.Positions[0].Add(mgl64.Vec3{1, 0.5, 0})
	if !got[0].ApproxEqualThreshold(want, 1e-9) {
		t.Fatalf("deformed vertex mismatch: got=%v want=%v", got[0], want)
	}
}

func TestDeformRigidMeshFollowsNode(t *testing.T) {
	root := scene.NewNode("root")
	holder := root.Add(scene.NewNode("holder"))
	holder.Position = mgl64.Vec3{0, 2, 0}
	asset := &scene.Asset{Root: root}
	m := scenetest.Box("prop", mgl64.Vec3{}, mgl64.Vec3{1, 1, 1})
	scenetest.Attach(asset, holder, m)

	got := Deform(m, BuildWorldMatrices(root))
	if !got[0].ApproxEqual(mgl64.Vec3{0, 2, 0}) {
		t.Fatalf("rigid vertex mismatch: got=%v", got[0])
	}
}
