package rig

import (
	"testing"

	"avatar-engine/internal/scene"
	"avatar-engine/internal/scene/scenetest"
)

func expectedNames(n scenetest.Names) map[Role]string {
	return map[Role]string{
		Spine: n.Spine, Chest: n.Chest, Neck: n.Neck, Head: n.Head,
		LeftShoulder: n.LeftShoulder, RightShoulder: n.RightShoulder,
		LeftArm: n.LeftArm, RightArm: n.RightArm,
		LeftForeArm: n.LeftForeArm, RightForeArm: n.RightForeArm,
		LeftUpLeg: n.LeftUpLeg, RightUpLeg: n.RightUpLeg,
		LeftLeg: n.LeftLeg, RightLeg: n.RightLeg,
	}
}

func TestResolveAcrossConventions(t *testing.T) {
	tests := []struct {
		name  string
		names scenetest.Names
	}{
		{name: "anatomical", names: scenetest.Anatomical},
		{name: "biped", names: scenetest.Biped},
		{name: "cc-base", names: scenetest.CCBase},
		{name: "side_part", names: scenetest.SidePart},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			asset := scenetest.Humanoid(tt.names, 1.6)
			m := Resolve(asset.Root, DefaultAliases)
			for role, want := range expectedNames(tt.names) {
				got := m.Get(role)
				if got == nil {
					t.Fatalf("%s unresolved, want %q", role, want)
				}
				if got.Name != want {
					t.Fatalf("%s resolved to %q, want %q", role, got.Name, want)
				}
			}
			if m.Len() != len(Roles) {
				t.Fatalf("resolved %d roles, want %d", m.Len(), len(Roles))
			}
		})
	}
}

func TestResolveGenericDotSuffixAndVRMNames(t *testing.T) {
	root := scene.NewNode("root")
	root.Add(scene.NewNode("J_Bip_C_Spine")).
		Add(scene.NewNode("J_Bip_C_Chest")).
		Add(scene.NewNode("J_Bip_L_Shoulder")).
		Add(scene.NewNode("J_Bip_L_UpperArm")).
		Add(scene.NewNode("J_Bip_L_LowerArm"))
	root.Add(scene.NewNode("thigh.R")).Add(scene.NewNode("shin.R"))

	m := Resolve(root, nil)
	checks := map[Role]string{
		Spine:        "J_Bip_C_Spine",
		Chest:        "J_Bip_C_Chest",
		LeftShoulder: "J_Bip_L_Shoulder",
		LeftArm:      "J_Bip_L_UpperArm",
		LeftForeArm:  "J_Bip_L_LowerArm",
		RightUpLeg:   "thigh.R",
		RightLeg:     "shin.R",
	}
	for role, want := range checks {
		if got := m.Get(role); got == nil || got.Name != want {
			t.Fatalf("%s resolved to %v, want %q", role, got, want)
		}
	}
	if m.Get(Head) != nil || m.Get(RightArm) != nil {
		t.Fatalf("absent roles should stay nil")
	}
}

func TestResolveUnrecognizableYieldsNone(t *testing.T) {
	asset := scenetest.Humanoid(scenetest.Unrecognizable, 1.6)
	m := Resolve(asset.Root, DefaultAliases)
	if m.Len() != 0 {
		t.Fatalf("expected no resolved roles, got %d", m.Len())
	}
	for role, present := range m.Presence() {
		if present {
			t.Fatalf("%s should be absent", role)
		}
	}
}

func TestResolveFirstDepthFirstMatchWins(t *testing.T) {
	root := scene.NewNode("root")
	a := root.Add(scene.NewNode("group"))
	first := a.Add(scene.NewNode("Head"))
	root.Add(scene.NewNode("Head_2"))

	m := Resolve(root, DefaultAliases)
	if m.Get(Head) != first {
		t.Fatalf("expected depth-first first match, got %v", m.Get(Head).Name)
	}
}

func TestResolveIsDeterministicAndPure(t *testing.T) {
	asset := scenetest.Humanoid(scenetest.Biped, 1.6)
	before := make(map[*scene.Node]string)
	for _, n := range asset.Nodes() {
		before[n] = n.Name
	}

	first := Resolve(asset.Root, DefaultAliases)
	for i := 0; i < 20; i++ {
		if got := Resolve(asset.Root, DefaultAliases); got != first {
			t.Fatalf("run %d differs from first run", i)
		}
	}
	for n, name := range before {
		if n.Name != name {
			t.Fatalf("node renamed: %q -> %q", name, n.Name)
		}
	}
}

func TestResolveCustomTable(t *testing.T) {
	root := scene.NewNode("root")
	root.Add(scene.NewNode("Torso_Upper"))
	m := Resolve(root, AliasTable{Chest: {"torso_upper"}})
	if m.Get(Chest) == nil {
		t.Fatalf("custom alias should resolve chest")
	}
	if m.Len() != 1 {
		t.Fatalf("only chest should resolve, got %d", m.Len())
	}
}

func TestRoleSide(t *testing.T) {
	if LeftArm.Side() != 1 || RightLeg.Side() != -1 || Head.Side() != 0 {
		t.Fatalf("side mismatch")
	}
	if Role(99).String() != "Unknown" || LeftForeArm.String() != "LeftForeArm" {
		t.Fatalf("role name mismatch")
	}
}
