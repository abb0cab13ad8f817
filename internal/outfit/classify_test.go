package outfit

import (
	"bytes"
	"log"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"avatar-engine/internal/scene"
	"avatar-engine/internal/scene/scenetest"
)

func meshWith(name string, mats ...*scene.Material) *scene.Mesh {
	m := scenetest.Box(name, mgl64.Vec3{}, mgl64.Vec3{1, 1, 1})
	m.Materials = mats
	return m
}

func mat(name, tex string) *scene.Material {
	return &scene.Material{Name: name, BaseColor: scene.White, BaseColorTexture: tex}
}

func TestClassifyAssignsRolesInPriorityOrder(t *testing.T) {
	skin := mat("Body_Skin", "skin.png")
	shirt := mat("Shirt_Mat", "shirt.png")
	pants := mat("Pants", "pants.png")
	shoes := mat("Shoes", "shoes.png")
	hair := mat("HeadHair", "hair.png")
	head := mat("Head", "face.png")

	body := meshWith("Body", skin, head)
	clothes := meshWith("Clothes", shirt, pants, shoes)
	hairMesh := meshWith("Hair", hair)

	sm, err := Classify([]*scene.Mesh{body, clothes, hairMesh}, Customizable, nil)
	require.NoError(t, err)

	assert.Equal(t, "shirt_mat", sm.Slot(Top).Name)
	assert.Equal(t, "pants", sm.Slot(Bottom).Name)
	assert.Equal(t, "shoes", sm.Slot(Footwear).Name)
	assert.Equal(t, "headhair", sm.Slot(Hair).Name)

	assert.True(t, sm.IsSkin(skin))
	assert.True(t, sm.IsSkin(head))
	assert.False(t, sm.IsSkin(hair))
	assert.Equal(t, 2, sm.SkinCount())

	assert.Equal(t, map[Role]bool{Top: true, Bottom: true, Footwear: true, Hair: true}, sm.Presence())
}

func TestClassifyInstallsClonesAndKeepsSlotOrder(t *testing.T) {
	skin := mat("Body_Skin", "skin.png")
	shirt := mat("Shirt", "shirt.png")
	m := meshWith("Body", skin, shirt)

	sm, err := Classify([]*scene.Mesh{m}, Customizable, nil)
	require.NoError(t, err)

	require.Len(t, m.Materials, 2)
	assert.Same(t, skin, m.Materials[0], "skin slot must keep the shared material")
	assert.NotSame(t, shirt, m.Materials[1])
	assert.Same(t, sm.Material(Top), m.Materials[1])
	assert.Equal(t, 1, sm.Slot(Top).Index)

	assert.Equal(t, "skin.png", m.Materials[0].BaseColorTexture)
	assert.Empty(t, m.Materials[1].BaseColorTexture)
	assert.Equal(t, "shirt.png", shirt.BaseColorTexture, "base material must be untouched")
}

func TestClassifyFirstMaterialPerRoleWins(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)

	first := mat("Jacket", "")
	second := mat("Coat", "")
	m := meshWith("Outer", first, second)

	sm, err := Classify([]*scene.Mesh{m}, Customizable, logger)
	require.NoError(t, err)
	assert.Equal(t, "jacket", sm.Slot(Top).Name)
	assert.Same(t, second, m.Materials[1], "ignored match stays shared")
	assert.Contains(t, buf.String(), "already resolved")
}

func TestClassifySkinNeverGarment(t *testing.T) {
	var buf bytes.Buffer
	m := meshWith("Body",
		mat("Bodysuit", ""),
		mat("Leg_Warmer_Sock", ""),
		mat("Eye_Top", ""),
	)
	sm, err := Classify([]*scene.Mesh{m}, Customizable, log.New(&buf, "", 0))
	require.NoError(t, err)

	for _, r := range Roles {
		assert.Nil(t, sm.Slot(r), "role %s", r)
	}
	assert.Equal(t, 3, sm.SkinCount())
	assert.Contains(t, buf.String(), "kept as skin")
}

func TestClassifyRolesAreDisjoint(t *testing.T) {
	names := []string{
		"Top", "Shirt", "Dress", "Bottom", "Jeans", "Skirt", "Boots", "Sneaker",
		"Hair_Back", "Ponytail", "Skin", "Face", "Teeth", "Misc",
	}
	var mats []*scene.Material
	for _, n := range names {
		mats = append(mats, mat(n, ""))
	}
	m := meshWith("All", mats...)
	sm, err := Classify([]*scene.Mesh{m}, Customizable, nil)
	require.NoError(t, err)

	seen := make(map[*scene.Material]Role)
	for _, r := range Roles {
		got := sm.Material(r)
		if got == nil {
			continue
		}
		prev, dup := seen[got]
		assert.False(t, dup, "material in %s and %s", prev, r)
		seen[got] = r
		assert.False(t, sm.IsSkin(got))
	}
	assert.Len(t, seen, 4)
}

func TestClassifyFallsBackToMeshName(t *testing.T) {
	m := meshWith("Sneakers_Mesh", mat("", ""))
	sm, err := Classify([]*scene.Mesh{m}, Customizable, nil)
	require.NoError(t, err)
	require.NotNil(t, sm.Slot(Footwear))
	assert.Equal(t, "sneakers_mesh", sm.Slot(Footwear).Name)
}

func TestApplyOutfitColor(t *testing.T) {
	red := scene.Color{R: 1, A: 1}

	t.Run("customizable", func(t *testing.T) {
		m := meshWith("Clothes", mat("Shirt", "shirt.png"))
		sm, err := Classify([]*scene.Mesh{m}, Customizable, nil)
		require.NoError(t, err)
		assert.True(t, sm.ApplyOutfitColor(Top, red))
		assert.Equal(t, red, m.Materials[0].BaseColor)
		assert.False(t, sm.ApplyOutfitColor(Hair, red), "unresolved role is a no-op")
	})

	t.Run("original", func(t *testing.T) {
		m := meshWith("Clothes", mat("Shirt", "shirt.png"))
		sm, err := Classify([]*scene.Mesh{m}, Original, nil)
		require.NoError(t, err)
		assert.False(t, sm.ApplyOutfitColor(Top, red))
		assert.Equal(t, scene.White, m.Materials[0].BaseColor)
		assert.Equal(t, "shirt.png", m.Materials[0].BaseColorTexture)
	})
}

func TestInstancesDoNotShareClones(t *testing.T) {
	shared := mat("Shirt", "")
	a := meshWith("A", shared)
	b := meshWith("B", shared)

	smA, err := Classify([]*scene.Mesh{a}, Customizable, nil)
	require.NoError(t, err)
	smB, err := Classify([]*scene.Mesh{b}, Customizable, nil)
	require.NoError(t, err)

	smA.ApplyOutfitColor(Top, scene.Color{R: 1, A: 1})
	smB.ApplyOutfitColor(Top, scene.Color{B: 1, A: 1})
	assert.NotEqual(t, smA.Material(Top).BaseColor, smB.Material(Top).BaseColor)
	assert.Equal(t, scene.White, shared.BaseColor)
}

func TestReclassifyClonesFromAuthoredMaterial(t *testing.T) {
	shirt := mat("Shirt", "shirt.png")
	m := meshWith("Clothes", shirt)

	first, err := Classify([]*scene.Mesh{m}, Customizable, nil)
	require.NoError(t, err)
	first.ApplyOutfitColor(Top, scene.Color{R: 1, A: 1})

	var buf bytes.Buffer
	second, err := Classify([]*scene.Mesh{m}, Original, log.New(&buf, "", 0))
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "Asset.Instance()")
	c := second.Material(Top)
	assert.NotSame(t, first.Material(Top), c)
	assert.Same(t, shirt, c.Origin)
	assert.Same(t, c, m.Materials[0])
	assert.Equal(t, scene.White, c.BaseColor, "earlier recolor does not carry over")
	assert.Equal(t, "shirt.png", c.BaseColorTexture)
	assert.Equal(t, scene.Color{R: 1, A: 1}, first.Material(Top).BaseColor)
}

func TestClassifyInstallsAfterEverySlotResolved(t *testing.T) {
	shirt := mat("Shirt", "shirt.png")
	pants := mat("Pants", "pants.png")
	a := meshWith("Top", shirt)
	b := meshWith("Bottom", pants)

	sm, err := Classify([]*scene.Mesh{a, nil, b}, Customizable, nil)
	require.NoError(t, err)
	for _, r := range []Role{Top, Bottom} {
		s := sm.Slot(r)
		require.NotNil(t, s)
		assert.Same(t, s.Material, s.Mesh.Materials[s.Index])
	}
	assert.Same(t, shirt, a.Materials[0].Origin)
	assert.Same(t, pants, b.Materials[0].Origin)
}

func TestParseRenderMode(t *testing.T) {
	tests := []struct {
		in      string
		want    RenderMode
		wantErr bool
	}{
		{in: "", want: Customizable},
		{in: "Customizable", want: Customizable},
		{in: "original", want: Original},
		{in: "pbr", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRenderMode(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
