// Package outfit maps material slots to garment roles and applies outfit colors
// to per-instance material clones.
package outfit

import (
	"strings"

	"github.com/pkg/errors"

	"avatar-engine/internal/logging"
	"avatar-engine/internal/scene"
)

// Role is a recolorable garment category.
type Role int

const (
	Top Role = iota
	Bottom
	Footwear
	Hair

	roleCount
)

// Roles lists garment roles in classification priority order.
var Roles = []Role{Top, Bottom, Footwear, Hair}

func (r Role) String() string {
	switch r {
	case Top:
		return "top"
	case Bottom:
		return "bottom"
	case Footwear:
		return "footwear"
	case Hair:
		return "hair"
	}
	return "unknown"
}

// RenderMode selects whether outfit colors are applied.
type RenderMode int

const (
	Customizable RenderMode = iota
	Original
)

func (m RenderMode) String() string {
	if m == Original {
		return "original"
	}
	return "customizable"
}

// ParseRenderMode accepts "customizable" or "original" (case-insensitive).
func ParseRenderMode(s string) (RenderMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "customizable", "custom":
		return Customizable, nil
	case "original":
		return Original, nil
	}
	return Customizable, errors.Errorf("outfit: unknown render mode %q", s)
}

// Slot identifies one material slot of one mesh.
type Slot struct {
	Mesh     *scene.Mesh
	Index    int
	Name     string          // lowercase classification name
	Material *scene.Material // installed clone
}

// SlotMap is the result of classifying an asset's materials.
type SlotMap struct {
	mode  RenderMode
	roles [roleCount]*Slot
	skin  map[*scene.Material]bool
}

// Classify walks every material slot of meshes, assigns garment roles and
// installs a private clone for each garment slot in place of the shared material.
// The first slot per role wins. Clones are installed only once every slot has
// been classified; on error the meshes are left as they were.
func Classify(meshes []*scene.Mesh, mode RenderMode, log logging.Logger) (*SlotMap, error) {
	log = logging.OrDiscard(log)
	sm := &SlotMap{mode: mode, skin: make(map[*scene.Material]bool)}

	for _, mesh := range meshes {
		if mesh == nil {
			continue
		}
		for i, mat := range mesh.Materials {
			if mat == nil {
				continue
			}
			name := targetName(mesh, mat)
			skin := IsSkinName(name)
			role, garment := garmentRole(name)

			if skin {
				sm.skin[mat] = true
				if garment {
					log.Printf("outfit: slot %q matches %s and skin, kept as skin", name, role)
				}
				continue
			}
			if !garment {
				continue
			}
			if prev := sm.roles[role]; prev != nil {
				log.Printf("outfit: %s already resolved to %q, ignoring %q", role, prev.Name, name)
				continue
			}

			if mat.Origin != nil {
				log.Printf("outfit: slot %q already holds a clone from an earlier classification; give each engine its own Asset.Instance()", name)
			}
			clone, err := mat.Authored().Clone()
			if err != nil {
				return nil, errors.Wrapf(err, "outfit: classify mesh %q", mesh.Name)
			}
			if mode == Customizable {
				clone.BaseColorTexture = ""
			}
			sm.roles[role] = &Slot{Mesh: mesh, Index: i, Name: name, Material: clone}
		}
	}

	for _, s := range sm.roles {
		if s != nil {
			s.Mesh.Materials[s.Index] = s.Material
		}
	}
	return sm, nil
}

func targetName(mesh *scene.Mesh, mat *scene.Material) string {
	if mat.Name != "" {
		return strings.ToLower(mat.Name)
	}
	return strings.ToLower(mesh.Name)
}

// Mode returns the render mode the map was built with.
func (sm *SlotMap) Mode() RenderMode {
	return sm.mode
}

// Slot returns the slot resolved for r, or nil.
func (sm *SlotMap) Slot(r Role) *Slot {
	if sm == nil || r < 0 || r >= roleCount {
		return nil
	}
	return sm.roles[r]
}

// Material returns the recolorable clone for r, or nil.
func (sm *SlotMap) Material(r Role) *scene.Material {
	if s := sm.Slot(r); s != nil {
		return s.Material
	}
	return nil
}

// IsSkin reports whether m was flagged as skin.
func (sm *SlotMap) IsSkin(m *scene.Material) bool {
	return sm != nil && sm.skin[m]
}

// SkinCount returns the number of distinct skin materials.
func (sm *SlotMap) SkinCount() int {
	if sm == nil {
		return 0
	}
	return len(sm.skin)
}

// Presence reports per garment role whether a material was resolved.
func (sm *SlotMap) Presence() map[Role]bool {
	out := make(map[Role]bool, roleCount)
	for _, r := range Roles {
		out[r] = sm.Slot(r) != nil
	}
	return out
}

// ApplyOutfitColor sets the base color of the clone resolved for r. It does
// nothing when r is unresolved or the map is in Original mode, and reports
// whether a color was written.
func (sm *SlotMap) ApplyOutfitColor(r Role, c scene.Color) bool {
	if sm == nil || sm.mode == Original {
		return false
	}
	s := sm.Slot(r)
	if s == nil {
		return false
	}
	s.Material.BaseColor = c
	return true
}
