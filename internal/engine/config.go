package engine

import (
	"avatar-engine/internal/outfit"
	"avatar-engine/internal/scene"
)

// Colors holds one color per garment role. A zero Color (alpha 0) leaves the
// material's own color in place.
type Colors struct {
	Top      scene.Color
	Bottom   scene.Color
	Footwear scene.Color
	Hair     scene.Color
}

// For returns the color configured for r.
func (c Colors) For(r outfit.Role) scene.Color {
	switch r {
	case outfit.Top:
		return c.Top
	case outfit.Bottom:
		return c.Bottom
	case outfit.Footwear:
		return c.Footwear
	case outfit.Hair:
		return c.Hair
	}
	return scene.Color{}
}

// Config is the per-instance configuration record.
type Config struct {
	OutfitColors Colors
	ModelPath    string // identity hint used to resolve the asset family
	RenderMode   outfit.RenderMode
}
