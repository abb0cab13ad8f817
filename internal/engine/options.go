package engine

import (
	"math/rand/v2"

	"avatar-engine/internal/logging"
	"avatar-engine/internal/normalize"
	"avatar-engine/internal/outfit"
	"avatar-engine/internal/profile"
	"avatar-engine/internal/rig"
)

// Option customizes an Engine.
type Option func(*Engine)

// WithLogger routes diagnostics to l.
func WithLogger(l logging.Logger) Option {
	return func(e *Engine) { e.log = logging.OrDiscard(l) }
}

// WithProfiles sets the family table consulted on every load.
func WithProfiles(s *profile.Set) Option {
	return func(e *Engine) {
		if s != nil {
			e.profiles = s
		}
	}
}

// WithAliases replaces the bone alias table.
func WithAliases(t rig.AliasTable) Option {
	return func(e *Engine) { e.aliases = t }
}

// WithSeed makes blink timing and sway phases reproducible.
func WithSeed(seed uint64) Option {
	return func(e *Engine) { e.rng = rand.New(rand.NewPCG(seed, seed^0x5851f42d4c957f2d)) }
}

// OnNormalized is called once per load with the normalization outcome.
func OnNormalized(fn func(normalize.Result)) Option {
	return func(e *Engine) { e.onNormalized = fn }
}

// OnMaterialsResolved is called once per load with garment presence flags.
func OnMaterialsResolved(fn func(map[outfit.Role]bool)) Option {
	return func(e *Engine) { e.onMaterials = fn }
}
