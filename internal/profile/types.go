// Package profile resolves per-asset-family exceptions once per load.
package profile

import "avatar-engine/internal/normalize"

// Family holds the exceptions applied to every asset of one family.
type Family struct {
	Name            string  // matched model key, "" for the default family
	TargetHeight    float64 // normalized height in meters
	ProceduralOnly  bool    // play no base clip
	SkipArmOverride bool    // leave arms to the base clip
	ArmDropDegrees  float64 // how far the idle pose lowers the upper arms
	IdleScale       float64 // amplitude multiplier on the idle oscillations
}

// DefaultTargetHeight is the normalized height for assets without a family.
const DefaultTargetHeight = normalize.DefaultTargetHeight

// DefaultArmDropDegrees lowers T-posed arms to a relaxed stance.
const DefaultArmDropDegrees = 65.0

// DefaultIdleScale is the idle amplitude multiplier.
const DefaultIdleScale = 1.0

// Default returns the family used when nothing matches.
func Default() Family {
	return Family{
		TargetHeight:   DefaultTargetHeight,
		ArmDropDegrees: DefaultArmDropDegrees,
		IdleScale:      DefaultIdleScale,
	}
}
