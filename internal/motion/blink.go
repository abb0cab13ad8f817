package motion

import (
	"math/rand/v2"

	"avatar-engine/internal/mathutil"
)

// BlinkPhase is the state of the blink cycle.
type BlinkPhase int

const (
	Resting BlinkPhase = iota
	Closing
	Opening
)

func (p BlinkPhase) String() string {
	switch p {
	case Closing:
		return "closing"
	case Opening:
		return "opening"
	}
	return "resting"
}

const (
	closeRate = 8.0 // weight per second
	openRate  = 5.0

	firstDelayMin, firstDelaySpan = 2.0, 2.0
	nextDelayMin, nextDelaySpan   = 2.0, 3.0
)

// Blink is one instance's blink cycle. It is never shared between instances.
type Blink struct {
	Weight    float64
	Phase     BlinkPhase
	Elapsed   float64 // seconds since the last blink finished
	NextDelay float64 // seconds to wait before the next blink

	rng *rand.Rand
}

// NewBlink returns a resting blink cycle whose first delay is drawn from [2,4).
func NewBlink(rng *rand.Rand) *Blink {
	return &Blink{
		Phase:     Resting,
		NextDelay: firstDelayMin + rng.Float64()*firstDelaySpan,
		rng:       rng,
	}
}

// IsBlinking reports whether the eyes are closing or opening.
func (b *Blink) IsBlinking() bool { return b.Phase != Resting }

// IsClosing reports whether the eyes are closing.
func (b *Blink) IsClosing() bool { return b.Phase == Closing }

// Step advances the cycle by dt seconds and returns the weight to write.
func (b *Blink) Step(dt float64) float64 {
	dt = sanitize(dt)
	b.Elapsed += dt

	if b.Phase == Resting && b.Elapsed >= b.NextDelay {
		b.Phase = Closing
	}
	switch b.Phase {
	case Closing:
		b.Weight = mathutil.Clamp01(b.Weight + closeRate*dt)
		if b.Weight >= 1 {
			b.Weight = 1
			b.Phase = Opening
		}
	case Opening:
		b.Weight = mathutil.Clamp01(b.Weight - openRate*dt)
		if b.Weight <= 0 {
			b.Weight = 0
			b.Phase = Resting
			b.Elapsed = 0
			b.NextDelay = nextDelayMin + b.rng.Float64()*nextDelaySpan
		}
	}
	return b.Weight
}

func sanitize(dt float64) float64 {
	if dt > 0 && mathutil.IsFinite(dt) {
		return dt
	}
	return 0
}
