package motion

import (
	"avatar-engine/internal/morph"
	"avatar-engine/internal/scene"
)

// Driver runs the per-frame procedural layer for one engine instance.
type Driver struct {
	Idle  *Idle
	Blink *Blink

	blinkTargets []morph.Target
	expressions  *morph.ExpressionCache
	meshes       []*scene.Mesh
	clock        float64
}

// NewDriver wires the idle pose, the instance's blink cycle and the morph targets of one asset.
func NewDriver(idle *Idle, b *Blink, blink []morph.Target, meshes []*scene.Mesh, expressions *morph.ExpressionCache) *Driver {
	if expressions == nil {
		expressions = &morph.ExpressionCache{}
	}
	return &Driver{
		Idle:         idle,
		Blink:        b,
		blinkTargets: blink,
		expressions:  expressions,
		meshes:       meshes,
	}
}

// Clock returns the accumulated procedural time in seconds.
func (d *Driver) Clock() float64 {
	return d.clock
}

// Step advances procedural time by dt and writes bones and morph weights.
func (d *Driver) Step(dt float64) {
	dt = sanitize(dt)
	d.clock += dt

	if d.Idle != nil {
		d.Idle.Apply(d.clock)
	}
	morph.Apply(d.blinkTargets, d.Blink.Step(dt))
	morph.Apply(d.expressions.Targets(d.meshes), Smile(d.clock))
}
