// Package motion drives procedural idle motion: body sway and breathing,
// limb pose overrides, the blink cycle and expression cycling.
package motion

import (
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"

	"avatar-engine/internal/mathutil"
	"avatar-engine/internal/rig"
	"avatar-engine/internal/scene"
)

// Phase holds the random sway and bob offsets fixed at construction.
type Phase struct {
	Sway float64
	Bob  float64
}

// NewPhase draws both offsets uniformly from [0, 2π).
func NewPhase(rng *rand.Rand) Phase {
	return Phase{
		Sway: rng.Float64() * 2 * math.Pi,
		Bob:  rng.Float64() * 2 * math.Pi,
	}
}

// IdleOptions tune the idle override for one asset family.
type IdleOptions struct {
	Amplitude float64 // multiplier on every oscillation; 0 means 1
	SkipArms  bool    // leave shoulders and arms to the base clip
	ArmDrop   float64 // radians the upper arms are lowered from the rest pose
}

// wave is a sinusoidal rotation offset in degrees about one local axis.
type wave struct {
	axis   int // 0=X 1=Y 2=Z
	deg    float64
	freq   float64 // rad/s
	offset float64
	sided  bool // mirror the amplitude for right-side roles
}

const (
	breathFreq = 1.5
	armFreq    = 0.8
	legFreq    = armFreq / 2

	swayYawDeg   = 1.2
	swayPitchDeg = 0.6
	swayRollDeg  = 0.8
	swayFreq     = 0.5
	bobHeight    = 0.004 // meters, after normalization
	bobFreq      = breathFreq
)

var roleWaves = map[rig.Role][]wave{
	rig.Spine: {{axis: 0, deg: 1.5, freq: breathFreq, offset: -0.4}},
	rig.Chest: {{axis: 0, deg: 5, freq: breathFreq}},
	rig.Neck:  {{axis: 0, deg: -1.5, freq: breathFreq, offset: 0.3}},
	rig.Head: {
		{axis: 1, deg: 2.5, freq: 0.3},
		{axis: 0, deg: 1, freq: 0.45, offset: 1},
	},
	rig.LeftShoulder:  {{axis: 2, deg: 1, freq: breathFreq, sided: true}},
	rig.RightShoulder: {{axis: 2, deg: 1, freq: breathFreq, sided: true}},
	rig.LeftArm:       {{axis: 0, deg: 6, freq: armFreq}},
	rig.RightArm:      {{axis: 0, deg: 6, freq: armFreq, offset: math.Pi}},
	rig.LeftForeArm:   {{axis: 0, deg: 3, freq: armFreq, offset: 0.5}},
	rig.RightForeArm:  {{axis: 0, deg: 3, freq: armFreq, offset: 0.5 + math.Pi}},
	rig.LeftUpLeg:     {{axis: 0, deg: 2, freq: legFreq}},
	rig.RightUpLeg:    {{axis: 0, deg: 2, freq: legFreq, offset: math.Pi}},
	rig.LeftLeg:       {{axis: 0, deg: -1.5, freq: legFreq, offset: 0.5}},
	rig.RightLeg:      {{axis: 0, deg: -1.5, freq: legFreq, offset: 0.5 + math.Pi}},
}

var armRoles = map[rig.Role]bool{
	rig.LeftShoulder: true, rig.RightShoulder: true,
	rig.LeftArm: true, rig.RightArm: true,
	rig.LeftForeArm: true, rig.RightForeArm: true,
}

type override struct {
	role rig.Role
	node *scene.Node
	rest mgl64.Quat
}

// Idle computes the idle pose as a pure function of time and phase.
type Idle struct {
	root      *scene.Node
	rootRot   mgl64.Quat
	rootPos   mgl64.Vec3
	phase     Phase
	opts      IdleOptions
	overrides []override
}

// NewIdle captures the rest rotations of the resolved bones and of root.
// Call it after normalization so the captured root transform is final.
func NewIdle(root *scene.Node, bones rig.BoneMap, phase Phase, opts IdleOptions) *Idle {
	if opts.Amplitude == 0 {
		opts.Amplitude = 1
	}
	d := &Idle{root: root, phase: phase, opts: opts}
	if root != nil {
		d.rootRot = root.Rotation
		d.rootPos = root.Position
	}
	for _, r := range rig.Roles {
		n := bones.Get(r)
		if n == nil || (opts.SkipArms && armRoles[r]) {
			continue
		}
		d.overrides = append(d.overrides, override{role: r, node: n, rest: n.Rotation})
	}
	return d
}

// Phase returns the sway and bob offsets the idle runs with.
func (d *Idle) Phase() Phase { return d.phase }

// Overridden reports how many bones the idle pose writes.
func (d *Idle) Overridden() int {
	return len(d.overrides)
}

// Apply writes the idle pose for time t. It replaces the rotation of every
// overridden bone and adds sway and bob to the root.
func (d *Idle) Apply(t float64) {
	if !mathutil.IsFinite(t) {
		return
	}
	a := d.opts.Amplitude
	if d.root != nil {
		s := t*swayFreq + d.phase.Sway
		sway := mathutil.EulerToQuat(
			mathutil.Deg2Rad(swayPitchDeg*a*math.Sin(s*0.7)),
			mathutil.Deg2Rad(swayYawDeg*a*math.Sin(s)),
			mathutil.Deg2Rad(swayRollDeg*a*math.Sin(s*1.3)),
		)
		d.root.Rotation = d.rootRot.Mul(sway)
		d.root.Position = d.rootPos
		d.root.Position[1] += bobHeight * a * math.Sin(t*bobFreq+d.phase.Bob)
	}
	for _, o := range d.overrides {
		var e [3]float64
		for _, w := range roleWaves[o.role] {
			deg := w.deg * a
			if w.sided {
				deg *= o.role.Side()
			}
			e[w.axis] += mathutil.Deg2Rad(deg * math.Sin(t*w.freq+w.offset))
		}
		if o.role == rig.LeftArm || o.role == rig.RightArm {
			e[2] -= o.role.Side() * d.opts.ArmDrop
		}
		o.node.Rotation = o.rest.Mul(mathutil.EulerToQuat(e[0], e[1], e[2])).Normalize()
	}
}
