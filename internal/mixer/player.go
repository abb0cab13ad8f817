package mixer

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"avatar-engine/internal/mathutil"
	"avatar-engine/internal/scene"
)

// Player plays one clip onto its target nodes. A Player with no clip is idle.
type Player struct {
	clip     *scene.Clip
	duration float64
	time     float64
	loop     bool
}

// NewPlayer returns a looping player for clip. clip may be nil.
func NewPlayer(clip *scene.Clip) *Player {
	p := &Player{clip: clip, loop: true}
	if clip != nil {
		p.duration = clipDuration(clip)
	}
	return p
}

func clipDuration(c *scene.Clip) float64 {
	if c.Duration > 0 {
		return c.Duration
	}
	d := 0.0
	for _, tr := range c.Tracks {
		if tr != nil && len(tr.Times) > 0 && tr.Times[len(tr.Times)-1] > d {
			d = tr.Times[len(tr.Times)-1]
		}
	}
	return d
}

// SetLoop selects looping (default) or clamp-at-end playback.
func (p *Player) SetLoop(loop bool) {
	p.loop = loop
}

// Clip returns the clip being played, or nil.
func (p *Player) Clip() *scene.Clip {
	return p.clip
}

// Time returns the current playback time in seconds.
func (p *Player) Time() float64 {
	return p.time
}

// Duration returns the playback length of the clip.
func (p *Player) Duration() float64 {
	return p.duration
}

// Advance moves playback by dt seconds and writes the sampled pose into the
// target nodes. Negative or non-finite dt is treated as zero.
func (p *Player) Advance(dt float64) {
	if p.clip == nil {
		return
	}
	if dt > 0 && mathutil.IsFinite(dt) {
		p.time += dt
	}
	switch {
	case p.duration <= 0:
		p.time = 0
	case p.loop:
		p.time = math.Mod(p.time, p.duration)
	case p.time > p.duration:
		p.time = p.duration
	}
	p.apply()
}

func (p *Player) apply() {
	for _, tr := range p.clip.Tracks {
		if tr == nil || tr.Node == nil || len(tr.Times) == 0 {
			continue
		}
		stride := tr.Stride()
		if stride == 0 || len(tr.Values) < stride*len(tr.Times) {
			continue
		}
		switch tr.Property {
		case scene.Translation:
			tr.Node.Position = sampleVec3(tr, p.time)
		case scene.Rotation:
			tr.Node.Rotation = sampleQuat(tr, p.time)
		case scene.Scale:
			tr.Node.Scale = sampleVec3(tr, p.time)
		case scene.Weights:
			if m := tr.Node.Mesh; m != nil && m.Morph != nil {
				w := sampleN(tr, p.time, stride)
				for i, v := range w {
					m.Morph.SetWeight(i, v)
				}
			}
		}
	}
}

// locate returns the keyframe pair around t and the blend factor between them.
func locate(tr *scene.Track, t float64) (int, int, float64) {
	n := len(tr.Times)
	k := sort.Search(n, func(i int) bool { return tr.Times[i] > t }) - 1
	if k < 0 {
		return 0, 0, 0
	}
	if k >= n-1 {
		return n - 1, n - 1, 0
	}
	if tr.Interpolation == scene.Step {
		return k, k, 0
	}
	span := tr.Times[k+1] - tr.Times[k]
	if span <= 0 {
		return k + 1, k + 1, 0
	}
	return k, k + 1, (t - tr.Times[k]) / span
}

func sampleN(tr *scene.Track, t float64, stride int) []float64 {
	a, b, f := locate(tr, t)
	out := make([]float64, stride)
	for i := range out {
		va := tr.Values[a*stride+i]
		vb := tr.Values[b*stride+i]
		out[i] = va + (vb-va)*f
	}
	return out
}

func sampleVec3(tr *scene.Track, t float64) mgl64.Vec3 {
	v := sampleN(tr, t, 3)
	return mgl64.Vec3{v[0], v[1], v[2]}
}

func sampleQuat(tr *scene.Track, t float64) mgl64.Quat {
	a, b, f := locate(tr, t)
	qa := quatAt(tr.Values, a)
	if a == b || f == 0 {
		return qa
	}
	qb := quatAt(tr.Values, b)
	if qa.Dot(qb) < 0 {
		qb = qb.Scale(-1)
	}
	return mgl64.QuatSlerp(qa, qb, f).Normalize()
}

func quatAt(v []float64, k int) mgl64.Quat {
	o := k * 4
	return mgl64.Quat{W: v[o+3], V: mgl64.Vec3{v[o], v[o+1], v[o+2]}}.Normalize()
}
