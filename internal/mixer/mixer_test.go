package mixer

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"avatar-engine/internal/mathutil"
	"avatar-engine/internal/scene"
)

func TestStripScaleTracks(t *testing.T) {
	n := scene.NewNode("hips")
	clips := []*scene.Clip{
		{Name: "idle", Tracks: []*scene.Track{
			{Node: n, Property: scene.Scale, Times: []float64{0}, Values: []float64{2, 2, 2}},
			{Node: n, Property: scene.Rotation, Times: []float64{0}, Values: []float64{0, 0, 0, 1}},
			{Node: n, Property: scene.Scale, Times: []float64{0}, Values: []float64{3, 3, 3}},
		}},
		{Name: "walk", Tracks: []*scene.Track{
			{Node: n, Property: scene.Translation, Times: []float64{0}, Values: []float64{0, 1, 0}},
		}},
		nil,
	}
	if got := StripScaleTracks(clips); got != 2 {
		t.Fatalf("removed got=%d want=2", got)
	}
	for _, c := range clips[:2] {
		for _, tr := range c.Tracks {
			if tr.Property == scene.Scale {
				t.Fatalf("clip %q still has a scale track", c.Name)
			}
		}
	}
	if len(clips[0].Tracks) != 1 || clips[0].Tracks[0].Property != scene.Rotation {
		t.Fatalf("rotation track should survive, got %d tracks", len(clips[0].Tracks))
	}

	// scale never drifts when playing the stripped clip
	p := NewPlayer(clips[0])
	for i := 0; i < 100; i++ {
		p.Advance(1.0 / 30)
	}
	if n.Scale != (mgl64.Vec3{1, 1, 1}) {
		t.Fatalf("scale changed: %v", n.Scale)
	}
}

func clipsNamed(names ...string) []*scene.Clip {
	out := make([]*scene.Clip, len(names))
	for i, n := range names {
		out[i] = &scene.Clip{Name: n}
	}
	return out
}

func TestSelect(t *testing.T) {
	tests := []struct {
		name           string
		clips          []string
		proceduralOnly bool
		want           int
	}{
		{name: "procedural only", clips: []string{"Idle"}, proceduralOnly: true, want: -1},
		{name: "no clips", want: -1},
		{name: "idle preferred", clips: []string{"TPose", "Walk", "Idle_01"}, want: 2},
		{name: "tpose rejected", clips: []string{"T-Pose", "Run"}, want: 1},
		{name: "stand", clips: []string{"Bind", "Wave", "Standing"}, want: 2},
		{name: "default", clips: []string{"Default Take"}, want: 0},
		{name: "second of several", clips: []string{"Bind", "Wave", "Run"}, want: 1},
		{name: "single", clips: []string{"Wave"}, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Select(clipsNamed(tt.clips...), tt.proceduralOnly); got != tt.want {
				t.Fatalf("Select got=%d want=%d", got, tt.want)
			}
		})
	}
}

func TestPlayerLinearTranslationAndLoop(t *testing.T) {
	n := scene.NewNode("hips")
	clip := &scene.Clip{Name: "bob", Tracks: []*scene.Track{{
		Node: n, Property: scene.Translation,
		Times:  []float64{0, 1, 2},
		Values: []float64{0, 0, 0, 0, 1, 0, 0, 0, 0},
	}}}
	p := NewPlayer(clip)
	if p.Duration() != 2 {
		t.Fatalf("duration got=%v want=2", p.Duration())
	}

	p.Advance(0.5)
	if math.Abs(n.Position[1]-0.5) > 1e-9 {
		t.Fatalf("y at 0.5 got=%v want=0.5", n.Position[1])
	}
	p.Advance(2.25) // 2.75 wraps to 0.75
	if math.Abs(p.Time()-0.75) > 1e-9 {
		t.Fatalf("time got=%v want=0.75", p.Time())
	}
	if math.Abs(n.Position[1]-0.75) > 1e-9 {
		t.Fatalf("y at 0.75 got=%v", n.Position[1])
	}
}

func TestPlayerClampWithoutLoop(t *testing.T) {
	n := scene.NewNode("hips")
	clip := &scene.Clip{Duration: 1, Tracks: []*scene.Track{{
		Node: n, Property: scene.Translation,
		Times:  []float64{0, 1},
		Values: []float64{0, 0, 0, 2, 0, 0},
	}}}
	p := NewPlayer(clip)
	p.SetLoop(false)
	p.Advance(5)
	if p.Time() != 1 || n.Position[0] != 2 {
		t.Fatalf("clamped got time=%v x=%v", p.Time(), n.Position[0])
	}
}

func TestPlayerStepInterpolation(t *testing.T) {
	n := scene.NewNode("hips")
	clip := &scene.Clip{Tracks: []*scene.Track{{
		Node: n, Property: scene.Translation, Interpolation: scene.Step,
		Times:  []float64{0, 1, 2},
		Values: []float64{1, 0, 0, 5, 0, 0, 9, 0, 0},
	}}}
	p := NewPlayer(clip)
	p.SetLoop(false)
	p.Advance(0.9)
	if n.Position[0] != 1 {
		t.Fatalf("step x got=%v want=1", n.Position[0])
	}
	p.Advance(0.2)
	if n.Position[0] != 5 {
		t.Fatalf("step x got=%v want=5", n.Position[0])
	}
}

func TestPlayerRotationSlerp(t *testing.T) {
	n := scene.NewNode("head")
	q1 := mathutil.EulerToQuat(0, math.Pi/2, 0)
	clip := &scene.Clip{Tracks: []*scene.Track{{
		Node: n, Property: scene.Rotation,
		Times:  []float64{0, 1},
		Values: []float64{0, 0, 0, 1, q1.V[0], q1.V[1], q1.V[2], q1.W},
	}}}
	p := NewPlayer(clip)
	p.SetLoop(false)
	p.Advance(0.5)
	want := mathutil.EulerToQuat(0, math.Pi/4, 0)
	if !n.Rotation.ApproxEqualThreshold(want, 1e-9) {
		t.Fatalf("rotation got=%v want=%v", n.Rotation, want)
	}
}

func TestPlayerWeightsTrack(t *testing.T) {
	n := scene.NewNode("face")
	n.Mesh = &scene.Mesh{Node: n, Morph: &scene.MorphTargets{Names: []string{"a", "b"}, Weights: []float64{0, 0}}}
	clip := &scene.Clip{Tracks: []*scene.Track{{
		Node: n, Property: scene.Weights,
		Times:  []float64{0, 1},
		Values: []float64{0, 1, 1, 0},
	}}}
	p := NewPlayer(clip)
	p.SetLoop(false)
	p.Advance(0.25)
	w := n.Mesh.Morph.Weights
	if math.Abs(w[0]-0.25) > 1e-9 || math.Abs(w[1]-0.75) > 1e-9 {
		t.Fatalf("weights got=%v", w)
	}
}

func TestPlayerNilClipAndBadDelta(t *testing.T) {
	p := NewPlayer(nil)
	p.Advance(1) // must not panic
	if p.Clip() != nil || p.Time() != 0 {
		t.Fatalf("idle player should stay at zero")
	}

	n := scene.NewNode("hips")
	q := NewPlayer(&scene.Clip{Tracks: []*scene.Track{{
		Node: n, Property: scene.Translation,
		Times: []float64{0, 1}, Values: []float64{0, 0, 0, 1, 0, 0},
	}}})
	q.Advance(math.NaN())
	q.Advance(-3)
	q.Advance(math.Inf(1))
	if q.Time() != 0 || !mathutil.IsFinite(n.Position[:]...) {
		t.Fatalf("bad deltas must be ignored, time=%v pos=%v", q.Time(), n.Position)
	}
}
