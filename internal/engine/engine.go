// Package engine adapts an arbitrary rigged avatar on load and drives its
// procedural idle animation every frame.
package engine

import (
	"math/rand/v2"

	"github.com/pkg/errors"

	"avatar-engine/internal/logging"
	"avatar-engine/internal/mathutil"
	"avatar-engine/internal/mixer"
	"avatar-engine/internal/morph"
	"avatar-engine/internal/motion"
	"avatar-engine/internal/normalize"
	"avatar-engine/internal/outfit"
	"avatar-engine/internal/profile"
	"avatar-engine/internal/rig"
	"avatar-engine/internal/scene"
)

// ErrAssetInvalid is returned when an asset is missing or malformed.
var ErrAssetInvalid = errors.New("engine: invalid asset")

// tables are the lookup structures derived from one asset.
type tables struct {
	generation  uint64
	asset       *scene.Asset
	family      profile.Family
	normalized  normalize.Result
	bones       rig.BoneMap
	slots       *outfit.SlotMap
	blink       []morph.Target
	expressions morph.ExpressionCache
	clip        int
	stripped    int
	player      *mixer.Player
	driver      *motion.Driver
}

// Engine is one avatar instance. It is not safe for concurrent use; every
// method is expected to run on the frame thread.
type Engine struct {
	cfg      Config
	log      logging.Logger
	profiles *profile.Set
	aliases  rig.AliasTable
	rng      *rand.Rand
	phase    motion.Phase
	blink    *motion.Blink

	onNormalized func(normalize.Result)
	onMaterials  func(map[outfit.Role]bool)

	generation uint64
	loading    bool
	cur        *tables
	frames     uint64
	skipped    uint64
}

// New builds an engine for asset. A nil or malformed asset is fatal.
func New(asset *scene.Asset, cfg Config, opts ...Option) (*Engine, error) {
	e := &Engine{
		cfg:      cfg,
		log:      logging.Discard,
		profiles: profile.Empty(),
		aliases:  rig.DefaultAliases,
		rng:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.phase = motion.NewPhase(e.rng)
	e.blink = motion.NewBlink(e.rng)
	if err := e.Load(asset); err != nil {
		return nil, err
	}
	return e, nil
}

// BeginLoad marks a load in progress. Until Load completes OnFrame is a no-op
// and tables built before the call are never touched again.
func (e *Engine) BeginLoad() {
	e.loading = true
	e.generation++
}

// Load replaces the current asset. All derived tables are cleared before the
// new asset is resolved; on error the engine is left without an asset.
func (e *Engine) Load(asset *scene.Asset) error {
	e.loading = true
	e.generation++
	e.cur = nil

	t, err := e.build(asset, e.generation)
	if err != nil {
		return err
	}
	e.cur = t
	e.loading = false

	if e.onNormalized != nil {
		e.onNormalized(t.normalized)
	}
	if e.onMaterials != nil {
		e.onMaterials(t.slots.Presence())
	}
	return nil
}

func (e *Engine) build(asset *scene.Asset, gen uint64) (*tables, error) {
	if asset == nil {
		return nil, errors.Wrap(ErrAssetInvalid, "nil asset")
	}
	if err := asset.Validate(); err != nil {
		return nil, errors.Wrapf(ErrAssetInvalid, "%s: %v", asset.Source, err)
	}

	t := &tables{generation: gen, asset: asset}
	t.family = e.profiles.Lookup(e.cfg.ModelPath)

	// Nothing below may fail once the asset has been touched.
	slots, err := outfit.Classify(asset.Meshes, e.cfg.RenderMode, e.log)
	if err != nil {
		return nil, errors.Wrap(err, "engine: classify materials")
	}
	t.slots = slots

	t.normalized = normalize.Normalize(asset, t.family.TargetHeight)
	e.log.Printf("engine: normalized %s scale=%.4f height=%.4f", asset.Source, t.normalized.Scale, t.normalized.Height)

	t.bones = rig.Resolve(asset.Root, e.aliases)
	for _, r := range outfit.Roles {
		if c := e.cfg.OutfitColors.For(r); c.A > 0 {
			slots.ApplyOutfitColor(r, c)
		}
	}

	t.blink = morph.Blink(asset.Meshes, e.log)

	t.stripped = mixer.StripScaleTracks(asset.Clips)
	t.clip = mixer.Select(asset.Clips, t.family.ProceduralOnly)
	var clip *scene.Clip
	if t.clip >= 0 {
		clip = asset.Clips[t.clip]
	}
	t.player = mixer.NewPlayer(clip)

	idle := motion.NewIdle(asset.Root, t.bones, e.phase, motion.IdleOptions{
		Amplitude: t.family.IdleScale,
		SkipArms:  t.family.SkipArmOverride,
		ArmDrop:   mathutil.Deg2Rad(t.family.ArmDropDegrees),
	})
	t.driver = motion.NewDriver(idle, e.blink, t.blink, asset.Meshes, &t.expressions)
	return t, nil
}

// OnFrame advances the base clip, then overwrites the procedurally driven
// bones and morph weights. It never fails; frames during a load or against
// stale tables are skipped.
func (e *Engine) OnFrame(dt float64) {
	t := e.cur
	if e.loading || t == nil || t.generation != e.generation {
		e.skipped++
		return
	}
	e.frames++
	t.player.Advance(dt)
	t.driver.Step(dt)
}

// ApplyOutfitColor recolors the garment resolved for r. It is a no-op when r
// is unresolved, no asset is loaded or the render mode is Original.
func (e *Engine) ApplyOutfitColor(r outfit.Role, c scene.Color) bool {
	if e.cur == nil {
		return false
	}
	return e.cur.slots.ApplyOutfitColor(r, c)
}

// Loading reports whether a load is in progress.
func (e *Engine) Loading() bool { return e.loading }

// Generation returns the current load generation.
func (e *Engine) Generation() uint64 { return e.generation }

// Frames returns how many frames were applied and how many were skipped.
func (e *Engine) Frames() (applied, skipped uint64) { return e.frames, e.skipped }

// Asset returns the loaded asset, or nil.
func (e *Engine) Asset() *scene.Asset {
	if e.cur == nil {
		return nil
	}
	return e.cur.asset
}

// Bones returns the resolved bone map.
func (e *Engine) Bones() rig.BoneMap {
	if e.cur == nil {
		return rig.BoneMap{}
	}
	return e.cur.bones
}

// Slots returns the material slot map, or nil.
func (e *Engine) Slots() *outfit.SlotMap {
	if e.cur == nil {
		return nil
	}
	return e.cur.slots
}

// BlinkTargets returns the discovered blink targets.
func (e *Engine) BlinkTargets() []morph.Target {
	if e.cur == nil {
		return nil
	}
	return e.cur.blink
}

// ExpressionTargets returns the cached expression targets.
func (e *Engine) ExpressionTargets() []morph.Target {
	if e.cur == nil {
		return nil
	}
	return e.cur.expressions.Targets(e.cur.asset.Meshes)
}

// Blink returns the instance's blink cycle. It survives asset swaps.
func (e *Engine) Blink() *motion.Blink {
	return e.blink
}

// Family returns the resolved asset family.
func (e *Engine) Family() profile.Family {
	if e.cur == nil {
		return profile.Default()
	}
	return e.cur.family
}

// Normalized returns the normalization outcome of the current load.
func (e *Engine) Normalized() normalize.Result {
	if e.cur == nil {
		return normalize.Result{}
	}
	return e.cur.normalized
}

// Clip returns the clip being played, or nil.
func (e *Engine) Clip() *scene.Clip {
	if e.cur == nil {
		return nil
	}
	return e.cur.player.Clip()
}
