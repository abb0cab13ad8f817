// Package batch simulates and renders previews for a directory of avatars.
package batch

import (
	"fmt"
	"hash/fnv"
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HugoSmits86/nativewebp"
	"github.com/pkg/errors"

	"avatar-engine/internal/config"
	"avatar-engine/internal/engine"
	"avatar-engine/internal/gltfload"
	"avatar-engine/internal/logging"
	"avatar-engine/internal/morph"
	"avatar-engine/internal/outfit"
	"avatar-engine/internal/postprocess"
	"avatar-engine/internal/profile"
	"avatar-engine/internal/raster"
	"avatar-engine/internal/rig"
	"avatar-engine/internal/scene"
	"avatar-engine/internal/texture"
	"avatar-engine/internal/viewmatrix"
)

// Loader reads an avatar file into the scene model.
type Loader func(path string) (*scene.Asset, error)

// Config holds all shared resources for a batch run.
type Config struct {
	Settings config.Config
	Profiles *profile.Set
	Textures *texture.Index // shared by every avatar; embedded images stay per avatar
	Load     Loader         // defaults to gltfload.Load
	Log      logging.Logger
}

// Result holds the outcome of processing one avatar.
type Result struct {
	Name    string
	Model   string
	Success bool
	Error   string
	Entry   ManifestEntry
}

// Discover returns every .glb and .gltf file under dir, sorted.
func Discover(dir string) ([]string, error) {
	var models []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".glb", ".gltf":
			models = append(models, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "batch: scan %s", dir)
	}
	sort.Strings(models)
	return models, nil
}

// Run processes all models using a worker pool.
func Run(cfg Config, models []string) []Result {
	if cfg.Load == nil {
		cfg.Load = gltfload.Load
	}
	cfg.Log = logging.OrDiscard(cfg.Log)
	workers := max(cfg.Settings.Workers, 1)

	total := len(models)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if p := processed.Load(); p > 0 {
					rate := float64(p) / time.Since(start).Seconds()
					fmt.Printf("  [%d/%d] %.1f avatars/sec\n", p, total, rate)
				}
			}
		}
	}()

	// Worker pool
	jobs := make(chan int, workers*2)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = processAvatar(cfg, models[idx])
				processed.Add(1)
			}
		}()
	}

	for i := range models {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	close(done)
	return results
}

func processAvatar(cfg Config, path string) Result {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	res := Result{Name: name, Model: path}
	fail := func(err error) Result {
		res.Error = err.Error()
		cfg.Log.Printf("batch: %s: %v", name, err)
		return res
	}

	asset, err := cfg.Load(path)
	if err != nil {
		return fail(err)
	}
	ecfg, err := cfg.Settings.Engine(path)
	if err != nil {
		return fail(err)
	}
	opts := []engine.Option{engine.WithProfiles(cfg.Profiles), engine.WithLogger(cfg.Log)}
	if cfg.Settings.Seed != 0 {
		opts = append(opts, engine.WithSeed(cfg.Settings.Seed^nameHash(name)))
	}
	eng, err := engine.New(asset, ecfg, opts...)
	if err != nil {
		return fail(err)
	}

	shots := simulate(eng, cfg.Settings, texture.NewCache(cfg.Textures, asset.Images))
	res.Entry = describe(eng)

	dir := filepath.Join(cfg.Settings.OutputDir, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fail(errors.Wrapf(err, "batch: mkdir %s", dir))
	}
	if err := writeAnimation(filepath.Join(dir, "preview.webp"), shots, cfg.Settings.FrameDelay); err != nil {
		return fail(err)
	}
	if err := writeImage(filepath.Join(dir, "sheet.webp"), postprocess.Sheet(shots, len(shots))); err != nil {
		return fail(err)
	}
	res.Entry.Preview = filepath.ToSlash(filepath.Join(name, "preview.webp"))
	res.Entry.Sheet = filepath.ToSlash(filepath.Join(name, "sheet.webp"))
	res.Success = true
	return res
}

// simulate steps the engine for s.Frames frames and renders up to s.Snapshots
// evenly spaced snapshots.
func simulate(eng *engine.Engine, s config.Config, textures texture.Resolver) []*image.NRGBA {
	ss := max(s.Supersample, 1)
	view := viewmatrix.Frame(eng.Normalized().Bounds, s.Camera(), s.RenderSize*ss)
	every := max(s.Frames/max(s.Snapshots, 1), 1)
	dt := s.Step()

	var shots []*image.NRGBA
	for i := 1; i <= s.Frames; i++ {
		eng.OnFrame(dt)
		if i%every != 0 || len(shots) >= s.Snapshots {
			continue
		}
		img := raster.Render(eng.Asset(), view, textures)
		if ss > 1 {
			img = postprocess.Downsample(img, s.RenderSize)
		}
		shots = append(shots, img)
	}
	return shots
}

func describe(eng *engine.Engine) ManifestEntry {
	n := eng.Normalized()
	applied, _ := eng.Frames()
	e := ManifestEntry{
		Family:      eng.Family().Name,
		Scale:       n.Scale,
		Height:      n.Height,
		Presence:    make(map[string]bool),
		Bones:       make(map[string]string),
		Garments:    make(map[string]string),
		Blink:       morph.Count(eng.BlinkTargets()),
		Expressions: morph.Count(eng.ExpressionTargets()),
		Frames:      applied,
	}
	bones := eng.Bones()
	for _, r := range rig.Roles {
		if node := bones.Get(r); node != nil {
			e.Bones[r.String()] = node.Name
		}
	}
	slots := eng.Slots()
	for r, ok := range slots.Presence() {
		e.Presence[r.String()] = ok
	}
	for _, r := range outfit.Roles {
		if s := slots.Slot(r); s != nil {
			e.Garments[r.String()] = s.Name
		}
	}
	e.SkinSlots = slots.SkinCount()
	if c := eng.Clip(); c != nil {
		e.Clip = c.Name
	}
	return e
}

func writeImage(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "batch: create %s", path)
	}
	defer f.Close()

	if err := nativewebp.Encode(f, img, nil); err != nil {
		return errors.Wrapf(err, "batch: webp encode %s", path)
	}
	return nil
}

func writeAnimation(path string, frames []*image.NRGBA, delayMS int) error {
	if len(frames) == 0 {
		return errors.Errorf("batch: no frames for %s", path)
	}
	ani := &nativewebp.Animation{
		Images:    make([]image.Image, len(frames)),
		Durations: make([]uint, len(frames)),
		Disposals: make([]uint, len(frames)),
	}
	for i, f := range frames {
		ani.Images[i] = f
		ani.Durations[i] = uint(max(delayMS, 1))
		ani.Disposals[i] = 1 // clear: frames carry transparency
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "batch: create %s", path)
	}
	defer f.Close()

	if err := nativewebp.EncodeAll(f, ani, nil); err != nil {
		return errors.Wrapf(err, "batch: webp encode %s", path)
	}
	return nil
}

func nameHash(name string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(name))
	return h.Sum64()
}
