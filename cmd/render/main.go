package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"avatar-engine/internal/batch"
	"avatar-engine/internal/config"
	"avatar-engine/internal/logging"
	"avatar-engine/internal/profile"
	"avatar-engine/internal/texture"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.json file")
	testN := flag.Int("test", 0, "Render only first N avatars for testing")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	baseDir := flag.String("base", "", "Base directory relative paths resolve against (default: cwd)")
	avatarDir := flag.String("input", "", "Avatar directory (default: <base>/avatars)")
	outputDir := flag.String("output", "", "Output directory (default: <base>/renders)")
	mode := flag.String("mode", "", "Render mode: customizable or original")
	frames := flag.Int("frames", 0, "Frames to simulate per avatar (default: 120)")
	seed := flag.Uint64("seed", 0, "Seed for blink timing and sway phases (default: random)")
	verbose := flag.Bool("v", false, "Log classification and discovery diagnostics")

	flag.Parse()

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		BaseDir:   *baseDir,
		AvatarDir: *avatarDir,
		OutputDir: *outputDir,
		Mode:      *mode,
		Workers:   *workers,
		Frames:    *frames,
		Seed:      *seed,
	})

	var logOut io.Writer = io.Discard
	if *verbose {
		logOut = os.Stderr
	}
	log := logging.New(logOut, "")

	models, err := batch.Discover(cfg.AvatarDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *testN > 0 && *testN < len(models) {
		models = models[:*testN]
	}
	if len(models) == 0 {
		fmt.Println("No avatars to render.")
		os.Exit(0)
	}

	profiles, err := profile.Load(cfg.ProfilesJSON, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading profiles: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Profiles: %d families\n", profiles.Len())

	texIndex := texture.BuildIndex(cfg.TextureDir)
	fmt.Printf("Textures: %d indexed\n", texIndex.Len())

	fmt.Printf("Avatar preview renderer → WebP (%s)\n", cfg.RenderMode)
	fmt.Printf("Avatars: %d, Workers: %d, Frames: %d @ %.0f fps\n", len(models), cfg.Workers, cfg.Frames, cfg.FPS)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()

	results := batch.Run(batch.Config{
		Settings: cfg,
		Profiles: profiles,
		Textures: texIndex,
		Log:      log,
	}, models)

	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", time.Since(start).Seconds())

	var failed []batch.Result
	for _, r := range results {
		if !r.Success {
			failed = append(failed, r)
		}
	}
	fmt.Printf("Rendered: %d/%d\n", len(results)-len(failed), len(results))

	if len(failed) > 0 {
		fmt.Printf("\nFailed (%d):\n", len(failed))
		for _, r := range failed[:min(len(failed), 20)] {
			fmt.Printf("  %s: %s\n", r.Name, r.Error)
		}
	}

	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	if err := batch.WriteManifest(manifestPath, results); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if len(failed) > 0 {
		os.Exit(1)
	}
}
