package main

import (
	"flag"
	"fmt"
	"os"

	"avatar-engine/internal/engine"
	"avatar-engine/internal/gltfload"
	"avatar-engine/internal/logging"
	"avatar-engine/internal/morph"
	"avatar-engine/internal/normalize"
	"avatar-engine/internal/outfit"
	"avatar-engine/internal/profile"
	"avatar-engine/internal/rig"
	"avatar-engine/internal/scene"
)

func main() {
	profilesPath := flag.String("profiles", "profiles.json", "Path to profiles.json")
	mode := flag.String("mode", "customizable", "Render mode: customizable or original")
	frames := flag.Int("frames", 0, "Frames to simulate before printing motion state")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: inspect [flags] avatar.glb")
		os.Exit(2)
	}
	path := flag.Arg(0)
	log := logging.New(os.Stderr, "inspect: ")

	asset, err := gltfload.Load(path)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	profiles, err := profile.Load(*profilesPath, log)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	renderMode, err := outfit.ParseRenderMode(*mode)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Asset: %s\n", path)
	fmt.Printf("Nodes: %d, Meshes: %d, Clips: %d, Embedded images: %d\n",
		len(asset.Nodes()), len(asset.Meshes), len(asset.Clips), len(asset.Images))

	eng, err := engine.New(asset, engine.Config{ModelPath: path, RenderMode: renderMode},
		engine.WithLogger(log),
		engine.WithProfiles(profiles),
		engine.OnNormalized(func(r normalize.Result) {
			fmt.Printf("Normalized: scale=%.4f height=%.3f center=(%.3f, %.3f, %.3f)\n",
				r.Scale, r.Height, r.Center.X, r.Center.Y, r.Center.Z)
		}),
		engine.OnMaterialsResolved(func(p map[outfit.Role]bool) {
			fmt.Print("Garments:")
			for _, r := range outfit.Roles {
				fmt.Printf(" %s=%v", r, p[r])
			}
			fmt.Println()
		}),
	)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fam := eng.Family()
	fmt.Printf("Family: %q target=%.2f procedural_only=%v skip_arm_override=%v arm_drop=%.0f idle_scale=%.2f\n",
		fam.Name, fam.TargetHeight, fam.ProceduralOnly, fam.SkipArmOverride, fam.ArmDropDegrees, fam.IdleScale)

	bones := eng.Bones()
	fmt.Printf("Bones: %d/%d resolved\n", bones.Len(), len(rig.Roles))
	for _, r := range rig.Roles {
		name := "-"
		if n := bones.Get(r); n != nil {
			name = n.Name
		}
		fmt.Printf("  %-14s %s\n", r, name)
	}

	slots := eng.Slots()
	fmt.Printf("Material slots (%s): %d skin\n", slots.Mode(), slots.SkinCount())
	for _, r := range outfit.Roles {
		if s := slots.Slot(r); s != nil {
			fmt.Printf("  %-9s %s[%d] %q color=%s\n", r, s.Mesh.Name, s.Index, s.Name, s.Material.BaseColor.Hex())
		} else {
			fmt.Printf("  %-9s -\n", r)
		}
	}

	printTargets("Blink", eng.BlinkTargets())
	printTargets("Expressions", eng.ExpressionTargets())

	fmt.Println("Clips:")
	selected := eng.Clip()
	for _, c := range asset.Clips {
		mark := " "
		if c == selected {
			mark = "*"
		}
		fmt.Printf("  %s %s (%.2fs, %d tracks)\n", mark, c.Name, c.Duration, len(c.Tracks))
	}
	if selected == nil {
		fmt.Println("  procedural idle only")
	}

	if *frames > 0 {
		for i := 0; i < *frames; i++ {
			eng.OnFrame(1.0 / 30)
		}
		b := eng.Blink()
		fmt.Printf("After %d frames: blink phase=%s weight=%.3f next=%.2fs\n", *frames, b.Phase, b.Weight, b.NextDelay)
	}
}

func printTargets(label string, targets []morph.Target) {
	fmt.Printf("%s: %d channels\n", label, morph.Count(targets))
	for _, t := range targets {
		fmt.Printf("  %s:", t.Mesh.Name)
		for _, i := range t.Indices {
			fmt.Printf(" %s", channelName(t.Mesh, i))
		}
		fmt.Println()
	}
}

func channelName(m *scene.Mesh, i int) string {
	if m.Morph == nil || i >= len(m.Morph.Names) {
		return fmt.Sprintf("#%d", i)
	}
	return m.Morph.Names[i]
}
