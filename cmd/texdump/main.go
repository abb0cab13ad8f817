package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"avatar-engine/internal/gltfload"
	"avatar-engine/internal/texture"
)

func main() {
	texDir := flag.String("textures", "", "Directory searched for external textures (default: next to the avatar)")
	outDir := flag.String("out", "", "Write embedded image payloads here")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: texdump [flags] avatar.glb")
		os.Exit(2)
	}
	path := flag.Arg(0)
	if *texDir == "" {
		*texDir = filepath.Dir(path)
	}

	asset, err := gltfload.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	index := texture.BuildIndex(*texDir)

	// Unique texture references in material order
	seen := map[string]bool{}
	var refs []string
	for _, m := range asset.Meshes {
		for _, mat := range m.Materials {
			if mat == nil || mat.BaseColorTexture == "" || seen[mat.BaseColorTexture] {
				continue
			}
			seen[mat.BaseColorTexture] = true
			refs = append(refs, mat.BaseColorTexture)
		}
	}

	errors := 0
	for _, ref := range refs {
		if raw, ok := asset.Images[ref]; ok {
			img, err := texture.Decode(raw)
			if err != nil {
				fmt.Fprintf(os.Stderr, "ERR %s: %v\n", ref, err)
				errors++
				continue
			}
			fmt.Printf("OK  %s  embedded %dx%d (%d bytes)\n", ref, img.Rect.Dx(), img.Rect.Dy(), len(raw))
			continue
		}
		file, ok := index.ResolvePath(ref)
		if !ok {
			fmt.Fprintf(os.Stderr, "ERR %s: not found under %s\n", ref, *texDir)
			errors++
			continue
		}
		img, err := texture.LoadTexture(file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERR %s: %v\n", ref, err)
			errors++
			continue
		}
		fmt.Printf("OK  %s -> %s  %dx%d\n", ref, file, img.Rect.Dx(), img.Rect.Dy())
	}

	if *outDir != "" && len(asset.Images) > 0 {
		if err := dumpEmbedded(*outDir, asset.Images); err != nil {
			fmt.Fprintf(os.Stderr, "ERR %v\n", err)
			errors++
		}
	}

	if errors > 0 {
		fmt.Printf("\nDone with %d error(s).\n", errors)
		os.Exit(1)
	}
	fmt.Printf("\nDone. %d texture(s) resolved.\n", len(refs))
}

func dumpEmbedded(dir string, images map[string][]byte) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	keys := make([]string, 0, len(images))
	for k := range images {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for i, k := range keys {
		name := fmt.Sprintf("image_%02d%s", i, sniffExt(images[k]))
		dst := filepath.Join(dir, name)
		if err := os.WriteFile(dst, images[k], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", dst, err)
		}
		fmt.Printf("    %s -> %s\n", k, dst)
	}
	return nil
}

func sniffExt(raw []byte) string {
	switch {
	case len(raw) > 8 && string(raw[1:4]) == "PNG":
		return ".png"
	case len(raw) > 3 && raw[0] == 0xff && raw[1] == 0xd8:
		return ".jpg"
	case len(raw) > 12 && string(raw[8:12]) == "WEBP":
		return ".webp"
	case len(raw) > 2 && strings.HasPrefix(string(raw), "BM"):
		return ".bmp"
	}
	return ".bin"
}
