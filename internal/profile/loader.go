package profile

import (
	"encoding/json"
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"avatar-engine/internal/logging"
)

// profilesFile matches the JSON schema of profiles.json.
type profilesFile struct {
	Presets map[string]json.RawMessage `json:"presets"`
	Default json.RawMessage            `json:"default"`
	Models  map[string]json.RawMessage `json:"models"`
}

type familyEntry struct {
	TargetHeight    *float64 `json:"target_height"`
	ProceduralOnly  *bool    `json:"procedural_only"`
	SkipArmOverride *bool    `json:"skip_arm_override"`
	ArmDropDegrees  *float64 `json:"arm_drop_degrees"`
	IdleScale       *float64 `json:"idle_scale"`
}

// Set is a loaded profiles file.
type Set struct {
	base   Family
	models map[string]Family // lowercase model key
	keys   []string          // longest first
}

// Empty returns a set that resolves every model to Default.
func Empty() *Set {
	return &Set{base: Default(), models: map[string]Family{}}
}

// Load reads profiles.json. A missing file yields Empty; a malformed file is
// an error. Entries naming an unknown preset are logged and skipped.
func Load(path string, log logging.Logger) (*Set, error) {
	log = logging.OrDiscard(log)
	s := Empty()
	if path == "" {
		return s, nil
	}
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "profile: read %s", path)
	}

	var file profilesFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, errors.Wrapf(err, "profile: parse %s", path)
	}

	if len(file.Default) > 0 {
		c, err := resolveEntry(file.Default, file.Presets)
		if err != nil {
			return nil, errors.Wrapf(err, "profile: default in %s", path)
		}
		merge(&s.base, *c)
	}

	// Supports two formats:
	//   "robot_": "preset"              model key -> preset or inline record
	//   "preset": ["a.glb", "b.glb"]    preset name -> model keys
	for key, rawEntry := range file.Models {
		var modelKeys []string
		if json.Unmarshal(rawEntry, &modelKeys) == nil && len(modelKeys) > 0 {
			presetRaw, ok := file.Presets[key]
			if !ok {
				log.Printf("profile: preset %q not found", key)
				continue
			}
			var c familyEntry
			if err := json.Unmarshal(presetRaw, &c); err != nil {
				log.Printf("profile: preset %q: %v", key, err)
				continue
			}
			for _, mk := range modelKeys {
				s.add(mk, c)
			}
			continue
		}

		c, err := resolveEntry(rawEntry, file.Presets)
		if err != nil {
			log.Printf("profile: model %q: %v", key, err)
			continue
		}
		s.add(key, *c)
	}

	s.keys = s.keys[:0]
	for k := range s.models {
		s.keys = append(s.keys, k)
	}
	sort.Slice(s.keys, func(i, j int) bool {
		if len(s.keys[i]) != len(s.keys[j]) {
			return len(s.keys[i]) > len(s.keys[j])
		}
		return s.keys[i] < s.keys[j]
	})
	return s, nil
}

func (s *Set) add(key string, c familyEntry) {
	f := s.base
	f.Name = key
	merge(&f, c)
	s.models[strings.ToLower(key)] = f
}

// resolveEntry resolves a raw value that is either a preset name (string)
// or an inline record.
func resolveEntry(raw json.RawMessage, presets map[string]json.RawMessage) (*familyEntry, error) {
	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		presetRaw, ok := presets[name]
		if !ok {
			return nil, errors.Errorf("preset %q not found", name)
		}
		raw = presetRaw
	}
	var c familyEntry
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// merge copies the non-nil fields of c into f.
func merge(f *Family, c familyEntry) {
	if c.TargetHeight != nil && *c.TargetHeight > 0 {
		f.TargetHeight = *c.TargetHeight
	}
	if c.ProceduralOnly != nil {
		f.ProceduralOnly = *c.ProceduralOnly
	}
	if c.SkipArmOverride != nil {
		f.SkipArmOverride = *c.SkipArmOverride
	}
	if c.ArmDropDegrees != nil {
		f.ArmDropDegrees = *c.ArmDropDegrees
	}
	if c.IdleScale != nil && *c.IdleScale >= 0 {
		f.IdleScale = *c.IdleScale
	}
}

// Lookup returns the family whose model key is the longest case-insensitive
// substring of modelPath, or the default family.
func (s *Set) Lookup(modelPath string) Family {
	if s == nil {
		return Default()
	}
	name := strings.ToLower(strings.ReplaceAll(modelPath, "\\", "/"))
	for _, k := range s.keys {
		if strings.Contains(name, k) {
			return s.models[k]
		}
	}
	return s.base
}

// Len returns the number of model keys.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.models)
}
