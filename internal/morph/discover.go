// Package morph finds blink and expression morph channels by name.
package morph

import (
	"regexp"
	"strings"

	"avatar-engine/internal/logging"
	"avatar-engine/internal/scene"
)

var blinkKeywords = []string{
	"blink", "eyeclose", "eye_close", "eye close", "eyesclose", "eyes_close",
	"closeeye", "close_eye", "eyelid",
}

var blinkExcluded = []string{
	"mouth", "jaw", "smile", "teeth", "brow", "tongue", "lip", "cheek", "nose",
}

var expressionKeywords = []string{"smile", "happy"}

// eyeMeshRE matches mesh names such as "Eye_L", "CC_Base_Eye", "EyeLeft", "RightEye"
// or "EyeLid01". It does not match "Eyebrow" or "Eyelash".
var eyeMeshRE = regexp.MustCompile(`(?i)(?:^|[_\s.:\-0-9]|left|right)(?:eyes?|eyeballs?|eyelids?)(?:[_\s.:\-0-9]|left|right|[lr](?:[_\s.:\-0-9]|$)|$)`)

// Target is one mesh and the ordered morph channel indices driven on it.
type Target struct {
	Mesh    *scene.Mesh
	Indices []int
}

// IsEyeMesh reports whether name follows a known eye mesh naming pattern.
func IsEyeMesh(name string) bool {
	return eyeMeshRE.MatchString(name)
}

// IsBlinkChannel reports whether a channel name is blink-positive and not excluded.
func IsBlinkChannel(name string) bool {
	n := strings.ToLower(name)
	return containsAny(n, blinkKeywords) && !containsAny(n, blinkExcluded)
}

// IsExpressionChannel reports whether a channel name drives a smile expression.
func IsExpressionChannel(name string) bool {
	return containsAny(strings.ToLower(name), expressionKeywords)
}

// Blink returns the blink targets of meshes. An eye mesh whose channels all fail
// the keyword filter contributes every channel.
func Blink(meshes []*scene.Mesh, log logging.Logger) []Target {
	log = logging.OrDiscard(log)
	var out []Target
	for _, m := range meshes {
		if m == nil || m.Morph.Len() == 0 {
			continue
		}
		idx := channels(m, IsBlinkChannel)
		if len(idx) == 0 && IsEyeMesh(m.Name) {
			idx = make([]int, m.Morph.Len())
			for i := range idx {
				idx[i] = i
			}
			log.Printf("morph: eye mesh %q has no blink channel, driving all %d", m.Name, len(idx))
		}
		if len(idx) > 0 {
			out = append(out, Target{Mesh: m, Indices: idx})
		}
	}
	return out
}

// Expressions returns the smile/happy channels of meshes.
func Expressions(meshes []*scene.Mesh) []Target {
	var out []Target
	for _, m := range meshes {
		if m == nil || m.Morph.Len() == 0 {
			continue
		}
		if idx := channels(m, IsExpressionChannel); len(idx) > 0 {
			out = append(out, Target{Mesh: m, Indices: idx})
		}
	}
	return out
}

// channels returns the ascending dictionary indices whose name satisfies keep.
// Duplicate names resolve to the first index.
func channels(m *scene.Mesh, keep func(string) bool) []int {
	dict := m.Morph.Dictionary()
	var idx []int
	for i, name := range m.Morph.Names {
		if dict[name] != i || !keep(name) {
			continue
		}
		idx = append(idx, i)
	}
	return idx
}

// Apply writes w into every channel of every target.
func Apply(targets []Target, w float64) {
	for _, t := range targets {
		for _, i := range t.Indices {
			t.Mesh.Morph.SetWeight(i, w)
		}
	}
}

// Count returns the total number of channels across targets.
func Count(targets []Target) int {
	n := 0
	for _, t := range targets {
		n += len(t.Indices)
	}
	return n
}

func containsAny(name string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(name, k) {
			return true
		}
	}
	return false
}
