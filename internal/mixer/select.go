// Package mixer selects a base clip from an asset's own clips and plays it.
package mixer

import (
	"strings"

	"avatar-engine/internal/scene"
)

var (
	preferredKeywords = []string{"idle", "stand", "pose", "default"}
	bindPoseKeywords  = []string{"t-pose", "tpose"}
)

// StripScaleTracks removes every scale track from every clip and returns how
// many tracks were dropped.
func StripScaleTracks(clips []*scene.Clip) int {
	removed := 0
	for _, c := range clips {
		if c == nil {
			continue
		}
		kept := c.Tracks[:0]
		for _, tr := range c.Tracks {
			if tr != nil && tr.Property == scene.Scale {
				removed++
				continue
			}
			kept = append(kept, tr)
		}
		for i := len(kept); i < len(c.Tracks); i++ {
			c.Tracks[i] = nil
		}
		c.Tracks = kept
	}
	return removed
}

// Select picks the base clip. It returns -1 when nothing should play:
// proceduralOnly is set or there are no clips.
//
// Priority: a clip named idle/stand/pose/default that is not a T-pose, then the
// second clip when several exist, then the only clip.
func Select(clips []*scene.Clip, proceduralOnly bool) int {
	if proceduralOnly || len(clips) == 0 {
		return -1
	}
	for i, c := range clips {
		if c == nil {
			continue
		}
		name := strings.ToLower(c.Name)
		if containsAny(name, preferredKeywords) && !containsAny(name, bindPoseKeywords) {
			return i
		}
	}
	if len(clips) > 1 {
		return 1
	}
	return 0
}

func containsAny(name string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(name, k) {
			return true
		}
	}
	return false
}
