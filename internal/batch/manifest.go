package batch

import (
	"encoding/json"
	"os"
	"sort"

	"github.com/pkg/errors"
)

// ManifestEntry describes one processed avatar in the output manifest.
type ManifestEntry struct {
	Name        string            `json:"name"`
	ModelFile   string            `json:"model_file"`
	Family      string            `json:"family,omitempty"`
	Scale       float64           `json:"scale"`
	Height      float64           `json:"height"`
	Presence    map[string]bool   `json:"presence"`
	Bones       map[string]string `json:"bones"`
	Garments    map[string]string `json:"garments"`
	SkinSlots   int               `json:"skin_slots"`
	Blink       int               `json:"blink_channels"`
	Expressions int               `json:"expression_channels"`
	Clip        string            `json:"clip,omitempty"`
	Frames      uint64            `json:"frames"`
	Preview     string            `json:"preview,omitempty"`
	Sheet       string            `json:"sheet,omitempty"`
	Error       string            `json:"error,omitempty"`
}

// WriteManifest writes the entries of results to path, sorted by name.
func WriteManifest(path string, results []Result) error {
	entries := make([]ManifestEntry, 0, len(results))
	for _, r := range results {
		e := r.Entry
		e.Name = r.Name
		e.ModelFile = r.Model
		e.Error = r.Error
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return errors.Wrap(err, "batch: encode manifest")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "batch: write %s", path)
	}
	return nil
}
