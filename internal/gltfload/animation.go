package gltfload

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"

	"avatar-engine/internal/scene"
)

func (c *converter) convertAnimations() error {
	for ai, ga := range c.doc.Animations {
		clip := &scene.Clip{Name: ga.Name}
		if clip.Name == "" {
			clip.Name = fmt.Sprintf("animation_%d", ai)
		}
		for ci, ch := range ga.Channels {
			if ch.Target.Node == nil || ch.Sampler == nil {
				continue
			}
			if int(*ch.Target.Node) >= len(c.nodes) || int(*ch.Sampler) >= len(ga.Samplers) {
				return errors.Errorf("gltfload: animation %q channel %d out of range", clip.Name, ci)
			}
			tr, err := c.convertChannel(ga.Samplers[*ch.Sampler], ch.Target)
			if err != nil {
				return errors.Wrapf(err, "gltfload: animation %q channel %d", clip.Name, ci)
			}
			if tr == nil {
				continue
			}
			if n := len(tr.Times); n > 0 && tr.Times[n-1] > clip.Duration {
				clip.Duration = tr.Times[n-1]
			}
			clip.Tracks = append(clip.Tracks, tr)
		}
		c.asset.Clips = append(c.asset.Clips, clip)
	}
	return nil
}

func (c *converter) convertChannel(s *gltf.AnimationSampler, target gltf.ChannelTarget) (*scene.Track, error) {
	if s.Input == nil || s.Output == nil {
		return nil, nil
	}
	tr := &scene.Track{Node: c.nodes[*target.Node]}
	switch target.Path {
	case gltf.TRSTranslation:
		tr.Property = scene.Translation
	case gltf.TRSRotation:
		tr.Property = scene.Rotation
	case gltf.TRSScale:
		tr.Property = scene.Scale
	case gltf.TRSWeights:
		tr.Property = scene.Weights
	default:
		return nil, nil
	}

	times, err := readScalars(c.doc, *s.Input)
	if err != nil {
		return nil, err
	}
	values, err := readScalars(c.doc, *s.Output)
	if err != nil {
		return nil, err
	}
	if len(times) == 0 {
		return nil, nil
	}

	if s.Interpolation == gltf.InterpolationStep {
		tr.Interpolation = scene.Step
	}
	if s.Interpolation == gltf.InterpolationCubicSpline {
		// keep the value of each (in-tangent, value, out-tangent) triple
		stride := len(values) / (3 * len(times))
		var kept []float64
		for k := range times {
			o := (3*k + 1) * stride
			kept = append(kept, values[o:o+stride]...)
		}
		values = kept
	}
	if len(values)%len(times) != 0 {
		return nil, errors.Errorf("%d values for %d keys", len(values), len(times))
	}
	tr.Times = times
	tr.Values = values
	return tr, nil
}
