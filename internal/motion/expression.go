package motion

import "math"

const (
	smilePeriod = 10.0
	smileMax    = 0.35
)

// Smile returns the expression weight at time t. Over each 10 s period it is
// 0 on [0,2), ramps to 0.35 on [2,3), holds on [3,7), ramps down on [7,8) and
// is 0 on [8,10).
func Smile(t float64) float64 {
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return 0
	}
	p := math.Mod(t, smilePeriod)
	if p < 0 {
		p += smilePeriod
	}
	switch {
	case p < 2:
		return 0
	case p < 3:
		return smileMax * (p - 2)
	case p < 7:
		return smileMax
	case p < 8:
		return smileMax * (8 - p)
	}
	return 0
}
