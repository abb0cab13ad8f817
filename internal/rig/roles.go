// Package rig maps canonical humanoid bone roles onto the literal node names
// of an arbitrary skeleton.
package rig

// Role is a canonical bone role, independent of any asset's node names.
type Role int

const (
	Spine Role = iota
	Chest
	Neck
	Head
	LeftShoulder
	RightShoulder
	LeftArm
	RightArm
	LeftForeArm
	RightForeArm
	LeftUpLeg
	RightUpLeg
	LeftLeg
	RightLeg

	roleCount
)

// Roles lists every role in declaration order.
var Roles = []Role{
	Spine, Chest, Neck, Head,
	LeftShoulder, RightShoulder,
	LeftArm, RightArm, LeftForeArm, RightForeArm,
	LeftUpLeg, RightUpLeg, LeftLeg, RightLeg,
}

var roleNames = [roleCount]string{
	"Spine", "Chest", "Neck", "Head",
	"LeftShoulder", "RightShoulder",
	"LeftArm", "RightArm", "LeftForeArm", "RightForeArm",
	"LeftUpLeg", "RightUpLeg", "LeftLeg", "RightLeg",
}

func (r Role) String() string {
	if r < 0 || r >= roleCount {
		return "Unknown"
	}
	return roleNames[r]
}

// Side returns +1 for left roles, -1 for right roles and 0 for the center line.
func (r Role) Side() float64 {
	switch r {
	case LeftShoulder, LeftArm, LeftForeArm, LeftUpLeg, LeftLeg:
		return 1
	case RightShoulder, RightArm, RightForeArm, RightUpLeg, RightLeg:
		return -1
	}
	return 0
}
