package rig

// AliasTable maps each role to the lowercase substrings that identify it.
// A node matches a role when its lowercase name contains any alias.
type AliasTable map[Role][]string

// DefaultAliases covers four naming conventions seen in practice:
// human anatomical (mixamorig:LeftArm), biped-numbered (Bip01 L UpperArm),
// CC-base (CC_Base_L_Upperarm) and generic side_part (left_upper_arm,
// upper_arm.l, J_Bip_L_UpperArm).
var DefaultAliases = AliasTable{
	Spine: {
		"spine",
		"cc_base_waist",
	},
	Chest: {
		"chest", "spine2", "spine02", "upperchest",
	},
	Neck: {
		"neck",
	},
	Head: {
		"head",
	},
	LeftShoulder: {
		"leftshoulder",
		"l clavicle",
		"l_clavicle", "l_shoulder",
		"left_shoulder", "shoulder_l", "shoulder.l", "clavicle_l", "clavicle.l",
	},
	RightShoulder: {
		"rightshoulder",
		"r clavicle",
		"r_clavicle", "r_shoulder",
		"right_shoulder", "shoulder_r", "shoulder.r", "clavicle_r", "clavicle.r",
	},
	LeftArm: {
		"leftarm",
		"l upperarm",
		"l_upperarm",
		"left_upper_arm", "left_arm", "upperarm_l", "upper_arm.l", "upper_arm_l",
	},
	RightArm: {
		"rightarm",
		"r upperarm",
		"r_upperarm",
		"right_upper_arm", "right_arm", "upperarm_r", "upper_arm.r", "upper_arm_r",
	},
	LeftForeArm: {
		"leftforearm",
		"l forearm",
		"l_forearm", "l_lowerarm",
		"left_lower_arm", "left_forearm", "lowerarm_l", "forearm.l", "forearm_l",
	},
	RightForeArm: {
		"rightforearm",
		"r forearm",
		"r_forearm", "r_lowerarm",
		"right_lower_arm", "right_forearm", "lowerarm_r", "forearm.r", "forearm_r",
	},
	LeftUpLeg: {
		"leftupleg",
		"l thigh",
		"l_thigh", "l_upperleg",
		"left_upper_leg", "left_thigh", "thigh_l", "thigh.l", "upperleg_l",
	},
	RightUpLeg: {
		"rightupleg",
		"r thigh",
		"r_thigh", "r_upperleg",
		"right_upper_leg", "right_thigh", "thigh_r", "thigh.r", "upperleg_r",
	},
	LeftLeg: {
		"leftleg",
		"l calf",
		"l_calf", "l_lowerleg",
		"left_lower_leg", "left_shin", "calf_l", "shin.l", "lowerleg_l",
	},
	RightLeg: {
		"rightleg",
		"r calf",
		"r_calf", "r_lowerleg",
		"right_lower_leg", "right_shin", "calf_r", "shin.r", "lowerleg_r",
	},
}
