package outfit

import "strings"

// Garment keyword sets. They are disjoint: no keyword of one set is a
// substring of a keyword of another set.
var (
	topKeywords = []string{
		"top", "shirt", "torso", "jacket", "dress", "suit", "coat",
		"hoodie", "sweater", "blouse", "vest", "uniform", "cloth",
	}
	bottomKeywords = []string{
		"bottom", "pants", "trouser", "jeans", "skirt", "shorts",
	}
	footwearKeywords = []string{
		"shoe", "boot", "sneaker", "footwear", "sandal", "sock",
	}
	hairKeywords = []string{
		"hair", "bang", "ponytail", "fringe",
	}
)

// skinKeywords mark slots whose texture must survive and which are never recolored.
// "head" is handled separately: it only counts when the name has no "hair".
var skinKeywords = []string{
	"skin", "body", "arm", "leg", "eye", "teeth", "face",
	"tongue", "mouth", "brow", "lash", "nail", "hand",
}

var garmentKeywords = [roleCount][]string{
	Top:      topKeywords,
	Bottom:   bottomKeywords,
	Footwear: footwearKeywords,
	Hair:     hairKeywords,
}

// garmentRole returns the first role, in Top, Bottom, Footwear, Hair order,
// whose keyword set matches name.
func garmentRole(name string) (Role, bool) {
	for _, r := range Roles {
		if containsAny(name, garmentKeywords[r]) {
			return r, true
		}
	}
	return 0, false
}

// IsSkinName reports whether a lowercase slot name denotes skin or a body part.
func IsSkinName(name string) bool {
	if containsAny(name, skinKeywords) {
		return true
	}
	return strings.Contains(name, "head") && !strings.Contains(name, "hair")
}

func containsAny(name string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(name, k) {
			return true
		}
	}
	return false
}
