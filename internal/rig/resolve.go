package rig

import (
	"strings"

	"avatar-engine/internal/scene"
)

// BoneMap holds the node resolved for each role; unresolved roles are nil.
type BoneMap [roleCount]*scene.Node

// Get returns the node for r, or nil.
func (m BoneMap) Get(r Role) *scene.Node {
	if r < 0 || r >= roleCount {
		return nil
	}
	return m[r]
}

// Len returns the number of resolved roles.
func (m BoneMap) Len() int {
	n := 0
	for _, node := range m {
		if node != nil {
			n++
		}
	}
	return n
}

// Presence reports per role whether a node was found.
func (m BoneMap) Presence() map[Role]bool {
	out := make(map[Role]bool, roleCount)
	for _, r := range Roles {
		out[r] = m[r] != nil
	}
	return out
}

// Resolve walks the hierarchy depth-first and assigns to each role the first
// node whose lowercase name contains one of the role's aliases. It does not
// modify the asset and returns the same map for the same input.
func Resolve(root *scene.Node, table AliasTable) BoneMap {
	var m BoneMap
	if table == nil {
		table = DefaultAliases
	}
	remaining := len(Roles)
	scene.Walk(root, func(n *scene.Node) bool {
		name := strings.ToLower(n.Name)
		for _, r := range Roles {
			if m[r] != nil {
				continue
			}
			if containsAny(name, table[r]) {
				m[r] = n
				remaining--
			}
		}
		return remaining > 0
	})
	return m
}

func containsAny(name string, aliases []string) bool {
	for _, a := range aliases {
		if a != "" && strings.Contains(name, a) {
			return true
		}
	}
	return false
}
