package morph

import "avatar-engine/internal/scene"

// ExpressionCache memoizes Expressions for one asset until Invalidate is called.
type ExpressionCache struct {
	targets []Target
	valid   bool
}

// Targets returns the cached expression targets, discovering them on first use.
func (c *ExpressionCache) Targets(meshes []*scene.Mesh) []Target {
	if !c.valid {
		c.targets = Expressions(meshes)
		c.valid = true
	}
	return c.targets
}

// Invalidate drops the cached list.
func (c *ExpressionCache) Invalidate() {
	c.targets = nil
	c.valid = false
}
