package scene

import (
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"avatar-engine/internal/mathutil"
)

// NewNode returns a node with identity transform.
func NewNode(name string) *Node {
	return &Node{
		Name:     name,
		Rotation: mgl64.QuatIdent(),
		Scale:    mgl64.Vec3{1, 1, 1},
	}
}

// Add attaches child under n, detaching it from any previous parent.
func (n *Node) Add(child *Node) *Node {
	if child.Parent != nil {
		child.Parent.remove(child)
	}
	child.Parent = n
	n.Children = append(n.Children, child)
	return child
}

func (n *Node) remove(child *Node) {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			return
		}
	}
}

// Local returns the node's local TRS matrix.
func (n *Node) Local() mgl64.Mat4 {
	return mathutil.ComposeTRS(n.Position, n.Rotation, n.Scale)
}

// World returns the node's transform relative to the top of its hierarchy.
func (n *Node) World() mgl64.Mat4 {
	m := n.Local()
	for p := n.Parent; p != nil; p = p.Parent {
		m = p.Local().Mul4(m)
	}
	return m
}

// Walk visits root and its descendants depth-first, parents before children,
// children in slice order. Returning false from fn stops the walk.
func Walk(root *Node, fn func(*Node) bool) {
	if root == nil {
		return
	}
	walk(root, fn)
}

func walk(n *Node, fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, c := range n.Children {
		if !walk(c, fn) {
			return false
		}
	}
	return true
}

// Nodes returns all nodes of the asset in Walk order.
func (a *Asset) Nodes() []*Node {
	var out []*Node
	Walk(a.Root, func(n *Node) bool {
		out = append(out, n)
		return true
	})
	return out
}

// Find returns the first node in Walk order whose name equals name (case-insensitive).
func (a *Asset) Find(name string) *Node {
	var found *Node
	Walk(a.Root, func(n *Node) bool {
		if strings.EqualFold(n.Name, name) {
			found = n
			return false
		}
		return true
	})
	return found
}

// Contains reports whether n belongs to the asset's hierarchy.
func (a *Asset) Contains(n *Node) bool {
	if a == nil || n == nil {
		return false
	}
	for p := n; p != nil; p = p.Parent {
		if p == a.Root {
			return true
		}
	}
	return false
}
