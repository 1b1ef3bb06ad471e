// Package scene provides the named transform hierarchy that skeletons and
// part instances are built from.
package scene

import (
	"slices"
	"strings"

	"github.com/taigrr/graft/pkg/math3d"
)

// Node is a named transform in a hierarchy. Bones are Nodes; identity is by
// name, never by position.
type Node struct {
	Name        string
	Translation math3d.Vec3
	Rotation    math3d.Quat
	Scale       math3d.Vec3

	active   bool
	parent   *Node
	children []*Node
}

// NewNode creates an active root node with an identity transform.
func NewNode(name string) *Node {
	return &Node{
		Name:     name,
		Rotation: math3d.QuatIdentity(),
		Scale:    math3d.V3(1, 1, 1),
		active:   true,
	}
}

// SetParent re-parents n, detaching it from its previous parent. The local
// transform is kept as-is. A nil parent makes n a root.
func (n *Node) SetParent(p *Node) {
	if n.parent == p {
		return
	}
	if n.parent != nil {
		n.parent.children = slices.DeleteFunc(n.parent.children, func(c *Node) bool { return c == n })
	}
	n.parent = p
	if p != nil {
		p.children = append(p.children, n)
	}
}

// Parent returns the parent node, or nil for a root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns the direct children in insertion order.
func (n *Node) Children() []*Node {
	return n.children
}

// Root returns the topmost ancestor.
func (n *Node) Root() *Node {
	r := n
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// SetActive toggles the node's own active flag.
func (n *Node) SetActive(active bool) {
	n.active = active
}

// Active returns the node's own active flag.
func (n *Node) Active() bool {
	return n.active
}

// ActiveInHierarchy reports whether n and all of its ancestors are active.
func (n *Node) ActiveInHierarchy() bool {
	for c := n; c != nil; c = c.parent {
		if !c.active {
			return false
		}
	}
	return true
}

// LocalMatrix returns the node's transform relative to its parent.
func (n *Node) LocalMatrix() math3d.Mat4 {
	return math3d.TRS(n.Translation, n.Rotation, n.Scale)
}

// SetLocalMatrix replaces the local transform with the decomposition of m.
func (n *Node) SetLocalMatrix(m math3d.Mat4) {
	n.Translation, n.Rotation, n.Scale = m.Decompose()
}

// LocalToWorld returns the matrix mapping this node's space into world space.
func (n *Node) LocalToWorld() math3d.Mat4 {
	m := n.LocalMatrix()
	for p := n.parent; p != nil; p = p.parent {
		m = p.LocalMatrix().Mul(m)
	}
	return m
}

// WorldToLocal returns the matrix mapping world space into this node's space.
func (n *Node) WorldToLocal() math3d.Mat4 {
	return n.LocalToWorld().Inverse()
}

// WorldPosition returns the node's origin in world space.
func (n *Node) WorldPosition() math3d.Vec3 {
	return n.LocalToWorld().Translation()
}

// Walk visits n and its descendants in pre-order. Returning false from fn
// stops the walk.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, c := range n.children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

// FindRecursive returns the first node named name in a pre-order search of
// the subtree rooted at n, including n itself.
func (n *Node) FindRecursive(name string) *Node {
	var found *Node
	n.Walk(func(c *Node) bool {
		if c.Name == name {
			found = c
			return false
		}
		return true
	})
	return found
}

// Path returns the slash-separated names from the root down to n.
func (n *Node) Path() string {
	var parts []string
	for c := n; c != nil; c = c.parent {
		parts = append(parts, c.Name)
	}
	slices.Reverse(parts)
	return strings.Join(parts, "/")
}

// Clone deep-copies the subtree rooted at n. The copy is a root. The returned
// map takes every original node to its copy so references into the subtree can
// be rebound.
func (n *Node) Clone() (*Node, map[*Node]*Node) {
	mapping := make(map[*Node]*Node)
	return n.cloneInto(nil, mapping), mapping
}

func (n *Node) cloneInto(parent *Node, mapping map[*Node]*Node) *Node {
	c := &Node{
		Name:        n.Name,
		Translation: n.Translation,
		Rotation:    n.Rotation,
		Scale:       n.Scale,
		active:      n.active,
		parent:      parent,
	}
	if parent != nil {
		parent.children = append(parent.children, c)
	}
	mapping[n] = c
	for _, child := range n.children {
		child.cloneInto(c, mapping)
	}
	return c
}
