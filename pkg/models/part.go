package models

import "github.com/taigrr/graft/pkg/scene"

// Part is a body part object: a node hierarchy with at most one skinned and
// one static renderer somewhere inside it.
type Part struct {
	Name     string
	Root     *scene.Node
	Skinned  *SkinnedMeshRenderer
	Renderer *MeshRenderer
}

// NewPart creates an empty part with a fresh root node.
func NewPart(name string) *Part {
	return &Part{
		Name: name,
		Root: scene.NewNode(name),
	}
}

// SkinnedMesh returns the part's skinned renderer, or nil if it has none.
func (p *Part) SkinnedMesh() *SkinnedMeshRenderer {
	if p == nil || p.Skinned == nil || p.Skinned.SharedMesh == nil {
		return nil
	}
	return p.Skinned
}

// MeshRenderer returns the part's static renderer, or nil if it has none.
func (p *Part) MeshRenderer() *MeshRenderer {
	if p == nil || p.Renderer == nil || p.Renderer.SharedMesh == nil {
		return nil
	}
	return p.Renderer
}

// Instantiate copies the part's hierarchy and renderers. Renderer nodes and
// bones are rebound to the copied hierarchy; meshes and materials are shared
// with the original, so callers must clone them before mutating.
func (p *Part) Instantiate() *Part {
	root, mapping := p.Root.Clone()
	rebind := func(n *scene.Node) *scene.Node {
		if n == nil {
			return nil
		}
		if c, ok := mapping[n]; ok {
			return c
		}
		// Bones outside the part's hierarchy stay shared.
		return n
	}

	inst := &Part{
		Name: p.Name,
		Root: root,
	}
	if p.Skinned != nil {
		bones := make([]*scene.Node, len(p.Skinned.Bones))
		for i, b := range p.Skinned.Bones {
			bones[i] = rebind(b)
		}
		inst.Skinned = &SkinnedMeshRenderer{
			Node:           rebind(p.Skinned.Node),
			Bones:          bones,
			SharedMesh:     p.Skinned.SharedMesh,
			SharedMaterial: p.Skinned.SharedMaterial,
		}
	}
	if p.Renderer != nil {
		inst.Renderer = &MeshRenderer{
			Node:           rebind(p.Renderer.Node),
			SharedMesh:     p.Renderer.SharedMesh,
			SharedMaterial: p.Renderer.SharedMaterial,
		}
	}
	return inst
}
