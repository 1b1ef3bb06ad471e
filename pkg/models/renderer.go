package models

import "github.com/taigrr/graft/pkg/scene"

// SkinnedMeshRenderer draws a skinned mesh deformed by a bone array.
type SkinnedMeshRenderer struct {
	Node           *scene.Node   // Node the renderer is attached to
	Bones          []*scene.Node // Bone array the mesh's weight indices point into
	SharedMesh     *Mesh
	SharedMaterial *Material
}

// BoneNames returns the names of the bone array in order. Missing bones
// yield an empty name.
func (r *SkinnedMeshRenderer) BoneNames() []string {
	names := make([]string, len(r.Bones))
	for i, b := range r.Bones {
		if b != nil {
			names[i] = b.Name
		}
	}
	return names
}

// MeshRenderer draws a static mesh at its node's transform.
type MeshRenderer struct {
	Node           *scene.Node
	SharedMesh     *Mesh
	SharedMaterial *Material
}
