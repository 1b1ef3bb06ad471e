// Package models provides skinned meshes, materials, renderers and parts,
// plus glTF/GLB loading and export for them.
package models

import (
	"slices"

	"github.com/taigrr/graft/pkg/math3d"
)

// MaxInfluences is the number of bone influences stored per vertex.
const MaxInfluences = 4

// Mesh holds geometry plus skinning data. Bone indices in BoneWeights are
// positions into the bone array of the renderer that draws the mesh.
type Mesh struct {
	Name string

	Vertices  []math3d.Vec3
	UV        []math3d.Vec2
	Triangles []int // Three indices into Vertices per triangle
	Normals   []math3d.Vec3
	Tangents  []math3d.Vec4

	BoneWeights []BoneWeight  // One per vertex
	BindPoses   []math3d.Mat4 // One per bone, mesh space -> bone rest space

	// Bounding box (calculated on load)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// BoneWeight holds up to four (bone index, weight) influences for a vertex.
// Weights are stored as float32 to match the glTF WEIGHTS_0 attribute bit for bit.
type BoneWeight struct {
	BoneIndex [MaxInfluences]int
	Weight    [MaxInfluences]float32
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:      name,
		Vertices:  make([]math3d.Vec3, 0),
		Triangles: make([]int, 0),
	}
}

// Clear removes all geometry and skinning data but keeps the name.
func (m *Mesh) Clear() {
	m.Vertices = nil
	m.UV = nil
	m.Triangles = nil
	m.Normals = nil
	m.Tangents = nil
	m.BoneWeights = nil
	m.BindPoses = nil
	m.BoundsMin = math3d.Zero3()
	m.BoundsMax = math3d.Zero3()
}

// RecalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) RecalculateBounds() {
	if len(m.Vertices) == 0 {
		m.BoundsMin = math3d.Zero3()
		m.BoundsMax = math3d.Zero3()
		return
	}

	m.BoundsMin = m.Vertices[0]
	m.BoundsMax = m.Vertices[0]

	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v)
		m.BoundsMax = m.BoundsMax.Max(v)
	}
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Triangles) / 3
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// IsSkinned reports whether the mesh carries per-vertex bone weights.
func (m *Mesh) IsSkinned() bool {
	return len(m.BoneWeights) > 0
}

// Triangle returns the vertex indices of triangle i.
func (m *Mesh) Triangle(i int) [3]int {
	return [3]int{m.Triangles[i*3], m.Triangles[i*3+1], m.Triangles[i*3+2]}
}

// Clone creates a deep copy of the mesh. Nothing is shared with the original.
func (m *Mesh) Clone() *Mesh {
	return &Mesh{
		Name:        m.Name,
		Vertices:    slices.Clone(m.Vertices),
		UV:          slices.Clone(m.UV),
		Triangles:   slices.Clone(m.Triangles),
		Normals:     slices.Clone(m.Normals),
		Tangents:    slices.Clone(m.Tangents),
		BoneWeights: slices.Clone(m.BoneWeights),
		BindPoses:   slices.Clone(m.BindPoses),
		BoundsMin:   m.BoundsMin,
		BoundsMax:   m.BoundsMax,
	}
}
