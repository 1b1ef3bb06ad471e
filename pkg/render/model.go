package render

import (
	"image"

	"github.com/taigrr/graft/pkg/math3d"
	"github.com/taigrr/graft/pkg/models"
	"github.com/taigrr/graft/pkg/scene"
)

// Surface is one renderer's mesh with its vertices already in world space.
type Surface struct {
	Name      string
	Positions []math3d.Vec3
	UV        []math3d.Vec2
	Triangles []int
	Color     Color
	Texture   *Texture
}

// Segment is a bone drawn from its parent's position to its own.
type Segment struct {
	From, To math3d.Vec3
}

// Model is a set of parts posed and flattened for drawing. Skinned meshes
// are deformed once, when the model is built.
type Model struct {
	Surfaces  []Surface
	Skeleton  []Segment
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// NewModel poses every part at its current bone transforms. Textures shared
// between materials are converted once.
func NewModel(parts ...*models.Part) *Model {
	m := &Model{}
	textures := make(map[image.Image]*Texture)
	texture := func(mat *models.Material) *Texture {
		if mat == nil || mat.MainTexture == nil {
			return nil
		}
		t, ok := textures[mat.MainTexture]
		if !ok {
			t = TextureFromImage(mat.MainTexture)
			textures[mat.MainTexture] = t
		}
		return t
	}

	for _, p := range parts {
		if r := p.SkinnedMesh(); r != nil {
			m.add(r.SharedMesh, r.SharedMaterial, r.SkinPositions(), texture(r.SharedMaterial))
			m.addSkeleton(r.Bones)
		}
		if r := p.MeshRenderer(); r != nil {
			m.add(r.SharedMesh, r.SharedMaterial, r.WorldPositions(), texture(r.SharedMaterial))
		}
	}
	m.computeBounds()
	return m
}

// TriangleCount returns the number of triangles across all surfaces.
func (m *Model) TriangleCount() int {
	n := 0
	for _, s := range m.Surfaces {
		n += len(s.Triangles) / 3
	}
	return n
}

// Center returns the center of the model's bounding box.
func (m *Model) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

func (m *Model) add(mesh *models.Mesh, mat *models.Material, positions []math3d.Vec3, tex *Texture) {
	s := Surface{
		Name:      mesh.Name,
		Positions: positions,
		Triangles: mesh.Triangles,
		Color:     ColorGray,
		Texture:   tex,
	}
	if len(mesh.UV) == len(positions) {
		s.UV = mesh.UV
	}
	if mat != nil {
		s.Color = materialColor(mat)
	}
	m.Surfaces = append(m.Surfaces, s)
}

func (m *Model) addSkeleton(bones []*scene.Node) {
	inSet := make(map[*scene.Node]bool, len(bones))
	for _, b := range bones {
		if b != nil {
			inSet[b] = true
		}
	}
	for _, b := range bones {
		if b == nil || !inSet[b.Parent()] {
			continue
		}
		m.Skeleton = append(m.Skeleton, Segment{
			From: b.Parent().WorldPosition(),
			To:   b.WorldPosition(),
		})
	}
}

func (m *Model) computeBounds() {
	first := true
	for _, s := range m.Surfaces {
		for _, p := range s.Positions {
			if first {
				m.BoundsMin, m.BoundsMax = p, p
				first = false
				continue
			}
			m.BoundsMin = m.BoundsMin.Min(p)
			m.BoundsMax = m.BoundsMax.Max(p)
		}
	}
}

// materialColor converts a 0-1 base color to 8-bit RGBA.
func materialColor(mat *models.Material) Color {
	to8 := func(v float64) uint8 {
		return uint8(max(0, min(1, v))*255 + 0.5)
	}
	c := mat.BaseColor
	return RGBA(to8(c[0]), to8(c[1]), to8(c[2]), to8(c[3]))
}

// DrawSurface rasterizes every triangle of a surface. Triangles that index
// outside the vertex data are skipped.
func (r *Rasterizer) DrawSurface(s *Surface) {
	n := len(s.Positions)
	for i := 0; i+2 < len(s.Triangles); i += 3 {
		var tri Triangle
		valid := true
		for k := range 3 {
			vi := s.Triangles[i+k]
			if vi < 0 || vi >= n {
				valid = false
				break
			}
			tri.V[k].Position = s.Positions[vi]
			tri.V[k].Color = s.Color
			if s.UV != nil {
				tri.V[k].UV = s.UV[vi]
			}
		}
		if valid {
			r.DrawTriangle(tri, s.Texture)
		}
	}
}

// DrawModel rasterizes every surface of the model.
func (r *Rasterizer) DrawModel(m *Model) {
	for i := range m.Surfaces {
		r.DrawSurface(&m.Surfaces[i])
	}
}
