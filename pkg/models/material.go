package models

import (
	"image"
	"maps"
)

// Material represents a PBR material. Textures are shared by reference when a
// material is cloned; they are treated as immutable assets.
type Material struct {
	Name        string
	BaseColor   [4]float64  // RGBA in 0-1 range
	Metallic    float64     // 0 = dielectric, 1 = metal
	Roughness   float64     // 0 = smooth, 1 = rough
	MainTexture image.Image // Optional base color texture

	Textures map[string]image.Image
	Floats   map[string]float64
}

// NewMaterial creates a white, fully rough, non-metallic material.
func NewMaterial(name string) *Material {
	return &Material{
		Name:      name,
		BaseColor: [4]float64{1, 1, 1, 1},
		Roughness: 1,
	}
}

// HasTexture reports whether a main texture is assigned.
func (m *Material) HasTexture() bool {
	return m.MainTexture != nil
}

// SetTexture assigns a named texture slot.
func (m *Material) SetTexture(name string, img image.Image) {
	if m.Textures == nil {
		m.Textures = make(map[string]image.Image)
	}
	m.Textures[name] = img
}

// SetFloat assigns a named scalar property.
func (m *Material) SetFloat(name string, v float64) {
	if m.Floats == nil {
		m.Floats = make(map[string]float64)
	}
	m.Floats[name] = v
}

// Clone returns an independent copy of the material.
func (m *Material) Clone() *Material {
	if m == nil {
		return nil
	}
	c := *m
	c.Textures = maps.Clone(m.Textures)
	c.Floats = maps.Clone(m.Floats)
	return &c
}
