package costume

import (
	"image/color"
	"slices"

	"github.com/taigrr/graft/pkg/models"
)

// WearableProduct is an item worn on top of the body parts.
type WearableProduct struct {
	Name string
	Part *models.Part
}

// BodyPartsContainer is the finished body part set of one costume variant.
// The wearable lists are always empty for assembled costumes and exist so the
// container has the same shape as every other costume kind.
type BodyPartsContainer struct {
	Name       string
	Torsos     []*models.Part
	Heads      []*models.Part
	Legs       []*models.Part
	Hairstyles []*models.Part

	Accessories []WearableProduct
	HeadItems   []WearableProduct
	FaceItems   []WearableProduct
}

// NewBodyPartsContainer packages the four category lists.
func NewBodyPartsContainer(name string, torsos, heads, legs, hairstyles []*models.Part) *BodyPartsContainer {
	return &BodyPartsContainer{
		Name:        name,
		Torsos:      torsos,
		Heads:       heads,
		Legs:        legs,
		Hairstyles:  hairstyles,
		Accessories: []WearableProduct{},
		HeadItems:   []WearableProduct{},
		FaceItems:   []WearableProduct{},
	}
}

// Parts returns the list for category c.
func (b *BodyPartsContainer) Parts(c Category) []*models.Part {
	switch c {
	case Torso:
		return b.Torsos
	case Head:
		return b.Heads
	case Legs:
		return b.Legs
	case Hairstyle:
		return b.Hairstyles
	}
	return nil
}

// All returns every part in category order.
func (b *BodyPartsContainer) All() []*models.Part {
	return slices.Concat(b.Torsos, b.Heads, b.Legs, b.Hairstyles)
}

// Costume is a registered costume: display data plus one body part container
// per gender. A nil container means the costume has no variant for it.
type Costume struct {
	Name   string
	Title  string
	Colors []color.NRGBA

	Male   *BodyPartsContainer
	Female *BodyPartsContainer
}

// NewCostume creates a costume with no part containers.
func NewCostume(name, title string, colors []color.NRGBA) *Costume {
	return &Costume{
		Name:   name,
		Title:  title,
		Colors: slices.Clone(colors),
	}
}

// SetPartContainer assigns the container for gender g.
func (c *Costume) SetPartContainer(g Gender, b *BodyPartsContainer) {
	if g == Female {
		c.Female = b
		return
	}
	c.Male = b
}

// PartContainer returns the container for gender g.
func (c *Costume) PartContainer(g Gender) *BodyPartsContainer {
	if g == Female {
		return c.Female
	}
	return c.Male
}
