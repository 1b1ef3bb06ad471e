package costume

import (
	"fmt"
	"strings"

	"github.com/taigrr/graft/pkg/models"
	"github.com/taigrr/graft/pkg/scene"
)

// Category is a body part slot.
type Category int

const (
	Torso Category = iota
	Head
	Legs
	Hairstyle
)

// Categories lists every category in container order.
var Categories = []Category{Torso, Head, Legs, Hairstyle}

func (c Category) String() string {
	switch c {
	case Torso:
		return "torso"
	case Head:
		return "head"
	case Legs:
		return "legs"
	case Hairstyle:
		return "hairstyle"
	}
	return fmt.Sprintf("category(%d)", int(c))
}

// ParseCategory accepts the names produced by Category.String.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if strings.EqualFold(s, c.String()) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown category %q", s)
}

// Gender selects a body part set of a base costume.
type Gender int

const (
	Male Gender = iota
	Female
)

func (g Gender) String() string {
	if g == Female {
		return "female"
	}
	return "male"
}

// ParseGender accepts "male" and "female".
func ParseGender(s string) (Gender, error) {
	switch strings.ToLower(s) {
	case "male", "":
		return Male, nil
	case "female":
		return Female, nil
	}
	return Male, fmt.Errorf("unknown gender %q", s)
}

// BodyParts is one gender's template parts of a base costume.
type BodyParts struct {
	Torsos     []*models.Part
	Heads      []*models.Part
	Legs       []*models.Part
	Hairstyles []*models.Part
}

// BaseCostume is an existing costume whose parts serve as templates. Its
// parts are read, instantiated and never modified.
type BaseCostume struct {
	Name   string
	Male   BodyParts
	Female BodyParts
}

// Parts returns the body part set for gender g.
func (b *BaseCostume) Parts(g Gender) *BodyParts {
	if g == Female {
		return &b.Female
	}
	return &b.Male
}

// MaterialProvider supplies the base material hairstyles are recolored with.
// A nil provider, or a nil material, falls back to a plain "diffuse"
// material.
type MaterialProvider interface {
	DiffuseMaterial() *models.Material
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithDiagnostics routes diagnostics to sink. Without it they are dropped.
func WithDiagnostics(sink DiagnosticSink) Option {
	return func(a *Assembler) {
		a.sink = sink
	}
}

// WithTemplateSet picks the base costume's body part set used as templates.
// The default is Male.
func WithTemplateSet(g Gender) Option {
	return func(a *Assembler) {
		a.gender = g
	}
}

// Assembler builds one costume variant. Each Add call instantiates the
// category's template under the staging root and transplants the given part
// onto it. An Assembler is not safe for concurrent use.
type Assembler struct {
	name      string
	base      *BaseCostume
	staging   *scene.Node
	materials MaterialProvider
	sink      DiagnosticSink
	gender    Gender

	templates map[Category]*models.Part
	parts     map[Category][]*models.Part
}

// NewStagingRoot returns an inactive root for hosting instances while a
// costume is assembled.
func NewStagingRoot(name string) *scene.Node {
	n := scene.NewNode(name)
	n.SetActive(false)
	return n
}

// NewAssembler creates an assembler named name. The first torso, head and
// legs of the selected base set become the templates; an empty category in
// the base costume is a corrupt asset and panics.
func NewAssembler(name string, base *BaseCostume, staging *scene.Node, materials MaterialProvider, opts ...Option) *Assembler {
	a := &Assembler{
		name:      name,
		base:      base,
		staging:   staging,
		materials: materials,
		parts:     make(map[Category][]*models.Part),
	}
	for _, opt := range opts {
		opt(a)
	}

	set := base.Parts(a.gender)
	a.templates = map[Category]*models.Part{
		Torso: set.Torsos[0],
		Head:  set.Heads[0],
		Legs:  set.Legs[0],
	}
	return a
}

// Name returns the costume name.
func (a *Assembler) Name() string {
	return a.name
}

// Template returns the template part used for c, or nil for hairstyles.
func (a *Assembler) Template(c Category) *models.Part {
	return a.templates[c]
}

// AddTorso transplants part onto the torso template and returns part.
func (a *Assembler) AddTorso(part *models.Part) *models.Part {
	return a.add(Torso, part)
}

// AddHead transplants part onto the head template and returns part.
func (a *Assembler) AddHead(part *models.Part) *models.Part {
	return a.add(Head, part)
}

// AddLegs transplants part onto the legs template and returns part.
func (a *Assembler) AddLegs(part *models.Part) *models.Part {
	return a.add(Legs, part)
}

// Add dispatches to the Add method for c.
func (a *Assembler) Add(c Category, part *models.Part) *models.Part {
	if c == Hairstyle {
		return a.AddHairstyle(part)
	}
	return a.add(c, part)
}

func (a *Assembler) add(c Category, part *models.Part) *models.Part {
	inst := a.templates[c].Instantiate()
	inst.Root.SetParent(a.staging)
	a.parts[c] = append(a.parts[c], Transplant(inst, part, a.sink))
	return part
}

// AddHairstyle gives part a copy of the diffuse material carrying the part's
// own main texture, then records part itself. No bones are remapped.
func (a *Assembler) AddHairstyle(part *models.Part) *models.Part {
	var slot **models.Material
	switch {
	case part.MeshRenderer() != nil:
		slot = &part.Renderer.SharedMaterial
	case part.SkinnedMesh() != nil:
		slot = &part.Skinned.SharedMaterial
	}

	if slot == nil {
		a.sink.emit(Diagnostic{
			Kind:    MissingMeshRenderer,
			Part:    partName(part),
			Index:   -1,
			Message: "hairstyle has no renderer, material left unchanged",
		})
	} else {
		mat := a.diffuse()
		if *slot != nil {
			mat.MainTexture = (*slot).MainTexture
		}
		*slot = mat
	}

	a.parts[Hairstyle] = append(a.parts[Hairstyle], part)
	return part
}

// diffuse returns a private copy of the provider's material.
func (a *Assembler) diffuse() *models.Material {
	if a.materials != nil {
		if m := a.materials.DiffuseMaterial(); m != nil {
			return m.Clone()
		}
	}
	return models.NewMaterial("diffuse")
}

// Parts returns a copy of the parts accumulated for c, in call order. The
// result is never nil.
func (a *Assembler) Parts(c Category) []*models.Part {
	return append(make([]*models.Part, 0, len(a.parts[c])), a.parts[c]...)
}

// Finalize packages the accumulated parts into a container.
func (a *Assembler) Finalize() *BodyPartsContainer {
	return NewBodyPartsContainer(a.name,
		a.Parts(Torso),
		a.Parts(Head),
		a.Parts(Legs),
		a.Parts(Hairstyle),
	)
}

// Release drops the accumulated lists. Instances stay under the staging
// root; destroying them is up to whoever owns it.
func (a *Assembler) Release() {
	clear(a.parts)
}
