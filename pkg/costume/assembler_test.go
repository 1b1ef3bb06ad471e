package costume

import (
	"image"
	"testing"

	"github.com/taigrr/graft/pkg/models"
	"github.com/taigrr/graft/pkg/scene"
)

func newAssembler(opts ...Option) (*Assembler, *scene.Node, *models.Material) {
	staging := NewStagingRoot("hider")
	base := models.NewMaterial("diffuse")
	base.BaseColor = [4]float64{0.9, 0.8, 0.7, 1}
	return NewAssembler("Panda Costume", newBase(), staging, diffuse{base}, opts...), staging, base
}

func sourcePart(name string) *models.Part {
	return rig(name, sourceSkeleton, skinnedMesh(name+"-mesh", weighted(1), weighted(0), weighted(1)))
}

func TestAssemblerAccumulatesInOrder(t *testing.T) {
	a, _, _ := newAssembler()
	first := sourcePart("panda-body")
	second := sourcePart("bear-body")

	if got := a.AddTorso(first); got != first {
		t.Errorf("AddTorso should return the source part")
	}
	a.AddTorso(second)

	torsos := a.Parts(Torso)
	if len(torsos) != 2 {
		t.Fatalf("got %d torsos, want 2", len(torsos))
	}
	if torsos[0].Skinned.SharedMaterial.Name != "panda-body-mat" || torsos[1].Skinned.SharedMaterial.Name != "bear-body-mat" {
		t.Errorf("torsos out of call order")
	}
	for i, p := range torsos {
		if p == first || p == second {
			t.Errorf("torso %d is the source part, want the remapped instance", i)
		}
	}
}

func TestAssemblerCategories(t *testing.T) {
	a, staging, _ := newAssembler()

	tests := []struct {
		cat Category
		add func(*models.Part) *models.Part
	}{
		{Torso, a.AddTorso},
		{Head, a.AddHead},
		{Legs, a.AddLegs},
	}
	for _, tt := range tests {
		t.Run(tt.cat.String(), func(t *testing.T) {
			src := sourcePart("panda-" + tt.cat.String())
			tt.add(src)

			parts := a.Parts(tt.cat)
			if len(parts) != 1 {
				t.Fatalf("got %d parts, want 1", len(parts))
			}
			inst := parts[0]
			if inst.Root.Parent() != staging {
				t.Errorf("instance is not parented under the staging root")
			}
			if inst.Root.ActiveInHierarchy() {
				t.Errorf("staged instance should be inactive in hierarchy")
			}
			if inst.Name != "male-"+tt.cat.String() {
				t.Errorf("instance of %q, want the male template", inst.Name)
			}
			if inst.Skinned.SharedMesh.VertexCount() != src.Skinned.SharedMesh.VertexCount() {
				t.Errorf("instance does not carry the source geometry")
			}
		})
	}
}

func TestAssemblerTemplateSet(t *testing.T) {
	a, _, _ := newAssembler(WithTemplateSet(Female))
	if got := a.Template(Torso).Name; got != "female-torso" {
		t.Errorf("template = %q, want female-torso", got)
	}
	if a.Template(Hairstyle) != nil {
		t.Errorf("hairstyles have no template")
	}

	male, _, _ := newAssembler()
	if got := male.Template(Legs).Name; got != "male-legs" {
		t.Errorf("default template = %q, want male-legs", got)
	}
}

func TestAssemblerEmptyTemplateCategoryPanics(t *testing.T) {
	base := newBase()
	base.Male.Heads = nil

	defer func() {
		if recover() == nil {
			t.Errorf("expected a panic for a base costume without heads")
		}
	}()
	NewAssembler("broken", base, NewStagingRoot("hider"), diffuse{models.NewMaterial("d")})
}

func TestAssemblerScenarioC(t *testing.T) {
	var rec Recorder
	a, _, _ := newAssembler(WithDiagnostics(rec.Sink()))
	statue := models.NewPart("statue")

	if got := a.AddTorso(statue); got != statue {
		t.Errorf("AddTorso should return the source part")
	}

	torsos := a.Parts(Torso)
	if len(torsos) != 1 {
		t.Fatalf("got %d torsos, want 1", len(torsos))
	}
	template := a.Template(Torso)
	if torsos[0].Skinned.SharedMesh != template.Skinned.SharedMesh {
		t.Errorf("unremapped instance should still share the template mesh")
	}
	if len(rec.Diagnostics()) != 1 || rec.Count(MissingSkinnedMesh) != 1 {
		t.Errorf("diagnostics = %v, want exactly one MissingSkinnedMesh", rec.Diagnostics())
	}
}

func TestAddHairstyleRecolors(t *testing.T) {
	a, staging, base := newAssembler()
	tex := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	hair := models.NewPart("mane")
	own := models.NewMaterial("mane-mat")
	own.MainTexture = tex
	hair.Renderer = &models.MeshRenderer{
		Node:           hair.Root,
		SharedMesh:     skinnedMesh("mane-mesh", weighted(0), weighted(0), weighted(0)),
		SharedMaterial: own,
	}

	if got := a.AddHairstyle(hair); got != hair {
		t.Errorf("AddHairstyle should return the part itself")
	}

	mat := hair.Renderer.SharedMaterial
	if mat == base || mat == own {
		t.Fatalf("hair should get a fresh material")
	}
	if mat.MainTexture != tex {
		t.Errorf("main texture not carried over")
	}
	if mat.BaseColor != base.BaseColor || mat.Name != "diffuse" {
		t.Errorf("material not derived from the diffuse base: %+v", mat)
	}
	if base.MainTexture != nil {
		t.Errorf("diffuse base material was modified")
	}

	hairs := a.Parts(Hairstyle)
	if len(hairs) != 1 || hairs[0] != hair {
		t.Errorf("hairstyle list = %v, want the original part", hairs)
	}
	if hair.Root.Parent() == staging {
		t.Errorf("hairstyles are not instantiated under staging")
	}
}

func TestAddHairstyleWithoutDiffuse(t *testing.T) {
	providers := []struct {
		name      string
		materials MaterialProvider
	}{
		{"nil provider", nil},
		{"nil material", diffuse{}},
	}
	for _, tt := range providers {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAssembler("Panda Costume", newBase(), NewStagingRoot("hider"), tt.materials)
			tex := image.NewNRGBA(image.Rect(0, 0, 1, 1))
			hair := models.NewPart("mane")
			own := models.NewMaterial("mane-mat")
			own.MainTexture = tex
			hair.Renderer = &models.MeshRenderer{Node: hair.Root, SharedMaterial: own}

			a.AddHairstyle(hair)

			mat := hair.Renderer.SharedMaterial
			if mat == own || mat.Name != "diffuse" || mat.MainTexture != tex {
				t.Errorf("material = %+v", mat)
			}
		})
	}
}

func TestAddHairstyleWithoutRenderer(t *testing.T) {
	var rec Recorder
	a, _, _ := newAssembler(WithDiagnostics(rec.Sink()))
	bald := models.NewPart("bald")

	a.AddHairstyle(bald)

	if rec.Count(MissingMeshRenderer) != 1 {
		t.Errorf("diagnostics = %v", rec.Diagnostics())
	}
	if len(a.Parts(Hairstyle)) != 1 {
		t.Errorf("hairstyle should still be recorded")
	}
}

func TestAddDispatch(t *testing.T) {
	a, _, _ := newAssembler()
	for _, c := range Categories {
		p := sourcePart("x")
		p.Renderer = &models.MeshRenderer{Node: p.Root, SharedMesh: p.Skinned.SharedMesh, SharedMaterial: p.Skinned.SharedMaterial}
		if got := a.Add(c, p); got != p {
			t.Errorf("Add(%v) returned a different part", c)
		}
		if len(a.Parts(c)) != 1 {
			t.Errorf("Add(%v) did not record the part", c)
		}
	}
}

func TestFinalize(t *testing.T) {
	a, _, _ := newAssembler()
	a.AddTorso(sourcePart("body"))
	a.AddLegs(sourcePart("legs"))

	c := a.Finalize()

	if c.Name != "Panda Costume" {
		t.Errorf("Name = %q", c.Name)
	}
	if len(c.Torsos) != 1 || len(c.Legs) != 1 || len(c.Heads) != 0 || len(c.Hairstyles) != 0 {
		t.Errorf("category lists = %d/%d/%d/%d", len(c.Torsos), len(c.Heads), len(c.Legs), len(c.Hairstyles))
	}
	if c.Heads == nil || c.Hairstyles == nil {
		t.Errorf("empty categories should be empty lists, not nil")
	}
	for name, list := range map[string][]WearableProduct{
		"accessories": c.Accessories,
		"head items":  c.HeadItems,
		"face items":  c.FaceItems,
	} {
		if list == nil || len(list) != 0 {
			t.Errorf("%s = %v, want an empty list", name, list)
		}
	}
	if len(c.All()) != 2 {
		t.Errorf("All() = %d parts, want 2", len(c.All()))
	}

	a.AddTorso(sourcePart("later"))
	if len(c.Torsos) != 1 {
		t.Errorf("finalized container changed after a later Add")
	}
}

func TestRelease(t *testing.T) {
	a, staging, _ := newAssembler()
	a.AddTorso(sourcePart("body"))
	a.AddHead(sourcePart("head"))

	a.Release()

	for _, c := range Categories {
		if n := len(a.Parts(c)); n != 0 {
			t.Errorf("%v still holds %d parts", c, n)
		}
	}
	if len(staging.Children()) != 2 {
		t.Errorf("Release must leave staged instances to the caller")
	}
}

func TestParseCategoryAndGender(t *testing.T) {
	for _, c := range Categories {
		got, err := ParseCategory(c.String())
		if err != nil || got != c {
			t.Errorf("ParseCategory(%q) = %v, %v", c.String(), got, err)
		}
	}
	if _, err := ParseCategory("tail"); err == nil {
		t.Errorf("expected an error for an unknown category")
	}

	tests := []struct {
		in   string
		want Gender
		ok   bool
	}{
		{"", Male, true},
		{"male", Male, true},
		{"Female", Female, true},
		{"robot", Male, false},
	}
	for _, tt := range tests {
		got, err := ParseGender(tt.in)
		if got != tt.want || (err == nil) != tt.ok {
			t.Errorf("ParseGender(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func TestCostumePartContainers(t *testing.T) {
	c := NewCostume("Panda", "Panda", nil)
	male := NewBodyPartsContainer("m", nil, nil, nil, nil)
	c.SetPartContainer(Male, male)

	if c.PartContainer(Male) != male || c.PartContainer(Female) != nil {
		t.Errorf("containers not assigned per gender")
	}
}
