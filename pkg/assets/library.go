package assets

import (
	"image"
	"os"

	"github.com/pkg/errors"

	"github.com/taigrr/graft/pkg/costume"
	"github.com/taigrr/graft/pkg/models"
)

// Library loads glTF parts. Template parts are cached by path since they are
// only ever read; source parts are loaded fresh on every call because
// assembly may modify them.
type Library struct {
	loader    *models.GLTFLoader
	templates map[string]*models.Part
}

// NewLibrary creates a library with an empty template cache.
func NewLibrary() *Library {
	return &Library{
		loader:    models.NewGLTFLoader(),
		templates: make(map[string]*models.Part),
	}
}

// Load reads a part from path.
func (l *Library) Load(path string) (*models.Part, error) {
	p, err := l.loader.Load(path)
	if err != nil {
		return nil, errors.Wrapf(err, "load part %s", path)
	}
	return p, nil
}

// Template returns the cached template part at path, loading it once.
func (l *Library) Template(path string) (*models.Part, error) {
	if p, ok := l.templates[path]; ok {
		return p, nil
	}
	p, err := l.Load(path)
	if err != nil {
		return nil, err
	}
	l.templates[path] = p
	return p, nil
}

// LoadBaseCostume loads every template file of spec.
func (l *Library) LoadBaseCostume(spec BaseSpec) (*costume.BaseCostume, error) {
	male, err := l.loadSet(spec.Male)
	if err != nil {
		return nil, errors.Wrap(err, "male set")
	}
	female, err := l.loadSet(spec.Female)
	if err != nil {
		return nil, errors.Wrap(err, "female set")
	}
	return &costume.BaseCostume{
		Name:   spec.Name,
		Male:   male,
		Female: female,
	}, nil
}

func (l *Library) loadSet(files PartFiles) (costume.BodyParts, error) {
	var set costume.BodyParts
	targets := map[costume.Category]*[]*models.Part{
		costume.Torso:     &set.Torsos,
		costume.Head:      &set.Heads,
		costume.Legs:      &set.Legs,
		costume.Hairstyle: &set.Hairstyles,
	}
	for _, c := range costume.Categories {
		for _, f := range files.Files(c) {
			p, err := l.Template(f)
			if err != nil {
				return set, errors.Wrapf(err, "%s template", c)
			}
			*targets[c] = append(*targets[c], p)
		}
	}
	return set, nil
}

// LoadTexture decodes a PNG, JPEG, TGA or WebP file.
func LoadTexture(path string) (*image.NRGBA, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read texture %s", path)
	}
	img, err := models.DecodeTexture(data)
	if err != nil {
		return nil, errors.Wrapf(err, "texture %s", path)
	}
	return img, nil
}

// Diffuse is a fixed diffuse material; it satisfies costume.MaterialProvider.
type Diffuse struct {
	material *models.Material
}

// NewDiffuse builds the diffuse material described by spec.
func NewDiffuse(spec MaterialSpec) (*Diffuse, error) {
	name := spec.Name
	if name == "" {
		name = "diffuse"
	}
	mat := models.NewMaterial(name)
	if spec.Color != "" {
		c, err := ParseColor(spec.Color)
		if err != nil {
			return nil, errors.Wrap(err, "diffuse color")
		}
		mat.BaseColor = [4]float64{float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255, float64(c.A) / 255}
	}
	if spec.Metallic != nil {
		mat.Metallic = *spec.Metallic
	}
	if spec.Roughness != nil {
		mat.Roughness = *spec.Roughness
	}
	if spec.Texture != "" {
		tex, err := LoadTexture(spec.Texture)
		if err != nil {
			return nil, errors.Wrap(err, "diffuse")
		}
		mat.MainTexture = tex
	}
	return &Diffuse{material: mat}, nil
}

// DiffuseMaterial returns the shared base material. Callers clone it before
// making changes.
func (d *Diffuse) DiffuseMaterial() *models.Material {
	return d.material
}
