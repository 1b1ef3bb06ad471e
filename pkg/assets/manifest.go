// Package assets reads costume manifests and loads the parts, base costumes
// and materials they name.
package assets

import (
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/taigrr/graft/pkg/costume"
)

// Manifest describes one costume to assemble.
type Manifest struct {
	Name     string       `yaml:"name"`
	Title    string       `yaml:"title"`
	Template string       `yaml:"template"` // Base body part set: male or female
	Colors   []string     `yaml:"colors"`   // Hex, #rrggbb or #rrggbbaa
	Base     BaseSpec     `yaml:"base"`
	Diffuse  MaterialSpec `yaml:"diffuse"`
	Parts    PartFiles    `yaml:"parts"`
	Output   string       `yaml:"output"`
	Preview  PreviewSpec  `yaml:"preview"`
}

// BaseSpec lists the glTF files of the base costume's template parts.
type BaseSpec struct {
	Name   string    `yaml:"name"`
	Male   PartFiles `yaml:"male"`
	Female PartFiles `yaml:"female"`
}

// PartFiles lists glTF files per body part category.
type PartFiles struct {
	Torsos     []string `yaml:"torsos"`
	Heads      []string `yaml:"heads"`
	Legs       []string `yaml:"legs"`
	Hairstyles []string `yaml:"hairstyles"`
}

// Files returns the list for category c.
func (p *PartFiles) Files(c costume.Category) []string {
	switch c {
	case costume.Torso:
		return p.Torsos
	case costume.Head:
		return p.Heads
	case costume.Legs:
		return p.Legs
	case costume.Hairstyle:
		return p.Hairstyles
	}
	return nil
}

// Count returns the total number of files.
func (p *PartFiles) Count() int {
	return len(p.Torsos) + len(p.Heads) + len(p.Legs) + len(p.Hairstyles)
}

func (p *PartFiles) resolve(dir string) {
	for _, list := range [][]string{p.Torsos, p.Heads, p.Legs, p.Hairstyles} {
		for i, f := range list {
			list[i] = resolvePath(dir, f)
		}
	}
}

// MaterialSpec describes the diffuse base material hairstyles are recolored
// with.
type MaterialSpec struct {
	Name      string   `yaml:"name"`
	Color     string   `yaml:"color"`
	Texture   string   `yaml:"texture"`
	Metallic  *float64 `yaml:"metallic"`
	Roughness *float64 `yaml:"roughness"`
}

// PreviewSpec controls the optional preview image written next to the GLB.
type PreviewSpec struct {
	Path        string  `yaml:"path"`
	Size        int     `yaml:"size"`
	Supersample int     `yaml:"supersample"`
	Yaw         float64 `yaml:"yaw"`    // Degrees
	Pitch       float64 `yaml:"pitch"`  // Degrees
	Frames      int     `yaml:"frames"` // Turntable frames; 0 writes a still image
	Delay       int     `yaml:"delay"`  // Milliseconds per turntable frame
	Skeleton    bool    `yaml:"skeleton"`
}

// Overrides holds CLI flag values that take priority over the manifest.
type Overrides struct {
	Template string
	Output   string
	Preview  string
	Size     int
	Frames   int
}

// LoadManifest reads a YAML manifest and resolves it against its directory.
func LoadManifest(path string, o Overrides) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read manifest %s", path)
	}
	m, err := ParseManifest(data)
	if err != nil {
		return nil, errors.Wrapf(err, "manifest %s", path)
	}
	m.Resolve(filepath.Dir(path), o)
	return m, nil
}

// ParseManifest decodes a manifest without resolving paths.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(err, "parse yaml")
	}
	return &m, nil
}

// Resolve applies overrides, makes relative paths absolute against dir and
// fills in defaults.
func (m *Manifest) Resolve(dir string, o Overrides) {
	if o.Template != "" {
		m.Template = o.Template
	}
	if o.Output != "" {
		m.Output = o.Output
	}
	if o.Preview != "" {
		m.Preview.Path = o.Preview
	}
	if o.Size > 0 {
		m.Preview.Size = o.Size
	}
	if o.Frames > 0 {
		m.Preview.Frames = o.Frames
	}

	if m.Template == "" {
		m.Template = costume.Male.String()
	}
	if m.Title == "" {
		m.Title = m.Name
	}
	if m.Base.Name == "" {
		m.Base.Name = "base"
	}

	m.Base.Male.resolve(dir)
	m.Base.Female.resolve(dir)
	m.Parts.resolve(dir)
	if m.Diffuse.Texture != "" {
		m.Diffuse.Texture = resolvePath(dir, m.Diffuse.Texture)
	}

	if m.Output == "" {
		m.Output = filepath.Join(dir, slug(m.Name)+".glb")
	} else {
		m.Output = resolvePath(dir, m.Output)
	}
	if m.Preview.Path != "" {
		m.Preview.Path = resolvePath(dir, m.Preview.Path)
	}

	if m.Preview.Size <= 0 {
		m.Preview.Size = 256
	}
	if m.Preview.Supersample <= 0 {
		m.Preview.Supersample = 2
	}
	if m.Preview.Frames > 0 && m.Preview.Delay <= 0 {
		m.Preview.Delay = 80
	}
}

// Validate checks that the manifest can be assembled: a known template set
// with at least one torso, head and legs, and at least one source part.
func (m *Manifest) Validate() error {
	if m.Name == "" {
		return errors.New("manifest has no name")
	}
	g, err := costume.ParseGender(m.Template)
	if err != nil {
		return errors.Wrap(err, "template")
	}
	set := m.Base.Male
	if g == costume.Female {
		set = m.Base.Female
	}
	for _, c := range []costume.Category{costume.Torso, costume.Head, costume.Legs} {
		if len(set.Files(c)) == 0 {
			return errors.Errorf("base %s set has no %s template", g, c)
		}
	}
	if m.Parts.Count() == 0 {
		return errors.New("manifest lists no parts")
	}
	for _, c := range m.Colors {
		if _, err := ParseColor(c); err != nil {
			return err
		}
	}
	if m.Diffuse.Color != "" {
		if _, err := ParseColor(m.Diffuse.Color); err != nil {
			return errors.Wrap(err, "diffuse")
		}
	}
	return m.Preview.Validate()
}

// Validate checks that the preview path names a format the preview can be
// written in. An empty path is valid and disables the preview.
func (s PreviewSpec) Validate() error {
	if s.Path == "" {
		return nil
	}
	switch ext := strings.ToLower(filepath.Ext(s.Path)); {
	case ext == ".webp":
	case ext == ".png" && s.Frames == 0:
	case ext == ".png":
		return errors.New("turntable previews must be written as .webp")
	default:
		return errors.Errorf("unsupported preview format %q", ext)
	}
	return nil
}

// Gender returns the parsed template set. Invalid values yield Male; call
// Validate first to catch them.
func (m *Manifest) Gender() costume.Gender {
	g, _ := costume.ParseGender(m.Template)
	return g
}

// ParsedColors returns the costume colors. Unparseable entries are skipped.
func (m *Manifest) ParsedColors() []color.NRGBA {
	var out []color.NRGBA
	for _, s := range m.Colors {
		if c, err := ParseColor(s); err == nil {
			out = append(out, c)
		}
	}
	return out
}

// ParseColor parses #rgb, #rrggbb or #rrggbbaa, with or without the hash.
func ParseColor(s string) (color.NRGBA, error) {
	hex := "#" + strings.TrimPrefix(strings.TrimSpace(s), "#")
	alpha := uint64(0xff)
	if len(hex) == 9 {
		a, err := strconv.ParseUint(hex[7:], 16, 8)
		if err != nil {
			return color.NRGBA{}, errors.Errorf("invalid color %q", s)
		}
		hex, alpha = hex[:7], a
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.NRGBA{}, errors.Wrapf(err, "invalid color %q", s)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(alpha)}, nil
}

func resolvePath(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

// slug turns a costume name into a file name.
func slug(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r == ' ':
			return '-'
		}
		return -1
	}, s)
	if s == "" {
		return "costume"
	}
	return s
}
