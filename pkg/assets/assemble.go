package assets

import (
	"github.com/pkg/errors"

	"github.com/taigrr/graft/pkg/costume"
)

// Assemble validates m, loads its base costume and parts, and grafts every
// part onto the selected template set. Diagnostics go to sink.
func Assemble(m *Manifest, lib *Library, sink costume.DiagnosticSink) (*costume.Costume, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	base, err := lib.LoadBaseCostume(m.Base)
	if err != nil {
		return nil, errors.Wrap(err, "base costume")
	}
	diffuse, err := NewDiffuse(m.Diffuse)
	if err != nil {
		return nil, err
	}

	g := m.Gender()
	a := costume.NewAssembler(m.Name, base, costume.NewStagingRoot(m.Name+" staging"), diffuse,
		costume.WithDiagnostics(sink),
		costume.WithTemplateSet(g),
	)
	defer a.Release()

	for _, c := range costume.Categories {
		for _, f := range m.Parts.Files(c) {
			p, err := lib.Load(f)
			if err != nil {
				return nil, errors.Wrapf(err, "%s part", c)
			}
			a.Add(c, p)
		}
	}

	out := costume.NewCostume(m.Name, m.Title, m.ParsedColors())
	out.SetPartContainer(g, a.Finalize())
	return out, nil
}
