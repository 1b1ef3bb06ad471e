package main

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/taigrr/graft/pkg/assets"
	"github.com/taigrr/graft/pkg/costume"
)

func newAssembleCmd() *cobra.Command {
	var o assets.Overrides
	cmd := &cobra.Command{
		Use:   "assemble <manifest.yaml>",
		Short: "Graft a manifest's parts onto its base costume and write a GLB",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAssemble(args[0], o)
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.Template, "template", "", "template set to graft onto (male or female)")
	f.StringVarP(&o.Output, "output", "o", "", "output GLB path")
	f.StringVar(&o.Preview, "preview", "", "preview image path (.png or .webp)")
	f.IntVar(&o.Size, "size", 0, "preview size in pixels")
	f.IntVar(&o.Frames, "frames", 0, "turntable frames; 0 writes a still preview")
	return cmd
}

func runAssemble(path string, o assets.Overrides) error {
	m, err := assets.LoadManifest(path, o)
	if err != nil {
		return err
	}

	var rec costume.Recorder
	out, err := assets.Assemble(m, assets.NewLibrary(), costume.Tee(costume.LogSink(logger), rec.Sink()))
	if err != nil {
		return err
	}

	container := out.PartContainer(m.Gender())
	logParts(logger, container)
	parts := container.All()
	if err := assets.WriteGLB(m.Output, parts); err != nil {
		return err
	}
	logger.Info("wrote costume", "name", m.Name, "template", m.Gender(), "parts", len(parts), "path", m.Output)

	if err := assets.WritePreview(m.Preview, parts); err != nil {
		return err
	}
	if m.Preview.Path != "" {
		logger.Info("wrote preview", "path", m.Preview.Path, "frames", m.Preview.Frames)
	}

	if n := len(rec.Diagnostics()); n > 0 {
		logger.Warn("assembled with diagnostics",
			"total", n,
			"unmapped", rec.Count(costume.UnmappedBone),
			"missing-bones", rec.Count(costume.MissingBone),
			"unskinned", rec.Count(costume.MissingSkinnedMesh),
		)
	}
	return nil
}

// logParts reports where each grafted part lives. Instances hang under the
// inactive staging root; hairstyles keep their own hierarchy.
func logParts(l *log.Logger, c *costume.BodyPartsContainer) {
	for _, cat := range costume.Categories {
		for _, p := range c.Parts(cat) {
			l.Debug("grafted part", "category", cat, "node", p.Root.Path(), "staged", !p.Root.ActiveInHierarchy())
		}
	}
}
