package main

import (
	"github.com/spf13/cobra"

	"github.com/taigrr/graft/pkg/assets"
	"github.com/taigrr/graft/pkg/models"
)

func newPreviewCmd() *cobra.Command {
	spec := assets.PreviewSpec{Path: "preview.png", Yaw: 30, Pitch: 15}
	cmd := &cobra.Command{
		Use:   "preview <part.glb>...",
		Short: "Render glTF parts into a preview image or turntable",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := spec.Validate(); err != nil {
				return err
			}
			parts, err := loadParts(args)
			if err != nil {
				return err
			}
			if spec.Frames > 0 && spec.Delay <= 0 {
				spec.Delay = 80
			}
			if err := assets.WritePreview(spec, parts); err != nil {
				return err
			}
			logger.Info("wrote preview", "path", spec.Path, "parts", len(parts), "frames", spec.Frames)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&spec.Path, "output", "o", spec.Path, "output image (.png or .webp)")
	f.IntVar(&spec.Size, "size", 256, "image size in pixels")
	f.IntVar(&spec.Supersample, "supersample", 2, "render scale before downsampling")
	f.Float64Var(&spec.Yaw, "yaw", spec.Yaw, "camera yaw in degrees")
	f.Float64Var(&spec.Pitch, "pitch", spec.Pitch, "camera pitch in degrees")
	f.IntVar(&spec.Frames, "frames", 0, "turntable frames, written as animated WebP")
	f.IntVar(&spec.Delay, "delay", 0, "milliseconds per turntable frame")
	f.BoolVar(&spec.Skeleton, "skeleton", false, "overlay the bone hierarchy")
	return cmd
}

func loadParts(paths []string) ([]*models.Part, error) {
	lib := assets.NewLibrary()
	parts := make([]*models.Part, 0, len(paths))
	for _, path := range paths {
		p, err := lib.Load(path)
		if err != nil {
			return nil, err
		}
		parts = append(parts, p)
	}
	return parts, nil
}
