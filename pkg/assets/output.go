package assets

import (
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/taigrr/graft/pkg/models"
	"github.com/taigrr/graft/pkg/render"
)

// WriteGLB exports parts into one binary glTF file at path, creating its
// directory if needed.
func WriteGLB(path string, parts []*models.Part) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "create output directory")
	}
	e := models.NewGLBExporter()
	for _, p := range parts {
		if err := e.AddPart(p); err != nil {
			return errors.Wrapf(err, "export %s", path)
		}
	}
	return errors.Wrapf(e.Save(path), "export %s", path)
}

// PreviewOptions converts the manifest's preview settings, given in degrees,
// into render options.
func (s PreviewSpec) PreviewOptions() render.PreviewOptions {
	o := render.DefaultPreviewOptions()
	if s.Size > 0 {
		o.Size = s.Size
	}
	if s.Supersample > 0 {
		o.Supersample = s.Supersample
	}
	o.Yaw = s.Yaw * math.Pi / 180
	o.Pitch = s.Pitch * math.Pi / 180
	o.Skeleton = s.Skeleton
	return o
}

// WritePreview renders parts to s.Path: a still image, or an animated
// turntable when s.Frames is set. An empty path writes nothing.
func WritePreview(s PreviewSpec, parts []*models.Part) error {
	if s.Path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return errors.Wrap(err, "create preview directory")
	}

	model := render.NewModel(parts...)
	o := s.PreviewOptions()
	if s.Frames <= 0 {
		return errors.Wrap(render.SaveImage(s.Path, render.RenderPreview(model, o)), "write preview")
	}

	frames := render.RenderTurntable(model, o, s.Frames)
	f, err := os.Create(s.Path)
	if err != nil {
		return errors.Wrap(err, "write preview")
	}
	if err := render.EncodeTurntable(f, frames, time.Duration(s.Delay)*time.Millisecond); err != nil {
		f.Close()
		return errors.Wrap(err, "write preview")
	}
	return errors.Wrap(f.Close(), "write preview")
}
