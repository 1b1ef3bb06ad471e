package main

// Controls:
//
//	Mouse drag  - Orbit the camera
//	Scroll      - Zoom in/out
//	W/S         - Pitch up/down
//	A/D         - Yaw left/right
//	Space       - Spin
//	R           - Reset view
//	K           - Toggle skeleton overlay
//	X           - Toggle wireframe
//	G           - Toggle ground grid
//	?           - Toggle HUD
//	+/-         - Zoom
//	Esc         - Quit

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/harmonica"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/taigrr/graft/pkg/assets"
	"github.com/taigrr/graft/pkg/costume"
	"github.com/taigrr/graft/pkg/models"
	"github.com/taigrr/graft/pkg/render"
)

func newViewCmd() *cobra.Command {
	var (
		fps      int
		template string
	)
	cmd := &cobra.Command{
		Use:   "view <manifest.yaml | part.glb...>",
		Short: "Show an assembled costume or glTF parts in the terminal",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parts, title, err := viewParts(args, template)
			if err != nil {
				return err
			}
			return runViewer(cmd.Context(), render.NewModel(parts...), title, fps)
		},
	}
	cmd.Flags().IntVar(&fps, "fps", 60, "target frames per second")
	cmd.Flags().StringVar(&template, "template", "", "template set when viewing a manifest")
	return cmd
}

// viewParts assembles a manifest in memory, or loads the given parts as-is.
func viewParts(args []string, template string) ([]*models.Part, string, error) {
	if ext := strings.ToLower(filepath.Ext(args[0])); ext == ".yaml" || ext == ".yml" {
		if len(args) > 1 {
			return nil, "", errors.New("view takes a single manifest")
		}
		m, err := assets.LoadManifest(args[0], assets.Overrides{Template: template})
		if err != nil {
			return nil, "", err
		}
		out, err := assets.Assemble(m, assets.NewLibrary(), costume.LogSink(logger))
		if err != nil {
			return nil, "", err
		}
		return out.PartContainer(m.Gender()).All(), m.Title, nil
	}

	parts, err := loadParts(args)
	if err != nil {
		return nil, "", err
	}
	return parts, filepath.Base(args[0]), nil
}

// RotationAxis tracks position and velocity for one orbit axis with spring decay
type RotationAxis struct {
	Position  float64
	Velocity  float64
	velSpring harmonica.Spring
	velAccel  float64 // Spring velocity of Velocity itself
}

// NewRotationAxis creates an axis whose velocity decays without overshoot.
func NewRotationAxis(fps int) RotationAxis {
	return RotationAxis{
		velSpring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

// Update applies velocity to position and springs velocity toward 0.
func (a *RotationAxis) Update() {
	a.Position += a.Velocity
	a.Velocity, a.velAccel = a.velSpring.Update(a.Velocity, a.velAccel, 0)
}

// OrbitState holds the spring-driven camera orbit.
type OrbitState struct {
	Yaw, Pitch RotationAxis
	Zoom       float64 // Multiplier on the framed distance
	fps        int
}

// NewOrbitState starts at the default three-quarter view.
func NewOrbitState(fps int) *OrbitState {
	o := &OrbitState{fps: fps}
	o.Reset()
	return o
}

// Reset returns to the default view and stops any spin.
func (o *OrbitState) Reset() {
	o.Yaw = NewRotationAxis(o.fps)
	o.Pitch = NewRotationAxis(o.fps)
	o.Yaw.Position = math.Pi / 6
	o.Pitch.Position = math.Pi / 12
	o.Zoom = 1
}

// Update advances both axes. Pitch stops at the poles.
func (o *OrbitState) Update() {
	o.Yaw.Update()
	o.Pitch.Update()
	const limit = math.Pi/2 - 0.05
	if o.Pitch.Position > limit || o.Pitch.Position < -limit {
		o.Pitch.Position = math.Max(-limit, math.Min(limit, o.Pitch.Position))
		o.Pitch.Velocity = 0
	}
	o.Yaw.Position = math.Mod(o.Yaw.Position, 2*math.Pi)
}

// ApplyImpulse adds angular velocity in radians per frame.
func (o *OrbitState) ApplyImpulse(yaw, pitch float64) {
	o.Yaw.Velocity += yaw
	o.Pitch.Velocity += pitch
}

// ZoomBy scales the zoom multiplier, keeping it in a usable range.
func (o *OrbitState) ZoomBy(factor float64) {
	o.Zoom = math.Max(0.2, math.Min(5, o.Zoom*factor))
}

// viewState holds UI toggles shared between the input and frame loops.
type viewState struct {
	mu        sync.Mutex
	orbit     *OrbitState
	skeleton  bool
	wireframe bool
	grid      bool
	hud       bool
	width     int
	height    int
	resized   bool
}

var (
	hudStyle   = lipgloss.NewStyle().Background(lipgloss.Color("#282A36")).Foreground(lipgloss.Color("#F8F8F2"))
	hudAccent  = hudStyle.Foreground(lipgloss.Color("#50FA7B")).Bold(true)
	hudFaint   = hudStyle.Faint(true)
	checkboxes = map[bool]string{true: "[x]", false: "[ ]"}
)

// hudLines renders the top and bottom status lines.
func hudLines(title string, tris int, fps float64, s *viewState) (top, bottom string) {
	top = hudAccent.Render(fmt.Sprintf(" %.0f FPS ", fps)) +
		hudStyle.Bold(true).Render(" "+title+" ") +
		hudFaint.Render(fmt.Sprintf(" %d tris ", tris))
	bottom = hudStyle.Render(fmt.Sprintf(" %s skeleton (k)  %s wireframe (x)  %s grid (g) ",
		checkboxes[s.skeleton], checkboxes[s.wireframe], checkboxes[s.grid]))
	return top, bottom
}

func runViewer(ctx context.Context, model *render.Model, title string, fps int) error {
	if fps <= 0 {
		fps = 60
	}

	term := uv.DefaultTerminal()
	width, height, err := term.GetSize()
	if err != nil {
		return errors.Wrap(err, "get terminal size")
	}
	if err := term.Start(); err != nil {
		return errors.Wrap(err, "start terminal")
	}
	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	fmt.Fprint(os.Stdout, "\x1b[?1003h") // Any-event mouse tracking
	fmt.Fprint(os.Stdout, "\x1b[?1006h") // SGR extended mouse mode

	cleanup := func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}

	// Two pixel rows per terminal cell.
	fb := render.NewFramebuffer(width, height*2)
	camera := render.NewCamera()
	camera.SetAspectRatio(float64(fb.Width) / float64(fb.Height))
	camera.Frame(model.BoundsMin, model.BoundsMax)
	framed := camera.Distance
	rasterizer := render.NewRasterizer(camera, fb)
	wire := render.NewWireframe(camera, fb)

	extent := model.BoundsMax.Sub(model.BoundsMin)
	gridSize := math.Max(extent.X, extent.Z) * 1.5
	if gridSize <= 0 {
		gridSize = 2
	}
	floor := model.Center()
	floor.Y = model.BoundsMin.Y

	state := &viewState{
		orbit:  NewOrbitState(fps),
		grid:   true,
		hud:    true,
		width:  width,
		height: height,
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var torque struct{ yaw, pitch float64 }
	const torqueStrength = 3.0

	go func() {
		var (
			mouseDown    bool
			lastX, lastY int
		)
		for ev := range term.Events() {
			state.mu.Lock()
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				state.width, state.height = ev.Width, ev.Height
				state.resized = true

			case uv.KeyPressEvent:
				switch {
				case ev.MatchString("escape", "ctrl+c", "q"):
					cancel()
				case ev.MatchString("r"):
					state.orbit.Reset()
				case ev.MatchString("w", "up"):
					torque.pitch = torqueStrength
				case ev.MatchString("s", "down"):
					torque.pitch = -torqueStrength
				case ev.MatchString("a", "left"):
					torque.yaw = -torqueStrength
				case ev.MatchString("d", "right"):
					torque.yaw = torqueStrength
				case ev.MatchString("space"):
					state.orbit.ApplyImpulse(0.3, 0)
				case ev.MatchString("+", "="):
					state.orbit.ZoomBy(0.9)
				case ev.MatchString("-", "_"):
					state.orbit.ZoomBy(1 / 0.9)
				case ev.MatchString("k"):
					state.skeleton = !state.skeleton
				case ev.MatchString("x"):
					state.wireframe = !state.wireframe
				case ev.MatchString("g"):
					state.grid = !state.grid
				case ev.MatchString("?", "shift+/"):
					state.hud = !state.hud
				}

			case uv.KeyReleaseEvent:
				switch {
				case ev.MatchString("w", "up", "s", "down"):
					torque.pitch = 0
				case ev.MatchString("a", "left", "d", "right"):
					torque.yaw = 0
				}

			case uv.MouseClickEvent:
				mouseDown = true
				lastX, lastY = ev.X, ev.Y

			case uv.MouseReleaseEvent:
				mouseDown = false

			case uv.MouseMotionEvent:
				if mouseDown {
					dx, dy := ev.X-lastX, ev.Y-lastY
					state.orbit.ApplyImpulse(float64(dx)*0.02, float64(dy)*0.02)
					lastX, lastY = ev.X, ev.Y
				}

			case uv.MouseWheelEvent:
				switch ev.Button {
				case uv.MouseWheelUp:
					state.orbit.ZoomBy(0.9)
				case uv.MouseWheelDown:
					state.orbit.ZoomBy(1 / 0.9)
				}
			}
			state.mu.Unlock()
		}
	}()

	targetDuration := time.Second / time.Duration(fps)
	lastFrame := time.Now()
	fpsFrames, fpsTime, measured := 0, time.Now(), 0.0

	for {
		select {
		case <-ctx.Done():
			cleanup()
			return nil
		default:
		}

		now := time.Now()
		dt := math.Min(now.Sub(lastFrame).Seconds(), 0.1)
		lastFrame = now

		state.mu.Lock()
		if state.resized {
			state.resized = false
			term.Erase()
			term.Resize(state.width, state.height)
			fb.Resize(state.width, state.height*2)
			rasterizer.Resize()
			camera.SetAspectRatio(float64(fb.Width) / float64(fb.Height))
		}

		// Key release events are unreliable, so held torque decays on its own.
		state.orbit.ApplyImpulse(torque.yaw*dt, torque.pitch*dt)
		torque.yaw *= 0.9
		torque.pitch *= 0.9
		state.orbit.Update()
		camera.SetOrbit(state.orbit.Yaw.Position, state.orbit.Pitch.Position, framed*state.orbit.Zoom)

		fb.Clear(render.ColorCharcoal)
		rasterizer.ClearDepth()
		if state.grid {
			wire.DrawGrid(floor, gridSize, gridSize/10, render.ColorGrid)
		}
		if state.wireframe {
			for i := range model.Surfaces {
				wire.DrawEdges(&model.Surfaces[i], render.RGB(0, 255, 128))
			}
		} else {
			rasterizer.DrawModel(model)
		}
		if state.skeleton {
			wire.DrawSkeleton(model, render.ColorYellow, render.ColorMagenta)
		}

		fpsFrames++
		if elapsed := time.Since(fpsTime); elapsed >= time.Second {
			measured = float64(fpsFrames) / elapsed.Seconds()
			fpsFrames, fpsTime = 0, time.Now()
		}

		showHUD, w, h := state.hud, state.width, state.height
		top, bottom := hudLines(title, model.TriangleCount(), measured, state)
		state.mu.Unlock()

		term.Draw(uv.DrawableFunc(func(scr uv.Screen, area uv.Rectangle) {
			fb.Draw(scr, area)
			if showHUD && h > 1 {
				uv.NewStyledString(top).Draw(scr, uv.Rect(0, 0, w, 1))
				uv.NewStyledString(bottom).Draw(scr, uv.Rect(0, h-1, w, 1))
			}
		}))
		if err := term.Display(); err != nil {
			cleanup()
			return errors.Wrap(err, "display")
		}

		if elapsed := time.Since(now); elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}
