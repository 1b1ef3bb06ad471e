package main

import (
	"math"
	"strings"
	"testing"
)

func TestRotationAxisDecays(t *testing.T) {
	a := NewRotationAxis(60)
	a.Velocity = 0.5
	for range 600 {
		a.Update()
	}
	if math.Abs(a.Velocity) > 1e-3 {
		t.Errorf("velocity = %v, want ~0", a.Velocity)
	}
	if a.Position <= 0.5 {
		t.Errorf("position = %v, should have advanced", a.Position)
	}
}

func TestOrbitStatePitchLimit(t *testing.T) {
	o := NewOrbitState(60)
	o.ApplyImpulse(0, 10)
	o.Update()
	if o.Pitch.Position >= math.Pi/2 || o.Pitch.Velocity != 0 {
		t.Errorf("pitch = %v, velocity = %v", o.Pitch.Position, o.Pitch.Velocity)
	}
}

func TestOrbitStateZoomClamped(t *testing.T) {
	o := NewOrbitState(60)
	for range 100 {
		o.ZoomBy(0.5)
	}
	if o.Zoom != 0.2 {
		t.Errorf("zoom = %v, want 0.2", o.Zoom)
	}
	o.Reset()
	if o.Zoom != 1 || o.Yaw.Position != math.Pi/6 {
		t.Errorf("reset = %+v", o)
	}
}

func TestHUDLines(t *testing.T) {
	s := &viewState{skeleton: true}
	top, bottom := hudLines("panda", 42, 59.6, s)
	for _, want := range []string{"60 FPS", "panda", "42 tris"} {
		if !strings.Contains(top, want) {
			t.Errorf("top line %q missing %q", top, want)
		}
	}
	if !strings.Contains(bottom, "[x] skeleton") || !strings.Contains(bottom, "[ ] wireframe") {
		t.Errorf("bottom line = %q", bottom)
	}
}
