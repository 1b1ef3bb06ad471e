package render

import (
	"math"

	"github.com/taigrr/graft/pkg/math3d"
)

// maxPitch keeps the orbit off the poles, where LookAt's up vector would
// become parallel to the view direction.
const maxPitch = math.Pi/2 - 0.01

// Camera orbits a target point. Yaw 0 and pitch 0 look down -Z at the
// target, which shows the front of a glTF model.
//
// The fields may be set directly; the view-projection matrix is rebuilt
// whenever any of them differ from the last computation.
type Camera struct {
	Target   math3d.Vec3
	Distance float64
	Yaw      float64 // radians around world Y
	Pitch    float64 // radians above the XZ plane

	FOV         float64 // vertical, radians
	AspectRatio float64 // width / height
	Near, Far   float64

	cachedFor lens
	viewProj  math3d.Mat4
	cached    bool
}

// lens is every input of the view-projection matrix.
type lens struct {
	target                      math3d.Vec3
	distance, yaw, pitch        float64
	fov, aspectRatio, near, far float64
}

// NewCamera returns a camera three units in front of the origin.
func NewCamera() *Camera {
	return &Camera{
		Distance:    3,
		FOV:         math.Pi / 4,
		AspectRatio: 1,
		Near:        0.05,
		Far:         100,
	}
}

// SetTarget moves the orbit center.
func (c *Camera) SetTarget(target math3d.Vec3) { c.Target = target }

// SetAspectRatio sets width / height of the viewport.
func (c *Camera) SetAspectRatio(aspect float64) { c.AspectRatio = aspect }

// SetOrbit places the camera on its orbit. Pitch is clamped.
func (c *Camera) SetOrbit(yaw, pitch, distance float64) {
	c.Yaw, c.Pitch, c.Distance = yaw, clampPitch(pitch), distance
}

// Orbit turns the camera around its target.
func (c *Camera) Orbit(deltaYaw, deltaPitch float64) {
	c.Yaw = math.Mod(c.Yaw+deltaYaw, 2*math.Pi)
	c.Pitch = clampPitch(c.Pitch + deltaPitch)
}

// Zoom multiplies the orbit distance by factor; non-positive factors are
// ignored.
func (c *Camera) Zoom(factor float64) {
	if factor > 0 {
		c.Distance *= factor
	}
}

// Frame targets the center of a bounding box and backs off until the box's
// bounding sphere fits the narrower field of view. The clip planes follow
// the new distance.
func (c *Camera) Frame(boundsMin, boundsMax math3d.Vec3) {
	radius := boundsMax.Sub(boundsMin).Len() / 2
	if radius == 0 {
		radius = 0.5
	}
	half := c.FOV / 2
	if c.AspectRatio < 1 {
		half = math.Atan(math.Tan(half) * c.AspectRatio)
	}
	c.Target = boundsMin.Add(boundsMax).Scale(0.5)
	c.Distance = 1.05 * radius / math.Sin(half)
	c.Near, c.Far = c.Distance/100, c.Distance+4*radius
}

// Position returns the camera's world position.
func (c *Camera) Position() math3d.Vec3 {
	sy, cy := math.Sincos(c.Yaw)
	sp, cp := math.Sincos(c.Pitch)
	return c.Target.Add(math3d.V3(sy*cp, sp, cy*cp).Scale(c.Distance))
}

// Forward returns the unit view direction.
func (c *Camera) Forward() math3d.Vec3 {
	return c.Target.Sub(c.Position()).Normalize()
}

// ViewProjectionMatrix maps world space to clip space.
func (c *Camera) ViewProjectionMatrix() math3d.Mat4 {
	l := lens{c.Target, c.Distance, c.Yaw, c.Pitch, c.FOV, c.AspectRatio, c.Near, c.Far}
	if !c.cached || l != c.cachedFor {
		view := math3d.LookAt(c.Position(), c.Target, math3d.V3(0, 1, 0))
		proj := math3d.Perspective(c.FOV, c.AspectRatio, c.Near, c.Far)
		c.viewProj, c.cachedFor, c.cached = proj.Mul(view), l, true
	}
	return c.viewProj
}

// WorldToScreen projects p into a width x height viewport with y growing
// downward. ok is false when p is behind the camera or outside the view
// volume.
func (c *Camera) WorldToScreen(p math3d.Vec3, width, height int) (x, y, depth float64, ok bool) {
	clip := c.ViewProjectionMatrix().MulVec4(math3d.V4FromV3(p, 1))
	if clip.W <= 0 {
		return 0, 0, 0, false
	}
	ndc := clip.PerspectiveDivide()
	if math.Abs(ndc.X) > 1 || math.Abs(ndc.Y) > 1 || math.Abs(ndc.Z) > 1 {
		return 0, 0, 0, false
	}
	return (ndc.X + 1) / 2 * float64(width), (1 - ndc.Y) / 2 * float64(height), ndc.Z, true
}

func clampPitch(p float64) float64 {
	return max(-maxPitch, min(maxPitch, p))
}
