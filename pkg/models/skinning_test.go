package models

import (
	"math"
	"testing"

	"github.com/taigrr/graft/pkg/math3d"
)

func approxVec(a, b math3d.Vec3) bool {
	return math.Abs(a.X-b.X) < 1e-9 && math.Abs(a.Y-b.Y) < 1e-9 && math.Abs(a.Z-b.Z) < 1e-9
}

// TestSkinPositionsRestPose checks that bind poses equal to the inverse bone
// world transforms leave the mesh where it was authored.
func TestSkinPositionsRestPose(t *testing.T) {
	p := newRiggedPart("torso")
	got := p.Skinned.SkinPositions()

	for i, v := range p.Skinned.SharedMesh.Vertices {
		if !approxVec(got[i], v) {
			t.Errorf("vertex %d = %v, want %v", i, got[i], v)
		}
	}
}

func TestSkinPositionsFollowsBone(t *testing.T) {
	p := newRiggedPart("torso")
	spine := p.Skinned.Bones[1]
	spine.Translation = spine.Translation.Add(math3d.V3(0, 0, 2))

	got := p.Skinned.SkinPositions()

	// Vertex 1 is fully weighted to spine.
	want := p.Skinned.SharedMesh.Vertices[1].Add(math3d.V3(0, 0, 2))
	if !approxVec(got[1], want) {
		t.Errorf("spine vertex = %v, want %v", got[1], want)
	}
	// Vertex 2 is fully weighted to hips and must not move.
	if !approxVec(got[2], p.Skinned.SharedMesh.Vertices[2]) {
		t.Errorf("hips vertex moved to %v", got[2])
	}
}

func TestWorldPositions(t *testing.T) {
	p := NewPart("hair")
	p.Root.Translation = math3d.V3(0, 3, 0)
	p.Renderer = &MeshRenderer{Node: p.Root, SharedMesh: newTriangleMesh()}

	got := p.Renderer.WorldPositions()
	if !approxVec(got[2], math3d.V3(0, 5, -1)) {
		t.Errorf("world position = %v", got[2])
	}
}
