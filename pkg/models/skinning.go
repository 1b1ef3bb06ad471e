package models

import "github.com/taigrr/graft/pkg/math3d"

// SkinPositions deforms the renderer's mesh by its bones' current pose using
// linear blend skinning and returns world-space positions. Influences whose
// bone index is out of range or whose bone is missing are skipped; a vertex
// with no usable influence falls back to the renderer node's transform.
func (r *SkinnedMeshRenderer) SkinPositions() []math3d.Vec3 {
	mesh := r.SharedMesh
	out := make([]math3d.Vec3, len(mesh.Vertices))

	skin := make([]math3d.Mat4, len(r.Bones))
	valid := make([]bool, len(r.Bones))
	for i, b := range r.Bones {
		if b == nil || i >= len(mesh.BindPoses) {
			continue
		}
		skin[i] = b.LocalToWorld().Mul(mesh.BindPoses[i])
		valid[i] = true
	}

	rigid := math3d.Identity()
	if r.Node != nil {
		rigid = r.Node.LocalToWorld()
	}

	for vi, v := range mesh.Vertices {
		if vi >= len(mesh.BoneWeights) {
			out[vi] = rigid.MulVec3(v)
			continue
		}
		bw := mesh.BoneWeights[vi]
		var acc math3d.Vec3
		var total float64
		for k := range MaxInfluences {
			w := float64(bw.Weight[k])
			idx := bw.BoneIndex[k]
			if w == 0 || idx < 0 || idx >= len(skin) || !valid[idx] {
				continue
			}
			acc = acc.Add(skin[idx].MulVec3(v).Scale(w))
			total += w
		}
		if total == 0 {
			out[vi] = rigid.MulVec3(v)
			continue
		}
		out[vi] = acc.Scale(1 / total)
	}
	return out
}

// WorldPositions returns the static mesh's vertices in world space.
func (r *MeshRenderer) WorldPositions() []math3d.Vec3 {
	m := math3d.Identity()
	if r.Node != nil {
		m = r.Node.LocalToWorld()
	}
	out := make([]math3d.Vec3, len(r.SharedMesh.Vertices))
	for i, v := range r.SharedMesh.Vertices {
		out[i] = m.MulVec3(v)
	}
	return out
}
