package costume

import (
	"fmt"
	"slices"

	"github.com/taigrr/graft/pkg/models"
)

// Transplant rewrites duplicator's skinned mesh so that it carries mappedTo's
// geometry, with bone weights and bind poses expressed against duplicator's
// bone array. Weights are copied verbatim. The new mesh is an independent
// copy; mappedTo is never modified. The renderer material becomes a copy of
// mappedTo's.
//
// If either part lacks a skinned mesh, one MissingSkinnedMesh diagnostic is
// emitted and duplicator is returned untouched.
func Transplant(duplicator, mappedTo *models.Part, sink DiagnosticSink) *models.Part {
	dst := duplicator.SkinnedMesh()
	src := mappedTo.SkinnedMesh()
	if dst == nil || src == nil {
		msg := "does not have skinned mesh"
		if src != nil {
			msg = "template has no skinned mesh"
		}
		sink.emit(Diagnostic{
			Kind:    MissingSkinnedMesh,
			Part:    partName(mappedTo),
			Index:   -1,
			Message: msg,
		})
		return duplicator
	}

	part := partName(mappedTo)
	srcMesh := src.SharedMesh
	tmplMesh := dst.SharedMesh
	srcBones := BoneIndexOf(src.Bones)
	tmplBones := BoneIndexOf(dst.Bones)

	poses := BuildBindPoses(duplicator.Root, tmplBones.Names(), srcMesh.BindPoses, tmplMesh.BindPoses, func(i int, bone string) {
		sink.emit(Diagnostic{
			Kind:    MissingBone,
			Part:    part,
			Bone:    bone,
			Index:   i,
			Message: fmt.Sprintf("bone %q not in template hierarchy, using fallback bind pose", bone),
		})
	})

	remap := NewRemapper(srcBones, tmplBones)
	weights := make([]models.BoneWeight, len(srcMesh.BoneWeights))
	for v, bw := range srcMesh.BoneWeights {
		out := models.BoneWeight{Weight: bw.Weight}
		for k := range models.MaxInfluences {
			out.BoneIndex[k], _ = remap.Remap(bw.BoneIndex[k])
		}
		weights[v] = out
	}
	for _, m := range remap.Misses() {
		bone := fmt.Sprintf("%q", m.Bone)
		if m.Bone == "" {
			bone = fmt.Sprintf("source bone index %d", m.Index)
		}
		sink.emit(Diagnostic{
			Kind:    UnmappedBone,
			Part:    part,
			Bone:    m.Bone,
			Index:   m.Index,
			Count:   m.Count,
			Message: fmt.Sprintf("can't find bone mapping for %s, pinned to template bone 0", bone),
		})
	}

	mesh := tmplMesh.Clone()
	mesh.Clear()
	mesh.Vertices = slices.Clone(srcMesh.Vertices)
	mesh.UV = slices.Clone(srcMesh.UV)
	mesh.Triangles = slices.Clone(srcMesh.Triangles)
	mesh.RecalculateBounds()
	mesh.Normals = slices.Clone(srcMesh.Normals)
	mesh.Tangents = slices.Clone(srcMesh.Tangents)
	mesh.BoneWeights = weights
	mesh.BindPoses = poses

	dst.SharedMesh = mesh
	dst.SharedMaterial = src.SharedMaterial.Clone()
	return duplicator
}

func partName(p *models.Part) string {
	if p == nil {
		return "<nil>"
	}
	return p.Name
}
