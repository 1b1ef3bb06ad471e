package models

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/graft/pkg/math3d"
	"github.com/taigrr/graft/pkg/scene"
)

// GLTFLoader loads GLTF/GLB files into Parts.
type GLTFLoader struct {
	// Options
	LoadTextures bool
}

// NewGLTFLoader creates a new GLTF loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{
		LoadTextures: true,
	}
}

// LoadPart loads a GLTF or GLB file as a Part.
func LoadPart(path string) (*Part, error) {
	return NewGLTFLoader().Load(path)
}

// Load loads a GLTF or GLB file and returns a Part named after the file.
func (l *GLTFLoader) Load(path string) (*Part, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	part, err := l.Decode(doc, filepath.Dir(path), name)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return part, nil
}

// Decode builds a Part from a parsed document. dir resolves external image URIs.
// The first node with both a mesh and a skin becomes the skinned renderer; the
// first node with a mesh and no skin becomes the static renderer.
func (l *GLTFLoader) Decode(doc *gltf.Document, dir, name string) (*Part, error) {
	nodes := make([]*scene.Node, len(doc.Nodes))
	for i, n := range doc.Nodes {
		nodes[i] = nodeFromGLTF(n, i)
	}
	for i, n := range doc.Nodes {
		for _, c := range n.Children {
			if c < 0 || c >= len(nodes) {
				return nil, fmt.Errorf("node %d: child %d out of range", i, c)
			}
			nodes[c].SetParent(nodes[i])
		}
	}

	roots := sceneRoots(doc, nodes)
	part := &Part{Name: name}
	if len(roots) == 1 {
		part.Root = roots[0]
	} else {
		part.Root = scene.NewNode(name)
		for _, r := range roots {
			r.SetParent(part.Root)
		}
	}

	for i, n := range doc.Nodes {
		if n.Mesh == nil {
			continue
		}
		if *n.Mesh < 0 || *n.Mesh >= len(doc.Meshes) {
			return nil, fmt.Errorf("node %d: mesh %d out of range", i, *n.Mesh)
		}

		switch {
		case n.Skin != nil && part.Skinned == nil:
			r, err := l.readSkinned(doc, dir, n, nodes)
			if err != nil {
				return nil, fmt.Errorf("node %q: %w", nodes[i].Name, err)
			}
			r.Node = nodes[i]
			part.Skinned = r
		case n.Skin == nil && part.Renderer == nil:
			mesh, mat, err := l.readMesh(doc, dir, doc.Meshes[*n.Mesh])
			if err != nil {
				return nil, fmt.Errorf("node %q: %w", nodes[i].Name, err)
			}
			part.Renderer = &MeshRenderer{
				Node:           nodes[i],
				SharedMesh:     mesh,
				SharedMaterial: mat,
			}
		}
	}

	return part, nil
}

// nodeFromGLTF converts a glTF node's local transform.
func nodeFromGLTF(n *gltf.Node, index int) *scene.Node {
	name := n.Name
	if name == "" {
		name = fmt.Sprintf("node_%d", index)
	}
	node := scene.NewNode(name)

	if n.Matrix != ([16]float64{}) {
		m := math3d.Mat4(n.Matrix)
		if !m.IsIdentity() {
			node.SetLocalMatrix(m)
			return node
		}
	}

	node.Translation = math3d.V3(n.Translation[0], n.Translation[1], n.Translation[2])
	if n.Rotation != ([4]float64{}) {
		node.Rotation = math3d.Quat{X: n.Rotation[0], Y: n.Rotation[1], Z: n.Rotation[2], W: n.Rotation[3]}
	}
	if n.Scale != ([3]float64{}) {
		node.Scale = math3d.V3(n.Scale[0], n.Scale[1], n.Scale[2])
	}
	return node
}

// sceneRoots returns the root nodes of the default scene, or every parentless
// node when the document declares no scene.
func sceneRoots(doc *gltf.Document, nodes []*scene.Node) []*scene.Node {
	sceneIdx := 0
	if doc.Scene != nil {
		sceneIdx = *doc.Scene
	}
	var roots []*scene.Node
	if sceneIdx >= 0 && sceneIdx < len(doc.Scenes) {
		for _, i := range doc.Scenes[sceneIdx].Nodes {
			if i >= 0 && i < len(nodes) && nodes[i].Parent() == nil {
				roots = append(roots, nodes[i])
			}
		}
	}
	if len(roots) > 0 {
		return roots
	}
	for _, n := range nodes {
		if n.Parent() == nil {
			roots = append(roots, n)
		}
	}
	return roots
}

// readSkinned extracts a skinned renderer: mesh, bone array and bind poses.
func (l *GLTFLoader) readSkinned(doc *gltf.Document, dir string, n *gltf.Node, nodes []*scene.Node) (*SkinnedMeshRenderer, error) {
	if *n.Skin < 0 || *n.Skin >= len(doc.Skins) {
		return nil, fmt.Errorf("skin %d out of range", *n.Skin)
	}
	skin := doc.Skins[*n.Skin]

	mesh, mat, err := l.readMesh(doc, dir, doc.Meshes[*n.Mesh])
	if err != nil {
		return nil, err
	}

	bones := make([]*scene.Node, len(skin.Joints))
	for i, j := range skin.Joints {
		if j < 0 || j >= len(nodes) {
			return nil, fmt.Errorf("joint %d: node %d out of range", i, j)
		}
		bones[i] = nodes[j]
	}

	mesh.BindPoses = make([]math3d.Mat4, len(bones))
	for i := range mesh.BindPoses {
		mesh.BindPoses[i] = math3d.Identity()
	}
	if skin.InverseBindMatrices != nil {
		ibm, err := readMat4Accessor(doc, *skin.InverseBindMatrices)
		if err != nil {
			return nil, fmt.Errorf("read inverse bind matrices: %w", err)
		}
		copy(mesh.BindPoses, ibm)
	}

	return &SkinnedMeshRenderer{
		Bones:          bones,
		SharedMesh:     mesh,
		SharedMaterial: mat,
	}, nil
}

// readMesh merges every triangle primitive of a glTF mesh into one Mesh.
// Geometry keeps glTF conventions (no UV flip, no winding change) so an
// exported costume reproduces its inputs exactly.
func (l *GLTFLoader) readMesh(doc *gltf.Document, dir string, gm *gltf.Mesh) (*Mesh, *Material, error) {
	mesh := NewMesh(gm.Name)
	var material *Material

	for pi, prim := range gm.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			// Skip non-triangle primitives (lines, points, etc)
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
		if err != nil {
			return nil, nil, fmt.Errorf("primitive %d: read positions: %w", pi, err)
		}

		baseVertex := len(mesh.Vertices)
		count := len(positions)
		for _, p := range positions {
			mesh.Vertices = append(mesh.Vertices, math3d.V3From32(p))
		}

		if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
			normals, err := modeler.ReadNormal(doc, doc.Accessors[idx], nil)
			if err != nil {
				return nil, nil, fmt.Errorf("primitive %d: read normals: %w", pi, err)
			}
			mesh.Normals = padTo(mesh.Normals, baseVertex)
			for _, n := range normals {
				mesh.Normals = append(mesh.Normals, math3d.V3From32(n))
			}
		}

		if idx, ok := prim.Attributes[gltf.TANGENT]; ok {
			tangents, err := modeler.ReadTangent(doc, doc.Accessors[idx], nil)
			if err != nil {
				return nil, nil, fmt.Errorf("primitive %d: read tangents: %w", pi, err)
			}
			mesh.Tangents = padTo(mesh.Tangents, baseVertex)
			for _, t := range tangents {
				mesh.Tangents = append(mesh.Tangents, math3d.V4(float64(t[0]), float64(t[1]), float64(t[2]), float64(t[3])))
			}
		}

		if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
			uvs, err := modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil)
			if err != nil {
				return nil, nil, fmt.Errorf("primitive %d: read uvs: %w", pi, err)
			}
			mesh.UV = padTo(mesh.UV, baseVertex)
			for _, uv := range uvs {
				mesh.UV = append(mesh.UV, math3d.V2(float64(uv[0]), float64(uv[1])))
			}
		}

		jIdx, hasJoints := prim.Attributes[gltf.JOINTS_0]
		wIdx, hasWeights := prim.Attributes[gltf.WEIGHTS_0]
		if hasJoints && hasWeights {
			joints, err := modeler.ReadJoints(doc, doc.Accessors[jIdx], nil)
			if err != nil {
				return nil, nil, fmt.Errorf("primitive %d: read joints: %w", pi, err)
			}
			weights, err := modeler.ReadWeights(doc, doc.Accessors[wIdx], nil)
			if err != nil {
				return nil, nil, fmt.Errorf("primitive %d: read weights: %w", pi, err)
			}
			if len(joints) != count || len(weights) != count {
				return nil, nil, fmt.Errorf("primitive %d: %d joints and %d weights for %d vertices", pi, len(joints), len(weights), count)
			}
			mesh.BoneWeights = padTo(mesh.BoneWeights, baseVertex)
			for i := range joints {
				var bw BoneWeight
				for k := range MaxInfluences {
					bw.BoneIndex[k] = int(joints[i][k])
					bw.Weight[k] = weights[i][k]
				}
				mesh.BoneWeights = append(mesh.BoneWeights, bw)
			}
		}

		if prim.Indices != nil {
			indices, err := modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
			if err != nil {
				return nil, nil, fmt.Errorf("primitive %d: read indices: %w", pi, err)
			}
			for _, i := range indices {
				mesh.Triangles = append(mesh.Triangles, baseVertex+int(i))
			}
		} else {
			// No indices, assume sequential triangles
			for i := 0; i+2 < count; i += 3 {
				mesh.Triangles = append(mesh.Triangles, baseVertex+i, baseVertex+i+1, baseVertex+i+2)
			}
		}

		if material == nil && prim.Material != nil {
			material, err = l.readMaterial(doc, dir, *prim.Material)
			if err != nil {
				return nil, nil, fmt.Errorf("primitive %d: %w", pi, err)
			}
		}
	}

	// Keep attribute arrays aligned with the vertex array when only some
	// primitives carried them.
	n := len(mesh.Vertices)
	if len(mesh.Normals) > 0 {
		mesh.Normals = padTo(mesh.Normals, n)
	}
	if len(mesh.Tangents) > 0 {
		mesh.Tangents = padTo(mesh.Tangents, n)
	}
	if len(mesh.UV) > 0 {
		mesh.UV = padTo(mesh.UV, n)
	}
	if len(mesh.BoneWeights) > 0 {
		mesh.BoneWeights = padTo(mesh.BoneWeights, n)
	}

	if material == nil {
		material = NewMaterial("default")
	}
	mesh.RecalculateBounds()
	return mesh, material, nil
}

// readMaterial converts a glTF PBR material, decoding its base color texture.
func (l *GLTFLoader) readMaterial(doc *gltf.Document, dir string, index int) (*Material, error) {
	if index < 0 || index >= len(doc.Materials) {
		return nil, fmt.Errorf("material %d out of range", index)
	}
	gm := doc.Materials[index]
	mat := NewMaterial(gm.Name)

	pbr := gm.PBRMetallicRoughness
	if pbr == nil {
		return mat, nil
	}
	if pbr.BaseColorFactor != nil {
		mat.BaseColor = *pbr.BaseColorFactor
	}
	if pbr.MetallicFactor != nil {
		mat.Metallic = *pbr.MetallicFactor
	}
	if pbr.RoughnessFactor != nil {
		mat.Roughness = *pbr.RoughnessFactor
	}

	if l.LoadTextures && pbr.BaseColorTexture != nil {
		data, err := textureBytes(doc, dir, pbr.BaseColorTexture.Index)
		if err != nil {
			return nil, fmt.Errorf("material %q: %w", gm.Name, err)
		}
		if data != nil {
			img, err := DecodeTexture(data)
			if err != nil {
				return nil, fmt.Errorf("material %q: %w", gm.Name, err)
			}
			mat.MainTexture = img
		}
	}
	return mat, nil
}

// textureBytes returns the encoded image behind a texture, or nil if the
// texture has no source.
func textureBytes(doc *gltf.Document, dir string, texIdx int) ([]byte, error) {
	if texIdx < 0 || texIdx >= len(doc.Textures) {
		return nil, fmt.Errorf("texture %d out of range", texIdx)
	}
	tex := doc.Textures[texIdx]
	if tex.Source == nil {
		return nil, nil
	}
	if *tex.Source < 0 || *tex.Source >= len(doc.Images) {
		return nil, fmt.Errorf("image %d out of range", *tex.Source)
	}
	img := doc.Images[*tex.Source]

	switch {
	case img.BufferView != nil:
		return bufferViewBytes(doc, *img.BufferView)
	case img.IsEmbeddedResource():
		return img.MarshalData()
	case img.URI != "":
		// External texture file
		data, err := os.ReadFile(filepath.Join(dir, img.URI))
		if err != nil {
			return nil, fmt.Errorf("read image: %w", err)
		}
		return data, nil
	}
	return nil, nil
}

// bufferViewBytes slices a buffer view out of its loaded buffer.
func bufferViewBytes(doc *gltf.Document, bvIdx int) ([]byte, error) {
	if bvIdx < 0 || bvIdx >= len(doc.BufferViews) {
		return nil, fmt.Errorf("buffer view %d out of range", bvIdx)
	}
	bv := doc.BufferViews[bvIdx]
	if bv.Buffer < 0 || bv.Buffer >= len(doc.Buffers) {
		return nil, fmt.Errorf("buffer %d out of range", bv.Buffer)
	}
	data := doc.Buffers[bv.Buffer].Data
	end := bv.ByteOffset + bv.ByteLength
	if data == nil || end > len(data) {
		return nil, fmt.Errorf("buffer view %d exceeds buffer data", bvIdx)
	}
	return data[bv.ByteOffset:end], nil
}

// readMat4Accessor reads a MAT4 float accessor.
func readMat4Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Mat4, error) {
	if accessorIdx < 0 || accessorIdx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", accessorIdx)
	}
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorMat4 {
		return nil, fmt.Errorf("expected MAT4, got %v", accessor.Type)
	}

	data, err := modeler.ReadAccessor(doc, accessor, nil)
	if err != nil {
		return nil, err
	}
	mats, ok := data.([][4][4]float32)
	if !ok {
		return nil, fmt.Errorf("unexpected data type for MAT4: %T", data)
	}

	result := make([]math3d.Mat4, len(mats))
	for i, m := range mats {
		result[i] = math3d.Mat4From32(m)
	}
	return result, nil
}

// padTo extends s with zero values up to length n.
func padTo[T any](s []T, n int) []T {
	for len(s) < n {
		var zero T
		s = append(s, zero)
	}
	return s
}
