package models

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/graft/pkg/scene"
)

// GLBExporter collects parts into a single glTF document. Each part becomes
// a root of the default scene.
type GLBExporter struct {
	doc    *gltf.Document
	images map[image.Image]int // texture index per already-written image
}

// NewGLBExporter creates an exporter with an empty document.
func NewGLBExporter() *GLBExporter {
	doc := gltf.NewDocument()
	if len(doc.Scenes) == 0 {
		doc.Scenes = append(doc.Scenes, &gltf.Scene{Name: "costume"})
	}
	if doc.Scene == nil {
		doc.Scene = gltf.Index(0)
	}
	return &GLBExporter{
		doc:    doc,
		images: make(map[image.Image]int),
	}
}

// Document returns the document built so far.
func (e *GLBExporter) Document() *gltf.Document {
	return e.doc
}

// Save writes the document as binary glTF.
func (e *GLBExporter) Save(path string) error {
	if err := gltf.SaveBinary(e.doc, path); err != nil {
		return fmt.Errorf("save glb: %w", err)
	}
	return nil
}

// AddPart writes the part's hierarchy and renderers. Skinned renderer bones
// must live inside the part's hierarchy.
func (e *GLBExporter) AddPart(p *Part) error {
	doc := e.doc
	index := make(map[*scene.Node]int)

	var add func(n *scene.Node) int
	add = func(n *scene.Node) int {
		i := len(doc.Nodes)
		index[n] = i
		doc.Nodes = append(doc.Nodes, &gltf.Node{
			Name:        n.Name,
			Translation: [3]float64{n.Translation.X, n.Translation.Y, n.Translation.Z},
			Rotation:    [4]float64{n.Rotation.X, n.Rotation.Y, n.Rotation.Z, n.Rotation.W},
			Scale:       [3]float64{n.Scale.X, n.Scale.Y, n.Scale.Z},
		})
		for _, c := range n.Children() {
			ci := add(c)
			doc.Nodes[i].Children = append(doc.Nodes[i].Children, ci)
		}
		return i
	}
	root := add(p.Root)
	doc.Scenes[*doc.Scene].Nodes = append(doc.Scenes[*doc.Scene].Nodes, root)

	if r := p.SkinnedMesh(); r != nil {
		host, ok := index[r.Node]
		if !ok {
			host = root
		}
		joints := make([]int, len(r.Bones))
		for i, b := range r.Bones {
			j, ok := index[b]
			if !ok {
				return fmt.Errorf("part %q: bone %d is outside the part hierarchy", p.Name, i)
			}
			joints[i] = j
		}

		meshIdx, err := e.writeMesh(r.SharedMesh, r.SharedMaterial)
		if err != nil {
			return fmt.Errorf("part %q: %w", p.Name, err)
		}

		ibm := make([][4][4]float32, len(r.Bones))
		for i := range ibm {
			if i < len(r.SharedMesh.BindPoses) {
				ibm[i] = r.SharedMesh.BindPoses[i].Float32()
			}
		}
		doc.Skins = append(doc.Skins, &gltf.Skin{
			Name:                p.Name,
			Joints:              joints,
			InverseBindMatrices: gltf.Index(modeler.WriteAccessor(doc, gltf.TargetNone, ibm)),
		})
		doc.Nodes[host].Mesh = gltf.Index(meshIdx)
		doc.Nodes[host].Skin = gltf.Index(len(doc.Skins) - 1)
	}

	if r := p.MeshRenderer(); r != nil {
		host, ok := index[r.Node]
		if !ok {
			host = root
		}
		if doc.Nodes[host].Mesh != nil {
			// Host already carries the skinned mesh; hang the static mesh off a child.
			child := len(doc.Nodes)
			doc.Nodes = append(doc.Nodes, &gltf.Node{Name: r.SharedMesh.Name})
			doc.Nodes[host].Children = append(doc.Nodes[host].Children, child)
			host = child
		}
		meshIdx, err := e.writeMesh(r.SharedMesh, r.SharedMaterial)
		if err != nil {
			return fmt.Errorf("part %q: %w", p.Name, err)
		}
		doc.Nodes[host].Mesh = gltf.Index(meshIdx)
	}

	return nil
}

// writeMesh writes geometry, skinning attributes and material as one primitive.
func (e *GLBExporter) writeMesh(m *Mesh, mat *Material) (int, error) {
	doc := e.doc
	n := len(m.Vertices)

	positions := make([][3]float32, n)
	for i, v := range m.Vertices {
		positions[i] = v.Float32()
	}
	attributes := map[string]int{
		gltf.POSITION: modeler.WritePosition(doc, positions),
	}

	if len(m.Normals) == n && n > 0 {
		normals := make([][3]float32, n)
		for i, v := range m.Normals {
			normals[i] = v.Float32()
		}
		attributes[gltf.NORMAL] = modeler.WriteNormal(doc, normals)
	}
	if len(m.Tangents) == n && n > 0 {
		tangents := make([][4]float32, n)
		for i, t := range m.Tangents {
			tangents[i] = [4]float32{float32(t.X), float32(t.Y), float32(t.Z), float32(t.W)}
		}
		attributes[gltf.TANGENT] = modeler.WriteTangent(doc, tangents)
	}
	if len(m.UV) == n && n > 0 {
		uvs := make([][2]float32, n)
		for i, uv := range m.UV {
			uvs[i] = [2]float32{float32(uv.X), float32(uv.Y)}
		}
		attributes[gltf.TEXCOORD_0] = modeler.WriteTextureCoord(doc, uvs)
	}
	if len(m.BoneWeights) == n && n > 0 {
		joints := make([][4]uint16, n)
		weights := make([][4]float32, n)
		for i, bw := range m.BoneWeights {
			for k := range MaxInfluences {
				if bw.BoneIndex[k] < 0 || bw.BoneIndex[k] > 0xFFFF {
					return 0, fmt.Errorf("mesh %q: vertex %d bone index %d out of range", m.Name, i, bw.BoneIndex[k])
				}
				joints[i][k] = uint16(bw.BoneIndex[k])
			}
			weights[i] = bw.Weight
		}
		attributes[gltf.JOINTS_0] = modeler.WriteJoints(doc, joints)
		attributes[gltf.WEIGHTS_0] = modeler.WriteWeights(doc, weights)
	}

	prim := &gltf.Primitive{
		Attributes: attributes,
	}
	if len(m.Triangles) > 0 {
		indices := make([]uint32, len(m.Triangles))
		for i, t := range m.Triangles {
			indices[i] = uint32(t)
		}
		prim.Indices = gltf.Index(modeler.WriteIndices(doc, indices))
	}
	if mat != nil {
		matIdx, err := e.writeMaterial(mat)
		if err != nil {
			return 0, err
		}
		prim.Material = gltf.Index(matIdx)
	}

	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Name:       m.Name,
		Primitives: []*gltf.Primitive{prim},
	})
	return len(doc.Meshes) - 1, nil
}

// writeMaterial writes a PBR material; the main texture is embedded as PNG
// once per distinct image.
func (e *GLBExporter) writeMaterial(mat *Material) (int, error) {
	doc := e.doc
	baseColor := mat.BaseColor
	pbr := &gltf.PBRMetallicRoughness{
		BaseColorFactor: &baseColor,
		MetallicFactor:  gltf.Float(mat.Metallic),
		RoughnessFactor: gltf.Float(mat.Roughness),
	}

	if mat.MainTexture != nil {
		texIdx, ok := e.images[mat.MainTexture]
		if !ok {
			var buf bytes.Buffer
			if err := png.Encode(&buf, mat.MainTexture); err != nil {
				return 0, fmt.Errorf("material %q: encode texture: %w", mat.Name, err)
			}
			imgIdx, err := modeler.WriteImage(doc, mat.Name, "image/png", &buf)
			if err != nil {
				return 0, fmt.Errorf("material %q: write image: %w", mat.Name, err)
			}
			doc.Textures = append(doc.Textures, &gltf.Texture{Source: gltf.Index(imgIdx)})
			texIdx = len(doc.Textures) - 1
			e.images[mat.MainTexture] = texIdx
		}
		pbr.BaseColorTexture = &gltf.TextureInfo{Index: texIdx}
	}

	doc.Materials = append(doc.Materials, &gltf.Material{
		Name:                 mat.Name,
		PBRMetallicRoughness: pbr,
	})
	return len(doc.Materials) - 1, nil
}
