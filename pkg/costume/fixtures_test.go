package costume

import (
	"github.com/taigrr/graft/pkg/math3d"
	"github.com/taigrr/graft/pkg/models"
	"github.com/taigrr/graft/pkg/scene"
)

type bone struct {
	name   string
	parent string // Empty for a child of the part root
	at     math3d.Vec3
}

var templateSkeleton = []bone{
	{"root", "", math3d.V3(0, 1, 0)},
	{"spine", "root", math3d.V3(0, 0.5, 0)},
	{"head", "spine", math3d.V3(0, 0.4, 0)},
}

// rig builds a part whose skinned renderer sits on a "body" node and uses
// bones in the given order. Bind poses default to the rest pose. A nil mesh
// yields a part without a skinned renderer.
func rig(name string, bones []bone, mesh *models.Mesh) *models.Part {
	p := models.NewPart(name)
	nodes := make(map[string]*scene.Node)
	arr := make([]*scene.Node, len(bones))
	for i, b := range bones {
		n := scene.NewNode(b.name)
		n.Translation = b.at
		parent := p.Root
		if b.parent != "" {
			parent = nodes[b.parent]
		}
		n.SetParent(parent)
		nodes[b.name] = n
		arr[i] = n
	}
	body := scene.NewNode("body")
	body.SetParent(p.Root)

	if mesh == nil {
		return p
	}
	if mesh.BindPoses == nil {
		mesh.BindPoses = make([]math3d.Mat4, len(arr))
		for i, n := range arr {
			mesh.BindPoses[i] = n.WorldToLocal().Mul(p.Root.LocalToWorld())
		}
	}
	p.Skinned = &models.SkinnedMeshRenderer{
		Node:           body,
		Bones:          arr,
		SharedMesh:     mesh,
		SharedMaterial: models.NewMaterial(name + "-mat"),
	}
	return p
}

// weighted returns a single-influence bone weight.
func weighted(i int) models.BoneWeight {
	return models.BoneWeight{BoneIndex: [4]int{i, 0, 0, 0}, Weight: [4]float32{1, 0, 0, 0}}
}

// skinnedMesh creates one vertex per weight with distinct geometry.
func skinnedMesh(name string, weights ...models.BoneWeight) *models.Mesh {
	m := models.NewMesh(name)
	for i, w := range weights {
		f := float64(i)
		m.Vertices = append(m.Vertices, math3d.V3(f*0.1, 0.8+f*0.3, -f*0.05))
		m.UV = append(m.UV, math3d.V2(f*0.25, 1-f*0.25))
		m.Normals = append(m.Normals, math3d.V3(0, 0, 1))
		m.Tangents = append(m.Tangents, math3d.V4(1, 0, 0, -1))
		m.BoneWeights = append(m.BoneWeights, w)
	}
	for i := 0; i+2 < len(weights); i += 3 {
		m.Triangles = append(m.Triangles, i, i+1, i+2)
	}
	m.RecalculateBounds()
	return m
}

func templatePart(name string) *models.Part {
	return rig(name, templateSkeleton, skinnedMesh(name+"-mesh", weighted(0), weighted(1), weighted(2)))
}

type diffuse struct {
	mat *models.Material
}

func (d diffuse) DiffuseMaterial() *models.Material {
	return d.mat
}

func newBase() *BaseCostume {
	return &BaseCostume{
		Name: "raptor",
		Male: BodyParts{
			Torsos: []*models.Part{templatePart("male-torso")},
			Heads:  []*models.Part{templatePart("male-head")},
			Legs:   []*models.Part{templatePart("male-legs")},
		},
		Female: BodyParts{
			Torsos: []*models.Part{templatePart("female-torso")},
			Heads:  []*models.Part{templatePart("female-head")},
			Legs:   []*models.Part{templatePart("female-legs")},
		},
	}
}
