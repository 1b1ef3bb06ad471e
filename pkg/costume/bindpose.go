package costume

import (
	"github.com/taigrr/graft/pkg/math3d"
	"github.com/taigrr/graft/pkg/scene"
)

// BuildBindPoses returns one bind pose per template bone, in template order.
//
// A bone found by name under instance gets
// found.WorldToLocal() * instance.LocalToWorld(), its rest space relative to
// the instance root. A bone that cannot be found takes the source bind pose
// at the same position, then the template's own, then identity; missing is
// called for each such bone.
func BuildBindPoses(instance *scene.Node, bones []string, source, template []math3d.Mat4, missing func(i int, bone string)) []math3d.Mat4 {
	poses := make([]math3d.Mat4, len(bones))
	rootToWorld := instance.LocalToWorld()

	for i, name := range bones {
		var found *scene.Node
		if name != "" {
			found = instance.FindRecursive(name)
		}
		if found != nil {
			poses[i] = found.WorldToLocal().Mul(rootToWorld)
			continue
		}

		switch {
		case i < len(source):
			poses[i] = source[i]
		case i < len(template):
			poses[i] = template[i]
		default:
			poses[i] = math3d.Identity()
		}
		if missing != nil {
			missing(i, name)
		}
	}
	return poses
}
