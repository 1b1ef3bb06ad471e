// Package costume grafts body-part meshes onto a host skeleton. Bone weights
// and bind poses of a source part are rewritten against a template skeleton,
// matching bones by name, while geometry is carried over unchanged.
package costume

import (
	"slices"

	"github.com/taigrr/graft/pkg/scene"
)

// BoneIndex maps bone positions to names and back for one bone array.
type BoneIndex struct {
	names []string
	index map[string]int
}

// NewBoneIndex builds the lookups for names in order. When a name occurs more
// than once, the first occurrence wins for name -> index. Empty names are
// never indexed.
func NewBoneIndex(names []string) *BoneIndex {
	bi := &BoneIndex{
		names: slices.Clone(names),
		index: make(map[string]int, len(names)),
	}
	for i, name := range names {
		if name == "" {
			continue
		}
		if _, seen := bi.index[name]; !seen {
			bi.index[name] = i
		}
	}
	return bi
}

// BoneIndexOf indexes a renderer's bone array. Missing bones get an empty name.
func BoneIndexOf(bones []*scene.Node) *BoneIndex {
	names := make([]string, len(bones))
	for i, b := range bones {
		if b != nil {
			names[i] = b.Name
		}
	}
	return NewBoneIndex(names)
}

// Name returns the bone name at position i.
func (bi *BoneIndex) Name(i int) (string, bool) {
	if i < 0 || i >= len(bi.names) {
		return "", false
	}
	return bi.names[i], true
}

// Index returns the position of the bone called name.
func (bi *BoneIndex) Index(name string) (int, bool) {
	i, ok := bi.index[name]
	return i, ok
}

// Len returns the number of positions, duplicates included.
func (bi *BoneIndex) Len() int {
	return len(bi.names)
}

// Names returns a copy of the bone names in order.
func (bi *BoneIndex) Names() []string {
	return slices.Clone(bi.names)
}
