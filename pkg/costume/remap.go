package costume

// Miss records a source bone that could not be mapped onto the template.
type Miss struct {
	Index int    // Position in the source bone array
	Bone  string // Empty when Index is outside the source array
	Count int    // Number of Remap calls that hit this bone
}

// Remapper translates bone positions from a source bone array into a template
// bone array by name.
type Remapper struct {
	source   *BoneIndex
	template *BoneIndex

	misses map[int]int // source index -> position in order
	order  []Miss
}

// NewRemapper creates a remapper between two bone arrays.
func NewRemapper(source, template *BoneIndex) *Remapper {
	return &Remapper{
		source:   source,
		template: template,
		misses:   make(map[int]int),
	}
}

// Remap returns the template position of source bone i. When the bone's name
// is unknown to the template, or i is outside the source array, it returns 0
// and false; the miss is recorded.
func (r *Remapper) Remap(i int) (int, bool) {
	name, ok := r.source.Name(i)
	if ok {
		if j, found := r.template.Index(name); found {
			return j, true
		}
	}

	if at, seen := r.misses[i]; seen {
		r.order[at].Count++
	} else {
		r.misses[i] = len(r.order)
		r.order = append(r.order, Miss{Index: i, Bone: name, Count: 1})
	}
	return 0, false
}

// Misses returns the unmapped source bones in the order first encountered.
func (r *Remapper) Misses() []Miss {
	return r.order
}
