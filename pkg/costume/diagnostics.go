package costume

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// Kind classifies a diagnostic.
type Kind int

const (
	// MissingSkinnedMesh means a part had no skinned renderer, so no remap ran.
	MissingSkinnedMesh Kind = iota
	// UnmappedBone means a source bone has no counterpart in the template bone array.
	UnmappedBone
	// MissingBone means a template bone was not found in the instantiated hierarchy.
	MissingBone
	// MissingMeshRenderer means a hairstyle had no renderer to recolor.
	MissingMeshRenderer
)

func (k Kind) String() string {
	switch k {
	case MissingSkinnedMesh:
		return "missing-skinned-mesh"
	case UnmappedBone:
		return "unmapped-bone"
	case MissingBone:
		return "missing-bone"
	case MissingMeshRenderer:
		return "missing-mesh-renderer"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Diagnostic reports a recovered problem. The assembly always continues;
// the diagnostic says what was degraded.
type Diagnostic struct {
	Kind    Kind
	Part    string // Source part name
	Bone    string // Bone name, if any
	Index   int    // Bone position in the relevant bone array, -1 if none
	Count   int    // Weight slots affected (UnmappedBone only)
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", d.Kind, d.Part, d.Message)
}

// DiagnosticSink receives diagnostics as they are produced.
type DiagnosticSink func(Diagnostic)

func (s DiagnosticSink) emit(d Diagnostic) {
	if s != nil {
		s(d)
	}
}

// Recorder collects diagnostics in emission order.
type Recorder struct {
	diags []Diagnostic
}

// Sink returns a sink appending to r.
func (r *Recorder) Sink() DiagnosticSink {
	return func(d Diagnostic) {
		r.diags = append(r.diags, d)
	}
}

// Diagnostics returns everything recorded so far.
func (r *Recorder) Diagnostics() []Diagnostic {
	return r.diags
}

// Count returns how many diagnostics of kind were recorded.
func (r *Recorder) Count(kind Kind) int {
	n := 0
	for _, d := range r.diags {
		if d.Kind == kind {
			n++
		}
	}
	return n
}

// Reset drops all recorded diagnostics.
func (r *Recorder) Reset() {
	r.diags = nil
}

// LogSink forwards diagnostics to logger as warnings.
func LogSink(logger *log.Logger) DiagnosticSink {
	return func(d Diagnostic) {
		kv := []any{"kind", d.Kind.String(), "part", d.Part}
		if d.Bone != "" {
			kv = append(kv, "bone", d.Bone)
		}
		if d.Index >= 0 {
			kv = append(kv, "index", d.Index)
		}
		if d.Count > 0 {
			kv = append(kv, "slots", d.Count)
		}
		logger.Warn(d.Message, kv...)
	}
}

// Tee fans diagnostics out to every non-nil sink.
func Tee(sinks ...DiagnosticSink) DiagnosticSink {
	return func(d Diagnostic) {
		for _, s := range sinks {
			s.emit(d)
		}
	}
}
