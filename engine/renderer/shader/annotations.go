// annotations.go defines the @oxy: annotation syntax used by sketch sources. Annotations are
// single-line WGSL comments that the PreProcessor consumes before compilation; the GPU compiler
// never sees them.
//
// Syntax:
//
//	//@oxy:import <library>
//
// Example:
//
//	//@oxy:import sdf2d
package shader

import (
	"fmt"
	"strings"
)

// annotationPrefix is the marker that identifies an Oxy annotation within a WGSL comment line.
const annotationPrefix = "@oxy:"

// AnnotationType identifies the kind of annotation parsed from a WGSL comment line.
type AnnotationType string

const (
	// AnnotationTypeImport pulls an importable library into the assembled shader. Libraries are
	// placed after the machine library and before the sketch, in first-import order.
	AnnotationTypeImport AnnotationType = "import"
)

// Annotation is a single parsed @oxy: annotation.
type Annotation struct {
	// Type identifies which annotation was parsed.
	Type AnnotationType

	// Args holds the annotation's arguments. For import: [0] = library name.
	Args []string

	// Line is the 1-based line number in the sketch source where the annotation was found.
	Line int
}

// parseAnnotation attempts to parse a single line of WGSL source as an @oxy: annotation.
// Returns nil with no error for lines that do not start with a comment carrying the prefix.
//
// Parameters:
//   - line: the raw WGSL source line to parse
//   - lineNum: the 1-based line number for error reporting
//   - known: reports whether a library name can be imported
//
// Returns:
//   - *Annotation: the parsed annotation, or nil if the line is not an annotation
//   - error: a descriptive error if the annotation is malformed
func parseAnnotation(line string, lineNum int, known func(string) bool) (*Annotation, error) {
	comment, ok := strings.CutPrefix(strings.TrimSpace(line), "//")
	if !ok {
		return nil, nil
	}
	after, ok := strings.CutPrefix(strings.TrimSpace(comment), annotationPrefix)
	if !ok {
		return nil, nil
	}

	args := strings.Fields(after)
	if len(args) == 0 {
		return nil, fmt.Errorf("line %d: empty @oxy annotation", lineNum)
	}

	switch AnnotationType(args[0]) {
	case AnnotationTypeImport:
		if len(args) != 2 {
			return nil, fmt.Errorf("line %d: @oxy import annotation requires exactly one argument", lineNum)
		}
		if !known(args[1]) {
			return nil, fmt.Errorf("line %d: unknown library %q in @oxy import annotation", lineNum, args[1])
		}
		return &Annotation{
			Type: AnnotationTypeImport,
			Args: args[1:],
			Line: lineNum,
		}, nil
	default:
		return nil, fmt.Errorf("line %d: unknown @oxy annotation type %q", lineNum, args[0])
	}
}
