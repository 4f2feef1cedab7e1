package shader

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Carmen-Shannon/oxy-gallery/common"
)

// preProcessor is the implementation of the PreProcessor interface.
type preProcessor struct {
	// known reports whether a library name can be imported.
	known func(string) bool

	// imports accumulates library names in first-import order. Reset at the start of each Process call.
	imports []string
}

// PreProcessor strips @oxy: annotations from sketch source and collects the libraries the sketch
// imports.
type PreProcessor interface {
	// Process replaces every annotation line with an empty line, so line numbers within the sketch
	// are unchanged, and records the imports in the order they first appear.
	//
	// Parameters:
	//   - source: the raw sketch WGSL source
	//
	// Returns:
	//   - string: the source with annotations blanked out
	//   - error: common.ErrConfiguration wrapping the first malformed annotation
	Process(source string) (string, error)

	// Imports returns the library names collected by the most recent Process call, without
	// duplicates.
	//
	// Returns:
	//   - []string: the imported library names
	Imports() []string
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a PreProcessor that accepts imports of the given libraries.
//
// Parameters:
//   - libraries: the importable library names
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor
func NewPreProcessor(libraries []string) PreProcessor {
	names := slices.Clone(libraries)
	return &preProcessor{
		known: func(name string) bool { return slices.Contains(names, name) },
	}
}

func (p *preProcessor) Process(source string) (string, error) {
	p.imports = p.imports[:0]

	lines := strings.Split(source, "\n")
	for i, line := range lines {
		a, err := parseAnnotation(line, i+1, p.known)
		if err != nil {
			return "", fmt.Errorf("%w: %w", common.ErrConfiguration, err)
		}
		if a == nil {
			continue
		}

		switch a.Type {
		case AnnotationTypeImport:
			if !slices.Contains(p.imports, a.Args[0]) {
				p.imports = append(p.imports, a.Args[0])
			}
		}
		lines[i] = ""
	}
	return strings.Join(lines, "\n"), nil
}

func (p *preProcessor) Imports() []string {
	return slices.Clone(p.imports)
}
