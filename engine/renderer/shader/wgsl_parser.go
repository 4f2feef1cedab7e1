package shader

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	// vertexEntryRegex matches the first @vertex entry point and captures its function name.
	vertexEntryRegex = regexp.MustCompile(`(?s)@vertex\b\s*fn\s+(\w+)`)

	// fragmentEntryRegex matches the first @fragment entry point and captures its function name.
	fragmentEntryRegex = regexp.MustCompile(`(?s)@fragment\b\s*fn\s+(\w+)`)

	// bindGroupDeclRegex matches @group(N) @binding(M) var<space> name: type; declarations.
	bindGroupDeclRegex = regexp.MustCompile(`@group\((\d+)\)\s*@binding\((\d+)\)\s*var(?:<([^>]*)>)?\s+(\w+)\s*:\s*([^;]+?)\s*;`)
)

// Binding is one resource declaration found in WGSL source.
type Binding struct {
	Group        int
	Binding      int
	AddressSpace string
	Name         string
	Type         string
}

// parseEntryPoints extracts every @vertex and @fragment entry point name from WGSL source.
//
// Parameters:
//   - source: the raw WGSL source code string
//
// Returns:
//   - map[ShaderType][]string: entry point names keyed by stage, in source order
func parseEntryPoints(source string) map[ShaderType][]string {
	cleaned := stripComments(source)
	entries := make(map[ShaderType][]string)
	for stage, re := range map[ShaderType]*regexp.Regexp{
		ShaderTypeVertex:   vertexEntryRegex,
		ShaderTypeFragment: fragmentEntryRegex,
	} {
		for _, match := range re.FindAllStringSubmatch(cleaned, -1) {
			entries[stage] = append(entries[stage], match[1])
		}
	}
	return entries
}

// parseBindings extracts all @group(N) @binding(M) declarations from WGSL source, sorted by group
// and then binding.
//
// Parameters:
//   - source: the raw WGSL source code string
//
// Returns:
//   - []Binding: the declarations found
func parseBindings(source string) []Binding {
	cleaned := stripComments(source)
	matches := bindGroupDeclRegex.FindAllStringSubmatch(cleaned, -1)
	bindings := make([]Binding, 0, len(matches))
	for _, m := range matches {
		group, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		binding, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		bindings = append(bindings, Binding{
			Group:        group,
			Binding:      binding,
			AddressSpace: strings.TrimSpace(m[3]),
			Name:         m[4],
			Type:         strings.TrimSpace(m[5]),
		})
	}
	sort.Slice(bindings, func(i, j int) bool {
		if bindings[i].Group != bindings[j].Group {
			return bindings[i].Group < bindings[j].Group
		}
		return bindings[i].Binding < bindings[j].Binding
	})
	return bindings
}

// stripComments removes both line and block comments from WGSL source.
//
// Parameters:
//   - source: raw WGSL source string
//
// Returns:
//   - string: source with all comments removed
func stripComments(source string) string {
	return stripLineComments(stripBlockComments(source))
}

// stripLineComments removes single-line // comments from WGSL source.
func stripLineComments(source string) string {
	var sb strings.Builder
	for line := range strings.SplitSeq(source, "\n") {
		if idx := strings.Index(line, "//"); idx >= 0 {
			line = line[:idx]
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// stripBlockComments removes block comments (/* ... */) from WGSL source, handling nested block
// comments. Newlines inside comments are kept so line numbers survive.
func stripBlockComments(source string) string {
	var sb strings.Builder
	sb.Grow(len(source))
	depth := 0
	i := 0
	for i < len(source) {
		if i+1 < len(source) {
			if source[i] == '/' && source[i+1] == '*' {
				depth++
				i += 2
				continue
			}
			if source[i] == '*' && source[i+1] == '/' {
				if depth > 0 {
					depth--
				}
				i += 2
				continue
			}
		}
		if depth == 0 || source[i] == '\n' {
			sb.WriteByte(source[i])
		}
		i++
	}
	return sb.String()
}
