package shader

import (
	"errors"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-gallery/common"
	"github.com/gogpu/naga"
)

// contextRadius is the number of source lines shown on each side of a diagnostic.
const contextRadius = 5

// diagnosticPatterns match the line/column prefixes produced by the WGSL front end and by the GPU
// driver's shader compiler.
var diagnosticPatterns = []*regexp.Regexp{
	regexp.MustCompile(`line (\d+), column (\d+): (.*)`),
	regexp.MustCompile(`wgsl:(\d+):(\d+)`),
	regexp.MustCompile(`(?m)^(\d+):(\d+): (.*)`),
}

// CompileOption configures Compile.
type CompileOption func(*compileConfig)

type compileConfig struct {
	strict bool
}

// WithStrictValidation makes lowering and IR validation failures fatal. By default only syntax
// errors are fatal and later diagnostics are logged, leaving the final word to the GPU driver.
//
// Returns:
//   - CompileOption: an option enabling strict validation
func WithStrictValidation() CompileOption {
	return func(c *compileConfig) {
		c.strict = true
	}
}

// Compile concatenates the given sources with newlines and checks the result with the WGSL front
// end. The returned Shader is ready to be turned into a GPU module.
//
// Parameters:
//   - key: the shader label used in diagnostics
//   - parts: the sources in assembly order
//   - opts: compile options
//
// Returns:
//   - Shader: the assembled shader
//   - error: *common.CompilationError on the first error-level diagnostic
func Compile(key string, parts []string, opts ...CompileOption) (Shader, error) {
	cfg := &compileConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	source := strings.Join(parts, "\n")

	ast, err := naga.Parse(source)
	if err != nil {
		return nil, NewCompilationError(key, source, err)
	}

	module, err := naga.LowerWithSource(ast, source)
	if err != nil {
		if cfg.strict {
			return nil, NewCompilationError(key, source, err)
		}
		log.Printf("[Shader] %s: front end could not lower module, deferring to driver: %v", key, err)
		return newShader(key, source), nil
	}

	issues, err := naga.Validate(module)
	if err != nil && cfg.strict {
		return nil, NewCompilationError(key, source, err)
	}
	for _, issue := range issues {
		if cfg.strict {
			return nil, NewCompilationError(key, source, issue)
		}
		log.Printf("[Shader] %s: validation warning: %v", key, issue)
	}

	return newShader(key, source), nil
}

// NewCompilationError builds a CompilationError from a compiler error, extracting the line and
// column when the message carries them.
//
// Parameters:
//   - key: the shader label
//   - source: the full source that was compiled
//   - err: the compiler error
//
// Returns:
//   - *common.CompilationError: the structured error
func NewCompilationError(key, source string, err error) *common.CompilationError {
	var compErr *common.CompilationError
	if errors.As(err, &compErr) {
		return compErr
	}

	line, column, message := parseDiagnostic(err.Error())
	return &common.CompilationError{
		Label:   key,
		Line:    line,
		Column:  column,
		Message: message,
		Context: contextWindow(source, line),
	}
}

// parseDiagnostic pulls the first line:column pair out of a compiler message.
func parseDiagnostic(msg string) (int, int, string) {
	for _, re := range diagnosticPatterns {
		m := re.FindStringSubmatch(msg)
		if m == nil {
			continue
		}
		line, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		column, _ := strconv.Atoi(m[2])
		text := msg
		if len(m) > 3 && m[3] != "" {
			text = m[3]
		}
		return line, column, strings.TrimSpace(text)
	}
	return 0, 0, strings.TrimSpace(msg)
}

// contextWindow returns up to contextRadius lines on each side of a 1-based line, each labeled with
// its line number and the offending line marked with '>'.
func contextWindow(source string, line int) string {
	if line < 1 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if line > len(lines) {
		return ""
	}

	start := max(line-contextRadius, 1)
	end := min(line+contextRadius, len(lines))
	var sb strings.Builder
	for i := start; i <= end; i++ {
		marker := " "
		if i == line {
			marker = ">"
		}
		fmt.Fprintf(&sb, "%s%4d | %s", marker, i, lines[i-1])
		if i < end {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
