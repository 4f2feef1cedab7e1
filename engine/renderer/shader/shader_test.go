package shader

import (
	"errors"
	"io/fs"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"testing/fstest"

	"github.com/Carmen-Shannon/oxy-gallery/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingFS counts every Open call on the wrapped file system.
type countingFS struct {
	fs.FS
	opens atomic.Int32
}

func (c *countingFS) Open(name string) (fs.File, error) {
	c.opens.Add(1)
	return c.FS.Open(name)
}

func TestParseAnnotation(t *testing.T) {
	known := func(name string) bool { return name == "sdf2d" }

	a, err := parseAnnotation("  //@oxy:import sdf2d", 4, known)
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, AnnotationTypeImport, a.Type)
	assert.Equal(t, []string{"sdf2d"}, a.Args)
	assert.Equal(t, 4, a.Line)

	a, err = parseAnnotation("// @oxy:import sdf2d", 1, known)
	require.NoError(t, err)
	assert.NotNil(t, a)

	a, err = parseAnnotation("let x = 1.0; // not an annotation", 1, known)
	require.NoError(t, err)
	assert.Nil(t, a)

	_, err = parseAnnotation("//@oxy:import nope", 2, known)
	assert.ErrorContains(t, err, "line 2")

	_, err = parseAnnotation("//@oxy:import", 3, known)
	assert.Error(t, err)

	_, err = parseAnnotation("//@oxy:include camera", 5, known)
	assert.ErrorContains(t, err, "unknown @oxy annotation type")
}

func TestPreProcessorBlanksAnnotationsAndDedupes(t *testing.T) {
	pp := NewPreProcessor([]string{"sdf2d", "csg", "constants"})
	src := strings.Join([]string{
		"//@oxy:import csg",
		"//@oxy:import sdf2d",
		"//@oxy:import csg",
		"fn f() -> f32 { return 1.0; }",
	}, "\n")

	out, err := pp.Process(src)
	require.NoError(t, err)
	assert.Equal(t, []string{"csg", "sdf2d"}, pp.Imports())

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 4, "line count is preserved")
	assert.Equal(t, "", lines[0])
	assert.Equal(t, "fn f() -> f32 { return 1.0; }", lines[3])

	_, err = pp.Process("//@oxy:import missing")
	assert.ErrorIs(t, err, common.ErrConfiguration)
}

func TestParseEntryPointsAndBindings(t *testing.T) {
	src := `
// @vertex fn commented_out() {}
@group(0) @binding(1) var<uniform> u_input: InputUniforms;
@group(0) @binding(0) var<uniform> u_frame: FrameUniforms;

@vertex
fn vertex_default(input: VertexInput) -> Interpolated { }

/* @fragment fn hidden() {} */
@fragment fn fragment_main(input: Interpolated) -> @location(0) vec4f { }
`
	s := newShader("test", src)
	assert.Equal(t, []string{"vertex_default"}, s.EntryPoints(ShaderTypeVertex))
	assert.True(t, s.HasEntryPoint(ShaderTypeFragment, "fragment_main"))
	assert.False(t, s.HasEntryPoint(ShaderTypeFragment, "hidden"))

	bindings := s.Bindings()
	require.Len(t, bindings, 2)
	assert.Equal(t, "u_frame", bindings[0].Name)
	assert.Equal(t, "uniform", bindings[0].AddressSpace)
	assert.Equal(t, "InputUniforms", bindings[1].Type)

	assert.Equal(t, "test", s.Module().Label)
	assert.Equal(t, src, s.Module().WGSLDescriptor.Code)
}

func TestStripBlockCommentsKeepsLines(t *testing.T) {
	out := stripBlockComments("a /* one\ntwo /* nested */ three\n */ b")
	assert.Equal(t, "a \n\n b", out)
}

func TestCompileAcceptsValidSource(t *testing.T) {
	s, err := Compile("ok", []string{
		"fn halve(x: f32) -> f32 { return 0.5 * x; }",
		"@fragment fn fragment_main() -> @location(0) vec4f { return vec4f(halve(1.0), 0.0, 0.0, 1.0); }",
	})
	require.NoError(t, err)
	assert.True(t, s.HasEntryPoint(ShaderTypeFragment, "fragment_main"))
	assert.Equal(t, 2, strings.Count(s.Source(), "\n")+1)
}

func TestCompileReportsSyntaxErrors(t *testing.T) {
	_, err := Compile("broken", []string{
		"fn main_fn() -> f32 {\n    let a = 1.0;",
		"    let b = ;\n    return a;\n}",
	})
	require.Error(t, err)

	var compErr *common.CompilationError
	require.True(t, errors.As(err, &compErr))
	assert.Equal(t, "broken", compErr.Label)
	assert.Equal(t, 3, compErr.Line)
	assert.Contains(t, compErr.Context, ">   3 |     let b = ;")
	assert.Contains(t, compErr.Error(), `shader "broken" failed to compile at 3:`)
}

func TestParseDiagnostic(t *testing.T) {
	tests := []struct {
		msg    string
		line   int
		column int
		text   string
	}{
		{"parse error: line 7, column 12: expected ';'", 7, 12, "expected ';'"},
		{"Shader validation error:\n  ┌─ wgsl:14:5\n  │", 14, 5, "Shader validation error:\n  ┌─ wgsl:14:5\n  │"},
		{"12:3: unknown identifier 'foo'", 12, 3, "unknown identifier 'foo'"},
		{"something went wrong", 0, 0, "something went wrong"},
	}
	for _, tt := range tests {
		line, column, text := parseDiagnostic(tt.msg)
		assert.Equal(t, tt.line, line, tt.msg)
		assert.Equal(t, tt.column, column, tt.msg)
		assert.Equal(t, tt.text, text, tt.msg)
	}
}

func TestContextWindow(t *testing.T) {
	lines := make([]string, 20)
	for i := range lines {
		lines[i] = "line"
	}
	src := strings.Join(lines, "\n")

	window := strings.Split(contextWindow(src, 10), "\n")
	require.Len(t, window, 11)
	assert.Equal(t, "    5 | line", window[0])
	assert.Equal(t, ">  10 | line", window[5])
	assert.Equal(t, "   15 | line", window[10])

	assert.Len(t, strings.Split(contextWindow(src, 2), "\n"), 7, "clipped at the start")
	assert.Len(t, strings.Split(contextWindow(src, 20), "\n"), 6, "clipped at the end")
	assert.Equal(t, "", contextWindow(src, 0))
	assert.Equal(t, "", contextWindow(src, 21))
}

func TestLazyShaderReadsOnce(t *testing.T) {
	fsys := &countingFS{FS: fstest.MapFS{"a.wgsl": {Data: []byte("const A: f32 = 1.0;")}}}
	l := NewLazyShader("a", fsys, "a.wgsl")

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			src, err := l.Source()
			assert.NoError(t, err)
			assert.Equal(t, "const A: f32 = 1.0;", src)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), fsys.opens.Load())

	missing := NewLazyShader("missing", fsys, "missing.wgsl")
	_, err := missing.Source()
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLibraryEmbedsMachinesAndImports(t *testing.T) {
	lib := NewLibrary()
	for _, name := range []string{MachineQuad, MachineShape, MachineSphereTracer} {
		m, err := lib.Machine(name)
		require.NoError(t, err, name)
		src, err := m.Source()
		require.NoError(t, err)
		assert.NotEmpty(t, src)
	}
	assert.Subset(t, lib.Imports(), []string{"constants", "csg", "rect_mask", "sdf2d", "sdf3d", "srgb"})

	_, err := lib.Machine("nope")
	assert.ErrorIs(t, err, common.ErrConfiguration)
	_, err = lib.Import("nope")
	assert.ErrorIs(t, err, common.ErrConfiguration)
}

func TestLibraryAssembleOrder(t *testing.T) {
	extra := fstest.MapFS{
		"libs/first.wgsl":  {Data: []byte("// first")},
		"libs/second.wgsl": {Data: []byte("// second")},
		"sketch.wgsl":      {Data: []byte("//@oxy:import second\n//@oxy:import first\nfn sketch() {}")},
	}
	lib := NewLibrary(WithImports(extra, "libs"), WithWorkers(2))
	quad, err := lib.Machine(MachineQuad)
	require.NoError(t, err)
	quadSrc, err := quad.Source()
	require.NoError(t, err)

	parts, err := lib.Assemble([]string{MachineQuad}, NewLazyShader("sketch", extra, "sketch.wgsl"))
	require.NoError(t, err)
	require.Len(t, parts, 4)
	assert.Equal(t, quadSrc, parts[0])
	assert.Equal(t, "// second", parts[1])
	assert.Equal(t, "// first", parts[2])
	assert.Equal(t, "\n\nfn sketch() {}", parts[3])

	_, err = lib.Assemble([]string{"nope"}, NewLazyShader("sketch", extra, "sketch.wgsl"))
	assert.ErrorIs(t, err, common.ErrConfiguration)

	bad := fstest.MapFS{"bad.wgsl": {Data: []byte("//@oxy:import unknown")}}
	_, err = lib.Assemble([]string{MachineQuad}, NewLazyShader("bad", bad, "bad.wgsl"))
	assert.ErrorIs(t, err, common.ErrConfiguration)
}
