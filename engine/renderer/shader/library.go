package shader

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"runtime"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-gallery/common"
)

//go:embed assets/machines/*.wgsl assets/libraries/*.wgsl
var assets embed.FS

const (
	machineDir = "assets/machines"
	libraryDir = "assets/libraries"
)

// Machine library names.
const (
	MachineQuad         = "quad"
	MachineShape        = "shape"
	MachineSphereTracer = "sphere_tracer"
)

// lazyShader is the implementation of the LazyShader interface.
type lazyShader struct {
	name string
	path string
	fsys fs.FS

	once   sync.Once
	source string
	err    error
}

// LazyShader is a WGSL source file that is read on first use and cached afterwards. Concurrent
// callers share a single read.
type LazyShader interface {
	// Name returns the library or sketch name.
	//
	// Returns:
	//   - string: the name
	Name() string

	// Source reads the WGSL text, once.
	//
	// Returns:
	//   - string: the WGSL source
	//   - error: the read error, returned again on every call
	Source() (string, error)
}

var _ LazyShader = &lazyShader{}

// NewLazyShader creates a LazyShader reading path from fsys.
//
// Parameters:
//   - name: the name used in diagnostics
//   - fsys: the file system holding the source
//   - path: the file path within fsys
//
// Returns:
//   - LazyShader: the lazy shader
func NewLazyShader(name string, fsys fs.FS, path string) LazyShader {
	return &lazyShader{name: name, fsys: fsys, path: path}
}

func (l *lazyShader) Name() string {
	return l.name
}

func (l *lazyShader) Source() (string, error) {
	l.once.Do(func() {
		data, err := fs.ReadFile(l.fsys, l.path)
		if err != nil {
			l.err = fmt.Errorf("failed to read shader %q: %w", l.name, err)
			return
		}
		l.source = string(data)
	})
	return l.source, l.err
}

// library is the implementation of the Library interface.
type library struct {
	machines map[string]LazyShader
	imports  map[string]LazyShader
	workers  int
	pool     worker.DynamicWorkerPool
	poolOnce sync.Once
}

// Library holds the machine libraries each machine prepends to its sketches and the importable
// libraries sketches pull in with //@oxy:import.
type Library interface {
	// Machine returns a machine library by name.
	//
	// Parameters:
	//   - name: one of MachineQuad, MachineShape or MachineSphereTracer
	//
	// Returns:
	//   - LazyShader: the machine library
	//   - error: common.ErrConfiguration if there is no such machine library
	Machine(name string) (LazyShader, error)

	// Import returns an importable library by name.
	//
	// Parameters:
	//   - name: the library name (e.g. "sdf2d")
	//
	// Returns:
	//   - LazyShader: the library
	//   - error: common.ErrConfiguration if there is no such library
	Import(name string) (LazyShader, error)

	// Imports lists the importable library names, sorted.
	//
	// Returns:
	//   - []string: the names
	Imports() []string

	// Assemble resolves a sketch's imports and loads every source it needs in parallel on the
	// library's worker pool.
	//
	// Parameters:
	//   - machines: the machine library names, in order
	//   - sketch: the sketch source
	//
	// Returns:
	//   - []string: the sources in compile order: machines, imports, then the sketch
	//   - error: the first load or annotation error
	Assemble(machines []string, sketch LazyShader) ([]string, error)
}

var _ Library = &library{}

// NewLibrary creates a Library from the embedded machine and importable libraries.
//
// Parameters:
//   - opts: a variadic list of LibraryBuilderOption functions
//
// Returns:
//   - Library: the library
func NewLibrary(opts ...LibraryBuilderOption) Library {
	l := &library{
		machines: make(map[string]LazyShader),
		imports:  make(map[string]LazyShader),
		workers:  runtime.NumCPU(),
	}
	l.scan(assets, machineDir, l.machines)
	l.scan(assets, libraryDir, l.imports)
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// scan registers every .wgsl file in dir under its base name.
func (l *library) scan(fsys fs.FS, dir string, into map[string]LazyShader) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		name, ok := strings.CutSuffix(e.Name(), ".wgsl")
		if e.IsDir() || !ok {
			continue
		}
		into[name] = NewLazyShader(name, fsys, path.Join(dir, e.Name()))
	}
}

func (l *library) Machine(name string) (LazyShader, error) {
	s, ok := l.machines[name]
	if !ok {
		return nil, fmt.Errorf("unknown machine library %q: %w", name, common.ErrConfiguration)
	}
	return s, nil
}

func (l *library) Import(name string) (LazyShader, error) {
	s, ok := l.imports[name]
	if !ok {
		return nil, fmt.Errorf("unknown shader library %q: %w", name, common.ErrConfiguration)
	}
	return s, nil
}

func (l *library) Imports() []string {
	names := make([]string, 0, len(l.imports))
	for name := range l.imports {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (l *library) Assemble(machines []string, sketch LazyShader) ([]string, error) {
	raw, err := sketch.Source()
	if err != nil {
		return nil, err
	}
	pp := NewPreProcessor(l.Imports())
	body, err := pp.Process(raw)
	if err != nil {
		return nil, fmt.Errorf("sketch %q: %w", sketch.Name(), err)
	}

	parts := make([]LazyShader, 0, len(machines)+len(pp.Imports()))
	for _, name := range machines {
		m, err := l.Machine(name)
		if err != nil {
			return nil, err
		}
		parts = append(parts, m)
	}
	for _, name := range pp.Imports() {
		lib, err := l.Import(name)
		if err != nil {
			return nil, err
		}
		parts = append(parts, lib)
	}

	sources, err := l.load(parts)
	if err != nil {
		return nil, err
	}
	return append(sources, body), nil
}

// load reads every part on the worker pool and returns the sources in input order.
func (l *library) load(parts []LazyShader) ([]string, error) {
	l.poolOnce.Do(func() {
		l.pool = worker.NewDynamicWorkerPool(l.workers, 64, 1*time.Second)
	})

	sources := make([]string, len(parts))
	errs := make([]error, len(parts))
	var wg sync.WaitGroup
	for i, part := range parts {
		wg.Add(1)
		id, p := i, part
		l.pool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				sources[id], errs[id] = p.Source()
				return nil, errs[id]
			},
		})
	}
	wg.Wait()

	if i := slices.IndexFunc(errs, func(err error) bool { return err != nil }); i >= 0 {
		return nil, errs[i]
	}
	return sources, nil
}
