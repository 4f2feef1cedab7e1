package shader

import "io/fs"

// LibraryBuilderOption is a functional option used to configure a Library during construction.
type LibraryBuilderOption func(*library)

// WithWorkers sets the number of workers used to load sources in parallel.
//
// Parameters:
//   - n: the maximum worker count, at least 1
//
// Returns:
//   - LibraryBuilderOption: a function that sets the worker count
func WithWorkers(n int) LibraryBuilderOption {
	return func(l *library) {
		l.workers = max(n, 1)
	}
}

// WithImports registers additional importable libraries from every .wgsl file in dir. A library
// with the same name as a built-in one replaces it.
//
// Parameters:
//   - fsys: the file system holding the libraries
//   - dir: the directory within fsys
//
// Returns:
//   - LibraryBuilderOption: a function that registers the libraries
func WithImports(fsys fs.FS, dir string) LibraryBuilderOption {
	return func(l *library) {
		l.scan(fsys, dir, l.imports)
	}
}

// WithMachines registers additional machine libraries from every .wgsl file in dir.
//
// Parameters:
//   - fsys: the file system holding the machine libraries
//   - dir: the directory within fsys
//
// Returns:
//   - LibraryBuilderOption: a function that registers the machine libraries
func WithMachines(fsys fs.FS, dir string) LibraryBuilderOption {
	return func(l *library) {
		l.scan(fsys, dir, l.machines)
	}
}
