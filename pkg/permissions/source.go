package permissions

// Source determines whether the regular file at path is executable by
// its owner. It returns UnknownExec, never an error, when it simply
// cannot tell — only genuine I/O failures are errors.
type Source interface {
	ExecutableOf(path string) (Exec, error)
}

// AutoSource picks FilesystemSource and falls back to UnknownExec when
// the platform can't expose a POSIX executable bit. It never
// second-guesses the filesystem with a heuristic; callers who want that
// must select HeuristicSource explicitly.
type AutoSource struct {
	fs FilesystemSource
}

// NewAutoSource builds the default permission source.
func NewAutoSource() AutoSource {
	return AutoSource{}
}

func (a AutoSource) ExecutableOf(path string) (Exec, error) {
	return a.fs.ExecutableOf(path)
}
