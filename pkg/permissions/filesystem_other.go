//go:build !unix

package permissions

// FilesystemSource has no POSIX owner-execute bit to read on this
// platform, so it always reports UnknownExec and defers to the
// configured Policy.
type FilesystemSource struct{}

func (FilesystemSource) ExecutableOf(path string) (Exec, error) {
	return UnknownExec, nil
}
