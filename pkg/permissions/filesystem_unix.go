//go:build unix

package permissions

import "os"

// FilesystemSource reads the owner-execute bit from the filesystem. On
// Unix this is always Known; see filesystem_other.go for the fallback.
type FilesystemSource struct{}

func (FilesystemSource) ExecutableOf(path string) (Exec, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Exec{}, err
	}
	return KnownExec(info.Mode()&0o111 != 0), nil
}
