package permissions

import (
	"os"
	"strings"
)

// executableExtensions lists extensions that are conventionally
// executable scripts regardless of the filesystem's permission bits.
var executableExtensions = map[string]bool{
	".sh":  true,
	".bash": true,
	".py":  true,
	".pl":  true,
	".rb":  true,
}

// HeuristicSource guesses executability from a file's extension or, for
// extensionless files, a leading shebang line. It is a best-effort
// fallback that never reports an error, and is never the default
// source — callers opt into it explicitly.
type HeuristicSource struct{}

func (HeuristicSource) ExecutableOf(path string) (Exec, error) {
	if ext := extensionOf(path); ext != "" && executableExtensions[ext] {
		return KnownExec(true), nil
	}
	if extensionOf(path) == "" && hasShebang(path) {
		return KnownExec(true), nil
	}
	return KnownExec(false), nil
}

func extensionOf(path string) string {
	base := path
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.LastIndex(base, "."); i >= 0 {
		return strings.ToLower(base[i:])
	}
	return ""
}

func hasShebang(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	buf := make([]byte, 2)
	n, err := f.Read(buf)
	return err == nil && n == 2 && buf[0] == '#' && buf[1] == '!'
}
