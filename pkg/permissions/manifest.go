package permissions

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// ManifestSource reads executable status from a sidecar TOML manifest:
//
//	[[file]]
//	path = "bin/tool"
//	executable = true
//
//	[[file]]
//	path = "scripts/run.sh"
//	executable = true
//
// Paths not present in the manifest resolve to UnknownExec.
type ManifestSource struct {
	executable map[string]bool
}

type manifestFile struct {
	Path       string `toml:"path"`
	Executable bool   `toml:"executable"`
}

type manifestDoc struct {
	File []manifestFile `toml:"file"`
}

// LoadManifest reads and parses a manifest file from disk.
func LoadManifest(path string) (*ManifestSource, error) {
	var doc manifestDoc
	if _, err := toml.DecodeFile(path, &doc); err != nil {
		return nil, fmt.Errorf("permissions: load manifest %q: %w", path, err)
	}
	return newManifestSource(doc)
}

// ParseManifest parses a manifest from its TOML text.
func ParseManifest(text string) (*ManifestSource, error) {
	var doc manifestDoc
	if _, err := toml.Decode(text, &doc); err != nil {
		return nil, fmt.Errorf("permissions: parse manifest: %w", err)
	}
	return newManifestSource(doc)
}

func newManifestSource(doc manifestDoc) (*ManifestSource, error) {
	m := &ManifestSource{executable: make(map[string]bool, len(doc.File))}
	for _, f := range doc.File {
		norm, err := normalizeManifestPath(f.Path)
		if err != nil {
			return nil, err
		}
		m.executable[norm] = f.Executable
	}
	return m, nil
}

func normalizeManifestPath(path string) (string, error) {
	if strings.HasPrefix(path, "/") {
		return "", fmt.Errorf("permissions: manifest contains absolute path %q", path)
	}
	if strings.Contains(path, "..") {
		return "", fmt.Errorf("permissions: manifest contains '..' in path %q", path)
	}
	return strings.ReplaceAll(path, "\\", "/"), nil
}

func (m *ManifestSource) ExecutableOf(path string) (Exec, error) {
	key := strings.ReplaceAll(path, "\\", "/")
	if exec, ok := m.executable[key]; ok {
		return KnownExec(exec), nil
	}
	return UnknownExec, nil
}
