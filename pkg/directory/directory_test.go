package directory

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/wintermute101/swhid/pkg/permissions"
)

// Test: empty directory hashes to the well-known empty-tree id.
func TestComputeEmptyDirectory(t *testing.T) {
	dir := t.TempDir()

	id, err := Compute(dir, WalkOptions{})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	want := "swh:1:dir:4b825dc642cb6eb9a060e54bf8d69288fbee4904"
	if got := id.String(); got != want {
		t.Errorf("Compute(empty) = %q, want %q", got, want)
	}
}

// Scenario S3: a directory with one regular file "hello.txt" containing
// "Hello, World!" hashes to a known directory SWHID.
func TestComputeS3SingleFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "hello.txt"), []byte("Hello, World!"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	id, err := Compute(dir, WalkOptions{})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if id.ObjectType().Tag() != "dir" {
		t.Errorf("ObjectType = %q, want dir", id.ObjectType().Tag())
	}
	want := "swh:1:dir:79321ed405490e585cd9a2b79f18a915d6d68a96"
	if got := id.String(); got != want {
		t.Errorf("Compute(single file) = %q, want %q", got, want)
	}
}

// Two directories with the same name/content/mode tree hash identically,
// and differ when a file's content changes.
func TestComputeDeterministicAndSensitiveToContent(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	for _, dir := range []string{dirA, dirB} {
		if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("same"), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}

	idA, err := Compute(dirA, WalkOptions{})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	idB, err := Compute(dirB, WalkOptions{})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if idA != idB {
		t.Errorf("identical trees hashed differently: %v != %v", idA, idB)
	}

	if err := os.WriteFile(filepath.Join(dirB, "a.txt"), []byte("different"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	idB2, err := Compute(dirB, WalkOptions{})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if idA == idB2 {
		t.Error("differing content produced the same directory SWHID")
	}
}

// Testable property: entry order within a directory never affects the
// resulting digest, since entries are always sorted before serialization.
func TestComputeOrderIndependent(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	namesA := []string{"zeta.txt", "alpha.txt", "mid.txt"}
	namesB := []string{"alpha.txt", "mid.txt", "zeta.txt"}
	for i, name := range namesA {
		if err := os.WriteFile(filepath.Join(dirA, name), []byte{byte(i)}, 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}
	for _, name := range namesB {
		content := []byte{byte(indexOf(namesA, name))}
		if err := os.WriteFile(filepath.Join(dirB, name), content, 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}

	idA, err := Compute(dirA, WalkOptions{})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	idB, err := Compute(dirB, WalkOptions{})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if idA != idB {
		t.Errorf("readdir order affected digest: %v != %v", idA, idB)
	}
}

func indexOf(s []string, v string) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}

// Testable property 8: a symlink entry always hashes the raw link-target
// bytes with mode 120000, never the resolved target's content, regardless
// of FollowSymlinks.
func TestComputeSymlinkHashesTargetBytesNotContent(t *testing.T) {
	for _, follow := range []bool{false, true} {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, "real.txt"), []byte("actual content"), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
		if err := os.Symlink("real.txt", filepath.Join(dir, "link")); err != nil {
			t.Skipf("symlinks unsupported on this platform: %v", err)
		}

		id, err := Compute(dir, WalkOptions{FollowSymlinks: follow})
		if err != nil {
			t.Fatalf("Compute(follow=%v): %v", follow, err)
		}

		// A directory where "link" is instead a regular file holding the
		// resolved content ("actual content") must differ, since the
		// symlink's own payload uses mode 120000 and the blob of "real.txt"
		// (the string) rather than the content of the file it points to.
		altDir := t.TempDir()
		if err := os.WriteFile(filepath.Join(altDir, "real.txt"), []byte("actual content"), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
		if err := os.WriteFile(filepath.Join(altDir, "link"), []byte("actual content"), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
		altID, err := Compute(altDir, WalkOptions{FollowSymlinks: follow})
		if err != nil {
			t.Fatalf("Compute(alt): %v", err)
		}
		if id == altID {
			t.Error("symlink entry hashed as if it were the resolved file's content")
		}
	}
}

// Testable property 9: FollowSymlinks=true surfaces a fatal cycle error
// when a symlink chain loops back on itself.
func TestComputeFollowSymlinksDetectsCycle(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}
	if err := os.Symlink(sub, filepath.Join(sub, "back")); err != nil {
		t.Skipf("symlinks unsupported on this platform: %v", err)
	}

	_, err := Compute(dir, WalkOptions{FollowSymlinks: true})
	if err == nil {
		t.Fatal("expected a symlink cycle error, got nil")
	}
	if !errors.Is(err, ErrSymlinkCycle) {
		t.Errorf("error = %v, want ErrSymlinkCycle", err)
	}
}

// FollowSymlinks=false never probes symlink targets, so the same cycle is
// not an error: it only affects how the entry itself hashes, never descent.
func TestComputeNoFollowIgnoresCycle(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}
	if err := os.Symlink(sub, filepath.Join(sub, "back")); err != nil {
		t.Skipf("symlinks unsupported on this platform: %v", err)
	}

	if _, err := Compute(dir, WalkOptions{FollowSymlinks: false}); err != nil {
		t.Fatalf("Compute: %v", err)
	}
}

// ExcludeSuffixes omits matching regular files but never directories.
func TestComputeExcludeSuffixes(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "keep.txt"), []byte("a"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "drop.tmp"), []byte("b"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := os.Mkdir(filepath.Join(dir, "kept.tmp"), 0o755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}

	withExclude, err := Compute(dir, WalkOptions{ExcludeSuffixes: [][]byte{[]byte(".tmp")}})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	bareDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(bareDir, "keep.txt"), []byte("a"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := os.Mkdir(filepath.Join(bareDir, "kept.tmp"), 0o755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}
	bare, err := Compute(bareDir, WalkOptions{})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	if withExclude != bare {
		t.Errorf("excluded-file tree %v != bare tree %v", withExclude, bare)
	}
}

// A manifest-declared executable file gets mode 100755 in the tree.
func TestComputeExecutableModeFromManifest(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "run.sh"), []byte("#!/bin/sh\necho hi\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	src, err := permissions.ParseManifest(`
[[file]]
path = "run.sh"
executable = true
`)
	if err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}

	withExec, err := Compute(dir, WalkOptions{Permissions: manifestRelativeSource{base: dir, src: src}})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	plainDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(plainDir, "run.sh"), []byte("#!/bin/sh\necho hi\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	nonExec, err := Compute(plainDir, WalkOptions{})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	if withExec == nonExec {
		t.Error("manifest-declared executable bit did not affect the tree hash")
	}
}

// manifestRelativeSource adapts a permissions.Source keyed by
// manifest-relative paths to the absolute paths the walker passes in.
type manifestRelativeSource struct {
	base string
	src  *permissions.ManifestSource
}

func (m manifestRelativeSource) ExecutableOf(path string) (permissions.Exec, error) {
	rel, err := filepath.Rel(m.base, path)
	if err != nil {
		return permissions.UnknownExec, err
	}
	return m.src.ExecutableOf(rel)
}

// Strict policy turns an unresolved executable bit into a fatal error.
func TestComputeStrictPolicyErrorsOnUnknownExec(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "f.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	_, err := Compute(dir, WalkOptions{
		Permissions:      alwaysUnknownSource{},
		PermissionPolicy: permissions.Strict,
	})
	if err == nil {
		t.Fatal("expected an error under Strict policy with an unresolved executable bit")
	}
}

type alwaysUnknownSource struct{}

func (alwaysUnknownSource) ExecutableOf(path string) (permissions.Exec, error) {
	return permissions.UnknownExec, nil
}

// A nested subdirectory contributes its own tree digest as a child entry,
// and an empty subdirectory still hashes to the well-known empty-tree id.
func TestComputeNestedDirectories(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "empty"), 0o755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}
	nested := filepath.Join(dir, "nested")
	if err := os.Mkdir(nested, 0o755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(nested, "f.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	id, err := Compute(dir, WalkOptions{})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if id.ObjectType().Tag() != "dir" {
		t.Errorf("ObjectType = %q, want dir", id.ObjectType().Tag())
	}
	want := "swh:1:dir:e75745420988ecb3967255e328021da86e2a50c8"
	if got := id.String(); got != want {
		t.Errorf("Compute(nested) = %q, want %q", got, want)
	}
}

func TestSortKeyOrdersDirectoriesWithTrailingSlash(t *testing.T) {
	entries := []TreeEntry{
		{Name: []byte("b"), Mode: permissions.EntryPerms{Kind: permissions.KindFile}.Mode()},
		{Name: []byte("b"), Mode: permissions.EntryPerms{Kind: permissions.KindDirectory}.Mode()},
	}
	// "b" (file) sorts before "b/" (directory) because '/' (0x2f) is
	// less than most ordinary filename continuation bytes would be absent,
	// but greater than nothing: a bare "b" is a strict prefix of "b/", so
	// the file entry ("b") must sort first.
	if string(sortKey(entries[0])) >= string(sortKey(entries[1])) {
		t.Errorf("expected file entry %q to sort before directory entry %q",
			sortKey(entries[0]), sortKey(entries[1]))
	}
}
