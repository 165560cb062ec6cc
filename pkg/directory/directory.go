// Package directory implements the SWHID v1.2 directory (tree)
// identifier: a deterministic, post-order filesystem walk that
// classifies entries, serializes them into the canonical tree payload,
// and hashes the result into a "dir" Swhid.
package directory

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/wintermute101/swhid/pkg/digest"
	"github.com/wintermute101/swhid/pkg/object"
	"github.com/wintermute101/swhid/pkg/permissions"
	"github.com/wintermute101/swhid/pkg/swhid"
)

// ErrSymlinkCycle is returned when follow_symlinks traversal revisits a
// directory already on the current recursion stack.
var ErrSymlinkCycle = errors.New("directory: symlink cycle detected")

// TreeEntry is one sorted, serialized entry of a directory's tree
// payload. It is produced and consumed entirely within one Compute
// call; callers never construct it directly.
type TreeEntry struct {
	Name        []byte
	Mode        uint32
	ChildDigest digest.Digest
}

// WalkOptions configures a directory walk.
type WalkOptions struct {
	// FollowSymlinks controls only whether traversal probes through a
	// symlink that resolves to a directory inside root, to detect
	// cycles. It never changes how a symlink is represented in its
	// parent tree: a symlink entry's mode is always 120000 and its
	// content is always the raw link-target bytes.
	FollowSymlinks bool
	// ExcludeSuffixes omits regular files whose name ends with any of
	// these byte-suffixes. Directories, symlinks, and special files are
	// never excluded by suffix.
	ExcludeSuffixes [][]byte
	// Permissions resolves the executable bit for regular files.
	// Defaults to permissions.NewAutoSource() when nil.
	Permissions permissions.Source
	// PermissionPolicy controls what happens when Permissions can't
	// determine the executable bit. Defaults to permissions.BestEffort.
	PermissionPolicy permissions.Policy
}

func (o WalkOptions) normalize() WalkOptions {
	if o.Permissions == nil {
		o.Permissions = permissions.NewAutoSource()
	}
	return o
}

// Compute walks root and returns its directory Swhid.
func Compute(root string, opts WalkOptions) (swhid.Swhid, error) {
	opts = opts.normalize()

	rootCanon, err := filepath.EvalSymlinks(root)
	if err != nil {
		rootCanon = root
	}
	rootAbs, err := filepath.Abs(rootCanon)
	if err != nil {
		rootAbs = rootCanon
	}

	w := &walker{opts: opts, rootAbs: rootAbs, visiting: make(map[string]bool)}
	d, err := w.hashDir(root)
	if err != nil {
		return swhid.Swhid{}, err
	}
	return swhid.New(swhid.Directory, d), nil
}

type walker struct {
	opts     WalkOptions
	rootAbs  string
	visiting map[string]bool
}

func (w *walker) hashDir(dirPath string) (digest.Digest, error) {
	dirEntries, err := os.ReadDir(dirPath)
	if err != nil {
		return digest.Digest{}, fmt.Errorf("directory: read %s: %w", dirPath, err)
	}

	entries := make([]TreeEntry, 0, len(dirEntries))
	for _, de := range dirEntries {
		entry, skip, err := w.handleEntry(dirPath, de)
		if err != nil {
			return digest.Digest{}, err
		}
		if skip {
			continue
		}
		entries = append(entries, entry)
	}

	payload := serializeTree(entries)
	return object.Hash("tree", payload)
}

func (w *walker) handleEntry(dirPath string, de fs.DirEntry) (TreeEntry, bool, error) {
	name := de.Name()
	full := filepath.Join(dirPath, name)
	mode := de.Type()

	switch {
	case mode&fs.ModeSymlink != 0:
		target, err := os.Readlink(full)
		if err != nil {
			return TreeEntry{}, false, fmt.Errorf("directory: readlink %s: %w", full, err)
		}
		d, err := object.Hash("blob", []byte(target))
		if err != nil {
			return TreeEntry{}, false, fmt.Errorf("directory: hash symlink %s: %w", full, err)
		}
		if w.opts.FollowSymlinks {
			if err := w.probeSymlinkTarget(dirPath, target); err != nil {
				return TreeEntry{}, false, err
			}
		}
		return TreeEntry{
			Name:        []byte(name),
			Mode:        permissions.EntryPerms{Kind: permissions.KindSymlink}.Mode(),
			ChildDigest: d,
		}, false, nil

	case mode.IsDir():
		d, err := w.hashDir(full)
		if err != nil {
			return TreeEntry{}, false, err
		}
		return TreeEntry{
			Name:        []byte(name),
			Mode:        permissions.EntryPerms{Kind: permissions.KindDirectory}.Mode(),
			ChildDigest: d,
		}, false, nil

	case mode.IsRegular():
		if isExcluded([]byte(name), w.opts.ExcludeSuffixes) {
			return TreeEntry{}, true, nil
		}
		data, err := os.ReadFile(full)
		if err != nil {
			return TreeEntry{}, false, fmt.Errorf("directory: read %s: %w", full, err)
		}
		d, err := object.Hash("blob", data)
		if err != nil {
			return TreeEntry{}, false, fmt.Errorf("directory: hash %s: %w", full, err)
		}
		exec, err := w.opts.Permissions.ExecutableOf(full)
		if err != nil {
			return TreeEntry{}, false, fmt.Errorf("directory: permissions %s: %w", full, err)
		}
		perms, err := permissions.Resolve(exec, w.opts.PermissionPolicy, full)
		if err != nil {
			return TreeEntry{}, false, err
		}
		return TreeEntry{Name: []byte(name), Mode: perms.Mode(), ChildDigest: d}, false, nil

	default:
		// Socket, FIFO, device, or other special file: omit from parent tree.
		return TreeEntry{}, true, nil
	}
}

func isExcluded(name []byte, suffixes [][]byte) bool {
	for _, suf := range suffixes {
		if bytes.HasSuffix(name, suf) {
			return true
		}
	}
	return false
}

var dirMode = permissions.EntryPerms{Kind: permissions.KindDirectory}.Mode()

// sortKey returns the bytes used to order entries: directory names get
// a trailing '/' for comparison purposes only, matching the Git tree
// sort convention SWHID v1.2 inherits.
func sortKey(e TreeEntry) []byte {
	if e.Mode == dirMode {
		return append(append([]byte{}, e.Name...), '/')
	}
	return e.Name
}

func serializeTree(entries []TreeEntry) []byte {
	sorted := make([]TreeEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		return bytes.Compare(sortKey(sorted[i]), sortKey(sorted[j])) < 0
	})

	var buf bytes.Buffer
	for _, e := range sorted {
		perms, _ := permissions.FromMode(e.Mode)
		fmt.Fprintf(&buf, "%s ", perms.ModeString())
		buf.Write(e.Name)
		buf.WriteByte(0)
		buf.Write(e.ChildDigest.Bytes())
	}
	return buf.Bytes()
}

// probeSymlinkTarget checks whether following target from parentDir
// would lead into a directory cycle. It never changes the hashed
// entry; it only ever returns ErrSymlinkCycle or a fatal I/O error.
func (w *walker) probeSymlinkTarget(parentDir, target string) error {
	resolved := target
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(parentDir, resolved)
	}

	canon, err := filepath.EvalSymlinks(resolved)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // dangling symlink, nothing to probe
		}
		if isSymlinkLoop(err) {
			return ErrSymlinkCycle
		}
		return fmt.Errorf("directory: resolve symlink %s: %w", resolved, err)
	}

	info, err := os.Stat(canon)
	if err != nil || !info.IsDir() {
		return nil
	}

	canonAbs, err := filepath.Abs(canon)
	if err != nil {
		canonAbs = canon
	}
	if !withinRoot(canonAbs, w.rootAbs) {
		// Open question (spec.md §9): a symlink whose target escapes
		// root is never descended into, matching follow_symlinks=false.
		return nil
	}

	if w.visiting[canonAbs] {
		return ErrSymlinkCycle
	}
	w.visiting[canonAbs] = true
	defer delete(w.visiting, canonAbs)

	return w.probeDirForCycles(canonAbs)
}

func (w *walker) probeDirForCycles(dirPath string) error {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return fmt.Errorf("directory: read %s: %w", dirPath, err)
	}
	for _, de := range entries {
		full := filepath.Join(dirPath, de.Name())
		switch {
		case de.Type()&fs.ModeSymlink != 0:
			target, err := os.Readlink(full)
			if err != nil {
				return fmt.Errorf("directory: readlink %s: %w", full, err)
			}
			if err := w.probeSymlinkTarget(dirPath, target); err != nil {
				return err
			}
		case de.Type().IsDir():
			if err := w.probeDirForCycles(full); err != nil {
				return err
			}
		}
	}
	return nil
}

func withinRoot(path, root string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !hasDotDotPrefix(rel))
}

func hasDotDotPrefix(rel string) bool {
	return rel == ".." || len(rel) >= 3 && rel[:3] == ".."+string(filepath.Separator)
}
