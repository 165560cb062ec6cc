// Package permissions resolves the executable bit for regular files so
// that directory hashing (pkg/directory) produces the same tree mode
// for a file regardless of which platform or metadata source is asked.
// Grounded in the permission-handling design of the reference
// implementation's permissions module, which exists specifically to
// address the fact that Windows filesystems don't expose a POSIX
// owner-execute bit.
package permissions

import (
	"fmt"
	"strconv"
)

// Kind is the closed set of entry kinds a tree mode can represent.
type Kind int

const (
	KindFile Kind = iota
	KindDirectory
	KindSymlink
	// KindRevisionRef is the Git submodule gitlink mode (160000). The
	// directory walker in this core never produces it; it exists so
	// FromMode can round-trip a foreign tree mode without erroring.
	KindRevisionRef
)

// EntryPerms is the canonical permission/kind pair that determines a
// tree entry's mode bytes.
type EntryPerms struct {
	Kind       Kind
	Executable bool // meaningful only when Kind == KindFile
}

// File builds the EntryPerms for a regular file.
func File(executable bool) EntryPerms {
	return EntryPerms{Kind: KindFile, Executable: executable}
}

// Mode returns the numeric Git-tree-compatible mode.
func (p EntryPerms) Mode() uint32 {
	switch p.Kind {
	case KindFile:
		if p.Executable {
			return 0o100755
		}
		return 0o100644
	case KindDirectory:
		return 0o040000
	case KindSymlink:
		return 0o120000
	case KindRevisionRef:
		return 0o160000
	default:
		return 0
	}
}

// ModeString renders Mode() as ASCII octal digits with no leading zero,
// matching the SWHID tree payload wire format.
func (p EntryPerms) ModeString() string {
	return strconv.FormatUint(uint64(p.Mode()), 8)
}

// FromMode parses a numeric tree mode back into an EntryPerms.
func FromMode(mode uint32) (EntryPerms, error) {
	switch mode {
	case 0o100644:
		return File(false), nil
	case 0o100755:
		return File(true), nil
	case 0o040000:
		return EntryPerms{Kind: KindDirectory}, nil
	case 0o120000:
		return EntryPerms{Kind: KindSymlink}, nil
	case 0o160000:
		return EntryPerms{Kind: KindRevisionRef}, nil
	default:
		return EntryPerms{}, fmt.Errorf("permissions: invalid entry mode %o", mode)
	}
}

// Exec is the result of probing whether a file is executable: either a
// definite answer, or Unknown when the source can't tell.
type Exec struct {
	known      bool
	executable bool
}

// KnownExec reports a definite executable status.
func KnownExec(executable bool) Exec {
	return Exec{known: true, executable: executable}
}

// UnknownExec reports that the executable bit could not be determined.
var UnknownExec = Exec{}

// IsKnown reports whether the probe produced a definite answer.
func (e Exec) IsKnown() bool {
	return e.known
}

// Executable reports the probed value. Only meaningful when IsKnown().
func (e Exec) Executable() bool {
	return e.executable
}

// Policy controls how an Unknown Exec result is handled.
type Policy int

const (
	// BestEffort defaults an Unknown executable bit to non-executable.
	// This is the zero value and matches the directory engine's default
	// behavior, which never errors on a platform without POSIX modes.
	BestEffort Policy = iota
	// Strict fails the whole computation when the executable bit can't
	// be determined.
	Strict
)

// Resolve applies policy to an Exec probe result, producing the
// EntryPerms for a regular file.
func Resolve(exec Exec, policy Policy, path string) (EntryPerms, error) {
	if exec.IsKnown() {
		return File(exec.Executable()), nil
	}
	if policy == Strict {
		return EntryPerms{}, fmt.Errorf(
			"permissions: cannot determine executable bit for %q on this platform "+
				"(use a manifest or heuristic permission source, or best-effort policy)", path)
	}
	return File(false), nil
}
