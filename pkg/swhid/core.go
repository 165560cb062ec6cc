// Package swhid implements the SWHID v1.2 / ISO/IEC 18670:2025 core and
// qualified identifier models: strict textual parsing, validation, and
// canonical emission of `swh:1:<tag>:<hex40>` identifiers, optionally
// extended with semicolon-delimited qualifiers.
package swhid

import (
	"fmt"
	"strings"

	"github.com/wintermute101/swhid/pkg/digest"
)

// ObjectType is one of the five SWHID object kinds.
type ObjectType int

const (
	// Content identifies a file's raw contents (Git blob).
	Content ObjectType = iota
	// Directory identifies a directory tree (Git tree).
	Directory
	// Revision identifies a VCS commit.
	Revision
	// Release identifies a VCS annotated tag.
	Release
	// Snapshot identifies the state of a repository's refs.
	Snapshot
)

// Tag returns the three-letter lowercase tag for the object type.
func (t ObjectType) Tag() string {
	switch t {
	case Content:
		return "cnt"
	case Directory:
		return "dir"
	case Revision:
		return "rev"
	case Release:
		return "rel"
	case Snapshot:
		return "snp"
	default:
		return ""
	}
}

func (t ObjectType) String() string {
	return t.Tag()
}

// ObjectTypeFromTag maps a three-letter tag to an ObjectType.
func ObjectTypeFromTag(tag string) (ObjectType, error) {
	switch tag {
	case "cnt":
		return Content, nil
	case "dir":
		return Directory, nil
	case "rev":
		return Revision, nil
	case "rel":
		return Release, nil
	case "snp":
		return Snapshot, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidObjectType, tag)
	}
}

// Version is the only SWHID version this core understands.
const Version = "1"

// Swhid is the immutable pair (ObjectType, 20-byte digest) that a core
// SWHID string encodes.
type Swhid struct {
	objectType ObjectType
	digest     digest.Digest
}

// New builds a Swhid from an object type and a 20-byte digest.
func New(objectType ObjectType, d digest.Digest) Swhid {
	return Swhid{objectType: objectType, digest: d}
}

// ObjectType reports the SWHID's object kind.
func (s Swhid) ObjectType() ObjectType {
	return s.objectType
}

// Digest returns the underlying 20-byte digest.
func (s Swhid) Digest() digest.Digest {
	return s.digest
}

// String renders the canonical textual form: swh:1:<tag>:<hex40>.
func (s Swhid) String() string {
	return "swh:" + Version + ":" + s.objectType.Tag() + ":" + s.digest.Hex()
}

// Parse parses a core SWHID string of the form swh:1:<tag>:<hex40>.
// Hex digits must be strictly lowercase; any uppercase character fails
// with ErrInvalidDigest.
func Parse(s string) (Swhid, error) {
	fields := strings.Split(s, ":")
	if len(fields) != 4 {
		return Swhid{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
	scheme, version, tag, hex := fields[0], fields[1], fields[2], fields[3]

	if scheme != "swh" {
		return Swhid{}, fmt.Errorf("%w: %q", ErrInvalidScheme, scheme)
	}
	if version != Version {
		return Swhid{}, fmt.Errorf("%w: %q", ErrInvalidVersion, version)
	}
	objectType, err := ObjectTypeFromTag(tag)
	if err != nil {
		return Swhid{}, err
	}
	if !isValidLowerHex40(hex) {
		return Swhid{}, fmt.Errorf("%w: %q", ErrInvalidDigest, hex)
	}
	d, err := digest.FromHex(hex)
	if err != nil {
		return Swhid{}, fmt.Errorf("%w: %q", ErrInvalidDigest, hex)
	}
	return New(objectType, d), nil
}

func isValidLowerHex40(s string) bool {
	if len(s) != 40 {
		return false
	}
	for _, c := range s {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
