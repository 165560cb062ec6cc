// Package object implements the SWHID v1.2 object-hashing primitive:
// the canonical "<type> <len>\0<payload>" envelope that is hashed to
// produce a content or directory identifier. This is the same envelope
// format used by Git for blob and tree objects, which is why SWHID
// content and directory identifiers equal the Git object id of the
// same bytes.
package object

import (
	"fmt"
	"strconv"

	"github.com/wintermute101/swhid/pkg/digest"
)

// Header builds the envelope header "<typeName> <len>\0" for a payload
// of the given length. The length is rendered as plain decimal ASCII
// digits with no leading zero.
func Header(typeName string, length int) []byte {
	h := make([]byte, 0, len(typeName)+1+len(strconv.Itoa(length))+1)
	h = append(h, typeName...)
	h = append(h, ' ')
	h = append(h, strconv.Itoa(length)...)
	h = append(h, 0)
	return h
}

// Hash computes the digest of Header(typeName, len(payload)) || payload.
func Hash(typeName string, payload []byte) (digest.Digest, error) {
	d, err := digest.Sum(Header(typeName, len(payload)), payload)
	if err != nil {
		return d, fmt.Errorf("object: hash %s object: %w", typeName, err)
	}
	return d, nil
}
