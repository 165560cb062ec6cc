// Package content implements the SWHID v1.2 content (blob) identifier:
// hashing raw file bytes into a "cnt" Swhid.
package content

import (
	"fmt"

	"github.com/wintermute101/swhid/pkg/object"
	"github.com/wintermute101/swhid/pkg/swhid"
)

// FromBytes computes the content Swhid for data. data is read but never
// copied or retained.
func FromBytes(data []byte) (swhid.Swhid, error) {
	d, err := object.Hash("blob", data)
	if err != nil {
		return swhid.Swhid{}, fmt.Errorf("content: %w", err)
	}
	return swhid.New(swhid.Content, d), nil
}
