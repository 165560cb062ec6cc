package swhid

import "errors"

// Sentinel errors identifying the closed set of ways a SWHID string can
// fail to parse. Wrap with fmt.Errorf("...: %w", ErrX) and unwrap with
// errors.Is so callers can distinguish kinds without parsing messages.
var (
	ErrInvalidFormat      = errors.New("swhid: invalid format")
	ErrInvalidScheme      = errors.New("swhid: invalid scheme")
	ErrInvalidVersion     = errors.New("swhid: invalid version")
	ErrInvalidObjectType  = errors.New("swhid: invalid object type")
	ErrInvalidDigest      = errors.New("swhid: invalid digest")
	ErrInvalidQualifierKey = errors.New("swhid: invalid qualifier key")
	// ErrInvalidQualifierValue is the sentinel a *QualifierValueError
	// unwraps to; match on it with errors.Is, or errors.As for the key
	// and value that failed.
	ErrInvalidQualifierValue = errors.New("swhid: invalid qualifier value")
)

// QualifierValueError reports that value failed the grammar for key.
type QualifierValueError struct {
	Key   string
	Value string
}

func (e *QualifierValueError) Error() string {
	return "swhid: invalid qualifier value for " + e.Key + ": " + e.Value
}

func (e *QualifierValueError) Unwrap() error {
	return ErrInvalidQualifierValue
}
