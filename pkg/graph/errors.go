package graph

import (
	"errors"
	"fmt"
)

// Sentinel errors for conditions callers should match with errors.Is.
// Keep these identities stable; match by identity, never by string.
var (
	ErrKeyUnknown    = errors.New("graph: key unknown")
	ErrKeyTaken      = errors.New("graph: key already taken")
	ErrTargetNotLink = errors.New("graph: node is not a link or reference")
	ErrParse         = errors.New("graph: unable to parse document")
)

// KeyUnknownError is a typed error carrying the key that could not be
// resolved. It implements Is/Unwrap so errors.Is(err, ErrKeyUnknown) matches
// it while callers that need the key can errors.As into it.
type KeyUnknownError struct {
	Key Key
}

func (e *KeyUnknownError) Error() string {
	return fmt.Sprintf("graph: key unknown: %s", e.Key)
}

func (e *KeyUnknownError) Is(target error) bool { return target == ErrKeyUnknown }
func (e *KeyUnknownError) Unwrap() error        { return ErrKeyUnknown }

// KeyTakenError is a typed error carrying the colliding key.
type KeyTakenError struct {
	Key Key
}

func (e *KeyTakenError) Error() string {
	return fmt.Sprintf("graph: key already taken: %s", e.Key)
}

func (e *KeyTakenError) Is(target error) bool { return target == ErrKeyTaken }
func (e *KeyTakenError) Unwrap() error        { return ErrKeyTaken }
