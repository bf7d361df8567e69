package service

import (
	"errors"
	"fmt"
)

// ErrInvalidRequest covers missing or malformed workflow input. Maps to 400.
var ErrInvalidRequest = errors.New("invalid request")

// ErrPracticeRefused is returned when a practice-mode invocation asks for a
// badge. Practice attempts never mint; this is a hard business rule.
var ErrPracticeRefused = errors.New("practice attempts are not eligible for badges")

// ErrNotEligible is returned when the test's active window or pass threshold
// rules out issuance at call time.
var ErrNotEligible = errors.New("not eligible for badge issuance")

// FailureKind classifies the infrastructure cause embedded in a workflow error.
type FailureKind string

const (
	KindStorage FailureKind = "StorageError"
	KindChain   FailureKind = "ChainError"
	KindTimeout FailureKind = "Timeout"
)

// RegistrationError wraps a failed on-chain test registration. The record
// store is guaranteed untouched when this is returned.
type RegistrationError struct {
	Cause error
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("test registration failed: %v", e.Cause)
}

func (e *RegistrationError) Unwrap() error { return e.Cause }

// IssuanceError wraps a failed badge issuance. The badge row, if created, is
// left in its retriable null-token state.
type IssuanceError struct {
	Kind  FailureKind
	Cause error
}

func (e *IssuanceError) Error() string {
	return fmt.Sprintf("badge issuance failed (%s): %v", e.Kind, e.Cause)
}

func (e *IssuanceError) Unwrap() error { return e.Cause }
