package interfaces

import "errors"

var (
	// ErrNotFound is returned when a token ID or owner-index pair is unknown
	// to the registry, or a requested registry instance does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized is returned when the caller lacks the specific right
	// an operation requires: issuer-only, delegated-operator, or voter-set
	// membership.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrOutOfRange is returned by enumeration lookups when index >= count.
	ErrOutOfRange = errors.New("index out of range")

	// ErrAlreadyRevoked is returned when revoking a token whose valid flag
	// is already false. Revocation is an explicit one-time transition, so
	// redundant revocations are surfaced as errors for auditability.
	ErrAlreadyRevoked = errors.New("token already revoked")

	// ErrAlreadyVoted is returned when a voter approves the same pending
	// mint or revocation twice within one voting round.
	ErrAlreadyVoted = errors.New("already voted")

	// ErrInvalidSignature is returned when a pull authorization signature
	// is malformed or was not produced by the token's current owner.
	ErrInvalidSignature = errors.New("invalid signature")

	// ErrInvalidAddress is returned when an address fails to parse.
	ErrInvalidAddress = errors.New("invalid address")

	// ErrUnsupported is returned when an extension operation is invoked on
	// a registry instance that was created without that capability.
	ErrUnsupported = errors.New("capability not supported")
)
