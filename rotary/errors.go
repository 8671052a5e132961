package rotary

import "errors"

var (
	// ErrIdentity is returned for an identity outside [0, MaxEncoders).
	ErrIdentity = errors.New("rotary: identity out of range")

	// ErrInvalidPin is returned when a channel pin cannot be used.
	ErrInvalidPin = errors.New("rotary: invalid pin")

	// ErrCountsPerDetent is returned when counts per detent is below 1.
	ErrCountsPerDetent = errors.New("rotary: counts per detent must be at least 1")

	// ErrNoDriver is returned when an encoder is built without a driver.
	ErrNoDriver = errors.New("rotary: no driver")

	// ErrIdentityInUse is returned when another live encoder holds the identity.
	ErrIdentityInUse = errors.New("rotary: identity already in use")

	// ErrAlreadyActive is returned by Begin on an encoder that was already started.
	ErrAlreadyActive = errors.New("rotary: encoder already started")

	// ErrNotSupported is returned by hardware drivers on non-linux platforms.
	ErrNotSupported = errors.New("rotary encoder not supported on this platform")
)
