package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound     = errors.New("not found")
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("unauthorized")

	// ErrTokenNotRegistered is reported by the push sender when the transport
	// says a stored device token is permanently unusable. The dispatcher reacts
	// by clearing that user's token, never by failing the whole fan-out.
	ErrTokenNotRegistered = errors.New("registration token not registered")
)
