// Package statestore persists wizard state across client reloads. State is
// namespaced by the opaque client key and stored as independent fields with no
// multi-field atomicity; callers must not assume two writes land together.
package statestore

import "context"

// Store is the raw persistence contract. A missing field reads as
// (nil, false, nil): absence is a normal state, not a fault, so callers fall
// back to defaults. Errors signal a broken backend, which the Persistent
// wrapper absorbs per the wizard's fail-soft policy.
type Store interface {
	Read(ctx context.Context, clientKey, field string) ([]byte, bool, error)
	Write(ctx context.Context, clientKey, field string, value []byte) error
	Clear(ctx context.Context, clientKey string) error
}
