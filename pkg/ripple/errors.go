package ripple

import "errors"

// ErrAlreadyWatched is returned by Watch when the supplied model is itself
// an Object. Re-wrapping a wrapper is a programmer error; nested reuse is
// handled by the per-key wrapper cache instead.
var ErrAlreadyWatched = errors.New("ripple: model is already watched")

// ErrNotWatchable is returned by Watch when the supplied model is not a
// non-nil map[string]any.
var ErrNotWatchable = errors.New("ripple: model is not a map[string]any")

// ErrFrozen is returned by Set and Delete after Freeze has been called on
// the Object. The sink is never invoked for a rejected operation.
var ErrFrozen = errors.New("ripple: object is frozen")

// ErrNotDerived is returned by Call when the key does not hold a derived
// function.
var ErrNotDerived = errors.New("ripple: key does not hold a derived function")
