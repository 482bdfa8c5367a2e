package uvm

import "errors"

// ErrAlreadyInitialized is returned by Initialize when the manager has
// already been initialized; it is not fatal — the existing instance stays
// in place.
var ErrAlreadyInitialized = errors.New("uvm: manager already initialized")

// ErrInvalidConfig is returned by Initialize when the supplied Config has
// a non-positive size field that cannot be used to size a pool.
var ErrInvalidConfig = errors.New("uvm: invalid configuration")

// ErrNotInitialized is returned by Instance when Initialize has not been
// called yet.
var ErrNotInitialized = errors.New("uvm: manager not initialized")
