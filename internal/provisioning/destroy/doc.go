// Package destroy handles topology teardown.
//
// It runs the engine destroy, which deletes the consumer side before the
// producer side following resource dependencies, then optionally removes
// the stack from the backend and purges the state bucket.
package destroy
