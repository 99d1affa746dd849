// Package backend prepares the engine state backend before any engine
// operation runs.
//
// For s3:// backends with create_bucket set it creates the state bucket
// when missing. Other backends need no preparation.
package backend
