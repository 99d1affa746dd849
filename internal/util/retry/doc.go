// Package retry provides exponential backoff retry logic for transient failures.
//
// [WithExponentialBackoff] retries an operation with configurable max attempts,
// initial delay, maximum delay and an optional retry predicate. It wraps
// engine operations that can lose a stack lock to another update.
package retry
