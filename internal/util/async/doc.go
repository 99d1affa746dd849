// Package async provides utilities for parallel task execution with
// error collection.
//
// [RunParallel] executes independent checks concurrently and reports the
// first failure once every task has finished. The doctor command uses it
// to probe tools, credentials and the state backend at the same time.
package async
