// Package s3 manages the S3-compatible bucket that holds engine state.
//
// It creates the bucket before the first deployment when the backend asks
// for it, and empties and removes it when a destroy purges the backend.
// Endpoint and region come from the backend configuration or from the
// query string of the s3:// backend URL.
package s3
