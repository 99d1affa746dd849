// Package labels provides consistent labeling for Google Cloud resources.
//
// Label keys use the psclink- prefix (Google Cloud label keys cannot carry a
// domain) and follow a builder pattern for constructing label sets with the
// topology name, side, component and manager identification.
package labels
