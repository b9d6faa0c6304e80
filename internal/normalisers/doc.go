// Package normalisers provides implementations of the Normaliser interface
// for report formats. Each normaliser turns a raw file into a report with
// metadata and pages.
//
// Normalisers are registered with the Registry at startup, keyed by file extension.
package normalisers
