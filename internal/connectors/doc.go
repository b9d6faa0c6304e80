// Package connectors holds the sources reports are ingested from.
// The filesystem connector watches a report directory and keeps the index
// in step with it.
package connectors
