package domain

import "time"

// RawReport is an unparsed report file read from disk.
type RawReport struct {
	// URI is the absolute path of the file.
	URI string

	// Content is the raw file bytes.
	Content []byte

	// ModifiedAt is the file modification time.
	ModifiedAt time.Time
}

// Page is one page of a normalised report.
type Page struct {
	// Number is the 1-based page number.
	Number int

	// Content is the page markdown.
	Content string
}
