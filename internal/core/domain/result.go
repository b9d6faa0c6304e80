package domain

// ImageReference is an image link discovered inside document content.
type ImageReference struct {
	// RawPath is the path text captured from the reference.
	RawPath string

	// ResolvedPath is the image-store root joined with the basename of RawPath.
	// Empty when the basename is unusable.
	ResolvedPath string

	// Exists reports whether ResolvedPath is an existing regular file.
	Exists bool
}

// AggregatedResult is the assembly of one retrieval call.
type AggregatedResult struct {
	// Documents in retrieval order.
	Documents []Document

	// UniqueImages holds resolved image paths in first-occurrence order, without duplicates.
	UniqueImages []string

	// TextBlocks holds one formatted block per document.
	TextBlocks []string
}

// IsEmpty reports whether retrieval returned no documents.
func (r AggregatedResult) IsEmpty() bool {
	return len(r.Documents) == 0
}

// MultimodalPayload is the structured response of the multimodal tool.
// Field order is part of the wire format.
type MultimodalPayload struct {
	Context string   `json:"context"`
	Images  []string `json:"images"`
	Source  string   `json:"source"`
}
