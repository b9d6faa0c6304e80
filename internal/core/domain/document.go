package domain

import "time"

// Document is one retrieved chunk as seen by the tools.
// Retrieval order is meaningful and must be preserved by every consumer.
type Document struct {
	// ID is the chunk identifier. Informational only.
	ID string

	// Content is the raw chunk text. It may embed ![alt](path) image references.
	Content string

	// Metadata holds scalar key-value pairs. Keys are not uniform across documents.
	Metadata Metadata
}

// Report is a source report ingested into the retrieval index.
type Report struct {
	// ID is the unique identifier for the report.
	ID string

	// URI is the original location of the report file.
	URI string

	// Title is the human-readable title.
	Title string

	// Content is the normalised full text before chunking.
	Content string

	// Metadata holds report-level metadata (year, quarter, source file).
	Metadata Metadata

	// CreatedAt is when the report was first indexed.
	CreatedAt time.Time

	// UpdatedAt is when the report was last indexed.
	UpdatedAt time.Time
}

// Chunk is a searchable unit within a report.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// ReportID links to the parent Report.
	ReportID string

	// Collection names the vector collection the chunk belongs to.
	Collection string

	// Content is the text content of this chunk.
	Content string

	// Position is the ordinal position within the report and collection.
	Position int

	// Embedding is the vector representation for semantic search.
	Embedding []float32

	// Metadata holds chunk metadata, inherited from the report plus page.
	Metadata Metadata
}

// ToDocument converts a stored chunk into the retrieval view.
func (c Chunk) ToDocument() Document {
	return Document{
		ID:       c.ID,
		Content:  c.Content,
		Metadata: c.Metadata.Clone(),
	}
}

// Collection names used by the indexer and the retrievers.
const (
	// CollectionText holds chunks with image markup stripped.
	CollectionText = "reports"

	// CollectionMultimodal holds chunks with image references kept.
	CollectionMultimodal = "reports_multimodal"
)
