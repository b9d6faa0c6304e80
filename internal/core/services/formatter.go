package services

import (
	"strconv"
	"strings"

	"github.com/custodia-labs/reportrag/internal/core/domain"
)

// FormatDocument renders one retrieved document as a numbered block:
//
//	[Document <index>]
//	Metadata: {k1: v1, k2: v2}
//	Content: <content>
//
// Metadata keys are sorted so the output is deterministic.
func FormatDocument(index int, doc domain.Document) string {
	var b strings.Builder
	b.WriteString("[Document ")
	b.WriteString(strconv.Itoa(index))
	b.WriteString("]\nMetadata: ")
	b.WriteString(doc.Metadata.Literal())
	b.WriteString("\nContent: ")
	b.WriteString(doc.Content)
	return b.String()
}
