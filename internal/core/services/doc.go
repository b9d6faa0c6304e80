// Package services implements the driving port interfaces.
//
// The retrieval path is leaf-first: a Retriever returns ordered documents,
// FormatDocument renders each one, ImageResolver finds the images a document
// references, the Assembler builds the response, and ToolService wraps it all
// behind one failure boundary. IndexService fills the stores the retrievers read.
//
// Services depend only on ports and domain types.
package services
