package domain

import "fmt"

// ToolKind identifies one of the retrieval tools exposed to agents.
type ToolKind string

// Available tools.
const (
	// ToolBasic runs plain similarity retrieval.
	ToolBasic ToolKind = "basic"

	// ToolSelfQuery infers metadata filters from the query before retrieval.
	ToolSelfQuery ToolKind = "self_query"

	// ToolMultimodal retrieves text and the images referenced by it.
	ToolMultimodal ToolKind = "multimodal"
)

// Response sentinels returned when retrieval yields nothing.
const (
	// NoDocumentsFound is returned by the plain tools on an empty result.
	NoDocumentsFound = "No relevant documents found."

	// NoTextContextFound is the multimodal context on an empty result.
	NoTextContextFound = "No relevant text context found."

	// DefaultSourceLabel attributes multimodal payloads.
	DefaultSourceLabel = "한국은행 8대 업종 모니터링 보고서"
)

// AllToolKinds returns every tool in presentation order.
func AllToolKinds() []ToolKind {
	return []ToolKind{ToolBasic, ToolSelfQuery, ToolMultimodal}
}

// ParseToolKind accepts the kind name, its hyphenated form, or the full tool name.
func ParseToolKind(s string) (ToolKind, error) {
	for _, k := range AllToolKinds() {
		if s == string(k) || s == k.ToolName() || s == k.Flag() {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: unknown tool %q", ErrInvalidInput, s)
}

// IsValid returns true if the kind is recognised.
func (k ToolKind) IsValid() bool {
	switch k {
	case ToolBasic, ToolSelfQuery, ToolMultimodal:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (k ToolKind) String() string {
	return string(k)
}

// Flag returns the CLI spelling of the kind.
func (k ToolKind) Flag() string {
	if k == ToolSelfQuery {
		return "self-query"
	}
	return string(k)
}

// ToolName returns the name the tool is registered under for agents.
func (k ToolKind) ToolName() string {
	return "search_bok_reports_" + string(k)
}

// LogLabel returns the label used in the per-invocation log line.
func (k ToolKind) LogLabel() string {
	switch k {
	case ToolBasic:
		return "Basic"
	case ToolSelfQuery:
		return "Self-Query"
	case ToolMultimodal:
		return "Multimodal"
	default:
		return unknownDescription
	}
}

// ErrorPrefix returns the prefix of the error text this tool returns on failure.
func (k ToolKind) ErrorPrefix() string {
	if k == ToolMultimodal {
		return "Error during multimodal search"
	}
	return "Error during search"
}

// Description returns the agent-facing description of the tool.
func (k ToolKind) Description() string {
	switch k {
	case ToolBasic:
		return "Search Bank of Korea industry monitoring reports by semantic similarity. " +
			"Use for general questions about industry conditions and outlooks."
	case ToolSelfQuery:
		return "Search Bank of Korea industry monitoring reports with automatic metadata filtering. " +
			"Use when the question names a specific year or quarter, for example '2024년 1분기 반도체'."
	case ToolMultimodal:
		return "Search Bank of Korea industry monitoring reports with automatic year and quarter filtering, " +
			"and return the text context together with paths of charts and tables referenced by it, " +
			"as JSON with context, images and source fields."
	default:
		return unknownDescription
	}
}

// ToolResult is the outcome of one tool invocation.
// Text carries either the response or the error text; Failed tells them apart.
type ToolResult struct {
	Kind   ToolKind
	Text   string
	Failed bool
}

// ErrorResult builds the failure variant for a tool.
func ErrorResult(kind ToolKind, err error) ToolResult {
	return ToolResult{
		Kind:   kind,
		Text:   fmt.Sprintf("%s: %v", kind.ErrorPrefix(), err),
		Failed: true,
	}
}
