package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files or embed them in the binary.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not found, implementations should return a sensible default
	// or an error, depending on whether the prompt is required.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names used throughout the application.
const (
	// PromptSelfQuery asks the LLM to split a question into a search query
	// and a metadata filter. The template takes two %s placeholders:
	// the attribute list, then the question.
	PromptSelfQuery = "self_query"
)

// DefaultSelfQueryPrompt is the built-in PromptSelfQuery template.
const DefaultSelfQueryPrompt = `You convert questions about Bank of Korea industry monitoring reports into a search request.

Filterable attributes:
%s
Return only a JSON object of the form {"query": "<search text>", "filter": {<attribute>: <value>}}.
Use only the attributes listed above, with integer values. Omit the filter entries the question does not state.
Keep the query in the language of the question.

Example: "2024년 1분기 반도체 동향" -> {"query": "반도체 동향", "filter": {"year": 2024, "quarter": 1}}

Question: %s`
