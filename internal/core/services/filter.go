package services

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/custodia-labs/reportrag/internal/core/domain"
	"github.com/custodia-labs/reportrag/internal/core/ports/driven"
	"github.com/custodia-labs/reportrag/internal/logger"
)

// Ensure inferrers implement the interface.
var (
	_ driven.FilterInferrer = (*RuleFilterInferrer)(nil)
	_ driven.FilterInferrer = (*LLMFilterInferrer)(nil)
)

// Metadata attributes the self-query tools may filter on.
const (
	AttrYear    = "year"
	AttrQuarter = "quarter"
)

// FilterAttribute describes a metadata key that can appear in an inferred filter.
type FilterAttribute struct {
	Name        string
	Kind        domain.ValueKind
	Description string
}

// DefaultFilterAttributes returns the attributes carried by indexed reports.
func DefaultFilterAttributes() []FilterAttribute {
	return []FilterAttribute{
		{Name: AttrYear, Kind: domain.KindInt, Description: "report publication year, e.g. 2024"},
		{Name: AttrQuarter, Kind: domain.KindInt, Description: "report quarter, 1 to 4"},
	}
}

var (
	yearPatterns = []*regexp.Regexp{
		regexp.MustCompile(`((?:19|20)\d{2})\s*년`),
		regexp.MustCompile(`(?:^|\D)((?:19|20)\d{2})(?:\D|$)`),
	}
	quarterPatterns = []*regexp.Regexp{
		regexp.MustCompile(`([1-4])(?:\s*/\s*4)?\s*분기`),
		regexp.MustCompile(`(?i)(?:^|[^a-z0-9])q([1-4])(?:[^0-9]|$)`),
		regexp.MustCompile(`(?i)\b([1-4])(?:st|nd|rd|th)\s+quarter\b`),
	}
	koreanQuarterWords = []string{"첫째 분기", "둘째 분기", "셋째 분기", "넷째 분기"}
)

// RuleFilterInferrer extracts year and quarter conditions with regular expressions.
// The query is returned unchanged.
type RuleFilterInferrer struct{}

// NewRuleFilterInferrer creates a rule-based inferrer.
func NewRuleFilterInferrer() *RuleFilterInferrer {
	return &RuleFilterInferrer{}
}

// Infer returns query and the year/quarter conditions it mentions.
func (r *RuleFilterInferrer) Infer(_ context.Context, query string) (string, domain.MetadataFilter, error) {
	filter := domain.MetadataFilter{}

	if year, ok := firstIntMatch(yearPatterns, query); ok {
		filter[AttrYear] = domain.IntValue(year)
	}

	if q, ok := firstIntMatch(quarterPatterns, query); ok {
		filter[AttrQuarter] = domain.IntValue(q)
	} else if q, ok := firstQuarterWord(query); ok {
		filter[AttrQuarter] = domain.IntValue(q)
	}

	return query, filter, nil
}

// firstQuarterWord returns the quarter named by the earliest Korean ordinal in s.
func firstQuarterWord(s string) (int64, bool) {
	best, quarter := -1, int64(0)
	for i, word := range koreanQuarterWords {
		at := strings.Index(s, word)
		if at >= 0 && (best < 0 || at < best) {
			best, quarter = at, int64(i+1)
		}
	}
	return quarter, best >= 0
}

func firstIntMatch(patterns []*regexp.Regexp, s string) (int64, bool) {
	for _, re := range patterns {
		m := re.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		n, err := strconv.ParseInt(m[1], 10, 64)
		if err == nil {
			return n, true
		}
	}
	return 0, false
}

// LLMFilterInferrer asks a language model to split a question into a search
// query and a metadata filter.
type LLMFilterInferrer struct {
	llm        driven.LLMService
	prompts    driven.PromptStore
	attributes []FilterAttribute
}

// NewLLMFilterInferrer creates an LLM-backed inferrer. prompts may be nil.
func NewLLMFilterInferrer(llm driven.LLMService, prompts driven.PromptStore) *LLMFilterInferrer {
	return &LLMFilterInferrer{
		llm:        llm,
		prompts:    prompts,
		attributes: DefaultFilterAttributes(),
	}
}

// Infer calls the model and parses its JSON answer.
// A reply that cannot be parsed yields ErrInvalidFilter.
func (l *LLMFilterInferrer) Infer(ctx context.Context, query string) (string, domain.MetadataFilter, error) {
	if l.llm == nil {
		return "", nil, domain.ErrLLMUnavailable
	}

	prompt := fmt.Sprintf(l.template(), l.describeAttributes(), query)
	reply, err := l.llm.Generate(ctx, prompt, driven.GenerateOptions{MaxTokens: 256})
	if err != nil {
		return "", nil, fmt.Errorf("generate filter: %w", err)
	}

	parsed, filter, err := l.parse(reply)
	if err != nil {
		return "", nil, err
	}
	if parsed == "" {
		parsed = query
	}
	logger.Debug("LLM filter inference: query=%q filter=%s", parsed, filter)
	return parsed, filter, nil
}

func (l *LLMFilterInferrer) template() string {
	if l.prompts == nil {
		return driven.DefaultSelfQueryPrompt
	}
	tmpl, err := l.prompts.Load(driven.PromptSelfQuery)
	if err != nil || strings.Count(tmpl, "%s") != 2 {
		logger.Debug("Self-query prompt unusable, using default")
		return driven.DefaultSelfQueryPrompt
	}
	return tmpl
}

func (l *LLMFilterInferrer) describeAttributes() string {
	var b strings.Builder
	for _, a := range l.attributes {
		fmt.Fprintf(&b, "- %s (%s): %s\n", a.Name, a.Kind, a.Description)
	}
	return b.String()
}

type inferredRequest struct {
	Query  string                     `json:"query"`
	Filter map[string]json.RawMessage `json:"filter"`
}

// parse extracts the JSON object from reply. Code fences and surrounding prose are ignored.
func (l *LLMFilterInferrer) parse(reply string) (string, domain.MetadataFilter, error) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end < start {
		return "", nil, fmt.Errorf("%w: no JSON object in reply %q", domain.ErrInvalidFilter, truncate(reply, 80))
	}

	var req inferredRequest
	if err := json.Unmarshal([]byte(reply[start:end+1]), &req); err != nil {
		return "", nil, fmt.Errorf("%w: %v", domain.ErrInvalidFilter, err)
	}

	filter := domain.MetadataFilter{}
	for _, attr := range l.attributes {
		raw, ok := req.Filter[attr.Name]
		if !ok || string(raw) == "null" {
			continue
		}
		v, err := coerceAttribute(attr, raw)
		if err != nil {
			return "", nil, err
		}
		filter[attr.Name] = v
	}
	for k := range req.Filter {
		if _, ok := filter[k]; !ok {
			logger.Debug("Dropping unsupported filter attribute %q", k)
		}
	}

	return strings.TrimSpace(req.Query), filter, nil
}

// coerceAttribute decodes raw into the attribute's kind. Numeric strings are accepted for ints.
func coerceAttribute(attr FilterAttribute, raw json.RawMessage) (domain.MetadataValue, error) {
	var v domain.MetadataValue
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("%w: %s: %v", domain.ErrInvalidFilter, attr.Name, err)
	}
	if v.Kind() == attr.Kind {
		return v, nil
	}
	if attr.Kind == domain.KindInt {
		if s, ok := v.Str(); ok {
			if n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
				return domain.IntValue(n), nil
			}
		}
		if f, ok := v.Float(); ok && f == float64(int64(f)) {
			return domain.IntValue(int64(f)), nil
		}
	}
	return v, fmt.Errorf("%w: %s must be %s, got %s", domain.ErrInvalidFilter, attr.Name, attr.Kind, v.Kind())
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
