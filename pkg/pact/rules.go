package pact

// Rule is a single matching rule from a pact file. Match selects the
// comparison strategy; Regex carries the pattern for regex rules.
type Rule struct {
	Match string `json:"match"`
	Regex string `json:"regex,omitempty"`
	Min   int    `json:"min,omitempty"`
	Max   int    `json:"max,omitempty"`
}

// Rule match strategies understood by the matcher.
const (
	MatchEquality = "equality"
	MatchType     = "type"
	MatchInteger  = "integer"
	MatchDecimal  = "decimal"
	MatchNumber   = "number"
	MatchRegex    = "regex"
)

// RuleSet maps a selector (a body path like "$.c", or a query parameter or
// header name) to the rules that apply there.
type RuleSet map[string][]Rule

// Rules returns the rules registered for the given selector, or nil.
func (rs RuleSet) Rules(selector string) []Rule {
	if rs == nil {
		return nil
	}
	return rs[selector]
}

// MatchingRules holds the per-category rules of an expected request.
type MatchingRules struct {
	Path   []Rule
	Query  RuleSet
	Header RuleSet
	Body   RuleSet
}

// Empty reports whether no rules are defined in any category.
func (m MatchingRules) Empty() bool {
	return len(m.Path) == 0 && len(m.Query) == 0 && len(m.Header) == 0 && len(m.Body) == 0
}

// Generator describes one value generator from a pact file.
type Generator struct {
	Type   string `json:"type"`
	Min    int    `json:"min,omitempty"`
	Max    int    `json:"max,omitempty"`
	Size   int    `json:"size,omitempty"`
	Format string `json:"format,omitempty"`
}

// Generators holds the response generators of an interaction, keyed by the
// body path the generated value is written to.
type Generators struct {
	Body map[string]Generator
}

// Empty reports whether no generators are defined.
func (g Generators) Empty() bool {
	return len(g.Body) == 0
}
