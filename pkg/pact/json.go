package pact

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// Pact files in the wild span specification versions 2 and 3, which encode
// queries, headers, provider states, and matching rules differently. The
// unmarshallers below accept both shapes and normalize everything into the
// v3-style model.

// UnmarshalJSON decodes an interaction, accepting both the v3 providerStates
// list and the v2 providerState string. A missing response decodes to the
// default 200 response.
func (i *Interaction) UnmarshalJSON(data []byte) error {
	var raw struct {
		Description     string          `json:"description"`
		ProviderStates  []ProviderState `json:"providerStates"`
		ProviderState   string          `json:"providerState"`
		ProviderStateUS string          `json:"provider_state"`
		Request         json.RawMessage `json:"request"`
		Response        json.RawMessage `json:"response"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse interaction: %w", err)
	}

	i.Description = raw.Description
	i.ProviderStates = raw.ProviderStates
	if len(i.ProviderStates) == 0 {
		if name := firstNonEmpty(raw.ProviderState, raw.ProviderStateUS); name != "" {
			i.ProviderStates = []ProviderState{{Name: name}}
		}
	}

	if raw.Request != nil {
		if err := json.Unmarshal(raw.Request, &i.Request); err != nil {
			return err
		}
	} else {
		i.Request = Request{Method: "GET", Path: "/", Body: MissingBody()}
	}

	i.Response = DefaultResponse()
	if raw.Response != nil {
		if err := json.Unmarshal(raw.Response, &i.Response); err != nil {
			return err
		}
	}
	return nil
}

// UnmarshalJSON decodes an expected request. Query strings, single-valued
// headers, structured bodies, and v2 matching rules are all normalized.
func (r *Request) UnmarshalJSON(data []byte) error {
	var raw struct {
		Method        string          `json:"method"`
		Path          string          `json:"path"`
		Query         json.RawMessage `json:"query"`
		Headers       json.RawMessage `json:"headers"`
		Body          json.RawMessage `json:"body"`
		MatchingRules json.RawMessage `json:"matchingRules"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse request: %w", err)
	}

	r.Method = strings.ToUpper(firstNonEmpty(raw.Method, "GET"))
	r.Path = firstNonEmpty(raw.Path, "/")

	query, err := parseQuery(raw.Query)
	if err != nil {
		return err
	}
	r.Query = query

	headers, err := parseHeaders(raw.Headers)
	if err != nil {
		return err
	}
	r.Headers = headers

	body, err := parseBody(raw.Body)
	if err != nil {
		return err
	}
	r.Body = body

	rules, err := parseMatchingRules(raw.MatchingRules)
	if err != nil {
		return err
	}
	r.MatchingRules = rules
	return nil
}

// UnmarshalJSON decodes a canned response. A missing status decodes to 200.
func (r *Response) UnmarshalJSON(data []byte) error {
	var raw struct {
		Status     int             `json:"status"`
		Headers    json.RawMessage `json:"headers"`
		Body       json.RawMessage `json:"body"`
		Generators json.RawMessage `json:"generators"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	r.Status = raw.Status
	if r.Status == 0 {
		r.Status = 200
	}

	headers, err := parseHeaders(raw.Headers)
	if err != nil {
		return err
	}
	r.Headers = headers

	body, err := parseBody(raw.Body)
	if err != nil {
		return err
	}
	r.Body = body

	generators, err := parseGenerators(raw.Generators)
	if err != nil {
		return err
	}
	r.Generators = generators
	return nil
}

// parseQuery accepts the v3 map form (values as string or list) and the v2
// raw query-string form ("a=1&b=2").
func parseQuery(raw json.RawMessage) (map[string][]string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var qs string
	if err := json.Unmarshal(raw, &qs); err == nil {
		if qs == "" {
			return nil, nil
		}
		values, err := url.ParseQuery(qs)
		if err != nil {
			return nil, fmt.Errorf("invalid query string %q: %w", qs, err)
		}
		return values, nil
	}

	return parseMultiValued(raw, "query")
}

// parseHeaders accepts values as a single string or a list of strings.
// Comma-joined values are kept verbatim as one value; matching compares
// header values by exact string equality.
func parseHeaders(raw json.RawMessage) (map[string][]string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	return parseMultiValued(raw, "headers")
}

// parseMultiValued decodes a JSON object whose values are either a string or
// a list of strings into a multimap.
func parseMultiValued(raw json.RawMessage, field string) (map[string][]string, error) {
	var entries map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", field, err)
	}

	result := make(map[string][]string, len(entries))
	for name, value := range entries {
		var single string
		if err := json.Unmarshal(value, &single); err == nil {
			result[name] = []string{single}
			continue
		}
		var many []string
		if err := json.Unmarshal(value, &many); err != nil {
			return nil, fmt.Errorf("invalid %s value for %q: %w", field, name, err)
		}
		result[name] = many
	}
	return result, nil
}

// parseBody maps JSON to the three body states: an absent or null body is
// missing, an empty string is empty, a string is its raw bytes, and any
// structured value is re-serialized to compact JSON.
func parseBody(raw json.RawMessage) (Body, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return MissingBody(), nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s == "" {
			return EmptyBody(), nil
		}
		return PresentBody([]byte(s)), nil
	}

	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return MissingBody(), fmt.Errorf("invalid body: %w", err)
	}
	data, err := json.Marshal(value)
	if err != nil {
		return MissingBody(), err
	}
	return PresentBody(data), nil
}

// rawRuleList is the v3 shape: a list of matchers plus an optional combine
// directive (only AND semantics are applied).
type rawRuleList struct {
	Matchers []Rule `json:"matchers"`
	Combine  string `json:"combine,omitempty"`
}

// parseMatchingRules accepts both the v3 category form
// ({"body": {"$.c": {"matchers": [...]}}}) and the v2 flat form
// ({"$.body.c": {"match": "type"}}).
func parseMatchingRules(raw json.RawMessage) (MatchingRules, error) {
	var rules MatchingRules
	if len(raw) == 0 || string(raw) == "null" {
		return rules, nil
	}

	var categories map[string]json.RawMessage
	if err := json.Unmarshal(raw, &categories); err != nil {
		return rules, fmt.Errorf("invalid matchingRules: %w", err)
	}

	v2 := false
	for key := range categories {
		if strings.HasPrefix(key, "$.") {
			v2 = true
			break
		}
	}
	if v2 {
		return parseV2MatchingRules(categories)
	}

	for category, value := range categories {
		switch category {
		case "path":
			list, err := parseRuleList(value)
			if err != nil {
				return rules, err
			}
			rules.Path = list
		case "query", "header", "body":
			var entries map[string]json.RawMessage
			if err := json.Unmarshal(value, &entries); err != nil {
				return rules, fmt.Errorf("invalid matchingRules category %q: %w", category, err)
			}
			set := make(RuleSet, len(entries))
			for selector, ruleValue := range entries {
				list, err := parseRuleList(ruleValue)
				if err != nil {
					return rules, err
				}
				set[selector] = list
			}
			switch category {
			case "query":
				rules.Query = set
			case "header":
				rules.Header = set
			case "body":
				rules.Body = set
			}
		default:
			// Unknown category (e.g. "status" on responses): ignored.
		}
	}
	return rules, nil
}

// parseV2MatchingRules converts v2 selectors like "$.body.c", "$.path",
// "$.query.page" and "$.headers.Accept" into the category model.
func parseV2MatchingRules(entries map[string]json.RawMessage) (MatchingRules, error) {
	var rules MatchingRules
	for selector, value := range entries {
		list, err := parseRuleList(value)
		if err != nil {
			return rules, err
		}
		switch {
		case selector == "$.path":
			rules.Path = list
		case strings.HasPrefix(selector, "$.body"):
			if rules.Body == nil {
				rules.Body = make(RuleSet)
			}
			rules.Body["$"+strings.TrimPrefix(selector, "$.body")] = list
		case strings.HasPrefix(selector, "$.query."):
			if rules.Query == nil {
				rules.Query = make(RuleSet)
			}
			rules.Query[strings.TrimPrefix(selector, "$.query.")] = list
		case strings.HasPrefix(selector, "$.headers."):
			if rules.Header == nil {
				rules.Header = make(RuleSet)
			}
			rules.Header[strings.TrimPrefix(selector, "$.headers.")] = list
		}
	}
	return rules, nil
}

// parseRuleList accepts either the v3 matchers list or a bare v2 rule object.
func parseRuleList(raw json.RawMessage) ([]Rule, error) {
	var list rawRuleList
	if err := json.Unmarshal(raw, &list); err == nil && len(list.Matchers) > 0 {
		return list.Matchers, nil
	}
	var rule Rule
	if err := json.Unmarshal(raw, &rule); err != nil {
		return nil, fmt.Errorf("invalid matching rule: %w", err)
	}
	if rule.Match == "" && rule.Regex != "" {
		rule.Match = MatchRegex
	}
	if rule.Match == "" {
		rule.Match = MatchType
	}
	return []Rule{rule}, nil
}

// parseGenerators decodes the body category of the v3 generators block.
func parseGenerators(raw json.RawMessage) (Generators, error) {
	var generators Generators
	if len(raw) == 0 || string(raw) == "null" {
		return generators, nil
	}

	var categories struct {
		Body map[string]Generator `json:"body"`
	}
	if err := json.Unmarshal(raw, &categories); err != nil {
		return generators, fmt.Errorf("invalid generators: %w", err)
	}
	generators.Body = categories.Body
	return generators, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
