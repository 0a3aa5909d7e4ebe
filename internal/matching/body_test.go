package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/schoderer/pact-stub-server/pkg/pact"
)

func jsonRequest(body string) pact.Request {
	return pact.Request{
		Method:  "POST",
		Path:    "/",
		Headers: map[string][]string{"Content-Type": {"application/json"}},
		Body:    pact.PresentBody([]byte(body)),
	}
}

func TestMatchBodyStates(t *testing.T) {
	tests := []struct {
		name     string
		expected pact.Body
		actual   pact.Body
		match    bool
	}{
		{name: "missing expected matches anything", expected: pact.MissingBody(), actual: pact.PresentBody([]byte("x")), match: true},
		{name: "missing expected matches missing", expected: pact.MissingBody(), actual: pact.MissingBody(), match: true},
		{name: "empty expected matches empty", expected: pact.EmptyBody(), actual: pact.EmptyBody(), match: true},
		{name: "empty expected matches missing", expected: pact.EmptyBody(), actual: pact.MissingBody(), match: true},
		{name: "empty expected rejects present", expected: pact.EmptyBody(), actual: pact.PresentBody([]byte("x")), match: false},
		{name: "present expected rejects missing", expected: pact.PresentBody([]byte("x")), actual: pact.MissingBody(), match: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exp := pact.Request{Method: "POST", Path: "/", Body: tt.expected}
			act := pact.Request{Method: "POST", Path: "/", Body: tt.actual}
			mismatches := matchBody(&exp, &act)
			if tt.match {
				assert.Empty(t, mismatches)
			} else {
				assert.NotEmpty(t, mismatches)
			}
		})
	}
}

func TestMatchBodyJSON(t *testing.T) {
	tests := []struct {
		name     string
		expected string
		actual   string
		match    bool
	}{
		{name: "equal objects", expected: `{"a": 1, "b": 2}`, actual: `{"b": 2, "a": 1}`, match: true},
		{name: "different value", expected: `{"a": 1}`, actual: `{"a": 2}`, match: false},
		{name: "missing key", expected: `{"a": 1, "b": 2}`, actual: `{"a": 1}`, match: false},
		{name: "unexpected key", expected: `{"a": 1}`, actual: `{"a": 1, "b": 2}`, match: false},
		{name: "nested objects", expected: `{"a": {"b": [1, 2]}}`, actual: `{"a": {"b": [1, 2]}}`, match: true},
		{name: "array length differs", expected: `{"a": [1, 2]}`, actual: `{"a": [1]}`, match: false},
		{name: "array element differs", expected: `{"a": [1, 2]}`, actual: `{"a": [1, 3]}`, match: false},
		{name: "type differs", expected: `{"a": 1}`, actual: `{"a": "1"}`, match: false},
		{name: "integral float equals int", expected: `{"a": 100}`, actual: `{"a": 100.0}`, match: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exp := jsonRequest(tt.expected)
			act := jsonRequest(tt.actual)
			mismatches := matchBody(&exp, &act)
			if tt.match {
				assert.Empty(t, mismatches)
			} else {
				assert.NotEmpty(t, mismatches)
				assert.True(t, HasKind(mismatches, KindBody))
			}
		})
	}
}

func TestMatchBodyWithRules(t *testing.T) {
	exp := jsonRequest(`{"a": 1, "b": 2, "c": 3}`)
	exp.MatchingRules = pact.MatchingRules{
		Body: pact.RuleSet{"$.c": {{Match: pact.MatchInteger}}},
	}

	t.Run("rule satisfied", func(t *testing.T) {
		act := jsonRequest(`{"a": 1, "b": 2, "c": 16}`)
		assert.Empty(t, matchBody(&exp, &act))
	})

	t.Run("rule violated", func(t *testing.T) {
		act := jsonRequest(`{"a": 1, "b": 2, "c": "sixteen"}`)
		mismatches := matchBody(&exp, &act)
		assert.NotEmpty(t, mismatches)
		assert.Equal(t, "$.c", mismatches[0].Selector)
	})

	t.Run("rule governs subtree only", func(t *testing.T) {
		act := jsonRequest(`{"a": 9, "b": 2, "c": 16}`)
		mismatches := matchBody(&exp, &act)
		assert.NotEmpty(t, mismatches)
		assert.Equal(t, "$.a", mismatches[0].Selector)
	})
}

func TestMatchBodyWildcardArrayRule(t *testing.T) {
	exp := jsonRequest(`{"ids": [1, 2]}`)
	exp.MatchingRules = pact.MatchingRules{
		Body: pact.RuleSet{"$.ids[*]": {{Match: pact.MatchInteger}}},
	}

	act := jsonRequest(`{"ids": [7, 8]}`)
	assert.Empty(t, matchBody(&exp, &act))

	act = jsonRequest(`{"ids": [7, "eight"]}`)
	mismatches := matchBody(&exp, &act)
	assert.NotEmpty(t, mismatches)
	assert.Equal(t, "$.ids[1]", mismatches[0].Selector)
}

func TestMatchBodyContentType(t *testing.T) {
	exp := jsonRequest(`{"a": 1}`)
	act := pact.Request{
		Method:  "POST",
		Path:    "/",
		Headers: map[string][]string{"Content-Type": {"text/plain"}},
		Body:    pact.PresentBody([]byte(`{"a": 1}`)),
	}

	mismatches := matchBody(&exp, &act)
	assert.True(t, HasKind(mismatches, KindBodyType))
}

func TestMatchBodyNonJSONComparedByBytes(t *testing.T) {
	exp := pact.Request{
		Method:  "POST",
		Path:    "/",
		Headers: map[string][]string{"Content-Type": {"text/plain"}},
		Body:    pact.PresentBody([]byte("hello")),
	}
	act := exp
	assert.Empty(t, matchBody(&exp, &act))

	act.Body = pact.PresentBody([]byte("goodbye"))
	assert.True(t, HasKind(matchBody(&exp, &act), KindBody))
}

func TestContentTypeSniffing(t *testing.T) {
	t.Run("header wins", func(t *testing.T) {
		r := pact.Request{
			Headers: map[string][]string{"Content-Type": {"Application/JSON; charset=utf-8"}},
			Body:    pact.PresentBody([]byte("plain")),
		}
		assert.Equal(t, "application/json", contentType(&r))
	})

	t.Run("valid json sniffed", func(t *testing.T) {
		r := pact.Request{Body: pact.PresentBody([]byte(`{"a":1}`))}
		assert.Equal(t, "application/json", contentType(&r))
	})

	t.Run("non json falls back to text", func(t *testing.T) {
		r := pact.Request{Body: pact.PresentBody([]byte("hello there"))}
		assert.Equal(t, "text/plain", contentType(&r))
	})
}

func TestRuleSatisfied(t *testing.T) {
	tests := []struct {
		name     string
		rule     pact.Rule
		expected any
		actual   any
		want     bool
	}{
		{name: "type match", rule: pact.Rule{Match: pact.MatchType}, expected: "a", actual: "b", want: true},
		{name: "type mismatch", rule: pact.Rule{Match: pact.MatchType}, expected: "a", actual: 1.0, want: false},
		{name: "integer accepts int", rule: pact.Rule{Match: pact.MatchInteger}, expected: 1, actual: int64(5), want: true},
		{name: "integer accepts integral float", rule: pact.Rule{Match: pact.MatchInteger}, expected: 1, actual: 16.0, want: true},
		{name: "integer rejects fraction", rule: pact.Rule{Match: pact.MatchInteger}, expected: 1, actual: 16.5, want: false},
		{name: "integer rejects string", rule: pact.Rule{Match: pact.MatchInteger}, expected: 1, actual: "16", want: false},
		{name: "number accepts float", rule: pact.Rule{Match: pact.MatchNumber}, expected: 1, actual: 3.14, want: true},
		{name: "regex match", rule: pact.Rule{Match: pact.MatchRegex, Regex: `^\d+$`}, expected: "1", actual: "42", want: true},
		{name: "regex no match", rule: pact.Rule{Match: pact.MatchRegex, Regex: `^\d+$`}, expected: "1", actual: "x", want: false},
		{name: "bad regex fails closed", rule: pact.Rule{Match: pact.MatchRegex, Regex: `([`}, expected: "1", actual: "1", want: false},
		{name: "equality", rule: pact.Rule{Match: pact.MatchEquality}, expected: "a", actual: "a", want: true},
		{name: "unknown strategy falls back to equality", rule: pact.Rule{Match: "bogus"}, expected: "a", actual: "b", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ruleSatisfied(tt.rule, tt.expected, tt.actual))
		})
	}
}
