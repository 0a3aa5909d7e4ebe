package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/schoderer/pact-stub-server/pkg/pact"
)

func TestMatchMethod(t *testing.T) {
	tests := []struct {
		name     string
		expected string
		actual   string
		match    bool
	}{
		{name: "same method", expected: "GET", actual: "GET", match: true},
		{name: "case insensitive", expected: "GET", actual: "get", match: true},
		{name: "different method", expected: "GET", actual: "POST", match: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exp := pact.Request{Method: tt.expected, Path: "/"}
			act := pact.Request{Method: tt.actual, Path: "/"}
			mismatches := MatchRequest(&exp, &act)
			if tt.match {
				assert.Empty(t, mismatches)
			} else {
				assert.True(t, HasKind(mismatches, KindMethod))
			}
		})
	}
}

func TestMatchPath(t *testing.T) {
	exp := pact.Request{Method: "GET", Path: "/one"}
	act := pact.Request{Method: "GET", Path: "/two"}

	mismatches := MatchRequest(&exp, &act)
	assert.True(t, HasKind(mismatches, KindPath))
	assert.False(t, HasKind(mismatches, KindMethod))
}

func TestMatchPathWithRegexRule(t *testing.T) {
	exp := pact.Request{
		Method: "GET",
		Path:   "/accounts/1",
		MatchingRules: pact.MatchingRules{
			Path: []pact.Rule{{Match: pact.MatchRegex, Regex: `^/accounts/\d+$`}},
		},
	}

	act := pact.Request{Method: "GET", Path: "/accounts/42"}
	assert.Empty(t, MatchRequest(&exp, &act))

	act = pact.Request{Method: "GET", Path: "/accounts/abc"}
	assert.True(t, HasKind(MatchRequest(&exp, &act), KindPath))
}

func TestMatchQuery(t *testing.T) {
	tests := []struct {
		name     string
		expected map[string][]string
		actual   map[string][]string
		match    bool
	}{
		{
			name:     "identical params",
			expected: map[string][]string{"page": {"1"}},
			actual:   map[string][]string{"page": {"1"}},
			match:    true,
		},
		{
			name:     "no params on either side",
			expected: nil,
			actual:   nil,
			match:    true,
		},
		{
			name:     "different value",
			expected: map[string][]string{"page": {"1"}},
			actual:   map[string][]string{"page": {"2"}},
			match:    false,
		},
		{
			name:     "missing param",
			expected: map[string][]string{"page": {"1"}},
			actual:   nil,
			match:    false,
		},
		{
			name:     "unexpected param",
			expected: nil,
			actual:   map[string][]string{"page": {"1"}},
			match:    false,
		},
		{
			name:     "repeated values in order",
			expected: map[string][]string{"id": {"1", "2"}},
			actual:   map[string][]string{"id": {"1", "2"}},
			match:    true,
		},
		{
			name:     "repeated values out of order",
			expected: map[string][]string{"id": {"1", "2"}},
			actual:   map[string][]string{"id": {"2", "1"}},
			match:    false,
		},
		{
			name:     "different value count",
			expected: map[string][]string{"id": {"1"}},
			actual:   map[string][]string{"id": {"1", "1"}},
			match:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exp := pact.Request{Method: "GET", Path: "/", Query: tt.expected}
			act := pact.Request{Method: "GET", Path: "/", Query: tt.actual}
			mismatches := MatchRequest(&exp, &act)
			if tt.match {
				assert.Empty(t, mismatches)
			} else {
				assert.True(t, HasKind(mismatches, KindQuery))
			}
		})
	}
}

func TestMatchQueryWithRule(t *testing.T) {
	exp := pact.Request{
		Method: "GET",
		Path:   "/",
		Query:  map[string][]string{"page": {"1"}},
		MatchingRules: pact.MatchingRules{
			Query: pact.RuleSet{"page": {{Match: pact.MatchRegex, Regex: `^\d+$`}}},
		},
	}

	act := pact.Request{Method: "GET", Path: "/", Query: map[string][]string{"page": {"99"}}}
	assert.Empty(t, MatchRequest(&exp, &act))

	act = pact.Request{Method: "GET", Path: "/", Query: map[string][]string{"page": {"abc"}}}
	assert.True(t, HasKind(MatchRequest(&exp, &act), KindQuery))
}

func TestMatchValueListRulesStillCheckCount(t *testing.T) {
	exp := pact.Request{
		Method: "GET",
		Path:   "/",
		Query:  map[string][]string{"page": {"1"}},
		MatchingRules: pact.MatchingRules{
			Query: pact.RuleSet{"page": {{Match: pact.MatchRegex, Regex: `^\d+$`}}},
		},
	}

	t.Run("extra values", func(t *testing.T) {
		act := pact.Request{Method: "GET", Path: "/", Query: map[string][]string{"page": {"2", "3"}}}
		mismatches := MatchRequest(&exp, &act)
		assert.True(t, HasKind(mismatches, KindQuery))
		assert.Contains(t, mismatches[0].Description, "expected 1 value(s)")
	})

	t.Run("no values", func(t *testing.T) {
		act := pact.Request{Method: "GET", Path: "/", Query: map[string][]string{"page": {}}}
		assert.True(t, HasKind(MatchRequest(&exp, &act), KindQuery))
	})
}

func TestMatchHeaders(t *testing.T) {
	tests := []struct {
		name     string
		expected map[string][]string
		actual   map[string][]string
		match    bool
	}{
		{
			name:     "exact value",
			expected: map[string][]string{"Accept": {"application/json"}},
			actual:   map[string][]string{"Accept": {"application/json"}},
			match:    true,
		},
		{
			name:     "name is case insensitive",
			expected: map[string][]string{"Accept": {"application/json"}},
			actual:   map[string][]string{"accept": {"application/json"}},
			match:    true,
		},
		{
			name:     "extra actual headers are ignored",
			expected: map[string][]string{"Accept": {"application/json"}},
			actual:   map[string][]string{"Accept": {"application/json"}, "User-Agent": {"curl"}},
			match:    true,
		},
		{
			name:     "missing header",
			expected: map[string][]string{"Accept": {"application/json"}},
			actual:   nil,
			match:    false,
		},
		{
			name:     "value compared exactly",
			expected: map[string][]string{"X-Test": {"X, Z"}},
			actual:   map[string][]string{"X-Test": {"X, Y"}},
			match:    false,
		},
		{
			name:     "repeated values in order",
			expected: map[string][]string{"X-Id": {"1", "2"}},
			actual:   map[string][]string{"X-Id": {"1", "2"}},
			match:    true,
		},
		{
			name:     "repeated values out of order",
			expected: map[string][]string{"X-Id": {"1", "2"}},
			actual:   map[string][]string{"X-Id": {"2", "1"}},
			match:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exp := pact.Request{Method: "GET", Path: "/", Headers: tt.expected}
			act := pact.Request{Method: "GET", Path: "/", Headers: tt.actual}
			mismatches := MatchRequest(&exp, &act)
			if tt.match {
				assert.Empty(t, mismatches)
			} else {
				assert.True(t, HasKind(mismatches, KindHeader))
			}
		})
	}
}

func TestMismatchesAreOrdered(t *testing.T) {
	exp := pact.Request{
		Method: "POST",
		Path:   "/one",
		Query:  map[string][]string{"a": {"1"}},
	}
	act := pact.Request{Method: "GET", Path: "/two"}

	mismatches := MatchRequest(&exp, &act)
	assert.Len(t, mismatches, 3)
	assert.Equal(t, KindMethod, mismatches[0].Kind)
	assert.Equal(t, KindPath, mismatches[1].Kind)
	assert.Equal(t, KindQuery, mismatches[2].Kind)
}

func TestMismatchDescriptions(t *testing.T) {
	exp := pact.Request{Method: "GET", Path: "/one"}
	act := pact.Request{Method: "POST", Path: "/one"}

	mismatches := MatchRequest(&exp, &act)
	assert.Len(t, mismatches, 1)
	assert.Equal(t, "HTTP method does not match, expected: GET, actual: POST", mismatches[0].String())
}
