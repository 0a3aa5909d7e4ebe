package matching

import (
	"sort"
	"strings"

	"github.com/schoderer/pact-stub-server/pkg/pact"
)

// MatchRequest compares an actual incoming request against the expected
// request of an interaction and returns every mismatch found, in evaluation
// order (method, path, query, headers, body). An empty result is a full
// match. The comparison is read-only on both requests.
func MatchRequest(expected, actual *pact.Request) []Mismatch {
	var mismatches []Mismatch
	mismatches = append(mismatches, matchMethod(expected.Method, actual.Method)...)
	mismatches = append(mismatches, matchPath(expected, actual)...)
	mismatches = append(mismatches, matchQuery(expected, actual)...)
	mismatches = append(mismatches, matchHeaders(expected, actual)...)
	mismatches = append(mismatches, matchBody(expected, actual)...)
	return mismatches
}

// matchMethod compares methods case-insensitively.
func matchMethod(expected, actual string) []Mismatch {
	if strings.EqualFold(expected, actual) {
		return nil
	}
	return []Mismatch{mismatchf(KindMethod, "", expected, actual,
		"HTTP method does not match, expected: %s, actual: %s", expected, actual)}
}

// matchPath compares paths exactly unless a path rule is defined.
func matchPath(expected, actual *pact.Request) []Mismatch {
	if rules := expected.MatchingRules.Path; len(rules) > 0 {
		for _, rule := range rules {
			if !ruleSatisfied(rule, expected.Path, actual.Path) {
				return []Mismatch{mismatchf(KindPath, "", expected.Path, actual.Path,
					"path %q does not match rule %q", actual.Path, rule.Match)}
			}
		}
		return nil
	}
	if expected.Path == actual.Path {
		return nil
	}
	return []Mismatch{mismatchf(KindPath, "", expected.Path, actual.Path,
		"path does not match, expected: %s, actual: %s", expected.Path, actual.Path)}
}

// matchQuery compares query parameters as multimaps. Every expected
// parameter must be present with the same values in the same order, and
// parameters the expected request does not name are rejected. Query rules
// keyed by parameter name relax the per-value comparison.
func matchQuery(expected, actual *pact.Request) []Mismatch {
	var mismatches []Mismatch

	for _, name := range sortedKeys(expected.Query) {
		expectedVals := expected.Query[name]
		actualVals, ok := actual.Query[name]
		if !ok {
			mismatches = append(mismatches, mismatchf(KindQuery, name,
				strings.Join(expectedVals, ", "), "",
				"expected query parameter %q but was missing", name))
			continue
		}
		rules := expected.MatchingRules.Query.Rules(name)
		mismatches = append(mismatches, matchValueList(KindQuery, name, expectedVals, actualVals, rules)...)
	}

	for _, name := range sortedKeys(actual.Query) {
		if _, ok := expected.Query[name]; !ok {
			mismatches = append(mismatches, mismatchf(KindQuery, name,
				"", strings.Join(actual.Query[name], ", "),
				"unexpected query parameter %q received", name))
		}
	}

	return mismatches
}

// matchHeaders checks every header the expected request names. Headers the
// expected request does not name are ignored, since clients and proxies add
// their own. Values are compared by exact string equality, element-wise.
func matchHeaders(expected, actual *pact.Request) []Mismatch {
	var mismatches []Mismatch

	for _, name := range sortedKeys(expected.Headers) {
		expectedVals := expected.Headers[name]
		actualVals, ok := actual.HeaderValues(name)
		if !ok {
			mismatches = append(mismatches, mismatchf(KindHeader, name,
				strings.Join(expectedVals, ", "), "",
				"expected header %q but was missing", name))
			continue
		}
		rules := expected.MatchingRules.Header.Rules(name)
		mismatches = append(mismatches, matchValueList(KindHeader, name, expectedVals, actualVals, rules)...)
	}

	return mismatches
}

// matchValueList compares the ordered value lists of one query parameter or
// header. Value counts must agree in every case. With rules present, each
// actual value must satisfy every rule; without rules, the lists must be
// identical.
func matchValueList(kind Kind, name string, expected, actual []string, rules []pact.Rule) []Mismatch {
	if len(expected) != len(actual) {
		return []Mismatch{mismatchf(kind, name,
			strings.Join(expected, ", "), strings.Join(actual, ", "),
			"expected %d value(s) for %q but received %d", len(expected), name, len(actual))}
	}

	if len(rules) > 0 {
		for _, value := range actual {
			for _, rule := range rules {
				if !ruleSatisfied(rule, firstOr(expected, ""), value) {
					return []Mismatch{mismatchf(kind, name, strings.Join(expected, ", "), value,
						"value %q for %q does not match rule %q", value, name, rule.Match)}
				}
			}
		}
		return nil
	}

	for i := range expected {
		if expected[i] != actual[i] {
			return []Mismatch{mismatchf(kind, name, expected[i], actual[i],
				"value for %q does not match, expected: %q, actual: %q", name, expected[i], actual[i])}
		}
	}
	return nil
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func firstOr(values []string, fallback string) string {
	if len(values) > 0 {
		return values[0]
	}
	return fallback
}
