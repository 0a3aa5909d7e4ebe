package matching

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/ohler55/ojg/oj"

	"github.com/schoderer/pact-stub-server/pkg/pact"
)

// matchBody compares request payloads. A missing expected body matches
// anything; an empty expected body requires an empty or missing actual body.
// JSON payloads are compared structurally with body rules applied; anything
// else is compared byte for byte.
func matchBody(expected, actual *pact.Request) []Mismatch {
	if expected.Body.IsMissing() {
		return nil
	}

	if expected.Body.IsEmpty() {
		if actual.Body.IsPresent() {
			return []Mismatch{mismatchf(KindBody, "$", "", truncate(actual.Body.String(), 80),
				"expected an empty body but received %d byte(s)", actual.Body.Len())}
		}
		return nil
	}

	if !actual.Body.IsPresent() {
		return []Mismatch{mismatchf(KindBody, "$", truncate(expected.Body.String(), 80), "",
			"expected a body but none was received")}
	}

	expectedType := contentType(expected)
	actualType := contentType(actual)
	if expectedType != actualType {
		return []Mismatch{mismatchf(KindBodyType, "", expectedType, actualType,
			"body type does not match, expected: %s, actual: %s", expectedType, actualType)}
	}

	if expectedType == "application/json" {
		expectedVal, errE := oj.Parse(expected.Body.Bytes())
		actualVal, errA := oj.Parse(actual.Body.Bytes())
		if errE == nil && errA == nil {
			var mismatches []Mismatch
			matchJSONValue("$", expectedVal, actualVal, expected.MatchingRules.Body, &mismatches)
			return mismatches
		}
	}

	if !bytes.Equal(expected.Body.Bytes(), actual.Body.Bytes()) {
		return []Mismatch{mismatchf(KindBody, "$",
			truncate(expected.Body.String(), 80), truncate(actual.Body.String(), 80),
			"body does not match")}
	}
	return nil
}

// matchJSONValue recursively compares two parsed JSON values. A rule defined
// at the current path governs the whole subtree and replaces structural
// comparison there.
func matchJSONValue(path string, expected, actual any, rules pact.RuleSet, mismatches *[]Mismatch) {
	if ruleList := rulesAt(rules, path); len(ruleList) > 0 {
		for _, rule := range ruleList {
			if !ruleSatisfied(rule, expected, actual) {
				*mismatches = append(*mismatches, mismatchf(KindBody, path,
					renderValue(expected), renderValue(actual),
					"value at %s does not match rule %q", path, ruleName(rule)))
				return
			}
		}
		return
	}

	switch exp := expected.(type) {
	case map[string]any:
		act, ok := actual.(map[string]any)
		if !ok {
			*mismatches = append(*mismatches, typeMismatch(path, expected, actual))
			return
		}
		keys := make([]string, 0, len(exp))
		for k := range exp {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			childPath := path + "." + k
			actChild, present := act[k]
			if !present {
				*mismatches = append(*mismatches, mismatchf(KindBody, childPath,
					renderValue(exp[k]), "",
					"expected key %q at %s but was missing", k, path))
				continue
			}
			matchJSONValue(childPath, exp[k], actChild, rules, mismatches)
		}
		extra := make([]string, 0)
		for k := range act {
			if _, present := exp[k]; !present {
				extra = append(extra, k)
			}
		}
		sort.Strings(extra)
		for _, k := range extra {
			*mismatches = append(*mismatches, mismatchf(KindBody, path+"."+k,
				"", renderValue(act[k]),
				"unexpected key %q at %s", k, path))
		}

	case []any:
		act, ok := actual.([]any)
		if !ok {
			*mismatches = append(*mismatches, typeMismatch(path, expected, actual))
			return
		}
		if len(exp) != len(act) {
			*mismatches = append(*mismatches, mismatchf(KindBody, path,
				fmt.Sprintf("list of %d", len(exp)), fmt.Sprintf("list of %d", len(act)),
				"expected a list of %d element(s) at %s but received %d", len(exp), path, len(act)))
			return
		}
		for i := range exp {
			matchJSONValue(fmt.Sprintf("%s[%d]", path, i), exp[i], act[i], rules, mismatches)
		}

	default:
		if !valuesEqual(expected, actual) {
			*mismatches = append(*mismatches, mismatchf(KindBody, path,
				renderValue(expected), renderValue(actual),
				"value at %s does not match, expected: %s, actual: %s",
				path, renderValue(expected), renderValue(actual)))
		}
	}
}

func typeMismatch(path string, expected, actual any) Mismatch {
	return mismatchf(KindBody, path, jsonType(expected), jsonType(actual),
		"type at %s does not match, expected: %s, actual: %s",
		path, jsonType(expected), jsonType(actual))
}

func ruleName(rule pact.Rule) string {
	if rule.Match == pact.MatchRegex {
		return "regex " + rule.Regex
	}
	return rule.Match
}

func renderValue(v any) string {
	return truncate(oj.JSON(v), 80)
}

// contentType resolves the effective media type of a request body: the
// Content-Type header when present, otherwise sniffed from the payload.
func contentType(r *pact.Request) string {
	if vals, ok := r.HeaderValues("Content-Type"); ok && len(vals) > 0 {
		mediaType := vals[0]
		if idx := strings.IndexByte(mediaType, ';'); idx >= 0 {
			mediaType = mediaType[:idx]
		}
		return strings.ToLower(strings.TrimSpace(mediaType))
	}
	if json.Valid(r.Body.Bytes()) {
		return "application/json"
	}
	return "text/plain"
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
