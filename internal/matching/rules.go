package matching

import (
	"fmt"
	"math"
	"regexp"

	"github.com/schoderer/pact-stub-server/pkg/pact"
)

var arrayIndexRe = regexp.MustCompile(`\[\d+\]`)

// rulesAt looks up the body rules that apply at a concrete path like
// "$.items[2].id". Rule keys may address concrete indices or use the [*]
// wildcard; the concrete form takes precedence.
func rulesAt(rules pact.RuleSet, path string) []pact.Rule {
	if rules == nil {
		return nil
	}
	if list := rules.Rules(path); list != nil {
		return list
	}
	star := arrayIndexRe.ReplaceAllString(path, "[*]")
	if star != path {
		return rules.Rules(star)
	}
	return nil
}

// ruleSatisfied reports whether an actual value satisfies one rule, given
// the expected value at the same position. Unrecognized strategies fall back
// to equality so malformed pact files fail closed.
func ruleSatisfied(rule pact.Rule, expected, actual any) bool {
	switch rule.Match {
	case pact.MatchType:
		return jsonType(expected) == jsonType(actual)
	case pact.MatchInteger:
		return isInteger(actual)
	case pact.MatchDecimal, pact.MatchNumber:
		return isNumber(actual)
	case pact.MatchRegex:
		re, err := regexp.Compile(rule.Regex)
		if err != nil {
			return false
		}
		return re.MatchString(stringify(actual))
	case pact.MatchEquality, "":
		return valuesEqual(expected, actual)
	default:
		return valuesEqual(expected, actual)
	}
}

// jsonType buckets a parsed JSON value into one of the JSON type names.
// All numeric representations bucket together.
func jsonType(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case int64, float64, int, float32:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return "unknown"
	}
}

func isNumber(v any) bool {
	return jsonType(v) == "number"
}

func isInteger(v any) bool {
	switch n := v.(type) {
	case int, int64:
		return true
	case float64:
		return n == math.Trunc(n)
	case float32:
		return float64(n) == math.Trunc(float64(n))
	default:
		return false
	}
}

// valuesEqual compares two parsed JSON scalars, treating integral and
// floating representations of the same number as equal.
func valuesEqual(a, b any) bool {
	if na, ok := asFloat(a); ok {
		nb, ok := asFloat(b)
		return ok && na == nb
	}
	return a == b
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
