// Package matching compares incoming HTTP requests against the expected
// requests recorded in pact interactions and reports every difference found.
package matching

import "fmt"

// Kind classifies where in the request a mismatch was found.
type Kind int

const (
	KindMethod Kind = iota
	KindPath
	KindQuery
	KindHeader
	KindBodyType
	KindBody
	KindOther
)

// String returns the human-readable name of the mismatch kind.
func (k Kind) String() string {
	switch k {
	case KindMethod:
		return "method"
	case KindPath:
		return "path"
	case KindQuery:
		return "query"
	case KindHeader:
		return "header"
	case KindBodyType:
		return "body-type"
	case KindBody:
		return "body"
	default:
		return "other"
	}
}

// Mismatch is one difference between an expected and an actual request.
// Selector names the part that differed: a query parameter or header name,
// or a body path like "$.items[0].id".
type Mismatch struct {
	Kind        Kind
	Selector    string
	Expected    string
	Actual      string
	Description string
}

func (m Mismatch) String() string {
	return m.Description
}

func mismatchf(kind Kind, selector, expected, actual, format string, args ...any) Mismatch {
	return Mismatch{
		Kind:        kind,
		Selector:    selector,
		Expected:    expected,
		Actual:      actual,
		Description: fmt.Sprintf(format, args...),
	}
}

// HasKind reports whether any mismatch in the list has the given kind.
func HasKind(mismatches []Mismatch, kind Kind) bool {
	for _, m := range mismatches {
		if m.Kind == kind {
			return true
		}
	}
	return false
}
