package stub

import (
	"strings"

	"github.com/schoderer/pact-stub-server/internal/matching"
	"github.com/schoderer/pact-stub-server/pkg/pact"
)

// methodSupportsPayload reports whether a method conventionally carries a
// request body.
func methodSupportsPayload(method string) bool {
	switch strings.ToUpper(method) {
	case "POST", "PUT", "PATCH":
		return true
	default:
		return false
	}
}

// alwaysDisqualify lists the mismatch kinds that rule a candidate out no
// matter what. Kept as a table so new kinds slot in without touching the
// selection logic.
var alwaysDisqualify = map[matching.Kind]bool{
	matching.KindMethod: true,
	matching.KindPath:   true,
	matching.KindQuery:  true,
}

// tolerable reports whether a single mismatch leaves a candidate qualified.
// Method, path, and query mismatches always disqualify. A body mismatch
// disqualifies unless the comparison is payload-free: neither the expected
// nor the actual method carries a payload, or the actual request has no body
// at all. Everything else (headers, body type) is tolerated.
func tolerable(m matching.Mismatch, expected, actual *pact.Request) bool {
	switch {
	case alwaysDisqualify[m.Kind]:
		return false
	case m.Kind == matching.KindBody:
		payloadFree := !methodSupportsPayload(expected.Method) && !methodSupportsPayload(actual.Method)
		return payloadFree || !actual.Body.IsPresent()
	default:
		return true
	}
}

// qualifies reports whether every mismatch of a candidate is tolerable.
func qualifies(mismatches []matching.Mismatch, expected, actual *pact.Request) bool {
	for _, m := range mismatches {
		if !tolerable(m, expected, actual) {
			return false
		}
	}
	return true
}
