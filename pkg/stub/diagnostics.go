package stub

import (
	"fmt"
	"log/slog"

	"github.com/schoderer/pact-stub-server/internal/matching"
	"github.com/schoderer/pact-stub-server/pkg/pact"
)

// explainNoMatch logs why no interaction matched a request. The output is
// observability-only and never alters the response sent to the client.
//
// Body mismatch lines are suppressed when either side's method carries no
// payload, since differing bodies cannot have disqualified such a candidate.
func explainNoMatch(log *slog.Logger, request *pact.Request, evaluated []candidate, verboseBodies bool) {
	log.Warn("no interaction matched the request",
		"total", len(evaluated),
		"method", request.Method,
		"path", request.Path,
	)

	samePath := make([]candidate, 0, len(evaluated))
	for _, c := range evaluated {
		if !matching.HasKind(c.mismatches, matching.KindPath) {
			samePath = append(samePath, c)
		}
	}

	if len(samePath) == 0 {
		log.Warn(fmt.Sprintf("no expected request with path %s found", request.Path))
		return
	}

	log.Warn(fmt.Sprintf("found %d expected request(s) with path %s", len(samePath), request.Path))
	for i, c := range samePath {
		for _, m := range c.mismatches {
			if m.Kind == matching.KindBody && !bothCarryPayload(&c.interaction.Request, request) {
				continue
			}
			log.Warn(fmt.Sprintf("mismatched request %d (%s %s): %s",
				i+1, request.Method, request.Path, m.Description))
			if verboseBodies && m.Kind == matching.KindBody {
				log.Warn(fmt.Sprintf("mismatched request %d expected body: %s",
					i+1, c.interaction.Request.Body.String()))
				log.Warn(fmt.Sprintf("mismatched request %d actual body: %s",
					i+1, request.Body.String()))
			}
		}
	}
}

func bothCarryPayload(expected, actual *pact.Request) bool {
	return methodSupportsPayload(expected.Method) && methodSupportsPayload(actual.Method)
}
