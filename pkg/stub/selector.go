package stub

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/schoderer/pact-stub-server/internal/matching"
	"github.com/schoderer/pact-stub-server/pkg/pact"
)

// candidate pairs an interaction with the mismatches one request produced
// against it. Candidates are request-scoped and discarded once a decision
// has been made.
type candidate struct {
	interaction *pact.Interaction
	mismatches  []matching.Mismatch
}

// findResponse evaluates every candidate interaction against the request,
// partitions them by the disqualification policy, and returns the response
// of the best qualified candidate: fewest mismatches first, load order as
// the tie-break. With no qualified candidate it falls back to the synthetic
// CORS preflight response for OPTIONS requests (when enabled), or explains
// the failure and returns ErrNoMatchFound.
func findResponse(log *slog.Logger, interactions []*pact.Interaction, request *pact.Request, autoCORS, verboseBodies bool) (*pact.Response, error) {
	var qualified, disqualified []candidate
	for _, interaction := range interactions {
		c := candidate{
			interaction: interaction,
			mismatches:  matching.MatchRequest(&interaction.Request, request),
		}
		if qualifies(c.mismatches, &interaction.Request, request) {
			qualified = append(qualified, c)
		} else {
			disqualified = append(disqualified, c)
		}
	}

	if len(qualified) > 0 {
		// Stable sort keeps load order among candidates with equal counts.
		sort.SliceStable(qualified, func(i, j int) bool {
			return len(qualified[i].mismatches) < len(qualified[j].mismatches)
		})
		best := qualified[0]

		ties := 0
		for _, c := range qualified {
			if len(c.mismatches) == len(best.mismatches) {
				ties++
			}
		}
		if ties > 1 {
			log.Warn("multiple interactions matched equally well, using the first loaded",
				"method", request.Method,
				"path", request.Path,
				"candidates", ties,
			)
		}

		log.Debug("selected interaction",
			"description", best.interaction.Description,
			"mismatches", len(best.mismatches),
		)
		return matching.GenerateResponse(log, &best.interaction.Response), nil
	}

	if autoCORS && strings.EqualFold(request.Method, "OPTIONS") {
		log.Debug("no interaction matched OPTIONS request, sending preflight response",
			"path", request.Path)
		return corsPreflightResponse(), nil
	}

	explainNoMatch(log, request, disqualified, verboseBodies)
	return nil, ErrNoMatchFound
}
