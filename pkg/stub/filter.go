package stub

import (
	"regexp"

	"github.com/schoderer/pact-stub-server/pkg/pact"
)

// filterByProviderState narrows interactions to those with at least one
// provider state name matching the pattern. Any single matching state
// qualifies the whole interaction. A nil pattern admits everything. Load
// order is preserved.
func filterByProviderState(interactions []*pact.Interaction, pattern *regexp.Regexp) []*pact.Interaction {
	if pattern == nil {
		return interactions
	}

	filtered := make([]*pact.Interaction, 0, len(interactions))
	for _, interaction := range interactions {
		for _, state := range interaction.ProviderStates {
			if pattern.MatchString(state.Name) {
				filtered = append(filtered, interaction)
				break
			}
		}
	}
	return filtered
}
