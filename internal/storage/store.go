// Package storage provides the shared read-only interaction store.
package storage

import (
	"github.com/schoderer/pact-stub-server/pkg/pact"
)

// InteractionStore holds every loaded interaction in load order. It is built
// once at startup and never mutated afterwards, so any number of concurrent
// request handlers may read it without synchronization.
type InteractionStore struct {
	interactions []*pact.Interaction
}

// NewInteractionStore flattens the interactions of the given pacts,
// preserving pact order and the interaction order within each pact.
func NewInteractionStore(pacts []*pact.Pact) *InteractionStore {
	var interactions []*pact.Interaction
	for _, p := range pacts {
		interactions = append(interactions, p.Interactions...)
	}
	return &InteractionStore{interactions: interactions}
}

// All returns every interaction in load order. Callers must treat the
// returned slice as read-only.
func (s *InteractionStore) All() []*pact.Interaction {
	return s.interactions
}

// Len returns the number of stored interactions.
func (s *InteractionStore) Len() int {
	return len(s.interactions)
}
