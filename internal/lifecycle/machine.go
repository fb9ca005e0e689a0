// Package lifecycle holds the status machines for reclamations and payments.
// Every status assignment in the service goes through this package.
package lifecycle

import (
	"slices"

	apperrors "github.com/syndic-console/reclamation-service/pkg/errorutil"
)

// Machine is a closed status graph with a single initial state.
// States without outgoing edges are terminal.
type Machine[S ~string] struct {
	initial S
	edges   map[S][]S
}

// NewMachine builds a machine from its edge list.
func NewMachine[S ~string](initial S, edges map[S][]S) *Machine[S] {
	copied := make(map[S][]S, len(edges))
	for from, to := range edges {
		copied[from] = slices.Clone(to)
	}
	return &Machine[S]{initial: initial, edges: copied}
}

// Initial returns the creation state.
func (m *Machine[S]) Initial() S {
	return m.initial
}

// Successors returns the states directly reachable from s.
func (m *Machine[S]) Successors(s S) []S {
	return slices.Clone(m.edges[s])
}

// IsTerminal reports whether no transition leaves s.
func (m *Machine[S]) IsTerminal(s S) bool {
	return len(m.edges[s]) == 0
}

// CanTransition reports whether from -> to is an edge.
func (m *Machine[S]) CanTransition(from, to S) bool {
	return slices.Contains(m.edges[from], to)
}

// Check returns an INVALID_TRANSITION error unless from -> to is an edge.
func (m *Machine[S]) Check(from, to S) error {
	if !m.CanTransition(from, to) {
		return apperrors.NewInvalidTransition(string(from), string(to))
	}
	return nil
}

// Reachable returns every state reachable from start, start included, in BFS order.
func (m *Machine[S]) Reachable(start S) []S {
	seen := map[S]bool{start: true}
	order := []S{start}
	for i := 0; i < len(order); i++ {
		for _, next := range m.edges[order[i]] {
			if !seen[next] {
				seen[next] = true
				order = append(order, next)
			}
		}
	}
	return order
}
