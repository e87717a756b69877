package memory

import (
	"sync"

	"github.com/custodia-labs/metaval/internal/core/domain"
	"github.com/custodia-labs/metaval/internal/core/ports/driven"
)

// Ensure RuleStore implements the interface.
var _ driven.RuleStore = (*RuleStore)(nil)

// RuleStore is an in-memory implementation of driven.RuleStore.
type RuleStore struct {
	mu         sync.RWMutex
	pairs      []domain.DatePairRule
	structural domain.PropertySet
}

// NewRuleStore creates a rule store holding the given rules.
func NewRuleStore(pairs []domain.DatePairRule, structural ...string) *RuleStore {
	return &RuleStore{
		pairs:      pairs,
		structural: domain.NewPropertySet(structural...),
	}
}

// DatePairs returns a copy of the date-pair rules.
func (s *RuleStore) DatePairs() ([]domain.DatePairRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.DatePairRule, len(s.pairs))
	copy(out, s.pairs)
	return out, nil
}

// StructuralProperties returns a copy of the structural property names.
func (s *RuleStore) StructuralProperties() (domain.PropertySet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.NewPropertySet(s.structural.Sorted()...), nil
}

// SetDatePairs replaces the date-pair rules.
func (s *RuleStore) SetDatePairs(pairs []domain.DatePairRule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pairs = pairs
}

// Reload is a no-op; the rules live only in memory.
func (s *RuleStore) Reload() {}
