package fee

import (
	"context"
)

// RuleStore is the read side of the fee specification store.
type RuleStore interface {
	// CountDocuments returns the total number of stored specifications.
	CountDocuments(ctx context.Context) (int64, error)
	// Find returns every specification the filter accepts, in retrieval order.
	Find(ctx context.Context, filter Filter) ([]Specification, error)
}

type Matcher struct {
	store RuleStore
}

func NewMatcher(store RuleStore) *Matcher {
	return &Matcher{store: store}
}

// Match queries the store with the transaction's filter and returns the most
// specific candidate. Store errors are returned as is.
func (m *Matcher) Match(ctx context.Context, req TransactionRequest) (Specification, error) {
	candidates, err := m.store.Find(ctx, NewFilter(req))
	if err != nil {
		return Specification{}, err
	}
	if len(candidates) == 0 {
		return Specification{}, ErrNoMatchingRule
	}
	return SelectMostSpecific(candidates), nil
}

// SelectMostSpecific returns the candidate with the highest SpecificityCount.
// On a tie the candidate that comes later in the slice wins, which is what a
// stable ascending sort followed by taking the last element yields.
// candidates must not be empty.
func SelectMostSpecific(candidates []Specification) Specification {
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.SpecificityCount >= best.SpecificityCount {
			best = c
		}
	}
	return best
}
