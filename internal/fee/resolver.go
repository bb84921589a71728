package fee

import (
	"context"
	"errors"
	"fmt"
)

// Resolver runs a fee resolution: existence check, validation, match and
// calculation. It keeps no state between calls and is safe for concurrent
// use when the store is.
type Resolver struct {
	store   RuleStore
	matcher *Matcher
}

func NewResolver(store RuleStore) *Resolver {
	return &Resolver{
		store:   store,
		matcher: NewMatcher(store),
	}
}

func (r *Resolver) Resolve(ctx context.Context, req TransactionRequest) (Result, error) {
	count, err := r.store.CountDocuments(ctx)
	if err != nil {
		return Result{}, err
	}
	if count == 0 {
		return Result{}, ErrConfigurationMissing
	}

	if err := req.Validate(); err != nil {
		return Result{}, err
	}

	spec, err := r.matcher.Match(ctx, req)
	if errors.Is(err, ErrNoMatchingRule) {
		return Result{}, fmt.Errorf("%w: %w", ErrNoApplicableRule, err)
	}
	if err != nil {
		return Result{}, err
	}

	applied := ComputeAppliedFeeValue(spec.FeeValue, req.Amount)
	charge := ComputeChargeAmount(req.Customer.BearsFee, req.Amount, applied)
	return Result{
		AppliedFeeID:     spec.FeeID,
		AppliedFeeValue:  applied,
		ChargeAmount:     charge,
		SettlementAmount: ComputeSettlementAmount(charge, applied),
	}, nil
}
