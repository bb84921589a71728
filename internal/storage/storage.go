// Package storage holds the contract of the fee specification stores.
package storage

import (
	"context"
	"errors"

	"github.com/akashipov/feeservice/internal/fee"
)

// ErrDuplicateFeeID is returned when a saved specification reuses a fee id.
var ErrDuplicateFeeID = errors.New("duplicate fee id")

// Store is a fee.RuleStore that can also be provisioned.
type Store interface {
	fee.RuleStore

	// Save appends specifications. Retrieval order follows insertion order.
	Save(ctx context.Context, specs ...fee.Specification) error

	// Replace drops the stored configuration and saves specs in its place.
	Replace(ctx context.Context, specs ...fee.Specification) error

	Close() error
}
