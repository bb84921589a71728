package fee

import (
	"errors"
	"fmt"
)

var (
	// ErrConfigurationMissing means no fee specification has been provisioned.
	ErrConfigurationMissing = errors.New("fee configuration is missing, provision rules first")
	// ErrNoApplicableRule means rules exist but none covers the transaction.
	ErrNoApplicableRule = errors.New("no fee configuration for this transaction")
	// ErrNoMatchingRule is reported by the matcher when the filter selects nothing.
	ErrNoMatchingRule = errors.New("no fee specification matches the filter")
	ErrInvalidRequest = errors.New("invalid transaction request")
	ErrInvalidValue   = errors.New("invalid fee value")
)

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, msg)
}
