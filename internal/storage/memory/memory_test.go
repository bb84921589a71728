package memory

import (
	"context"
	"testing"

	"github.com/akashipov/feeservice/internal/fee"
	"github.com/akashipov/feeservice/internal/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func spec(id, currency string) fee.Specification {
	return fee.Specification{
		FeeID:       id,
		Entity:      fee.Entity{FeeEntity: fee.Wildcard, EntityProperty: []string{fee.Wildcard}},
		FeeLocale:   fee.Wildcard,
		FeeCurrency: currency,
		FeeValue:    fee.Flat(decimal.NewFromInt(20)),
	}
}

func request(currency string) fee.TransactionRequest {
	return fee.TransactionRequest{
		Currency:        currency,
		CurrencyCountry: "NG",
		PaymentEntity:   fee.PaymentEntity{Type: "CREDIT-CARD", Brand: "VISA", Country: "NG"},
	}
}

func ids(specs []fee.Specification) []string {
	var out []string
	for _, s := range specs {
		out = append(out, s.FeeID)
	}
	return out
}

func TestStore(t *testing.T) {
	ctx := context.Background()
	s := New(spec("A", "NGN"))

	require.NoError(t, s.Save(ctx, spec("B", "*"), spec("C", "USD")))
	n, err := s.CountDocuments(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	got, err := s.Find(ctx, fee.NewFilter(request("NGN")))
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, ids(got))

	err = s.Save(ctx, spec("D", "NGN"), spec("A", "EUR"))
	require.ErrorIs(t, err, storage.ErrDuplicateFeeID)
	n, _ = s.CountDocuments(ctx)
	assert.Equal(t, int64(3), n, "failed save must not add anything")

	err = s.Replace(ctx, spec("E", "USD"), spec("E", "NGN"))
	require.ErrorIs(t, err, storage.ErrDuplicateFeeID)
	n, _ = s.CountDocuments(ctx)
	assert.Equal(t, int64(3), n, "failed replace must keep the old configuration")

	require.NoError(t, s.Replace(ctx, spec("A", "USD")))
	got, err = s.Find(ctx, fee.NewFilter(request("USD")))
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, ids(got))
}

func TestStoreCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := New(spec("A", "NGN"))
	_, err := s.CountDocuments(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	_, err = s.Find(ctx, fee.NewFilter(request("NGN")))
	assert.ErrorIs(t, err, context.Canceled)
}
