package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/akashipov/feeservice/internal/fee"
	"github.com/akashipov/feeservice/internal/storage"
	"github.com/akashipov/feeservice/internal/storage/memory"
	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const feeConfiguration = `LNPY1221 NGN * *(*) : APPLY PERC 1.4
LNPY1222 NGN INTL CREDIT-CARD(VISA) : APPLY PERC 5.0
LNPY1223 NGN LOCL CREDIT-CARD(*) : APPLY FLAT_PERC 50:1.4
LNPY1224 NGN * BANK-ACCOUNT(*) : APPLY FLAT 100
LNPY1225 NGN * USSD(MTN) : APPLY PERC 0.55`

func transaction(entity fee.PaymentEntity, bearsFee bool) map[string]any {
	return map[string]any{
		"ID":              91203,
		"Amount":          5000,
		"Currency":        "NGN",
		"CurrencyCountry": "NG",
		"Customer": map[string]any{
			"ID":           2211232,
			"EmailAddress": "anonimized29900@anon.io",
			"FullName":     "Abel Eden",
			"BearsFee":     bearsFee,
		},
		"PaymentEntity": entity,
	}
}

func newServer(t *testing.T, store storage.Store) (*httptest.Server, *resty.Client) {
	srv := httptest.NewServer(ServerRouter(NewHandler(store, zap.NewNop().Sugar())))
	t.Cleanup(srv.Close)
	return srv, resty.New().SetBaseURL(srv.URL)
}

func TestComputeTransactionFee(t *testing.T) {
	_, client := newServer(t, memory.New())

	mastercard := fee.PaymentEntity{ID: "2203454", Issuer: "GTBANK", Brand: "MASTERCARD", Number: "530191******2903", SixID: "530191", Type: "CREDIT-CARD", Country: "NG"}
	visa := fee.PaymentEntity{ID: "2203455", Issuer: "CITI", Brand: "VISA", Number: "412345******1234", SixID: "412345", Type: "CREDIT-CARD", Country: "US"}
	ussd := fee.PaymentEntity{ID: "2203456", Issuer: "MTN", Number: "0803*****12", SixID: "080312", Type: "USSD", Country: "NG"}

	var cErr errorBody
	res, err := client.R().SetBody(transaction(mastercard, true)).SetError(&cErr).Post("/compute-transaction-fee")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode())
	assert.False(t, cErr.Success)
	assert.Contains(t, cErr.Message, "fee configuration is missing")

	var cfg feeConfigurationResponse
	res, err = client.R().SetBody(feeConfigurationRequest{FeeConfigurationSpec: feeConfiguration}).SetResult(&cfg).Post("/fee")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode(), res.String())
	assert.Equal(t, 5, cfg.Count)

	tests := []struct {
		name string
		body map[string]any
		want computeResponse
	}{
		{
			name: "local card, customer bears fee",
			body: transaction(mastercard, true),
			want: computeResponse{AppliedFeeID: "LNPY1223", AppliedFeeValue: 120, ChargeAmount: 5120, SettlementAmount: 5000},
		},
		{
			name: "international visa, merchant bears fee",
			body: transaction(visa, false),
			want: computeResponse{AppliedFeeID: "LNPY1222", AppliedFeeValue: 250, ChargeAmount: 5000, SettlementAmount: 4750},
		},
		{
			name: "ussd",
			body: transaction(ussd, true),
			want: computeResponse{AppliedFeeID: "LNPY1225", AppliedFeeValue: 27.5, ChargeAmount: 5027.5, SettlementAmount: 5000},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got computeResponse
			res, err := client.R().SetBody(tt.body).SetResult(&got).Post("/compute-transaction-fee")
			require.NoError(t, err)
			require.Equal(t, http.StatusOK, res.StatusCode(), res.String())
			assert.Equal(t, http.StatusOK, got.Code)
			assert.True(t, got.Success)
			assert.Equal(t, tt.want.AppliedFeeID, got.AppliedFeeID)
			assert.InDelta(t, tt.want.AppliedFeeValue, got.AppliedFeeValue, 1e-9)
			assert.InDelta(t, tt.want.ChargeAmount, got.ChargeAmount, 1e-9)
			assert.InDelta(t, tt.want.SettlementAmount, got.SettlementAmount, 1e-9)
		})
	}
}

type errorBody struct {
	Code    int    `json:"code"`
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func TestComputeTransactionFeeErrors(t *testing.T) {
	store := memory.New()
	_, client := newServer(t, store)
	res, err := client.R().SetBody(feeConfigurationRequest{FeeConfigurationSpec: feeConfiguration}).Post("/fee")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode())

	usd := transaction(fee.PaymentEntity{Type: "CREDIT-CARD", Brand: "VISA", Country: "NG"}, true)
	usd["Currency"] = "USD"
	zero := transaction(fee.PaymentEntity{Type: "CREDIT-CARD", Brand: "VISA", Country: "NG"}, true)
	zero["Amount"] = 0

	tests := []struct {
		name       string
		body       any
		wantStatus int
		wantMsg    string
	}{
		{name: "no applicable rule", body: usd, wantStatus: http.StatusBadRequest, wantMsg: "no fee configuration for this transaction"},
		{name: "zero amount", body: zero, wantStatus: http.StatusBadRequest, wantMsg: "Amount must be positive"},
		{name: "malformed body", body: `{"Amount": }`, wantStatus: http.StatusBadRequest, wantMsg: "Problem with request body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got errorBody
			res, err := client.R().
				SetHeader("Content-Type", "application/json").
				SetBody(tt.body).
				SetError(&got).
				Post("/compute-transaction-fee")
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, res.StatusCode())
			assert.Equal(t, tt.wantStatus, got.Code)
			assert.Contains(t, got.Message, tt.wantMsg)
		})
	}
}

func TestPostFeeErrors(t *testing.T) {
	_, client := newServer(t, memory.New())
	tests := []struct {
		name       string
		spec       string
		wantStatus int
	}{
		{name: "bad grammar", spec: "LNPY1221 NGN *", wantStatus: http.StatusBadRequest},
		{name: "empty", spec: "", wantStatus: http.StatusBadRequest},
		{name: "duplicate id", spec: "LNPY1 NGN * *(*) : APPLY FLAT 1\nLNPY1 NGN * *(*) : APPLY FLAT 2", wantStatus: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := client.R().SetBody(feeConfigurationRequest{FeeConfigurationSpec: tt.spec}).Post("/fee")
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, res.StatusCode())
		})
	}
}

func TestPatchFee(t *testing.T) {
	_, client := newServer(t, memory.New())
	res, err := client.R().SetBody(feeConfigurationRequest{FeeConfigurationSpec: feeConfiguration}).Post("/fee")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode())

	tests := []struct {
		name       string
		spec       string
		wantStatus int
		wantCount  int
	}{
		{name: "new rule", spec: "LNPY1226 USD * *(*) : APPLY FLAT 3", wantStatus: http.StatusOK, wantCount: 1},
		{name: "stored fee id", spec: "LNPY1221 USD * *(*) : APPLY FLAT 3", wantStatus: http.StatusConflict},
		{name: "bad grammar", spec: "LNPY1227 USD", wantStatus: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got feeConfigurationResponse
			res, err := client.R().
				SetBody(feeConfigurationRequest{FeeConfigurationSpec: tt.spec}).
				SetResult(&got).
				Patch("/fee")
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, res.StatusCode(), res.String())
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantCount, got.Count)
			}
		})
	}

	usd := transaction(fee.PaymentEntity{Type: "CREDIT-CARD", Brand: "VISA", Country: "NG"}, true)
	usd["Currency"] = "USD"
	var got computeResponse
	res, err = client.R().SetBody(usd).SetResult(&got).Post("/compute-transaction-fee")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode(), res.String())
	assert.Equal(t, "LNPY1226", got.AppliedFeeID)
	assert.InDelta(t, 3, got.AppliedFeeValue, 1e-9)
}

// brokenStore fails every read the way a lost database connection does.
type brokenStore struct {
	*memory.Store
}

var errConnection = errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")

func (brokenStore) CountDocuments(ctx context.Context) (int64, error) {
	return 0, errConnection
}

func TestComputeTransactionFeeStoreFailure(t *testing.T) {
	_, client := newServer(t, brokenStore{Store: memory.New()})
	var got errorBody
	res, err := client.R().
		SetBody(transaction(fee.PaymentEntity{Type: "CREDIT-CARD", Brand: "VISA", Country: "NG"}, true)).
		SetError(&got).
		Post("/compute-transaction-fee")
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, res.StatusCode())
	assert.Equal(t, errConnection.Error(), got.Message)
}

func TestHealthAndMetrics(t *testing.T) {
	_, client := newServer(t, memory.New())

	res, err := client.R().Get("/health")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode())
	assert.Equal(t, "OK", res.String())

	res, err = client.R().Get("/metrics")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode())
	assert.Contains(t, res.String(), "go_goroutines")
}
