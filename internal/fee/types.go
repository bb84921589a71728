// Package fee selects the fee rule that applies to a payment transaction and
// computes the fee, the charge and the settlement amounts.
package fee

import (
	"github.com/shopspring/decimal"
)

// Wildcard is the stored pattern that matches any request value.
const Wildcard = "*"

type Locale string

const (
	LocaleLocal         Locale = "LOCL"
	LocaleInternational Locale = "INTL"
)

type PaymentEntity struct {
	ID      string `json:"ID"`
	Issuer  string `json:"Issuer"`
	Brand   string `json:"Brand"`
	Number  string `json:"Number"`
	SixID   string `json:"SixID"`
	Type    string `json:"Type"`
	Country string `json:"Country"`
}

type Customer struct {
	ID       int64  `json:"ID,omitempty"`
	Email    string `json:"EmailAddress,omitempty"`
	FullName string `json:"FullName,omitempty"`
	BearsFee bool   `json:"BearsFee"`
}

type TransactionRequest struct {
	ID              int64           `json:"ID,omitempty"`
	Amount          decimal.Decimal `json:"Amount"`
	Currency        string          `json:"Currency"`
	CurrencyCountry string          `json:"CurrencyCountry"`
	Customer        Customer        `json:"Customer"`
	PaymentEntity   PaymentEntity   `json:"PaymentEntity"`
}

// Locale reports LOCL when the currency country equals the payment entity
// country and INTL otherwise, including when the entity country is unknown.
func (r TransactionRequest) Locale() Locale {
	if r.CurrencyCountry == r.PaymentEntity.Country {
		return LocaleLocal
	}
	return LocaleInternational
}

func (r TransactionRequest) Validate() error {
	switch {
	case !r.Amount.IsPositive():
		return invalid("Amount must be positive")
	case r.Currency == "":
		return invalid("Currency is required")
	case r.CurrencyCountry == "":
		return invalid("CurrencyCountry is required")
	case r.PaymentEntity.Type == "":
		return invalid("PaymentEntity.Type is required")
	}
	return nil
}

type Entity struct {
	FeeEntity      string   `json:"feeEntity"`
	EntityProperty []string `json:"entityProperty"`
}

// Specification is a stored fee rule. A higher SpecificityCount means the
// rule targets transactions more narrowly.
type Specification struct {
	FeeID            string `json:"feeID"`
	Entity           Entity `json:"entity"`
	FeeLocale        string `json:"feeLocale"`
	FeeCurrency      string `json:"feeCurrency"`
	FeeValue         Value  `json:"feeValue"`
	SpecificityCount int    `json:"specificityCount"`
}

type Result struct {
	AppliedFeeID     string
	AppliedFeeValue  decimal.Decimal
	ChargeAmount     decimal.Decimal
	SettlementAmount decimal.Decimal
}
