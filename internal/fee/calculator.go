package fee

import "github.com/shopspring/decimal"

// FeePrecision is the number of decimal places the applied fee is rounded to.
const FeePrecision = 2

var hundred = decimal.NewFromInt(100)

// ComputeAppliedFeeValue evaluates the formula against the transaction
// amount. The result is rounded half away from zero to FeePrecision places.
func ComputeAppliedFeeValue(v Value, amount decimal.Decimal) decimal.Decimal {
	var applied decimal.Decimal
	switch v.Type {
	case ValuePerc:
		applied = amount.Mul(v.Percent).Div(hundred)
	case ValueFlatPerc:
		applied = v.Flat.Add(amount.Mul(v.Percent).Div(hundred))
	default:
		applied = v.Flat
	}
	return applied.Round(FeePrecision)
}

// ComputeChargeAmount returns what the payer is charged: amount plus fee
// when the customer bears the fee, the bare amount otherwise.
func ComputeChargeAmount(bearsFee bool, amount, appliedFee decimal.Decimal) decimal.Decimal {
	if bearsFee {
		return amount.Add(appliedFee)
	}
	return amount
}

func ComputeSettlementAmount(charge, appliedFee decimal.Decimal) decimal.Decimal {
	return charge.Sub(appliedFee)
}
