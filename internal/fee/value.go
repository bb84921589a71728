package fee

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type ValueType string

const (
	ValueFlat     ValueType = "FLAT"
	ValuePerc     ValueType = "PERC"
	ValueFlatPerc ValueType = "FLAT_PERC"
)

// Value is a fee formula. Flat is a fixed amount in the transaction currency,
// Percent is a percentage of the transaction amount.
type Value struct {
	Type    ValueType
	Flat    decimal.Decimal
	Percent decimal.Decimal
}

func Flat(amount decimal.Decimal) Value {
	return Value{Type: ValueFlat, Flat: amount}
}

func Perc(percent decimal.Decimal) Value {
	return Value{Type: ValuePerc, Percent: percent}
}

func FlatPerc(amount, percent decimal.Decimal) Value {
	return Value{Type: ValueFlatPerc, Flat: amount, Percent: percent}
}

// ParseValue reads "FLAT 20", "PERC 1.4", "FLAT_PERC 20:1.4" or a bare
// amount such as "20" or "=20", which is treated as FLAT.
func ParseValue(s string) (Value, error) {
	fields := strings.Fields(strings.TrimSpace(s))
	switch len(fields) {
	case 1:
		n, err := parseAmount(strings.TrimPrefix(fields[0], "="))
		if err != nil {
			return Value{}, err
		}
		return Flat(n), nil
	case 2:
	default:
		return Value{}, fmt.Errorf("%w: %q", ErrInvalidValue, s)
	}
	switch ValueType(strings.ToUpper(fields[0])) {
	case ValueFlat:
		n, err := parseAmount(fields[1])
		if err != nil {
			return Value{}, err
		}
		return Flat(n), nil
	case ValuePerc:
		p, err := parseAmount(fields[1])
		if err != nil {
			return Value{}, err
		}
		return Perc(p), nil
	case ValueFlatPerc:
		flat, perc, ok := strings.Cut(fields[1], ":")
		if !ok {
			return Value{}, fmt.Errorf("%w: FLAT_PERC needs <flat>:<percent>, got %q", ErrInvalidValue, fields[1])
		}
		n, err := parseAmount(flat)
		if err != nil {
			return Value{}, err
		}
		p, err := parseAmount(perc)
		if err != nil {
			return Value{}, err
		}
		return FlatPerc(n, p), nil
	}
	return Value{}, fmt.Errorf("%w: unknown fee type %q", ErrInvalidValue, fields[0])
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q is not a number", ErrInvalidValue, s)
	}
	if d.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("%w: %q is negative", ErrInvalidValue, s)
	}
	return d, nil
}

func (v Value) String() string {
	switch v.Type {
	case ValuePerc:
		return fmt.Sprintf("%s %s", ValuePerc, v.Percent)
	case ValueFlatPerc:
		return fmt.Sprintf("%s %s:%s", ValueFlatPerc, v.Flat, v.Percent)
	default:
		return fmt.Sprintf("%s %s", ValueFlat, v.Flat)
	}
}

func (v Value) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

func (v *Value) UnmarshalText(b []byte) error {
	parsed, err := ParseValue(string(b))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
