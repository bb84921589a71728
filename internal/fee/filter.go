package fee

import "strings"

// Match accepts a stored value that equals one of Values or is the Wildcard.
type Match struct {
	Values []string
}

func newMatch(values ...string) Match {
	m := Match{Values: make([]string, 0, len(values))}
	for _, v := range values {
		if v != "" {
			m.Values = append(m.Values, v)
		}
	}
	return m
}

func (m Match) Accepts(stored string) bool {
	if stored == Wildcard {
		return true
	}
	for _, v := range m.Values {
		if v == stored {
			return true
		}
	}
	return false
}

// AcceptsAny is the multi-valued form: one accepted element is enough.
func (m Match) AcceptsAny(stored []string) bool {
	for _, s := range stored {
		if m.Accepts(s) {
			return true
		}
	}
	return false
}

// WithWildcard returns the values plus the wildcard, the form storage
// backends use to build an IN / overlap query.
func (m Match) WithWildcard() []string {
	out := make([]string, 0, len(m.Values)+1)
	out = append(out, m.Values...)
	return append(out, Wildcard)
}

// Filter is the conjunction of one Match per filtered field.
type Filter struct {
	FeeEntity      Match
	EntityProperty Match
	FeeLocale      Match
	FeeCurrency    Match
}

// NewFilter builds the filter for a transaction. EntityProperty accepts any
// of the five identity attributes of the payment entity.
func NewFilter(req TransactionRequest) Filter {
	pe := req.PaymentEntity
	return Filter{
		FeeEntity:      newMatch(pe.Type),
		EntityProperty: newMatch(pe.Brand, pe.Issuer, pe.Number, pe.SixID, pe.ID),
		FeeLocale:      newMatch(string(req.Locale())),
		FeeCurrency:    newMatch(req.Currency),
	}
}

func (f Filter) Matches(s Specification) bool {
	return f.FeeEntity.Accepts(s.Entity.FeeEntity) &&
		f.EntityProperty.AcceptsAny(s.Entity.EntityProperty) &&
		f.FeeLocale.Accepts(s.FeeLocale) &&
		f.FeeCurrency.Accepts(s.FeeCurrency)
}

// Key is a stable textual form of the filter, used as a cache key.
func (f Filter) Key() string {
	parts := []Match{f.FeeEntity, f.EntityProperty, f.FeeLocale, f.FeeCurrency}
	var b strings.Builder
	for i, p := range parts {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(strings.Join(p.Values, ","))
	}
	return b.String()
}
