// Package feeconfig parses the fee configuration text used to provision fee
// specifications. One specification per line:
//
//	{FEE-ID} {FEE-CURRENCY} {FEE-LOCALE} {FEE-ENTITY}({ENTITY-PROPERTY}) : APPLY {FEE-TYPE} {FEE-VALUE}
//
// for example
//
//	LNPY1221 NGN * *(*) : APPLY PERC 1.4
//	LNPY1223 NGN LOCL CREDIT-CARD(VISA,MASTERCARD) : APPLY FLAT_PERC 50:1.4
package feeconfig

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/akashipov/feeservice/internal/fee"
)

var ErrInvalidSpec = errors.New("invalid fee configuration")

var line = regexp.MustCompile(`^(\S+)\s+(\S+)\s+(\S+)\s+([^\s(]+)\(([^)]*)\)\s*:\s*APPLY\s+(\S+)\s+(\S+)$`)

var currency = regexp.MustCompile(`^[A-Z]{3}$`)

var entities = map[string]struct{}{
	"CREDIT-CARD":  {},
	"DEBIT-CARD":   {},
	"BANK-ACCOUNT": {},
	"USSD":         {},
	"WALLET-ID":    {},
	fee.Wildcard:   {},
}

// Parse reads a whole configuration. Blank lines are skipped; the first bad
// line aborts the parse.
func Parse(text string) ([]fee.Specification, error) {
	var specs []fee.Specification
	seen := make(map[string]int)
	for i, raw := range strings.Split(text, "\n") {
		l := strings.TrimSpace(raw)
		if l == "" {
			continue
		}
		n := i + 1
		spec, err := ParseLine(l)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		if prev, ok := seen[spec.FeeID]; ok {
			return nil, fmt.Errorf("line %d: %w: fee id %s already defined on line %d", n, ErrInvalidSpec, spec.FeeID, prev)
		}
		seen[spec.FeeID] = n
		specs = append(specs, spec)
	}
	if len(specs) == 0 {
		return nil, fmt.Errorf("%w: no specifications", ErrInvalidSpec)
	}
	return specs, nil
}

func ParseLine(l string) (fee.Specification, error) {
	m := line.FindStringSubmatch(strings.TrimSpace(l))
	if m == nil {
		return fee.Specification{}, fmt.Errorf("%w: %q does not follow the configuration grammar", ErrInvalidSpec, l)
	}
	id, cur, locale, entity, property, kind, amount := m[1], m[2], m[3], m[4], m[5], m[6], m[7]

	if cur != fee.Wildcard && !currency.MatchString(cur) {
		return fee.Specification{}, fmt.Errorf("%w: bad currency %q", ErrInvalidSpec, cur)
	}
	switch fee.Locale(locale) {
	case fee.LocaleLocal, fee.LocaleInternational, fee.Wildcard:
	default:
		return fee.Specification{}, fmt.Errorf("%w: bad locale %q", ErrInvalidSpec, locale)
	}
	if _, ok := entities[entity]; !ok {
		return fee.Specification{}, fmt.Errorf("%w: bad fee entity %q", ErrInvalidSpec, entity)
	}
	properties, err := splitProperties(property)
	if err != nil {
		return fee.Specification{}, err
	}
	switch fee.ValueType(kind) {
	case fee.ValueFlat, fee.ValuePerc, fee.ValueFlatPerc:
	default:
		return fee.Specification{}, fmt.Errorf("%w: bad fee type %q", ErrInvalidSpec, kind)
	}
	value, err := fee.ParseValue(kind + " " + amount)
	if err != nil {
		return fee.Specification{}, fmt.Errorf("%w: %w", ErrInvalidSpec, err)
	}

	spec := fee.Specification{
		FeeID:       id,
		Entity:      fee.Entity{FeeEntity: entity, EntityProperty: properties},
		FeeLocale:   locale,
		FeeCurrency: cur,
		FeeValue:    value,
	}
	spec.SpecificityCount = Specificity(spec)
	return spec, nil
}

// Specificity counts the concrete (non-wildcard) fields of a specification.
func Specificity(s fee.Specification) int {
	n := 0
	for _, v := range []string{s.FeeCurrency, s.FeeLocale, s.Entity.FeeEntity} {
		if v != fee.Wildcard {
			n++
		}
	}
	if !isWildcard(s.Entity.EntityProperty) {
		n++
	}
	return n
}

func splitProperties(s string) ([]string, error) {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			return nil, fmt.Errorf("%w: empty entity property in %q", ErrInvalidSpec, s)
		}
		out = append(out, p)
	}
	if len(out) > 1 && isWildcard(out) {
		return nil, fmt.Errorf("%w: wildcard entity property cannot be combined with values", ErrInvalidSpec)
	}
	return out, nil
}

func isWildcard(properties []string) bool {
	for _, p := range properties {
		if p == fee.Wildcard {
			return true
		}
	}
	return false
}

// Replacer is the write side of a fee specification store.
type Replacer interface {
	Replace(ctx context.Context, specs ...fee.Specification) error
}

// Apply parses text and replaces the stored configuration with it. It
// returns the number of specifications provisioned.
func Apply(ctx context.Context, store Replacer, text string) (int, error) {
	specs, err := Parse(text)
	if err != nil {
		return 0, err
	}
	err = store.Replace(ctx, specs...)
	if err != nil {
		return 0, fmt.Errorf("Problem with saving fee configuration: %w", err)
	}
	return len(specs), nil
}

// Appender is the append side of a fee specification store.
type Appender interface {
	Save(ctx context.Context, specs ...fee.Specification) error
}

// Append parses text and adds it to the stored configuration. A fee id that
// is already stored fails the whole batch.
func Append(ctx context.Context, store Appender, text string) (int, error) {
	specs, err := Parse(text)
	if err != nil {
		return 0, err
	}
	err = store.Save(ctx, specs...)
	if err != nil {
		return 0, fmt.Errorf("Problem with appending fee configuration: %w", err)
	}
	return len(specs), nil
}
