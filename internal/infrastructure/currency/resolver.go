// Package currency resolves ISO 4217 metadata for money conversion.
package currency

import (
	"fmt"
	"strings"

	"golang.org/x/text/currency"

	apperrors "github.com/orris-inc/klarnacheckout/internal/shared/errors"
)

// Resolver reports minor unit digits from CLDR data, with per-code
// overrides from configuration.
type Resolver struct {
	overrides map[string]int32
}

func NewResolver(overrides map[string]int) *Resolver {
	r := &Resolver{overrides: make(map[string]int32, len(overrides))}
	for code, digits := range overrides {
		r.overrides[strings.ToUpper(code)] = int32(digits)
	}
	return r
}

func (r *Resolver) FractionDigits(code string) (int32, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if digits, ok := r.overrides[code]; ok {
		return digits, nil
	}

	unit, err := currency.ParseISO(code)
	if err != nil {
		return 0, apperrors.NewConfigurationError(fmt.Sprintf("unknown currency %q", code))
	}
	scale, _ := currency.Standard.Rounding(unit)
	return int32(scale), nil
}
