package droprate

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/yamiko-app/yamiko/internal/domain"
)

var validate = validator.New()

// rateTag bounds one tier rate. NaN fails both comparisons.
const rateTag = "gte=0,lte=100"

// NormalizePackType trims and upper-cases a pack identifier so "standard",
// " Standard " and "STANDARD" address the same table.
func NormalizePackType(packType string) string {
	// A Caser carries state, so each call gets its own
	return cases.Upper(language.Und).String(strings.TrimSpace(packType))
}

// ValidateRates checks a complete replacement map. Every offending tier is
// reported so a caller can fix all of them in one round trip.
func ValidateRates(rates domain.RateMap) error {
	verr := &domain.ValidationError{}

	for tier := range rates {
		if !tier.IsValid() {
			verr.Add(fieldName(tier), ErrMsgUnknownTier)
		}
	}

	for _, tier := range domain.AllTiers {
		rate, ok := rates[tier]
		if !ok {
			verr.Add(fieldName(tier), ErrMsgTierMissing)
			continue
		}
		if err := validate.Var(rate, rateTag); err != nil {
			verr.Add(fieldName(tier), ErrMsgRateRange)
		}
	}

	if verr.HasErrors() {
		return verr
	}

	sum := rates.Sum()
	if math.Abs(sum-100) > RateSumTolerance {
		return domain.NewValidationError("rates", fmt.Sprintf(ErrMsgRateSumFormat, sum))
	}
	return nil
}

func fieldName(tier domain.Tier) string {
	return "rates." + string(tier)
}
