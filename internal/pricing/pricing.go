package pricing

import (
	"errors"

	"venuebook/internal/domain"
)

// PlatformFeePercent is the marketplace cut added on top of the base price.
const PlatformFeePercent = 12

// ErrNoPricing is returned when a venue has no usable price tier configured.
var ErrNoPricing = errors.New("venue has no pricing configured")

// Breakdown is the server-computed price split for a booking. Amounts are in
// the smallest currency unit.
type Breakdown struct {
	BasePrice   int64 `json:"base_price"`
	PlatformFee int64 `json:"platform_fee"`
	TotalPrice  int64 `json:"total_price"`
	VenuePayout int64 `json:"venue_payout"`
}

// Calculate derives the fee split from a base price. Pure: callers in the
// booking and modification paths must get identical results for equal input.
func Calculate(basePrice int64) Breakdown {
	fee := basePrice * PlatformFeePercent / 100
	return Breakdown{
		BasePrice:   basePrice,
		PlatformFee: fee,
		TotalPrice:  basePrice + fee,
		VenuePayout: basePrice,
	}
}

// SelectTier picks the base price from the venue's configured tiers,
// preferring full day, then half day, then evening, then hourly x8.
func SelectTier(v *domain.Venue) (int64, string, error) {
	switch {
	case v.PriceFullDay > 0:
		return v.PriceFullDay, "full_day", nil
	case v.PriceHalfDay > 0:
		return v.PriceHalfDay, "half_day", nil
	case v.PriceEvening > 0:
		return v.PriceEvening, "evening", nil
	case v.PriceHourly > 0:
		return v.PriceHourly * 8, "hourly", nil
	}
	return 0, "", ErrNoPricing
}
