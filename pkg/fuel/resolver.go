package fuel

import (
	"math"
	"strings"
)

// Resolve classifies a customer barcode into a subsidy verdict. The first
// character of the trimmed, uppercased barcode decides: 'E' is eligible,
// 'I' is ineligible, anything else is treated as an unknown identifier.
// Every input maps to a verdict; Resolve has no failure mode.
func (engine *Engine) Resolve(barcode string) Verdict {
	trimmed := strings.TrimSpace(barcode)
	if trimmed == "" {
		return Verdict{
			Eligible:        false,
			SubsidyType:     SubsidyTypeNone,
			DiscountPercent: 0,
			Message:         messageNoBarcode,
		}
	}
	prefix := strings.ToUpper(trimmed)[0]
	switch prefix {
	case 'E':
		return Verdict{
			Eligible:        true,
			SubsidyType:     SubsidyTypeFuel,
			DiscountPercent: engine.DiscountPercent(),
			Message:         messageEligible,
		}
	case 'I':
		return Verdict{
			Eligible:        false,
			SubsidyType:     SubsidyTypeNone,
			DiscountPercent: 0,
			Message:         messageIneligible,
		}
	default:
		return Verdict{
			Eligible:        false,
			SubsidyType:     SubsidyTypeNone,
			DiscountPercent: 0,
			Message:         messageInvalidBarcode,
		}
	}
}

// DiscountPercent is the integer percentage saved at the subsidized price
// relative to market price.
func (engine *Engine) DiscountPercent() int {
	ratio := engine.prices.SubsidizedPrice / engine.prices.MarketPrice
	return int(math.Round((1 - ratio) * 100))
}
