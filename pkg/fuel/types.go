package fuel

import "fmt"

// Verdict is the eligibility decision for one customer barcode.
// It is produced fresh per request and never persisted.
type Verdict struct {
	Eligible        bool
	SubsidyType     string
	DiscountPercent int
	Message         string
}

// ActivationRequest asks the engine to authorize one fuel purchase.
// Barcode is optional; an empty value skips the subsidy check.
type ActivationRequest struct {
	PumpNumber int
	Amount     float64
	Barcode    string
}

// Outcome is the result of one activation attempt. All failure is
// reported through Success=false plus Message; Activate never errors.
type Outcome struct {
	Success         bool
	TransactionID   string
	FuelLiters      float64
	SubsidyLiters   float64
	PricePerLiter   float64
	SubsidyType     string
	DiscountPercent int
	Message         string
}

// PriceConfig fixes the two per-liter price constants for the engine's
// lifetime. The subsidized price must undercut the market price.
type PriceConfig struct {
	MarketPrice     float64
	SubsidizedPrice float64
}

// Validate ensures the price pair is usable for pricing arithmetic.
func (config PriceConfig) Validate() error {
	if config.MarketPrice <= 0 {
		return fmt.Errorf("%w: market price must be greater than zero", ErrInvalidPriceConfig)
	}
	if config.SubsidizedPrice <= 0 {
		return fmt.Errorf("%w: subsidized price must be greater than zero", ErrInvalidPriceConfig)
	}
	if config.SubsidizedPrice >= config.MarketPrice {
		return fmt.Errorf("%w: subsidized price must be below market price", ErrInvalidPriceConfig)
	}
	return nil
}
