package transactions

import "context"

// Status mirrors whether a subsidy was applied to a transaction.
type Status string

const (
	StatusEligible   Status = "Eligible"
	StatusIneligible Status = "Ineligible"
)

// String returns the status label.
func (status Status) String() string {
	return string(status)
}

// discountEpsilon absorbs floating-point noise when deciding whether a
// subsidy portion counts as applied.
const discountEpsilon = 1e-4

// DiscountApplied reports whether an activation carried a real discount.
// Presence of a barcode alone does not qualify.
func DiscountApplied(subsidyLiters float64, discountPercent int) bool {
	return subsidyLiters > discountEpsilon || discountPercent > 0
}

// Record is one immutable line in the transaction ledger. Currency and
// liter quantities are stored as two-decimal text; SubsidyLiters holds
// the literal "-" when no subsidy portion applies.
type Record struct {
	TransactionID   string  `json:"transactionId"`
	NameID          string  `json:"nameId"`
	Amount          string  `json:"amount"`
	FuelConsumption string  `json:"fuelConsumption"`
	SubsidyLiters   string  `json:"subsidyLiters"`
	Status          Status  `json:"status"`
	Date            string  `json:"date"`
	SubsidyType     string  `json:"subsidyType,omitempty"`
	DiscountPercent int     `json:"discountPercent,omitempty"`
	PricePerLiter   float64 `json:"pricePerLiter,omitempty"`
}

// AddInput carries the numeric results of one finalized activation into
// the ledger. DiscountApplied is computed by the caller with
// DiscountApplied, not inferred from barcode presence.
type AddInput struct {
	TransactionID   string
	PumpNumber      int
	Amount          float64
	Barcode         string
	DiscountApplied bool
	FuelLiters      float64
	SubsidyLiters   float64
	SubsidyType     string
	DiscountPercent int
	PricePerLiter   float64
}

// NameLookup maps a customer barcode to a display name. The default pool
// lookup is a stand-in for a real identity service.
type NameLookup func(barcode string) string

// Store is the persistence contract used by Service. Implementations keep
// records in reverse-insertion order (most recent first) and reject
// duplicate transaction ids with ErrDuplicateTransactionID.
type Store interface {
	Insert(ctx context.Context, record Record) error
	ListAll(ctx context.Context) ([]Record, error)
	Clear(ctx context.Context) error
}
