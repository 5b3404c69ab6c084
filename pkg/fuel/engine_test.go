package fuel

import (
	"context"
	"math"
	"strings"
	"testing"
	"time"
)

type recorderLogger struct {
	entries []OperationLog
}

func (logger *recorderLogger) LogOperation(_ context.Context, entry OperationLog) {
	logger.entries = append(logger.entries, entry)
}

func almostEqual(left float64, right float64, tolerance float64) bool {
	return math.Abs(left-right) <= tolerance
}

func TestActivateEligibleBarcode(test *testing.T) {
	test.Parallel()
	engine := mustEngine(test)

	outcome := engine.Activate(context.Background(), ActivationRequest{
		PumpNumber: 3,
		Amount:     100,
		Barcode:    "E12345",
	})
	if !outcome.Success {
		test.Fatalf("expected success, got %+v", outcome)
	}
	if outcome.PricePerLiter != 2.00 {
		test.Fatalf("expected subsidized price, got %v", outcome.PricePerLiter)
	}
	if !almostEqual(outcome.FuelLiters, 50.00, 0.01) {
		test.Fatalf("expected 50.00 liters, got %v", outcome.FuelLiters)
	}
	if !almostEqual(outcome.SubsidyLiters, 20.59, 0.01) {
		test.Fatalf("expected 20.59 subsidy liters, got %v", outcome.SubsidyLiters)
	}
	if outcome.DiscountPercent != 41 {
		test.Fatalf("expected 41%% discount, got %d", outcome.DiscountPercent)
	}
	if outcome.SubsidyType != SubsidyTypeFuel {
		test.Fatalf("unexpected subsidy type: %s", outcome.SubsidyType)
	}
	if !strings.HasPrefix(outcome.TransactionID, "TXN") {
		test.Fatalf("unexpected transaction id: %s", outcome.TransactionID)
	}
}

func TestActivateIneligibleBarcode(test *testing.T) {
	test.Parallel()
	engine := mustEngine(test)

	outcome := engine.Activate(context.Background(), ActivationRequest{
		PumpNumber: 1,
		Amount:     100,
		Barcode:    "I99999",
	})
	if !outcome.Success {
		test.Fatalf("expected success, got %+v", outcome)
	}
	if outcome.PricePerLiter != 3.40 {
		test.Fatalf("expected market price, got %v", outcome.PricePerLiter)
	}
	if !almostEqual(outcome.FuelLiters, 29.41, 0.01) {
		test.Fatalf("expected 29.41 liters, got %v", outcome.FuelLiters)
	}
	if outcome.SubsidyLiters != 0 {
		test.Fatalf("expected zero subsidy liters, got %v", outcome.SubsidyLiters)
	}
	if outcome.DiscountPercent != 0 {
		test.Fatalf("expected zero discount, got %d", outcome.DiscountPercent)
	}
}

func TestActivateWithoutBarcodeUsesMarketPrice(test *testing.T) {
	test.Parallel()
	engine := mustEngine(test)

	outcome := engine.Activate(context.Background(), ActivationRequest{
		PumpNumber: 5,
		Amount:     50,
	})
	if !outcome.Success {
		test.Fatalf("expected success, got %+v", outcome)
	}
	if outcome.PricePerLiter != 3.40 {
		test.Fatalf("expected market price, got %v", outcome.PricePerLiter)
	}
	if outcome.SubsidyLiters != 0 {
		test.Fatalf("expected zero subsidy liters, got %v", outcome.SubsidyLiters)
	}
	if outcome.SubsidyType != SubsidyTypeNone {
		test.Fatalf("unexpected subsidy type: %s", outcome.SubsidyType)
	}
}

func TestActivateRejectsNonPositiveAmount(test *testing.T) {
	test.Parallel()
	engine := mustEngine(test)

	for _, amount := range []float64{0, -10} {
		outcome := engine.Activate(context.Background(), ActivationRequest{PumpNumber: 1, Amount: amount})
		if outcome.Success {
			test.Fatalf("expected rejection for amount %v", amount)
		}
		if outcome.TransactionID != "" {
			test.Fatalf("rejected outcome must not carry a transaction id, got %q", outcome.TransactionID)
		}
	}
}

func TestActivateRejectsUnknownPump(test *testing.T) {
	test.Parallel()
	engine := mustEngine(test)

	for _, pump := range []int{0, -1, DefaultPumpCount + 1} {
		outcome := engine.Activate(context.Background(), ActivationRequest{PumpNumber: pump, Amount: 50})
		if outcome.Success {
			test.Fatalf("expected rejection for pump %d", pump)
		}
	}
}

func TestTransactionIDsDistinctAcrossPumpsAndCalls(test *testing.T) {
	test.Parallel()
	tick := int64(0)
	clock := func() time.Time {
		tick++
		return time.Unix(0, 1_700_000_000_000_000_000+tick)
	}
	engine := mustEngine(test, WithClock(clock))

	seen := map[string]bool{}
	for pump := 1; pump <= DefaultPumpCount; pump++ {
		outcome := engine.Activate(context.Background(), ActivationRequest{PumpNumber: pump, Amount: 10})
		if !outcome.Success {
			test.Fatalf("pump %d activation failed: %+v", pump, outcome)
		}
		if seen[outcome.TransactionID] {
			test.Fatalf("duplicate transaction id %s", outcome.TransactionID)
		}
		seen[outcome.TransactionID] = true
	}
}

func TestActivateLogsOperations(test *testing.T) {
	test.Parallel()
	logger := &recorderLogger{}
	engine := mustEngine(test, WithOperationLogger(logger))

	engine.Activate(context.Background(), ActivationRequest{PumpNumber: 2, Amount: 100, Barcode: "E12345"})
	engine.Activate(context.Background(), ActivationRequest{PumpNumber: 2, Amount: -1})

	if len(logger.entries) != 2 {
		test.Fatalf("expected two log entries, got %d", len(logger.entries))
	}
	if logger.entries[0].Status != operationStatusOK || !logger.entries[0].Eligible {
		test.Fatalf("unexpected first entry: %+v", logger.entries[0])
	}
	if logger.entries[1].Status != operationStatusRejected {
		test.Fatalf("unexpected second entry: %+v", logger.entries[1])
	}
}

func TestActivateConvertsPanicsToFailureOutcome(test *testing.T) {
	test.Parallel()
	engine := mustEngine(test, WithOperationLogger(panicOnSuccessLogger{}))

	outcome := engine.Activate(context.Background(), ActivationRequest{PumpNumber: 1, Amount: 100})
	if outcome.Success {
		test.Fatalf("expected failure outcome after internal fault")
	}
	if outcome.Message != "Failed to activate pump. Please try again." {
		test.Fatalf("unexpected message: %q", outcome.Message)
	}
}

// panicOnSuccessLogger simulates an internal fault inside the activation path.
type panicOnSuccessLogger struct{}

func (panicOnSuccessLogger) LogOperation(_ context.Context, entry OperationLog) {
	if entry.Status == operationStatusOK {
		panic("fault injection")
	}
}
