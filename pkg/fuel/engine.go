package fuel

import (
	"context"
	"fmt"
	"time"
)

// Engine computes pricing and activation outcomes for kiosk requests.
// It carries no mutable state and is safe to share across pumps.
type Engine struct {
	prices    PriceConfig
	pumpCount int
	nowFn     func() time.Time
	logger    OperationLogger
}

// NewEngine wires an Engine with the given price constants.
func NewEngine(prices PriceConfig, options ...EngineOption) (*Engine, error) {
	if err := prices.Validate(); err != nil {
		return nil, err
	}
	engine := &Engine{
		prices:    prices,
		pumpCount: DefaultPumpCount,
		nowFn:     time.Now,
	}
	for _, option := range options {
		if option != nil {
			option(engine)
		}
	}
	if engine.pumpCount < 1 {
		return nil, fmt.Errorf("%w: pump count must be at least one", ErrInvalidEngineConfig)
	}
	return engine, nil
}

// Prices returns the configured price constants.
func (engine *Engine) Prices() PriceConfig {
	return engine.prices
}

// Activate authorizes one fuel purchase: it resolves eligibility, selects
// the applicable price, and computes liters dispensed. Activate never
// panics outward; any internal fault becomes a generic failure outcome.
func (engine *Engine) Activate(ctx context.Context, request ActivationRequest) (outcome Outcome) {
	defer func() {
		if recovered := recover(); recovered != nil {
			outcome = Outcome{
				Success: false,
				Message: messageActivationFailed,
			}
			engine.logOperation(ctx, request, outcome)
		}
	}()

	if request.Amount <= 0 {
		outcome = Outcome{Success: false, Message: messageInvalidAmount}
		engine.logOperation(ctx, request, outcome)
		return outcome
	}
	if request.PumpNumber < 1 || request.PumpNumber > engine.pumpCount {
		outcome = Outcome{Success: false, Message: messageInvalidPumpNumber}
		engine.logOperation(ctx, request, outcome)
		return outcome
	}

	verdict := engine.resolveForRequest(request)

	pricePerLiter := engine.prices.MarketPrice
	subsidyLiters := 0.0
	if verdict.Eligible {
		pricePerLiter = engine.prices.SubsidizedPrice
	}
	fuelLiters := request.Amount / pricePerLiter
	if verdict.Eligible {
		// The extra liters gained purely from the discount.
		subsidyLiters = fuelLiters - request.Amount/engine.prices.MarketPrice
	}

	outcome = Outcome{
		Success:         true,
		TransactionID:   engine.newTransactionID(request.PumpNumber),
		FuelLiters:      fuelLiters,
		SubsidyLiters:   subsidyLiters,
		PricePerLiter:   pricePerLiter,
		SubsidyType:     verdict.SubsidyType,
		DiscountPercent: verdict.DiscountPercent,
		Message:         fmt.Sprintf("Pump %d activated successfully", request.PumpNumber),
	}
	engine.logOperation(ctx, request, outcome)
	return outcome
}

func (engine *Engine) resolveForRequest(request ActivationRequest) Verdict {
	if request.Barcode != "" {
		return engine.Resolve(request.Barcode)
	}
	return Verdict{
		Eligible:        false,
		SubsidyType:     SubsidyTypeNone,
		DiscountPercent: 0,
		Message:         messageNoSubsidy,
	}
}

// newTransactionID derives an id unique within the process lifetime from a
// nanosecond timestamp and the pump number, so near-simultaneous
// activations on different pumps cannot collide.
func (engine *Engine) newTransactionID(pumpNumber int) string {
	return fmt.Sprintf("%s%d%d", transactionIDPrefix, engine.nowFn().UnixNano(), pumpNumber)
}

func (engine *Engine) logOperation(ctx context.Context, request ActivationRequest, outcome Outcome) {
	if engine.logger == nil {
		return
	}
	status := operationStatusOK
	if !outcome.Success {
		status = operationStatusRejected
	}
	engine.logger.LogOperation(ctx, OperationLog{
		Operation:     operationActivate,
		PumpNumber:    request.PumpNumber,
		Amount:        request.Amount,
		TransactionID: outcome.TransactionID,
		Eligible:      outcome.SubsidyLiters > 0 || outcome.DiscountPercent > 0,
		Status:        status,
		Message:       outcome.Message,
	})
}
