package fuel

import (
	"context"
	"time"
)

// EngineOption configures an Engine instance.
type EngineOption func(*Engine)

// OperationLogger records activation attempts emitted by the engine.
type OperationLogger interface {
	LogOperation(ctx context.Context, entry OperationLog)
}

// OperationLog describes one activation attempt.
type OperationLog struct {
	Operation     string
	PumpNumber    int
	Amount        float64
	TransactionID string
	Eligible      bool
	Status        string
	Message       string
}

// WithOperationLogger wires a logger that receives a callback per activation.
func WithOperationLogger(logger OperationLogger) EngineOption {
	return func(engine *Engine) {
		engine.logger = logger
	}
}

// WithClock overrides the transaction-id timestamp source.
func WithClock(now func() time.Time) EngineOption {
	return func(engine *Engine) {
		if now != nil {
			engine.nowFn = now
		}
	}
}

// WithPumpCount overrides the number of pumps accepted by Activate.
func WithPumpCount(count int) EngineOption {
	return func(engine *Engine) {
		engine.pumpCount = count
	}
}
