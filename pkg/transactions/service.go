package transactions

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	operationAdd   = "add"
	operationClear = "clear"

	operationStatusOK    = "ok"
	operationStatusError = "error"

	dateLayout          = "2006-01-02"
	emptySubsidyLiters  = "-"
	walkInCustomerLabel = "Walk-in Customer "
)

// Service contains the ledger logic over a Store.
type Service struct {
	store      Store
	nowFn      func() time.Time
	nameLookup NameLookup
	logger     OperationLogger
}

// NewService wires a Service.
func NewService(store Store, now func() time.Time, options ...ServiceOption) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: store dependency is nil", ErrInvalidServiceConfig)
	}
	if now == nil {
		return nil, fmt.Errorf("%w: clock dependency is nil", ErrInvalidServiceConfig)
	}
	service := &Service{store: store, nowFn: now, nameLookup: PooledNameLookup()}
	for _, option := range options {
		if option != nil {
			option(service)
		}
	}
	return service, nil
}

// Add formats one finalized activation into an immutable Record, persists
// it, and returns the transaction id used.
func (service *Service) Add(ctx context.Context, input AddInput) (string, error) {
	transactionID := strings.TrimSpace(input.TransactionID)
	if transactionID == "" {
		transactionID = fmt.Sprintf("TXN%d", service.nowFn().UnixNano())
	}

	record := Record{
		TransactionID:   transactionID,
		NameID:          service.displayName(input.Barcode, transactionID),
		Amount:          formatQuantity(input.Amount),
		FuelConsumption: formatQuantity(input.FuelLiters),
		SubsidyLiters:   formatSubsidyLiters(input.SubsidyLiters),
		Status:          statusFor(input.DiscountApplied),
		Date:            service.nowFn().Format(dateLayout),
		SubsidyType:     input.SubsidyType,
		DiscountPercent: input.DiscountPercent,
		PricePerLiter:   input.PricePerLiter,
	}

	operationError := service.store.Insert(ctx, record)
	service.logOperation(ctx, OperationLog{
		Operation:     operationAdd,
		TransactionID: transactionID,
		NameID:        record.NameID,
		RecordStatus:  record.Status,
		Error:         operationError,
	})
	if operationError != nil {
		return "", operationError
	}
	return transactionID, nil
}

// List returns every record, most recent first.
func (service *Service) List(ctx context.Context) ([]Record, error) {
	return service.store.ListAll(ctx)
}

// ListByMonth filters records whose date starts with monthKey ("YYYY-MM").
// Malformed keys simply match nothing.
func (service *Service) ListByMonth(ctx context.Context, monthKey string) ([]Record, error) {
	return service.filter(ctx, func(record Record) bool {
		return strings.HasPrefix(record.Date, monthKey)
	})
}

// ListEligible returns records whose subsidy was applied.
func (service *Service) ListEligible(ctx context.Context) ([]Record, error) {
	return service.ListByStatus(ctx, StatusEligible)
}

// ListIneligible returns records without an applied subsidy.
func (service *Service) ListIneligible(ctx context.Context) ([]Record, error) {
	return service.ListByStatus(ctx, StatusIneligible)
}

// ListByStatus filters records by ledger status.
func (service *Service) ListByStatus(ctx context.Context, status Status) ([]Record, error) {
	return service.filter(ctx, func(record Record) bool {
		return record.Status == status
	})
}

// ClearAll empties the ledger and its durable storage. Reset path only.
func (service *Service) ClearAll(ctx context.Context) error {
	operationError := service.store.Clear(ctx)
	service.logOperation(ctx, OperationLog{
		Operation: operationClear,
		Error:     operationError,
	})
	return operationError
}

func (service *Service) filter(ctx context.Context, keep func(Record) bool) ([]Record, error) {
	records, err := service.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	filtered := make([]Record, 0, len(records))
	for _, record := range records {
		if keep(record) {
			filtered = append(filtered, record)
		}
	}
	return filtered, nil
}

func (service *Service) displayName(barcode string, transactionID string) string {
	if strings.TrimSpace(barcode) != "" {
		return service.nameLookup(barcode)
	}
	return walkInCustomerLabel + lastFour(transactionID)
}

func (service *Service) logOperation(ctx context.Context, entry OperationLog) {
	if service.logger == nil {
		return
	}
	if entry.Status == "" {
		if entry.Error != nil {
			entry.Status = operationStatusError
		} else {
			entry.Status = operationStatusOK
		}
	}
	service.logger.LogOperation(ctx, entry)
}

func statusFor(discountApplied bool) Status {
	if discountApplied {
		return StatusEligible
	}
	return StatusIneligible
}

func formatQuantity(value float64) string {
	return strconv.FormatFloat(value, 'f', 2, 64)
}

func formatSubsidyLiters(value float64) string {
	if value > 0 {
		return formatQuantity(value)
	}
	return emptySubsidyLiters
}

func lastFour(transactionID string) string {
	if len(transactionID) <= 4 {
		return transactionID
	}
	return transactionID[len(transactionID)-4:]
}
