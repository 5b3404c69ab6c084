package transactions

import (
	"context"
	"errors"
	"testing"
	"time"
)

type recorderLogger struct {
	entries []OperationLog
}

func (logger *recorderLogger) LogOperation(_ context.Context, entry OperationLog) {
	logger.entries = append(logger.entries, entry)
}

func TestServiceLogsAddOperation(test *testing.T) {
	test.Parallel()
	store := &stubStore{}
	logger := &recorderLogger{}
	service := mustService(test, store, time.Now, WithOperationLogger(logger))

	mustAdd(test, service, AddInput{TransactionID: "TXN1", Amount: 10, FuelLiters: 2.94, PricePerLiter: 3.40})

	if len(logger.entries) != 1 {
		test.Fatalf("expected one log entry, got %d", len(logger.entries))
	}
	entry := logger.entries[0]
	if entry.Operation != operationAdd || entry.TransactionID != "TXN1" {
		test.Fatalf("unexpected log entry: %+v", entry)
	}
	if entry.Status != operationStatusOK || entry.Error != nil {
		test.Fatalf("expected successful log entry, got %+v", entry)
	}
}

func TestServiceLogsErrorStatus(test *testing.T) {
	test.Parallel()
	store := &stubStore{failErr: errors.New("disk full")}
	logger := &recorderLogger{}
	service := mustService(test, store, time.Now, WithOperationLogger(logger))

	if _, err := service.Add(context.Background(), AddInput{TransactionID: "TXN1", Amount: 10}); err == nil {
		test.Fatal("expected error")
	}
	if len(logger.entries) != 1 {
		test.Fatalf("expected one log entry, got %d", len(logger.entries))
	}
	if logger.entries[0].Status != operationStatusError || logger.entries[0].Error == nil {
		test.Fatalf("expected error log entry, got %+v", logger.entries[0])
	}
}
