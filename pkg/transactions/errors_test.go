package transactions

import (
	"errors"
	"testing"
)

func TestWrapErrorPreservesMetadataAndUnwraps(test *testing.T) {
	test.Parallel()
	wrapped := WrapError("store", "record", "duplicate", ErrDuplicateTransactionID)

	var operationError OperationError
	if !errors.As(wrapped, &operationError) {
		test.Fatalf("expected OperationError, got %T", wrapped)
	}
	if operationError.Operation() != "store" || operationError.Subject() != "record" || operationError.Code() != "duplicate" {
		test.Fatalf("unexpected metadata: %v", operationError)
	}
	if !errors.Is(wrapped, ErrDuplicateTransactionID) {
		test.Fatalf("expected wrapped error to match sentinel")
	}
}

func TestWrapErrorNilPassthrough(test *testing.T) {
	test.Parallel()
	if err := WrapError("store", "record", "insert", nil); err != nil {
		test.Fatalf("expected nil, got %v", err)
	}
}
