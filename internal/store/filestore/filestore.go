package filestore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/nocts/fuelflow/pkg/transactions"
)

const (
	errorOperationStore = "store"
	errorSubjectBlob    = "blob"
	errorCodeEncode     = "encode"
	errorCodeDuplicate  = "duplicate"
	errorCodePersist    = "persist"

	blobFileMode = 0o644
)

// Store implements transactions.Store on a single JSON blob file. The
// whole collection is kept in memory and rewritten to disk on every
// mutation; this is a deliberate small-scale simplification.
type Store struct {
	path string

	mu      sync.Mutex
	records []transactions.Record
}

// Open loads any existing blob at path. A missing, unreadable, or corrupt
// blob is treated as an empty ledger rather than a fatal error.
func Open(path string) *Store {
	store := &Store{path: path}
	raw, err := os.ReadFile(path)
	if err != nil {
		return store
	}
	var records []transactions.Record
	if err := json.Unmarshal(raw, &records); err != nil {
		return store
	}
	store.records = records
	return store
}

// Path returns the blob file location.
func (store *Store) Path() string {
	return store.path
}

// Insert prepends the record and rewrites the blob.
func (store *Store) Insert(_ context.Context, record transactions.Record) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	for _, existing := range store.records {
		if existing.TransactionID == record.TransactionID {
			return wrapStoreError(errorCodeDuplicate, transactions.ErrDuplicateTransactionID)
		}
	}
	updated := make([]transactions.Record, 0, len(store.records)+1)
	updated = append(updated, record)
	updated = append(updated, store.records...)
	if err := store.persist(updated); err != nil {
		return err
	}
	store.records = updated
	return nil
}

// ListAll returns a defensive copy, most recent first.
func (store *Store) ListAll(_ context.Context) ([]transactions.Record, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	records := make([]transactions.Record, len(store.records))
	copy(records, store.records)
	return records, nil
}

// Clear empties the collection and rewrites the blob as an empty list.
func (store *Store) Clear(_ context.Context) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	if err := store.persist([]transactions.Record{}); err != nil {
		return err
	}
	store.records = nil
	return nil
}

func (store *Store) persist(records []transactions.Record) error {
	raw, err := json.Marshal(records)
	if err != nil {
		return wrapStoreError(errorCodeEncode, err)
	}
	if dir := filepath.Dir(store.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return wrapStoreError(errorCodePersist, err)
		}
	}
	if err := os.WriteFile(store.path, raw, blobFileMode); err != nil {
		return wrapStoreError(errorCodePersist, err)
	}
	return nil
}

func wrapStoreError(code string, err error) error {
	return transactions.WrapError(errorOperationStore, errorSubjectBlob, code, err)
}
