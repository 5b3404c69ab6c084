package pgstore

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nocts/fuelflow/pkg/transactions"
)

const (
	constraintTransactionID = "kiosk_transactions_transaction_id_key"
	pgUniqueViolationCode   = "23505"
	errorOperationStore     = "store"
	errorSubjectRecord      = "record"
	errorSubjectSchema      = "schema"
	errorCodeClear          = "clear"
	errorCodeDuplicate      = "duplicate"
	errorCodeEnsure         = "ensure"
	errorCodeInsert         = "insert"
	errorCodeList           = "list"
	errorCodeScan           = "scan"

	sqlEnsureSchema = `
		create table if not exists kiosk_transactions (
			seq bigint generated always as identity primary key,
			transaction_id text not null unique,
			name_id text not null,
			amount text not null,
			fuel_consumption text not null,
			subsidy_liters text not null,
			status text not null,
			date text not null,
			subsidy_type text not null default '',
			discount_percent int not null default 0,
			price_per_liter double precision not null default 0,
			created_at timestamptz not null default now()
		)
	`

	sqlInsertRecord = `
		insert into kiosk_transactions(
			transaction_id, name_id, amount, fuel_consumption, subsidy_liters,
			status, date, subsidy_type, discount_percent, price_per_liter
		)
		values($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	sqlListRecords = `
		select transaction_id, name_id, amount, fuel_consumption, subsidy_liters,
			status, date, subsidy_type, discount_percent, price_per_liter
		from kiosk_transactions
		order by seq desc
	`

	sqlClearRecords = `
		delete from kiosk_transactions
	`
)

// Store implements transactions.Store on a pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// New returns a Store backed by the given pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// EnsureSchema creates the kiosk_transactions table when absent.
func (store *Store) EnsureSchema(ctx context.Context) error {
	if _, err := store.pool.Exec(ctx, sqlEnsureSchema); err != nil {
		return transactions.WrapError(errorOperationStore, errorSubjectSchema, errorCodeEnsure, err)
	}
	return nil
}

// Insert appends one record row.
func (store *Store) Insert(ctx context.Context, record transactions.Record) error {
	_, err := store.pool.Exec(ctx, sqlInsertRecord,
		record.TransactionID,
		record.NameID,
		record.Amount,
		record.FuelConsumption,
		record.SubsidyLiters,
		record.Status.String(),
		record.Date,
		record.SubsidyType,
		record.DiscountPercent,
		record.PricePerLiter,
	)
	if isTransactionIDConflict(err) {
		return wrapStoreError(errorCodeDuplicate, transactions.ErrDuplicateTransactionID)
	}
	if err != nil {
		return wrapStoreError(errorCodeInsert, err)
	}
	return nil
}

// ListAll returns every record, most recent first.
func (store *Store) ListAll(ctx context.Context) ([]transactions.Record, error) {
	rows, err := store.pool.Query(ctx, sqlListRecords)
	if err != nil {
		return nil, wrapStoreError(errorCodeList, err)
	}
	defer rows.Close()

	records := make([]transactions.Record, 0)
	for rows.Next() {
		var record transactions.Record
		var status string
		err := rows.Scan(
			&record.TransactionID,
			&record.NameID,
			&record.Amount,
			&record.FuelConsumption,
			&record.SubsidyLiters,
			&status,
			&record.Date,
			&record.SubsidyType,
			&record.DiscountPercent,
			&record.PricePerLiter,
		)
		if err != nil {
			return nil, wrapStoreError(errorCodeScan, err)
		}
		record.Status = transactions.Status(status)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapStoreError(errorCodeList, err)
	}
	return records, nil
}

// Clear removes every record row.
func (store *Store) Clear(ctx context.Context) error {
	if _, err := store.pool.Exec(ctx, sqlClearRecords); err != nil {
		return wrapStoreError(errorCodeClear, err)
	}
	return nil
}

func wrapStoreError(code string, err error) error {
	return transactions.WrapError(errorOperationStore, errorSubjectRecord, code, err)
}

func isTransactionIDConflict(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolationCode && pgErr.ConstraintName == constraintTransactionID
	}
	return false
}
