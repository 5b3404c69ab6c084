package gormstore

import (
	"context"
	"errors"
	"time"

	gosqlite "github.com/glebarez/go-sqlite"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/nocts/fuelflow/pkg/transactions"
	"gorm.io/gorm"
)

const (
	constraintTransactionID = "uniq_kiosk_transaction_id"
	pgUniqueViolationCode   = "23505"
	sqliteConstraintCode    = 19
	errorOperationStore     = "store"
	errorSubjectRecord      = "record"
	errorCodeClear          = "clear"
	errorCodeDuplicate      = "duplicate"
	errorCodeInsert         = "insert"
	errorCodeList           = "list"
)

// Store implements transactions.Store using GORM.
type Store struct {
	db *gorm.DB
}

// New returns a Store backed by gorm.DB.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate prepares the kiosk_transactions schema.
func (store *Store) Migrate() error {
	return store.db.AutoMigrate(&TransactionRow{})
}

// Insert appends one record row.
func (store *Store) Insert(ctx context.Context, record transactions.Record) error {
	row := TransactionRow{
		TransactionID:   record.TransactionID,
		NameID:          record.NameID,
		Amount:          record.Amount,
		FuelConsumption: record.FuelConsumption,
		SubsidyLiters:   record.SubsidyLiters,
		Status:          record.Status.String(),
		Date:            record.Date,
		SubsidyType:     record.SubsidyType,
		DiscountPercent: record.DiscountPercent,
		PricePerLiter:   record.PricePerLiter,
		CreatedAt:       time.Now().UTC(),
	}
	err := store.db.WithContext(ctx).Create(&row).Error
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
	var rows []TransactionRow
	err := store.db.WithContext(ctx).
		Order("seq DESC").
		Find(&rows).Error
	if err != nil {
		return nil, wrapStoreError(errorCodeList, err)
	}
	records := make([]transactions.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, mapTransactionRow(row))
	}
	return records, nil
}

// Clear removes every record row.
func (store *Store) Clear(ctx context.Context) error {
	err := store.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&TransactionRow{}).Error
	if err != nil {
		return wrapStoreError(errorCodeClear, err)
	}
	return nil
}

func mapTransactionRow(row TransactionRow) transactions.Record {
	return transactions.Record{
		TransactionID:   row.TransactionID,
		NameID:          row.NameID,
		Amount:          row.Amount,
		FuelConsumption: row.FuelConsumption,
		SubsidyLiters:   row.SubsidyLiters,
		Status:          transactions.Status(row.Status),
		Date:            row.Date,
		SubsidyType:     row.SubsidyType,
		DiscountPercent: row.DiscountPercent,
		PricePerLiter:   row.PricePerLiter,
	}
}

func wrapStoreError(code string, err error) error {
	return transactions.WrapError(errorOperationStore, errorSubjectRecord, code, err)
}

func isTransactionIDConflict(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolationCode && pgErr.ConstraintName == constraintTransactionID
	}
	var sqliteErr *gosqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code()&0xFF == sqliteConstraintCode
	}
	return false
}
