package gormstore

import "time"

// TransactionRow mirrors the kiosk_transactions table. Seq preserves
// insertion order so reads can return most-recent-first.
type TransactionRow struct {
	Seq             uint64    `gorm:"primaryKey;autoIncrement"`
	TransactionID   string    `gorm:"not null;index:uniq_kiosk_transaction_id,unique"`
	NameID          string    `gorm:"not null"`
	Amount          string    `gorm:"not null"`
	FuelConsumption string    `gorm:"not null"`
	SubsidyLiters   string    `gorm:"not null"`
	Status          string    `gorm:"not null;index:idx_kiosk_transactions_status"`
	Date            string    `gorm:"not null;index:idx_kiosk_transactions_date"`
	SubsidyType     string    `gorm:""`
	DiscountPercent int       `gorm:""`
	PricePerLiter   float64   `gorm:""`
	CreatedAt       time.Time `gorm:"not null"`
}

func (TransactionRow) TableName() string { return "kiosk_transactions" }
