package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the row shape of the transactions table.
type Transaction struct {
	TransactionID   int64           `db:"transaction_id" gorm:"column:transaction_id;primaryKey;autoIncrement"`
	Amount          decimal.Decimal `db:"amount" gorm:"column:amount;type:decimal(15,2)"`
	TransactionType string          `db:"transaction_type" gorm:"column:transaction_type;size:20"`
	Status          string          `db:"status" gorm:"column:status;size:20"`
	Description     sql.NullString  `db:"description" gorm:"column:description;size:255"`
	AccountID       int64           `db:"account_id" gorm:"column:account_id;index"`
	CreatedAt       time.Time       `db:"created_at" gorm:"column:created_at;autoCreateTime:false"`
}

// TableName binds the gorm model to the transactions table.
func (Transaction) TableName() string { return "transactions" }
