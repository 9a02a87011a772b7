package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is the row shape of the accounts table.
// Tags serve both the pgx row scanner (db) and gorm (gorm).
type Account struct {
	AccountID     int64           `db:"account_id" gorm:"column:account_id;primaryKey;autoIncrement"`
	AccountNumber string          `db:"account_number" gorm:"column:account_number;uniqueIndex;size:20"`
	AccountType   string          `db:"account_type" gorm:"column:account_type;size:20"`
	Balance       decimal.Decimal `db:"balance" gorm:"column:balance;type:decimal(15,2)"`
	OwnerID       int64           `db:"owner_id" gorm:"column:owner_id;index"`
	CreatedAt     time.Time       `db:"created_at" gorm:"column:created_at;autoCreateTime:false"`
}

// TableName binds the gorm model to the accounts table.
func (Account) TableName() string { return "accounts" }
