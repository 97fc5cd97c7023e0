package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Submissions corresponds to the submissions table: one row per broadcast transaction.
type Submissions struct {
	Id          string    `gorm:"primaryKey;type:uuid" db:"id"`
	TxHash      string    `gorm:"uniqueIndex;size:66" db:"tx_hash"`
	Chain       string    `gorm:"size:32" db:"chain"`
	Action      string    `gorm:"size:32" db:"action"`
	Owner       string    `gorm:"index;size:42" db:"owner"`
	FromAddress string    `gorm:"size:42" db:"from_address"`
	ToAddress   string    `gorm:"size:42" db:"to_address"`
	Status      string    `gorm:"size:16" db:"status"`
	BlockNumber uint64    `db:"block_number"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (Submissions) TableName() string {
	return "submissions"
}

// BeforeCreate assigns a random id to new rows.
func (s *Submissions) BeforeCreate(*gorm.DB) error {
	if s.Id == "" {
		s.Id = uuid.NewString()
	}
	return nil
}

// EarnAccounts maps an owner to the earn account proxy deployed for it on a chain.
type EarnAccounts struct {
	Id                 int64     `gorm:"primaryKey;autoIncrement" db:"id"`
	Owner              string    `gorm:"uniqueIndex:idx_owner_chain;size:42" db:"owner"`
	Chain              string    `gorm:"uniqueIndex:idx_owner_chain;size:32" db:"chain"`
	EarnAccountAddress string    `gorm:"size:42" db:"earn_account_address"`
	TxHash             string    `gorm:"size:66" db:"tx_hash"`
	CreatedAt          time.Time `db:"created_at"`
	UpdatedAt          time.Time `db:"updated_at"`
}

func (EarnAccounts) TableName() string {
	return "earn_accounts"
}
