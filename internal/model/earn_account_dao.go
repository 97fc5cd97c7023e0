package model

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EarnAccountsDao interface {
	Insert(ctx context.Context, data *EarnAccounts) error
	FindOneByOwner(ctx context.Context, owner, chain string) (*EarnAccounts, error)
}

type earnAccountsDao struct {
	db *gorm.DB
}

func NewEarnAccountsDao(db *gorm.DB) EarnAccountsDao {
	return &earnAccountsDao{
		db: db,
	}
}

// Insert stores an earn account; a second insert for the same owner and chain is ignored.
func (d *earnAccountsDao) Insert(ctx context.Context, data *EarnAccounts) error {
	return d.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(data).Error
}

func (d *earnAccountsDao) FindOneByOwner(ctx context.Context, owner, chain string) (*EarnAccounts, error) {
	var resp EarnAccounts
	err := d.db.WithContext(ctx).Where("owner = ? AND chain = ?", owner, chain).First(&resp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &resp, nil
}
