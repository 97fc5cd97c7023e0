package model

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var ErrNotFound = gorm.ErrRecordNotFound

// SubmissionsDao defines the interface for database operations on the submissions table.
type SubmissionsDao interface {
	Insert(ctx context.Context, data *Submissions) error
	UpdateStatus(ctx context.Context, txHash, status string, blockNumber uint64) error
	FindOneByHash(ctx context.Context, txHash string) (*Submissions, error)
	FindByOwner(ctx context.Context, owner string, limit int) ([]*Submissions, error)
}

type submissionsDao struct {
	db *gorm.DB
}

// NewSubmissionsDao creates a new instance of SubmissionsDao.
func NewSubmissionsDao(db *gorm.DB) SubmissionsDao {
	return &submissionsDao{
		db: db,
	}
}

// Insert adds a new record to the submissions table.
func (d *submissionsDao) Insert(ctx context.Context, data *Submissions) error {
	return d.db.WithContext(ctx).Create(data).Error
}

// UpdateStatus sets the final status of a submission.
func (d *submissionsDao) UpdateStatus(ctx context.Context, txHash, status string, blockNumber uint64) error {
	res := d.db.WithContext(ctx).Model(&Submissions{}).
		Where("tx_hash = ?", txHash).
		Updates(map[string]any{"status": status, "block_number": blockNumber})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// FindOneByHash retrieves a single submission by its transaction hash.
func (d *submissionsDao) FindOneByHash(ctx context.Context, txHash string) (*Submissions, error) {
	var resp Submissions
	err := d.db.WithContext(ctx).Where("tx_hash = ?", txHash).First(&resp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &resp, nil
}

// FindByOwner lists an owner's submissions, newest first.
func (d *submissionsDao) FindByOwner(ctx context.Context, owner string, limit int) ([]*Submissions, error) {
	var submissions []*Submissions
	q := d.db.WithContext(ctx).Where("owner = ?", owner).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&submissions).Error; err != nil {
		return nil, err
	}
	return submissions, nil
}
