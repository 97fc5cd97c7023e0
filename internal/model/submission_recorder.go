package model

import (
	"context"

	"compass-earn/internal/constant"
	"compass-earn/internal/pipeline"

	"github.com/ethereum/go-ethereum/common"
)

// SubmissionRecorder stores pipeline submissions through a SubmissionsDao.
type SubmissionRecorder struct {
	dao SubmissionsDao
}

func NewSubmissionRecorder(dao SubmissionsDao) *SubmissionRecorder {
	return &SubmissionRecorder{dao: dao}
}

func (r *SubmissionRecorder) Submitted(ctx context.Context, s *pipeline.Submission) error {
	return r.dao.Insert(ctx, &Submissions{
		TxHash:      s.Hash.Hex(),
		Chain:       s.Chain,
		Action:      string(s.Action),
		Owner:       s.Owner,
		FromAddress: s.From.Hex(),
		ToAddress:   s.To.Hex(),
		Status:      constant.StatusPending,
	})
}

func (r *SubmissionRecorder) Finished(ctx context.Context, hash common.Hash, status string, blockNumber uint64) error {
	return r.dao.UpdateStatus(ctx, hash.Hex(), status, blockNumber)
}
