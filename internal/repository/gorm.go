package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	apperrors "github.com/opt-report/pkg/errors"
	"github.com/opt-report/pkg/model"
)

// GormRunRepository implements RunRepository using GORM.
type GormRunRepository struct {
	db *gorm.DB
}

// NewGormRunRepository creates a new GormRunRepository.
func NewGormRunRepository(db *gorm.DB) *GormRunRepository {
	return &GormRunRepository{db: db}
}

// Migrate creates or updates the history tables.
func (r *GormRunRepository) Migrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&ReportRunRecord{}, &PassCountRecord{}); err != nil {
		return apperrors.Wrap(apperrors.CodeDatabaseError, "migrate run history", err)
	}
	return nil
}

// SaveRun stores a run and its pass counts in one transaction.
func (r *GormRunRepository) SaveRun(ctx context.Context, run *model.ReportRun) error {
	rec, err := newRunRecord(run)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeDatabaseError, "encode run", err)
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		passCounts := rec.PassCounts
		rec.PassCounts = nil
		if err := tx.Omit("PassCounts").Create(rec).Error; err != nil {
			return err
		}
		if len(passCounts) == 0 {
			return nil
		}
		return tx.Create(&passCounts).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.CodeDatabaseError, fmt.Sprintf("save run %s", run.RunID), err)
	}
	return nil
}

// GetRun retrieves a run by its id.
func (r *GormRunRepository) GetRun(ctx context.Context, runID string) (*model.ReportRun, error) {
	var rec ReportRunRecord

	err := r.db.WithContext(ctx).
		Preload("PassCounts", func(db *gorm.DB) *gorm.DB { return db.Order("num_records DESC, pass ASC") }).
		Where("run_id = ?", runID).
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Newf(apperrors.CodeNotFound, "run not found: %s", runID)
		}
		return nil, apperrors.Wrap(apperrors.CodeDatabaseError, "get run", err)
	}

	return rec.ToModel()
}

// ListRuns returns the most recent runs, newest first. Pass counts are
// not loaded.
func (r *GormRunRepository) ListRuns(ctx context.Context, limit int) ([]*model.ReportRun, error) {
	if limit <= 0 {
		limit = 20
	}

	var recs []ReportRunRecord
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&recs).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDatabaseError, "list runs", err)
	}

	runs := make([]*model.ReportRun, 0, len(recs))
	for i := range recs {
		run, err := recs[i].ToModel()
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeDatabaseError, "decode run", err)
		}
		runs = append(runs, run)
	}
	return runs, nil
}
