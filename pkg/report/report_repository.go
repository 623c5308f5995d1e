package report

import (
	"context"

	"tastebook/domain"
	"tastebook/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	ReportRepository interface {
		Create(ctx context.Context, report *entities.Report) (bool, error)
		GetByID(ctx context.Context, id string) (*entities.Report, error)
		GetPending(ctx context.Context, limit, offset int) ([]entities.Report, error)
		CountPending(ctx context.Context, targetType string, targetID uuid.UUID) (int64, error)
		Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
	}

	reportRepository struct {
		db *gorm.DB
	}
)

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

// Create inserts the report unless the (reporter, target) pair already
// reported. Returns whether a new row was created.
func (r *reportRepository) Create(ctx context.Context, report *entities.Report) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "reporter_id"}, {Name: "target_type"}, {Name: "target_id"}},
			DoNothing: true,
		}).
		Create(report)
	return result.RowsAffected > 0, result.Error
}

func (r *reportRepository) GetByID(ctx context.Context, id string) (*entities.Report, error) {
	var report entities.Report
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&report).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *reportRepository) GetPending(ctx context.Context, limit, offset int) ([]entities.Report, error) {
	var reports []entities.Report
	err := r.db.WithContext(ctx).Preload("Reporter").
		Where("status = ?", domain.ReportStatusPending).
		Order("created_at asc").
		Limit(limit).Offset(offset).
		Find(&reports).Error
	return reports, err
}

func (r *reportRepository) CountPending(ctx context.Context, targetType string, targetID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Report{}).
		Where("target_type = ? AND target_id = ? AND status = ?",
			targetType, targetID, domain.ReportStatusPending).
		Count(&count).Error
	return count, err
}

func (r *reportRepository) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}
