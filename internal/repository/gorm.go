package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "github.com/jar-analysis/pkg/errors"
	"github.com/jar-analysis/pkg/model"
)

// GormReportRepository implements ReportRepository using GORM.
type GormReportRepository struct {
	db *gorm.DB
}

// NewGormReportRepository creates a new GormReportRepository.
func NewGormReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

// Save inserts the report or replaces the row with the same path.
func (r *GormReportRepository) Save(ctx context.Context, report *model.ArchiveReport) error {
	if report == nil || report.Path == "" {
		return apperrors.New(apperrors.CodeInvalidArgument, "report path is required")
	}

	record, err := NewArchiveReportRecord(report)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeDatabaseError, "failed to encode report", err)
	}

	err = r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "path"}},
		DoUpdates: clause.AssignmentColumns(updatableColumns),
	}).Create(record).Error
	if err != nil {
		return apperrors.Wrap(apperrors.CodeDatabaseError, "failed to save report", err)
	}
	return nil
}

var updatableColumns = []string{
	"name", "file_hash", "bytecode_hash", "multi_release", "sealed",
	"num_entries", "num_classes", "jdk_revision", "runtime_versions",
	"report", "analyzed_at",
}

// GetByPath retrieves the report for an archive path.
func (r *GormReportRepository) GetByPath(ctx context.Context, path string) (*model.ArchiveReport, error) {
	var record ArchiveReportRecord

	err := r.db.WithContext(ctx).Where("path = ?", path).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Newf(apperrors.CodeNotFound, "report not found: %s", path)
		}
		return nil, apperrors.Wrap(apperrors.CodeDatabaseError, "failed to get report", err)
	}

	return decodeRecord(&record)
}

// GetByFileHash retrieves the reports of archives with the given file hash.
func (r *GormReportRepository) GetByFileHash(ctx context.Context, hash string) ([]*model.ArchiveReport, error) {
	var records []ArchiveReportRecord

	err := r.db.WithContext(ctx).
		Where("file_hash = ?", hash).
		Order("analyzed_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDatabaseError, "failed to query reports", err)
	}

	return decodeRecords(records)
}

// List returns up to limit reports, newest first. A limit <= 0 returns all.
func (r *GormReportRepository) List(ctx context.Context, limit int) ([]*model.ArchiveReport, error) {
	var records []ArchiveReportRecord

	query := r.db.WithContext(ctx).Order("analyzed_at DESC").Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&records).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDatabaseError, "failed to list reports", err)
	}

	return decodeRecords(records)
}

// Delete removes the report for an archive path.
func (r *GormReportRepository) Delete(ctx context.Context, path string) error {
	result := r.db.WithContext(ctx).Where("path = ?", path).Delete(&ArchiveReportRecord{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.CodeDatabaseError, "failed to delete report", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.Newf(apperrors.CodeNotFound, "report not found: %s", path)
	}
	return nil
}

func decodeRecord(record *ArchiveReportRecord) (*model.ArchiveReport, error) {
	report, err := record.ToModel()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDatabaseError, "failed to decode report", err)
	}
	return report, nil
}

func decodeRecords(records []ArchiveReportRecord) ([]*model.ArchiveReport, error) {
	reports := make([]*model.ArchiveReport, 0, len(records))
	for i := range records {
		report, err := decodeRecord(&records[i])
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}
