// Package repository persists archive reports.
package repository

import (
	"context"

	"github.com/jar-analysis/pkg/model"
)

// ReportRepository stores one report per archive path. Saving a report for
// a path that already has one replaces it.
type ReportRepository interface {
	// Save inserts or replaces the report for report.Path.
	Save(ctx context.Context, report *model.ArchiveReport) error

	// GetByPath retrieves the latest report for an archive path.
	GetByPath(ctx context.Context, path string) (*model.ArchiveReport, error)

	// GetByFileHash retrieves the reports of archives with the given file hash.
	GetByFileHash(ctx context.Context, hash string) ([]*model.ArchiveReport, error)

	// List returns the most recently analyzed reports, newest first.
	List(ctx context.Context, limit int) ([]*model.ArchiveReport, error)

	// Delete removes the report for an archive path.
	Delete(ctx context.Context, path string) error
}
