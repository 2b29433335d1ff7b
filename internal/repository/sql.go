package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	apperrors "github.com/jar-analysis/pkg/errors"
	"github.com/jar-analysis/pkg/model"
)

// Dialect selects placeholder and upsert syntax for SQLReportRepository.
type Dialect string

const (
	DialectMySQL    Dialect = "mysql"
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// rebind rewrites '?' placeholders into the dialect's form.
func (d Dialect) rebind(query string) string {
	if d != DialectPostgres {
		return query
	}

	var b strings.Builder
	n := 0
	for _, c := range query {
		if c == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}

func (d Dialect) upsertClause() string {
	if d == DialectMySQL {
		sets := make([]string, len(updatableColumns))
		for i, c := range updatableColumns {
			sets[i] = fmt.Sprintf("%s = VALUES(%s)", c, c)
		}
		return "ON DUPLICATE KEY UPDATE " + strings.Join(sets, ", ")
	}

	sets := make([]string, len(updatableColumns))
	for i, c := range updatableColumns {
		sets[i] = fmt.Sprintf("%s = excluded.%s", c, c)
	}
	return "ON CONFLICT (path) DO UPDATE SET " + strings.Join(sets, ", ")
}

// SQLReportRepository implements ReportRepository on a plain *sql.DB for
// deployments that share a database handle with other code.
type SQLReportRepository struct {
	db      *sql.DB
	dialect Dialect
}

// NewSQLReportRepository creates a new SQLReportRepository.
func NewSQLReportRepository(db *sql.DB, dialect Dialect) *SQLReportRepository {
	return &SQLReportRepository{db: db, dialect: dialect}
}

const selectReport = `SELECT path, name, report, analyzed_at FROM archive_reports`

// Save inserts the report or replaces the row with the same path.
func (r *SQLReportRepository) Save(ctx context.Context, report *model.ArchiveReport) error {
	if report == nil || report.Path == "" {
		return apperrors.New(apperrors.CodeInvalidArgument, "report path is required")
	}

	record, err := NewArchiveReportRecord(report)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeDatabaseError, "failed to encode report", err)
	}

	query := `
		INSERT INTO archive_reports (path, name, file_hash, bytecode_hash, multi_release, sealed,
			num_entries, num_classes, jdk_revision, runtime_versions, report, analyzed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		` + r.dialect.upsertClause()

	_, err = r.db.ExecContext(ctx, r.dialect.rebind(query),
		record.Path, record.Name, record.FileHash, record.BytecodeHash,
		record.MultiRelease, record.Sealed, record.NumEntries, record.NumClasses,
		record.JDKRevision, record.RuntimeVersions, string(record.Report), record.AnalyzedAt,
	)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeDatabaseError, "failed to save report", err)
	}
	return nil
}

// GetByPath retrieves the report for an archive path.
func (r *SQLReportRepository) GetByPath(ctx context.Context, path string) (*model.ArchiveReport, error) {
	query := r.dialect.rebind(selectReport + ` WHERE path = ?`)

	var record ArchiveReportRecord
	err := r.db.QueryRowContext(ctx, query, path).Scan(
		&record.Path, &record.Name, &record.Report, &record.AnalyzedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.Newf(apperrors.CodeNotFound, "report not found: %s", path)
		}
		return nil, apperrors.Wrap(apperrors.CodeDatabaseError, "failed to get report", err)
	}

	return decodeRecord(&record)
}

// GetByFileHash retrieves the reports of archives with the given file hash.
func (r *SQLReportRepository) GetByFileHash(ctx context.Context, hash string) ([]*model.ArchiveReport, error) {
	query := r.dialect.rebind(selectReport + ` WHERE file_hash = ? ORDER BY analyzed_at DESC`)

	rows, err := r.db.QueryContext(ctx, query, hash)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDatabaseError, "failed to query reports", err)
	}
	defer rows.Close()

	return r.scanReports(rows)
}

// List returns up to limit reports, newest first. A limit <= 0 returns all.
func (r *SQLReportRepository) List(ctx context.Context, limit int) ([]*model.ArchiveReport, error) {
	query := selectReport + ` ORDER BY analyzed_at DESC, id DESC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, r.dialect.rebind(query), args...)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDatabaseError, "failed to list reports", err)
	}
	defer rows.Close()

	return r.scanReports(rows)
}

// Delete removes the report for an archive path.
func (r *SQLReportRepository) Delete(ctx context.Context, path string) error {
	result, err := r.db.ExecContext(ctx, r.dialect.rebind(`DELETE FROM archive_reports WHERE path = ?`), path)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeDatabaseError, "failed to delete report", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(apperrors.CodeDatabaseError, "failed to delete report", err)
	}
	if affected == 0 {
		return apperrors.Newf(apperrors.CodeNotFound, "report not found: %s", path)
	}
	return nil
}

func (r *SQLReportRepository) scanReports(rows *sql.Rows) ([]*model.ArchiveReport, error) {
	var reports []*model.ArchiveReport
	for rows.Next() {
		var record ArchiveReportRecord
		if err := rows.Scan(&record.Path, &record.Name, &record.Report, &record.AnalyzedAt); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeDatabaseError, "failed to scan report", err)
		}

		report, err := decodeRecord(&record)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDatabaseError, "failed to iterate reports", err)
	}
	return reports, nil
}
