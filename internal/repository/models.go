package repository

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/jar-analysis/pkg/model"
)

// ArchiveReportRecord represents the archive_reports table. The indexed
// columns duplicate fields of the JSON report so history can be queried
// without decoding it.
type ArchiveReportRecord struct {
	ID              int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Path            string    `gorm:"column:path;type:varchar(512);uniqueIndex"`
	Name            string    `gorm:"column:name;type:varchar(255)"`
	FileHash        string    `gorm:"column:file_hash;type:varchar(64);index"`
	BytecodeHash    string    `gorm:"column:bytecode_hash;type:varchar(64)"`
	MultiRelease    bool      `gorm:"column:multi_release"`
	Sealed          bool      `gorm:"column:sealed"`
	NumEntries      int       `gorm:"column:num_entries"`
	NumClasses      int       `gorm:"column:num_classes"`
	JDKRevision     string    `gorm:"column:jdk_revision;type:varchar(16)"`
	RuntimeVersions string    `gorm:"column:runtime_versions;type:varchar(255)"`
	Report          JSONField `gorm:"column:report;type:json"`
	AnalyzedAt      time.Time `gorm:"column:analyzed_at;index"`
}

// TableName returns the table name for ArchiveReportRecord.
func (ArchiveReportRecord) TableName() string {
	return "archive_reports"
}

// NewArchiveReportRecord flattens a report into a row.
func NewArchiveReportRecord(report *model.ArchiveReport) (*ArchiveReportRecord, error) {
	data, err := json.Marshal(report)
	if err != nil {
		return nil, err
	}

	return &ArchiveReportRecord{
		Path:            report.Path,
		Name:            report.Name,
		FileHash:        report.FileHash,
		BytecodeHash:    report.BytecodeHash,
		MultiRelease:    report.MultiRelease,
		Sealed:          report.Sealed,
		NumEntries:      report.NumEntries,
		NumClasses:      report.Classes.NumClasses,
		JDKRevision:     report.Classes.JDKRevision,
		RuntimeVersions: joinVersions(report.RuntimeVersions()),
		Report:          data,
		AnalyzedAt:      report.AnalyzedAt,
	}, nil
}

// ToModel decodes the stored report.
func (r *ArchiveReportRecord) ToModel() (*model.ArchiveReport, error) {
	report := &model.ArchiveReport{}
	if r.Report != nil {
		if err := json.Unmarshal(r.Report, report); err != nil {
			return nil, err
		}
	}

	// The indexed columns are authoritative for identity.
	report.Path = r.Path
	if report.Name == "" {
		report.Name = r.Name
	}
	if report.AnalyzedAt.IsZero() {
		report.AnalyzedAt = r.AnalyzedAt
	}
	return report, nil
}

func joinVersions(versions []int) string {
	parts := make([]string, len(versions))
	for i, v := range versions {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

// JSONField is a custom type for handling JSON fields in GORM.
type JSONField []byte

// Value implements driver.Valuer interface.
func (j JSONField) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return string(j), nil
}

// Scan implements sql.Scanner interface.
func (j *JSONField) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	switch v := value.(type) {
	case []byte:
		*j = append((*j)[0:0], v...)
		return nil
	case string:
		*j = []byte(v)
		return nil
	default:
		return errors.New("unsupported type for JSONField")
	}
}
