// Package model defines the data structures shared by the analysis, storage
// and output layers.
package model

import (
	"strings"
	"time"

	"github.com/jar-analysis/pkg/filter"
)

// ReportFormat is the on-disk encoding of a report.
type ReportFormat string

const (
	FormatJSON    ReportFormat = "json"     // Plain JSON
	FormatJSONGz  ReportFormat = "json.gz"  // Gzip-compressed JSON
	FormatJSONZst ReportFormat = "json.zst" // Zstandard-compressed JSON
	FormatYAML    ReportFormat = "yaml"     // YAML
)

// Extension returns the file extension for the format, without a dot.
func (f ReportFormat) Extension() string {
	return string(f)
}

// Valid reports whether f is a supported format.
func (f ReportFormat) Valid() bool {
	switch f {
	case FormatJSON, FormatJSONGz, FormatJSONZst, FormatYAML:
		return true
	default:
		return false
	}
}

// ParseReportFormat parses a format name. "gz", "zst" and "yml" are accepted
// as aliases; unknown names fall back to JSON.
func ParseReportFormat(s string) ReportFormat {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json.gz", "gz", "gzip":
		return FormatJSONGz
	case "json.zst", "zst", "zstd":
		return FormatJSONZst
	case "yaml", "yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// ClassSummary describes one class set.
type ClassSummary struct {
	NumClasses   int      `json:"num_classes" yaml:"num_classes"`
	NumPackages  int      `json:"num_packages" yaml:"num_packages"`
	NumMethods   int      `json:"num_methods" yaml:"num_methods"`
	NumImports   int      `json:"num_imports" yaml:"num_imports"`
	Packages     []string `json:"packages,omitempty" yaml:"packages,omitempty"`
	DebugPresent bool     `json:"debug_present" yaml:"debug_present"`
	ClassVersion string   `json:"class_version,omitempty" yaml:"class_version,omitempty"`
	JDKRevision  string   `json:"jdk_revision,omitempty" yaml:"jdk_revision,omitempty"`
}

// RuntimeSummary describes one META-INF/versions/N runtime.
type RuntimeSummary struct {
	Version    int          `json:"version" yaml:"version"`
	NumEntries int          `json:"num_entries" yaml:"num_entries"`
	Classes    ClassSummary `json:"classes" yaml:"classes"`
}

// ArchiveReport is the full analysis report of one archive.
type ArchiveReport struct {
	Path           string                `json:"path" yaml:"path"`
	Name           string                `json:"name" yaml:"name"`
	FileHash       string                `json:"file_hash,omitempty" yaml:"file_hash,omitempty"`
	BytecodeHash   string                `json:"bytecode_hash,omitempty" yaml:"bytecode_hash,omitempty"`
	Sealed         bool                  `json:"sealed" yaml:"sealed"`
	MultiRelease   bool                  `json:"multi_release" yaml:"multi_release"`
	NumEntries     int                   `json:"num_entries" yaml:"num_entries"`
	NumRootEntries int                   `json:"num_root_entries" yaml:"num_root_entries"`
	Classes        ClassSummary          `json:"classes" yaml:"classes"`
	Runtimes       []RuntimeSummary      `json:"runtimes,omitempty" yaml:"runtimes,omitempty"`
	Identification *Identification       `json:"identification,omitempty" yaml:"identification,omitempty"`
	Imports        *filter.ImportSummary `json:"imports,omitempty" yaml:"imports,omitempty"`
	AnalyzedAt     time.Time             `json:"analyzed_at" yaml:"analyzed_at"`
}

// JDKRevision returns the revision of the root classes, or "unknown".
func (r *ArchiveReport) JDKRevision() string {
	if r.Classes.JDKRevision == "" {
		return "unknown"
	}
	return r.Classes.JDKRevision
}

// RuntimeVersions returns the versions of the runtimes in report order.
func (r *ArchiveReport) RuntimeVersions() []int {
	versions := make([]int, 0, len(r.Runtimes))
	for _, rt := range r.Runtimes {
		versions = append(versions, rt.Version)
	}
	return versions
}
