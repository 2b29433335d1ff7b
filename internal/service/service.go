// Package service turns archives into reports: it runs the analyzer and
// identification, then writes, uploads and records the result.
package service

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/jar-analysis/internal/analyzer"
	"github.com/jar-analysis/internal/classes"
	"github.com/jar-analysis/internal/identification"
	"github.com/jar-analysis/internal/repository"
	"github.com/jar-analysis/internal/storage"
	"github.com/jar-analysis/pkg/config"
	apperrors "github.com/jar-analysis/pkg/errors"
	"github.com/jar-analysis/pkg/filter"
	"github.com/jar-analysis/pkg/model"
	"github.com/jar-analysis/pkg/telemetry"
	"github.com/jar-analysis/pkg/utils"
	"github.com/jar-analysis/pkg/writer"
)

// Service is the main application service.
type Service struct {
	config     *config.Config
	logger     utils.Logger
	analyzer   *analyzer.Analyzer
	identifier *identification.Identifier
	reports    repository.ReportRepository
	storage    storage.Storage
	now        func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithRepository records every report in repo.
func WithRepository(repo repository.ReportRepository) Option {
	return func(s *Service) {
		s.reports = repo
	}
}

// WithStorage enables AnalyzeStored and uploads every report to store.
func WithStorage(store storage.Storage) Option {
	return func(s *Service) {
		s.storage = store
	}
}

// WithClock overrides the time source used for AnalyzedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// New creates a new Service instance.
func New(cfg *config.Config, logger utils.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = utils.NewDefaultLogger(utils.LevelInfo, nil)
	}

	a := analyzer.New(&analyzer.Config{Logger: logger})
	s := &Service{
		config:     cfg,
		logger:     logger,
		analyzer:   a,
		identifier: identification.NewIdentifier(a, logger),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AnalyzeFile analyzes the jar at path and publishes its report under the
// jar's file name.
func (s *Service) AnalyzeFile(ctx context.Context, path string) (*model.ArchiveReport, error) {
	return s.analyzeNamed(ctx, path, filepath.Base(path))
}

// analyzeNamed analyzes the jar at path and publishes its report as name,
// a slash-separated path below the output directory and report prefix.
func (s *Service) analyzeNamed(ctx context.Context, path, name string) (*model.ArchiveReport, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "service.AnalyzeFile",
		oteltrace.WithAttributes(
			attribute.String("archive.path", path),
			attribute.String("report.name", name),
		))
	defer span.End()

	report, err := s.analyzeFile(ctx, path, path, name)
	telemetry.RecordError(span, err)
	return report, err
}

func (s *Service) analyzeFile(ctx context.Context, path, reportPath, name string) (*model.ArchiveReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	archive, err := analyzer.OpenArchive(path)
	if err != nil {
		return nil, err
	}
	defer archive.Close()

	report, err := s.BuildReport(ctx, archive)
	if err != nil {
		return nil, err
	}
	report.Path = reportPath

	if err := s.publish(ctx, report, name); err != nil {
		return nil, err
	}
	return report, nil
}

// AnalyzeStored downloads the archive stored under key into the data
// directory, analyzes it and publishes the report under the archive key.
// The report is named by the key below the archive prefix, so
// "archives/team/app.jar" reports to "reports/team/app.jar.<ext>".
func (s *Service) AnalyzeStored(ctx context.Context, key string) (*model.ArchiveReport, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "service.AnalyzeStored",
		oteltrace.WithAttributes(attribute.String("archive.key", key)))
	defer span.End()

	report, err := s.analyzeStored(ctx, key)
	telemetry.RecordError(span, err)
	return report, err
}

func (s *Service) analyzeStored(ctx context.Context, key string) (*model.ArchiveReport, error) {
	if s.storage == nil {
		return nil, apperrors.New(apperrors.CodeConfigError, "storage is not configured")
	}

	dataDir := s.config.Analysis.DataDir
	if dataDir == "" {
		dataDir = os.TempDir()
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorageError, "failed to create data directory", err)
	}

	workDir, err := os.MkdirTemp(dataDir, "archive-")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorageError, "failed to create work directory", err)
	}
	defer func() {
		if err := os.RemoveAll(workDir); err != nil {
			s.logger.Warn("Failed to clean up %s: %v", workDir, err)
		}
	}()

	archiveKey := storage.ArchiveKey(key)
	localPath := filepath.Join(workDir, filepath.Base(archiveKey))
	if err := s.storage.DownloadFile(ctx, archiveKey, localPath); err != nil {
		return nil, err
	}

	name := strings.TrimPrefix(archiveKey, storage.ArchivePrefix)
	return s.analyzeFile(ctx, localPath, archiveKey, name)
}

// BuildReport analyzes archive and summarizes it. The archive's memoized
// result is reused when it was already analyzed.
func (s *Service) BuildReport(ctx context.Context, archive *analyzer.Archive) (*model.ArchiveReport, error) {
	_, span := telemetry.Tracer().Start(ctx, "service.BuildReport",
		oteltrace.WithAttributes(attribute.String("archive.name", archive.BaseName())))
	defer span.End()

	result := s.analyzer.Analyze(archive)

	report := &model.ArchiveReport{
		Path:           archive.Name(),
		Name:           archive.BaseName(),
		Sealed:         archive.Sealed(),
		MultiRelease:   result.MultiRelease(),
		NumEntries:     result.NumEntries,
		NumRootEntries: len(result.RootEntries),
		Classes:        summarizeClasses(result.RootClasses),
		AnalyzedAt:     s.now().UTC(),
	}

	for _, rt := range result.Runtimes.All() {
		report.Runtimes = append(report.Runtimes, *summarizeRuntime(rt))
	}

	if s.config.Analysis.Identify {
		report.Identification = s.identifier.Identify(archive)
	}

	if s.config.Analysis.Hashes {
		var err error
		if report.FileHash, err = identification.FileHash(archive); err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
		if report.BytecodeHash, err = identification.BytecodeHash(archive); err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
	}

	if result.RootClasses != nil {
		imports := filter.NewImportFilter()
		imports.AddOwnPackages(result.RootClasses.Packages)
		report.Imports = imports.Summarize(result.RootClasses.Imports)
	}

	span.SetAttributes(
		attribute.Bool("archive.multi_release", report.MultiRelease),
		attribute.Int("archive.entries", report.NumEntries),
		attribute.Int("archive.classes", report.Classes.NumClasses),
		attribute.String("archive.jdk_revision", report.JDKRevision()),
	)
	return report, nil
}

func summarizeClasses(set *classes.ClassSet) model.ClassSummary {
	if set == nil {
		return model.ClassSummary{}
	}

	summary := model.ClassSummary{
		NumClasses:   len(set.ClassNames),
		NumPackages:  len(set.Packages),
		NumMethods:   len(set.Methods),
		NumImports:   len(set.Imports),
		Packages:     set.Packages,
		DebugPresent: set.DebugPresent,
		JDKRevision:  set.JDKRevision,
	}
	if set.Version != nil {
		summary.ClassVersion = set.Version.String()
	}
	return summary
}

// publish writes the report to the output directory, uploads it and records
// it, each only when configured. name places the report file and object.
func (s *Service) publish(ctx context.Context, report *model.ArchiveReport, name string) error {
	format := s.config.Output.ReportFormat()
	w := writer.ForFormat[*model.ArchiveReport](format, s.config.Output.Pretty)
	logger := s.logger.WithField("archive", report.Name)

	name = storage.ReportName(filepath.ToSlash(name))

	if dir := s.config.Output.Dir; dir != "" {
		path := filepath.Join(dir, filepath.FromSlash(name)+"."+format.Extension())
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return apperrors.Wrap(apperrors.CodeStorageError, "failed to create output directory", err)
		}
		if err := w.WriteToFile(report, path); err != nil {
			return apperrors.Wrap(apperrors.CodeStorageError, "failed to write report", err)
		}
		logger.Debug("Report written to %s", path)
	}

	if s.storage != nil {
		var buf bytes.Buffer
		if err := w.Write(report, &buf); err != nil {
			return apperrors.Wrap(apperrors.CodeStorageError, "failed to encode report", err)
		}
		key := storage.ReportKey(name, format)
		if err := s.storage.Upload(ctx, key, &buf); err != nil {
			return err
		}
		logger.Debug("Report uploaded to %s", s.storage.GetURL(key))
	}

	if s.reports != nil {
		if err := s.reports.Save(ctx, report); err != nil {
			return err
		}
	}

	logger.Info("Analyzed %d entries, %d root classes, revision %s",
		report.NumEntries, report.Classes.NumClasses, report.JDKRevision())
	return nil
}
