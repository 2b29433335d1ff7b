package service

import (
	"context"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"

	apperrors "github.com/jar-analysis/pkg/errors"
	"github.com/jar-analysis/pkg/model"
	"github.com/jar-analysis/pkg/parallel"
	"github.com/jar-analysis/pkg/telemetry"
)

// BatchResult is the outcome for one archive of a batch.
type BatchResult struct {
	Path   string
	Report *model.ArchiveReport
	Err    error
}

// BatchSummary counts the outcomes of a batch.
type BatchSummary struct {
	Total     int           `json:"total"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Duration  time.Duration `json:"duration"`
}

// Summarize counts results.
func Summarize(results []BatchResult, duration time.Duration) BatchSummary {
	summary := BatchSummary{Total: len(results), Duration: duration}
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// AnalyzeBatch analyzes distinct archives concurrently with the configured
// number of workers. Results follow the order of paths; a failing archive
// does not stop the others. Each report is named by its archive's path
// relative to the deepest directory all paths share, so "a/lib.jar" and
// "b/lib.jar" publish separate reports. A path listed twice fails with
// INVALID_ARGUMENT after its first occurrence.
func (s *Service) AnalyzeBatch(ctx context.Context, paths []string) []BatchResult {
	ctx, span := telemetry.Tracer().Start(ctx, "service.AnalyzeBatch",
		oteltrace.WithAttributes(attribute.Int("batch.size", len(paths))))
	defer span.End()

	workers := s.config.Analysis.Workers
	if workers < 1 {
		workers = 1
	}

	names := ReportNames(paths)
	duplicates := make(map[int]error)
	seen := make(map[string]string, len(names))
	for i, name := range names {
		if first, ok := seen[name]; ok {
			duplicates[i] = apperrors.Newf(apperrors.CodeInvalidArgument,
				"%s has the same report name %q as %s", paths[i], name, first)
			continue
		}
		seen[name] = paths[i]
	}

	progress := parallel.NewProgressTracker(int64(len(paths)), func(completed, total int64) {
		s.logger.Info("Batch progress: %d/%d archives", completed, total)
	}, 5*time.Second)
	progress.Start(ctx)
	defer progress.Stop()

	indexes := make([]int, len(paths))
	for i := range indexes {
		indexes[i] = i
	}

	pool := parallel.NewWorkerPool[int, *model.ArchiveReport](parallel.PoolConfig{MaxWorkers: workers})
	results := pool.Execute(ctx, indexes, func(ctx context.Context, i int) (*model.ArchiveReport, error) {
		defer progress.Increment()
		if err := duplicates[i]; err != nil {
			s.logger.Warn("Skipping %s: %v", paths[i], err)
			return nil, err
		}
		report, err := s.analyzeNamed(ctx, paths[i], names[i])
		if err != nil {
			s.logger.Warn("Failed to analyze %s: %v", paths[i], err)
		}
		return report, err
	})

	out := make([]BatchResult, len(results))
	failed := 0
	for i, r := range results {
		out[i] = BatchResult{Path: paths[r.Input], Report: r.Result, Err: r.Error}
		if r.Error != nil {
			failed++
		}
	}
	span.SetAttributes(attribute.Int("batch.failed", failed))
	return out
}

// ReportNames returns the slash-separated report name of every path: the
// path relative to the deepest directory they all share. A single path, or
// paths in one directory, keep their file names.
func ReportNames(paths []string) []string {
	root := commonDir(paths)
	names := make([]string, len(paths))
	for i, p := range paths {
		rel, err := filepath.Rel(root, filepath.Clean(p))
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			rel = filepath.Base(p)
		}
		names[i] = filepath.ToSlash(rel)
	}
	return names
}

func commonDir(paths []string) string {
	if len(paths) == 0 {
		return "."
	}

	sep := string(filepath.Separator)
	common := strings.Split(filepath.Dir(filepath.Clean(paths[0])), sep)
	for _, p := range paths[1:] {
		parts := strings.Split(filepath.Dir(filepath.Clean(p)), sep)
		n := 0
		for n < len(common) && n < len(parts) && common[n] == parts[n] {
			n++
		}
		common = common[:n]
	}

	dir := strings.Join(common, sep)
	switch {
	case dir == "" && filepath.IsAbs(paths[0]):
		return sep
	case dir == "":
		return "."
	}
	return dir
}

// FindArchives returns the .jar files under root, sorted. With recursive
// false only root itself is scanned.
func FindArchives(root string, recursive bool) ([]string, error) {
	var paths []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && !recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".jar") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInvalidArgument, "failed to scan "+root, err)
	}

	sort.Strings(paths)
	return paths, nil
}
