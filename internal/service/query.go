package service

import (
	"context"
	"os"

	"github.com/jar-analysis/internal/analyzer"
	"github.com/jar-analysis/internal/classes"
	apperrors "github.com/jar-analysis/pkg/errors"
	"github.com/jar-analysis/pkg/model"
)

// BestFitResult answers which versioned runtime a JVM release would load.
type BestFitResult struct {
	Path         string
	Release      string
	MultiRelease bool
	// Runtime is nil when the root content applies.
	Runtime *model.RuntimeSummary
}

// BestFit opens the jar at path and resolves release against its versioned
// runtimes. An empty release is read from the environment variable named by
// analysis.runtime_env; analysis.default_release is used only when that
// variable is not set at all. With neither, the lookup fails with
// INVALID_ARGUMENT.
func (s *Service) BestFit(ctx context.Context, path, release string) (*BestFitResult, error) {
	if release != "" {
		return s.bestFit(ctx, path, release, func(rts *classes.VersionedRuntimes) (*classes.VersionedRuntime, bool, error) {
			return rts.BestFitFor(release)
		})
	}

	key := s.config.Analysis.RuntimeEnv
	if _, set := os.LookupEnv(key); key != "" && set {
		return s.BestFitFromEnv(ctx, path, key)
	}
	if d := s.config.Analysis.DefaultRelease; d != "" {
		return s.BestFit(ctx, path, d)
	}
	return s.BestFitFromEnv(ctx, path, key)
}

// BestFitFromEnv resolves the release held by the environment variable key.
// An empty key, or a variable that is unset, empty or not an integer, fails
// with INVALID_ARGUMENT; no default applies.
func (s *Service) BestFitFromEnv(ctx context.Context, path, key string) (*BestFitResult, error) {
	return s.bestFit(ctx, path, os.Getenv(key), func(rts *classes.VersionedRuntimes) (*classes.VersionedRuntime, bool, error) {
		return rts.BestFitFromEnv(key)
	})
}

type runtimeLookup func(*classes.VersionedRuntimes) (*classes.VersionedRuntime, bool, error)

func (s *Service) bestFit(ctx context.Context, path, release string, lookup runtimeLookup) (*BestFitResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	archive, err := analyzer.OpenArchive(path)
	if err != nil {
		return nil, err
	}
	defer archive.Close()

	result := s.analyzer.Analyze(archive)

	// A nil index is valid here: the lookup still validates its argument
	// and then reports no runtime.
	rt, ok, err := lookup(result.Runtimes)
	if err != nil {
		return nil, err
	}

	out := &BestFitResult{Path: path, Release: release, MultiRelease: result.MultiRelease()}
	if ok {
		out.Runtime = summarizeRuntime(rt)
	}
	return out, nil
}

func summarizeRuntime(rt *classes.VersionedRuntime) *model.RuntimeSummary {
	return &model.RuntimeSummary{
		Version:    rt.Version,
		NumEntries: len(rt.Entries),
		Classes:    summarizeClasses(rt.Classes),
	}
}

// History returns the most recent reports from the repository.
func (s *Service) History(ctx context.Context, limit int) ([]*model.ArchiveReport, error) {
	if s.reports == nil {
		return nil, apperrors.New(apperrors.CodeConfigError, "report history requires a database")
	}
	return s.reports.List(ctx, limit)
}

// Report returns the stored report of one archive path.
func (s *Service) Report(ctx context.Context, path string) (*model.ArchiveReport, error) {
	if s.reports == nil {
		return nil, apperrors.New(apperrors.CodeConfigError, "report history requires a database")
	}
	return s.reports.GetByPath(ctx, path)
}
