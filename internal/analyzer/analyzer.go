// Package analyzer runs class analysis over whole archives, splitting
// multi-release jars into their root content and versioned runtimes.
package analyzer

import (
	"github.com/jar-analysis/internal/classes"
	"github.com/jar-analysis/internal/jar"
	"github.com/jar-analysis/pkg/utils"
)

// Result is the analysis of one archive.
type Result struct {
	// RootClasses covers the classes outside META-INF/versions/N/.
	RootClasses *classes.ClassSet
	// RootEntries are the entries outside META-INF/versions/N/.
	RootEntries []jar.Entry
	// NumEntries counts every entry of the archive.
	NumEntries int
	// Runtimes indexes the versioned content. It is nil unless the archive
	// is multi-release.
	Runtimes *classes.VersionedRuntimes
}

// MultiRelease reports whether the result carries a runtime index.
func (r *Result) MultiRelease() bool {
	return r.Runtimes != nil
}

// Config holds configuration for the Analyzer.
type Config struct {
	// Logger receives warnings for skipped classes. If nil, they are dropped.
	Logger utils.Logger
}

// DefaultConfig returns default configuration.
func DefaultConfig() *Config {
	return &Config{Logger: &utils.NullLogger{}}
}

// Analyzer computes archive results.
type Analyzer struct {
	config *Config
}

// New creates an Analyzer.
func New(config *Config) *Analyzer {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Logger == nil {
		config.Logger = &utils.NullLogger{}
	}
	return &Analyzer{config: config}
}

// Analyze returns the archive's result, computing and attaching it on the
// first call. Later calls return the attached result without reading any
// entry again. Unreadable or malformed classes are skipped, so analysis
// itself never fails.
func (a *Analyzer) Analyze(archive *Archive) *Result {
	archive.mu.Lock()
	defer archive.mu.Unlock()

	if archive.result != nil {
		return archive.result
	}

	logger := a.config.Logger.WithField("archive", archive.BaseName())
	logger.Debug("analyzing %s (multi-release=%t)", archive.Name(), archive.MultiRelease())

	if archive.MultiRelease() {
		archive.result = a.analyzeMultiRelease(archive)
	} else {
		archive.result = a.analyzeRoot(archive)
	}

	logger.Debug("analyzed %d entries, %d root classes, %d versioned runtimes",
		archive.result.NumEntries, archive.result.RootClasses.Len(), archive.result.Runtimes.Len())
	return archive.result
}

func (a *Analyzer) aggregator(archive *Archive) *classes.Aggregator {
	return classes.NewAggregator(archive.Reader(),
		classes.WithLogger(a.config.Logger),
		classes.WithArchiveName(archive.BaseName()),
	)
}

func (a *Analyzer) analyzeRoot(archive *Archive) *Result {
	entries := archive.Entries()
	root := jar.Classify(entries)[jar.RootVersion]

	return &Result{
		RootClasses: a.aggregator(archive).Aggregate(root),
		RootEntries: root,
		NumEntries:  len(entries),
	}
}

func (a *Analyzer) analyzeMultiRelease(archive *Archive) *Result {
	entries := archive.Entries()
	buckets := jar.Classify(entries)
	agg := a.aggregator(archive)

	root := buckets[jar.RootVersion]
	delete(buckets, jar.RootVersion)

	return &Result{
		RootClasses: agg.Aggregate(root),
		RootEntries: root,
		NumEntries:  len(entries),
		Runtimes:    agg.AggregateRuntimes(buckets),
	}
}
