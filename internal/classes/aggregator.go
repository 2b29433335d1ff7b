package classes

import (
	"github.com/jar-analysis/internal/classfile"
	"github.com/jar-analysis/internal/jar"
	"github.com/jar-analysis/internal/jdk"
	"github.com/jar-analysis/pkg/utils"
)

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithLogger sets the logger used to report skipped entries.
func WithLogger(logger utils.Logger) Option {
	return func(a *Aggregator) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithArchiveName sets the archive name attached to log lines.
func WithArchiveName(name string) Option {
	return func(a *Aggregator) {
		a.archive = name
	}
}

// Aggregator probes the class entries of one bucket and merges the results.
type Aggregator struct {
	reader  jar.Reader
	logger  utils.Logger
	archive string
}

// NewAggregator creates an Aggregator reading entry content from reader.
func NewAggregator(reader jar.Reader, opts ...Option) *Aggregator {
	a := &Aggregator{
		reader: reader,
		logger: &utils.NullLogger{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Aggregate builds the ClassSet of entries. Entries that are not class files
// are ignored. Classes that cannot be read or parsed are logged and skipped.
//
// The revision is taken from the highest version among ordinary classes.
// A module descriptor only decides the revision when the bucket holds no
// ordinary class, since descriptors are always compiled for 9 or later.
func (a *Aggregator) Aggregate(entries []jar.Entry) *ClassSet {
	var (
		classNames = stringSet{}
		packages   = stringSet{}
		imports    = stringSet{}
		methods    = stringSet{}
		debug      bool

		maxVersion    jdk.ClassVersion
		sawOrdinary   bool
		moduleVersion *jdk.ClassVersion
	)

	for _, entry := range jar.ClassEntries(entries) {
		facts, ok := a.probe(entry)
		if !ok {
			continue
		}

		classNames.add(facts.ClassName)
		packages.add(facts.PackageName)
		imports.add(facts.Imports...)
		methods.add(facts.Methods...)
		debug = debug || facts.DebugPresent

		if facts.IsModuleDescriptor() {
			v := facts.Version
			moduleVersion = &v
			continue
		}
		if !sawOrdinary || maxVersion.Less(facts.Version) {
			maxVersion = facts.Version
		}
		sawOrdinary = true
	}

	set := &ClassSet{
		ClassNames:   classNames.sorted(),
		Packages:     packages.sorted(),
		Imports:      imports.sorted(),
		Methods:      methods.sorted(),
		DebugPresent: debug,
	}

	switch {
	case sawOrdinary:
		set.Version = &maxVersion
	case moduleVersion != nil:
		set.Version = moduleVersion
	}
	if set.Version != nil {
		if label, ok := set.Version.Label(); ok {
			set.JDKRevision = label
		} else {
			a.logger.Debug("no JDK revision known for class version %s in %s", set.Version, a.archive)
		}
	}
	return set
}

func (a *Aggregator) probe(entry jar.Entry) (*classfile.ClassFacts, bool) {
	data, err := jar.ReadEntry(a.reader, entry)
	if err != nil {
		a.logger.WithFields(map[string]interface{}{
			"archive": a.archive,
			"entry":   entry.Name,
		}).Warn("skipping unreadable class: %v", err)
		return nil, false
	}

	facts, err := classfile.Probe(data)
	if err != nil {
		a.logger.WithFields(map[string]interface{}{
			"archive": a.archive,
			"entry":   entry.Name,
		}).Warn("skipping malformed class: %v", err)
		return nil, false
	}
	return facts, true
}
