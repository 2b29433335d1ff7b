// Package identification gathers hints about which artifact an archive is:
// candidate group ids, names, versions and vendors, plus content hashes.
package identification

import (
	"github.com/jar-analysis/internal/analyzer"
	"github.com/jar-analysis/pkg/model"
	"github.com/jar-analysis/pkg/utils"
)

// Exposer contributes candidates from one source of evidence.
type Exposer interface {
	Name() string
	Expose(id *model.Identification, archive *analyzer.Archive)
}

// Identifier runs a fixed list of exposers.
type Identifier struct {
	exposers []Exposer
	logger   utils.Logger
}

// NewIdentifier creates an Identifier with the default exposers: classes,
// manifest, timestamp and text file, in that order.
func NewIdentifier(a *analyzer.Analyzer, logger utils.Logger) *Identifier {
	if logger == nil {
		logger = &utils.NullLogger{}
	}
	return NewIdentifierWith(logger,
		NewClassesExposer(a),
		&ManifestExposer{},
		&TimestampExposer{},
		NewTextFileExposer(logger),
	)
}

// NewIdentifierWith creates an Identifier running exactly exposers.
func NewIdentifierWith(logger utils.Logger, exposers ...Exposer) *Identifier {
	if logger == nil {
		logger = &utils.NullLogger{}
	}
	return &Identifier{exposers: exposers, logger: logger}
}

// Identify runs every exposer against archive.
func (i *Identifier) Identify(archive *analyzer.Archive) *model.Identification {
	id := &model.Identification{}
	for _, e := range i.exposers {
		i.logger.Debug("running %s exposer on %s", e.Name(), archive.BaseName())
		e.Expose(id, archive)
	}
	return id
}
