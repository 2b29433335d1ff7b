package identification

import (
	"bufio"
	"regexp"
	"sort"
	"strings"

	"github.com/jar-analysis/internal/analyzer"
	"github.com/jar-analysis/internal/jar"
	"github.com/jar-analysis/pkg/model"
	"github.com/jar-analysis/pkg/utils"
)

// ClassesExposer offers every root package as a group id.
type ClassesExposer struct {
	analyzer *analyzer.Analyzer
}

// NewClassesExposer creates a ClassesExposer sharing a's results.
func NewClassesExposer(a *analyzer.Analyzer) *ClassesExposer {
	if a == nil {
		a = analyzer.New(nil)
	}
	return &ClassesExposer{analyzer: a}
}

// Name implements Exposer.
func (e *ClassesExposer) Name() string { return "classes" }

// Expose implements Exposer.
func (e *ClassesExposer) Expose(id *model.Identification, archive *analyzer.Archive) {
	for _, pkg := range e.analyzer.Analyze(archive).RootClasses.Packages {
		id.AddGroupID(pkg)
	}
}

// ManifestExposer reads the implementation, specification and extension
// attributes of every manifest section.
type ManifestExposer struct{}

// Name implements Exposer.
func (e *ManifestExposer) Name() string { return "manifest" }

// Expose implements Exposer.
func (e *ManifestExposer) Expose(id *model.Identification, archive *analyzer.Archive) {
	for _, attrs := range archive.Manifest().Sections() {
		id.AddName(attrs.Get(jar.AttrImplementationTitle))
		id.AddVersion(attrs.Get(jar.AttrImplementationVersion))
		id.AddVendor(attrs.Get(jar.AttrImplementationVendor))

		id.AddName(attrs.Get(jar.AttrSpecificationTitle))
		id.AddVersion(attrs.Get(jar.AttrSpecificationVersion))
		id.AddVendor(attrs.Get(jar.AttrSpecificationVendor))

		id.AddGroupID(attrs.Get(jar.AttrExtensionName))
	}
}

// TimestampExposer offers the most common entry modification day, as
// yyyyMMdd, as a version. Ties go to the earliest day.
type TimestampExposer struct{}

// Name implements Exposer.
func (e *TimestampExposer) Name() string { return "timestamp" }

// Expose implements Exposer.
func (e *TimestampExposer) Expose(id *model.Identification, archive *analyzer.Archive) {
	counts := make(map[string]int)
	for _, entry := range archive.Entries() {
		if entry.Modified.IsZero() {
			continue
		}
		counts[entry.Modified.Format("20060102")]++
	}

	days := make([]string, 0, len(counts))
	for day := range counts {
		days = append(days, day)
	}
	sort.Strings(days)

	best, bestCount := "", 0
	for _, day := range days {
		if counts[day] > bestCount {
			best, bestCount = day, counts[day]
		}
	}
	id.AddVersion(best)
}

var versionFilePattern = regexp.MustCompile(`(?i)version`)

// TextFileExposer offers the first line of every non-class entry whose
// path mentions "version" as a version.
type TextFileExposer struct {
	logger utils.Logger
}

// NewTextFileExposer creates a TextFileExposer.
func NewTextFileExposer(logger utils.Logger) *TextFileExposer {
	if logger == nil {
		logger = &utils.NullLogger{}
	}
	return &TextFileExposer{logger: logger}
}

// Name implements Exposer.
func (e *TextFileExposer) Name() string { return "text-file" }

// Expose implements Exposer.
func (e *TextFileExposer) Expose(id *model.Identification, archive *analyzer.Archive) {
	for _, entry := range archive.Entries() {
		if entry.IsDir() || entry.IsClass() || !versionFilePattern.MatchString(entry.Name) {
			continue
		}
		line, err := firstLine(archive.Reader(), entry)
		if err != nil {
			e.logger.WithFields(map[string]interface{}{
				"archive": archive.BaseName(),
				"entry":   entry.Name,
			}).Warn("unable to read version file: %v", err)
			continue
		}
		e.logger.Debug("version hit %s: %q", entry.Name, line)
		id.AddVersion(line)
	}
}

func firstLine(r jar.Reader, entry jar.Entry) (string, error) {
	data, err := jar.ReadEntry(r, entry)
	if err != nil {
		return "", err
	}
	scanner := bufio.NewScanner(strings.NewReader(string(data)))
	if scanner.Scan() {
		return strings.TrimRight(scanner.Text(), "\r"), nil
	}
	return "", scanner.Err()
}
