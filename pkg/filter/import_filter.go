// Package filter sorts referenced class names into platform, library and
// application categories for reporting.
package filter

import (
	"sort"
	"strings"
	"sync"
)

// ImportCategory represents where a referenced class comes from.
type ImportCategory int

const (
	// CategoryUnknown indicates the name could not be classified.
	CategoryUnknown ImportCategory = iota
	// CategoryPlatform indicates classes shipped with the Java platform.
	CategoryPlatform
	// CategoryLibrary indicates classes of widely used third-party libraries.
	CategoryLibrary
	// CategoryOwn indicates classes of the archive's own packages.
	CategoryOwn
	// CategoryThirdParty indicates any other external class.
	CategoryThirdParty
)

// String returns the string representation of the category.
func (c ImportCategory) String() string {
	switch c {
	case CategoryPlatform:
		return "platform"
	case CategoryLibrary:
		return "library"
	case CategoryOwn:
		return "own"
	case CategoryThirdParty:
		return "third-party"
	default:
		return "unknown"
	}
}

// ImportFilter classifies dotted class names by package prefix.
// It is safe for concurrent use.
type ImportFilter struct {
	mu sync.RWMutex

	platformPrefixes []string
	libraryPrefixes  []string
	ownPrefixes      []string

	categoryCache     map[string]ImportCategory
	categoryCacheSize int
}

// NewImportFilter creates a new ImportFilter with default rules.
func NewImportFilter() *ImportFilter {
	f := &ImportFilter{
		categoryCache:     make(map[string]ImportCategory),
		categoryCacheSize: 10000,
	}
	f.initDefaults()
	return f
}

func (f *ImportFilter) initDefaults() {
	f.platformPrefixes = []string{
		"java.",
		"javax.",
		"jdk.",
		"sun.",
		"com.sun.",
		"org.w3c.dom.",
		"org.xml.sax.",
		"org.ietf.jgss.",
		"org.omg.",
	}

	f.libraryPrefixes = []string{
		"org.apache.",
		"org.springframework.",
		"org.slf4j.",
		"ch.qos.logback.",
		"org.junit.",
		"junit.",
		"org.hamcrest.",
		"com.google.",
		"com.fasterxml.jackson.",
		"io.netty.",
		"net.bytebuddy.",
		"org.objectweb.asm.",
		"org.codehaus.",
		"org.eclipse.",
		"kotlin.",
		"scala.",
	}
}

// Classify returns the category of a dotted class name.
func (f *ImportFilter) Classify(className string) ImportCategory {
	if className == "" {
		return CategoryUnknown
	}

	f.mu.RLock()
	if cat, ok := f.categoryCache[className]; ok {
		f.mu.RUnlock()
		return cat
	}
	f.mu.RUnlock()

	cat := f.classifyUncached(className)

	f.mu.Lock()
	if len(f.categoryCache) < f.categoryCacheSize {
		f.categoryCache[className] = cat
	}
	f.mu.Unlock()

	return cat
}

func (f *ImportFilter) classifyUncached(className string) ImportCategory {
	f.mu.RLock()
	defer f.mu.RUnlock()

	// Own packages win so an archive that repackages a library is not
	// reported as depending on it.
	if hasAnyPrefix(className, f.ownPrefixes) {
		return CategoryOwn
	}
	if hasAnyPrefix(className, f.platformPrefixes) {
		return CategoryPlatform
	}
	if hasAnyPrefix(className, f.libraryPrefixes) {
		return CategoryLibrary
	}
	return CategoryThirdParty
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// AddOwnPackages marks classes in packages (and their subpackages) as own.
// The unnamed package is ignored.
func (f *ImportFilter) AddOwnPackages(packages []string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, pkg := range packages {
		if pkg == "" {
			continue
		}
		prefix := pkg + "."
		if !containsString(f.ownPrefixes, prefix) {
			f.ownPrefixes = append(f.ownPrefixes, prefix)
		}
	}
	f.categoryCache = make(map[string]ImportCategory)
}

// AddLibraryPrefix adds a custom library prefix.
func (f *ImportFilter) AddLibraryPrefix(prefix string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !containsString(f.libraryPrefixes, prefix) {
		f.libraryPrefixes = append(f.libraryPrefixes, prefix)
	}
	f.categoryCache = make(map[string]ImportCategory)
}

// AddPlatformPrefix adds a custom platform prefix.
func (f *ImportFilter) AddPlatformPrefix(prefix string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !containsString(f.platformPrefixes, prefix) {
		f.platformPrefixes = append(f.platformPrefixes, prefix)
	}
	f.categoryCache = make(map[string]ImportCategory)
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// ClearCache clears the classification cache.
func (f *ImportFilter) ClearCache() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.categoryCache = make(map[string]ImportCategory)
}

// CacheStats returns cache statistics.
func (f *ImportFilter) CacheStats() (size int, maxSize int) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return len(f.categoryCache), f.categoryCacheSize
}

// ImportSummary groups imports by category. Each list is sorted.
type ImportSummary struct {
	Platform   []string `json:"platform,omitempty" yaml:"platform,omitempty"`
	Library    []string `json:"library,omitempty" yaml:"library,omitempty"`
	Own        []string `json:"own,omitempty" yaml:"own,omitempty"`
	ThirdParty []string `json:"third_party,omitempty" yaml:"third_party,omitempty"`
}

// Summarize classifies every import.
func (f *ImportFilter) Summarize(imports []string) *ImportSummary {
	s := &ImportSummary{}
	for _, name := range imports {
		switch f.Classify(name) {
		case CategoryPlatform:
			s.Platform = append(s.Platform, name)
		case CategoryLibrary:
			s.Library = append(s.Library, name)
		case CategoryOwn:
			s.Own = append(s.Own, name)
		case CategoryThirdParty:
			s.ThirdParty = append(s.ThirdParty, name)
		}
	}
	for _, list := range [][]string{s.Platform, s.Library, s.Own, s.ThirdParty} {
		sort.Strings(list)
	}
	return s
}

// ExternalPackages returns the distinct packages of the non-platform,
// non-own imports of s, sorted.
func (s *ImportSummary) ExternalPackages() []string {
	seen := make(map[string]bool)
	var out []string
	for _, list := range [][]string{s.Library, s.ThirdParty} {
		for _, name := range list {
			idx := strings.LastIndexByte(name, '.')
			if idx <= 0 {
				continue
			}
			pkg := name[:idx]
			if !seen[pkg] {
				seen[pkg] = true
				out = append(out, pkg)
			}
		}
	}
	sort.Strings(out)
	return out
}
