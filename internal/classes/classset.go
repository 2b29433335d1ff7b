// Package classes aggregates per-class facts into per-bucket class sets and
// indexes the versioned runtimes of multi-release archives.
package classes

import (
	"sort"

	"github.com/jar-analysis/internal/jdk"
)

// ClassSet is the merged view of every class in one version bucket. All
// slices are sorted and free of duplicates. A ClassSet is not modified after
// Aggregate returns it.
type ClassSet struct {
	ClassNames   []string `json:"class_names"`
	Packages     []string `json:"packages"`
	Imports      []string `json:"imports"`
	Methods      []string `json:"methods"`
	DebugPresent bool     `json:"debug_present"`

	// Version is the classfile version the revision was resolved from; nil
	// when no class in the bucket could be parsed.
	Version     *jdk.ClassVersion `json:"version,omitempty"`
	JDKRevision string            `json:"jdk_revision,omitempty"`
}

// Revision returns the JDK revision label, if one was resolved.
func (s *ClassSet) Revision() (string, bool) {
	if s == nil || s.JDKRevision == "" {
		return "", false
	}
	return s.JDKRevision, true
}

// Len returns the number of distinct classes.
func (s *ClassSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.ClassNames)
}

// ContainsClass reports whether the dotted class name is part of the set.
func (s *ClassSet) ContainsClass(name string) bool {
	if s == nil {
		return false
	}
	i := sort.SearchStrings(s.ClassNames, name)
	return i < len(s.ClassNames) && s.ClassNames[i] == name
}

// stringSet collects unique strings and emits them sorted.
type stringSet map[string]struct{}

func (s stringSet) add(values ...string) {
	for _, v := range values {
		s[v] = struct{}{}
	}
}

func (s stringSet) sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
