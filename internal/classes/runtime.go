package classes

import (
	"os"
	"sort"
	"strconv"

	"github.com/jar-analysis/internal/jar"
	apperrors "github.com/jar-analysis/pkg/errors"
)

// VersionedRuntime is one META-INF/versions/N bucket of a multi-release
// archive: the raw entries under that prefix and their class set.
type VersionedRuntime struct {
	Version int         `json:"version"`
	Entries []jar.Entry `json:"entries"`
	Classes *ClassSet   `json:"classes"`
}

// VersionedRuntimes indexes versioned runtimes by ascending version.
type VersionedRuntimes struct {
	runtimes []*VersionedRuntime
}

// NewVersionedRuntimes bulk-loads an index. Versions must be unique and at
// least 1; version 0 is root content and never indexed.
func NewVersionedRuntimes(runtimes []*VersionedRuntime) (*VersionedRuntimes, error) {
	sorted := make([]*VersionedRuntime, 0, len(runtimes))
	for _, rt := range runtimes {
		if rt == nil {
			return nil, apperrors.New(apperrors.CodeInvalidArgument, "nil versioned runtime")
		}
		if rt.Version < 1 {
			return nil, apperrors.Newf(apperrors.CodeInvalidArgument, "runtime version must be positive, got %d", rt.Version)
		}
		sorted = append(sorted, rt)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Version < sorted[j].Version })

	for i := 1; i < len(sorted); i++ {
		if sorted[i].Version == sorted[i-1].Version {
			return nil, apperrors.Newf(apperrors.CodeInvalidArgument, "duplicate runtime version %d", sorted[i].Version)
		}
	}
	return &VersionedRuntimes{runtimes: sorted}, nil
}

// Len returns the number of indexed runtimes.
func (v *VersionedRuntimes) Len() int {
	if v == nil {
		return 0
	}
	return len(v.runtimes)
}

// Keys returns the indexed versions in ascending order.
func (v *VersionedRuntimes) Keys() []int {
	keys := make([]int, 0, v.Len())
	if v == nil {
		return keys
	}
	for _, rt := range v.runtimes {
		keys = append(keys, rt.Version)
	}
	return keys
}

// All returns the runtimes in ascending version order.
func (v *VersionedRuntimes) All() []*VersionedRuntime {
	if v == nil {
		return nil
	}
	out := make([]*VersionedRuntime, len(v.runtimes))
	copy(out, v.runtimes)
	return out
}

// Get returns the runtime stored under exactly version.
func (v *VersionedRuntimes) Get(version int) (*VersionedRuntime, bool) {
	if v == nil {
		return nil, false
	}
	i := sort.Search(len(v.runtimes), func(i int) bool { return v.runtimes[i].Version >= version })
	if i < len(v.runtimes) && v.runtimes[i].Version == version {
		return v.runtimes[i], true
	}
	return nil, false
}

// BestFit returns the runtime a JVM of the given release would load: the
// one with the greatest version not above release. It reports false when
// every indexed version is higher or the index is empty.
func (v *VersionedRuntimes) BestFit(release int) (*VersionedRuntime, bool) {
	if v == nil {
		return nil, false
	}
	// First index with a version above release; its predecessor is the floor.
	i := sort.Search(len(v.runtimes), func(i int) bool { return v.runtimes[i].Version > release })
	if i == 0 {
		return nil, false
	}
	return v.runtimes[i-1], true
}

// BestFitFor resolves release from its textual form, as found in
// configuration or the environment. An empty or non-integer release is an
// INVALID_ARGUMENT error. A release with no fitting runtime is not an error.
func (v *VersionedRuntimes) BestFitFor(release string) (*VersionedRuntime, bool, error) {
	if release == "" {
		return nil, false, apperrors.New(apperrors.CodeInvalidArgument, "release is required")
	}
	n, err := strconv.Atoi(release)
	if err != nil {
		return nil, false, apperrors.Wrap(apperrors.CodeInvalidArgument,
			"release "+strconv.Quote(release)+" cannot be converted to an integer", err)
	}
	rt, ok := v.BestFit(n)
	return rt, ok, nil
}

// BestFitFromEnv resolves the release from the environment variable key.
func (v *VersionedRuntimes) BestFitFromEnv(key string) (*VersionedRuntime, bool, error) {
	if key == "" {
		return nil, false, apperrors.New(apperrors.CodeInvalidArgument, "environment key is required")
	}
	value, ok := os.LookupEnv(key)
	if !ok {
		return nil, false, apperrors.Newf(apperrors.CodeInvalidArgument, "environment variable %s is not set", key)
	}
	if value == "" {
		return nil, false, apperrors.Newf(apperrors.CodeInvalidArgument, "environment variable %s is empty", key)
	}
	return v.BestFitFor(value)
}

// AggregateRuntimes aggregates every versioned bucket and indexes the
// results. The root bucket and any non-positive key are left out.
func (a *Aggregator) AggregateRuntimes(buckets map[int][]jar.Entry) *VersionedRuntimes {
	runtimes := make([]*VersionedRuntime, 0, len(buckets))
	for _, version := range jar.SortedVersions(buckets) {
		if version < 1 {
			continue
		}
		entries := buckets[version]
		runtimes = append(runtimes, &VersionedRuntime{
			Version: version,
			Entries: entries,
			Classes: a.Aggregate(entries),
		})
	}
	return &VersionedRuntimes{runtimes: runtimes}
}
