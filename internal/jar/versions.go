package jar

import (
	"regexp"
	"sort"
	"strconv"
)

// RootVersion is the bucket of entries outside META-INF/versions/N/.
const RootVersion = 0

// versionedEntryPattern is the multi-release layout: META-INF/versions/N/...
// with N a positive decimal without leading zeros.
var versionedEntryPattern = regexp.MustCompile(`^META-INF/versions/([1-9][0-9]*)/.*$`)

// EntryVersion returns the runtime version an entry name is scoped to, or
// RootVersion. A version too large for an int is treated as root content.
func EntryVersion(name string) int {
	m := versionedEntryPattern.FindStringSubmatch(name)
	if m == nil {
		return RootVersion
	}
	v, err := strconv.Atoi(m[1])
	if err != nil {
		return RootVersion
	}
	return v
}

// Classify buckets entries by EntryVersion. Every entry lands in exactly
// one bucket and buckets keep the input order.
func Classify(entries []Entry) map[int][]Entry {
	buckets := make(map[int][]Entry)
	for _, e := range entries {
		v := EntryVersion(e.Name)
		buckets[v] = append(buckets[v], e)
	}
	return buckets
}

// SortedVersions returns the bucket keys in ascending order.
func SortedVersions(buckets map[int][]Entry) []int {
	keys := make([]int, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
