// Package jdk maps classfile format versions to the JDK release that introduced them.
package jdk

import (
	"fmt"
	"math"
)

// ClassVersion is the raw (major, minor) pair stored in a classfile header.
type ClassVersion struct {
	Major uint16 `json:"major"`
	Minor uint16 `json:"minor"`
}

// String renders the version as "major.minor".
func (v ClassVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// IsZero reports whether no version has been recorded.
func (v ClassVersion) IsZero() bool {
	return v.Major == 0 && v.Minor == 0
}

// Number returns major + minor/10, the minor part contributing only when non-zero.
func (v ClassVersion) Number() float64 {
	n := float64(v.Major)
	if v.Minor > 0 {
		n += float64(v.Minor) / 10.0
	}
	return n
}

// tenths is the lookup key: Number() scaled by ten. It orders exactly like
// Number() and avoids comparing floats for equality.
func (v ClassVersion) tenths() int {
	return int(v.Major)*10 + int(v.Minor)
}

// Less orders versions by Number().
func (v ClassVersion) Less(o ClassVersion) bool {
	return v.tenths() < o.tenths()
}

// Label returns the JDK revision label for the version, if known.
func (v ClassVersion) Label() (string, bool) {
	rev, ok := revisions[v.tenths()]
	return rev, ok
}

// revisions is keyed by (major + minor/10) * 10.
var revisions = map[int]string{
	690: "25",
	680: "24",
	670: "23",
	660: "22",
	650: "21",
	640: "20",
	630: "19",
	620: "18",
	610: "17",
	600: "16",
	590: "15",
	580: "14",
	570: "13",
	560: "12",
	550: "11",
	540: "10",
	530: "9",
	520: "1.8",
	510: "1.7",
	500: "1.6",
	490: "1.5",
	480: "1.4",
	470: "1.3",
	460: "1.2",
	453: "1.1",
}

// Label looks up a version number of the form major + minor/10 (45.3, 52, 61).
// Only exact matches resolve; anything else is reported as unknown.
func Label(number float64) (string, bool) {
	if math.IsNaN(number) || math.IsInf(number, 0) || number < 0 {
		return "", false
	}
	scaled := number * 10
	key := math.Round(scaled)
	if math.Abs(scaled-key) > 1e-6 {
		return "", false
	}
	rev, ok := revisions[int(key)]
	return rev, ok
}

// Known returns every known label in ascending version order.
func Known() []string {
	return []string{
		"1.1", "1.2", "1.3", "1.4", "1.5", "1.6", "1.7", "1.8",
		"9", "10", "11", "12", "13", "14", "15", "16", "17",
		"18", "19", "20", "21", "22", "23", "24", "25",
	}
}
