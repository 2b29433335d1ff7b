package jdk

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassVersion_Label(t *testing.T) {
	tests := []struct {
		version  ClassVersion
		expected string
		known    bool
	}{
		{ClassVersion{Major: 45, Minor: 3}, "1.1", true},
		{ClassVersion{Major: 46}, "1.2", true},
		{ClassVersion{Major: 47}, "1.3", true},
		{ClassVersion{Major: 48}, "1.4", true},
		{ClassVersion{Major: 49}, "1.5", true},
		{ClassVersion{Major: 50}, "1.6", true},
		{ClassVersion{Major: 51}, "1.7", true},
		{ClassVersion{Major: 52}, "1.8", true},
		{ClassVersion{Major: 53}, "9", true},
		{ClassVersion{Major: 54}, "10", true},
		{ClassVersion{Major: 55}, "11", true},
		{ClassVersion{Major: 61}, "17", true},
		{ClassVersion{Major: 65}, "21", true},
		{ClassVersion{Major: 69}, "25", true},
		{ClassVersion{Major: 45}, "", false},
		{ClassVersion{Major: 70}, "", false},
		{ClassVersion{Major: 61, Minor: 65535}, "", false},
		{ClassVersion{}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.version.String(), func(t *testing.T) {
			got, ok := tt.version.Label()
			assert.Equal(t, tt.known, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestLabel_EveryMajorBetween46And69(t *testing.T) {
	for major := uint16(46); major <= 69; major++ {
		_, ok := Label(float64(major))
		assert.True(t, ok, "major %d should be known", major)
	}
	assert.Len(t, Known(), 25)
}

func TestLabel_Number(t *testing.T) {
	tests := []struct {
		number   float64
		expected string
		known    bool
	}{
		{45.3, "1.1", true},
		{52, "1.8", true},
		{52.0, "1.8", true},
		{53, "9", true},
		{52.5, "", false},
		{45.25, "", false},
		{-1, "", false},
		{math.NaN(), "", false},
		{math.Inf(1), "", false},
	}

	for _, tt := range tests {
		got, ok := Label(tt.number)
		assert.Equal(t, tt.known, ok, "number %v", tt.number)
		assert.Equal(t, tt.expected, got, "number %v", tt.number)
	}
}

func TestClassVersion_NumberAndOrdering(t *testing.T) {
	assert.InDelta(t, 45.3, ClassVersion{Major: 45, Minor: 3}.Number(), 1e-9)
	assert.Equal(t, 52.0, ClassVersion{Major: 52}.Number())

	assert.True(t, ClassVersion{Major: 45, Minor: 3}.Less(ClassVersion{Major: 46}))
	assert.True(t, ClassVersion{Major: 52}.Less(ClassVersion{Major: 52, Minor: 1}))
	assert.False(t, ClassVersion{Major: 55}.Less(ClassVersion{Major: 53}))
	assert.True(t, ClassVersion{}.IsZero())
}
