package model

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestFormatSeconds(t *testing.T) {
	cases := []struct {
		seconds int64
		want    string
	}{
		{0, "0h"},
		{-120, "0h"},
		{45, "45s"},
		{2700, "45m"},
		{3600, "1h"},
		{12600, "3h 30m"},
		{28800, "8h"},
		{10800, "3h"},
	}

	for _, tc := range cases {
		if got := FormatSeconds(tc.seconds); got != tc.want {
			t.Errorf("FormatSeconds(%d) = %q, esperava %q", tc.seconds, got, tc.want)
		}
	}
}

func TestFormatHours(t *testing.T) {
	cases := []struct {
		seconds int64
		want    string
	}{
		{0, "0h"},
		{-10, "0h"},
		{3600, "1.00h"},
		{45000, "12.50h"},
	}

	for _, tc := range cases {
		if got := FormatHours(tc.seconds); got != tc.want {
			t.Errorf("FormatHours(%d) = %q, esperava %q", tc.seconds, got, tc.want)
		}
	}
}

// Property: formatted durations never carry a sign, for any input
func TestFormatSecondsNeverNegative(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("formatted duration has no sign", prop.ForAll(
		func(seconds int64) bool {
			formatted := FormatSeconds(seconds)
			return !strings.Contains(formatted, "-") && formatted != ""
		},
		gen.Int64(),
	))

	properties.Property("non-empty for any non-negative duration", prop.ForAll(
		func(seconds int64) bool {
			return FormatSeconds(seconds) != ""
		},
		gen.Int64Range(0, 1<<40),
	))

	properties.TestingRun(t)
}
