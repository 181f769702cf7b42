package check

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumVersion(t *testing.T) {
	tests := []struct {
		version string
		want    int
	}{
		{"1.37", 10037},
		{"2.0", 20000},
		{"0.1", 1},
		{"10.125", 100125},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			got, err := NumVersion(tt.version)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNumVersion_Ordering(t *testing.T) {
	// 2.0 must outrank 1.9999 but not 1.10000-style inputs, which the
	// MAJOR*10000+MINOR encoding cannot represent anyway.
	older, err := NumVersion("1.9999")
	require.NoError(t, err)
	newer, err := NumVersion("2.0")
	require.NoError(t, err)
	assert.Greater(t, newer, older)
}

func TestNumVersion_Malformed(t *testing.T) {
	for _, version := range []string{"", "1", "1.2.3", "v1.2", "1.2-3", "one.two", "1.-2", ".5", "5."} {
		t.Run(fmt.Sprintf("%q", version), func(t *testing.T) {
			_, err := NumVersion(version)
			assert.Error(t, err)
		})
	}
}

func TestCompareAge(t *testing.T) {
	released := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	const warning, critical = 3, 8

	tests := []struct {
		name      string
		installed string
		official  string
		now       time.Time
		wantSev   Severity
		wantMsg   string
	}{
		{
			name:      "installed newer than official",
			installed: "1.38",
			official:  "1.37",
			now:       released.Add(30 * 24 * time.Hour),
			wantSev:   OK,
			wantMsg:   "newer than official release",
		},
		{
			name:      "past critical threshold",
			installed: "1.37",
			official:  "1.40",
			now:       released.Add(10 * 24 * time.Hour),
			wantSev:   Critical,
			wantMsg:   "10.00 days old",
		},
		{
			name:      "exactly critical threshold",
			installed: "1.37",
			official:  "1.40",
			now:       released.Add(8 * 24 * time.Hour),
			wantSev:   Critical,
			wantMsg:   "8.00 days old",
		},
		{
			name:      "past warning threshold",
			installed: "1.37",
			official:  "1.40",
			now:       released.Add(5 * 24 * time.Hour),
			wantSev:   Warning,
			wantMsg:   "5.00 days old",
		},
		{
			name:      "fractional age",
			installed: "1.37",
			official:  "1.40",
			now:       released.Add(10*24*time.Hour + 6*time.Hour),
			wantSev:   Critical,
			wantMsg:   "10.25 days old",
		},
		{
			name:      "within grace period",
			installed: "1.37",
			official:  "1.40",
			now:       released.Add(2 * 24 * time.Hour),
			wantSev:   OK,
			wantMsg:   "within grace period (2.00 days)",
		},
		{
			name:      "release still in the future",
			installed: "1.37",
			official:  "1.40",
			now:       released.Add(-3 * 24 * time.Hour),
			wantSev:   OK,
			wantMsg:   "releases in 3.00 days",
		},
		{
			name:      "malformed installed version",
			installed: "1.37.2",
			official:  "1.40",
			now:       released,
			wantSev:   Unknown,
			wantMsg:   "installed version",
		},
		{
			name:      "malformed official version",
			installed: "1.37",
			official:  "current",
			now:       released,
			wantSev:   Unknown,
			wantMsg:   "official version",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := CompareAge(tt.installed, tt.official, released, tt.now, warning, critical)
			assert.Equal(t, tt.wantSev, v.Severity)
			assert.Contains(t, v.Message, tt.wantMsg)
		})
	}
}

func TestCompareAge_MonotonicInAge(t *testing.T) {
	released := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)

	ages := []time.Duration{
		12 * time.Hour,
		24 * time.Hour,
		69 * time.Hour, // 2.88 days
		72 * time.Hour, // warning threshold
		100 * time.Hour,
		191 * time.Hour, // 7.96 days
		192 * time.Hour, // critical threshold
		500 * time.Hour,
	}

	prev := -1
	for _, age := range ages {
		v := CompareAge("1.37", "1.40", released, released.Add(age), 3, 8)
		rank := severityRank[v.Severity]
		assert.GreaterOrEqual(t, rank, prev, "severity regressed at age %s", age)
		prev = rank
	}
}
