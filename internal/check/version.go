package check

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"time"
)

var versionRE = regexp.MustCompile(`^(\d+)\.(\d+)$`)

// NumVersion reduces a MAJOR.MINOR version string to a single comparable
// number, MAJOR*10000 + MINOR.
func NumVersion(version string) (int, error) {
	m := versionRE.FindStringSubmatch(version)
	if m == nil {
		return 0, fmt.Errorf("version %q not in MAJOR.MINOR form", version)
	}

	major, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, fmt.Errorf("version %q not in MAJOR.MINOR form", version)
	}
	minor, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, fmt.Errorf("version %q not in MAJOR.MINOR form", version)
	}

	return major*10000 + minor, nil
}

// CompareAge classifies how far behind the official release an installed
// distribution version is. An install newer than the official release is
// fine. Otherwise the release age decides: past the critical threshold
// the install is flagged CRITICAL, past the warning threshold WARNING,
// and inside the grace window (or before the official release date) the
// lag is acceptable.
func CompareAge(installed, official string, released, now time.Time, warningDays, criticalDays int) Verdict {
	installedNum, err := NumVersion(installed)
	if err != nil {
		return Verdict{
			Severity: Unknown,
			Message:  fmt.Sprintf("cannot parse installed version %q", installed),
		}
	}
	officialNum, err := NumVersion(official)
	if err != nil {
		return Verdict{
			Severity: Unknown,
			Message:  fmt.Sprintf("cannot parse official version %q", official),
		}
	}

	if installedNum > officialNum {
		return Verdict{
			Severity: OK,
			Message:  fmt.Sprintf("installed version %s is newer than official release %s", installed, official),
		}
	}

	// Age at two-decimal precision, thresholds included.
	ageDays := math.Round(now.Sub(released).Seconds()/86400*100) / 100

	switch {
	case ageDays >= float64(criticalDays):
		return Verdict{
			Severity: Critical,
			Message:  fmt.Sprintf("installed version %s is outdated: official release %s is %.2f days old", installed, official, ageDays),
		}
	case ageDays >= float64(warningDays):
		return Verdict{
			Severity: Warning,
			Message:  fmt.Sprintf("installed version %s is outdated: official release %s is %.2f days old", installed, official, ageDays),
		}
	case ageDays > 0:
		return Verdict{
			Severity: OK,
			Message:  fmt.Sprintf("installed version %s differs from official release %s, still within grace period (%.2f days)", installed, official, ageDays),
		}
	default:
		return Verdict{
			Severity: OK,
			Message:  fmt.Sprintf("new version %s releases in %.2f days", official, -ageDays),
		}
	}
}
