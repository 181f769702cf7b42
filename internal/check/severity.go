package check

import "fmt"

// Severity classifies the outcome of a probe run, following the
// monitoring plugin convention.
type Severity int

// Severity values double as process exit codes.
const (
	OK Severity = iota
	Warning
	Critical
	Unknown
)

// severityRank orders severities for worst-of combination. UNKNOWN ranks
// below CRITICAL: a confirmed fault on the trust store outweighs not
// being able to tell.
var severityRank = map[Severity]int{
	OK:       0,
	Warning:  1,
	Unknown:  2,
	Critical: 3,
}

func (s Severity) String() string {
	switch s {
	case OK:
		return "OK"
	case Warning:
		return "WARNING"
	case Critical:
		return "CRITICAL"
	case Unknown:
		return "UNKNOWN"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// ExitCode maps the severity to its plugin protocol exit code.
func (s Severity) ExitCode() int {
	return int(s)
}

// Worse reports whether s outranks other in the ordering
// OK < WARNING < UNKNOWN < CRITICAL.
func (s Severity) Worse(other Severity) bool {
	return severityRank[s] > severityRank[other]
}

// Verdict is the single result of a probe run.
type Verdict struct {
	Severity Severity
	Message  string
}

// Combine merges two verdicts: the worse severity wins and the messages
// are joined in evaluation order.
func (v Verdict) Combine(other Verdict) Verdict {
	sev := v.Severity
	if other.Severity.Worse(sev) {
		sev = other.Severity
	}

	msg := v.Message
	switch {
	case msg == "":
		msg = other.Message
	case other.Message != "":
		msg += "; " + other.Message
	}

	return Verdict{Severity: sev, Message: msg}
}
