package core

// Severity classifies the outcome of an execute, undo or redo.
type Severity int

const (
	StatusOK Severity = iota
	StatusInfo
	StatusWarning
	StatusError
	StatusCancel
)

func (s Severity) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusInfo:
		return "info"
	case StatusWarning:
		return "warning"
	case StatusError:
		return "error"
	case StatusCancel:
		return "cancel"
	}
	return "unknown"
}

// Status is the result wrapper returned by operation life-cycle calls.
// Cancellation is reported as a status, never as a control-flow unwind.
type Status struct {
	Severity Severity
	Message  string
	Err      error
}

// OKStatus is the shared all-good result.
var OKStatus = Status{Severity: StatusOK, Message: "ok"}

// invalidStatus is reported by composites that have been replaced and
// can no longer perform operations. Stale references fail soft.
var invalidStatus = Status{Severity: StatusError, Message: "operation invalid"}

// NewErrorStatus wraps a failure into a status.
func NewErrorStatus(message string, err error) Status {
	return Status{Severity: StatusError, Message: message, Err: err}
}

// NewCancelStatus reports a cooperative cancellation.
func NewCancelStatus(message string) Status {
	return Status{Severity: StatusCancel, Message: message}
}

// IsOK reports whether the status carries no failure or cancellation.
func (s Status) IsOK() bool {
	return s.Severity == StatusOK || s.Severity == StatusInfo || s.Severity == StatusWarning
}

// Progress is the advisory progress/cancellation handle passed to
// operations. Operations check cancellation when convenient and report
// it through a cancel status.
type Progress interface {
	Report(message string)
	IsCanceled() bool
}

type nopProgress struct{}

func (nopProgress) Report(string) {}

func (nopProgress) IsCanceled() bool { return false }

// NopProgress never cancels and discards reports.
var NopProgress Progress = nopProgress{}
