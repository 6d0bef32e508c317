package emg

import "fmt"

// ParameterError reports an out-of-range or mutually inconsistent
// configuration value. It is fatal for the affected unit and never retried.
type ParameterError struct {
	Op     string // operation rejecting the value, e.g. "notch"
	Param  string // parameter name
	Detail string // requirement and offending value
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("%s: %s %s", e.Op, e.Param, e.Detail)
}

// Parameterf builds a ParameterError with a formatted detail message.
func Parameterf(op, param, format string, args ...any) *ParameterError {
	return &ParameterError{Op: op, Param: param, Detail: fmt.Sprintf(format, args...)}
}

// InsufficientDataError reports that too few valid points remain to satisfy
// an operation's mathematical preconditions. The affected channel or file is
// skipped; the batch continues.
type InsufficientDataError struct {
	Op   string
	Need int
	Have int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%s: need at least %d valid points, have %d", e.Op, e.Need, e.Have)
}

// MissingColumnError reports a requested channel absent from a table.
// It is fatal for that file only.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("column %q not found", e.Column)
}

// Warning is a non-fatal condition surfaced during processing. Warnings are
// collected alongside results and never abort a pipeline.
type Warning struct {
	Op  string
	Msg string
}

func (w Warning) String() string {
	return w.Op + ": " + w.Msg
}

// Warningf builds a Warning with a formatted message.
func Warningf(op, format string, args ...any) Warning {
	return Warning{Op: op, Msg: fmt.Sprintf(format, args...)}
}
