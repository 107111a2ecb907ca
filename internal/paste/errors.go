package paste

import "fmt"

// ParamError reports a start, lines or ttl value that cannot be used.
type ParamError struct {
	Param  string
	Value  string
	Reason string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("invalid %s param: %q, %s", e.Param, e.Value, e.Reason)
}

// ReadError reports a failure to open or read an input source.
type ReadError struct {
	Source string
	Err    error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("unable to read %s: %v", e.Source, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}
