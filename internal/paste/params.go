package paste

import (
	"math"
	"strconv"
	"strings"
)

// ParseWindow builds a Window from the textual start and lines values.
// An empty start means line 1 and empty lines means AllLines.
func ParseWindow(start, lines string) (Window, error) {
	w := FullWindow

	if s := strings.TrimSpace(start); s != "" {
		n, err := strconv.ParseUint(s, 10, strconv.IntSize-1)
		if err != nil {
			return Window{}, &ParamError{Param: "start", Value: start, Reason: "expected int"}
		}
		if n < 1 {
			return Window{}, &ParamError{Param: "start", Value: start, Reason: "must be at least 1"}
		}
		w.Start = int(n)
	}

	if s := strings.TrimSpace(lines); s != "" {
		n, err := strconv.ParseUint(s, 10, strconv.IntSize-1)
		if err != nil {
			return Window{}, &ParamError{Param: "lines", Value: lines, Reason: "expected int"}
		}
		w.Lines = int(n)
	}
	return w, nil
}

// ParseTTL parses a ttl in whole seconds. An empty value returns 0, meaning
// no expiry is requested.
func ParseTTL(value string) (uint32, error) {
	s := strings.TrimSpace(value)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, &ParamError{Param: "ttl-seconds", Value: value, Reason: "expected int between 1 and " + strconv.FormatUint(math.MaxUint32, 10)}
	}
	if n == 0 {
		return 0, &ParamError{Param: "ttl-seconds", Value: value, Reason: "must be at least 1"}
	}
	return uint32(n), nil
}
