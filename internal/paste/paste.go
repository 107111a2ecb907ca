package paste

import (
	"bufio"
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"
)

// AllLines as Window.Lines reads every line after Start.
const AllLines = -1

// Window selects a contiguous run of lines from a source.
type Window struct {
	// Start is the 1-based line to begin at.
	Start int
	// Lines is the maximum number of lines to read, or AllLines.
	Lines int
}

// FullWindow reads a whole source.
var FullWindow = Window{Start: 1, Lines: AllLines}

// Validate checks that the window can be applied.
func (w Window) Validate() error {
	if w.Start < 1 {
		return &ParamError{Param: "start", Value: strconv.Itoa(w.Start), Reason: "must be at least 1"}
	}
	if w.Lines < AllLines {
		return &ParamError{Param: "lines", Value: strconv.Itoa(w.Lines), Reason: "must not be negative"}
	}
	return nil
}

// ReadWindow opens src and returns the lines selected by w joined with "\n".
// No trailing newline is added. A line that is not valid UTF-8 is read as an
// empty line instead of failing the read.
func ReadWindow(src Source, w Window) (string, error) {
	if err := w.Validate(); err != nil {
		return "", err
	}

	rc, err := src.Open()
	if err != nil {
		return "", &ReadError{Source: src.Name(), Err: err}
	}
	defer rc.Close()

	out, err := readLines(rc, w)
	if err != nil {
		return "", &ReadError{Source: src.Name(), Err: err}
	}
	return out, nil
}

func readLines(r io.Reader, w Window) (string, error) {
	br := bufio.NewReader(r)
	skip := w.Start - 1
	var kept []string

	for w.Lines == AllLines || len(kept) < w.Lines {
		line, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		atEOF := err != nil
		if atEOF && line == "" {
			break
		}

		if skip > 0 {
			skip--
		} else {
			kept = append(kept, cleanLine(line))
		}
		if atEOF {
			break
		}
	}
	return strings.Join(kept, "\n"), nil
}

// cleanLine strips the line terminator and blanks lines that are not valid text.
func cleanLine(line string) string {
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	if !utf8.ValidString(line) {
		return ""
	}
	return line
}
