package paste

import (
	"io"
	"os"
)

// Source is anything content can be read from line by line.
type Source interface {
	// Name identifies the source in error messages.
	Name() string
	Open() (io.ReadCloser, error)
}

// FileSource reads a named file.
type FileSource string

func (f FileSource) Name() string { return string(f) }

func (f FileSource) Open() (io.ReadCloser, error) {
	return os.Open(string(f))
}

// StdinSource reads standard input, or any stream standing in for it.
type StdinSource struct {
	Reader io.Reader
}

func (s StdinSource) Name() string { return "stdin" }

// Open returns the stream without taking ownership of it; closing the
// result does not close the underlying reader.
func (s StdinSource) Open() (io.ReadCloser, error) {
	r := s.Reader
	if r == nil {
		r = os.Stdin
	}
	return io.NopCloser(r), nil
}
