package paste

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stdin(s string) Source {
	return StdinSource{Reader: strings.NewReader(s)}
}

func TestReadWindow(t *testing.T) {
	const input = "one\ntwo\nthree\nfour\nfive\n"

	tests := []struct {
		name   string
		window Window
		want   string
	}{
		{name: "everything", window: FullWindow, want: "one\ntwo\nthree\nfour\nfive"},
		{name: "from third", window: Window{Start: 3, Lines: AllLines}, want: "three\nfour\nfive"},
		{name: "two from second", window: Window{Start: 2, Lines: 2}, want: "two\nthree"},
		{name: "count past end", window: Window{Start: 4, Lines: 10}, want: "four\nfive"},
		{name: "start past end", window: Window{Start: 6, Lines: AllLines}, want: ""},
		{name: "zero lines", window: Window{Start: 1, Lines: 0}, want: ""},
		{name: "last line", window: Window{Start: 5, Lines: 1}, want: "five"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadWindow(stdin(input), tt.window)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadWindowLineCounts(t *testing.T) {
	for n := 0; n <= 5; n++ {
		lines := make([]string, n)
		for i := range lines {
			lines[i] = fmt.Sprintf("line %d", i+1)
		}
		input := strings.Join(lines, "\n")

		for start := 1; start <= n+2; start++ {
			got, err := ReadWindow(stdin(input), Window{Start: start, Lines: AllLines})
			require.NoError(t, err)
			if start > n {
				assert.Empty(t, got, "n=%d start=%d", n, start)
			} else {
				assert.Equal(t, strings.Join(lines[start-1:], "\n"), got, "n=%d start=%d", n, start)
			}

			for k := 0; k <= n+1; k++ {
				got, err := ReadWindow(stdin(input), Window{Start: start, Lines: k})
				require.NoError(t, err)
				want := min(k, max(0, n-start+1))
				if want == 0 {
					assert.Empty(t, got, "n=%d start=%d k=%d", n, start, k)
					continue
				}
				assert.Len(t, strings.Split(got, "\n"), want, "n=%d start=%d k=%d", n, start, k)
			}
		}
	}
}

func TestReadWindowNoTrailingNewline(t *testing.T) {
	got, err := ReadWindow(stdin("a\nb"), FullWindow)
	require.NoError(t, err)
	assert.Equal(t, "a\nb", got)

	got, err = ReadWindow(stdin("a\r\nb\r\n"), FullWindow)
	require.NoError(t, err)
	assert.Equal(t, "a\nb", got)

	got, err = ReadWindow(stdin("a\n\nb\n"), FullWindow)
	require.NoError(t, err)
	assert.Equal(t, "a\n\nb", got)
}

func TestReadWindowInvalidUTF8IsEmptyLine(t *testing.T) {
	got, err := ReadWindow(stdin("good\nbad \xff\xfe\nalso good\n"), FullWindow)
	require.NoError(t, err)
	assert.Equal(t, "good\n\nalso good", got)
}

func TestReadWindowLongLine(t *testing.T) {
	long := strings.Repeat("x", 1<<20)
	got, err := ReadWindow(stdin("short\n"+long+"\nend"), Window{Start: 2, Lines: 1})
	require.NoError(t, err)
	assert.Equal(t, long, got)
}

func TestReadWindowStopsAfterCount(t *testing.T) {
	// the reader fails after the first chunk; a window inside it never sees the failure
	r := io.MultiReader(strings.NewReader("a\nb\nc\n"), iotest.ErrReader(errors.New("boom")))
	got, err := ReadWindow(StdinSource{Reader: r}, Window{Start: 1, Lines: 2})
	require.NoError(t, err)
	assert.Equal(t, "a\nb", got)
}

func TestReadWindowStreamError(t *testing.T) {
	boom := errors.New("boom")
	r := io.MultiReader(strings.NewReader("a\n"), iotest.ErrReader(boom))
	_, err := ReadWindow(StdinSource{Reader: r}, FullWindow)
	require.Error(t, err)

	var re *ReadError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "stdin", re.Source)
	assert.ErrorIs(t, err, boom)
}

func TestReadWindowInvalidStart(t *testing.T) {
	for _, start := range []int{0, -1} {
		_, err := ReadWindow(stdin("a\n"), Window{Start: start, Lines: AllLines})
		var pe *ParamError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, "start", pe.Param)
	}
}

func TestReadWindowFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.txt")
	require.NoError(t, os.WriteFile(path, []byte("first\nsecond\nthird\n"), 0o644))

	got, err := ReadWindow(FileSource(path), Window{Start: 2, Lines: 1})
	require.NoError(t, err)
	assert.Equal(t, "second", got)
}

func TestReadWindowMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.txt")

	_, err := ReadWindow(FileSource(path), FullWindow)
	require.Error(t, err)

	var re *ReadError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, path, re.Source)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), path)
}
