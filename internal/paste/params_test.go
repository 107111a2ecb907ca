package paste

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWindow(t *testing.T) {
	tests := []struct {
		start, lines string
		want         Window
	}{
		{start: "", lines: "", want: FullWindow},
		{start: "1", lines: "", want: FullWindow},
		{start: "3", lines: "", want: Window{Start: 3, Lines: AllLines}},
		{start: " 2 ", lines: "10", want: Window{Start: 2, Lines: 10}},
		{start: "", lines: "0", want: Window{Start: 1, Lines: 0}},
	}
	for _, tt := range tests {
		got, err := ParseWindow(tt.start, tt.lines)
		require.NoError(t, err, "start=%q lines=%q", tt.start, tt.lines)
		assert.Equal(t, tt.want, got)
	}
}

func TestParseWindowErrors(t *testing.T) {
	tests := []struct {
		start, lines string
		param, value string
	}{
		{start: "0", param: "start", value: "0"},
		{start: "abc", param: "start", value: "abc"},
		{start: "-3", param: "start", value: "-3"},
		{start: "1.5", param: "start", value: "1.5"},
		{lines: "ten", param: "lines", value: "ten"},
		{lines: "-1", param: "lines", value: "-1"},
		{start: "99999999999999999999999", param: "start", value: "99999999999999999999999"},
	}
	for _, tt := range tests {
		_, err := ParseWindow(tt.start, tt.lines)
		var pe *ParamError
		require.ErrorAs(t, err, &pe, "start=%q lines=%q", tt.start, tt.lines)
		assert.Equal(t, tt.param, pe.Param)
		assert.Equal(t, tt.value, pe.Value)
		assert.Contains(t, err.Error(), tt.param)
		assert.Contains(t, err.Error(), tt.value)
	}
}

func TestParseTTL(t *testing.T) {
	ttl, err := ParseTTL("")
	require.NoError(t, err)
	assert.Zero(t, ttl)

	ttl, err = ParseTTL("3600")
	require.NoError(t, err)
	assert.Equal(t, uint32(3600), ttl)

	ttl, err = ParseTTL("4294967295")
	require.NoError(t, err)
	assert.Equal(t, uint32(4294967295), ttl)

	for _, bad := range []string{"0", "-5", "soon", "4294967296"} {
		_, err := ParseTTL(bad)
		var pe *ParamError
		require.ErrorAs(t, err, &pe, bad)
		assert.Equal(t, "ttl-seconds", pe.Param)
	}
}
