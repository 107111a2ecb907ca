package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/tombowditch/upaste/client"
	"github.com/tombowditch/upaste/internal/paste"
)

const (
	// Environment overrides
	EnvPasteRoot = "UPASTE_PASTEROOT"
	EnvReadRoot  = "UPASTE_READROOT"
	EnvLogLevel  = "UPASTE_LOG_LEVEL"
	EnvLogFormat = "UPASTE_LOG_FORMAT"
	EnvConfig    = "UPASTE_CONFIG"

	// Logging defaults
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "text"
)

// File is the optional config.toml.
type File struct {
	PasteRoot      string   `toml:"paste_root"`
	ReadRoot       string   `toml:"read_root"`
	Raw            bool     `toml:"raw"`
	TTLSeconds     uint32   `toml:"ttl_seconds"`
	Timeout        string   `toml:"timeout"`
	LogLevel       string   `toml:"log_level"`
	LogFormat      string   `toml:"log_format"`
	PlainBodyRoots []string `toml:"plain_body_roots"`
}

// Path returns the default config file location.
func Path() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		var err error
		configHome, err = os.UserConfigDir()
		if err != nil {
			return "", err
		}
	}
	return filepath.Join(configHome, "upaste", "config.toml"), nil
}

// Load reads the config file at path. A missing file yields an empty File.
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return File{}, nil
	}
	if err != nil {
		return File{}, err
	}
	var f File
	if err := toml.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return f, nil
}

// Flags are the raw command-line values. Empty strings mean unset.
type Flags struct {
	File       string
	Start      string
	Lines      string
	Pull       string
	Raw        bool
	PasteRoot  string
	ReadRoot   string
	TTLSeconds string
	Timeout    string
	LogLevel   string
}

// Resolved is everything one invocation needs, with all defaults applied.
type Resolved struct {
	PasteRoot      string
	ReadRoot       string
	PlainBodyRoots []string
	Raw            bool
	TTLSeconds     uint32
	Timeout        time.Duration

	// Pull is the key to fetch. When set, the input fields are unused.
	Pull string

	// File is the input path; empty means standard input.
	File   string
	Window paste.Window

	LogLevel  string
	LogFormat string
}

// Source returns the input to upload, reading stdin when no file was given.
func (r Resolved) Source(stdin io.Reader) paste.Source {
	if r.File != "" {
		return paste.FileSource(r.File)
	}
	return paste.StdinSource{Reader: stdin}
}

// Resolve merges flags, environment and file settings. Flags win over the
// environment, which wins over the file, which wins over built-in defaults.
func Resolve(flags Flags, file File, getenv func(string) string) (Resolved, error) {
	r := Resolved{
		PasteRoot:      firstNonEmpty(flags.PasteRoot, getenv(EnvPasteRoot), file.PasteRoot, client.DefaultPasteRoot),
		ReadRoot:       firstNonEmpty(flags.ReadRoot, getenv(EnvReadRoot), file.ReadRoot, client.DefaultReadRoot),
		PlainBodyRoots: file.PlainBodyRoots,
		Raw:            flags.Raw || file.Raw,
		TTLSeconds:     file.TTLSeconds,
		Pull:           strings.TrimSpace(flags.Pull),
		File:           flags.File,
		LogLevel:       strings.ToLower(firstNonEmpty(flags.LogLevel, getenv(EnvLogLevel), file.LogLevel, DefaultLogLevel)),
		LogFormat:      strings.ToLower(firstNonEmpty(getenv(EnvLogFormat), file.LogFormat, DefaultLogFormat)),
	}

	if r.Pull != "" && (flags.File != "" || flags.Start != "" || flags.Lines != "") {
		return Resolved{}, &paste.ParamError{Param: "pull", Value: flags.Pull, Reason: "cannot be combined with input options"}
	}

	window, err := paste.ParseWindow(flags.Start, flags.Lines)
	if err != nil {
		return Resolved{}, err
	}
	r.Window = window

	if flags.TTLSeconds != "" {
		ttl, err := paste.ParseTTL(flags.TTLSeconds)
		if err != nil {
			return Resolved{}, err
		}
		r.TTLSeconds = ttl
	}

	if timeout := firstNonEmpty(flags.Timeout, file.Timeout); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil || d < 0 {
			return Resolved{}, &paste.ParamError{Param: "timeout", Value: timeout, Reason: "expected a duration such as 30s"}
		}
		r.Timeout = d
	}

	switch r.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return Resolved{}, &paste.ParamError{Param: "log-level", Value: r.LogLevel, Reason: "expected debug, info, warn or error"}
	}
	switch r.LogFormat {
	case "text", "json":
	default:
		return Resolved{}, &paste.ParamError{Param: "log-format", Value: r.LogFormat, Reason: "expected text or json"}
	}

	return r, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
