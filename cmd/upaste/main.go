package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shayne/yargs"
	"golang.org/x/term"

	"github.com/tombowditch/upaste/client"
	"github.com/tombowditch/upaste/internal/config"
	"github.com/tombowditch/upaste/internal/paste"
)

var version = "dev"

const usage = `upaste - CLI pasting client, defaults to https://hastebin.com

Reads from stdin or a specified file:
  cat file.txt | upaste
  upaste -f file.txt

Usage: upaste [options]

Options:
  -f, --file <path>         file to upload
  -s, --start <n>           line number to start reading at (1 being the first)
  -l, --lines <n>           number of lines to read
  -p, --pull <key>          pull an existing paste to stdout
  -r, --raw                 return link to raw version
      --paste-root <url>    host url to upload to (default https://hastebin.com/documents or $UPASTE_PASTEROOT)
      --read-root <url>     host url-root for linking to and pulling pastes (default https://hastebin.com or $UPASTE_READROOT)
      --ttl-seconds <n>     ask the backend to expire the paste after n seconds
      --timeout <duration>  give up on the request after this long (default: no timeout)
      --log-level <level>   debug, info, warn or error (default warn or $UPASTE_LOG_LEVEL)
      --config <path>       config file (default $XDG_CONFIG_HOME/upaste/config.toml or $UPASTE_CONFIG)
  -V, --version             print version and exit
  -h, --help                show this help`

type cliFlags struct {
	File       string `flag:"file" short:"f" help:"file to upload"`
	Start      string `flag:"start" short:"s" help:"line number to start reading at (1 being the first)"`
	Lines      string `flag:"lines" short:"l" help:"number of lines to read"`
	Pull       string `flag:"pull" short:"p" help:"pull an existing paste to stdout"`
	Raw        bool   `flag:"raw" short:"r" help:"return link to raw version"`
	PasteRoot  string `flag:"paste-root" help:"host url to upload to"`
	ReadRoot   string `flag:"read-root" help:"host url-root to use when linking to and pulling down posts"`
	TTLSeconds string `flag:"ttl-seconds" help:"ask the backend to expire the paste after this many seconds"`
	Timeout    string `flag:"timeout" help:"request timeout"`
	LogLevel   string `flag:"log-level" help:"debug, info, warn or error"`
	Config     string `flag:"config" help:"path to config.toml"`
	Version    bool   `flag:"version" short:"V" help:"print version and exit"`
}

// env is the process surface runCLI works against.
type env struct {
	stdin      io.Reader
	stdout     io.Writer
	stderr     io.Writer
	getenv     func(string) string
	httpClient *http.Client
}

type usageError struct {
	message string
}

func (e usageError) Error() string {
	return e.message
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	e := env{
		stdin:      os.Stdin,
		stdout:     os.Stdout,
		stderr:     os.Stderr,
		getenv:     os.Getenv,
		httpClient: &http.Client{},
	}
	code := reportCLIError(e.stderr, runCLI(ctx, os.Args[1:], e))
	stop()
	os.Exit(code)
}

// reportCLIError prints err and returns the process exit code.
func reportCLIError(w io.Writer, err error) int {
	if err == nil {
		return 0
	}
	var usageErr usageError
	if errors.As(err, &usageErr) {
		fmt.Fprintln(w, usageErr.message)
		fmt.Fprintln(w, "Run 'upaste --help' for usage.")
		return 2
	}
	fmt.Fprintf(w, "Error: %v\n", err)
	return 1
}

func runCLI(ctx context.Context, args []string, e env) error {
	if hasHelpFlag(args) {
		fmt.Fprintln(e.stdout, usage)
		return nil
	}

	result, err := yargs.ParseFlags[cliFlags](args)
	if err != nil {
		return usageError{message: err.Error()}
	}
	if len(result.Args) > 0 {
		return usageError{message: fmt.Sprintf("unexpected argument %q", result.Args[0])}
	}
	flags := result.Flags

	if flags.Version {
		fmt.Fprintf(e.stdout, "upaste %s\n", strings.TrimSpace(version))
		return nil
	}

	file, err := loadConfigFile(flags.Config, e.getenv)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	cfg, err := config.Resolve(config.Flags{
		File:       flags.File,
		Start:      flags.Start,
		Lines:      flags.Lines,
		Pull:       flags.Pull,
		Raw:        flags.Raw,
		PasteRoot:  flags.PasteRoot,
		ReadRoot:   flags.ReadRoot,
		TTLSeconds: flags.TTLSeconds,
		Timeout:    flags.Timeout,
		LogLevel:   flags.LogLevel,
	}, file, e.getenv)
	if err != nil {
		return err
	}

	logger := newLogger(cfg.LogLevel, cfg.LogFormat, e.stderr)
	logger.Debug("resolved configuration",
		"paste_root", cfg.PasteRoot,
		"read_root", cfg.ReadRoot,
		"raw", cfg.Raw,
		"ttl_seconds", cfg.TTLSeconds,
		"timeout", cfg.Timeout,
	)

	c, err := client.New(
		client.WithPasteRoot(cfg.PasteRoot),
		client.WithReadRoot(cfg.ReadRoot),
		client.WithPlainBodyRoots(cfg.PlainBodyRoots...),
		client.WithHTTPClient(e.httpClient),
		client.WithTimeout(cfg.Timeout),
		client.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	if cfg.Pull != "" {
		return pull(ctx, c, cfg, e)
	}
	return upload(ctx, c, cfg, e, logger)
}

func pull(ctx context.Context, c *client.Client, cfg config.Resolved, e env) error {
	content, u, err := c.Fetch(ctx, cfg.Pull)
	if err != nil {
		return fmt.Errorf("pulling content for key %s: %w", cfg.Pull, err)
	}
	banner := newStyles(e.stdout).banner
	fmt.Fprintf(e.stdout, "%s\n\n%s\n", banner(fmt.Sprintf("** %s **", u)), content)
	return nil
}

func upload(ctx context.Context, c *client.Client, cfg config.Resolved, e env, logger *slog.Logger) error {
	if cfg.File == "" && isTerminal(e.stdin) {
		fmt.Fprintln(e.stderr, "reading from stdin, press Ctrl-D to finish")
	}

	content, err := paste.ReadWindow(cfg.Source(e.stdin), cfg.Window)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	logger.Info("read input", "bytes", len(content), "start", cfg.Window.Start, "lines", cfg.Window.Lines)

	res, err := c.Upload(ctx, []byte(content), client.UploadOptions{Raw: cfg.Raw, TTLSeconds: cfg.TTLSeconds})
	if err != nil {
		return fmt.Errorf("posting content to %s: %w", cfg.PasteRoot, err)
	}
	logger.Info("uploaded paste", "key", res.Key, "url", res.URL.String())

	st := newStyles(e.stdout)
	fmt.Fprintf(e.stdout, " %s Content available at: %s\n", st.banner("** Success!"), st.link(res.URL.String()))
	return nil
}

func loadConfigFile(flagPath string, getenv func(string) string) (config.File, error) {
	path := strings.TrimSpace(flagPath)
	explicit := path != ""
	if path == "" {
		path = strings.TrimSpace(getenv(config.EnvConfig))
		explicit = path != ""
	}
	if path == "" {
		var err error
		path, err = config.Path()
		if err != nil {
			// no usable config dir; run on defaults
			return config.File{}, nil
		}
	}
	if explicit {
		if _, err := os.Stat(path); err != nil {
			return config.File{}, err
		}
	}
	return config.Load(path)
}

type styles struct {
	banner func(...string) string
	link   func(...string) string
}

// newStyles returns unstyled output unless w is a terminal.
func newStyles(w io.Writer) styles {
	if !isTerminal(w) {
		plain := func(strs ...string) string { return strings.Join(strs, " ") }
		return styles{banner: plain, link: plain}
	}
	r := lipgloss.NewRenderer(w)
	return styles{
		banner: r.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#1F7A1F", Dark: "#7EE787"}).Render,
		link:   r.NewStyle().Underline(true).Render,
	}
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func hasHelpFlag(args []string) bool {
	for _, arg := range args {
		switch strings.TrimSpace(arg) {
		case "-h", "--help":
			return true
		}
	}
	return false
}
