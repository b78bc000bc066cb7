package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"

	"github.com/smileynet/contactbook/internal/config"
	"github.com/smileynet/contactbook/internal/contact"
	"github.com/smileynet/contactbook/internal/logging"
	"github.com/smileynet/contactbook/internal/shell"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

const projectConfigPath = ".contactbook.yaml"

// CLI is the top-level flag structure for contactbook.
// The address book itself is driven interactively over stdin.
type CLI struct {
	Version kong.VersionFlag `help:"Show version." short:"V"`
	Config  string           `help:"Extra config file, applied after user and project config." type:"path"`
	NoColor bool             `help:"Disable colored output." name:"no-color"`
}

// setupError marks failures that happen before the interactive loop starts.
type setupError struct {
	err error
}

func (e *setupError) Error() string { return e.err.Error() }
func (e *setupError) Unwrap() error { return e.err }

// Run starts an interactive session on the process's standard streams.
func (c *CLI) Run() error {
	return c.run(os.Stdin, os.Stdout, os.Stderr)
}

// run loads configuration, wires the book, shell and logger, and runs the loop.
func (c *CLI) run(in io.Reader, out, errOut io.Writer) error {
	cfg, err := loadConfig(c.Config)
	if err != nil {
		return &setupError{err: err}
	}
	if c.NoColor {
		cfg.Display.Color = config.ColorNever
	}

	logger, closeLog, err := logging.New(cfg.Log)
	if err != nil {
		_, _ = fmt.Fprintf(errOut, "warning: diagnostic log disabled: %v\n", err)
	}
	defer func() { _ = closeLog() }()

	logger.Info("session started", "version", version, "commit", commit)

	sh := shell.New(contact.NewBook(), in, out,
		shell.WithStyles(shell.NewStyles(out, cfg.Display.Color)),
		shell.WithLogger(logger),
		shell.WithDefaultFile(cfg.Storage.DefaultFile),
	)
	if err := sh.Run(); err != nil {
		logger.Error("session aborted", "error", err)
		return err
	}

	logger.Info("session ended")
	return nil
}

// loadConfig loads layered config from user, project and extra paths with env overrides.
func loadConfig(extra string) (*config.Config, error) {
	cfg, err := config.LoadLayered(
		os.ExpandEnv("$HOME/.config/contactbook/config.yaml"),
		projectConfigPath,
		extra,
	)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

const (
	exitSuccess = 0
	exitRuntime = 1
	exitSetup   = 2
)

// exitCode maps an error to the appropriate exit code.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var se *setupError
	if errors.As(err, &se) {
		return exitSetup
	}
	return exitRuntime
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("contactbook"),
		kong.Description("Interactive address book. Type 'help' at the prompt for commands."),
		kong.Vars{"version": version + " " + commit + " " + date},
	)
	if err := ctx.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(exitCode(err))
	}
}
