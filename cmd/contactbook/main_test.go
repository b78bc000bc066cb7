package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

// errExitCalled is a sentinel used to catch kong's os.Exit calls in tests.
var errExitCalled = errors.New("exit called")

// isolate points HOME, XDG_STATE_HOME and the log file at temp dirs so tests
// never read user config or write user logs.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	t.Setenv("CONTACTBOOK_LOG_FILE", filepath.Join(dir, "contactbook.log"))
	t.Setenv("CONTACTBOOK_DEFAULT_FILE", "")
	t.Setenv("CONTACTBOOK_COLOR", "")
	t.Setenv("CONTACTBOOK_LOG_LEVEL", "")
	return dir
}

func TestCLI_Flags(t *testing.T) {
	t.Run("version flag prints version commit and date", func(t *testing.T) {
		// Given: a CLI parser with version, commit, and date fields
		var cli CLI
		var buf bytes.Buffer
		versionStr := "v1.0.0 abc1234 2026-01-01T00:00:00Z"
		k, err := kong.New(&cli,
			kong.Vars{"version": versionStr},
			kong.Writers(&buf, &buf),
			kong.Exit(func(int) { panic(errExitCalled) }),
		)
		if err != nil {
			t.Fatal(err)
		}

		// When: --version flag is passed
		defer func() {
			r := recover()
			if r == nil {
				t.Fatal("expected panic from --version flag")
			}
			err, ok := r.(error)
			if !ok || !errors.Is(err, errExitCalled) {
				panic(r)
			}

			// Then: version, commit, and date are all present in output
			output := buf.String()
			for _, want := range []string{"v1.0.0", "abc1234", "2026-01-01T00:00:00Z"} {
				if !strings.Contains(output, want) {
					t.Errorf("version output = %q, want to contain %q", output, want)
				}
			}
		}()

		k.Parse([]string{"--version"}) //nolint:errcheck // --version triggers panic via Exit hook
	})

	t.Run("no args parses with defaults", func(t *testing.T) {
		// Given: a CLI parser
		var cli CLI
		k, err := kong.New(&cli, kong.Vars{"version": "test"})
		if err != nil {
			t.Fatal(err)
		}

		// When: no arguments are provided
		_, err = k.Parse([]string{})

		// Then: parsing succeeds and flags keep their zero values
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		if cli.Config != "" || cli.NoColor {
			t.Errorf("cli = %+v, want zero flags", cli)
		}
	})

	t.Run("config and no-color flags", func(t *testing.T) {
		// Given: a CLI parser
		var cli CLI
		k, err := kong.New(&cli, kong.Vars{"version": "test"})
		if err != nil {
			t.Fatal(err)
		}
		cfgPath := filepath.Join(t.TempDir(), "cb.yaml")

		// When: both flags are passed
		_, err = k.Parse([]string{"--config", cfgPath, "--no-color"})

		// Then: both are recorded
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		if cli.Config != cfgPath {
			t.Errorf("Config = %q, want %q", cli.Config, cfgPath)
		}
		if !cli.NoColor {
			t.Error("NoColor = false, want true")
		}
	})

	t.Run("positional arguments are rejected", func(t *testing.T) {
		var cli CLI
		k, err := kong.New(&cli, kong.Vars{"version": "test"})
		if err != nil {
			t.Fatal(err)
		}

		if _, err := k.Parse([]string{"add"}); err == nil {
			t.Error("Parse([add]) error = nil, want error")
		}
	})
}

func TestRun_Session(t *testing.T) {
	// Given: an isolated environment and a scripted session
	dir := isolate(t)
	out := filepath.Join(dir, "out.json")
	input := strings.Join([]string{
		"add", "Ann", "555-1", "a@x.com",
		"add", "Bob", "555-2", "b@x.com",
		"save", out,
		"remove", "ann",
		"load", out,
		"print all",
		"exit",
	}, "\n") + "\n"
	var stdout, stderr bytes.Buffer

	// When: run is called
	cli := CLI{NoColor: true}
	if err := cli.run(strings.NewReader(input), &stdout, &stderr); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	// Then: the reload restored Ann, listed before Bob
	got := stdout.String()
	ann := strings.Index(got, "Name: Ann")
	bob := strings.Index(got, "Name: Bob")
	if ann < 0 || bob < 0 || ann > bob {
		t.Errorf("output = %q, want Ann listed before Bob", got)
	}
	if !strings.HasSuffix(got, "Exiting Contact Book App\n") {
		t.Errorf("output = %q, want farewell", got)
	}
	if stderr.Len() != 0 {
		t.Errorf("stderr = %q, want empty", stderr.String())
	}

	// And: the diagnostic log received the session records
	logData, err := os.ReadFile(filepath.Join(dir, "contactbook.log"))
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	if !strings.Contains(string(logData), "session started") {
		t.Errorf("log = %q, want session start record", logData)
	}
}

func TestCLI_RunDispatchedByKong(t *testing.T) {
	// Given: scripted stdin and a captured stdout
	dir := isolate(t)
	stdin := filepath.Join(dir, "stdin")
	if err := os.WriteFile(stdin, []byte("add\nAnn\n1\na\nprint all\nexit\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	inFile, err := os.Open(stdin)
	if err != nil {
		t.Fatal(err)
	}
	defer inFile.Close()
	outFile, err := os.Create(filepath.Join(dir, "stdout"))
	if err != nil {
		t.Fatal(err)
	}
	defer outFile.Close()
	origIn, origOut := os.Stdin, os.Stdout
	os.Stdin, os.Stdout = inFile, outFile
	t.Cleanup(func() { os.Stdin, os.Stdout = origIn, origOut })

	var cli CLI
	k, err := kong.New(&cli, kong.Name("contactbook"), kong.Vars{"version": "test"})
	if err != nil {
		t.Fatal(err)
	}
	ctx, err := k.Parse([]string{"--no-color"})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	// When: the parsed context is run
	if err := ctx.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	// Then: the root command ran a session on the standard streams
	got, err := os.ReadFile(filepath.Join(dir, "stdout"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(got), "Name: Ann") {
		t.Errorf("stdout = %q, want Ann listed", got)
	}
	if !strings.HasSuffix(string(got), "Exiting Contact Book App\n") {
		t.Errorf("stdout = %q, want farewell", got)
	}
}

func TestRun_ConfigDefaultFile(t *testing.T) {
	// Given: a config file naming a default contacts file
	dir := isolate(t)
	book := filepath.Join(dir, "book.json")
	cfgPath := filepath.Join(dir, "cb.yaml")
	if err := os.WriteFile(cfgPath, []byte("storage:\n  default_file: "+book+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	var stdout, stderr bytes.Buffer

	// When: a session saves with an empty path
	cli := CLI{Config: cfgPath}
	if err := cli.run(strings.NewReader("add\nAnn\n1\na\nsave\n\n"), &stdout, &stderr); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	// Then: the default file was written
	if _, err := os.Stat(book); err != nil {
		t.Errorf("default file not written: %v", err)
	}
}

func TestRun_InvalidConfig(t *testing.T) {
	// Given: a config with an invalid color mode
	dir := isolate(t)
	cfgPath := filepath.Join(dir, "cb.yaml")
	if err := os.WriteFile(cfgPath, []byte("display:\n  color: rainbow\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	var stdout, stderr bytes.Buffer

	// When: run is called
	cli := CLI{Config: cfgPath}
	err := cli.run(strings.NewReader("exit\n"), &stdout, &stderr)

	// Then: a setup error is returned before the loop starts
	if err == nil {
		t.Fatal("run() error = nil, want setup error")
	}
	if got := exitCode(err); got != exitSetup {
		t.Errorf("exitCode() = %d, want %d", got, exitSetup)
	}
	if stdout.Len() != 0 {
		t.Errorf("stdout = %q, want empty", stdout.String())
	}
}

func TestRun_UnwritableLogWarns(t *testing.T) {
	// Given: a log path whose parent is a regular file
	dir := isolate(t)
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONTACTBOOK_LOG_FILE", filepath.Join(blocker, "cb.log"))
	var stdout, stderr bytes.Buffer

	// When: run is called
	cli := CLI{}
	if err := cli.run(strings.NewReader("exit\n"), &stdout, &stderr); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	// Then: a warning is printed and the session still runs
	if !strings.Contains(stderr.String(), "warning: diagnostic log disabled") {
		t.Errorf("stderr = %q, want log warning", stderr.String())
	}
	if !strings.HasSuffix(stdout.String(), "Exiting Contact Book App\n") {
		t.Errorf("stdout = %q, want farewell", stdout.String())
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: exitSuccess},
		{name: "setup", err: &setupError{err: errors.New("bad config")}, want: exitSetup},
		{name: "runtime", err: errors.New("shell: reading input: boom"), want: exitRuntime},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
