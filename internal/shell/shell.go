// Package shell runs the interactive command loop over a contact.Book.
package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/smileynet/contactbook/internal/contact"
	"github.com/smileynet/contactbook/internal/logging"
)

const (
	commandPrompt = "Enter command: "
	separator     = "-------------------------"
)

// errExit stops the loop after the exit command.
var errExit = errors.New("shell: exit requested")

// command is one entry of the dispatch table.
type command struct {
	name string
	help string
	run  func(s *Shell) error
}

// commandTable returns the dispatch table in help order.
func commandTable() []command {
	return []command{
		{name: "help", help: "Show available commands", run: (*Shell).help},
		{name: "add", help: "Add a new contact", run: (*Shell).add},
		{name: "remove", help: "Remove a contact", run: (*Shell).remove},
		{name: "print all", help: "Print all contacts", run: (*Shell).printAll},
		{name: "save", help: "Save contacts to a file", run: (*Shell).save},
		{name: "load", help: "Load contacts from a file", run: (*Shell).load},
		{name: "exit", help: "Exit the application", run: func(*Shell) error { return errExit }},
	}
}

// Shell reads commands line by line and applies them to its Book.
// It is single-threaded; the Book must not be shared while Run is active.
type Shell struct {
	book        *contact.Book
	in          *bufio.Reader
	out         io.Writer
	styles      Styles
	logger      *slog.Logger
	defaultFile string
	commands    []command
}

// Option configures a Shell.
type Option func(*Shell)

// WithStyles sets the output styles. The default renders plain text.
func WithStyles(st Styles) Option {
	return func(s *Shell) { s.styles = st }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Shell) { s.logger = logging.OrDiscard(l) }
}

// WithDefaultFile sets the path used when the save or load prompt is left empty.
func WithDefaultFile(path string) Option {
	return func(s *Shell) { s.defaultFile = path }
}

// New creates a Shell that reads from in and writes to out.
func New(book *contact.Book, in io.Reader, out io.Writer, opts ...Option) *Shell {
	s := &Shell{
		book:     book,
		in:       bufio.NewReader(in),
		out:      out,
		styles:   PlainStyles(),
		logger:   logging.Discard(),
		commands: commandTable(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run prints the banner and processes commands until exit or end of input.
// It returns nil in both cases and an error only if reading input fails.
func (s *Shell) Run() error {
	s.println(s.styles.Title.Render("Contact Book App"))
	s.println("Enter 'help' to see available commands.")

	for {
		err := s.step()
		if err == nil {
			continue
		}
		if errors.Is(err, io.EOF) {
			// The prompt is still pending on the current line.
			s.println("")
			s.logger.Info("end of input")
			break
		}
		if errors.Is(err, errExit) {
			break
		}
		return err
	}

	s.println("Exiting Contact Book App")
	return nil
}

// step prompts for one command and runs it.
func (s *Shell) step() error {
	line, err := s.ask(commandPrompt)
	if err != nil {
		return err
	}
	return s.dispatch(line)
}

// dispatch looks up line, lowercased, in the command table and runs it.
func (s *Shell) dispatch(line string) error {
	name := strings.ToLower(line)
	for _, c := range s.commands {
		if c.name == name {
			s.logger.Debug("command dispatched", "command", c.name, "contacts", s.book.Len())
			return c.run(s)
		}
	}
	s.logger.Debug("unsupported command", "input", line)
	s.println(s.styles.Hint.Render("Unsupported command. Enter 'help' to see available commands."))
	return nil
}

func (s *Shell) help() error {
	s.println(s.styles.Heading.Render("Available commands:"))
	for _, c := range s.commands {
		s.println(c.name + " - " + c.help)
	}
	return nil
}

func (s *Shell) add() error {
	name, err := s.ask("Enter name: ")
	if err != nil {
		return err
	}
	phone, err := s.ask("Enter phone number: ")
	if err != nil {
		return err
	}
	email, err := s.ask("Enter email: ")
	if err != nil {
		return err
	}

	s.book.Add(contact.Contact{Name: name, PhoneNumber: phone, Email: email})
	s.println(s.styles.Success.Render("Contact added successfully"))
	return nil
}

func (s *Shell) remove() error {
	name, err := s.ask("Enter name of contact to remove: ")
	if err != nil {
		return err
	}

	if s.book.Remove(name) {
		s.println(s.styles.Success.Render("Contact removed successfully"))
	} else {
		s.println(s.styles.Failure.Render("Contact not found"))
	}
	return nil
}

func (s *Shell) printAll() error {
	for _, c := range s.book.List() {
		s.println("Name: " + c.Name)
		s.println("Phone Number: " + c.PhoneNumber)
		s.println("Email: " + c.Email)
		s.println(separator)
	}
	return nil
}

func (s *Shell) save() error {
	path, err := s.askPath("Enter file name to save contacts: ")
	if err != nil {
		return err
	}

	if err := s.book.Save(path); err != nil {
		s.logger.Error("save failed", "path", path, "error", err)
		s.println(s.styles.Failure.Render("Error saving contacts to file: " + err.Error()))
		return nil
	}
	s.logger.Info("contacts saved", "path", path, "contacts", s.book.Len())
	s.println(s.styles.Success.Render("Contacts saved to file: " + path))
	return nil
}

func (s *Shell) load() error {
	path, err := s.askPath("Enter file name to load contacts: ")
	if err != nil {
		return err
	}

	if err := s.book.Load(path); err != nil {
		s.logger.Error("load failed", "path", path, "error", err)
		s.println(s.styles.Failure.Render("Error loading contacts from file: " + err.Error()))
		return nil
	}
	s.logger.Info("contacts loaded", "path", path, "contacts", s.book.Len())
	s.println(s.styles.Success.Render("Contacts loaded from file: " + path))
	return nil
}

// askPath prompts for a file path, substituting the default file for an empty answer.
func (s *Shell) askPath(prompt string) (string, error) {
	path, err := s.ask(prompt)
	if err != nil {
		return "", err
	}
	if path == "" {
		path = s.defaultFile
	}
	return path, nil
}

// ask prints prompt and reads one line of any length, without its line ending.
// It returns io.EOF when input is exhausted.
func (s *Shell) ask(prompt string) (string, error) {
	_, _ = fmt.Fprint(s.out, prompt)
	line, err := s.in.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("shell: reading input: %w", err)
		}
		// A final line without a newline still counts.
		if line == "" {
			return "", io.EOF
		}
	}
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r"), nil
}

func (s *Shell) println(line string) {
	_, _ = fmt.Fprintln(s.out, line)
}
