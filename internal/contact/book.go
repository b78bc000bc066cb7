// Package contact implements the in-memory address book and its JSON file persistence.
package contact

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
)

// Contact is a single address book entry.
type Contact struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phoneNumber"`
	Email       string `json:"email"`
}

// ErrEmptyPath indicates Save or Load was called without a file path.
var ErrEmptyPath = errors.New("contact: empty file path")

// Book holds contacts in insertion order.
// It is not safe for concurrent use.
type Book struct {
	contacts []Contact
}

// NewBook creates an empty Book.
func NewBook() *Book {
	return &Book{}
}

// Add appends c to the end of the book.
func (b *Book) Add(c Contact) {
	b.contacts = append(b.contacts, c)
}

// Remove deletes the first contact whose name equals name, ignoring case.
// Reports whether a contact was removed.
func (b *Book) Remove(name string) bool {
	for i, c := range b.contacts {
		if strings.EqualFold(c.Name, name) {
			b.contacts = slices.Delete(b.contacts, i, i+1)
			return true
		}
	}
	return false
}

// List returns a copy of all contacts in insertion order.
func (b *Book) List() []Contact {
	out := make([]Contact, len(b.contacts))
	copy(out, b.contacts)
	return out
}

// Len returns the number of contacts.
func (b *Book) Len() int {
	return len(b.contacts)
}

// Save writes every contact to path as an indented JSON array.
// The book is never modified, even on failure.
func (b *Book) Save(path string) error {
	if path == "" {
		return ErrEmptyPath
	}

	contacts := b.contacts
	if contacts == nil {
		contacts = []Contact{}
	}

	data, err := json.MarshalIndent(contacts, "", "  ")
	if err != nil {
		return fmt.Errorf("contact: marshaling: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("contact: writing %s: %w", path, err)
	}
	return nil
}

// Load replaces the book's contents with the contacts stored at path.
// On any read or parse failure the book keeps its previous contents.
func (b *Book) Load(path string) error {
	if path == "" {
		return ErrEmptyPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("contact: reading %s: %w", path, err)
	}

	var loaded []Contact
	if err := json.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("contact: parsing %s: %w", path, err)
	}

	b.contacts = loaded
	return nil
}
