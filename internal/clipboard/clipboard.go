// Package clipboard copies license fields to the system clipboard.
package clipboard

import (
	"errors"
	"fmt"
	"sync"

	sysclip "github.com/atotto/clipboard"

	"github.com/roach88/valet/internal/editor"
	"github.com/roach88/valet/internal/license"
)

// ErrEmpty is returned when the selected field has no value to copy.
var ErrEmpty = errors.New("field is empty")

// Writer puts text on a clipboard.
type Writer interface {
	WriteAll(text string) error
}

type systemWriter struct{}

func (systemWriter) WriteAll(text string) error {
	if sysclip.Unsupported {
		return errors.New("clipboard unsupported on this system")
	}
	return sysclip.WriteAll(text)
}

// System returns a Writer backed by the operating system clipboard.
func System() Writer { return systemWriter{} }

// Memory is an in-process clipboard, used by tests and when no system
// clipboard is available.
type Memory struct {
	mu   sync.Mutex
	text string
	n    int
}

func (m *Memory) WriteAll(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
	m.n++
	return nil
}

// Text returns the last written value.
func (m *Memory) Text() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text
}

// Writes returns how many times WriteAll was called.
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.n
}

// Copyable lists the fields offered for copying, in key binding order.
var Copyable = []editor.Field{
	editor.FieldRegisteredToName,
	editor.FieldRegisteredToEmail,
	editor.FieldLicenseKey,
}

// CopyField writes the record's value for field to w.
func CopyField(w Writer, l license.License, field editor.Field) error {
	value := editor.NewDraft(l).Get(field)
	if value == "" {
		return fmt.Errorf("copy %s: %w", field.Label(), ErrEmpty)
	}
	if err := w.WriteAll(value); err != nil {
		return fmt.Errorf("copy %s: %w", field.Label(), err)
	}
	return nil
}
