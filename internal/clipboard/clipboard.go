// Package clipboard provides the system clipboard behind a small interface so
// editors can be tested with an in-memory implementation.
package clipboard

import (
	"errors"
	"io"
	"os"
	"sync"

	"github.com/atotto/clipboard"
	"github.com/aymanbagabas/go-osc52/v2"
)

// ErrUnavailable is returned when no clipboard backend exists
var ErrUnavailable = errors.New("clipboard unavailable")

// Clipboard reads and writes plain text
type Clipboard interface {
	ReadText() (string, error)
	WriteText(text string) error
}

// System uses the OS clipboard. Writes fall back to an OSC52 escape sequence
// on out when no clipboard utility is installed (e.g. over ssh).
type System struct {
	mu  sync.Mutex
	out io.Writer
}

// NewSystem returns the OS clipboard, using stderr for the OSC52 fallback
func NewSystem() *System {
	return &System{out: os.Stderr}
}

// ReadText returns the clipboard content
func (s *System) ReadText() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if clipboard.Unsupported {
		return "", ErrUnavailable
	}
	return clipboard.ReadAll()
}

// WriteText replaces the clipboard content
func (s *System) WriteText(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !clipboard.Unsupported {
		if err := clipboard.WriteAll(text); err == nil {
			return nil
		}
	}
	if s.out == nil {
		return ErrUnavailable
	}
	_, err := osc52.New(text).WriteTo(s.out)
	return err
}

// Memory is a process local clipboard
type Memory struct {
	mu   sync.Mutex
	text string
}

// NewMemory returns an empty in-memory clipboard
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) ReadText() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text, nil
}

func (m *Memory) WriteText(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
	return nil
}

// Unavailable fails every operation
type Unavailable struct{}

func (Unavailable) ReadText() (string, error) { return "", ErrUnavailable }
func (Unavailable) WriteText(string) error     { return ErrUnavailable }
