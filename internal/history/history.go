// Package history persists up to five request snapshots per method.
package history

import (
	"errors"
	"fmt"
	"time"
)

const (
	FirstSlot = 1
	LastSlot  = 5
)

var (
	// ErrNotFound is returned when a slot holds no snapshot
	ErrNotFound = errors.New("history slot not found")
	// ErrInvalidSlot is returned for indices outside 1-5
	ErrInvalidSlot = errors.New("invalid history slot")
)

// MetadataEntry is one metadata row. Order is preserved.
type MetadataEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Auth holds both authentication fields and which one is active
type Auth struct {
	Selected string `json:"selected,omitempty"`
	Bearer   string `json:"bearer,omitempty"`
	Basic    string `json:"basic,omitempty"`
}

// Snapshot is one saved request
type Snapshot struct {
	Address  string
	Auth     Auth
	Metadata []MetadataEntry
	Body     string
	SavedAt  time.Time
}

// Store is the contract the TUI consumes
type Store interface {
	Save(method string, slot int, snap Snapshot) error
	Load(method string, slot int) (*Snapshot, error)
	Slots(method string) ([]int, error)
	Delete(method string) error
	Close() error
}

// Disabled is a Store that keeps nothing
type Disabled struct{}

func (Disabled) Save(string, int, Snapshot) error { return nil }

func (Disabled) Load(string, int) (*Snapshot, error) { return nil, ErrNotFound }

func (Disabled) Slots(string) ([]int, error) { return nil, nil }

func (Disabled) Delete(string) error { return nil }

func (Disabled) Close() error { return nil }

// Open returns a SQLite store at dbPath, or Disabled when disabled is set
func Open(dbPath string, disabled bool) (Store, error) {
	if disabled {
		return Disabled{}, nil
	}
	return NewManager(dbPath)
}

func ValidateSlot(slot int) error {
	if slot < FirstSlot || slot > LastSlot {
		return fmt.Errorf("%w: %d", ErrInvalidSlot, slot)
	}
	return nil
}
