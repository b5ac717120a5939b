package history

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/studiowebux/rpccli/internal/migrations"
)

// Manager stores history slots in a SQLite database
type Manager struct {
	db *sql.DB
}

func NewManager(dbPath string) (*Manager, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to history database: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Manager{db: db}, nil
}

func (m *Manager) Save(method string, slot int, snap Snapshot) error {
	if err := ValidateSlot(slot); err != nil {
		return err
	}

	metadataJSON, err := json.Marshal(snap.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}
	authJSON, err := json.Marshal(snap.Auth)
	if err != nil {
		return fmt.Errorf("failed to marshal auth: %w", err)
	}

	query := `
		INSERT INTO history_slots (method, slot, address, metadata, auth, body, saved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(method, slot) DO UPDATE SET
			address = excluded.address,
			metadata = excluded.metadata,
			auth = excluded.auth,
			body = excluded.body,
			saved_at = excluded.saved_at
	`

	// Format timestamp for SQLite in local time
	timestampStr := time.Now().Local().Format("2006-01-02 15:04:05")

	_, err = m.db.Exec(query,
		method,
		slot,
		snap.Address,
		string(metadataJSON),
		string(authJSON),
		snap.Body,
		timestampStr,
	)
	if err != nil {
		return fmt.Errorf("failed to save history slot: %w", err)
	}

	return nil
}

func (m *Manager) Load(method string, slot int) (*Snapshot, error) {
	if err := ValidateSlot(slot); err != nil {
		return nil, err
	}

	query := `
		SELECT address, metadata, auth, body, saved_at
		FROM history_slots
		WHERE method = ? AND slot = ?
	`

	var (
		snap         Snapshot
		metadataJSON string
		authJSON     string
		savedAt      string
	)
	err := m.db.QueryRow(query, method, slot).Scan(
		&snap.Address,
		&metadataJSON,
		&authJSON,
		&snap.Body,
		&savedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load history slot: %w", err)
	}

	if err := json.Unmarshal([]byte(metadataJSON), &snap.Metadata); err != nil {
		return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
	}
	if err := json.Unmarshal([]byte(authJSON), &snap.Auth); err != nil {
		return nil, fmt.Errorf("failed to unmarshal auth: %w", err)
	}
	snap.SavedAt = parseTimestamp(savedAt)

	return &snap, nil
}

// Slots lists the occupied slot indices of a method in ascending order
func (m *Manager) Slots(method string) ([]int, error) {
	rows, err := m.db.Query(`SELECT slot FROM history_slots WHERE method = ? ORDER BY slot`, method)
	if err != nil {
		return nil, fmt.Errorf("failed to list history slots: %w", err)
	}
	defer rows.Close()

	var slots []int
	for rows.Next() {
		var slot int
		if err := rows.Scan(&slot); err != nil {
			return nil, fmt.Errorf("failed to scan history slot: %w", err)
		}
		slots = append(slots, slot)
	}
	return slots, rows.Err()
}

// Delete removes every slot saved for method
func (m *Manager) Delete(method string) error {
	if _, err := m.db.Exec(`DELETE FROM history_slots WHERE method = ?`, method); err != nil {
		return fmt.Errorf("failed to delete history: %w", err)
	}
	return nil
}

func (m *Manager) Close() error {
	return m.db.Close()
}

func parseTimestamp(value string) time.Time {
	for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339} {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t
		}
	}
	return time.Time{}
}
