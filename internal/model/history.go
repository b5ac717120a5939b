package model

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/studiowebux/rpccli/internal/history"
)

// HistoryModel tracks the current slot and moves snapshots between the store
// and the messages and headers models
type HistoryModel struct {
	store    history.Store
	slot     int
	autosave bool
}

func NewHistoryModel(store history.Store, autosave bool) *HistoryModel {
	if store == nil {
		store = history.Disabled{}
	}
	return &HistoryModel{store: store, slot: history.FirstSlot, autosave: autosave}
}

// Select makes slot current for later save and load. Out of range values are ignored.
func (h *HistoryModel) Select(slot int) {
	if history.ValidateSlot(slot) != nil {
		return
	}
	h.slot = slot
}

func (h *HistoryModel) Slot() int { return h.slot }

func (h *HistoryModel) Autosave() bool { return h.autosave }

// Save writes the current request into the current slot
func (h *HistoryModel) Save(m *MessagesModel) error {
	method := m.SelectedMethod()
	if method == nil {
		return nil
	}

	snap := history.Snapshot{
		Address:  m.headers.Address(),
		Auth:     m.headers.Auth(),
		Metadata: m.headers.Metadata(),
		Body:     m.Request.GetTextRaw(),
	}
	if err := h.store.Save(method.FullName(), h.slot, snap); err != nil {
		return fmt.Errorf("failed to save slot %d: %w", h.slot, err)
	}
	return nil
}

// Load replaces the request with the current slot. It reports false when
// the slot is empty.
func (h *HistoryModel) Load(m *MessagesModel) (bool, error) {
	method := m.SelectedMethod()
	if method == nil {
		return false, nil
	}

	snap, err := h.store.Load(method.FullName(), h.slot)
	if errors.Is(err, history.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load slot %d: %w", h.slot, err)
	}

	m.Request.SetTextRaw(snap.Body)
	m.Request.SetError(nil)
	if snap.Address != "" {
		m.headers.SetAddress(snap.Address)
	}
	m.headers.SetAuth(snap.Auth)
	m.headers.SetMetadata(snap.Metadata)
	return true, nil
}

// Delete removes every slot of the selected method
func (h *HistoryModel) Delete(m *MessagesModel) error {
	method := m.SelectedMethod()
	if method == nil {
		return nil
	}
	if err := h.store.Delete(method.FullName()); err != nil {
		return fmt.Errorf("failed to delete history: %w", err)
	}
	return nil
}

// SavedSlots lists the occupied slots of a method
func (h *HistoryModel) SavedSlots(fullName string) []int {
	slots, err := h.store.Slots(fullName)
	if err != nil {
		slog.Warn("failed to list history slots", "method", fullName, "error", err)
		return nil
	}
	return slots
}
