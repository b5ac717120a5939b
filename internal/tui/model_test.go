package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/studiowebux/rpccli/internal/config"
	"github.com/studiowebux/rpccli/internal/keybinds"
	"github.com/studiowebux/rpccli/internal/model"
)

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	updated, ok := next.(Model)
	if !ok {
		t.Fatalf("Expected Model, got %T", next)
	}
	return updated, cmd
}

func TestModel_CallRoundTrip(t *testing.T) {
	m, client := CreateTestModel(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})

	m, _ = update(t, m, key("enter"))
	m, _ = update(t, m, key("enter"))
	m, cmd := update(t, m, key("enter"))
	if cmd == nil {
		t.Fatal("Expected a command for the call")
	}

	if !strings.Contains(m.View(), model.ProcessingText) {
		t.Error("Expected the processing status to render before the result")
	}

	msg := cmd()
	if len(client.calls) != 1 {
		t.Fatalf("Expected 1 call, got %d", len(client.calls))
	}

	m, _ = update(t, m, msg)
	if m.panels.Messages.IsProcessing() {
		t.Error("Expected the call to be finished")
	}
	if got := m.panels.Messages.Response.GetTextRaw(); got != "{\n  \"message\": \"Hello\"\n}" {
		t.Errorf("Unexpected response %q", got)
	}
}

func TestModel_CallError(t *testing.T) {
	m, client := CreateTestModel(t)
	client.err = errors.New("connection refused")

	m, _ = update(t, m, key("enter"))
	m, _ = update(t, m, key("enter"))
	m, cmd := update(t, m, key("enter"))
	m, _ = update(t, m, cmd())

	errKind := m.panels.Messages.Response.Error()
	if errKind == nil || errKind.String() != "Error: connection refused" {
		t.Errorf("Expected the call error on the response editor, got %v", errKind)
	}
}

func TestModel_Quit(t *testing.T) {
	m, _ := CreateTestModel(t)

	_, cmd := update(t, m, key("q"))
	if cmd == nil {
		t.Fatal("Expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Expected tea.QuitMsg")
	}
}

func TestModel_FooterFollowsMode(t *testing.T) {
	m, _ := CreateTestModel(t)

	view := m.View()
	if !strings.Contains(view, "Selection") || !strings.Contains(view, "helloworld.Greeter") {
		t.Error("Expected the selection tab with services")
	}
	if !strings.Contains(view, "Filter") {
		t.Error("Expected selection help in the footer")
	}

	m, _ = update(t, m, key("enter"))
	m, _ = update(t, m, key("enter"))
	m, _ = update(t, m, key("i"))
	view = m.View()
	if !strings.Contains(view, "Normal mode") {
		t.Error("Expected the insert mode footer")
	}
	if strings.Contains(view, "Send") {
		t.Error("Expected normal mode help to be hidden in insert mode")
	}

	m, _ = update(t, m, key("esc"))
	m, _ = update(t, m, key("H"))
	if strings.Contains(m.View(), "Send") {
		t.Error("Expected H to hide the footer")
	}
}

func TestModel_HideFooterHelpConfig(t *testing.T) {
	m, _ := CreateTestModel(t)
	if !m.controller.Context().ShowHelp {
		t.Error("Expected help shown by default")
	}

	cfg := config.Default()
	cfg.UI.HideFooterHelp = true
	hidden := New(Options{Config: cfg, Catalog: testCatalog()})
	if hidden.controller.Context().ShowHelp {
		t.Error("Expected ui.hide_footer_help to start with the footer hidden")
	}
}

func TestModel_InsertExitFollowsKeybinds(t *testing.T) {
	keys := keybinds.NewDefaultRegistry()
	err := keybinds.ApplyConfig(keys, &keybinds.Config{Insert: map[string]string{"normal_mode": "ctrl+q"}})
	if err != nil {
		t.Fatalf("ApplyConfig: %v", err)
	}

	m, _ := CreateTestModelWithKeys(t, keys)
	m, _ = update(t, m, key("enter"))
	m, _ = update(t, m, key("enter"))
	m, _ = update(t, m, key("i"))
	if !m.controller.InsertMode() {
		t.Fatal("Expected insert mode after i")
	}
	if !strings.Contains(m.View(), "ctrl+q") {
		t.Error("Expected the footer to show the configured normal mode key")
	}

	m, _ = update(t, m, key("esc"))
	if !m.controller.InsertMode() {
		t.Error("esc is no longer bound and must not leave insert mode")
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlQ})
	if m.controller.InsertMode() {
		t.Error("Expected ctrl+q to leave insert mode")
	}
}
