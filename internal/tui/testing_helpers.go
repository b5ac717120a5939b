package tui

import (
	"context"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/studiowebux/rpccli/internal/catalog"
	"github.com/studiowebux/rpccli/internal/clipboard"
	"github.com/studiowebux/rpccli/internal/config"
	"github.com/studiowebux/rpccli/internal/history"
	"github.com/studiowebux/rpccli/internal/keybinds"
	"github.com/studiowebux/rpccli/internal/rpc"
)

// stubClient answers every call with the same response
type stubClient struct {
	calls []rpc.Request
	resp  *rpc.Response
	err   error
}

func (s *stubClient) Call(_ context.Context, req rpc.Request) (*rpc.Response, error) {
	s.calls = append(s.calls, req)
	return s.resp, s.err
}

// testCatalog returns two services with two and one methods
func testCatalog() *catalog.Catalog {
	return &catalog.Catalog{Services: []catalog.Service{
		{Name: "helloworld.Greeter", Methods: []catalog.Method{
			{Service: "helloworld.Greeter", Name: "SayGoodbye", Request: `{"name":"bye"}`},
			{Service: "helloworld.Greeter", Name: "SayHello", Request: `{"name":""}`},
		}},
		{Name: "shop.Orders", Methods: []catalog.Method{
			{Service: "shop.Orders", Name: "Get", Request: `{"id":1}`},
		}},
	}}
}

// CreateTestModel creates a Model backed by a temporary history database
func CreateTestModel(t *testing.T) (Model, *stubClient) {
	t.Helper()
	return CreateTestModelWithKeys(t, nil)
}

// CreateTestModelWithKeys is CreateTestModel with custom key bindings
func CreateTestModelWithKeys(t *testing.T, keys *keybinds.Registry) (Model, *stubClient) {
	t.Helper()

	store, err := history.NewManager(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Failed to open history database: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	cfg := config.Default()
	cfg.History.Autosave = true

	client := &stubClient{resp: &rpc.Response{Body: `{"message":"Hello"}`, Status: "200 OK"}}
	m := New(Options{
		Config:    cfg,
		Catalog:   testCatalog(),
		Client:    client,
		History:   store,
		Keys:      keys,
		Clipboard: clipboard.NewMemory(),
	})
	return m, client
}

// CreateTestController returns the controller of a test model
func CreateTestController(t *testing.T) (*Controller, *Panels) {
	t.Helper()
	m, _ := CreateTestModel(t)
	return m.controller, m.panels
}

// key builds a KeyMsg from its string name
func key(name string) tea.KeyMsg {
	switch name {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "ctrl+h":
		return tea.KeyMsg{Type: tea.KeyCtrlH}
	case "ctrl+d":
		return tea.KeyMsg{Type: tea.KeyCtrlD}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+f":
		return tea.KeyMsg{Type: tea.KeyCtrlF}
	case "ctrl+y":
		return tea.KeyMsg{Type: tea.KeyCtrlY}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(name)}
}

// press sends keys in order and reports whether any of them quit
func press(c *Controller, names ...string) bool {
	quit := false
	for _, name := range names {
		if c.OnEvent(key(name)) {
			quit = true
		}
	}
	return quit
}

// typeText sends each rune of text as its own key
func typeText(c *Controller, text string) {
	for _, r := range text {
		c.OnEvent(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}
