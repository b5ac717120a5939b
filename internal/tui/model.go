package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/studiowebux/rpccli/internal/catalog"
	"github.com/studiowebux/rpccli/internal/clipboard"
	"github.com/studiowebux/rpccli/internal/config"
	"github.com/studiowebux/rpccli/internal/history"
	"github.com/studiowebux/rpccli/internal/keybinds"
	"github.com/studiowebux/rpccli/internal/model"
	"github.com/studiowebux/rpccli/internal/rpc"
)

// Options are the collaborators of one TUI run
type Options struct {
	Config    *config.Config
	Catalog   *catalog.Catalog
	Client    rpc.Client
	History   history.Store
	Keys      *keybinds.Registry
	Clipboard clipboard.Clipboard
}

// rpcResultMsg carries a finished call back to the event loop
type rpcResultMsg struct {
	result model.Result
}

// Model is the bubbletea model of the application
type Model struct {
	controller *Controller
	panels     *Panels

	width  int
	height int

	cancel context.CancelFunc
}

// New wires the panel models and the controller
func New(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	clip := opts.Clipboard
	if clip == nil {
		clip = clipboard.Unavailable{}
	}
	store := opts.History
	if store == nil {
		store = history.Disabled{}
	}

	headers := model.NewHeadersModel(cfg.Server.DefaultAddress, clip)
	hist := model.NewHistoryModel(store, cfg.History.Autosave)
	panels := &Panels{
		Selection: model.NewSelectionModel(opts.Catalog),
		Headers:   headers,
		History:   hist,
		Messages:  model.NewMessagesModel(opts.Client, headers, hist, clip),
	}

	controller := NewController(panels, opts.Keys)
	controller.Context().ShowHelp = !cfg.UI.HideFooterHelp

	return Model{controller: controller, panels: panels}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		if m.controller.OnEvent(msg) {
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}
		// rows added by this key need a width
		m.resize()
		if call, ok := m.controller.TakePendingCall(); ok {
			cmd := m.execute(call)
			return m, cmd
		}
		return m, nil

	case rpcResultMsg:
		m.panels.Messages.ApplyResult(msg.result)
		return m, nil
	}

	return m, nil
}

// execute runs call off the event loop. "Processing..." is already in the
// response editor and is rendered before the result arrives.
func (m *Model) execute(call model.Call) tea.Cmd {
	if m.cancel != nil {
		m.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel

	messages := m.panels.Messages
	return func() tea.Msg {
		return rpcResultMsg{result: messages.Execute(ctx, call)}
	}
}

func (m *Model) resize() {
	if m.width == 0 {
		return
	}
	width := m.width - PanelBorderWidth
	bodyHeight := m.height - NavbarHeight - FooterHeight

	editorHeight := bodyHeight/2 - PanelOverheadLines
	m.panels.Messages.Request.SetSize(width, editorHeight)
	m.panels.Messages.Response.SetSize(width, editorHeight)

	headers := m.panels.Headers
	headers.AddressEditor().SetSize(width, 1)
	headers.BearerEditor().SetSize(width, 1)
	headers.BasicEditor().SetSize(width, 1)
	for _, row := range headers.MetaRows() {
		row.Key.SetSize(width/2-MetaColumnGap, 1)
		row.Value.SetSize(width/2-MetaColumnGap, 1)
	}
}

// Run starts the TUI and blocks until it exits
func Run(opts Options) error {
	p := tea.NewProgram(New(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
