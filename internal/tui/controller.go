package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/studiowebux/rpccli/internal/keybinds"
	"github.com/studiowebux/rpccli/internal/model"
)

// Panels is every panel model, owned by the event loop
type Panels struct {
	Selection *model.SelectionModel
	Messages  *model.MessagesModel
	Headers   *model.HeadersModel
	History   *model.HistoryModel
}

// input is the per-tab dispatch contract
type input interface {
	// handleNormal applies a tab binding and reports whether one matched
	handleNormal(msg tea.KeyMsg) bool
	// handleFallback receives keys no binding claimed
	handleFallback(msg tea.KeyMsg)
	handleInsert(msg tea.KeyMsg)
	insertMode() bool
	// contexts lists the active keybind contexts, most specific first
	contexts() []keybinds.Context
}

// Controller routes every key event to the active tab
type Controller struct {
	ctx    *AppContext
	keys   *keybinds.Registry
	panels *Panels

	selection *SelectionInput
	messages  *MessagesInput
	headers   *HeadersInput

	pending *model.Call
}

func NewController(panels *Panels, keys *keybinds.Registry) *Controller {
	if keys == nil {
		keys = keybinds.NewDefaultRegistry()
	}

	c := &Controller{
		ctx:    &AppContext{ShowHelp: true},
		keys:   keys,
		panels: panels,
	}
	c.selection = NewSelectionInput(c.ctx, keys, panels.Selection, panels.Messages)
	c.messages = NewMessagesInput(c.ctx, keys, panels.Messages, c.startRequest)
	c.headers = NewHeadersInput(c.ctx, keys, panels.Headers)
	c.syncFocus()
	return c
}

func (c *Controller) Context() *AppContext { return c.ctx }

func (c *Controller) Keys() *keybinds.Registry { return c.keys }

// InsertMode reports whether any live editor, or the selection filter,
// takes text input
func (c *Controller) InsertMode() bool {
	return c.selection.insertMode() || c.messages.insertMode() || c.headers.insertMode()
}

// OnEvent handles one key and reports whether the application should quit
func (c *Controller) OnEvent(msg tea.KeyMsg) bool {
	key := msg.String()
	global, isGlobal := c.keys.MatchOnly(key, keybinds.ContextGlobal)

	if isGlobal && global == keybinds.ActionQuitForce {
		return true
	}

	in := c.input()
	if c.InsertMode() {
		if msg, ok := c.insertKey(msg); ok {
			in.handleInsert(msg)
		}
	} else {
		if isGlobal && global == keybinds.ActionQuit && !c.ctx.DisableRootEvents {
			return true
		}
		if !in.handleNormal(msg) && !c.handleGlobal(global, isGlobal) {
			in.handleFallback(msg)
		}
	}

	c.panels.Headers.Normalize()
	c.ctx.DisableRootEvents = c.InsertMode()
	c.syncFocus()
	return false
}

// insertKey maps the keys bound to normal_mode onto the editors' own "esc".
// A bare "esc" that is no longer bound is dropped. The selection filter keeps
// its own bindings.
func (c *Controller) insertKey(msg tea.KeyMsg) (tea.KeyMsg, bool) {
	if c.selection.insertMode() {
		return msg, true
	}
	if action, ok := c.keys.MatchOnly(msg.String(), keybinds.ContextInsert); ok && action == keybinds.ActionNormalMode {
		return tea.KeyMsg{Type: tea.KeyEsc}, true
	}
	if msg.Type == tea.KeyEsc {
		return msg, false
	}
	return msg, true
}

// TakePendingCall returns the call started by the last event, once
func (c *Controller) TakePendingCall() (model.Call, bool) {
	if c.pending == nil {
		return model.Call{}, false
	}
	call := *c.pending
	c.pending = nil
	return call, true
}

// ActiveContexts lists the keybind contexts that apply right now
func (c *Controller) ActiveContexts() []keybinds.Context {
	if c.InsertMode() {
		if c.selection.insertMode() {
			return []keybinds.Context{keybinds.ContextFilter}
		}
		return []keybinds.Context{keybinds.ContextInsert}
	}
	return append(c.input().contexts(), keybinds.ContextGlobal)
}

func (c *Controller) input() input {
	switch c.ctx.Tab {
	case TabMessages:
		return c.messages
	case TabHeaders:
		return c.headers
	default:
		return c.selection
	}
}

func (c *Controller) handleGlobal(action keybinds.Action, ok bool) bool {
	if !ok || c.ctx.DisableRootEvents {
		return false
	}

	headers := c.panels.Headers
	switch action {
	case keybinds.ActionNextTab:
		c.ctx.NextTab()
	case keybinds.ActionPrevTab:
		c.ctx.PrevTab()
	case keybinds.ActionToggleHelp:
		c.ctx.ShowHelp = !c.ctx.ShowHelp
	case keybinds.ActionToggleAddress:
		if c.ctx.Tab == TabHeaders && headers.Selected() == model.SelectAddr {
			c.ctx.SetTab(TabMessages)
			headers.Select(model.SelectNone)
		} else {
			c.ctx.SetTab(TabHeaders)
			headers.Select(model.SelectAddr)
		}
	case keybinds.ActionToggleMetadata:
		if c.ctx.Tab == TabHeaders && headers.Selected() == model.SelectMeta {
			c.ctx.SetTab(TabMessages)
			headers.Select(model.SelectNone)
		} else {
			c.ctx.SetTab(TabHeaders)
			headers.Select(model.SelectMeta)
		}
	default:
		return false
	}
	return true
}

func (c *Controller) startRequest() {
	if call, ok := c.panels.Messages.StartRequest(); ok {
		c.pending = &call
	}
}

func (c *Controller) syncFocus() {
	messages := c.panels.Messages
	messages.Request.Unfocus()
	messages.Response.Unfocus()
	if c.ctx.Tab != TabMessages {
		return
	}
	if c.ctx.Sub == 0 {
		messages.Request.Focus()
	} else {
		messages.Response.Focus()
	}
}
