package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/studiowebux/rpccli/internal/editor"
	"github.com/studiowebux/rpccli/internal/keybinds"
	"github.com/studiowebux/rpccli/internal/model"
)

// MessagesInput dispatches keys on the messages tab. Sub 0 is the request
// editor, sub 1 the response editor.
type MessagesInput struct {
	ctx      *AppContext
	keys     *keybinds.Registry
	messages *model.MessagesModel
	execute  func()
}

func NewMessagesInput(ctx *AppContext, keys *keybinds.Registry, messages *model.MessagesModel, execute func()) *MessagesInput {
	return &MessagesInput{ctx: ctx, keys: keys, messages: messages, execute: execute}
}

func (m *MessagesInput) insertMode() bool {
	return m.messages.InsertMode()
}

func (m *MessagesInput) contexts() []keybinds.Context {
	return []keybinds.Context{keybinds.ContextMessages}
}

func (m *MessagesInput) handleNormal(msg tea.KeyMsg) bool {
	action, ok := m.keys.MatchOnly(msg.String(), keybinds.ContextMessages)
	if !ok {
		return false
	}

	if slot, ok := keybinds.HistorySlot(action); ok {
		m.messages.ReloadHistory(slot)
		return true
	}

	switch action {
	case keybinds.ActionNextSub:
		m.ctx.NextSub()
	case keybinds.ActionPrevSub:
		m.ctx.PrevSub()
	case keybinds.ActionExecute:
		if m.ctx.Sub != 0 {
			return false
		}
		m.execute()
	case keybinds.ActionFormatJSON:
		m.active().FormatJSON()
	case keybinds.ActionYankRequest:
		m.messages.YankRequest()
	case keybinds.ActionHistorySave:
		m.messages.SaveHistory()
	case keybinds.ActionHistoryLoad:
		m.messages.LoadHistory()
	case keybinds.ActionHistoryDelete:
		m.messages.DeleteHistory()
	default:
		return false
	}
	return true
}

func (m *MessagesInput) handleFallback(msg tea.KeyMsg) {
	m.active().OnKey(msg)
}

func (m *MessagesInput) handleInsert(msg tea.KeyMsg) {
	m.active().OnKey(msg)
}

func (m *MessagesInput) active() *editor.TextEditor {
	if m.ctx.Sub == 1 {
		return m.messages.Response
	}
	return m.messages.Request
}
