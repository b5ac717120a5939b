package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/studiowebux/rpccli/internal/keybinds"
	"github.com/studiowebux/rpccli/internal/model"
)

// HeadersInput dispatches keys on the headers tab
type HeadersInput struct {
	ctx     *AppContext
	keys    *keybinds.Registry
	headers *model.HeadersModel
}

func NewHeadersInput(ctx *AppContext, keys *keybinds.Registry, headers *model.HeadersModel) *HeadersInput {
	return &HeadersInput{ctx: ctx, keys: keys, headers: headers}
}

func (h *HeadersInput) insertMode() bool {
	return h.headers.InsertMode()
}

func (h *HeadersInput) contexts() []keybinds.Context {
	switch h.headers.Selected() {
	case model.SelectNone:
		return []keybinds.Context{keybinds.ContextHeadersNone, keybinds.ContextHeaders}
	case model.SelectAuth:
		return []keybinds.Context{keybinds.ContextHeadersAuth, keybinds.ContextHeaders}
	case model.SelectMeta:
		return []keybinds.Context{keybinds.ContextHeadersMeta, keybinds.ContextHeaders}
	default:
		return []keybinds.Context{keybinds.ContextHeaders}
	}
}

func (h *HeadersInput) handleNormal(msg tea.KeyMsg) bool {
	action, ok := h.keys.MatchOnly(msg.String(), h.contexts()...)
	if !ok {
		return false
	}

	switch action {
	case keybinds.ActionNavigateUp:
		if h.headers.BlockPrev() {
			h.headers.PrevRow()
		} else {
			h.headers.Prev()
		}
	case keybinds.ActionNavigateDown:
		if h.headers.BlockNext() {
			h.headers.NextRow()
		} else {
			h.headers.Next()
		}
	case keybinds.ActionBack:
		h.headers.Select(model.SelectNone)
	case keybinds.ActionSelect:
		h.headers.Next()
	case keybinds.ActionHeaderAdd:
		h.headers.AddMeta()
	case keybinds.ActionHeaderDelete:
		h.headers.RemoveMeta()
	case keybinds.ActionSwitchField:
		switch h.headers.Selected() {
		case model.SelectAuth:
			h.headers.SwitchAuth()
		case model.SelectMeta:
			h.headers.SwitchColumn()
		default:
			return false
		}
	default:
		return false
	}
	return true
}

func (h *HeadersInput) handleFallback(msg tea.KeyMsg) {
	if e := h.headers.ActiveEditor(); e != nil {
		e.OnKey(msg)
	}
}

func (h *HeadersInput) handleInsert(msg tea.KeyMsg) {
	if e := h.headers.ActiveEditor(); e != nil {
		e.OnKey(msg)
	}
}
