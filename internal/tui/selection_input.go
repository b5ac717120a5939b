package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/studiowebux/rpccli/internal/keybinds"
	"github.com/studiowebux/rpccli/internal/model"
)

// SelectionInput dispatches keys on the selection tab. Sub 0 is the service
// list, sub 1 the method list.
type SelectionInput struct {
	ctx       *AppContext
	keys      *keybinds.Registry
	selection *model.SelectionModel
	messages  *model.MessagesModel

	filter    textinput.Model
	filtering bool
}

func NewSelectionInput(ctx *AppContext, keys *keybinds.Registry, selection *model.SelectionModel, messages *model.MessagesModel) *SelectionInput {
	filter := textinput.New()
	filter.Prompt = "/"
	filter.CharLimit = 64

	return &SelectionInput{
		ctx:       ctx,
		keys:      keys,
		selection: selection,
		messages:  messages,
		filter:    filter,
	}
}

func (s *SelectionInput) insertMode() bool {
	return s.filtering
}

func (s *SelectionInput) contexts() []keybinds.Context {
	return []keybinds.Context{keybinds.ContextSelection}
}

// FilterView renders the filter input, empty when no filter is set
func (s *SelectionInput) FilterView() string {
	if !s.filtering && s.selection.Filter(s.list()) == "" {
		return ""
	}
	return s.filter.View()
}

func (s *SelectionInput) handleNormal(msg tea.KeyMsg) bool {
	action, ok := s.keys.MatchOnly(msg.String(), keybinds.ContextSelection)
	if !ok {
		return false
	}

	switch action {
	case keybinds.ActionSelect:
		s.enter()
	case keybinds.ActionBack:
		if s.ctx.Sub == 1 {
			s.ctx.Sub = 0
			s.selection.ClearMethod()
			s.messages.ClearMethod()
		}
	case keybinds.ActionNextSub:
		s.ctx.NextSub()
	case keybinds.ActionPrevSub:
		s.ctx.PrevSub()
	case keybinds.ActionNavigateDown:
		s.move(true)
	case keybinds.ActionNavigateUp:
		s.move(false)
	case keybinds.ActionOpenFilter:
		s.filtering = true
		s.filter.SetValue(s.selection.Filter(s.list()))
		s.filter.CursorEnd()
		s.filter.Focus()
	default:
		return false
	}
	return true
}

func (s *SelectionInput) handleFallback(tea.KeyMsg) {}

func (s *SelectionInput) handleInsert(msg tea.KeyMsg) {
	action, _ := s.keys.MatchOnly(msg.String(), keybinds.ContextFilter)
	switch action {
	case keybinds.ActionFilterApply:
		s.closeFilter()
	case keybinds.ActionFilterCancel:
		s.selection.SetFilter(s.list(), "")
		s.filter.SetValue("")
		s.closeFilter()
	default:
		s.filter, _ = s.filter.Update(msg)
		s.selection.SetFilter(s.list(), s.filter.Value())
	}
}

func (s *SelectionInput) closeFilter() {
	s.filtering = false
	s.filter.Blur()
}

// enter on the service list opens its methods and loads the first one. On
// the method list it selects the first method, or moves on to the request.
func (s *SelectionInput) enter() {
	if s.ctx.Sub == 0 {
		if s.selection.SelectedService() == nil {
			s.selection.NextService()
		}
		if s.selection.SelectedService() == nil {
			return
		}
		s.ctx.Sub = 1
		if s.selection.SelectedMethod() == nil {
			s.selection.NextMethod()
		}
		s.load()
		return
	}

	if s.selection.SelectedMethod() == nil {
		s.selection.NextMethod()
		s.load()
		return
	}
	s.ctx.NextTab()
}

func (s *SelectionInput) move(down bool) {
	if s.ctx.Sub == 0 {
		if down {
			s.selection.NextService()
		} else {
			s.selection.PreviousService()
		}
		s.selection.ClearMethod()
		s.messages.ClearMethod()
		return
	}

	if down {
		s.selection.NextMethod()
	} else {
		s.selection.PreviousMethod()
	}
	s.load()
}

// load hands the selected method to the messages model unless it is
// already loaded
func (s *SelectionInput) load() {
	method := s.selection.SelectedMethod()
	if method == nil {
		return
	}
	if current := s.messages.SelectedMethod(); current != nil && current.FullName() == method.FullName() {
		return
	}
	s.messages.LoadMethod(*method)
}

func (s *SelectionInput) list() model.List {
	if s.ctx.Sub == 1 {
		return model.ListMethods
	}
	return model.ListServices
}
