package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/studiowebux/rpccli/internal/editor"
	"github.com/studiowebux/rpccli/internal/history"
	"github.com/studiowebux/rpccli/internal/keybinds"
	"github.com/studiowebux/rpccli/internal/model"
	"github.com/studiowebux/rpccli/internal/rpc"
)

// Adaptive color definitions for light/dark terminal support
var (
	colorGreen  = lipgloss.AdaptiveColor{Light: "#006400", Dark: "#00ff00"}
	colorRed    = lipgloss.AdaptiveColor{Light: "#8b0000", Dark: "#ff0000"}
	colorYellow = lipgloss.AdaptiveColor{Light: "#b8860b", Dark: "#ffff00"}
	colorGray   = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#888888"}
	colorCyan   = lipgloss.AdaptiveColor{Light: "#008b8b", Dark: "#00ffff"}
)

// Style definitions
var (
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan)

	styleSelected = lipgloss.NewStyle().
			Background(lipgloss.AdaptiveColor{Light: "#d3d3d3", Dark: "#3a3a3a"}).
			Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#ffffff"})

	styleTabActive = lipgloss.NewStyle().
			Bold(true).
			Underline(true).
			Foreground(colorCyan).
			Padding(0, 1)

	styleTab = lipgloss.NewStyle().
			Foreground(colorGray).
			Padding(0, 1)

	styleSuccess = lipgloss.NewStyle().
			Foreground(colorGreen)

	styleError = lipgloss.NewStyle().
			Foreground(colorRed)

	styleWarning = lipgloss.NewStyle().
			Foreground(colorYellow)

	styleSubtle = lipgloss.NewStyle().
			Foreground(colorGray)
)

// footerActions lists, per context, the actions shown in the help footer
var footerActions = map[keybinds.Context][]keybinds.Action{
	keybinds.ContextGlobal: {
		keybinds.ActionNextTab, keybinds.ActionToggleAddress, keybinds.ActionToggleMetadata,
		keybinds.ActionToggleHelp, keybinds.ActionQuit,
	},
	keybinds.ContextSelection: {
		keybinds.ActionSelect, keybinds.ActionBack, keybinds.ActionNavigateDown,
		keybinds.ActionNextSub, keybinds.ActionOpenFilter,
	},
	keybinds.ContextFilter: {keybinds.ActionFilterApply, keybinds.ActionFilterCancel},
	keybinds.ContextMessages: {
		keybinds.ActionExecute, keybinds.ActionNextSub, keybinds.ActionFormatJSON,
		keybinds.ActionYankRequest, keybinds.ActionHistorySave, keybinds.ActionHistoryLoad,
		keybinds.ActionHistoryDelete,
	},
	keybinds.ContextHeaders:     {keybinds.ActionNavigateDown, keybinds.ActionNavigateUp, keybinds.ActionBack},
	keybinds.ContextHeadersNone: {keybinds.ActionSelect, keybinds.ActionHeaderAdd},
	keybinds.ContextHeadersAuth: {keybinds.ActionSwitchField},
	keybinds.ContextHeadersMeta: {keybinds.ActionSwitchField, keybinds.ActionHeaderAdd, keybinds.ActionHeaderDelete},
	keybinds.ContextInsert:      {keybinds.ActionNormalMode},
}

const defaultWidth = 80

// View renders the navbar, the active tab and the footer
func (m Model) View() string {
	parts := []string{m.renderNavbar(), m.renderBody()}
	if footer := m.renderFooter(); footer != "" {
		parts = append(parts, footer)
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) contentWidth() int {
	if m.width == 0 {
		return defaultWidth
	}
	return m.width
}

func (m Model) renderNavbar() string {
	ctx := m.controller.Context()

	tabs := make([]string, 0, tabCount)
	for t := TabSelection; t.Index() < tabCount; t++ {
		style := styleTab
		if t == ctx.Tab {
			style = styleTabActive
		}
		tabs = append(tabs, style.Render(fmt.Sprintf("%d %s", t.Index()+1, t)))
	}

	var status []string
	messages := m.panels.Messages
	if method := messages.SelectedMethod(); method != nil {
		status = append(status, styleTitle.Render(method.FullName()))
		status = append(status, styleSubtle.Render(fmt.Sprintf("slot %d", m.panels.History.Slot())))
	}
	if messages.IsProcessing() {
		status = append(status, styleWarning.Render(model.ProcessingText))
	}

	left := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	right := strings.Join(status, "  ")
	gap := m.contentWidth() - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right + "\n" + styleSubtle.Render(strings.Repeat("─", m.contentWidth()))
}

func (m Model) renderBody() string {
	switch m.controller.Context().Tab {
	case TabMessages:
		return m.renderMessages()
	case TabHeaders:
		return m.renderHeaders()
	default:
		return m.renderSelection()
	}
}

func (m Model) box(title, content string, active bool, width int) string {
	border := colorGray
	if active {
		border = colorCyan
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(width - 2).
		Render(styleTitle.Render(title) + "\n" + content)
}

func (m Model) renderSelection() string {
	ctx := m.controller.Context()
	selection := m.panels.Selection
	half := m.contentWidth() / 2

	var services []string
	selectedService := selection.SelectedService()
	for _, svc := range selection.Services() {
		services = append(services, listItem(svc.Name, selectedService != nil && svc.Name == selectedService.Name))
	}
	if len(services) == 0 {
		services = append(services, styleSubtle.Render("no services"))
	}

	var methods []string
	selectedMethod := selection.SelectedMethod()
	for _, method := range selection.Methods() {
		methods = append(methods, listItem(method.Name, selectedMethod != nil && method.Name == selectedMethod.Name))
	}

	filter := m.controller.selection.FilterView()
	serviceList := strings.Join(services, "\n")
	methodList := strings.Join(methods, "\n")
	if filter != "" {
		if ctx.Sub == 0 {
			serviceList += "\n" + filter
		} else {
			methodList += "\n" + filter
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		m.box("Services", serviceList, ctx.Sub == 0, half),
		m.box("Methods", methodList, ctx.Sub == 1, m.contentWidth()-half),
	)
}

func listItem(name string, selected bool) string {
	if selected {
		return styleSelected.Render("> " + name)
	}
	return "  " + name
}

func (m Model) renderMessages() string {
	ctx := m.controller.Context()
	messages := m.panels.Messages
	width := m.contentWidth()

	requestTitle := "Request"
	if method := messages.SelectedMethod(); method != nil {
		requestTitle += "  " + m.renderSlots(method.FullName())
	}

	responseTitle := "Response"
	if resp := messages.LastResponse(); resp != nil {
		responseTitle += "  " + styleSuccess.Render(resp.Status) + " " + styleSubtle.Render(rpc.FormatDuration(resp.Duration))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.box(requestTitle, messages.Request.View(), ctx.Sub == 0, width),
		m.box(responseTitle, messages.Response.View(), ctx.Sub == 1, width),
	)
}

// renderSlots marks saved slots and brackets the current one
func (m Model) renderSlots(fullName string) string {
	saved := make(map[int]bool)
	for _, slot := range m.panels.History.SavedSlots(fullName) {
		saved[slot] = true
	}

	slots := make([]string, 0, history.LastSlot)
	for slot := history.FirstSlot; slot <= history.LastSlot; slot++ {
		label := fmt.Sprintf("%d", slot)
		if slot == m.panels.History.Slot() {
			label = "[" + label + "]"
		}
		if saved[slot] {
			slots = append(slots, styleSuccess.Render(label))
		} else {
			slots = append(slots, styleSubtle.Render(label))
		}
	}
	return strings.Join(slots, " ")
}

func (m Model) renderHeaders() string {
	headers := m.panels.Headers
	width := m.contentWidth()
	selected := headers.Selected()

	bearer, basic := styleTab.Render("Bearer"), styleTab.Render("Basic")
	authEditor := headers.BearerEditor()
	if headers.AuthKind() == model.AuthBasic {
		basic = styleTabActive.Render("Basic")
		authEditor = headers.BasicEditor()
	} else {
		bearer = styleTabActive.Render("Bearer")
	}

	var rows []string
	cursor := headers.Cursor()
	for i, row := range headers.MetaRows() {
		line := renderCell(row.Key, cursor != nil && cursor.Row == i && cursor.Col == 0) +
			styleSubtle.Render(" : ") +
			renderCell(row.Value, cursor != nil && cursor.Row == i && cursor.Col == 1)
		rows = append(rows, line)
	}
	if len(rows) == 0 {
		rows = append(rows, styleSubtle.Render("no metadata"))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.box("Address", headers.AddressEditor().View(), selected == model.SelectAddr, width),
		m.box("Auth "+bearer+basic, authEditor.View(), selected == model.SelectAuth, width),
		m.box("Metadata", strings.Join(rows, "\n"), selected == model.SelectMeta, width),
	)
}

func renderCell(e *editor.TextEditor, selected bool) string {
	if selected {
		return e.View()
	}
	text := e.GetTextRaw()
	if text == "" {
		return styleSubtle.Render("…")
	}
	return text
}

func (m Model) renderFooter() string {
	if !m.controller.Context().ShowHelp {
		return ""
	}

	keys := m.controller.Keys()
	var items []string
	for _, ctx := range m.controller.ActiveContexts() {
		for _, action := range footerActions[ctx] {
			binding := keys.GetBindingString(ctx, action)
			if binding == "unbound" {
				continue
			}
			items = append(items, styleTitle.Render(binding)+" "+styleSubtle.Render(keybinds.Describe(action)))
		}
	}

	footer := strings.Join(items, "  ")
	if err := m.statusError(); err != "" {
		footer += "\n" + styleError.Render(err)
	}
	return footer
}

// statusError surfaces the response error on tabs where the editor is hidden
func (m Model) statusError() string {
	if m.controller.Context().Tab == TabMessages {
		return ""
	}
	if err := m.panels.Messages.Response.Error(); err != nil {
		return err.String()
	}
	return ""
}
