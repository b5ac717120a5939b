package keybinds

// Action represents a user action that can be triggered by a keybinding
type Action string

// Context represents the context in which keybindings are active
type Context string

const (
	ContextGlobal      Context = "global"       // Root events, gated while an editor captures input
	ContextSelection   Context = "selection"    // Service and method lists
	ContextFilter      Context = "filter"       // Selection filter input
	ContextMessages    Context = "messages"     // Request and response editors
	ContextHeaders     Context = "headers"      // Zone navigation on the headers tab
	ContextHeadersNone Context = "headers_none" // Headers tab, nothing selected
	ContextHeadersAuth Context = "headers_auth" // Authentication zone
	ContextHeadersMeta Context = "headers_meta" // Metadata table
	ContextInsert      Context = "insert"       // Any editor in insert mode
)

const (
	// Root actions
	ActionQuit           Action = "quit"
	ActionQuitForce      Action = "quit_force"
	ActionNextTab        Action = "next_tab"
	ActionPrevTab        Action = "prev_tab"
	ActionToggleHelp     Action = "toggle_help"
	ActionToggleAddress  Action = "toggle_address"
	ActionToggleMetadata Action = "toggle_metadata"

	// Navigation
	ActionNextSub      Action = "next_sub"
	ActionPrevSub      Action = "prev_sub"
	ActionNavigateUp   Action = "navigate_up"
	ActionNavigateDown Action = "navigate_down"
	ActionSelect       Action = "select"
	ActionBack         Action = "back"

	// Selection filter
	ActionOpenFilter   Action = "open_filter"
	ActionFilterApply  Action = "filter_apply"
	ActionFilterCancel Action = "filter_cancel"

	// Messages
	ActionExecute     Action = "execute"
	ActionFormatJSON  Action = "format_json"
	ActionYankRequest Action = "yank_request"

	// History
	ActionHistorySave   Action = "history_save"
	ActionHistoryLoad   Action = "history_load"
	ActionHistoryDelete Action = "history_delete"
	ActionHistorySlot1  Action = "history_slot_1"
	ActionHistorySlot2  Action = "history_slot_2"
	ActionHistorySlot3  Action = "history_slot_3"
	ActionHistorySlot4  Action = "history_slot_4"
	ActionHistorySlot5  Action = "history_slot_5"

	// Headers
	ActionHeaderAdd    Action = "header_add"
	ActionHeaderDelete Action = "header_delete"
	ActionSwitchField  Action = "switch_field"

	// Insert mode
	ActionNormalMode Action = "normal_mode"
)

// HistorySlot returns the slot index (1-5) of a history_slot_N action
func HistorySlot(action Action) (int, bool) {
	switch action {
	case ActionHistorySlot1:
		return 1, true
	case ActionHistorySlot2:
		return 2, true
	case ActionHistorySlot3:
		return 3, true
	case ActionHistorySlot4:
		return 4, true
	case ActionHistorySlot5:
		return 5, true
	}
	return 0, false
}

var descriptions = map[Action]string{
	ActionQuit:           "Quit",
	ActionQuitForce:      "Force quit",
	ActionNextTab:        "Next tab",
	ActionPrevTab:        "Prev tab",
	ActionToggleHelp:     "Help",
	ActionToggleAddress:  "Address",
	ActionToggleMetadata: "Metadata",
	ActionNextSub:        "Next",
	ActionPrevSub:        "Prev",
	ActionNavigateUp:     "Up",
	ActionNavigateDown:   "Down",
	ActionSelect:         "Select",
	ActionBack:           "Back",
	ActionOpenFilter:     "Filter",
	ActionFilterApply:    "Apply",
	ActionFilterCancel:   "Clear filter",
	ActionExecute:        "Send",
	ActionFormatJSON:     "Format",
	ActionYankRequest:    "Yank request",
	ActionHistorySave:    "Save",
	ActionHistoryLoad:    "Load",
	ActionHistoryDelete:  "Reset",
	ActionHistorySlot1:   "Slot 1",
	ActionHistorySlot2:   "Slot 2",
	ActionHistorySlot3:   "Slot 3",
	ActionHistorySlot4:   "Slot 4",
	ActionHistorySlot5:   "Slot 5",
	ActionHeaderAdd:      "Add header",
	ActionHeaderDelete:   "Remove header",
	ActionSwitchField:    "Switch",
	ActionNormalMode:     "Normal mode",
}

// Describe returns the short help label of an action
func Describe(action Action) string {
	if d, ok := descriptions[action]; ok {
		return d
	}
	return string(action)
}

// KnownAction reports whether action is one the application handles
func KnownAction(action Action) bool {
	_, ok := descriptions[action]
	return ok
}
