package keybinds

// NewDefaultRegistry creates a registry with all default keybindings
func NewDefaultRegistry() *Registry {
	r := NewRegistry()

	registerGlobalBindings(r)
	registerSelectionBindings(r)
	registerFilterBindings(r)
	registerMessagesBindings(r)
	registerHeadersBindings(r)
	registerInsertBindings(r)

	return r
}

// registerGlobalBindings sets up the root events
func registerGlobalBindings(r *Registry) {
	r.Register(ContextGlobal, "ctrl+c", ActionQuitForce)
	r.Register(ContextGlobal, "q", ActionQuit)
	r.Register(ContextGlobal, "tab", ActionNextTab)
	r.Register(ContextGlobal, "shift+tab", ActionPrevTab)
	r.Register(ContextGlobal, "H", ActionToggleHelp)
	r.Register(ContextGlobal, "A", ActionToggleAddress)
	r.Register(ContextGlobal, "M", ActionToggleMetadata)
}

func registerSelectionBindings(r *Registry) {
	r.Register(ContextSelection, "enter", ActionSelect)
	r.Register(ContextSelection, "esc", ActionBack)
	r.Register(ContextSelection, "up", ActionPrevSub)
	r.Register(ContextSelection, "down", ActionNextSub)
	r.Register(ContextSelection, "k", ActionNavigateUp)
	r.Register(ContextSelection, "j", ActionNavigateDown)
	r.Register(ContextSelection, "/", ActionOpenFilter)
}

func registerFilterBindings(r *Registry) {
	r.Register(ContextFilter, "enter", ActionFilterApply)
	r.Register(ContextFilter, "esc", ActionFilterCancel)
}

func registerMessagesBindings(r *Registry) {
	r.Register(ContextMessages, "up", ActionPrevSub)
	r.Register(ContextMessages, "down", ActionNextSub)
	r.Register(ContextMessages, "enter", ActionExecute)
	r.Register(ContextMessages, "ctrl+f", ActionFormatJSON)
	r.Register(ContextMessages, "ctrl+y", ActionYankRequest)
	r.Register(ContextMessages, "ctrl+s", ActionHistorySave)
	r.Register(ContextMessages, "ctrl+l", ActionHistoryLoad)
	r.Register(ContextMessages, "ctrl+d", ActionHistoryDelete)
	r.Register(ContextMessages, "1", ActionHistorySlot1)
	r.Register(ContextMessages, "2", ActionHistorySlot2)
	r.Register(ContextMessages, "3", ActionHistorySlot3)
	r.Register(ContextMessages, "4", ActionHistorySlot4)
	r.Register(ContextMessages, "5", ActionHistorySlot5)
}

func registerHeadersBindings(r *Registry) {
	r.Register(ContextHeaders, "esc", ActionBack)
	r.RegisterMultiple(ContextHeaders, []string{"up", "k"}, ActionNavigateUp)
	r.RegisterMultiple(ContextHeaders, []string{"down", "j"}, ActionNavigateDown)

	r.Register(ContextHeadersNone, "enter", ActionSelect)
	r.RegisterMultiple(ContextHeadersNone, []string{"ctrl+h", "ctrl+a"}, ActionHeaderAdd)

	r.Register(ContextHeadersAuth, "tab", ActionSwitchField)

	r.Register(ContextHeadersMeta, "tab", ActionSwitchField)
	r.RegisterMultiple(ContextHeadersMeta, []string{"ctrl+h", "ctrl+a"}, ActionHeaderAdd)
	r.Register(ContextHeadersMeta, "ctrl+d", ActionHeaderDelete)
}

func registerInsertBindings(r *Registry) {
	r.Register(ContextInsert, "esc", ActionNormalMode)
}
