package tui

import "github.com/studiowebux/rpccli/internal/keybinds"

// Tab is a top-level page
type Tab int

const (
	TabSelection Tab = iota
	TabMessages
	TabHeaders
)

const tabCount = 3

var tabNames = [tabCount]string{"Selection", "Messages", "Headers"}

// Next returns the following tab, wrapping around
func (t Tab) Next() Tab {
	return Tab((int(t) + 1) % tabCount)
}

// Prev returns the preceding tab, wrapping around
func (t Tab) Prev() Tab {
	return Tab((int(t) + tabCount - 1) % tabCount)
}

func (t Tab) Index() int {
	return int(t)
}

func (t Tab) String() string {
	if t < 0 || int(t) >= tabCount {
		return "Unknown"
	}
	return tabNames[t]
}

// Context returns the keybind context of the tab's normal mode
func (t Tab) Context() keybinds.Context {
	switch t {
	case TabMessages:
		return keybinds.ContextMessages
	case TabHeaders:
		return keybinds.ContextHeaders
	default:
		return keybinds.ContextSelection
	}
}

// subCount is the number of sub-windows cycled by up/down
func (t Tab) subCount() int {
	switch t {
	case TabSelection, TabMessages:
		return 2
	default:
		return 1
	}
}

// AppContext is the UI state shared by every dispatcher for one run
type AppContext struct {
	Tab Tab
	// Sub selects a region inside the tab, reset on every tab change
	Sub int
	// DisableRootEvents gates the global bindings while an editor takes input
	DisableRootEvents bool
	ShowHelp          bool
}

func (c *AppContext) SetTab(t Tab) {
	c.Tab = t
	c.Sub = 0
}

func (c *AppContext) NextTab() { c.SetTab(c.Tab.Next()) }

func (c *AppContext) PrevTab() { c.SetTab(c.Tab.Prev()) }

func (c *AppContext) NextSub() {
	c.Sub = (c.Sub + 1) % c.Tab.subCount()
}

func (c *AppContext) PrevSub() {
	n := c.Tab.subCount()
	c.Sub = (c.Sub + n - 1) % n
}
