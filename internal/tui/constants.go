package tui

// UI Layout Constants

const (
	NavbarHeight       = 2 // Tab bar + rule
	FooterHeight       = 2 // Help line + status line
	PanelBorderWidth   = 4 // Border + padding of a panel box
	PanelOverheadLines = 3 // Border (2) + title (1)
	MetaColumnGap      = 2 // Space between metadata key and value
)
