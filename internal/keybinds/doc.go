/*
Package keybinds maps key presses to actions per input context.

The registry is the single routing table of the TUI: every dispatcher asks it
which action a key triggers instead of switching on key names itself, and the
help footer is rendered from the same table.

# Contexts

	global        quit, tab switching, help/address/metadata toggles
	selection     service and method lists
	filter        selection filter input
	messages      request and response editors, history slots
	headers       zone navigation on the headers tab
	headers_none  headers tab with no zone selected
	headers_auth  authentication zone
	headers_meta  metadata table
	insert        any editor in insert mode (help only)

Lookups check the given contexts in order and fall back to global. Global
bindings are root events: the TUI ignores them while an editor captures input.

# Configuration File Format

~/.rpccli/keybinds.json maps actions to comma separated keys per context:

	{
	  "messages": {
	    "history_save": "ctrl+s,ctrl+w",
	    "execute": "enter"
	  },
	  "global": {
	    "toggle_help": "?"
	  }
	}

A configured action replaces all of its default keys in that context.

# Reserved Keys

ctrl+c always force quits and q always quits in normal mode. The validator
warns when either is bound to another action.
*/
package keybinds
