/*
Package tui implements the terminal user interface of rpccli.

# Architecture

The TUI follows the Bubble Tea framework's Model-Update-View pattern:
  - model.go: the bubbletea Model, wiring and the asynchronous call command
  - controller.go: key routing between insert mode, global bindings and tabs
  - selection_input.go, messages_input.go, headers_input.go: one dispatcher per tab
  - render.go: View rendering

# Key routing

Every key goes through Controller.OnEvent:
  - ctrl+c quits unconditionally
  - while any editor is in insert mode the key goes to the active tab's
    insert handler and no global binding is evaluated
  - otherwise "q" quits, then the tab's own bindings are tried, then the
    global bindings, and any key left over reaches the focused editor

After each key the "root events disabled" flag is recomputed from the
editors, and an empty metadata selection snaps back to None.

# Calls

Sending a request puts "Processing..." in the response editor and returns a
tea.Cmd that performs the call. Its result comes back as a message; results
of superseded calls are dropped.
*/
package tui
