// Package model holds the state behind each tab of the TUI: the service and
// method selection, the request and response editors, the header fields and
// the history slots.
//
// Models are owned by a single event loop and are not safe for concurrent
// use. The only method meant to run off the loop is MessagesModel.Execute.
package model
