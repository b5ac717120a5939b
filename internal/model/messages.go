package model

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/studiowebux/rpccli/internal/catalog"
	"github.com/studiowebux/rpccli/internal/clipboard"
	"github.com/studiowebux/rpccli/internal/editor"
	"github.com/studiowebux/rpccli/internal/rpc"
)

// ProcessingText is shown in the response editor while a call is in flight
const ProcessingText = "Processing..."

var errNoMethod = errors.New("no method selected")

// Call is a dispatched request waiting for its result
type Call struct {
	ID      uint64
	Request rpc.Request
}

// Result is the outcome of a Call
type Result struct {
	ID       uint64
	Response *rpc.Response
	Err      error
}

// MessagesModel owns the request and response editors of the selected method
type MessagesModel struct {
	Request  *editor.TextEditor
	Response *editor.TextEditor

	client  rpc.Client
	headers *HeadersModel
	history *HistoryModel

	method     *catalog.Method
	processing bool
	callID     uint64
	last       *rpc.Response
}

func NewMessagesModel(client rpc.Client, headers *HeadersModel, hist *HistoryModel, clip clipboard.Clipboard) *MessagesModel {
	return &MessagesModel{
		Request:  editor.New(clip),
		Response: editor.New(clip),
		client:   client,
		headers:  headers,
		history:  hist,
	}
}

func (m *MessagesModel) SelectedMethod() *catalog.Method {
	return m.method
}

func (m *MessagesModel) Headers() *HeadersModel { return m.headers }

func (m *MessagesModel) History() *HistoryModel { return m.history }

// LastResponse returns the last successful response, nil after an error
func (m *MessagesModel) LastResponse() *rpc.Response { return m.last }

// LoadMethod selects a method and fills the request from its template,
// then from the current history slot when one is saved
func (m *MessagesModel) LoadMethod(method catalog.Method) {
	m.method = &method
	m.processing = false
	m.last = nil

	m.Request.SetTextRaw(method.Request)
	m.Request.SetError(nil)
	if method.Address != "" {
		m.headers.SetAddress(method.Address)
	}
	m.LoadHistory()

	m.Response.Clear()
	m.Response.SetError(nil)
}

// ClearMethod drops the method and empties both editors
func (m *MessagesModel) ClearMethod() {
	m.method = nil
	m.processing = false
	m.last = nil
	m.Request.Clear()
	m.Request.SetError(nil)
	m.Response.Clear()
	m.Response.SetError(nil)
}

func (m *MessagesModel) IsProcessing() bool {
	return m.processing
}

// StartRequest marks a call in flight and returns it. Without a method it
// stores an error on the response editor instead.
func (m *MessagesModel) StartRequest() (Call, bool) {
	if m.method == nil {
		m.Response.SetError(editor.NewError(errNoMethod.Error()))
		return Call{}, false
	}

	m.callID++
	m.processing = true
	m.Response.SetTextRaw(ProcessingText)
	m.Response.SetError(nil)

	return Call{ID: m.callID, Request: m.buildRequest()}, true
}

// Execute performs the call. It only touches the client and can run off the
// event loop.
func (m *MessagesModel) Execute(ctx context.Context, call Call) Result {
	start := time.Now()
	resp, err := m.client.Call(ctx, call.Request)
	slog.Info("rpc call",
		"service", call.Request.Service,
		"method", call.Request.Method,
		"address", call.Request.Address,
		"duration", time.Since(start),
		"error", err,
	)
	return Result{ID: call.ID, Response: resp, Err: err}
}

// ApplyResult shows the outcome of the in-flight call. Results of older
// calls are dropped and false is returned.
func (m *MessagesModel) ApplyResult(res Result) bool {
	if !m.processing || res.ID != m.callID {
		slog.Debug("dropping stale rpc result", "id", res.ID, "current", m.callID)
		return false
	}
	m.processing = false

	if res.Err != nil {
		m.last = nil
		m.Response.Clear()
		m.Response.SetError(editor.NewError(res.Err.Error()))
		return true
	}

	m.last = res.Response
	body := res.Response.Body
	if pretty, err := editor.PrettyFormatJSON(body); err == nil {
		body = pretty
	}
	m.Response.SetTextRaw(body)
	m.Response.SetError(nil)
	return true
}

// YankRequest copies the request as a curl command, or as a JSON-RPC
// envelope for WebSocket addresses
func (m *MessagesModel) YankRequest() {
	if m.method == nil {
		return
	}

	req := m.buildRequest()
	text := rpc.Curl(req)
	if rpc.IsWebSocket(req.Address) {
		envelope, err := rpc.EnvelopeText(req)
		if err != nil {
			m.Request.SetError(editor.NewFormatError(err.Error()))
			return
		}
		text = envelope
	}
	m.Request.YankToClipboard(text)
}

// SaveHistory writes the request into the current slot
func (m *MessagesModel) SaveHistory() {
	if err := m.history.Save(m); err != nil {
		slog.Warn("history save failed", "error", err)
	}
}

// LoadHistory replaces the request with the current slot, if saved
func (m *MessagesModel) LoadHistory() {
	if _, err := m.history.Load(m); err != nil {
		slog.Warn("history load failed", "error", err)
	}
}

// DeleteHistory removes every slot of the method and resets the request to
// its template and the headers to their defaults
func (m *MessagesModel) DeleteHistory() {
	if m.method == nil {
		return
	}
	if err := m.history.Delete(m); err != nil {
		slog.Warn("history delete failed", "error", err)
	}
	m.resetToTemplate()
}

// ReloadHistory autosaves when enabled, selects slot and loads it. An empty
// slot resets the request to the method template and the headers to their
// defaults.
func (m *MessagesModel) ReloadHistory(slot int) {
	if m.history.Autosave() {
		m.SaveHistory()
	}
	m.history.Select(slot)

	loaded, err := m.history.Load(m)
	if err != nil {
		slog.Warn("history load failed", "error", err)
		return
	}
	if !loaded {
		m.resetToTemplate()
	}
}

func (m *MessagesModel) resetToTemplate() {
	if m.method == nil {
		return
	}
	m.Request.SetTextRaw(m.method.Request)
	m.Request.SetError(nil)
	m.headers.Clear()
	if m.method.Address != "" {
		m.headers.SetAddress(m.method.Address)
	}
}

func (m *MessagesModel) buildRequest() rpc.Request {
	return rpc.Request{
		Address: m.headers.Address(),
		Service: m.method.Service,
		Method:  m.method.Name,
		Body:    m.Request.GetTextRaw(),
		Headers: m.headers.Headers(),
	}
}

// InsertMode reports whether either editor takes text input
func (m *MessagesModel) InsertMode() bool {
	return m.Request.InsertMode() || m.Response.InsertMode()
}
