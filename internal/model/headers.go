package model

import (
	"encoding/base64"
	"strings"

	"github.com/studiowebux/rpccli/internal/clipboard"
	"github.com/studiowebux/rpccli/internal/editor"
	"github.com/studiowebux/rpccli/internal/history"
)

// HeadersSelection is the focused zone of the headers tab
type HeadersSelection int

const (
	SelectNone HeadersSelection = iota
	SelectAddr
	SelectAuth
	SelectMeta
)

func (s HeadersSelection) String() string {
	switch s {
	case SelectAddr:
		return "Address"
	case SelectAuth:
		return "Auth"
	case SelectMeta:
		return "Metadata"
	default:
		return "None"
	}
}

// AuthKind is the active authentication field
type AuthKind int

const (
	AuthBearer AuthKind = iota
	AuthBasic
)

func (k AuthKind) String() string {
	if k == AuthBasic {
		return "basic"
	}
	return "bearer"
}

func parseAuthKind(s string) AuthKind {
	if s == "basic" {
		return AuthBasic
	}
	return AuthBearer
}

// MetaCursor is the position inside the metadata table. Col 0 is the key,
// col 1 the value.
type MetaCursor struct {
	Row int
	Col int
}

// MetaRow is one metadata key/value pair
type MetaRow struct {
	Key   *editor.TextEditor
	Value *editor.TextEditor
}

// HeadersModel owns the address, auth and metadata fields and the zone
// selection between them.
type HeadersModel struct {
	clip           clipboard.Clipboard
	defaultAddress string

	address *editor.TextEditor
	bearer  *editor.TextEditor
	basic   *editor.TextEditor
	auth    AuthKind
	meta    []MetaRow

	selected HeadersSelection
	cursor   *MetaCursor
}

func NewHeadersModel(defaultAddress string, clip clipboard.Clipboard) *HeadersModel {
	m := &HeadersModel{
		clip:           clip,
		defaultAddress: defaultAddress,
		address:        editor.NewSingleLine(clip),
		bearer:         editor.NewSingleLine(clip),
		basic:          editor.NewSingleLine(clip),
	}
	m.address.SetTextRaw(defaultAddress)
	return m
}

func (m *HeadersModel) Selected() HeadersSelection {
	return m.selected
}

// Select focuses a zone. Meta on an empty list is kept until Normalize runs.
func (m *HeadersModel) Select(s HeadersSelection) {
	if s == SelectMeta && m.selected != SelectMeta && len(m.meta) > 0 {
		m.cursor = &MetaCursor{}
	}
	if s != SelectMeta {
		m.cursor = nil
	}
	m.selected = s
	m.updateFocus()
}

// Normalize snaps an invalid Meta selection back to None. Called after
// every key dispatch.
func (m *HeadersModel) Normalize() {
	if m.selected == SelectMeta && len(m.meta) == 0 {
		m.selected = SelectNone
		m.cursor = nil
		m.updateFocus()
	}
}

// Next moves to the following zone. The order does not wrap.
func (m *HeadersModel) Next() {
	switch m.selected {
	case SelectNone:
		m.Select(SelectAddr)
	case SelectAddr:
		m.Select(SelectAuth)
	case SelectAuth:
		if len(m.meta) > 0 {
			m.Select(SelectMeta)
		}
	}
}

// Prev moves to the preceding zone. The order does not wrap.
func (m *HeadersModel) Prev() {
	switch m.selected {
	case SelectNone:
		if len(m.meta) > 0 {
			m.Select(SelectMeta)
			m.cursor.Row = len(m.meta) - 1
			m.updateFocus()
			return
		}
		m.Select(SelectAuth)
	case SelectAuth:
		m.Select(SelectAddr)
	case SelectMeta:
		m.Select(SelectAuth)
	}
}

// BlockNext reports whether the metadata cursor can still move down
func (m *HeadersModel) BlockNext() bool {
	return m.selected == SelectMeta && m.cursor != nil && m.cursor.Row < len(m.meta)-1
}

// BlockPrev reports whether the metadata cursor can still move up
func (m *HeadersModel) BlockPrev() bool {
	return m.selected == SelectMeta && m.cursor != nil && m.cursor.Row > 0
}

func (m *HeadersModel) NextRow() {
	if m.cursor == nil {
		return
	}
	if m.cursor.Row < len(m.meta)-1 {
		m.cursor.Row++
	}
	m.updateFocus()
}

func (m *HeadersModel) PrevRow() {
	if m.cursor == nil {
		return
	}
	if m.cursor.Row > 0 {
		m.cursor.Row--
	}
	m.updateFocus()
}

// Cursor returns the metadata cursor, nil when no row is selected
func (m *HeadersModel) Cursor() *MetaCursor {
	if m.cursor == nil {
		return nil
	}
	c := *m.cursor
	return &c
}

// AddMeta appends an empty row and selects its key
func (m *HeadersModel) AddMeta() {
	m.meta = append(m.meta, MetaRow{
		Key:   editor.NewSingleLine(m.clip),
		Value: editor.NewSingleLine(m.clip),
	})
	m.selected = SelectMeta
	m.cursor = &MetaCursor{Row: len(m.meta) - 1}
	m.updateFocus()
}

// RemoveMeta deletes the row under the cursor
func (m *HeadersModel) RemoveMeta() {
	if m.cursor == nil || m.cursor.Row >= len(m.meta) {
		return
	}
	row := m.cursor.Row
	m.meta = append(m.meta[:row], m.meta[row+1:]...)

	if len(m.meta) == 0 {
		m.cursor = nil
		m.selected = SelectNone
	} else if m.cursor.Row >= len(m.meta) {
		m.cursor.Row = len(m.meta) - 1
	}
	m.updateFocus()
}

// SwitchColumn toggles the metadata cursor between key and value
func (m *HeadersModel) SwitchColumn() {
	if m.cursor == nil {
		return
	}
	m.cursor.Col = 1 - m.cursor.Col
	m.updateFocus()
}

// SwitchAuth toggles between the bearer and basic fields
func (m *HeadersModel) SwitchAuth() {
	if m.auth == AuthBearer {
		m.auth = AuthBasic
	} else {
		m.auth = AuthBearer
	}
	m.updateFocus()
}

func (m *HeadersModel) AuthKind() AuthKind {
	return m.auth
}

// ActiveEditor returns the editor of the focused zone, nil for None
func (m *HeadersModel) ActiveEditor() *editor.TextEditor {
	switch m.selected {
	case SelectAddr:
		return m.address
	case SelectAuth:
		if m.auth == AuthBasic {
			return m.basic
		}
		return m.bearer
	case SelectMeta:
		if m.cursor == nil || m.cursor.Row >= len(m.meta) {
			return nil
		}
		row := m.meta[m.cursor.Row]
		if m.cursor.Col == 1 {
			return row.Value
		}
		return row.Key
	}
	return nil
}

// InsertMode reports whether any header editor takes text input
func (m *HeadersModel) InsertMode() bool {
	for _, e := range m.editors() {
		if e.InsertMode() {
			return true
		}
	}
	return false
}

func (m *HeadersModel) AddressEditor() *editor.TextEditor { return m.address }
func (m *HeadersModel) BearerEditor() *editor.TextEditor  { return m.bearer }
func (m *HeadersModel) BasicEditor() *editor.TextEditor   { return m.basic }
func (m *HeadersModel) MetaRows() []MetaRow               { return m.meta }

// Address returns the trimmed address text
func (m *HeadersModel) Address() string {
	return strings.TrimSpace(m.address.GetTextRaw())
}

func (m *HeadersModel) SetAddress(address string) {
	m.address.SetTextRaw(address)
}

// AuthHeader returns the authorization header value, empty when the active
// field is empty. Basic auth takes "user:password".
func (m *HeadersModel) AuthHeader() string {
	switch m.auth {
	case AuthBasic:
		creds := strings.TrimSpace(m.basic.GetTextRaw())
		if creds == "" {
			return ""
		}
		return "Basic " + base64.StdEncoding.EncodeToString([]byte(creds))
	default:
		token := strings.TrimSpace(m.bearer.GetTextRaw())
		if token == "" {
			return ""
		}
		return "Bearer " + token
	}
}

// Headers returns the metadata sent with a call. Keys are lower-cased and
// rows with an empty key are skipped.
func (m *HeadersModel) Headers() map[string]string {
	headers := make(map[string]string, len(m.meta)+1)
	for _, row := range m.meta {
		key := strings.ToLower(strings.TrimSpace(row.Key.GetTextRaw()))
		if key == "" {
			continue
		}
		headers[key] = row.Value.GetTextRaw()
	}
	if auth := m.AuthHeader(); auth != "" {
		headers["authorization"] = auth
	}
	return headers
}

// Metadata returns the rows in order
func (m *HeadersModel) Metadata() []history.MetadataEntry {
	entries := make([]history.MetadataEntry, 0, len(m.meta))
	for _, row := range m.meta {
		entries = append(entries, history.MetadataEntry{
			Key:   row.Key.GetTextRaw(),
			Value: row.Value.GetTextRaw(),
		})
	}
	return entries
}

// SetMetadata replaces every row
func (m *HeadersModel) SetMetadata(entries []history.MetadataEntry) {
	m.meta = make([]MetaRow, 0, len(entries))
	for _, entry := range entries {
		row := MetaRow{
			Key:   editor.NewSingleLine(m.clip),
			Value: editor.NewSingleLine(m.clip),
		}
		row.Key.SetTextRaw(entry.Key)
		row.Value.SetTextRaw(entry.Value)
		m.meta = append(m.meta, row)
	}

	if m.cursor != nil && m.cursor.Row >= len(m.meta) {
		if len(m.meta) == 0 {
			m.cursor = nil
		} else {
			m.cursor.Row = len(m.meta) - 1
		}
	}
	m.Normalize()
	m.updateFocus()
}

func (m *HeadersModel) Auth() history.Auth {
	return history.Auth{
		Selected: m.auth.String(),
		Bearer:   m.bearer.GetTextRaw(),
		Basic:    m.basic.GetTextRaw(),
	}
}

func (m *HeadersModel) SetAuth(auth history.Auth) {
	m.auth = parseAuthKind(auth.Selected)
	m.bearer.SetTextRaw(auth.Bearer)
	m.basic.SetTextRaw(auth.Basic)
	m.updateFocus()
}

// Clear empties auth and metadata and resets the address to the default
func (m *HeadersModel) Clear() {
	m.address.SetTextRaw(m.defaultAddress)
	m.bearer.Clear()
	m.basic.Clear()
	m.auth = AuthBearer
	m.meta = nil
	m.cursor = nil
	if m.selected == SelectMeta {
		m.selected = SelectNone
	}
	m.updateFocus()
}

func (m *HeadersModel) editors() []*editor.TextEditor {
	editors := []*editor.TextEditor{m.address, m.bearer, m.basic}
	for _, row := range m.meta {
		editors = append(editors, row.Key, row.Value)
	}
	return editors
}

func (m *HeadersModel) updateFocus() {
	active := m.ActiveEditor()
	for _, e := range m.editors() {
		if e == active {
			e.Focus()
		} else {
			e.Unfocus()
		}
	}
}
