package editor

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiowebux/rpccli/internal/clipboard"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(e *TextEditor, text string) {
	for _, r := range text {
		e.OnKey(runes(string(r)))
	}
}

func TestSetTextRaw_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"single line", `{"name": "x"}`, `{"name": "x"}`},
		{"multi line", "{\n  \"a\": 1\n}", "{\n  \"a\": 1\n}"},
		{"trailing newline dropped", "a\nb\n", "a\nb"},
		{"interior blank lines kept", "a\n\n\nb", "a\n\n\nb"},
		{"crlf normalized", "a\r\nb", "a\nb"},
		{"tab kept", "a\tb", "a\tb"},
		{"tab indented json", "{\n\t\"a\": 1\n}", "{\n\t\"a\": 1\n}"},
		{"utf-8", "{\"name\": \"héllo 世界\"}", "{\"name\": \"héllo 世界\"}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(nil)
			e.SetTextRaw(tt.in)
			assert.Equal(t, tt.want, e.GetTextRaw())
		})
	}
}

func TestSetTextRaw_RoundTripSurvivesRender(t *testing.T) {
	e := New(nil)
	e.SetSize(10, 2)
	in := "{\n\t\"long_key_name\": \"a value wider than the box\",\n\t\"b\": 2\n}"
	e.SetTextRaw(in)

	view := e.View()
	assert.NotContains(t, view, "\t")
	assert.Equal(t, in, e.GetTextRaw())
}

func TestInsertMode_TabsAndEditing(t *testing.T) {
	e := New(nil)
	e.OnKey(runes("i"))
	e.OnKey(tea.KeyMsg{Type: tea.KeyTab})
	typeText(e, "ab")
	e.OnKey(tea.KeyMsg{Type: tea.KeyEnter})
	typeText(e, "c")
	assert.Equal(t, "\tab\nc", e.GetTextRaw())

	// backspace at the start of a line joins it with the previous one
	e.OnKey(tea.KeyMsg{Type: tea.KeyBackspace})
	e.OnKey(tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, "\tab", e.GetTextRaw())
	assert.Equal(t, 0, e.Line())
	assert.Equal(t, 3, e.Column())

	e.OnKey(tea.KeyMsg{Type: tea.KeyHome})
	e.OnKey(tea.KeyMsg{Type: tea.KeyDelete})
	assert.Equal(t, "ab", e.GetTextRaw())
}

func TestPasteKeepsTabs(t *testing.T) {
	cb := clipboard.NewMemory()
	require.NoError(t, cb.WriteText("{\r\n\t\"a\": 1\r\n}"))

	e := New(cb)
	e.PasteFromClipboard()
	assert.Equal(t, "{\n\t\"a\": 1\n}", e.GetTextRaw())
}

func TestNormalMode_Motions(t *testing.T) {
	e := New(nil)
	e.SetTextRaw("one two\nthree")

	e.OnKey(runes("g"))
	assert.Equal(t, 0, e.Line())
	assert.Equal(t, 0, e.Column())

	e.OnKey(runes("w"))
	assert.Equal(t, 3, e.Column())

	// moving down clamps the column to the shorter line
	e.OnKey(runes("$"))
	e.OnKey(runes("j"))
	assert.Equal(t, 1, e.Line())
	assert.Equal(t, 5, e.Column())

	e.OnKey(runes("O"))
	require.True(t, e.InsertMode())
	typeText(e, "mid")
	assert.Equal(t, "one two\nmid\nthree", e.GetTextRaw())
}

func TestSetTextRaw_ReplacesContent(t *testing.T) {
	e := New(nil)
	e.SetTextRaw("first\nsecond")
	e.SetTextRaw("third")
	assert.Equal(t, "third", e.GetTextRaw())
}

func TestFormatJSON(t *testing.T) {
	e := New(nil)
	e.SetTextRaw(`{"name":"x","tags":[1,2],"nested":{}}`)

	require.True(t, e.FormatJSON())
	want := "{\n  \"name\": \"x\",\n  \"tags\": [\n    1,\n    2\n  ],\n  \"nested\": {}\n}"
	assert.Equal(t, want, e.GetTextRaw())
	assert.Nil(t, e.Error())

	// idempotent
	require.True(t, e.FormatJSON())
	assert.Equal(t, want, e.GetTextRaw())
}

func TestFormatJSON_InvalidLeavesBufferUntouched(t *testing.T) {
	e := New(nil)
	e.SetTextRaw("{not json")

	assert.False(t, e.FormatJSON())
	assert.Equal(t, "{not json", e.GetTextRaw())
	require.NotNil(t, e.Error())
	assert.Equal(t, KindFormat, e.Error().Kind)
	assert.NotEmpty(t, e.Error().Msg)
}

func TestFormatJSON_SuccessClearsError(t *testing.T) {
	e := New(nil)
	e.SetTextRaw("{")
	require.False(t, e.FormatJSON())
	require.NotNil(t, e.Error())

	// unrelated keys keep the error visible
	e.OnKey(runes("l"))
	require.NotNil(t, e.Error())

	e.SetTextRaw(`{"a":1}`)
	require.True(t, e.FormatJSON())
	assert.Nil(t, e.Error())
}

func TestModeTransitions(t *testing.T) {
	e := New(nil)
	assert.False(t, e.InsertMode())

	e.OnKey(runes("i"))
	assert.True(t, e.InsertMode())

	typeText(e, "hey")
	assert.Equal(t, "hey", e.GetTextRaw())

	e.OnKey(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, e.InsertMode())

	// normal mode keys do not insert text
	e.OnKey(runes("q"))
	assert.Equal(t, "hey", e.GetTextRaw())
}

func TestNormalMode_Editing(t *testing.T) {
	e := New(nil)
	e.SetTextRaw("abc")

	e.OnKey(runes("0"))
	e.OnKey(runes("x"))
	assert.Equal(t, "bc", e.GetTextRaw())

	e.OnKey(runes("D"))
	assert.Equal(t, "", e.GetTextRaw())
	assert.True(t, e.IsEmpty())
}

func TestNormalMode_OpenLine(t *testing.T) {
	e := New(nil)
	e.SetTextRaw("first")

	e.OnKey(runes("o"))
	require.True(t, e.InsertMode())
	typeText(e, "second")
	assert.Equal(t, "first\nsecond", e.GetTextRaw())
}

func TestSingleLine_EnterLeavesInsertMode(t *testing.T) {
	e := NewSingleLine(nil)
	e.OnKey(runes("i"))
	typeText(e, "http://localhost")
	e.OnKey(tea.KeyMsg{Type: tea.KeyEnter})

	assert.False(t, e.InsertMode())
	assert.Equal(t, "http://localhost", e.GetTextRaw())
}

func TestYankAndPaste(t *testing.T) {
	cb := clipboard.NewMemory()
	e := New(cb)
	e.SetTextRaw(`{"a":1}`)
	e.Yank()

	text, err := cb.ReadText()
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, text)

	other := New(cb)
	other.PasteFromClipboard()
	assert.Equal(t, `{"a":1}`, other.GetTextRaw())

	other.YankToClipboard("line1\nline2")
	other.Clear()
	other.PasteFromClipboard()
	assert.Equal(t, "line1\nline2", other.GetTextRaw())
}

func TestClipboardUnavailableIsSilent(t *testing.T) {
	e := New(clipboard.Unavailable{})
	e.SetTextRaw("keep")

	e.Yank()
	e.PasteFromClipboard()
	e.OnKey(runes("p"))

	assert.Equal(t, "keep", e.GetTextRaw())
	assert.Nil(t, e.Error())
}

func TestSetError(t *testing.T) {
	e := New(nil)
	e.SetError(NewError("connection refused"))
	require.NotNil(t, e.Error())
	assert.Equal(t, "Error: connection refused", e.Error().String())
	assert.Contains(t, e.View(), "connection refused")

	e.SetError(nil)
	assert.Nil(t, e.Error())
}

func TestPrettyFormatJSON(t *testing.T) {
	out, err := PrettyFormatJSON("  [1, 2.50, \"x\"]  \n")
	require.NoError(t, err)
	assert.Equal(t, "[\n  1,\n  2.50,\n  \"x\"\n]", out)

	_, err = PrettyFormatJSON("")
	assert.Error(t, err)

	_, err = PrettyFormatJSON(`{"a":1} trailing`)
	assert.Error(t, err)

	assert.True(t, IsJSON(`{"a":1}`))
	assert.False(t, IsJSON("plain text"))
}
