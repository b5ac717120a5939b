// Package editor implements the modal text editor used by every panel that
// takes free text: request and response bodies, the address, auth fields and
// metadata cells.
//
// An editor starts in Normal mode where single keys move the cursor and edit
// the buffer. "i", "a", "I", "o" and "O" enter Insert mode, "esc" returns to
// Normal mode. Callers can only observe the mode through InsertMode.
//
// The line buffer is owned by TextEditor. The bubbles textarea only draws the
// visible window of it, so text comes back from GetTextRaw byte for byte.
package editor

import (
	"log/slog"
	"slices"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/studiowebux/rpccli/internal/clipboard"
)

// Mode is the editing mode of a TextEditor
type Mode int

const (
	ModeNormal Mode = iota
	ModeInsert
)

const (
	tabWidth      = 4
	defaultWidth  = 40
	defaultHeight = 6
)

func (m Mode) String() string {
	if m == ModeInsert {
		return "INSERT"
	}
	return "NORMAL"
}

var (
	styleErrorLine = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#8b0000", Dark: "#ff0000"})
	styleModeInsert = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#006400", Dark: "#00ff00"})
)

// TextEditor is an editable buffer with a Normal/Insert mode, an error slot
// and clipboard access
type TextEditor struct {
	lines [][]rune
	row   int
	col   int

	// first visible line and first visible cell
	top  int
	left int

	width  int
	height int
	area   textarea.Model

	mode       Mode
	err        *ErrorKind
	focus      bool
	singleLine bool
	clip       clipboard.Clipboard
}

// New returns an empty multi-line editor
func New(clip clipboard.Clipboard) *TextEditor {
	if clip == nil {
		clip = clipboard.Unavailable{}
	}

	area := textarea.New()
	area.CharLimit = 0
	area.MaxHeight = 0
	area.ShowLineNumbers = false
	area.Prompt = ""
	area.Placeholder = ""
	area.Cursor.SetMode(cursor.CursorStatic)
	area.Focus()

	return &TextEditor{
		lines:  [][]rune{{}},
		width:  defaultWidth,
		height: defaultHeight,
		area:   area,
		clip:   clip,
	}
}

// NewSingleLine returns an editor where "enter" leaves Insert mode instead of
// breaking the line
func NewSingleLine(clip clipboard.Clipboard) *TextEditor {
	e := New(clip)
	e.singleLine = true
	e.height = 1
	return e
}

// InsertMode reports whether keys are currently taken as text input
func (e *TextEditor) InsertMode() bool {
	return e.mode == ModeInsert
}

// Mode returns the current mode
func (e *TextEditor) Mode() Mode {
	return e.mode
}

// GetTextRaw returns the buffer as newline joined lines
func (e *TextEditor) GetTextRaw() string {
	var b strings.Builder
	for i, line := range e.lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(string(line))
	}
	return b.String()
}

// SetTextRaw replaces the whole buffer and leaves the cursor at its end.
// A single trailing newline is dropped and CRLF line endings are normalized.
func (e *TextEditor) SetTextRaw(text string) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	if e.singleLine {
		text = strings.ReplaceAll(text, "\n", " ")
	}

	parts := strings.Split(text, "\n")
	e.lines = make([][]rune, len(parts))
	for i, part := range parts {
		e.lines[i] = []rune(part)
	}
	e.row = len(e.lines) - 1
	e.col = len(e.lines[e.row])
	e.top, e.left = 0, 0
}

// FormatJSON pretty prints the buffer. On failure the buffer is left as is
// and a Format Error is stored.
func (e *TextEditor) FormatJSON() bool {
	formatted, err := PrettyFormatJSON(e.GetTextRaw())
	if err != nil {
		e.err = NewFormatError(err.Error())
		return false
	}

	e.SetTextRaw(formatted)
	e.err = nil
	return true
}

// Yank copies the whole buffer to the clipboard
func (e *TextEditor) Yank() {
	e.YankToClipboard(e.GetTextRaw())
}

// YankToClipboard copies text to the clipboard. Failures are ignored.
func (e *TextEditor) YankToClipboard(text string) {
	if err := e.clip.WriteText(text); err != nil {
		slog.Debug("clipboard write failed", "error", err)
	}
}

// PasteFromClipboard inserts the clipboard text at the cursor one rune at a time
func (e *TextEditor) PasteFromClipboard() {
	text, err := e.clip.ReadText()
	if err != nil {
		slog.Debug("clipboard read failed", "error", err)
		return
	}
	e.insertText(text)
}

// Clear empties the buffer
func (e *TextEditor) Clear() {
	e.lines = [][]rune{{}}
	e.row, e.col = 0, 0
	e.top, e.left = 0, 0
}

// IsEmpty reports whether the buffer has no text
func (e *TextEditor) IsEmpty() bool {
	return len(e.lines) == 1 && len(e.lines[0]) == 0
}

// Error returns the stored diagnostic, or nil
func (e *TextEditor) Error() *ErrorKind {
	return e.err
}

// SetError stores a diagnostic. Passing nil clears it.
func (e *TextEditor) SetError(err *ErrorKind) {
	e.err = err
}

func (e *TextEditor) Focus()        { e.focus = true }
func (e *TextEditor) Unfocus()      { e.focus = false }
func (e *TextEditor) Focused() bool { return e.focus }

// SetSize sets the rendered width and height
func (e *TextEditor) SetSize(width, height int) {
	if width > 0 {
		e.width = width
	}
	if height > 0 && !e.singleLine {
		e.height = height
	}
}

// Line returns the zero based row of the cursor
func (e *TextEditor) Line() int {
	return e.row
}

// Column returns the cursor position in runes within its line
func (e *TextEditor) Column() int {
	return e.col
}

// OnKey applies one key press
func (e *TextEditor) OnKey(msg tea.KeyMsg) {
	if e.mode == ModeInsert {
		e.onInsertKey(msg)
		return
	}
	e.onNormalKey(msg)
}

func (e *TextEditor) onInsertKey(msg tea.KeyMsg) {
	switch msg.String() {
	case "esc":
		e.mode = ModeNormal
	case "enter":
		if e.singleLine {
			e.mode = ModeNormal
			return
		}
		e.insertRune('\n')
	case "ctrl+v":
		e.PasteFromClipboard()
	case "tab":
		if !e.singleLine {
			e.insertRune('\t')
		}
	case "backspace", "ctrl+h":
		e.deleteBackward()
	case "delete", "ctrl+d":
		e.deleteForward()
	case "left", "ctrl+b":
		e.moveLeft()
	case "right", "ctrl+f":
		e.moveRight()
	case "up":
		e.moveUp()
	case "down":
		e.moveDown()
	case "home", "ctrl+a":
		e.col = 0
	case "end", "ctrl+e":
		e.col = len(e.lines[e.row])
	case "alt+left", "alt+b":
		e.wordLeft()
	case "alt+right", "alt+f":
		e.wordRight()
	case "ctrl+k":
		e.lines[e.row] = e.lines[e.row][:e.col]
	case "ctrl+u":
		e.lines[e.row] = slices.Clone(e.lines[e.row][e.col:])
		e.col = 0
	default:
		switch msg.Type {
		case tea.KeySpace:
			e.insertRune(' ')
		case tea.KeyRunes:
			e.insertText(string(msg.Runes))
		}
	}
}

func (e *TextEditor) onNormalKey(msg tea.KeyMsg) {
	switch msg.String() {
	case "i":
		e.mode = ModeInsert
	case "a":
		if e.col < len(e.lines[e.row]) {
			e.col++
		}
		e.mode = ModeInsert
	case "I":
		e.col = 0
		e.mode = ModeInsert
	case "o":
		if !e.singleLine {
			e.col = len(e.lines[e.row])
			e.insertRune('\n')
		}
		e.mode = ModeInsert
	case "O":
		if !e.singleLine {
			e.col = 0
			e.insertRune('\n')
			e.moveUp()
		}
		e.mode = ModeInsert
	case "h", "left":
		e.moveLeft()
	case "l", "right":
		e.moveRight()
	case "k", "up":
		e.moveUp()
	case "j", "down":
		e.moveDown()
	case "w":
		e.wordRight()
	case "b":
		e.wordLeft()
	case "0", "home":
		e.col = 0
	case "$", "end":
		e.col = len(e.lines[e.row])
	case "g":
		e.row, e.col = 0, 0
	case "G":
		e.row = len(e.lines) - 1
		e.col = len(e.lines[e.row])
	case "x", "delete":
		e.deleteForward()
	case "D":
		e.lines[e.row] = e.lines[e.row][:e.col]
	case "p":
		e.PasteFromClipboard()
	case "y":
		e.Yank()
	}
}

func (e *TextEditor) insertText(text string) {
	for _, r := range strings.ReplaceAll(text, "\r\n", "\n") {
		e.insertRune(r)
	}
}

func (e *TextEditor) insertRune(r rune) {
	if r == '\n' {
		if e.singleLine {
			return
		}
		line := e.lines[e.row]
		head := slices.Clone(line[:e.col])
		tail := slices.Clone(line[e.col:])
		e.lines[e.row] = head
		e.lines = slices.Insert(e.lines, e.row+1, tail)
		e.row++
		e.col = 0
		return
	}
	e.lines[e.row] = slices.Insert(e.lines[e.row], e.col, r)
	e.col++
}

func (e *TextEditor) deleteBackward() {
	if e.col > 0 {
		e.lines[e.row] = slices.Delete(e.lines[e.row], e.col-1, e.col)
		e.col--
		return
	}
	if e.row == 0 {
		return
	}
	prev := len(e.lines[e.row-1])
	e.lines[e.row-1] = append(e.lines[e.row-1], e.lines[e.row]...)
	e.lines = slices.Delete(e.lines, e.row, e.row+1)
	e.row--
	e.col = prev
}

func (e *TextEditor) deleteForward() {
	if e.col < len(e.lines[e.row]) {
		e.lines[e.row] = slices.Delete(e.lines[e.row], e.col, e.col+1)
		return
	}
	if e.row == len(e.lines)-1 {
		return
	}
	e.lines[e.row] = append(e.lines[e.row], e.lines[e.row+1]...)
	e.lines = slices.Delete(e.lines, e.row+1, e.row+2)
}

func (e *TextEditor) moveLeft() {
	if e.col > 0 {
		e.col--
	} else if e.row > 0 {
		e.row--
		e.col = len(e.lines[e.row])
	}
}

func (e *TextEditor) moveRight() {
	if e.col < len(e.lines[e.row]) {
		e.col++
	} else if e.row < len(e.lines)-1 {
		e.row++
		e.col = 0
	}
}

func (e *TextEditor) moveUp() {
	if e.row > 0 {
		e.row--
		e.col = min(e.col, len(e.lines[e.row]))
	}
}

func (e *TextEditor) moveDown() {
	if e.row < len(e.lines)-1 {
		e.row++
		e.col = min(e.col, len(e.lines[e.row]))
	}
}

func (e *TextEditor) wordRight() {
	line := e.lines[e.row]
	for e.col < len(line) && unicode.IsSpace(line[e.col]) {
		e.col++
	}
	for e.col < len(line) && !unicode.IsSpace(line[e.col]) {
		e.col++
	}
}

func (e *TextEditor) wordLeft() {
	line := e.lines[e.row]
	for e.col > 0 && unicode.IsSpace(line[e.col-1]) {
		e.col--
	}
	for e.col > 0 && !unicode.IsSpace(line[e.col-1]) {
		e.col--
	}
}

// View renders the buffer followed by the mode line or the stored error
func (e *TextEditor) View() string {
	e.render()
	if !e.focus {
		e.area.Blur()
	}

	var b strings.Builder
	b.WriteString(e.area.View())
	e.area.Focus()

	if e.err != nil {
		b.WriteString("\n")
		b.WriteString(styleErrorLine.Render(e.err.String()))
	} else if e.focus && e.mode == ModeInsert {
		b.WriteString("\n")
		b.WriteString(styleModeInsert.Render("-- " + e.mode.String() + " --"))
	}
	return b.String()
}

// render loads the visible window into the textarea and places its cursor
func (e *TextEditor) render() {
	avail := max(e.width-1, 1)

	if e.row < e.top {
		e.top = e.row
	}
	if e.row >= e.top+e.height {
		e.top = e.row - e.height + 1
	}
	cursorCell := cellWidth(displayRunes(e.lines[e.row][:e.col]))
	if cursorCell < e.left {
		e.left = cursorCell
	}
	if cursorCell >= e.left+avail {
		e.left = cursorCell - avail + 1
	}

	end := min(e.top+e.height, len(e.lines))
	window := make([]string, 0, end-e.top)
	cursorRune := 0
	for i := e.top; i < end; i++ {
		shown, before := clipCells(displayRunes(e.lines[i]), e.left, avail, cursorCell)
		if i == e.row {
			cursorRune = before
		}
		window = append(window, string(shown))
	}

	e.area.SetWidth(e.width)
	e.area.SetHeight(e.height)
	e.area.SetValue(strings.Join(window, "\n"))
	for i := len(window) - 1; i > e.row-e.top; i-- {
		e.area.CursorUp()
	}
	e.area.SetCursor(cursorRune)
}

// displayRunes expands tabs and replaces control characters so the textarea
// shows one rune for every rune it is given
func displayRunes(line []rune) []rune {
	out := make([]rune, 0, len(line))
	for _, r := range line {
		switch {
		case r == '\t':
			for range tabWidth {
				out = append(out, ' ')
			}
		case unicode.IsControl(r):
			out = append(out, '?')
		default:
			out = append(out, r)
		}
	}
	return out
}

func cellWidth(runes []rune) int {
	w := 0
	for _, r := range runes {
		w += runewidth.RuneWidth(r)
	}
	return w
}

// clipCells keeps the runes inside [left, left+width) cells and counts how
// many of them start before cursorCell
func clipCells(runes []rune, left, width, cursorCell int) ([]rune, int) {
	var shown []rune
	before, cell := 0, 0
	for _, r := range runes {
		w := runewidth.RuneWidth(r)
		if cell >= left && cell+w <= left+width {
			shown = append(shown, r)
			if cell < cursorCell {
				before++
			}
		}
		cell += w
	}
	return shown, before
}
