package editor

import "fmt"

const (
	// KindFormat tags a JSON formatting failure
	KindFormat = "Format Error"
	// KindDefault tags any other failure shown in an editor, such as a failed call
	KindDefault = "Error"
)

// ErrorKind is a diagnostic shown inline below an editor
type ErrorKind struct {
	Kind string
	Msg  string
}

// NewFormatError returns a Format Error with the parser message
func NewFormatError(msg string) *ErrorKind {
	return &ErrorKind{Kind: KindFormat, Msg: msg}
}

// NewError returns a generic Error
func NewError(msg string) *ErrorKind {
	return &ErrorKind{Kind: KindDefault, Msg: msg}
}

func (e *ErrorKind) String() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}
