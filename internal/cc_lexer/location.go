package cc_lexer

import "github.com/c17core/c17core/internal/logger"

// Location is the richer source position spec.md section 3.1 asks a token
// to carry: a filename, a 1-based row and 0-based column, and the byte
// offset of the start of that row within the buffer. Unlike logger.Loc
// (a bare byte offset used for substring extraction), Location survives
// "# line file" linemarker directives rewriting the apparent file and row
// without touching the underlying byte buffer.
type Location struct {
	File      string
	Row       int
	Col       int
	LineStart int32
}

// MsgLocation bridges a Location back to the logger's printable form,
// reusing the teacher's line-text slicing logic for the LineText field.
func (loc Location) MsgLocation(source *logger.Source, r logger.Range) *logger.MsgLocation {
	ml := logger.LocationOrNil(source, r)
	if ml == nil {
		return nil
	}
	// Linemarkers can make the apparent file/row diverge from the physical
	// buffer; Location always wins for what's displayed to the user.
	ml.File = loc.File
	ml.Line = loc.Row
	ml.Column = loc.Col
	return ml
}
