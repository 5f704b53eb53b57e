// Package logger carries diagnostics through the frontend pipeline. It is
// adapted from esbuild's internal/logger: this core is single-threaded and
// exits on the first fatal error (spec ("SPEC_FULL.md") section 7), so the
// concurrent, message-limited, color-aware streaming logger of the teacher
// is replaced with a much smaller fatal/buffered-warning model that keeps
// the teacher's Source/Loc/Range/Msg data shapes.
package logger

import (
	"fmt"
	"sort"
	"strings"
)

// Loc is a byte offset into a Source's Contents.
type Loc struct {
	Start int32
}

type Range struct {
	Loc Loc
	Len int32
}

func (r Range) End() int32 {
	return r.Loc.Start + r.Len
}

// Source wraps one already-preprocessed translation unit.
type Source struct {
	Index      uint32
	PrettyPath string
	Contents   string
}

func (s *Source) TextForRange(r Range) string {
	return s.Contents[r.Loc.Start : r.Loc.Start+r.Len]
}

func (s *Source) RangeOfOperatorBefore(loc Loc, op string) Range {
	text := s.Contents[:loc.Start]
	if index := strings.LastIndex(text, op); index >= 0 {
		return Range{Loc: Loc{Start: int32(index)}, Len: int32(len(op))}
	}
	return Range{Loc: loc}
}

func (s *Source) RangeOfOperatorAfter(loc Loc, op string) Range {
	text := s.Contents[loc.Start:]
	if index := strings.Index(text, op); index >= 0 {
		return Range{Loc: Loc{Start: loc.Start + int32(index)}, Len: int32(len(op))}
	}
	return Range{Loc: loc}
}

func (s *Source) RangeOfString(loc Loc) Range {
	text := s.Contents[loc.Start:]
	if len(text) == 0 {
		return Range{Loc: loc}
	}
	quote := text[0]
	if quote == '"' || quote == '\'' {
		for i := 1; i < len(text); i++ {
			switch text[i] {
			case quote:
				return Range{Loc: loc, Len: int32(i + 1)}
			case '\\':
				i++
			}
		}
	}
	return Range{Loc: loc}
}

// computeLineAndColumn converts a byte offset into a 0-based line count, a
// 0-based byte column, and the [start,end) byte range of that line.
func computeLineAndColumn(contents string, offset int) (lineCount int, columnCount int, lineStart int, lineEnd int) {
	if offset > len(contents) {
		offset = len(contents)
	}
	lineStart = 0
	for i := 0; i < offset; i++ {
		if contents[i] == '\n' {
			lineCount++
			lineStart = i + 1
		}
	}
	columnCount = offset - lineStart
	lineEnd = len(contents)
	if i := strings.IndexByte(contents[offset:], '\n'); i >= 0 {
		lineEnd = offset + i
	}
	return
}

type MsgKind uint8

const (
	Error MsgKind = iota
	Warning
	Note
)

func (kind MsgKind) String() string {
	switch kind {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Note:
		return "note"
	default:
		panic("internal error")
	}
}

type MsgLocation struct {
	File     string
	Line     int // 1-based
	Column   int // 0-based, in bytes
	Length   int
	LineText string
}

type MsgData struct {
	Text     string
	Location *MsgLocation
}

type Msg struct {
	Kind  MsgKind
	Data  MsgData
	Notes []MsgData
}

func (msg Msg) String() string {
	sb := strings.Builder{}
	if loc := msg.Data.Location; loc != nil {
		fmt.Fprintf(&sb, "%s:%d:%d: ", loc.File, loc.Line, loc.Column+1)
	}
	fmt.Fprintf(&sb, "%s: %s\n", msg.Kind.String(), msg.Data.Text)
	for _, note := range msg.Notes {
		if note.Location != nil {
			fmt.Fprintf(&sb, "  %s:%d:%d: note: %s\n", note.Location.File, note.Location.Line, note.Location.Column+1, note.Text)
		} else {
			fmt.Fprintf(&sb, "  note: %s\n", note.Text)
		}
	}
	return sb.String()
}

func LocationOrNil(source *Source, r Range) *MsgLocation {
	if source == nil {
		return nil
	}
	lineCount, columnCount, lineStart, lineEnd := computeLineAndColumn(source.Contents, int(r.Loc.Start))
	return &MsgLocation{
		File:     source.PrettyPath,
		Line:     lineCount + 1,
		Column:   columnCount,
		Length:   int(r.Len),
		LineText: source.Contents[lineStart:lineEnd],
	}
}

func RangeData(source *Source, r Range, text string) MsgData {
	return MsgData{Text: text, Location: LocationOrNil(source, r)}
}

// FatalError unwinds a single translation unit's compilation. It is
// recovered at the driver boundary (outside this core, per spec section 1);
// within the core every open scope/function-definition exit is trivially
// paired across this unwind, per spec section 5.
type FatalError struct {
	Msg Msg
}

func (e FatalError) Error() string { return e.Msg.String() }

// Log accumulates diagnostics for one translation unit. AddMsg panics with
// FatalError on an Error-kind message; Warning-kind messages are buffered
// and returned in order by Done.
type Log struct {
	warnings []Msg
	hasError bool
}

func NewLog() *Log {
	return &Log{}
}

func (l *Log) AddMsg(msg Msg) {
	switch msg.Kind {
	case Error:
		l.hasError = true
		panic(FatalError{Msg: msg})
	case Warning:
		l.warnings = append(l.warnings, msg)
	case Note:
		l.warnings = append(l.warnings, msg)
	}
}

func (l *Log) AddError(source *Source, r Range, text string) {
	l.AddMsg(Msg{Kind: Error, Data: RangeData(source, r, text)})
}

// AddErrorWithNotes is AddError plus supplementary notes (e.g. a formatted
// panic stack), mirroring esbuild's AddErrorWithNotes for reporting an
// unexpected internal panic alongside where it was caught.
func (l *Log) AddErrorWithNotes(source *Source, r Range, text string, notes []MsgData) {
	l.AddMsg(Msg{Kind: Error, Data: RangeData(source, r, text), Notes: notes})
}

func (l *Log) AddWarning(source *Source, r Range, text string) {
	l.AddMsg(Msg{Kind: Warning, Data: RangeData(source, r, text)})
}

func (l *Log) HasErrors() bool { return l.hasError }

// Done returns all buffered warnings, sorted by location, for printing at
// process exit (spec section 7: "Warnings (buffered and printed at process
// exit)").
func (l *Log) Done() []Msg {
	sort.SliceStable(l.warnings, func(i, j int) bool {
		ai, aj := l.warnings[i].Data.Location, l.warnings[j].Data.Location
		if ai == nil || aj == nil {
			return aj != nil
		}
		if ai.File != aj.File {
			return ai.File < aj.File
		}
		if ai.Line != aj.Line {
			return ai.Line < aj.Line
		}
		return ai.Column < aj.Column
	})
	return l.warnings
}
