// Package cc_lexer implements spec.md section 4.1, the Scanner: it turns an
// already-preprocessed UTF-8 byte buffer into a finite token vector,
// tracking row/column across "# line file" linemarkers.
//
// Unlike the teacher's js_lexer, which is driven token-by-token by the
// parser because many JS tokens are context-sensitive (regex vs divide,
// JSX), a C17 token stream has no such ambiguity once the preprocessor has
// run, so this scanner runs to completion up front and hands the parser a
// plain slice — closer to esbuild's json_parser usage pattern than its main
// js_lexer loop, but built from the same Lexer/Token vocabulary.
package cc_lexer

import (
	"strings"

	"github.com/c17core/c17core/internal/helpers"
	"github.com/c17core/c17core/internal/logger"
)

// Token is one scanned unit: a tag, its original lexeme, and its source
// location (spec.md section 3.1). Character and string tokens keep their
// unprocessed lexeme; HandleCharacter/HandleString below perform escape
// decoding on demand.
type Token struct {
	Tag    T
	Lexeme string
	Loc    Location
	Range  logger.Range
}

type Lexer struct {
	log    *logger.Log
	source logger.Source

	pos       int
	lineStart int32
	row       int
	file      string

	tokens []Token
}

func NewLexer(log *logger.Log, source logger.Source) *Lexer {
	source.Contents = spliceAndReplaceTrigraphs(source.Contents)
	return &Lexer{
		log:       log,
		source:    source,
		row:       1,
		lineStart: 0,
		file:      source.PrettyPath,
	}
}

func (l *Lexer) loc(start int) Location {
	return Location{
		File:      l.file,
		Row:       l.row,
		Col:       start - int(l.lineStart),
		LineStart: l.lineStart,
	}
}

func (l *Lexer) errorAt(start int, text string) {
	rng := logger.Range{Loc: logger.Loc{Start: int32(start)}, Len: int32(l.pos - start)}
	loc := l.loc(start)
	source := l.source
	l.log.AddMsg(logger.Msg{Kind: logger.Error, Data: logger.MsgData{Text: text, Location: loc.MsgLocation(&source, rng)}})
}

func (l *Lexer) peek() byte {
	if l.pos < len(l.source.Contents) {
		return l.source.Contents[l.pos]
	}
	return 0
}

func (l *Lexer) peekAt(off int) byte {
	if l.pos+off < len(l.source.Contents) {
		return l.source.Contents[l.pos+off]
	}
	return 0
}

// Tokenize returns all tokens up to and including an end-of-input marker.
// It fails with a fatal lex-error (via the Lexer's Log) on an unterminated
// character/string literal or an unrecognized byte outside the UTF-8
// continuation range. Escape sequences are not checked here; an invalid
// escape is reported when HandleCharacter or HandleString decodes the
// literal.
func (l *Lexer) Tokenize() []Token {
	for {
		tok := l.next()
		l.tokens = append(l.tokens, tok)
		if tok.Tag == TEndOfFile {
			return l.tokens
		}
	}
}

func (l *Lexer) newline() {
	l.row++
	l.lineStart = int32(l.pos)
}

func (l *Lexer) skipWhitespaceAndLinemarkers() {
	src := l.source.Contents
	for l.pos < len(src) {
		c := src[l.pos]
		switch {
		case c == '\n':
			l.pos++
			l.newline()
		case c == ' ' || c == '\t' || c == '\r' || c == '\v' || c == '\f':
			l.pos++
		case c == '#' && l.atLineStart():
			if !l.tryLinemarker() {
				return
			}
		default:
			return
		}
	}
}

// atLineStart reports whether the scanner is at the first non-whitespace
// byte of a physical line, which is where a "# line file" linemarker must
// begin (spec.md section 4.1).
func (l *Lexer) atLineStart() bool {
	for i := int(l.lineStart); i < l.pos; i++ {
		switch l.source.Contents[i] {
		case ' ', '\t':
			continue
		default:
			return false
		}
	}
	return true
}

// tryLinemarker consumes a "# <line> \"<file>\" ...\n" directive and updates
// l.row/l.file. Returns false if the '#' at l.pos did not actually start a
// linemarker (e.g. plain "#" survived preprocessing unexpectedly), in which
// case the caller falls through to ordinary punctuator scanning.
func (l *Lexer) tryLinemarker() bool {
	src := l.source.Contents
	save := l.pos
	i := l.pos + 1
	for i < len(src) && (src[i] == ' ' || src[i] == '\t') {
		i++
	}
	digitsStart := i
	for i < len(src) && src[i] >= '0' && src[i] <= '9' {
		i++
	}
	if i == digitsStart {
		l.pos = save
		return false
	}
	lineNum := 0
	for _, c := range src[digitsStart:i] {
		lineNum = lineNum*10 + int(c-'0')
	}
	for i < len(src) && (src[i] == ' ' || src[i] == '\t') {
		i++
	}
	var file string
	if i < len(src) && src[i] == '"' {
		j := i + 1
		for j < len(src) && src[j] != '"' {
			j++
		}
		file = src[i+1 : j]
		if j < len(src) {
			j++
		}
		i = j
	}
	for i < len(src) && src[i] != '\n' {
		i++
	}
	if i < len(src) {
		i++ // consume the newline
	}
	l.pos = i
	l.row = lineNum
	l.lineStart = int32(i)
	if file != "" {
		l.file = file
	}
	return true
}

func (l *Lexer) next() Token {
	l.skipWhitespaceAndLinemarkers()
	src := l.source.Contents
	start := l.pos

	if l.pos >= len(src) {
		return Token{Tag: TEndOfFile, Loc: l.loc(start)}
	}

	c := src[l.pos]

	// Encoding-prefixed character/string literals (L'x', u'x', U'x', u8"x",
	// ...) must be checked before plain identifier scanning, since their
	// prefix letters are themselves valid identifier-start characters.
	if tok, ok := l.tryEncodingPrefixedLiteral(start); ok {
		return tok
	}

	switch {
	case isIdentifierStart(c):
		return l.scanIdentifier(start)
	case c >= '0' && c <= '9':
		return l.scanNumber(start)
	case c == '.' && l.peekAt(1) >= '0' && l.peekAt(1) <= '9':
		return l.scanNumber(start)
	case c == '\'':
		return l.scanCharLiteral(start, "")
	case c == '"':
		return l.scanStringLiteral(start, "")
	}

	return l.scanPunctuator(start)
}

func isIdentifierStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || helpers.IsIdentifierContinuationByte(c)
}

func isIdentifierContinue(c byte) bool {
	return isIdentifierStart(c) || (c >= '0' && c <= '9')
}

func (l *Lexer) scanIdentifier(start int) Token {
	src := l.source.Contents
	for l.pos < len(src) && isIdentifierContinue(src[l.pos]) {
		l.pos++
	}
	lexeme := src[start:l.pos]
	tag := TIdentifier
	if kw, ok := Keywords[lexeme]; ok {
		tag = kw
	}
	return l.makeToken(tag, start)
}

// tryEncodingPrefixedLiteral handles L'x', u'x', U'x', L"x", u"x", U"x",
// u8"x" — an identifier-looking prefix directly abutting a quote.
func (l *Lexer) tryEncodingPrefixedLiteral(start int) (Token, bool) {
	src := l.source.Contents
	for _, prefix := range []string{"u8", "u", "U", "L"} {
		if !strings.HasPrefix(src[start:], prefix) {
			continue
		}
		after := start + len(prefix)
		if after >= len(src) {
			continue
		}
		switch src[after] {
		case '"':
			l.pos = after
			return l.scanStringLiteral(start, prefix), true
		case '\'':
			l.pos = after
			return l.scanCharLiteral(start, prefix), true
		}
	}
	return Token{}, false
}

func (l *Lexer) scanCharLiteral(start int, prefix string) Token {
	src := l.source.Contents
	l.pos++ // opening quote
	for l.pos < len(src) && src[l.pos] != '\'' {
		if src[l.pos] == '\\' && l.pos+1 < len(src) {
			l.pos += 2
			continue
		}
		if src[l.pos] == '\n' {
			l.errorAt(start, "unterminated character constant")
		}
		l.pos++
	}
	if l.pos >= len(src) {
		l.errorAt(start, "unterminated character constant")
	}
	l.pos++ // closing quote
	return l.makeToken(TCharConstant, start)
}

func (l *Lexer) scanStringLiteral(start int, prefix string) Token {
	src := l.source.Contents
	l.pos++ // opening quote
	for l.pos < len(src) && src[l.pos] != '"' {
		if src[l.pos] == '\\' && l.pos+1 < len(src) {
			l.pos += 2
			continue
		}
		if src[l.pos] == '\n' {
			l.errorAt(start, "unterminated string literal")
		}
		l.pos++
	}
	if l.pos >= len(src) {
		l.errorAt(start, "unterminated string literal")
	}
	l.pos++ // closing quote
	return l.makeToken(TStringLiteral, start)
}

// scanNumber classifies and consumes a preprocessing-number per spec.md
// section 4.1: starts with a digit or ".digit", runs through identifier
// characters, '.', and an exponent sign directly after e/E/p/P.
func (l *Lexer) scanNumber(start int) Token {
	src := l.source.Contents
	for l.pos < len(src) {
		c := src[l.pos]
		switch {
		case c == '.':
			l.pos++
		case (c == 'e' || c == 'E' || c == 'p' || c == 'P') && l.pos+1 < len(src) && (src[l.pos+1] == '+' || src[l.pos+1] == '-'):
			l.pos += 2
		case isIdentifierContinue(c):
			l.pos++
		default:
			return l.makeToken(TNumber, start)
		}
	}
	return l.makeToken(TNumber, start)
}

type punct struct {
	text string
	tag  T
}

// Longest-match-first punctuator table, including digraph synonyms
// (<: :> <% %> %: %:%:) per spec.md section 6's digraph-replacement
// requirement — these map to the same tag as their ASCII spelling rather
// than being textually rewritten, so they still round-trip through Lexeme.
var punctuators = []punct{
	{"%:%:", THashHash},
	{"...", TEllipsis},
	{"<<=", TShlEq},
	{">>=", TShrEq},
	{"->", TArrow},
	{"++", TIncr},
	{"--", TDecr},
	{"<<", TShl},
	{">>", TShr},
	{"<=", TLe},
	{">=", TGe},
	{"==", TEqEq},
	{"!=", TNotEq},
	{"&&", TAndAnd},
	{"||", TOrOr},
	{"*=", TStarEq},
	{"/=", TSlashEq},
	{"%=", TPercentEq},
	{"+=", TPlusEq},
	{"-=", TMinusEq},
	{"&=", TAmpEq},
	{"^=", TCaretEq},
	{"|=", TPipeEq},
	{"##", THashHash},
	{"<:", TLBracket},
	{":>", TRBracket},
	{"<%", TLBrace},
	{"%>", TRBrace},
	{"%:", THash},
	{"[", TLBracket},
	{"]", TRBracket},
	{"(", TLParen},
	{")", TRParen},
	{"{", TLBrace},
	{"}", TRBrace},
	{".", TDot},
	{"&", TAmp},
	{"*", TStar},
	{"+", TPlus},
	{"-", TMinus},
	{"~", TTilde},
	{"!", TNot},
	{"/", TSlash},
	{"%", TPercent},
	{"<", TLt},
	{">", TGt},
	{"^", TCaret},
	{"|", TPipe},
	{"?", TQuestion},
	{":", TColon},
	{";", TSemicolon},
	{"=", TEq},
	{",", TComma},
	{"#", THash},
	{"@", TAt},
}

func (l *Lexer) scanPunctuator(start int) Token {
	src := l.source.Contents[l.pos:]
	for _, p := range punctuators {
		if strings.HasPrefix(src, p.text) {
			l.pos += len(p.text)
			return l.makeToken(p.tag, start)
		}
	}
	l.errorAt(start, "unrecognized byte in input")
	l.pos++
	return l.makeToken(TSyntaxError, start)
}

func (l *Lexer) makeToken(tag T, start int) Token {
	return Token{
		Tag:    tag,
		Lexeme: l.source.Contents[start:l.pos],
		Loc:    l.loc(start),
		Range:  logger.Range{Loc: logger.Loc{Start: int32(start)}, Len: int32(l.pos - start)},
	}
}
