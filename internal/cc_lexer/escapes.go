package cc_lexer

import (
	"strconv"
	"strings"

	"github.com/c17core/c17core/internal/logger"
)

// Encoding identifies which of the four character/string literal prefixes
// (none, L, u, U — u8 only applies to strings) was used.
type Encoding uint8

const (
	EncNone Encoding = iota
	EncWide           // L
	EncChar16         // u
	EncChar32         // U
	EncUTF8           // u8 (strings only)
)

func encodingForPrefix(prefix string) Encoding {
	switch prefix {
	case "L":
		return EncWide
	case "u":
		return EncChar16
	case "U":
		return EncChar32
	case "u8":
		return EncUTF8
	default:
		return EncNone
	}
}

// splitPrefix separates a literal's encoding prefix from its quoted body.
func splitPrefix(lexeme string) (prefix string, body string) {
	for _, p := range []string{"u8", "u", "U", "L"} {
		if strings.HasPrefix(lexeme, p) {
			return p, lexeme[len(p):]
		}
	}
	return "", lexeme
}

// HandleCharacter re-parses a character-literal lexeme (including its
// surrounding quotes) to its numeric value, per spec.md section 4.1. It
// honors the simple escapes, the GNU \e extension, octal escapes of 1-3
// digits, hex escapes of any length, and universal character names. A
// multi-character constant ('ab') accumulates by left-shifting 8 bits per
// character and, when it has no encoding prefix, produces a warning.
func HandleCharacter(log *logger.Log, lexeme string, loc Location, source *logger.Source, r logger.Range) (value int64, enc Encoding) {
	prefix, body := splitPrefix(lexeme)
	enc = encodingForPrefix(prefix)
	if len(body) < 2 || body[0] != '\'' || body[len(body)-1] != '\'' {
		log.AddError(source, r, "malformed character constant")
		return 0, enc
	}
	inner := body[1 : len(body)-1]

	count := 0
	for i := 0; i < len(inner); {
		var cp rune
		var width int
		if inner[i] == '\\' {
			cp, width = decodeEscape(log, inner[i:], source, r)
		} else {
			cp = rune(inner[i])
			width = 1
		}
		value = (value << 8) | int64(byte(cp))
		i += width
		count++
	}
	if count == 0 {
		log.AddError(source, r, "empty character constant")
	}
	if count > 1 && enc == EncNone {
		log.AddWarning(source, r, "multi-character character constant")
	}
	return value, enc
}

// HandleString re-parses a string-literal lexeme to its decoded byte
// content followed by a trailing NUL. When decodeEscapes is false the raw
// (still-escaped) contents between the quotes are returned instead, with no
// trailing NUL.
func HandleString(log *logger.Log, lexeme string, loc Location, source *logger.Source, r logger.Range, decodeEscapes bool) (bytes []byte, enc Encoding) {
	prefix, body := splitPrefix(lexeme)
	enc = encodingForPrefix(prefix)
	if len(body) < 2 || body[0] != '"' || body[len(body)-1] != '"' {
		log.AddError(source, r, "malformed string literal")
		return nil, enc
	}
	inner := body[1 : len(body)-1]
	if !decodeEscapes {
		return []byte(inner), enc
	}
	for i := 0; i < len(inner); {
		if inner[i] == '\\' {
			cp, width := decodeEscape(log, inner[i:], source, r)
			bytes = append(bytes, encodeCodepoint(cp, enc)...)
			i += width
		} else {
			bytes = append(bytes, inner[i])
			i++
		}
	}
	bytes = append(bytes, 0)
	return bytes, enc
}

func encodeCodepoint(cp rune, enc Encoding) []byte {
	if cp <= 0xFF || enc == EncNone {
		return []byte{byte(cp)}
	}
	// Wide/char16/char32 escapes above one byte are represented as their raw
	// rune bytes; a full UTF-16/UTF-32 transcoding pass is a backend
	// concern, out of scope for the frontend core (spec.md section 1).
	return []byte(string(cp))
}

// decodeEscape decodes a single escape sequence starting at text[0]=='\\'
// and returns the resulting codepoint and the number of source bytes
// consumed (including the backslash).
func decodeEscape(log *logger.Log, text string, source *logger.Source, r logger.Range) (rune, int) {
	if len(text) < 2 {
		log.AddError(source, r, "incomplete escape sequence")
		return 0, 1
	}
	switch text[1] {
	case '\'':
		return '\'', 2
	case '"':
		return '"', 2
	case '?':
		return '?', 2
	case '\\':
		return '\\', 2
	case 'a':
		return 7, 2
	case 'b':
		return 8, 2
	case 'f':
		return 12, 2
	case 'n':
		return 10, 2
	case 'r':
		return 13, 2
	case 't':
		return 9, 2
	case 'v':
		return 11, 2
	case 'e':
		// GNU extension.
		return 27, 2
	case 'x':
		return decodeHexEscape(text)
	case 'u':
		return decodeUniversalCharName(log, text, 4, source, r)
	case 'U':
		return decodeUniversalCharName(log, text, 8, source, r)
	default:
		if text[1] >= '0' && text[1] <= '7' {
			return decodeOctalEscape(text)
		}
		log.AddError(source, r, "invalid escape sequence")
		return rune(text[1]), 2
	}
}

func decodeHexEscape(text string) (rune, int) {
	i := 2
	var value int64
	for i < len(text) && isHexDigit(text[i]) {
		value = value*16 + int64(hexDigitValue(text[i]))
		i++
	}
	return rune(value), i
}

func decodeOctalEscape(text string) (rune, int) {
	i := 1
	var value int64
	for n := 0; n < 3 && i < len(text) && text[i] >= '0' && text[i] <= '7'; n++ {
		value = value*8 + int64(text[i]-'0')
		i++
	}
	return rune(value), i
}

func decodeUniversalCharName(log *logger.Log, text string, digits int, source *logger.Source, r logger.Range) (rune, int) {
	i := 2
	end := i + digits
	if end > len(text) {
		log.AddError(source, r, "incomplete universal character name")
		end = len(text)
	}
	n, err := strconv.ParseInt(text[i:end], 16, 64)
	if err != nil {
		log.AddError(source, r, "invalid universal character name")
	}
	return rune(n), end
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func hexDigitValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	default:
		return int(c-'A') + 10
	}
}
