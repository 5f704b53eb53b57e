package cc_lexer

// spliceAndReplaceTrigraphs implements C17 translation phases 1 and 2 (spec.md
// section 6's "the digraph/trigraph replacement is performed during
// scanning" requirement, supplemented with line-splicing per
// original_source/src/cpp.cpp's Trigraphs language option): trigraph
// sequences are replaced with the single character they stand for, then a
// backslash immediately followed by a newline (optionally preceded by a
// carriage return) is deleted, splicing the two physical lines into one
// logical line. Trigraphs run first, since "??/" followed by a newline must
// itself become a splice.
//
// Run once over the whole buffer before tokenization starts, so row/column
// tracking during scanning never has to special-case either transformation.
func spliceAndReplaceTrigraphs(src string) string {
	return spliceLines(replaceTrigraphs(src))
}

var trigraphs = map[byte]byte{
	'=':  '#',
	'(':  '[',
	'/':  '\\',
	')':  ']',
	'\'': '^',
	'<':  '{',
	'>':  '}',
	'!':  '|',
	'-':  '~',
}

func replaceTrigraphs(src string) string {
	if !containsTrigraphCandidate(src) {
		return src
	}
	out := make([]byte, 0, len(src))
	for i := 0; i < len(src); i++ {
		if i+2 < len(src) && src[i] == '?' && src[i+1] == '?' {
			if r, ok := trigraphs[src[i+2]]; ok {
				out = append(out, r)
				i += 2
				continue
			}
		}
		out = append(out, src[i])
	}
	return string(out)
}

func containsTrigraphCandidate(src string) bool {
	for i := 0; i+2 < len(src); i++ {
		if src[i] == '?' && src[i+1] == '?' {
			return true
		}
	}
	return false
}

func spliceLines(src string) string {
	if !containsBackslashNewline(src) {
		return src
	}
	out := make([]byte, 0, len(src))
	for i := 0; i < len(src); i++ {
		if src[i] == '\\' {
			if i+1 < len(src) && src[i+1] == '\n' {
				i++
				continue
			}
			if i+2 < len(src) && src[i+1] == '\r' && src[i+2] == '\n' {
				i += 2
				continue
			}
		}
		out = append(out, src[i])
	}
	return string(out)
}

func containsBackslashNewline(src string) bool {
	for i := 0; i+1 < len(src); i++ {
		if src[i] == '\\' && (src[i+1] == '\n' || src[i+1] == '\r') {
			return true
		}
	}
	return false
}
