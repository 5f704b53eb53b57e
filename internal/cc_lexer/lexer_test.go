package cc_lexer

import (
	"testing"

	"github.com/c17core/c17core/internal/logger"
	"github.com/c17core/c17core/internal/test"
)

func tokenize(t *testing.T, contents string) []Token {
	t.Helper()
	log := logger.NewLog()
	source := test.SourceForTest(contents)
	lexer := NewLexer(log, source)
	return lexer.Tokenize()
}

func tags(tokens []Token) []T {
	out := make([]T, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Tag
	}
	return out
}

func TestTokenizeSimpleDeclaration(t *testing.T) {
	tokens := tokenize(t, "int x = 1;")
	got := tags(tokens)
	want := []T{TInt, TIdentifier, TEq, TNumber, TSemicolon, TEndOfFile}
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %v want %v", i, got[i], want[i])
		}
	}
}

func TestKeywordVersusIdentifier(t *testing.T) {
	tokens := tokenize(t, "struct structure;")
	if tokens[0].Tag != TStruct {
		t.Fatalf("expected 'struct' to lex as a keyword, got %v", tokens[0].Tag)
	}
	if tokens[1].Tag != TIdentifier {
		t.Fatalf("expected 'structure' to lex as an identifier, got %v", tokens[1].Tag)
	}
}

func TestDigraphsProduceSameTagsAsAsciiSpelling(t *testing.T) {
	ascii := tokenize(t, "a[0] = {1};")
	digraph := tokenize(t, "a<:0:> = <%1%>;")
	if len(ascii) != len(digraph) {
		t.Fatalf("digraph form produced a different token count: %d vs %d", len(digraph), len(ascii))
	}
	for i := range ascii {
		if ascii[i].Tag != digraph[i].Tag {
			t.Fatalf("token %d: digraph tag %v != ascii tag %v", i, digraph[i].Tag, ascii[i].Tag)
		}
	}
}

func TestTrigraphsReplacedBeforeTokenizing(t *testing.T) {
	ascii := tokenize(t, "int a[10];")
	tri := tokenize(t, "int a??(10??);")
	if len(ascii) != len(tri) {
		t.Fatalf("trigraph form produced a different token count: %d vs %d", len(tri), len(ascii))
	}
	for i := range ascii {
		if ascii[i].Tag != tri[i].Tag {
			t.Fatalf("token %d: trigraph tag %v != ascii tag %v", i, tri[i].Tag, ascii[i].Tag)
		}
	}
}

func TestBackslashNewlineSplicesLines(t *testing.T) {
	ascii := tokenize(t, "int xy;")
	spliced := tokenize(t, "int x\\\ny;")
	if len(ascii) != len(spliced) {
		t.Fatalf("spliced form produced a different token count: %d vs %d", len(spliced), len(ascii))
	}
	for i := range ascii {
		if ascii[i].Tag != spliced[i].Tag {
			t.Fatalf("token %d: spliced tag %v != ascii tag %v", i, spliced[i].Tag, ascii[i].Tag)
		}
	}
	if spliced[1].Lexeme != "xy" {
		t.Fatalf("expected the spliced identifier to read 'xy', got %q", spliced[1].Lexeme)
	}
}

func TestEncodingPrefixedLiteralsAreNotSplitAsIdentifiers(t *testing.T) {
	tokens := tokenize(t, `L'a' u8"hi" U'b' u'c';`)
	want := []T{TCharConstant, TStringLiteral, TCharConstant, TCharConstant, TSemicolon, TEndOfFile}
	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(tokens), len(want), tags(tokens))
	}
	for i := range want {
		if tokens[i].Tag != want[i] {
			t.Fatalf("token %d: got %v want %v", i, tokens[i].Tag, want[i])
		}
	}
}

func TestLinemarkerUpdatesRowAndFile(t *testing.T) {
	contents := "# 10 \"foo.c\"\nint x;\n"
	log := logger.NewLog()
	source := test.SourceForTest(contents)
	lexer := NewLexer(log, source)
	tokens := lexer.Tokenize()
	if tokens[0].Loc.Row != 10 {
		t.Fatalf("expected row 10 after linemarker, got %d", tokens[0].Loc.Row)
	}
	if tokens[0].Loc.File != "foo.c" {
		t.Fatalf("expected file foo.c after linemarker, got %s", tokens[0].Loc.File)
	}
}

func TestMultiCharacterLiteralWarns(t *testing.T) {
	log := logger.NewLog()
	source := test.SourceForTest("'ab'")
	_, enc := HandleCharacter(log, "'ab'", Location{}, &source, logger.Range{})
	if enc != EncNone {
		t.Fatalf("unexpected encoding for an unprefixed character constant: %v", enc)
	}
	if len(log.Done()) != 1 {
		t.Fatal("expected a warning for a multi-character constant")
	}
}

func TestHandleCharacterSimpleEscapes(t *testing.T) {
	log := logger.NewLog()
	source := test.SourceForTest(`'\n'`)
	v, _ := HandleCharacter(log, `'\n'`, Location{}, &source, logger.Range{})
	if v != 10 {
		t.Fatalf("expected \\n to decode to 10, got %d", v)
	}
}

func TestHandleStringDecodesEscapes(t *testing.T) {
	log := logger.NewLog()
	source := test.SourceForTest(`"a\tb"`)
	bytes, _ := HandleString(log, `"a\tb"`, Location{}, &source, logger.Range{}, true)
	want := []byte{'a', '\t', 'b', 0}
	if string(bytes) != string(want) {
		t.Fatalf("got %v, want %v", bytes, want)
	}
}
