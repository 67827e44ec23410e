package lexer

import "testing"

func TestNextOperatorsAndDelimiters(t *testing.T) {
	input := `< > ! + - * / == != += -= *= /= () [ ] { } , ;`

	want := []TokenType{
		LT, GT, BANG, PLUS, MINUS, ASTERISK, SLASH,
		EQ, NEQ, PLUS_ASSIGN, MINUS_ASSIGN, STAR_ASSIGN, SLASH_ASSIGN,
		LPAREN, RPAREN, LBRACKET, RBRACKET, LBRACE, RBRACE, COMMA, SEMICOLON,
	}

	l := New(input)
	for i, tt := range want {
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("token %d: unexpected error: %v", i, err)
		}
		if tok.Type != tt {
			t.Fatalf("token %d: want %s, got %s", i, tt, tok.Type)
		}
	}
}

func TestNextKeywords(t *testing.T) {
	l := New("if else while const var fn return")
	want := []TokenType{IF, ELSE, WHILE, CONST, VAR, FUNCTION, RETURN}

	for i, tt := range want {
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("token %d: unexpected error: %v", i, err)
		}
		if tok.Type != tt {
			t.Fatalf("token %d: want %s, got %s", i, tt, tok.Type)
		}
	}
}

func TestNextIdentifiersAndIntegers(t *testing.T) {
	l := New("foo 123 _bar2 0")

	expectIdent := func(lit string) {
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tok.Type != IDENT || tok.Literal != lit {
			t.Fatalf("want IDENT(%q), got %s", lit, tok)
		}
	}
	expectInt := func(lit string) {
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tok.Type != INT || tok.Literal != lit {
			t.Fatalf("want INT(%q), got %s", lit, tok)
		}
	}

	expectIdent("foo")
	expectInt("123")
	expectIdent("_bar2")
	expectInt("0")
}

func TestNextSkipsLineComments(t *testing.T) {
	l := New("// a comment\n42")
	tok, err := l.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.Type != INT || tok.Literal != "42" {
		t.Fatalf("want INT(42), got %s", tok)
	}
}

func TestNextEOFIsSticky(t *testing.T) {
	l := New("")
	for i := 0; i < 3; i++ {
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tok.Type != EOF {
			t.Fatalf("want EOF, got %s", tok)
		}
	}
}

func TestNextReportsIllegalCharacter(t *testing.T) {
	l := New("@")
	tok, err := l.Next()
	if err == nil {
		t.Fatalf("expected an error for illegal character")
	}
	if tok.Type != ILLEGAL {
		t.Fatalf("want ILLEGAL, got %s", tok)
	}
}

func TestNextUsesCharacterOffsets(t *testing.T) {
	l := New("日本語 x")

	tok, err := l.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.Literal != "日本語" {
		t.Fatalf("want 日本語, got %q", tok.Literal)
	}
	if tok.Span.Begin.Offset != 0 || tok.Span.End.Offset != 3 {
		t.Fatalf("want character offsets [0,3), got [%d,%d)", tok.Span.Begin.Offset, tok.Span.End.Offset)
	}

	tok, err = l.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.Literal != "x" || tok.Span.Begin.Offset != 4 {
		t.Fatalf("want x at offset 4, got %q at %d", tok.Literal, tok.Span.Begin.Offset)
	}
}
