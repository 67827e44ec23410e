package parser

import "testing"

func TestParseUnparseRoundTrip(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"a += -5", "a = (a + (-5));"},
		{"a = -5", "a = (-5);"},
		{"10 + -5", "(10 + (-5));"},
		{"-a * b;", "((-a) * b);"},
		{"!-a;", "(!(-a));"},
		{"a + b + c;", "((a + b) + c);"},
		{"a + b * c + d / e - f;", "(((a + (b * c)) + (d / e)) - f);"},
		{"5 > 4 == 3 < 4;", "((5 > 4) == (3 < 4));"},
		{"1 + (2 + 3) + 4;", "((1 + (2 + 3)) + 4);"},
		{"-(5 + 5);", "(-(5 + 5));"},
		{"return x;", "return x;"},
		{"return 2 * 4 + 5;", "return ((2 * 4) + 5);"},
		{"call();", "call();"},
		{"add(1, 2 * 3, 4 + 5);", "add(1, (2 * 3), (4 + 5));"},
		{"const x = 3;", "const x = 3;"},
		{"var x;", "var x = 0;"},
		{"fn xx(x) { x * 9; };", "fn xx(x) { (x * 9); }"},
		{"fn xx(x, y) { x + y; };", "fn xx(x, y) { (x + y); }"},
	}

	for _, c := range cases {
		prog, err := Parse(c.input)
		if err != nil {
			t.Fatalf("Parse(%q): unexpected error: %v", c.input, err)
		}
		if got := prog.String(); got != c.want {
			t.Errorf("Parse(%q).String() = %q, want %q", c.input, got, c.want)
		}
	}
}

func TestParseRoundTripIsStable(t *testing.T) {
	inputs := []string{
		"fn f(n) { if n <= 1 { 1 } else { f(n - 1) + f(n - 2) } }; f(10);",
		"var i = 10; while i > 5 { i -= 1; }",
		"const a = 10, b = 20; a + b",
	}

	for _, input := range inputs {
		prog1, err := Parse(input)
		if err != nil {
			t.Fatalf("Parse(%q): %v", input, err)
		}
		prog2, err := Parse(prog1.String())
		if err != nil {
			t.Fatalf("Parse(unparse(%q)): %v", input, err)
		}
		if prog1.String() != prog2.String() {
			t.Errorf("round trip unstable for %q:\n  %q\n  %q", input, prog1.String(), prog2.String())
		}
	}
}

func TestParseEmptyStatements(t *testing.T) {
	prog, err := Parse(";;;")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(prog.Statements) != 1 {
		t.Fatalf("want a single absorbed empty statement, got %d", len(prog.Statements))
	}
}

func TestParseCallRequiresIdentifierTarget(t *testing.T) {
	_, err := Parse("(1 + 2)(3);")
	if err == nil {
		t.Fatalf("expected a parse error for calling a non-identifier")
	}
}

func TestParseConstAcceptsArbitraryExpression(t *testing.T) {
	// The parser accepts any expression here; rejecting a non-literal
	// initializer is the compiler's job.
	prog, err := Parse("const a = 1 + 2;")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if prog.String() != "const a = (1 + 2);" {
		t.Fatalf("unexpected unparse: %q", prog.String())
	}
}

func TestParseUnexpectedTokenIsError(t *testing.T) {
	_, err := Parse(")")
	if err == nil {
		t.Fatalf("expected a parse error")
	}
}
