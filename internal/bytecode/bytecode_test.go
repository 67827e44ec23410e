package bytecode_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/plzero/plzero/internal/bytecode"
	"github.com/plzero/plzero/internal/parser"
)

func run(t *testing.T, src string) int64 {
	t.Helper()
	prog, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	code, err := bytecode.Compile(prog)
	if err != nil {
		t.Fatalf("Compile(%q): %v", src, err)
	}
	result, err := bytecode.Run(code)
	if err != nil {
		t.Fatalf("Run(%q): %v", src, err)
	}
	return result
}

func TestEvaluationScenarios(t *testing.T) {
	cases := []struct {
		src  string
		want int64
	}{
		{";;;", 0},
		{"const a = 10, b = 20; a + b", 30},
		{"var a = 4; a", 4},
		{"var x, y; x + y", 0},
		{"var x = 1; x += 3; x", 4},
		{"var x = 6; x /= 3; x", 2},
		{"return 1 + 2;", 3},
		{"return;", 0},
		{"1 + 2 * 3 - 3", 4},
		{"5 > 4 == 3 < 4;", 1},
		{"-(5 + 5);", -10},
		{"10 + -5", 5},
		{"if 1 {} else { 1 }", 0},
		{"if 0 { 2 } else { 1 }", 1},
		{"var i = 10; while i > 5 { i -= 1; }; i", 5},
		{"fn t(n) { n } t(3);", 3},
		{"fn b(n){n} fn t(n){b(n)+b(n)} t(3);", 6},
		{"fn f(n) { if n<=1 {1} else { f(n-1)+f(n-2) } }; f(10);", 89},
	}

	for _, c := range cases {
		if got := run(t, c.src); got != c.want {
			t.Errorf("run(%q) = %d, want %d", c.src, got, c.want)
		}
	}
}

func TestCompileErrorNonLiteralConstant(t *testing.T) {
	prog, err := parser.Parse("const a = 1 + 2;")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	_, err = bytecode.Compile(prog)
	if err == nil {
		t.Fatalf("expected a compile error")
	}
	if !strings.Contains(err.Error(), "only integer can assign to constant") {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestCompileErrorShadowingBuiltin(t *testing.T) {
	prog, err := parser.Parse("fn print(x) { x }")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	_, err = bytecode.Compile(prog)
	if err == nil {
		t.Fatalf("expected a compile error")
	}
	if !strings.Contains(err.Error(), "cannot shadow builtin") {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestCompileErrorUndefinedIdentifier(t *testing.T) {
	prog, err := parser.Parse("x + 1")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	_, err = bytecode.Compile(prog)
	if err == nil {
		t.Fatalf("expected a compile error")
	}
	if !strings.Contains(err.Error(), "identifier is not defined") {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestCompileErrorUndefinedVariableAssign(t *testing.T) {
	prog, err := parser.Parse("x = 1;")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	_, err = bytecode.Compile(prog)
	if err == nil {
		t.Fatalf("expected a compile error")
	}
}

func TestCompileErrorCallToUndefinedProcedure(t *testing.T) {
	prog, err := parser.Parse("nope(1);")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	_, err = bytecode.Compile(prog)
	if err == nil {
		t.Fatalf("expected a compile error")
	}
}

func TestBuiltinArgsPreserveCallSiteOrder(t *testing.T) {
	prog, err := parser.Parse("println(1, 2, 3);")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	code, err := bytecode.Compile(prog)
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}

	var buf bytes.Buffer
	if _, err := bytecode.Run(code, bytecode.WithOutput(&buf)); err != nil {
		t.Fatalf("unexpected runtime error: %v", err)
	}
	if buf.String() != "1 2 3\n" {
		t.Errorf("println(1, 2, 3) printed %q, want %q", buf.String(), "1 2 3\n")
	}
}

func TestRunDivisionByZero(t *testing.T) {
	prog, err := parser.Parse("1 / 0")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	code, err := bytecode.Compile(prog)
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}
	_, err = bytecode.Run(code)
	if err == nil {
		t.Fatalf("expected a runtime error for division by zero")
	}
}
