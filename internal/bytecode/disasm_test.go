package bytecode_test

import (
	"bytes"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/plzero/plzero/internal/bytecode"
	"github.com/plzero/plzero/internal/parser"
)

// TestDisassembleFibonacci snapshots the compiled listing for a small
// recursive program, guarding the compiler's emission order and
// forward-patched jump targets against regressions.
func TestDisassembleFibonacci(t *testing.T) {
	src := "fn f(n) { if n <= 1 { 1 } else { f(n - 1) + f(n - 2) } }; f(10);"

	prog, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	code, err := bytecode.Compile(prog)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	var buf bytes.Buffer
	bytecode.NewDisassembler(code, &buf).Disassemble()

	snaps.MatchSnapshot(t, buf.String())
}
