package builtins

import (
	"bytes"
	"testing"
)

func TestDefaultRegistryOrder(t *testing.T) {
	r := Default()

	for i, name := range []string{"helloworld", "print", "println"} {
		id, ok := r.Lookup(name)
		if !ok || id != i {
			t.Fatalf("want %s at id %d, got id=%d ok=%v", name, i, id, ok)
		}
	}
}

func TestPrintJoinsWithSpaces(t *testing.T) {
	r := Default()
	var buf bytes.Buffer

	id, _ := r.Lookup("print")
	result := r.Call(&buf, id, []int64{1, 2, 3})

	if result != 0 {
		t.Fatalf("want 0, got %d", result)
	}
	if buf.String() != "1 2 3" {
		t.Fatalf("want %q, got %q", "1 2 3", buf.String())
	}
}

func TestPrintlnAddsNewline(t *testing.T) {
	r := Default()
	var buf bytes.Buffer

	id, _ := r.Lookup("println")
	r.Call(&buf, id, []int64{7})

	if buf.String() != "7\n" {
		t.Fatalf("want %q, got %q", "7\n", buf.String())
	}
}

func TestHelloworldReturnsZero(t *testing.T) {
	r := Default()
	var buf bytes.Buffer

	id, _ := r.Lookup("helloworld")
	if got := r.Call(&buf, id, nil); got != 0 {
		t.Fatalf("want 0, got %d", got)
	}
}
