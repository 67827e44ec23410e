package bytecode

import (
	"fmt"
	"io"
)

// Disassembler renders a code vector as human-readable listing, one
// instruction per line, for debugging and --disassemble output.
type Disassembler struct {
	writer io.Writer
	code   []Instruction
}

// NewDisassembler creates a disassembler for code, writing to w.
func NewDisassembler(code []Instruction, w io.Writer) *Disassembler {
	return &Disassembler{writer: w, code: code}
}

// Disassemble prints every instruction in the vector.
func (d *Disassembler) Disassemble() {
	fmt.Fprintf(d.writer, "%d instructions\n", len(d.code))
	for offset := range d.code {
		d.DisassembleInstruction(offset)
	}
}

// DisassembleInstruction prints the instruction at offset, prefixed with
// its index so jump targets can be cross-referenced by eye.
func (d *Disassembler) DisassembleInstruction(offset int) {
	if offset < 0 || offset >= len(d.code) {
		fmt.Fprintf(d.writer, "%04d  <out of range>\n", offset)
		return
	}
	fmt.Fprintf(d.writer, "%04d  %s\n", offset, d.code[offset])
}
