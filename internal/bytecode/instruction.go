// Package bytecode compiles the AST to a linear opcode vector and
// executes it on a stack machine using a display/static-link frame
// convention.
package bytecode

import "fmt"

// Opcode identifies a VM instruction. Most opcodes carry one or two
// integer operands, stored alongside the opcode in an Instruction.
type Opcode int

const (
	// None is a forward-branch patch placeholder. It must never execute;
	// reaching one at runtime is a compiler bug.
	None Opcode = iota

	Lit // Lit(v): push v.
	Lod // Lod(rlevel, addr): push stack[base(rlevel)+addr].
	Sto // Sto(rlevel, addr): stack[base(rlevel)+addr] = top, no pop.
	Int // Int(n): reserve n words above sp.

	Jmp // Jmp(t): ip = t.
	Jpc // Jpc(t): pop; if 0, ip = t.

	Cal        // Cal(rlevel): pop entry address, push a 3-word call frame, jump.
	Ret        // Ret: pop return value, unwind the call frame, push it back.
	CallClean  // CallClean(n): pop x, sp -= n, push x. Discards caller-pushed args.
	EnterScope // EnterScope: push a 1-word block-scope header.
	LeaveScope // LeaveScope: pop x, unwind the block header, push x.

	Builtin // Builtin(id, argc): pop argc args, call host function id, push result.

	Not // Not: pop v, push v == 0.

	Add
	Sub
	Mul
	Div

	Eq
	Ne
	Lt
	Le
	Gt
	Ge

	// Lod1 is a legacy reserved opcode never emitted by the compiler,
	// kept for forward compatibility with hand-written bytecode.
	Lod1
)

var opcodeNames = [...]string{
	None: "None",

	Lit: "Lit",
	Lod: "Lod",
	Sto: "Sto",
	Int: "Int",

	Jmp: "Jmp",
	Jpc: "Jpc",

	Cal:        "Cal",
	Ret:        "Ret",
	CallClean:  "CallClean",
	EnterScope: "EnterScope",
	LeaveScope: "LeaveScope",

	Builtin: "Builtin",

	Not: "Not",

	Add: "Add",
	Sub: "Sub",
	Mul: "Mul",
	Div: "Div",

	Eq: "Eq",
	Ne: "Ne",
	Lt: "Lt",
	Le: "Le",
	Gt: "Gt",
	Ge: "Ge",

	Lod1: "Lod1",
}

func (op Opcode) String() string {
	if int(op) >= 0 && int(op) < len(opcodeNames) && opcodeNames[op] != "" {
		return opcodeNames[op]
	}
	return fmt.Sprintf("Opcode(%d)", int(op))
}

// Instruction is one entry in the code vector: an opcode plus up to two
// signed integer operands. Unlike a byte-packed encoding, operands carry
// the VM's full integer range, since Lit and jump targets need it.
type Instruction struct {
	Op Opcode
	A  int64
	B  int64
}

func (i Instruction) String() string {
	switch i.Op {
	case None:
		return "None"
	case Lit, Jmp, Jpc, Cal, CallClean, Int:
		return fmt.Sprintf("%s %d", i.Op, i.A)
	case Lod, Sto, Builtin:
		return fmt.Sprintf("%s %d %d", i.Op, i.A, i.B)
	default:
		return i.Op.String()
	}
}

func simple(op Opcode) Instruction             { return Instruction{Op: op} }
func withA(op Opcode, a int64) Instruction      { return Instruction{Op: op, A: a} }
func withAB(op Opcode, a, b int64) Instruction  { return Instruction{Op: op, A: a, B: b} }
