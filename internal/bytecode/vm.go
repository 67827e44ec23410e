package bytecode

import (
	"fmt"
	"io"
	"os"

	"github.com/plzero/plzero/internal/builtins"
)

// RuntimeError marks a fatal VM failure: either a VM invariant violation
// (a compiler/VM bug, which a correctly compiled program never trips) or
// an integer division by zero.
type RuntimeError struct {
	Message string
}

func (e *RuntimeError) Error() string { return e.Message }

func runtimeErrorf(format string, args ...any) *RuntimeError {
	return &RuntimeError{Message: fmt.Sprintf(format, args...)}
}

// VMOption configures a VM at construction time.
type VMOption func(*VM)

// WithOutput redirects builtin output (print/println/helloworld); it
// defaults to os.Stdout.
func WithOutput(w io.Writer) VMOption {
	return func(vm *VM) { vm.out = w }
}

// WithVMBuiltins overrides the built-in registry the VM dispatches
// Builtin instructions against. Must match the registry the program was
// compiled with.
func WithVMBuiltins(registry *builtins.Registry) VMOption {
	return func(vm *VM) { vm.builtins = registry }
}

// VM is a stack machine executing a linear instruction vector using a
// display/static-link frame convention: every call frame and block scope
// begins with a saved-bp (and, for calls, saved static-link and saved-ip)
// header, letting base(rlevel) walk outward through enclosing scopes.
type VM struct {
	stack []int64
	ip    int
	bp    int
	sp    int

	builtins *builtins.Registry
	out      io.Writer
}

// NewVM constructs a VM ready to Run a code vector.
func NewVM(opts ...VMOption) *VM {
	vm := &VM{builtins: builtins.Default(), out: os.Stdout}
	for _, opt := range opts {
		opt(vm)
	}
	return vm
}

// Run executes code to completion and returns the single value left on
// the stack. A non-nil error means either a division by zero or that the
// code vector violated a VM invariant (malformed input from a buggy
// compiler).
func Run(code []Instruction, opts ...VMOption) (int64, error) {
	return NewVM(opts...).Run(code)
}

func (vm *VM) reserve(additional int) {
	need := vm.sp + additional
	for len(vm.stack) < need {
		vm.stack = append(vm.stack, 0)
	}
}

func (vm *VM) push(v int64) {
	vm.reserve(1)
	vm.stack[vm.sp] = v
	vm.sp++
}

func (vm *VM) pop() int64 {
	vm.sp--
	return vm.stack[vm.sp]
}

func (vm *VM) peek() int64 { return vm.stack[vm.sp-1] }

// base walks the static-link chain outward rlevel times from the
// current frame to find the base pointer of the enclosing frame whose
// locals are being addressed.
func (vm *VM) base(rlevel int64) int {
	b := vm.bp
	for ; rlevel > 0; rlevel-- {
		b = int(vm.stack[b])
	}
	return b
}

// Run executes code starting at ip 0 and returns the final stack value.
func (vm *VM) Run(code []Instruction) (int64, error) {
	vm.ip, vm.bp, vm.sp = 0, 0, 0

	for {
		if vm.ip < 0 || vm.ip >= len(code) {
			return 0, runtimeErrorf("instruction pointer %d out of bounds", vm.ip)
		}
		inst := code[vm.ip]
		vm.ip++

		switch inst.Op {
		case None:
			return 0, runtimeErrorf("reached an unpatched placeholder instruction")

		case Lit:
			vm.push(inst.A)

		case Lod, Lod1:
			vm.push(vm.stack[vm.base(inst.A)+int(inst.B)])

		case Sto:
			vm.stack[vm.base(inst.A)+int(inst.B)] = vm.peek()

		case Int:
			vm.reserve(int(inst.A))
			vm.sp += int(inst.A)

		case Jmp:
			vm.ip = int(inst.A)

		case Jpc:
			if vm.pop() == 0 {
				vm.ip = int(inst.A)
			}

		case Cal:
			entry := int(vm.pop())
			vm.reserve(3)
			vm.stack[vm.sp] = int64(vm.base(inst.A))
			vm.stack[vm.sp+1] = int64(vm.bp)
			vm.stack[vm.sp+2] = int64(vm.ip)
			vm.bp = vm.sp
			vm.ip = entry

		case Ret:
			x := vm.pop()
			vm.sp = vm.bp
			vm.bp = int(vm.stack[vm.sp+1])
			vm.ip = int(vm.stack[vm.sp+2])
			vm.push(x)
			if vm.ip == 0 {
				return vm.finish()
			}

		case CallClean:
			x := vm.pop()
			vm.sp -= int(inst.A)
			vm.push(x)

		case EnterScope:
			vm.reserve(1)
			vm.stack[vm.sp] = int64(vm.bp)
			vm.bp = vm.sp

		case LeaveScope:
			x := vm.pop()
			vm.sp = vm.bp
			vm.bp = int(vm.stack[vm.bp])
			vm.push(x)

		case Builtin:
			argc := int(inst.B)
			args := make([]int64, argc)
			for i := 0; i < argc; i++ {
				args[i] = vm.pop()
			}
			vm.push(vm.builtins.Call(vm.out, int(inst.A), args))

		case Not:
			v := vm.pop()
			if v == 0 {
				vm.push(1)
			} else {
				vm.push(0)
			}

		case Add:
			r, l := vm.pop(), vm.pop()
			vm.push(l + r)
		case Sub:
			r, l := vm.pop(), vm.pop()
			vm.push(l - r)
		case Mul:
			r, l := vm.pop(), vm.pop()
			vm.push(l * r)
		case Div:
			r, l := vm.pop(), vm.pop()
			if r == 0 {
				return 0, runtimeErrorf("division by zero")
			}
			vm.push(l / r)

		case Eq:
			vm.pushBool(vm.popEq())
		case Ne:
			vm.pushBool(!vm.popEq())
		case Lt:
			r, l := vm.pop(), vm.pop()
			vm.pushBool(l < r)
		case Le:
			r, l := vm.pop(), vm.pop()
			vm.pushBool(l <= r)
		case Gt:
			r, l := vm.pop(), vm.pop()
			vm.pushBool(l > r)
		case Ge:
			r, l := vm.pop(), vm.pop()
			vm.pushBool(l >= r)

		default:
			return 0, runtimeErrorf("unhandled opcode %s", inst.Op)
		}

		if vm.ip == 0 {
			return vm.finish()
		}
	}
}

func (vm *VM) popEq() bool {
	r, l := vm.pop(), vm.pop()
	return l == r
}

func (vm *VM) pushBool(b bool) {
	if b {
		vm.push(1)
	} else {
		vm.push(0)
	}
}

func (vm *VM) finish() (int64, error) {
	if vm.sp != 1 {
		return 0, runtimeErrorf("program terminated with stack depth %d, want 1", vm.sp)
	}
	return vm.stack[0], nil
}
