// Package symbols implements the scoped name table used by the compiler
// to resolve identifiers to constants, variables, and procedures.
package symbols

import "fmt"

// Kind classifies a NameTable entry.
type Kind int

const (
	Constant Kind = iota
	Variable
	Procedure
)

func (k Kind) String() string {
	switch k {
	case Constant:
		return "constant"
	case Variable:
		return "variable"
	case Procedure:
		return "procedure"
	default:
		return "unknown"
	}
}

// Entry is one name-table row. Constant uses Value; Variable uses Addr
// (and Level); Procedure uses Value as its entry address in the code
// vector.
type Entry struct {
	Name  string
	Kind  Kind
	Value int64 // Constant: literal value. Procedure: code-vector entry address.
	Level int   // lexical level at which the name was declared
	Addr  int64 // Variable: frame-relative address (negative for parameters)
	Size  int   // reserved for forward compatibility; unused
}

// NameTable is a stack of entries with a cursor tx marking the last live
// index. Index 0 is always the sentinel `_main_` procedure.
type NameTable struct {
	items []Entry
	tx    int
}

// New returns a table containing only the `_main_` sentinel.
func New() *NameTable {
	return &NameTable{items: []Entry{{Name: "_main_", Kind: Procedure}}, tx: 0}
}

// add appends item, reusing a rolled-back slot if one is available.
func (t *NameTable) add(item Entry) {
	t.tx++
	if t.tx < len(t.items) {
		t.items[t.tx] = item
	} else {
		t.items = append(t.items, item)
	}
}

// AddConstant registers a compile-time constant.
func (t *NameTable) AddConstant(name string, level int, value int64) {
	t.add(Entry{Name: name, Kind: Constant, Value: value, Level: level})
}

// AddVariable registers a variable at the given frame-relative address.
func (t *NameTable) AddVariable(name string, level int, addr int64) {
	t.add(Entry{Name: name, Kind: Variable, Level: level, Addr: addr})
}

// AddProcedure registers a procedure. Its entry address is filled in
// later via SetValue once the code vector's insertion point is known.
func (t *NameTable) AddProcedure(name string, level int) {
	t.add(Entry{Name: name, Kind: Procedure, Level: level})
}

// SetValue overwrites the Value field of the entry at index, used to
// patch in a procedure's entry address once it is known.
func (t *NameTable) SetValue(index int, value int64) {
	t.items[index].Value = value
}

// Rollback logically pops the last n additions.
func (t *NameTable) Rollback(n int) {
	t.tx -= n
}

// Tx returns the current cursor.
func (t *NameTable) Tx() int { return t.tx }

// Find scans live entries (0..=tx) from the top down and returns the
// first name match, so inner scopes shadow outer ones.
func (t *NameTable) Find(name string) (Entry, bool) {
	for i := t.tx; i >= 0; i-- {
		if t.items[i].Name == name {
			return t.items[i], true
		}
	}
	return Entry{}, false
}

// FindKindError is returned by FindKind when the name resolves to an
// entry of a different kind than requested.
type FindKindError struct {
	Name     string
	Want     Kind
	Got      Kind
}

func (e *FindKindError) Error() string {
	return fmt.Sprintf("%q is a %s, expected a %s", e.Name, e.Got, e.Want)
}

// FindKind finds name and asserts it has the given kind. It returns
// ok=false with no error when the name is undefined, and a *FindKindError
// when it is defined with the wrong kind.
func (t *NameTable) FindKind(name string, kind Kind) (entry Entry, ok bool, err error) {
	entry, found := t.Find(name)
	if !found {
		return Entry{}, false, nil
	}
	if entry.Kind != kind {
		return Entry{}, false, &FindKindError{Name: name, Want: kind, Got: entry.Kind}
	}
	return entry, true, nil
}
