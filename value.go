package micropy

import (
	"strconv"
	"strings"
)

// Value is a runtime value: an Int or a *List. Booleans are the Ints 0 and 1.
type Value interface {
	value()
	String() string
}

type Int int64

// List is a mutable sequence shared by reference. Every holder of the same
// *List observes a cons on it.
type List struct {
	Elems []Value
}

func (i Int) value()   {}
func (l *List) value() {}

func (i Int) String() string {
	return strconv.FormatInt(int64(i), 10)
}

func (l *List) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, e := range l.Elems {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(e.String())
	}
	b.WriteByte(']')
	return b.String()
}

func NewList(elems ...Value) *List {
	return &List{Elems: elems}
}

// Cons appends v in place and returns the same list.
func (l *List) Cons(v Value) *List {
	l.Elems = append(l.Elems, v)
	return l
}

// Tail returns a new list holding every element but the first. The receiver
// is not modified. ok is false for an empty list.
func (l *List) Tail() (tail *List, ok bool) {
	if len(l.Elems) == 0 {
		return nil, false
	}
	rest := make([]Value, len(l.Elems)-1)
	copy(rest, l.Elems[1:])
	return &List{Elems: rest}, true
}

func (l *List) Head() (Value, bool) {
	if len(l.Elems) == 0 {
		return nil, false
	}
	return l.Elems[0], true
}

func (l *List) Len() int {
	return len(l.Elems)
}

// Identical is the == of the language: integers compare by value, lists by
// identity.
func Identical(a, b Value) bool {
	switch a := a.(type) {
	case Int:
		b, ok := b.(Int)
		return ok && a == b
	case *List:
		b, ok := b.(*List)
		return ok && a == b
	}
	return false
}

func Bool(b bool) Int {
	if b {
		return 1
	}
	return 0
}

func typeName(v Value) string {
	switch v.(type) {
	case Int:
		return "int"
	case *List:
		return "MicroPythonList"
	}
	return "unknown"
}
