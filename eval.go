package micropy

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"fortio.org/log"
)

// Evaluator gives syntax trees their meaning against a Store. It is not safe
// for concurrent use; a program runs on a single goroutine.
type Evaluator struct {
	in    *bufio.Reader
	out   io.Writer
	cfg   Config
	mode  FrameMode
	depth int
}

func NewEvaluator(cfg Config, in io.Reader, out io.Writer) *Evaluator {
	return &Evaluator{
		in:   bufio.NewReader(in),
		out:  out,
		cfg:  cfg,
		mode: cfg.FrameMode(),
	}
}

// EvaluateStmt runs stmt. The result is the value of a return statement, or
// nil for statements run only for their effect.
func (e *Evaluator) EvaluateStmt(stmt Stmt, store *Store) (Value, error) {
	if log.LogDebug() {
		log.Debugf("exec %s", stmt)
	}
	switch st := stmt.(type) {
	case *SeqStmt:
		res, err := e.EvaluateStmt(st.First, store)
		if err != nil || st.Second == nil {
			return res, err
		}
		return e.EvaluateStmt(st.Second, store)
	case *AssignStmt:
		val, err := e.EvaluateExpr(st.Value, store)
		if err != nil {
			return nil, err
		}
		store.Update(st.Target.Name(), val)
		return nil, nil
	case *IfStmt:
		ok, err := e.evaluateTest(st.Test, store)
		if err != nil {
			return nil, err
		}
		if ok {
			return e.EvaluateStmt(st.Then, store)
		}
		if st.Else != nil {
			return e.EvaluateStmt(st.Else, store)
		}
		return nil, nil
	case *WhileStmt:
		for {
			ok, err := e.evaluateTest(st.Test, store)
			if err != nil || !ok {
				return nil, err
			}
			if _, err := e.EvaluateStmt(st.Body, store); err != nil {
				return nil, err
			}
		}
	case *PrintStmt:
		val, err := e.EvaluateExpr(st.Arg, store)
		if err != nil {
			return nil, err
		}
		if _, err := fmt.Fprintln(e.out, val); err != nil {
			return nil, NewError(IOError, st.pos(), "print: %s", err)
		}
		return nil, nil
	case *ReturnStmt:
		return e.EvaluateExpr(st.Arg, store)
	}
	panic("unreachable")
}

func (e *Evaluator) EvaluateExpr(expr Expr, store *Store) (Value, error) {
	switch ex := expr.(type) {
	case *IdExpr:
		val, ok := store.Get(ex.Name())
		if !ok {
			return nil, NewNameError(ex.pos(), "name %q is not defined", ex.Name())
		}
		return val, nil
	case *IntExpr:
		return Int(ex.Value), nil
	case *InputExpr:
		return e.readInt(ex)
	case *ListExpr:
		return NewList(), nil
	case *UnaryExpr:
		return e.evaluateUnaryExpr(ex, store)
	case *BinaryExpr:
		return e.evaluateBinaryExpr(ex, store)
	case *CallExpr:
		return e.evaluateCallExpr(ex, store)
	}
	panic("unreachable")
}

func (e *Evaluator) evaluateTest(test Expr, store *Store) (bool, error) {
	val, err := e.EvaluateExpr(test, store)
	if err != nil {
		return false, err
	}
	i, ok := val.(Int)
	if !ok {
		return false, NewTypeError(test.pos(), "condition must be int, got %s", typeName(val))
	}
	return i != 0, nil
}

func (e *Evaluator) readInt(ex *InputExpr) (Value, error) {
	if _, err := io.WriteString(e.out, e.cfg.InputPrompt); err != nil {
		return nil, NewError(IOError, ex.pos(), "input: %s", err)
	}
	line, err := e.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		if errors.Is(err, io.EOF) {
			return nil, NewError(IOError, ex.pos(), "input: unexpected end of input")
		}
		return nil, NewError(IOError, ex.pos(), "input: %s", err)
	}
	text := strings.TrimSpace(line)
	val, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return nil, NewError(IOError, ex.pos(), "input: %q is not an integer", text)
	}
	return Int(val), nil
}

func (e *Evaluator) evaluateUnaryExpr(u *UnaryExpr, store *Store) (Value, error) {
	operand, err := e.EvaluateExpr(u.Operand, store)
	if err != nil {
		return nil, err
	}
	switch u.Op {
	case OpPlus:
		return operand, nil
	case OpNeg, OpNot:
		i, ok := operand.(Int)
		if !ok {
			break
		}
		if u.Op == OpNeg {
			return -i, nil
		}
		return Bool(i == 0), nil
	case OpHead, OpTail, OpNull:
		l, ok := operand.(*List)
		if !ok {
			break
		}
		switch u.Op {
		case OpHead:
			if head, ok := l.Head(); ok {
				return head, nil
			}
		case OpTail:
			if tail, ok := l.Tail(); ok {
				return tail, nil
			}
		default:
			return Bool(l.Len() == 0), nil
		}
		return nil, NewError(IndexError, u.pos(), "%s of empty list", u.Op)
	}
	return nil, NewTypeError(u.pos(), "operator %s is not implemented for %s", u.Op, typeName(operand))
}

// evaluateBinaryExpr evaluates both operands, left first, for every
// operator: and/or do not short-circuit.
func (e *Evaluator) evaluateBinaryExpr(b *BinaryExpr, store *Store) (Value, error) {
	left, err := e.EvaluateExpr(b.Left, store)
	if err != nil {
		return nil, err
	}
	right, err := e.EvaluateExpr(b.Right, store)
	if err != nil {
		return nil, err
	}
	switch b.Op {
	case OpEq:
		return Bool(Identical(left, right)), nil
	case OpCons:
		l, ok := left.(*List)
		if !ok {
			return nil, NewTypeError(b.pos(), "cons on %s", typeName(left))
		}
		return l.Cons(right), nil
	}
	l, lok := left.(Int)
	r, rok := right.(Int)
	if !lok || !rok {
		return nil, NewTypeError(b.pos(), "operator %s is not implemented for types %s and %s", b.Op, typeName(left), typeName(right))
	}
	switch b.Op {
	case OpAdd:
		return l + r, nil
	case OpSub:
		return l - r, nil
	case OpMul:
		return l * r, nil
	case OpDiv:
		if r == 0 {
			return nil, NewError(ArithmeticError, b.pos(), "division by zero")
		}
		return l / r, nil
	case OpNe:
		return Bool(l != r), nil
	case OpGe:
		return Bool(l >= r), nil
	case OpLe:
		return Bool(l <= r), nil
	case OpGt:
		return Bool(l > r), nil
	case OpLt:
		return Bool(l < r), nil
	case OpAnd:
		return Bool(l != 0 && r != 0), nil
	case OpOr:
		return Bool(l != 0 || r != 0), nil
	}
	panic("unreachable")
}

// evaluateCallExpr evaluates each argument in the caller's store and binds
// it in the callee's frame before evaluating the next one, then runs the
// body in that frame.
func (e *Evaluator) evaluateCallExpr(c *CallExpr, store *Store) (Value, error) {
	fn, ok := store.GetFunc(c.Name())
	if !ok {
		return nil, NewNameError(c.pos(), "function %q is not defined", c.Name())
	}
	if len(c.Args) != len(fn.Params) {
		return nil, NewTypeError(c.pos(), "%s expects %d arguments, got %d", fn.Name, len(fn.Params), len(c.Args))
	}
	if e.depth >= e.cfg.MaxCallDepth {
		return nil, NewError(RecursionError, c.pos(), "maximum call depth %d exceeded in %s", e.cfg.MaxCallDepth, fn.Name)
	}
	frame := fn.Frame(e.mode)
	for i, arg := range c.Args {
		val, err := e.EvaluateExpr(arg, store)
		if err != nil {
			return nil, err
		}
		frame.Update(fn.Params[i], val)
	}
	e.depth++
	defer func() { e.depth-- }()
	log.LogVf("call %s with %d args at depth %d (%s frame)", fn.Name, len(c.Args), e.depth, e.mode)
	return e.EvaluateStmt(fn.Body, frame)
}
