package micropy

import (
	"fmt"
	"strings"
)

// Node is a parsed, immutable syntax tree node. String renders the node's
// canonical parenthesized form.
type Node interface {
	pos() Pos
	String() string
}

type TypeName int

const (
	IntType TypeName = iota
	ListType
)

func (t TypeName) String() string {
	switch t {
	case IntType:
		return "int"
	case ListType:
		return "MicroPythonList"
	}
	panic("unreachable")
}

type FuncDef struct {
	Def        Token
	Name       Token
	Params     []Param
	ReturnType TypeName
	// Body is the function's suite followed by its return statement.
	Body Stmt
}

type Param struct {
	Name Token
	Type TypeName
}

func (f *FuncDef) pos() Pos {
	return f.Def.Pos
}

func (f *FuncDef) Id() string {
	return string(f.Name.Content)
}

func (f *FuncDef) ParamNames() []string {
	names := make([]string, 0, len(f.Params))
	for _, p := range f.Params {
		names = append(names, string(p.Name.Content))
	}
	return names
}

func (f *FuncDef) String() string {
	params := make([]string, 0, len(f.Params))
	for _, p := range f.Params {
		params = append(params, fmt.Sprintf("(%s %s)", p.Name.Content, p.Type))
	}
	return fmt.Sprintf("(def %s (%s) %s %s)", f.Name.Content, strings.Join(params, " "), f.ReturnType, f.Body)
}

type Stmt interface {
	Node
	stmt()
}

// SeqStmt runs First and then Second. Second is nil for the last statement
// of a suite that has only one statement.
type SeqStmt struct {
	First  Stmt
	Second Stmt
}

type AssignStmt struct {
	Target *IdExpr
	Value  Expr
}

type IfStmt struct {
	If   Token
	Test Expr
	Then Stmt
	Else Stmt
}

type WhileStmt struct {
	While Token
	Test  Expr
	Body  Stmt
}

type PrintStmt struct {
	Print Token
	Arg   Expr
}

type ReturnStmt struct {
	Return Token
	Arg    Expr
}

func (s *SeqStmt) pos() Pos {
	return s.First.pos()
}
func (a *AssignStmt) pos() Pos {
	return a.Target.Pos
}
func (i *IfStmt) pos() Pos {
	return i.If.Pos
}
func (w *WhileStmt) pos() Pos {
	return w.While.Pos
}
func (p *PrintStmt) pos() Pos {
	return p.Print.Pos
}
func (r *ReturnStmt) pos() Pos {
	return r.Return.Pos
}

func (s *SeqStmt) stmt()    {}
func (a *AssignStmt) stmt() {}
func (i *IfStmt) stmt()     {}
func (w *WhileStmt) stmt()  {}
func (p *PrintStmt) stmt()  {}
func (r *ReturnStmt) stmt() {}

func (s *SeqStmt) String() string {
	if s.Second == nil {
		return s.First.String()
	}
	var parts []string
	var flatten func(Stmt)
	flatten = func(st Stmt) {
		if seq, ok := st.(*SeqStmt); ok && seq.Second != nil {
			flatten(seq.First)
			flatten(seq.Second)
			return
		}
		parts = append(parts, st.String())
	}
	flatten(s)
	return "(seq " + strings.Join(parts, " ") + ")"
}

func (a *AssignStmt) String() string {
	return fmt.Sprintf("(= %s %s)", a.Target, a.Value)
}

func (i *IfStmt) String() string {
	if i.Else == nil {
		return fmt.Sprintf("(if %s %s)", i.Test, i.Then)
	}
	return fmt.Sprintf("(if %s %s %s)", i.Test, i.Then, i.Else)
}

func (w *WhileStmt) String() string {
	return fmt.Sprintf("(while %s %s)", w.Test, w.Body)
}

func (p *PrintStmt) String() string {
	return fmt.Sprintf("(print %s)", p.Arg)
}

func (r *ReturnStmt) String() string {
	return fmt.Sprintf("(return %s)", r.Arg)
}

type Expr interface {
	Node
	expr()
}

type UnaryOp int

const (
	OpPlus UnaryOp = iota
	OpNeg
	OpNot
	OpHead
	OpTail
	OpNull
)

func (o UnaryOp) String() string {
	switch o {
	case OpPlus:
		return "+"
	case OpNeg:
		return "-"
	case OpNot:
		return "not"
	case OpHead:
		return "head"
	case OpTail:
		return "tail"
	case OpNull:
		return "null"
	}
	panic("unreachable")
}

type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpEq
	OpNe
	OpGe
	OpLe
	OpGt
	OpLt
	OpAnd
	OpOr
	OpCons
)

var binaryOpNames = map[BinaryOp]string{
	OpAdd:  "+",
	OpSub:  "-",
	OpMul:  "*",
	OpDiv:  "/",
	OpEq:   "==",
	OpNe:   "!=",
	OpGe:   ">=",
	OpLe:   "<=",
	OpGt:   ">",
	OpLt:   "<",
	OpAnd:  "and",
	OpOr:   "or",
	OpCons: "cons",
}

func (o BinaryOp) String() string {
	if name, ok := binaryOpNames[o]; ok {
		return name
	}
	panic("unreachable")
}

// binaryOpFor maps an operator lexeme to its tag.
func binaryOpFor(lexeme string) (BinaryOp, bool) {
	for op, name := range binaryOpNames {
		if name == lexeme {
			return op, true
		}
	}
	return 0, false
}

type IdExpr struct {
	Token
}

type IntExpr struct {
	Token
	Value int64
}

type InputExpr struct {
	Int Token
}

// ListExpr builds a new empty list each time it is evaluated.
type ListExpr struct {
	List Token
}

type UnaryExpr struct {
	Operator Token
	Op       UnaryOp
	Operand  Expr
}

type BinaryExpr struct {
	Left     Expr
	Operator Token
	Op       BinaryOp
	Right    Expr
}

type CallExpr struct {
	Callee Token
	Args   []Expr
}

func (i *IdExpr) Name() string {
	return string(i.Content)
}

func (c *CallExpr) Name() string {
	return string(c.Callee.Content)
}

func (i *IdExpr) pos() Pos {
	return i.Token.Pos
}
func (i *IntExpr) pos() Pos {
	return i.Token.Pos
}
func (i *InputExpr) pos() Pos {
	return i.Int.Pos
}
func (l *ListExpr) pos() Pos {
	return l.List.Pos
}
func (u *UnaryExpr) pos() Pos {
	return u.Operator.Pos
}
func (b *BinaryExpr) pos() Pos {
	return b.Operator.Pos
}
func (c *CallExpr) pos() Pos {
	return c.Callee.Pos
}

func (i *IdExpr) expr()     {}
func (i *IntExpr) expr()    {}
func (i *InputExpr) expr()  {}
func (l *ListExpr) expr()   {}
func (u *UnaryExpr) expr()  {}
func (b *BinaryExpr) expr() {}
func (c *CallExpr) expr()   {}

func (i *IdExpr) String() string {
	return fmt.Sprintf("(id %s)", i.Content)
}

func (i *IntExpr) String() string {
	return fmt.Sprintf("(integer %d)", i.Value)
}

func (i *InputExpr) String() string {
	return "(input)"
}

func (l *ListExpr) String() string {
	return "(MicroPythonList)"
}

func (u *UnaryExpr) String() string {
	return fmt.Sprintf("(%s %s)", u.Op, u.Operand)
}

func (b *BinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Op, b.Left, b.Right)
}

func (c *CallExpr) String() string {
	args := make([]string, 0, len(c.Args))
	for _, a := range c.Args {
		args = append(args, a.String())
	}
	return fmt.Sprintf("(apply %s (%s))", c.Callee.Content, strings.Join(args, " "))
}
