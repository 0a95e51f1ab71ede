package micropy_test

import (
	"errors"
	"testing"

	"micropy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newParser(t *testing.T, src string) *micropy.Parser {
	t.Helper()
	p, err := micropy.NewParser(micropy.NewScanner("<test>", []byte(src)))
	require.NoError(t, err)
	return p
}

type parseExprTest struct {
	source    string
	canonical string
}

var parseExprTests = []parseExprTest{
	{"2 + 3 * 4", "(+ (integer 2) (* (integer 3) (integer 4)))"},
	{"a - b - c", "(- (- (id a) (id b)) (id c))"},
	{"a / b * c", "(* (/ (id a) (id b)) (id c))"},
	{"(a + b) * c", "(* (+ (id a) (id b)) (id c))"},
	{"- x * 2", "(* (- (id x)) (integer 2))"},
	{"+ 3", "(+ (integer 3))"},
	{"a or b and not c", "(or (id a) (and (id b) (not (id c))))"},
	{"a and b or c", "(or (and (id a) (id b)) (id c))"},
	{"not not a", "(not (not (id a)))"},
	{"a + 1 < b * 2", "(< (+ (id a) (integer 1)) (* (id b) (integer 2)))"},
	{"a == b", "(== (id a) (id b))"},
	{"x >= 1 and y != 2", "(and (>= (id x) (integer 1)) (!= (id y) (integer 2)))"},
	{"l.cons(1).head()", "(head (cons (id l) (integer 1)))"},
	{"l.cons(x + 1)", "(cons (id l) (+ (id x) (integer 1)))"},
	{"(a + b).tail()", "(tail (+ (id a) (id b)))"},
	{"MicroPythonList().null()", "(null (MicroPythonList))"},
	{"f(1, x + 2)", "(apply f ((integer 1) (+ (id x) (integer 2))))"},
	{"g()", "(apply g ())"},
	{"f(g(x)).head()", "(head (apply f ((apply g ((id x))))))"},
	{"int(input())", "(input)"},
	{"int ( input ( ) ) + 1", "(+ (input) (integer 1))"},
}

func TestParseExpr(t *testing.T) {
	for _, test := range parseExprTests {
		t.Logf("testing %q", test.source)
		expr, err := newParser(t, test.source).ParseExprAndEof()
		require.NoError(t, err)
		assert.Equal(t, test.canonical, expr.String())
	}
}

func TestParseExpr_Errors(t *testing.T) {
	tests := []struct {
		source     string
		incomplete bool
	}{
		{"a < b < c", false},
		{"l.foo()", false},
		{"l.head(1)", false},
		{"int(5)", false},
		{"MicroPythonList(1)", false},
		{"* 2", false},
		{"(1 + 2", true},
		{"1 +", true},
		{"f(1,", true},
		{"99999999999999999999", false},
	}
	for _, test := range tests {
		_, err := newParser(t, test.source).ParseExprAndEof()
		require.Error(t, err, test.source)
		assert.True(t, micropy.IsKind(err, micropy.SyntaxError), test.source)
		assert.Equal(t, test.incomplete, micropy.IsIncomplete(err), test.source)
	}
}

func TestParseExpr_Tokens(t *testing.T) {
	pr, err := micropy.NewParser(micropy.NewTokenList([]micropy.Token{
		{Kind: micropy.IDENTIFIER, Content: []byte("a")},
		{Kind: micropy.ADDOP, Content: []byte("+")},
		{Kind: micropy.INTEGER, Content: []byte("1")},
		{Kind: micropy.MULTOP, Content: []byte("*")},
		{Kind: micropy.IDENTIFIER, Content: []byte("b")},
	}))
	require.NoError(t, err)
	expr, err := pr.ParseExprAndEof()
	require.NoError(t, err)
	bin, ok := expr.(*micropy.BinaryExpr)
	require.True(t, ok, "expected binary expression, but got %#v", expr)
	assert.Equal(t, micropy.OpAdd, bin.Op)
	assert.IsType(t, &micropy.IdExpr{}, bin.Left)
	assert.IsType(t, &micropy.BinaryExpr{}, bin.Right)
}

type parseStmtTest struct {
	source    string
	canonical string
}

var parseStmtTests = []parseStmtTest{
	{"x = 1", "(= (id x) (integer 1))"},
	{"x = MicroPythonList ()", "(= (id x) (MicroPythonList))"},
	{"print (x.head ())", "(print (head (id x)))"},
	{"if a : x = 1 ;", "(if (id a) (= (id x) (integer 1)))"},
	{"if a : x = 1 ; else : x = 2 ;", "(if (id a) (= (id x) (integer 1)) (= (id x) (integer 2)))"},
	{"while i < 3 : i = i + 1 print (i) ;", "(while (< (id i) (integer 3)) (seq (= (id i) (+ (id i) (integer 1))) (print (id i))))"},
	{"while a : b = 1 c = 2 d = 3 ;", "(while (id a) (seq (= (id b) (integer 1)) (= (id c) (integer 2)) (= (id d) (integer 3))))"},
	{"if a : if b : x = 1 ; ; else : x = 2 ;", "(if (id a) (if (id b) (= (id x) (integer 1))) (= (id x) (integer 2)))"},
}

func TestParseStmt(t *testing.T) {
	for _, test := range parseStmtTests {
		t.Logf("testing %q", test.source)
		stmt, err := newParser(t, test.source).ParseStmtAndEof()
		require.NoError(t, err)
		assert.Equal(t, test.canonical, stmt.String())
	}
}

func TestParseStmt_Errors(t *testing.T) {
	for _, src := range []string{
		"x == 1",
		"return 1",
		"print x",
		"if a x = 1 ;",
		"while a : ;",
		"if a : x = 1",
		"1 = x",
	} {
		_, err := newParser(t, src).ParseStmtAndEof()
		require.Error(t, err, src)
		assert.True(t, micropy.IsKind(err, micropy.SyntaxError), src)
	}
}

func TestParseStmt_Suite(t *testing.T) {
	stmt, err := newParser(t, "while a : b = 1 c = 2 d = 3 ;").ParseStmtAndEof()
	require.NoError(t, err)
	body := stmt.(*micropy.WhileStmt).Body.(*micropy.SeqStmt)
	// statements chain to the left: ((b c) d)
	assert.IsType(t, &micropy.SeqStmt{}, body.First)
	assert.IsType(t, &micropy.AssignStmt{}, body.Second)
}

const twoDefs = `from MicroPythonListClass import MicroPythonList
def f (x : int, l : MicroPythonList) -> MicroPythonList :
  y = x
  return l.cons (y)
def main () -> int :
  print (f (1, MicroPythonList ()))
  return 0
`

func TestParseFile(t *testing.T) {
	defs, err := micropy.ParseFile("<test>", []byte(twoDefs))
	require.NoError(t, err)
	require.Len(t, defs, 2)
	assert.Equal(t, "f", defs[0].Id())
	assert.Equal(t, []string{"x", "l"}, defs[0].ParamNames())
	assert.Equal(t, micropy.ListType, defs[0].ReturnType)
	assert.Equal(t, micropy.ListType, defs[0].Params[1].Type)
	assert.Equal(t,
		"(def f ((x int) (l MicroPythonList)) MicroPythonList (seq (= (id y) (id x)) (return (cons (id l) (id y)))))",
		defs[0].String())
	assert.Equal(t,
		"(def main () int (seq (print (apply f ((integer 1) (MicroPythonList)))) (return (integer 0))))",
		defs[1].String())
}

func TestParseFile_Errors(t *testing.T) {
	for _, src := range []string{
		"def main () -> int : x = 1 return x",
		"from MicroPythonListClass import list",
		"from MicroPythonListClass import MicroPythonList def main -> int : x = 1 return x",
		"from MicroPythonListClass import MicroPythonList def main () : x = 1 return x",
		"from MicroPythonListClass import MicroPythonList def main () -> float : x = 1 return x",
		"from MicroPythonListClass import MicroPythonList def main () -> int : return 0",
		"from MicroPythonListClass import MicroPythonList def f (x) -> int : y = x return y",
		"from MicroPythonListClass import MicroPythonList def f (x : int,) -> int : y = x return y",
		"from MicroPythonListClass import MicroPythonList def main () -> int : x = 1",
	} {
		_, err := micropy.ParseFile("<test>", []byte(src))
		require.Error(t, err, src)
		assert.True(t, micropy.IsKind(err, micropy.SyntaxError), src)
	}
}

func TestParseProgram_HandsDefsOverInOrder(t *testing.T) {
	p := newParser(t, twoDefs)
	var names []string
	err := p.ParseProgram(micropy.DefHandlerFunc(func(def *micropy.FuncDef) error {
		names = append(names, def.Id())
		return nil
	}))
	require.NoError(t, err)
	assert.Equal(t, []string{"f", "main"}, names)
}

func TestParseProgram_HandlerRunsBeforeNextDefIsParsed(t *testing.T) {
	src := `from MicroPythonListClass import MicroPythonList
def first () -> int :
  x = 1
  return x
def broken ( -> int
`
	stop := errors.New("stop")
	var seen []string
	err := newParser(t, src).ParseProgram(micropy.DefHandlerFunc(func(def *micropy.FuncDef) error {
		seen = append(seen, def.Id())
		return stop
	}))
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, []string{"first"}, seen)

	seen = nil
	err = newParser(t, src).ParseProgram(micropy.DefHandlerFunc(func(def *micropy.FuncDef) error {
		seen = append(seen, def.Id())
		return nil
	}))
	assert.True(t, micropy.IsKind(err, micropy.SyntaxError))
	assert.Equal(t, []string{"first"}, seen)
}

func TestParseError_Position(t *testing.T) {
	_, err := micropy.ParseFile("prog.py", []byte("from MicroPythonListClass import MicroPythonList\ndef main () -> int :\n  x = = 1\n  return x\n"))
	var perr micropy.Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, micropy.Pos{Filename: "prog.py", Line: 3, Column: 7}, perr.Pos())
	assert.Contains(t, err.Error(), "prog.py:3:7: SyntaxError: expected atom")
}
