package micropy

import (
	"strconv"

	"fortio.org/log"
)

// DefHandler receives each function definition as soon as it has been
// parsed, before the parser looks at the next one.
type DefHandler interface {
	HandleDef(def *FuncDef) error
}

type DefHandlerFunc func(def *FuncDef) error

func (f DefHandlerFunc) HandleDef(def *FuncDef) error {
	return f(def)
}

// ParseFile parses a whole program and returns its definitions in source
// order without running anything.
func ParseFile(filename string, source []byte) ([]*FuncDef, error) {
	psr, err := NewParser(NewScanner(filename, source))
	if err != nil {
		return nil, err
	}
	defs := make([]*FuncDef, 0)
	err = psr.ParseProgram(DefHandlerFunc(func(def *FuncDef) error {
		defs = append(defs, def)
		return nil
	}))
	if err != nil {
		return nil, err
	}
	return defs, nil
}

// Parser is a recursive-descent parser holding exactly one token of
// lookahead. There is no backtracking: the first mismatch is returned.
type Parser struct {
	src TokenSource
	tok Token
}

func NewParser(src TokenSource) (*Parser, error) {
	p := &Parser{src: src}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

// ParseProgram parses
//
//	program ::= 'from' 'MicroPythonListClass' 'import' 'MicroPythonList' { funcdef }
//
// handing every definition to h as soon as it is complete.
func (p *Parser) ParseProgram(h DefHandler) error {
	for _, k := range []TokenKind{FROM, MICROPYTHONLISTCLASS, IMPORT, MICROPYTHONLIST} {
		if _, err := p.match(k); err != nil {
			return err
		}
	}
	return p.ParseDefs(h)
}

// ParseDefs parses { funcdef } up to the end of input.
func (p *Parser) ParseDefs(h DefHandler) error {
	for p.next().Kind != EOF {
		def, err := p.ParseFuncDef()
		if err != nil {
			return err
		}
		log.LogVf("parsed def %s at %s", def.Id(), def.pos())
		if err := h.HandleDef(def); err != nil {
			return err
		}
	}
	return nil
}

// ParseExprAndEof parses a single orTest that must span the whole input.
func (p *Parser) ParseExprAndEof() (Expr, error) {
	expr, err := p.ParseOrTest()
	if err != nil {
		return nil, err
	}
	if _, err := p.match(EOF); err != nil {
		return nil, err
	}
	return expr, nil
}

// ParseStmtAndEof parses a single statement that must span the whole input.
func (p *Parser) ParseStmtAndEof() (Stmt, error) {
	stmt, err := p.ParseStatement()
	if err != nil {
		return nil, err
	}
	if _, err := p.match(EOF); err != nil {
		return nil, err
	}
	return stmt, nil
}

// Pos returns the position of the lookahead token.
func (p *Parser) Pos() Pos {
	return p.next().Pos
}

// ParseFuncDef parses
//
//	funcdef ::= 'def' ID '(' [ param { ',' param } ] ')' '->' type ':' suite 'return' addExpr
func (p *Parser) ParseFuncDef() (*FuncDef, error) {
	def, err := p.match(DEF)
	if err != nil {
		return nil, err
	}
	name, err := p.match(IDENTIFIER)
	if err != nil {
		return nil, err
	}
	if _, err := p.match(LEFTPAREN); err != nil {
		return nil, err
	}
	params := make([]Param, 0)
	if p.next().Kind == IDENTIFIER {
		for {
			param, err := p.ParseParam()
			if err != nil {
				return nil, err
			}
			params = append(params, param)
			if p.next().Kind != COMMA {
				break
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}
	if _, err := p.match(RIGHTPAREN); err != nil {
		return nil, err
	}
	if _, err := p.match(RETURNS); err != nil {
		return nil, err
	}
	returnType, err := p.ParseType()
	if err != nil {
		return nil, err
	}
	if _, err := p.match(COLON); err != nil {
		return nil, err
	}
	suite, err := p.ParseSuite()
	if err != nil {
		return nil, err
	}
	ret, err := p.match(RETURN)
	if err != nil {
		return nil, err
	}
	arg, err := p.ParseAddExpr()
	if err != nil {
		return nil, err
	}
	return &FuncDef{
		Def:        def,
		Name:       name,
		Params:     params,
		ReturnType: returnType,
		Body: &SeqStmt{
			First:  suite,
			Second: &ReturnStmt{Return: ret, Arg: arg},
		},
	}, nil
}

// ParseParam parses param ::= ID ':' type.
func (p *Parser) ParseParam() (Param, error) {
	name, err := p.match(IDENTIFIER)
	if err != nil {
		return Param{}, err
	}
	if _, err := p.match(COLON); err != nil {
		return Param{}, err
	}
	typ, err := p.ParseType()
	if err != nil {
		return Param{}, err
	}
	return Param{Name: name, Type: typ}, nil
}

// ParseType parses type ::= 'int' | 'MicroPythonList'.
func (p *Parser) ParseType() (TypeName, error) {
	switch p.next().Kind {
	case INT:
		return IntType, p.advance()
	case MICROPYTHONLIST:
		return ListType, p.advance()
	}
	return 0, p.expected("type")
}

func startsStatement(k TokenKind) bool {
	switch k {
	case IDENTIFIER, IF, WHILE, PRINT:
		return true
	}
	return false
}

// ParseSuite parses suite ::= statement { statement }. The statements are
// chained into left-nested sequences.
func (p *Parser) ParseSuite() (Stmt, error) {
	first, err := p.ParseStatement()
	if err != nil {
		return nil, err
	}
	var stmt Stmt = &SeqStmt{First: first}
	for startsStatement(p.next().Kind) {
		next, err := p.ParseStatement()
		if err != nil {
			return nil, err
		}
		if seq := stmt.(*SeqStmt); seq.Second == nil {
			seq.Second = next
			continue
		}
		stmt = &SeqStmt{First: stmt, Second: next}
	}
	return stmt, nil
}

// ParseStatement parses
//
//	statement ::= ID '=' addExpr
//	            | 'if' orTest ':' suite ';' [ 'else' ':' suite ';' ]
//	            | 'while' orTest ':' suite ';'
//	            | 'print' '(' addExpr ')'
func (p *Parser) ParseStatement() (Stmt, error) {
	switch p.next().Kind {
	case IDENTIFIER:
		id := p.next()
		if err := p.advance(); err != nil {
			return nil, err
		}
		if _, err := p.match(ASSIGN); err != nil {
			return nil, err
		}
		value, err := p.ParseAddExpr()
		if err != nil {
			return nil, err
		}
		return &AssignStmt{Target: &IdExpr{Token: id}, Value: value}, nil
	case IF:
		kw := p.next()
		if err := p.advance(); err != nil {
			return nil, err
		}
		test, then, err := p.parseGuardedSuite()
		if err != nil {
			return nil, err
		}
		stmt := &IfStmt{If: kw, Test: test, Then: then}
		if p.next().Kind == ELSE {
			if err := p.advance(); err != nil {
				return nil, err
			}
			if _, err := p.match(COLON); err != nil {
				return nil, err
			}
			if stmt.Else, err = p.ParseSuite(); err != nil {
				return nil, err
			}
			if _, err := p.match(SEMICOLON); err != nil {
				return nil, err
			}
		}
		return stmt, nil
	case WHILE:
		kw := p.next()
		if err := p.advance(); err != nil {
			return nil, err
		}
		test, body, err := p.parseGuardedSuite()
		if err != nil {
			return nil, err
		}
		return &WhileStmt{While: kw, Test: test, Body: body}, nil
	case PRINT:
		kw := p.next()
		if err := p.advance(); err != nil {
			return nil, err
		}
		arg, err := p.parseParenthesized()
		if err != nil {
			return nil, err
		}
		return &PrintStmt{Print: kw, Arg: arg}, nil
	}
	return nil, p.expected("statement")
}

// parseGuardedSuite parses the orTest ':' suite ';' tail shared by if and
// while.
func (p *Parser) parseGuardedSuite() (Expr, Stmt, error) {
	test, err := p.ParseOrTest()
	if err != nil {
		return nil, nil, err
	}
	if _, err := p.match(COLON); err != nil {
		return nil, nil, err
	}
	body, err := p.ParseSuite()
	if err != nil {
		return nil, nil, err
	}
	if _, err := p.match(SEMICOLON); err != nil {
		return nil, nil, err
	}
	return test, body, nil
}

// ParseOrTest parses orTest ::= andTest { 'or' andTest }.
func (p *Parser) ParseOrTest() (Expr, error) {
	return p.parseLeftAssoc(OR, p.ParseAndTest)
}

// ParseAndTest parses andTest ::= notTest { 'and' notTest }.
func (p *Parser) ParseAndTest() (Expr, error) {
	return p.parseLeftAssoc(AND, p.ParseNotTest)
}

// ParseNotTest parses notTest ::= 'not' notTest | comparison.
func (p *Parser) ParseNotTest() (Expr, error) {
	if p.next().Kind != NOT {
		return p.ParseComparison()
	}
	kw := p.next()
	if err := p.advance(); err != nil {
		return nil, err
	}
	operand, err := p.ParseNotTest()
	if err != nil {
		return nil, err
	}
	return &UnaryExpr{Operator: kw, Op: OpNot, Operand: operand}, nil
}

// ParseComparison parses comparison ::= addExpr [ relOp addExpr ]. At most
// one comparison is consumed; comparisons do not chain.
func (p *Parser) ParseComparison() (Expr, error) {
	left, err := p.ParseAddExpr()
	if err != nil || p.next().Kind != RELOP {
		return left, err
	}
	return p.parseBinaryTail(left, p.ParseAddExpr)
}

// ParseAddExpr parses addExpr ::= multExpr { addOp multExpr }.
func (p *Parser) ParseAddExpr() (Expr, error) {
	return p.parseLeftAssoc(ADDOP, p.ParseMultExpr)
}

// ParseMultExpr parses multExpr ::= unaryExpr { multOp unaryExpr }.
func (p *Parser) ParseMultExpr() (Expr, error) {
	return p.parseLeftAssoc(MULTOP, p.ParseUnaryExpr)
}

// ParseUnaryExpr parses unaryExpr ::= [ addOp ] primary.
func (p *Parser) ParseUnaryExpr() (Expr, error) {
	if p.next().Kind != ADDOP {
		return p.ParsePrimary()
	}
	operator := p.next()
	if err := p.advance(); err != nil {
		return nil, err
	}
	operand, err := p.ParsePrimary()
	if err != nil {
		return nil, err
	}
	op := OpPlus
	if string(operator.Content) == "-" {
		op = OpNeg
	}
	return &UnaryExpr{Operator: operator, Op: op, Operand: operand}, nil
}

// ParsePrimary parses primary ::= INTEGER | 'int' '(' 'input' '(' ')' ')' | listPrimary.
func (p *Parser) ParsePrimary() (Expr, error) {
	switch t := p.next(); t.Kind {
	case INTEGER:
		val, err := strconv.ParseInt(string(t.Content), 10, 64)
		if err != nil {
			return nil, NewSyntaxError(t.Pos, "integer literal out of range: %s", t.Content)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &IntExpr{Token: t, Value: val}, nil
	case INT:
		if err := p.advance(); err != nil {
			return nil, err
		}
		for _, k := range []TokenKind{LEFTPAREN, INPUT, LEFTPAREN, RIGHTPAREN, RIGHTPAREN} {
			if _, err := p.match(k); err != nil {
				return nil, err
			}
		}
		return &InputExpr{Int: t}, nil
	}
	return p.ParseListPrimary()
}

// ParseListPrimary parses
//
//	listPrimary ::= atom { '.' ( 'cons' '(' addExpr ')' | 'head' '(' ')' | 'tail' '(' ')' | 'null' '(' ')' ) }
func (p *Parser) ParseListPrimary() (Expr, error) {
	exp, err := p.ParseAtom()
	if err != nil {
		return nil, err
	}
	for p.next().Kind == PERIOD {
		if err := p.advance(); err != nil {
			return nil, err
		}
		method := p.next()
		switch method.Kind {
		case CONS:
			if err := p.advance(); err != nil {
				return nil, err
			}
			arg, err := p.parseParenthesized()
			if err != nil {
				return nil, err
			}
			exp = &BinaryExpr{Left: exp, Operator: method, Op: OpCons, Right: arg}
		case HEAD, TAIL, NULL:
			if err := p.advance(); err != nil {
				return nil, err
			}
			if err := p.matchEmptyParens(); err != nil {
				return nil, err
			}
			exp = &UnaryExpr{Operator: method, Op: listMethods[method.Kind], Operand: exp}
		default:
			return nil, p.expected("list method")
		}
	}
	return exp, nil
}

var listMethods = map[TokenKind]UnaryOp{
	HEAD: OpHead,
	TAIL: OpTail,
	NULL: OpNull,
}

// ParseAtom parses
//
//	atom ::= ID [ '(' [ addExpr { ',' addExpr } ] ')' ] | '(' addExpr ')' | 'MicroPythonList' '(' ')'
func (p *Parser) ParseAtom() (Expr, error) {
	switch t := p.next(); t.Kind {
	case IDENTIFIER:
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.next().Kind != LEFTPAREN {
			return &IdExpr{Token: t}, nil
		}
		args, err := p.parseArgs()
		if err != nil {
			return nil, err
		}
		return &CallExpr{Callee: t, Args: args}, nil
	case LEFTPAREN:
		return p.parseParenthesized()
	case MICROPYTHONLIST:
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.matchEmptyParens(); err != nil {
			return nil, err
		}
		return &ListExpr{List: t}, nil
	}
	return nil, p.expected("atom")
}

func (p *Parser) parseArgs() ([]Expr, error) {
	if _, err := p.match(LEFTPAREN); err != nil {
		return nil, err
	}
	args := make([]Expr, 0)
	if p.next().Kind != RIGHTPAREN {
		for {
			arg, err := p.ParseAddExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.next().Kind != COMMA {
				break
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}
	if _, err := p.match(RIGHTPAREN); err != nil {
		return nil, err
	}
	return args, nil
}

// parseParenthesized parses '(' addExpr ')'.
func (p *Parser) parseParenthesized() (Expr, error) {
	if _, err := p.match(LEFTPAREN); err != nil {
		return nil, err
	}
	inner, err := p.ParseAddExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.match(RIGHTPAREN); err != nil {
		return nil, err
	}
	return inner, nil
}

func (p *Parser) matchEmptyParens() error {
	if _, err := p.match(LEFTPAREN); err != nil {
		return err
	}
	_, err := p.match(RIGHTPAREN)
	return err
}

// parseLeftAssoc parses operand { k operand } into a left-nested chain of
// binary expressions.
func (p *Parser) parseLeftAssoc(k TokenKind, operand func() (Expr, error)) (Expr, error) {
	lhs, err := operand()
	if err != nil {
		return nil, err
	}
	for p.next().Kind == k {
		if lhs, err = p.parseBinaryTail(lhs, operand); err != nil {
			return nil, err
		}
	}
	return lhs, nil
}

// parseBinaryTail consumes the operator in the lookahead and its right
// operand.
func (p *Parser) parseBinaryTail(lhs Expr, operand func() (Expr, error)) (Expr, error) {
	operator := p.next()
	op, ok := binaryOpFor(string(operator.Content))
	if !ok {
		return nil, p.expected("binary operator")
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	rhs, err := operand()
	if err != nil {
		return nil, err
	}
	return &BinaryExpr{Left: lhs, Operator: operator, Op: op, Right: rhs}, nil
}

func (p *Parser) next() Token {
	return p.tok
}

func (p *Parser) advance() error {
	t, err := p.src.Scan()
	if err != nil {
		return err
	}
	p.tok = t
	return nil
}

func (p *Parser) match(k TokenKind) (Token, error) {
	t := p.next()
	if t.Kind != k {
		return Token{Kind: k}, p.expected(k.String())
	}
	return t, p.advance()
}

func (p *Parser) expected(what string) error {
	t := p.next()
	err := NewSyntaxError(t.Pos, "expected %s, but got %s", what, t)
	err.incomplete = t.Kind == EOF
	return err
}
