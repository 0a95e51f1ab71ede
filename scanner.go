package micropy

import (
	"fmt"

	"github.com/cznic/mathutil"
)

type TokenKind int

const (
	EOF TokenKind = iota

	// punctuation
	PERIOD
	COMMA
	COLON
	SEMICOLON
	RETURNS

	// operators
	ASSIGN
	ADDOP
	MULTOP
	RELOP
	LEFTPAREN
	RIGHTPAREN

	// keywords
	AND
	CONS
	DEF
	ELSE
	FROM
	HEAD
	IF
	IMPORT
	INPUT
	INT
	MICROPYTHONLIST
	MICROPYTHONLISTCLASS
	NOT
	NULL
	OR
	PRINT
	RETURN
	TAIL
	WHILE

	IDENTIFIER
	INTEGER
)

var keywords = map[string]TokenKind{
	"and":                  AND,
	"cons":                 CONS,
	"def":                  DEF,
	"else":                 ELSE,
	"from":                 FROM,
	"head":                 HEAD,
	"if":                   IF,
	"import":               IMPORT,
	"input":                INPUT,
	"int":                  INT,
	"MicroPythonList":      MICROPYTHONLIST,
	"MicroPythonListClass": MICROPYTHONLISTCLASS,
	"not":                  NOT,
	"null":                 NULL,
	"or":                   OR,
	"print":                PRINT,
	"return":               RETURN,
	"tail":                 TAIL,
	"while":                WHILE,
}

func (t TokenKind) String() string {
	switch t {
	case EOF:
		return "end of input"
	case PERIOD:
		return "."
	case COMMA:
		return ","
	case COLON:
		return ":"
	case SEMICOLON:
		return ";"
	case RETURNS:
		return "->"
	case ASSIGN:
		return "="
	case ADDOP:
		return "additive operator"
	case MULTOP:
		return "multiplicative operator"
	case RELOP:
		return "relational operator"
	case LEFTPAREN:
		return "("
	case RIGHTPAREN:
		return ")"
	case IDENTIFIER:
		return "identifier"
	case INTEGER:
		return "integer"
	}
	for name, kind := range keywords {
		if kind == t {
			return name
		}
	}
	panic("unreachable")
}

type Pos struct {
	Filename string
	Line     int
	Column   int
}

func (p Pos) String() string {
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

type Token struct {
	Pos
	Kind    TokenKind
	Content []byte
}

func (t Token) String() string {
	switch t.Kind {
	case IDENTIFIER, INTEGER, ADDOP, MULTOP, RELOP:
		return fmt.Sprintf("%s %q", t.Kind, t.Content)
	}
	return t.Kind.String()
}

// TokenSource is a forward-only stream of tokens. Once the end of input is
// reached it keeps returning EOF.
type TokenSource interface {
	Scan() (Token, error)
}

func ScanTokens(filename string, source []byte) ([]Token, error) {
	sc := NewScanner(filename, source)
	tokens := []Token{}
	for {
		tok, err := sc.Scan()
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == EOF {
			break
		}
	}
	return tokens, nil
}

// TokenList is a TokenSource over an already scanned token slice.
type TokenList struct {
	tokens []Token
	index  int
}

func NewTokenList(tokens []Token) *TokenList {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != EOF {
		tokens = append(tokens, Token{Kind: EOF})
	}
	return &TokenList{tokens: tokens}
}

func (l *TokenList) Scan() (Token, error) {
	t := l.tokens[mathutil.Min(l.index, len(l.tokens)-1)]
	if l.index < len(l.tokens) {
		l.index++
	}
	return t, nil
}

type Scanner struct {
	filename  string
	line      int
	lineStart int
	source    []byte
	start     int
	end       int
}

func NewScanner(filename string, source []byte) *Scanner {
	const DEFAULT_LINE = 1
	return &Scanner{
		filename: filename,
		line:     DEFAULT_LINE,
		source:   source,
	}
}

func (s *Scanner) Scan() (Token, error) {
	s.skipWhitespace()
	s.start = s.end
	var t Token
	switch c := s.next(); c {
	case 0:
		t = s.token(EOF)
	case '.':
		s.advance()
		t = s.token(PERIOD)
	case ',':
		s.advance()
		t = s.token(COMMA)
	case ':':
		s.advance()
		t = s.token(COLON)
	case ';':
		s.advance()
		t = s.token(SEMICOLON)
	case '(':
		s.advance()
		t = s.token(LEFTPAREN)
	case ')':
		s.advance()
		t = s.token(RIGHTPAREN)
	case '+':
		s.advance()
		t = s.token(ADDOP)
	case '-':
		s.advance()
		if s.next() == '>' {
			s.advance()
			t = s.token(RETURNS)
		} else {
			t = s.token(ADDOP)
		}
	case '*', '/':
		s.advance()
		t = s.token(MULTOP)
	case '=':
		s.advance()
		if s.next() == '=' {
			s.advance()
			t = s.token(RELOP)
		} else {
			t = s.token(ASSIGN)
		}
	case '<', '>':
		s.advance()
		if s.next() == '=' {
			s.advance()
		}
		t = s.token(RELOP)
	case '!':
		s.advance()
		if s.next() != '=' {
			return s.token(EOF), NewSyntaxError(s.pos(), "unexpected character: %c", c)
		}
		s.advance()
		t = s.token(RELOP)
	default:
		if isId(c) {
			return s.id(), nil
		}
		if isNum(c) {
			return s.num(), nil
		}
		return s.token(EOF), NewSyntaxError(s.pos(), "unexpected character: %c", c)
	}
	return t, nil
}

func isId(c byte) bool {
	return ('A' <= c && c <= 'Z') || ('a' <= c && c <= 'z') || c == '_'
}

func isNum(c byte) bool {
	return '0' <= c && c <= '9'
}

func (s *Scanner) id() Token {
	for {
		c := s.next()
		if !isId(c) && !isNum(c) {
			break
		}
		s.advance()
	}
	t := s.token(IDENTIFIER)
	if kw, ok := keywords[string(t.Content)]; ok {
		t.Kind = kw
	}
	return t
}

func (s *Scanner) num() Token {
	for isNum(s.next()) {
		s.advance()
	}
	return s.token(INTEGER)
}

func (s *Scanner) skipWhitespace() {
	for {
		switch s.next() {
		case ' ', '\t', '\r':
			s.advance()
		case '\n':
			s.advance()
			s.line++
			s.lineStart = s.end
		case '#':
			for c := s.next(); c != '\n' && c != 0; c = s.next() {
				s.advance()
			}
		default:
			return
		}
	}
}

func (s *Scanner) next() byte {
	if s.end >= len(s.source) {
		return 0
	}
	return s.source[s.end]
}

func (s *Scanner) advance() byte {
	c := s.next()
	s.end++
	return c
}

func (s *Scanner) pos() Pos {
	return Pos{
		Filename: s.filename,
		Line:     s.line,
		Column:   s.start - s.lineStart + 1,
	}
}

func (s *Scanner) token(t TokenKind) Token {
	end := mathutil.Clamp(s.end, 0, len(s.source))
	start := mathutil.Clamp(s.start, 0, end)
	content := s.source[start:end]
	pos := s.pos()
	s.start = end
	return Token{
		Pos:     pos,
		Kind:    t,
		Content: content,
	}
}
