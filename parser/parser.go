// Package parser builds a concrete syntax tree (CST) from a token stream,
// reporting syntactic errors. Semantic analysis (scoping, typing, and
// lowering to the AST the code generator consumes) happens downstream in
// package semant.
package parser

import (
	"fmt"

	"github.com/nexus-lang/nexuscc/token"
)

// Kind identifies a CST production.
type Kind int

const (
	KBlock Kind = iota
	KPrintStmt
	KAssignStmt
	KVarDecl
	KWhileStmt
	KIfStmt
	KTerminal
	KAdd
	KIsEq
	KNotEq
)

// Node is a single CST production or terminal. KAssignStmt holds {identifier,
// expression}; KWhileStmt and KIfStmt hold {condition, body}; KAdd/KIsEq/KNotEq
// follow the convention Children[0] is
// the right operand and Children[1] is the left operand (the source
// language's grammar is right-recursive and the reference implementation
// addresses children in that order).
type Node struct {
	Kind     Kind
	Token    token.Token // set for KTerminal, and for KVarDecl (the type keyword)
	Children []*Node
}

// SyntaxError is returned when the token stream does not match the grammar.
type SyntaxError struct {
	Pos      token.Position
	Found    string
	Expected string
}

func (e SyntaxError) Error() string {
	return fmt.Sprintf("parse error at %s: found %s, expected %s", e.Pos, e.Found, e.Expected)
}

// Parser builds a CST from a fixed token slice for a single program.
type Parser struct {
	toks []token.Token
	pos  int
}

// New returns a Parser over the given token stream.
func New(toks []token.Token) *Parser {
	return &Parser{toks: toks}
}

// ParseProgram parses a full program: a single top-level Block, with no
// tokens remaining afterwards.
func ParseProgram(toks []token.Token) (*Node, error) {
	p := New(toks)
	block, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.toks) {
		return nil, SyntaxError{Pos: p.curPos(), Found: p.curDesc(), Expected: "end of program"}
	}
	return block, nil
}

func (p *Parser) curPos() token.Position {
	if p.pos < len(p.toks) {
		return p.toks[p.pos].Pos
	}
	if len(p.toks) > 0 {
		return p.toks[len(p.toks)-1].Pos
	}
	return token.Position{Line: 1, Col: 1}
}

func (p *Parser) curDesc() string {
	if p.pos < len(p.toks) {
		return p.toks[p.pos].String()
	}
	return "end of input"
}

func (p *Parser) peek() (token.Token, bool) {
	if p.pos >= len(p.toks) {
		return token.Token{}, false
	}
	return p.toks[p.pos], true
}

func (p *Parser) advance() token.Token {
	t := p.toks[p.pos]
	p.pos++
	return t
}

func (p *Parser) expectSymbol(sym token.Symbols) (token.Token, error) {
	t, ok := p.peek()
	if !ok || t.Kind != token.Symbol || t.SymbolKind != sym {
		return token.Token{}, SyntaxError{Pos: p.curPos(), Found: p.curDesc(), Expected: sym.String()}
	}
	return p.advance(), nil
}

func (p *Parser) expectKeyword(kw token.Keywords) (token.Token, error) {
	t, ok := p.peek()
	if !ok || t.Kind != token.Keyword || t.KeywordKind != kw {
		return token.Token{}, SyntaxError{Pos: p.curPos(), Found: p.curDesc(), Expected: kw.String()}
	}
	return p.advance(), nil
}

func (p *Parser) expectIdentifier() (token.Token, error) {
	t, ok := p.peek()
	if !ok || t.Kind != token.Identifier {
		return token.Token{}, SyntaxError{Pos: p.curPos(), Found: p.curDesc(), Expected: "identifier"}
	}
	return p.advance(), nil
}

func (p *Parser) parseBlock() (*Node, error) {
	if _, err := p.expectSymbol(token.LBrace); err != nil {
		return nil, err
	}
	var stmts []*Node
	for {
		t, ok := p.peek()
		if !ok {
			return nil, SyntaxError{Pos: p.curPos(), Found: "end of input", Expected: "'}'"}
		}
		if t.Kind == token.Symbol && t.SymbolKind == token.RBrace {
			break
		}
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	if _, err := p.expectSymbol(token.RBrace); err != nil {
		return nil, err
	}
	return &Node{Kind: KBlock, Children: stmts}, nil
}

func (p *Parser) parseStmt() (*Node, error) {
	t, ok := p.peek()
	if !ok {
		return nil, SyntaxError{Pos: p.curPos(), Found: "end of input", Expected: "a statement"}
	}
	switch {
	case t.Kind == token.Keyword && t.KeywordKind == token.Print:
		return p.parsePrintStmt()
	case t.Kind == token.Identifier:
		return p.parseAssignStmt()
	case t.Kind == token.Keyword && (t.KeywordKind == token.Int || t.KeywordKind == token.String || t.KeywordKind == token.Boolean):
		return p.parseVarDecl()
	case t.Kind == token.Keyword && t.KeywordKind == token.While:
		return p.parseWhileStmt()
	case t.Kind == token.Keyword && t.KeywordKind == token.If:
		return p.parseIfStmt()
	case t.Kind == token.Symbol && t.SymbolKind == token.LBrace:
		return p.parseBlock()
	default:
		return nil, SyntaxError{Pos: p.curPos(), Found: p.curDesc(), Expected: "a statement"}
	}
}

func (p *Parser) parsePrintStmt() (*Node, error) {
	if _, err := p.expectKeyword(token.Print); err != nil {
		return nil, err
	}
	if _, err := p.expectSymbol(token.LParen); err != nil {
		return nil, err
	}
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectSymbol(token.RParen); err != nil {
		return nil, err
	}
	return &Node{Kind: KPrintStmt, Children: []*Node{expr}}, nil
}

func (p *Parser) parseAssignStmt() (*Node, error) {
	idTok, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectSymbol(token.AssignOp); err != nil {
		return nil, err
	}
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	idNode := &Node{Kind: KTerminal, Token: idTok}
	return &Node{Kind: KAssignStmt, Children: []*Node{idNode, expr}}, nil
}

func (p *Parser) parseVarDecl() (*Node, error) {
	t, _ := p.peek()
	typeTok := p.advance()
	_ = t
	idTok, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	idNode := &Node{Kind: KTerminal, Token: idTok}
	return &Node{Kind: KVarDecl, Token: typeTok, Children: []*Node{idNode}}, nil
}

func (p *Parser) parseWhileStmt() (*Node, error) {
	if _, err := p.expectKeyword(token.While); err != nil {
		return nil, err
	}
	cond, err := p.parseBoolExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &Node{Kind: KWhileStmt, Children: []*Node{cond, body}}, nil
}

func (p *Parser) parseIfStmt() (*Node, error) {
	if _, err := p.expectKeyword(token.If); err != nil {
		return nil, err
	}
	cond, err := p.parseBoolExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &Node{Kind: KIfStmt, Children: []*Node{cond, body}}, nil
}

// parseExpr parses Expr := IntExpr | StringExpr | BoolExpr | Id.
func (p *Parser) parseExpr() (*Node, error) {
	t, ok := p.peek()
	if !ok {
		return nil, SyntaxError{Pos: p.curPos(), Found: "end of input", Expected: "an expression"}
	}
	switch {
	case t.Kind == token.Digit:
		return p.parseIntExpr()
	case t.Kind == token.CharLiteral:
		p.advance()
		return &Node{Kind: KTerminal, Token: t}, nil
	case t.Kind == token.Identifier:
		p.advance()
		return &Node{Kind: KTerminal, Token: t}, nil
	case t.Kind == token.Symbol && t.SymbolKind == token.LParen:
		return p.parseBoolExpr()
	case t.Kind == token.Keyword && (t.KeywordKind == token.True || t.KeywordKind == token.False):
		return p.parseBoolExpr()
	default:
		return nil, SyntaxError{Pos: p.curPos(), Found: p.curDesc(), Expected: "an expression"}
	}
}

// parseIntExpr parses IntExpr := digit (+ Expr)?. The left operand of a '+'
// is always the digit just consumed; the right operand may recurse into
// another IntExpr, so nested additions accumulate on the right.
func (p *Parser) parseIntExpr() (*Node, error) {
	digitTok, ok := p.peek()
	if !ok || digitTok.Kind != token.Digit {
		return nil, SyntaxError{Pos: p.curPos(), Found: p.curDesc(), Expected: "a digit"}
	}
	p.advance()
	digitNode := &Node{Kind: KTerminal, Token: digitTok}

	t, ok := p.peek()
	if !ok || t.Kind != token.Symbol || t.SymbolKind != token.AdditionOp {
		return digitNode, nil
	}
	p.advance()
	rhs, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &Node{Kind: KAdd, Children: []*Node{rhs, digitNode}}, nil
}

// parseBoolExpr parses BoolExpr := ( Expr BoolOp Expr ) | false | true.
func (p *Parser) parseBoolExpr() (*Node, error) {
	t, ok := p.peek()
	if !ok {
		return nil, SyntaxError{Pos: p.curPos(), Found: "end of input", Expected: "a boolean expression"}
	}
	if t.Kind == token.Keyword && t.KeywordKind == token.True {
		p.advance()
		return &Node{Kind: KTerminal, Token: t}, nil
	}
	if t.Kind == token.Keyword && t.KeywordKind == token.False {
		p.advance()
		return &Node{Kind: KTerminal, Token: t}, nil
	}
	if _, err := p.expectSymbol(token.LParen); err != nil {
		return nil, err
	}
	left, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	opTok, ok := p.peek()
	if !ok || opTok.Kind != token.Symbol || (opTok.SymbolKind != token.EqOp && opTok.SymbolKind != token.NotEqOp) {
		return nil, SyntaxError{Pos: p.curPos(), Found: p.curDesc(), Expected: "'==' or '!='"}
	}
	p.advance()
	right, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectSymbol(token.RParen); err != nil {
		return nil, err
	}
	kind := KIsEq
	if opTok.SymbolKind == token.NotEqOp {
		kind = KNotEq
	}
	return &Node{Kind: kind, Children: []*Node{right, left}}, nil
}
