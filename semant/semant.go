// Package semant performs semantic analysis: it walks a parser.Node CST,
// assigns pre-order scope numbers, checks declarations and types, and lowers
// the tree into the ast.Node form the code generator consumes.
package semant

import (
	"fmt"

	"github.com/nexus-lang/nexuscc/ast"
	"github.com/nexus-lang/nexuscc/parser"
	"github.com/nexus-lang/nexuscc/symtab"
	"github.com/nexus-lang/nexuscc/token"
)

// TypeError is returned for a type mismatch or an undeclared-identifier use.
type TypeError struct {
	Pos token.Position
	Msg string
}

func (e TypeError) Error() string {
	return fmt.Sprintf("semantic error at %s: %s", e.Pos, e.Msg)
}

// Result is the output of Analyze: the lowered AST and the completed symbol
// table, both addressed by the ScopeID the analyser assigned.
type Result struct {
	Root  ast.Node
	Table *symtab.Table
}

// analyzer carries the state needed during a single top-to-bottom walk: the
// symbol table under construction and a monotonically increasing counter
// that assigns each Block its scope id in pre-order, matching the order
// codegen re-enters blocks when it walks the same tree.
type analyzer struct {
	table     *symtab.Table
	nextScope int
}

// Analyze lowers a parsed CST into an AST, type-checking as it goes.
func Analyze(cst *parser.Node) (*Result, error) {
	a := &analyzer{table: symtab.New()}
	root, err := a.block(cst)
	if err != nil {
		return nil, err
	}
	return &Result{Root: root, Table: a.table}, nil
}

func (a *analyzer) block(n *parser.Node) (ast.Node, error) {
	scope := a.nextScope
	a.nextScope++
	logger.Printf("parsing block, scope %d", scope)
	a.table.SetCurScope(scope)
	defer a.table.EndCurScope()

	children := make([]ast.Node, 0, len(n.Children))
	for _, stmt := range n.Children {
		child, err := a.stmt(stmt)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return ast.NonTerminal{Tag: ast.Block, ScopeID: scope, Children: children}, nil
}

func (a *analyzer) stmt(n *parser.Node) (ast.Node, error) {
	switch n.Kind {
	case parser.KBlock:
		return a.block(n)
	case parser.KPrintStmt:
		return a.printStmt(n)
	case parser.KAssignStmt:
		return a.assignStmt(n)
	case parser.KVarDecl:
		return a.varDecl(n)
	case parser.KWhileStmt:
		return a.loopStmt(n, ast.While)
	case parser.KIfStmt:
		return a.loopStmt(n, ast.If)
	default:
		return nil, fmt.Errorf("semant: unexpected CST kind %d in statement position", n.Kind)
	}
}

func (a *analyzer) printStmt(n *parser.Node) (ast.Node, error) {
	expr, _, err := a.expr(n.Children[0])
	if err != nil {
		return nil, err
	}
	return ast.NonTerminal{Tag: ast.Print, Children: []ast.Node{expr}}, nil
}

func (a *analyzer) assignStmt(n *parser.Node) (ast.Node, error) {
	idTok := n.Children[0].Token
	sym, ok := a.table.GetSymbol(idTok.Text)
	if !ok {
		return nil, TypeError{Pos: idTok.Pos, Msg: fmt.Sprintf("%q used before declaration", idTok.Text)}
	}
	expr, exprType, err := a.expr(n.Children[1])
	if err != nil {
		return nil, err
	}
	if exprType != sym.SymType {
		return nil, TypeError{Pos: idTok.Pos, Msg: fmt.Sprintf("cannot assign %s to %q of type %s", exprType, idTok.Text, sym.SymType)}
	}
	idNode := ast.Terminal{Token: idTok}
	return ast.NonTerminal{Tag: ast.Assign, Children: []ast.Node{expr, idNode}}, nil
}

func (a *analyzer) varDecl(n *parser.Node) (ast.Node, error) {
	var symType symtab.Type
	switch n.Token.KeywordKind {
	case token.Int:
		symType = symtab.Int
	case token.String:
		symType = symtab.String
	case token.Boolean:
		symType = symtab.Boolean
	}
	idTok := n.Children[0].Token
	if err := a.table.Declare(idTok.Text, symType); err != nil {
		return nil, TypeError{Pos: idTok.Pos, Msg: err.Error()}
	}
	idNode := ast.Terminal{Token: idTok}
	return ast.NonTerminal{Tag: ast.VarDecl, Children: []ast.Node{idNode}}, nil
}

// loopStmt lowers the shared shape of WhileStmt and IfStmt: a boolean
// condition followed by a body block. The condition is always kept as
// Children[1], including a literal true/false, since codegen must tell a
// constant-true condition (skip the comparison, always run the body) apart
// from a constant-false one (the body is dead code and emits nothing).
func (a *analyzer) loopStmt(n *parser.Node, tag ast.Tag) (ast.Node, error) {
	condNode := n.Children[0]
	bodyNode := n.Children[1]

	body, err := a.block(bodyNode)
	if err != nil {
		return nil, err
	}

	cond, condType, err := a.expr(condNode)
	if err != nil {
		return nil, err
	}
	if condType != symtab.Boolean {
		return nil, TypeError{Pos: condPos(condNode), Msg: fmt.Sprintf("condition must be boolean, got %s", condType)}
	}
	return ast.NonTerminal{Tag: tag, Children: []ast.Node{body, cond}}, nil
}

func condPos(n *parser.Node) token.Position {
	if n.Kind == parser.KTerminal {
		return n.Token.Pos
	}
	if len(n.Children) > 0 {
		return condPos(n.Children[0])
	}
	return token.Position{}
}

// expr lowers an expression node, returning its AST form and inferred type.
func (a *analyzer) expr(n *parser.Node) (ast.Node, symtab.Type, error) {
	switch n.Kind {
	case parser.KTerminal:
		return a.terminalExpr(n.Token)
	case parser.KAdd:
		rhs, rhsType, err := a.expr(n.Children[0])
		if err != nil {
			return nil, 0, err
		}
		if rhsType != symtab.Int {
			return nil, 0, TypeError{Pos: condPos(n.Children[0]), Msg: fmt.Sprintf("'+' requires int operands, got %s", rhsType)}
		}
		lhsTok := n.Children[1].Token
		lhs := ast.Terminal{Token: lhsTok}
		return ast.NonTerminal{Tag: ast.Add, Children: []ast.Node{rhs, lhs}}, symtab.Int, nil
	case parser.KIsEq, parser.KNotEq:
		rhs, rhsType, err := a.expr(n.Children[0])
		if err != nil {
			return nil, 0, err
		}
		lhs, lhsType, err := a.expr(n.Children[1])
		if err != nil {
			return nil, 0, err
		}
		if rhsType != lhsType {
			return nil, 0, TypeError{Pos: condPos(n), Msg: fmt.Sprintf("cannot compare %s with %s", lhsType, rhsType)}
		}
		tag := ast.IsEq
		if n.Kind == parser.KNotEq {
			tag = ast.NotEq
		}
		return ast.NonTerminal{Tag: tag, Children: []ast.Node{rhs, lhs}}, symtab.Boolean, nil
	default:
		return nil, 0, fmt.Errorf("semant: unexpected CST kind %d in expression position", n.Kind)
	}
}

func (a *analyzer) terminalExpr(t token.Token) (ast.Node, symtab.Type, error) {
	switch t.Kind {
	case token.Digit:
		return ast.Terminal{Token: t}, symtab.Int, nil
	case token.CharLiteral:
		return ast.Terminal{Token: t}, symtab.String, nil
	case token.Keyword:
		if t.KeywordKind == token.True || t.KeywordKind == token.False {
			return ast.Terminal{Token: t}, symtab.Boolean, nil
		}
		return nil, 0, fmt.Errorf("semant: unexpected keyword %s in expression position", t.KeywordKind)
	case token.Identifier:
		sym, ok := a.table.GetSymbol(t.Text)
		if !ok {
			return nil, 0, TypeError{Pos: t.Pos, Msg: fmt.Sprintf("%q used before declaration", t.Text)}
		}
		return ast.Terminal{Token: t}, sym.SymType, nil
	default:
		return nil, 0, fmt.Errorf("semant: unexpected token kind %s in expression position", t.Kind)
	}
}
