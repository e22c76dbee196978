// Package ast defines the abstract syntax tree consumed by the code
// generator. Nodes are produced by package semant from a parsed CST.
package ast

import "github.com/nexus-lang/nexuscc/token"

// Tag identifies the shape of a NonTerminal node.
type Tag int

const (
	Block Tag = iota
	VarDecl
	Assign
	Print
	If
	While
	Add
	IsEq
	NotEq
)

func (t Tag) String() string {
	switch t {
	case Block:
		return "Block"
	case VarDecl:
		return "VarDecl"
	case Assign:
		return "Assign"
	case Print:
		return "Print"
	case If:
		return "If"
	case While:
		return "While"
	case Add:
		return "Add"
	case IsEq:
		return "IsEq"
	case NotEq:
		return "NotEq"
	default:
		return "?"
	}
}

// Node is either a Terminal or a NonTerminal.
type Node interface {
	node()
}

// Terminal wraps a single token (an identifier, digit, string literal, or
// boolean keyword) used as a leaf expression.
type Terminal struct {
	Token token.Token
}

func (Terminal) node() {}

// NonTerminal is an interior node. Children are stored in the role-indexed
// order the code generator expects (documented per Tag below), which is the
// natural left-to-right order except where noted:
//
//   - Block:   Children are the statements of the block, in source order.
//   - VarDecl: Children[0] is the declared identifier (Terminal).
//   - Assign:  Children[0] is the right-hand side expression,
//     Children[1] is the assigned identifier (Terminal).
//   - Print:   Children[0] is the printed expression.
//   - If:      Children[0] is the body Block, Children[1] is the condition
//     (always present, including a literal true/false terminal).
//   - While:   same shape as If.
//   - Add:     Children[0] is the right operand (may itself be Add),
//     Children[1] is the left operand (always a Digit Terminal).
//   - IsEq/NotEq: Children[0] is the right operand, Children[1] is the left
//     operand, matching Add's addressing.
type NonTerminal struct {
	Tag Tag
	// ScopeID is only meaningful when Tag == Block: the pre-order scope
	// number assigned by the semantic analyser.
	ScopeID  int
	Children []Node
}

func (NonTerminal) node() {}
