// Package codegen lowers a type-checked ast.Node into a 256-byte memory
// image for the target single-accumulator machine. It emits code and data
// using placeholder cells for addresses that are not known until the whole
// program has been laid out (variable slots, temporaries, branch targets),
// then resolves them in a single backpatch pass.
package codegen

import (
	"fmt"

	"github.com/nexus-lang/nexuscc/ast"
	"github.com/nexus-lang/nexuscc/symtab"
	"github.com/nexus-lang/nexuscc/token"
)

// staticKey identifies a declared variable's slot: the same name can be
// declared independently in sibling or nested scopes, so the scope number
// (assigned by package semant) disambiguates.
type staticKey struct {
	name  string
	scope int
}

// emitter holds the mutable state of a single code generation pass. A fresh
// emitter must be used per program; Generate takes care of that.
type emitter struct {
	cells [256]cell

	// codePtr grows up from 0x00 as instructions are emitted; the stack
	// pointer at runtime is always codePtr+1.
	codePtr byte
	// heapPtr grows down from 0xFE; 0xFF is reserved as a permanent known-zero
	// cell used by the Z-flip trick for NotEq and the unconditional branch.
	heapPtr byte

	tempIndex int
	jumps     []byte

	stringAddr  map[string]byte
	staticTable map[staticKey]int

	full bool
}

func newEmitter() *emitter {
	return &emitter{
		heapPtr:     0xFE,
		stringAddr:  make(map[string]byte),
		staticTable: make(map[staticKey]int),
	}
}

// Generate produces the final 256-byte image for a single program, given the
// AST and symbol table semant produced for it.
func Generate(root ast.Node, table *symtab.Table) ([256]byte, error) {
	var img [256]byte

	block, ok := root.(ast.NonTerminal)
	if !ok || block.Tag != ast.Block {
		return img, fmt.Errorf("codegen: expected a Block at the program root")
	}

	e := newEmitter()
	logger.Printf("code gen called")

	if err := e.genBlock(block, table); err != nil {
		return img, err
	}
	if err := e.emitCode(0x00); err != nil {
		return img, err
	}

	if err := e.backpatch(); err != nil {
		return img, err
	}

	logger.Printf("static table: %v", e.staticTable)
	logger.Printf("jumps: %v", e.jumps)

	for i, c := range e.cells {
		if c.Kind == cellCode || c.Kind == cellData {
			img[i] = c.Code
		}
	}
	return img, nil
}

func (e *emitter) onLastByte() bool { return e.codePtr == e.heapPtr }

func (e *emitter) emitCode(b byte) error {
	if e.full {
		return OverflowError{Kind: StackOverflow, Offset: e.codePtr}
	}
	if e.onLastByte() {
		e.full = true
	}
	e.cells[e.codePtr] = cell{Kind: cellCode, Code: b}
	e.codePtr++
	return nil
}

func (e *emitter) emitVar(offset int) error {
	if e.full {
		return OverflowError{Kind: StackOverflow, Offset: e.codePtr}
	}
	if e.onLastByte() {
		e.full = true
	}
	e.cells[e.codePtr] = cell{Kind: cellVar, Offset: offset}
	e.codePtr++
	return nil
}

func (e *emitter) emitTemp(offset int) error {
	if e.full {
		return OverflowError{Kind: StackOverflow, Offset: e.codePtr}
	}
	if e.onLastByte() {
		e.full = true
	}
	e.cells[e.codePtr] = cell{Kind: cellTemp, Offset: offset}
	e.codePtr++
	return nil
}

func (e *emitter) emitData(b byte) error {
	if e.full {
		return OverflowError{Kind: HeapOverflow, Offset: e.heapPtr}
	}
	if e.onLastByte() {
		e.full = true
	}
	e.cells[e.heapPtr] = cell{Kind: cellData, Code: b}
	e.heapPtr--
	return nil
}

func (e *emitter) emitJump() (int, error) {
	if e.full {
		return 0, OverflowError{Kind: StackOverflow, Offset: e.codePtr}
	}
	if e.onLastByte() {
		e.full = true
	}
	idx := len(e.jumps)
	e.cells[e.codePtr] = cell{Kind: cellJump, JumpIndex: idx}
	e.codePtr++
	e.jumps = append(e.jumps, 0x00)
	return idx, nil
}

// internString stores s on the heap, null-terminated, the first time it is
// seen, and returns its address on every subsequent call. Because the heap
// grows downward and the characters are emitted in reverse, the string ends
// up laid out forward in memory (lowest address first) followed by its
// terminator.
func (e *emitter) internString(s string) (byte, error) {
	if addr, ok := e.stringAddr[s]; ok {
		return addr, nil
	}
	if err := e.emitData(0x00); err != nil {
		return 0, err
	}
	runes := []rune(s)
	for i := len(runes) - 1; i >= 0; i-- {
		if err := e.emitData(byte(runes[i])); err != nil {
			return 0, err
		}
	}
	addr := e.heapPtr + 1
	e.stringAddr[s] = addr
	return addr, nil
}

func (e *emitter) staticOffset(name string, table *symtab.Table) (int, error) {
	sym, ok := table.GetSymbol(name)
	if !ok {
		return 0, fmt.Errorf("codegen: %q not found in symbol table", name)
	}
	key := staticKey{name: name, scope: sym.Scope}
	off, ok := e.staticTable[key]
	if !ok {
		return 0, fmt.Errorf("codegen: no static slot recorded for %q", name)
	}
	return off, nil
}

func (e *emitter) genBlock(n ast.NonTerminal, table *symtab.Table) error {
	table.SetCurScope(n.ScopeID)
	defer table.EndCurScope()

	for _, child := range n.Children {
		nt, ok := child.(ast.NonTerminal)
		if !ok {
			return fmt.Errorf("codegen: unexpected terminal in block position")
		}
		var err error
		switch nt.Tag {
		case ast.Block:
			err = e.genBlock(nt, table)
		case ast.VarDecl:
			err = e.genVarDecl(nt, table)
		case ast.Assign:
			err = e.genAssign(nt, table)
		case ast.Print:
			err = e.genPrint(nt, table)
		case ast.If:
			err = e.genIf(nt, table)
		case ast.While:
			err = e.genWhile(nt, table)
		default:
			err = fmt.Errorf("codegen: unexpected tag %s in block position", nt.Tag)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (e *emitter) genVarDecl(n ast.NonTerminal, table *symtab.Table) error {
	idTerm := n.Children[0].(ast.Terminal)
	idTok := idTerm.Token

	offset := len(e.staticTable)
	e.staticTable[staticKey{name: idTok.Text, scope: table.CurScope()}] = offset

	sym, ok := table.GetSymbol(idTok.Text)
	if !ok {
		return fmt.Errorf("codegen: %q not found in symbol table", idTok.Text)
	}
	if sym.SymType == symtab.String {
		// Strings have no runtime storage at declaration time; they are
		// materialized on the heap the first time they're assigned or used.
		return nil
	}

	if err := e.emitCode(0xA9); err != nil {
		return err
	}
	if err := e.emitCode(0x00); err != nil {
		return err
	}
	if err := e.emitCode(0x8D); err != nil {
		return err
	}
	if err := e.emitVar(offset); err != nil {
		return err
	}
	return e.emitCode(0x00)
}

func (e *emitter) genAssign(n ast.NonTerminal, table *symtab.Table) error {
	rhs := n.Children[0]
	idTok := n.Children[1].(ast.Terminal).Token

	if err := e.genValueToAcc(rhs, table); err != nil {
		return err
	}

	offset, err := e.staticOffset(idTok.Text, table)
	if err != nil {
		return err
	}
	if err := e.emitCode(0x8D); err != nil {
		return err
	}
	if err := e.emitVar(offset); err != nil {
		return err
	}
	return e.emitCode(0x00)
}

// genValueToAcc evaluates n and leaves the result in the accumulator.
func (e *emitter) genValueToAcc(n ast.Node, table *symtab.Table) error {
	switch v := n.(type) {
	case ast.Terminal:
		tok := v.Token
		switch tok.Kind {
		case token.Identifier:
			offset, err := e.staticOffset(tok.Text, table)
			if err != nil {
				return err
			}
			if err := e.emitCode(0xAD); err != nil {
				return err
			}
			if err := e.emitVar(offset); err != nil {
				return err
			}
			return e.emitCode(0x00)
		case token.Digit:
			if err := e.emitCode(0xA9); err != nil {
				return err
			}
			return e.emitCode(tok.Value)
		case token.CharLiteral:
			addr, err := e.internString(tok.Text)
			if err != nil {
				return err
			}
			if err := e.emitCode(0xA9); err != nil {
				return err
			}
			return e.emitCode(addr)
		case token.Keyword:
			if err := e.emitCode(0xA9); err != nil {
				return err
			}
			if tok.KeywordKind == token.True {
				return e.emitCode(0x01)
			}
			return e.emitCode(0x00)
		default:
			return fmt.Errorf("codegen: unexpected token kind %s as a value", tok.Kind)
		}
	case ast.NonTerminal:
		switch v.Tag {
		case ast.Add:
			return e.genAdd(v, table, true)
		case ast.IsEq:
			if err := e.genCompare(v, table, true); err != nil {
				return err
			}
			return e.genZFlagValue()
		case ast.NotEq:
			if err := e.genCompare(v, table, false); err != nil {
				return err
			}
			return e.genZFlagValue()
		default:
			return fmt.Errorf("codegen: unexpected tag %s as a value", v.Tag)
		}
	default:
		return fmt.Errorf("codegen: unexpected node type as a value")
	}
}

// genZFlagValue materializes the current Z flag into the accumulator: 1 if
// set, 0 otherwise.
func (e *emitter) genZFlagValue() error {
	if err := e.emitCode(0xA9); err != nil {
		return err
	}
	if err := e.emitCode(0x00); err != nil {
		return err
	}
	if err := e.emitCode(0xD0); err != nil {
		return err
	}
	if err := e.emitCode(0x02); err != nil {
		return err
	}
	if err := e.emitCode(0xA9); err != nil {
		return err
	}
	return e.emitCode(0x01)
}

func (e *emitter) genPrint(n ast.NonTerminal, table *symtab.Table) error {
	child := n.Children[0]

	switch v := child.(type) {
	case ast.Terminal:
		tok := v.Token
		switch tok.Kind {
		case token.Identifier:
			sym, ok := table.GetSymbol(tok.Text)
			if !ok {
				return fmt.Errorf("codegen: %q not found in symbol table", tok.Text)
			}
			offset, err := e.staticOffset(tok.Text, table)
			if err != nil {
				return err
			}
			if err := e.emitCode(0xAC); err != nil {
				return err
			}
			if err := e.emitVar(offset); err != nil {
				return err
			}
			if err := e.emitCode(0x00); err != nil {
				return err
			}
			if err := e.emitCode(0xA2); err != nil {
				return err
			}
			if sym.SymType == symtab.String {
				if err := e.emitCode(0x02); err != nil {
					return err
				}
			} else {
				if err := e.emitCode(0x01); err != nil {
					return err
				}
			}
		case token.Digit:
			if err := e.emitCode(0xA0); err != nil {
				return err
			}
			if err := e.emitCode(tok.Value); err != nil {
				return err
			}
			if err := e.emitCode(0xA2); err != nil {
				return err
			}
			if err := e.emitCode(0x01); err != nil {
				return err
			}
		case token.CharLiteral:
			addr, err := e.internString(tok.Text)
			if err != nil {
				return err
			}
			if err := e.emitCode(0xA0); err != nil {
				return err
			}
			if err := e.emitCode(addr); err != nil {
				return err
			}
			if err := e.emitCode(0xA2); err != nil {
				return err
			}
			if err := e.emitCode(0x02); err != nil {
				return err
			}
		case token.Keyword:
			if err := e.emitCode(0xA0); err != nil {
				return err
			}
			if tok.KeywordKind == token.True {
				if err := e.emitCode(0x01); err != nil {
					return err
				}
			} else {
				if err := e.emitCode(0x00); err != nil {
					return err
				}
			}
			if err := e.emitCode(0xA2); err != nil {
				return err
			}
			if err := e.emitCode(0x01); err != nil {
				return err
			}
		default:
			return fmt.Errorf("codegen: unexpected token kind %s in print", tok.Kind)
		}
	case ast.NonTerminal:
		switch v.Tag {
		case ast.Add:
			if err := e.genAdd(v, table, true); err != nil {
				return err
			}
		case ast.IsEq:
			if err := e.genCompare(v, table, true); err != nil {
				return err
			}
			if err := e.genZFlagValue(); err != nil {
				return err
			}
		case ast.NotEq:
			if err := e.genCompare(v, table, false); err != nil {
				return err
			}
			if err := e.genZFlagValue(); err != nil {
				return err
			}
		default:
			return fmt.Errorf("codegen: unexpected tag %s in print", v.Tag)
		}
		if err := e.emitCode(0x8D); err != nil {
			return err
		}
		if err := e.emitTemp(e.tempIndex); err != nil {
			return err
		}
		e.tempIndex++
		if err := e.emitCode(0x00); err != nil {
			return err
		}
		if err := e.emitCode(0xAC); err != nil {
			return err
		}
		if err := e.emitTemp(e.tempIndex - 1); err != nil {
			return err
		}
		e.tempIndex--
		if err := e.emitCode(0x00); err != nil {
			return err
		}
		if err := e.emitCode(0xA2); err != nil {
			return err
		}
		if err := e.emitCode(0x01); err != nil {
			return err
		}
	default:
		return fmt.Errorf("codegen: unexpected node type in print")
	}

	return e.emitCode(0xFF)
}

// genAdd generates code for digit (+ Expr)? chains. The left operand is
// always a digit terminal (enforced by the grammar); the right operand may
// recurse into a nested Add. first marks the outermost call, which is the
// only one allowed to leave its result solely in the accumulator instead of
// also writing it back to its temp slot.
func (e *emitter) genAdd(n ast.NonTerminal, table *symtab.Table, first bool) error {
	right := n.Children[0]
	left := n.Children[1]

	switch rv := right.(type) {
	case ast.Terminal:
		tok := rv.Token
		switch tok.Kind {
		case token.Digit:
			if err := e.emitCode(0xA9); err != nil {
				return err
			}
			if err := e.emitCode(tok.Value); err != nil {
				return err
			}
		case token.Identifier:
			offset, err := e.staticOffset(tok.Text, table)
			if err != nil {
				return err
			}
			if err := e.emitCode(0xAD); err != nil {
				return err
			}
			if err := e.emitVar(offset); err != nil {
				return err
			}
			if err := e.emitCode(0x00); err != nil {
				return err
			}
		default:
			return fmt.Errorf("codegen: unexpected token kind %s as right addition operand", tok.Kind)
		}
		if err := e.emitCode(0x8D); err != nil {
			return err
		}
		if err := e.emitTemp(e.tempIndex); err != nil {
			return err
		}
		e.tempIndex++
		if err := e.emitCode(0x00); err != nil {
			return err
		}
	case ast.NonTerminal:
		if rv.Tag != ast.Add {
			return fmt.Errorf("codegen: unexpected tag %s as right addition operand", rv.Tag)
		}
		if err := e.genAdd(rv, table, false); err != nil {
			return err
		}
	default:
		return fmt.Errorf("codegen: unexpected node type as right addition operand")
	}

	leftTerm, ok := left.(ast.Terminal)
	if !ok || leftTerm.Token.Kind != token.Digit {
		return fmt.Errorf("codegen: left addition operand must be a digit")
	}
	if err := e.emitCode(0xA9); err != nil {
		return err
	}
	if err := e.emitCode(leftTerm.Token.Value); err != nil {
		return err
	}
	if err := e.emitCode(0x6D); err != nil {
		return err
	}
	if err := e.emitTemp(e.tempIndex - 1); err != nil {
		return err
	}
	if err := e.emitCode(0x00); err != nil {
		return err
	}
	if !first {
		if err := e.emitCode(0x8D); err != nil {
			return err
		}
		if err := e.emitTemp(e.tempIndex - 1); err != nil {
			return err
		}
		if err := e.emitCode(0x00); err != nil {
			return err
		}
	} else {
		e.tempIndex--
	}
	return nil
}

// genCompare generates code for an IsEq/NotEq comparison. The result is left
// in the Z flag; genZFlagValue materializes it into the accumulator when a
// caller needs it as a value rather than a branch condition.
func (e *emitter) genCompare(n ast.NonTerminal, table *symtab.Table, isEq bool) error {
	right := n.Children[0]
	left := n.Children[1]

	if err := e.genCompareLeft(left, table); err != nil {
		return err
	}

	if err := e.emitCode(0x8D); err != nil {
		return err
	}
	if err := e.emitTemp(e.tempIndex); err != nil {
		return err
	}
	e.tempIndex++
	if err := e.emitCode(0x00); err != nil {
		return err
	}

	if err := e.genCompareRight(right, table); err != nil {
		return err
	}

	if err := e.emitCode(0xEC); err != nil {
		return err
	}
	if err := e.emitTemp(e.tempIndex - 1); err != nil {
		return err
	}
	if err := e.emitCode(0x00); err != nil {
		return err
	}
	e.tempIndex--

	if !isEq {
		if err := e.emitCode(0xA2); err != nil {
			return err
		}
		if err := e.emitCode(0x00); err != nil {
			return err
		}
		if err := e.emitCode(0xD0); err != nil {
			return err
		}
		if err := e.emitCode(0x02); err != nil {
			return err
		}
		if err := e.emitCode(0xA2); err != nil {
			return err
		}
		if err := e.emitCode(0x01); err != nil {
			return err
		}
		if err := e.emitCode(0xEC); err != nil {
			return err
		}
		if err := e.emitCode(0xFF); err != nil {
			return err
		}
		if err := e.emitCode(0x00); err != nil {
			return err
		}
	}
	return nil
}

func (e *emitter) genCompareLeft(n ast.Node, table *symtab.Table) error {
	switch v := n.(type) {
	case ast.Terminal:
		tok := v.Token
		switch tok.Kind {
		case token.Identifier:
			offset, err := e.staticOffset(tok.Text, table)
			if err != nil {
				return err
			}
			if err := e.emitCode(0xAD); err != nil {
				return err
			}
			if err := e.emitVar(offset); err != nil {
				return err
			}
			return e.emitCode(0x00)
		case token.Digit:
			if err := e.emitCode(0xA9); err != nil {
				return err
			}
			return e.emitCode(tok.Value)
		case token.CharLiteral:
			addr, err := e.internString(tok.Text)
			if err != nil {
				return err
			}
			if err := e.emitCode(0xA9); err != nil {
				return err
			}
			return e.emitCode(addr)
		case token.Keyword:
			if err := e.emitCode(0xA9); err != nil {
				return err
			}
			if tok.KeywordKind == token.True {
				return e.emitCode(0x01)
			}
			return e.emitCode(0x00)
		default:
			return fmt.Errorf("codegen: unexpected token kind %s as left compare operand", tok.Kind)
		}
	case ast.NonTerminal:
		switch v.Tag {
		case ast.Add:
			return e.genAdd(v, table, true)
		case ast.IsEq:
			if err := e.genCompare(v, table, true); err != nil {
				return err
			}
			return e.genZFlagValue()
		case ast.NotEq:
			if err := e.genCompare(v, table, false); err != nil {
				return err
			}
			return e.genZFlagValue()
		default:
			return fmt.Errorf("codegen: unexpected tag %s as left compare operand", v.Tag)
		}
	default:
		return fmt.Errorf("codegen: unexpected node type as left compare operand")
	}
}

func (e *emitter) genCompareRight(n ast.Node, table *symtab.Table) error {
	switch v := n.(type) {
	case ast.Terminal:
		tok := v.Token
		switch tok.Kind {
		case token.Identifier:
			offset, err := e.staticOffset(tok.Text, table)
			if err != nil {
				return err
			}
			if err := e.emitCode(0xAE); err != nil {
				return err
			}
			if err := e.emitVar(offset); err != nil {
				return err
			}
			return e.emitCode(0x00)
		case token.Digit:
			if err := e.emitCode(0xA2); err != nil {
				return err
			}
			return e.emitCode(tok.Value)
		case token.CharLiteral:
			addr, err := e.internString(tok.Text)
			if err != nil {
				return err
			}
			if err := e.emitCode(0xA2); err != nil {
				return err
			}
			return e.emitCode(addr)
		case token.Keyword:
			if err := e.emitCode(0xA2); err != nil {
				return err
			}
			if tok.KeywordKind == token.True {
				return e.emitCode(0x01)
			}
			return e.emitCode(0x00)
		default:
			return fmt.Errorf("codegen: unexpected token kind %s as right compare operand", tok.Kind)
		}
	case ast.NonTerminal:
		switch v.Tag {
		case ast.Add:
			if err := e.genAdd(v, table, true); err != nil {
				return err
			}
		case ast.IsEq:
			if err := e.genCompare(v, table, true); err != nil {
				return err
			}
			if err := e.genZFlagValue(); err != nil {
				return err
			}
		case ast.NotEq:
			if err := e.genCompare(v, table, false); err != nil {
				return err
			}
			if err := e.genZFlagValue(); err != nil {
				return err
			}
		default:
			return fmt.Errorf("codegen: unexpected tag %s as right compare operand", v.Tag)
		}
		if err := e.emitCode(0x8D); err != nil {
			return err
		}
		if err := e.emitTemp(e.tempIndex); err != nil {
			return err
		}
		e.tempIndex++
		if err := e.emitCode(0x00); err != nil {
			return err
		}
		if err := e.emitCode(0xAE); err != nil {
			return err
		}
		if err := e.emitTemp(e.tempIndex - 1); err != nil {
			return err
		}
		if err := e.emitCode(0x00); err != nil {
			return err
		}
		e.tempIndex--
		return nil
	default:
		return fmt.Errorf("codegen: unexpected node type as right compare operand")
	}
	return nil
}

// genCond evaluates an If/While condition, which is either a literal
// true/false terminal or an IsEq/NotEq comparison. It reports whether a
// branch-skip was emitted (and so the caller must backpatch a jump target),
// and whether the body is reachable at all (false only for a literal false).
func (e *emitter) genCond(n ast.Node, table *symtab.Table) (reachable, branched bool, err error) {
	if term, ok := n.(ast.Terminal); ok {
		switch term.Token.KeywordKind {
		case token.True:
			return true, false, nil
		case token.False:
			return false, false, nil
		default:
			return false, false, fmt.Errorf("codegen: unexpected terminal in condition position")
		}
	}

	nt, ok := n.(ast.NonTerminal)
	if !ok {
		return false, false, fmt.Errorf("codegen: unexpected node in condition position")
	}
	switch nt.Tag {
	case ast.IsEq:
		if err := e.genCompare(nt, table, true); err != nil {
			return false, false, err
		}
	case ast.NotEq:
		if err := e.genCompare(nt, table, false); err != nil {
			return false, false, err
		}
	default:
		return false, false, fmt.Errorf("codegen: unexpected tag %s in condition position", nt.Tag)
	}
	return true, true, nil
}

func (e *emitter) genIf(n ast.NonTerminal, table *symtab.Table) error {
	body := n.Children[0].(ast.NonTerminal)
	cond := n.Children[1]

	reachable, branched, err := e.genCond(cond, table)
	if err != nil {
		return err
	}
	if !reachable {
		return nil
	}

	var jumpIndex int
	var startAddr byte
	if branched {
		if err := e.emitCode(0xD0); err != nil {
			return err
		}
		jumpIndex, err = e.emitJump()
		if err != nil {
			return err
		}
		startAddr = e.codePtr
	}

	if err := e.genBlock(body, table); err != nil {
		return err
	}

	if branched {
		e.jumps[jumpIndex] = e.codePtr - startAddr
	}
	return nil
}

func (e *emitter) genWhile(n ast.NonTerminal, table *symtab.Table) error {
	body := n.Children[0].(ast.NonTerminal)
	cond := n.Children[1]

	loopStartAddr := e.codePtr

	reachable, branched, err := e.genCond(cond, table)
	if err != nil {
		return err
	}
	if !reachable {
		return nil
	}

	var bodyJumpIndex int
	var bodyStartAddr byte
	if branched {
		if err := e.emitCode(0xD0); err != nil {
			return err
		}
		bodyJumpIndex, err = e.emitJump()
		if err != nil {
			return err
		}
		bodyStartAddr = e.codePtr
	}

	if err := e.genBlock(body, table); err != nil {
		return err
	}

	// Unconditional branch back to the top of the loop: 0xFF is permanently
	// zero, so comparing it with X=1 always clears Z, forcing the branch.
	unconditionalJumpIndex := len(e.jumps)
	if err := e.emitCode(0xA2); err != nil {
		return err
	}
	if err := e.emitCode(0x01); err != nil {
		return err
	}
	if err := e.emitCode(0xEC); err != nil {
		return err
	}
	if err := e.emitCode(0xFF); err != nil {
		return err
	}
	if err := e.emitCode(0x00); err != nil {
		return err
	}
	if err := e.emitCode(0xD0); err != nil {
		return err
	}
	if _, err := e.emitJump(); err != nil {
		return err
	}

	if branched {
		e.jumps[bodyJumpIndex] = e.codePtr - bodyStartAddr
	}
	// Two's-complement offset back to the start of the loop.
	e.jumps[unconditionalJumpIndex] = ^(e.codePtr - loopStartAddr) + 1
	return nil
}
