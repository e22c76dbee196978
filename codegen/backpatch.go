package codegen

// backpatch resolves every placeholder cell left by genBlock against the
// final code and heap cursors, using a two-cursor scan: varCursor tracks the
// highest variable address resolved so far (starting at the final code
// cursor), and tempCursor tracks the lowest temporary address resolved so
// far (starting at the final heap cursor). A variable address that lands
// past tempCursor, or a temporary address that lands before varCursor, means
// the program's variables and working data would overlap at runtime.
func (e *emitter) backpatch() error {
	varCursor := e.codePtr
	tempCursor := e.heapPtr

	for i := range e.cells {
		c := e.cells[i]
		switch c.Kind {
		case cellVar:
			addr := e.codePtr + byte(c.Offset)
			if addr > tempCursor {
				return OverflowError{Kind: BackpatchCollision, Offset: byte(i)}
			}
			e.cells[i] = cell{Kind: cellCode, Code: addr}
			if addr >= varCursor {
				varCursor = addr + 1
			}
		case cellTemp:
			addr := e.heapPtr - byte(c.Offset)
			if addr < varCursor {
				return OverflowError{Kind: TempCollision, Offset: byte(i)}
			}
			e.cells[i] = cell{Kind: cellCode, Code: addr}
			if addr <= tempCursor {
				tempCursor = addr - 1
			}
		case cellJump:
			e.cells[i] = cell{Kind: cellCode, Code: e.jumps[c.JumpIndex]}
		}
	}
	return nil
}
