package codegen

import "fmt"

// cellKind identifies what a memory cell currently holds. Some cells start
// as a placeholder (cellVar, cellTemp, or cellJump) addressing something
// whose final position is only known once the whole image is laid out, and
// are rewritten to cellCode by backpatch.
type cellKind int

const (
	cellEmpty cellKind = iota
	cellCode
	cellVar
	cellTemp
	cellJump
	cellData
)

// cell is one byte-sized slot of the 256-byte image under construction.
// Exactly one of Code/Offset/JumpIndex is meaningful, selected by Kind.
type cell struct {
	Kind      cellKind
	Code      byte
	Offset    int // cellVar, cellTemp: offset from the cursor resolved at backpatch time
	JumpIndex int // cellJump: index into the emitter's jump table
}

func (c cell) String() string {
	switch c.Kind {
	case cellCode:
		return fmt.Sprintf("%02X", c.Code)
	case cellVar:
		return fmt.Sprintf("V%d", c.Offset)
	case cellTemp:
		return fmt.Sprintf("T%d", c.Offset)
	case cellJump:
		return fmt.Sprintf("J%d", c.JumpIndex)
	case cellData:
		return fmt.Sprintf("%02X", c.Code)
	default:
		return "00"
	}
}
