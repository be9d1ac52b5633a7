package bfcode

import "github.com/reusee/bfr/cells"

type Op uint8

const (
	// OpSet assigns Value to the current cell. Has no source form, only
	// produced by the optimizer. Set(0) is equivalent to `[-]`.
	OpSet Op = iota + 1
	// OpWrite outputs the current cell, truncated to a byte. `.`
	OpWrite
	// OpRead reads a byte into the current cell, 0 at end of input. `,`
	OpRead
	// OpLoopStart jumps to Move (the matching loop end) when the current
	// cell is zero. Move is 0 until jumps are resolved. `[`
	OpLoopStart
	// OpLoopEnd jumps to Move (the matching loop start) when the current
	// cell is non-zero. `]`
	OpLoopEnd
	// OpInc adds the non-zero amount Value to the current cell, wrapping.
	// With an amount of 1, `+`.
	OpInc
	// OpDec subtracts the non-zero amount Value from the current cell,
	// wrapping. With an amount of 1, `-`.
	OpDec
	// OpIncPtr adds the non-zero amount Move to the cursor. With an amount
	// of 1, `>`.
	OpIncPtr
	// OpDecPtr subtracts the non-zero amount Move from the cursor. With an
	// amount of 1, `<`.
	OpDecPtr
)

func (o Op) String() string {
	switch o {
	case OpSet:
		return "set"
	case OpWrite:
		return "write"
	case OpRead:
		return "read"
	case OpLoopStart:
		return "loop-start"
	case OpLoopEnd:
		return "loop-end"
	case OpInc:
		return "inc"
	case OpDec:
		return "dec"
	case OpIncPtr:
		return "inc-ptr"
	case OpDecPtr:
		return "dec-ptr"
	}
	return "invalid"
}

// Instruction is one step of a program, parameterized by the cell type.
//
// Value carries the cell operand of OpSet, OpInc, and OpDec. Move carries
// the cursor amount of OpIncPtr and OpDecPtr, and the resolved partner
// index of OpLoopStart and OpLoopEnd.
type Instruction[C cells.Cell] struct {
	Op    Op
	Value C
	Move  uint32
}

// FromByte maps a source byte to its instruction. The second return is
// false for bytes that are not commands, which are comments.
func FromByte[C cells.Cell](b byte) (Instruction[C], bool) {
	switch b {
	case '+':
		return Instruction[C]{Op: OpInc, Value: 1}, true
	case '-':
		return Instruction[C]{Op: OpDec, Value: 1}, true
	case '>':
		return Instruction[C]{Op: OpIncPtr, Move: 1}, true
	case '<':
		return Instruction[C]{Op: OpDecPtr, Move: 1}, true
	case '.':
		return Instruction[C]{Op: OpWrite}, true
	case ',':
		return Instruction[C]{Op: OpRead}, true
	case '[':
		// jump targets are computed by the stream, not here
		return Instruction[C]{Op: OpLoopStart}, true
	case ']':
		return Instruction[C]{Op: OpLoopEnd}, true
	}
	return Instruction[C]{}, false
}

// Parse maps program text to instructions, skipping comment bytes.
func Parse[C cells.Cell](src []byte) []Instruction[C] {
	instructions := make([]Instruction[C], 0, len(src))
	for _, b := range src {
		if inst, ok := FromByte[C](b); ok {
			instructions = append(instructions, inst)
		}
	}
	return instructions
}
