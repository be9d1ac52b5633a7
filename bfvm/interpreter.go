package bfvm

import (
	"errors"
	"io"
	"time"

	"github.com/reusee/bfr/bfcode"
	"github.com/reusee/bfr/cells"
)

const flushInterval = 16 * time.Millisecond // based on 60 fps update (actually 62.5)

// Interpreter executes resolved instruction streams against an owned,
// fixed-size cell array with a cursor. Construct one with a Builder.
//
// An interpreter holds no reference to the streams it runs; the same
// interpreter can run several streams in sequence over the same tape.
type Interpreter[C cells.Cell] struct {
	input            io.Reader
	output           io.Writer
	flusher          flusher
	data             []C
	ptr              int
	lastFlush        time.Time
	instructionsLeft *uint64
	byteBuf          [1]byte
}

type flusher interface {
	Flush() error
}

// Run executes the stream until it halts or an error occurs. Side
// effects already performed stay performed on error; only the pointer
// move that triggered ErrOverflow or ErrUnderflow is rolled back.
func (i *Interpreter[C]) Run(stream []bfcode.Instruction[C]) error {
	if i.ptr < 0 || i.ptr >= len(i.data) {
		return ErrInitOverflow
	}

	ip := 0
	length := len(stream)

	for ip < length {
		if i.instructionsLeft != nil {
			if *i.instructionsLeft == 0 {
				return ErrNotEnoughInstructions
			}
			*i.instructionsLeft--
		}

		inst := stream[ip]
		switch inst.Op {

		case bfcode.OpSet:
			i.data[i.ptr] = inst.Value

		case bfcode.OpInc:
			i.data[i.ptr] += inst.Value

		case bfcode.OpDec:
			i.data[i.ptr] -= inst.Value

		case bfcode.OpIncPtr:
			i.ptr += int(inst.Move)
			if i.ptr >= len(i.data) {
				i.ptr -= int(inst.Move)
				return ErrOverflow
			}

		case bfcode.OpDecPtr:
			if int(inst.Move) > i.ptr {
				return ErrUnderflow
			}
			i.ptr -= int(inst.Move)

		case bfcode.OpWrite:
			if err := i.write(cells.TruncateToByte(i.data[i.ptr])); err != nil {
				return err
			}

		case bfcode.OpRead:
			b, err := i.read()
			if err != nil {
				return err
			}
			i.data[i.ptr] = C(b)

		case bfcode.OpLoopStart:
			if i.data[i.ptr] == 0 {
				ip = int(inst.Move)
			}

		case bfcode.OpLoopEnd:
			if i.data[i.ptr] != 0 {
				ip = int(inst.Move)
			}
		}

		ip++
	}

	return i.flush()
}

func (i *Interpreter[C]) write(b byte) error {
	i.byteBuf[0] = b
	if _, err := i.output.Write(i.byteBuf[:1]); err != nil {
		return outputError(err)
	}
	if i.flusher != nil && time.Since(i.lastFlush) > flushInterval {
		if err := i.flusher.Flush(); err != nil {
			return outputError(err)
		}
		i.lastFlush = time.Now()
	}
	return nil
}

func (i *Interpreter[C]) read() (byte, error) {
	n, err := i.input.Read(i.byteBuf[:1])
	if n == 1 {
		return i.byteBuf[0], nil
	}
	if err == nil || errors.Is(err, io.EOF) {
		// end of input reads as zero
		return 0, nil
	}
	return 0, inputError(err)
}

func (i *Interpreter[C]) flush() error {
	if i.flusher == nil {
		return nil
	}
	if err := i.flusher.Flush(); err != nil {
		return outputError(err)
	}
	i.lastFlush = time.Now()
	return nil
}

// Ptr returns the current cursor position.
func (i *Interpreter[C]) Ptr() int {
	return i.ptr
}

// Data returns the cell array. The slice is owned by the interpreter.
func (i *Interpreter[C]) Data() []C {
	return i.data
}

// InstructionsLeft returns the remaining instruction budget, or false if
// there is no limit.
func (i *Interpreter[C]) InstructionsLeft() (uint64, bool) {
	if i.instructionsLeft == nil {
		return 0, false
	}
	return *i.instructionsLeft, true
}

// SetInstructionLimit sets the instruction budget, enabling it if it was
// not already enabled.
func (i *Interpreter[C]) SetInstructionLimit(left uint64) {
	i.instructionsLeft = &left
}

// RemoveInstructionLimit removes the instruction budget if one existed.
func (i *Interpreter[C]) RemoveInstructionLimit() {
	i.instructionsLeft = nil
}
