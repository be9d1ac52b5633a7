package bfvm

import (
	"bufio"
	"io"
	"os"
	"time"

	"github.com/reusee/bfr/bfcode"
	"github.com/reusee/bfr/cells"
)

// Builder configures and builds an Interpreter.
type Builder[C cells.Cell] struct {
	input              io.Reader
	output             io.Writer
	dataArraySize      int
	initialDataPointer int
	fill               C
	instructionLimit   *uint64
}

// NewBuilder creates a builder with the given input source and output
// sink, a minimum-size tape, a zero fill, the cursor at zero, and no
// instruction limit.
func NewBuilder[C cells.Cell](input io.Reader, output io.Writer) *Builder[C] {
	return &Builder[C]{
		input:         input,
		output:        output,
		dataArraySize: bfcode.MinArraySize,
	}
}

// NewStdioBuilder creates a builder using stdin and buffered stdout.
func NewStdioBuilder[C cells.Cell]() *Builder[C] {
	return NewBuilder[C](os.Stdin, bufio.NewWriter(os.Stdout))
}

// Input sets the input source.
func (b *Builder[C]) Input(input io.Reader) *Builder[C] {
	b.input = input
	return b
}

// Output sets the output sink. Sinks with a Flush method are flushed on
// a ~16ms cadence during execution.
func (b *Builder[C]) Output(output io.Writer) *Builder[C] {
	b.output = output
	return b
}

// DataArraySize sets the size of the data array.
func (b *Builder[C]) DataArraySize(size int) *Builder[C] {
	b.dataArraySize = size
	return b
}

// Fill sets the value the data array is initialized to.
func (b *Builder[C]) Fill(fill C) *Builder[C] {
	b.fill = fill
	return b
}

// InitialDataPointer sets the starting position of the cursor.
func (b *Builder[C]) InitialDataPointer(ptr int) *Builder[C] {
	b.initialDataPointer = ptr
	return b
}

// InstructionLimit sets the instruction budget.
func (b *Builder[C]) InstructionLimit(limit uint64) *Builder[C] {
	b.instructionLimit = &limit
	return b
}

// NoInstructionLimit removes the instruction budget.
func (b *Builder[C]) NoInstructionLimit() *Builder[C] {
	b.instructionLimit = nil
	return b
}

// ConfigureFor sizes the data array from the stream's recommendation.
func (b *Builder[C]) ConfigureFor(stream *bfcode.Stream[C]) *Builder[C] {
	b.dataArraySize = stream.RecommendedArraySize()
	return b
}

// Build creates the interpreter.
func (b *Builder[C]) Build() *Interpreter[C] {
	data := make([]C, b.dataArraySize)
	if b.fill != 0 {
		for idx := range data {
			data[idx] = b.fill
		}
	}
	interpreter := &Interpreter[C]{
		input:     b.input,
		output:    b.output,
		data:      data,
		ptr:       b.initialDataPointer,
		lastFlush: time.Now(),
	}
	if f, ok := b.output.(flusher); ok {
		interpreter.flusher = f
	}
	if b.instructionLimit != nil {
		limit := *b.instructionLimit
		interpreter.instructionsLeft = &limit
	}
	return interpreter
}
