package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/reusee/bfr/bfcode"
	"github.com/reusee/bfr/bfvm"
)

// a non-terminating loop shuffling values between two cells, used to
// measure raw instruction throughput under a budget
var program = []bfcode.Instruction[uint8]{
	{Op: bfcode.OpInc, Value: 1},
	{Op: bfcode.OpLoopStart, Move: 6},
	{Op: bfcode.OpIncPtr, Move: 1},
	{Op: bfcode.OpDec, Value: 2},
	{Op: bfcode.OpInc, Value: 4},
	{Op: bfcode.OpDecPtr, Move: 1},
	{Op: bfcode.OpLoopEnd, Move: 1},
}

const iterations = 100_000_000

func main() {
	interpreter := bfvm.NewBuilder[uint8](strings.NewReader(""), io.Discard).
		DataArraySize(16).
		InstructionLimit(iterations).
		Build()

	start := time.Now()
	err := interpreter.Run(program)
	elapsed := time.Since(start)

	if !errors.Is(err, bfvm.ErrNotEnoughInstructions) {
		fmt.Fprintf(os.Stderr, "unexpected result: %v\n", err)
		os.Exit(1)
	}

	perSecond := float64(iterations) / elapsed.Seconds()
	fmt.Printf("executed %d instructions in %v (%.0f/s)\n",
		iterations, elapsed, perSecond)
}
