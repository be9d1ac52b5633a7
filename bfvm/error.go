package bfvm

import (
	"errors"
	"fmt"
)

var (
	// ErrOverflow reports a pointer increment past the end of the data
	// array. The cursor is rolled back before returning.
	ErrOverflow = errors.New("runtime overflowed its data array")

	// ErrUnderflow reports a pointer decrement below zero.
	ErrUnderflow = errors.New("runtime underflowed its data array")

	// ErrInitOverflow reports a starting cursor already outside the data
	// array, before any instruction has executed.
	ErrInitOverflow = errors.New("the pointer was already overflowed when the runtime started")

	// ErrNotEnoughInstructions reports an exhausted instruction budget.
	ErrNotEnoughInstructions = errors.New("instruction limit reached, task halted before completion")

	// ErrInputIO wraps a failure of the input source. End of input is not
	// a failure; it reads as zero.
	ErrInputIO = errors.New("io error while reading from input")

	// ErrOutputIO wraps a failure of the output sink.
	ErrOutputIO = errors.New("io error while writing to output")

	// ErrBadWidth reports a cell width other than 8, 16, or 32 bits.
	ErrBadWidth = errors.New("cell width must be 8, 16, or 32")
)

func inputError(err error) error {
	return fmt.Errorf("%w: %w", ErrInputIO, err)
}

func outputError(err error) error {
	return fmt.Errorf("%w: %w", ErrOutputIO, err)
}
