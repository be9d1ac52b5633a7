package bfcode

import (
	"errors"

	"github.com/reusee/bfr/cells"
)

var (
	// ErrUnmatchedStart reports a loop start with no matching end.
	ErrUnmatchedStart = errors.New("unmatched loop start")
	// ErrUnmatchedEnd reports a loop end with no open loop.
	ErrUnmatchedEnd = errors.New("unmatched loop end")
)

// MinArraySize is the smallest tape size a stream will ever recommend.
const MinArraySize = 30_000

// Stream owns an instruction sequence with resolved jump targets, plus a
// recommended tape size for running it. The sequence is immutable to
// callers except through Optimize.
type Stream[C cells.Cell] struct {
	instructions         []Instruction[C]
	recommendedArraySize int
}

// New creates a stream from pre-built instructions, resolving jumps.
func New[C cells.Cell](instructions []Instruction[C]) (*Stream[C], error) {
	s := &Stream[C]{
		instructions:         instructions,
		recommendedArraySize: MinArraySize,
	}
	if err := s.resolveJumps(); err != nil {
		return nil, err
	}
	return s, nil
}

// FromCode creates a stream from program text without optimizing.
func FromCode[C cells.Cell](src []byte) (*Stream[C], error) {
	return New(Parse[C](src))
}

// OptimizedFromCode creates a stream from program text and optimizes it.
func OptimizedFromCode[C cells.Cell](src []byte) (*Stream[C], error) {
	s := &Stream[C]{
		instructions:         Parse[C](src),
		recommendedArraySize: MinArraySize,
	}
	if err := s.Optimize(); err != nil {
		return nil, err
	}
	return s, nil
}

// Instructions returns the instructions in the stream.
func (s *Stream[C]) Instructions() []Instruction[C] {
	return s.instructions
}

// RecommendedArraySize returns a statically guessed tape size that would
// work best for this stream. It is an estimate, not a hard limit.
func (s *Stream[C]) RecommendedArraySize() int {
	return s.recommendedArraySize
}

// resolveJumps matches loop starts to loop ends and stores each side's
// partner index. Any rewrite that moves instructions invalidates all
// targets, so this is a full pass and is safe to re-run.
func (s *Stream[C]) resolveJumps() error {
	var stack []int
	for idx, inst := range s.instructions {
		switch inst.Op {
		case OpLoopStart:
			stack = append(stack, idx)
		case OpLoopEnd:
			if len(stack) == 0 {
				return ErrUnmatchedEnd
			}
			startIdx := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			s.instructions[startIdx].Move = uint32(idx)
			s.instructions[idx].Move = uint32(startIdx)
		}
	}
	if len(stack) > 0 {
		return ErrUnmatchedStart
	}
	return nil
}
