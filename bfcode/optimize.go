package bfcode

import (
	"math/bits"

	"github.com/reusee/bfr/cells"
)

type foldResult uint8

const (
	cantFold foldResult = iota
	// the pair cancels out entirely
	noOp
	folded
)

// foldWith combines two adjacent instructions into one where an
// equivalent single instruction exists.
//
// Cell amounts use the cell's wrapping arithmetic. Cursor amounts use
// checked uint32 arithmetic: an overflowing combination does not fold.
func (i Instruction[C]) foldWith(next Instruction[C]) (Instruction[C], foldResult) {
	switch {

	case i.Op == OpInc && next.Op == OpInc:
		return foldAmount[C](OpInc, i.Value+next.Value)

	case i.Op == OpDec && next.Op == OpDec:
		return foldAmount[C](OpDec, i.Value+next.Value)

	case i.Op == OpInc && next.Op == OpDec,
		i.Op == OpDec && next.Op == OpInc:
		add, sub := i.Value, next.Value
		if i.Op == OpDec {
			add, sub = sub, add
		}
		if sub > add {
			return foldAmount[C](OpDec, sub-add)
		}
		return foldAmount[C](OpInc, add-sub)

	case i.Op == OpIncPtr && next.Op == OpIncPtr:
		sum, carry := bits.Add32(i.Move, next.Move, 0)
		if carry != 0 {
			return Instruction[C]{}, cantFold
		}
		return Instruction[C]{Op: OpIncPtr, Move: sum}, folded

	case i.Op == OpDecPtr && next.Op == OpDecPtr:
		sum, carry := bits.Add32(i.Move, next.Move, 0)
		if carry != 0 {
			return Instruction[C]{}, cantFold
		}
		return Instruction[C]{Op: OpDecPtr, Move: sum}, folded

	case i.Op == OpIncPtr && next.Op == OpDecPtr,
		i.Op == OpDecPtr && next.Op == OpIncPtr:
		add, sub := i.Move, next.Move
		if i.Op == OpDecPtr {
			add, sub = sub, add
		}
		if sub > add {
			return Instruction[C]{Op: OpDecPtr, Move: sub - add}, folded
		}
		if add > sub {
			return Instruction[C]{Op: OpIncPtr, Move: add - sub}, folded
		}
		return Instruction[C]{}, noOp

	case next.Op == OpSet &&
		(i.Op == OpInc || i.Op == OpDec || i.Op == OpSet):
		// a write before an unconditional set is dead
		return next, folded

	case i.Op == OpSet && next.Op == OpInc:
		return Instruction[C]{Op: OpSet, Value: i.Value + next.Value}, folded

	case i.Op == OpSet && next.Op == OpDec:
		return Instruction[C]{Op: OpSet, Value: i.Value - next.Value}, folded

	}
	return Instruction[C]{}, cantFold
}

func foldAmount[C cells.Cell](op Op, amount C) (Instruction[C], foldResult) {
	if amount == 0 {
		return Instruction[C]{}, noOp
	}
	return Instruction[C]{Op: op, Value: amount}, folded
}

// Optimize rewrites the stream into an equivalent shorter sequence:
// adjacent folding and zeroing-loop recognition repeated to a fixed
// point, then jump re-resolution and a recomputed tape size estimate.
//
// Optimized streams may succeed where the original would have overflowed
// or underflowed the tape on a move that is immediately reversed, or
// exhausted an instruction budget; no other behavior change is permitted.
func (s *Stream[C]) Optimize() error {
	for {
		before := len(s.instructions)
		s.foldLike()
		s.recognizeZeroings()
		// the replacement may fold with its neighbors
		s.foldLike()
		if len(s.instructions) == before {
			break
		}
	}

	if err := s.resolveJumps(); err != nil {
		return err
	}

	size := 0
	for _, inst := range s.instructions {
		if inst.Op == OpIncPtr {
			size += int(inst.Move)
		}
	}
	s.recommendedArraySize = max(size, MinArraySize)

	return nil
}

// foldLike merges runs of foldable adjacent instructions in place,
// writing kept instructions to a prefix of the same buffer.
func (s *Stream[C]) foldLike() {
	stream := s.instructions
	length := len(stream)
	readIdx := 0
	writeIdx := 0

stream:
	for readIdx < length {
		current := stream[readIdx]
		for {
			readIdx++
			if readIdx >= length {
				break
			}
			next := stream[readIdx]
			combined, result := current.foldWith(next)
			switch result {
			case folded:
				current = combined
				continue
			case noOp:
				// consume next too, emit nothing
				readIdx++
				continue stream
			}
			break
		}
		stream[writeIdx] = current
		writeIdx++
	}

	s.instructions = stream[:writeIdx]
}

// recognizeZeroings replaces `[-]` and `[+]` shaped loops with Set(0).
//
// A loop whose whole body is a single one-step decrement or increment
// always exits with the cell at zero, whatever the starting value. Loops
// with larger bodies or step amounts other than 1 are left alone: a
// two-step loop over an odd cell never terminates, and that must be
// preserved.
func (s *Stream[C]) recognizeZeroings() {
	stream := s.instructions
	length := len(stream)
	readIdx := 0
	writeIdx := 0

	for readIdx < length {
		if readIdx+2 < length &&
			stream[readIdx].Op == OpLoopStart &&
			(stream[readIdx+1].Op == OpDec || stream[readIdx+1].Op == OpInc) &&
			stream[readIdx+1].Value == 1 &&
			stream[readIdx+2].Op == OpLoopEnd {
			stream[writeIdx] = Instruction[C]{Op: OpSet}
			readIdx += 3
			writeIdx++
			continue
		}
		stream[writeIdx] = stream[readIdx]
		readIdx++
		writeIdx++
	}

	s.instructions = stream[:writeIdx]
}
