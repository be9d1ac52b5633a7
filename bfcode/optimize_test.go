package bfcode

import (
	"math/rand/v2"
	"strings"
	"testing"
)

func optimized[C interface{ ~uint8 | ~uint16 | ~uint32 }](t *testing.T, src string) []Instruction[C] {
	t.Helper()
	stream, err := OptimizedFromCode[C]([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	return stream.Instructions()
}

func TestFoldIncRuns(t *testing.T) {
	instructions := optimized[uint8](t, "+++++")
	if len(instructions) != 1 {
		t.Fatalf("got %d instructions", len(instructions))
	}
	if instructions[0] != (Instruction[uint8]{Op: OpInc, Value: 5}) {
		t.Fatalf("got %+v", instructions[0])
	}
}

func TestFoldMixedIncDec(t *testing.T) {
	instructions := optimized[uint8](t, "+++--")
	if len(instructions) != 1 || instructions[0] != (Instruction[uint8]{Op: OpInc, Value: 1}) {
		t.Fatalf("got %+v", instructions)
	}

	instructions = optimized[uint8](t, "++---")
	if len(instructions) != 1 || instructions[0] != (Instruction[uint8]{Op: OpDec, Value: 1}) {
		t.Fatalf("got %+v", instructions)
	}

	// net zero collapses to nothing
	instructions = optimized[uint8](t, "++--")
	if len(instructions) != 0 {
		t.Fatalf("got %+v", instructions)
	}
}

func TestFoldWrapsToNothing(t *testing.T) {
	// 256 increments wrap an 8-bit cell back to where it started
	instructions := optimized[uint8](t, strings.Repeat("+", 256))
	if len(instructions) != 0 {
		t.Fatalf("got %+v", instructions)
	}

	// but not a 16-bit cell
	instructions16 := optimized[uint16](t, strings.Repeat("+", 256))
	if len(instructions16) != 1 || instructions16[0].Value != 256 {
		t.Fatalf("got %+v", instructions16)
	}
}

func TestFoldPointerMoves(t *testing.T) {
	instructions := optimized[uint8](t, ">>><<")
	if len(instructions) != 1 || instructions[0] != (Instruction[uint8]{Op: OpIncPtr, Move: 1}) {
		t.Fatalf("got %+v", instructions)
	}

	instructions = optimized[uint8](t, "><")
	if len(instructions) != 0 {
		t.Fatalf("got %+v", instructions)
	}

	instructions = optimized[uint8](t, "<<>")
	if len(instructions) != 1 || instructions[0] != (Instruction[uint8]{Op: OpDecPtr, Move: 1}) {
		t.Fatalf("got %+v", instructions)
	}
}

func TestFoldPointerOverflowDoesNotMerge(t *testing.T) {
	a := Instruction[uint8]{Op: OpIncPtr, Move: 0xffffffff}
	b := Instruction[uint8]{Op: OpIncPtr, Move: 1}
	if _, result := a.foldWith(b); result != cantFold {
		t.Fatalf("got %v", result)
	}

	// an unmergeable pair survives optimization untouched
	stream, err := New([]Instruction[uint8]{a, b})
	if err != nil {
		t.Fatal(err)
	}
	if err := stream.Optimize(); err != nil {
		t.Fatal(err)
	}
	if len(stream.Instructions()) != 2 {
		t.Fatalf("got %+v", stream.Instructions())
	}
}

func TestSetAbsorbsDeadWrites(t *testing.T) {
	// the increments before [-] are dead
	instructions := optimized[uint8](t, "+++[-]")
	if len(instructions) != 1 || instructions[0] != (Instruction[uint8]{Op: OpSet, Value: 0}) {
		t.Fatalf("got %+v", instructions)
	}

	// Set then Inc folds into the Set
	instructions = optimized[uint8](t, "[-]+++")
	if len(instructions) != 1 || instructions[0] != (Instruction[uint8]{Op: OpSet, Value: 3}) {
		t.Fatalf("got %+v", instructions)
	}

	// Set then Dec wraps
	instructions = optimized[uint8](t, "[-]-")
	if len(instructions) != 1 || instructions[0] != (Instruction[uint8]{Op: OpSet, Value: 255}) {
		t.Fatalf("got %+v", instructions)
	}
}

func TestRecognizeZeroings(t *testing.T) {
	for _, src := range []string{"[-]", "[+]"} {
		instructions := optimized[uint8](t, src)
		if len(instructions) != 1 || instructions[0] != (Instruction[uint8]{Op: OpSet, Value: 0}) {
			t.Fatalf("%s: got %+v", src, instructions)
		}
	}
}

func TestZeroingNotRecognized(t *testing.T) {
	// a two-step loop never terminates on odd cells, leave it alone
	instructions := optimized[uint8](t, "[--]")
	if len(instructions) != 3 {
		t.Fatalf("got %+v", instructions)
	}

	// multi-instruction bodies are not zeroing loops
	instructions = optimized[uint8](t, "[->+<]")
	if len(instructions) != 6 {
		t.Fatalf("got %+v", instructions)
	}

	// an empty loop is not a zeroing loop either
	instructions = optimized[uint8](t, "[]")
	if len(instructions) != 2 {
		t.Fatalf("got %+v", instructions)
	}
}

func TestOptimizeResolvesJumps(t *testing.T) {
	// folding moves the loop, targets must be recomputed
	stream, err := OptimizedFromCode[uint8]([]byte("++++[>++++<-]"))
	if err != nil {
		t.Fatal(err)
	}
	instructions := stream.Instructions()
	for idx, inst := range instructions {
		switch inst.Op {
		case OpLoopStart:
			partner := instructions[inst.Move]
			if partner.Op != OpLoopEnd || partner.Move != uint32(idx) {
				t.Fatalf("start %d: partner %+v", idx, partner)
			}
		case OpLoopEnd:
			partner := instructions[inst.Move]
			if partner.Op != OpLoopStart || partner.Move != uint32(idx) {
				t.Fatalf("end %d: partner %+v", idx, partner)
			}
		}
	}
}

func TestOptimizePropagatesUnmatched(t *testing.T) {
	stream := &Stream[uint8]{
		instructions: Parse[uint8]([]byte("+[")),
	}
	if err := stream.Optimize(); err != ErrUnmatchedStart {
		t.Fatalf("got %v", err)
	}
}

func TestRecommendedArraySize(t *testing.T) {
	// floor applies to small programs
	stream, err := OptimizedFromCode[uint8]([]byte(">>>"))
	if err != nil {
		t.Fatal(err)
	}
	if stream.RecommendedArraySize() != MinArraySize {
		t.Fatalf("got %d", stream.RecommendedArraySize())
	}

	// pointer-heavy programs get the sum of optimized forward moves
	src := strings.Repeat(">", MinArraySize) + "+" + strings.Repeat(">", 5)
	stream, err = OptimizedFromCode[uint8]([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	if stream.RecommendedArraySize() != MinArraySize+5 {
		t.Fatalf("got %d", stream.RecommendedArraySize())
	}
}

func TestFoldingOrderIndependent(t *testing.T) {
	// any ordering of the same multiset of pure inc/dec instructions
	// folds to the same single instruction
	chars := []byte("+++++---")
	for range 50 {
		rand.Shuffle(len(chars), func(i, j int) {
			chars[i], chars[j] = chars[j], chars[i]
		})
		instructions := optimized[uint8](t, string(chars))
		if len(instructions) != 1 || instructions[0] != (Instruction[uint8]{Op: OpInc, Value: 2}) {
			t.Fatalf("%s: got %+v", chars, instructions)
		}
	}

	moves := []byte("><<>><<")
	for range 50 {
		rand.Shuffle(len(moves), func(i, j int) {
			moves[i], moves[j] = moves[j], moves[i]
		})
		instructions := optimized[uint8](t, string(moves))
		if len(instructions) != 1 || instructions[0] != (Instruction[uint8]{Op: OpDecPtr, Move: 1}) {
			t.Fatalf("%s: got %+v", moves, instructions)
		}
	}
}
