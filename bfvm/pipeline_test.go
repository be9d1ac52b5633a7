package bfvm

import (
	"bytes"
	"errors"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/reusee/bfr/bfcode"
)

func runOutput(t *testing.T, src string, optimize bool) ([]byte, error) {
	t.Helper()
	stream, err := bfcode.FromCode[uint8]([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	if optimize {
		if err := stream.Optimize(); err != nil {
			t.Fatal(err)
		}
	}
	var out bytes.Buffer
	interpreter := NewBuilder[uint8](strings.NewReader(""), &out).
		InstructionLimit(1_000_000).
		Build()
	err = interpreter.Run(stream.Instructions())
	return out.Bytes(), err
}

func TestFullPipeline(t *testing.T) {
	for _, optimize := range []bool{false, true} {
		out, err := runOutput(t, "++++[>++++[>++++<-]<-]>>+.", optimize)
		if err != nil {
			t.Fatal(err)
		}
		if string(out) != "A" {
			t.Fatalf("optimize=%v: got %q", optimize, out)
		}

		_, err = runOutput(t, "<", optimize)
		if !errors.Is(err, ErrUnderflow) {
			t.Fatalf("optimize=%v: got %v", optimize, err)
		}

		_, err = runOutput(t, "+[>+]", optimize)
		if !errors.Is(err, ErrOverflow) {
			t.Fatalf("optimize=%v: got %v", optimize, err)
		}

		_, err = runOutput(t, "+[]", optimize)
		if !errors.Is(err, ErrNotEnoughInstructions) {
			t.Fatalf("optimize=%v: got %v", optimize, err)
		}
	}
}

func generateRandomCode(rng *rand.Rand) string {
	const numSections = 20
	// `.` is doubled to have a higher probability
	const nonLoopChars = "+-<>.."

	var sb strings.Builder
	for range numSections {
		shouldLoop := rng.Float64() < 0.3
		if shouldLoop {
			sb.WriteByte('[')
		}
		numChars := rng.IntN(100)
		for range numChars {
			sb.WriteByte(nonLoopChars[rng.IntN(len(nonLoopChars))])
		}
		if shouldLoop {
			sb.WriteByte(']')
		}
	}
	return sb.String()
}

// TestOptimizationFuzz cross-checks optimized against unoptimized runs.
// The optimizer is allowed to succeed where the unoptimized run ran out
// of budget, or where it overflowed/underflowed on a pointer excursion
// that folding cancelled; any other divergence is a bug.
func TestOptimizationFuzz(t *testing.T) {
	const numFuzzes = 250
	rng := rand.New(rand.NewPCG(1, 2))

	for range numFuzzes {
		code := generateRandomCode(rng)
		unoptimizedOut, unoptimizedErr := runOutput(t, code, false)
		optimizedOut, optimizedErr := runOutput(t, code, true)

		if optimizedErr == nil && unoptimizedErr != nil {
			if errors.Is(unoptimizedErr, ErrNotEnoughInstructions) {
				continue
			}
			if (errors.Is(unoptimizedErr, ErrOverflow) || errors.Is(unoptimizedErr, ErrUnderflow)) &&
				(strings.Contains(code, "<>") || strings.Contains(code, "><")) {
				continue
			}
		}

		if (unoptimizedErr == nil) != (optimizedErr == nil) {
			t.Fatalf("%q: unoptimized err %v, optimized err %v", code, unoptimizedErr, optimizedErr)
		}
		if unoptimizedErr == nil && !bytes.Equal(unoptimizedOut, optimizedOut) {
			t.Fatalf("%q: output %q vs %q", code, unoptimizedOut, optimizedOut)
		}
	}
}
