package bfcgen

import (
	"bufio"
	"fmt"
	"io"

	"github.com/reusee/bfr/bfcode"
	"github.com/reusee/bfr/cells"
)

// RenderC writes the stream as a freestanding C program: a static array
// sized from the stream's recommendation, a cursor pointer, and one
// statement per instruction. No optimization happens here; the output is
// a lossless serialization of whatever sequence it is given.
func RenderC[C cells.Cell](stream *bfcode.Stream[C], out io.Writer) error {
	w := bufio.NewWriter(out)

	fmt.Fprintf(w, "#include <stdio.h>\n")
	fmt.Fprintf(w, "typedef %s bf_cell_t;\n", cells.CType[C]())
	fmt.Fprintf(w, "static bf_cell_t arr[%d] = {0,};\n", stream.RecommendedArraySize())
	fmt.Fprintf(w, "int main() {\n")
	fmt.Fprintf(w, "\tbf_cell_t* cursor = arr;\n")

	for _, inst := range stream.Instructions() {
		w.WriteByte('\t')
		switch inst.Op {
		case bfcode.OpSet:
			fmt.Fprintf(w, "*cursor = %d;\n", inst.Value)
		case bfcode.OpWrite:
			fmt.Fprintf(w, "putchar(*cursor);\n")
		case bfcode.OpRead:
			fmt.Fprintf(w, "*cursor = getchar(); if (*cursor == EOF) { *cursor = 0; }\n")
		case bfcode.OpLoopStart:
			fmt.Fprintf(w, "while (*cursor != 0) {\n")
		case bfcode.OpLoopEnd:
			fmt.Fprintf(w, "}\n")
		case bfcode.OpInc:
			fmt.Fprintf(w, "*cursor += %d;\n", inst.Value)
		case bfcode.OpDec:
			fmt.Fprintf(w, "*cursor -= %d;\n", inst.Value)
		case bfcode.OpIncPtr:
			fmt.Fprintf(w, "cursor += %d;\n", inst.Move)
		case bfcode.OpDecPtr:
			fmt.Fprintf(w, "cursor -= %d;\n", inst.Move)
		}
	}

	fmt.Fprintf(w, "}\n")
	return w.Flush()
}
