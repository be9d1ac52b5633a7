package main

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/reusee/bfr/bfcgen"
	"github.com/reusee/bfr/bfcode"
	"github.com/reusee/bfr/bfvm"
	"github.com/reusee/bfr/cells"
	"github.com/reusee/bfr/cmds"
	"github.com/reusee/bfr/configs"
	"github.com/reusee/bfr/modes"
	"github.com/reusee/bfr/vars"
	"github.com/reusee/dscope"
)

var (
	codeFile    = cmds.Var[string]("-file")
	codeArg     = cmds.Var[string]("-code")
	width       = cmds.Var[int]("-width")
	render      = cmds.Switch("-render")
	limit       = cmds.Var[uint64]("-limit")
	arraySize   = cmds.Var[int]("-array-size")
	noOptimize  = cmds.Switch("-no-optimize")
	debug       = cmds.Switch("-debug")
	configFiles = cmds.Collect[string]("-config")
)

func main() {
	cmds.Execute(os.Args[1:])

	code, err := readCode()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	loader := configs.NewLoader(*configFiles, configs.RuntimeSchema)
	runtime := configs.First[configs.Runtime](loader, "bfr")

	cellWidth := vars.FirstNonZero(*width, runtime.Width, 8)
	optimize := !*noOptimize
	if runtime.Optimize != nil && !*runtime.Optimize {
		optimize = false
	}

	if *render {
		if err := renderC(code, cellWidth, optimize); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	params := bfvm.Params{
		Code:      code,
		Width:     cellWidth,
		Optimize:  optimize,
		ArraySize: vars.FirstNonZero(*arraySize, runtime.ArraySize),
		Input:     os.Stdin,
		Output:    bufio.NewWriter(os.Stdout),
		Debug:     *debug,
	}
	if instructionLimit := vars.FirstNonZero(*limit, runtime.Limit); instructionLimit > 0 {
		params.Limit = &instructionLimit
	}

	scope := dscope.New(
		new(bfvm.Module),
		modes.ForProduction(),
	)
	scope.Call(func(
		execute bfvm.Execute,
	) {
		if err := execute(context.Background(), params); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	})
}

func readCode() ([]byte, error) {
	if *codeFile != "" && *codeArg != "" {
		return nil, fmt.Errorf("both -file and -code cannot be provided")
	}
	if *codeFile != "" {
		return os.ReadFile(*codeFile)
	}
	return []byte(*codeArg), nil
}

func renderC(code []byte, cellWidth int, optimize bool) error {
	switch cellWidth {
	case 8:
		return renderWith[uint8](code, optimize)
	case 16:
		return renderWith[uint16](code, optimize)
	case 32:
		return renderWith[uint32](code, optimize)
	}
	return bfvm.ErrBadWidth
}

func renderWith[C cells.Cell](code []byte, optimize bool) error {
	var stream *bfcode.Stream[C]
	var err error
	if optimize {
		stream, err = bfcode.OptimizedFromCode[C](code)
	} else {
		stream, err = bfcode.FromCode[C](code)
	}
	if err != nil {
		return err
	}
	return bfcgen.RenderC(stream, os.Stdout)
}
