package bfvm

import (
	"context"
	"io"

	"github.com/reusee/bfr/bfcode"
	"github.com/reusee/bfr/cells"
	"github.com/reusee/bfr/debugs"
	"github.com/reusee/bfr/logs"
	"github.com/reusee/bfr/vars"
	"github.com/reusee/dscope"
)

type Module struct {
	dscope.Module
	Logs   logs.Module
	Debugs debugs.Module
}

// Params describes one full pipeline run: program text in, interpreted
// effects out.
type Params struct {
	Code      []byte
	Width     int // cell width in bits: 8, 16, or 32; 0 means 8
	Optimize  bool
	ArraySize int // tape size; 0 means the stream's recommendation
	Limit     *uint64
	Input     io.Reader
	Output    io.Writer
	Debug     bool // drop into the debug tap on runtime errors
}

// Execute compiles and runs program text.
type Execute func(ctx context.Context, params Params) error

func (Module) Execute(
	logger logs.Logger,
	newSpan logs.NewSpan,
	tap debugs.Tap,
) Execute {
	return func(ctx context.Context, params Params) error {
		ctx, _ = newSpan(ctx, "")
		switch params.Width {
		case 0, 8:
			return executeWith[uint8](ctx, logger, tap, params)
		case 16:
			return executeWith[uint16](ctx, logger, tap, params)
		case 32:
			return executeWith[uint32](ctx, logger, tap, params)
		}
		return ErrBadWidth
	}
}

func executeWith[C cells.Cell](
	ctx context.Context,
	logger logs.Logger,
	tap debugs.Tap,
	params Params,
) error {

	var stream *bfcode.Stream[C]
	var err error
	if params.Optimize {
		stream, err = bfcode.OptimizedFromCode[C](params.Code)
	} else {
		stream, err = bfcode.FromCode[C](params.Code)
	}
	if err != nil {
		return logs.WrapSpan(ctx, err)
	}
	logger.InfoContext(ctx, "compiled",
		"width", cells.Width[C](),
		"cell_max", cells.Max[C](),
		"instructions", len(stream.Instructions()),
		"recommended_array_size", stream.RecommendedArraySize(),
		"optimized", params.Optimize,
		"limit", vars.DerefOrZero(params.Limit),
	)

	builder := NewBuilder[C](params.Input, params.Output).
		ConfigureFor(stream)
	if params.ArraySize > 0 {
		builder.DataArraySize(params.ArraySize)
	}
	if params.Limit != nil {
		builder.InstructionLimit(*params.Limit)
	}
	interpreter := builder.Build()

	if err := interpreter.Run(stream.Instructions()); err != nil {
		logger.ErrorContext(ctx, "run failed", "error", err)
		if params.Debug {
			tap(ctx, "runtime error", map[string]any{
				"error":  err.Error(),
				"ptr":    interpreter.Ptr(),
				"tape":   usedCells(interpreter.Data()),
				"budget": budgetGlobal(interpreter),
			})
		}
		return logs.WrapSpan(ctx, err)
	}

	logger.InfoContext(ctx, "run completed")
	return nil
}

// usedCells trims the unused zero tail of the tape so the debug tap gets
// a list a human can look at.
func usedCells[C cells.Cell](data []C) []C {
	end := len(data)
	for end > 0 && data[end-1] == 0 {
		end--
	}
	return data[:end]
}

func budgetGlobal[C cells.Cell](interpreter *Interpreter[C]) any {
	left, ok := interpreter.InstructionsLeft()
	if !ok {
		return nil
	}
	return left
}
