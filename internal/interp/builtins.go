package interp

import (
	"math"

	"github.com/felico-lang/felico/internal/diag"
	"github.com/felico-lang/felico/internal/types"
	"github.com/felico-lang/felico/internal/value"
)

// registerBuiltins defines the four core built-in callables the
// resolver's core scope also declares (spec.md §3, §4.2).
func (i *Interpreter) registerBuiltins() {
	i.defineNative("sqrt", []*types.Type{types.F64Type}, types.F64Type, func(args []value.Value) value.Value {
		return value.F64(math.Sqrt(args[0].F64))
	})
	i.defineNative("abs", []*types.Type{types.F64Type}, types.F64Type, func(args []value.Value) value.Value {
		return value.F64(math.Abs(args[0].F64))
	})
	i.defineNative("debug_print", []*types.Type{types.Any}, types.UnitType, func(args []value.Value) value.Value {
		io_writeLine(i, args[0].Display())
		return value.Unit()
	})
	i.defineNative("panic", []*types.Type{types.StrType}, types.Never, func(args []value.Value) value.Value {
		rec := &diag.PanicRecord{Message: args[0].Str, Stack: i.captureStack()}
		return value.PanicValue(rec)
	})
}

func io_writeLine(i *Interpreter, s string) {
	_, _ = i.output.Write([]byte(s + "\n"))
}

func (i *Interpreter) defineNative(name string, params []*types.Type, ret *types.Type, fn func([]value.Value) value.Value) {
	ft := types.NewFunction(params, ret)
	callable := &value.Callable{
		Name: name,
		Type: ft,
		Native: func(args []value.Value) (value.Value, error) {
			return fn(args), nil
		},
	}
	i.env.Define(name, value.CallableValue(callable))
}

// captureStack snapshots the live call-site stack, innermost (the
// panic call itself) first, matching spec.md §8 scenario 6.
func (i *Interpreter) captureStack() diag.Stack {
	stack := make(diag.Stack, len(i.callSites))
	for idx := range i.callSites {
		stack[idx] = i.callSites[len(i.callSites)-1-idx]
	}
	return stack
}
