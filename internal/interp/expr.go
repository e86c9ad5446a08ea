package interp

import (
	"github.com/felico-lang/felico/internal/ast"
	"github.com/felico-lang/felico/internal/types"
	"github.com/felico-lang/felico/internal/value"
)

// evalExpr evaluates e against the current environment. A Return or
// Panic value produced by any subexpression short-circuits the
// enclosing evaluation and is returned unchanged (spec.md §4.5, §9).
func (i *Interpreter) evalExpr(e ast.Expression) value.Value {
	switch n := e.(type) {
	case *ast.Literal:
		return evalLiteral(n)
	case *ast.Variable:
		return i.evalVariable(n)
	case *ast.Unary:
		return i.evalUnary(n)
	case *ast.Binary:
		return i.evalBinary(n)
	case *ast.Assign:
		return i.evalAssign(n)
	case *ast.Call:
		return i.evalCall(n)
	case *ast.Get:
		return i.evalGet(n)
	case *ast.Set:
		return i.evalSet(n)
	case *ast.Block:
		return i.evalBlock(n)
	case *ast.If:
		return i.evalIf(n)
	case *ast.Return:
		return i.evalReturn(n)
	case *ast.CreateStruct:
		return i.evalCreateStruct(n)
	default:
		i.abort("unhandled expression node %T", e)
		return value.Unit()
	}
}

func evalLiteral(n *ast.Literal) value.Value {
	switch n.Kind {
	case ast.LitBool:
		return value.Bool(n.Bool)
	case ast.LitI64:
		return value.I64(n.I64)
	case ast.LitF64:
		return value.F64(n.F64)
	case ast.LitStr:
		return value.String(n.Str)
	default:
		return value.Unit()
	}
}

func (i *Interpreter) evalVariable(n *ast.Variable) value.Value {
	v, ok := i.env.Get(n.Parts[0], n.Distance)
	if !ok {
		i.abort("Variable '%s' is not defined here", n.Parts[0])
	}
	for _, part := range n.Parts[1:] {
		if v.Kind != value.KindSymbolMap {
			i.abort("Value has no member '%s'", part)
		}
		next, found := v.SymbolMap.Entries[part]
		if !found {
			i.abort("Value has no member '%s'", part)
		}
		v = next
	}
	return v
}

func (i *Interpreter) evalUnary(n *ast.Unary) value.Value {
	operand := i.evalExpr(n.Expr)
	if operand.IsReturn() || operand.IsPanic() {
		return operand
	}
	switch n.Op {
	case ast.UnaryNot:
		return value.Bool(!operand.Bool)
	default: // UnaryNeg
		if operand.Kind == value.KindF64 {
			return value.F64(-operand.F64)
		}
		return value.I64(-operand.I64)
	}
}

var binaryOpNames = map[ast.BinaryOp]string{
	ast.BinAdd: "Plus", ast.BinSub: "Minus", ast.BinMul: "Star", ast.BinDiv: "Slash",
}

func (i *Interpreter) evalBinary(n *ast.Binary) value.Value {
	left := i.evalExpr(n.Left)
	if left.IsReturn() || left.IsPanic() {
		return left
	}
	if n.Op == ast.BinAnd {
		if !left.Bool {
			return value.Bool(false)
		}
		right := i.evalExpr(n.Right)
		if right.IsReturn() || right.IsPanic() {
			return right
		}
		return value.Bool(right.Bool)
	}
	if n.Op == ast.BinOr {
		if left.Bool {
			return value.Bool(true)
		}
		right := i.evalExpr(n.Right)
		if right.IsReturn() || right.IsPanic() {
			return right
		}
		return value.Bool(right.Bool)
	}

	right := i.evalExpr(n.Right)
	if right.IsReturn() || right.IsPanic() {
		return right
	}

	if n.Op.IsComparison() {
		return i.evalComparison(n.Op, left, right)
	}

	switch n.Op {
	case ast.BinAdd:
		if left.Kind == value.KindString {
			return value.String(left.Str + right.Display())
		}
		if left.Kind == value.KindF64 && right.Kind == value.KindF64 {
			return value.F64(left.F64 + right.F64)
		}
		if left.Kind == value.KindI64 && right.Kind == value.KindI64 {
			return value.I64(left.I64 + right.I64)
		}
	case ast.BinSub:
		if left.Kind == value.KindF64 && right.Kind == value.KindF64 {
			return value.F64(left.F64 - right.F64)
		}
		if left.Kind == value.KindI64 && right.Kind == value.KindI64 {
			return value.I64(left.I64 - right.I64)
		}
	case ast.BinMul:
		if left.Kind == value.KindF64 && right.Kind == value.KindF64 {
			return value.F64(left.F64 * right.F64)
		}
		if left.Kind == value.KindI64 && right.Kind == value.KindI64 {
			return value.I64(left.I64 * right.I64)
		}
	case ast.BinDiv:
		if left.Kind == value.KindF64 && right.Kind == value.KindF64 {
			return value.F64(left.F64 / right.F64)
		}
		if left.Kind == value.KindI64 && right.Kind == value.KindI64 {
			return value.I64(left.I64 / right.I64)
		}
	}

	i.abort("Operator %s not defined for values %s and %s", binaryOpNames[n.Op], left.DebugString(), right.DebugString())
	return value.Unit()
}

func (i *Interpreter) evalComparison(op ast.BinaryOp, left, right value.Value) value.Value {
	switch op {
	case ast.BinEq:
		return value.Bool(valuesEqual(left, right))
	case ast.BinNeq:
		return value.Bool(!valuesEqual(left, right))
	}
	if left.Kind != right.Kind {
		i.abort("Operator %s not defined for values %s and %s", op.String(), left.DebugString(), right.DebugString())
	}
	var cmp int
	switch left.Kind {
	case value.KindI64:
		cmp = compareInt(left.I64, right.I64)
	case value.KindF64:
		cmp = compareFloat(left.F64, right.F64)
	case value.KindString:
		cmp = compareString(left.Str, right.Str)
	default:
		i.abort("Operator %s not defined for values %s and %s", op.String(), left.DebugString(), right.DebugString())
	}
	switch op {
	case ast.BinLt:
		return value.Bool(cmp < 0)
	case ast.BinLe:
		return value.Bool(cmp <= 0)
	case ast.BinGt:
		return value.Bool(cmp > 0)
	default: // BinGe
		return value.Bool(cmp >= 0)
	}
}


func compareInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareString(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func valuesEqual(left, right value.Value) bool {
	if left.Kind != right.Kind {
		return false
	}
	switch left.Kind {
	case value.KindUnit:
		return true
	case value.KindBool:
		return left.Bool == right.Bool
	case value.KindI64:
		return left.I64 == right.I64
	case value.KindF64:
		return left.F64 == right.F64
	case value.KindString:
		return left.Str == right.Str
	case value.KindStruct:
		return left.Struct == right.Struct
	default:
		return false
	}
}

func (i *Interpreter) evalAssign(n *ast.Assign) value.Value {
	v := i.evalExpr(n.Value)
	if v.IsReturn() || v.IsPanic() {
		return v
	}
	if !i.env.Assign(n.Name, n.Distance, v) {
		i.abort("Variable '%s' is not defined here", n.Name)
	}
	return v
}

func (i *Interpreter) evalBlock(n *ast.Block) value.Value {
	saved := i.env
	i.env = value.NewEnvironment(saved)
	defer func() { i.env = saved }()

	for _, s := range n.Statements {
		result := i.execStmt(s)
		if result.IsReturn() || result.IsPanic() {
			return result
		}
	}
	if n.Tail != nil {
		return i.evalExpr(n.Tail)
	}
	return value.Unit()
}

func (i *Interpreter) evalIf(n *ast.If) value.Value {
	cond := i.evalExpr(n.Cond)
	if cond.IsReturn() || cond.IsPanic() {
		return cond
	}
	if !cond.Truthy() {
		if cond.Kind != value.KindBool {
			i.abort("Condition must be a bool value")
		}
		if n.Else != nil {
			return i.evalExpr(n.Else)
		}
		return value.Unit()
	}
	return i.evalExpr(n.Then)
}

func (i *Interpreter) evalReturn(n *ast.Return) value.Value {
	if n.Value == nil {
		return value.ReturnValue(value.Unit())
	}
	v := i.evalExpr(n.Value)
	if v.IsReturn() || v.IsPanic() {
		return v
	}
	return value.ReturnValue(v)
}

func (i *Interpreter) evalCreateStruct(n *ast.CreateStruct) value.Value {
	st := n.TypeExpr.Type()
	instance := value.NewStructInstance(st)
	for _, fi := range n.Fields {
		v := i.evalExpr(fi.Value)
		if v.IsReturn() || v.IsPanic() {
			return v
		}
		instance.Fields[fi.Name] = v
	}
	return value.StructValue(instance)
}

func (i *Interpreter) evalGet(n *ast.Get) value.Value {
	obj := i.evalExpr(n.Object)
	if obj.IsReturn() || obj.IsPanic() {
		return obj
	}
	if obj.Kind == value.KindSymbolMap {
		v, ok := obj.SymbolMap.Entries[n.Name]
		if !ok {
			i.abort("Value has no member '%s'", n.Name)
		}
		return v
	}
	if obj.Kind != value.KindStruct {
		i.abort("Value of type %s has no member '%s'", obj.Type.Signature(), n.Name)
	}
	if v, ok := obj.Struct.Fields[n.Name]; ok {
		return v
	}
	if c, ok := i.methodOn(obj.Struct.StructType, n.Name); ok {
		return value.CallableValue(c)
	}
	i.abort("Struct '%s' has no member '%s'", obj.Struct.StructType.Name, n.Name)
	return value.Unit()
}

func (i *Interpreter) evalSet(n *ast.Set) value.Value {
	obj := i.evalExpr(n.Object)
	if obj.IsReturn() || obj.IsPanic() {
		return obj
	}
	v := i.evalExpr(n.Value)
	if v.IsReturn() || v.IsPanic() {
		return v
	}
	if obj.Kind != value.KindStruct {
		i.abort("Value of type %s has no member '%s'", obj.Type.Signature(), n.Name)
	}
	obj.Struct.Fields[n.Name] = v
	return v
}

func (i *Interpreter) methodOn(st *types.Type, name string) (*value.Callable, bool) {
	methods, ok := i.implMethods[st.Name]
	if !ok {
		return nil, false
	}
	c, ok := methods[name]
	return c, ok
}

func (i *Interpreter) evalCall(n *ast.Call) value.Value {
	if get, ok := n.Callee.(*ast.Get); ok {
		obj := i.evalExpr(get.Object)
		if obj.IsReturn() || obj.IsPanic() {
			return obj
		}
		if obj.Kind == value.KindStruct {
			if c, found := i.methodOn(obj.Struct.StructType, get.Name); found {
				args := make([]value.Value, 0, len(n.Args)+1)
				args = append(args, obj)
				for _, a := range n.Args {
					av := i.evalExpr(a)
					if av.IsReturn() || av.IsPanic() {
						return av
					}
					args = append(args, av)
				}
				return i.callCallable(c, args, n.Sp)
			}
		}
		callee := i.evalGetOn(obj, get.Name)
		return i.finishCall(callee, n)
	}

	callee := i.evalExpr(n.Callee)
	if callee.IsReturn() || callee.IsPanic() {
		return callee
	}
	return i.finishCall(callee, n)
}

// evalGetOn reads a member off an already-evaluated object value,
// shared by evalGet and evalCall's non-method fallback.
func (i *Interpreter) evalGetOn(obj value.Value, name string) value.Value {
	if obj.Kind == value.KindSymbolMap {
		v, ok := obj.SymbolMap.Entries[name]
		if !ok {
			i.abort("Value has no member '%s'", name)
		}
		return v
	}
	if obj.Kind != value.KindStruct {
		i.abort("Value of type %s has no member '%s'", obj.Type.Signature(), name)
	}
	if v, ok := obj.Struct.Fields[name]; ok {
		return v
	}
	i.abort("Struct '%s' has no member '%s'", obj.Struct.StructType.Name, name)
	return value.Unit()
}

func (i *Interpreter) finishCall(callee value.Value, n *ast.Call) value.Value {
	if callee.Kind != value.KindCallable {
		i.abort("Value of type %s is not callable", callee.Type.Signature())
	}
	args := make([]value.Value, 0, len(n.Args))
	for _, a := range n.Args {
		av := i.evalExpr(a)
		if av.IsReturn() || av.IsPanic() {
			return av
		}
		args = append(args, av)
	}
	return i.callCallable(callee.Callable, args, n.Sp)
}
