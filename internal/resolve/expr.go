package resolve

import (
	"github.com/felico-lang/felico/internal/ast"
	"github.com/felico-lang/felico/internal/source"
	"github.com/felico-lang/felico/internal/types"
)

// resolveExpr type-checks e, annotates it via SetType, and returns its
// type. It never returns nil: on error it records a diagnostic and
// yields types.Unresolved so callers can keep walking without
// cascading spurious errors (spec.md §4.4's Unresolved-suppression
// rule, mirrored in types.Type.AssignableTo).
func (r *Resolver) resolveExpr(e ast.Expression) *types.Type {
	var t *types.Type
	switch n := e.(type) {
	case *ast.Literal:
		t = r.resolveLiteral(n)
	case *ast.Variable:
		t = r.resolveVariable(n)
	case *ast.Unary:
		t = r.resolveUnary(n)
	case *ast.Binary:
		t = r.resolveBinary(n)
	case *ast.Assign:
		t = r.resolveAssign(n)
	case *ast.Call:
		t = r.resolveCall(n)
	case *ast.Get:
		t = r.resolveGet(n)
	case *ast.Set:
		t = r.resolveSet(n)
	case *ast.Block:
		t = r.resolveBlockExpr(n)
	case *ast.If:
		t = r.resolveIf(n)
	case *ast.Return:
		t = r.resolveReturn(n)
	case *ast.CreateStruct:
		t = r.resolveCreateStruct(n)
	default:
		t = types.Unresolved
	}
	e.SetType(t)
	return t
}

func (r *Resolver) resolveLiteral(n *ast.Literal) *types.Type {
	switch n.Kind {
	case ast.LitBool:
		return types.BoolType
	case ast.LitI64:
		return types.I64Type
	case ast.LitF64:
		return types.F64Type
	case ast.LitStr:
		return types.StrType
	default:
		return types.UnitType
	}
}

func (r *Resolver) resolveVariable(n *ast.Variable) *types.Type {
	sym, dist, ok := r.scopes.lookup(n.Parts[0])
	if !ok {
		r.errorf(n.Sp, "Variable '"+n.Parts[0]+"' is not defined here")
		return types.Unresolved
	}
	n.Distance = dist
	return sym.Type
}

func (r *Resolver) resolveUnary(n *ast.Unary) *types.Type {
	operand := r.resolveExpr(n.Expr)
	switch n.Op {
	case ast.UnaryNot:
		if operand.Kind == types.KindUnresolved {
			return types.Unresolved
		}
		if !operand.Equal(types.BoolType) {
			r.errorf(n.Sp, "Operator '!' cannot be applied to operand of type "+operand.Signature())
			return types.Unresolved
		}
		return types.BoolType
	default: // UnaryNeg
		if operand.Kind == types.KindUnresolved {
			return types.Unresolved
		}
		if !operand.Equal(types.I64Type) && !operand.Equal(types.F64Type) {
			r.errorf(n.Sp, "Operator '-' cannot be applied to operand of type "+operand.Signature())
			return types.Unresolved
		}
		return operand
	}
}

func (r *Resolver) resolveBinary(n *ast.Binary) *types.Type {
	left := r.resolveExpr(n.Left)
	right := r.resolveExpr(n.Right)
	if left.Kind == types.KindUnresolved || right.Kind == types.KindUnresolved {
		if n.Op.IsComparison() {
			return types.BoolType
		}
		return types.Unresolved
	}

	switch n.Op {
	case ast.BinAnd, ast.BinOr:
		if !left.Equal(types.BoolType) || !right.Equal(types.BoolType) {
			r.errorf(n.Sp, "Operator '"+n.Op.String()+"' requires operands of type "+types.BoolType.Signature())
		}
		return types.BoolType
	case ast.BinAdd:
		// Operand matching for '+' (and the other arithmetic operators
		// below) is left to the interpreter: a mismatch such as
		// `3 + true` surfaces as a runtime "Operator ... not defined"
		// error rather than a resolve-time diagnostic, mirroring how
		// Felico's call-argument coercion (a static, signature-driven
		// check) differs from its looser binary-operator typing.
		if left.Equal(types.StrType) && right.Equal(types.StrType) {
			return types.StrType
		}
		if numeric(left) && left.Equal(right) {
			return left
		}
		return left
	case ast.BinSub, ast.BinMul, ast.BinDiv:
		if numeric(left) && left.Equal(right) {
			return left
		}
		return left
	default: // comparisons always yield bool, regardless of operand types
		return types.BoolType
	}
}

func numeric(t *types.Type) bool {
	return t.Equal(types.I64Type) || t.Equal(types.F64Type)
}

func (r *Resolver) resolveAssign(n *ast.Assign) *types.Type {
	value := r.resolveExpr(n.Value)
	sym, dist, ok := r.scopes.lookup(n.Name)
	if !ok {
		r.errorf(n.Sp, "Variable '"+n.Name+"' is not defined here")
		return types.Unresolved
	}
	n.Distance = dist
	if !value.AssignableTo(sym.Type) {
		r.errorf(n.Sp, "Cannot assign value of type "+value.Signature()+" to variable of type "+sym.Type.Signature())
	}
	return sym.Type
}

// resolveMethodCall checks n's explicit args against methodType's
// declared parameters minus the leading "self" receiver parameter
// (already matched structurally by dispatching through the receiver's
// own struct type), and returns the method's declared return type.
func (r *Resolver) resolveMethodCall(n *ast.Call, methodType *types.Type) *types.Type {
	params := methodType.Params
	if len(params) > 0 {
		params = params[1:]
	}
	args := make([]*types.Type, len(n.Args))
	for i, a := range n.Args {
		args[i] = r.resolveExpr(a)
	}
	if len(args) != len(params) {
		r.errorf(n.Sp, "Expected "+itoa(len(params))+" arguments but got "+itoa(len(args)))
		return methodType.Ret
	}
	for i, p := range params {
		if args[i].Kind == types.KindUnresolved {
			continue
		}
		if !args[i].AssignableTo(p) {
			r.errorf(n.Args[i].Span(), "Cannot coerce argument of type "+args[i].Signature()+" as parameter of type "+p.Signature()+" in function invocation")
		}
	}
	return methodType.Ret
}

func (r *Resolver) resolveCall(n *ast.Call) *types.Type {
	// obj.method(args): dispatches through the struct's method table
	// with the receiver bound to the method's first ("self") declared
	// parameter, which is not counted among the call's explicit args
	// (this impl-block dispatch convention is this core's own addition,
	// not spelled out in spec.md's grammar).
	if get, ok := n.Callee.(*ast.Get); ok {
		objType := r.resolveExpr(get.Object)
		if objType.Kind == types.KindStruct {
			if m, found := objType.Methods[get.Name]; found {
				get.SetType(m)
				return r.resolveMethodCall(n, m)
			}
		}
		get.SetType(r.memberType(objType, get.Name, get.Sp))
	} else {
		r.resolveExpr(n.Callee)
	}

	calleeType := n.Callee.Type()
	args := make([]*types.Type, len(n.Args))
	for i, a := range n.Args {
		args[i] = r.resolveExpr(a)
	}
	if calleeType.Kind == types.KindUnresolved {
		return types.Unresolved
	}
	if calleeType.Kind != types.KindFunction {
		r.errorf(n.Sp, "Value of type "+calleeType.Signature()+" is not callable")
		return types.Unresolved
	}
	if len(args) != len(calleeType.Params) {
		r.errorf(n.Sp, "Expected "+itoa(len(calleeType.Params))+" arguments but got "+itoa(len(args)))
		return calleeType.Ret
	}
	for i, p := range calleeType.Params {
		if args[i].Kind == types.KindUnresolved {
			continue
		}
		if !args[i].AssignableTo(p) {
			r.errorf(n.Args[i].Span(), "Cannot coerce argument of type "+args[i].Signature()+" as parameter of type "+p.Signature()+" in function invocation")
		}
	}
	return calleeType.Ret
}

func (r *Resolver) resolveGet(n *ast.Get) *types.Type {
	objType := r.resolveExpr(n.Object)
	return r.memberType(objType, n.Name, n.Sp)
}

// memberType resolves Name as a field or method on an already-resolved
// objType, without re-resolving the object expression — used both by
// resolveGet and by resolveCall's method-dispatch fast path so the
// object expression is only ever resolved once.
func (r *Resolver) memberType(objType *types.Type, name string, span source.Span) *types.Type {
	if objType.Kind == types.KindUnresolved {
		return types.Unresolved
	}
	if objType.Kind != types.KindStruct {
		r.errorf(span, "Value of type "+objType.Signature()+" has no member '"+name+"'")
		return types.Unresolved
	}
	if f := objType.FieldByName(name); f != nil {
		return f.Type
	}
	if m, ok := objType.Methods[name]; ok {
		return m
	}
	r.errorf(span, "Struct '"+objType.Name+"' has no member '"+name+"'")
	return types.Unresolved
}

func (r *Resolver) resolveSet(n *ast.Set) *types.Type {
	objType := r.resolveExpr(n.Object)
	valType := r.resolveExpr(n.Value)
	if objType.Kind == types.KindUnresolved {
		return types.Unresolved
	}
	if objType.Kind != types.KindStruct {
		r.errorf(n.Sp, "Value of type "+objType.Signature()+" has no member '"+n.Name+"'")
		return types.Unresolved
	}
	f := objType.FieldByName(n.Name)
	if f == nil {
		r.errorf(n.Sp, "Struct '"+objType.Name+"' has no member '"+n.Name+"'")
		return types.Unresolved
	}
	if !valType.AssignableTo(f.Type) {
		r.errorf(n.Sp, "Cannot assign value of type "+valType.Signature()+" to field of type "+f.Type.Signature())
	}
	return f.Type
}

// resolveBlockExpr pushes a nested scope, resolves every local
// statement (including locally-scoped struct/trait/impl/fun
// declarations in one linear pass, unlike the module's multi-pass
// handling), then resolves the optional tail expression.
func (r *Resolver) resolveBlockExpr(n *ast.Block) *types.Type {
	r.scopes.push(nil)
	for _, s := range n.Statements {
		r.resolveStmt(s)
	}
	result := types.UnitType
	if n.Tail != nil {
		result = r.resolveExpr(n.Tail)
	}
	r.scopes.pop()
	return result
}

func (r *Resolver) resolveIf(n *ast.If) *types.Type {
	cond := r.resolveExpr(n.Cond)
	if cond.Kind != types.KindUnresolved && !cond.Equal(types.BoolType) {
		r.errorf(n.Cond.Span(), "Condition must be of type "+types.BoolType.Signature()+", got "+cond.Signature())
	}
	thenType := r.resolveExpr(n.Then)
	if n.Else == nil {
		return types.UnitType
	}
	elseType := r.resolveExpr(n.Else)
	if thenType.AssignableTo(elseType) {
		return elseType
	}
	if elseType.AssignableTo(thenType) {
		return thenType
	}
	r.errorf(n.Sp, "if-branches have incompatible types "+thenType.Signature()+" and "+elseType.Signature())
	return types.Unresolved
}

func (r *Resolver) resolveReturn(n *ast.Return) *types.Type {
	retType := types.UnitType
	if n.Value != nil {
		retType = r.resolveExpr(n.Value)
	}
	enclosing := r.scopes.top().enclosingReturnType()
	if enclosing != nil && retType.Kind != types.KindUnresolved && !retType.AssignableTo(enclosing) {
		r.errorf(n.Sp, "Cannot return value of type "+retType.Signature()+" from function returning "+enclosing.Signature())
	}
	return types.Never
}

func (r *Resolver) resolveCreateStruct(n *ast.CreateStruct) *types.Type {
	st := r.resolveTypeExpr(n.TypeExpr)
	if st.Kind == types.KindUnresolved {
		for _, f := range n.Fields {
			r.resolveExpr(f.Value)
		}
		return types.Unresolved
	}
	if st.Kind != types.KindStruct {
		r.errorf(n.Sp, "Type "+st.Signature()+" is not a struct type")
		return types.Unresolved
	}
	seen := make(map[string]bool, len(n.Fields))
	for _, fi := range n.Fields {
		valType := r.resolveExpr(fi.Value)
		seen[fi.Name] = true
		f := st.FieldByName(fi.Name)
		if f == nil {
			r.errorf(n.Sp, "Struct '"+st.Name+"' has no field '"+fi.Name+"'")
			continue
		}
		if valType.Kind != types.KindUnresolved && !valType.AssignableTo(f.Type) {
			r.errorf(n.Sp, "Cannot assign value of type "+valType.Signature()+" to field '"+fi.Name+"' of type "+f.Type.Signature())
		}
	}
	for _, f := range st.Fields {
		if !seen[f.Name] {
			r.errorf(n.Sp, "Missing field '"+f.Name+"' in construction of struct '"+st.Name+"'")
		}
	}
	return st
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
