package expr

// Bin builds a Binary node.
func Bin(op Op, left, right Node) *Binary {
	return &Binary{Op: op, Left: left, Right: right}
}

func Eq(l, r Node) *Binary  { return Bin(OpEq, l, r) }
func Ne(l, r Node) *Binary  { return Bin(OpNe, l, r) }
func Lt(l, r Node) *Binary  { return Bin(OpLt, l, r) }
func Le(l, r Node) *Binary  { return Bin(OpLe, l, r) }
func Gt(l, r Node) *Binary  { return Bin(OpGt, l, r) }
func Ge(l, r Node) *Binary  { return Bin(OpGe, l, r) }
func Add(l, r Node) *Binary { return Bin(OpAdd, l, r) }
func Sub(l, r Node) *Binary { return Bin(OpSub, l, r) }
func Mul(l, r Node) *Binary { return Bin(OpMul, l, r) }
func Div(l, r Node) *Binary { return Bin(OpDiv, l, r) }
func Mod(l, r Node) *Binary { return Bin(OpMod, l, r) }

// Concat joins two strings with ||. Use it instead of Add when neither
// operand is known to be a string, e.g. two members.
func Concat(l, r Node) *Binary { return Bin(OpConcat, l, r) }

// And left-folds its operands: And(a, b, c) is ((a AND b) AND c).
func And(first Node, rest ...Node) Node {
	return chain(OpAnd, first, rest)
}

// Or left-folds its operands like And.
func Or(first Node, rest ...Node) Node {
	return chain(OpOr, first, rest)
}

func chain(op Op, first Node, rest []Node) Node {
	n := first
	for _, r := range rest {
		n = Bin(op, n, r)
	}
	return n
}

func Not(n Node) *Unary { return &Unary{Op: OpNot, Operand: n} }
func Neg(n Node) *Unary { return &Unary{Op: OpNeg, Operand: n} }

// Const wraps a Go value as a Constant.
func Const(v any) *Constant { return &Constant{Value: v} }

// Ref captures an external variable.
func Ref(name string, value any) *Var { return &Var{Name: name, Value: value} }

// P references the range variable name.
func P(name string) *Param { return &Param{Name: name} }

// Field accesses member name of entity on target.
func Field(target Node, entity, name string) *Member {
	return &Member{Target: target, Entity: entity, Name: name}
}

// Invoke builds a method call.
func Invoke(target Node, method Method, args ...Node) *Call {
	return &Call{Target: target, Method: method, Args: args}
}

func Contains(target, arg Node) *Call   { return Invoke(target, MethodContains, arg) }
func StartsWith(target, arg Node) *Call { return Invoke(target, MethodStartsWith, arg) }
func EndsWith(target, arg Node) *Call   { return Invoke(target, MethodEndsWith, arg) }
