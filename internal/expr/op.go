package expr

// Op identifies a binary or unary operator.
type Op int

const (
	OpInvalid Op = iota

	// Logical
	OpOr
	OpAnd
	OpNot

	// Comparison
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe

	// Arithmetic
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpNeg

	// String
	OpConcat
)

var opTokens = map[Op]string{
	OpOr:     "OR",
	OpAnd:    "AND",
	OpNot:    "NOT",
	OpEq:     "=",
	OpNe:     "!=",
	OpLt:     "<",
	OpLe:     "<=",
	OpGt:     ">",
	OpGe:     ">=",
	OpAdd:    "+",
	OpSub:    "-",
	OpMul:    "*",
	OpDiv:    "/",
	OpMod:    "%",
	OpNeg:    "-",
	OpConcat: "||",
}

var opNames = map[Op]string{
	OpOr:     "or",
	OpAnd:    "and",
	OpNot:    "not",
	OpEq:     "eq",
	OpNe:     "ne",
	OpLt:     "lt",
	OpLe:     "le",
	OpGt:     "gt",
	OpGe:     "ge",
	OpAdd:    "add",
	OpSub:    "sub",
	OpMul:    "mul",
	OpDiv:    "div",
	OpMod:    "mod",
	OpNeg:    "neg",
	OpConcat: "concat",
}

// Token returns the operator as written in N1QL.
func (o Op) Token() string {
	return opTokens[o]
}

// String returns the short lower-case operator name ("eq", "and", ...).
func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return "invalid"
}

// ParseOp looks up an operator by its short name.
func ParseOp(name string) (Op, bool) {
	for op, n := range opNames {
		if n == name {
			return op, true
		}
	}
	return OpInvalid, false
}

// Precedence returns the binding strength of the operator. Higher binds
// tighter.
func (o Op) Precedence() int {
	switch o {
	case OpOr:
		return 1
	case OpAnd:
		return 2
	case OpNot:
		return 3
	case OpEq, OpNe, OpLt, OpLe, OpGt, OpGe:
		return 4
	case OpConcat:
		return 5
	case OpAdd, OpSub:
		return 6
	case OpMul, OpDiv, OpMod:
		return 7
	case OpNeg:
		return 8
	}
	return 0
}

// IsBinary reports whether o takes two operands.
func (o Op) IsBinary() bool {
	switch o {
	case OpOr, OpAnd, OpEq, OpNe, OpLt, OpLe, OpGt, OpGe,
		OpAdd, OpSub, OpMul, OpDiv, OpMod, OpConcat:
		return true
	}
	return false
}

// IsUnary reports whether o takes one operand.
func (o Op) IsUnary() bool {
	return o == OpNot || o == OpNeg
}

// IsComparison reports whether o is one of the six comparison operators.
func (o Op) IsComparison() bool {
	return o >= OpEq && o <= OpGe
}

// IsLogical reports whether o is AND, OR or NOT.
func (o Op) IsLogical() bool {
	return o == OpAnd || o == OpOr || o == OpNot
}
