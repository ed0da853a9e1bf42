package expr

import (
	"cmp"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/roach88/docql/internal/ir"
)

// Arity returns the number of arguments method m takes.
func Arity(m Method) (int, bool) {
	switch m {
	case MethodContains, MethodStartsWith, MethodEndsWith:
		return 1, true
	case MethodToUpper, MethodToLower, MethodTrim, MethodLength:
		return 0, true
	}
	return 0, false
}

// EvalBinary applies op to two constant values.
//
// Integer arithmetic stays integral, mixing in a decimal yields a decimal and
// mixing in a float yields a float. `+` with a string operand concatenates.
func EvalBinary(op Op, l, r ir.IRValue) (ir.IRValue, error) {
	switch {
	case op == OpAnd || op == OpOr:
		lb, lok := l.(ir.IRBool)
		rb, rok := r.(ir.IRBool)
		if !lok || !rok {
			return nil, mismatch(op, l, r)
		}
		if op == OpAnd {
			return lb && rb, nil
		}
		return lb || rb, nil

	case op.IsComparison():
		return compare(op, l, r)

	case op == OpConcat || (op == OpAdd && (isString(l) || isString(r))):
		ls, lok := stringOf(l)
		rs, rok := stringOf(r)
		if !lok || !rok {
			return nil, mismatch(op, l, r)
		}
		return ir.IRString(ls + rs), nil

	case op == OpAdd, op == OpSub, op == OpMul, op == OpDiv, op == OpMod:
		return arith(op, l, r)
	}

	return nil, ir.UnsupportedExpression("Binary", "operator %s cannot be evaluated", op)
}

// EvalUnary applies NOT or negation to a constant value.
func EvalUnary(op Op, v ir.IRValue) (ir.IRValue, error) {
	switch op {
	case OpNot:
		if b, ok := v.(ir.IRBool); ok {
			return !b, nil
		}
	case OpNeg:
		switch n := v.(type) {
		case ir.IRInt:
			if n == math.MinInt64 {
				return ir.NewIRDecimal(decimal.NewFromInt(int64(n)).Neg()), nil
			}
			return -n, nil
		case ir.IRFloat:
			return -n, nil
		case ir.IRDecimal:
			return ir.NewIRDecimal(n.Neg()), nil
		}
	}
	return nil, ir.UnsupportedExpression("Unary", "cannot apply %s to %s", op, ir.Kind(v))
}

// EvalCall evaluates a supported method on constant operands.
func EvalCall(m Method, target ir.IRValue, args []ir.IRValue) (ir.IRValue, error) {
	want, ok := Arity(m)
	if !ok {
		return nil, ir.UnsupportedExpression("Call", "unsupported method %s", m)
	}
	if len(args) != want {
		return nil, ir.UnsupportedExpression("Call", "method %s takes %d argument(s), got %d", m, want, len(args))
	}

	if arr, ok := target.(ir.IRArray); ok {
		switch m {
		case MethodContains:
			for _, elem := range arr {
				if equalValues(elem, args[0]) {
					return ir.IRBool(true), nil
				}
			}
			return ir.IRBool(false), nil
		case MethodLength:
			return ir.IRInt(len(arr)), nil
		}
		return nil, ir.UnsupportedExpression("Call", "method %s is not defined on arrays", m)
	}

	s, ok := target.(ir.IRString)
	if !ok {
		return nil, ir.UnsupportedExpression("Call", "method %s is not defined on %s", m, ir.Kind(target))
	}
	switch m {
	case MethodToUpper:
		return ir.IRString(strings.ToUpper(string(s))), nil
	case MethodToLower:
		return ir.IRString(strings.ToLower(string(s))), nil
	case MethodTrim:
		return ir.IRString(strings.TrimSpace(string(s))), nil
	case MethodLength:
		return ir.IRInt(utf8.RuneCountInString(string(s))), nil
	}

	arg, ok := args[0].(ir.IRString)
	if !ok {
		return nil, ir.UnsupportedExpression("Call", "method %s needs a string argument, got %s", m, ir.Kind(args[0]))
	}
	switch m {
	case MethodContains:
		return ir.IRBool(strings.Contains(string(s), string(arg))), nil
	case MethodStartsWith:
		return ir.IRBool(strings.HasPrefix(string(s), string(arg))), nil
	default:
		return ir.IRBool(strings.HasSuffix(string(s), string(arg))), nil
	}
}

func compare(op Op, l, r ir.IRValue) (ir.IRValue, error) {
	c, ok := order(l, r)
	if !ok {
		switch op {
		case OpEq:
			return ir.IRBool(equalValues(l, r)), nil
		case OpNe:
			return ir.IRBool(!equalValues(l, r)), nil
		}
		return nil, mismatch(op, l, r)
	}
	switch op {
	case OpEq:
		return ir.IRBool(c == 0), nil
	case OpNe:
		return ir.IRBool(c != 0), nil
	case OpLt:
		return ir.IRBool(c < 0), nil
	case OpLe:
		return ir.IRBool(c <= 0), nil
	case OpGt:
		return ir.IRBool(c > 0), nil
	default:
		return ir.IRBool(c >= 0), nil
	}
}

// order compares two values of an ordered kind.
func order(l, r ir.IRValue) (int, bool) {
	if isNumeric(l) && isNumeric(r) {
		return compareNumbers(l, r), true
	}
	switch lv := l.(type) {
	case ir.IRString:
		if rv, ok := r.(ir.IRString); ok {
			return strings.Compare(string(lv), string(rv)), true
		}
	case ir.IRBool:
		if rv, ok := r.(ir.IRBool); ok {
			return cmp.Compare(boolRank(lv), boolRank(rv)), true
		}
	case ir.IRTime:
		if rv, ok := r.(ir.IRTime); ok {
			return time.Time(lv).Compare(time.Time(rv)), true
		}
	}
	return 0, false
}

func equalValues(l, r ir.IRValue) bool {
	if c, ok := order(l, r); ok {
		return c == 0
	}
	switch lv := l.(type) {
	case ir.IRNull:
		_, ok := r.(ir.IRNull)
		return ok
	case ir.IRMissing:
		_, ok := r.(ir.IRMissing)
		return ok
	case ir.IRArray:
		rv, ok := r.(ir.IRArray)
		if !ok || len(lv) != len(rv) {
			return false
		}
		for i := range lv {
			if !equalValues(lv[i], rv[i]) {
				return false
			}
		}
		return true
	case ir.IRObject:
		rv, ok := r.(ir.IRObject)
		if !ok || len(lv) != len(rv) {
			return false
		}
		for k, v := range lv {
			other, ok := rv[k]
			if !ok || !equalValues(v, other) {
				return false
			}
		}
		return true
	}
	return false
}

func arith(op Op, l, r ir.IRValue) (ir.IRValue, error) {
	if !isNumeric(l) || !isNumeric(r) {
		return nil, mismatch(op, l, r)
	}

	li, lInt := l.(ir.IRInt)
	ri, rInt := r.(ir.IRInt)
	switch {
	case lInt && rInt:
		if (op == OpDiv || op == OpMod) && ri == 0 {
			return nil, divisionByZero()
		}
		return intArith(op, int64(li), int64(ri)), nil

	case isFloat(l) || isFloat(r):
		a, b := toFloat(l), toFloat(r)
		if (op == OpDiv || op == OpMod) && b == 0 {
			return nil, divisionByZero()
		}
		switch op {
		case OpAdd:
			return ir.IRFloat(a + b), nil
		case OpSub:
			return ir.IRFloat(a - b), nil
		case OpMul:
			return ir.IRFloat(a * b), nil
		case OpDiv:
			return ir.IRFloat(a / b), nil
		default:
			return ir.IRFloat(math.Mod(a, b)), nil
		}

	default:
		a, b := toDecimal(l), toDecimal(r)
		if (op == OpDiv || op == OpMod) && b.IsZero() {
			return nil, divisionByZero()
		}
		switch op {
		case OpAdd:
			return ir.NewIRDecimal(a.Add(b)), nil
		case OpSub:
			return ir.NewIRDecimal(a.Sub(b)), nil
		case OpMul:
			return ir.NewIRDecimal(a.Mul(b)), nil
		case OpDiv:
			return ir.NewIRDecimal(a.Div(b)), nil
		default:
			return ir.NewIRDecimal(a.Mod(b)), nil
		}
	}
}

func compareNumbers(l, r ir.IRValue) int {
	li, lInt := l.(ir.IRInt)
	ri, rInt := r.(ir.IRInt)
	switch {
	case lInt && rInt:
		return cmp.Compare(li, ri)
	case isFloat(l) || isFloat(r):
		return cmp.Compare(toFloat(l), toFloat(r))
	default:
		return toDecimal(l).Cmp(toDecimal(r))
	}
}

func isNumeric(v ir.IRValue) bool {
	switch v.(type) {
	case ir.IRInt, ir.IRFloat, ir.IRDecimal:
		return true
	}
	return false
}

func isFloat(v ir.IRValue) bool {
	_, ok := v.(ir.IRFloat)
	return ok
}

func isString(v ir.IRValue) bool {
	_, ok := v.(ir.IRString)
	return ok
}

func toFloat(v ir.IRValue) float64 {
	switch n := v.(type) {
	case ir.IRInt:
		return float64(n)
	case ir.IRFloat:
		return float64(n)
	case ir.IRDecimal:
		return n.InexactFloat64()
	}
	return math.NaN()
}

func toDecimal(v ir.IRValue) decimal.Decimal {
	switch n := v.(type) {
	case ir.IRInt:
		return decimal.NewFromInt(int64(n))
	case ir.IRDecimal:
		return n.Decimal
	}
	return decimal.NewFromFloat(toFloat(v))
}

func stringOf(v ir.IRValue) (string, bool) {
	switch s := v.(type) {
	case ir.IRString:
		return string(s), true
	case ir.IRInt:
		return strconv.FormatInt(int64(s), 10), true
	case ir.IRFloat:
		return strconv.FormatFloat(float64(s), 'g', -1, 64), true
	case ir.IRDecimal:
		return s.String(), true
	case ir.IRBool:
		return strconv.FormatBool(bool(s)), true
	}
	return "", false
}

func boolRank(b ir.IRBool) int {
	if b {
		return 1
	}
	return 0
}

// intArith applies op to two integers. A result outside the int64 range is
// returned as an exact decimal.
func intArith(op Op, a, b int64) ir.IRValue {
	switch op {
	case OpAdd:
		if s := a + b; (s > a) == (b > 0) {
			return ir.IRInt(s)
		}
		return ir.NewIRDecimal(decimal.NewFromInt(a).Add(decimal.NewFromInt(b)))
	case OpSub:
		if d := a - b; (d < a) == (b > 0) {
			return ir.IRInt(d)
		}
		return ir.NewIRDecimal(decimal.NewFromInt(a).Sub(decimal.NewFromInt(b)))
	case OpMul:
		if a == 0 || b == 0 {
			return ir.IRInt(0)
		}
		if p := a * b; p/b == a && !(b == -1 && a == math.MinInt64) {
			return ir.IRInt(p)
		}
		return ir.NewIRDecimal(decimal.NewFromInt(a).Mul(decimal.NewFromInt(b)))
	case OpDiv:
		if a == math.MinInt64 && b == -1 {
			return ir.NewIRDecimal(decimal.NewFromInt(a).Neg())
		}
		return ir.IRInt(a / b)
	default:
		return ir.IRInt(a % b)
	}
}

func mismatch(op Op, l, r ir.IRValue) error {
	return ir.UnsupportedExpression("Binary", "cannot apply %s to %s and %s", op, ir.Kind(l), ir.Kind(r))
}

func divisionByZero() error {
	return ir.UnsupportedExpression("Binary", "division by zero in constant expression")
}
