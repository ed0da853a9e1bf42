package expr

import (
	"github.com/roach88/docql/internal/ir"
)

// Fold returns an equivalent tree in which every subtree free of Member and
// Param nodes has been replaced by the Constant it evaluates to. Var nodes
// always become Constants, and every Constant value is normalized to an
// ir.IRValue. The input tree is not modified.
//
// Folding is confluent: `a < (10 + 30)` and `a < 40` fold to equal trees.
func Fold(n Node) (Node, error) {
	switch node := n.(type) {
	case nil:
		return nil, ir.UnsupportedExpression("nil", "nil expression node")

	case *Constant:
		v, err := ir.FromGo(node.Value)
		if err != nil {
			return nil, err
		}
		return &Constant{Value: v}, nil

	case *Var:
		v, err := ir.FromGo(node.Value)
		if err != nil {
			if ce, ok := ir.AsCompileError(err); ok {
				located := *ce
				located.Member = node.Name
				return nil, &located
			}
			return nil, err
		}
		return &Constant{Value: v}, nil

	case *Param:
		return node, nil

	case *Member:
		if node.Target == nil {
			err := ir.UnsupportedExpression("Member", "member access without a target")
			err.Member = node.Name
			return nil, err
		}
		target, err := Fold(node.Target)
		if err != nil {
			return nil, err
		}
		return &Member{Target: target, Entity: node.Entity, Name: node.Name}, nil

	case *Binary:
		if !node.Op.IsBinary() {
			return nil, ir.UnsupportedExpression("Binary", "operator %s is not binary", node.Op)
		}
		left, err := Fold(node.Left)
		if err != nil {
			return nil, err
		}
		right, err := Fold(node.Right)
		if err != nil {
			return nil, err
		}
		lv, lok := constValue(left)
		rv, rok := constValue(right)
		if lok && rok {
			v, err := EvalBinary(node.Op, lv, rv)
			if err != nil {
				return nil, err
			}
			return &Constant{Value: v}, nil
		}
		return &Binary{Op: node.Op, Left: left, Right: right}, nil

	case *Unary:
		if !node.Op.IsUnary() {
			return nil, ir.UnsupportedExpression("Unary", "operator %s is not unary", node.Op)
		}
		operand, err := Fold(node.Operand)
		if err != nil {
			return nil, err
		}
		if v, ok := constValue(operand); ok {
			folded, err := EvalUnary(node.Op, v)
			if err != nil {
				return nil, err
			}
			return &Constant{Value: folded}, nil
		}
		return &Unary{Op: node.Op, Operand: operand}, nil

	case *Call:
		if node.Target == nil {
			return nil, ir.UnsupportedExpression("Call", "method %s called without a target", node.Method)
		}
		target, err := Fold(node.Target)
		if err != nil {
			return nil, err
		}
		args := make([]Node, len(node.Args))
		closed := true
		for i, arg := range node.Args {
			if args[i], err = Fold(arg); err != nil {
				return nil, err
			}
			if _, ok := constValue(args[i]); !ok {
				closed = false
			}
		}
		tv, ok := constValue(target)
		if ok && closed {
			argValues := make([]ir.IRValue, len(args))
			for i, arg := range args {
				argValues[i], _ = constValue(arg)
			}
			v, err := EvalCall(node.Method, tv, argValues)
			if err != nil {
				return nil, err
			}
			return &Constant{Value: v}, nil
		}
		return &Call{Target: target, Method: node.Method, Args: args}, nil
	}

	return nil, ir.UnsupportedExpression(KindOf(n), "unsupported expression node %T", n)
}

// constValue returns the folded value of a Constant node.
func constValue(n Node) (ir.IRValue, bool) {
	c, ok := n.(*Constant)
	if !ok {
		return nil, false
	}
	v, ok := c.Value.(ir.IRValue)
	return v, ok
}
