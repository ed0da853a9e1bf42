// Package expr defines the expression trees carried by a query model.
//
// Node is a sealed interface using the marker method pattern. Only the
// variants in this package implement it, so consumers can dispatch with an
// exhaustive type switch:
//
//	switch n := node.(type) {
//	case *Binary:
//	case *Unary:
//	case *Member:
//	case *Constant:
//	case *Call:
//	case *Param:
//	case *Var:
//	}
//
// Nodes are immutable once constructed. A Var stands for a closed-over
// external variable; Fold always replaces it with a Constant, so renderers
// never see one.
//
// Operator precedence is declared per Op and is used only to decide where
// parentheses go when the tree is printed. It never affects evaluation
// order.
package expr
