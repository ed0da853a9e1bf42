package expr

// Node is a sealed interface for expression tree nodes.
type Node interface {
	exprNode() // Marker method - seals interface to this package
}

// Method names a supported method call.
type Method string

// Supported methods. String methods apply to string targets; Contains also
// applies to array targets as a membership test.
const (
	MethodContains   Method = "Contains"
	MethodStartsWith Method = "StartsWith"
	MethodEndsWith   Method = "EndsWith"
	MethodToUpper    Method = "ToUpper"
	MethodToLower    Method = "ToLower"
	MethodTrim       Method = "Trim"
	MethodLength     Method = "Length"
)

// Binary applies a two-operand operator.
type Binary struct {
	Op    Op
	Left  Node
	Right Node
}

func (*Binary) exprNode() {}

// Unary applies a one-operand operator (NOT or negation).
type Unary struct {
	Op      Op
	Operand Node
}

func (*Unary) exprNode() {}

// Member accesses a named member of Target. Entity is the declaring type of
// the member and selects the field mapping used to resolve Name.
//
// Target is either the query's Param or another Member for nested access.
type Member struct {
	Target Node
	Entity string
	Name   string
}

func (*Member) exprNode() {}

// Constant holds a literal value. After folding, Value is an ir.IRValue.
type Constant struct {
	Value any
}

func (*Constant) exprNode() {}

// Call invokes Method on Target with Args.
type Call struct {
	Target Node
	Method Method
	Args   []Node
}

func (*Call) exprNode() {}

// Param references the range variable bound to the query source.
type Param struct {
	Name string
}

func (*Param) exprNode() {}

// Var is a closed-over external variable with its captured value.
type Var struct {
	Name  string
	Value any
}

func (*Var) exprNode() {}

// KindOf returns the variant name of n, used in diagnostics.
func KindOf(n Node) string {
	switch n.(type) {
	case *Binary:
		return "Binary"
	case *Unary:
		return "Unary"
	case *Member:
		return "Member"
	case *Constant:
		return "Constant"
	case *Call:
		return "Call"
	case *Param:
		return "Param"
	case *Var:
		return "Var"
	case nil:
		return "nil"
	}
	return "unknown"
}
