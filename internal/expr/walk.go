package expr

// Walk visits n and its descendants depth-first, left to right. If fn
// returns false the children of that node are skipped.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	switch node := n.(type) {
	case *Binary:
		Walk(node.Left, fn)
		Walk(node.Right, fn)
	case *Unary:
		Walk(node.Operand, fn)
	case *Member:
		Walk(node.Target, fn)
	case *Call:
		Walk(node.Target, fn)
		for _, arg := range node.Args {
			Walk(arg, fn)
		}
	}
}

// Params returns the distinct parameter names referenced by n in order of
// first appearance.
func Params(n Node) []string {
	var names []string
	seen := make(map[string]bool)
	Walk(n, func(node Node) bool {
		if p, ok := node.(*Param); ok && !seen[p.Name] {
			seen[p.Name] = true
			names = append(names, p.Name)
		}
		return true
	})
	return names
}

// IsClosed reports whether n contains no Member and no Param, meaning it
// can be evaluated without a document.
func IsClosed(n Node) bool {
	closed := true
	Walk(n, func(node Node) bool {
		switch node.(type) {
		case *Member, *Param:
			closed = false
		}
		return closed
	})
	return closed
}
