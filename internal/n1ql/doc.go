// Package n1ql compiles query models to N1QL statement text.
//
// The generator walks a querymodel.Model in a fixed clause order:
//
//	SELECT <projection> FROM <collection> as <alias>
//	[WHERE <term> [AND <term>]*]
//	[ORDER BY <expr> (ASC|DESC) [, <expr> (ASC|DESC)]*]
//	[LIMIT <n>] [OFFSET <m>]
//
// Expressions are folded first (expr.Fold), so closed-over variables and
// constant arithmetic reach the renderer as literals. Every binary node is
// printed fully parenthesized:
//
//	e.Age > 10 && e.FirstName == "Sam"  →  ((e.age > 10) AND (e.fname = 'Sam'))
//
// Predicate fragments that carry no parentheses of their own (LIKE, IN,
// IS NULL, NOT) are wrapped whenever they are embedded in a binary node or
// stand as a WHERE term. IS MISSING terms from result operators are not.
//
// Compilation is all-or-nothing: on error the returned string is empty and
// the error is an *ir.CompileError locating the offending clause.
package n1ql
