package expreval

// Grammar for SPICE parameter expressions, built the same way pkg/bsdl/ast.go
// layers VHDL clauses: one struct per precedence level, participle struct
// tags driving the parse. Precedence (low to high), per spec.md §4.1:
//
//	ternary ?: < logical ||,&& < compare < additive < multiplicative <
//	power < unary < atom
//
// Each binary level loops over its own operator set and folds left to
// right, matching the iterative (not recursive) accumulation in the
// original expression parser.

// Expr is the root production: a ternary expression.
type Expr struct {
	Cond *Logical `@@`
	Then *Logical `( "?" @@`
	Else *Logical `":" @@ )?`
}

// Logical handles "&&" and "||", left to right.
type Logical struct {
	Left *Compare     `@@`
	Rest []*LogicalOp `@@*`
}

type LogicalOp struct {
	Op    string   `@("&&" | "||")`
	Right *Compare `@@`
}

// Compare handles "==", "!=", "<=", "<", ">=", ">".
type Compare struct {
	Left *Additive  `@@`
	Rest []*CompareOp `@@*`
}

type CompareOp struct {
	Op    string    `@("==" | "!=" | "<=" | "<" | ">=" | ">")`
	Right *Additive `@@`
}

// Additive handles "+" and "-".
type Additive struct {
	Left *Multiplicative  `@@`
	Rest []*AdditiveOp    `@@*`
}

type AdditiveOp struct {
	Op    string          `@("+" | "-")`
	Right *Multiplicative `@@`
}

// Multiplicative handles "*", "/", "%".
type Multiplicative struct {
	Left *Power         `@@`
	Rest []*MultiplicativeOp `@@*`
}

type MultiplicativeOp struct {
	Op    string `@("*" | "/" | "%")`
	Right *Power `@@`
}

// Power handles "**" and "^".
type Power struct {
	Left *Unary     `@@`
	Rest []*PowerOp `@@*`
}

type PowerOp struct {
	Op    string `@("**" | "^")`
	Right *Unary `@@`
}

// Unary handles the prefix "-" and "!" operators, which in the original
// parser are part of atom reading rather than a separate precedence rung;
// we keep them as a distinct level for parser clarity without changing
// the evaluated semantics.
type Unary struct {
	Op   string `@("-" | "!")?`
	Atom *Atom  `@@`
}

// Atom is a literal, identifier/function-call, or parenthesized
// sub-expression. Quoting with '...'/"..."/{...} is handled by the
// top-level Read/TryRead entry points, not here.
type Atom struct {
	Number *string `  @Number`
	Call   *Call   `| @@`
	Ident  *string `| @Ident`
	Sub    *Expr   `| "(" @@ ")"`
}

// Call is an identifier applied to a parenthesized, comma-separated
// argument list: FUNC(arg, arg, ...).
type Call struct {
	Name string  `@Ident`
	Args []*Expr `"(" ( @@ ( "," @@ )* )? ")"`
}
