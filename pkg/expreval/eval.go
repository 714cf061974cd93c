package expreval

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
)

// Vars is a read-only variable scope: identifier to Value. Keys must be
// upper-case: the evaluator upper-cases every identifier before looking
// it up.
type Vars map[string]Value

// Evaluator evaluates SPICE parameter expressions against an inner and an
// outer variable scope (the inner scope — e.g. a subcircuit's local
// parameters — shadows the outer one), per spec.md §4.1.
type Evaluator struct {
	parser *participle.Parser[Expr]
}

// New builds an Evaluator. The grammar is fixed, so this never fails in
// practice, but participle.Build can in principle reject a malformed
// grammar, so the error is still surfaced.
func New() (*Evaluator, error) {
	p, err := participle.Build[Expr](
		participle.Lexer(exprLexer),
		participle.Elide("Whitespace"),
		participle.UseLookahead(2),
	)
	if err != nil {
		return nil, fmt.Errorf("expreval: building grammar: %w", err)
	}
	return &Evaluator{parser: p}, nil
}

// Read evaluates text, returning an error on malformed input. The error
// carries a textual pointer into the offending remainder, as participle
// errors already do.
func (e *Evaluator) Read(text string, inner, outer Vars) (Value, error) {
	expr, err := e.parser.ParseString("", unquote(text))
	if err != nil {
		return Nil, fmt.Errorf("expreval: %w", err)
	}
	return evalExpr(expr, inner, outer), nil
}

// TryRead evaluates text, returning ok=false instead of an error on
// malformed input (never panics, never partially mutates caller state).
func (e *Evaluator) TryRead(text string, inner, outer Vars) (Value, bool) {
	expr, err := e.parser.ParseString("", unquote(text))
	if err != nil {
		return Nil, false
	}
	return evalExpr(expr, inner, outer), true
}

// unquote strips a single matching '...'/"..."/{...} bracket pair, as the
// grammar lets callers pass parameter text either bare or quoted.
func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return s
	}
	pairs := map[byte]byte{'\'': '\'', '"': '"', '{': '}'}
	if close, ok := pairs[s[0]]; ok && s[len(s)-1] == close {
		return s[1 : len(s)-1]
	}
	return s
}

func lookup(name string, inner, outer Vars) (Value, bool) {
	if inner != nil {
		if v, ok := inner[name]; ok {
			return v, true
		}
	}
	if outer != nil {
		if v, ok := outer[name]; ok {
			return v, true
		}
	}
	return Nil, false
}

func evalExpr(e *Expr, inner, outer Vars) Value {
	v := evalLogical(e.Cond, inner, outer)
	if e.Then != nil && e.Else != nil {
		if v.ToBool() {
			return evalLogical(e.Then, inner, outer)
		}
		return evalLogical(e.Else, inner, outer)
	}
	return v
}

func evalLogical(n *Logical, inner, outer Vars) Value {
	v := evalCompare(n.Left, inner, outer)
	for _, op := range n.Rest {
		rv := evalCompare(op.Right, inner, outer)
		switch op.Op {
		case "&&":
			v = BoolValue(v.ToBool() && rv.ToBool())
		case "||":
			v = BoolValue(v.ToBool() || rv.ToBool())
		}
	}
	return v
}

func evalCompare(n *Compare, inner, outer Vars) Value {
	v := evalAdditive(n.Left, inner, outer)
	for _, op := range n.Rest {
		rv := evalAdditive(op.Right, inner, outer)
		switch op.Op {
		case "==":
			v = BoolValue(v.Equal(rv))
		case "!=":
			v = BoolValue(!v.Equal(rv))
		case "<":
			v = BoolValue(v.Less(rv))
		case "<=":
			v = BoolValue(v.Less(rv) || v.Equal(rv))
		case ">":
			v = BoolValue(rv.Less(v))
		case ">=":
			v = BoolValue(rv.Less(v) || v.Equal(rv))
		}
	}
	return v
}

func evalAdditive(n *Additive, inner, outer Vars) Value {
	v := evalMultiplicative(n.Left, inner, outer)
	for _, op := range n.Rest {
		rv := evalMultiplicative(op.Right, inner, outer)
		if !v.CanConvertToFloat() || !rv.CanConvertToFloat() {
			v = Nil
			continue
		}
		switch op.Op {
		case "+":
			v = NumberValue(v.ToFloat() + rv.ToFloat())
		case "-":
			v = NumberValue(v.ToFloat() - rv.ToFloat())
		}
	}
	return v
}

func evalMultiplicative(n *Multiplicative, inner, outer Vars) Value {
	v := evalPower(n.Left, inner, outer)
	for _, op := range n.Rest {
		rv := evalPower(op.Right, inner, outer)
		if !v.CanConvertToFloat() || !rv.CanConvertToFloat() {
			v = Nil
			continue
		}
		switch op.Op {
		case "*":
			v = NumberValue(v.ToFloat() * rv.ToFloat())
		case "/":
			v = NumberValue(v.ToFloat() / rv.ToFloat())
		case "%":
			v = NumberValue(float64(int64(v.ToFloat()) % int64(rv.ToFloat())))
		}
	}
	return v
}

func evalPower(n *Power, inner, outer Vars) Value {
	v := evalUnary(n.Left, inner, outer)
	for _, op := range n.Rest {
		rv := evalUnary(op.Right, inner, outer)
		if !v.CanConvertToFloat() || !rv.CanConvertToFloat() {
			v = Nil
			continue
		}
		v = NumberValue(math.Pow(v.ToFloat(), rv.ToFloat()))
	}
	return v
}

func evalUnary(n *Unary, inner, outer Vars) Value {
	v := evalAtom(n.Atom, inner, outer)
	switch n.Op {
	case "-":
		if v.CanConvertToFloat() {
			return NumberValue(-v.ToFloat())
		}
		return Nil
	case "!":
		return BoolValue(!v.ToBool())
	default:
		return v
	}
}

func evalAtom(n *Atom, inner, outer Vars) Value {
	switch {
	case n.Number != nil:
		f, err := parseSINumber(*n.Number)
		if err != nil {
			return Nil
		}
		return NumberValue(f)
	case n.Call != nil:
		args := make([]Value, len(n.Call.Args))
		for i, a := range n.Call.Args {
			args[i] = evalExpr(a, inner, outer)
		}
		return callFunction(strings.ToUpper(n.Call.Name), args)
	case n.Ident != nil:
		if v, ok := lookup(strings.ToUpper(*n.Ident), inner, outer); ok {
			return v
		}
		// Unresolved identifiers are kept as string values, per the
		// original parser's fallback ("keep word as string value").
		return StringValue(*n.Ident)
	case n.Sub != nil:
		return evalExpr(n.Sub, inner, outer)
	default:
		return Nil
	}
}

// parseSINumber reads a number followed by an optional SPICE unit suffix
// and applies the suffix's scale factor. "M" is milli and "MEG" is mega; any other trailing letters are
// consumed as an ignored unit tag (e.g. "1.5MEG" vs "1.5V" vs "1.5OHM").
func parseSINumber(tok string) (float64, error) {
	i := 0
	for i < len(tok) && (isDigit(tok[i]) || tok[i] == '.' || tok[i] == 'e' || tok[i] == 'E' ||
		((tok[i] == '+' || tok[i] == '-') && i > 0 && (tok[i-1] == 'e' || tok[i-1] == 'E'))) {
		i++
	}
	numPart := tok[:i]
	suffix := strings.ToUpper(tok[i:])

	f, err := strconv.ParseFloat(numPart, 64)
	if err != nil {
		return 0, err
	}

	scale := 1.0
	switch {
	case strings.HasPrefix(suffix, "MEG"):
		scale = 1e6
	case strings.HasPrefix(suffix, "T"):
		scale = 1e12
	case strings.HasPrefix(suffix, "G"):
		scale = 1e9
	case strings.HasPrefix(suffix, "K"):
		scale = 1e3
	case strings.HasPrefix(suffix, "M"):
		scale = 1e-3
	case strings.HasPrefix(suffix, "U"):
		scale = 1e-6
	case strings.HasPrefix(suffix, "N"):
		scale = 1e-9
	case strings.HasPrefix(suffix, "P"):
		scale = 1e-12
	case strings.HasPrefix(suffix, "F"):
		scale = 1e-15
	case strings.HasPrefix(suffix, "A"):
		scale = 1e-18
	}

	return f * scale, nil
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// callFunction implements the recognized function table from spec.md §4.1.
func callFunction(name string, args []Value) Value {
	unary := map[string]func(float64) float64{
		"SQRT": math.Sqrt, "SIN": math.Sin, "COS": math.Cos, "TAN": math.Tan,
		"SINH": math.Sinh, "COSH": math.Cosh, "TANH": math.Tanh,
		"ASIN": math.Asin, "ACOS": math.Acos, "ATAN": math.Atan, "ARCTAN": math.Atan,
		"ASINH": math.Asinh, "ACOSH": math.Acosh, "ATANH": math.Atanh,
		"EXP": math.Exp, "LN": math.Log, "LOG": math.Log10,
		"ABS": math.Abs, "NINT": math.RoundToEven, "FLOOR": math.Floor, "CEIL": math.Ceil,
		"SGN": sgn, "INT": trunc,
	}

	if f, ok := unary[name]; ok {
		if len(args) < 1 || !args[0].CanConvertToFloat() {
			return Nil
		}
		return NumberValue(f(args[0].ToFloat()))
	}

	switch name {
	case "PWR", "POW":
		if len(args) < 2 || !args[0].CanConvertToFloat() || !args[1].CanConvertToFloat() {
			return Nil
		}
		return NumberValue(math.Pow(args[0].ToFloat(), args[1].ToFloat()))
	case "TERNERY_FCN":
		if len(args) < 3 {
			return Nil
		}
		if args[0].ToBool() {
			return args[1]
		}
		return args[2]
	case "MIN":
		return minMax(args, true)
	case "MAX":
		return minMax(args, false)
	default:
		return Nil
	}
}

func minMax(args []Value, wantMin bool) Value {
	if len(args) < 1 {
		return Nil
	}
	v := args[0]
	for _, a := range args[1:] {
		if wantMin && a.Less(v) {
			v = a
		} else if !wantMin && v.Less(a) {
			v = a
		}
	}
	return v
}

func sgn(v float64) float64 {
	if v == 0 {
		return 0
	}
	if v < 0 {
		return -1
	}
	return 1
}

func trunc(v float64) float64 {
	return sgn(v) * math.Floor(sgn(v)*v)
}
