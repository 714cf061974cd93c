package spice

import (
	"fmt"
	"strings"

	"github.com/openlvs/lvscore/pkg/expreval"
)

// parseComponents splits an element line's already-tokenized components
// into the leading node/model list and the trailing key=value parameter
// map, evaluating each value with eval against vars (spec.md §4.4). A
// component is a parameter iff it contains an unquoted "=" — anything
// before the first such component is a node or a trailing model name.
// normalize is applied to every node name (net-name translation hook).
func parseComponents(tokens []string, eval *expreval.Evaluator, vars expreval.Vars, normalize func(string) string) ([]string, map[string]float64, error) {
	var nodes []string
	params := map[string]float64{}

	for _, tok := range tokens {
		if key, val, ok := splitParam(tok); ok {
			v, err := eval.Read(val, vars, nil)
			if err != nil {
				return nil, nil, fmt.Errorf("parameter %s: %w", key, err)
			}
			params[strings.ToUpper(key)] = v.ToFloat()
			continue
		}
		nodes = append(nodes, normalize(tok))
	}
	return nodes, params, nil
}

// splitParam reports whether tok is a key=value component (an "="
// appearing outside of any quote), returning the key and the value text.
func splitParam(tok string) (key, val string, ok bool) {
	quote := byte(0)
	for i := 0; i < len(tok); i++ {
		c := tok[i]
		switch {
		case quote != 0:
			if c == '\\' && i+1 < len(tok) {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '=':
			return tok[:i], tok[i+1:], true
		}
	}
	return "", "", false
}

// tryNumber attempts to read tok as a bare numeric expression, returning
// ok=false (rather than an error) if it doesn't parse — used by decodeRCL
// to tell a value component from a model-name component (spec.md §4.4's
// R/C/L disambiguation).
func tryNumber(tok string, eval *expreval.Evaluator, vars expreval.Vars) (float64, bool) {
	v, ok := eval.TryRead(tok, vars, nil)
	if !ok || v.Kind != expreval.KindNumber {
		return 0, false
	}
	return v.Num, true
}

// decodeRCL disambiguates the node/value/model tail of a basic R, C or L
// element, ported from the eight-variant table in
// dbNetlistSpiceReaderDelegate.cc's parse_element (spec.md §4.4's "eight
// variants" heuristic, resolved per the Open Question in spec.md §9 by
// following the original's deterministic token-count + explicit
// R=/C=/L= table rather than re-deriving it). primary is the element's
// own letter ("R", "C" or "L"); an explicit primary=value component in
// params always wins over a positional reading of the same value, exactly
// as the original's `rv` lookup does, and (like the original) is erased
// from params by the caller once consumed — callers should delete
// params[primary] after a successful call.
//
// nn.size() variants (shown for C; identical shape for R, L):
//  2: (1) C n1 n2 [C=value]                     -- value from params only
//  3: (2) C n1 n2 value        (3) C n1 n2 model [C=value]
//  4: (4) C n1 n2 n3 value (ambiguous "model value" reading is not
//        supported, per the original, since it can't be told apart)
//     (5) C n1 n2 n3 model [C=value]     (6) C n1 n2 value model
//  5: (7) C n1 n2 n3 model value          (8) C n1 n2 n3 value model
func decodeRCL(nn []string, params map[string]float64, primary string, eval *expreval.Evaluator, vars expreval.Vars) (nets []string, model string, value float64, hasValue bool, err error) {
	explicit, hasExplicit := params[primary]

	switch len(nn) {
	case 2:
		if hasExplicit {
			return nn, "", explicit, true, nil
		}
		return nn, "", 0, false, fmt.Errorf("can't find a value for a R, C or L device")

	case 3:
		if v, ok := tryNumber(nn[2], eval, vars); ok {
			return nn[:2], "", v, true, nil // (2)
		}
		m := nn[2] // (3)
		if hasExplicit {
			return nn[:2], m, explicit, true, nil
		}
		return nn[:2], m, 0, false, fmt.Errorf("can't find a value for a R, C or L device")

	case 4:
		// The 4-token case is genuinely ambiguous between "2 nodes +
		// model + value" and "3 nodes (e.g. RES3/CAP3 with bulk) +
		// value": the original resolves it in favor of 3 nodes, no
		// model, whenever a trailing value is found positionally or not
		// found at all (variants 4 and the fallback-to-5 case) —
		// "n1 n2 model value" is deliberately left unsupported, per the
		// original's own comment, since it cannot be told apart from a
		// 3-terminal device without further analysis.
		if v, ok := tryNumber(nn[3], eval, vars); ok {
			return nn[:3], "", v, true, nil // (4): treated as n1 n2 n3 value
		}
		if hasExplicit {
			return nn[:3], nn[3], explicit, true, nil // (5): n1 n2 n3 model, primary=value
		}
		if v, ok := tryNumber(nn[2], eval, vars); ok {
			return nn[:2], nn[3], v, true, nil // (6): n1 n2 value model
		}
		return nn[:3], nn[3], 0, false, fmt.Errorf("can't find a value for a R, C or L device") // fallback to (5) shape, no value

	case 5:
		if v, ok := tryNumber(nn[4], eval, vars); ok {
			return nn[:3], nn[3], v, true, nil // (7): n1 n2 n3 model value
		}
		if v, ok := tryNumber(nn[3], eval, vars); ok {
			return nn[:3], nn[4], v, true, nil // (8): n1 n2 n3 value model
		}
		return nil, "", 0, false, fmt.Errorf("can't find a value for a R, C or L device")

	default:
		return nil, "", 0, false, fmt.Errorf("unexpected node count %d for a R, C or L device", len(nn))
	}
}
