package solver

import "github.com/remexre/g1/internal/ir"

// binding is a partial assignment of a clause's (or the goal's) variable
// slots to ground strings.
type binding struct {
	vals  []string
	bound []bool
}

func newBinding(n int) binding {
	return binding{vals: make([]string, n), bound: make([]bool, n)}
}

func (b binding) clone() binding {
	vals := make([]string, len(b.vals))
	copy(vals, b.vals)
	bound := make([]bool, len(b.bound))
	copy(bound, b.bound)
	return binding{vals: vals, bound: bound}
}

// resolveArg resolves a nameless value against the current binding. Ground
// strings resolve immediately; bound variables resolve to their value;
// unbound variables report ok=false; an unresolved metavariable is an
// error, since one should never reach the solver once the embedding layer
// (or a direct textual query) has done its job.
func resolveArg(b binding, v ir.Value) (string, bool, error) {
	switch v.Kind {
	case ir.VStr:
		return *v.Str, true, nil
	case ir.VVar:
		if b.bound[v.Var] {
			return b.vals[v.Var], true, nil
		}
		return "", false, nil
	case ir.VMeta:
		return "", false, errf("UnresolvedMetaVar", "metavariable $%s was never resolved", v.Meta)
	default:
		return "", false, errf("BadValue", "unknown nameless value kind %d", v.Kind)
	}
}
