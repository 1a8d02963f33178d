package solver

import "github.com/remexre/g1/internal/ir"

// matchTuple extends b by unifying pred's arguments against one candidate
// tuple: bound/ground argument positions must equal the tuple's value,
// unbound variable positions are filled in from it.
func matchTuple(b binding, args []ir.Value, tuple []string) (binding, bool, error) {
	if len(args) != len(tuple) {
		return binding{}, false, nil
	}
	nb := b.clone()
	for i, a := range args {
		val, ok, err := resolveArg(nb, a)
		if err != nil {
			return binding{}, false, err
		}
		if ok {
			if val != tuple[i] {
				return binding{}, false, nil
			}
			continue
		}
		if a.Kind != ir.VVar {
			return binding{}, false, errf("BadValue", "unbound non-variable argument")
		}
		nb.vals[a.Var] = tuple[i]
		nb.bound[a.Var] = true
	}
	return nb, true, nil
}

func matchLiteral(b binding, args []ir.Value, relation [][]string) ([]binding, error) {
	var out []binding
	for _, t := range relation {
		nb, ok, err := matchTuple(b, args, t)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, nb)
		}
	}
	return out, nil
}

// evalEqPositive implements the =/2 builtin used positively: both sides
// ground agree or fail, one side ground binds the other, and both sides
// unbound is an error since nothing could ever ground the equality.
func evalEqPositive(b binding, args []ir.Value) ([]binding, error) {
	v0, ok0, err := resolveArg(b, args[0])
	if err != nil {
		return nil, err
	}
	v1, ok1, err := resolveArg(b, args[1])
	if err != nil {
		return nil, err
	}
	switch {
	case ok0 && ok1:
		if v0 == v1 {
			return []binding{b}, nil
		}
		return nil, nil
	case ok0 && !ok1:
		nb := b.clone()
		nb.vals[args[1].Var] = v0
		nb.bound[args[1].Var] = true
		return []binding{nb}, nil
	case !ok0 && ok1:
		nb := b.clone()
		nb.vals[args[0].Var] = v1
		nb.bound[args[0].Var] = true
		return []binding{nb}, nil
	default:
		return nil, errf("UnboundEquality", "= called with both sides unbound")
	}
}

// negCheck evaluates a negated literal: every argument must already be
// bound (range restriction guarantees this for any well-validated query),
// and the literal succeeds iff no matching tuple exists.
func negCheck(b binding, pred ir.Predicate, relation [][]string) (bool, error) {
	if pred.Index == ir.PredEq {
		v0, ok0, err := resolveArg(b, pred.Args[0])
		if err != nil {
			return false, err
		}
		v1, ok1, err := resolveArg(b, pred.Args[1])
		if err != nil {
			return false, err
		}
		if !ok0 || !ok1 {
			return false, errf("UnboundEquality", "negated = requires both sides bound")
		}
		return v0 != v1, nil
	}
	args := make([]string, len(pred.Args))
	for i, a := range pred.Args {
		v, ok, err := resolveArg(b, a)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, errf("UnboundNegation", "negated literal has an unbound argument")
		}
		args[i] = v
	}
	for _, t := range relation {
		if tupleEqual(args, t) {
			return false, nil
		}
	}
	return true, nil
}

func tupleEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// sourceFunc returns the current relation for a predicate index, as seen
// from whichever clause position is asking (positions matter only in that
// exactly one of them may be redirected to a delta set by the caller).
type sourceFunc func(position, predIndex int) [][]string

// evalPositives joins a clause's positive literals in order, using src to
// pick each literal's source relation.
func evalPositives(pos []ir.Predicate, vars int, src sourceFunc) ([]binding, error) {
	envs := []binding{newBinding(vars)}
	for i, pred := range pos {
		if len(envs) == 0 {
			break
		}
		rel := src(i, pred.Index)
		var next []binding
		for _, b := range envs {
			if pred.Index == ir.PredEq {
				nbs, err := evalEqPositive(b, pred.Args)
				if err != nil {
					return nil, err
				}
				next = append(next, nbs...)
				continue
			}
			matched, err := matchLiteral(b, pred.Args, rel)
			if err != nil {
				return nil, err
			}
			next = append(next, matched...)
		}
		envs = next
	}
	return envs, nil
}

// evalNegatives filters envs by a clause's negative literals, each checked
// against relOf (always a fully-frozen lower stratum or builtin, per the
// stratification invariant).
func evalNegatives(neg []ir.Predicate, envs []binding, relOf func(idx int) [][]string) ([]binding, error) {
	if len(neg) == 0 {
		return envs, nil
	}
	var out []binding
	for _, b := range envs {
		ok := true
		for _, pred := range neg {
			pass, err := negCheck(b, pred, relOf(pred.Index))
			if err != nil {
				return nil, err
			}
			if !pass {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, b)
		}
	}
	return out, nil
}

// headTuples materializes the head argument tuple for every surviving
// binding. A head variable left unbound indicates an unvalidated query;
// that can only happen if the caller skipped package validate.
func headTuples(head []ir.Value, envs []binding) ([][]string, error) {
	var out [][]string
	for _, b := range envs {
		t := make([]string, len(head))
		for i, a := range head {
			v, ok, err := resolveArg(b, a)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, errf("UnboundHead", "head variable unbound after evaluating the body")
			}
			t[i] = v
		}
		out = append(out, t)
	}
	return out, nil
}
