// Package validate checks a lowered ir.Query against the invariants the
// solver relies on: arity agreement at builtin call sites, a consistent
// stratification, range restriction (every head or negated-literal
// variable is bound by a positive literal), and variable indices within
// bounds. Every broken invariant is collected rather than reported
// one-at-a-time, so a single bad query yields a complete diagnosis.
package validate

import (
	"github.com/hashicorp/go-multierror"
	"github.com/remexre/g1/internal/ir"
	"github.com/remexre/g1/internal/lang"
)

// Validate runs all rules against nq and returns a *multierror.Error
// wrapping every ValidationError found, or nil if the query is sound.
func Validate(nq *ir.Query) error {
	var errs *multierror.Error

	checkArity(nq, &errs)
	checkStratification(nq, &errs)
	checkRangeRestriction(nq, &errs)
	checkVariableBounds(nq, &errs)

	return errs.ErrorOrNil()
}

func allPredicates(c ir.Clause) []ir.Predicate {
	out := make([]ir.Predicate, 0, len(c.Pos)+len(c.Neg))
	out = append(out, c.Pos...)
	out = append(out, c.Neg...)
	return out
}

func checkArity(nq *ir.Query, errs **multierror.Error) {
	check := func(p ir.Predicate, span lang.Span) {
		if !ir.IsBuiltin(p.Index) {
			return
		}
		info, _ := ir.BuiltinInfo(p.Index)
		if len(p.Args) != info.Arity {
			*errs = multierror.Append(*errs, errAt(span, "BadArgn",
				"built-in %s/%d called with %d argument(s)", info.Name, info.Arity, len(p.Args)))
		}
	}
	for _, group := range nq.Clauses {
		for _, c := range group {
			for _, p := range allPredicates(c) {
				check(p, c.Span)
			}
		}
	}
	check(nq.Goal, nq.GoalSpan)
}

func checkStratification(nq *ir.Query, errs **multierror.Error) {
	for idx, group := range nq.Clauses {
		if ir.IsBuiltin(idx) || group == nil {
			continue
		}
		headLevel := nq.Level(idx)
		for _, c := range group {
			for _, p := range c.Pos {
				if nq.Level(p.Index) > headLevel {
					name, _ := functorName(nq, idx)
					callee, _ := functorName(nq, p.Index)
					*errs = multierror.Append(*errs, errAt(c.Span, "BadStratification",
						"%s calls %s positively from a later stratum", name, callee))
				}
			}
			for _, p := range c.Neg {
				if nq.Level(p.Index) >= headLevel {
					name, _ := functorName(nq, idx)
					callee, _ := functorName(nq, p.Index)
					*errs = multierror.Append(*errs, errAt(c.Span, "BadStratification",
						"%s negates %s from the same or a later stratum", name, callee))
				}
			}
		}
	}
}

func functorName(nq *ir.Query, idx int) (string, bool) {
	if info, ok := ir.BuiltinInfo(idx); ok {
		return info.Name, true
	}
	if info, ok := nq.Functors[idx]; ok {
		return info.Name, true
	}
	return "?", false
}

func checkRangeRestriction(nq *ir.Query, errs **multierror.Error) {
	check := func(positive map[int]bool, v ir.Value, span lang.Span) {
		if v.Kind == ir.VVar && !positive[v.Var] {
			*errs = multierror.Append(*errs, errAt(span, "NeverUsedPositively",
				"variable %d is never bound by a positive body literal", v.Var))
		}
	}
	for _, group := range nq.Clauses {
		for _, c := range group {
			positive := rangeRestrictionPositiveVars(c)
			for _, a := range c.HeadArgs {
				check(positive, a, c.Span)
			}
			for _, p := range c.Neg {
				for _, a := range p.Args {
					check(positive, a, c.Span)
				}
			}
		}
	}
}

// rangeRestrictionPositiveVars computes the variables a clause's positive
// body literals bind. An ordinary predicate call binds every variable in
// its argument list outright, since the solver sources each position from
// matching tuples regardless of the other positions. The equality builtin
// is different: `X = Y` binds neither side unless the other side is
// already grounded, so equality literals are resolved as a small fixpoint
// over the already-bound variables instead of being counted unconditionally.
func rangeRestrictionPositiveVars(c ir.Clause) map[int]bool {
	positive := map[int]bool{}
	var eqLits []ir.Predicate
	for _, p := range c.Pos {
		if p.Index == ir.PredEq && len(p.Args) == 2 {
			eqLits = append(eqLits, p)
			continue
		}
		for _, a := range p.Args {
			if a.Kind == ir.VVar {
				positive[a.Var] = true
			}
		}
	}
	for changed := true; changed; {
		changed = false
		for _, p := range eqLits {
			lhs, rhs := p.Args[0], p.Args[1]
			lGround := lhs.Kind != ir.VVar || positive[lhs.Var]
			rGround := rhs.Kind != ir.VVar || positive[rhs.Var]
			if lhs.Kind == ir.VVar && rGround && !positive[lhs.Var] {
				positive[lhs.Var] = true
				changed = true
			}
			if rhs.Kind == ir.VVar && lGround && !positive[rhs.Var] {
				positive[rhs.Var] = true
				changed = true
			}
		}
	}
	return positive
}

func checkVariableBounds(nq *ir.Query, errs **multierror.Error) {
	checkArgs := func(args []ir.Value, bound int, span lang.Span) {
		for _, a := range args {
			if a.Kind == ir.VVar && (a.Var < 0 || a.Var >= bound) {
				*errs = multierror.Append(*errs, errAt(span, "BadVariableIndex",
					"variable index %d out of bounds (clause has %d variable(s))", a.Var, bound))
			}
		}
	}
	for _, group := range nq.Clauses {
		for _, c := range group {
			checkArgs(c.HeadArgs, c.Vars, c.Span)
			for _, p := range allPredicates(c) {
				checkArgs(p.Args, c.Vars, c.Span)
			}
		}
	}
	checkArgs(nq.Goal.Args, nq.GoalVars, nq.GoalSpan)
}
