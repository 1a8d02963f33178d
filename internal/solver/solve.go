// Package solver implements stratified, semi-naive bottom-up evaluation of
// a validated nameless query against a facts.Source snapshot.
package solver

import (
	"context"
	"strconv"

	"github.com/remexre/g1/internal/facts"
	"github.com/remexre/g1/internal/ir"
)

// Answer is one solution to the goal: a set of variable name/value pairs,
// in goal-argument order (holes are reported under the name "_").
type Answer struct {
	Names  []string
	Values []string
}

// Result is the full outcome of solving a query.
type Result struct {
	Answers  []Answer
	Truncated bool
}

func tupleKey(t []string) string {
	// Each value is prefixed with its length, so no bytes inside a value
	// (NUL included) can make two different tuples share a key.
	out := make([]byte, 0, 16)
	for _, s := range t {
		out = strconv.AppendInt(out, int64(len(s)), 10)
		out = append(out, ':')
		out = append(out, s...)
	}
	return string(out)
}

func dedupeAppend(existing [][]string, seen map[string]bool, fresh [][]string) ([][]string, [][]string) {
	var added [][]string
	for _, t := range fresh {
		k := tupleKey(t)
		if seen[k] {
			continue
		}
		seen[k] = true
		existing = append(existing, t)
		added = append(added, t)
	}
	return existing, added
}

func loadBuiltinRelations(ctx context.Context, src facts.Source) (map[int][][]string, error) {
	atoms, err := src.Atoms(ctx)
	if err != nil {
		return nil, err
	}
	names, err := src.Names(ctx)
	if err != nil {
		return nil, err
	}
	edges, err := src.Edges(ctx)
	if err != nil {
		return nil, err
	}
	tags, err := src.Tags(ctx)
	if err != nil {
		return nil, err
	}
	blobs, err := src.Blobs(ctx)
	if err != nil {
		return nil, err
	}

	rel := map[int][][]string{}
	for _, a := range atoms {
		rel[ir.PredAtom] = append(rel[ir.PredAtom], []string{a.ID})
	}
	for _, n := range names {
		rel[ir.PredName] = append(rel[ir.PredName], []string{n.Atom, n.Key, n.Value})
	}
	for _, e := range edges {
		rel[ir.PredEdge] = append(rel[ir.PredEdge], []string{e.From, e.To, e.Label})
	}
	for _, tg := range tags {
		rel[ir.PredTag] = append(rel[ir.PredTag], []string{tg.Atom, tg.Key, tg.Value})
	}
	for _, b := range blobs {
		rel[ir.PredBlob] = append(rel[ir.PredBlob], []string{b.Atom, b.Kind, b.Mime, b.Digest})
	}
	return rel, nil
}

// Solve evaluates nq against src and returns up to limit answers (0 means
// unlimited). nq must already have passed package validate; Solve does not
// re-check stratification or range restriction.
func Solve(ctx context.Context, nq *ir.Query, src facts.Source, limit int) (*Result, error) {
	builtin, err := loadBuiltinRelations(ctx, src)
	if err != nil {
		return nil, err
	}

	full := map[int][][]string{} // frozen tuples for strata already evaluated

	relationOf := func(idx int) [][]string {
		if ir.IsBuiltin(idx) {
			return builtin[idx]
		}
		return full[idx]
	}

	for _, stratum := range nq.Strata {
		if err := ctx.Err(); err != nil {
			return nil, errf("Cancelled", "%v", err)
		}

		inStratum := make(map[int]bool, len(stratum))
		for _, idx := range stratum {
			inStratum[idx] = true
		}

		stratumFull := map[int][][]string{}
		stratumSeen := map[int]map[string]bool{}
		for _, idx := range stratum {
			stratumSeen[idx] = map[string]bool{}
		}

		relation := func(idx int) [][]string {
			if inStratum[idx] {
				return stratumFull[idx]
			}
			return relationOf(idx)
		}

		// Round 0: base rules only, i.e. rules with no positive literal on
		// an in-stratum predicate. Their result never changes across later
		// rounds, so they run exactly once.
		for _, idx := range stratum {
			for _, clause := range nq.Clauses[idx] {
				if hasInStratumPositive(clause, inStratum) {
					continue
				}
				tuples, err := evalClause(clause, relation, allFromRelation(relation))
				if err != nil {
					return nil, err
				}
				var added [][]string
				stratumFull[idx], added = dedupeAppend(stratumFull[idx], stratumSeen[idx], tuples)
				_ = added
			}
		}

		delta := map[int][][]string{}
		for _, idx := range stratum {
			delta[idx] = stratumFull[idx]
		}

		for {
			if err := ctx.Err(); err != nil {
				return nil, errf("Cancelled", "%v", err)
			}
			roundAdded := map[int][][]string{}
			anyChange := false

			for _, idx := range stratum {
				for _, clause := range nq.Clauses[idx] {
					positions := inStratumPositions(clause, inStratum)
					if len(positions) == 0 {
						continue
					}
					for _, pos := range positions {
						src := deltaAt(pos, clause.Pos[pos].Index, delta, relation)
						tuples, err := evalClause(clause, relation, src)
						if err != nil {
							return nil, err
						}
						var added [][]string
						stratumFull[idx], added = dedupeAppend(stratumFull[idx], stratumSeen[idx], tuples)
						if len(added) > 0 {
							roundAdded[idx] = append(roundAdded[idx], added...)
							anyChange = true
						}
					}
				}
			}
			if !anyChange {
				break
			}
			delta = roundAdded
		}

		for _, idx := range stratum {
			full[idx] = stratumFull[idx]
		}
	}

	goalEnvs, err := evalGoal(nq.Goal, nq.GoalVars, relationOf)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	for _, b := range goalEnvs {
		if limit > 0 && len(res.Answers) >= limit {
			res.Truncated = true
			break
		}
		ans := Answer{Names: nq.GoalVarNames, Values: make([]string, nq.GoalVars)}
		copy(ans.Values, b.vals)
		res.Answers = append(res.Answers, ans)
	}
	return res, nil
}

func evalGoal(goal ir.Predicate, vars int, relOf func(idx int) [][]string) ([]binding, error) {
	envs, err := evalPositives([]ir.Predicate{goal}, vars, func(_ int, idx int) [][]string {
		return relOf(idx)
	})
	if err != nil {
		return nil, err
	}
	return envs, nil
}

func hasInStratumPositive(c ir.Clause, inStratum map[int]bool) bool {
	for _, p := range c.Pos {
		if inStratum[p.Index] {
			return true
		}
	}
	return false
}

func inStratumPositions(c ir.Clause, inStratum map[int]bool) []int {
	var out []int
	for i, p := range c.Pos {
		if inStratum[p.Index] {
			out = append(out, i)
		}
	}
	return out
}

// allFromRelation builds a sourceFunc that always reads the current
// (possibly still-growing) relation, used for round-0 base rules whose
// literals are all outside the stratum.
func allFromRelation(relation func(idx int) [][]string) sourceFunc {
	return func(_ int, idx int) [][]string { return relation(idx) }
}

// deltaAt builds a sourceFunc that sources exactly one literal position
// from its predicate's delta set and every other position from the
// current full/frozen relation — the standard semi-naive rewrite.
func deltaAt(deltaPos, _ int, delta map[int][][]string, relation func(idx int) [][]string) sourceFunc {
	return func(pos, idx int) [][]string {
		if pos == deltaPos {
			return delta[idx]
		}
		return relation(idx)
	}
}

func evalClause(c ir.Clause, relOf func(idx int) [][]string, src sourceFunc) ([][]string, error) {
	envs, err := evalPositives(c.Pos, c.Vars, src)
	if err != nil {
		return nil, err
	}
	if len(envs) == 0 {
		return nil, nil
	}
	envs, err = evalNegatives(c.Neg, envs, relOf)
	if err != nil {
		return nil, err
	}
	return headTuples(c.HeadArgs, envs)
}
