package solver

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/remexre/g1/internal/facts"
	"github.com/remexre/g1/internal/ir"
	"github.com/remexre/g1/internal/lang"
	"github.com/remexre/g1/internal/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solveSrc(t *testing.T, src facts.Source, program string, limit int) *Result {
	t.Helper()
	q, err := lang.Parse(program)
	require.NoError(t, err)
	nq, err := ir.Lower(q)
	require.NoError(t, err)
	require.NoError(t, validate.Validate(nq))
	res, err := Solve(context.Background(), nq, src, limit)
	require.NoError(t, err)
	return res
}

func valuesAt(res *Result, pos int) []string {
	var out []string
	for _, a := range res.Answers {
		out = append(out, a.Values[pos])
	}
	return out
}

func TestSolve_TransitiveReachability(t *testing.T) {
	m, err := facts.NewMemorySource()
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, m.PutEdge(ctx, facts.Edge{From: "a", Label: "x", To: "b"}))
	require.NoError(t, m.PutEdge(ctx, facts.Edge{From: "b", Label: "x", To: "c"}))

	res := solveSrc(t, m, `reach(X,Y):-edge(X,Y,_). reach(X,Z):-edge(X,Y,_),reach(Y,Z). ?- reach("a",Z).`, 0)
	want := []string{"b", "c"}
	got := valuesAt(res, 0)
	if diff := cmp.Diff(want, got, cmpopts.SortSlices(func(a, b string) bool { return a < b })); diff != "" {
		t.Errorf("reachable set mismatch (-want +got):\n%s", diff)
	}
}

func TestSolve_BuiltinNameLookup(t *testing.T) {
	m, err := facts.NewMemorySource()
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, m.PutName(ctx, facts.Name{Atom: "a1", Key: "label", Value: "Alice"}))

	res := solveSrc(t, m, `?- name("a1","label",V).`, 0)
	require.Len(t, res.Answers, 1)
	assert.Equal(t, "Alice", res.Answers[0].Values[0])
	assert.Equal(t, "V", res.Answers[0].Names[0])
}

func TestSolve_StratifiedNegationExcludesBlocked(t *testing.T) {
	m, err := facts.NewMemorySource()
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, m.PutEdge(ctx, facts.Edge{From: "a", Label: "x", To: "b"}))
	require.NoError(t, m.PutEdge(ctx, facts.Edge{From: "b", Label: "x", To: "c"}))
	require.NoError(t, m.PutEdge(ctx, facts.Edge{From: "a", Label: "x", To: "d"}))
	require.NoError(t, m.PutTag(ctx, facts.Tag{Atom: "b", Key: "status", Value: "blocked"}))

	program := `
blocked(X):-tag(X,"status","blocked").
reach(X,Y):-edge(X,Y,_),!blocked(Y).
reach(X,Z):-edge(X,Y,_),!blocked(Y),reach(Y,Z).
?- reach("a",Z).`
	res := solveSrc(t, m, program, 0)
	assert.ElementsMatch(t, []string{"d"}, valuesAt(res, 0))
}

func TestSolve_EqualityBuiltinBindsUnboundSide(t *testing.T) {
	m, err := facts.NewMemorySource()
	require.NoError(t, err)
	res := solveSrc(t, m, `?- '='(X,"hello").`, 0)
	require.Len(t, res.Answers, 1)
	assert.Equal(t, "hello", res.Answers[0].Values[0])
}

func TestSolve_LimitTruncates(t *testing.T) {
	m, err := facts.NewMemorySource()
	require.NoError(t, err)
	ctx := context.Background()
	for _, to := range []string{"b", "c", "d", "e"} {
		require.NoError(t, m.PutEdge(ctx, facts.Edge{From: "a", Label: "x", To: to}))
	}
	res := solveSrc(t, m, `?- edge("a",Y,_).`, 2)
	assert.Len(t, res.Answers, 2)
	assert.True(t, res.Truncated)
}
