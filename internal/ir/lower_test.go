package ir

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/remexre/g1/internal/lang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLower(t *testing.T, src string) *Query {
	t.Helper()
	q, err := lang.Parse(src)
	require.NoError(t, err)
	nq, err := Lower(q)
	require.NoError(t, err)
	return nq
}

func TestLower_GroupsByNameAndArity(t *testing.T) {
	nq := mustLower(t, `p("a"). ?- p(X).`)
	require.Len(t, nq.Functors, 1)
	var idx int
	for i, info := range nq.Functors {
		assert.Equal(t, "p", info.Name)
		assert.Equal(t, 1, info.Arity)
		idx = i
	}
	require.Len(t, nq.Clauses[idx], 1)
	assert.Equal(t, idx, nq.Goal.Index)
}

func TestLower_VariableNumberingHeadFirstThenBody(t *testing.T) {
	nq := mustLower(t, `p(X,Y):-q(Y,X,X). q(_,_,_). ?- p(X,Y).`)
	var pIdx int
	for i, info := range nq.Functors {
		if info.Name == "p" {
			pIdx = i
		}
	}
	require.Len(t, nq.Clauses[pIdx], 1)
	clause := nq.Clauses[pIdx][0]
	require.Len(t, clause.HeadArgs, 2)
	assert.Equal(t, 0, clause.HeadArgs[0].Var) // X
	assert.Equal(t, 1, clause.HeadArgs[1].Var) // Y
	require.Len(t, clause.Pos, 1)
	qArgs := clause.Pos[0].Args
	assert.Equal(t, 1, qArgs[0].Var) // Y, already seen
	assert.Equal(t, 0, qArgs[1].Var) // X, already seen
	assert.Equal(t, 0, qArgs[2].Var) // X again
	assert.Equal(t, 2, clause.Vars)
}

func TestLower_HolesAreAlwaysFresh(t *testing.T) {
	nq := mustLower(t, `p(_,_). ?- p(X,Y).`)
	var pIdx int
	for i, info := range nq.Functors {
		if info.Name == "p" {
			pIdx = i
		}
	}
	clause := nq.Clauses[pIdx][0]
	assert.NotEqual(t, clause.HeadArgs[0].Var, clause.HeadArgs[1].Var)
	assert.Equal(t, 2, clause.Vars)
}

func TestLower_NegativeCycleIsIllegalRecursion(t *testing.T) {
	_, err := Lower(parseOK(t, `p(X):-q(X). q(X):- !p(X). ?- p(X).`))
	require.Error(t, err)
	var lerr LoweringError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, "IllegalRecursion", lerr.Kind)
}

func TestLower_PositiveCycleSharesOneStratum(t *testing.T) {
	nq := mustLower(t, `p(X):-q(X). q(X):-p(X). ?- p(X).`)
	var stratumLen int
	for _, s := range nq.Strata {
		if len(s) == 2 {
			stratumLen = len(s)
		}
	}
	assert.Equal(t, 2, stratumLen)
}

func TestLower_NoSuchClauseForUndeclaredFunctor(t *testing.T) {
	_, err := Lower(parseOK(t, `?- p(X).`))
	require.Error(t, err)
	var lerr LoweringError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, "NoSuchClause", lerr.Kind)
}

func TestLower_BuiltinRedefinitionIsRejected(t *testing.T) {
	_, err := Lower(parseOK(t, `edge(X,Y,Z):-name(X,Y,Z). ?- edge(X,Y,Z).`))
	require.Error(t, err)
	var lerr LoweringError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, "BuiltinRedefinition", lerr.Kind)
}

func TestLower_StringsAreInterned(t *testing.T) {
	nq := mustLower(t, `p("shared"). q("shared"). ?- p(X).`)
	var pIdx, qIdx int
	for i, info := range nq.Functors {
		switch info.Name {
		case "p":
			pIdx = i
		case "q":
			qIdx = i
		}
	}
	a := nq.Clauses[pIdx][0].HeadArgs[0].Str
	b := nq.Clauses[qIdx][0].HeadArgs[0].Str
	assert.Same(t, a, b)
	assert.Equal(t, 1, nq.Strings.Len())
}

func TestLower_SelfRecursionNeedsNoEdge(t *testing.T) {
	nq := mustLower(t, `reach(X,Y):-edge(X,Y,_). reach(X,Z):-edge(X,Y,_),reach(Y,Z). ?- reach(X,Y).`)
	require.Len(t, nq.Strata, 1)
	require.Len(t, nq.Strata[0], 1)
}

func TestLower_HeadArgShapeForMixedVarsAndHoles(t *testing.T) {
	nq := mustLower(t, `p(X,"a",_):-q(X). q(_). ?- p(X,Y,Z).`)
	var pIdx int
	for i, info := range nq.Functors {
		if info.Name == "p" {
			pIdx = i
		}
	}
	head := nq.Clauses[pIdx][0].HeadArgs
	want := []ValueKind{VVar, VStr, VVar}
	got := make([]ValueKind, len(head))
	for i, v := range head {
		got[i] = v.Kind
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("head arg kinds mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "a", *head[1].Str)
}

func parseOK(t *testing.T, src string) *lang.Query {
	t.Helper()
	q, err := lang.Parse(src)
	require.NoError(t, err)
	return q
}
