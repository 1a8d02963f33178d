package validate

import (
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/remexre/g1/internal/ir"
	"github.com/remexre/g1/internal/lang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lowerOK(t *testing.T, src string) *ir.Query {
	t.Helper()
	q, err := lang.Parse(src)
	require.NoError(t, err)
	nq, err := ir.Lower(q)
	require.NoError(t, err)
	return nq
}

func kinds(t *testing.T, err error) []string {
	t.Helper()
	merr, ok := err.(*multierror.Error)
	require.True(t, ok, "expected *multierror.Error, got %T", err)
	var out []string
	for _, e := range merr.Errors {
		ve, ok := e.(ValidationError)
		require.True(t, ok, "expected ValidationError, got %T", e)
		out = append(out, ve.Kind)
	}
	return out
}

func TestValidate_WellFormedQueryPasses(t *testing.T) {
	nq := lowerOK(t, `reach(X,Y):-edge(X,Y,_). reach(X,Z):-edge(X,Y,_),reach(Y,Z). ?- reach(X,Y).`)
	assert.NoError(t, Validate(nq))
}

func TestValidate_BuiltinArityMismatch(t *testing.T) {
	nq := lowerOK(t, `?- atom(X,Y).`)
	err := Validate(nq)
	require.Error(t, err)
	assert.Contains(t, kinds(t, err), "BadArgn")
}

func TestValidate_VariableNeverBoundPositively(t *testing.T) {
	nq := lowerOK(t, `p(X):- !name(X,_,_). ?- p(X).`)
	err := Validate(nq)
	require.Error(t, err)
	assert.Contains(t, kinds(t, err), "NeverUsedPositively")
}

func TestValidate_BothSidesOfEqualityUnboundFailsRangeRestriction(t *testing.T) {
	nq := lowerOK(t, `p(X):-'='(X,Y). ?- p(X).`)
	err := Validate(nq)
	require.Error(t, err)
	assert.Contains(t, kinds(t, err), "NeverUsedPositively")
}

func TestValidate_EqualityChainGroundedThroughFixpointPasses(t *testing.T) {
	nq := lowerOK(t, `p(X):-'='(Y,"a"),'='(X,Y). ?- p(X).`)
	assert.NoError(t, Validate(nq))
}

func TestValidate_BadStratificationManualQuery(t *testing.T) {
	nq := &ir.Query{
		Clauses:     make([][]ir.Clause, 8),
		PredStratum: map[int]int{6: 0, 7: 1},
		Functors:    map[int]ir.FunctorInfo{6: {Name: "p", Arity: 1}, 7: {Name: "q", Arity: 1}},
		Goal:        ir.Predicate{Index: 6, Args: []ir.Value{{Kind: ir.VVar, Var: 0}}},
		GoalVars:    1,
		Strings:     ir.NewStringPool(),
	}
	nq.Clauses[6] = []ir.Clause{{
		HeadArgs: []ir.Value{{Kind: ir.VVar, Var: 0}},
		Pos:      []ir.Predicate{{Index: 7, Args: []ir.Value{{Kind: ir.VVar, Var: 0}}}},
		Vars:     1,
	}}

	err := Validate(nq)
	require.Error(t, err)
	assert.Contains(t, kinds(t, err), "BadStratification")
}

func TestValidate_VariableIndexOutOfBounds(t *testing.T) {
	nq := &ir.Query{
		Clauses:     make([][]ir.Clause, 7),
		PredStratum: map[int]int{6: 0},
		Functors:    map[int]ir.FunctorInfo{6: {Name: "p", Arity: 1}},
		Goal:        ir.Predicate{Index: 6, Args: []ir.Value{{Kind: ir.VVar, Var: 0}}},
		GoalVars:    1,
		Strings:     ir.NewStringPool(),
	}
	nq.Clauses[6] = []ir.Clause{{
		HeadArgs: []ir.Value{{Kind: ir.VVar, Var: 5}},
		Vars:     1,
	}}

	err := Validate(nq)
	require.Error(t, err)
	assert.Contains(t, kinds(t, err), "BadVariableIndex")
}
