// Package ir implements the nameless intermediate representation described
// by the data model: interned strings, integer predicate indices, and
// per-clause variable numbering, along with the lowering pass that produces
// it from the surface AST (package lang).
package ir

import "github.com/remexre/g1/internal/lang"

// Builtin predicate indices. These never appear as keys of Query.Clauses;
// lowering reserves them before any user functor is assigned an index.
const (
	PredEq = iota
	PredAtom
	PredName
	PredEdge
	PredTag
	PredBlob
	firstUserPred
)

// BuiltinStratum is the stratum level assigned to every builtin predicate:
// lower than any user stratum (which start at 0), so builtin calls always
// satisfy both the positive (<=) and negative (<) stratification rules.
const BuiltinStratum = -1

// FunctorInfo names a predicate index for diagnostics.
type FunctorInfo struct {
	Name  string
	Arity int
}

var builtinInfo = map[int]FunctorInfo{
	PredEq:   {"=", 2},
	PredAtom: {"atom", 1},
	PredName: {"name", 3},
	PredEdge: {"edge", 3},
	PredTag:  {"tag", 3},
	PredBlob: {"blob", 4},
}

// BuiltinIndex returns the reserved index for name, and ok=true if name
// names one of the six builtins (regardless of the arity used at the call
// site — arity agreement is a validator concern).
func BuiltinIndex(name string) (int, bool) {
	for idx, info := range builtinInfo {
		if info.Name == name {
			return idx, true
		}
	}
	return 0, false
}

// BuiltinInfo returns the canonical name/arity of a builtin predicate index.
func BuiltinInfo(idx int) (FunctorInfo, bool) {
	info, ok := builtinInfo[idx]
	return info, ok
}

// IsBuiltin reports whether idx names one of the six builtin predicates.
func IsBuiltin(idx int) bool {
	_, ok := builtinInfo[idx]
	return ok
}

// ValueKind discriminates the three nameless value forms: an interned
// ground string, a per-clause variable slot, or (until resolved by the
// embedding layer) an unresolved metavariable.
type ValueKind int

const (
	VStr ValueKind = iota
	VVar
	VMeta
)

// Value is a nameless argument: a ground interned string, a variable index
// scoped to the enclosing clause or goal, or an unresolved metavariable
// name.
type Value struct {
	Kind ValueKind
	Str  *string // interned handle, set iff Kind == VStr
	Var  int     // variable index, set iff Kind == VVar
	Meta string  // metavariable name (without '$'), set iff Kind == VMeta
}

// Predicate is a nameless call: a predicate index plus its arguments.
type Predicate struct {
	Index int
	Args  []Value
}

// Clause is a nameless rule or fact. Positive and negative body literals are
// kept in separate vectors, each preserving the original textual order,
// per the data model.
type Clause struct {
	HeadArgs []Value
	Pos      []Predicate
	Neg      []Predicate
	Vars     int
	Span     lang.Span
}

// Query is the fully lowered, not-yet-validated nameless query.
type Query struct {
	// Clauses holds one slice per predicate index; builtin indices and any
	// index not used by the query are nil.
	Clauses [][]Clause
	// Strata groups user predicate indices by ascending stratum number.
	Strata [][]int
	// PredStratum maps a user predicate index to its stratum number.
	PredStratum map[int]int
	// Functors names every user predicate index for diagnostics.
	Functors map[int]FunctorInfo

	Goal     Predicate
	GoalVars int
	// GoalVarNames maps a goal variable index back to the surface name it
	// was parsed from ("_" for holes), so a solved answer can be reported
	// as name/value pairs instead of bare positions.
	GoalVarNames []string
	GoalSpan     lang.Span

	Strings *StringPool
}

// Level returns the stratification level of a predicate index: its stratum
// number for user predicates, or ir.BuiltinStratum for builtins.
func (q *Query) Level(idx int) int {
	if IsBuiltin(idx) {
		return BuiltinStratum
	}
	return q.PredStratum[idx]
}

// StringPool interns strings so that, per the data model invariant, equal
// strings share a single handle within a query.
type StringPool struct {
	handles map[string]*string
}

// NewStringPool creates an empty pool.
func NewStringPool() *StringPool {
	return &StringPool{handles: make(map[string]*string)}
}

// Intern returns the canonical handle for s, creating one on first use.
func (p *StringPool) Intern(s string) *string {
	if h, ok := p.handles[s]; ok {
		return h
	}
	h := new(string)
	*h = s
	p.handles[s] = h
	return h
}

// Len reports how many distinct strings are interned.
func (p *StringPool) Len() int { return len(p.handles) }
