package ir

import (
	"sort"

	"github.com/remexre/g1/internal/lang"
)

// maxVarsPerClause and maxPredicates bound the index spaces used elsewhere
// (solver tuple storage, variable binding arrays). Queries that exceed
// either are rejected at lowering time rather than silently truncated.
const (
	maxVarsPerClause = 1 << 16
	maxPredicates    = 1 << 24
)

type functorKey struct {
	Name  string
	Arity int
}

type graphEdge struct {
	to      int
	negated bool
	span    lang.Span
}

// Lower translates a parsed surface Query into the nameless IR: it groups
// clauses by functor, builds the callee->caller call graph, computes
// strongly connected components to find strata (collapsing mutually
// positive-recursive functors into one stratum, rejecting any cycle that
// crosses a negated edge), assigns each user functor a predicate index in
// ascending stratum order, and renumbers every clause's variables in order
// of first appearance (head first, then body in textual order).
func Lower(q *lang.Query) (*Query, error) {
	groupsByKey := map[functorKey]int{}
	var order []functorKey
	var clausesByNode [][]*lang.Clause

	for i := range q.Clauses {
		c := &q.Clauses[i]
		name := c.Head.Name
		arity := len(c.Head.Args)
		if _, ok := BuiltinIndex(name); ok {
			return nil, errAt(c.Span, "BuiltinRedefinition",
				"cannot define clauses for built-in predicate %q", name)
		}
		key := functorKey{name, arity}
		id, ok := groupsByKey[key]
		if !ok {
			id = len(order)
			order = append(order, key)
			groupsByKey[key] = id
			clausesByNode = append(clausesByNode, nil)
		}
		clausesByNode[id] = append(clausesByNode[id], c)
	}

	n := len(order)
	adj := make([][]graphEdge, n)

	resolveCall := func(p *lang.Predicate) (id int, isUser bool, err error) {
		if _, ok := BuiltinIndex(p.Name); ok {
			return 0, false, nil
		}
		key := functorKey{p.Name, len(p.Args)}
		id, ok := groupsByKey[key]
		if !ok {
			return 0, false, errAt(p.Span, "NoSuchClause",
				"no clause defines %s/%d", p.Name, len(p.Args))
		}
		return id, true, nil
	}

	for callerID, cls := range clausesByNode {
		for _, c := range cls {
			for i := range c.Body {
				lit := &c.Body[i]
				calleeID, isUser, err := resolveCall(&lit.Pred)
				if err != nil {
					return nil, err
				}
				if !isUser || calleeID == callerID {
					continue
				}
				adj[calleeID] = append(adj[calleeID], graphEdge{to: callerID, negated: lit.Negated, span: lit.Span})
			}
		}
	}
	if _, _, err := resolveCall(&q.Goal); err != nil {
		return nil, err
	}

	sccs := tarjanSCCs(n, adj)
	// Tarjan emits components in reverse topological order of the
	// condensation (sinks first); reverse so that a callee's component
	// always precedes its caller's, matching ascending stratum order.
	for i, j := 0, len(sccs)-1; i < j; i, j = i+1, j-1 {
		sccs[i], sccs[j] = sccs[j], sccs[i]
	}
	for _, comp := range sccs {
		sort.Ints(comp) // first-seen order within a stratum
	}

	member := make([]int, n)
	for sccIdx, comp := range sccs {
		for _, v := range comp {
			member[v] = sccIdx
		}
	}
	for sccIdx, comp := range sccs {
		if len(comp) < 2 {
			continue
		}
		inComp := make(map[int]bool, len(comp))
		for _, v := range comp {
			inComp[v] = true
		}
		for _, v := range comp {
			for _, e := range adj[v] {
				if member[e.to] == sccIdx && e.negated {
					return nil, errAt(e.span, "IllegalRecursion",
						"negation crosses a recursive cycle between %s/%d and %s/%d",
						order[v].Name, order[v].Arity, order[e.to].Name, order[e.to].Arity)
				}
			}
		}
	}

	predIndex := make([]int, n)
	predStratum := map[int]int{}
	var strata [][]int
	next := firstUserPred
	for stratumNum, comp := range sccs {
		var idxs []int
		for _, v := range comp {
			predIndex[v] = next
			predStratum[next] = stratumNum
			idxs = append(idxs, next)
			next++
		}
		strata = append(strata, idxs)
	}
	if next-firstUserPred > maxPredicates {
		return nil, errAt(lang.NoSpan, "TooManyPredicates", "query defines more than %d predicates", maxPredicates)
	}

	functors := make(map[int]FunctorInfo, n)
	for v, key := range order {
		functors[predIndex[v]] = FunctorInfo{Name: key.Name, Arity: key.Arity}
	}

	predicateIndexOf := func(p *lang.Predicate) (int, error) {
		if idx, ok := BuiltinIndex(p.Name); ok {
			return idx, nil
		}
		key := functorKey{p.Name, len(p.Args)}
		nodeID, ok := groupsByKey[key]
		if !ok {
			return 0, errAt(p.Span, "NoSuchClause", "no clause defines %s/%d", p.Name, len(p.Args))
		}
		return predIndex[nodeID], nil
	}

	strings_ := NewStringPool()

	lowerValue := func(v *lang.Value, varEnv map[string]int, nextVar *int) (Value, error) {
		switch v.Kind {
		case lang.Hole:
			idx := *nextVar
			*nextVar++
			return Value{Kind: VVar, Var: idx}, nil
		case lang.StringLit:
			return Value{Kind: VStr, Str: strings_.Intern(v.Text)}, nil
		case lang.VarRef:
			if idx, ok := varEnv[v.Text]; ok {
				return Value{Kind: VVar, Var: idx}, nil
			}
			idx := *nextVar
			*nextVar++
			varEnv[v.Text] = idx
			return Value{Kind: VVar, Var: idx}, nil
		case lang.MetaVarRef:
			return Value{Kind: VMeta, Meta: v.Text}, nil
		default:
			return Value{}, errAt(v.Span, "BadValue", "unknown value kind")
		}
	}

	lowerClause := func(c *lang.Clause) (Clause, error) {
		varEnv := map[string]int{}
		nextVar := 0

		headArgs := make([]Value, len(c.Head.Args))
		for i := range c.Head.Args {
			v, err := lowerValue(&c.Head.Args[i], varEnv, &nextVar)
			if err != nil {
				return Clause{}, err
			}
			headArgs[i] = v
		}

		var pos, neg []Predicate
		for i := range c.Body {
			lit := &c.Body[i]
			idx, err := predicateIndexOf(&lit.Pred)
			if err != nil {
				return Clause{}, err
			}
			args := make([]Value, len(lit.Pred.Args))
			for j := range lit.Pred.Args {
				v, err := lowerValue(&lit.Pred.Args[j], varEnv, &nextVar)
				if err != nil {
					return Clause{}, err
				}
				args[j] = v
			}
			p := Predicate{Index: idx, Args: args}
			if lit.Negated {
				neg = append(neg, p)
			} else {
				pos = append(pos, p)
			}
		}
		if nextVar > maxVarsPerClause {
			return Clause{}, errAt(c.Span, "TooManyVariables",
				"clause for %s/%d uses more than %d variables", c.Head.Name, len(c.Head.Args), maxVarsPerClause)
		}
		return Clause{HeadArgs: headArgs, Pos: pos, Neg: neg, Vars: nextVar, Span: c.Span}, nil
	}

	clauses := make([][]Clause, next)
	for nodeID := range order {
		idx := predIndex[nodeID]
		for _, c := range clausesByNode[nodeID] {
			lc, err := lowerClause(c)
			if err != nil {
				return nil, err
			}
			clauses[idx] = append(clauses[idx], lc)
		}
	}

	goalIdx, err := predicateIndexOf(&q.Goal)
	if err != nil {
		return nil, err
	}
	goalVarEnv := map[string]int{}
	goalNextVar := 0
	var goalVarNames []string
	goalArgs := make([]Value, len(q.Goal.Args))
	for i := range q.Goal.Args {
		arg := &q.Goal.Args[i]
		before := goalNextVar
		v, err := lowerValue(arg, goalVarEnv, &goalNextVar)
		if err != nil {
			return nil, err
		}
		goalArgs[i] = v
		if v.Kind == VVar && goalNextVar > before {
			name := "_"
			if arg.Kind == lang.VarRef {
				name = arg.Text
			}
			goalVarNames = append(goalVarNames, name)
		}
	}

	return &Query{
		Clauses:      clauses,
		Strata:       strata,
		PredStratum:  predStratum,
		Functors:     functors,
		Goal:         Predicate{Index: goalIdx, Args: goalArgs},
		GoalVars:     goalNextVar,
		GoalVarNames: goalVarNames,
		GoalSpan:     q.Goal.Span,
		Strings:      strings_,
	}, nil
}

// tarjanSCCs computes the strongly connected components of the graph given
// by adj, returned in the algorithm's native (reverse topological) order.
func tarjanSCCs(n int, adj [][]graphEdge) [][]int {
	index := make([]int, n)
	lowlink := make([]int, n)
	onStack := make([]bool, n)
	for i := range index {
		index[i] = -1
	}
	var stack []int
	var sccs [][]int
	counter := 0

	var strongconnect func(v int)
	strongconnect = func(v int) {
		index[v] = counter
		lowlink[v] = counter
		counter++
		stack = append(stack, v)
		onStack[v] = true

		for _, e := range adj[v] {
			w := e.to
			switch {
			case index[w] == -1:
				strongconnect(w)
				if lowlink[w] < lowlink[v] {
					lowlink[v] = lowlink[w]
				}
			case onStack[w]:
				if index[w] < lowlink[v] {
					lowlink[v] = index[w]
				}
			}
		}

		if lowlink[v] == index[v] {
			var comp []int
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				comp = append(comp, w)
				if w == v {
					break
				}
			}
			sccs = append(sccs, comp)
		}
	}

	for v := 0; v < n; v++ {
		if index[v] == -1 {
			strongconnect(v)
		}
	}
	return sccs
}
