package refsolver

import (
	"context"
	"time"

	"github.com/tolga/ftlroster/internal/solver"
)

type constraint struct {
	termVars  []int
	termCoefs []int64
	op        solver.Op
	bound     int64
}

type interval struct {
	start, end int64
	activeVar  int
}

// Model is a reference solver.Model backed by branch-and-bound search.
type Model struct {
	varNames    []string
	constraints []constraint
	intervals   []interval
	groups      [][]int // indices into intervals, one slice per AddNoOverlap call
	objective   constraint
}

// New constructs an empty reference model.
func New() *Model {
	return &Model{}
}

func (m *Model) NewBoolVar(name string) solver.BoolVar {
	id := len(m.varNames)
	m.varNames = append(m.varNames, name)
	return solver.NewBoolVar(id, name)
}

func (m *Model) AddLinearConstraint(expr solver.LinearExpr, op solver.Op, bound int64) {
	c := constraint{op: op, bound: bound - expr.Offset}
	for _, t := range expr.Terms {
		c.termVars = append(c.termVars, t.Var.ID())
		c.termCoefs = append(c.termCoefs, t.Coefficient)
	}
	m.constraints = append(m.constraints, c)
}

func (m *Model) NewOptionalInterval(start, end int64, active solver.BoolVar, name string) solver.IntervalVar {
	id := len(m.intervals)
	m.intervals = append(m.intervals, interval{start: start, end: end, activeVar: active.ID()})
	return solver.NewIntervalVar(id)
}

func (m *Model) AddNoOverlap(intervals []solver.IntervalVar) {
	ids := make([]int, len(intervals))
	for i, iv := range intervals {
		ids[i] = iv.ID()
	}
	m.groups = append(m.groups, ids)
}

func (m *Model) Minimize(expr solver.LinearExpr) {
	c := constraint{}
	for _, t := range expr.Terms {
		c.termVars = append(c.termVars, t.Var.ID())
		c.termCoefs = append(c.termCoefs, t.Coefficient)
	}
	m.objective = c
}

// searchState carries the mutable search context through the recursive
// branch-and-bound so Solve itself stays a thin setup/teardown wrapper.
type searchState struct {
	ctx        context.Context
	deadline   time.Time
	numVars    int
	assignment []int8 // -1 unknown, 0, 1
	varByActiveInterval map[int][]int // varID -> interval indices using it as active
	intervalGroup       map[int]int   // interval index -> group index
	best       []bool
	bestObj    int64
	haveBest   bool
	nodes      int
	aborted    bool
}

// Solve runs the branch-and-bound search, checking the context and the
// TimeLimitSeconds deadline once every 2048 search nodes. If either
// elapses before a certificate of optimality or infeasibility is
// found, it returns the best feasible assignment found so far as
// StatusFeasible, or StatusUnknown if none was found.
func (m *Model) Solve(ctx context.Context, params solver.Params) (solver.Solution, error) {
	numVars := len(m.varNames)

	deadline := time.Now().Add(time.Duration(params.TimeLimitSeconds) * time.Second)
	if params.TimeLimitSeconds <= 0 {
		deadline = time.Now().Add(3600 * time.Second)
	}

	st := &searchState{
		ctx:                 ctx,
		deadline:            deadline,
		numVars:             numVars,
		assignment:          make([]int8, numVars),
		varByActiveInterval: make(map[int][]int),
		intervalGroup:       make(map[int]int),
	}
	for i := range st.assignment {
		st.assignment[i] = -1
	}
	for g, ids := range m.groups {
		for _, ivIdx := range ids {
			st.intervalGroup[ivIdx] = g
			st.varByActiveInterval[m.intervals[ivIdx].activeVar] = append(st.varByActiveInterval[m.intervals[ivIdx].activeVar], ivIdx)
		}
	}

	m.search(st, 0)

	if st.haveBest {
		status := solver.StatusOptimal
		if st.aborted {
			status = solver.StatusFeasible
		}
		return solver.NewSolution(status, st.best), nil
	}
	if st.aborted {
		return solver.NewSolution(solver.StatusUnknown, nil), nil
	}
	return solver.NewSolution(solver.StatusInfeasible, nil), nil
}

// search explores variable `idx` onward, pruning via bound propagation
// on every constraint and incremental no-overlap checks, and tracking
// the best (lowest-objective) complete feasible assignment found.
func (m *Model) search(st *searchState, idx int) {
	if st.aborted {
		return
	}
	st.nodes++
	if st.nodes%2048 == 0 {
		select {
		case <-st.ctx.Done():
			st.aborted = true
			return
		default:
		}
		if time.Now().After(st.deadline) {
			st.aborted = true
			return
		}
	}

	if idx == st.numVars {
		obj := m.objectiveValue(st)
		if !st.haveBest || obj < st.bestObj {
			st.bestObj = obj
			st.best = append([]bool(nil), boolsFrom(st.assignment)...)
			st.haveBest = true
		}
		return
	}

	// Lower bound on the objective achievable from this partial state;
	// if it cannot beat the incumbent, prune the whole subtree.
	if st.haveBest {
		lb := m.objectiveLowerBound(st)
		if lb >= st.bestObj {
			return
		}
	}

	for _, v := range [2]int8{0, 1} {
		st.assignment[idx] = v
		if m.feasiblePartial(st) && m.noOverlapOK(st, idx, v) {
			m.search(st, idx+1)
		}
		if st.aborted {
			st.assignment[idx] = -1
			return
		}
	}
	st.assignment[idx] = -1
}

func boolsFrom(assignment []int8) []bool {
	out := make([]bool, len(assignment))
	for i, v := range assignment {
		out[i] = v == 1
	}
	return out
}

// feasiblePartial checks every constraint's reachable bound against the
// current partial assignment, pruning branches that can no longer
// satisfy it regardless of how remaining variables are assigned.
func (m *Model) feasiblePartial(st *searchState) bool {
	for _, c := range m.constraints {
		var sumAssigned, minRemaining, maxRemaining int64
		for i, vid := range c.termVars {
			coef := c.termCoefs[i]
			val := st.assignment[vid]
			switch val {
			case 1:
				sumAssigned += coef
			case 0:
				// contributes nothing
			default:
				if coef > 0 {
					maxRemaining += coef
				} else {
					minRemaining += coef
				}
			}
		}
		minTotal := sumAssigned + minRemaining
		maxTotal := sumAssigned + maxRemaining

		switch c.op {
		case solver.Le:
			if minTotal > c.bound {
				return false
			}
		case solver.Ge:
			if maxTotal < c.bound {
				return false
			}
		case solver.Eq:
			if c.bound < minTotal || c.bound > maxTotal {
				return false
			}
		}
	}
	return true
}

// noOverlapOK checks an interval activated by the variable just
// assigned to v against every other already-active interval in the
// same group(s), for all variables just fixed in this branch step.
func (m *Model) noOverlapOK(st *searchState, varIdx int, v int8) bool {
	if v != 1 {
		return true
	}
	ivIdxs := st.varByActiveInterval[varIdx]
	for _, ivIdx := range ivIdxs {
		group := st.intervalGroup[ivIdx]
		a := m.intervals[ivIdx]
		for _, otherIdx := range m.groupMembers(group) {
			if otherIdx == ivIdx {
				continue
			}
			other := m.intervals[otherIdx]
			if st.assignment[other.activeVar] != 1 {
				continue
			}
			if intervalsOverlap(a.start, a.end, other.start, other.end) {
				return false
			}
		}
	}
	return true
}

func (m *Model) groupMembers(group int) []int {
	if group < 0 || group >= len(m.groups) {
		return nil
	}
	return m.groups[group]
}

func intervalsOverlap(aStart, aEnd, bStart, bEnd int64) bool {
	return aStart < bEnd && bStart < aEnd
}

func (m *Model) objectiveValue(st *searchState) int64 {
	var total int64
	for i, vid := range m.objective.termVars {
		if st.assignment[vid] == 1 {
			total += m.objective.termCoefs[i]
		}
	}
	return total
}

// objectiveLowerBound is the minimum objective value reachable from the
// current partial assignment: assigned-1 contributions plus, for each
// unassigned variable, the smaller of its two possible contributions.
func (m *Model) objectiveLowerBound(st *searchState) int64 {
	var total int64
	for i, vid := range m.objective.termVars {
		coef := m.objective.termCoefs[i]
		switch st.assignment[vid] {
		case 1:
			total += coef
		case 0:
			// contributes nothing
		default:
			if coef < 0 {
				total += coef
			}
		}
	}
	return total
}
