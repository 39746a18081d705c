// Package solver defines the back-end-agnostic constraint-model
// capability the Model Builder emits against: boolean variables,
// linear (in)equalities over integer coefficients, optional interval
// variables, a global no-overlap constraint, and a linear objective.
// Any CP-SAT-class solver implementing Model can be plugged in; the
// production back end is out of scope for this repository, which
// ships a reference implementation in internal/solver/refsolver.
package solver

import "context"

// BoolVar is an opaque handle to a boolean decision variable. The only
// operations available on it are passed back into the Model that
// created it (AddLinearConstraint, NewOptionalInterval) and into
// Solution.Value after solving.
type BoolVar struct {
	id   int
	name string
}

// Name returns the variable's diagnostic name.
func (v BoolVar) Name() string { return v.name }

// NewBoolVar constructs a BoolVar handle. Back ends call this from
// their Model.NewBoolVar implementation; callers never construct one
// directly.
func NewBoolVar(id int, name string) BoolVar { return BoolVar{id: id, name: name} }

// ID returns the back end's internal identifier for the variable.
func (v BoolVar) ID() int { return v.id }

// IntervalVar is an opaque handle to an optional interval variable.
type IntervalVar struct {
	id int
}

// NewIntervalVar constructs an IntervalVar handle for back-end use.
func NewIntervalVar(id int) IntervalVar { return IntervalVar{id: id} }

// ID returns the back end's internal identifier for the interval.
func (v IntervalVar) ID() int { return v.id }

// Op is a linear-constraint comparison operator.
type Op int

const (
	Eq Op = iota
	Le
	Ge
)

// Term is one coefficient*variable term of a LinearExpr.
type Term struct {
	Var         BoolVar
	Coefficient int64
}

// LinearExpr is a sum of integer-coefficient boolean terms, optionally
// offset by a constant. All FTL hour limits are scaled into this
// representation in integer centihours (internal/ftlmath) before
// reaching a Model.
type LinearExpr struct {
	Terms   []Term
	Offset  int64
}

// NewLinearExpr builds a LinearExpr from variables sharing one
// coefficient, the common case when summing assignment indicators.
func NewLinearExpr(vars []BoolVar, coefficient int64) LinearExpr {
	terms := make([]Term, len(vars))
	for i, v := range vars {
		terms[i] = Term{Var: v, Coefficient: coefficient}
	}
	return LinearExpr{Terms: terms}
}

// Add appends a term to the expression and returns it for chaining.
func (e LinearExpr) Add(v BoolVar, coefficient int64) LinearExpr {
	e.Terms = append(e.Terms, Term{Var: v, Coefficient: coefficient})
	return e
}

// Params configures a Solve invocation.
type Params struct {
	TimeLimitSeconds int
	Workers          int
}

// Status mirrors the status codes a CP-SAT-class solver returns.
type Status string

const (
	StatusOptimal    Status = "Optimal"
	StatusFeasible   Status = "Feasible"
	StatusInfeasible Status = "Infeasible"
	StatusInvalid    Status = "Invalid"
	StatusUnknown    Status = "Unknown"
)

// Solution is the result of a Solve call: the status, plus an accessor
// for the value of any boolean variable when the status has output.
type Solution struct {
	Status Status
	values []bool
}

// NewSolution constructs a Solution from a dense slice of variable
// values indexed by BoolVar.ID(). Back ends build this from their
// internal solve state.
func NewSolution(status Status, values []bool) Solution {
	return Solution{Status: status, values: values}
}

// Value returns the solved value of v. It is only meaningful when
// Status is StatusOptimal or StatusFeasible.
func (s Solution) Value(v BoolVar) bool {
	if v.id < 0 || v.id >= len(s.values) {
		return false
	}
	return s.values[v.id]
}

// Model is the abstract constraint-model capability a back end
// implements.
type Model interface {
	NewBoolVar(name string) BoolVar
	AddLinearConstraint(expr LinearExpr, op Op, bound int64)
	NewOptionalInterval(start, end int64, active BoolVar, name string) IntervalVar
	AddNoOverlap(intervals []IntervalVar)
	Minimize(expr LinearExpr)
	Solve(ctx context.Context, params Params) (Solution, error)
}
