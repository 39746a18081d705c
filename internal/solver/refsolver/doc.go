// Package refsolver is a reference implementation of solver.Model: a
// branch-and-bound boolean search with bound propagation on every
// partial assignment and incremental no-overlap checking. It is
// sufficient to solve the planning-sized instances in this
// repository's test suite and small real rosters, but it is not a
// replacement for a production CP-SAT binding — it has no cutting
// planes, no LP relaxation, and no parallel search despite accepting
// a worker count in solver.Params (the field is accepted for
// interface compatibility and otherwise ignored).
package refsolver
