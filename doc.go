// Package cassowary implements an incremental linear-arithmetic constraint
// solver based on the Cassowary algorithm.
//
// The solver maintains a system of weighted linear equalities and
// inequalities over real-valued variables. After every incremental change —
// adding or removing a constraint, or suggesting a new value for an edited
// variable — it produces an assignment that exactly satisfies every required
// constraint while minimizing a lexicographic cost over the preferential
// (strong/medium/weak) constraints.
//
// A Solver is not safe for concurrent use; callers must serialize access
// externally. Multiple independent Solver values share no state and may be
// used concurrently with one another.
package cassowary
