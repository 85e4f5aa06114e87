package cassowary

import (
	"fmt"
	"math"
)

// Solver is an incremental Cassowary constraint solver. It is not safe for
// concurrent use: every exported method mutates solver-private state
// (the tableau, the objective row, edit/stay bookkeeping) without locking,
// matching the reference implementation this design generalizes. Distinct
// Solver values share no state whatsoever, including variable identity
// allocation, so constraint systems built on separate Solvers never
// interfere with one another even when run concurrently on separate
// goroutines.
type Solver struct {
	tab       *tableau
	externals map[VarID]*Variable

	objective  objectiveRow
	artificial LinearExpression // scratch; non-empty only mid addWithArtificial

	editVars          []VarID
	editHandles       []*ConstraintHandle
	editPlusVars      []VarID
	editMinusVars     []VarID
	prevEditConstants []float64
	newEditConstants  []float64
	editBegun         bool

	stayAnchors   []VarID
	stayHandles   []*ConstraintHandle
	stayPlusVars  []VarID
	stayMinusVars []VarID

	logger     Logger
	maxPivots  int
	epsilon    float64
	autoSolve  bool
	pivotCount int
}

// ConstraintHandle is the token AddConstraint returns and RemoveConstraint
// consumes. It carries exactly the bookkeeping RemoveConstraint needs to
// undo what adding the constraint did: the constraint itself (for its
// strength/weight), its marker variable, and its ordered error variables.
// Constraint values are plain data and unsuited to map-key or pointer
// identity; ConstraintHandle exists so callers have a stable handle to hang
// onto without the solver needing a global constraint registry.
type ConstraintHandle struct {
	constraint Constraint
	marker     VarID
	errorVars  []VarID
}

// Constraint returns the constraint this handle was issued for.
func (h *ConstraintHandle) Constraint() Constraint { return h.constraint }

// NewSolver constructs an empty Solver. auto_solve defaults to true: every
// AddConstraint and RemoveConstraint call re-optimizes and refreshes
// external variable values before returning, and every Resolve call
// refreshes external variable values. Pass WithAutoSolve(false) to defer
// that and call Solve explicitly instead.
func NewSolver(opts ...Option) *Solver {
	s := &Solver{
		tab:       newTableau(),
		externals: make(map[VarID]*Variable),
		logger:    noopLogger{},
		epsilon:   epsilon,
		autoSolve: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewVariable creates a fresh external variable. name is optional and used
// only for String()/diagnostics.
func (s *Solver) NewVariable(name ...string) *Variable {
	id := s.tab.newVar(External)
	v := &Variable{id: id}
	if len(name) > 0 {
		v.name = name[0]
	}
	s.externals[id] = v
	return v
}

func (s *Solver) approxZero(v float64) bool { return math.Abs(v) < s.epsilon }

// AddConstraint installs c into the tableau, running the two-phase simplex
// recovery if c cannot be satisfied by directly solving for a subject. It
// returns a handle the caller must retain to later call RemoveConstraint,
// or a RequiredFailureError if c is required and unsatisfiable alongside
// the constraints already present.
func (s *Solver) AddConstraint(c Constraint) (*ConstraintHandle, error) {
	s.pivotCount = 0
	h, err := s.addConstraint(c)
	if err != nil {
		return nil, err
	}
	if s.autoSolve {
		if err := s.Solve(); err != nil {
			return h, err
		}
	}
	s.logger.Log("add_constraint", F("kind", fmt.Sprint(c.Kind())), F("strength", c.Strength().String()))
	return h, nil
}

func (s *Solver) addConstraint(c Constraint) (*ConstraintHandle, error) {
	built, h, err := s.makeExpression(c)
	if err != nil {
		return nil, err
	}

	subject, err := s.chooseSubject(built, h)
	if err != nil {
		return nil, err
	}

	if subject.Valid() {
		built.SolveFor(subject)
		s.substituteGlobally(subject, built)
		s.tab.registerRow(subject, built)
	} else {
		if err := s.addWithArtificial(c, built); err != nil {
			return nil, err
		}
	}

	switch c.Kind() {
	case EditKind:
		s.editVars = append(s.editVars, c.variable)
		s.editHandles = append(s.editHandles, h)
		s.editPlusVars = append(s.editPlusVars, h.errorVars[0])
		s.editMinusVars = append(s.editMinusVars, h.errorVars[1])
		s.prevEditConstants = append(s.prevEditConstants, 0)
	case StayKind:
		s.stayAnchors = append(s.stayAnchors, c.variable)
		s.stayHandles = append(s.stayHandles, h)
		if len(h.errorVars) == 2 {
			s.stayPlusVars = append(s.stayPlusVars, h.errorVars[0])
			s.stayMinusVars = append(s.stayMinusVars, h.errorVars[1])
		} else {
			s.stayPlusVars = append(s.stayPlusVars, InvalidVarID)
			s.stayMinusVars = append(s.stayMinusVars, InvalidVarID)
		}
	}

	return h, nil
}

// makeExpression builds the augmented row for c: substituting any already-
// basic variable referenced by c's expression with its defining row, then
// appending the marker (and, for non-required constraints, error)
// variables the constraint kind requires, per the constraint-kind table.
func (s *Solver) makeExpression(c Constraint) (LinearExpression, *ConstraintHandle, error) {
	raw := c.Expression()
	built := LinearExpression{constant: raw.Constant()}
	for _, t := range raw.Terms() {
		if row, ok := s.tab.row(t.ID); ok {
			built.AddExpression(row, t.Coeff)
		} else {
			built.AddVariable(t.ID, t.Coeff)
		}
	}

	h := &ConstraintHandle{constraint: c}
	weight := c.Strength().Weight().Scale(c.Weight())

	switch c.Kind() {
	case Inequality:
		h.marker = s.tab.newVar(Slack)
		built.AddVariable(h.marker, -1)
		if !c.Strength().IsRequired() {
			eplus := s.tab.newVar(Slack)
			built.AddVariable(eplus, 1)
			h.errorVars = []VarID{eplus}
			s.objective.AddVariable(eplus, weight)
		}
	default: // Equation, EditKind, StayKind
		if c.Strength().IsRequired() {
			h.marker = s.tab.newVar(Dummy)
			built.AddVariable(h.marker, 1)
		} else {
			eplus := s.tab.newVar(Slack)
			eminus := s.tab.newVar(Slack)
			built.AddVariable(eplus, -1)
			built.AddVariable(eminus, 1)
			h.marker = eplus
			h.errorVars = []VarID{eplus, eminus}
			s.objective.AddVariable(eplus, weight)
			s.objective.AddVariable(eminus, weight)
		}
	}

	if built.Constant() < 0 {
		built.Negate()
	}

	return built, h, nil
}

// chooseSubject implements the ranked subject-selection rule: prefer an
// unrestricted (external) variable, new ones first; else a restricted
// non-dummy variable with a negative coefficient, new ones first; else,
// if every remaining term is a dummy, the constraint's own marker (which
// requires the row's constant be approximately zero, or the constraint is
// an unsatisfiable required constraint). It returns InvalidVarID with a nil
// error when no subject can be chosen and the caller must fall back to
// add_with_artificial_variable.
func (s *Solver) chooseSubject(built LinearExpression, h *ConstraintHandle) (VarID, error) {
	var unrestrictedNew, unrestrictedKnown VarID
	for _, t := range built.Terms() {
		k := s.tab.kindOf(t.ID)
		if k.Restricted() || k == Objective {
			continue
		}
		if _, known := s.tab.columns[t.ID]; !known {
			if !unrestrictedNew.Valid() {
				unrestrictedNew = t.ID
			}
		} else if !unrestrictedKnown.Valid() {
			unrestrictedKnown = t.ID
		}
	}
	if unrestrictedNew.Valid() {
		return unrestrictedNew, nil
	}
	if unrestrictedKnown.Valid() {
		return unrestrictedKnown, nil
	}

	var restrictedKnown VarID
	for _, t := range built.Terms() {
		k := s.tab.kindOf(t.ID)
		if !k.Restricted() || k.Dummy() || t.Coeff >= 0 {
			continue
		}
		_, inColumns := s.tab.columns[t.ID]
		_, inObjective := s.objective.find(t.ID)
		if !inColumns || inObjective {
			return t.ID, nil
		}
		if !restrictedKnown.Valid() {
			restrictedKnown = t.ID
		}
	}
	if restrictedKnown.Valid() {
		return restrictedKnown, nil
	}

	allDummy := true
	for _, t := range built.Terms() {
		if !s.tab.kindOf(t.ID).Dummy() {
			allDummy = false
			break
		}
	}
	if allDummy && len(built.Terms()) > 0 {
		if !s.approxZero(built.Constant()) {
			return InvalidVarID, newRequiredFailureError(h.constraint, "redundant required constraint is inconsistent with the existing system")
		}
		if built.Coefficient(h.marker) > 0 {
			built.Negate()
		}
		return h.marker, nil
	}

	return InvalidVarID, nil
}

// addWithArtificial runs the two-phase recovery: a fresh artificial slack
// variable is installed as built's subject and driven toward zero by
// optimizing a scratch row equal to built. If it cannot reach zero, c is
// unsatisfiable as a required constraint. Either way the artificial
// variable and its column are fully purged from the tableau and objective
// before returning, so no trace of it survives a successful or failed call.
func (s *Solver) addWithArtificial(c Constraint, built LinearExpression) error {
	av := s.tab.newVar(Slack)
	s.tab.registerRow(av, built)
	s.artificial = built.Clone()

	if err := s.optimizePhase1(); err != nil {
		return err
	}

	feasible := s.approxZero(s.artificial.Constant())
	s.artificial = LinearExpression{}

	if row, ok := s.tab.row(av); ok {
		s.tab.unregisterRow(av)
		if !row.IsConstant() {
			var entry VarID
			for _, t := range row.Terms() {
				if s.tab.kindOf(t.ID).Restricted() {
					entry = t.ID
					break
				}
			}
			if !entry.Valid() {
				for _, t := range row.Terms() {
					entry = t.ID
					break
				}
			}
			if entry.Valid() {
				row.ChangeSubject(av, entry)
				s.substituteGlobally(entry, row)
				s.tab.registerRow(entry, row)
			}
		}
	}
	s.tab.forgetVar(av)

	s.tab.substituteAcrossRows(av, LinearExpression{})
	if idx, ok := s.objective.find(av); ok {
		s.objective.deleteAt(idx)
	}

	if !feasible {
		return newRequiredFailureError(c, "artificial objective could not be driven to zero")
	}
	return nil
}

// substituteGlobally replaces every occurrence of id across the tableau's
// basic rows, the main objective and (if a two-phase recovery is currently
// underway) the scratch artificial row with repl.
func (s *Solver) substituteGlobally(id VarID, repl LinearExpression) {
	s.tab.substituteAcrossRows(id, repl)
	s.objective.Substitute(id, repl)
	s.artificial.Substitute(id, repl)
}

// pivot performs one primal simplex pivot: leaving's row is rewritten to
// solve for entering instead, that rewritten row is substituted into every
// other row (and the objective, and any live artificial row) that
// referenced entering, and is then installed as entering's new row.
func (s *Solver) pivot(entering, leaving VarID) {
	row := s.tab.unregisterRow(leaving)
	row.ChangeSubject(leaving, entering)
	s.substituteGlobally(entering, row)
	s.tab.registerRow(entering, row)
}

func (s *Solver) bumpPivot() error {
	s.pivotCount++
	if s.maxPivots > 0 && s.pivotCount > s.maxPivots {
		return newInternalError("exceeded maximum pivot count")
	}
	return nil
}

// ratioTestLeaving runs the leaving-variable ratio test for a chosen
// entering variable: among restricted basic rows whose coefficient for
// entering is negative, the row minimizing -constant/coeff leaves,
// ties broken by smallest identity (guaranteed by the ascending scan
// order sortedBasicIDs returns).
func (s *Solver) ratioTestLeaving(entering VarID) (VarID, bool) {
	var best VarID
	bestRatio := math.MaxFloat64
	found := false
	for _, basic := range s.tab.sortedBasicIDs() {
		if !s.tab.kindOf(basic).Restricted() {
			continue
		}
		row, _ := s.tab.row(basic)
		coeff := row.Coefficient(entering)
		if coeff >= 0 {
			continue
		}
		r := -row.Constant() / coeff
		if r < bestRatio {
			bestRatio, best, found = r, basic, true
		}
	}
	return best, found
}

// optimizePhase1 drives the scratch artificial row toward zero by primal
// simplex on its plain scalar coefficients, used only during
// addWithArtificial's two-phase recovery.
func (s *Solver) optimizePhase1() error {
	for {
		entering, ok := enteringVariableScalar(s.artificial, s.tab.kindOf)
		if !ok {
			return nil
		}
		leaving, ok := s.ratioTestLeaving(entering)
		if !ok {
			return newInternalError("artificial objective is unbounded")
		}
		s.pivot(entering, leaving)
		if err := s.bumpPivot(); err != nil {
			return err
		}
	}
}

func enteringVariableScalar(e LinearExpression, kindOf func(VarID) Kind) (VarID, bool) {
	for _, t := range e.Terms() {
		if !kindOf(t.ID).Pivotable() {
			continue
		}
		if definitelyNegative(t.Coeff) {
			return t.ID, true
		}
	}
	return InvalidVarID, false
}

// optimizeObjective drives the main symbolic-weighted objective row toward
// its minimum by primal simplex, choosing the entering variable among
// pivotable terms with a definitely-negative weight (ties broken by
// smallest identity via the row's ascending term order).
func (s *Solver) optimizeObjective() error {
	for {
		entering, ok := s.objectiveEnteringVariable()
		if !ok {
			return nil
		}
		leaving, ok := s.ratioTestLeaving(entering)
		if !ok {
			return newInternalError("objective is unbounded")
		}
		s.pivot(entering, leaving)
		if err := s.bumpPivot(); err != nil {
			return err
		}
	}
}

func (s *Solver) objectiveEnteringVariable() (VarID, bool) {
	for _, t := range s.objective.terms {
		if !s.tab.kindOf(t.ID).Pivotable() {
			continue
		}
		if t.Weight.DefinitelyNegative() {
			return t.ID, true
		}
	}
	return InvalidVarID, false
}

// dualOptimize restores feasibility (every restricted basic row's constant
// non-negative) after edit deltas have been applied, which primal
// optimization alone does not do: it drains the tableau's infeasible stack,
// for each negative row choosing the entering variable via the dual ratio
// test (minimum objective-coefficient/row-coefficient among positive row
// coefficients), pivoting until the stack runs dry.
func (s *Solver) dualOptimize() error {
	for {
		leaving, ok := s.tab.popInfeasible()
		if !ok {
			return nil
		}
		row, ok := s.tab.row(leaving)
		if !ok || row.Constant() >= -s.epsilon {
			continue
		}
		entering, ok := s.dualEnteringVariable(row)
		if !ok {
			return newRequiredFailureError(Constraint{}, "infeasible row has no entering variable to restore feasibility")
		}
		s.pivot(entering, leaving)
		if err := s.bumpPivot(); err != nil {
			return err
		}
	}
}

// dualEnteringVariable picks the entering variable for one dual-optimize
// pivot on an infeasible row: among the row's pivotable terms with a
// positive coefficient, the one minimizing objective-coefficient/coeff
// under SymbolicWeight's lexicographic ordering, ties broken by smallest
// identity. Two candidate ratios w1/coeff1 and w2/coeff2 are compared by
// cross-multiplying — w1.Scale(coeff2).Cmp(w2.Scale(coeff1)) — rather than
// reducing each to a float first, since both coefficients are positive this
// preserves the division's sign and keeps the comparison exact regardless
// of how large any one component's weight or weight ratio grows.
func (s *Solver) dualEnteringVariable(row LinearExpression) (VarID, bool) {
	var best VarID
	var bestWeight SymbolicWeight
	var bestCoeff float64
	found := false
	for _, t := range row.Terms() {
		if !s.tab.kindOf(t.ID).Pivotable() || t.Coeff <= 0 {
			continue
		}
		w := s.objective.Coefficient(t.ID)
		if !found || w.Scale(bestCoeff).Cmp(bestWeight.Scale(t.Coeff)) < 0 {
			bestWeight, bestCoeff, best, found = w, t.Coeff, t.ID, true
		}
	}
	return best, found
}

// Solve re-optimizes the main objective and refreshes every external
// variable's value from the current tableau. Called automatically after
// AddConstraint and RemoveConstraint unless the solver was built with
// WithAutoSolve(false). Resolve does not call it: it restores optimality
// through dual optimization and refreshes external values itself.
func (s *Solver) Solve() error {
	if err := s.optimizeObjective(); err != nil {
		return err
	}
	s.setExternalVariables()
	return nil
}

func (s *Solver) setExternalVariables() {
	for id, v := range s.externals {
		if row, ok := s.tab.row(id); ok {
			v.value = row.Constant()
		} else {
			v.value = 0
		}
	}
}

// RemoveConstraint undoes AddConstraint: it subtracts the constraint's
// contribution from the objective, eliminates its marker (and, if
// orphaned, its other error variable) from the tableau, drops it from any
// edit/stay bookkeeping it was part of, and (if auto_solve) re-optimizes.
func (s *Solver) RemoveConstraint(h *ConstraintHandle) error {
	if h == nil {
		return newInternalError("nil constraint handle")
	}
	s.pivotCount = 0
	s.resetStayConstants()

	contribution := h.constraint.Strength().Weight().Scale(h.constraint.Weight())
	for _, ev := range h.errorVars {
		s.subtractErrorContribution(ev, contribution)
	}

	marker := h.marker
	if s.tab.isBasic(marker) {
		s.tab.unregisterRow(marker)
	} else if exit, found := s.chooseExitVariable(marker); found {
		row := s.tab.unregisterRow(exit)
		row.ChangeSubject(exit, marker)
		s.substituteGlobally(marker, row)
	}
	s.tab.forgetVar(marker)

	for _, ev := range h.errorVars {
		if ev == marker {
			continue
		}
		if s.tab.isBasic(ev) {
			s.tab.unregisterRow(ev)
			s.tab.forgetVar(ev)
		}
	}

	s.purgeEditOrStayBookkeeping(h)

	if s.autoSolve {
		if err := s.Solve(); err != nil {
			return err
		}
	}
	s.logger.Log("remove_constraint", F("kind", fmt.Sprint(h.constraint.Kind())))
	return nil
}

// subtractErrorContribution undoes the objective-row weight an error
// variable was given at AddConstraint time, whether it is currently
// parametric (a direct term, simply negated away) or basic (its
// contribution now lives folded into its own row, having been substituted
// in during some earlier pivot, and is undone the same way: subtracting
// the contribution scaled across that row).
func (s *Solver) subtractErrorContribution(ev VarID, contribution SymbolicWeight) {
	if row, ok := s.tab.row(ev); ok {
		s.objective.AddExpression(row, contribution.Negate())
		return
	}
	s.objective.AddVariable(ev, contribution.Negate())
}

// chooseExitVariable implements the ranked exit-variable preference for
// removing a marker that is currently parametric (not itself basic):
// a restricted basic row with a negative coefficient for marker,
// minimizing -constant/coeff; else a restricted basic row with a
// non-negative coefficient, minimizing constant/coeff; else any basic
// (necessarily unrestricted) row referencing marker at all; else, if
// marker's column is empty, no exit variable exists and there is nothing
// to pivot.
func (s *Solver) chooseExitVariable(marker VarID) (VarID, bool) {
	basics := s.tab.columnOf(marker)
	if len(basics) == 0 {
		return InvalidVarID, false
	}
	var negBest, posBest, anyBest VarID
	negRatio, posRatio := math.MaxFloat64, math.MaxFloat64
	haveNeg, havePos, haveAny := false, false, false
	for _, basic := range basics {
		row, _ := s.tab.row(basic)
		coeff := row.Coefficient(marker)
		if !s.tab.kindOf(basic).Restricted() {
			if !haveAny {
				anyBest, haveAny = basic, true
			}
			continue
		}
		if coeff < 0 {
			r := -row.Constant() / coeff
			if r < negRatio {
				negRatio, negBest, haveNeg = r, basic, true
			}
		} else {
			r := row.Constant() / coeff
			if r < posRatio {
				posRatio, posBest, havePos = r, basic, true
			}
		}
	}
	switch {
	case haveNeg:
		return negBest, true
	case havePos:
		return posBest, true
	case haveAny:
		return anyBest, true
	default:
		return InvalidVarID, false
	}
}

func (s *Solver) purgeEditOrStayBookkeeping(h *ConstraintHandle) {
	for i, eh := range s.editHandles {
		if eh != h {
			continue
		}
		s.editVars = removeVarAt(s.editVars, i)
		s.editHandles = removeHandleAt(s.editHandles, i)
		s.editPlusVars = removeVarAt(s.editPlusVars, i)
		s.editMinusVars = removeVarAt(s.editMinusVars, i)
		s.prevEditConstants = removeFloatAt(s.prevEditConstants, i)
		return
	}
	for i, sh := range s.stayHandles {
		if sh != h {
			continue
		}
		s.stayAnchors = removeVarAt(s.stayAnchors, i)
		s.stayHandles = removeHandleAt(s.stayHandles, i)
		s.stayPlusVars = removeVarAt(s.stayPlusVars, i)
		s.stayMinusVars = removeVarAt(s.stayMinusVars, i)
		return
	}
}

func removeVarAt(s []VarID, i int) []VarID {
	return append(s[:i:i], s[i+1:]...)
}

func removeHandleAt(s []*ConstraintHandle, i int) []*ConstraintHandle {
	return append(s[:i:i], s[i+1:]...)
}

func removeFloatAt(s []float64, i int) []float64 {
	return append(s[:i:i], s[i+1:]...)
}
