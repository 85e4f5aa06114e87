package cassowary

import "fmt"

// AddEditVar enables v to be driven with SuggestValue inside a
// BeginEdit/EndEdit session, at the given non-required strength. Calling
// this with Required returns an error: an always-satisfied edit constraint
// could never be overridden by a later suggested value.
func (s *Solver) AddEditVar(v *Variable, strength Strength) error {
	if strength.IsRequired() {
		return newInternalError("edit variables may not use the required strength")
	}
	c := newEditConstraint(v.id, strength, 1)
	_, err := s.AddConstraint(c)
	return err
}

// AddStay records a preference that v keep its current value. strength
// defaults to WeakStrength; pass an explicit strength to override it.
func (s *Solver) AddStay(v *Variable, strength ...Strength) error {
	st := WeakStrength
	if len(strength) > 0 {
		st = strength[0]
	}
	c := newStayConstraint(v.id, v.Value(), st, 1)
	_, err := s.AddConstraint(c)
	return err
}

// BeginEdit starts an edit session over every variable currently enabled
// via AddEditVar. It must be called before SuggestValue; it seeds the
// pending suggestion buffer from each variable's last-applied edit value,
// so a Resolve with no intervening SuggestValue calls changes nothing.
func (s *Solver) BeginEdit() error {
	if len(s.editVars) == 0 {
		return newInternalError("begin_edit called with no active edit variables")
	}
	s.newEditConstants = make([]float64, len(s.editVars))
	copy(s.newEditConstants, s.prevEditConstants)
	s.editBegun = true
	s.tab.clearInfeasible()
	s.logger.Log("begin_edit", F("count", len(s.editVars)))
	return nil
}

// SuggestValue records x as the pending target value for v within the
// current edit session. BeginEdit must have been called first; this
// precondition is enforced explicitly here, rather than left to silently
// index into an uninitialized buffer, since the design notes call out the
// reference implementation's failure to enforce it as a defect to fix.
func (s *Solver) SuggestValue(v *Variable, x float64) error {
	if !s.editBegun {
		return newInternalError("suggest_value called before begin_edit")
	}
	for i, id := range s.editVars {
		if id == v.id {
			s.newEditConstants[i] = x
			return nil
		}
	}
	return newInternalError(fmt.Sprintf("%s is not an active edit variable", v))
}

// Resolve applies every pending suggested value (from SuggestValue calls
// since BeginEdit, or from newConstants if given explicitly, in the same
// order as the active edit variables) and restores optimality: stays are
// re-pinned to their variables' current values, each edit's delta is
// folded into its error variables' rows, dual optimization restores
// feasibility, and (if auto_solve) external variable values are refreshed.
func (s *Solver) Resolve(newConstants ...float64) error {
	if !s.editBegun {
		return newInternalError("resolve called before begin_edit")
	}
	if len(newConstants) > 0 {
		if len(newConstants) != len(s.editVars) {
			return newInternalError("resolve: wrong number of edit constants supplied")
		}
		copy(s.newEditConstants, newConstants)
	}

	s.pivotCount = 0
	s.updateStayConstants()
	s.applyEditDeltas()

	if err := s.dualOptimize(); err != nil {
		return err
	}
	if s.autoSolve {
		s.setExternalVariables()
	}
	s.logger.Log("resolve", F("edits", len(s.editVars)))
	return nil
}

// EndEdit disables every currently active edit constraint (removing each
// one exactly as RemoveConstraint would) and clears edit bookkeeping.
func (s *Solver) EndEdit() error {
	handles := append([]*ConstraintHandle{}, s.editHandles...)
	for _, h := range handles {
		if err := s.RemoveConstraint(h); err != nil {
			return err
		}
	}
	s.editBegun = false
	s.newEditConstants = nil
	s.logger.Log("end_edit")
	return nil
}

func (s *Solver) applyEditDeltas() {
	for i := range s.editVars {
		delta := s.newEditConstants[i] - s.prevEditConstants[i]
		s.prevEditConstants[i] = s.newEditConstants[i]
		if delta != 0 {
			s.deltaEditConstant(delta, s.editPlusVars[i], s.editMinusVars[i])
		}
	}
}

// deltaEditConstant realizes the algebraic identity v = c - e⁺ + e⁻ after a
// suggested value shifts by delta: whichever of e⁺/e⁻ is currently basic
// absorbs the shift directly; if neither is basic, the shift is
// distributed through every basic row that mentions e⁻, scaled by that
// row's coefficient for e⁻.
func (s *Solver) deltaEditConstant(delta float64, eplus, eminus VarID) {
	if row, ok := s.tab.row(eplus); ok {
		c := row.Constant() + delta
		s.tab.setRowConstant(eplus, c)
		if c < -s.epsilon {
			s.tab.pushInfeasible(eplus)
		}
		return
	}
	if row, ok := s.tab.row(eminus); ok {
		c := row.Constant() - delta
		s.tab.setRowConstant(eminus, c)
		if c < -s.epsilon {
			s.tab.pushInfeasible(eminus)
		}
		return
	}
	for _, basic := range s.tab.columnOf(eminus) {
		row, _ := s.tab.row(basic)
		coeff := row.Coefficient(eminus)
		c := row.Constant() + coeff*delta
		s.tab.setRowConstant(basic, c)
		if s.tab.kindOf(basic).Restricted() && c < -s.epsilon {
			s.tab.pushInfeasible(basic)
		}
	}
}

// resetStayConstants zeros the constant of each basic stay-error row ahead
// of removing a constraint, so a subsequent re-optimization does not chase
// a stale stay target while the tableau is mid-adjustment.
func (s *Solver) resetStayConstants() {
	for i := range s.stayAnchors {
		for _, ev := range [2]VarID{s.stayPlusVars[i], s.stayMinusVars[i]} {
			if !ev.Valid() {
				continue
			}
			if _, ok := s.tab.row(ev); ok {
				s.tab.setRowConstant(ev, 0)
			}
		}
	}
}

// updateStayConstants rewrites each stay's row constant to the current
// external value of its anchor variable, re-pinning every "keep your
// current value" preference to wherever that variable has since moved.
func (s *Solver) updateStayConstants() {
	for i, anchor := range s.stayAnchors {
		v, ok := s.externals[anchor]
		if !ok {
			continue
		}
		val := v.Value()
		if _, ok := s.tab.row(s.stayPlusVars[i]); ok {
			s.tab.setRowConstant(s.stayPlusVars[i], val)
		} else if _, ok := s.tab.row(s.stayMinusVars[i]); ok {
			s.tab.setRowConstant(s.stayMinusVars[i], val)
		}
	}
}
