// Package gate holds the one generic workflow gate. Every family declares its
// required-slot set and flags here instead of carrying its own finalize
// conditionals.
package gate

import (
	"strings"
	"time"

	contractx "github.com/shristirwt/ten-days-of-voice-agents-2025/engine/contract"
	sessionx "github.com/shristirwt/ten-days-of-voice-agents-2025/engine/session"
)

// Workflow declares the completion requirements of one family.
type Workflow struct {
	Family               contractx.Family
	RequiredSlots        []string
	ListSlots            []string
	CartRequired         bool
	RequiresVerification bool
}

// RejectReason classifies a refused finalize.
type RejectReason string

const (
	RejectMissingSlots       RejectReason = "missing_slots"
	RejectEmptyCart          RejectReason = "empty_cart"
	RejectVerificationFailed RejectReason = "verification_failed"
	RejectTerminal           RejectReason = "terminal_phase"
)

// Decision is the result of CheckFinalize. Either Allowed, or a rejection that
// names the specific unmet requirement(s). A rejected finalize commits nothing.
type Decision struct {
	Allowed      bool
	Reason       RejectReason
	MissingSlots []string
}

// Registry maps family -> workflow declaration.
var registry = map[contractx.Family]Workflow{
	contractx.FamilyCoffee: {
		Family:        contractx.FamilyCoffee,
		RequiredSlots: []string{"drinkType", "size", "milk", "name"},
		ListSlots:     []string{"extras"},
	},
	contractx.FamilyCheckin: {
		Family:        contractx.FamilyCheckin,
		RequiredSlots: []string{"mood", "energy", "objectives"},
		ListSlots:     []string{"objectives"},
	},
	contractx.FamilyLead: {
		Family:        contractx.FamilyLead,
		RequiredSlots: []string{"name", "email", "company", "useCase"},
	},
	contractx.FamilyFraud: {
		Family:               contractx.FamilyFraud,
		RequiredSlots:        []string{"customerName"},
		RequiresVerification: true,
	},
	contractx.FamilyRetail: {
		Family:       contractx.FamilyRetail,
		CartRequired: true,
	},
}

// For returns the workflow declaration for a family. Unknown families get an
// empty declaration whose finalize always passes the slot check.
func For(family contractx.Family) Workflow {
	return registry[family]
}

// Missing lists the required slots a session has not filled yet, in declared
// order.
func (w Workflow) Missing(s *sessionx.Session) []string {
	var missing []string
	for _, name := range w.RequiredSlots {
		if !s.Filled(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// IsListSlot reports whether a slot is list-valued (append, never overwrite).
func (w Workflow) IsListSlot(name string) bool {
	for _, l := range w.ListSlots {
		if strings.EqualFold(l, name) {
			return true
		}
	}
	return false
}

// CheckFinalize enforces every precondition of a finalize-class operation.
func (w Workflow) CheckFinalize(s *sessionx.Session) Decision {
	if s.Phase.Terminal() {
		return Decision{Reason: RejectTerminal}
	}
	if w.RequiresVerification {
		v := s.Verification
		if v == nil || v.Passed == nil || !*v.Passed {
			return Decision{Reason: RejectVerificationFailed}
		}
	}
	if missing := w.Missing(s); len(missing) > 0 {
		return Decision{Reason: RejectMissingSlots, MissingSlots: missing}
	}
	if w.CartRequired && len(s.Lines) == 0 {
		return Decision{Reason: RejectEmptyCart}
	}
	return Decision{Allowed: true}
}

/* --------------------------- Phase transitions ---------------------------- */

// OnSlotFilled moves intro -> collecting on the first slot-setting operation,
// and collecting -> ready once the workflow is complete. Terminal and verifying
// sessions are left alone.
func (w Workflow) OnSlotFilled(s *sessionx.Session, now time.Time) {
	if s.Phase == sessionx.PhaseIntro {
		s.Advance(sessionx.PhaseCollecting, now)
	}
	if s.Phase == sessionx.PhaseCollecting && w.complete(s) {
		s.Advance(sessionx.PhaseReady, now)
	}
}

// OnCaseLoaded moves a verification workflow into the verifying phase once the
// case-identifying slot resolved to a known record.
func (w Workflow) OnCaseLoaded(s *sessionx.Session, questionID string, now time.Time) {
	if !w.RequiresVerification || s.Phase.Terminal() {
		return
	}
	s.Verification = &sessionx.Verification{QuestionID: questionID}
	s.Advance(sessionx.PhaseVerifying, now)
}

// OnVerified records the identity-check outcome. A pass moves the session to
// ready; a failure terminates the workflow. The same question is never retried;
// the caller directs the customer to an out-of-band channel. Terminal sessions
// stay terminal: a late correct answer cannot reopen an abandoned workflow.
func (w Workflow) OnVerified(s *sessionx.Session, passed bool, now time.Time) {
	if s.Phase.Terminal() {
		return
	}
	if s.Verification == nil {
		s.Verification = &sessionx.Verification{}
	}
	s.Verification.Asked = true
	s.Verification.Passed = &passed
	if passed {
		s.Advance(sessionx.PhaseReady, now)
		return
	}
	s.Advance(sessionx.PhaseAbandoned, now)
}

// Abandon ends a workflow early. Reachable from any non-terminal phase and
// never an error.
func (w Workflow) Abandon(s *sessionx.Session, now time.Time) {
	if s.Phase.Terminal() {
		return
	}
	s.Advance(sessionx.PhaseAbandoned, now)
}

// Finalized commits the phase change after a successful record write.
func (w Workflow) Finalized(s *sessionx.Session, now time.Time) {
	s.Advance(sessionx.PhaseFinalized, now)
}

func (w Workflow) complete(s *sessionx.Session) bool {
	if len(w.Missing(s)) > 0 {
		return false
	}
	if w.CartRequired && len(s.Lines) == 0 {
		return false
	}
	if w.RequiresVerification {
		v := s.Verification
		if v == nil || v.Passed == nil || !*v.Passed {
			return false
		}
	}
	return true
}
