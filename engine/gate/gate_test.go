package gate

import (
	"testing"
	"time"

	contractx "github.com/shristirwt/ten-days-of-voice-agents-2025/engine/contract"
	sessionx "github.com/shristirwt/ten-days-of-voice-agents-2025/engine/session"
)

func TestCheckFinalizeReportsMissingSlotsInDeclaredOrder(t *testing.T) {
	t.Parallel()

	wf := For(contractx.FamilyCoffee)
	sess := sessionx.New(contractx.FamilyCoffee, time.Now())
	sess.Set("size", "large")

	decision := wf.CheckFinalize(sess)
	if decision.Allowed {
		t.Fatal("finalize allowed with unfilled slots")
	}
	if decision.Reason != RejectMissingSlots {
		t.Fatalf("Reason = %q, want %q", decision.Reason, RejectMissingSlots)
	}
	want := []string{"drinkType", "milk", "name"}
	if len(decision.MissingSlots) != len(want) {
		t.Fatalf("MissingSlots = %v, want %v", decision.MissingSlots, want)
	}
	for i, name := range want {
		if decision.MissingSlots[i] != name {
			t.Fatalf("MissingSlots[%d] = %q, want %q", i, decision.MissingSlots[i], name)
		}
	}
}

func TestCheckFinalizeAllowsCompleteCoffeeOrder(t *testing.T) {
	t.Parallel()

	wf := For(contractx.FamilyCoffee)
	sess := sessionx.New(contractx.FamilyCoffee, time.Now())
	for _, slot := range []string{"drinkType", "size", "milk", "name"} {
		sess.Set(slot, "x")
	}

	if decision := wf.CheckFinalize(sess); !decision.Allowed {
		t.Fatalf("finalize rejected: %+v", decision)
	}
}

func TestCheckFinalizeRejectsEmptyCart(t *testing.T) {
	t.Parallel()

	wf := For(contractx.FamilyRetail)
	sess := sessionx.New(contractx.FamilyRetail, time.Now())

	decision := wf.CheckFinalize(sess)
	if decision.Allowed || decision.Reason != RejectEmptyCart {
		t.Fatalf("Decision = %+v, want empty_cart rejection", decision)
	}

	sess.MergeLine("mug-001", sessionx.Line{Name: "Classic Mug", UnitPrice: 800, Quantity: 1})
	if decision := wf.CheckFinalize(sess); !decision.Allowed {
		t.Fatalf("finalize rejected with a non-empty cart: %+v", decision)
	}
}

func TestCheckFinalizeRequiresPassedVerification(t *testing.T) {
	t.Parallel()

	now := time.Now()
	wf := For(contractx.FamilyFraud)
	sess := sessionx.New(contractx.FamilyFraud, now)
	sess.Set("customerName", "Rohan Sharma")

	if decision := wf.CheckFinalize(sess); decision.Reason != RejectVerificationFailed {
		t.Fatalf("Reason = %q, want %q", decision.Reason, RejectVerificationFailed)
	}

	wf.OnCaseLoaded(sess, "q1", now)
	wf.OnVerified(sess, true, now)
	if decision := wf.CheckFinalize(sess); !decision.Allowed {
		t.Fatalf("finalize rejected after passed verification: %+v", decision)
	}
}

func TestCheckFinalizeRejectsTerminalSessions(t *testing.T) {
	t.Parallel()

	now := time.Now()
	wf := For(contractx.FamilyCoffee)
	sess := sessionx.New(contractx.FamilyCoffee, now)
	wf.Abandon(sess, now)

	if decision := wf.CheckFinalize(sess); decision.Reason != RejectTerminal {
		t.Fatalf("Reason = %q, want %q", decision.Reason, RejectTerminal)
	}
}

func TestOnSlotFilledAdvancesPhases(t *testing.T) {
	t.Parallel()

	now := time.Now()
	wf := For(contractx.FamilyCoffee)
	sess := sessionx.New(contractx.FamilyCoffee, now)

	sess.Set("drinkType", "latte")
	wf.OnSlotFilled(sess, now)
	if sess.Phase != sessionx.PhaseCollecting {
		t.Fatalf("Phase = %q, want %q", sess.Phase, sessionx.PhaseCollecting)
	}

	for _, slot := range []string{"size", "milk", "name"} {
		sess.Set(slot, "x")
	}
	wf.OnSlotFilled(sess, now)
	if sess.Phase != sessionx.PhaseReady {
		t.Fatalf("Phase = %q, want %q", sess.Phase, sessionx.PhaseReady)
	}
}

func TestOnVerifiedFailureTerminatesWorkflow(t *testing.T) {
	t.Parallel()

	now := time.Now()
	wf := For(contractx.FamilyFraud)
	sess := sessionx.New(contractx.FamilyFraud, now)
	sess.Set("customerName", "Rohan Sharma")
	wf.OnCaseLoaded(sess, "q1", now)

	if sess.Phase != sessionx.PhaseVerifying {
		t.Fatalf("Phase = %q, want %q", sess.Phase, sessionx.PhaseVerifying)
	}

	wf.OnVerified(sess, false, now)
	if sess.Phase != sessionx.PhaseAbandoned {
		t.Fatalf("Phase = %q, want %q", sess.Phase, sessionx.PhaseAbandoned)
	}
	if decision := wf.CheckFinalize(sess); decision.Allowed {
		t.Fatal("finalize allowed after failed verification")
	}
}

func TestOnVerifiedDoesNotReopenTerminalSessions(t *testing.T) {
	t.Parallel()

	now := time.Now()
	wf := For(contractx.FamilyFraud)
	sess := sessionx.New(contractx.FamilyFraud, now)
	sess.Set("customerName", "Rohan Sharma")
	wf.OnCaseLoaded(sess, "q1", now)
	wf.OnVerified(sess, false, now)

	wf.OnVerified(sess, true, now)
	if sess.Phase != sessionx.PhaseAbandoned {
		t.Fatalf("Phase = %q after a retried check, want %q", sess.Phase, sessionx.PhaseAbandoned)
	}
	if v := sess.Verification; v == nil || v.Passed == nil || *v.Passed {
		t.Fatal("retried check overwrote the recorded failure")
	}
	if decision := wf.CheckFinalize(sess); decision.Allowed {
		t.Fatal("finalize allowed on a reopened session")
	}
}

func TestAbandonIsIdempotentOnTerminalSessions(t *testing.T) {
	t.Parallel()

	now := time.Now()
	wf := For(contractx.FamilyLead)
	sess := sessionx.New(contractx.FamilyLead, now)
	wf.Finalized(sess, now)

	wf.Abandon(sess, now)
	if sess.Phase != sessionx.PhaseFinalized {
		t.Fatalf("Phase = %q, want %q", sess.Phase, sessionx.PhaseFinalized)
	}
}

func TestIsListSlot(t *testing.T) {
	t.Parallel()

	wf := For(contractx.FamilyCheckin)
	if !wf.IsListSlot("objectives") {
		t.Fatal("objectives not recognized as a list slot")
	}
	if wf.IsListSlot("mood") {
		t.Fatal("mood wrongly recognized as a list slot")
	}
}
