// Package tool is the public contract of the engine: a registry of named
// operations per workflow family. Operations mutate session state, consult the
// index and the matchers, and on finalize-class calls go through the gate
// before writing to the record store. Failures are conversational replies, not
// Go errors; a non-nil error from an executor means something exceptional, not
// a refused operation.
package tool

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	contractx "github.com/shristirwt/ten-days-of-voice-agents-2025/engine/contract"
	gatex "github.com/shristirwt/ten-days-of-voice-agents-2025/engine/gate"
	indexx "github.com/shristirwt/ten-days-of-voice-agents-2025/engine/index"
	sessionx "github.com/shristirwt/ten-days-of-voice-agents-2025/engine/session"
	storex "github.com/shristirwt/ten-days-of-voice-agents-2025/engine/store"
)

// Executor runs one named operation against a session.
type Executor func(ctx context.Context, sess *sessionx.Session, tool string, args map[string]any) (contractx.ToolResult, error)

// Notifier is told about every committed record. A nil notifier is a no-op.
type Notifier interface {
	RecordCommitted(ctx context.Context, family contractx.Family, rec storex.Record) error
}

// Deps carries the collaborators the operations need. Zero fields are allowed
// where a family does not use them.
type Deps struct {
	Catalog  *indexx.Catalog
	FAQ      *indexx.FAQSet
	Concepts *indexx.ConceptLibrary
	Store    storex.Store
	Notifier Notifier

	Now   func() time.Time
	NewID func() string
}

func (d Deps) withDefaults() Deps {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.NewID == nil {
		d.NewID = func() string {
			return strings.ToUpper(uuid.NewString()[:8])
		}
	}
	return d
}

// BuildForFamily returns the tool surface and executor of one family. The
// generic session operations are layered on top by the Dispatcher.
func BuildForFamily(family contractx.Family, deps Deps) ([]contractx.ToolSpec, Executor) {
	deps = deps.withDefaults()
	switch family {
	case contractx.FamilyCoffee:
		return coffeeSpecs(), coffeeExecutor(deps)
	case contractx.FamilyCheckin:
		return checkinSpecs(), checkinExecutor(deps)
	case contractx.FamilyLead:
		return leadSpecs(), leadExecutor(deps)
	case contractx.FamilyFraud:
		return fraudSpecs(), fraudExecutor(deps)
	case contractx.FamilyRetail:
		return retailSpecs(), retailExecutor(deps)
	case contractx.FamilyTutor:
		return tutorSpecs(), tutorExecutor(deps)
	default:
		return nil, DefaultExecutor(family)
	}
}

// DefaultExecutor answers every call with an "unavailable" reply.
func DefaultExecutor(family contractx.Family) Executor {
	return func(_ context.Context, _ *sessionx.Session, tool string, _ map[string]any) (contractx.ToolResult, error) {
		return contractx.ToolResult{
			Tool:  tool,
			Reply: fmt.Sprintf("Sorry, %s is not something I can do for a %s conversation.", tool, family),
		}, nil
	}
}

// Dispatcher routes invocations to the executor of the session's family and
// carries the generic session operations shared by every family.
type Dispatcher struct {
	deps      Deps
	specs     map[contractx.Family][]contractx.ToolSpec
	executors map[contractx.Family]Executor
}

func NewDispatcher(deps Deps) *Dispatcher {
	deps = deps.withDefaults()
	d := &Dispatcher{
		deps:      deps,
		specs:     make(map[contractx.Family][]contractx.ToolSpec),
		executors: make(map[contractx.Family]Executor),
	}
	for _, family := range contractx.Families() {
		specs, exec := BuildForFamily(family, deps)
		d.specs[family] = append(specs, genericSpecs()...)
		d.executors[family] = exec
	}
	return d
}

// Specs returns the full tool surface of a family, generic operations
// included.
func (d *Dispatcher) Specs(family contractx.Family) []contractx.ToolSpec {
	return d.specs[family]
}

// Invoke runs one operation. The caller has already decided which tool and
// with what arguments; invocations for one session arrive sequentially.
func (d *Dispatcher) Invoke(ctx context.Context, sess *sessionx.Session, tool string, args map[string]any) (contractx.ToolResult, error) {
	if sess == nil {
		return contractx.ToolResult{}, fmt.Errorf("%w: session is nil", contractx.ErrValidation)
	}

	if res, handled, err := d.executeGeneric(sess, tool, args); handled {
		return res, err
	}

	exec, ok := d.executors[sess.Family]
	if !ok {
		exec = DefaultExecutor(sess.Family)
	}
	res, err := exec(ctx, sess, tool, args)
	if err != nil {
		return res, err
	}
	log.Debug().
		Str("session", sess.ID).
		Str("family", string(sess.Family)).
		Str("tool", tool).
		Str("phase", string(sess.Phase)).
		Msg("tool invoked")
	return res, nil
}

/* --------------------------- Generic operations --------------------------- */

const (
	ToolSessionUpdate = "session.update"
	ToolSessionEnd    = "session.end"
)

func genericSpecs() []contractx.ToolSpec {
	return []contractx.ToolSpec{
		{
			Name: ToolSessionUpdate,
			Desc: "Set a free-form session slot, or append when the slot is list-valued.",
			Params: []contractx.ParamSpec{
				{Name: "slot", Type: contractx.ParamString, Desc: "Slot name", Required: true},
				{Name: "value", Type: contractx.ParamString, Desc: "Value to store", Required: true},
			},
		},
		{
			Name: ToolSessionEnd,
			Desc: "End the conversation early without finalizing.",
		},
	}
}

func (d *Dispatcher) executeGeneric(sess *sessionx.Session, tool string, args map[string]any) (contractx.ToolResult, bool, error) {
	wf := gatex.For(sess.Family)
	now := d.deps.Now()

	switch tool {
	case ToolSessionUpdate:
		slot, ok := stringArg(args, "slot")
		if !ok {
			return reply(tool, "Which detail should I note down?"), true, nil
		}
		value, ok := stringArg(args, "value")
		if !ok {
			return reply(tool, fmt.Sprintf("What should I note for %s?", slot)), true, nil
		}
		if wf.IsListSlot(slot) {
			sess.Append(slot, value)
		} else {
			sess.Set(slot, value)
		}
		wf.OnSlotFilled(sess, now)
		sess.Touch(now)
		return reply(tool, fmt.Sprintf("Noted %s.", slot)), true, nil

	case ToolSessionEnd:
		wf.Abandon(sess, now)
		log.Info().Str("session", sess.ID).Msg("session abandoned by caller")
		return reply(tool, "No problem, we can pick this up another time. Take care!"), true, nil
	}
	return contractx.ToolResult{}, false, nil
}

func reply(tool, text string) contractx.ToolResult {
	return contractx.ToolResult{Tool: tool, Reply: text}
}

// storeFailure logs a persistence error and turns it into the apologetic
// retry-later reply the caller reads out. The session is left untouched.
func storeFailure(tool string, err error) contractx.ToolResult {
	log.Error().Err(err).Str("tool", tool).Msg("record store failure")
	return reply(tool, "I'm sorry, I couldn't save that just now. Please try again in a moment.")
}

func (d Deps) notify(ctx context.Context, family contractx.Family, rec storex.Record) {
	if d.Notifier == nil {
		return
	}
	if err := d.Notifier.RecordCommitted(ctx, family, rec); err != nil {
		log.Warn().Err(err).Str("family", string(family)).Str("record", rec.ID).Msg("record notification failed")
	}
}
