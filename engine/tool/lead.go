package tool

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "github.com/shristirwt/ten-days-of-voice-agents-2025/engine/contract"
	gatex "github.com/shristirwt/ten-days-of-voice-agents-2025/engine/gate"
	matchx "github.com/shristirwt/ten-days-of-voice-agents-2025/engine/match"
	sessionx "github.com/shristirwt/ten-days-of-voice-agents-2025/engine/session"
	storex "github.com/shristirwt/ten-days-of-voice-agents-2025/engine/store"
)

const (
	ToolLeadUpdate   = "lead.update"
	ToolLeadFinalize = "lead.finalize"
	ToolFAQSearch    = "faq.search"
)

// leadFields is the lead slot dictionary. Anything else is silently ignored.
var leadFields = map[string]bool{
	"name": true, "email": true, "company": true, "role": true,
	"useCase": true, "teamSize": true, "timeline": true,
}

func leadSpecs() []contractx.ToolSpec {
	return []contractx.ToolSpec{
		{
			Name: ToolLeadUpdate,
			Desc: "Record one piece of lead information the prospect shared.",
			Params: []contractx.ParamSpec{
				{Name: "field", Type: contractx.ParamString, Desc: "One of: name, email, company, role, useCase, teamSize, timeline", Required: true},
				{Name: "value", Type: contractx.ParamString, Desc: "The value the prospect gave", Required: true},
			},
		},
		{
			Name: ToolFAQSearch,
			Desc: "Search the product FAQ for the most relevant answer to the prospect's question.",
			Params: []contractx.ParamSpec{
				{Name: "question", Type: contractx.ParamString, Desc: "The prospect's question", Required: true},
			},
		},
		{
			Name: ToolLeadFinalize,
			Desc: "Summarize the captured lead and save it. Requires name, email, company, and use case.",
		},
	}
}

func leadExecutor(deps Deps) Executor {
	return func(ctx context.Context, sess *sessionx.Session, tool string, args map[string]any) (contractx.ToolResult, error) {
		wf := gatex.For(contractx.FamilyLead)
		now := deps.Now()

		switch tool {
		case ToolLeadUpdate:
			field, ok := stringArg(args, "field")
			if !ok {
				return reply(tool, "Which detail was that?"), nil
			}
			value, ok := stringArg(args, "value")
			if !ok {
				return reply(tool, fmt.Sprintf("I didn't catch the %s, could you repeat it?", field)), nil
			}
			if !leadFields[field] {
				log.Warn().Str("field", field).Msg("ignoring unknown lead field")
				return reply(tool, "Noted, thank you."), nil
			}
			sess.Set(field, value)
			wf.OnSlotFilled(sess, now)
			return reply(tool, fmt.Sprintf("Thanks, I've noted your %s.", field)), nil

		case ToolFAQSearch:
			question, ok := stringArg(args, "question")
			if !ok {
				return reply(tool, "I didn't catch your question. Could you please ask again?"), nil
			}
			best, score, found := matchx.BestFAQ(deps.FAQ.Entries(), question)
			if !found {
				return reply(tool, "That's a great question! I want to give you accurate information. Feel free to ask about our product, pricing, integration, or security."), nil
			}
			log.Info().Int("score", score).Str("question", best.Question).Msg("faq match")
			return contractx.ToolResult{
				Tool:  tool,
				Reply: "Great question! " + best.Answer,
				Data:  best,
			}, nil

		case ToolLeadFinalize:
			decision := wf.CheckFinalize(sess)
			if !decision.Allowed {
				if decision.Reason == gatex.RejectTerminal {
					return reply(tool, "You're all set already. Our team will be in touch soon!"), nil
				}
				return reply(tool, fmt.Sprintf("Before I wrap up, I still need your %s.",
					joinComma(decision.MissingSlots))), nil
			}

			rec := storex.Record{
				ID:        deps.NewID(),
				Timestamp: now,
				Data: map[string]any{
					"name":      sess.StringSlot("name"),
					"email":     sess.StringSlot("email"),
					"company":   sess.StringSlot("company"),
					"role":      sess.StringSlot("role"),
					"use_case":  sess.StringSlot("useCase"),
					"team_size": sess.StringSlot("teamSize"),
					"timeline":  sess.StringSlot("timeline"),
				},
			}
			if err := storex.Append(ctx, deps.Store, contractx.FamilyLead, rec); err != nil {
				return storeFailure(tool, err), nil
			}
			deps.notify(ctx, contractx.FamilyLead, rec)

			summary := leadSummary(sess)
			wf.Finalized(sess, now)
			sess.Reset(now)
			log.Info().Str("lead", rec.ID).Msg("lead captured")
			return reply(tool, summary), nil
		}

		return DefaultExecutor(contractx.FamilyLead)(ctx, sess, tool, args)
	}
}

// leadSummary reads the captured lead back in spoken form, mentioning only the
// fields that were actually filled.
func leadSummary(sess *sessionx.Session) string {
	var parts []string
	if v := sess.StringSlot("name"); v != "" {
		parts = append(parts, fmt.Sprintf("your name is %s", v))
	}
	if v := sess.StringSlot("company"); v != "" {
		parts = append(parts, fmt.Sprintf("you work at %s", v))
	}
	if v := sess.StringSlot("role"); v != "" {
		parts = append(parts, fmt.Sprintf("you're a %s", v))
	}
	if v := sess.StringSlot("useCase"); v != "" {
		parts = append(parts, fmt.Sprintf("you're interested in %s", v))
	}
	if v := sess.StringSlot("teamSize"); v != "" {
		parts = append(parts, fmt.Sprintf("your team size is %s", v))
	}
	if v := sess.StringSlot("timeline"); v != "" {
		parts = append(parts, fmt.Sprintf("your timeline is %s", v))
	}
	if len(parts) == 0 {
		return "All set! Our team will reach out shortly. Thank you!"
	}
	return fmt.Sprintf("Perfect, so %s. Our team will reach out shortly. Thank you!", strings.Join(parts, ", "))
}
