package tool

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "github.com/shristirwt/ten-days-of-voice-agents-2025/engine/contract"
	gatex "github.com/shristirwt/ten-days-of-voice-agents-2025/engine/gate"
	sessionx "github.com/shristirwt/ten-days-of-voice-agents-2025/engine/session"
	storex "github.com/shristirwt/ten-days-of-voice-agents-2025/engine/store"
)

const (
	ToolCheckinMood       = "checkin.capture_mood"
	ToolCheckinObjectives = "checkin.capture_objectives"
	ToolCheckinFinalize   = "checkin.finalize"
)

func checkinSpecs() []contractx.ToolSpec {
	return []contractx.ToolSpec{
		{
			Name: ToolCheckinMood,
			Desc: "Capture how the user is feeling today.",
			Params: []contractx.ParamSpec{
				{Name: "mood", Type: contractx.ParamString, Desc: "Mood in the user's words, e.g. stressed, calm, good"},
				{Name: "energy", Type: contractx.ParamString, Desc: "Energy level, e.g. low, high, tired"},
			},
		},
		{
			Name: ToolCheckinObjectives,
			Desc: "Capture the user's objectives for today.",
			Params: []contractx.ParamSpec{
				{Name: "objectives", Type: contractx.ParamList, Desc: "One to three practical goals", Required: true},
			},
		},
		{
			Name: ToolCheckinFinalize,
			Desc: "Recap the check-in, save it to the wellness log, and close warmly.",
		},
	}
}

func checkinExecutor(deps Deps) Executor {
	return func(ctx context.Context, sess *sessionx.Session, tool string, args map[string]any) (contractx.ToolResult, error) {
		wf := gatex.For(contractx.FamilyCheckin)
		now := deps.Now()

		switch tool {
		case ToolCheckinMood:
			updated := false
			if mood, ok := stringArg(args, "mood"); ok {
				sess.Set("mood", mood)
				updated = true
			}
			if energy, ok := stringArg(args, "energy"); ok {
				sess.Set("energy", energy)
				updated = true
			}
			if !updated {
				return reply(tool, "I didn't catch that. How are you feeling today?"), nil
			}
			wf.OnSlotFilled(sess, now)
			return reply(tool, "Thanks for sharing. What would you like to get done today?"), nil

		case ToolCheckinObjectives:
			objectives := listArg(args, "objectives")
			if len(objectives) == 0 {
				return reply(tool, "What are one to three things you want to do today?"), nil
			}
			sess.Append("objectives", objectives...)
			wf.OnSlotFilled(sess, now)
			return reply(tool, fmt.Sprintf("Got it! Your goals for today: %s. Let me offer you some thoughts on this.",
				joinComma(sess.ListSlot("objectives")))), nil

		case ToolCheckinFinalize:
			decision := wf.CheckFinalize(sess)
			if !decision.Allowed {
				if decision.Reason == gatex.RejectTerminal {
					return reply(tool, "Today's check-in is already saved. See you tomorrow!"), nil
				}
				return reply(tool, fmt.Sprintf("Cannot finalize checkin. Missing: %s. Please provide these details.",
					joinComma(decision.MissingSlots))), nil
			}

			mood := sess.StringSlot("mood")
			energy := sess.StringSlot("energy")
			objectives := sess.ListSlot("objectives")
			advice := checkinAdvice(mood, energy, objectives)

			summary := fmt.Sprintf("You are feeling %s. Your energy is %s. Your objectives for today are: %s. Here's my thought: %s",
				capitalize(mood), capitalize(energy), joinComma(objectives), advice)

			rec := storex.Record{
				ID:        deps.NewID(),
				Timestamp: now,
				Data: map[string]any{
					"date":       now.UTC().Format("2006-01-02"),
					"time":       now.UTC().Format("15:04:05"),
					"mood":       mood,
					"energy":     energy,
					"objectives": objectives,
					"summary":    advice,
				},
			}
			if err := storex.Append(ctx, deps.Store, contractx.FamilyCheckin, rec); err != nil {
				return storeFailure(tool, err), nil
			}
			deps.notify(ctx, contractx.FamilyCheckin, rec)

			wf.Finalized(sess, now)
			sess.Reset(now)
			log.Info().Str("checkin", rec.ID).Msg("check-in saved to wellness log")
			return reply(tool, summary), nil
		}

		return DefaultExecutor(contractx.FamilyCheckin)(ctx, sess, tool, args)
	}
}

// checkinAdvice builds short grounded advice from the captured mood, energy,
// and objectives.
func checkinAdvice(mood, energy string, objectives []string) string {
	mood = strings.ToLower(mood)
	energy = strings.ToLower(energy)

	var parts []string
	if strings.Contains(energy, "low") || strings.Contains(energy, "tired") {
		parts = append(parts, "Since your energy is low, break your goals into smaller steps and take breaks between them.")
	} else if strings.Contains(energy, "high") || strings.Contains(energy, "energized") {
		parts = append(parts, "Great energy! Use this momentum, but remember to take short breaks to sustain it.")
	}

	if strings.Contains(mood, "stressed") || strings.Contains(mood, "anxious") {
		parts = append(parts, "Try a 5-minute grounding exercise - take deep breaths or a short walk to center yourself.")
	} else if strings.Contains(mood, "good") || strings.Contains(mood, "calm") {
		parts = append(parts, "You're in a good headspace. Channel this into your most important goal first.")
	}

	if len(objectives) > 3 {
		parts = append(parts, "You have a lot on your plate - prioritize the 1-2 most important ones today.")
	} else if len(objectives) == 1 {
		parts = append(parts, "Focusing on one goal is smart. Break it into smaller steps if needed.")
	}

	if len(parts) == 0 {
		parts = append(parts, "Take it one step at a time and be kind to yourself today.")
	}
	return strings.Join(parts, " ")
}
