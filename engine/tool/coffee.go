package tool

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	contractx "github.com/shristirwt/ten-days-of-voice-agents-2025/engine/contract"
	gatex "github.com/shristirwt/ten-days-of-voice-agents-2025/engine/gate"
	sessionx "github.com/shristirwt/ten-days-of-voice-agents-2025/engine/session"
	storex "github.com/shristirwt/ten-days-of-voice-agents-2025/engine/store"
)

const (
	ToolOrderUpdate   = "order.update"
	ToolOrderFinalize = "order.finalize"
)

func coffeeSpecs() []contractx.ToolSpec {
	return []contractx.ToolSpec{
		{
			Name: ToolOrderUpdate,
			Desc: "Update the coffee order with any details the customer mentioned.",
			Params: []contractx.ParamSpec{
				{Name: "drinkType", Type: contractx.ParamString, Desc: "Type of coffee, e.g. latte, cappuccino, americano"},
				{Name: "size", Type: contractx.ParamString, Desc: "Drink size: small, medium, or large"},
				{Name: "milk", Type: contractx.ParamString, Desc: "Milk preference, e.g. whole, oat, almond"},
				{Name: "name", Type: contractx.ParamString, Desc: "Customer name for the cup"},
				{Name: "extras", Type: contractx.ParamList, Desc: "Extras to add, e.g. extra shot, whipped cream"},
			},
		},
		{
			Name: ToolOrderFinalize,
			Desc: "Confirm the complete coffee order. Requires drink type, size, milk, and name.",
		},
	}
}

func coffeeExecutor(deps Deps) Executor {
	return func(ctx context.Context, sess *sessionx.Session, tool string, args map[string]any) (contractx.ToolResult, error) {
		wf := gatex.For(contractx.FamilyCoffee)
		now := deps.Now()

		switch tool {
		case ToolOrderUpdate:
			updated := false
			for _, slot := range []string{"drinkType", "size", "milk", "name"} {
				if v, ok := stringArg(args, slot); ok {
					sess.Set(slot, v)
					updated = true
				}
			}
			if extras := listArg(args, "extras"); len(extras) > 0 {
				sess.Append("extras", extras...)
				updated = true
			}
			if !updated {
				return reply(tool, "I didn't catch that. What would you like to change about your order?"), nil
			}
			wf.OnSlotFilled(sess, now)

			if missing := wf.Missing(sess); len(missing) > 0 {
				return reply(tool, fmt.Sprintf("Got it! I still need: %s.", joinComma(missing))), nil
			}
			return reply(tool, "Got it! Your order is complete! Shall I confirm it?"), nil

		case ToolOrderFinalize:
			decision := wf.CheckFinalize(sess)
			if !decision.Allowed {
				if decision.Reason == gatex.RejectTerminal {
					return reply(tool, "This order is already closed. Would you like to start a new one?"), nil
				}
				return reply(tool, fmt.Sprintf("Cannot finalize order. Missing: %s. Please provide these details.",
					joinComma(decision.MissingSlots))), nil
			}

			summary := fmt.Sprintf("Order confirmed! 1 %s %s with %s milk for %s",
				capitalize(sess.StringSlot("size")),
				capitalize(sess.StringSlot("drinkType")),
				capitalize(sess.StringSlot("milk")),
				capitalize(sess.StringSlot("name")))
			if extras := sess.ListSlot("extras"); len(extras) > 0 {
				summary += " - Extras: " + joinComma(extras)
			}

			rec := storex.Record{
				ID:        "ORD-" + deps.NewID(),
				Timestamp: now,
				Data: map[string]any{
					"drink_type": sess.StringSlot("drinkType"),
					"size":       sess.StringSlot("size"),
					"milk":       sess.StringSlot("milk"),
					"buyer":      sess.StringSlot("name"),
					"extras":     sess.ListSlot("extras"),
					"status":     "confirmed",
				},
			}
			if err := storex.Append(ctx, deps.Store, contractx.FamilyCoffee, rec); err != nil {
				return storeFailure(tool, err), nil
			}
			deps.notify(ctx, contractx.FamilyCoffee, rec)

			wf.Finalized(sess, now)
			sess.Reset(now)
			log.Info().Str("order", rec.ID).Msg("coffee order finalized")
			return reply(tool, summary), nil
		}

		return DefaultExecutor(contractx.FamilyCoffee)(ctx, sess, tool, args)
	}
}
