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
	ToolFraudLoadCase    = "fraud.load_case"
	ToolFraudQuestion    = "fraud.security_question"
	ToolFraudVerify      = "fraud.verify"
	ToolFraudTransaction = "fraud.transaction_details"
	ToolFraudConfirm     = "fraud.confirm"
)

const (
	fraudStatusSafe  = "confirmed_safe"
	fraudStatusFraud = "confirmed_fraud"
)

// fraudCase is the view of a stored case the operations work with. Cases live
// in the record store; the session only holds the loaded case id.
type fraudCase struct {
	ID               string
	UserName         string
	SecurityQuestion string
	SecurityAnswer   string
	Amount           string
	Merchant         string
	Time             string
	Source           string
	Location         string
	Category         string
}

func fraudCaseFromRecord(rec storex.Record) fraudCase {
	str := func(key string) string {
		v, _ := rec.Data[key].(string)
		return v
	}
	return fraudCase{
		ID:               rec.ID,
		UserName:         str("userName"),
		SecurityQuestion: str("securityQuestion"),
		SecurityAnswer:   str("securityAnswer"),
		Amount:           str("transactionAmount"),
		Merchant:         str("transactionName"),
		Time:             str("transactionTime"),
		Source:           str("transactionSource"),
		Location:         str("location"),
		Category:         str("transactionCategory"),
	}
}

func fraudSpecs() []contractx.ToolSpec {
	return []contractx.ToolSpec{
		{
			Name: ToolFraudLoadCase,
			Desc: "Load the suspicious-transaction case for a customer by name.",
			Params: []contractx.ParamSpec{
				{Name: "userName", Type: contractx.ParamString, Desc: "The customer's full name", Required: true},
			},
		},
		{
			Name: ToolFraudQuestion,
			Desc: "Get the security question for the loaded case.",
		},
		{
			Name: ToolFraudVerify,
			Desc: "Check the customer's answer to the security question. Case-insensitive.",
			Params: []contractx.ParamSpec{
				{Name: "answer", Type: contractx.ParamString, Desc: "The customer's answer", Required: true},
			},
		},
		{
			Name: ToolFraudTransaction,
			Desc: "Read out the suspicious transaction details. Identity must be verified first.",
		},
		{
			Name: ToolFraudConfirm,
			Desc: "Record whether the customer recognizes the transaction and update the case.",
			Params: []contractx.ParamSpec{
				{Name: "isLegitimate", Type: contractx.ParamBoolean, Desc: "True when the customer made the transaction", Required: true},
			},
		},
	}
}

func fraudExecutor(deps Deps) Executor {
	return func(ctx context.Context, sess *sessionx.Session, tool string, args map[string]any) (contractx.ToolResult, error) {
		wf := gatex.For(contractx.FamilyFraud)
		now := deps.Now()

		switch tool {
		case ToolFraudLoadCase:
			name, ok := stringArg(args, "userName")
			if !ok {
				return reply(tool, "May I have your name please?"), nil
			}
			records, err := deps.Store.ReadAll(ctx, contractx.FamilyFraud)
			if err != nil {
				return storeFailure(tool, err), nil
			}
			for _, rec := range records {
				c := fraudCaseFromRecord(rec)
				if strings.EqualFold(c.UserName, name) {
					sess.Set("customerName", c.UserName)
					sess.CaseID = c.ID
					wf.OnCaseLoaded(sess, c.ID, now)
					log.Info().Str("case", c.ID).Msg("fraud case loaded")
					return reply(tool, "Great! I found your account. Let me verify your identity first."), nil
				}
			}
			log.Warn().Str("name", name).Msg("no fraud case for customer")
			return reply(tool, "I'm sorry, I couldn't find an account with that name. Please call our main line. Thank you."), nil

		case ToolFraudQuestion:
			c, res, ok := loadedCase(ctx, deps, sess, tool)
			if !ok {
				return res, nil
			}
			return reply(tool, c.SecurityQuestion), nil

		case ToolFraudVerify:
			c, res, ok := loadedCase(ctx, deps, sess, tool)
			if !ok {
				return res, nil
			}
			if sess.Phase.Terminal() {
				return reply(tool, "For your security I can't continue over this call. Please contact our main line."), nil
			}
			answer, ok := stringArg(args, "answer")
			if !ok {
				return reply(tool, "I'm sorry, I didn't catch your answer. Could you repeat it?"), nil
			}
			passed := strings.EqualFold(answer, c.SecurityAnswer)
			wf.OnVerified(sess, passed, now)

			if passed {
				log.Info().Str("case", c.ID).Msg("customer verified")
				return contractx.ToolResult{
					Tool:  tool,
					Reply: "Thank you, your identity is verified.",
					Data:  true,
				}, nil
			}
			log.Info().Str("case", c.ID).Msg("verification failed")
			return contractx.ToolResult{
				Tool:  tool,
				Reply: "I'm sorry, that answer doesn't match our records. For your security I can't continue over this call. Please contact our main line.",
				Data:  false,
			}, nil

		case ToolFraudTransaction:
			c, res, ok := loadedCase(ctx, deps, sess, tool)
			if !ok {
				return res, nil
			}
			if !verificationPassed(sess) {
				return reply(tool, "Let me verify your identity before I share the transaction details."), nil
			}
			details := fmt.Sprintf("We detected a %s transaction for %s at %s on %s from %s. This transaction was made in %s.",
				c.Category, c.Amount, c.Merchant, c.Time, c.Source, c.Location)
			return reply(tool, details), nil

		case ToolFraudConfirm:
			c, res, ok := loadedCase(ctx, deps, sess, tool)
			if !ok {
				return res, nil
			}
			decision := wf.CheckFinalize(sess)
			if !decision.Allowed {
				if decision.Reason == gatex.RejectVerificationFailed || decision.Reason == gatex.RejectTerminal {
					return reply(tool, "I can't update this case without a verified identity. Please contact our main line."), nil
				}
				return reply(tool, fmt.Sprintf("I still need your %s before I can proceed.", joinComma(decision.MissingSlots))), nil
			}

			isLegitimate, ok := boolArg(args, "isLegitimate")
			if !ok {
				return reply(tool, "Just to confirm: did you make this transaction, yes or no?"), nil
			}

			patch := map[string]any{
				"status":      fraudStatusFraud,
				"outcome":     "fraudulent",
				"outcomeNote": "Customer denied transaction. Card blocked and dispute initiated.",
			}
			if isLegitimate {
				patch["status"] = fraudStatusSafe
				patch["outcome"] = "safe"
				patch["outcomeNote"] = "Customer confirmed transaction as legitimate."
			}

			if err := storex.Merge(ctx, deps.Store, contractx.FamilyFraud, c.ID, patch); err != nil {
				return storeFailure(tool, err), nil
			}
			rec := storex.Record{ID: c.ID, Timestamp: now, Data: patch}
			deps.notify(ctx, contractx.FamilyFraud, rec)

			wf.Finalized(sess, now)
			sess.Reset(now)
			log.Info().Str("case", c.ID).Str("outcome", patch["outcome"].(string)).Msg("fraud case resolved")

			if isLegitimate {
				return reply(tool, "Transaction confirmed as safe. Your account is secure. Thank you."), nil
			}
			return reply(tool, "We've blocked your card and initiated a dispute. You'll receive a replacement card in 3-5 business days."), nil
		}

		return DefaultExecutor(contractx.FamilyFraud)(ctx, sess, tool, args)
	}
}

// loadedCase fetches the case the session points at. The not-loaded reply
// matches the source system's wording.
func loadedCase(ctx context.Context, deps Deps, sess *sessionx.Session, tool string) (fraudCase, contractx.ToolResult, bool) {
	if sess.CaseID == "" {
		return fraudCase{}, reply(tool, "Unable to retrieve your case. May I have your name first?"), false
	}
	records, err := deps.Store.ReadAll(ctx, contractx.FamilyFraud)
	if err != nil {
		return fraudCase{}, storeFailure(tool, err), false
	}
	rec, ok := storex.FindByID(records, sess.CaseID)
	if !ok {
		return fraudCase{}, reply(tool, "Unable to retrieve your case. Please try again."), false
	}
	return fraudCaseFromRecord(rec), contractx.ToolResult{}, true
}

func verificationPassed(sess *sessionx.Session) bool {
	v := sess.Verification
	return v != nil && v.Passed != nil && *v.Passed
}
