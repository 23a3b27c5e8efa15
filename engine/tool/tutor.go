package tool

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	contractx "github.com/shristirwt/ten-days-of-voice-agents-2025/engine/contract"
	matchx "github.com/shristirwt/ten-days-of-voice-agents-2025/engine/match"
	sessionx "github.com/shristirwt/ten-days-of-voice-agents-2025/engine/session"
)

const (
	ToolTutorExplain  = "tutor.explain"
	ToolTutorQuestion = "tutor.question"
	ToolTutorScore    = "tutor.score"
)

func tutorSpecs() []contractx.ToolSpec {
	return []contractx.ToolSpec{
		{
			Name: ToolTutorExplain,
			Desc: "Explain a learning concept in simple language.",
			Params: []contractx.ParamSpec{
				{Name: "conceptId", Type: contractx.ParamString, Desc: "Concept id, e.g. variables, loops, functions", Required: true},
			},
		},
		{
			Name: ToolTutorQuestion,
			Desc: "Ask the quiz question for a concept.",
			Params: []contractx.ParamSpec{
				{Name: "conceptId", Type: contractx.ParamString, Desc: "Concept id", Required: true},
			},
		},
		{
			Name: ToolTutorScore,
			Desc: "Score the learner's own explanation of a concept and give feedback.",
			Params: []contractx.ParamSpec{
				{Name: "conceptId", Type: contractx.ParamString, Desc: "Concept id being explained", Required: true},
				{Name: "explanation", Type: contractx.ParamString, Desc: "The learner's explanation in their own words", Required: true},
			},
		},
	}
}

func tutorExecutor(deps Deps) Executor {
	return func(ctx context.Context, sess *sessionx.Session, tool string, args map[string]any) (contractx.ToolResult, error) {
		switch tool {
		case ToolTutorExplain:
			id, _ := stringArg(args, "conceptId")
			concept, err := deps.Concepts.ByID(id)
			if err != nil {
				if errors.Is(err, contractx.ErrNotFound) {
					return reply(tool, fmt.Sprintf("Sorry, I don't know about '%s'. I can teach: %s.",
						id, joinComma(deps.Concepts.IDs()))), nil
				}
				return contractx.ToolResult{}, err
			}
			log.Info().Str("concept", concept.ID).Msg("explaining concept")
			return reply(tool, fmt.Sprintf("Great! Let me explain %s: %s", concept.Title, concept.Summary)), nil

		case ToolTutorQuestion:
			id, _ := stringArg(args, "conceptId")
			concept, err := deps.Concepts.ByID(id)
			if err != nil {
				if errors.Is(err, contractx.ErrNotFound) {
					return reply(tool, fmt.Sprintf("Sorry, I don't know about '%s'. I can quiz you on: %s.",
						id, joinComma(deps.Concepts.IDs()))), nil
				}
				return contractx.ToolResult{}, err
			}
			if concept.Question == "" {
				return reply(tool, fmt.Sprintf("I don't have a quiz question for %s yet. Want to try teaching it back instead?", concept.Title)), nil
			}
			return reply(tool, concept.Question), nil

		case ToolTutorScore:
			id, _ := stringArg(args, "conceptId")
			concept, err := deps.Concepts.ByID(id)
			if err != nil {
				if errors.Is(err, contractx.ErrNotFound) {
					return reply(tool, fmt.Sprintf("Sorry, I don't know about '%s'. Available concepts: %s.",
						id, joinComma(deps.Concepts.IDs()))), nil
				}
				return contractx.ToolResult{}, err
			}
			explanation, ok := stringArg(args, "explanation")
			if !ok {
				return reply(tool, "I didn't hear your explanation. Could you please explain the concept to me?"), nil
			}

			score := matchx.ScoreExplanation(concept.Summary, explanation)
			log.Info().
				Str("concept", concept.ID).
				Float64("percent", score.Percent).
				Str("tier", string(score.Tier)).
				Msg("explanation scored")
			return contractx.ToolResult{
				Tool:  tool,
				Reply: tutorFeedback(concept.Title, score),
				Data:  score,
			}, nil
		}

		return DefaultExecutor(contractx.FamilyTutor)(ctx, sess, tool, args)
	}
}

func tutorFeedback(title string, score matchx.Score) string {
	missing := score.MissingToMention()

	switch score.Tier {
	case matchx.TierExcellent:
		feedback := fmt.Sprintf("Excellent! You explained %s really well! You covered: %s. ",
			title, joinComma(score.Mentioned))
		if len(missing) > 0 {
			feedback += fmt.Sprintf("One small thing you could add is: %s. ", joinComma(missing))
		}
		return feedback + "You're mastering this concept!"

	case matchx.TierGood:
		feedback := fmt.Sprintf("Good job! You got the main idea right. You mentioned: %s. ",
			joinComma(score.Mentioned))
		feedback += fmt.Sprintf("But remember, %s also involves: %s. ", title, joinComma(missing))
		return feedback + "You're on the right track!"

	default:
		covered := "a few ideas"
		if len(score.Mentioned) > 0 {
			covered = joinComma(score.Mentioned)
		}
		feedback := fmt.Sprintf("I appreciate the effort! You mentioned some good points: %s. ", covered)
		feedback += fmt.Sprintf("But %s is really about: %s. ", title, joinComma(missing))
		return feedback + "Let me re-explain this, and you can try again!"
	}
}
