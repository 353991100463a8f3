package simulation

import (
	"context"
	"strings"

	"github.com/ignite/audience-simulator/internal/domain"
	"github.com/ignite/audience-simulator/internal/oracle"
	"github.com/ignite/audience-simulator/internal/pkg/logger"
	"github.com/ignite/audience-simulator/internal/similarity"
)

// Defaults used when oracle output cannot be parsed. The run must complete
// with well-formed responses no matter what the oracle returns.
const (
	parseFailureReason  = "Failed to parse decision"
	parseFailureThought = "Error parsing oracle response"
	undecidedMonologue  = "Undecided"
	emptyComment        = "No comment"
)

// DecisionEngine runs a single persona through the staged decision pipeline:
// SCAN terminates on ignored/spam, otherwise OPEN leads to ACT which may
// upgrade the action to clicked or replied. The engine owns all oracle
// response parsing, validation, and clamping; it never returns an action
// outside the five-value enum.
type DecisionEngine struct {
	oracle oracle.Oracle
	scorer similarity.Scorer
}

// NewDecisionEngine builds an engine over the given oracles.
func NewDecisionEngine(o oracle.Oracle, s similarity.Scorer) *DecisionEngine {
	return &DecisionEngine{oracle: o, scorer: s}
}

// scanOutput is the Phase A oracle contract.
type scanOutput struct {
	Action         string `json:"action"`
	Reason         string `json:"reason"`
	ThoughtProcess string `json:"thought_process"`
}

// actionOutput is the Phase C oracle contract.
type actionOutput struct {
	FinalAction       string `json:"final_action"`
	ReplyText         string `json:"reply_text"`
	InternalMonologue string `json:"internal_monologue"`
}

// Decide produces the persona's response to the draft. It always returns a
// complete Response; oracle failures degrade to documented defaults.
func (e *DecisionEngine) Decide(ctx context.Context, d domain.Draft, p domain.Persona) domain.Response {
	relevance := e.scorer.Score(ctx, d.Subject, p.Context())

	scan := e.scan(ctx, d, p, relevance)
	action := domain.Action(strings.ToLower(scan.Action))
	switch action {
	case domain.ActionOpened, domain.ActionIgnored, domain.ActionSpam:
	default:
		action = domain.ActionIgnored
	}

	reason := scan.Reason
	if reason == "" {
		reason = "Not relevant"
	}
	detailed := scan.ThoughtProcess
	if detailed == "" {
		detailed = reason
	}
	comment := reason

	if action == domain.ActionOpened {
		act := e.act(ctx, d, p)

		finalAction := domain.Action(strings.ToLower(act.FinalAction))
		// Only clicked and replied may override; anything else (including
		// actions outside the enum) leaves the persona at opened.
		if finalAction == domain.ActionClicked || finalAction == domain.ActionReplied {
			action = finalAction
		}

		monologue := act.InternalMonologue
		if monologue == "" {
			monologue = reason
		}
		if action == domain.ActionReplied && act.ReplyText != "" {
			comment = act.ReplyText
		} else {
			comment = monologue
		}
		detailed = monologue
	}

	if comment == "" {
		comment = emptyComment
	}

	return domain.Response{
		Persona:           p,
		Action:            action,
		Sentiment:         domain.SentimentNeutral,
		Comment:           comment,
		DetailedReasoning: detailed,
	}
}

func (e *DecisionEngine) scan(ctx context.Context, d domain.Draft, p domain.Persona, relevance float64) scanOutput {
	raw := e.oracle.Predict(ctx, InboxScanPrompt(p, d, relevance))

	var out scanOutput
	if err := oracle.Decode(raw, &out); err != nil || out.Action == "" {
		logger.Warn("scan stage output unusable, clamping to ignored",
			"persona", p.ID, "error", err)
		return scanOutput{
			Action:         string(domain.ActionIgnored),
			Reason:         parseFailureReason,
			ThoughtProcess: parseFailureThought,
		}
	}
	return out
}

func (e *DecisionEngine) act(ctx context.Context, d domain.Draft, p domain.Persona) actionOutput {
	raw := e.oracle.Predict(ctx, TakeActionPrompt(p, d))

	var out actionOutput
	if err := oracle.Decode(raw, &out); err != nil || out.FinalAction == "" {
		logger.Warn("action stage output unusable, keeping opened",
			"persona", p.ID, "error", err)
		return actionOutput{
			FinalAction:       string(domain.ActionOpened),
			InternalMonologue: undecidedMonologue,
		}
	}
	return out
}
