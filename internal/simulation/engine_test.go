package simulation_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ignite/audience-simulator/internal/domain"
	"github.com/ignite/audience-simulator/internal/similarity"
	"github.com/ignite/audience-simulator/internal/simulation"
)

// scriptedOracle returns fixed responses per pipeline phase.
type scriptedOracle struct {
	scan    string
	act     string
	analyze string
}

func (s scriptedOracle) Predict(_ context.Context, prompt string) string {
	switch {
	case strings.Contains(prompt, "Phase A"):
		return s.scan
	case strings.Contains(prompt, "Phase C"):
		return s.act
	default:
		return s.analyze
	}
}

func testDraft() domain.Draft {
	return domain.Draft{
		Subject:    "Cut your cloud costs by 40%",
		Body:       "We help engineering teams reduce infrastructure spend.",
		CTA:        "Book a demo",
		Audience:   "saas-ctos",
		SampleSize: 1,
	}
}

func testPersona() domain.Persona {
	return domain.Persona{
		ID:             "p-001",
		Name:           "Dana",
		Role:           "CTO",
		Company:        "Acme SaaS",
		Psychographics: "pragmatic, numbers-driven",
		PastBehavior:   "opens cost-related emails, rarely replies",
	}
}

func newEngine(o scriptedOracle) *simulation.DecisionEngine {
	return simulation.NewDecisionEngine(o, similarity.Lexical{})
}

func TestDecideMalformedScanClampsToIgnored(t *testing.T) {
	engine := newEngine(scriptedOracle{scan: "not json"})

	resp := engine.Decide(context.Background(), testDraft(), testPersona())

	assert.Equal(t, domain.ActionIgnored, resp.Action)
	assert.Equal(t, "Failed to parse decision", resp.Comment)
	assert.Equal(t, domain.SentimentNeutral, resp.Sentiment)
}

func TestDecideSpamTerminates(t *testing.T) {
	engine := newEngine(scriptedOracle{
		scan: `{"action": "SPAM", "reason": "Looks like a cold blast", "thought_process": "Unknown sender, aggressive subject"}`,
		act:  `{"final_action": "clicked"}`, // must never be consulted
	})

	resp := engine.Decide(context.Background(), testDraft(), testPersona())

	assert.Equal(t, domain.ActionSpam, resp.Action)
	assert.Equal(t, "Looks like a cold blast", resp.Comment)
	assert.Equal(t, "Unknown sender, aggressive subject", resp.DetailedReasoning)
}

func TestDecideOverrideGuard(t *testing.T) {
	engine := newEngine(scriptedOracle{
		scan: `{"action": "opened", "reason": "Relevant subject"}`,
		act:  `{"final_action": "forwarded", "internal_monologue": "I should send this to the team"}`,
	})

	resp := engine.Decide(context.Background(), testDraft(), testPersona())

	assert.Equal(t, domain.ActionOpened, resp.Action, "only clicked/replied may override opened")
	assert.Equal(t, "I should send this to the team", resp.Comment)
	assert.Equal(t, "I should send this to the team", resp.DetailedReasoning)
}

func TestDecideRepliedUsesReplyText(t *testing.T) {
	engine := newEngine(scriptedOracle{
		scan: `{"action": "opened", "reason": "Worth a look"}`,
		act:  `{"final_action": "replied", "reply_text": "Send me the pricing sheet.", "internal_monologue": "Could be useful"}`,
	})

	resp := engine.Decide(context.Background(), testDraft(), testPersona())

	assert.Equal(t, domain.ActionReplied, resp.Action)
	assert.Equal(t, "Send me the pricing sheet.", resp.Comment)
	assert.Equal(t, "Could be useful", resp.DetailedReasoning)
}

func TestDecideRepliedWithoutReplyTextFallsBack(t *testing.T) {
	engine := newEngine(scriptedOracle{
		scan: `{"action": "opened", "reason": "Worth a look"}`,
		act:  `{"final_action": "replied", "internal_monologue": "Asking for details"}`,
	})

	resp := engine.Decide(context.Background(), testDraft(), testPersona())

	assert.Equal(t, domain.ActionReplied, resp.Action)
	assert.Equal(t, "Asking for details", resp.Comment)
}

func TestDecideMalformedActionStageKeepsOpened(t *testing.T) {
	engine := newEngine(scriptedOracle{
		scan: `{"action": "opened", "reason": "Relevant subject"}`,
		act:  "```json\ngarbage",
	})

	resp := engine.Decide(context.Background(), testDraft(), testPersona())

	assert.Equal(t, domain.ActionOpened, resp.Action)
	assert.Equal(t, "Undecided", resp.Comment)
	assert.Equal(t, "Undecided", resp.DetailedReasoning)
}

func TestDecideInvalidScanActionClampsButKeepsReason(t *testing.T) {
	engine := newEngine(scriptedOracle{
		scan: `{"action": "deleted", "reason": "Not my area"}`,
	})

	resp := engine.Decide(context.Background(), testDraft(), testPersona())

	assert.Equal(t, domain.ActionIgnored, resp.Action)
	assert.Equal(t, "Not my area", resp.Comment)
}

func TestDecideScanWithoutReasonGetsGenericComment(t *testing.T) {
	engine := newEngine(scriptedOracle{
		scan: `{"action": "ignored"}`,
	})

	resp := engine.Decide(context.Background(), testDraft(), testPersona())

	assert.Equal(t, domain.ActionIgnored, resp.Action)
	assert.Equal(t, "Not relevant", resp.Comment)
	assert.NotEmpty(t, resp.DetailedReasoning)
}

func TestDecideActionAlwaysInEnum(t *testing.T) {
	hostile := []string{
		"", "{}", "null", "[1,2,3]", `{"action": 42}`,
		`{"action": "FORWARDED"}`, "```json\n{\"action\":", "plain text refusal",
	}
	for _, raw := range hostile {
		engine := newEngine(scriptedOracle{scan: raw, act: raw})
		resp := engine.Decide(context.Background(), testDraft(), testPersona())
		assert.True(t, domain.ValidAction(string(resp.Action)), "raw=%q produced %q", raw, resp.Action)
		assert.NotEmpty(t, resp.Comment)
	}
}
