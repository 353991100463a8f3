package simulation

import (
	"fmt"
	"strings"

	"github.com/ignite/audience-simulator/internal/domain"
)

// Stage prompts for the persona decision pipeline. Each function is pure:
// persona + draft + intermediate state in, oracle-ready text out. Every
// prompt carries its phase marker (the mock oracle keys on it), the enum
// values the model may use, and a JSON-only instruction.

// InboxScanPrompt renders the Phase A prompt: the persona sees only the
// subject line and decides to open, ignore, or mark as spam.
func InboxScanPrompt(p domain.Persona, d domain.Draft, relevance float64) string {
	return fmt.Sprintf(`You are %s, %s at %s.
Your psychographic profile: %s
Your past behavior: %s

Phase A: Inbox Scan. You are going through your inbox and see a new email.

Email subject: "%s"
Computed relevance to you: %.2f (0.00 = irrelevant, 1.00 = perfect fit)

Instructions:
1. Consider the subject line. Is it relevant to your role and industry?
2. Consider your psychographics. Does this tone appeal to you?
3. Decide: "opened", "ignored", or "spam".

Respond ONLY with JSON:
{
    "thought_process": "Briefly explain your reasoning...",
    "action": "opened",
    "reason": "One sentence explaining the decision for the report"
}
The value of "action" must be exactly one of: "opened", "ignored", "spam".`,
		p.Name, p.Role, p.Company, p.Psychographics, p.PastBehavior,
		d.Subject, relevance)
}

// ReadEmailPrompt renders the Phase B prompt. The pipeline does not invoke
// this stage today; open/ignore and the final action carry the whole
// decision. Kept for the reading-attention extension.
func ReadEmailPrompt(p domain.Persona, d domain.Draft) string {
	return fmt.Sprintf(`You are %s, %s.

Phase B: Reading. You opened the email and are reading its content.

Email body:
"%s"

Instructions:
1. Read the content. Is it valuable? Is it too long?
2. Rate your attention level (high, medium, low).
3. Did you read the whole email?

Respond ONLY with JSON:
{
    "attention_level": "high",
    "stopped_at_line": 10,
    "impression": "A short impression..."
}`,
		p.Name, p.Role, d.Body)
}

// TakeActionPrompt renders the Phase C prompt: the persona has read the
// email and decides what to do about the call to action.
func TakeActionPrompt(p domain.Persona, d domain.Draft) string {
	return fmt.Sprintf(`You are %s, %s.

Phase C: Action. You have read the email. Now decide about the call to action (CTA).

CTA: "%s"

Instructions:
1. Is the CTA clear? Is the value proposition strong enough?
2. Make your final decision: "clicked", "replied", or "opened" (read and closed).
3. If you reply, write a realistic reply in your persona's voice.
4. If you click or do nothing, write your internal monologue.

Respond ONLY with JSON:
{
    "internal_monologue": "Your thoughts...",
    "final_action": "clicked",
    "reply_text": "Your reply (empty if none)"
}
The value of "final_action" must be exactly one of: "clicked", "replied", "opened".`,
		p.Name, p.Role, d.CTA)
}

// analyzeSampleSize caps how many responses are quoted back to the oracle
// when asking for insights. Five is plenty of signal and keeps the prompt
// small.
const analyzeSampleSize = 5

// AnalyzeResultsPrompt renders the aggregate-analysis prompt from the final
// metrics and a capped sample of responses.
func AnalyzeResultsPrompt(d domain.Draft, m domain.Metrics, responses []domain.Response) string {
	var sample strings.Builder
	for i, r := range responses {
		if i >= analyzeSampleSize {
			break
		}
		fmt.Fprintf(&sample, "- %s: %s (%s)\n", r.Persona.Role, r.Action, r.Comment)
	}

	return fmt.Sprintf(`You are an expert email marketing analyst.

Task: analyze the results of a simulated email campaign and provide actionable insights.

Email context:
Subject: "%s"
Audience: %s

Performance metrics:
- Open Rate: %d%%
- Click Rate: %d%%
- Reply Rate: %d%%

Sample of recipient reactions:
%s
Instructions:
1. Identify the main driver behind these results.
2. Look for patterns (who opened, who ignored).
3. Provide 3 concrete insights.

IMPORTANT: use ONLY double quotes for JSON keys and values.

Respond ONLY with JSON:
{
    "insights": [
        {
            "type": "positive",
            "title": "Title",
            "description": "Description."
        }
    ]
}
The value of "type" must be exactly one of: "positive", "negative", "warning".`,
		d.Subject, d.Audience,
		m.OpenRate, m.ClickRate, m.ReplyRate,
		sample.String())
}
