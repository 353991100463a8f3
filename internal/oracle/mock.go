package oracle

import (
	"context"
	"encoding/json"
	"math/rand"
	"strings"
	"sync"
)

// Mock is an offline oracle for tests and backendless operation. It sniffs
// the phase marker embedded in every stage prompt and returns syntactically
// valid JSON with plausible values for that phase's fields. Prompts with no
// recognized marker get EmptyResponse, which exercises the callers'
// fallback paths.
type Mock struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewMock creates a mock oracle. The seed makes a test run reproducible.
func NewMock(seed int64) *Mock {
	return &Mock{rng: rand.New(rand.NewSource(seed))}
}

// Predict returns a canned JSON response for the phase the prompt belongs to.
func (m *Mock) Predict(_ context.Context, prompt string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch {
	case strings.Contains(prompt, "Phase A"):
		reason := "Subject line was catchy"
		if m.rng.Float64() > 0.5 {
			reason = "Subject looked generic"
		}
		return mustJSON(map[string]interface{}{
			"action":          pick(m.rng, "opened", "opened", "ignored", "spam"),
			"reason":          reason,
			"thought_process": "Scanning the inbox between meetings, deciding on the subject alone.",
		})

	case strings.Contains(prompt, "Phase B"):
		return mustJSON(map[string]interface{}{
			"attention_level": pick(m.rng, "high", "low"),
			"stopped_at_line": 3 + m.rng.Intn(8),
			"impression":      "Skimmed the first paragraph, slowed down at the numbers.",
		})

	case strings.Contains(prompt, "Phase C"):
		replyText := ""
		if m.rng.Float64() > 0.5 {
			replyText = "Thanks, this looks interesting. Can you send pricing?"
		}
		return mustJSON(map[string]interface{}{
			"final_action":       pick(m.rng, "clicked", "replied", "opened"),
			"reply_text":         replyText,
			"internal_monologue": "I need this solution right now.",
		})
	}

	return EmptyResponse
}

func pick(rng *rand.Rand, options ...string) string {
	return options[rng.Intn(len(options))]
}

func mustJSON(v map[string]interface{}) string {
	data, _ := json.Marshal(v)
	return string(data)
}
