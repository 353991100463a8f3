package domain

// Action enumerates the terminal outcomes of a persona's decision pipeline.
type Action string

const (
	ActionOpened  Action = "opened"
	ActionClicked Action = "clicked"
	ActionReplied Action = "replied"
	ActionSpam    Action = "spam"
	ActionIgnored Action = "ignored"
)

// ValidAction reports whether s is one of the five terminal actions.
func ValidAction(s string) bool {
	switch Action(s) {
	case ActionOpened, ActionClicked, ActionReplied, ActionSpam, ActionIgnored:
		return true
	}
	return false
}

// Sentiment labels a response's tone. Only "neutral" is produced today;
// the field is a reserved extension point for a real classifier.
type Sentiment string

// SentimentNeutral is the fixed sentiment for all responses.
const SentimentNeutral Sentiment = "neutral"

// Response is one persona's simulated outcome. Created exactly once per
// persona per run and immutable afterwards.
type Response struct {
	Persona           Persona   `json:"persona"`
	Action            Action    `json:"action"`
	Sentiment         Sentiment `json:"sentiment"`
	Comment           string    `json:"comment"`
	DetailedReasoning string    `json:"detailedReasoning"`
}

// Metrics holds the seven engagement rates as integer percentages in
// [0,100]. Each is floor(count/total*100); every rate is 0 when total is 0.
type Metrics struct {
	OpenRate    int `json:"openRate"`
	ClickRate   int `json:"clickRate"`
	ReplyRate   int `json:"replyRate"`
	SpamRate    int `json:"spamRate"`
	IgnoreRate  int `json:"ignoreRate"`
	ForwardRate int `json:"forwardRate"`
	ReadRate    int `json:"readRate"`
}

// InsightType classifies a qualitative insight.
type InsightType string

const (
	InsightPositive InsightType = "positive"
	InsightNegative InsightType = "negative"
	InsightWarning  InsightType = "warning"
)

// Insight is a human-readable explanation of aggregate results.
type Insight struct {
	Type        InsightType `json:"type"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
}

// SimulationResult is the terminal artifact of a run. The pipeline hands it
// to the caller and does not persist it itself.
type SimulationResult struct {
	ID        string     `json:"id"`
	Timestamp int64      `json:"timestamp"`
	Metrics   Metrics    `json:"metrics"`
	Insights  []Insight  `json:"insights"`
	Responses []Response `json:"responses"`
}

// RunSummary is the list-view projection of a stored simulation run.
type RunSummary struct {
	ID        string  `json:"id"`
	Timestamp int64   `json:"timestamp"`
	Subject   string  `json:"subject"`
	Audience  string  `json:"audience"`
	Metrics   Metrics `json:"metrics"`
}

// RunDetail is a stored run joined with the draft that produced it.
type RunDetail struct {
	ID        string     `json:"id"`
	Timestamp int64      `json:"timestamp"`
	Subject   string     `json:"subject"`
	Body      string     `json:"body"`
	CTA       string     `json:"cta"`
	Audience  string     `json:"audience"`
	Metrics   Metrics    `json:"metrics"`
	Insights  []Insight  `json:"insights"`
	Responses []Response `json:"responses"`
}
