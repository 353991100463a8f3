package simulation

import (
	"context"
	"strings"

	"github.com/ignite/audience-simulator/internal/domain"
	"github.com/ignite/audience-simulator/internal/oracle"
	"github.com/ignite/audience-simulator/internal/pkg/logger"
)

// Heuristic thresholds used when the oracle path fails. The open-rate
// branches are mutually exclusive; the spam check stacks on top.
const (
	lowOpenRate  = 20
	highOpenRate = 40
	highSpamRate = 10
)

// InsightGenerator summarizes a run into qualitative insights. It prefers
// an oracle-written summary and falls back to fixed threshold heuristics on
// any failure along the oracle path — no partial or hybrid results.
type InsightGenerator struct {
	oracle oracle.Oracle
}

// NewInsightGenerator builds a generator over the given oracle.
func NewInsightGenerator(o oracle.Oracle) *InsightGenerator {
	return &InsightGenerator{oracle: o}
}

type insightsOutput struct {
	Insights []struct {
		Type        string `json:"type"`
		Title       string `json:"title"`
		Description string `json:"description"`
	} `json:"insights"`
}

// Generate returns at least the heuristic insights for the metrics; oracle
// order is preserved when the oracle path succeeds.
func (g *InsightGenerator) Generate(ctx context.Context, d domain.Draft, m domain.Metrics, responses []domain.Response) []domain.Insight {
	if insights, ok := g.fromOracle(ctx, d, m, responses); ok {
		return insights
	}
	return heuristicInsights(m)
}

func (g *InsightGenerator) fromOracle(ctx context.Context, d domain.Draft, m domain.Metrics, responses []domain.Response) ([]domain.Insight, bool) {
	raw := g.oracle.Predict(ctx, AnalyzeResultsPrompt(d, m, responses))

	var out insightsOutput
	if err := oracle.DecodeObject(raw, &out); err != nil {
		logger.Warn("insight analysis output unusable, using heuristics", "error", err)
		return nil, false
	}
	if len(out.Insights) == 0 {
		return nil, false
	}

	insights := make([]domain.Insight, 0, len(out.Insights))
	for _, item := range out.Insights {
		title := item.Title
		if title == "" {
			title = "Insight"
		}
		insights = append(insights, domain.Insight{
			Type:        normalizeInsightType(item.Type),
			Title:       title,
			Description: item.Description,
		})
	}
	logger.Debug("generated oracle insights", "count", len(insights))
	return insights, true
}

// normalizeInsightType clamps oracle-supplied types into the enum: models
// like to invent "issue", which maps to negative; everything else unknown
// becomes a warning.
func normalizeInsightType(s string) domain.InsightType {
	s = strings.ToLower(s)
	switch domain.InsightType(s) {
	case domain.InsightPositive, domain.InsightNegative, domain.InsightWarning:
		return domain.InsightType(s)
	}
	if s == "issue" {
		return domain.InsightNegative
	}
	return domain.InsightWarning
}

// heuristicInsights is the deterministic fallback: fixed copy keyed on
// coarse thresholds, evaluated in a fixed order.
func heuristicInsights(m domain.Metrics) []domain.Insight {
	var insights []domain.Insight

	if m.OpenRate < lowOpenRate {
		insights = append(insights, domain.Insight{
			Type:        domain.InsightNegative,
			Title:       "Low open rate",
			Description: "The subject line is not compelling enough for this audience.",
		})
	} else if m.OpenRate > highOpenRate {
		insights = append(insights, domain.Insight{
			Type:        domain.InsightPositive,
			Title:       "High open rate",
			Description: "The subject line works well for this audience.",
		})
	}

	if m.SpamRate > highSpamRate {
		insights = append(insights, domain.Insight{
			Type:        domain.InsightWarning,
			Title:       "High spam risk",
			Description: "Many recipients flagged the email as spam. Review trigger words in the subject and body.",
		})
	}

	return insights
}
