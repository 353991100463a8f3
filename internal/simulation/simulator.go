// Package simulation implements the persona decision pipeline: per-persona
// staged decisions against a text-generation oracle, streaming progress
// events, metrics aggregation, and insight generation.
package simulation

import (
	"context"
	"hash/fnv"
	"time"

	"github.com/google/uuid"

	"github.com/ignite/audience-simulator/internal/domain"
	"github.com/ignite/audience-simulator/internal/oracle"
	"github.com/ignite/audience-simulator/internal/pkg/logger"
	"github.com/ignite/audience-simulator/internal/similarity"
)

// EventType tags entries in a run's event stream.
type EventType string

const (
	// EventProgress is emitted once per persona processed.
	EventProgress EventType = "progress"
	// EventResult carries the terminal SimulationResult, always last.
	EventResult EventType = "result"
	// EventError is emitted by the service layer when a run is interrupted;
	// the pipeline itself never produces it.
	EventError EventType = "error"
)

// Event is one entry in the run's output stream.
type Event struct {
	Type    EventType                `json:"type"`
	Current int                      `json:"current,omitempty"`
	Total   int                      `json:"total,omitempty"`
	Data    *domain.SimulationResult `json:"data,omitempty"`
	Message string                   `json:"message,omitempty"`
}

// Simulator orchestrates a run: it drives each persona through the decision
// engine in population order, aggregates counts, and generates insights.
// A Simulator is stateless across runs; each Run call is a fresh pipeline.
type Simulator struct {
	engine   *DecisionEngine
	insights *InsightGenerator
}

// New builds a simulator over the given oracles.
func New(o oracle.Oracle, s similarity.Scorer) *Simulator {
	return &Simulator{
		engine:   NewDecisionEngine(o, s),
		insights: NewInsightGenerator(o),
	}
}

// Run processes the personas sequentially and returns a lazy, finite event
// stream: one progress event per persona, then exactly one result event,
// then the channel closes. The stream is non-restartable and carries no
// subscriber state. Cancelling ctx abandons remaining work; the channel is
// closed without a result event in that case.
func (s *Simulator) Run(ctx context.Context, draft domain.Draft, personas []domain.Persona) <-chan Event {
	events := make(chan Event)

	go func() {
		defer close(events)

		total := len(personas)
		responses := make([]domain.Response, 0, total)
		counts := map[domain.Action]int{}
		readCount := 0
		forwardCount := 0

		logger.Info("simulation started", "audience", draft.Audience, "total", total)

		for i, p := range personas {
			if ctx.Err() != nil {
				return
			}

			resp := s.engine.Decide(ctx, draft, p)
			responses = append(responses, resp)
			counts[resp.Action]++

			// A persona that opened, clicked, or replied necessarily read
			// the email.
			switch resp.Action {
			case domain.ActionOpened, domain.ActionClicked, domain.ActionReplied:
				readCount++
			}
			if forwards(p, resp.Action) {
				forwardCount++
			}

			select {
			case events <- Event{Type: EventProgress, Current: i + 1, Total: total}:
			case <-ctx.Done():
				return
			}
		}

		metrics := computeMetrics(counts, readCount, forwardCount, total)
		insights := s.insights.Generate(ctx, draft, metrics, responses)

		result := &domain.SimulationResult{
			ID:        uuid.New().String(),
			Timestamp: time.Now().UnixMilli(),
			Metrics:   metrics,
			Insights:  insights,
			Responses: responses,
		}

		select {
		case events <- Event{Type: EventResult, Data: result}:
			logger.Info("simulation completed", "run_id", result.ID,
				"open_rate", metrics.OpenRate, "spam_rate", metrics.SpamRate)
		case <-ctx.Done():
		}
	}()

	return events
}

// forwards is the synthetic forward signal: a deterministic low-probability
// rule keyed on persona identity, applied to clickers only. It stands in
// for behavior the pipeline does not model; treat the resulting forwardRate
// as illustrative, not authoritative.
func forwards(p domain.Persona, action domain.Action) bool {
	if action != domain.ActionClicked {
		return false
	}
	h := fnv.New32a()
	h.Write([]byte(p.ID))
	return h.Sum32()%5 == 0
}

// computeMetrics derives the seven integer rates. Integer division gives
// floor(count/total*100); a zero total zeroes every rate.
func computeMetrics(counts map[domain.Action]int, readCount, forwardCount, total int) domain.Metrics {
	rate := func(count int) int {
		if total == 0 {
			return 0
		}
		return count * 100 / total
	}
	return domain.Metrics{
		OpenRate:    rate(counts[domain.ActionOpened]),
		ClickRate:   rate(counts[domain.ActionClicked]),
		ReplyRate:   rate(counts[domain.ActionReplied]),
		SpamRate:    rate(counts[domain.ActionSpam]),
		IgnoreRate:  rate(counts[domain.ActionIgnored]),
		ForwardRate: rate(forwardCount),
		ReadRate:    rate(readCount),
	}
}
