package simulation_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/audience-simulator/internal/domain"
	"github.com/ignite/audience-simulator/internal/oracle"
	"github.com/ignite/audience-simulator/internal/similarity"
	"github.com/ignite/audience-simulator/internal/simulation"
)

// seqOracle pops a canned scan response per call, so each persona in a
// run can take a different path.
type seqOracle struct {
	mu    sync.Mutex
	scans []string
	act   string
}

func (s *seqOracle) Predict(_ context.Context, prompt string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if strings.Contains(prompt, "Phase A") {
		if len(s.scans) == 0 {
			return oracle.EmptyResponse
		}
		next := s.scans[0]
		s.scans = s.scans[1:]
		return next
	}
	if strings.Contains(prompt, "Phase C") {
		return s.act
	}
	return oracle.EmptyResponse
}

func makePersonas(n int) []domain.Persona {
	out := make([]domain.Persona, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, domain.Persona{
			ID:   fmt.Sprintf("p-%03d", i),
			Name: fmt.Sprintf("Persona %d", i),
			Role: "CTO",
		})
	}
	return out
}

func drainEvents(t *testing.T, ch <-chan simulation.Event) []simulation.Event {
	t.Helper()
	var events []simulation.Event
	for ev := range ch {
		events = append(events, ev)
	}
	return events
}

func TestRunEmitsProgressThenResult(t *testing.T) {
	o := &seqOracle{scans: []string{
		`{"action": "spam", "reason": "no"}`,
		`{"action": "spam", "reason": "no"}`,
		`{"action": "spam", "reason": "no"}`,
		`{"action": "spam", "reason": "no"}`,
		`{"action": "spam", "reason": "no"}`,
	}}
	sim := simulation.New(o, similarity.Lexical{})

	events := drainEvents(t, sim.Run(context.Background(), testDraft(), makePersonas(5)))

	require.Len(t, events, 6)
	for i := 0; i < 5; i++ {
		assert.Equal(t, simulation.EventProgress, events[i].Type)
		assert.Equal(t, i+1, events[i].Current)
		assert.Equal(t, 5, events[i].Total)
	}
	final := events[5]
	assert.Equal(t, simulation.EventResult, final.Type)
	require.NotNil(t, final.Data)
	assert.NotEmpty(t, final.Data.ID)
	assert.NotZero(t, final.Data.Timestamp)
	assert.Len(t, final.Data.Responses, 5)
}

func TestRunEmptyPopulation(t *testing.T) {
	sim := simulation.New(&seqOracle{}, similarity.Lexical{})

	events := drainEvents(t, sim.Run(context.Background(), testDraft(), nil))

	require.Len(t, events, 1)
	require.Equal(t, simulation.EventResult, events[0].Type)
	res := events[0].Data
	require.NotNil(t, res)
	assert.Empty(t, res.Responses)
	assert.Equal(t, domain.Metrics{}, res.Metrics)
}

func TestRunMetricsFloorDivision(t *testing.T) {
	// 1 opened out of 3 personas: 100/3 truncates to 33.
	o := &seqOracle{
		scans: []string{
			`{"action": "opened", "reason": "yes"}`,
			`{"action": "ignored", "reason": "no"}`,
			`{"action": "ignored", "reason": "no"}`,
		},
		act: `{"final_action": "opened", "internal_monologue": "skimmed it"}`,
	}
	sim := simulation.New(o, similarity.Lexical{})

	events := drainEvents(t, sim.Run(context.Background(), testDraft(), makePersonas(3)))

	res := events[len(events)-1].Data
	require.NotNil(t, res)
	assert.Equal(t, 33, res.Metrics.OpenRate)
	assert.Equal(t, 33, res.Metrics.ReadRate)
	assert.Equal(t, 66, res.Metrics.IgnoreRate)
	assert.Equal(t, 0, res.Metrics.ClickRate)
	assert.Equal(t, 0, res.Metrics.SpamRate)
}

func TestRunActionCountsSumToPopulation(t *testing.T) {
	sim := simulation.New(oracle.NewMock(42), similarity.Lexical{})
	personas := makePersonas(20)

	events := drainEvents(t, sim.Run(context.Background(), testDraft(), personas))

	res := events[len(events)-1].Data
	require.NotNil(t, res)
	require.Len(t, res.Responses, 20)

	counts := map[domain.Action]int{}
	for _, r := range res.Responses {
		require.True(t, domain.ValidAction(string(r.Action)))
		counts[r.Action]++
	}
	sum := 0
	for _, c := range counts {
		sum += c
	}
	assert.Equal(t, 20, sum)
	assert.Equal(t, counts[domain.ActionSpam]*100/20, res.Metrics.SpamRate)
	assert.Equal(t, counts[domain.ActionClicked]*100/20, res.Metrics.ClickRate)
}

func TestRunContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	o := &seqOracle{scans: []string{
		`{"action": "ignored", "reason": "no"}`,
		`{"action": "ignored", "reason": "no"}`,
		`{"action": "ignored", "reason": "no"}`,
	}}
	sim := simulation.New(o, similarity.Lexical{})

	ch := sim.Run(ctx, testDraft(), makePersonas(3))
	first, ok := <-ch
	require.True(t, ok)
	assert.Equal(t, simulation.EventProgress, first.Type)
	cancel()

	var sawResult bool
	for ev := range ch {
		if ev.Type == simulation.EventResult {
			sawResult = true
		}
	}
	assert.False(t, sawResult, "cancelled run must not emit a result")
}
