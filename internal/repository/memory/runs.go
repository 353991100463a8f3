// Package memory provides in-memory repository implementations, used when
// the server runs without a database and as test doubles.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/ignite/audience-simulator/internal/domain"
	"github.com/ignite/audience-simulator/internal/service/runs"
)

// RunRepo implements runs.Repository in memory.
type RunRepo struct {
	mu    sync.RWMutex
	store map[string]storedRun
}

type storedRun struct {
	draft  domain.Draft
	result domain.SimulationResult
}

// NewRunRepo creates an empty in-memory run repository.
func NewRunRepo() *RunRepo {
	return &RunRepo{store: map[string]storedRun{}}
}

func (r *RunRepo) SaveRun(_ context.Context, draft domain.Draft, result *domain.SimulationResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.store[result.ID] = storedRun{draft: draft, result: *result}
	return nil
}

func (r *RunRepo) ListRuns(_ context.Context) ([]domain.RunSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.RunSummary, 0, len(r.store))
	for _, sr := range r.store {
		out = append(out, domain.RunSummary{
			ID:        sr.result.ID,
			Timestamp: sr.result.Timestamp,
			Subject:   sr.draft.Subject,
			Audience:  sr.draft.Audience,
			Metrics:   sr.result.Metrics,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp > out[j].Timestamp })
	return out, nil
}

func (r *RunRepo) GetRun(_ context.Context, id string) (*domain.RunDetail, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sr, ok := r.store[id]
	if !ok {
		return nil, runs.ErrNotFound
	}
	return &domain.RunDetail{
		ID:        sr.result.ID,
		Timestamp: sr.result.Timestamp,
		Subject:   sr.draft.Subject,
		Body:      sr.draft.Body,
		CTA:       sr.draft.CTA,
		Audience:  sr.draft.Audience,
		Metrics:   sr.result.Metrics,
		Insights:  sr.result.Insights,
		Responses: sr.result.Responses,
	}, nil
}

func (r *RunRepo) DeleteRuns(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.store = map[string]storedRun{}
	return nil
}
