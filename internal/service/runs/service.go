package runs

import (
	"context"
	"fmt"

	"github.com/ignite/audience-simulator/internal/domain"
	"github.com/ignite/audience-simulator/internal/personas"
	"github.com/ignite/audience-simulator/internal/pkg/logger"
	"github.com/ignite/audience-simulator/internal/simulation"
)

// Service implements run orchestration business logic. It coordinates the
// persona generator, the simulator, and run persistence. All public methods
// are safe for concurrent use if the underlying repository is
// concurrency-safe. A nil repository disables history.
type Service struct {
	sim  *simulation.Simulator
	repo Repository
}

// NewService creates a runs service. repo may be nil.
func NewService(sim *simulation.Simulator, repo Repository) *Service {
	return &Service{sim: sim, repo: repo}
}

// Simulate validates the draft and starts a simulation run. Events arrive
// on the returned channel; it is closed when the run finishes or ctx is
// cancelled. The terminal result is persisted before it is forwarded;
// persistence failure is logged and never fails the run.
func (s *Service) Simulate(ctx context.Context, draft domain.Draft) (<-chan simulation.Event, error) {
	if err := draft.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDraft, err)
	}

	population := personas.Generate(draft.SampleSize, draft.Audience)

	in := s.sim.Run(ctx, draft, population)
	out := make(chan simulation.Event)

	go func() {
		defer close(out)
		for ev := range in {
			if ev.Type == simulation.EventResult && ev.Data != nil {
				s.persist(ctx, draft, ev.Data)
			}
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

func (s *Service) persist(ctx context.Context, draft domain.Draft, result *domain.SimulationResult) {
	if s.repo == nil {
		return
	}
	if err := s.repo.SaveRun(ctx, draft, result); err != nil {
		logger.Warn("failed to persist run", "run_id", result.ID, "error", err.Error())
		return
	}
	logger.Debug("run persisted", "run_id", result.ID)
}

// History returns stored run summaries, newest first. Without a repository
// it returns an empty list.
func (s *Service) History(ctx context.Context) ([]domain.RunSummary, error) {
	if s.repo == nil {
		return []domain.RunSummary{}, nil
	}
	return s.repo.ListRuns(ctx)
}

// Detail returns a full stored run.
func (s *Service) Detail(ctx context.Context, id string) (*domain.RunDetail, error) {
	if s.repo == nil {
		return nil, ErrNotFound
	}
	return s.repo.GetRun(ctx, id)
}

// Clear removes all stored runs.
func (s *Service) Clear(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}
	return s.repo.DeleteRuns(ctx)
}

// Audiences returns the selectable audience descriptors with sample
// personas for each.
func (s *Service) Audiences() []AudienceInfo {
	list := personas.Audiences()
	out := make([]AudienceInfo, 0, len(list))
	for _, a := range list {
		out = append(out, AudienceInfo{
			Audience: a,
			Sample:   personas.Sample(a.ID),
		})
	}
	return out
}

// AudienceInfo is an audience descriptor plus a persona preview.
type AudienceInfo struct {
	personas.Audience
	Sample []domain.Persona `json:"sample"`
}
