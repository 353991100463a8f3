package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/ignite/audience-simulator/internal/domain"
	"github.com/ignite/audience-simulator/internal/service/runs"
)

// RunRepo implements runs.Repository against PostgreSQL.
//
// Schema:
//
//	simulation_runs(id, ts, subject, body, cta, audience, sample_size,
//	                metrics JSONB, insights JSONB)
//	simulation_responses(run_id, idx, persona JSONB, action, sentiment,
//	                     comment, detailed_reasoning)
type RunRepo struct{ db *sql.DB }

// NewRunRepo creates a Postgres-backed run repository.
func NewRunRepo(db *sql.DB) *RunRepo { return &RunRepo{db: db} }

func (r *RunRepo) SaveRun(ctx context.Context, draft domain.Draft, result *domain.SimulationResult) error {
	metrics, err := json.Marshal(result.Metrics)
	if err != nil {
		return fmt.Errorf("marshal metrics: %w", err)
	}
	insights, err := json.Marshal(result.Insights)
	if err != nil {
		return fmt.Errorf("marshal insights: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save run: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO simulation_runs
			(id, ts, subject, body, cta, audience, sample_size, metrics, insights)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, result.ID, result.Timestamp, draft.Subject, draft.Body, draft.CTA,
		draft.Audience, draft.SampleSize, metrics, insights)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for i, resp := range result.Responses {
		persona, err := json.Marshal(resp.Persona)
		if err != nil {
			return fmt.Errorf("marshal persona: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO simulation_responses
				(run_id, idx, persona, action, sentiment, comment, detailed_reasoning)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, result.ID, i, persona, string(resp.Action), string(resp.Sentiment),
			resp.Comment, resp.DetailedReasoning)
		if err != nil {
			return fmt.Errorf("insert response %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save run: %w", err)
	}
	return nil
}

func (r *RunRepo) ListRuns(ctx context.Context) ([]domain.RunSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, ts, subject, audience, metrics
		FROM simulation_runs
		ORDER BY ts DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	out := []domain.RunSummary{}
	for rows.Next() {
		var s domain.RunSummary
		var metrics []byte
		if err := rows.Scan(&s.ID, &s.Timestamp, &s.Subject, &s.Audience, &metrics); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if err := json.Unmarshal(metrics, &s.Metrics); err != nil {
			return nil, fmt.Errorf("decode metrics for %s: %w", s.ID, err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *RunRepo) GetRun(ctx context.Context, id string) (*domain.RunDetail, error) {
	d := &domain.RunDetail{}
	var metrics, insights []byte
	err := r.db.QueryRowContext(ctx, `
		SELECT id, ts, subject, body, cta, audience, metrics, insights
		FROM simulation_runs
		WHERE id = $1
	`, id).Scan(&d.ID, &d.Timestamp, &d.Subject, &d.Body, &d.CTA, &d.Audience,
		&metrics, &insights)
	if err == sql.ErrNoRows {
		return nil, runs.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	if err := json.Unmarshal(metrics, &d.Metrics); err != nil {
		return nil, fmt.Errorf("decode metrics: %w", err)
	}
	if err := json.Unmarshal(insights, &d.Insights); err != nil {
		return nil, fmt.Errorf("decode insights: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT persona, action, sentiment, comment, detailed_reasoning
		FROM simulation_responses
		WHERE run_id = $1
		ORDER BY idx
	`, id)
	if err != nil {
		return nil, fmt.Errorf("get responses: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var resp domain.Response
		var persona []byte
		var action, sentiment string
		if err := rows.Scan(&persona, &action, &sentiment, &resp.Comment, &resp.DetailedReasoning); err != nil {
			return nil, fmt.Errorf("scan response: %w", err)
		}
		if err := json.Unmarshal(persona, &resp.Persona); err != nil {
			return nil, fmt.Errorf("decode persona: %w", err)
		}
		resp.Action = domain.Action(action)
		resp.Sentiment = domain.Sentiment(sentiment)
		d.Responses = append(d.Responses, resp)
	}
	return d, rows.Err()
}

func (r *RunRepo) DeleteRuns(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete runs: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM simulation_responses`); err != nil {
		return fmt.Errorf("delete responses: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM simulation_runs`); err != nil {
		return fmt.Errorf("delete runs: %w", err)
	}
	return tx.Commit()
}
