package oracle

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockPhaseA(t *testing.T) {
	m := NewMock(1)
	raw := m.Predict(context.Background(), "… Phase A: Inbox Scan …")

	var v struct {
		Action string `json:"action"`
		Reason string `json:"reason"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &v))
	assert.Contains(t, []string{"opened", "ignored", "spam"}, v.Action)
	assert.NotEmpty(t, v.Reason)
}

func TestMockPhaseC(t *testing.T) {
	m := NewMock(1)
	raw := m.Predict(context.Background(), "… Phase C: Action …")

	var v struct {
		FinalAction string `json:"final_action"`
		Monologue   string `json:"internal_monologue"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &v))
	assert.Contains(t, []string{"clicked", "replied", "opened"}, v.FinalAction)
	assert.NotEmpty(t, v.Monologue)
}

func TestMockUnknownPhase(t *testing.T) {
	m := NewMock(1)
	assert.Equal(t, EmptyResponse, m.Predict(context.Background(), "no marker here"))
}

func TestMockSeedReproducible(t *testing.T) {
	a := NewMock(42)
	b := NewMock(42)
	prompt := "… Phase A: Inbox Scan …"
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Predict(context.Background(), prompt), b.Predict(context.Background(), prompt))
	}
}
