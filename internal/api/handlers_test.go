package api

import (
	"bufio"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/audience-simulator/internal/domain"
	"github.com/ignite/audience-simulator/internal/oracle"
	"github.com/ignite/audience-simulator/internal/repository/memory"
	"github.com/ignite/audience-simulator/internal/service/runs"
	"github.com/ignite/audience-simulator/internal/similarity"
	"github.com/ignite/audience-simulator/internal/simulation"
)

func setupServer(t *testing.T) (*httptest.Server, *runs.Service) {
	t.Helper()
	sim := simulation.New(oracle.NewMock(7), similarity.Lexical{})
	svc := runs.NewService(sim, memory.NewRunRepo())
	srv := httptest.NewServer(SetupRoutes(NewHandlers(svc)))
	t.Cleanup(srv.Close)
	return srv, svc
}

func simulateBody() string {
	return `{"subject": "Cut cloud spend", "body": "We help teams save.", "cta": "Book a demo", "audience": "saas-ctos", "sample_size": 3}`
}

func TestHealth(t *testing.T) {
	srv, _ := setupServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSimulateStreamsNDJSON(t *testing.T) {
	srv, _ := setupServer(t)

	resp, err := http.Post(srv.URL+"/api/simulate", "application/json",
		strings.NewReader(simulateBody()))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/x-ndjson", resp.Header.Get("Content-Type"))

	var events []simulation.Event
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var ev simulation.Event
		require.NoError(t, json.Unmarshal([]byte(line), &ev), "line: %s", line)
		events = append(events, ev)
	}
	require.NoError(t, scanner.Err())

	require.Len(t, events, 4, "3 progress events plus 1 result")
	for i := 0; i < 3; i++ {
		assert.Equal(t, simulation.EventProgress, events[i].Type)
		assert.Equal(t, i+1, events[i].Current)
		assert.Equal(t, 3, events[i].Total)
	}
	final := events[3]
	require.Equal(t, simulation.EventResult, final.Type)
	require.NotNil(t, final.Data)
	assert.Len(t, final.Data.Responses, 3)
	assert.NotEmpty(t, final.Data.ID)
}

func TestSimulateRejectsBadJSON(t *testing.T) {
	srv, _ := setupServer(t)

	resp, err := http.Post(srv.URL+"/api/simulate", "application/json",
		strings.NewReader("{not json"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSimulateRejectsInvalidDraft(t *testing.T) {
	srv, _ := setupServer(t)

	resp, err := http.Post(srv.URL+"/api/simulate", "application/json",
		strings.NewReader(`{"subject": "", "body": "x", "sample_size": 3}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body["error"], "subject")
}

func TestListAudiences(t *testing.T) {
	srv, _ := setupServer(t)

	resp, err := http.Get(srv.URL + "/api/audiences")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Audiences []struct {
			ID     string           `json:"id"`
			Name   string           `json:"name"`
			Sample []domain.Persona `json:"sample"`
		} `json:"audiences"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Audiences, 3)
	assert.Len(t, body.Audiences[0].Sample, 3)
}

func TestHistoryLifecycle(t *testing.T) {
	srv, _ := setupServer(t)

	// Empty history first.
	resp, err := http.Get(srv.URL + "/api/history")
	require.NoError(t, err)
	var listing struct {
		Runs []domain.RunSummary `json:"runs"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listing))
	resp.Body.Close()
	assert.Empty(t, listing.Runs)

	// Run once and drain the stream so the result is persisted.
	resp, err = http.Post(srv.URL+"/api/simulate", "application/json",
		strings.NewReader(simulateBody()))
	require.NoError(t, err)
	var runID string
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	for scanner.Scan() {
		var ev simulation.Event
		if json.Unmarshal(scanner.Bytes(), &ev) == nil && ev.Type == simulation.EventResult {
			runID = ev.Data.ID
		}
	}
	resp.Body.Close()
	require.NotEmpty(t, runID)

	// History now holds the run.
	resp, err = http.Get(srv.URL + "/api/history")
	require.NoError(t, err)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listing))
	resp.Body.Close()
	require.Len(t, listing.Runs, 1)
	assert.Equal(t, runID, listing.Runs[0].ID)
	assert.Equal(t, "Cut cloud spend", listing.Runs[0].Subject)

	// Detail view.
	resp, err = http.Get(srv.URL + "/api/history/" + runID)
	require.NoError(t, err)
	var detail domain.RunDetail
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&detail))
	resp.Body.Close()
	assert.Equal(t, runID, detail.ID)
	assert.Len(t, detail.Responses, 3)

	// Clear.
	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/api/history", nil)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/api/history")
	require.NoError(t, err)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listing))
	resp.Body.Close()
	assert.Empty(t, listing.Runs)
}

func TestGetHistoryRunNotFound(t *testing.T) {
	srv, _ := setupServer(t)

	resp, err := http.Get(srv.URL + "/api/history/does-not-exist")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
