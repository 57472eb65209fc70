package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"kanban-mc/internal/config"
	"kanban-mc/internal/eazybi"
)

const requestBody = `{
	"Account_number": 12345,
	"Report_number": 1234567,
	"Report_token": "largest_token_ever_123",
	"Cycletime": {"Percentiles": [50, 75, 90]},
	"Throughput_range": 90,
	"Montecarlo": {"Simulations": 500, "Simulation_days": 5, "Percentiles": [50]}
}`

type stubClient struct {
	issues []eazybi.Issue
	err    error
	url    string
}

func (s *stubClient) FetchReport(ctx context.Context, url string) ([]eazybi.Issue, error) {
	s.url = url
	return s.issues, s.err
}

func recentIssues() []eazybi.Issue {
	today := time.Now()
	var issues []eazybi.Issue
	for i := 0; i < 20; i++ {
		issues = append(issues, eazybi.Issue{
			Project:     "JP",
			Key:         "JP-1",
			CompletedAt: today.AddDate(0, 0, -i),
			Cycletime:   float64(i + 1),
		})
	}
	return issues
}

func newTestServer(client eazybi.Client) *Server {
	return New(&config.AppConfig{AuthToken: "secret"}, client)
}

func doRequest(s *Server, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/forecast", strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestForecast_Success(t *testing.T) {
	client := &stubClient{issues: recentIssues()}
	s := newTestServer(client)

	w := doRequest(s, "secret", requestBody)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	wantURL := "https://aod.eazybi.com/accounts/12345/export/report/1234567-api-export.csv?embed_token=largest_token_ever_123"
	if client.url != wantURL {
		t.Errorf("Fetched wrong URL:\n got %s\nwant %s", client.url, wantURL)
	}

	var resp struct {
		Columns []string         `json:"columns"`
		Rows    []map[string]any `json:"rows"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Invalid response JSON: %v", err)
	}
	if len(resp.Rows) != 1 {
		t.Fatalf("Expected one project row, got %d", len(resp.Rows))
	}
	if resp.Rows[0]["project"] != "JP" {
		t.Errorf("Expected project JP, got %v", resp.Rows[0]["project"])
	}
	for _, col := range []string{"cycletime 50%", "montecarlo 50%"} {
		if _, ok := resp.Rows[0][col]; !ok {
			t.Errorf("Missing column %q in response row: %v", col, resp.Rows[0])
		}
	}
}

func TestForecast_MissingToken(t *testing.T) {
	s := newTestServer(&stubClient{})

	if w := doRequest(s, "", requestBody); w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without a token, got %d", w.Code)
	}
}

func TestForecast_WrongToken(t *testing.T) {
	s := newTestServer(&stubClient{})

	if w := doRequest(s, "not-the-secret", requestBody); w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for a wrong token, got %d", w.Code)
	}
}

func TestForecast_UnconfiguredTokenRejectsAll(t *testing.T) {
	s := New(&config.AppConfig{}, &stubClient{})

	if w := doRequest(s, "", requestBody); w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 when no token is configured, got %d", w.Code)
	}
}

func TestForecast_InvalidConfig(t *testing.T) {
	s := newTestServer(&stubClient{})

	if w := doRequest(s, "secret", `{"Account_number": 1}`); w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for an invalid config, got %d", w.Code)
	}
}

func TestForecast_FetchFailure(t *testing.T) {
	s := newTestServer(&stubClient{err: context.DeadlineExceeded})

	if w := doRequest(s, "secret", requestBody); w.Code != http.StatusBadGateway {
		t.Errorf("Expected 502 when the fetch fails, got %d", w.Code)
	}
}

func TestForecast_EmptyReport(t *testing.T) {
	s := newTestServer(&stubClient{})

	w := doRequest(s, "secret", requestBody)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 for an empty report, got %d", w.Code)
	}

	var resp struct {
		Rows []map[string]any `json:"rows"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Invalid response JSON: %v", err)
	}
	if len(resp.Rows) != 0 {
		t.Errorf("Expected no rows for an empty report, got %v", resp.Rows)
	}
}
