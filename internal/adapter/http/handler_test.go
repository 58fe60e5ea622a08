package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apexneural-anniesiri/Project-CUA/internal/application/port/input"
	"github.com/apexneural-anniesiri/Project-CUA/internal/domain/entity"
	"github.com/apexneural-anniesiri/Project-CUA/internal/infrastructure/logger"
	"github.com/apexneural-anniesiri/Project-CUA/internal/usecase/agent"
)

type stubService struct {
	startResult *input.StartResult
	startErr    error
	stepResult  *entity.StepResult
	stepErr     error
	disposeErr  error
	count       int

	lastObjective string
	lastSessionID string
}

func (s *stubService) StartSession(_ context.Context, objective string) (*input.StartResult, error) {
	s.lastObjective = objective
	if s.startErr != nil {
		return nil, s.startErr
	}
	return s.startResult, nil
}

func (s *stubService) StepSession(_ context.Context, sessionID string) (*entity.StepResult, error) {
	s.lastSessionID = sessionID
	if s.stepErr != nil {
		return nil, s.stepErr
	}
	return s.stepResult, nil
}

func (s *stubService) DisposeSession(_ context.Context, sessionID string) error {
	s.lastSessionID = sessionID
	return s.disposeErr
}

func (s *stubService) SessionCount() int {
	return s.count
}

func newTestServer(t *testing.T, svc input.SessionService) *httptest.Server {
	t.Helper()
	handler := NewHandler(svc, logger.NewNop())
	server := httptest.NewServer(handler.Router())
	t.Cleanup(server.Close)
	return server
}

func postJSON(t *testing.T, url string, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestStartSession(t *testing.T) {
	svc := &stubService{
		startResult: &input.StartResult{
			SessionID: "abc-123",
			Message:   "Agent session started with objective: Find the top post on r/golang",
		},
	}
	server := newTestServer(t, svc)

	resp := postJSON(t, server.URL+"/start", `{"objective": "Find the top post on r/golang"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "abc-123", body["session_id"])
	assert.Contains(t, body["message"], "Agent session started")
	assert.Equal(t, "Find the top post on r/golang", svc.lastObjective)
}

func TestStartSessionEmptyObjective(t *testing.T) {
	svc := &stubService{startErr: agent.ErrInvalidObjective}
	server := newTestServer(t, svc)

	resp := postJSON(t, server.URL+"/start", `{"objective": ""}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Contains(t, body["error"], "objective cannot be empty")
}

func TestStartSessionMissingCredentials(t *testing.T) {
	svc := &stubService{startErr: agent.ErrProviderUnavailable}
	server := newTestServer(t, svc)

	resp := postJSON(t, server.URL+"/start", `{"objective": "anything"}`)
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Contains(t, body["error"], "OPENAI_API_KEY")
}

func TestStartSessionMalformedBody(t *testing.T) {
	server := newTestServer(t, &stubService{})

	resp := postJSON(t, server.URL+"/start", `{"objective": `)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "Invalid request body", body["error"])
}

func TestStepSession(t *testing.T) {
	svc := &stubService{
		stepResult: &entity.StepResult{
			Screenshot:       "aW1hZ2U=",
			Logs:             "[Step 1] Navigating to the target site",
			Status:           entity.SessionActive,
			Action:           entity.ActionNavigate,
			URL:              "https://www.reddit.com/r/golang/",
			ExtractedContent: "",
		},
	}
	server := newTestServer(t, svc)

	resp := postJSON(t, server.URL+"/step", `{"session_id": "abc-123"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "aW1hZ2U=", body["screenshot"])
	assert.Equal(t, "[Step 1] Navigating to the target site", body["logs"])
	assert.Equal(t, "active", body["status"])
	assert.Equal(t, "navigate", body["action"])
	assert.Equal(t, "https://www.reddit.com/r/golang/", body["url"])
	assert.Equal(t, "abc-123", svc.lastSessionID)
}

func TestStepSessionOmitsEmptyFields(t *testing.T) {
	svc := &stubService{
		stepResult: &entity.StepResult{
			Screenshot: "aW1hZ2U=",
			Logs:       "[Step 2] Reading the page",
			Status:     entity.SessionCompleted,
			Action:     entity.ActionFinish,
			URL:        "https://www.reddit.com/r/golang/",
		},
	}
	server := newTestServer(t, svc)

	resp := postJSON(t, server.URL+"/step", `{"session_id": "abc-123"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "completed", body["status"])
	assert.NotContains(t, body, "extracted_content")
}

func TestStepSessionMissingID(t *testing.T) {
	server := newTestServer(t, &stubService{})

	resp := postJSON(t, server.URL+"/step", `{}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "session_id is required", body["error"])
}

func TestStepSessionNotFound(t *testing.T) {
	svc := &stubService{stepErr: agent.ErrSessionNotFound}
	server := newTestServer(t, svc)

	resp := postJSON(t, server.URL+"/step", `{"session_id": "ghost"}`)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Contains(t, body["error"], "session not found")
}

func TestStepSessionExecutionFailure(t *testing.T) {
	svc := &stubService{stepErr: agent.ErrStepExecutionFailed}
	server := newTestServer(t, svc)

	resp := postJSON(t, server.URL+"/step", `{"session_id": "abc-123"}`)
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Contains(t, body["error"], "error executing step")
}

func TestDisposeSession(t *testing.T) {
	svc := &stubService{}
	server := newTestServer(t, svc)

	req, err := http.NewRequest(http.MethodDelete, server.URL+"/session/abc-123", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "Session cleaned up", body["message"])
	assert.Equal(t, "abc-123", svc.lastSessionID)
}

func TestDisposeSessionNotFound(t *testing.T) {
	svc := &stubService{disposeErr: agent.ErrSessionNotFound}
	server := newTestServer(t, svc)

	req, err := http.NewRequest(http.MethodDelete, server.URL+"/session/ghost", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	svc := &stubService{count: 2}
	server := newTestServer(t, svc)

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json"))

	body := decodeBody(t, resp)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, serviceName, body["service"])
	assert.EqualValues(t, 2, body["sessions"])
}

func TestCORSPreflight(t *testing.T) {
	server := newTestServer(t, &stubService{})

	req, err := http.NewRequest(http.MethodOptions, server.URL+"/start", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), "DELETE")
}

func TestCORSHeadersOnRegularResponse(t *testing.T) {
	server := newTestServer(t, &stubService{count: 0})

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
