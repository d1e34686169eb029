package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apexintel/quiz-engine/internal/session"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	t.Setenv("RATE_LIMIT_ENABLED", "false")

	s, err := New(Config{
		Controller: session.NewController(session.Options{MaxQuestions: 10}),
	})
	require.NoError(t, err)
	return s
}

func doRequest(s *Server, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(out))
}

func TestHandleCreateInterview(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(s, "POST", "/interviews", map[string]any{
		"industry": "dental",
		"research": map[string]any{"company_name": "Brightline Dental"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var result session.StartResult
	decodeBody(t, rec, &result)
	assert.NotEmpty(t, result.SessionID)
	assert.Equal(t, "dental", result.Industry)
	require.NotNil(t, result.Question)
	assert.NotEmpty(t, result.Question.Text)
}

func TestHandleCreateInterview_BadBody(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest("POST", "/interviews", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleSubmitAnswer(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(s, "POST", "/interviews", map[string]any{"industry": "dental"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var start session.StartResult
	decodeBody(t, rec, &start)

	rec = doRequest(s, "POST", "/interviews/"+start.SessionID+"/answers", map[string]any{
		"input_type": string(start.Question.InputType),
		"text":       "We are a two-location practice with about 20 staff.",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var turn session.TurnResult
	decodeBody(t, rec, &turn)
	assert.False(t, turn.Complete)
	require.NotNil(t, turn.Question)
	assert.NotEqual(t, start.Question.ID, turn.Question.ID)
}

func TestHandleSubmitAnswer_UnknownInterview(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(s, "POST", "/interviews/nope/answers", map[string]any{
		"input_type": "text",
		"text":       "hello",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleSubmitAnswer_MismatchedType(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(s, "POST", "/interviews", map[string]any{"industry": "dental"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var start session.StartResult
	decodeBody(t, rec, &start)

	rec = doRequest(s, "POST", "/interviews/"+start.SessionID+"/answers", map[string]any{
		"input_type": "number",
		"number":     3,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	decodeBody(t, rec, &body)
	assert.Contains(t, body["error"], "input_type")
}

func TestHandleGetInterview(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(s, "POST", "/interviews", map[string]any{"industry": "logistics"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var start session.StartResult
	decodeBody(t, rec, &start)

	rec = doRequest(s, "GET", "/interviews/"+start.SessionID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var snap session.StateSnapshot
	decodeBody(t, rec, &snap)
	assert.Equal(t, start.SessionID, snap.SessionID)
	assert.Equal(t, "logistics", snap.Industry)
	assert.Equal(t, 1, snap.QuestionsAsked)
}

func TestHandleGetInterview_NotFound(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(s, "GET", "/interviews/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleListIndustries(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(s, "GET", "/industries", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string][]string
	decodeBody(t, rec, &body)
	assert.Contains(t, body["industries"], "default")
	assert.Contains(t, body["industries"], "dental")
}

func TestHandleGetBank(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(s, "GET", "/industries/dental/bank", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Industry  string `json:"industry"`
		Questions []any  `json:"questions"`
	}
	decodeBody(t, rec, &body)
	assert.Equal(t, "dental", body.Industry)
	assert.NotEmpty(t, body.Questions)
}

func TestHandleGetBank_UnknownIndustry(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(s, "GET", "/industries/basketweaving/bank", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(s, "GET", "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	decodeBody(t, rec, &body)
	assert.Equal(t, "ok", body["status"])
}

func TestRateLimitHeaders(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("RATE_LIMIT_DEFAULT_LIMIT", "5")

	s, err := New(Config{
		Controller: session.NewController(session.Options{MaxQuestions: 10}),
	})
	require.NoError(t, err)
	defer s.rateLimiter.Stop()

	var lastCode int
	for i := 0; i < 7; i++ {
		rec := doRequest(s, "GET", "/industries", nil)
		lastCode = rec.Code
		if rec.Code == http.StatusOK {
			assert.Equal(t, "5", rec.Header().Get("X-RateLimit-Limit"))
		}
	}
	assert.Equal(t, http.StatusTooManyRequests, lastCode,
		"expected the default tier to exhaust within 7 requests")
}
