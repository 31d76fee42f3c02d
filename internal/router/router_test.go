package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/oauth2"

	"focusos/internal/ai"
	"focusos/internal/extract"
	"focusos/internal/googleauth"
	"focusos/internal/handler"
	"focusos/internal/logger"
	"focusos/internal/repository"
	"focusos/internal/repository/memory"
	"focusos/internal/router"
	"focusos/internal/service"
	"focusos/internal/sse"
	"focusos/internal/vault"
	"focusos/internal/workspace"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const appBaseURL = "http://localhost:5173"

const summaryReply = `{"title":"Notes","overview":"Short notes.","keyConcepts":[{"concept":"A","explanation":"B"}],"keyTakeaways":["C"],"topics":["D"]}`

type testServer struct {
	echo     *echo.Echo
	repos    *repository.Repositories
	clients  *workspace.MockClients
	provider *googleauth.MockProvider
	llm      *ai.MockAIClient
}

func newTestServer(t *testing.T) *testServer {
	log := logger.NewNop()
	repos := memory.New()
	clients := workspace.NewMockClients()
	llm := ai.NewMockAIClientWithReply(summaryReply)

	v, err := vault.New("0123456789abcdef0123456789abcdef")
	require.NoError(t, err)

	provider := &googleauth.MockProvider{
		ExchangeFunc: func(ctx context.Context, code string) (*googleauth.Identity, error) {
			return &googleauth.Identity{
				Subject: "sub-1",
				Email:   "ada@example.com",
				Name:    "Ada",
				Token:   &oauth2.Token{AccessToken: "at", RefreshToken: "rt", Expiry: time.Now().Add(time.Hour)},
			}, nil
		},
	}
	manager := googleauth.NewManager(provider, v, repos.Users, repos.Accounts, 5*time.Second, log)
	gateway := ai.NewGateway(llm, 5*time.Second, log)
	sessions := handler.NewSessionStore([]byte("test-session-secret"), false)

	e := echo.New()
	router.SetupRoutes(e, sessions, router.Handlers{
		Auth:     handler.NewAuthHandler(manager, service.NewAuthService(repos.Users, manager, log), sessions, appBaseURL, log),
		Sync:     handler.NewSyncHandler(service.NewSyncService(repos.Emails, repos.Events, repos.Docs, clients, 5*time.Second, log), sse.NewManager(log), log),
		Agent:    handler.NewAgentHandler(service.NewAgentService(repos.Users, repos.Emails, repos.Events, repos.Tasks, repos.Plans, repos.Triage, gateway, log), log),
		Calendar: handler.NewCalendarHandler(service.NewCalendarService(repos.Events, clients, 5*time.Second, log), log),
		Email:    handler.NewEmailHandler(service.NewEmailService(repos.Users, clients, 5*time.Second, log), log),
		Learning: handler.NewLearningHandler(service.NewLearningService(repos.Materials, repos.Artifacts, extract.New(), gateway, log), log),
		Saved:    handler.NewSavedHandler(service.NewSavedService(memory.NewInMemorySavedStore(), log), log),
	})

	return &testServer{echo: e, repos: repos, clients: clients, provider: provider, llm: llm}
}

func (s *testServer) do(req *http.Request, cookies []*http.Cookie) *httptest.ResponseRecorder {
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func jsonRequest(method, target string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

// login runs the OAuth round trip and returns the session cookies.
func (s *testServer) login(t *testing.T) []*http.Cookie {
	begin := s.do(httptest.NewRequest(http.MethodGet, "/auth/google", nil), nil)
	require.Equal(t, http.StatusTemporaryRedirect, begin.Code)

	location, err := url.Parse(begin.Header().Get(echo.HeaderLocation))
	require.NoError(t, err)
	state := location.Query().Get("state")
	require.NotEmpty(t, state)

	callback := s.do(httptest.NewRequest(http.MethodGet, "/auth/google/callback?code=abc&state="+state, nil), latest(begin))
	require.Equal(t, http.StatusTemporaryRedirect, callback.Code)
	require.Equal(t, appBaseURL+"/", callback.Header().Get(echo.HeaderLocation))
	return latest(callback)
}

// latest keeps the last Set-Cookie per name, the way a browser would.
func latest(rec *httptest.ResponseRecorder) []*http.Cookie {
	byName := map[string]*http.Cookie{}
	var order []string
	for _, c := range rec.Result().Cookies() {
		if _, seen := byName[c.Name]; !seen {
			order = append(order, c.Name)
		}
		byName[c.Name] = c
	}
	cookies := make([]*http.Cookie, 0, len(order))
	for _, name := range order {
		cookies = append(cookies, byName[name])
	}
	return cookies
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(httptest.NewRequest(http.MethodGet, "/health", nil), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	s := newTestServer(t)
	for _, target := range []string{"/auth/me", "/save/plans", "/agent/tasks"} {
		rec := s.do(httptest.NewRequest(http.MethodGet, target, nil), nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, target)
		assert.Equal(t, "Unauthorized", decodeError(t, rec))
	}
	rec := s.do(jsonRequest(http.MethodPost, "/sync/all", nil), nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginAndMe(t *testing.T) {
	s := newTestServer(t)
	cookies := s.login(t)

	rec := s.do(httptest.NewRequest(http.MethodGet, "/auth/me", nil), cookies)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		User        map[string]interface{} `json:"user"`
		IsConnected bool                   `json:"isConnected"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ada@example.com", body.User["email"])
	assert.True(t, body.IsConnected)
	assert.NotContains(t, rec.Body.String(), "accessToken")
}

func TestCallbackRejectsForgedState(t *testing.T) {
	s := newTestServer(t)
	begin := s.do(httptest.NewRequest(http.MethodGet, "/auth/google", nil), nil)

	rec := s.do(httptest.NewRequest(http.MethodGet, "/auth/google/callback?code=abc&state=forged", nil), latest(begin))
	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, appBaseURL+"/login?error=auth_failed", rec.Header().Get(echo.HeaderLocation))
}

func TestCallbackExchangeFailure(t *testing.T) {
	s := newTestServer(t)
	s.provider.ExchangeFunc = func(ctx context.Context, code string) (*googleauth.Identity, error) {
		return nil, assert.AnError
	}
	begin := s.do(httptest.NewRequest(http.MethodGet, "/auth/google", nil), nil)
	location, _ := url.Parse(begin.Header().Get(echo.HeaderLocation))

	rec := s.do(httptest.NewRequest(http.MethodGet, "/auth/google/callback?code=abc&state="+location.Query().Get("state"), nil), latest(begin))
	assert.Equal(t, appBaseURL+"/login?error=auth_failed", rec.Header().Get(echo.HeaderLocation))
}

func TestLogoutClearsSession(t *testing.T) {
	s := newTestServer(t)
	cookies := s.login(t)

	rec := s.do(httptest.NewRequest(http.MethodPost, "/auth/logout", nil), cookies)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(httptest.NewRequest(http.MethodGet, "/auth/me", nil), latest(rec))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSyncWithoutLinkedAccountIsForbidden(t *testing.T) {
	s := newTestServer(t)
	cookies := s.login(t)
	s.clients.Err = googleauth.ErrNoLinkedAccount

	rec := s.do(jsonRequest(http.MethodPost, "/sync/gmail?limit=5", nil), cookies)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "No linked Google account", decodeError(t, rec))
}

func TestSyncCalendarResponse(t *testing.T) {
	s := newTestServer(t)
	cookies := s.login(t)
	start := time.Now().Add(time.Hour)
	s.clients.CalendarClient.ListEventsFunc = func(ctx context.Context, from, to time.Time) ([]*service.RemoteEvent, error) {
		assert.WithinDuration(t, from.AddDate(0, 0, 3), to, time.Second)
		return []*service.RemoteEvent{{ID: "e1", Title: "Lab", Start: start, End: start.Add(time.Hour)}}, nil
	}

	rec := s.do(jsonRequest(http.MethodPost, "/sync/calendar?days=3", nil), cookies)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool                     `json:"success"`
		Count   int                      `json:"count"`
		Data    []map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, 1, body.Count)
	assert.Equal(t, "e1", body.Data[0]["gcalId"])
}

func TestCalendarWritesNeedConfirmation(t *testing.T) {
	s := newTestServer(t)
	cookies := s.login(t)
	start := time.Now().Add(2 * time.Hour).Truncate(time.Minute)
	blocks := []map[string]string{{
		"title": "Focus",
		"start": start.Format(time.RFC3339),
		"end":   start.Add(time.Hour).Format(time.RFC3339),
	}}

	rec := s.do(jsonRequest(http.MethodPost, "/calendar/create-study-blocks", map[string]interface{}{"blocks": blocks}), cookies)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Action not confirmed", decodeError(t, rec))

	rec = s.do(jsonRequest(http.MethodPost, "/calendar/create-study-blocks", map[string]interface{}{"blocks": []string{}, "confirmed": true}), cookies)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "No blocks provided", decodeError(t, rec))

	rec = s.do(jsonRequest(http.MethodPost, "/calendar/create-study-blocks", map[string]interface{}{"blocks": blocks, "confirmed": true}), cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	var created struct {
		Success bool                     `json:"success"`
		Created int                      `json:"created"`
		Events  []map[string]interface{} `json:"events"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.True(t, created.Success)
	assert.Equal(t, 1, created.Created)
	require.Len(t, created.Events, 1)

	gcalID := created.Events[0]["gcalId"].(string)
	rec = s.do(jsonRequest(http.MethodDelete, "/calendar/event/"+gcalID, map[string]bool{"confirmed": false}), cookies)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(jsonRequest(http.MethodDelete, "/calendar/event/"+gcalID, map[string]bool{"confirmed": true}), cookies)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
}

func TestUpdateEventRoute(t *testing.T) {
	s := newTestServer(t)
	cookies := s.login(t)

	rec := s.do(jsonRequest(http.MethodPatch, "/calendar/event/e1", map[string]interface{}{
		"confirmed": true,
		"updates":   map[string]string{"summary": "Renamed"},
	}), cookies)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool              `json:"success"`
		Event   map[string]string `json:"event"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Renamed", body.Event["summary"])
}

func TestEmailSendValidation(t *testing.T) {
	s := newTestServer(t)
	cookies := s.login(t)

	rec := s.do(jsonRequest(http.MethodPost, "/email/send", map[string]string{"to": "bob@example.com"}), cookies)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Missing required fields", decodeError(t, rec))

	rec = s.do(jsonRequest(http.MethodPost, "/email/send", map[string]string{"to": "bob@example.com", "subject": "Hi", "body": "Hello"}), cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"messageId":"sent-id"}`, rec.Body.String())
}

func TestTriageWithEmptyInbox(t *testing.T) {
	s := newTestServer(t)
	cookies := s.login(t)

	rec := s.do(jsonRequest(http.MethodPost, "/agent/triage-inbox", map[string]int{"limit": 5}), cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
	assert.Equal(t, 0, s.llm.Calls())
}

func TestWeeklyPlanWithInvalidReply(t *testing.T) {
	s := newTestServer(t)
	cookies := s.login(t)

	rec := s.do(jsonRequest(http.MethodPost, "/agent/weekly-plan", map[string]string{}), cookies)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "LLM output invalid", decodeError(t, rec))
}

func TestLearningRoutes(t *testing.T) {
	s := newTestServer(t)
	cookies := s.login(t)

	rec := s.do(httptest.NewRequest(http.MethodPost, "/learning/upload", nil), cookies)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "No file uploaded", decodeError(t, rec))

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("file", "notes.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("Cells divide by mitosis."))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/learning/upload", &body)
	req.Header.Set(echo.HeaderContentType, form.FormDataContentType())
	rec = s.do(req, cookies)
	require.Equal(t, http.StatusOK, rec.Code)

	var uploaded struct {
		Message    string                 `json:"message"`
		MaterialID string                 `json:"materialId"`
		Summary    map[string]interface{} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &uploaded))
	assert.Equal(t, "File processed", uploaded.Message)
	assert.Equal(t, "Notes", uploaded.Summary["title"])

	rec = s.do(httptest.NewRequest(http.MethodGet, "/learning/"+uploaded.MaterialID+"/summary", nil), cookies)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(httptest.NewRequest(http.MethodGet, "/learning/missing/summary", nil), cookies)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "No summary found", decodeError(t, rec))

	rec = s.do(httptest.NewRequest(http.MethodPost, "/learning/missing/graph", nil), cookies)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Material not found", decodeError(t, rec))
}

func TestSavedRoutes(t *testing.T) {
	s := newTestServer(t)
	cookies := s.login(t)

	rec := s.do(jsonRequest(http.MethodPost, "/save/plan", map[string]string{"weekStartDate": "2026-10-19"}), cookies)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Missing required fields", decodeError(t, rec))

	rec = s.do(jsonRequest(http.MethodPost, "/save/plan", map[string]interface{}{
		"weekStartDate": "2026-10-19",
		"planJson":      map[string]interface{}{"tasks": []string{}},
	}), cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":true`)

	rec = s.do(jsonRequest(http.MethodPost, "/save/tasks", map[string]string{"taskId": "t1", "title": "Read"}), cookies)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(jsonRequest(http.MethodPut, "/save/tasks/t1/toggle", nil), cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"completed":true`)

	rec = s.do(httptest.NewRequest(http.MethodGet, "/save/tasks", nil), cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "["))

	rec = s.do(httptest.NewRequest(http.MethodDelete, "/save/tasks", nil), cookies)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(httptest.NewRequest(http.MethodGet, "/save/tasks", nil), cookies)
	assert.JSONEq(t, `[]`, rec.Body.String())
}
