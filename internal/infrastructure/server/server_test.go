package server

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classdash/core/internal/adapters/repository"
	"github.com/classdash/core/internal/domain/entities"
	"github.com/classdash/core/internal/infrastructure/config"
	"github.com/classdash/core/internal/infrastructure/container"
	"github.com/classdash/core/internal/infrastructure/logger"
	"github.com/classdash/core/internal/ports"
)

const publishedDataset = `{"timings":["08:50-09:40"],"schedule":{"22HR":{"Mon":{"1":"数学"}}},"tests":[]}`

// fakeGitHub serves the raw mirror and the contents API
type fakeGitHub struct {
	mu       sync.Mutex
	sha      string
	status   int
	putBody  map[string]interface{}
	putCount int
}

func (f *fakeGitHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case strings.HasPrefix(r.URL.Path, "/raw/"):
		io.WriteString(w, publishedDataset)
	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/repos/"):
		if f.sha == "" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		io.WriteString(w, `{"path":"data.json","sha":"`+f.sha+`"}`)
	case r.Method == http.MethodPut:
		f.putCount++
		f.putBody = nil
		json.NewDecoder(r.Body).Decode(&f.putBody)
		if f.status != 0 {
			w.WriteHeader(f.status)
			io.WriteString(w, `{"message":"data.json does not match"}`)
			return
		}
		io.WriteString(w, `{"content":{"sha":"next"},"commit":{"sha":"c1"}}`)
	default:
		w.WriteHeader(http.StatusTeapot)
	}
}

func (f *fakeGitHub) set(sha string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sha, f.status = sha, status
}

func (f *fakeGitHub) puts() (int, map[string]interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.putCount, f.putBody
}

func testConfig(remote string) *config.Config {
	return &config.Config{
		App:     config.AppConfig{Name: "classdash", Version: "test", Environment: "test"},
		Storage: config.StorageConfig{Driver: "memory"},
		Remote: config.RemoteConfig{
			APIBaseURL:    remote,
			RawBaseURL:    remote + "/raw",
			Branch:        "main",
			Path:          "data.json",
			LocalSource:   "does-not-exist.json",
			CommitMessage: "Update data.json from Admin Dashboard",
			Timeout:       5 * time.Second,
		},
		Dashboard: config.DashboardConfig{Timezone: "Asia/Tokyo", TickInterval: 20 * time.Millisecond},
		Pomodoro:  config.PomodoroConfig{WorkMinutes: 25, BreakMinutes: 5},
		Admin:     config.AdminConfig{Password: "1234", JWTSecret: "test-secret", TokenTTL: time.Hour, Issuer: "classdash"},
		Security:  config.SecurityConfig{CORSAllowedOrigins: "*"},
		Metrics:   config.MetricsConfig{Enabled: true},
	}
}

func newTestServer(t *testing.T) (*Server, *container.Container, *fakeGitHub) {
	t.Helper()
	gh := &fakeGitHub{}
	remote := httptest.NewServer(gh)
	t.Cleanup(remote.Close)

	c := container.NewWithStore(testConfig(remote.URL), repository.NewMemoryStore(), logger.NewNop())
	t.Cleanup(func() { c.Close() })

	srv, err := New(c)
	require.NoError(t, err)
	return srv, c, gh
}

func do(t *testing.T, srv *Server, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, srv *Server) string {
	t.Helper()
	rec := do(t, srv, http.MethodPost, "/api/v1/admin/login", `{"password":"1234"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res ports.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.NotEmpty(t, res.AccessToken)
	return res.AccessToken
}

func TestHealthEndpoints(t *testing.T) {
	srv, _, _ := newTestServer(t)

	for _, path := range []string{"/health", "/health/detailed", "/ready"} {
		rec := do(t, srv, http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}

	rec := do(t, srv, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}

func TestDashboardEndpoint(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/api/v1/dashboard", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var view map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, "21HR", view["classId"])
	assert.Contains(t, view, "countdown")
	assert.Contains(t, view, "pomodoro")
}

func TestRefreshDataset(t *testing.T) {
	srv, c, _ := newTestServer(t)
	ctx := context.Background()
	token := login(t, srv)

	// without credentials the missing local source falls back to defaults
	rec := do(t, srv, http.MethodPost, "/api/v1/admin/dataset/refresh", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"fallback":true`)
	assert.Contains(t, rec.Body.String(), `"reason":"`)

	_, err := c.Settings.SaveCredentials(ctx, entities.RepoCredentials{Owner: "school", Repo: "dash"})
	require.NoError(t, err)

	rec = do(t, srv, http.MethodPost, "/api/v1/admin/dataset/refresh", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"fallback":false`)
	assert.Equal(t, "数学", c.State.Dataset().Schedule["22HR"]["Mon"]["1"])

	rec = do(t, srv, http.MethodGet, "/api/v1/settings/classes", "", "")
	assert.JSONEq(t, `["22HR"]`, rec.Body.String())
}

func TestRefreshKeepsEditsForViewers(t *testing.T) {
	srv, c, _ := newTestServer(t)
	token := login(t, srv)

	rec := do(t, srv, http.MethodPost, "/api/v1/admin/tests", `{"name":"Midterm","date":"2099-01-01"}`, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Len(t, c.State.Dataset().Tests, 1)

	for _, path := range []string{"/api/v1/dataset/refresh", "/api/v1/admin/dataset/refresh"} {
		rec = do(t, srv, http.MethodPost, path, "", "")
		assert.NotEqual(t, http.StatusOK, rec.Code, path)
	}
	assert.Len(t, c.State.Dataset().Tests, 1)
}

func TestSettingsEndpoints(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := do(t, srv, http.MethodPut, "/api/v1/settings", `{"classId":"22HR","icalUrl":"student@gmail.com"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, srv, http.MethodGet, "/api/v1/settings", "", "")
	assert.JSONEq(t, `{"classId":"22HR","icalUrl":"student@gmail.com"}`, rec.Body.String())

	rec = do(t, srv, http.MethodPut, "/api/v1/settings", `{"classId":""}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTodoEndpoints(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/api/v1/todos", `{"text":"read chapter 3"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var item entities.TodoItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))

	rec = do(t, srv, http.MethodPatch, "/api/v1/todos/"+item.ID+"/toggle", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"done":true`)

	rec = do(t, srv, http.MethodGet, "/api/v1/todos", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"percent":100`)

	rec = do(t, srv, http.MethodDelete, "/api/v1/todos/done", "", "")
	assert.JSONEq(t, `{"removed":1}`, rec.Body.String())

	rec = do(t, srv, http.MethodDelete, "/api/v1/todos/"+item.ID, "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, srv, http.MethodPost, "/api/v1/todos", `{"text":""}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPomodoroEndpoints(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/api/v1/pomodoro", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"display":"25:00"`)

	rec = do(t, srv, http.MethodPost, "/api/v1/pomodoro/toggle", "", "")
	assert.Contains(t, rec.Body.String(), `"running":true`)

	rec = do(t, srv, http.MethodPut, "/api/v1/pomodoro/config", `{"workMinutes":50,"breakMinutes":10}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"display":"50:00"`)
	assert.Contains(t, rec.Body.String(), `"running":false`)

	rec = do(t, srv, http.MethodPut, "/api/v1/pomodoro/config", `{"workMinutes":0,"breakMinutes":10}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminRequiresToken(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/api/v1/admin/login", `{"password":"wrong"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, srv, http.MethodPost, "/api/v1/admin/tests", `{"name":"Midterm","date":"2099-01-01"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, srv, http.MethodPost, "/api/v1/admin/tests", `{"name":"Midterm","date":"2099-01-01"}`, "forged")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCredentialsRoundTrip(t *testing.T) {
	srv, c, _ := newTestServer(t)
	token := login(t, srv)

	rec := do(t, srv, http.MethodPut, "/api/v1/admin/credentials", `{"user":"school","repo":"dash","token":"ghp_1234567890"}`, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, srv, http.MethodGet, "/api/v1/admin/credentials", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	var shown entities.RepoCredentials
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &shown))
	assert.Equal(t, "ghp_****", shown.Token)

	shown.Repo = "dash-2025"
	body, err := json.Marshal(shown)
	require.NoError(t, err)
	rec = do(t, srv, http.MethodPut, "/api/v1/admin/credentials", string(body), token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	stored := c.Settings.Credentials(context.Background())
	assert.Equal(t, "ghp_1234567890", stored.Token)
	assert.Equal(t, "dash-2025", stored.Repo)
}

func TestAdminEditAndPublish(t *testing.T) {
	srv, c, gh := newTestServer(t)
	token := login(t, srv)

	rec := do(t, srv, http.MethodPost, "/api/v1/admin/publish", "", token)
	assert.Equal(t, http.StatusPreconditionFailed, rec.Code)
	count, _ := gh.puts()
	assert.Zero(t, count)

	rec = do(t, srv, http.MethodPut, "/api/v1/admin/credentials", `{"user":"school","repo":"dash","token":"ghp_1234567890"}`, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"token":"ghp_****"`)

	rec = do(t, srv, http.MethodPost, "/api/v1/admin/tests", `{"name":"Midterm","date":"2099-01-01"}`, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, srv, http.MethodPut, "/api/v1/admin/schedule/21HR/Wed", `{"periods":{"1":"物理"}}`, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	gh.set("abc", 0)
	rec = do(t, srv, http.MethodPost, "/api/v1/admin/publish", "", token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"success":true`)
	count, body := gh.puts()
	assert.Equal(t, 1, count)
	assert.Equal(t, "abc", body["sha"])
	assert.Equal(t, "Update data.json from Admin Dashboard", body["message"])

	gh.set("abc", http.StatusConflict)
	rec = do(t, srv, http.MethodPost, "/api/v1/admin/publish", "", token)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)
	count, _ = gh.puts()
	assert.Equal(t, 2, count)

	// a failed publish keeps the local edits
	assert.Len(t, c.State.Dataset().Tests, 1)

	rec = do(t, srv, http.MethodDelete, "/api/v1/admin/tests/Final", "", token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = do(t, srv, http.MethodDelete, "/api/v1/admin/tests/Midterm", "", token)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, srv, http.MethodDelete, "/api/v1/admin/credentials", "", token)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestDashboardStream(t *testing.T) {
	srv, _, _ := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+streamPath, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	events := 0
	for scanner.Scan() && events < 2 {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var view map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &view))
		assert.Equal(t, "21HR", view["classId"])
		events++
	}
	assert.Equal(t, 2, events)
}
