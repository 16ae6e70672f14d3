package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"session-auth-service/internal/auth/domain"
	"session-auth-service/internal/auth/notify"
	authrepo "session-auth-service/internal/auth/repository"
	"session-auth-service/internal/auth/service"
	"session-auth-service/internal/events"
	"session-auth-service/internal/queue"
	"session-auth-service/internal/token"
	userrepo "session-auth-service/internal/user/repository"
)

var testCodeRE = regexp.MustCompile(`[0-9]{6}`)

type env struct {
	router   http.Handler
	notifier *notify.MemoryNotifier
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()

	users := userrepo.NewMemoryRepository()
	sessions := authrepo.NewMemorySessionRepository()
	codes := authrepo.NewMemoryCodeValidationRepository()
	notifier := notify.NewMemoryNotifier()
	codec := token.NewCodec("test-secret")
	bus := events.NewBus()
	provider := queue.NewMemoryProvider()

	bus.Register(domain.EventSessionCreated, notify.NewSessionCreatedHandler(provider))
	q, err := provider.Create(queue.SendCodeValidationKey)
	if err != nil {
		t.Fatalf("create queue: %v", err)
	}
	q.Subscribe(notify.NewSendCodeValidationHandler(sessions, users, codes, notifier, "pt-BR", time.Hour))
	if err := q.Process(ctx); err != nil {
		t.Fatalf("process queue: %v", err)
	}

	svc := service.NewAuthService(users, sessions, codes, codec, bus, time.Hour)
	return &env{
		router:   NewServer(svc).Routes(),
		notifier: notifier,
	}
}

func (e *env) do(t *testing.T, method, path string, body interface{}, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *env) lastCode(t *testing.T) string {
	t.Helper()
	sent := e.notifier.Sent()
	if len(sent) == 0 {
		t.Fatal("no notifications sent")
	}
	value := testCodeRE.FindString(sent[len(sent)-1].Head)
	if value == "" {
		t.Fatalf("no code in notification head %q", sent[len(sent)-1].Head)
	}
	return value
}

func (e *env) register(t *testing.T) string {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/auth/register", map[string]string{
		"name":  "Ana Silva",
		"email": "ana@example.com",
	}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d, want %d (%s)", rec.Code, http.StatusCreated, rec.Body)
	}
	var resp struct {
		SessionID string `json:"session_id"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.SessionID == "" {
		t.Fatal("register returned empty session_id")
	}
	return resp.SessionID
}

func (e *env) validate(t *testing.T, sessionID string) (access, refresh string) {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/auth/validate", map[string]string{
		"code":       e.lastCode(t),
		"session_id": sessionID,
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("validate status = %d, want %d (%s)", rec.Code, http.StatusOK, rec.Body)
	}
	var resp struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp.AccessToken, resp.RefreshToken
}

func TestRegister_EndToEnd(t *testing.T) {
	e := newEnv(t)
	e.register(t)
	if sent := e.notifier.Sent(); len(sent) != 1 {
		t.Fatalf("notifications sent = %d, want 1", len(sent))
	}
}

func TestRegister_DuplicateEmailConflict(t *testing.T) {
	e := newEnv(t)
	e.register(t)
	rec := e.do(t, http.MethodPost, "/auth/register", map[string]string{
		"name":  "Ana Silva",
		"email": "ana@example.com",
	}, nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusConflict)
	}
}

func TestRegister_InvalidEmailBadRequest(t *testing.T) {
	e := newEnv(t)
	rec := e.do(t, http.MethodPost, "/auth/register", map[string]string{
		"name":  "Ana Silva",
		"email": "nope",
	}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestRegister_MalformedBody(t *testing.T) {
	e := newEnv(t)
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewBufferString("not-json"))
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestLogin_UnknownEmailNotFound(t *testing.T) {
	e := newEnv(t)
	rec := e.do(t, http.MethodPost, "/auth/login", map[string]string{
		"email": "nobody@example.com",
	}, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestValidate_ReturnsTokenPair(t *testing.T) {
	e := newEnv(t)
	sessionID := e.register(t)
	access, refresh := e.validate(t, sessionID)
	if access == "" || refresh == "" {
		t.Fatal("validate returned empty tokens")
	}
}

func TestValidate_UnknownCodeNotFound(t *testing.T) {
	e := newEnv(t)
	sessionID := e.register(t)
	rec := e.do(t, http.MethodPost, "/auth/validate", map[string]string{
		"code":       "999999",
		"session_id": sessionID,
	}, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestValidate_SecondAttemptConflict(t *testing.T) {
	e := newEnv(t)
	sessionID := e.register(t)
	e.validate(t, sessionID)
	rec := e.do(t, http.MethodPost, "/auth/validate", map[string]string{
		"code":       e.lastCode(t),
		"session_id": sessionID,
	}, nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusConflict)
	}
}

func TestRefresh_RotatesPair(t *testing.T) {
	e := newEnv(t)
	sessionID := e.register(t)
	access, refresh := e.validate(t, sessionID)

	rec := e.do(t, http.MethodPost, "/auth/refresh", map[string]string{
		"access_token":  access,
		"refresh_token": refresh,
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (%s)", rec.Code, http.StatusOK, rec.Body)
	}
}

func TestRefresh_GarbageUnauthorized(t *testing.T) {
	e := newEnv(t)
	rec := e.do(t, http.MethodPost, "/auth/refresh", map[string]string{
		"access_token":  "garbage",
		"refresh_token": "garbage",
	}, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestLogout_RequiresBearerToken(t *testing.T) {
	e := newEnv(t)
	sessionID := e.register(t)

	rec := e.do(t, http.MethodPost, "/auth/logout", map[string]string{
		"session_id": sessionID,
	}, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status without token = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestLogout_EndToEnd(t *testing.T) {
	e := newEnv(t)
	sessionID := e.register(t)
	access, _ := e.validate(t, sessionID)

	header := http.Header{}
	header.Set("Authorization", "Bearer "+access)
	rec := e.do(t, http.MethodPost, "/auth/logout", map[string]string{
		"session_id": sessionID,
	}, header)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("logout status = %d, want %d (%s)", rec.Code, http.StatusNoContent, rec.Body)
	}

	// The closed session no longer passes the guard.
	rec = e.do(t, http.MethodPost, "/auth/logout", map[string]string{
		"session_id": sessionID,
	}, header)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("logout after close status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestRequireAuth_RejectsUnvalidatedSession(t *testing.T) {
	e := newEnv(t)
	sessionID := e.register(t)

	// A forged header shape that is not even a token.
	header := http.Header{}
	header.Set("Authorization", "Bearer not-a-token")
	rec := e.do(t, http.MethodPost, "/auth/logout", map[string]string{
		"session_id": sessionID,
	}, header)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}
