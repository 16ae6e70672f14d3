package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"session-auth-service/internal/auth/domain"
	authrepo "session-auth-service/internal/auth/repository"
	"session-auth-service/internal/auth/service"
	"session-auth-service/internal/code"
	userdomain "session-auth-service/internal/user/domain"
	userrepo "session-auth-service/internal/user/repository"
)

func seedUserAndSession(t *testing.T, users *userrepo.MemoryRepository, sessions *authrepo.MemorySessionRepository) *domain.Session {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()

	u, err := userdomain.NewUser("user-1", "Ana Silva", "ana@example.com", now)
	if err != nil {
		t.Fatalf("build user: %v", err)
	}
	if err := users.Create(ctx, u); err != nil {
		t.Fatalf("store user: %v", err)
	}
	s := domain.NewSession("session-1", u.ID, now)
	if err := sessions.Create(ctx, s); err != nil {
		t.Fatalf("store session: %v", err)
	}
	return s
}

func TestSendCodeValidationHandler_IssuesCodeAndNotifies(t *testing.T) {
	users := userrepo.NewMemoryRepository()
	sessions := authrepo.NewMemorySessionRepository()
	codes := authrepo.NewMemoryCodeValidationRepository()
	notifier := NewMemoryNotifier()
	seedUserAndSession(t, users, sessions)

	h := NewSendCodeValidationHandler(sessions, users, codes, notifier, "pt-BR", time.Hour)
	if err := h.Handle(context.Background(), []byte(`{"session_id":"session-1"}`)); err != nil {
		t.Fatalf("Handle() error: %v", err)
	}

	sent := notifier.Sent()
	if len(sent) != 1 {
		t.Fatalf("notifications sent = %d, want 1", len(sent))
	}
	if sent[0].To != "ana@example.com" {
		t.Errorf("recipient = %q, want %q", sent[0].To, "ana@example.com")
	}
	if !strings.Contains(sent[0].Body, "Ana Silva") {
		t.Errorf("body %q does not address the user", sent[0].Body)
	}

	value := strings.TrimPrefix(sent[0].Head, "Seu código de verificação é ")
	if !code.IsValid(value) {
		t.Fatalf("delivered code %q is not 6 digits", value)
	}
	cv, err := codes.FindByValue(context.Background(), value)
	if err != nil || cv == nil {
		t.Fatalf("delivered code not persisted: %v", err)
	}
	if cv.SessionID != "session-1" {
		t.Errorf("code bound to session %q, want session-1", cv.SessionID)
	}
}

func TestSendCodeValidationHandler_UnknownSession(t *testing.T) {
	users := userrepo.NewMemoryRepository()
	sessions := authrepo.NewMemorySessionRepository()
	codes := authrepo.NewMemoryCodeValidationRepository()
	notifier := NewMemoryNotifier()

	h := NewSendCodeValidationHandler(sessions, users, codes, notifier, "pt-BR", time.Hour)
	err := h.Handle(context.Background(), []byte(`{"session_id":"missing"}`))
	if !errors.Is(err, service.ErrSessionNotFound) {
		t.Fatalf("Handle() error = %v, want ErrSessionNotFound", err)
	}
	if len(notifier.Sent()) != 0 {
		t.Error("notification sent for unknown session")
	}
}

func TestSendCodeValidationHandler_UnknownLocale(t *testing.T) {
	users := userrepo.NewMemoryRepository()
	sessions := authrepo.NewMemorySessionRepository()
	codes := authrepo.NewMemoryCodeValidationRepository()
	notifier := NewMemoryNotifier()
	seedUserAndSession(t, users, sessions)

	h := NewSendCodeValidationHandler(sessions, users, codes, notifier, "en-US", time.Hour)
	err := h.Handle(context.Background(), []byte(`{"session_id":"session-1"}`))
	if !errors.Is(err, ErrUnimplementedLanguage) {
		t.Fatalf("Handle() error = %v, want ErrUnimplementedLanguage", err)
	}
	if len(notifier.Sent()) != 0 {
		t.Error("notification sent despite missing template")
	}
}

func TestSendCodeValidationHandler_BadPayload(t *testing.T) {
	h := NewSendCodeValidationHandler(
		authrepo.NewMemorySessionRepository(),
		userrepo.NewMemoryRepository(),
		authrepo.NewMemoryCodeValidationRepository(),
		NewMemoryNotifier(),
		"pt-BR",
		time.Hour,
	)
	if err := h.Handle(context.Background(), []byte("not-json")); err == nil {
		t.Fatal("Handle() accepted a malformed payload")
	}
}

func TestRenderVerificationCode_UnimplementedLanguage(t *testing.T) {
	_, _, err := RenderVerificationCode("fr-FR", "Ana", "123456")
	if !errors.Is(err, ErrUnimplementedLanguage) {
		t.Fatalf("RenderVerificationCode() error = %v, want ErrUnimplementedLanguage", err)
	}
}
