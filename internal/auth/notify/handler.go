package notify

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"session-auth-service/internal/auth/domain"
	"session-auth-service/internal/auth/service"
	"session-auth-service/internal/code"
	userdomain "session-auth-service/internal/user/domain"
)

// SessionRepo is the minimal session repository needed by the dispatch handler.
type SessionRepo interface {
	FindByID(ctx context.Context, id string) (*domain.Session, error)
}

// UserRepo is the minimal user repository needed by the dispatch handler.
type UserRepo interface {
	FindByID(ctx context.Context, id string) (*userdomain.User, error)
}

// CodeValidationRepo is the minimal code repository needed by the dispatch handler.
type CodeValidationRepo interface {
	Create(ctx context.Context, c *domain.CodeValidation) error
}

// SendCodeValidationHandler consumes {session_id} jobs from the code-delivery
// queue: it issues and persists a fresh verification code for the session and
// sends the localized notification to the session's owner.
type SendCodeValidationHandler struct {
	sessionRepo SessionRepo
	userRepo    UserRepo
	codeRepo    CodeValidationRepo
	notifier    Notifier
	language    string
	codeTTL     time.Duration
}

// NewSendCodeValidationHandler returns a dispatch handler with the given dependencies.
// codeTTL <= 0 falls back to the code issuer's default.
func NewSendCodeValidationHandler(
	sessionRepo SessionRepo,
	userRepo UserRepo,
	codeRepo CodeValidationRepo,
	notifier Notifier,
	language string,
	codeTTL time.Duration,
) *SendCodeValidationHandler {
	return &SendCodeValidationHandler{
		sessionRepo: sessionRepo,
		userRepo:    userRepo,
		codeRepo:    codeRepo,
		notifier:    notifier,
		language:    language,
		codeTTL:     codeTTL,
	}
}

// Handle processes one queued delivery job. The notification send itself is
// fire-and-forget: a send failure is logged, not returned, so the persisted
// code stays usable.
func (h *SendCodeValidationHandler) Handle(ctx context.Context, payload []byte) error {
	var job deliveryJob
	if err := json.Unmarshal(payload, &job); err != nil {
		return err
	}

	session, err := h.sessionRepo.FindByID(ctx, job.SessionID)
	if err != nil {
		return err
	}
	if session == nil {
		return service.ErrSessionNotFound
	}

	user, err := h.userRepo.FindByID(ctx, session.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return service.ErrUserNotFound
	}

	cv, err := code.New(session.ID, time.Now().UTC(), h.codeTTL)
	if err != nil {
		return err
	}
	if err := h.codeRepo.Create(ctx, cv); err != nil {
		return err
	}

	head, body, err := RenderVerificationCode(h.language, user.Name, cv.Value)
	if err != nil {
		return err
	}

	if err := h.notifier.Send(ctx, user.Email, head, body); err != nil {
		log.Printf("notify: send to %s failed: %v", user.Email, err)
	}
	return nil
}
