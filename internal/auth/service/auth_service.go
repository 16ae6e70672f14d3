// Package service implements the session lifecycle: register, login, validate,
// refresh, logout, and the bearer-token authorization check.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"session-auth-service/internal/auth/domain"
	"session-auth-service/internal/events"
	"session-auth-service/internal/token"
	userdomain "session-auth-service/internal/user/domain"
)

// Sentinel errors for the auth service; the HTTP handler maps them to status codes.
var (
	ErrUserAlreadyExists       = errors.New("user already exists")
	ErrUserNotFound            = errors.New("user not found")
	ErrSessionNotFound         = errors.New("session not found")
	ErrCodeValidationNotFound  = errors.New("code validation not found")
	ErrCodeValidationExpired   = errors.New("code validation expired")
	ErrSessionAlreadyValidated = errors.New("session already validated")
	ErrCodeSessionMismatch     = errors.New("the code does not belong to the session")
	ErrUnauthorized            = errors.New("unauthorized")
)

// UserRepo is the minimal user repository needed by the auth service.
type UserRepo interface {
	FindByID(ctx context.Context, id string) (*userdomain.User, error)
	FindByEmail(ctx context.Context, email string) (*userdomain.User, error)
	Create(ctx context.Context, u *userdomain.User) error
}

// SessionRepo is the minimal session repository needed by the auth service.
type SessionRepo interface {
	Create(ctx context.Context, s *domain.Session) error
	Save(ctx context.Context, s *domain.Session) error
	FindByID(ctx context.Context, id string) (*domain.Session, error)
	Validate(ctx context.Context, id string, at time.Time) (bool, error)
}

// CodeValidationRepo is the minimal code repository needed by the auth service.
type CodeValidationRepo interface {
	FindByValue(ctx context.Context, value string) (*domain.CodeValidation, error)
}

// AuthService implements the session state machine and token issuance.
// Sessions progress created -> validated -> closed; closing before validation
// is also legal.
type AuthService struct {
	userRepo    UserRepo
	sessionRepo SessionRepo
	codeRepo    CodeValidationRepo
	codec       *token.Codec
	bus         *events.Bus
	accessTTL   time.Duration
}

// NewAuthService returns an AuthService with the given dependencies.
// accessTTL <= 0 falls back to 1h.
func NewAuthService(
	userRepo UserRepo,
	sessionRepo SessionRepo,
	codeRepo CodeValidationRepo,
	codec *token.Codec,
	bus *events.Bus,
	accessTTL time.Duration,
) *AuthService {
	if accessTTL <= 0 {
		accessTTL = time.Hour
	}
	return &AuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		codeRepo:    codeRepo,
		codec:       codec,
		bus:         bus,
		accessTTL:   accessTTL,
	}
}

// Register creates a user and an unvalidated session for it, then dispatches
// the session-created event so a verification code is delivered out of band.
// Returns the new session id. Fails with ErrUserAlreadyExists when the email
// is taken; name/email validation errors come from the user domain.
func (s *AuthService) Register(ctx context.Context, name, email string) (string, error) {
	now := time.Now().UTC()
	user, err := userdomain.NewUser(uuid.New().String(), name, email, now)
	if err != nil {
		return "", err
	}
	existing, err := s.userRepo.FindByEmail(ctx, user.Email)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", ErrUserAlreadyExists
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return "", err
	}
	return s.openSession(ctx, user.ID, now)
}

// Login creates a new unvalidated session for an existing user and dispatches
// the session-created event. Fails with ErrUserNotFound when the email is unknown.
func (s *AuthService) Login(ctx context.Context, email string) (string, error) {
	if err := userdomain.ValidateEmail(email); err != nil {
		return "", err
	}
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrUserNotFound
	}
	return s.openSession(ctx, user.ID, time.Now().UTC())
}

// openSession persists a fresh session and dispatches SessionCreated. The
// dispatch runs after the write commits; a handler failure surfaces to the
// caller but does not undo the persisted session.
func (s *AuthService) openSession(ctx context.Context, userID string, now time.Time) (string, error) {
	session := domain.NewSession(uuid.New().String(), userID, now)
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return "", err
	}
	if err := s.bus.Dispatch(ctx, domain.SessionCreated{SessionID: session.ID, At: now}); err != nil {
		return "", err
	}
	return session.ID, nil
}

// ValidateSession consumes a delivered verification code and, on success,
// transitions the session to validated and mints a token pair: an access
// token expiring in accessTTL and a refresh token with no expiry.
//
// The validated transition is an atomic conditional write, so concurrent
// validations of the same session cannot both succeed.
func (s *AuthService) ValidateSession(ctx context.Context, codeValue, sessionID string) (*domain.TokenPair, error) {
	now := time.Now().UTC()

	cv, err := s.codeRepo.FindByValue(ctx, codeValue)
	if err != nil {
		return nil, err
	}
	if cv == nil {
		return nil, ErrCodeValidationNotFound
	}
	if cv.Expired(now) {
		return nil, ErrCodeValidationExpired
	}

	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	if session.Validated() {
		return nil, ErrSessionAlreadyValidated
	}
	if cv.SessionID != session.ID {
		return nil, ErrCodeSessionMismatch
	}

	pair, err := s.mintPair(session.ID, now)
	if err != nil {
		return nil, err
	}

	ok, err := s.sessionRepo.Validate(ctx, session.ID, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrSessionAlreadyValidated
	}

	if err := s.bus.Dispatch(ctx, domain.SessionValidated{SessionID: session.ID, At: now}); err != nil {
		return nil, err
	}
	return pair, nil
}

// RefreshToken rotates a token pair. Any decode failure, expired token,
// session mismatch between the two tokens, or unknown session yields
// ErrUnauthorized. The session's validated/closed state is deliberately not
// re-checked here; the authorization check covers protected calls.
func (s *AuthService) RefreshToken(ctx context.Context, accessValue, refreshValue string) (*domain.TokenPair, error) {
	now := time.Now().UTC()

	accessPayload, err := s.codec.Decode(accessValue)
	if err != nil {
		return nil, ErrUnauthorized
	}
	refreshPayload, err := s.codec.Decode(refreshValue)
	if err != nil {
		return nil, ErrUnauthorized
	}
	if accessPayload.SessionID == "" || refreshPayload.SessionID == "" {
		return nil, ErrUnauthorized
	}

	access := domain.Token{Value: accessValue, SessionID: accessPayload.SessionID, ExpiresAt: accessPayload.ExpiresAt}
	refresh := domain.Token{Value: refreshValue, SessionID: refreshPayload.SessionID, ExpiresAt: refreshPayload.ExpiresAt}
	if access.Expired(now) || refresh.Expired(now) {
		return nil, ErrUnauthorized
	}
	if access.SessionID != refresh.SessionID {
		return nil, ErrUnauthorized
	}

	session, err := s.sessionRepo.FindByID(ctx, access.SessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrUnauthorized
	}

	return s.mintPair(session.ID, now)
}

// Logout closes the session. Closing an already closed session is allowed and
// just re-touches the timestamp.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	now := time.Now().UTC()
	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if session == nil {
		return ErrSessionNotFound
	}
	session.Close(now)
	if err := s.sessionRepo.Save(ctx, session); err != nil {
		return err
	}
	return s.bus.Dispatch(ctx, domain.SessionClosed{SessionID: session.ID, At: now})
}

// Authorize implements the guard contract for protected endpoints: decode the
// bearer token, require a session id and an unexpired expiry in the payload,
// and accept only sessions that are validated and not closed.
func (s *AuthService) Authorize(ctx context.Context, rawToken string) (*domain.Session, error) {
	if rawToken == "" {
		return nil, ErrUnauthorized
	}
	payload, err := s.codec.Decode(rawToken)
	if err != nil {
		return nil, ErrUnauthorized
	}
	if payload.SessionID == "" || payload.ExpiresAt == nil {
		return nil, ErrUnauthorized
	}
	tok := domain.Token{Value: rawToken, SessionID: payload.SessionID, ExpiresAt: payload.ExpiresAt}
	if tok.Expired(time.Now().UTC()) {
		return nil, ErrUnauthorized
	}
	session, err := s.sessionRepo.FindByID(ctx, tok.SessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrUnauthorized
	}
	if session.Closed() || !session.Validated() {
		return nil, ErrUnauthorized
	}
	return session, nil
}

// mintPair issues a fresh access token (expiring in accessTTL) and refresh
// token (no expiry) for the session.
func (s *AuthService) mintPair(sessionID string, now time.Time) (*domain.TokenPair, error) {
	accessExpiry := now.Add(s.accessTTL)
	accessValue, err := s.codec.Encode(token.Payload{SessionID: sessionID, ExpiresAt: &accessExpiry})
	if err != nil {
		return nil, err
	}
	refreshValue, err := s.codec.Encode(token.Payload{SessionID: sessionID})
	if err != nil {
		return nil, err
	}
	return &domain.TokenPair{
		Access:  domain.Token{Value: accessValue, SessionID: sessionID, ExpiresAt: &accessExpiry},
		Refresh: domain.Token{Value: refreshValue, SessionID: sessionID},
	}, nil
}
