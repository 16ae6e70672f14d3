// Package handler exposes the auth use-cases over HTTP.
package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"session-auth-service/internal/auth/notify"
	"session-auth-service/internal/auth/service"
	"session-auth-service/internal/code"
	userdomain "session-auth-service/internal/user/domain"
)

// Server wires the auth service to HTTP routes.
type Server struct {
	svc *service.AuthService
}

// NewServer returns an HTTP server for the given auth service.
func NewServer(svc *service.AuthService) *Server {
	return &Server{svc: svc}
}

// Routes returns the chi router with all auth endpoints mounted.
// Logout requires a valid bearer token; the other endpoints are public.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Post("/auth/register", s.handleRegister)
	r.Post("/auth/login", s.handleLogin)
	r.Post("/auth/validate", s.handleValidate)
	r.Post("/auth/refresh", s.handleRefresh)

	r.Group(func(r chi.Router) {
		r.Use(s.RequireAuth)
		r.Post("/auth/logout", s.handleLogout)
	})

	return r
}

type registerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type loginRequest struct {
	Email string `json:"email"`
}

type sessionResponse struct {
	SessionID string `json:"session_id"`
}

type validateRequest struct {
	Code      string `json:"code"`
	SessionID string `json:"session_id"`
}

type tokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type refreshRequest struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type logoutRequest struct {
	SessionID string `json:"session_id"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	sessionID, err := s.svc.Register(r.Context(), req.Name, req.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse{SessionID: sessionID})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	sessionID, err := s.svc.Login(r.Context(), req.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse{SessionID: sessionID})
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	pair, err := s.svc.ValidateSession(r.Context(), req.Code, req.SessionID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenPairResponse{
		AccessToken:  pair.Access.Value,
		RefreshToken: pair.Refresh.Value,
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if !decodeBody(w, r, &req) {
		return
	}
	pair, err := s.svc.RefreshToken(r.Context(), req.AccessToken, req.RefreshToken)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenPairResponse{
		AccessToken:  pair.Access.Value,
		RefreshToken: pair.Refresh.Value,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	var req logoutRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.svc.Logout(r.Context(), req.SessionID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid request body"})
		return false
	}
	return true
}

type errorResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("http: write response: %v", err)
	}
}

// writeError maps domain errors to HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, userdomain.ErrInvalidEmail),
		errors.Is(err, userdomain.ErrInvalidName),
		errors.Is(err, code.ErrInvalidCode):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrUserAlreadyExists),
		errors.Is(err, service.ErrSessionAlreadyValidated):
		status = http.StatusConflict
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrCodeValidationNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrCodeValidationExpired):
		status = http.StatusGone
	case errors.Is(err, service.ErrCodeSessionMismatch):
		status = http.StatusNotAcceptable
	case errors.Is(err, service.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, notify.ErrUnimplementedLanguage):
		status = http.StatusNotImplemented
	}
	if status == http.StatusInternalServerError {
		log.Printf("http: internal error: %v", err)
		writeJSON(w, status, errorResponse{Message: "internal server error"})
		return
	}
	writeJSON(w, status, errorResponse{Message: err.Error()})
}
