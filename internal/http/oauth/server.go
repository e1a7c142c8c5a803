package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"github.com/go-chi/chi/v5"
	"log/slog"
	"mime"
	"net/http"
	"oauthd/internal/domain/models"
	"oauthd/internal/lib/metrics"
	"oauthd/internal/lib/oautherr"
	"oauthd/internal/services/validation"
	"oauthd/internal/storage"
)

type Engine interface {
	Authorize(ctx context.Context, req validation.AuthorizeRequest) (*models.ConsentDescriptor, error)
	ConsentInfo(ctx context.Context, stateToken string) (*models.ConsentDescriptor, error)
	Consent(ctx context.Context, stateToken string, decision string) (string, error)
	TokenExchange(ctx context.Context, req validation.TokenRequest) (*models.TokenResponse, error)
}

type Authenticator interface {
	Authenticate(ctx context.Context, authorizationHeader string) (*models.UserClaims, error)
}

type serverAPI struct {
	log    *slog.Logger
	engine Engine
	auth   Authenticator
}

type consentRequest struct {
	State    string `json:"state"`
	Decision string `json:"decision"`
}

type consentResponse struct {
	RedirectURL string `json:"redirect_url"`
}

type internalError struct {
	Error string `json:"error"`
}

// Register mounts oauth endpoints on router.
// tokenMiddlewares wrap the token endpoint only.
func Register(
	router chi.Router,
	log *slog.Logger,
	engine Engine,
	auth Authenticator,
	tokenMiddlewares ...func(http.Handler) http.Handler,
) {
	s := &serverAPI{log: log, engine: engine, auth: auth}

	router.Route("/oauth", func(r chi.Router) {
		r.Get("/authorize", s.Authorize)
		r.Get("/consent", s.ConsentInfo)
		r.Post("/consent", s.Consent)
		r.With(tokenMiddlewares...).Post("/token", s.Token)
		r.Get("/userinfo", s.UserInfo)
	})
}

// Authorize validates authorization request and returns consent screen description
func (s *serverAPI) Authorize(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	descriptor, err := s.engine.Authorize(r.Context(), validation.AuthorizeRequest{
		ClientID:            q.Get("client_id"),
		ResponseType:        q.Get("response_type"),
		RedirectURI:         q.Get("redirect_uri"),
		UserID:              q.Get("user_id"),
		CodeChallenge:       q.Get("code_challenge"),
		CodeChallengeMethod: q.Get("code_challenge_method"),
	})
	metrics.ObservePhase(metrics.PhaseAuthorize, err)
	if err != nil {
		s.renderError(w, err, http.StatusBadRequest)
		return
	}
	s.renderJSON(w, http.StatusOK, descriptor)
}

// ConsentInfo re-renders pending consent without consuming its state
func (s *serverAPI) ConsentInfo(w http.ResponseWriter, r *http.Request) {
	descriptor, err := s.engine.ConsentInfo(r.Context(), r.URL.Query().Get("state"))
	metrics.ObservePhase(metrics.PhaseConsentInfo, err)
	if err != nil {
		s.renderError(w, err, http.StatusBadRequest)
		return
	}
	s.renderJSON(w, http.StatusOK, descriptor)
}

// Consent applies user's decision, accepts form or json body
func (s *serverAPI) Consent(w http.ResponseWriter, r *http.Request) {
	var req consentRequest
	if isJSON(r) {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.renderJSON(w, http.StatusBadRequest, oautherr.New("invalid_request", "Malformed request body"))
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			s.renderJSON(w, http.StatusBadRequest, oautherr.New("invalid_request", "Malformed request body"))
			return
		}
		req.State = r.PostForm.Get("state")
		req.Decision = r.PostForm.Get("decision")
	}

	redirectURL, err := s.engine.Consent(r.Context(), req.State, req.Decision)
	metrics.ObservePhase(metrics.PhaseConsent, err)
	if err != nil {
		s.renderError(w, err, http.StatusBadRequest)
		return
	}
	s.renderJSON(w, http.StatusOK, consentResponse{RedirectURL: redirectURL})
}

// Token exchanges authorization code on access token
func (s *serverAPI) Token(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")

	if err := r.ParseForm(); err != nil {
		s.renderJSON(w, http.StatusBadRequest, oautherr.New("invalid_request", "Malformed request body"))
		return
	}
	resp, err := s.engine.TokenExchange(r.Context(), validation.TokenRequest{
		GrantType:    r.PostForm.Get("grant_type"),
		Code:         r.PostForm.Get("code"),
		ClientID:     r.PostForm.Get("client_id"),
		RedirectURI:  r.PostForm.Get("redirect_uri"),
		CodeVerifier: r.PostForm.Get("code_verifier"),
	})
	metrics.ObservePhase(metrics.PhaseToken, err)
	if err != nil {
		s.renderError(w, err, http.StatusBadRequest)
		return
	}
	s.renderJSON(w, http.StatusOK, resp)
}

// UserInfo returns claims of bearer token owner
func (s *serverAPI) UserInfo(w http.ResponseWriter, r *http.Request) {
	claims, err := s.auth.Authenticate(r.Context(), r.Header.Get("Authorization"))
	metrics.ObservePhase(metrics.PhaseAuthenticate, err)
	if err != nil {
		if _, ok := oautherr.As(err); ok {
			w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
		}
		s.renderError(w, err, http.StatusUnauthorized)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	s.renderJSON(w, http.StatusOK, claims)
}

// renderError writes protocol errors with validationStatus, everything else is hidden behind 500
func (s *serverAPI) renderError(w http.ResponseWriter, err error, validationStatus int) {
	if e, ok := oautherr.As(err); ok {
		s.renderJSON(w, validationStatus, e)
		return
	}
	if errors.Is(err, storage.ErrUserNotFound) {
		s.renderJSON(w, http.StatusNotFound, oautherr.New("user_not_found", "User not found"))
		return
	}
	if errors.Is(err, storage.ErrClientNotFound) {
		s.renderJSON(w, http.StatusNotFound, oautherr.New("client_not_found", "Client not found"))
		return
	}
	s.log.Error("request failed", slog.String("error", err.Error()))
	s.renderJSON(w, http.StatusInternalServerError, internalError{Error: "server_error"})
}

func (s *serverAPI) renderJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("failed to encode response", slog.String("error", err.Error()))
	}
}

func isJSON(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "application/json"
}
