package grant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"oauthd/internal/domain/models"
	"oauthd/internal/lib/oautherr"
	"oauthd/internal/lib/pkce"
	"oauthd/internal/lib/random"
	"oauthd/internal/services/grant/interfaces"
	"oauthd/internal/services/validation"
	interfaces2 "oauthd/internal/services/validation/interfaces"
	"oauthd/internal/storage"
	"strings"
	"time"
)

// DefaultPermissions are shown on the consent screen when none configured
var DefaultPermissions = []string{"Read your profile information", "Access your email address"}

// Config tunes the engine
type Config struct {
	StateTTL             time.Duration
	CodeTTL              time.Duration
	SkipConsentIfGranted bool
	RequestedPermissions []string
}

// Engine drives the authorization code grant: authorize, consent and token exchange
type Engine struct {
	log             *slog.Logger
	validator       interfaces.RequestValidator
	clientProvider  interfaces2.ClientProvider
	userProvider    interfaces2.UserProvider
	stateStorage    interfaces.StateStorage
	authCodeStorage interfaces.AuthCodeStorage
	grantStorage    interfaces.GrantStorage
	tokenIssuer     interfaces.TokenIssuer
	cfg             Config
}

// New returns a new instance of the grant Engine
func New(
	log *slog.Logger,
	validator interfaces.RequestValidator,
	clientProvider interfaces2.ClientProvider,
	userProvider interfaces2.UserProvider,
	stateStorage interfaces.StateStorage,
	authCodeStorage interfaces.AuthCodeStorage,
	grantStorage interfaces.GrantStorage,
	tokenIssuer interfaces.TokenIssuer,
	cfg Config,
) *Engine {
	if len(cfg.RequestedPermissions) == 0 {
		cfg.RequestedPermissions = DefaultPermissions
	}
	return &Engine{
		log:             log,
		validator:       validator,
		clientProvider:  clientProvider,
		userProvider:    userProvider,
		stateStorage:    stateStorage,
		authCodeStorage: authCodeStorage,
		grantStorage:    grantStorage,
		tokenIssuer:     tokenIssuer,
		cfg:             cfg,
	}
}

// Authorize validates authorization request and parks it under a fresh state token awaiting consent.
// With SkipConsentIfGranted and an existing grant the request is approved right away
// and the descriptor carries the redirect url.
func (e *Engine) Authorize(ctx context.Context, req validation.AuthorizeRequest) (*models.ConsentDescriptor, error) {
	const op = "grant.Authorize"
	logger := e.log.With(slog.String("op", op), slog.String("client_id", req.ClientID))

	valid, err := e.validator.ValidateAuthorizeRequest(ctx, req)
	if err != nil {
		logRejected(logger, err)
		return nil, err
	}

	stateToken, err := random.HexToken()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	st := &models.AuthorizationState{
		State:       stateToken,
		ClientID:    valid.Client.ClientID,
		RedirectURI: valid.RedirectURI,
		UserID:      valid.User.ID,
		PKCE:        valid.PKCE,
		CreatedAt:   time.Now().UTC(),
	}
	if err = e.stateStorage.SaveState(ctx, st, e.cfg.StateTTL); err != nil {
		logger.Error("failed to save authorization state", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	logger.Debug("authorization state saved")

	descriptor := e.describe(valid.Client, valid.User, stateToken)
	if !e.cfg.SkipConsentIfGranted {
		return descriptor, nil
	}

	granted, err := e.grantStorage.HasGrant(ctx, valid.User.ID, valid.Client.ClientID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if granted {
		logger.Info("client already granted, skipping consent")
		redirectURL, err := e.Consent(ctx, stateToken, models.DecisionAllow.String())
		if err != nil {
			return nil, err
		}
		descriptor.RedirectURL = redirectURL
	}
	return descriptor, nil
}

// ConsentInfo describes pending authorization request without consuming its state
func (e *Engine) ConsentInfo(ctx context.Context, stateToken string) (*models.ConsentDescriptor, error) {
	const op = "grant.ConsentInfo"

	if strings.TrimSpace(stateToken) == "" {
		return nil, oautherr.MissingState
	}
	st, err := e.stateStorage.State(ctx, stateToken)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return nil, oautherr.InvalidOrExpiredState
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	client, err := e.clientProvider.Client(ctx, st.ClientID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user, err := e.userProvider.UserByID(ctx, st.UserID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return e.describe(client, user, stateToken), nil
}

// Consent applies user's decision to the pending request identified by stateToken.
// The state is consumed atomically whatever the outcome, so it is accepted at most once.
// Returns url the user agent has to be redirected to.
func (e *Engine) Consent(ctx context.Context, stateToken string, decision string) (string, error) {
	const op = "grant.Consent"
	logger := e.log.With(slog.String("op", op))

	if strings.TrimSpace(stateToken) == "" {
		return "", oautherr.MissingState
	}
	st, err := e.stateStorage.ConsumeState(ctx, stateToken)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			logger.Info("consent for unknown state")
			return "", oautherr.InvalidOrExpiredState
		}
		logger.Error("failed to consume authorization state", slog.String("error", err.Error()))
		return "", fmt.Errorf("%s: %w", op, err)
	}
	logger = logger.With(slog.String("client_id", st.ClientID), slog.Int64("user_id", st.UserID))

	d, ok := models.ParseDecision(decision)
	if !ok {
		return "", oautherr.InvalidDecision
	}

	if d == models.DecisionDeny {
		logger.Info("user denied authorization")
		return buildRedirectURL(st.RedirectURI, map[string]string{
			"error":             "access_denied",
			"error_description": "User denied authorization",
		})
	}

	if err = e.grantStorage.SaveGrant(ctx, st.UserID, st.ClientID); err != nil {
		logger.Error("failed to save grant", slog.String("error", err.Error()))
		return "", fmt.Errorf("%s: %w", op, err)
	}

	code, err := random.HexToken()
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	authCode := &models.AuthorizationCode{
		Code:        code,
		ClientID:    st.ClientID,
		UserID:      st.UserID,
		RedirectURI: st.RedirectURI,
		PKCE:        st.PKCE,
		CreatedAt:   time.Now().UTC(),
	}
	if err = e.authCodeStorage.SaveAuthCode(ctx, authCode, e.cfg.CodeTTL); err != nil {
		logger.Error("failed to save authorization code", slog.String("error", err.Error()))
		return "", fmt.Errorf("%s: %w", op, err)
	}
	logger.Info("authorization code issued")

	return buildRedirectURL(st.RedirectURI, map[string]string{"code": code})
}

// TokenExchange exchanges authorization code on access token.
// The code is gone after the call on every path, so it can never be exchanged twice.
func (e *Engine) TokenExchange(ctx context.Context, req validation.TokenRequest) (*models.TokenResponse, error) {
	const op = "grant.TokenExchange"
	logger := e.log.With(slog.String("op", op), slog.String("client_id", req.ClientID))

	consumed := false
	if req.Code != "" {
		defer func() {
			if consumed {
				return
			}
			if err := e.authCodeStorage.RemoveAuthCode(context.WithoutCancel(ctx), req.Code); err != nil {
				logger.Error("failed to remove authorization code", slog.String("error", err.Error()))
			}
		}()
	}

	client, err := e.validator.ValidateTokenRequest(ctx, req)
	if err != nil {
		logRejected(logger, err)
		return nil, err
	}

	code, err := e.authCodeStorage.ConsumeAuthCode(ctx, req.Code)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			consumed = true
			logger.Info("exchange of unknown or already used code")
			return nil, oautherr.InvalidOrExpiredCode
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	consumed = true

	if code.ClientID != client.ClientID {
		logger.Warn("authorization code presented by another client")
		return nil, oautherr.InvalidCode
	}
	if req.RedirectURI != "" && req.RedirectURI != code.RedirectURI {
		return nil, oautherr.RedirectURIMismatch
	}
	if !pkce.Verify(code.PKCE.CodeChallenge, code.PKCE.Method, req.CodeVerifier) {
		logger.Info("pkce verification failed")
		return nil, oautherr.InvalidCodeVerifier
	}

	user, err := e.userProvider.UserByID(ctx, code.UserID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	token, err := e.tokenIssuer.Issue(ctx, client.ClientID, user.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	logger.Info("authorization code exchanged", slog.Int64("user_id", user.ID))

	return &models.TokenResponse{
		AccessToken: token.Token,
		TokenType:   models.TokenTypeBearer,
		ExpiresIn:   e.tokenIssuer.ExpiresIn(token),
	}, nil
}

func (e *Engine) describe(client *models.Client, user *models.User, stateToken string) *models.ConsentDescriptor {
	permissions := make([]string, len(e.cfg.RequestedPermissions))
	copy(permissions, e.cfg.RequestedPermissions)

	return &models.ConsentDescriptor{
		ClientName:           client.Name,
		UserName:             user.DisplayName(),
		RequestedPermissions: permissions,
		State:                stateToken,
		Actions: map[string]models.ConsentAction{
			models.DecisionAllow.String(): {State: stateToken, Decision: models.DecisionAllow.String()},
			models.DecisionDeny.String():  {State: stateToken, Decision: models.DecisionDeny.String()},
		},
	}
}

// buildRedirectURL merges params into query of base uri keeping its existing parameters
func buildRedirectURL(base string, params map[string]string) (string, error) {
	const op = "grant.buildRedirectURL"

	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	q := u.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func logRejected(logger *slog.Logger, err error) {
	if e, ok := oautherr.As(err); ok {
		logger.Info("request rejected", slog.String("error", e.Code))
		return
	}
	if errors.Is(err, storage.ErrUserNotFound) {
		logger.Info("request references unknown user")
		return
	}
	logger.Error("request validation failed", slog.String("error", err.Error()))
}
