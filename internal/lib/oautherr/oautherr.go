// Package oautherr holds caller-correctable protocol errors rendered as {error, error_description}.
package oautherr

import "errors"

// Error is a validation failure with a stable machine readable code
type Error struct {
	Code        string `json:"error"`
	Description string `json:"error_description"`
}

func (e *Error) Error() string {
	return e.Code + ": " + e.Description
}

// Is matches errors by code so that errors.Is works against package values
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// New creates validation error
func New(code, description string) *Error {
	return &Error{Code: code, Description: description}
}

// As extracts validation error from err chain
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// authorization request
var (
	MissingClientID            = New("missing_client_id", "Missing client_id")
	InvalidClientID            = New("invalid_client_id", "Invalid client_id")
	UnsupportedResponseType    = New("unsupported_response_type", "response_type must be code")
	MissingRedirectURI         = New("missing_redirect_uri", "Missing redirect_uri")
	InvalidRedirectURI         = New("invalid_redirect_uri", "Invalid redirect_uri")
	MissingUserID              = New("missing_user_id", "Missing user_id")
	MissingCodeChallenge       = New("missing_code_challenge", "Missing code_challenge")
	MissingCodeChallengeMethod = New("missing_code_challenge_method", "Missing code_challenge_method")
	InvalidCodeChallengeMethod = New("invalid_code_challenge_method", "Invalid code_challenge_method")
)

// consent
var (
	MissingState          = New("missing_state", "Missing state parameter")
	InvalidOrExpiredState = New("invalid_or_expired_state", "Invalid or expired state token")
	InvalidDecision       = New("invalid_decision", "decision must be allow or deny")
)

// token request
var (
	UnsupportedGrantType = New("unsupported_grant_type", "grant_type must be authorization_code")
	MissingCode          = New("missing_code", "Missing code")
	MissingCodeVerifier  = New("missing_code_verifier", "Missing code_verifier")
	InvalidOrExpiredCode = New("invalid_or_expired_code", "Invalid or expired authorization code")
	InvalidCode          = New("invalid_code", "Invalid authorization code")
	InvalidCodeVerifier  = New("invalid_code_verifier", "Invalid code_verifier")
	RedirectURIRequired  = New("invalid_request", "redirect_uri is required")
	RedirectURIMismatch  = New("invalid_redirect_uri", "redirect_uri does not match authorization request")
)

// bearer authentication
var (
	MissingAuthorizationHeader = New("missing_authorization_header", "Missing authorization header")
	InvalidAuthorizationHeader = New("invalid_authorization_header", "Invalid authorization header")
	MissingAccessToken         = New("missing_access_token", "Missing access token")
	InvalidAccessToken         = New("invalid_access_token", "Invalid access token")
	AccessTokenExpired         = New("access_token_expired", "Access token expired")
)
