package auth

import "errors"

var (
	// ErrMissingIDToken is returned when the token response carries no id_token.
	ErrMissingIDToken = errors.New("no id_token field in oauth2 token")
	// ErrMissingEmail is returned when the ID token has no email claim.
	ErrMissingEmail = errors.New("id token has no email claim")
)
