package domain

import "time"

// TokenPair is the result of a successful login. Only AccessToken leaves the
// service; RefreshToken has already been persisted to the directory.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	TokenType    string        // always "Bearer"
	ExpiresIn    time.Duration // access token lifetime
	UserID       string
}
