package client

import (
	"encoding/base64"
	"strings"
)

// AccessTokenProvider supplies the current OAuth bearer token for an
// authenticated user session. It is queried on every request, so a
// token refreshed elsewhere is picked up without rebuilding the
// serializer. Implementations must be non-blocking and safe to call
// from any goroutine; returning an empty string means no token is
// currently available.
type AccessTokenProvider interface {
	AccessToken() string
}

// AccessTokenFunc adapts a plain function to the
// AccessTokenProvider interface.
type AccessTokenFunc func() string

func (f AccessTokenFunc) AccessToken() string {
	return f()
}

// StaticToken returns a provider that always yields the given token.
func StaticToken(token string) AccessTokenProvider {
	return AccessTokenFunc(func() string {
		return token
	})
}

// AppConfiguration holds the client credentials used for app-level
// basic auth when no user token is available.
type AppConfiguration struct {
	ClientIdentifier string
	ClientSecret     string
}

// basicAuthValue encodes the app credentials per RFC 7617,
// producing the value for an `Authorization: Basic` header.
func (app *AppConfiguration) basicAuthValue() string {
	pair := app.ClientIdentifier + ":" + app.ClientSecret
	return base64.StdEncoding.EncodeToString([]byte(pair))
}

// bearerToken asks the provider for the current token and trims it.
// A nil provider or a blank token both mean "no token".
func bearerToken(provider AccessTokenProvider) string {
	if provider == nil {
		return ""
	}
	return strings.TrimSpace(provider.AccessToken())
}
