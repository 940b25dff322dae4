package httpclient

import "net/http"

// AuthType identifies the authentication method.
type AuthType int

const (
	AuthNone AuthType = iota
	AuthBearer
	AuthAPIKey
)

// DefaultAPIKeyHeader is the header APIKeyAuth writes to.
const DefaultAPIKeyHeader = "X-API-Key"

// AuthConfig configures request authentication.
type AuthConfig struct {
	Type AuthType
	// Token is the bearer token or API key value.
	Token string
	// Header names the API key header.
	Header string
}

// APIKeyAuth sends the key in the X-API-Key header.
func APIKeyAuth(key string) *AuthConfig {
	return &AuthConfig{Type: AuthAPIKey, Token: key, Header: DefaultAPIKeyHeader}
}

func (a *AuthConfig) apply(req *http.Request) {
	if a == nil {
		return
	}
	switch a.Type {
	case AuthBearer:
		req.Header.Set("Authorization", "Bearer "+a.Token)
	case AuthAPIKey:
		name := a.Header
		if name == "" {
			name = DefaultAPIKeyHeader
		}
		req.Header.Set(name, a.Token)
	}
}
