package auth

// AuthSession is returned on successful login. The token is a PASETO v4.local
// session token; browser clients get it as an HTTP-only cookie instead.
type AuthSession struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	ExpiresIn int64  `json:"expires_in"`
}
