package meeting

import "golang.org/x/oauth2"

// Authorize returns the bearer access token carried by token, or
// ErrUnauthorized when token is missing, empty or expired. Expiry follows
// oauth2.Token.Valid, so a token without an expiry never expires.
func Authorize(token *oauth2.Token) (string, error) {
	if token == nil || token.AccessToken == "" {
		return "", ErrUnauthorized
	}
	if !token.Valid() {
		return "", &Error{Kind: KindUnauthorized, Message: ErrUnauthorized.Message, Err: errTokenExpired}
	}
	return token.AccessToken, nil
}
