// Package google supplies Google OAuth2 access tokens to the meeting engine.
//
// Obtaining consent and issuing sessions happen elsewhere; this package only
// reads a token that already exists. A SessionProvider returns the current
// *oauth2.Token, either a fixed bearer token (StaticSessionProvider) or one
// stored on disk as JSON (FileSessionProvider). The file provider refreshes
// an expired token on demand when OAuth client credentials are configured.
package google
