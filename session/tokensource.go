package session

import (
	"context"

	"golang.org/x/oauth2"
)

type tokenSource struct {
	ctx    context.Context
	client *Client
}

// TokenSource exposes the session's access token to oauth2 aware code such as
// a websocket dialer. A missing access token triggers the shared refresh.
// Tokens carry no expiry, so wrap it with oauth2.ReuseTokenSource only when
// the caller re-reads on 401 itself.
func (c *Client) TokenSource(ctx context.Context) oauth2.TokenSource {
	return &tokenSource{ctx: ctx, client: c}
}

func (ts *tokenSource) Token() (*oauth2.Token, error) {
	creds, err := ts.client.Credentials(ts.ctx)
	if err != nil {
		return nil, err
	}
	if creds.AccessToken == "" {
		if err := ts.client.recoverAuth(ts.ctx, ""); err != nil {
			return nil, err
		}
		if creds, err = ts.client.Credentials(ts.ctx); err != nil {
			return nil, err
		}
	}
	return &oauth2.Token{
		AccessToken:  creds.AccessToken,
		TokenType:    "Bearer",
		RefreshToken: creds.RefreshToken,
	}, nil
}
