package googleauth

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/markbates/goth"
	gothgoogle "github.com/markbates/goth/providers/google"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Scopes requested at consent time.
var Scopes = []string{
	"https://www.googleapis.com/auth/userinfo.profile",
	"https://www.googleapis.com/auth/userinfo.email",
	"https://www.googleapis.com/auth/gmail.readonly",
	"https://www.googleapis.com/auth/gmail.send",
	"https://www.googleapis.com/auth/calendar",
	"https://www.googleapis.com/auth/drive.readonly",
}

// Identity is the result of a successful code exchange.
type Identity struct {
	Subject string
	Email   string
	Name    string
	Token   *oauth2.Token
	Scopes  []string
}

// Provider abstracts the Google OAuth endpoints.
type Provider interface {
	AuthCodeURL(state string) (string, error)
	Exchange(ctx context.Context, code string) (*Identity, error)
	Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error)
}

// GoogleProvider runs the consent flow through goth and refreshes tokens with x/oauth2.
type GoogleProvider struct {
	goth   *gothgoogle.Provider
	oauth  *oauth2.Config
	client *http.Client
}

func NewGoogleProvider(clientID, clientSecret, redirectURL string, timeout time.Duration) *GoogleProvider {
	client := &http.Client{Timeout: timeout}

	p := gothgoogle.New(clientID, clientSecret, redirectURL, Scopes...)
	p.SetAccessType("offline")
	p.SetPrompt("consent")
	p.HTTPClient = client

	return &GoogleProvider{
		goth: p,
		oauth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     google.Endpoint,
			Scopes:       Scopes,
		},
		client: client,
	}
}

func (p *GoogleProvider) AuthCodeURL(state string) (string, error) {
	sess, err := p.goth.BeginAuth(state)
	if err != nil {
		return "", err
	}
	return sess.GetAuthURL()
}

func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*Identity, error) {
	type result struct {
		identity *Identity
		err      error
	}
	done := make(chan result, 1)

	go func() {
		sess := &gothgoogle.Session{}
		if _, err := sess.Authorize(p.goth, url.Values{"code": {code}}); err != nil {
			done <- result{err: fmt.Errorf("exchange code: %w", err)}
			return
		}
		user, err := p.goth.FetchUser(sess)
		if err != nil {
			done <- result{err: fmt.Errorf("fetch user: %w", err)}
			return
		}
		done <- result{identity: identityFromUser(user, sess)}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		return r.identity, r.err
	}
}

func (p *GoogleProvider) Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.client)
	return p.oauth.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken}).Token()
}

func identityFromUser(user goth.User, sess *gothgoogle.Session) *Identity {
	return &Identity{
		Subject: user.UserID,
		Email:   user.Email,
		Name:    user.Name,
		Token: &oauth2.Token{
			AccessToken:  sess.AccessToken,
			RefreshToken: sess.RefreshToken,
			TokenType:    "Bearer",
			Expiry:       sess.ExpiresAt,
		},
		Scopes: Scopes,
	}
}
