package googleauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"focusos/internal/logger"
	"focusos/internal/model"
	"focusos/internal/repository"
	"focusos/internal/vault"

	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

var (
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrNoLinkedAccount      = errors.New("no linked Google account")
)

// expirySkew refreshes tokens slightly before Google would reject them.
const expirySkew = time.Minute

// Manager owns the linked Google credentials of every user. Tokens are only
// ever persisted through the vault.
type Manager struct {
	provider  Provider
	vault     *vault.Vault
	users     repository.UserRepository
	accounts  repository.GoogleAccountRepository
	refreshes singleflight.Group
	timeout   time.Duration
	now       func() time.Time
	logger    *logger.Logger
}

func NewManager(provider Provider, v *vault.Vault, users repository.UserRepository, accounts repository.GoogleAccountRepository, timeout time.Duration, logger *logger.Logger) *Manager {
	return &Manager{
		provider: provider,
		vault:    v,
		users:    users,
		accounts: accounts,
		timeout:  timeout,
		now:      time.Now,
		logger:   logger,
	}
}

// AuthURL returns the consent URL carrying the given anti-forgery state.
func (m *Manager) AuthURL(state string) (string, error) {
	return m.provider.AuthCodeURL(state)
}

// CompleteAuthorization exchanges the callback code, finds or creates the user
// by email and stores the encrypted credentials.
func (m *Manager) CompleteAuthorization(ctx context.Context, code string) (*model.User, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	identity, err := m.provider.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuthenticationFailed, err)
	}
	if identity.Email == "" || identity.Token == nil {
		return nil, fmt.Errorf("%w: google profile has no email", ErrAuthenticationFailed)
	}

	user, err := m.users.FindByEmail(ctx, identity.Email)
	if errors.Is(err, repository.ErrNotFound) {
		user = model.NewUser(identity.Email, identity.Name)
		if err := m.users.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
		m.logger.Info("Created new user:", user.ID)
	} else if err != nil {
		return nil, err
	}

	account, err := m.accounts.FindByUserID(ctx, user.ID)
	if errors.Is(err, repository.ErrNotFound) {
		account = model.NewGoogleAccount(user.ID, identity.Subject)
	} else if err != nil {
		return nil, err
	}

	account.GoogleSub = identity.Subject
	account.Scopes = identity.Scopes
	if len(account.Scopes) == 0 {
		account.Scopes = Scopes
	}
	if err := m.storeToken(account, identity.Token); err != nil {
		return nil, err
	}
	if err := m.accounts.Upsert(ctx, account); err != nil {
		return nil, fmt.Errorf("store google account: %w", err)
	}

	m.logger.Infow("google account linked", "user_id", user.ID, "has_refresh_token", account.RefreshTokenEnc != "")
	return user, nil
}

// Token returns a usable access token for the user, refreshing it when it is
// expired or about to expire. Concurrent refreshes for one user collapse into one.
func (m *Manager) Token(ctx context.Context, userID string) (*oauth2.Token, error) {
	account, err := m.account(ctx, userID)
	if err != nil {
		return nil, err
	}
	tok, err := m.decryptToken(account)
	if err != nil {
		return nil, err
	}
	if !m.needsRefresh(tok) {
		return tok, nil
	}

	v, err, _ := m.refreshes.Do(userID, func() (interface{}, error) {
		// The flight outlives a single caller's cancellation.
		flightCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.timeout)
		defer cancel()
		return m.refresh(flightCtx, userID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*oauth2.Token), nil
}

// HTTPClient returns an authorized client for the Google API adapters.
func (m *Manager) HTTPClient(ctx context.Context, userID string) (*http.Client, error) {
	tok, err := m.Token(ctx, userID)
	if err != nil {
		return nil, err
	}
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(tok))
	client.Timeout = m.timeout
	return client, nil
}

// IsConnected reports whether the user has linked a Google account.
func (m *Manager) IsConnected(ctx context.Context, userID string) (bool, error) {
	_, err := m.accounts.FindByUserID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (m *Manager) refresh(ctx context.Context, userID string) (*oauth2.Token, error) {
	// Re-read: a flight that finished just before this one may already have refreshed.
	account, err := m.account(ctx, userID)
	if err != nil {
		return nil, err
	}
	current, err := m.decryptToken(account)
	if err != nil {
		return nil, err
	}
	if !m.needsRefresh(current) {
		return current, nil
	}
	if current.RefreshToken == "" {
		return nil, fmt.Errorf("%w: access token expired and no refresh token is stored", ErrAuthenticationFailed)
	}

	fresh, err := m.provider.Refresh(ctx, current.RefreshToken)
	if err != nil {
		m.logger.Errorf("Failed to refresh token for user %s: %v", userID, err)
		return nil, fmt.Errorf("refresh access token: %w", err)
	}
	if fresh.RefreshToken == "" {
		fresh.RefreshToken = current.RefreshToken
	}

	if err := m.storeToken(account, fresh); err != nil {
		return nil, err
	}
	if err := m.accounts.Upsert(ctx, account); err != nil {
		return nil, fmt.Errorf("store refreshed token: %w", err)
	}

	m.logger.Infow("google access token refreshed", "user_id", userID, "expiry", fresh.Expiry)
	return fresh, nil
}

func (m *Manager) account(ctx context.Context, userID string) (*model.GoogleAccount, error) {
	account, err := m.accounts.FindByUserID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNoLinkedAccount
	}
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (m *Manager) needsRefresh(tok *oauth2.Token) bool {
	if tok.AccessToken == "" {
		return true
	}
	if tok.Expiry.IsZero() {
		return false
	}
	return tok.Expiry.Before(m.now().Add(expirySkew))
}

// storeToken encrypts the token onto the account. An empty refresh token keeps
// the previously stored one.
func (m *Manager) storeToken(account *model.GoogleAccount, tok *oauth2.Token) error {
	access, err := m.vault.Encrypt(tok.AccessToken)
	if err != nil {
		return fmt.Errorf("encrypt access token: %w", err)
	}
	account.AccessTokenEnc = access

	if tok.RefreshToken != "" {
		refresh, err := m.vault.Encrypt(tok.RefreshToken)
		if err != nil {
			return fmt.Errorf("encrypt refresh token: %w", err)
		}
		account.RefreshTokenEnc = refresh
	} else if vault.IsLegacy(account.RefreshTokenEnc) {
		if err := m.resealRefreshToken(account); err != nil {
			m.logger.Warnf("Dropping unreadable refresh token for user %s: %v", account.UserID, err)
			account.RefreshTokenEnc = ""
		}
	}

	account.Expiry = tok.Expiry
	account.UpdatedAt = m.now()
	return nil
}

// resealRefreshToken moves a kept CBC-era refresh token onto the current scheme.
func (m *Manager) resealRefreshToken(account *model.GoogleAccount) error {
	plain, err := m.vault.Decrypt(account.RefreshTokenEnc)
	if err != nil {
		return err
	}
	sealed, err := m.vault.Encrypt(plain)
	if err != nil {
		return fmt.Errorf("encrypt refresh token: %w", err)
	}
	account.RefreshTokenEnc = sealed
	return nil
}

func (m *Manager) decryptToken(account *model.GoogleAccount) (*oauth2.Token, error) {
	tok := &oauth2.Token{TokenType: "Bearer", Expiry: account.Expiry}

	if account.AccessTokenEnc != "" {
		access, err := m.vault.Decrypt(account.AccessTokenEnc)
		if err != nil {
			return nil, fmt.Errorf("decrypt access token: %w", err)
		}
		tok.AccessToken = access
	}
	if account.RefreshTokenEnc != "" {
		refresh, err := m.vault.Decrypt(account.RefreshTokenEnc)
		if err != nil {
			return nil, fmt.Errorf("decrypt refresh token: %w", err)
		}
		tok.RefreshToken = refresh
	}
	return tok, nil
}
