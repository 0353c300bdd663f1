package google

import (
	"context"

	"golang.org/x/oauth2"
)

// TokenProvider is an interface for providing OAuth tokens for Google APIs.
type TokenProvider interface {
	// GetTokenForAccount retrieves an OAuth token for the specified account
	GetTokenForAccount(ctx context.Context, account string) (*oauth2.Token, error)

	// HasTokenForAccount checks if a token exists for the specified account
	HasTokenForAccount(account string) bool
}

// TokenSaver is implemented by providers that can persist refreshed tokens.
type TokenSaver interface {
	SaveTokenForAccount(account string, tok *oauth2.Token) error
}

// FileTokenProvider provides tokens from a Store on disk.
type FileTokenProvider struct {
	store *Store
}

// NewFileTokenProvider creates a file-based token provider over store.
func NewFileTokenProvider(store *Store) *FileTokenProvider {
	return &FileTokenProvider{store: store}
}

// GetTokenForAccount reads the stored token for account.
func (p *FileTokenProvider) GetTokenForAccount(ctx context.Context, account string) (*oauth2.Token, error) {
	return p.store.Load(account)
}

// HasTokenForAccount checks if a token file exists for account.
func (p *FileTokenProvider) HasTokenForAccount(account string) bool {
	return p.store.Has(account)
}

// SaveTokenForAccount writes tok back to the store.
func (p *FileTokenProvider) SaveTokenForAccount(account string, tok *oauth2.Token) error {
	return p.store.Save(account, tok)
}

// Store returns the store tokens are read from.
func (p *FileTokenProvider) Store() *Store {
	return p.store
}
