package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// ErrNoToken is returned when no token is stored for an account.
var ErrNoToken = errors.New("no Google OAuth token stored")

// RedirectURL is where Google sends the browser after consent. Nothing
// listens there; the user copies the code (or the whole URL) back.
const RedirectURL = "http://localhost"

var accountNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// validateAccountName rejects names that are unsafe as file name parts.
func validateAccountName(account string) error {
	if account == "" {
		return fmt.Errorf("account name cannot be empty")
	}
	if !accountNamePattern.MatchString(account) {
		return fmt.Errorf("invalid account name %q: only letters, digits, '-' and '_' are allowed", account)
	}
	return nil
}

// OAuthConfig returns the OAuth2 configuration for the given client.
func OAuthConfig(clientID, clientSecret string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  RedirectURL,
		Scopes:       DefaultOAuthScopes,
	}
}

// AuthURL returns the consent page URL for conf.
func AuthURL(conf *oauth2.Config, state string) string {
	return conf.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// ParseCode extracts the authorization code from what the user pasted:
// either the bare code or the full redirect URL.
func ParseCode(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("authorization code is empty")
	}
	if !strings.Contains(input, "://") {
		return input, nil
	}

	u, err := url.Parse(input)
	if err != nil {
		return "", fmt.Errorf("failed to parse redirect URL: %w", err)
	}
	if msg := u.Query().Get("error"); msg != "" {
		return "", fmt.Errorf("authorization was denied: %s", msg)
	}
	code := u.Query().Get("code")
	if code == "" {
		return "", fmt.Errorf("redirect URL has no code parameter")
	}
	return code, nil
}

// Store keeps one token file per account.
type Store struct {
	dir string
}

// NewStore returns a Store rooted at dir, or at the user cache directory
// when dir is empty.
func NewStore(dir string) *Store {
	if dir == "" {
		dir = filepath.Join(userCacheDir(), "calhelper")
	}
	return &Store{dir: dir}
}

// Dir returns the directory tokens are kept in.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the token file for account.
func (s *Store) Path(account string) string {
	return filepath.Join(s.dir, fmt.Sprintf("google-%s.token", account))
}

// Has reports whether a token file exists for account.
func (s *Store) Has(account string) bool {
	if validateAccountName(account) != nil {
		return false
	}
	_, err := os.Stat(s.Path(account))
	return err == nil
}

// Load reads the token for account.
func (s *Store) Load(account string) (*oauth2.Token, error) {
	if err := validateAccountName(account); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.Path(account))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w for account %s: run 'calhelper auth --account %s'", ErrNoToken, account, account)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("invalid token file %s: %w", s.Path(account), err)
	}
	return &tok, nil
}

// Save writes the token for account with owner-only permissions.
func (s *Store) Save(account string, tok *oauth2.Token) error {
	if err := validateAccountName(account); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	data, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}
	if err := os.WriteFile(s.Path(account), data, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// Exchange trades the pasted code for a token and stores it for account.
func Exchange(ctx context.Context, conf *oauth2.Config, store *Store, account, input string) error {
	code, err := ParseCode(input)
	if err != nil {
		return err
	}

	tok, err := conf.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("failed to exchange auth code: %w", err)
	}
	return store.Save(account, tok)
}

// HTTPClient returns an HTTP client authorized as account. Tokens refreshed
// during the client's lifetime are written back through provider when it
// implements TokenSaver.
// The client uses HTTP/1.1 to avoid HTTP/2 protocol errors.
func HTTPClient(ctx context.Context, conf *oauth2.Config, provider TokenProvider, account string) (*http.Client, error) {
	if provider == nil {
		return nil, fmt.Errorf("token provider cannot be nil")
	}

	tok, err := provider.GetTokenForAccount(ctx, account)
	if err != nil {
		return nil, err
	}

	var ts oauth2.TokenSource = conf.TokenSource(ctx, tok)
	if saver, ok := provider.(TokenSaver); ok {
		ts = &savingTokenSource{base: ts, last: tok.AccessToken, account: account, saver: saver}
	}

	return &http.Client{
		Transport: &oauth2.Transport{
			Source: oauth2.ReuseTokenSource(tok, ts),
			Base:   &http.Transport{ForceAttemptHTTP2: false},
		},
	}, nil
}

// savingTokenSource persists tokens whose access token changed.
type savingTokenSource struct {
	base    oauth2.TokenSource
	last    string
	account string
	saver   TokenSaver
}

func (s *savingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.base.Token()
	if err != nil {
		return nil, err
	}
	if tok.AccessToken != s.last {
		s.last = tok.AccessToken
		if err := s.saver.SaveTokenForAccount(s.account, tok); err != nil {
			return nil, err
		}
	}
	return tok, nil
}

func userCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return dir
	}
	if runtime.GOOS == "windows" {
		return os.Getenv("TEMP")
	}
	return filepath.Join(os.Getenv("HOME"), ".cache")
}
