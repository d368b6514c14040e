package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	oauthgithub "golang.org/x/oauth2/github"
)

const defaultAPIBaseURL = "https://api.github.com"

// Profile is the slice of GitHub's /user response this app persists.
// Bio and Email are pointers because GitHub returns null when unset.
type Profile struct {
	ID        int64   `json:"id"`
	Login     string  `json:"login"`
	Name      string  `json:"name"`
	AvatarURL string  `json:"avatar_url"`
	Bio       *string `json:"bio"`
	Email     *string `json:"email"`
	Followers int     `json:"followers"`
	Following int     `json:"following"`
}

// RepoPayload is one entry of the /user/repos response. The list can include
// repositories the token can see but the user does not own; callers filter on
// Owner.Login.
type RepoPayload struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Visibility string `json:"visibility"`
	Stars      int    `json:"stargazers_count"`
	Forks      int    `json:"forks_count"`
	Owner      struct {
		Login string `json:"login"`
	} `json:"owner"`
}

// ExchangeError reports a failed authorization-code exchange: the token
// endpoint errored or returned no access token.
type ExchangeError struct {
	cause error
}

func (e *ExchangeError) Error() string {
	return fmt.Sprintf("github: code exchange failed: %v", e.cause)
}

func (e *ExchangeError) Unwrap() error {
	return e.cause
}

// UpstreamError reports a non-200 response from the GitHub REST API.
type UpstreamError struct {
	StatusCode int
	Endpoint   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("github: %s returned status %d", e.Endpoint, e.StatusCode)
}

type Options struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string

	// APIBaseURL and Endpoint default to the real GitHub endpoints and are
	// overridden in tests.
	APIBaseURL string
	Endpoint   oauth2.Endpoint
}

// Client performs the authorization-code exchange and the two read calls the
// sync pipeline needs. No retries, no caching; a failed call surfaces as an
// error value.
type Client struct {
	config  *oauth2.Config
	apiBase string
}

func NewClient(opts Options) *Client {
	endpoint := opts.Endpoint
	if endpoint.TokenURL == "" {
		endpoint = oauthgithub.Endpoint
	}
	apiBase := opts.APIBaseURL
	if apiBase == "" {
		apiBase = defaultAPIBaseURL
	}
	return &Client{
		config: &oauth2.Config{
			ClientID:     opts.ClientID,
			ClientSecret: opts.ClientSecret,
			RedirectURL:  opts.RedirectURL,
			Scopes:       []string{"repo"},
			Endpoint:     endpoint,
		},
		apiBase: apiBase,
	}
}

// AuthURL returns the provider authorize URL to redirect the browser to.
func (c *Client) AuthURL(state string) string {
	return c.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades the callback code for an access token.
func (c *Client) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := c.config.Exchange(ctx, code)
	if err != nil {
		return nil, &ExchangeError{cause: err}
	}
	if token.AccessToken == "" {
		return nil, &ExchangeError{cause: fmt.Errorf("token endpoint returned no access token")}
	}
	return token, nil
}

// FetchProfile fetches the authenticated user's profile.
func (c *Client) FetchProfile(ctx context.Context, token *oauth2.Token) (*Profile, error) {
	var profile Profile
	if err := c.get(ctx, token, "/user", &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// FetchRepos fetches the repository list. Single page only, as returned by
// the provider; no pagination handling.
func (c *Client) FetchRepos(ctx context.Context, token *oauth2.Token) ([]RepoPayload, error) {
	var repos []RepoPayload
	if err := c.get(ctx, token, "/user/repos", &repos); err != nil {
		return nil, err
	}
	return repos, nil
}

func (c *Client) get(ctx context.Context, token *oauth2.Token, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBase+path, nil)
	if err != nil {
		return fmt.Errorf("github: building request for %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	resp, err := c.config.Client(ctx, token).Do(req)
	if err != nil {
		return fmt.Errorf("github: calling %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &UpstreamError{StatusCode: resp.StatusCode, Endpoint: path}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("github: decoding %s response: %w", path, err)
	}
	return nil
}
