package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/adib-hasan/gitboard/internal/account"
	"github.com/adib-hasan/gitboard/internal/github"
	"github.com/adib-hasan/gitboard/internal/repo"
	"github.com/adib-hasan/gitboard/internal/shared"
	"golang.org/x/oauth2"
)

// ErrStorage is the only storage signal the pipeline exposes. The classified
// cause goes to the log; callers show one fixed message.
var ErrStorage = errors.New("storage failure")

// AuthError reports that the OAuth exchange or one of the upstream reads did
// not succeed. StatusCode is the failing call's HTTP status.
type AuthError struct {
	StatusCode int
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("upstream auth failure: status %d", e.StatusCode)
}

// Exchanger is the slice of the GitHub client the pipeline depends on.
type Exchanger interface {
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	FetchProfile(ctx context.Context, token *oauth2.Token) (*github.Profile, error)
	FetchRepos(ctx context.Context, token *oauth2.Token) ([]github.RepoPayload, error)
}

// Pipeline turns an OAuth callback code into persisted account and repository
// rows. One linear run per request: exchange, fetch both reads, then upsert
// the account before its repositories. Writes already committed when a later
// write fails are not rolled back.
type Pipeline struct {
	client   Exchanger
	accounts *account.Store
	repos    *repo.Store
	logger   *slog.Logger
}

func NewPipeline(client Exchanger, accounts *account.Store, repos *repo.Store, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		client:   client,
		accounts: accounts,
		repos:    repos,
		logger:   logger,
	}
}

// Run executes one sync and returns the owner ID to sign the session in with.
// Failures are *AuthError (upstream, carries the status) or ErrStorage
// (opaque). Nothing is written before both upstream calls have succeeded.
func (p *Pipeline) Run(ctx context.Context, code string) (string, error) {
	token, err := p.client.Exchange(ctx, code)
	if err != nil {
		p.logger.Warn("code exchange failed", "error", err)
		return "", &AuthError{StatusCode: http.StatusUnauthorized}
	}

	profile, err := p.client.FetchProfile(ctx, token)
	if err != nil {
		return "", p.authError("profile fetch failed", err)
	}

	payloads, err := p.client.FetchRepos(ctx, token)
	if err != nil {
		return "", p.authError("repo fetch failed", err)
	}

	ownerID := strconv.FormatInt(profile.ID, 10)
	acct := &account.Account{
		OwnerID:        ownerID,
		Name:           profile.Name,
		Login:          profile.Login,
		AvatarURL:      profile.AvatarURL,
		Bio:            profile.Bio,
		Email:          profile.Email,
		FollowersCount: profile.Followers,
		FollowingCount: profile.Following,
	}

	// The repo list can include repositories visible through the token's
	// scope but owned by someone else; only the user's own rows are kept.
	repos := make([]repo.Repo, 0, len(payloads))
	for _, r := range payloads {
		if r.Owner.Login != profile.Login {
			continue
		}
		repos = append(repos, repo.Repo{
			ID:      strconv.FormatInt(r.ID, 10),
			OwnerID: ownerID,
			Name:    r.Name,
			Status:  r.Visibility,
			Stars:   r.Stars,
			Forks:   r.Forks,
		})
	}

	// Schema must be safe to ensure on every sync, not just the first.
	if err := p.ensureSchema(); err != nil {
		return "", p.storageError("schema ensure failed", err)
	}

	// Account row first: repo rows reference it.
	if err := p.accounts.Upsert(ctx, acct); err != nil {
		return "", p.storageError("account upsert failed", err)
	}

	if err := p.repos.UpsertAll(ctx, repos); err != nil {
		return "", p.storageError("repo upsert failed", err)
	}

	p.logger.Info("sync complete", "owner_id", ownerID, "repos", len(repos))
	return ownerID, nil
}

func (p *Pipeline) ensureSchema() error {
	if err := p.accounts.Migrate(); err != nil {
		return err
	}
	return p.repos.Migrate()
}

func (p *Pipeline) authError(msg string, err error) error {
	var upErr *github.UpstreamError
	if errors.As(err, &upErr) {
		p.logger.Warn(msg, "status", upErr.StatusCode, "endpoint", upErr.Endpoint)
		return &AuthError{StatusCode: upErr.StatusCode}
	}
	p.logger.Warn(msg, "error", err)
	return &AuthError{StatusCode: http.StatusBadGateway}
}

func (p *Pipeline) storageError(msg string, err error) error {
	var se *shared.StorageError
	if errors.As(err, &se) {
		p.logger.Error(msg, "kind", se.Kind.String(), "error", err)
	} else {
		p.logger.Error(msg, "error", err)
	}
	return ErrStorage
}
