package web

import (
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/adib-hasan/gitboard/internal/account"
	"github.com/adib-hasan/gitboard/internal/github"
	"github.com/adib-hasan/gitboard/internal/repo"
	"github.com/adib-hasan/gitboard/internal/session"
	"github.com/adib-hasan/gitboard/internal/shared"
	"github.com/adib-hasan/gitboard/internal/sync"
	"github.com/labstack/echo/v4"
)

// Handler serves the five browser routes: home, login, logout, callback,
// download. All state between requests lives in the signed session cookie.
type Handler struct {
	accounts *account.Store
	repos    *repo.Store
	pipeline *sync.Pipeline
	client   *github.Client
	sessions *session.Manager
	logger   *slog.Logger
}

func NewHandler(
	accounts *account.Store,
	repos *repo.Store,
	pipeline *sync.Pipeline,
	client *github.Client,
	sessions *session.Manager,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		accounts: accounts,
		repos:    repos,
		pipeline: pipeline,
		client:   client,
		sessions: sessions,
		logger:   logger,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.Home)
	e.GET("/login", h.Login)
	e.GET("/logout", h.Logout)
	e.GET("/callback", h.Callback)
	e.GET("/download", h.Download)
}

type homeData struct {
	Account *account.Account
	Repos   []repo.Repo
}

type loginData struct {
	Error string
}

func (h *Handler) Home(c echo.Context) error {
	state := h.sessions.Get(c)

	switch state.Kind {
	case session.SignedIn:
		ctx := c.Request().Context()
		acct, err := h.accounts.GetByOwnerID(ctx, state.OwnerID)
		if errors.Is(err, shared.ErrNotFound) {
			// cookie outlived the row; treat as logged out
			h.sessions.Clear(c)
			return c.Render(http.StatusOK, "login.html", loginData{})
		}
		if err != nil {
			h.logger.Error("loading account for home view", "owner_id", state.OwnerID, "error", err)
			return c.Render(http.StatusOK, "login.html", loginData{Error: "Database Error"})
		}

		repos, err := h.repos.ListByOwner(ctx, state.OwnerID)
		if err != nil {
			h.logger.Error("loading repos for home view", "owner_id", state.OwnerID, "error", err)
			return c.Render(http.StatusOK, "login.html", loginData{Error: "Database Error"})
		}

		return c.Render(http.StatusOK, "home.html", homeData{Account: acct, Repos: repos})

	case session.Errored:
		return c.Render(http.StatusOK, "login.html", loginData{Error: state.Message})

	default:
		return c.Render(http.StatusOK, "login.html", loginData{})
	}
}

func (h *Handler) Login(c echo.Context) error {
	state := h.sessions.GenerateOAuthState()
	return c.Redirect(http.StatusFound, h.client.AuthURL(state))
}

func (h *Handler) Logout(c echo.Context) error {
	h.sessions.Clear(c)
	return c.Redirect(http.StatusFound, "/")
}

func (h *Handler) Callback(c echo.Context) error {
	if !h.sessions.VerifyOAuthState(c.QueryParam("state")) {
		h.logger.Warn("callback with bad oauth state")
		h.sessions.Fail(c, fmt.Sprintf("%d Error", http.StatusUnauthorized))
		return c.Redirect(http.StatusFound, "/")
	}

	ownerID, err := h.pipeline.Run(c.Request().Context(), c.QueryParam("code"))
	switch {
	case err == nil:
		h.sessions.SignIn(c, ownerID)
	case errors.Is(err, sync.ErrStorage):
		h.sessions.Fail(c, "Database Error")
	default:
		var authErr *sync.AuthError
		if errors.As(err, &authErr) {
			h.sessions.Fail(c, fmt.Sprintf("%d Error", authErr.StatusCode))
		} else {
			h.logger.Error("unexpected sync failure", "error", err)
			h.sessions.Fail(c, "Database Error")
		}
	}

	return c.Redirect(http.StatusFound, "/")
}

func (h *Handler) Download(c echo.Context) error {
	state := h.sessions.Get(c)
	if state.Kind != session.SignedIn {
		return c.Redirect(http.StatusFound, "/")
	}

	rows, err := h.repos.ExportRows(c.Request().Context(), state.OwnerID)
	if err != nil {
		h.logger.Error("export query failed", "owner_id", state.OwnerID, "error", err)
		return c.Redirect(http.StatusFound, "/")
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/csv")
	res.Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%s.csv", state.OwnerID))
	res.WriteHeader(http.StatusOK)

	w := csv.NewWriter(res)
	if err := w.Write([]string{"Owner ID", "Owner Name", "Owner Email", "Repo ID", "Repo Name", "Status", "Stars Count"}); err != nil {
		return err
	}
	for _, row := range rows {
		email := ""
		if row.OwnerEmail != nil {
			email = *row.OwnerEmail
		}
		record := []string{
			row.OwnerID,
			row.OwnerName,
			email,
			row.RepoID,
			row.RepoName,
			row.Status,
			strconv.Itoa(row.Stars),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
