// Package github talks to the GitHub REST API on behalf of the bot.
package github

import (
	"bytes"
	"context"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Deymos01/git-slackin/internal/config"
	"github.com/Deymos01/git-slackin/internal/lib/backoff"
	"github.com/hashicorp/go-multierror"
)

var ErrUnexpectedStatus = errors.New("unexpected status")

type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type Client struct {
	log     *slog.Logger
	http    HTTPDoer
	baseURL string
	policy  backoff.Policy
	now     func() time.Time

	token string

	appID          string
	appKey         *rsa.PrivateKey
	installationID int64

	tokenMu      sync.Mutex
	installation installationToken
}

type Option func(*Client)

func WithHTTPClient(doer HTTPDoer) Option {
	return func(c *Client) { c.http = doer }
}

func WithRetryPolicy(p backoff.Policy) Option {
	return func(c *Client) { c.policy = p }
}

func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// WithAppKey supplies the GitHub App private key directly instead of reading
// cfg.AppKeyPath.
func WithAppKey(pemBytes []byte) Option {
	return func(c *Client) {
		key, err := parsePrivateKey(pemBytes)
		if err != nil {
			c.log.Error("ignoring invalid app key", slog.String("err", err.Error()))
			return
		}
		c.appKey = key
	}
}

// New builds a client. When cfg.AppID is set the client authenticates as a GitHub
// App installation, otherwise with cfg.Token.
func New(log *slog.Logger, cfg config.GitHubConfig, opts ...Option) (*Client, error) {
	const op = "clients.github.New"

	c := &Client{
		log:            log,
		http:           &http.Client{Timeout: cfg.HTTPTimeout},
		baseURL:        strings.TrimRight(cfg.APIURL, "/"),
		policy:         backoff.DefaultPolicy(),
		now:            time.Now,
		token:          cfg.Token,
		appID:          cfg.AppID,
		installationID: cfg.InstallationID,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.appID == "" {
		if c.token == "" {
			return nil, fmt.Errorf("%s: %w: github token or app id is required", op, config.ErrInvalid)
		}
		c.appKey = nil
		return c, nil
	}

	if c.installationID == 0 {
		return nil, fmt.Errorf("%s: %w: installation id is required for app auth", op, config.ErrInvalid)
	}
	if c.appKey == nil {
		key, err := loadPrivateKey(cfg.AppKeyPath)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		c.appKey = key
	}

	return c, nil
}

// RequestReviewersAndAssignees asks handles to review the pull request and assigns
// them to it. Both calls are always attempted; their errors are combined.
func (c *Client) RequestReviewersAndAssignees(ctx context.Context, repoFullName string, number int, handles []string) error {
	const op = "clients.github.RequestReviewersAndAssignees"

	var result *multierror.Error

	reviewersURL := fmt.Sprintf("%s/repos/%s/pulls/%d/requested_reviewers", c.baseURL, repoFullName, number)
	if err := c.post(ctx, reviewersURL, map[string]any{"reviewers": handles}); err != nil {
		result = multierror.Append(result, fmt.Errorf("request reviewers: %w", err))
	}

	assigneesURL := fmt.Sprintf("%s/repos/%s/issues/%d/assignees", c.baseURL, repoFullName, number)
	if err := c.post(ctx, assigneesURL, map[string]any{"assignees": handles}); err != nil {
		result = multierror.Append(result, fmt.Errorf("add assignees: %w", err))
	}

	if err := result.ErrorOrNil(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	c.log.Info("requested reviewers and assignees",
		slog.String("repo", repoFullName),
		slog.Int("pr", number),
		slog.Any("handles", handles))
	return nil
}

func (c *Client) post(ctx context.Context, url string, payload any) error {
	auth, err := c.authorization(ctx)
	if err != nil {
		return err
	}

	resp, err := c.send(ctx, http.MethodPost, url, auth, payload)
	if err != nil {
		return err
	}
	defer drainAndCloseBody(c.log, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}

	return nil
}

// send performs the request with retries on rate limits and server errors. The
// caller owns the body of the returned response.
func (c *Client) send(ctx context.Context, method, url, auth string, payload any) (*http.Response, error) {
	var body []byte
	if payload != nil {
		var err error
		if body, err = json.Marshal(payload); err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
	}

	var resp *http.Response
	err := backoff.Do(ctx, c.log, method+" "+url, c.policy, func() error {
		req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Authorization", auth)
		req.Header.Set("Accept", "application/vnd.github+json")
		req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		r, err := c.http.Do(req) //nolint:bodyclose // returned to the caller
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}

		if r.StatusCode == http.StatusTooManyRequests || r.StatusCode >= http.StatusInternalServerError {
			drainAndCloseBody(c.log, r.Body)
			return backoff.Temporary(fmt.Errorf("%w: http %d", ErrUnexpectedStatus, r.StatusCode))
		}

		resp = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	return resp, nil
}

func statusError(resp *http.Response) error {
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<10))
	return fmt.Errorf("%w: http %d: %s", ErrUnexpectedStatus, resp.StatusCode, strings.TrimSpace(string(msg)))
}

func drainAndCloseBody(log *slog.Logger, body io.ReadCloser) {
	if _, err := io.Copy(io.Discard, body); err != nil {
		log.Warn("failed to drain response body", slog.String("err", err.Error()))
	}
	if err := body.Close(); err != nil {
		log.Warn("failed to close response body", slog.String("err", err.Error()))
	}
}
