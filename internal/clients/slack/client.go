// Package slack is a small Web API client covering the calls the bot makes.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Deymos01/git-slackin/internal/config"
	"github.com/Deymos01/git-slackin/internal/lib/backoff"
)

// ErrAPI is returned when Slack answers with "ok": false.
var ErrAPI = errors.New("slack api error")

type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type Client struct {
	log     *slog.Logger
	http    HTTPDoer
	baseURL string
	token   string
	policy  backoff.Policy
}

type Option func(*Client)

func WithHTTPClient(doer HTTPDoer) Option {
	return func(c *Client) { c.http = doer }
}

func WithRetryPolicy(p backoff.Policy) Option {
	return func(c *Client) { c.policy = p }
}

func New(log *slog.Logger, cfg config.SlackConfig, opts ...Option) *Client {
	c := &Client{
		log:     log,
		http:    &http.Client{Timeout: cfg.HTTPTimeout},
		baseURL: strings.TrimRight(cfg.APIURL, "/"),
		token:   cfg.BotToken,
		policy:  backoff.DefaultPolicy(),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

type response struct {
	OK      bool   `json:"ok"`
	Error   string `json:"error,omitempty"`
	Channel struct {
		ID string `json:"id"`
	} `json:"channel"`
}

// SendDirectMessage opens (or reuses) the IM channel with userID and posts text there.
func (c *Client) SendDirectMessage(ctx context.Context, userID, text string) error {
	const op = "clients.slack.SendDirectMessage"

	var opened response
	if err := c.call(ctx, "conversations.open", map[string]any{"users": userID}, &opened); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := c.call(ctx, "chat.postMessage", map[string]any{
		"channel": opened.Channel.ID,
		"text":    text,
	}, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (c *Client) SendToChannel(ctx context.Context, channelID, text string) error {
	const op = "clients.slack.SendToChannel"

	if err := c.call(ctx, "chat.postMessage", map[string]any{
		"channel": channelID,
		"text":    text,
	}, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// SendEphemeral posts text visible only to userID in channelID.
func (c *Client) SendEphemeral(ctx context.Context, channelID, userID, text string) error {
	const op = "clients.slack.SendEphemeral"

	if err := c.call(ctx, "chat.postEphemeral", map[string]any{
		"channel": channelID,
		"user":    userID,
		"text":    text,
	}, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (c *Client) call(ctx context.Context, method string, payload any, out *response) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", method, err)
	}

	var res response
	err = backoff.Do(ctx, c.log, method, c.policy, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+method, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("Content-Type", "application/json; charset=utf-8")

		resp, err := c.http.Do(req)
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}
		defer drainAndCloseBody(c.log, resp.Body)

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
			return backoff.Temporary(fmt.Errorf("%s: http %d", method, resp.StatusCode))
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("%s: http %d", method, resp.StatusCode)
		}

		res = response{}
		if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
			return fmt.Errorf("decode %s: %w", method, err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	if !res.OK {
		return fmt.Errorf("%w: %s: %s", ErrAPI, method, res.Error)
	}
	if out != nil {
		*out = res
	}

	return nil
}

func drainAndCloseBody(log *slog.Logger, body io.ReadCloser) {
	if _, err := io.Copy(io.Discard, body); err != nil {
		log.Warn("failed to drain response body", slog.String("err", err.Error()))
	}
	if err := body.Close(); err != nil {
		log.Warn("failed to close response body", slog.String("err", err.Error()))
	}
}
