package github

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	jwtLifetime = 10 * time.Minute
	// GitHub rejects tokens issued in the future; backdate for clock drift.
	jwtBackdate = time.Minute
	// Installation tokens are refreshed this long before they expire.
	tokenRefreshMargin = 5 * time.Minute
)

type installationToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func loadPrivateKey(path string) (*rsa.PrivateKey, error) {
	pemBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read app private key: %w", err)
	}

	return parsePrivateKey(pemBytes)
}

func parsePrivateKey(pemBytes []byte) (*rsa.PrivateKey, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM(pemBytes)
	if err != nil {
		return nil, fmt.Errorf("parse app private key: %w", err)
	}

	return key, nil
}

func (c *Client) generateJWT() (string, error) {
	now := c.now()
	claims := jwt.RegisteredClaims{
		Issuer:    c.appID,
		IssuedAt:  jwt.NewNumericDate(now.Add(-jwtBackdate)),
		ExpiresAt: jwt.NewNumericDate(now.Add(jwtLifetime - jwtBackdate)),
	}

	return jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(c.appKey)
}

// authorization returns the Authorization header value. With app auth the
// installation token is exchanged on first use and cached until shortly before
// it expires.
func (c *Client) authorization(ctx context.Context) (string, error) {
	if c.appKey == nil {
		return "Bearer " + c.token, nil
	}

	c.tokenMu.Lock()
	defer c.tokenMu.Unlock()

	if c.installation.Token != "" && c.now().Add(tokenRefreshMargin).Before(c.installation.ExpiresAt) {
		return "Bearer " + c.installation.Token, nil
	}

	token, err := c.exchangeInstallationToken(ctx)
	if err != nil {
		return "", err
	}
	c.installation = token

	return "Bearer " + token.Token, nil
}

func (c *Client) exchangeInstallationToken(ctx context.Context) (installationToken, error) {
	const op = "clients.github.exchangeInstallationToken"

	signed, err := c.generateJWT()
	if err != nil {
		return installationToken{}, fmt.Errorf("%s: sign jwt: %w", op, err)
	}

	url := fmt.Sprintf("%s/app/installations/%d/access_tokens", c.baseURL, c.installationID)
	resp, err := c.send(ctx, http.MethodPost, url, "Bearer "+signed, nil)
	if err != nil {
		return installationToken{}, fmt.Errorf("%s: %w", op, err)
	}
	defer drainAndCloseBody(c.log, resp.Body)

	if resp.StatusCode != http.StatusCreated {
		return installationToken{}, fmt.Errorf("%s: %w", op, statusError(resp))
	}

	var token installationToken
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return installationToken{}, fmt.Errorf("%s: decode: %w", op, err)
	}
	if token.Token == "" {
		return installationToken{}, fmt.Errorf("%s: empty installation token", op)
	}

	c.log.Info("installation token refreshed", slog.Time("expires_at", token.ExpiresAt))
	return token, nil
}
