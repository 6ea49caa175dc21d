// Package signature authenticates inbound Slack and GitHub requests.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// MaxSkew is the replay window for timestamped signatures.
const MaxSkew = 5 * time.Minute

const (
	slackVersion = "v0"
	githubPrefix = "sha256="
)

var ErrAuthentication = errors.New("authentication failed")

// Verify checks a Slack-style signature: "v0=" + hex(HMAC-SHA256(secret, "v0:{timestamp}:{body}")).
// Requests whose timestamp is more than MaxSkew away from now are rejected.
func Verify(body []byte, timestamp, provided, secret string, now time.Time) bool {
	if provided == "" || secret == "" {
		return false
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return false
	}

	skew := now.Sub(time.Unix(ts, 0))
	if skew < 0 {
		skew = -skew
	}
	if skew > MaxSkew {
		return false
	}

	expected := Sign(body, timestamp, secret)
	return hmac.Equal([]byte(expected), []byte(provided))
}

// Sign produces the Slack-style signature for body sent at timestamp.
func Sign(body []byte, timestamp, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = fmt.Fprintf(mac, "%s:%s:", slackVersion, timestamp)
	_, _ = mac.Write(body)

	return slackVersion + "=" + hex.EncodeToString(mac.Sum(nil))
}

// VerifyGitHub checks the X-Hub-Signature-256 header of a GitHub webhook delivery.
func VerifyGitHub(body []byte, provided, secret string) bool {
	if provided == "" || secret == "" {
		return false
	}

	return hmac.Equal([]byte(SignGitHub(body, secret)), []byte(provided))
}

func SignGitHub(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write(body)

	return githubPrefix + hex.EncodeToString(mac.Sum(nil))
}
