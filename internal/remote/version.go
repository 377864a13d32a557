// Package remote reads the published game version marker.
package remote

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

// DefaultTimeout bounds a single version fetch.
const DefaultTimeout = 10 * time.Second

// VersionSource fetches the latest published version.
type VersionSource interface {
	// FetchVersion returns the trimmed marker, or "" when it could not be read.
	FetchVersion(ctx context.Context) string
}

// Client fetches a plain-text version marker over HTTP.
type Client struct {
	url    string
	client *resty.Client
	logger *logrus.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithToken sends token as a bearer token, for markers in private repositories.
func WithToken(token string) ClientOption {
	return func(c *Client) {
		if token == "" {
			return
		}
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		c.client = resty.NewWithClient(oauth2.NewClient(context.Background(), ts)).
			SetTimeout(c.client.GetClient().Timeout)
	}
}

// WithTimeout overrides DefaultTimeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.client.SetTimeout(timeout)
		}
	}
}

// NewClient creates a Client for the marker at url.
func NewClient(url string, logger *logrus.Logger, opts ...ClientOption) *Client {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	c := &Client{
		url:    url,
		client: resty.New().SetTimeout(DefaultTimeout),
		logger: logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchVersion returns the remote version, or "" on any failure so callers
// treat an unreachable marker as "no update".
func (c *Client) FetchVersion(ctx context.Context) string {
	logger := c.logger.WithField("url", c.url)
	if c.url == "" {
		logger.Warn("No version URL configured")
		return ""
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Cache-Control", "no-cache").
		Get(c.url)
	if err != nil {
		logger.WithError(err).Error("Failed to fetch remote version")
		return ""
	}
	if resp.StatusCode() != http.StatusOK {
		logger.WithField("status", resp.StatusCode()).Error("Unexpected status fetching remote version")
		return ""
	}

	version := strings.TrimSpace(resp.String())
	logger.WithField("remote_version", version).Debug("Fetched remote version")
	return version
}
