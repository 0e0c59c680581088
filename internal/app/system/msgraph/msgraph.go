// internal/app/system/msgraph/msgraph.go

// Package msgraph fetches directory data (currently just profile
// photos) from the Microsoft Graph API. The base URL is configurable so
// tests can point the client at a local server.
package msgraph

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/dalemusser/facultyhub/internal/app/system/errs"
	"github.com/dalemusser/facultyhub/internal/app/system/fetchretry"
)

// DefaultBaseURL is the production Graph endpoint.
const DefaultBaseURL = "https://graph.microsoft.com/v1.0"

// ErrNoPhoto is returned when the directory has no photo for the user.
var ErrNoPhoto = errors.New("msgraph: no profile photo")

// maxPhotoBytes caps the photo payload read into memory.
const maxPhotoBytes = 5 << 20

// Photo is a fetched profile photo.
type Photo struct {
	Data        []byte
	ContentType string
}

// Client calls the Graph API with retry and token refresh.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  fetchretry.TokenSource
	log     *zap.Logger
	retry   fetchretry.Config
}

// New returns a Graph client. baseURL falls back to DefaultBaseURL and
// httpClient to a 15-second-timeout default when nil.
func New(baseURL string, httpClient *http.Client, tokens fetchretry.TokenSource, log *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: baseURL,
		http:    httpClient,
		tokens:  tokens,
		log:     log,
		retry:   fetchretry.Config{MaxRetries: 2, RetryDelay: 500 * time.Millisecond, RequiresAuth: true},
	}
}

// SetRetryConfig overrides the retry policy. Tests use this to shrink
// backoff delays.
func (c *Client) SetRetryConfig(cfg fetchretry.Config) {
	c.retry = cfg
}

// photoResult distinguishes "directory has no photo" from a transport
// failure so a 404 does not burn retry budget.
type photoResult struct {
	photo   Photo
	missing bool
}

// FetchPhoto retrieves the profile photo for the given user. A missing
// photo is ErrNoPhoto, not a transient failure, so it is never retried.
func (c *Client) FetchPhoto(ctx context.Context, email string) (Photo, error) {
	res, err := fetchretry.Do(ctx, func(ctx context.Context) (photoResult, error) {
		return c.fetchPhotoOnce(ctx, email)
	}, c.retry, fetchretry.Deps{
		Tokens: c.tokens,
		Log:    c.log,
	})
	if err != nil {
		return Photo{}, err
	}
	if res.missing {
		return Photo{}, ErrNoPhoto
	}
	return res.photo, nil
}

func (c *Client) fetchPhotoOnce(ctx context.Context, email string) (photoResult, error) {
	endpoint := fmt.Sprintf("%s/users/%s/photo/$value", c.baseURL, url.PathEscape(email))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return photoResult{}, err
	}
	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return photoResult{}, err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return photoResult{}, fmt.Errorf("graph photo request: %w: %v", errs.ErrTransientNetwork, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return photoResult{missing: true}, nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return photoResult{}, fmt.Errorf("graph photo: status %d: %w", resp.StatusCode, errs.ErrRateLimited)
	case resp.StatusCode >= 500:
		return photoResult{}, fmt.Errorf("graph photo: status %d: %w", resp.StatusCode, errs.ErrTransientNetwork)
	default:
		return photoResult{}, fmt.Errorf("graph photo: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPhotoBytes))
	if err != nil {
		return photoResult{}, fmt.Errorf("graph photo read: %w: %v", errs.ErrTransientNetwork, err)
	}
	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		ct = "image/jpeg"
	}
	return photoResult{photo: Photo{Data: data, ContentType: ct}}, nil
}
