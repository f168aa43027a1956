// Package linkedin publishes shares to LinkedIn's UGC content API.
package linkedin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"lipost/internal/lipost"
	"lipost/internal/logutil"
)

const (
	envAccessToken = "LIPOST_ACCESS_TOKEN"
	envActorURN    = "LIPOST_ACTOR_URN"
	envBaseURL     = "LIPOST_API_BASE_URL"

	defaultBaseURL = "https://api.linkedin.com"

	postsEndpoint   = "/v2/ugcPosts"
	profileEndpoint = "/v2/me"

	requestTimeout = 30 * time.Second
)

// Credentials identify the member the agent posts as. Both fields are
// required before any network operation; they never change for the process
// lifetime and may be read concurrently.
type Credentials struct {
	AccessToken string
	ActorURN    string
}

// CredentialsFromEnv reads the token and actor URN from the environment.
// Missing variables are not an error here; Validate reports them before any
// network call.
func CredentialsFromEnv() Credentials {
	return Credentials{
		AccessToken: strings.TrimSpace(os.Getenv(envAccessToken)),
		ActorURN:    strings.TrimSpace(os.Getenv(envActorURN)),
	}
}

// Validate checks that both credential fields are present.
func (c Credentials) Validate() error {
	var missing []string
	if c.AccessToken == "" {
		missing = append(missing, envAccessToken)
	}
	if c.ActorURN == "" {
		missing = append(missing, envActorURN)
	}
	if len(missing) > 0 {
		return lipost.ConfigurationError{Missing: missing}
	}
	return nil
}

// Client posts to LinkedIn on behalf of one member. It is safe for concurrent
// use; any number of posts may be in flight at once.
type Client struct {
	creds     Credentials
	baseURL   string
	transport Transport
}

// Option adjusts a Client under construction.
type Option func(*Client)

// WithBaseURL overrides the API base URL, mainly for tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithTransport substitutes the HTTP transport, mainly for tests.
func WithTransport(t Transport) Option {
	return func(c *Client) { c.transport = t }
}

// New constructs a LinkedIn client from the given credentials. The
// credentials are not validated here; each operation validates before
// touching the network.
func New(creds Credentials, opts ...Option) *Client {
	c := &Client{
		creds:   creds,
		baseURL: defaultBaseURL,
	}
	if base := strings.TrimSpace(os.Getenv(envBaseURL)); base != "" {
		c.baseURL = strings.TrimRight(base, "/")
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.transport == nil {
		c.transport = newRESTTransport(creds, requestTimeout)
	}
	return c
}

// PostText publishes commentary with no attached media.
func (c *Client) PostText(ctx context.Context, text string, vis lipost.Visibility) (*lipost.PostResult, error) {
	if err := c.creds.Validate(); err != nil {
		return nil, err
	}
	payload := buildTextPayload(c.creds.ActorURN, text, vis)
	res, err := c.createShare(ctx, payload)
	if err != nil {
		return nil, c.fail("post text", err)
	}
	return res, nil
}

// PostArticle publishes commentary with a link preview.
func (c *Client) PostArticle(ctx context.Context, text, articleURL, title, description string, vis lipost.Visibility) (*lipost.PostResult, error) {
	if err := c.creds.Validate(); err != nil {
		return nil, err
	}
	payload := buildArticlePayload(c.creds.ActorURN, text, articleURL, title, description, vis)
	res, err := c.createShare(ctx, payload)
	if err != nil {
		return nil, c.fail("post article", err)
	}
	return res, nil
}

// PostImage uploads the image at imagePath through the two-phase pipeline and
// publishes commentary referencing the resulting asset.
func (c *Client) PostImage(ctx context.Context, text, imagePath, imageAlt string, vis lipost.Visibility) (*lipost.PostResult, error) {
	if err := c.creds.Validate(); err != nil {
		return nil, err
	}
	asset, err := c.uploadImage(ctx, imagePath)
	if err != nil {
		return nil, c.fail("post image", err)
	}
	payload := buildImagePayload(c.creds.ActorURN, text, asset.asset, imageAlt, vis)
	res, err := c.createShare(ctx, payload)
	if err != nil {
		return nil, c.fail("post image", err)
	}
	return res, nil
}

// Publish dispatches on the request variant. The type switch is exhaustive
// over the closed PostRequest set.
func (c *Client) Publish(ctx context.Context, req lipost.PostRequest) (*lipost.PostResult, error) {
	switch r := req.(type) {
	case lipost.TextPost:
		return c.PostText(ctx, r.Text, r.Visibility)
	case lipost.ArticlePost:
		return c.PostArticle(ctx, r.Text, r.URL, r.Title, r.Description, r.Visibility)
	case lipost.ImagePost:
		return c.PostImage(ctx, r.Text, r.ImagePath, r.ImageAlt, r.Visibility)
	default:
		return nil, lipost.ClientError{Err: fmt.Errorf("unknown post request %T", req)}
	}
}

// Profile fetches the member record behind the configured credentials.
func (c *Client) Profile(ctx context.Context) (*lipost.Profile, error) {
	if err := c.creds.Validate(); err != nil {
		return nil, err
	}

	raw, err := c.transport.Request(ctx, http.MethodGet, c.baseURL+profileEndpoint, nil)
	if err != nil {
		return nil, c.fail("fetch profile", err)
	}

	var body struct {
		ID             string `json:"id"`
		LocalFirstName string `json:"localizedFirstName"`
		LocalLastName  string `json:"localizedLastName"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, c.fail("fetch profile", lipost.ClientError{Err: fmt.Errorf("decode profile: %w", err)})
	}

	return &lipost.Profile{
		ID:        body.ID,
		FirstName: body.LocalFirstName,
		LastName:  body.LocalLastName,
		Raw:       raw,
	}, nil
}

func (c *Client) createShare(ctx context.Context, payload sharePayload) (*lipost.PostResult, error) {
	raw, err := c.transport.Request(ctx, http.MethodPost, c.baseURL+postsEndpoint, payload)
	if err != nil {
		return nil, err
	}

	var body struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, lipost.ClientError{Err: fmt.Errorf("decode create response: %w", err)}
	}

	logutil.Info("share created", "id", body.ID)
	return &lipost.PostResult{ID: body.ID, Raw: raw}, nil
}

// fail logs one structured diagnostic naming the failure shape, then returns
// the error unchanged for the caller to act on.
func (c *Client) fail(op string, err error) error {
	var (
		apiErr lipost.APIError
		netErr lipost.NetworkError
		cliErr lipost.ClientError
	)
	switch {
	case errors.As(err, &apiErr):
		logutil.Error(op+" failed", "kind", "api", "status", apiErr.StatusCode, "body", apiErr.Body)
	case errors.As(err, &netErr):
		logutil.Error(op+" failed", "kind", "network", "url", netErr.URL, "err", netErr.Err)
	case errors.As(err, &cliErr):
		logutil.Error(op+" failed", "kind", "client", "err", cliErr.Err)
	default:
		logutil.Error(op+" failed", "err", err)
	}
	return err
}
