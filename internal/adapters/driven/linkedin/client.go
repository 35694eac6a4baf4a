// Package linkedin implements the Publisher port against the LinkedIn REST API.
package linkedin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/postcraft/internal/core/domain"
	"github.com/custodia-labs/postcraft/internal/core/ports/driven"
	"github.com/custodia-labs/postcraft/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.Publisher = (*Client)(nil)

const (
	pathUserInfo   = "/v2/userinfo"
	pathInitUpload = "/rest/images?action=initializeUpload"
	pathPosts      = "/rest/posts"

	headerVersion  = "LinkedIn-Version"
	headerRestliID = "x-restli-id"

	// maxErrorBody caps how much of an error response is kept in messages.
	maxErrorBody = 512
)

// Config configures the API client.
type Config struct {
	// BaseURL is the API root, e.g. https://api.linkedin.com.
	BaseURL string
	// Version is sent as the LinkedIn-Version header on REST calls.
	Version string
	// Timeout bounds each HTTP request.
	Timeout time.Duration
	// HTTPClient overrides the default client. Used in tests.
	HTTPClient *http.Client
	// Limiter overrides the default rate limiter.
	Limiter *RateLimiter
}

// Client talks to the identity, image and posts endpoints.
type Client struct {
	baseURL    string
	version    string
	httpClient *http.Client
	limiter    *RateLimiter
}

// NewClient creates a LinkedIn API client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = domain.DefaultAPIBaseURL
	}
	if cfg.Version == "" {
		cfg.Version = domain.DefaultAPIVersion
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = domain.DefaultTimeout
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.Limiter == nil {
		cfg.Limiter = NewRateLimiter(DefaultRate, DefaultBurst)
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		version:    cfg.Version,
		httpClient: cfg.HTTPClient,
		limiter:    cfg.Limiter,
	}
}

type userInfoResponse struct {
	Sub  string `json:"sub"`
	Name string `json:"name"`
}

type initUploadRequest struct {
	InitializeUploadRequest struct {
		Owner string `json:"owner"`
	} `json:"initializeUploadRequest"`
}

type initUploadResponse struct {
	Value struct {
		UploadURL string `json:"uploadUrl"`
		Image     string `json:"image"`
	} `json:"value"`
}

type postDistribution struct {
	FeedDistribution               string   `json:"feedDistribution"`
	TargetEntities                 []string `json:"targetEntities"`
	ThirdPartyDistributionChannels []string `json:"thirdPartyDistributionChannels"`
}

type postMedia struct {
	Title string `json:"title"`
	ID    string `json:"id"`
}

type postContent struct {
	Media postMedia `json:"media"`
}

type postRequest struct {
	Author         string           `json:"author"`
	Commentary     string           `json:"commentary"`
	Visibility     string           `json:"visibility"`
	Distribution   postDistribution `json:"distribution"`
	LifecycleState string           `json:"lifecycleState"`
	Content        *postContent     `json:"content,omitempty"`
}

type postResponse struct {
	ID string `json:"id"`
}

// FetchIdentity returns the member id of the credential's owner.
func (c *Client) FetchIdentity(ctx context.Context, cred *domain.Credential) (domain.PersonID, error) {
	resp, err := c.do(ctx, cred, http.MethodGet, c.baseURL+pathUserInfo, nil, "")
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrIdentityFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", statusError(domain.ErrIdentityFetch, resp)
	}

	var info userInfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return "", fmt.Errorf("%w: decode userinfo: %w", domain.ErrIdentityFetch, err)
	}
	if info.Sub == "" {
		return "", fmt.Errorf("%w: userinfo has no subject", domain.ErrIdentityFetch)
	}

	logger.Debug("Authenticated as %s", info.Name)
	return domain.PersonID(info.Sub), nil
}

// UploadMedia registers an image upload and transfers data to the returned URL.
// The transfer is skipped when registration fails.
func (c *Client) UploadMedia(
	ctx context.Context,
	cred *domain.Credential,
	person domain.PersonID,
	data []byte,
) (domain.MediaReference, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: %w: no image data", domain.ErrUpload, domain.ErrInvalidInput)
	}

	var reqBody initUploadRequest
	reqBody.InitializeUploadRequest.Owner = person.AuthorURN()
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrUpload, err)
	}

	resp, err := c.do(ctx, cred, http.MethodPost, c.baseURL+pathInitUpload, bytes.NewReader(payload), "application/json")
	if err != nil {
		return "", fmt.Errorf("%w: initialize upload: %w", domain.ErrUpload, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", statusError(domain.ErrUpload, resp)
	}

	var init initUploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&init); err != nil {
		return "", fmt.Errorf("%w: decode upload registration: %w", domain.ErrUpload, err)
	}
	if init.Value.UploadURL == "" || init.Value.Image == "" {
		return "", fmt.Errorf("%w: upload registration missing uploadUrl or image", domain.ErrUpload)
	}

	put, err := c.do(ctx, cred, http.MethodPut, init.Value.UploadURL, bytes.NewReader(data), "application/octet-stream")
	if err != nil {
		return "", fmt.Errorf("%w: transfer: %w", domain.ErrUpload, err)
	}
	defer put.Body.Close()

	if put.StatusCode != http.StatusOK && put.StatusCode != http.StatusCreated {
		return "", statusError(domain.ErrUpload, put)
	}

	return domain.MediaReference(init.Value.Image), nil
}

// Publish creates a public post. Only 201 Created counts as success.
func (c *Client) Publish(
	ctx context.Context,
	cred *domain.Credential,
	person domain.PersonID,
	content string,
	media *domain.MediaReference,
) (*domain.PublishResult, error) {
	body := postRequest{
		Author:     person.AuthorURN(),
		Commentary: content,
		Visibility: "PUBLIC",
		Distribution: postDistribution{
			FeedDistribution:               "MAIN_FEED",
			TargetEntities:                 []string{},
			ThirdPartyDistributionChannels: []string{},
		},
		LifecycleState: "PUBLISHED",
	}
	if media != nil && *media != "" {
		body.Content = &postContent{Media: postMedia{Title: "Post Image", ID: string(*media)}}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPublish, err)
	}

	resp, err := c.do(ctx, cred, http.MethodPost, c.baseURL+pathPosts, bytes.NewReader(payload), "application/json")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPublish, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return nil, statusError(domain.ErrPublish, resp)
	}

	postID := resp.Header.Get(headerRestliID)
	if postID == "" {
		var pr postResponse
		if err := json.NewDecoder(resp.Body).Decode(&pr); err == nil {
			postID = pr.ID
		}
	}

	return &domain.PublishResult{
		PostID:      postID,
		PublishedAt: time.Now(),
	}, nil
}

func (c *Client) do(
	ctx context.Context,
	cred *domain.Credential,
	method, url string,
	body io.Reader,
	contentType string,
) (*http.Response, error) {
	if cred == nil || cred.AccessToken == "" {
		return nil, domain.ErrNotAuthenticated
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	cred.SetAuthHeader(req)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if strings.HasPrefix(url, c.baseURL+"/rest/") {
		req.Header.Set(headerVersion, c.version)
		req.Header.Set("X-Restli-Protocol-Version", "2.0.0")
	}

	logger.Debug("%s %s", method, redactQuery(url))
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	c.limiter.Observe(resp)
	return resp, nil
}

// statusError builds a kind error from an unexpected response. A 401 also
// carries domain.ErrAuthExpired.
func statusError(kind error, resp *http.Response) error {
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	detail := strings.TrimSpace(string(msg))
	if detail == "" {
		detail = http.StatusText(resp.StatusCode)
	}
	err := fmt.Errorf("status %d: %s", resp.StatusCode, detail)
	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w: %w: %w", kind, domain.ErrAuthExpired, err)
	}
	return fmt.Errorf("%w: %w", kind, err)
}

// redactQuery drops the query string, which may carry signed upload tokens.
func redactQuery(url string) string {
	if i := strings.IndexByte(url, '?'); i >= 0 {
		return url[:i]
	}
	return url
}
