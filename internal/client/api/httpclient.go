package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/avencello/inkfeed/internal/client/models"
	"github.com/avencello/inkfeed/internal/common"
)

// HTTPClient is the REST implementation of Client.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	tokens  TokenProvider
}

// NewHTTPClient builds a client for the API rooted at baseURL (e.g.
// "http://localhost:8080/api"). The token provider may be nil for a client
// that only performs unauthenticated calls.
func NewHTTPClient(baseURL string, timeout time.Duration, tokens TokenProvider) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
	}
}

func (c *HTTPClient) Close() error { return nil }

// errorResponse is the error payload shape of the service.
type errorResponse struct {
	Message string `json:"message"`
}

// do performs one request/response cycle: encodes body (if any), attaches the
// bearer token present at dispatch time, classifies the response, and decodes
// the payload into out (if non-nil).
func (c *HTTPClient) do(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if err := classify(resp); err != nil {
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// classify maps an HTTP status to the shared error taxonomy. The server is
// expected to carry `{message}` on 4xx; the message is preserved in the
// wrapped error text.
func classify(resp *http.Response) error {
	switch {
	case resp.StatusCode < 400:
		return nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: %s", common.ErrUnauthorized, serverMessage(resp))
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", common.ErrNotFound, serverMessage(resp))
	case resp.StatusCode < 500:
		return fmt.Errorf("%w: %s", common.ErrValidation, serverMessage(resp))
	default:
		return fmt.Errorf("%w: status %d", common.ErrServer, resp.StatusCode)
	}
}

func serverMessage(resp *http.Response) string {
	var er errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil || er.Message == "" {
		return resp.Status
	}
	return er.Message
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	var res AuthResult
	payload := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", payload, &res); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return &res, nil
}

func (c *HTTPClient) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	var res AuthResult
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, &res); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	return &res, nil
}

func (c *HTTPClient) Me(ctx context.Context) (*models.Identity, error) {
	var res struct {
		User models.Identity `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &res); err != nil {
		return nil, fmt.Errorf("fetching profile: %w", err)
	}
	return &res.User, nil
}

func (c *HTTPClient) ForgotPassword(ctx context.Context, email string) error {
	payload := map[string]string{"email": email}
	if err := c.do(ctx, http.MethodPost, "/auth/forgot-password", payload, nil); err != nil {
		return fmt.Errorf("requesting otp: %w", err)
	}
	return nil
}

func (c *HTTPClient) VerifyOTP(ctx context.Context, email, code string) (bool, error) {
	var res struct {
		Success bool `json:"success"`
	}
	payload := map[string]string{"email": email, "token": code}
	if err := c.do(ctx, http.MethodPost, "/auth/verify-otp", payload, &res); err != nil {
		return false, fmt.Errorf("verifying otp: %w", err)
	}
	return res.Success, nil
}

func (c *HTTPClient) ResetPassword(ctx context.Context, email, code, newPassword string) (*AuthResult, error) {
	var res AuthResult
	payload := map[string]string{"email": email, "token": code, "newPassword": newPassword}
	if err := c.do(ctx, http.MethodPost, "/auth/reset-password", payload, &res); err != nil {
		return nil, fmt.Errorf("resetting password: %w", err)
	}
	return &res, nil
}

func (c *HTTPClient) AllPosts(ctx context.Context) ([]models.Post, error) {
	var res struct {
		Posts []models.Post `json:"posts"`
	}
	if err := c.do(ctx, http.MethodGet, "/blog/allPost", nil, &res); err != nil {
		return nil, fmt.Errorf("fetching feed: %w", err)
	}
	return normalizeAll(res.Posts), nil
}

func (c *HTTPClient) Post(ctx context.Context, id string) (*models.Post, error) {
	var res struct {
		Post models.Post `json:"post"`
	}
	if err := c.do(ctx, http.MethodGet, "/blog/post/"+url.PathEscape(id), nil, &res); err != nil {
		return nil, fmt.Errorf("fetching post: %w", err)
	}
	res.Post.Normalize()
	return &res.Post, nil
}

func (c *HTTPClient) CreatePost(ctx context.Context, req CreatePostRequest) (*models.Post, error) {
	var res struct {
		Post models.Post `json:"post"`
	}
	if err := c.do(ctx, http.MethodPost, "/blog/createPost", req, &res); err != nil {
		return nil, fmt.Errorf("creating post: %w", err)
	}
	res.Post.Normalize()
	return &res.Post, nil
}

func (c *HTTPClient) DeletePost(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/blog/deletePost/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("deleting post: %w", err)
	}
	return nil
}

func (c *HTTPClient) ToggleBookmark(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodPost, "/blog/bookmarkPost/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("toggling bookmark: %w", err)
	}
	return nil
}

func (c *HTTPClient) Bookmarks(ctx context.Context) ([]models.Post, error) {
	var res struct {
		Posts []models.Post `json:"posts"`
	}
	if err := c.do(ctx, http.MethodGet, "/blog/bookmarks", nil, &res); err != nil {
		return nil, fmt.Errorf("fetching bookmarks: %w", err)
	}
	return normalizeAll(res.Posts), nil
}

func (c *HTTPClient) MyPosts(ctx context.Context) ([]models.Post, error) {
	var res struct {
		Posts []models.Post `json:"posts"`
	}
	if err := c.do(ctx, http.MethodGet, "/blog/my-posts", nil, &res); err != nil {
		return nil, fmt.Errorf("fetching my posts: %w", err)
	}
	return normalizeAll(res.Posts), nil
}

func (c *HTTPClient) AddComment(ctx context.Context, postID, text string) ([]models.Comment, error) {
	var res struct {
		Comments []models.Comment `json:"comments"`
	}
	payload := map[string]string{"text": text}
	path := "/blog/post/" + url.PathEscape(postID) + "/comment"
	if err := c.do(ctx, http.MethodPost, path, payload, &res); err != nil {
		return nil, fmt.Errorf("adding comment: %w", err)
	}
	if res.Comments == nil {
		res.Comments = []models.Comment{}
	}
	return res.Comments, nil
}

func (c *HTTPClient) DeleteComment(ctx context.Context, postID, commentID string) error {
	path := "/blog/post/" + url.PathEscape(postID) + "/comment/" + url.PathEscape(commentID)
	if err := c.do(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("deleting comment: %w", err)
	}
	return nil
}

func normalizeAll(posts []models.Post) []models.Post {
	if posts == nil {
		return []models.Post{}
	}
	for i := range posts {
		posts[i].Normalize()
	}
	return posts
}
