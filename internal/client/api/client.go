// Package api contains the gateway to the inkfeed REST service.
//
// Client is the transport interface the rest of the application depends on;
// HTTPClient is the real implementation. Every call result is classified into
// the shared error taxonomy (internal/common), so callers can match with
// errors.Is instead of inspecting HTTP details.
package api

import (
	"context"

	"github.com/avencello/inkfeed/internal/client/models"
)

// TokenProvider supplies the bearer token attached to outgoing requests.
// The session store satisfies it; the token is read at dispatch time, so a
// logout between queueing and dispatch makes the request go out
// unauthenticated.
type TokenProvider interface {
	Token() string
}

// AuthResult is the session payload of login/register/reset-password.
// Token may be empty on reset-password when the server chooses not to open a
// fresh session.
type AuthResult struct {
	User  models.Identity `json:"user"`
	Token string          `json:"token"`
}

// RegisterRequest is the sign-up form. Validated client-side before dispatch.
type RegisterRequest struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	DateOfBirth string `json:"dateOfBirth,omitempty"`
	Bio         string `json:"bio,omitempty"`
}

// CreatePostRequest is a new post draft. Image is a URL produced by the
// upload package (or empty).
type CreatePostRequest struct {
	Title   string   `json:"title" validate:"required"`
	Content string   `json:"content" validate:"required"`
	Tags    []string `json:"tags,omitempty"`
	Image   string   `json:"image,omitempty" validate:"omitempty,url"`
}

// Client defines the remote operations of the blog service.
//
// All methods honor context cancellation/timeouts. Errors wrap the sentinels
// in internal/common; no method retries on its own.
type Client interface {
	Close() error

	// Auth.
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Register(ctx context.Context, req RegisterRequest) (*AuthResult, error)
	Me(ctx context.Context) (*models.Identity, error)

	// Password recovery. VerifyOTP returns the server's verified flag: a
	// false flag inside a 200 response is a semantic rejection, not a
	// transport error.
	ForgotPassword(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, code string) (bool, error)
	ResetPassword(ctx context.Context, email, code, newPassword string) (*AuthResult, error)

	// Content.
	AllPosts(ctx context.Context) ([]models.Post, error)
	Post(ctx context.Context, id string) (*models.Post, error)
	CreatePost(ctx context.Context, req CreatePostRequest) (*models.Post, error)
	DeletePost(ctx context.Context, id string) error
	ToggleBookmark(ctx context.Context, id string) error
	Bookmarks(ctx context.Context) ([]models.Post, error)
	MyPosts(ctx context.Context) ([]models.Post, error)
	AddComment(ctx context.Context, postID, text string) ([]models.Comment, error)
	DeleteComment(ctx context.Context, postID, commentID string) error
}
