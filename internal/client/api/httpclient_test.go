package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avencello/inkfeed/internal/common"
)

// staticToken satisfies TokenProvider with a fixed value.
type staticToken string

func (s staticToken) Token() string { return string(s) }

func writeJSON(t *testing.T, w http.ResponseWriter, status int, body any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(body))
}

// newTestAPI starts a fake blog API and returns a client pointed at it.
func newTestAPI(t *testing.T, token string, register func(r *mux.Router)) *HTTPClient {
	t.Helper()
	r := mux.NewRouter()
	register(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return NewHTTPClient(srv.URL, 2*time.Second, staticToken(token))
}

func TestHTTPClient_AttachesBearerTokenWhenPresent(t *testing.T) {
	var gotAuth string
	c := newTestAPI(t, "tok-123", func(r *mux.Router) {
		r.HandleFunc("/blog/allPost", func(w http.ResponseWriter, req *http.Request) {
			gotAuth = req.Header.Get("Authorization")
			writeJSON(t, w, http.StatusOK, map[string]any{"posts": []any{}})
		}).Methods(http.MethodGet)
	})

	_, err := c.AllPosts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestHTTPClient_NoHeaderWithoutToken(t *testing.T) {
	var gotAuth string
	var hadHeader bool
	c := newTestAPI(t, "", func(r *mux.Router) {
		r.HandleFunc("/blog/allPost", func(w http.ResponseWriter, req *http.Request) {
			gotAuth = req.Header.Get("Authorization")
			_, hadHeader = req.Header["Authorization"]
			writeJSON(t, w, http.StatusOK, map[string]any{"posts": []any{}})
		}).Methods(http.MethodGet)
	})

	_, err := c.AllPosts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
	assert.False(t, hadHeader, "absent token sends the request unauthenticated")
}

func TestHTTPClient_Classification(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    any
		wantErr error
	}{
		{"401 is auth error", http.StatusUnauthorized, map[string]string{"message": "expired"}, common.ErrUnauthorized},
		{"403 is auth error", http.StatusForbidden, map[string]string{"message": "forbidden"}, common.ErrUnauthorized},
		{"404 is not found", http.StatusNotFound, map[string]string{"message": "no such post"}, common.ErrNotFound},
		{"422 is validation with message", http.StatusUnprocessableEntity, map[string]string{"message": "title too long"}, common.ErrValidation},
		{"500 is server error", http.StatusInternalServerError, nil, common.ErrServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestAPI(t, "tok", func(r *mux.Router) {
				r.HandleFunc("/blog/allPost", func(w http.ResponseWriter, req *http.Request) {
					if tt.body != nil {
						writeJSON(t, w, tt.status, tt.body)
						return
					}
					w.WriteHeader(tt.status)
				}).Methods(http.MethodGet)
			})

			_, err := c.AllPosts(context.Background())
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestHTTPClient_ValidationErrorCarriesServerMessage(t *testing.T) {
	c := newTestAPI(t, "tok", func(r *mux.Router) {
		r.HandleFunc("/blog/createPost", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(t, w, http.StatusBadRequest, map[string]string{"message": "title is required"})
		}).Methods(http.MethodPost)
	})

	_, err := c.CreatePost(context.Background(), CreatePostRequest{Title: "x", Content: "y"})
	require.ErrorIs(t, err, common.ErrValidation)
	assert.Contains(t, err.Error(), "title is required")
}

func TestHTTPClient_TransportFailureIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close() // nothing listens anymore

	c := NewHTTPClient(url, time.Second, staticToken(""))
	_, err := c.AllPosts(context.Background())
	require.ErrorIs(t, err, common.ErrNetwork)
}

func TestHTTPClient_VerifyOTP_NegativeFlagInsideOK(t *testing.T) {
	c := newTestAPI(t, "", func(r *mux.Router) {
		r.HandleFunc("/auth/verify-otp", func(w http.ResponseWriter, req *http.Request) {
			var in map[string]string
			require.NoError(t, json.NewDecoder(req.Body).Decode(&in))
			ok := in["token"] == "123456"
			writeJSON(t, w, http.StatusOK, map[string]bool{"success": ok})
		}).Methods(http.MethodPost)
	})

	ok, err := c.VerifyOTP(context.Background(), "a@example.com", "000000")
	require.NoError(t, err, "a rejected code is not a transport error")
	assert.False(t, ok)

	ok, err = c.VerifyOTP(context.Background(), "a@example.com", "123456")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestHTTPClient_Login(t *testing.T) {
	c := newTestAPI(t, "", func(r *mux.Router) {
		r.HandleFunc("/auth/login", func(w http.ResponseWriter, req *http.Request) {
			var in map[string]string
			require.NoError(t, json.NewDecoder(req.Body).Decode(&in))
			if in["password"] != "hunter22" {
				writeJSON(t, w, http.StatusUnauthorized, map[string]string{"message": "bad credentials"})
				return
			}
			writeJSON(t, w, http.StatusOK, map[string]any{
				"user":  map[string]string{"id": "u1", "email": in["email"]},
				"token": "tok",
			})
		}).Methods(http.MethodPost)
	})

	res, err := c.Login(context.Background(), "a@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "u1", res.User.ID)
	assert.Equal(t, "tok", res.Token)

	_, err = c.Login(context.Background(), "a@example.com", "wrong")
	require.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestHTTPClient_PostsAreNormalized(t *testing.T) {
	c := newTestAPI(t, "tok", func(r *mux.Router) {
		r.HandleFunc("/blog/allPost", func(w http.ResponseWriter, req *http.Request) {
			// A post with every optional collection missing.
			writeJSON(t, w, http.StatusOK, map[string]any{
				"posts": []map[string]any{{"id": "p1", "title": "bare"}},
			})
		}).Methods(http.MethodGet)

		r.HandleFunc("/blog/post/{id}", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(t, w, http.StatusOK, map[string]any{
				"post": map[string]any{"id": mux.Vars(req)["id"], "title": "bare"},
			})
		}).Methods(http.MethodGet)
	})

	posts, err := c.AllPosts(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.NotNil(t, posts[0].Tags)
	assert.NotNil(t, posts[0].Bookmarks)
	assert.NotNil(t, posts[0].Comments)

	post, err := c.Post(context.Background(), "p1")
	require.NoError(t, err)
	assert.NotNil(t, post.Comments)
}

func TestHTTPClient_CommentRoutes(t *testing.T) {
	var deleted string
	c := newTestAPI(t, "tok", func(r *mux.Router) {
		r.HandleFunc("/blog/post/{id}/comment", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(t, w, http.StatusOK, map[string]any{
				"comments": []map[string]any{{"id": "c1", "text": "hello"}},
			})
		}).Methods(http.MethodPost)

		r.HandleFunc("/blog/post/{id}/comment/{commentId}", func(w http.ResponseWriter, req *http.Request) {
			deleted = mux.Vars(req)["commentId"]
			w.WriteHeader(http.StatusOK)
		}).Methods(http.MethodDelete)
	})

	comments, err := c.AddComment(context.Background(), "p1", "hello")
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "hello", comments[0].Text)

	require.NoError(t, c.DeleteComment(context.Background(), "p1", "c9"))
	assert.Equal(t, "c9", deleted)
}
