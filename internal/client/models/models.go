// Package models defines the client-side entities of the inkfeed service:
// the authenticated identity, posts, comments, and the session snapshot.
//
// All entities are plain data. The server owns posts and comments; the client
// holds read-mostly cached copies, so every type here supports deep copying
// and default-filling of optional fields at the decode boundary.
package models

import "time"

// Identity is the authenticated user as returned by the server.
type Identity struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Email             string `json:"email"`
	ProfilePictureURL string `json:"profilePicture,omitempty"`
	Bio               string `json:"bio,omitempty"`
	DateOfBirth       string `json:"dateOfBirth,omitempty"`
}

// Session is the pair of authenticated identity and bearer token.
// Invariant: Identity is nil exactly when Token is empty.
type Session struct {
	Identity *Identity
	Token    string
}

// Authenticated reports whether the session holds an identity.
func (s Session) Authenticated() bool {
	return s.Identity != nil
}

// Author is the display subset of an identity embedded in posts and comments.
type Author struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	ProfilePicture string `json:"profilePicture,omitempty"`
}

// Comment is a child of exactly one post. Ordering is the server's.
type Comment struct {
	ID        string    `json:"id"`
	Author    Author    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// Post is a single feed entry. Bookmarks holds the ids of users who
// bookmarked the post; membership of the current user's id drives the
// bookmark toggle shown to that user.
type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Image     string    `json:"image,omitempty"`
	Tags      []string  `json:"tags"`
	Author    Author    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
	Views     int       `json:"views"`
	Bookmarks []string  `json:"bookmarks"`
	Comments  []Comment `json:"comments"`
}

// Normalize fills optional collections that the server may omit, so that
// downstream code never has to distinguish nil from empty.
func (p *Post) Normalize() {
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if p.Bookmarks == nil {
		p.Bookmarks = []string{}
	}
	if p.Comments == nil {
		p.Comments = []Comment{}
	}
}

// BookmarkedBy reports whether userID is in the post's bookmark set.
func (p *Post) BookmarkedBy(userID string) bool {
	for _, id := range p.Bookmarks {
		if id == userID {
			return true
		}
	}
	return false
}

// ToggleBookmark flips the membership of userID in the bookmark set and
// returns true if the user is bookmarked after the flip.
func (p *Post) ToggleBookmark(userID string) bool {
	for i, id := range p.Bookmarks {
		if id == userID {
			p.Bookmarks = append(p.Bookmarks[:i], p.Bookmarks[i+1:]...)
			return false
		}
	}
	p.Bookmarks = append(p.Bookmarks, userID)
	return true
}

// Clone returns a deep copy of the post. Used to hand out snapshots from the
// cache and to capture pre-mutation state for optimistic rollbacks.
func (p *Post) Clone() Post {
	c := *p
	c.Tags = append([]string(nil), p.Tags...)
	c.Bookmarks = append([]string(nil), p.Bookmarks...)
	c.Comments = append([]Comment(nil), p.Comments...)
	return c
}
