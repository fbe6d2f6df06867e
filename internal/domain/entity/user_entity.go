package entity

import (
	"slices"
	"time"
)

// User is created implicitly the first time the identity provider vouches
// for an identity. ContentLibrary is only changed by the grant process.
type User struct {
	Identity       string    `json:"identity"`
	ContentLibrary []string  `json:"content_library,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// Owns reports whether contentID was granted to the user.
func (u *User) Owns(contentID string) bool {
	if u == nil {
		return false
	}
	return slices.Contains(u.ContentLibrary, contentID)
}

// Grant adds contentID to the library and reports whether it was new.
func (u *User) Grant(contentID string) bool {
	if u.Owns(contentID) {
		return false
	}
	u.ContentLibrary = append(u.ContentLibrary, contentID)
	return true
}

// Library returns the granted ids, never nil.
func (u *User) Library() []string {
	if u == nil || u.ContentLibrary == nil {
		return []string{}
	}
	return u.ContentLibrary
}
