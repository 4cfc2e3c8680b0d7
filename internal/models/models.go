// Package models defines the core data structures for users, folders,
// tags, and notes, plus the request payloads accepted by the API.
package models

import "time"

// User represents an application user with credentials.
type User struct {
	// ID is the unique identifier for the user.
	ID string `json:"id"`
	// Username is the login name chosen by the user.
	Username string `json:"username"`
	// PasswordHash is the bcrypt digest of the password. Never serialized.
	PasswordHash string `json:"-"`
	// CreatedAt is the signup timestamp.
	CreatedAt time.Time `json:"created_at"`
}

// Folder groups notes. Name is unique per owner.
type Folder struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Tag labels notes. Name is unique per owner.
type Tag struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Note is the central entity. FolderID is empty when the note is not
// filed in a folder. Tags holds the ids of referenced tags.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	FolderID  string    `json:"folder_id,omitempty"`
	Tags      []string  `json:"tags"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateNoteRequest is the payload for creating a note. OwnerID may be
// supplied by the client but must match the authenticated owner.
type CreateNoteRequest struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	FolderID string   `json:"folder_id"`
	Tags     []string `json:"tags"`
	OwnerID  string   `json:"owner_id"`
}

// UpdateNoteRequest is a partial update: only non-nil fields are applied.
// A non-nil empty FolderID removes the folder reference.
type UpdateNoteRequest struct {
	Title    *string   `json:"title,omitempty"`
	Content  *string   `json:"content,omitempty"`
	FolderID *string   `json:"folder_id,omitempty"`
	Tags     *[]string `json:"tags,omitempty"`
	OwnerID  *string   `json:"owner_id,omitempty"`
}

// NameRequest is the payload for creating or renaming a folder or tag.
type NameRequest struct {
	Name string `json:"name"`
}

// NoteFilter narrows a note listing. All fields are optional; results
// are always scoped to the requesting owner.
type NoteFilter struct {
	// Search matches title or content case-insensitively as a substring.
	Search string
	// FolderID filters by exact folder reference.
	FolderID string
	// TagID filters by exact tag reference.
	TagID string
}

// Credentials is the payload for register and login.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenPair is returned by login and refresh.
type TokenPair struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}
