package api

import "time"

// Ids are the 11 character URL-safe base64 form of the 64-bit internal ids.

type Empty struct{}

type PingReply struct {
	Status string `json:"status"`
}

type Set struct {
	ID          string    `json:"id"`
	Owner       int64     `json:"owner"`
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Privacy     string    `json:"privacy"`
	Created     time.Time `json:"created"`
	Updated     time.Time `json:"updated"`
	Count       int       `json:"count"`
	First       *string   `json:"first,omitempty"`
	Last        *string   `json:"last,omitempty"`
}

type MediaType struct {
	FileType string `json:"file_type"`
	MimeType string `json:"mime_type"`
}

type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type Post struct {
	ID          string     `json:"id"`
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Rating      string     `json:"rating"`
	Parent      *string    `json:"parent,omitempty"`
	Created     time.Time  `json:"created"`
	Updated     time.Time  `json:"updated"`
	Filename    *string    `json:"filename,omitempty"`
	MediaType   *MediaType `json:"media_type,omitempty"`
	Size        *Size      `json:"size,omitempty"`
	Uploader    int64      `json:"uploader"`
	Privacy     string     `json:"privacy"`
}

type Neighbors struct {
	Index  int     `json:"index"`
	Before []*Post `json:"before"`
	After  []*Post `json:"after"`
}

type PostSet struct {
	Set       *Set      `json:"set"`
	Neighbors Neighbors `json:"neighbors"`
}

type CreateSetRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Privacy     string  `json:"privacy"`
}

type GetSetRequest struct {
	ID string `json:"id"`
}

// UpdateSetRequest changes the fields named by Mask: "owner" (a user
// handle), "title", "description" and "privacy".
type UpdateSetRequest struct {
	ID          string   `json:"id"`
	Mask        []string `json:"mask"`
	Owner       string   `json:"owner,omitempty"`
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	Privacy     string   `json:"privacy,omitempty"`
}

type DeleteSetRequest struct {
	ID string `json:"id"`
}

type AddPostToSetRequest struct {
	SetID  string `json:"set_id"`
	PostID string `json:"post_id"`
	Index  int    `json:"index"`
}

type RemovePostFromSetRequest struct {
	SetID  string `json:"set_id"`
	PostID string `json:"post_id"`
}

type GetPostSetsRequest struct {
	PostID string `json:"post_id"`
}

type GetPostSetsReply struct {
	Sets []*PostSet `json:"sets"`
}

type GetUserSetsRequest struct {
	Handle string `json:"handle"`
}

type GetUserSetsReply struct {
	Sets []*Set `json:"sets"`
}
