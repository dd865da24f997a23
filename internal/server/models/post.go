package models

import "time"

// PostRecord is a posts row as stored, with reference codes unresolved.
type PostRecord struct {
	ID          PostID
	Title       *string
	Description *string
	RatingID    int
	Parent      *PostID
	Created     time.Time
	Updated     time.Time
	Filename    *string
	MediaTypeID *int
	Width       *int
	Height      *int
	Uploader    int64
	PrivacyID   int
}

// IndexedPostRecord is a post row together with its index inside a set.
type IndexedPostRecord struct {
	Index int
	Post  PostRecord
}

// PostSize is the pixel size of a post's media.
type PostSize struct {
	Width  int
	Height int
}

// Post is a post with its reference codes resolved.
type Post struct {
	ID          PostID
	Title       *string
	Description *string
	Rating      Rating
	Parent      *PostID
	Created     time.Time
	Updated     time.Time
	Filename    *string
	MediaType   *MediaType
	Size        *PostSize
	Uploader    int64
	Privacy     Privacy
}
