package models

import "time"

// MaxTitleLength bounds set titles, in characters.
const MaxTitleLength = 100

// Set is the denormalized set record: the sets row plus its membership summary.
// Revision increases with every committed mutation of the set or its entries.
type Set struct {
	ID          SetID
	Owner       int64
	Title       *string
	Description *string
	Privacy     Privacy
	Created     time.Time
	Updated     time.Time
	Revision    int64
	Count       int
	First       *PostID
	Last        *PostID
}

// Clone returns a copy that shares no pointers with s.
func (s *Set) Clone() *Set {
	c := *s
	c.Title = clonePtr(s.Title)
	c.Description = clonePtr(s.Description)
	c.First = clonePtr(s.First)
	c.Last = clonePtr(s.Last)
	return &c
}

// SetEntry places a post at an index of a set.
type SetEntry struct {
	SetID  SetID
	PostID PostID
	Index  int
}

// SetMembership is a set that contains a given post, with that post's index.
type SetMembership struct {
	Set   *Set
	Index int
}

// Neighbors is the window of posts around one post of a set.
// Before is ordered nearest first (descending index), After ascending.
type Neighbors struct {
	Index  int
	Before []*Post
	After  []*Post
}

// PostSet is a set seen from one of its posts.
type PostSet struct {
	Set       *Set
	Neighbors Neighbors
}

// SetUpdate carries the values an update mask may apply.
type SetUpdate struct {
	Mask        []string
	Owner       string
	Title       *string
	Description *string
	Privacy     Privacy
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// SetRecord is a set as loaded from the store, before its privacy code is
// resolved into Set.Privacy.
type SetRecord struct {
	Set
	PrivacyID int
}
