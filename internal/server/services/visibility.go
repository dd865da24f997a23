package services

import (
	"github.com/dmitrijs2005/postsets/internal/common"
	"github.com/dmitrijs2005/postsets/internal/server/auth"
	"github.com/dmitrijs2005/postsets/internal/server/models"
)

// Visibility is decided per entity after it is fetched. Anything a caller may
// not see is reported as not found, never as forbidden.

// canReadSet: listed sets are visible to anyone, private ones to the owner
// and moderators.
func canReadSet(c auth.Caller, s *models.Set) bool {
	return s.Privacy.Listed() || c.Owns(s.Owner) || c.IsModerator()
}

// canWriteSet guards update, delete and membership changes.
func canWriteSet(c auth.Caller, s *models.Set) bool {
	return c.Owns(s.Owner) || c.IsModerator()
}

// canReadPost: listed posts are visible to anyone; private, unpublished and
// draft posts only to their uploader and moderators.
func canReadPost(c auth.Caller, p *models.Post) bool {
	return p.Privacy.Listed() || c.Owns(p.Uploader) || c.IsModerator()
}

func setNotFound(id models.SetID) error {
	return common.NewNotFound("no data was found for the provided set id: %s.", id)
}

func postNotFound(id models.PostID) error {
	return common.NewNotFound("no data was found for the provided post id: %s.", id)
}
