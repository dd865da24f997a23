package services

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/postsets/internal/common"
	"github.com/dmitrijs2005/postsets/internal/dbx"
	"github.com/dmitrijs2005/postsets/internal/server/auth"
	"github.com/dmitrijs2005/postsets/internal/server/models"
	"golang.org/x/sync/errgroup"
)

// errNotMember rolls back a removal of a post that is not in the set.
var errNotMember = errors.New("post is not a member of the set")

// AddPostToSet inserts postID into setID at index. An index past the end
// appends. Entries at or after the insertion point move up by one.
//
// The set row is locked for the whole transaction, so concurrent inserts
// into one set see each other's counts and the indices stay dense.
func (s *SetService) AddPostToSet(ctx context.Context, caller auth.Caller, postID models.PostID, setID models.SetID, index int) error {
	defer observe("add_post_to_set", time.Now())

	if !caller.Authenticated {
		return common.ErrorUnauthorized
	}
	if index < 0 {
		return common.NewBadRequest("index must not be negative")
	}
	if err := s.authorizeMembership(ctx, caller, postID, setID); err != nil {
		return err
	}

	var rec *models.SetRecord
	var at int
	err := s.inTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		setRepo := s.repomanager.Sets(tx)
		entries := s.repomanager.SetPosts(tx)

		if _, err := setRepo.LockForMutation(ctx, setID); err != nil {
			return err
		}

		_, found, err := entries.IndexOf(ctx, setID, postID)
		if err != nil {
			return err
		}
		if found {
			return common.NewConflict("post already in set")
		}

		count, err := entries.Count(ctx, setID)
		if err != nil {
			return err
		}
		at = min(index, count)

		if err := entries.ShiftUp(ctx, setID, at); err != nil {
			return err
		}
		if err := entries.Insert(ctx, models.SetEntry{SetID: setID, PostID: postID, Index: at}); err != nil {
			return err
		}

		rec, err = setRepo.Get(ctx, setID)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return setNotFound(setID)
		}
		return err
	}

	s.logger.Info(ctx, "post added to set", "set_id", setID, "post_id", postID, "index", at)
	s.storeRecord(ctx, rec)
	return nil
}

// RemovePostFromSet deletes postID from setID and closes the gap. Removing
// a post that is not in the set succeeds without changes.
func (s *SetService) RemovePostFromSet(ctx context.Context, caller auth.Caller, postID models.PostID, setID models.SetID) error {
	defer observe("remove_post_from_set", time.Now())

	if !caller.Authenticated {
		return common.ErrorUnauthorized
	}
	if err := s.authorizeMembership(ctx, caller, postID, setID); err != nil {
		return err
	}

	var rec *models.SetRecord
	err := s.inTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		setRepo := s.repomanager.Sets(tx)
		entries := s.repomanager.SetPosts(tx)

		if _, err := setRepo.LockForMutation(ctx, setID); err != nil {
			return err
		}

		idx, found, err := entries.Delete(ctx, setID, postID)
		if err != nil {
			return err
		}
		if !found {
			return errNotMember
		}
		if err := entries.ShiftDown(ctx, setID, idx); err != nil {
			return err
		}

		rec, err = setRepo.Get(ctx, setID)
		return err
	})
	switch {
	case errors.Is(err, errNotMember):
		return nil
	case errors.Is(err, common.ErrorNotFound):
		return setNotFound(setID)
	case err != nil:
		return err
	}

	s.logger.Info(ctx, "post removed from set", "set_id", setID, "post_id", postID)
	s.storeRecord(ctx, rec)
	return nil
}

// authorizeMembership fetches the set and the post concurrently and checks
// that caller may see the post and modify the set. A post failure is
// reported before a set failure.
func (s *SetService) authorizeMembership(ctx context.Context, caller auth.Caller, postID models.PostID, setID models.SetID) error {
	var (
		set             *models.Set
		setErr, postErr error
		g               errgroup.Group
	)

	g.Go(func() error {
		set, setErr = s.loadSet(ctx, setID)
		return nil
	})
	g.Go(func() error {
		_, postErr = s.posts.Get(ctx, caller, postID)
		return nil
	})
	_ = g.Wait()

	if postErr != nil {
		return postErr
	}
	if setErr != nil {
		return setErr
	}
	if !canWriteSet(caller, set) {
		return setNotFound(setID)
	}
	return nil
}
