package services

import (
	"context"
	"database/sql"
	"slices"
	"time"

	"github.com/dmitrijs2005/postsets/internal/dbx"
	"github.com/dmitrijs2005/postsets/internal/server/auth"
	"github.com/dmitrijs2005/postsets/internal/server/models"
	"golang.org/x/sync/errgroup"
)

// NeighborWindow is how many posts on each side of a post GetPostSets returns.
const NeighborWindow = 3

// snapshot reads every membership of a post and its windows from one
// repeatable-read view.
var snapshot = &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}

type postSetWindow struct {
	set    *models.Set
	index  int
	window []models.IndexedPostRecord
}

// GetPostSets returns every set containing postID that caller may see, in
// creation order, each with the posts around postID. Before holds up to
// NeighborWindow posts with smaller indices, nearest first; After the same
// for larger indices. Neighbors caller may not see are left out.
//
// If caller may not see postID itself, GetPostSets fails with the same
// not-found error as for a missing post.
func (s *SetService) GetPostSets(ctx context.Context, caller auth.Caller, postID models.PostID) ([]*models.PostSet, error) {
	defer observe("get_post_sets", time.Now())

	if _, err := s.posts.Get(ctx, caller, postID); err != nil {
		return nil, err
	}

	var found []postSetWindow
	err := dbx.WithTx(ctx, s.db, snapshot, func(ctx context.Context, tx dbx.DBTX) error {
		memberships, err := s.repomanager.Sets(tx).ListByPost(ctx, postID)
		if err != nil {
			return err
		}

		found = found[:0]
		entries := s.repomanager.SetPosts(tx)
		for _, m := range memberships {
			set, err := s.resolveSet(ctx, m.Set)
			if err != nil {
				return err
			}
			// canReadSet does no I/O; only the neighbor resolution below fans out.
			if !canReadSet(caller, set) {
				continue
			}
			window, err := entries.Window(ctx, set.ID, m.Index, NeighborWindow)
			if err != nil {
				return err
			}
			found = append(found, postSetWindow{set: set, index: m.Index, window: window})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := make([]*models.PostSet, len(found))
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range found {
		g.Go(func() error {
			neighbors, err := s.neighbors(gctx, caller, f.index, f.window)
			if err != nil {
				return err
			}
			result[i] = &models.PostSet{Set: f.set, Neighbors: neighbors}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

// neighbors splits a window around index into its before and after halves.
func (s *SetService) neighbors(ctx context.Context, caller auth.Caller, index int, window []models.IndexedPostRecord) (models.Neighbors, error) {
	n := models.Neighbors{
		Index:  index,
		Before: []*models.Post{},
		After:  []*models.Post{},
	}

	for _, entry := range window {
		post, err := s.posts.Resolve(ctx, &entry.Post)
		if err != nil {
			return models.Neighbors{}, err
		}
		if !canReadPost(caller, post) {
			continue
		}
		switch {
		case entry.Index < index:
			n.Before = append(n.Before, post)
		case entry.Index > index:
			n.After = append(n.After, post)
		}
	}

	// The window is ascending; nearest first means descending before index.
	slices.Reverse(n.Before)
	return n, nil
}

// GetUserSets returns the sets owned by the user with handle that caller may
// see, oldest first.
func (s *SetService) GetUserSets(ctx context.Context, caller auth.Caller, handle string) ([]*models.Set, error) {
	defer observe("get_user_sets", time.Now())

	owner, err := s.identity.UserID(ctx, handle)
	if err != nil {
		return nil, err
	}

	recs, err := s.repomanager.Sets(s.db).ListByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}

	result := make([]*models.Set, 0, len(recs))
	for _, rec := range recs {
		set, err := s.resolveSet(ctx, rec)
		if err != nil {
			return nil, err
		}
		s.populate(ctx, set)
		if canReadSet(caller, set) {
			result = append(result, set)
		}
	}
	return result, nil
}
