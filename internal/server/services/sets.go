// Package services contains the business logic of the set service: set
// CRUD, ordered membership changes and the neighbor window around a post.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/postsets/internal/common"
	"github.com/dmitrijs2005/postsets/internal/dbx"
	"github.com/dmitrijs2005/postsets/internal/logging"
	"github.com/dmitrijs2005/postsets/internal/server/auth"
	"github.com/dmitrijs2005/postsets/internal/server/cache"
	"github.com/dmitrijs2005/postsets/internal/server/config"
	"github.com/dmitrijs2005/postsets/internal/server/models"
	"github.com/dmitrijs2005/postsets/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/postsets/internal/server/repositories/sets"
)

// maxIDAttempts bounds the id collision loop of CreateSet.
const maxIDAttempts = 16

// newSetID is a seam for tests.
var newSetID = func() models.SetID {
	return models.SetID(common.RandomInt64())
}

// SetService implements the set operations.
//
// The database is the source of truth. Every read goes through the set cache
// and falls back to the database on a miss or a cache failure. Mutations
// commit first and then write the committed record back to the cache; a
// failed write-back is logged and does not fail the call.
type SetService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	cache       cache.SetCache
	refs        *cache.References
	posts       *PostService
	identity    *IdentityService
	logger      logging.Logger
	txRetries   uint64

	// background cache population started by read misses
	populating sync.WaitGroup
}

func NewSetService(
	db *sql.DB,
	m repomanager.RepositoryManager,
	setCache cache.SetCache,
	refs *cache.References,
	logger logging.Logger,
	cfg *config.Config,
) *SetService {
	retries := cfg.TxRetries
	if retries < 0 {
		retries = 0
	}
	return &SetService{
		db:          db,
		repomanager: m,
		cache:       setCache,
		refs:        refs,
		posts:       NewPostService(db, m, refs),
		identity:    NewIdentityService(db, m),
		logger:      logger.With("module", "services.sets"),
		txRetries:   uint64(retries),
	}
}

// Wait blocks until background cache population has finished.
func (s *SetService) Wait() {
	s.populating.Wait()
}

func (s *SetService) inTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	return dbx.WithTxRetry(ctx, s.db, nil, s.txRetries, fn)
}

// CreateSet stores a new empty set owned by caller.
func (s *SetService) CreateSet(ctx context.Context, caller auth.Caller, title string, privacy models.Privacy, description *string) (*models.Set, error) {
	defer observe("create_set", time.Now())

	if !caller.Authenticated {
		return nil, common.ErrorUnauthorized
	}
	if err := validateTitle(&title); err != nil {
		return nil, err
	}
	if !models.ValidSetPrivacy(privacy) {
		return nil, common.NewBadRequest("invalid set privacy: %q", privacy)
	}

	repo := s.repomanager.Sets(s.db)
	set := &models.Set{
		Owner:       caller.ID,
		Title:       &title,
		Description: description,
		Privacy:     privacy,
	}

	for attempt := 0; ; attempt++ {
		if attempt == maxIDAttempts {
			return nil, fmt.Errorf("no free set id after %d attempts: %w", maxIDAttempts, common.ErrorInternal)
		}

		set.ID = newSetID()
		exists, err := repo.Exists(ctx, set.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			continue
		}

		err = repo.Create(ctx, set)
		if errors.Is(err, common.ErrorConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}
		break
	}

	s.logger.Info(ctx, "set created", "set_id", set.ID, "owner", set.Owner)
	s.store(ctx, set)
	return set.Clone(), nil
}

// GetSet returns the set if caller may see it.
func (s *SetService) GetSet(ctx context.Context, caller auth.Caller, id models.SetID) (*models.Set, error) {
	defer observe("get_set", time.Now())

	set, err := s.loadSet(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canReadSet(caller, set) {
		return nil, setNotFound(id)
	}
	return set, nil
}

// InternalGetSet returns the set regardless of its privacy. Only callers
// holding the internal scope may use it.
func (s *SetService) InternalGetSet(ctx context.Context, caller auth.Caller, id models.SetID) (*models.Set, error) {
	defer observe("internal_get_set", time.Now())

	if !caller.HasScope(auth.ScopeInternal) {
		return nil, common.ErrorForbidden
	}
	return s.loadSet(ctx, id)
}

// Update mask names.
const (
	maskOwner       = "owner"
	maskTitle       = "title"
	maskDescription = "description"
	maskPrivacy     = "privacy"
)

// UpdateSet applies the fields named by upd.Mask. The whole mask is checked
// before anything is read or written; every unknown name is reported at once.
func (s *SetService) UpdateSet(ctx context.Context, caller auth.Caller, id models.SetID, upd models.SetUpdate) error {
	defer observe("update_set", time.Now())

	if !caller.Authenticated {
		return common.ErrorUnauthorized
	}

	mask, err := parseMask(upd)
	if err != nil {
		return err
	}

	set, err := s.loadSet(ctx, id)
	if err != nil {
		return err
	}
	if !canWriteSet(caller, set) {
		return setNotFound(id)
	}

	changes := make([]sets.Assignment, 0, len(mask))
	for _, m := range mask {
		switch m {
		case maskOwner:
			owner, err := s.identity.UserID(ctx, upd.Owner)
			if err != nil {
				return err
			}
			changes = append(changes, sets.Assignment{Field: sets.FieldOwner, Value: owner})
		case maskTitle:
			changes = append(changes, sets.Assignment{Field: sets.FieldTitle, Value: upd.Title})
		case maskDescription:
			changes = append(changes, sets.Assignment{Field: sets.FieldDescription, Value: upd.Description})
		case maskPrivacy:
			changes = append(changes, sets.Assignment{Field: sets.FieldPrivacy, Value: string(upd.Privacy)})
		}
	}

	var rec *models.SetRecord
	err = s.inTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Sets(tx)
		if _, _, err := repo.Update(ctx, id, changes); err != nil {
			return err
		}
		var err error
		rec, err = repo.Get(ctx, id)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return setNotFound(id)
		}
		return err
	}

	s.logger.Info(ctx, "set updated", "set_id", id, "mask", mask)
	s.storeRecord(ctx, rec)
	return nil
}

// parseMask dedupes the mask and validates the values it selects.
func parseMask(upd models.SetUpdate) ([]string, error) {
	if len(upd.Mask) == 0 {
		return nil, common.NewBadRequest("mask must name at least one field")
	}

	var mask, bad []string
	for _, m := range upd.Mask {
		switch m {
		case maskOwner, maskTitle, maskDescription, maskPrivacy:
			if !slices.Contains(mask, m) {
				mask = append(mask, m)
			}
		default:
			bad = append(bad, m)
		}
	}
	if len(bad) > 0 {
		return nil, &common.InvalidMaskError{Fields: bad}
	}

	for _, m := range mask {
		switch m {
		case maskOwner:
			if upd.Owner == "" {
				return nil, common.NewBadRequest("owner handle must not be empty")
			}
		case maskTitle:
			if err := validateTitle(upd.Title); err != nil {
				return nil, err
			}
		case maskPrivacy:
			if !models.ValidSetPrivacy(upd.Privacy) {
				return nil, common.NewBadRequest("invalid set privacy: %q", upd.Privacy)
			}
		}
	}
	return mask, nil
}

func validateTitle(title *string) error {
	if title != nil && utf8.RuneCountInString(*title) > models.MaxTitleLength {
		return common.NewBadRequest("title must be at most %d characters", models.MaxTitleLength)
	}
	return nil
}

// DeleteSet removes the set and all of its entries.
func (s *SetService) DeleteSet(ctx context.Context, caller auth.Caller, id models.SetID) error {
	defer observe("delete_set", time.Now())

	if !caller.Authenticated {
		return common.ErrorUnauthorized
	}

	set, err := s.loadSet(ctx, id)
	if err != nil {
		return err
	}
	if !canWriteSet(caller, set) {
		return setNotFound(id)
	}

	err = s.inTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Sets(tx)
		if _, err := repo.LockForMutation(ctx, id); err != nil {
			return err
		}
		return repo.Delete(ctx, id)
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return setNotFound(id)
		}
		return err
	}

	s.logger.Info(ctx, "set deleted", "set_id", id)
	if err := s.cache.Remove(ctx, id); err != nil {
		s.logger.Warn(ctx, "set cache remove failed", "set_id", id, "error", err)
	}
	return nil
}

// loadSet reads a set through the cache. A miss is served from the database
// and the cache is populated in the background.
func (s *SetService) loadSet(ctx context.Context, id models.SetID) (*models.Set, error) {
	set, ok, err := s.cache.Get(ctx, id)
	if err != nil {
		s.logger.Warn(ctx, "set cache read failed", "set_id", id, "error", err)
	} else if ok {
		return set, nil
	}

	rec, err := s.repomanager.Sets(s.db).Get(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, setNotFound(id)
		}
		return nil, err
	}

	set, err = s.resolveSet(ctx, rec)
	if err != nil {
		return nil, err
	}
	s.populate(ctx, set)
	return set, nil
}

func (s *SetService) resolveSet(ctx context.Context, rec *models.SetRecord) (*models.Set, error) {
	privacy, err := s.refs.Privacy(ctx, rec.PrivacyID)
	if err != nil {
		return nil, err
	}
	set := rec.Set.Clone()
	set.Privacy = privacy
	return set, nil
}

// populate writes set to the cache without making the caller wait.
func (s *SetService) populate(ctx context.Context, set *models.Set) {
	set = set.Clone()
	ctx = context.WithoutCancel(ctx)

	s.populating.Add(1)
	go func() {
		defer s.populating.Done()
		if err := s.cache.Put(ctx, set); err != nil {
			s.logger.Warn(ctx, "set cache populate failed", "set_id", set.ID, "error", err)
		}
	}()
}

// store writes a committed set to the cache before the mutation returns, so
// the caller reads its own write.
func (s *SetService) store(ctx context.Context, set *models.Set) {
	if err := s.cache.Put(ctx, set); err != nil {
		s.logger.Warn(ctx, "set cache write failed", "set_id", set.ID, "error", err)
	}
}

func (s *SetService) storeRecord(ctx context.Context, rec *models.SetRecord) {
	set, err := s.resolveSet(ctx, rec)
	if err != nil {
		// The commit stands; drop the stale entry instead.
		s.logger.Warn(ctx, "set cache write failed", "set_id", rec.ID, "error", err)
		if err := s.cache.Remove(ctx, rec.ID); err != nil {
			s.logger.Warn(ctx, "set cache remove failed", "set_id", rec.ID, "error", err)
		}
		return
	}
	s.store(ctx, set)
}
