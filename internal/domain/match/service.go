package match

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/pawpals/pawpals-api/internal/domain/relation"
	"github.com/pawpals/pawpals-api/internal/domain/resolver"
	"github.com/pawpals/pawpals-api/internal/pkg/database"
	"github.com/pawpals/pawpals-api/internal/pkg/logger"
	"github.com/pawpals/pawpals-api/internal/pkg/metrics"
	"github.com/pawpals/pawpals-api/internal/pkg/notify"
)

// Service records likes and dislikes and detects mutual matches
type Service struct {
	db       *sqlx.DB
	repo     Repository
	resolver resolver.Resolver
	notifier *notify.Dispatcher
}

// NewService creates match service
func NewService(db *sqlx.DB, repo Repository, res resolver.Resolver, notifier *notify.Dispatcher) *Service {
	return &Service{
		db:       db,
		repo:     repo,
		resolver: res,
		notifier: notifier,
	}
}

// RecordAction stores actorID's action towards targetUserID, replacing any earlier one.
// A LIKE answering an existing LIKE is a mutual match; both users are notified.
func (s *Service) RecordAction(ctx context.Context, actorID, targetUserID int64, action Action, score *int) (*Result, error) {
	if actorID == targetUserID {
		return nil, ErrSelfMatch
	}
	if action != ActionLike && action != ActionDislike {
		return nil, ErrInvalidAction
	}
	if score != nil && (*score < MinScore || *score > MaxScore) {
		return nil, ErrInvalidScore
	}
	if err := resolver.Exists(ctx, s.resolver, relation.Target{Type: relation.TargetUser, ID: targetUserID}); err != nil {
		return nil, err
	}

	result := &Result{
		Match: &UserMatch{
			UserID:       actorID,
			TargetUserID: targetUserID,
			Action:       action,
			MatchScore:   score,
		},
	}

	err := database.WithTx(ctx, s.db, func(ctx context.Context, tx *sqlx.Tx) error {
		repo := s.repo.WithTx(tx)
		if err := repo.LockPair(ctx, actorID, targetUserID); err != nil {
			return err
		}
		if err := repo.Upsert(ctx, result.Match); err != nil {
			return err
		}
		if action != ActionLike {
			return nil
		}
		liked, err := repo.HasLiked(ctx, targetUserID, actorID)
		if err != nil {
			return err
		}
		result.IsMatch = liked
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.MatchAction(string(action))
	if result.IsMatch {
		metrics.MutualMatch()
		logger.LogInfo(ctx, "Mutual match",
			"user_id", actorID,
			"target_user_id", targetUserID,
		)
		s.notifier.Dispatch(ctx,
			notify.NewEvent(notify.TypeMatchMutual, actorID, map[string]interface{}{"user_id": targetUserID}),
			notify.NewEvent(notify.TypeMatchMutual, targetUserID, map[string]interface{}{"user_id": actorID}),
		)
	}
	return result, nil
}

// Get returns actorID's current action towards targetUserID
func (s *Service) Get(ctx context.Context, actorID, targetUserID int64) (*UserMatch, error) {
	m, err := s.repo.Get(ctx, actorID, targetUserID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrMatchNotFound
	}
	return m, nil
}

// SeenTargets returns the users actorID already liked or disliked, most recent first.
func (s *Service) SeenTargets(ctx context.Context, actorID int64) ([]int64, error) {
	return s.repo.SeenTargets(ctx, actorID)
}

// Matches lists userID's mutual matches with the other user hydrated. Deleted users
// come back as placeholders.
func (s *Service) Matches(ctx context.Context, userID int64) ([]*Mutual, error) {
	matches, err := s.repo.ListMutual(ctx, userID)
	if err != nil {
		return nil, err
	}

	targets := make([]relation.Target, 0, len(matches))
	for _, m := range matches {
		targets = append(targets, relation.Target{Type: relation.TargetUser, ID: m.TargetUserID})
	}
	users, err := resolver.Hydrate(ctx, s.resolver, targets, resolver.DefaultBatch)
	if err != nil {
		return nil, err
	}

	mutuals := make([]*Mutual, 0, len(matches))
	for i, m := range matches {
		mutuals = append(mutuals, &Mutual{UserMatch: m, User: users[targets[i]]})
	}
	return mutuals, nil
}
