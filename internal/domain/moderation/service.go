package moderation

import (
	"context"
	"errors"
	"strings"

	"github.com/pawpals/pawpals-api/internal/domain/relation"
	"github.com/pawpals/pawpals-api/internal/domain/resolver"
	"github.com/pawpals/pawpals-api/internal/pkg/domainerr"
	"github.com/pawpals/pawpals-api/internal/pkg/logger"
	"github.com/pawpals/pawpals-api/internal/pkg/metrics"
	"github.com/pawpals/pawpals-api/internal/pkg/notify"
)

// Service handles moderation business logic
type Service struct {
	relations *relation.Store
	repo      Repository
	resolver  resolver.Resolver
	notifier  *notify.Dispatcher
}

// NewService creates moderation service
func NewService(relations *relation.Store, repo Repository, res resolver.Resolver, notifier *notify.Dispatcher) *Service {
	return &Service{
		relations: relations,
		repo:      repo,
		resolver:  res,
		notifier:  notifier,
	}
}

// File records a block or report by actorID. Reports start PENDING; blocks carry no
// status. Filing is append-only, so repeated reports of the same target are kept.
func (s *Service) File(ctx context.Context, actorID int64, actionType ActionType, target relation.Target, comment string) (*Action, error) {
	if actionType != ActionBlock && actionType != ActionReport {
		return nil, ErrInvalidActionType
	}
	if err := relation.KindModeration.Validate(target); err != nil {
		return nil, err
	}
	if target.Type == relation.TargetUser && target.ID == actorID {
		return nil, ErrCannotTargetSelf
	}
	if err := resolver.Exists(ctx, s.resolver, target); err != nil {
		return nil, err
	}

	payload := relation.Payload{"action_type": actionType}
	if actionType == ActionReport {
		payload["status"] = StatusPending
	}
	if comment = strings.TrimSpace(comment); comment != "" {
		payload["comment"] = comment
	}

	var action Action
	if err := s.relations.Assign(ctx, relation.KindModeration, actorID, target, payload, &action); err != nil {
		return nil, err
	}

	metrics.RelationCreated(string(relation.KindModeration))
	logger.LogInfo(ctx, "Moderation action filed",
		"action_id", action.ID,
		"action_type", actionType,
		"target", target.String(),
	)
	return &action, nil
}

// Get returns a moderation action by ID
func (s *Service) Get(ctx context.Context, id int64) (*Action, error) {
	var action Action
	if err := s.relations.Get(ctx, relation.KindModeration, id, &action); err != nil {
		if errors.Is(err, domainerr.ErrNotFound) {
			return nil, ErrActionNotFound
		}
		return nil, err
	}
	return &action, nil
}

// Retract deletes an action. Only its actor may do so.
func (s *Service) Retract(ctx context.Context, actorID, id int64) error {
	action, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if action.ActorUserID != actorID {
		return ErrNotActor
	}

	if err := s.relations.Unassign(ctx, relation.KindModeration, id); err != nil {
		if errors.Is(err, domainerr.ErrNotFound) {
			return ErrActionNotFound
		}
		return err
	}
	metrics.RelationsRemoved(string(relation.KindModeration), 1)
	return nil
}

// Resolve marks a pending report as acted upon.
func (s *Service) Resolve(ctx context.Context, moderatorID, id int64, note string) (*Action, error) {
	return s.review(ctx, moderatorID, id, StatusResolved, note)
}

// Reject dismisses a pending report.
func (s *Service) Reject(ctx context.Context, moderatorID, id int64, note string) (*Action, error) {
	return s.review(ctx, moderatorID, id, StatusRejected, note)
}

func (s *Service) review(ctx context.Context, moderatorID, id int64, status Status, note string) (*Action, error) {
	var notePtr *string
	if note = strings.TrimSpace(note); note != "" {
		notePtr = &note
	}

	action, err := s.repo.Review(ctx, id, status, moderatorID, notePtr)
	if err != nil {
		return nil, err
	}
	if action == nil {
		// Either missing or not a pending report; tell the two apart.
		if _, err := s.Get(ctx, id); err != nil {
			return nil, err
		}
		return nil, ErrNotPendingReport
	}

	eventType := notify.TypeModerationResolved
	if status == StatusRejected {
		eventType = notify.TypeModerationRejected
	}
	s.notifier.Dispatch(ctx, notify.NewEvent(eventType, action.ActorUserID, map[string]interface{}{
		"action_id":   action.ID,
		"target_type": action.Type,
		"target_id":   action.Target.ID,
		"note":        note,
	}))

	logger.LogInfo(ctx, "Report reviewed",
		"action_id", action.ID,
		"status", status,
		"moderator_id", moderatorID,
	)
	return action, nil
}

// ListByTarget returns every action on target.
func (s *Service) ListByTarget(ctx context.Context, target relation.Target) ([]*Action, error) {
	if err := relation.KindModeration.Validate(target); err != nil {
		return nil, err
	}
	actions := []*Action{}
	if err := s.relations.SelectByTarget(ctx, relation.KindModeration, target, &actions); err != nil {
		return nil, err
	}
	return actions, nil
}

// ListByActor returns the actions actorID filed, optionally of one type.
func (s *Service) ListByActor(ctx context.Context, actorID int64, actionType ActionType) ([]*Action, error) {
	return s.repo.ListByActor(ctx, actorID, actionType)
}

// ListReports returns reports for the admin queue
func (s *Service) ListReports(ctx context.Context, filter *ListReportsFilter) ([]*Action, error) {
	return s.repo.ListReports(ctx, filter)
}

// CountReports returns total report count for filter
func (s *Service) CountReports(ctx context.Context, filter *ListReportsFilter) (int, error) {
	return s.repo.CountReports(ctx, filter)
}

// IsBlocked checks if either user has blocked the other
func (s *Service) IsBlocked(ctx context.Context, user1, user2 int64) (bool, error) {
	return s.repo.IsBlocked(ctx, user1, user2)
}
