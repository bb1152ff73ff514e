package keyword

import (
	"context"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/pawpals/pawpals-api/internal/domain/relation"
	"github.com/pawpals/pawpals-api/internal/domain/resolver"
	"github.com/pawpals/pawpals-api/internal/pkg/database"
	"github.com/pawpals/pawpals-api/internal/pkg/domainerr"
	"github.com/pawpals/pawpals-api/internal/pkg/logger"
	"github.com/pawpals/pawpals-api/internal/pkg/metrics"
)

// Service handles keyword and tag business logic
type Service struct {
	db        *sqlx.DB
	repo      Repository
	relations *relation.Store
	resolver  resolver.Resolver
}

// NewService creates keyword service
func NewService(db *sqlx.DB, repo Repository, relations *relation.Store, res resolver.Resolver) *Service {
	return &Service{
		db:        db,
		repo:      repo,
		relations: relations,
		resolver:  res,
	}
}

// CreateKeyword creates a keyword. (name, category) is unique.
func (s *Service) CreateKeyword(ctx context.Context, req *CreateKeywordRequest) (*Keyword, error) {
	k := &Keyword{
		Name:     strings.TrimSpace(req.Name),
		Category: strings.TrimSpace(req.Category),
	}
	if k.Name == "" {
		return nil, ErrEmptyName
	}
	if err := s.repo.Create(ctx, k); err != nil {
		return nil, err
	}
	return k, nil
}

// GetKeyword returns a keyword by ID
func (s *Service) GetKeyword(ctx context.Context, id int64) (*Keyword, error) {
	k, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if k == nil {
		return nil, ErrKeywordNotFound
	}
	return k, nil
}

// ListKeywords lists keywords, optionally within one category.
func (s *Service) ListKeywords(ctx context.Context, category string) ([]*Keyword, error) {
	return s.repo.List(ctx, category)
}

// DeleteKeyword removes the keyword and every tag assignment using it, atomically.
func (s *Service) DeleteKeyword(ctx context.Context, id int64) error {
	var removed int64
	err := database.WithTx(ctx, s.db, func(ctx context.Context, tx *sqlx.Tx) error {
		n, err := s.relations.WithTx(tx).DeleteBySubject(ctx, relation.KindTag, id)
		if err != nil {
			return err
		}
		removed = n

		deleted, err := s.repo.DeleteTx(ctx, tx, id)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrKeywordNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	metrics.RelationsRemoved(string(relation.KindTag), removed)
	logger.LogInfo(ctx, "Keyword deleted", "keyword_id", id, "assignments_removed", removed)
	return nil
}

// Assign tags target with the keyword.
func (s *Service) Assign(ctx context.Context, keywordID int64, target relation.Target) (*TagAssignment, error) {
	if err := relation.KindTag.Validate(target); err != nil {
		return nil, err
	}
	if _, err := s.GetKeyword(ctx, keywordID); err != nil {
		return nil, err
	}
	if err := resolver.Exists(ctx, s.resolver, target); err != nil {
		return nil, err
	}

	var ta TagAssignment
	if err := s.relations.Assign(ctx, relation.KindTag, keywordID, target, nil, &ta); err != nil {
		return nil, err
	}
	metrics.RelationCreated(string(relation.KindTag))
	return &ta, nil
}

// Unassign removes a tag assignment.
func (s *Service) Unassign(ctx context.Context, assignmentID int64) error {
	if err := s.relations.Unassign(ctx, relation.KindTag, assignmentID); err != nil {
		if errors.Is(err, domainerr.ErrNotFound) {
			return ErrAssignmentNotFound
		}
		return err
	}
	metrics.RelationsRemoved(string(relation.KindTag), 1)
	return nil
}

// ListByTarget returns the tag assignments on target in creation order.
func (s *Service) ListByTarget(ctx context.Context, target relation.Target) ([]*TagAssignment, error) {
	if err := relation.KindTag.Validate(target); err != nil {
		return nil, err
	}
	assignments := []*TagAssignment{}
	if err := s.relations.SelectByTarget(ctx, relation.KindTag, target, &assignments); err != nil {
		return nil, err
	}
	return assignments, nil
}

// KeywordsForTarget returns the keywords tagged on target in assignment order.
func (s *Service) KeywordsForTarget(ctx context.Context, target relation.Target) ([]*Keyword, error) {
	if err := relation.KindTag.Validate(target); err != nil {
		return nil, err
	}
	return s.repo.ListForTarget(ctx, target)
}

// ListByKeyword returns every assignment of the keyword.
func (s *Service) ListByKeyword(ctx context.Context, keywordID int64) ([]*TagAssignment, error) {
	if _, err := s.GetKeyword(ctx, keywordID); err != nil {
		return nil, err
	}
	assignments := []*TagAssignment{}
	if err := s.relations.SelectBySubject(ctx, relation.KindTag, keywordID, &assignments); err != nil {
		return nil, err
	}
	return assignments, nil
}
