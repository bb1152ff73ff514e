package comment

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/pawpals/pawpals-api/internal/domain/relation"
	"github.com/pawpals/pawpals-api/internal/domain/resolver"
	"github.com/pawpals/pawpals-api/internal/pkg/domainerr"
	"github.com/pawpals/pawpals-api/internal/pkg/metrics"
)

// Service handles comment business logic. Comments live in the relation store as the
// COMMENT kind, keyed by author.
type Service struct {
	relations *relation.Store
	resolver  resolver.Resolver
}

// NewService creates comment service
func NewService(relations *relation.Store, res resolver.Resolver) *Service {
	return &Service{relations: relations, resolver: res}
}

// NormalizeContent trims content and checks its length in characters.
func NormalizeContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", ErrEmptyContent
	}
	if utf8.RuneCountInString(content) > MaxContentLength {
		return "", ErrContentTooLong
	}
	return content, nil
}

// Post stores a comment by author on target.
func (s *Service) Post(ctx context.Context, authorID int64, target relation.Target, content string) (*Comment, error) {
	if err := relation.KindComment.Validate(target); err != nil {
		return nil, err
	}
	content, err := NormalizeContent(content)
	if err != nil {
		return nil, err
	}
	if err := resolver.Exists(ctx, s.resolver, target); err != nil {
		return nil, err
	}

	var c Comment
	payload := relation.Payload{"content": content}
	if err := s.relations.Assign(ctx, relation.KindComment, authorID, target, payload, &c); err != nil {
		return nil, err
	}
	metrics.RelationCreated(string(relation.KindComment))
	return &c, nil
}

// Get returns a comment by ID
func (s *Service) Get(ctx context.Context, id int64) (*Comment, error) {
	var c Comment
	if err := s.relations.Get(ctx, relation.KindComment, id, &c); err != nil {
		if errors.Is(err, domainerr.ErrNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return &c, nil
}

// ListByTarget returns the comments on target, oldest first.
func (s *Service) ListByTarget(ctx context.Context, target relation.Target) ([]*Comment, error) {
	if err := relation.KindComment.Validate(target); err != nil {
		return nil, err
	}
	comments := []*Comment{}
	if err := s.relations.SelectByTarget(ctx, relation.KindComment, target, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// ListByAuthor returns the comments authorID posted, oldest first.
func (s *Service) ListByAuthor(ctx context.Context, authorID int64) ([]*Comment, error) {
	comments := []*Comment{}
	if err := s.relations.SelectBySubject(ctx, relation.KindComment, authorID, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// CountByTarget counts comments on target.
func (s *Service) CountByTarget(ctx context.Context, target relation.Target) (int, error) {
	if err := relation.KindComment.Validate(target); err != nil {
		return 0, err
	}
	return s.relations.CountByTarget(ctx, relation.KindComment, target)
}
