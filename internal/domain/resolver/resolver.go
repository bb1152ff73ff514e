// Package resolver is the boundary to the services that own users, dogs, groups and
// walks. The relationship kernel only needs to know that a target exists and how to
// label it.
package resolver

import (
	"context"
	"fmt"

	"github.com/pawpals/pawpals-api/internal/domain/relation"
	"github.com/pawpals/pawpals-api/internal/pkg/domainerr"
)

// Descriptor is the display view of an entity.
type Descriptor struct {
	Type     relation.TargetType `json:"type"`
	ID       int64               `json:"id"`
	Label    string              `json:"label"`
	ImageURL *string             `json:"image_url,omitempty"`
	Missing  bool                `json:"missing,omitempty"`
}

// Resolver resolves a target to its descriptor, or fails with domainerr.ErrNotFound.
type Resolver interface {
	Resolve(ctx context.Context, target relation.Target) (*Descriptor, error)
}

// Func adapts a function to Resolver.
type Func func(ctx context.Context, target relation.Target) (*Descriptor, error)

func (f Func) Resolve(ctx context.Context, target relation.Target) (*Descriptor, error) {
	return f(ctx, target)
}

// Placeholder describes an entity that no longer resolves.
func Placeholder(target relation.Target) *Descriptor {
	return &Descriptor{
		Type:    target.Type,
		ID:      target.ID,
		Label:   fmt.Sprintf("Deleted %s", target.Type),
		Missing: true,
	}
}

// Exists resolves target and drops the descriptor.
func Exists(ctx context.Context, r Resolver, target relation.Target) error {
	_, err := r.Resolve(ctx, target)
	return err
}

func notFound(target relation.Target) error {
	return fmt.Errorf("%w: %s", domainerr.ErrNotFound, target)
}
