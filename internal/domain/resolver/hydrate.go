package resolver

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/pawpals/pawpals-api/internal/domain/relation"
	"github.com/pawpals/pawpals-api/internal/pkg/domainerr"
)

// DefaultBatch bounds concurrent lookups in Hydrate.
const DefaultBatch = 8

// Hydrate resolves targets concurrently, at most limit at a time. The result is keyed
// by target; entities that no longer exist get a placeholder. Any other failure aborts
// the batch.
func Hydrate(ctx context.Context, r Resolver, targets []relation.Target, limit int) (map[relation.Target]*Descriptor, error) {
	if limit <= 0 {
		limit = DefaultBatch
	}

	unique := make([]relation.Target, 0, len(targets))
	seen := make(map[relation.Target]struct{}, len(targets))
	for _, t := range targets {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		unique = append(unique, t)
	}

	results := make([]*Descriptor, len(unique))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, target := range unique {
		g.Go(func() error {
			d, err := r.Resolve(ctx, target)
			if errors.Is(err, domainerr.ErrNotFound) {
				d, err = Placeholder(target), nil
			}
			if err != nil {
				return err
			}
			results[i] = d
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[relation.Target]*Descriptor, len(unique))
	for i, target := range unique {
		out[target] = results[i]
	}
	return out, nil
}
