// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package stats

import (
	"context"

	"golang.org/x/sync/errgroup"
)

const defaultWorkers = 4

// Prefetch computes and caches PDF token counts for paths in parallel,
// bounded by workers (default 4). It is purely a warm-up for the display
// tables: failures for individual files are ignored here and surface later
// when the file is counted on demand. Notes documents are never touched.
func (s *Service) Prefetch(ctx context.Context, paths []string, workers int) {
	if workers <= 0 {
		workers = defaultWorkers
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, path := range paths {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			s.PDFTokens(path)
			return nil
		})
	}

	g.Wait()
}
