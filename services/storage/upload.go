package storage

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// UploadAll validates every upload, then stores them concurrently. References
// come back in upload order. The first failure cancels the uploads still running.
func UploadAll(ctx context.Context, store PhotoStore, sessionID string, uploads []Upload) ([]string, error) {
	for _, u := range uploads {
		if err := u.Validate(); err != nil {
			return nil, err
		}
	}

	refs := make([]string, len(uploads))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(MaxConcurrentUploads)
	for i, u := range uploads {
		g.Go(func() error {
			ref, err := store.Put(gctx, sessionID, u)
			if err != nil {
				return err
			}
			refs[i] = ref
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return refs, nil
}
