package content

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// LoadSnapshot reads personal info, experience entries, and blurbs
// concurrently and joins them into one Snapshot. The three reads are
// independent, so a failure in any of them cancels the others.
func LoadSnapshot(ctx context.Context, repo Repository) (*Snapshot, error) {
	g, gCtx := errgroup.WithContext(ctx)

	var info *PersonalInfo
	var entries []ExperienceEntry
	var blurbs []BlurbEntry

	g.Go(func() error {
		var err error
		info, err = repo.PersonalInfo(gCtx)
		if err != nil {
			return fmt.Errorf("fetching personal info: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		entries, err = repo.ListExperience(gCtx)
		if err != nil {
			return fmt.Errorf("fetching experience entries: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		blurbs, err = repo.ListBlurbs(gCtx)
		if err != nil {
			return fmt.Errorf("fetching blurbs: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Snapshot{
		PersonalInfo: *info,
		Experience:   entries,
		Blurbs:       blurbs,
	}, nil
}
