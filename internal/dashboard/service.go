// Package dashboard loads a date range from the worklog source, through the
// cache, and turns it into aggregated dashboard data.
package dashboard

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/nhle/worklog-dashboard/internal/cache"
	"github.com/nhle/worklog-dashboard/internal/daterange"
	"github.com/nhle/worklog-dashboard/internal/model"
	"github.com/nhle/worklog-dashboard/internal/source"
)

// Provider is what the terminal UI and HTTP API need from a Service.
type Provider interface {
	Load(ctx context.Context, rng daterange.Range) (*Data, error)
	Refresh(ctx context.Context, rng daterange.Range) (*Data, error)
}

// Service loads dashboard data for date ranges.
type Service struct {
	src   source.WorklogSource
	cache *cache.Cache
	now   func() time.Time
	log   zerolog.Logger
}

var _ Provider = (*Service)(nil)

// NewService creates a Service. A nil cache disables caching.
func NewService(src source.WorklogSource, c *cache.Cache, log zerolog.Logger) *Service {
	return &Service{
		src:   src,
		cache: c,
		now:   time.Now,
		log:   log.With().Str("component", "dashboard").Logger(),
	}
}

// Load returns the data for rng, from the cache when a fresh snapshot
// exists.
func (s *Service) Load(ctx context.Context, rng daterange.Range) (*Data, error) {
	if s.cache != nil {
		if snap, ok := s.cache.Get(ctx, rng.Key()); ok {
			s.log.Debug().Str("range", rng.Key()).Msg("cache hit")
			data := Build(rng, snap.Issues, snap.Worklogs, snap.FetchedAt)
			data.FromCache = true
			return data, nil
		}
	}
	return s.Refresh(ctx, rng)
}

// Refresh fetches rng from the source regardless of the cache, and caches
// the result. Failed fetches are never cached.
func (s *Service) Refresh(ctx context.Context, rng daterange.Range) (*Data, error) {
	start := s.now()
	set, err := s.src.FetchWorklogs(ctx, rng)
	if err != nil {
		s.log.Error().Err(err).Str("range", rng.Key()).Msg("fetching worklogs")
		return nil, err
	}

	snap := model.Snapshot{
		RangeKey:  rng.Key(),
		StartDate: rng.StartString(),
		EndDate:   rng.EndString(),
		FetchedAt: s.now(),
		Issues:    set.Issues,
		Worklogs:  set.Worklogs,
	}
	if s.cache != nil {
		s.cache.Put(ctx, snap)
	}

	data := Build(rng, snap.Issues, snap.Worklogs, snap.FetchedAt)
	s.log.Info().
		Str("range", rng.Key()).
		Int("entries", len(data.Entries)).
		Int("projects", len(data.Projects)).
		Dur("took", s.now().Sub(start)).
		Msg("loaded worklogs")

	return data, nil
}
