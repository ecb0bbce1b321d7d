package suggest

import (
	"context"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/hqtrung/vnshop/internal/cache"
	"github.com/hqtrung/vnshop/internal/redisx"
)

const (
	cacheTTL      = 30 * time.Minute
	maxResults    = 10
	trendingLimit = 50
)

type NameSource interface {
	SuggestionNames(ctx context.Context) ([]string, error)
}

type Service struct {
	Names NameSource
	Redis *redis.Client
	cache *cache.TTL[[]string]
}

func NewService(names NameSource, rdb *redis.Client) *Service {
	return &Service{
		Names: names,
		Redis: rdb,
		cache: cache.NewTTL[[]string](cacheTTL),
	}
}

// Suggest returns up to 10 ranked suggestions for a partial query. Results
// are cached per normalized query; trending keywords come from the Redis
// counter the behavior worker maintains.
func (s *Service) Suggest(ctx context.Context, query string) ([]string, error) {
	q := Normalize(query)
	if q == "" {
		return nil, nil
	}
	if hit, ok := s.cache.Get(q); ok {
		return hit, nil
	}

	names, err := s.Names.SuggestionNames(ctx)
	if err != nil {
		return nil, err
	}

	opts := ScoreOptions{Trending: map[string]bool{}}
	trending, err := s.Redis.ZRevRange(ctx, redisx.KeyTrendingKeywords, 0, trendingLimit-1).Result()
	if err != nil {
		// trending is a bonus signal, not a dependency
		logrus.WithError(err).Warn("trending keywords unavailable")
	}
	for _, kw := range trending {
		opts.Trending[Normalize(kw)] = true
	}
	// trending keywords are themselves suggestion candidates
	names = append(names, trending...)

	type scored struct {
		name  string
		score float64
	}
	var ranked []scored
	seen := map[string]bool{}
	for _, n := range names {
		norm := Normalize(n)
		if seen[norm] {
			continue
		}
		seen[norm] = true
		if sc := Score(q, n, opts); sc > 0 {
			ranked = append(ranked, scored{name: n, score: sc})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	out := make([]string, 0, maxResults)
	for _, r := range ranked {
		if len(out) == maxResults {
			break
		}
		out = append(out, r.name)
	}
	s.cache.Set(q, out)
	return out, nil
}
