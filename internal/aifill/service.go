package aifill

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/commhub/community-settings/internal/logging"
	"github.com/commhub/community-settings/internal/settings/domain"
)

// Service filters, caches and rate limits generator answers.
type Service struct {
	gen     Generator
	cache   *Cache
	timeout time.Duration

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

type Options struct {
	// Cache is optional.
	Cache     *Cache
	PerMinute int
	Timeout   time.Duration
}

func NewService(gen Generator, opt Options) *Service {
	if opt.PerMinute <= 0 {
		opt.PerMinute = 6
	}
	if opt.Timeout <= 0 {
		opt.Timeout = 30 * time.Second
	}
	return &Service{
		gen:      gen,
		cache:    opt.Cache,
		timeout:  opt.Timeout,
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Every(time.Minute / time.Duration(opt.PerMinute)),
		burst:    opt.PerMinute,
	}
}

func (s *Service) limiter(projectID string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.limiters[projectID]
	if !ok {
		l = rate.NewLimiter(s.limit, s.burst)
		s.limiters[projectID] = l
	}
	return l
}

// Fill suggests values for the empty variables of project. Variables of
// the project that already carry a value are passed to the model as context.
func (s *Service) Fill(ctx context.Context, project domain.Project, known, empty []domain.NamedValue) (domain.AiFillResult, error) {
	logger := logging.New(ctx)

	names := make([]string, 0, len(empty))
	for _, nv := range empty {
		if n := strings.TrimSpace(nv.Name); n != "" {
			names = append(names, n)
		}
	}
	if len(names) == 0 {
		return domain.AiFillResult{}, fmt.Errorf("no variable names to fill: %w", domain.ErrInvalidInput)
	}

	if s.gen == nil {
		return domain.AiFillResult{}, fmt.Errorf("ai fill: %w", domain.ErrUnavailable)
	}

	if !s.limiter(project.ID).Allow() {
		return domain.AiFillResult{}, fmt.Errorf("ai fill for project %s: %w", project.ID, domain.ErrRateLimited)
	}

	if s.cache != nil {
		res, ok, err := s.cache.Get(ctx, project.ID, names)
		if err != nil {
			logger.LogWarnf("ai_fill", "cache read failed project_id=%s err=%v", project.ID, err)
		} else if ok {
			logger.LogInfof("ai_fill", "cache hit project_id=%s names=%d", project.ID, len(names))
			return res, nil
		}
	}

	gctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.gen.Generate(gctx, Request{
		ProjectName: project.Name,
		Notes:       project.Notes,
		Known:       known,
		Empty:       names,
	})
	if err != nil {
		logger.LogError("ai_fill", err)
		return domain.AiFillResult{}, fmt.Errorf("ai fill: %w", err)
	}

	res := clean(raw, names)
	logger.LogInfof("ai_fill", "project_id=%s requested=%d filled=%d new=%d", project.ID, len(names), len(res.Filled), len(res.New))

	if s.cache != nil {
		if err := s.cache.Set(ctx, project.ID, names, res); err != nil {
			logger.LogWarnf("ai_fill", "cache write failed project_id=%s err=%v", project.ID, err)
		}
	}
	return res, nil
}

// Forget drops cached answers of a project.
func (s *Service) Forget(ctx context.Context, projectID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, projectID); err != nil {
		logging.New(ctx).LogWarnf("ai_fill", "cache invalidate failed project_id=%s err=%v", projectID, err)
	}
}
