package analytics

import (
	"context"
	"time"

	"app/models"

	"github.com/sirupsen/logrus"
)

// Service ties the loader, engine and cache into the full pipeline:
// load -> analyze -> cache. Concurrent runs for different session keys
// are independent.
type Service struct {
	loader *Loader
	engine *Engine
	cache  Cache
	log    *logrus.Logger
}

func NewService(loader *Loader, engine *Engine, cache Cache, log *logrus.Logger) *Service {
	return &Service{loader: loader, engine: engine, cache: cache, log: log}
}

// Run executes one full analysis anchored at the current time and stores
// the bundle under the session key, replacing any prior entry.
func (s *Service) Run(ctx context.Context, sessionKey string) (*models.AnalysisResult, error) {
	return s.RunAsOf(ctx, sessionKey, time.Time{})
}

// RunAsOf runs the pipeline with an explicit reference time for the
// expiry and synthetic-window calculations, so a historical report can be
// reproduced. The only fatal condition is a loader that yields zero rows
// with the synthetic fallback disabled.
func (s *Service) RunAsOf(ctx context.Context, sessionKey string, asOf time.Time) (*models.AnalysisResult, error) {
	records, source, err := s.loader.Load(ctx, asOf)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"session": sessionKey,
		"records": len(records),
		"source":  source,
	}).Info("running analysis")

	result := s.engine.Analyze(ctx, records, source)
	s.cache.Put(sessionKey, result)
	return result, nil
}

// Cached returns the stored bundle for a session key, if still live.
func (s *Service) Cached(sessionKey string) (*models.AnalysisResult, bool) {
	return s.cache.Get(sessionKey)
}

// CachedOrRun returns the cached bundle or runs a fresh analysis when the
// cache has nothing live for the key.
func (s *Service) CachedOrRun(ctx context.Context, sessionKey string) (*models.AnalysisResult, error) {
	if result, ok := s.cache.Get(sessionKey); ok {
		return result, nil
	}
	return s.Run(ctx, sessionKey)
}

// Evict drops the cached bundle for a session key.
func (s *Service) Evict(sessionKey string) {
	s.cache.Evict(sessionKey)
}
