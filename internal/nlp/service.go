package nlp

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/oncokg/oncograph/internal/model"
)

// Service wraps a provider with request pacing and response caching. A nil
// *Service is valid and means the backend is disabled.
type Service struct {
	provider Provider
	limiter  *rate.Limiter
	cache    *gocache.Cache
	ttl      time.Duration
}

// NewService builds a service for the configured provider. Returns
// (nil, nil) when no provider is configured: the caller just skips the
// backend.
func NewService(cfg Config) (*Service, error) {
	switch cfg.Provider {
	case "":
		return nil, nil
	case "openai":
		p, err := NewOpenAIProvider(cfg)
		if err != nil {
			return nil, err
		}
		return newService(p, cfg), nil
	default:
		return nil, fmt.Errorf("unknown nlp provider %q", cfg.Provider)
	}
}

func newService(p Provider, cfg Config) *Service {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 2
	}

	s := &Service{
		provider: p,
		limiter:  rate.NewLimiter(rate.Limit(rps), 1),
	}
	if cfg.CacheTTL > 0 {
		s.ttl = time.Duration(cfg.CacheTTL) * time.Second
		s.cache = gocache.New(s.ttl, 2*s.ttl)
	}
	return s
}

// Name returns the underlying provider name, or "disabled".
func (s *Service) Name() string {
	if s == nil {
		return "disabled"
	}
	return s.provider.Name()
}

// Extract runs NER over the text, paced and cached. Identical texts within
// the cache TTL hit the cache instead of the API.
func (s *Service) Extract(ctx context.Context, text string) ([]model.NLPEntity, error) {
	if s == nil {
		return nil, nil
	}

	key := cacheKey(text)
	if s.cache != nil {
		if cached, found := s.cache.Get(key); found {
			return cached.([]model.NLPEntity), nil
		}
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	entities, err := s.provider.ExtractEntities(ctx, text)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(key, entities, s.ttl)
	}
	return entities, nil
}

func cacheKey(text string) string {
	hash := sha256.Sum256([]byte(text))
	return "oncograph:ner:v1:" + hex.EncodeToString(hash[:])
}
