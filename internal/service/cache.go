package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ai4local/ai4local/internal/cache"
	"github.com/ai4local/ai4local/internal/domain"
)

// CacheService wraps the in-memory cache with typed reads.
type CacheService struct {
	cache *cache.InMemoryCache
}

type CacheConfig struct {
	TTL         time.Duration
	CleanupFreq time.Duration
}

// NewCacheService creates the cache and starts its cleanup loop. Call
// Close to stop it.
func NewCacheService(config CacheConfig) *CacheService {
	c := cache.NewInMemoryCache(config.TTL, config.CleanupFreq)
	c.StartCleanup(context.Background())

	return &CacheService{cache: c}
}

func (s *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	if key == "" {
		return domain.ErrInvalidInput
	}

	s.cache.Set(ctx, key, value)
	return nil
}

// Get copies the cached value for key into result. It returns
// domain.ErrNotFound on a miss.
func (s *CacheService) Get(ctx context.Context, key string, result interface{}) error {
	if key == "" {
		return domain.ErrInvalidInput
	}

	value, found := s.cache.Get(ctx, key)
	if !found {
		return domain.ErrNotFound
	}

	if err := assignValue(value, result); err != nil {
		return fmt.Errorf("assigning cached value: %w", err)
	}
	return nil
}

// GetOrSet reads key, calling fetch and caching its result on a miss.
// Errors from fetch are returned unwrapped and are not cached.
func (s *CacheService) GetOrSet(ctx context.Context, key string, result interface{}, fetch func() (interface{}, error)) error {
	err := s.Get(ctx, key, result)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	value, err := fetch()
	if err != nil {
		return err
	}

	if err := s.Set(ctx, key, value); err != nil {
		return fmt.Errorf("storing in cache: %w", err)
	}
	return assignValue(value, result)
}

func (s *CacheService) Delete(ctx context.Context, key string) error {
	if key == "" {
		return domain.ErrInvalidInput
	}

	s.cache.Delete(ctx, key)
	return nil
}

func (s *CacheService) Close() {
	s.cache.StopCleanup()
}

func assignValue(src interface{}, dst interface{}) error {
	if v, ok := dst.(*interface{}); ok {
		*v = src
		return nil
	}

	data, err := json.Marshal(src)
	if err != nil {
		return fmt.Errorf("marshaling value: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("unmarshaling value: %w", err)
	}
	return nil
}
