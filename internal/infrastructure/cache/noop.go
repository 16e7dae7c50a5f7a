// Package cache holds the cache used when Redis is not configured.
package cache

import (
	"context"
	"time"

	"github.com/sp3dr4/qrlink/internal/domain"
)

var _ domain.LinkCache = NoOpCache{}

// NoOpCache stores nothing: every lookup misses and every write succeeds.
type NoOpCache struct{}

func NewNoOpCache() NoOpCache { return NoOpCache{} }

func (NoOpCache) Get(context.Context, string) (*domain.Link, error)              { return nil, nil }
func (NoOpCache) Set(context.Context, *domain.Link, time.Duration) error         { return nil }
func (NoOpCache) Add(context.Context, *domain.Link, time.Duration) (bool, error) { return false, nil }
func (NoOpCache) Delete(context.Context, string) error                           { return nil }
func (NoOpCache) Ping(context.Context) error                                     { return nil }
