package application

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// fillTimeout bounds a shared fill, which outlives the caller that started it.
const fillTimeout = 30 * time.Second

// memo populates a Cache on miss. Concurrent misses for one key share a
// single fill call that runs detached from any one caller's cancellation.
// Failed fills are not cached, except errors accepted by final: those are
// answers from the provider and are remembered per key for the process
// lifetime.
type memo[V any] struct {
	name  string
	cache Cache[V]
	group singleflight.Group
	log   *zap.Logger

	final   func(error) bool
	mu      sync.RWMutex
	answers map[string]error
}

func newMemo[V any](name string, cache Cache[V], log *zap.Logger) *memo[V] {
	if cache == nil {
		cache = NewMemoryCache[V]()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &memo[V]{name: name, cache: cache, log: log, answers: map[string]error{}}
}

// rememberErrors makes get remember errors for which final returns true.
func (m *memo[V]) rememberErrors(final func(error) bool) *memo[V] {
	m.final = final
	return m
}

func (m *memo[V]) get(ctx context.Context, key string, fill func(context.Context) (V, error)) (V, error) {
	var zero V
	if err := m.answer(key); err != nil {
		return zero, err
	}
	v, ok, err := m.cache.Get(ctx, key)
	if err != nil {
		// a broken cache degrades to a fetch
		m.log.Warn("cache_get_failed", zap.String("cache", m.name), zap.String("key", key), zap.Error(err))
	} else if ok {
		return v, nil
	}

	ch := m.group.DoChan(key, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), fillTimeout)
		defer cancel()
		// another caller may have filled it between our Get and Do
		if err := m.answer(key); err != nil {
			return nil, err
		}
		if v, ok, err := m.cache.Get(fctx, key); err == nil && ok {
			return v, nil
		}
		v, err := fill(fctx)
		if err != nil {
			if m.final != nil && m.final(err) {
				m.remember(key, err)
			}
			return nil, err
		}
		if err := m.cache.Set(fctx, key, v); err != nil {
			m.log.Warn("cache_set_failed", zap.String("cache", m.name), zap.String("key", key), zap.Error(err))
		}
		return v, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(V), nil
	}
}

func (m *memo[V]) answer(key string) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.answers[key]
}

func (m *memo[V]) remember(key string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.answers[key] = err
}

func (m *memo[V]) forget(ctx context.Context, key string) error {
	m.mu.Lock()
	delete(m.answers, key)
	m.mu.Unlock()
	return m.cache.Delete(ctx, key)
}

// refresh re-runs fill and replaces the cached value. On failure the
// previous value stays cached.
func (m *memo[V]) refresh(ctx context.Context, key string, fill func(context.Context) (V, error)) error {
	_, err, _ := m.group.Do("refresh:"+key, func() (any, error) {
		v, err := fill(ctx)
		if err != nil {
			return nil, err
		}
		if err := m.cache.Set(ctx, key, v); err != nil {
			return nil, err
		}
		m.mu.Lock()
		delete(m.answers, key)
		m.mu.Unlock()
		return nil, nil
	})
	return err
}
