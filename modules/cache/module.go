package cache

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-monolith/mono"
	"github.com/redis/go-redis/v9"
)

// Module wires the redis cache into the application lifecycle. When redis is
// unreachable at startup the module degrades to no caching instead of
// failing the whole application; the store remains authoritative either way.
type Module struct {
	cache     *Cache
	client    *redis.Client
	redisAddr string
	prefix    string
	ttl       time.Duration
}

var _ mono.Module = (*Module)(nil)
var _ mono.HealthCheckableModule = (*Module)(nil)

// NewModule creates a new cache module.
func NewModule(redisAddr, prefix string, ttl time.Duration) *Module {
	return &Module{
		redisAddr: redisAddr,
		prefix:    prefix,
		ttl:       ttl,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "cache"
}

// Start connects to redis and creates the cache.
func (m *Module) Start(ctx context.Context) error {
	client := redis.NewClient(&redis.Options{Addr: m.redisAddr})

	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("[cache] Redis unavailable at %s, caching disabled: %v", m.redisAddr, err)
		client.Close()
		return nil
	}

	m.client = client
	m.cache = New(client, m.prefix, m.ttl)
	log.Printf("[cache] Connected to redis at %s (prefix=%q, ttl=%s)", m.redisAddr, m.prefix, m.ttl)
	return nil
}

// Stop closes the redis connection.
func (m *Module) Stop(_ context.Context) error {
	if m.client == nil {
		return nil
	}
	log.Println("[cache] Closing redis connection...")
	return m.client.Close()
}

// Health reports the redis connection state.
func (m *Module) Health(ctx context.Context) mono.HealthStatus {
	if m.cache == nil {
		return mono.HealthStatus{
			Healthy: true,
			Message: "caching disabled",
		}
	}
	if err := m.cache.Ping(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("redis ping failed: %v", err),
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"addr":  m.redisAddr,
			"stats": m.cache.GetStats(),
		},
	}
}

// GetCache returns the cache, or nil when caching is disabled.
func (m *Module) GetCache() *Cache {
	return m.cache
}
