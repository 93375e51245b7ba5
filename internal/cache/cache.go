package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/avtriage/avtriage/pkg/models"
)

// Cache stores diagnostic reports in Redis keyed by the SHA-256 of the
// uploaded content, so re-analyzing identical bytes skips the probe.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache creates a new cache instance and verifies the connection.
func NewCache(host string, port int, password string, db int, ttl time.Duration) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Cache{client: client, ttl: ttl}, nil
}

// Close closes the Redis connection
func (c *Cache) Close() error {
	return c.client.Close()
}

// Ping checks the Redis connection
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// SetReport caches a diagnostic report under the content hash.
func (c *Cache) SetReport(ctx context.Context, contentHash string, report *models.DiagnosticReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	key := reportKey(contentHash)
	return c.client.Set(ctx, key, data, c.ttl).Err()
}

// GetReport retrieves a cached report. A cache miss returns (nil, nil).
func (c *Cache) GetReport(ctx context.Context, contentHash string) (*models.DiagnosticReport, error) {
	key := reportKey(contentHash)
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, fmt.Errorf("failed to get report from cache: %w", err)
	}

	var report models.DiagnosticReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}

	return &report, nil
}

// DeleteReport removes a cached report.
func (c *Cache) DeleteReport(ctx context.Context, contentHash string) error {
	return c.client.Del(ctx, reportKey(contentHash)).Err()
}

func reportKey(contentHash string) string {
	return fmt.Sprintf("report:%s", contentHash)
}
