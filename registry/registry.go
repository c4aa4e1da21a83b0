// Package registry remembers which topics already have a rendered video, so
// re-submitting the same topic does not burn generation credits twice. Backed
// by a RedisBloom filter; a missing Redis only disables dedup, never a run.
package registry

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config configures the RedisBloom connection and key.
type Config struct {
	Addr     string
	Password string
	DB       int
	Key      string
	TTL      time.Duration
	// Capacity sets the initial BF.RESERVE capacity (number of topics)
	Capacity int
	// ErrorRate sets the desired false positive probability (e.g. 0.001)
	ErrorRate float64
}

// TopicRegistry is a minimal Redis-backed Bloom wrapper using RedisBloom
// commands. False positives make the factory skip a genuinely new topic once
// in a while; that trade is fine for a credit guard.
type TopicRegistry struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewFromEnv creates a TopicRegistry using environment variables REDIS_ADDR,
// REDIS_PASS, TOPIC_BLOOM_KEY (optional) and TOPIC_BLOOM_TTL_SECONDS
// (optional).
func NewFromEnv() (*TopicRegistry, error) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	key := os.Getenv("TOPIC_BLOOM_KEY")
	if key == "" {
		key = "topics:bloom"
	}
	ttl := 30 * 24 * time.Hour
	if t := os.Getenv("TOPIC_BLOOM_TTL_SECONDS"); t != "" {
		if secs, err := strconv.Atoi(t); err == nil && secs > 0 {
			ttl = time.Duration(secs) * time.Second
		}
	}
	return New(Config{
		Addr:      addr,
		Password:  os.Getenv("REDIS_PASS"),
		Key:       key,
		TTL:       ttl,
		Capacity:  100000,
		ErrorRate: 0.001,
	})
}

// New creates a TopicRegistry and verifies connectivity.
func New(cfg Config) (*TopicRegistry, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	// Reserve the filter on first use. BF.RESERVE failure is non-fatal:
	// BF.ADD auto-creates the filter with server defaults.
	exists, err := client.Exists(ctx, cfg.Key).Result()
	if err == nil && exists == 0 {
		client.Do(ctx, "BF.RESERVE", cfg.Key, fmt.Sprintf("%f", cfg.ErrorRate), cfg.Capacity)
	}

	return &TopicRegistry{client: client, key: cfg.Key, ttl: cfg.TTL}, nil
}

// Close closes the underlying Redis client.
func (r *TopicRegistry) Close() error {
	return r.client.Close()
}

// Seen reports whether the topic was already rendered.
func (r *TopicRegistry) Seen(ctx context.Context, topic string) (bool, error) {
	res, err := r.client.Do(ctx, "BF.EXISTS", r.key, TopicHash(topic)).Result()
	if err != nil {
		return false, err
	}
	switch v := res.(type) {
	case int64:
		return v == 1, nil
	case string:
		return v == "1", nil
	default:
		return false, fmt.Errorf("unexpected BF.EXISTS response type %T: %v", res, res)
	}
}

// Mark records the topic as rendered and refreshes the key's TTL, so the
// filter stays alive for the full window after the most recent render.
func (r *TopicRegistry) Mark(ctx context.Context, topic string) error {
	if err := r.client.Do(ctx, "BF.ADD", r.key, TopicHash(topic)).Err(); err != nil {
		return err
	}
	return r.client.Expire(ctx, r.key, r.ttl).Err()
}

// TopicHash normalizes a topic (lowercase, collapsed whitespace) and returns
// its SHA-256 hex digest, so cosmetic rephrasings of the same topic collide.
func TopicHash(topic string) string {
	h := sha256.Sum256([]byte(normalizeTopic(topic)))
	return hex.EncodeToString(h[:])
}

func normalizeTopic(t string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(t))), " ")
}
