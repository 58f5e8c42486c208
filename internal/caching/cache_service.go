package caching

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/MananRajppout/newamplify/internal/models"

	"github.com/redis/go-redis/v9"
)

const emailOutboxKey = "newamplify:email_outbox"

// CacheService is the redis-backed transactional email outbox. Failed
// dispatches are queued here and drained by the background retry job.
type CacheService interface {
	EnqueueEmail(ctx context.Context, email *models.OutboundEmail) error
	DequeueEmail(ctx context.Context) (*models.OutboundEmail, error)
	OutboxLength(ctx context.Context) (int64, error)
}

type redisCacheService struct {
	client *redis.Client
}

// parseRedisAddr accepts redis:// and rediss:// URLs as well as bare
// host:port. The rediss scheme enables TLS.
func parseRedisAddr(addr string) (hostPort string, useTLS bool) {
	switch {
	case strings.HasPrefix(addr, "rediss://"):
		return strings.TrimPrefix(addr, "rediss://"), true
	case strings.HasPrefix(addr, "redis://"):
		return strings.TrimPrefix(addr, "redis://"), false
	}
	return addr, false
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	parsedAddr, useTLS := parseRedisAddr(addr)

	opts := &redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	}
	if useTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	client := redis.NewClient(opts)

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", pingErr, parsedAddr)
	}

	return &redisCacheService{client: client}
}

func (r *redisCacheService) EnqueueEmail(ctx context.Context, email *models.OutboundEmail) error {
	data, err := json.Marshal(email)
	if err != nil {
		return fmt.Errorf("failed to marshal outbound email: %w", err)
	}
	return r.client.LPush(ctx, emailOutboxKey, data).Err()
}

func (r *redisCacheService) DequeueEmail(ctx context.Context) (*models.OutboundEmail, error) {
	data, err := r.client.RPop(ctx, emailOutboxKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to pop email outbox: %w", err)
	}

	var email models.OutboundEmail
	if err := json.Unmarshal(data, &email); err != nil {
		return nil, fmt.Errorf("failed to unmarshal outbound email: %w", err)
	}
	return &email, nil
}

func (r *redisCacheService) OutboxLength(ctx context.Context) (int64, error) {
	return r.client.LLen(ctx, emailOutboxKey).Result()
}
