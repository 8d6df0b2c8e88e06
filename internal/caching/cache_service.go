package caching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"taskboard/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ErrMiss is returned by the Get* methods when the key does not exist.
var ErrMiss = errors.New("cache miss")

const keyPrefix = "taskboard"

type CacheService interface {
	// Tenant resolution
	GetCustomerByDomain(ctx context.Context, domain string) (*models.Customer, error)
	SetCustomerByDomain(ctx context.Context, domain string, customer *models.Customer, ttl time.Duration) error
	DeleteCustomerByDomain(ctx context.Context, domain string) error

	// Generic JSON values (refresh tokens, SSO state, report results)
	GetJSON(ctx context.Context, key string, dest any) error
	// TakeJSON is GetJSON plus delete in one step; of concurrent callers only one sees the value.
	TakeJSON(ctx context.Context, key string, dest any) error
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error

	// Generic string operations for token management
	SetString(ctx context.Context, key string, value string, ttl time.Duration) error
	GetString(ctx context.Context, key string) (string, error)
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error

	// Cache invalidation
	InvalidatePrefix(ctx context.Context, prefix string) error

	Ping(ctx context.Context) error
}

// Key joins parts under the application prefix, e.g. taskboard:refresh_token:<hash>.
func Key(parts ...string) string {
	return keyPrefix + ":" + strings.Join(parts, ":")
}

func DomainKey(domain string) string { return Key("customer_domain", strings.ToLower(domain)) }

func RefreshTokenKey(hash string) string { return Key("refresh_token", hash) }

func RevokedTokenKey(tokenID string) string { return Key("token_blacklist", tokenID) }

func SSOStateKey(state string) string { return Key("sso_state", state) }

// ReportPrefix scopes every cached report of one customer.
func ReportPrefix(customerID uuid.UUID) string { return Key("report", customerID.String()) }

type redisCacheService struct {
	client *redis.Client
	logger zerolog.Logger
}

// NewRedisClient accepts host:port or a redis:// URL.
func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		opts, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		if password != "" {
			opts.Password = password
		}
		return redis.NewClient(opts), nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}), nil
}

func NewRedisCacheService(client *redis.Client, logger zerolog.Logger) CacheService {
	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		logger.Warn().Err(pingErr).Str("addr", client.Options().Addr).Msg("redis ping failed on initialization")
	} else {
		logger.Debug().Str("addr", client.Options().Addr).Msg("redis connection established")
	}
	return &redisCacheService{client: client, logger: logger}
}

func (r *redisCacheService) GetCustomerByDomain(ctx context.Context, domain string) (*models.Customer, error) {
	var customer models.Customer
	if err := r.GetJSON(ctx, DomainKey(domain), &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *redisCacheService) SetCustomerByDomain(ctx context.Context, domain string, customer *models.Customer, ttl time.Duration) error {
	return r.SetJSON(ctx, DomainKey(domain), customer, ttl)
}

func (r *redisCacheService) DeleteCustomerByDomain(ctx context.Context, domain string) error {
	return r.client.Del(ctx, DomainKey(domain)).Err()
}

func (r *redisCacheService) GetJSON(ctx context.Context, key string, dest any) error {
	return decodeJSON(r.client.Get(ctx, key), dest)
}

func (r *redisCacheService) TakeJSON(ctx context.Context, key string, dest any) error {
	return decodeJSON(r.client.GetDel(ctx, key), dest)
}

func decodeJSON(cmd *redis.StringCmd, dest any) error {
	data, err := cmd.Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrMiss
		}
		return err
	}
	return json.Unmarshal(data, dest)
}

func (r *redisCacheService) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *redisCacheService) GetString(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrMiss
		}
		return "", err
	}
	return val, nil
}

func (r *redisCacheService) Exists(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Exists(ctx, key).Result()
	return n > 0, err
}

func (r *redisCacheService) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

// InvalidatePrefix removes every key starting with prefix. SCAN keeps redis responsive on large keyspaces.
func (r *redisCacheService) InvalidatePrefix(ctx context.Context, prefix string) error {
	iter := r.client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) > 0 {
		r.logger.Debug().Int("keys", len(keys)).Str("prefix", prefix).Msg("invalidating cache")
		return r.client.Del(ctx, keys...).Err()
	}
	return nil
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
