package redisstore

import (
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"ai-studio-server/modules/common/config"
)

// Connect - create the Redis client used for OTP codes and rate counters
func Connect(cfg *config.Config) *redis.Client {
	log.Printf("🔌 Connecting to Redis: %s", cfg.GetRedisAddr())

	var tlsConfig *tls.Config
	if cfg.RedisUseTLS {
		tlsConfig = &tls.Config{
			MinVersion:         tls.VersionTLS12,
			InsecureSkipVerify: true, // managed Redis with self-signed chain
		}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.GetRedisAddr(),
		Username:     cfg.RedisUsername,
		Password:     cfg.RedisPassword,
		TLSConfig:    tlsConfig,
		DB:           0,
		DialTimeout:  10 * time.Second,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("❌ Redis ping failed: %v", err)
		return nil
	}

	log.Println("✅ Redis connected")
	return rdb
}

// OTPStore - OTP codes and send counters in Redis. Codes live under
// otp:<purpose>:<phone> with a TTL; counters under otp-count:<purpose>:<phone>
// gate how many sends a phone gets per window.
type OTPStore struct {
	rdb *redis.Client
}

func NewOTPStore(rdb *redis.Client) *OTPStore {
	return &OTPStore{rdb: rdb}
}

func codeKey(purpose, phone string) string {
	return fmt.Sprintf("otp:%s:%s", purpose, phone)
}

func countKey(purpose, phone string) string {
	return fmt.Sprintf("otp-count:%s:%s", purpose, phone)
}

// SaveCode - store a code, replacing any previous one for the same phone
func (s *OTPStore) SaveCode(ctx context.Context, purpose, phone, code string, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, codeKey(purpose, phone), code, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store OTP code: %w", err)
	}
	return nil
}

// GetCode - ("", nil) when no code is pending or it has expired
func (s *OTPStore) GetCode(ctx context.Context, purpose, phone string) (string, error) {
	code, err := s.rdb.Get(ctx, codeKey(purpose, phone)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read OTP code: %w", err)
	}
	return code, nil
}

// DeleteCode - consume a code after successful verification
func (s *OTPStore) DeleteCode(ctx context.Context, purpose, phone string) error {
	if err := s.rdb.Del(ctx, codeKey(purpose, phone)).Err(); err != nil {
		return fmt.Errorf("failed to delete OTP code: %w", err)
	}
	return nil
}

// IncrSendCount - bump the per-phone send counter and return the new value.
// The window TTL starts on the first send of the window.
func (s *OTPStore) IncrSendCount(ctx context.Context, purpose, phone string, window time.Duration) (int64, error) {
	key := countKey(purpose, phone)

	count, err := s.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment OTP counter: %w", err)
	}

	if count == 1 {
		if err := s.rdb.Expire(ctx, key, window).Err(); err != nil {
			return 0, fmt.Errorf("failed to set OTP counter window: %w", err)
		}
	}

	return count, nil
}
