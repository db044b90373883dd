package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ablejobs/matchcore/internal/match"
)

const (
	defaultRedisAddr   = "localhost:6379"
	defaultRedisPrefix = "matchcore:"
)

// RedisConfig points at documents stored as JSON strings under <prefix><collection>:<id>.
// Applications are a list at <prefix>jobs:<id>:applicants and user ids a set at <prefix>users.
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

type RedisStore struct {
	client *redis.Client
	prefix string
}

func OpenRedis(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	addr := strings.TrimSpace(cfg.Address)
	if addr == "" {
		addr = defaultRedisAddr
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix}, nil
}

func (s *RedisStore) key(parts ...string) string {
	return s.prefix + strings.Join(parts, ":")
}

func (s *RedisStore) Job(ctx context.Context, id string) (match.JobRecord, error) {
	doc, err := s.getDoc(ctx, collectionJobs, id)
	if err != nil {
		return match.JobRecord{}, err
	}
	return decodeJob(doc, id)
}

func (s *RedisStore) Candidate(ctx context.Context, id string) (match.CandidateRecord, error) {
	doc, err := s.getDoc(ctx, collectionCandidates, id)
	if err != nil {
		return match.CandidateRecord{}, err
	}
	return decodeCandidate(doc, id)
}

func (s *RedisStore) ApplicantsForJob(ctx context.Context, jobID string) ([]match.CandidateRecord, error) {
	n, err := s.client.Exists(ctx, s.key(collectionJobs, jobID)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis exists: %w", err)
	}
	if n == 0 {
		return nil, notFound(collectionJobs, jobID)
	}

	ids, err := s.client.LRange(ctx, s.key(collectionJobs, jobID, "applicants"), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis lrange: %w", err)
	}

	docs, err := s.getDocs(ctx, collectionCandidates, ids)
	if err != nil {
		return nil, err
	}

	out := make([]match.CandidateRecord, 0, len(ids))
	for i, doc := range docs {
		if doc == nil {
			continue
		}
		c, err := decodeCandidate(doc, ids[i])
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *RedisStore) User(ctx context.Context, id string) (match.UserProfile, error) {
	doc, err := s.getDoc(ctx, collectionUsers, id)
	if err != nil {
		return match.UserProfile{}, err
	}
	return decodeUser(doc, id)
}

func (s *RedisStore) Users(ctx context.Context) ([]match.UserProfile, error) {
	ids, err := s.client.SMembers(ctx, s.key(collectionUsers)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis smembers: %w", err)
	}
	sort.Strings(ids)

	docs, err := s.getDocs(ctx, collectionUsers, ids)
	if err != nil {
		return nil, err
	}

	out := make([]match.UserProfile, 0, len(ids))
	for i, doc := range docs {
		if doc == nil {
			continue
		}
		u, err := decodeUser(doc, ids[i])
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, nil
}

func (s *RedisStore) Close() error { return s.client.Close() }

func (s *RedisStore) getDoc(ctx context.Context, collection, id string) (map[string]any, error) {
	b, err := s.client.Get(ctx, s.key(collection, id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, notFound(collection, id)
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse %s document %q: %w", collection, id, err)
	}
	return doc, nil
}

// getDocs fetches documents in one round trip. Missing keys come back as nil entries.
func (s *RedisStore) getDocs(ctx context.Context, collection string, ids []string) ([]map[string]any, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.key(collection, id)
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis mget: %w", err)
	}

	docs := make([]map[string]any, len(values))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		if err := json.Unmarshal([]byte(raw), &docs[i]); err != nil {
			return nil, fmt.Errorf("parse %s document %q: %w", collection, ids[i], err)
		}
	}
	return docs, nil
}
