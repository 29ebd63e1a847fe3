package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrSessionNotFound = errors.New("session not found")

// Store 业务会话存 Redis，另维护 profile → 会话集合，便于一次性撤销
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

type Session struct {
	ID        string `json:"sid"`
	ProfileID string `json:"pid"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

func key(id string) string            { return fmt.Sprintf("dash:sess:%s", id) }
func profileSetKey(pid string) string { return fmt.Sprintf("dash:profile_sessions:%s", pid) }

func (s *Store) Create(ctx context.Context, id, profileID string) (*Session, error) {
	now := time.Now()
	sess := &Session{
		ID:        id,
		ProfileID: profileID,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(s.ttl).Unix(),
	}
	b, err := json.Marshal(sess)
	if err != nil {
		return nil, err
	}
	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, key(id), b, s.ttl)
	pipe.SAdd(ctx, profileSetKey(profileID), id)
	pipe.Expire(ctx, profileSetKey(profileID), s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *Store) Get(ctx context.Context, id string) (*Session, error) {
	b, err := s.rdb.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	var sess Session
	if err := json.Unmarshal(b, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	sess, _ := s.Get(ctx, id) // 忽略失败
	pipe := s.rdb.TxPipeline()
	pipe.Del(ctx, key(id))
	if sess != nil {
		pipe.SRem(ctx, profileSetKey(sess.ProfileID), id)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// RevokeAllForProfile 撤销该 profile 的全部会话（改角色/禁用账号时用）
func (s *Store) RevokeAllForProfile(ctx context.Context, profileID string) error {
	ids, err := s.rdb.SMembers(ctx, profileSetKey(profileID)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}

	pipe := s.rdb.TxPipeline()
	for _, sid := range ids {
		pipe.Del(ctx, key(sid))
	}
	pipe.Del(ctx, profileSetKey(profileID))
	_, err = pipe.Exec(ctx)
	return err
}
