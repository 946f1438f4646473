package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"hwStore/models"
)

// SessionRepository issues the ids a cart is stored under.
type SessionRepository interface {
	CreateSession(ctx context.Context) (sessionId string, err error)
	CheckSession(ctx context.Context, sessionId string) (bool, error)
	RefreshSession(ctx context.Context, sessionId string) (err error)
	DeleteSession(ctx context.Context, sessionId string) (err error)
}

type SessionRepo struct {
	rdb *redis.Client
	ttl time.Duration
}

func sessionKey(sessionId string) string {
	return "cart:session:" + sessionId
}

func NewSessionRepository(redis_conn *redis.Client, ttl time.Duration) (SessionRepository, error) {
	if redis_conn == nil {
		return nil, errors.New("conn must be non-nil")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := redis_conn.Ping(ctx).Err()
	if err != nil {
		return nil, err
	}
	return &SessionRepo{
		rdb: redis_conn,
		ttl: ttl,
	}, nil
}

func (s *SessionRepo) CreateSession(ctx context.Context) (sessionId string, err error) {
	sessionId = uuid.NewString()
	key := sessionKey(sessionId)
	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, "createdAt", time.Now().UTC().Format(time.RFC3339))
		pipe.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		log.Printf("CreateSession: %v", err)
		sessionId = ""
		err = models.ErrServerError
	}
	return
}

func (s *SessionRepo) CheckSession(ctx context.Context, sessionId string) (bool, error) {
	exists, err := s.rdb.Exists(ctx, sessionKey(sessionId)).Result()
	if err != nil {
		log.Printf("CheckSession: %v", err)
		return false, models.ErrServerError
	}
	return exists > 0, nil
}

// RefreshSession extends the session and its cart by the configured ttl.
func (s *SessionRepo) RefreshSession(ctx context.Context, sessionId string) (err error) {
	_, err = s.rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Expire(ctx, sessionKey(sessionId), s.ttl)
		pipe.Expire(ctx, cartKey(sessionId), s.ttl)
		return nil
	})
	if err != nil {
		log.Printf("RefreshSession: %v", err)
		err = models.ErrServerError
	}
	return
}

func (s *SessionRepo) DeleteSession(ctx context.Context, sessionId string) (err error) {
	err = s.rdb.Del(ctx, sessionKey(sessionId), cartKey(sessionId)).Err()
	if err != nil {
		log.Printf("DeleteSession: %v", err)
		err = models.ErrServerError
	}
	return
}
