package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"hwStore/entities"
	"hwStore/models"
)

// CartRepository keeps one cart session in redis. It satisfies cart.Storage.
type CartRepository interface {
	Load(ctx context.Context) (res entities.CartState, err error)
	Save(ctx context.Context, state entities.CartState) (err error)
	Delete(ctx context.Context) (err error)
}

type CartRepo struct {
	rdb *redis.Client
	key string
	ttl time.Duration
}

func cartKey(cartSessionId string) string {
	return "cart:items:" + cartSessionId
}

func NewCartRepository(redis_conn *redis.Client, cartSessionId string, ttl time.Duration) (CartRepository, error) {
	if redis_conn == nil {
		return nil, errors.New("conn must be non-nil")
	}
	if cartSessionId == "" {
		return nil, errors.New("cart session id must be non-empty")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := redis_conn.Ping(ctx).Err()
	if err != nil {
		return nil, err
	}
	return &CartRepo{
		rdb: redis_conn,
		key: cartKey(cartSessionId),
		ttl: ttl,
	}, nil
}

func (c *CartRepo) Save(ctx context.Context, state entities.CartState) (err error) {
	if len(state) == 0 {
		return c.Delete(ctx)
	}
	jsonData, err := json.Marshal(state)
	if err != nil {
		log.Printf("SaveCart: marshal: %v", err)
		err = models.ErrServerError
		return
	}
	err = c.rdb.Set(ctx, c.key, jsonData, c.ttl).Err()
	if err != nil {
		log.Printf("SaveCart: redis: %v", err)
		err = models.ErrServerError
	}
	return
}

func (c *CartRepo) Load(ctx context.Context) (res entities.CartState, err error) {
	res = entities.CartState{}
	val, e := c.rdb.Get(ctx, c.key).Result()
	if e != nil {
		if errors.Is(e, redis.Nil) {
			return
		}
		log.Printf("LoadCart: redis: %v", e)
		err = models.ErrServerError
		return
	}
	err = json.Unmarshal([]byte(val), &res)
	if err != nil {
		log.Printf("LoadCart: unmarshal: %v", err)
		res = entities.CartState{}
		err = models.ErrServerError
	}
	return
}

func (c *CartRepo) Delete(ctx context.Context) (err error) {
	err = c.rdb.Del(ctx, c.key).Err()
	if err != nil {
		log.Printf("DeleteCart: %v", err)
		err = models.ErrServerError
	}
	return
}
