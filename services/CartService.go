package services

import (
	"context"

	log "github.com/sirupsen/logrus"

	"hwStore/client/cart"
	"hwStore/repository"
)

// CartOpener builds the storage for one cart session.
type CartOpener func(cartSessionId string) (repository.CartRepository, error)

// CartService binds a client cart store to a redis-backed session.
type CartService struct {
	sr   repository.SessionRepository
	open CartOpener
}

func NewCartService(sessionRepo repository.SessionRepository, open CartOpener) CartService {
	return CartService{
		sr:   sessionRepo,
		open: open,
	}
}

// OpenCart restores the cart saved under cartSessionId into a new store and keeps
// saving it on every change until stop is called. An empty or expired id starts a
// new session; the id in use is returned.
func (cs *CartService) OpenCart(ctx context.Context, cartSessionId string) (store *cart.Store, sessionId string, stop func(), err error) {
	sessionId = cartSessionId
	exists := false
	if sessionId != "" {
		exists, err = cs.sr.CheckSession(ctx, sessionId)
		if err != nil {
			return
		}
	}
	if !exists {
		if sessionId != "" {
			log.WithField("session", sessionId).Info("cart session expired, starting a new one")
		}
		sessionId, err = cs.sr.CreateSession(ctx)
		if err != nil {
			return
		}
	}
	err = cs.sr.RefreshSession(ctx, sessionId)
	if err != nil {
		return
	}

	repo, err := cs.open(sessionId)
	if err != nil {
		return
	}
	store = cart.NewStore()
	err = cart.Restore(ctx, store, repo)
	if err != nil {
		return
	}
	stop = cart.Persist(ctx, store, repo)
	return
}

func (cs *CartService) DropCart(ctx context.Context, cartSessionId string) (err error) {
	err = cs.sr.DeleteSession(ctx, cartSessionId)
	return
}
