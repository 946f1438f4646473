package cart

import (
	"context"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"hwStore/entities"
)

// Storage keeps a cart between sessions. Implementations return an empty state,
// not an error, when nothing was saved yet.
type Storage interface {
	Load(ctx context.Context) (entities.CartState, error)
	Save(ctx context.Context, state entities.CartState) error
}

// Restore seeds the store with the saved cart.
func Restore(ctx context.Context, s *Store, storage Storage) error {
	state, err := storage.Load(ctx)
	if err != nil {
		return errors.Wrap(err, "restore cart")
	}
	s.SetState(state)
	return nil
}

// Persist saves every committed cart state. Save failures are logged; the in-memory
// cart stays authoritative.
func Persist(ctx context.Context, s *Store, storage Storage) (unsubscribe func()) {
	return s.Subscribe(func(state entities.CartState) {
		if err := storage.Save(ctx, state); err != nil {
			log.WithError(err).WithField("items", len(state)).Warn("cart: save failed")
		}
	})
}
