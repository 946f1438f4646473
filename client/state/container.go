// Package state composes the cart store and the product API into the single state tree
// the storefront views read from and dispatch to.
//
// Fetches and checkout block the calling goroutine; callers that want them in the
// background run them in their own goroutines. State writes are serialized, so
// overlapping fetches of the same resource resolve last-writer-wins by completion order.
package state

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"hwStore/client/cart"
	"hwStore/entities"
	"hwStore/models"
	"hwStore/validation"
)

type ProductAPI interface {
	GetProducts(ctx context.Context) ([]entities.ProductShortInfo, error)
	GetProductById(ctx context.Context, id int) (entities.Product, error)
	Checkout(ctx context.Context, form entities.CheckoutForm, cart entities.CartState) (entities.CheckoutResponse, error)
}

type Listener func(Snapshot)

type subscription struct {
	id uint64
	fn Listener
}

type Container struct {
	api  ProductAPI
	cart *cart.Store

	mu        sync.Mutex
	catalog   CatalogState
	details   map[int]ProductState
	checkout  CheckoutState
	listeners []subscription
	nextID    uint64

	stopCart func()
}

func New(api ProductAPI, store *cart.Store) *Container {
	c := &Container{
		api:     api,
		cart:    store,
		details: make(map[int]ProductState),
	}
	c.stopCart = store.Subscribe(func(entities.CartState) {
		c.emit()
	})
	return c
}

// Close detaches the container from the cart store.
func (c *Container) Close() {
	c.stopCart()
}

func (c *Container) Cart() *cart.Store {
	return c.cart
}

func (c *Container) State() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Container) Subscribe(l Listener) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners = append(c.listeners, subscription{id: id, fn: l})
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			for i, sub := range c.listeners {
				if sub.id == id {
					c.listeners = append(c.listeners[:i:i], c.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

// LoadProducts fetches the catalog. On failure the last-known list is kept and the
// error flag set.
func (c *Container) LoadProducts(ctx context.Context) error {
	c.update(func() {
		c.catalog.Status = Loading
	})

	prods, err := c.api.GetProducts(ctx)

	c.update(func() {
		if err != nil {
			c.catalog.Status = Failed
			c.catalog.Err = err
			return
		}
		c.catalog = CatalogState{Products: prods, Status: Loaded}
	})
	if err != nil {
		log.WithError(err).Warn("state: catalog fetch failed")
	}
	return err
}

// LoadProduct fetches and caches the details of one product.
func (c *Container) LoadProduct(ctx context.Context, id int) error {
	c.update(func() {
		ps := c.details[id]
		ps.Status = Loading
		c.details[id] = ps
	})

	prod, err := c.api.GetProductById(ctx, id)

	c.update(func() {
		ps := c.details[id]
		if err != nil {
			ps.Status = Failed
			ps.Err = err
			ps.NotFound = errors.Is(err, models.ErrNotFoundError)
			c.details[id] = ps
			return
		}
		c.details[id] = ProductState{Product: &prod, Status: Loaded}
	})
	if err != nil {
		log.WithError(err).WithField("product_id", id).Warn("state: product fetch failed")
	}
	return err
}

// InCart reports whether the product already has a cart entry.
func (c *Container) InCart(id int) bool {
	return c.cart.Has(id)
}

func (c *Container) Summary() entities.CartSummary {
	return c.cart.GetState().Summary()
}

// AddToCart adds one unit using the name and price from the fetched product data.
func (c *Container) AddToCart(id int) error {
	c.mu.Lock()
	name, price, ok := c.lookupLocked(id)
	c.mu.Unlock()
	if !ok {
		return errors.Wrapf(models.ErrNotFoundError, "product %d was not loaded", id)
	}
	c.cart.AddItem(id, name, price)
	return nil
}

func (c *Container) RemoveFromCart(id int) {
	c.cart.RemoveItem(id)
}

func (c *Container) ClearCart() {
	c.cart.Clear()
}

// SetForm stores the checkout form. After the first submit attempt the field flags
// follow the form as it changes.
func (c *Container) SetForm(form entities.CheckoutForm) {
	c.update(func() {
		c.checkout.Form = form
		if c.checkout.Submitted {
			c.checkout.Invalid = fieldErrors(validation.ValidateCheckoutForm(form))
		}
	})
}

// Submit validates the form locally, then posts it with the current cart. The cart is
// cleared only when the host accepts the order.
func (c *Container) Submit(ctx context.Context) error {
	var form entities.CheckoutForm
	var invalid error
	c.update(func() {
		c.checkout.Submitted = true
		form = c.checkout.Form
		invalid = validation.ValidateCheckoutForm(form)
		c.checkout.Invalid = fieldErrors(invalid)
		c.checkout.Status = CheckoutPending
		if invalid != nil {
			c.checkout.Status = CheckoutIdle
		}
		c.checkout.Err = nil
		c.checkout.OrderId = ""
	})
	if invalid != nil {
		return invalid
	}

	cartState := c.cart.GetState()
	if err := validation.ValidateCart(cartState); err != nil {
		c.fail(err)
		return err
	}

	resp, err := c.api.Checkout(ctx, form, cartState)
	if err != nil {
		log.WithError(err).Warn("state: checkout failed")
		c.fail(err)
		return err
	}

	c.cart.Clear()
	c.update(func() {
		c.checkout = CheckoutState{Status: CheckoutSuccess, OrderId: resp.Id}
	})
	log.WithField("order_id", resp.Id).Info("state: order placed")
	return nil
}

func (c *Container) fail(err error) {
	c.update(func() {
		c.checkout.Status = CheckoutFailed
		c.checkout.Err = err
		var fe models.FieldErrors
		if errors.As(err, &fe) {
			c.checkout.Invalid = fe
		}
	})
}

func (c *Container) lookupLocked(id int) (name string, price float64, ok bool) {
	if ps, found := c.details[id]; found && ps.Product != nil {
		return ps.Product.Name, ps.Product.Price, true
	}
	for _, p := range c.catalog.Products {
		if p.Id == id {
			return p.Name, p.Price, true
		}
	}
	return "", 0, false
}

func (c *Container) update(fn func()) {
	c.mu.Lock()
	fn()
	c.mu.Unlock()
	c.emit()
}

func (c *Container) emit() {
	c.mu.Lock()
	if len(c.listeners) == 0 {
		c.mu.Unlock()
		return
	}
	snap := c.snapshotLocked()
	listeners := make([]subscription, len(c.listeners))
	copy(listeners, c.listeners)
	c.mu.Unlock()

	for _, sub := range listeners {
		sub.fn(snap)
	}
}

func (c *Container) snapshotLocked() Snapshot {
	details := make(map[int]ProductState, len(c.details))
	for id, ps := range c.details {
		details[id] = ps
	}
	products := make([]entities.ProductShortInfo, len(c.catalog.Products))
	copy(products, c.catalog.Products)
	catalog := c.catalog
	catalog.Products = products

	checkout := c.checkout
	if c.checkout.Invalid != nil {
		checkout.Invalid = make(models.FieldErrors, len(c.checkout.Invalid))
		for k, v := range c.checkout.Invalid {
			checkout.Invalid[k] = v
		}
	}
	return Snapshot{
		Catalog:  catalog,
		Details:  details,
		Cart:     c.cart.GetState(),
		Checkout: checkout,
	}
}

func fieldErrors(err error) models.FieldErrors {
	var fe models.FieldErrors
	if errors.As(err, &fe) {
		return fe
	}
	return nil
}
