package state

import (
	"hwStore/entities"
	"hwStore/models"
)

type Status int

const (
	Idle Status = iota
	Loading
	Loaded
	Failed
)

func (s Status) String() string {
	switch s {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	default:
		return "idle"
	}
}

// CatalogState keeps the last successfully fetched list even after a failed refresh.
type CatalogState struct {
	Products []entities.ProductShortInfo
	Status   Status
	Err      error
}

type ProductState struct {
	Product  *entities.Product
	Status   Status
	NotFound bool
	Err      error
}

type CheckoutStatus int

const (
	CheckoutIdle CheckoutStatus = iota
	CheckoutPending
	CheckoutSuccess
	CheckoutFailed
)

type CheckoutState struct {
	Form entities.CheckoutForm
	// Submitted is set by the first submit attempt; field flags are only shown after it.
	Submitted bool
	Invalid   models.FieldErrors
	Status    CheckoutStatus
	OrderId   string
	Err       error
}

// Snapshot is a copy of the whole state tree handed to views and listeners.
type Snapshot struct {
	Catalog  CatalogState
	Details  map[int]ProductState
	Cart     entities.CartState
	Checkout CheckoutState
}

func (s Snapshot) InCart(id int) bool {
	_, ok := s.Cart[id]
	return ok
}

func (s Snapshot) Summary() entities.CartSummary {
	return s.Cart.Summary()
}

// Product returns the cached detail state for id.
func (s Snapshot) Product(id int) ProductState {
	return s.Details[id]
}

// FieldInvalid reports whether the checkout form should mark the field invalid.
func (s Snapshot) FieldInvalid(field string) bool {
	return s.Checkout.Submitted && s.Checkout.Invalid.Has(field)
}
