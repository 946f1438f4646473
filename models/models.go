package models

import (
	"errors"
	"sort"
	"strings"
	"time"
)

var ErrBadRequest = errors.New("bad request")
var ErrServerError = errors.New("server error")
var ErrNotFoundError = errors.New("not found")
var ErrValidation = errors.New("validation error")
var ErrNetwork = errors.New("network error")

// FieldErrors maps a form field to the reason it was rejected.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fe[k])
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (fe FieldErrors) Unwrap() error {
	return ErrValidation
}

// Has reports whether the field was rejected.
func (fe FieldErrors) Has(field string) bool {
	_, ok := fe[field]
	return ok
}

type Product_db struct {
	Id          int     `db:"id"`
	Name        string  `db:"name"`
	Price       float64 `db:"price"`
	Description string  `db:"description"`
	Material    string  `db:"material"`
	Color       string  `db:"color"`
}

type Order_db struct {
	Id        string    `db:"id"`
	Name      string    `db:"name"`
	Phone     string    `db:"phone"`
	Address   string    `db:"address"`
	Total     float64   `db:"total"`
	CreatedAt time.Time `db:"created_at"`
}

type OrdersProducts_db struct {
	OrderId   string  `db:"order_id"`
	ProductId int     `db:"product_id"`
	Name      string  `db:"name"`
	Price     float64 `db:"price"`
	Count     int     `db:"count"`
}
