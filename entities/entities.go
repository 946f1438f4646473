package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	Id          int     `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description,omitempty"`
	Material    string  `json:"material,omitempty"`
	Color       string  `json:"color,omitempty"`
}

type ProductShortInfo struct {
	Id    int     `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type CartItem struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Count int     `json:"count"`
}

// CartState maps product id to its cart entry.
type CartState map[int]CartItem

// Clone returns a copy that can be handed out without sharing the map.
func (c CartState) Clone() CartState {
	res := make(CartState, len(c))
	for id, item := range c {
		res[id] = item
	}
	return res
}

// Summary counts unique products, not units.
func (c CartState) Summary() CartSummary {
	total := decimal.Zero
	for _, item := range c {
		total = total.Add(decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Count))))
	}
	return CartSummary{Count: len(c), Total: total}
}

type CartSummary struct {
	Count int
	Total decimal.Decimal
}

type CheckoutForm struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type CheckoutRequest struct {
	Form CheckoutForm `json:"form"`
	Cart CartState    `json:"cart"`
}

type CheckoutResponse struct {
	Id string `json:"id"`
}

type OrderItem struct {
	ProductId int     `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Count     int     `json:"count"`
}

type Order struct {
	Id        string          `json:"id"`
	Form      CheckoutForm    `json:"form"`
	Total     decimal.Decimal `json:"total"`
	Items     []OrderItem     `json:"items"`
	CreatedAt time.Time       `json:"createdAt"`
}
