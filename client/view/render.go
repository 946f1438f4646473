// Package view renders the storefront pages as text from a state snapshot and routes
// navigation to the fetches each page needs.
package view

import (
	"bytes"
	"fmt"
	"sort"
	"text/template"

	"github.com/shopspring/decimal"

	"hwStore/client/state"
	"hwStore/entities"
	"hwStore/validation"
)

var pages = template.Must(template.New("pages").Parse(pageTemplates))

func money(v decimal.Decimal) string {
	return "$" + v.String()
}

func price(f float64) string {
	return money(decimal.NewFromFloat(f))
}

// CartLabel is the header link text: the number of unique products, not units.
func CartLabel(summary entities.CartSummary) string {
	if summary.Count == 0 {
		return "Cart"
	}
	return fmt.Sprintf("Cart (%d)", summary.Count)
}

type headerData struct {
	CartLabel string
}

type card struct {
	Id     int
	Name   string
	Price  string
	InCart bool
}

type catalogData struct {
	Loading bool
	Failed  bool
	Stale   bool
	Cards   []card
}

type productData struct {
	Product  *entities.Product
	Price    string
	InCart   bool
	NotFound bool
	Failed   bool
}

type cartRow struct {
	Index int
	Name  string
	Price string
	Count int
	Total string
}

type formField struct {
	Label   string
	Value   string
	Invalid bool
	Message string
}

type cartData struct {
	Success bool
	OrderId string
	Failed  bool
	ErrText string
	Empty   bool
	Rows    []cartRow
	Total   string
	Fields  []formField
}

func execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func RenderHeader(s state.Snapshot) (string, error) {
	return execute("header", headerData{CartLabel: CartLabel(s.Summary())})
}

func RenderCatalog(s state.Snapshot) (string, error) {
	data := catalogData{}
	hasProducts := len(s.Catalog.Products) > 0
	switch s.Catalog.Status {
	case state.Idle, state.Loading:
		data.Loading = !hasProducts
	case state.Failed:
		data.Failed = !hasProducts
		data.Stale = hasProducts
	}
	for _, p := range s.Catalog.Products {
		data.Cards = append(data.Cards, card{Id: p.Id, Name: p.Name, Price: price(p.Price), InCart: s.InCart(p.Id)})
	}
	return execute("catalog", data)
}

func RenderProduct(s state.Snapshot, id int) (string, error) {
	ps := s.Product(id)
	data := productData{
		Product:  ps.Product,
		NotFound: ps.NotFound,
		Failed:   ps.Status == state.Failed,
		InCart:   s.InCart(id),
	}
	if ps.Product != nil {
		data.Price = price(ps.Product.Price)
	}
	return execute("product", data)
}

func RenderCart(s state.Snapshot) (string, error) {
	data := cartData{
		Success: s.Checkout.Status == state.CheckoutSuccess,
		OrderId: s.Checkout.OrderId,
		Failed:  s.Checkout.Status == state.CheckoutFailed,
		Empty:   len(s.Cart) == 0,
		Total:   money(s.Summary().Total),
	}
	if s.Checkout.Err != nil {
		data.ErrText = errorText(s.Checkout.Err)
	}

	ids := make([]int, 0, len(s.Cart))
	for id := range s.Cart {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for i, id := range ids {
		item := s.Cart[id]
		total := decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Count)))
		data.Rows = append(data.Rows, cartRow{
			Index: i + 1,
			Name:  item.Name,
			Price: price(item.Price),
			Count: item.Count,
			Total: money(total),
		})
	}

	form := s.Checkout.Form
	for _, f := range []struct{ label, key, value string }{
		{"Name", validation.FieldName, form.Name},
		{"Phone", validation.FieldPhone, form.Phone},
		{"Address", validation.FieldAddress, form.Address},
	} {
		data.Fields = append(data.Fields, formField{
			Label:   f.label,
			Value:   f.value,
			Invalid: s.FieldInvalid(f.key),
			Message: s.Checkout.Invalid[f.key],
		})
	}
	return execute("cart", data)
}

func RenderStatic(name string) (string, error) {
	return execute(name, nil)
}
