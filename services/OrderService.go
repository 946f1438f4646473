package services

import (
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"hwStore/entities"
	"hwStore/models"
	"hwStore/repository"
	"hwStore/validation"
)

type OrderService struct {
	pr  repository.ProductRepository
	or  repository.OrderRepository
	now func() time.Time
}

func NewOrderService(productRepo repository.ProductRepository, orderRepo repository.OrderRepository) OrderService {
	return OrderService{
		pr:  productRepo,
		or:  orderRepo,
		now: time.Now,
	}
}

// CreateOrder validates the checkout and stores it. Prices come from the catalog,
// the names and prices the client sent are not trusted.
func (ors *OrderService) CreateOrder(req entities.CheckoutRequest) (orderId string, err error) {
	err = validation.ValidateCheckout(req)
	if err != nil {
		return
	}

	ids := make([]int, 0, len(req.Cart))
	for id := range req.Cart {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	order := entities.Order{
		Id:        uuid.NewString(),
		Form:      req.Form,
		Total:     decimal.Zero,
		CreatedAt: ors.now().UTC(),
	}
	for _, id := range ids {
		p, exists, e := ors.pr.GetProductById(id)
		if e != nil {
			err = e
			return
		}
		if !exists {
			log.WithField("productId", id).Info("CreateOrder: unknown product in cart")
			err = models.FieldErrors{validation.FieldCart: "unknown product " + strconv.Itoa(id)}
			return
		}
		count := req.Cart[id].Count
		order.Items = append(order.Items, entities.OrderItem{
			ProductId: p.Id,
			Name:      p.Name,
			Price:     p.Price,
			Count:     count,
		})
		order.Total = order.Total.Add(decimal.NewFromFloat(p.Price).Mul(decimal.NewFromInt(int64(count))))
	}

	err = ors.or.CreateOrder(order)
	if err != nil {
		return
	}
	log.WithFields(log.Fields{"orderId": order.Id, "items": len(order.Items), "total": order.Total.String()}).Info("order created")
	orderId = order.Id
	return
}

func (ors *OrderService) GetOrderById(orderId string) (order entities.Order, err error) {
	order, err = ors.or.GetOrderById(orderId)
	return
}
