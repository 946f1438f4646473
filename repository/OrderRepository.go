package repository

import (
	"database/sql"
	"errors"
	"sort"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"hwStore/entities"
	"hwStore/models"
)

type OrderRepository interface {
	CreateOrder(order entities.Order) (err error)
	GetOrderById(orderId string) (order entities.Order, err error)
}

type OrderRepo struct {
	db *sqlx.DB
}

func NewOrderRepository(conn *sqlx.DB) (OrderRepository, error) {
	if conn == nil {
		return nil, errors.New("conn must be non-nil")
	}
	err := conn.Ping()
	if err != nil {
		return nil, err
	}
	return &OrderRepo{
		db: conn,
	}, nil
}

// CreateOrder stores the order and its items in one transaction.
func (o *OrderRepo) CreateOrder(order entities.Order) (err error) {
	tx, e := o.db.Beginx()
	if e != nil {
		log.Printf("CreateOrder[1]: %v", e)
		return models.ErrServerError
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	row := models.Order_db{
		Id:        order.Id,
		Name:      order.Form.Name,
		Phone:     order.Form.Phone,
		Address:   order.Form.Address,
		Total:     order.Total.InexactFloat64(),
		CreatedAt: order.CreatedAt,
	}
	_, e = tx.NamedExec(`INSERT INTO orders (id, name, phone, address, total, created_at)
		VALUES (:id, :name, :phone, :address, :total, :created_at)`, row)
	if e != nil {
		log.Printf("CreateOrder[2]: %v", e)
		return models.ErrServerError
	}

	for _, item := range order.Items {
		_, e = tx.NamedExec(`INSERT INTO orders_products (order_id, product_id, name, price, count)
			VALUES (:order_id, :product_id, :name, :price, :count)`, models.OrdersProducts_db{
			OrderId:   order.Id,
			ProductId: item.ProductId,
			Name:      item.Name,
			Price:     item.Price,
			Count:     item.Count,
		})
		if e != nil {
			log.Printf("CreateOrder[3]: %v", e)
			return models.ErrServerError
		}
	}

	if e = tx.Commit(); e != nil {
		log.Printf("CreateOrder[4]: %v", e)
		return models.ErrServerError
	}
	return nil
}

func (o *OrderRepo) GetOrderById(orderId string) (order entities.Order, err error) {
	var row models.Order_db
	err = o.db.Get(&row, o.db.Rebind("SELECT id, name, phone, address, total, created_at FROM orders WHERE id = ?"), orderId)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = models.ErrNotFoundError
		} else {
			log.Printf("GetOrderById[1]: %v", err)
			err = models.ErrServerError
		}
		return
	}

	items := []models.OrdersProducts_db{}
	err = o.db.Select(&items, o.db.Rebind("SELECT order_id, product_id, name, price, count FROM orders_products WHERE order_id = ?"), orderId)
	if err != nil {
		log.Printf("GetOrderById[2]: %v", err)
		err = models.ErrServerError
		return
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ProductId < items[j].ProductId })

	order = entities.Order{
		Id:        row.Id,
		Form:      entities.CheckoutForm{Name: row.Name, Phone: row.Phone, Address: row.Address},
		Total:     decimal.NewFromFloat(row.Total),
		CreatedAt: row.CreatedAt,
	}
	for _, it := range items {
		order.Items = append(order.Items, entities.OrderItem{ProductId: it.ProductId, Name: it.Name, Price: it.Price, Count: it.Count})
	}
	return
}
