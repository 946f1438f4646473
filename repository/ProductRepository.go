package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"

	"hwStore/entities"
	"hwStore/models"
)

type ProductRepository interface {
	GetProducts() (prods []entities.ProductShortInfo, err error)
	GetProductById(id int) (pModel models.Product_db, exists bool, err error)
	CreateProduct(pModel models.Product_db) (err error)
}

type ProductRepo struct {
	db *sqlx.DB
}

func NewProductRepository(conn *sqlx.DB) (ProductRepository, error) {
	if conn == nil {
		return nil, errors.New("conn must be non-nil")
	}
	err := conn.Ping()
	if err != nil {
		return nil, err
	}
	return &ProductRepo{
		db: conn,
	}, nil
}

func (p *ProductRepo) GetProducts() (prods []entities.ProductShortInfo, err error) {
	rows := []models.Product_db{}
	err = p.db.Select(&rows, "SELECT id, name, price, description, material, color FROM products ORDER BY id")
	if err != nil {
		log.Printf("GetProducts: %v", err)
		err = models.ErrServerError
		return
	}
	prods = make([]entities.ProductShortInfo, 0, len(rows))
	for _, r := range rows {
		prods = append(prods, entities.ProductShortInfo{Id: r.Id, Name: r.Name, Price: r.Price})
	}
	return
}

func (p *ProductRepo) GetProductById(id int) (pModel models.Product_db, exists bool, err error) {
	err = p.db.Get(&pModel, p.db.Rebind("SELECT id, name, price, description, material, color FROM products WHERE id = ?"), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = nil
		} else {
			log.Printf("GetProductById: %v", err)
			err = models.ErrServerError
		}
		return
	}
	exists = true
	return
}

func (p *ProductRepo) CreateProduct(pModel models.Product_db) (err error) {
	if pModel.Name == "" || pModel.Price < 0 {
		log.Printf("CreateProduct: invalid product %+v", pModel)
		err = models.ErrBadRequest
		return
	}
	_, err = p.db.NamedExec(`INSERT INTO products (id, name, price, description, material, color)
		VALUES (:id, :name, :price, :description, :material, :color)`, pModel)
	if err != nil {
		log.Printf("CreateProduct: %v", err)
		err = models.ErrServerError
	}
	return
}
