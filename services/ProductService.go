package services

import (
	log "github.com/sirupsen/logrus"

	"hwStore/entities"
	"hwStore/models"
	"hwStore/repository"
)

type ProductService struct {
	pr repository.ProductRepository
}

func NewProductService(pRepo repository.ProductRepository) ProductService {
	return ProductService{
		pr: pRepo,
	}
}

func (ps *ProductService) GetProducts() (prods []entities.ProductShortInfo, err error) {
	prods, err = ps.pr.GetProducts()
	return
}

func (ps *ProductService) GetProductById(prodId int) (pEnt entities.Product, err error) {
	var pModel models.Product_db
	var exists bool
	pModel, exists, err = ps.pr.GetProductById(prodId)
	if err != nil {
		return
	}
	if !exists {
		err = models.ErrNotFoundError
		return
	}
	pEnt.Id = pModel.Id
	pEnt.Name = pModel.Name
	pEnt.Price = pModel.Price
	pEnt.Description = pModel.Description
	pEnt.Material = pModel.Material
	pEnt.Color = pModel.Color
	return
}

// ImportProducts adds prods to the catalog in order and stops at the first rejected one.
func (ps *ProductService) ImportProducts(prods []entities.Product) (imported int, err error) {
	for _, p := range prods {
		err = ps.pr.CreateProduct(models.Product_db{
			Id:          p.Id,
			Name:        p.Name,
			Price:       p.Price,
			Description: p.Description,
			Material:    p.Material,
			Color:       p.Color,
		})
		if err != nil {
			log.WithError(err).WithField("productId", p.Id).Warn("ImportProducts: product rejected")
			return
		}
		imported++
	}
	return
}
