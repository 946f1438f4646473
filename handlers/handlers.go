package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"runtime/debug"
	"strconv"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"hwStore/entities"
	"hwStore/models"
	"hwStore/services"
)

type Handler struct {
	ps  services.ProductService
	ors services.OrderService
}

type HandlerParams struct {
	PrdService services.ProductService
	OrdService services.OrderService
}

func NewHandler(params HandlerParams) *Handler {
	return &Handler{
		ps:  params.PrdService,
		ors: params.OrdService,
	}
}

type errorResponse struct {
	Error  string             `json:"error"`
	Fields models.FieldErrors `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	jsonData, err := json.Marshal(v)
	if err != nil {
		log.Printf("Marshal err:%v", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err = w.Write(jsonData); err != nil {
		log.WithError(err).Error("write response")
	}
}

// products

func (h *Handler) GetProducts(w http.ResponseWriter, r *http.Request) {
	prods, err := h.ps.GetProducts()
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, prods)
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		log.Printf("Unmarshal err:%v", err)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	prod, err := h.ps.GetProductById(id)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, prod)
}

// orders

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req entities.CheckoutRequest
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req)
	if err != nil {
		log.Printf("Unmarshal err:%v", err)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad request"})
		return
	}

	orderId, err := h.ors.CreateOrder(req)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entities.CheckoutResponse{Id: orderId})
}

func (h *Handler) GetOrderById(w http.ResponseWriter, r *http.Request) {
	order, err := h.ors.GetOrderById(mux.Vars(r)["id"])
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// middleware

func (h *Handler) ErrorHandleMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.WithFields(log.Fields{
					"requestId": RequestIdFrom(r.Context()),
					"panic":     rec,
				}).Errorf("panic occured\n stacktrace: %v", string(debug.Stack()))
				http.Error(w, "something went wrong, contact with service administration", http.StatusBadGateway)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func WriteErrorResponse(w http.ResponseWriter, err error) {
	var fe models.FieldErrors
	switch {
	case errors.As(err, &fe):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: models.ErrValidation.Error(), Fields: fe})
	case errors.Is(err, models.ErrValidation):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, models.ErrBadRequest):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, models.ErrNotFoundError):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		log.WithError(err).Error("unhandled error")
		http.Error(w, models.ErrServerError.Error(), http.StatusInternalServerError)
	}
}
