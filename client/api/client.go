// Package api is the storefront's REST client for the catalog and checkout endpoints.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"hwStore/entities"
	"hwStore/models"
)

type Client struct {
	baseURL string
	http    *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// NewClient builds a client for the host mounted at baseURL, e.g. http://localhost:3000/hw/store.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type errorBody struct {
	Error  string             `json:"error"`
	Fields models.FieldErrors `json:"fields,omitempty"`
}

func (c *Client) GetProducts(ctx context.Context) (prods []entities.ProductShortInfo, err error) {
	err = c.do(ctx, http.MethodGet, "/api/products", nil, &prods)
	if err != nil {
		err = errors.Wrap(err, "GetProducts")
		return
	}
	if prods == nil {
		prods = []entities.ProductShortInfo{}
	}
	return
}

func (c *Client) GetProductById(ctx context.Context, id int) (prod entities.Product, err error) {
	err = c.do(ctx, http.MethodGet, fmt.Sprintf("/api/products/%d", id), nil, &prod)
	if err != nil {
		err = errors.Wrapf(err, "GetProductById(%d)", id)
	}
	return
}

// Checkout places the order. It is not idempotent and is never retried.
func (c *Client) Checkout(ctx context.Context, form entities.CheckoutForm, cart entities.CartState) (resp entities.CheckoutResponse, err error) {
	req := entities.CheckoutRequest{Form: form, Cart: cart}
	err = c.do(ctx, http.MethodPost, "/api/checkout", req, &resp)
	if err != nil {
		err = errors.Wrap(err, "Checkout")
	}
	return
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(models.ErrBadRequest, err.Error())
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return errors.Wrap(models.ErrNetwork, err.Error())
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		log.WithFields(log.Fields{"method": method, "path": path}).WithError(err).Debug("api: request failed")
		return errors.Wrap(models.ErrNetwork, err.Error())
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return models.ErrNotFoundError
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return decodeClientError(resp)
	case resp.StatusCode != http.StatusOK:
		return errors.Wrapf(models.ErrNetwork, "unexpected status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(models.ErrNetwork, "decode response: "+err.Error())
	}
	return nil
}

func decodeClientError(resp *http.Response) error {
	var eb errorBody
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err := json.Unmarshal(data, &eb); err == nil && len(eb.Fields) > 0 {
		return eb.Fields
	}
	msg := strings.TrimSpace(string(data))
	if eb.Error != "" {
		msg = eb.Error
	}
	return errors.Wrapf(models.ErrValidation, "status %d: %s", resp.StatusCode, msg)
}
