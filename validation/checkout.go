// Package validation holds the checkout rules shared by the storefront client and the host.
package validation

import (
	"regexp"
	"strings"

	"hwStore/entities"
	"hwStore/models"
)

const (
	FieldName    = "name"
	FieldPhone   = "phone"
	FieldAddress = "address"
	FieldCart    = "cart"
)

// +7 or 8 followed by ten digits, optionally grouped 3-3-2-2 with spaces, dashes or brackets.
var phonePattern = regexp.MustCompile(`^(\+7|8)[\s-]?\(?\d{3}\)?[\s-]?\d{3}[\s-]?\d{2}[\s-]?\d{2}$`)

func IsValidPhone(phone string) bool {
	return phonePattern.MatchString(strings.TrimSpace(phone))
}

// ValidateCheckoutForm returns models.FieldErrors for every rejected field, or nil.
func ValidateCheckoutForm(form entities.CheckoutForm) error {
	fe := models.FieldErrors{}
	if strings.TrimSpace(form.Name) == "" {
		fe[FieldName] = "Please provide your name"
	}
	if !IsValidPhone(form.Phone) {
		fe[FieldPhone] = "Please provide a valid phone"
	}
	if strings.TrimSpace(form.Address) == "" {
		fe[FieldAddress] = "Please provide a valid address"
	}
	if len(fe) > 0 {
		return fe
	}
	return nil
}

// ValidateCart rejects empty carts and entries that break the count >= 1 invariant.
func ValidateCart(cart entities.CartState) error {
	if len(cart) == 0 {
		return models.FieldErrors{FieldCart: "cart is empty"}
	}
	for _, item := range cart {
		if item.Count < 1 {
			return models.FieldErrors{FieldCart: "item count must be positive"}
		}
		if item.Price < 0 {
			return models.FieldErrors{FieldCart: "item price must not be negative"}
		}
	}
	return nil
}

// ValidateCheckout combines form and cart checks; form errors win when both fail.
func ValidateCheckout(req entities.CheckoutRequest) error {
	if err := ValidateCheckoutForm(req.Form); err != nil {
		return err
	}
	return ValidateCart(req.Cart)
}
