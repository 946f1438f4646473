package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hwStore/entities"
	"hwStore/models"
)

func TestIsValidPhone(t *testing.T) {
	valid := []string{"+7 999 123 45 67", "89991234567", "+7(999)123-45-67", "8 (999) 123-45-67"}
	for _, p := range valid {
		assert.True(t, IsValidPhone(p), p)
	}
	invalid := []string{"", "123 456 7890", "+1 999 123 45 67", "8999123456", "phone"}
	for _, p := range invalid {
		assert.False(t, IsValidPhone(p), p)
	}
}

func TestValidateCheckoutForm(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		err := ValidateCheckoutForm(entities.CheckoutForm{Name: "Name", Phone: "+7 999 123 45 67", Address: "Address"})
		assert.NoError(t, err)
	})

	t.Run("invalid phone only", func(t *testing.T) {
		err := ValidateCheckoutForm(entities.CheckoutForm{Name: "Name", Phone: "123 456 7890", Address: "Address"})
		require.ErrorIs(t, err, models.ErrValidation)
		var fe models.FieldErrors
		require.ErrorAs(t, err, &fe)
		assert.True(t, fe.Has(FieldPhone))
		assert.Len(t, fe, 1)
	})

	t.Run("blank fields", func(t *testing.T) {
		err := ValidateCheckoutForm(entities.CheckoutForm{Name: "  ", Phone: "89991234567"})
		var fe models.FieldErrors
		require.ErrorAs(t, err, &fe)
		assert.True(t, fe.Has(FieldName))
		assert.True(t, fe.Has(FieldAddress))
		assert.False(t, fe.Has(FieldPhone))
	})
}

func TestValidateCart(t *testing.T) {
	assert.ErrorIs(t, ValidateCart(entities.CartState{}), models.ErrValidation)
	assert.ErrorIs(t, ValidateCart(entities.CartState{1: {Name: "a", Price: 1, Count: 0}}), models.ErrValidation)
	assert.NoError(t, ValidateCart(entities.CartState{1: {Name: "a", Price: 1, Count: 2}}))
}
