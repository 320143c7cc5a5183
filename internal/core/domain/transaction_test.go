package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTransactionFields() TransactionFields {
	return TransactionFields{
		SoldAt:   "2023-01-15 10:30:00",
		Customer: CustomerFields{Name: "Maria Souza", CPF: 12345678901},
		Total:    300.0,
		Products: []ProductFields{
			{Category: "Eletronico", Quantity: 2, Value: 150.0},
			{Category: "Livro", Quantity: 0, Value: 0},
		},
	}
}

func TestNewCashBackTransaction_RoundTrip(t *testing.T) {
	f := validTransactionFields()

	tx, err := NewCashBackTransaction(f, testCategories)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2023, 1, 15, 10, 30, 0, 0, time.UTC), tx.SoldAt())
	assert.Equal(t, "Maria Souza", tx.Customer().Name())
	assert.Equal(t, int64(12345678901), tx.Customer().CPF())
	assert.Equal(t, 300.0, tx.Total())

	products := tx.Products()
	require.Len(t, products, 2)
	for i, p := range products {
		assert.Equal(t, f.Products[i].Category, p.Category())
		assert.Equal(t, f.Products[i].Quantity, p.Quantity())
		assert.Equal(t, f.Products[i].Value, p.Value())
	}
}

func TestNewCashBackTransaction_NestedProductError(t *testing.T) {
	f := validTransactionFields()
	f.Products[1] = ProductFields{Category: "Livro", Quantity: 0, Value: 10}

	_, err := NewCashBackTransaction(f, testCategories)
	requireValidationError(t, err, "products[1].value", ReasonQuantityMissing)
}

func TestNewCashBackTransaction_NestedCustomerError(t *testing.T) {
	f := validTransactionFields()
	f.Customer.Name = ""

	_, err := NewCashBackTransaction(f, testCategories)
	requireValidationError(t, err, "customer.customer_name", ReasonRequired)
}

func TestNewCashBackTransaction_SoldAtFormat(t *testing.T) {
	invalid := []string{
		"",
		"2023-01-15",
		"2023-01-15T10:30:00",
		"15/01/2023 10:30:00",
		"2023-01-15 10:30:00Z",
		"2023-13-15 10:30:00",
		"2023-01-15 9:30:00",
		"2023-01-15 10:30:00.5",
		"2023-01-15 10:30:00.123456",
		"2023-01-15 10:30:00,5",
		" 2023-01-15 10:30:00",
	}
	for _, s := range invalid {
		t.Run(s, func(t *testing.T) {
			f := validTransactionFields()
			f.SoldAt = s
			_, err := NewCashBackTransaction(f, testCategories)
			requireValidationError(t, err, "sold_at", ReasonInvalidDatetime)
		})
	}
}

func TestParseSoldAt_KeepsSecondPrecision(t *testing.T) {
	got, err := ParseSoldAt("2023-01-15 09:30:05")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 1, 15, 9, 30, 5, 0, time.UTC), got)
	assert.Equal(t, "2023-01-15 09:30:05", got.Format(SoldAtLayout))
}

func TestNewCashBackTransaction_EmptyProducts(t *testing.T) {
	f := validTransactionFields()
	f.Products = nil

	tx, err := NewCashBackTransaction(f, testCategories)
	require.NoError(t, err)
	assert.Empty(t, tx.Products())
	assert.True(t, tx.ProductsTotal().IsZero())
}

func TestNewCashBackTransaction_TotalIsNotReconciled(t *testing.T) {
	f := validTransactionFields()
	f.Total = 1.0

	tx, err := NewCashBackTransaction(f, testCategories)
	require.NoError(t, err)
	assert.Equal(t, 1.0, tx.Total())
	assert.True(t, tx.ProductsTotal().Equal(decimal.NewFromInt(300)), "got %s", tx.ProductsTotal())
}

func TestCashBackTransaction_ProductsIsACopy(t *testing.T) {
	tx, err := NewCashBackTransaction(validTransactionFields(), testCategories)
	require.NoError(t, err)

	products := tx.Products()
	products[0] = Product{}

	assert.Equal(t, "Eletronico", tx.Products()[0].Category())
}

func TestNewCustomer_CPFAcceptedAsGiven(t *testing.T) {
	c, err := NewCustomer(CustomerFields{Name: "Joao", CPF: 11111111111})
	require.NoError(t, err)
	assert.Equal(t, int64(11111111111), c.CPF())
}
