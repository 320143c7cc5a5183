package ports

import (
	"context"

	"github.com/cashback-api/cashback-system/internal/core/domain"
)

// CustomerInput is the wire form of a customer. Pointers distinguish an
// absent field from a zero value.
type CustomerInput struct {
	Name *string `json:"customer_name" validate:"required"`
	CPF  *int64  `json:"customer_cpf"  validate:"required"`
}

// ProductInput is the wire form of a line item.
type ProductInput struct {
	Category *string  `json:"category" validate:"required"`
	Quantity *int64   `json:"quantity" validate:"required"`
	Value    *float64 `json:"value"    validate:"required"`
}

// TransactionInput is the DTO handed over by the ingestion layer (batch file
// row, API request body). An empty products list is valid; a missing one is not.
type TransactionInput struct {
	SoldAt   *string        `json:"sold_at"  validate:"required"`
	Customer *CustomerInput `json:"customer" validate:"required"`
	Total    *float64       `json:"total"    validate:"required"`
	Products []ProductInput `json:"products" validate:"required,dive"`
}

// Fields converts a presence-checked input into the domain field set.
// Callers must run domain.CheckPresence first; nil pointers panic.
func (in TransactionInput) Fields() domain.TransactionFields {
	products := make([]domain.ProductFields, len(in.Products))
	for i, p := range in.Products {
		products[i] = domain.ProductFields{
			Category: *p.Category,
			Quantity: *p.Quantity,
			Value:    *p.Value,
		}
	}
	return domain.TransactionFields{
		SoldAt: *in.SoldAt,
		Customer: domain.CustomerFields{
			Name: *in.Customer.Name,
			CPF:  *in.Customer.CPF,
		},
		Total:    *in.Total,
		Products: products,
	}
}

// IngestResult is returned by the service after accepting a transaction.
type IngestResult struct {
	ID string
	// Duplicate is true when the same sale was already ingested; nothing was saved.
	Duplicate bool
}

// TransactionService validates raw sales and forwards valid ones downstream.
type TransactionService interface {
	Ingest(ctx context.Context, in TransactionInput) (*IngestResult, error)
	IngestJSON(ctx context.Context, raw []byte) (*IngestResult, error)
}
