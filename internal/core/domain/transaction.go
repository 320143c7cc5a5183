package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// SoldAtLayout is the only accepted sold_at format. No zone is carried; the
// parsed time is treated as UTC.
const SoldAtLayout = "2006-01-02 15:04:05"

// TransactionFields is the raw field set a CashBackTransaction is built from.
type TransactionFields struct {
	SoldAt   string
	Customer CustomerFields
	Total    float64
	Products []ProductFields
}

// CashBackTransaction is a sale that entitles the customer to cashback.
// It owns copies of its customer and products.
//
// Total is not reconciled against the products; see ProductsTotal.
type CashBackTransaction struct {
	soldAt   time.Time
	customer Customer
	total    float64
	products []Product
}

// NewCashBackTransaction builds a transaction or fails on the first invalid
// field, nested fields included ("customer.customer_name", "products[2].value").
func NewCashBackTransaction(f TransactionFields, categories CategorySet) (CashBackTransaction, error) {
	soldAt, err := ParseSoldAt(f.SoldAt)
	if err != nil {
		return CashBackTransaction{}, err
	}

	customer, err := NewCustomer(f.Customer)
	if err != nil {
		return CashBackTransaction{}, nested("customer", err)
	}

	products := make([]Product, 0, len(f.Products))
	for i, pf := range f.Products {
		p, err := NewProduct(pf, categories)
		if err != nil {
			return CashBackTransaction{}, nested(fmt.Sprintf("products[%d]", i), err)
		}
		products = append(products, p)
	}

	return CashBackTransaction{
		soldAt:   soldAt,
		customer: customer,
		total:    f.Total,
		products: products,
	}, nil
}

// ParseSoldAt parses s with SoldAtLayout. The input must be exactly the
// layout: time.Parse alone accepts one-digit hours and fractional seconds.
func ParseSoldAt(s string) (time.Time, error) {
	t, err := time.ParseInLocation(SoldAtLayout, s, time.UTC)
	if err != nil || t.Format(SoldAtLayout) != s {
		return time.Time{}, newValidationError("sold_at", ReasonInvalidDatetime)
	}
	return t, nil
}

func (t CashBackTransaction) SoldAt() time.Time  { return t.soldAt }
func (t CashBackTransaction) Customer() Customer { return t.customer }
func (t CashBackTransaction) Total() float64     { return t.total }

// Products returns a copy of the line items in input order.
func (t CashBackTransaction) Products() []Product {
	out := make([]Product, len(t.products))
	copy(out, t.products)
	return out
}

// ProductsTotal sums value*quantity over the line items using exact decimal
// arithmetic. It is informational: construction never compares it with Total.
func (t CashBackTransaction) ProductsTotal() decimal.Decimal {
	sum := decimal.Zero
	for _, p := range t.products {
		sum = sum.Add(decimal.NewFromFloat(p.value).Mul(decimal.NewFromInt(p.quantity)))
	}
	return sum
}
