package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/cashback-api/cashback-system/internal/core/ports"
)

const collectionTransactions = "cashback_transactions"

// TransactionRepository implements ports.TransactionRepository using MongoDB.
type TransactionRepository struct {
	col *mongo.Collection
}

var _ ports.TransactionRepository = (*TransactionRepository)(nil)

func NewTransactionRepository(db *mongo.Database) *TransactionRepository {
	return &TransactionRepository{col: db.Collection(collectionTransactions)}
}

type customerDocument struct {
	Name string `bson:"customer_name"`
	CPF  int64  `bson:"customer_cpf"`
}

type productDocument struct {
	Category string  `bson:"category"`
	Quantity int64   `bson:"quantity"`
	Value    float64 `bson:"value"`
}

type transactionDocument struct {
	ID            string               `bson:"_id"`
	SoldAt        time.Time            `bson:"sold_at"`
	Customer      customerDocument     `bson:"customer"`
	Total         float64              `bson:"total"`
	ProductsTotal primitive.Decimal128 `bson:"products_total"`
	Products      []productDocument    `bson:"products"`
	ReceivedAt    time.Time            `bson:"received_at"`
}

func toTransactionDocument(rec ports.TransactionRecord) (transactionDocument, error) {
	tx := rec.Transaction

	productsTotal, err := primitive.ParseDecimal128(tx.ProductsTotal().String())
	if err != nil {
		return transactionDocument{}, fmt.Errorf("encode products total: %w", err)
	}

	products := make([]productDocument, 0, len(tx.Products()))
	for _, p := range tx.Products() {
		products = append(products, productDocument{
			Category: p.Category(),
			Quantity: p.Quantity(),
			Value:    p.Value(),
		})
	}

	return transactionDocument{
		ID:     rec.ID,
		SoldAt: tx.SoldAt().UTC(),
		Customer: customerDocument{
			Name: tx.Customer().Name(),
			CPF:  tx.Customer().CPF(),
		},
		Total:         tx.Total(),
		ProductsTotal: productsTotal,
		Products:      products,
		ReceivedAt:    rec.ReceivedAt.UTC(),
	}, nil
}

// Save inserts one accepted transaction.
func (r *TransactionRepository) Save(ctx context.Context, rec ports.TransactionRecord) error {
	doc, err := toTransactionDocument(rec)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert transaction %s: %w", rec.ID, err)
	}
	return nil
}

// EnsureIndexes creates the lookup indexes on the transactions collection.
func (r *TransactionRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "customer.customer_cpf", Value: 1}, {Key: "sold_at", Value: -1}}},
		{Keys: bson.D{{Key: "received_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
