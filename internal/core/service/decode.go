package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/cashback-api/cashback-system/internal/core/domain"
	"github.com/cashback-api/cashback-system/internal/core/ports"
)

// transactionDocument mirrors ports.TransactionInput but keeps the nested
// objects raw so each one is decoded with its own field path.
type transactionDocument struct {
	SoldAt   *string           `json:"sold_at"`
	Customer json.RawMessage   `json:"customer"`
	Total    *float64          `json:"total"`
	Products []json.RawMessage `json:"products"`
}

var (
	transactionKeys = jsonNames(reflect.TypeOf(ports.TransactionInput{}))
	customerKeys    = jsonNames(reflect.TypeOf(ports.CustomerInput{}))
	productKeys     = jsonNames(reflect.TypeOf(ports.ProductInput{}))
)

// DecodeTransaction decodes a JSON document into a TransactionInput. Type
// mismatches, malformed documents and keys that differ from a field name
// only by case are reported as *domain.ValidationError with the full field
// path, e.g. "products[1].quantity".
func DecodeTransaction(raw []byte) (ports.TransactionInput, error) {
	var doc transactionDocument
	if err := decodeObject(raw, "", &doc, transactionKeys); err != nil {
		return ports.TransactionInput{}, err
	}

	in := ports.TransactionInput{SoldAt: doc.SoldAt, Total: doc.Total}

	if !isNull(doc.Customer) {
		in.Customer = &ports.CustomerInput{}
		if err := decodeObject(doc.Customer, "customer.", in.Customer, customerKeys); err != nil {
			return ports.TransactionInput{}, err
		}
	}

	if doc.Products != nil {
		in.Products = make([]ports.ProductInput, len(doc.Products))
		for i, p := range doc.Products {
			prefix := fmt.Sprintf("products[%d].", i)
			if err := decodeObject(p, prefix, &in.Products[i], productKeys); err != nil {
				return ports.TransactionInput{}, err
			}
		}
	}
	return in, nil
}

// decodeObject unmarshals raw into dst and rejects keys that encoding/json
// would match case-insensitively to one of known. prefix is prepended to the
// reported field.
func decodeObject(raw []byte, prefix string, dst any, known []string) error {
	if err := json.Unmarshal(raw, dst); err != nil {
		return decodeError(prefix, err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		// dst accepted a non-object value, e.g. null.
		return nil
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		for _, name := range known {
			if k != name && strings.EqualFold(k, name) {
				return &domain.ValidationError{Field: prefix + k, Reason: domain.ReasonFieldNameCase}
			}
		}
	}
	return nil
}

func decodeError(prefix string, err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := prefix + typeErr.Field
		if field == "" {
			field = "body"
		}
		field = strings.TrimSuffix(field, ".")
		return &domain.ValidationError{Field: field, Reason: domain.ReasonTypeMismatch}
	}
	return &domain.ValidationError{Field: "body", Reason: domain.ReasonMalformed}
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

// jsonNames lists the json tag names of the fields of struct type t.
func jsonNames(t reflect.Type) []string {
	names := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		if name != "" && name != "-" {
			names = append(names, name)
		}
	}
	return names
}
