package domain

// Rule names of the product pipeline, in execution order.
const (
	RuleCategoryValid    = "category_must_be_valid"
	RuleQuantityPositive = "quantity_must_be_positive"
	RuleValuePositive    = "value_must_be_positive"
)

// ProductFields is the raw field set a Product is built from.
type ProductFields struct {
	Category string
	Quantity int64
	Value    float64
}

// Product is one line item of a sale. Values only exist in validated form:
// any change requires building a new Product.
type Product struct {
	category string
	quantity int64
	value    float64
}

// productRules returns the product pipeline. Order is part of the contract:
// the value rule reads a quantity that has already passed its own rule.
func productRules(categories CategorySet) []rule[ProductFields] {
	return []rule[ProductFields]{
		{
			name:  RuleCategoryValid,
			field: "category",
			check: func(p ProductFields) string {
				if !categoryPattern.MatchString(p.Category) {
					return ReasonNameInvalid
				}
				if categories == nil || !categories.Contains(p.Category) {
					return ReasonUnknownProduct
				}
				return ""
			},
		},
		{
			// Zero is accepted: the rule only rejects negative quantities.
			name:  RuleQuantityPositive,
			field: "quantity",
			check: func(p ProductFields) string {
				if p.Quantity < 0 {
					return ReasonNegativeQuantity
				}
				return ""
			},
		},
		{
			name:  RuleValuePositive,
			field: "value",
			check: func(p ProductFields) string {
				switch {
				case p.Value < 0:
					return ReasonNegativeValue
				case p.Value != 0 && p.Quantity == 0:
					return ReasonQuantityMissing
				}
				return ""
			},
		},
	}
}

// ProductRuleOrder lists the rule names NewProduct runs, in order.
func ProductRuleOrder() []string {
	rules := productRules(nil)
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.name
	}
	return names
}

// NewProduct validates f against the known categories and returns the first
// violation as a *ValidationError.
func NewProduct(f ProductFields, categories CategorySet) (Product, error) {
	if err := runRules(f, productRules(categories)); err != nil {
		return Product{}, err
	}
	return Product{category: f.Category, quantity: f.Quantity, value: f.Value}, nil
}

func (p Product) Category() string { return p.category }
func (p Product) Quantity() int64  { return p.quantity }
func (p Product) Value() float64   { return p.value }
