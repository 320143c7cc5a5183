package domain

// CustomerFields is the raw field set a Customer is built from.
type CustomerFields struct {
	Name string `json:"customer_name" validate:"required"`
	CPF  int64  `json:"customer_cpf"`
}

// Customer is the buyer of a cashback transaction. The CPF (Brazilian
// taxpayer number) is kept as given; its check digits are not verified.
type Customer struct {
	name string
	cpf  int64
}

func NewCustomer(f CustomerFields) (Customer, error) {
	if err := CheckPresence(f); err != nil {
		return Customer{}, err
	}
	return Customer{name: f.Name, cpf: f.CPF}, nil
}

func (c Customer) Name() string { return c.name }
func (c Customer) CPF() int64   { return c.cpf }
