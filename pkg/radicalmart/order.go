package radicalmart

import (
	"github.com/shopspring/decimal"
)

// Order is version 1 of the order record published by RadicalMart.
type Order struct {
	ID       int64      `json:"id" validate:"required,gt=0"`
	Number   string     `json:"number"`
	Title    string     `json:"title"`
	Total    Total      `json:"total"`
	Status   Status     `json:"status"`
	Customer Customer   `json:"customer"`
	Contacts OrderedMap `json:"contacts"`
	Shipping *Method    `json:"shipping,omitempty"`
	Payment  *Method    `json:"payment,omitempty"`
	Products []Product  `json:"products,omitempty" validate:"dive"`
	Note     string     `json:"note,omitempty"`
}

type Total struct {
	Final    decimal.Decimal `json:"final"`
	Quantity int64           `json:"quantity"`
	Products int64           `json:"products"`
}

type Status struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

type Customer struct {
	Contacts CustomerContacts `json:"contacts"`
}

// CustomerContacts holds the contact fields mapped onto the CRM contact. Absent keys are "".
type CustomerContacts struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// Method describes the shipping or payment method chosen for the order.
type Method struct {
	Title        string      `json:"title"`
	Order        MethodOrder `json:"order"`
	Notification OrderedMap  `json:"notification"`
}

type MethodOrder struct {
	Title string `json:"title"`
}

// DisplayTitle prefers the order-level title over the method's generic one.
func (m Method) DisplayTitle() string {
	if m.Order.Title != "" {
		return m.Order.Title
	}
	return m.Title
}

type Product struct {
	Title string       `json:"title"`
	Code  string       `json:"code"`
	Order ProductOrder `json:"order"`
	Price ProductPrice `json:"price"`
}

type ProductOrder struct {
	Quantity decimal.NullDecimal `json:"quantity"`
}

// QuantityText renders the ordered quantity, empty when it is not set.
func (p ProductOrder) QuantityText() string {
	if !p.Quantity.Valid {
		return ""
	}
	return p.Quantity.Decimal.String()
}

type ProductPrice struct {
	FinalString string `json:"final_string"`
}
