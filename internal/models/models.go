package models

import "encoding/json"

// Book is a catalog entry. The book id is the key of the catalog document.
// Fields other than the typed ones are kept in Extra and written back unchanged.
type Book struct {
	Title  string  `json:"title" binding:"required"`
	Author string  `json:"author,omitempty"`
	Price  float64 `json:"price" binding:"min=0"`
	Stock  int     `json:"stock" binding:"min=0"`

	Extra map[string]json.RawMessage `json:"-"`
}

var bookFields = map[string]bool{"title": true, "author": true, "price": true, "stock": true}

type plainBook Book

// MarshalJSON writes the typed fields merged with Extra
func (b Book) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(plainBook(b))
	if err != nil || len(b.Extra) == 0 {
		return data, err
	}

	fields := make(map[string]json.RawMessage, len(b.Extra)+len(bookFields))
	for name, value := range b.Extra {
		fields[name] = value
	}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	return json.Marshal(fields)
}

// UnmarshalJSON reads the typed fields and keeps the rest in Extra
func (b *Book) UnmarshalJSON(data []byte) error {
	var book plainBook
	if err := json.Unmarshal(data, &book); err != nil {
		return err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	for name := range fields {
		if bookFields[name] {
			delete(fields, name)
		}
	}

	book.Extra = nil
	if len(fields) > 0 {
		book.Extra = fields
	}
	*b = Book(book)
	return nil
}

// OrderLine is a single (book, quantity) pair of an order
type OrderLine struct {
	BookID   string `json:"book_id" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
}

// Order is a confirmed customer order
type Order struct {
	OrderID       string      `json:"order_id"`
	CustomerID    string      `json:"customer_id"`
	Books         []OrderLine `json:"books"`
	TotalAmount   float64     `json:"total_amount"`
	Status        string      `json:"status"`
	PaymentStatus string      `json:"payment_status"`
}

// Delivery is a shipment record for an order
type Delivery struct {
	DeliveryID            string `json:"delivery_id"`
	OrderID               string `json:"order_id"`
	Address               string `json:"address"`
	Status                string `json:"status"`
	EstimatedDeliveryDate string `json:"estimated_delivery_date"`
}

// Order statuses
const (
	OrderStatusConfirmed = "Confirmed"
)

// Payment statuses
const (
	PaymentStatusPaid = "Paid"
)

// Delivery statuses
const (
	DeliveryStatusPending = "Pending"
)

// Clone returns a copy of the order that shares no line slice with o.
func (o Order) Clone() Order {
	o.Books = append([]OrderLine(nil), o.Books...)
	return o
}
