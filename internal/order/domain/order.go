package domain

import "time"

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// GuestUserID marks orders placed without a signed-in account.
const GuestUserID = "guest"

// Item is a frozen copy of a cart line at purchase time. Later cart or
// catalog mutations never reach a persisted order.
type Item struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Image    string `json:"image,omitempty"`
	Quantity int    `json:"quantity"`
}

type Order struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	Items         []Item    `json:"items"`
	Total         int64     `json:"total"`
	PaymentMethod string    `json:"paymentMethod"`
	Status        Status    `json:"status"`
	Date          time.Time `json:"date"`
	Code          string    `json:"code"`
}

func NewOrder(id, userID, paymentMethod string, items []Item) Order {
	var total int64
	for _, item := range items {
		total += item.Price * int64(item.Quantity)
	}
	return Order{
		ID:            id,
		UserID:        userID,
		Items:         items,
		Total:         total,
		PaymentMethod: paymentMethod,
		Status:        StatusCompleted,
		Date:          time.Now().UTC(),
		Code:          NewRedemptionCode(),
	}
}
