package models

import (
	"strings"
	"time"
)

type OrderStatus string
type PaymentMethod string

const (
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusConfirmed      OrderStatus = "confirmed"
	OrderStatusPreparing      OrderStatus = "preparing"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCancelled      OrderStatus = "cancelled"

	PaymentCash   PaymentMethod = "cash"
	PaymentCheck  PaymentMethod = "check"
	PaymentVenmo  PaymentMethod = "venmo"
	PaymentPaypal PaymentMethod = "paypal"
)

// ParseOrderStatus maps a stored or requested status string to an OrderStatus.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(strings.ToLower(s)) {
	case OrderStatusPending:
		return OrderStatusPending, true
	case OrderStatusConfirmed:
		return OrderStatusConfirmed, true
	case OrderStatusPreparing:
		return OrderStatusPreparing, true
	case OrderStatusOutForDelivery:
		return OrderStatusOutForDelivery, true
	case OrderStatusDelivered:
		return OrderStatusDelivered, true
	case OrderStatusCancelled:
		return OrderStatusCancelled, true
	}
	return "", false
}

func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	switch PaymentMethod(strings.ToLower(s)) {
	case PaymentCash:
		return PaymentCash, true
	case PaymentCheck:
		return PaymentCheck, true
	case PaymentVenmo:
		return PaymentVenmo, true
	case PaymentPaypal:
		return PaymentPaypal, true
	}
	return "", false
}

// Order is a past order. Orders are read-only here; placement is out of scope.
type Order struct {
	ID                  string        `gorm:"primaryKey;type:varchar(36)" json:"orderId"`
	UserID              string        `gorm:"index;not null" json:"userId"`
	Items               []OrderLine   `gorm:"serializer:json;type:text" json:"items"`
	TotalAmount         float64       `json:"totalAmount"`
	Status              OrderStatus   `gorm:"type:varchar(20);default:'pending'" json:"status"`
	OrderDate           time.Time     `gorm:"index" json:"orderDate"`
	DeliveryDate        time.Time     `json:"deliveryDate"`
	DeliveryAddress     Address       `gorm:"embedded;embeddedPrefix:delivery_" json:"deliveryAddress"`
	PaymentMethod       PaymentMethod `gorm:"type:varchar(20)" json:"paymentMethod"`
	SpecialInstructions string        `json:"specialInstructions,omitempty"`
}

type OrderLine struct {
	ItemID   string  `json:"itemId"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Size     Size    `json:"size,omitempty"`
	Price    float64 `json:"price"`
}

func (o *Order) Validate() error {
	if _, ok := ParseOrderStatus(string(o.Status)); !ok {
		return &DeserializationError{Kind: "order", ID: o.ID, Reason: "unknown status " + string(o.Status)}
	}
	if _, ok := ParsePaymentMethod(string(o.PaymentMethod)); !ok {
		return &DeserializationError{Kind: "order", ID: o.ID, Reason: "unknown payment method " + string(o.PaymentMethod)}
	}
	for _, l := range o.Items {
		if l.Size != "" && !l.Size.Valid() {
			return &DeserializationError{Kind: "order", ID: o.ID, Reason: "unknown size " + string(l.Size)}
		}
	}
	return nil
}
