// Package events publishes domain events to RabbitMQ for the audit
// consumer. Publishing is best-effort: the API never fails a request
// because the broker is down.
package events

import "time"

const (
	TypeOrderCreated    = "order.created"
	TypeOrderStatus     = "order.status_changed"
	TypePaymentRecorded = "payment.recorded"
)

type ItemRef struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// Message is the envelope every event travels in.
type Message struct {
	Type     string    `json:"type"`
	EntityID string    `json:"entity_id"`
	ActorID  string    `json:"actor_id,omitempty"`
	At       time.Time `json:"at"`

	// order.created
	Items []ItemRef `json:"items,omitempty"`
	Total string    `json:"total,omitempty"`

	// order.status_changed
	Status string `json:"status,omitempty"`

	// payment.recorded
	OrderID string `json:"order_id,omitempty"`
	Amount  string `json:"amount,omitempty"`
	Method  string `json:"method,omitempty"`
}

func OrderCreated(orderID, userID, total string, items []ItemRef) Message {
	return Message{
		Type:     TypeOrderCreated,
		EntityID: orderID,
		ActorID:  userID,
		At:       time.Now().UTC(),
		Items:    items,
		Total:    total,
	}
}

func OrderStatusChanged(orderID, status string) Message {
	return Message{
		Type:     TypeOrderStatus,
		EntityID: orderID,
		At:       time.Now().UTC(),
		Status:   status,
	}
}

func PaymentRecorded(paymentID, orderID, amount, method string) Message {
	return Message{
		Type:     TypePaymentRecorded,
		EntityID: paymentID,
		At:       time.Now().UTC(),
		OrderID:  orderID,
		Amount:   amount,
		Method:   method,
	}
}
