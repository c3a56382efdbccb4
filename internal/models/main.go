package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// NoteID is the fixed identifier of the single scratch-pad row.
const NoteID int64 = 1

// Note is the household scratch pad. Exactly one row exists.
type Note struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// User represents an application user with credentials. Users are stored
// but not exposed over HTTP.
type User struct {
	// ID is the unique identifier for the user.
	ID string `json:"id"`
	// Username is the login name chosen by the user.
	Username string `json:"username"`
	// Password is stored as supplied.
	Password string `json:"-"`
}

// PaymentType tags an upcoming payment with the entity it came from.
type PaymentType string

const (
	// PaymentBill marks an item of type Bill.
	PaymentBill PaymentType = "bill"
	// PaymentSubscription marks an item of type Subscription.
	PaymentSubscription PaymentType = "subscription"
)

// UpcomingPayment is one entry of the dashboard payments feed. Exactly one
// of Bill and Subscription is set, matching Type.
type UpcomingPayment struct {
	Type         PaymentType
	Bill         *Bill
	Subscription *Subscription
}

// Date returns the due date for bills and the renewal date for subscriptions.
func (p UpcomingPayment) Date() Date {
	if p.Bill != nil {
		return p.Bill.DueDate
	}
	if p.Subscription != nil {
		return p.Subscription.RenewalDate
	}
	return ""
}

type upcomingPaymentJSON struct {
	Type PaymentType     `json:"type"`
	Item json.RawMessage `json:"item"`
}

// MarshalJSON encodes the payment as {"type": ..., "item": {...}}.
func (p UpcomingPayment) MarshalJSON() ([]byte, error) {
	var item any
	switch p.Type {
	case PaymentBill:
		item = p.Bill
	case PaymentSubscription:
		item = p.Subscription
	default:
		return nil, fmt.Errorf("unknown payment type %q", p.Type)
	}
	raw, err := json.Marshal(item)
	if err != nil {
		return nil, err
	}
	return json.Marshal(upcomingPaymentJSON{Type: p.Type, Item: raw})
}

// UnmarshalJSON decodes the item according to its type tag.
func (p *UpcomingPayment) UnmarshalJSON(data []byte) error {
	var envelope upcomingPaymentJSON
	if err := json.Unmarshal(data, &envelope); err != nil {
		return err
	}
	p.Type = envelope.Type
	switch envelope.Type {
	case PaymentBill:
		p.Bill = &Bill{}
		return json.Unmarshal(envelope.Item, p.Bill)
	case PaymentSubscription:
		p.Subscription = &Subscription{}
		return json.Unmarshal(envelope.Item, p.Subscription)
	default:
		return fmt.Errorf("unknown payment type %q", envelope.Type)
	}
}
