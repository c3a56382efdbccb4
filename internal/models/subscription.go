package models

import "time"

// BillingCycle is how often a subscription renews.
type BillingCycle string

const (
	CycleMonthly BillingCycle = "Monthly"
	CycleYearly  BillingCycle = "Yearly"
)

// BillingCycles lists the accepted cycles.
var BillingCycles = []string{"Monthly", "Yearly"}

// Subscription is a recurring service charge.
type Subscription struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Cost        Money        `json:"cost"`
	Cycle       BillingCycle `json:"cycle"`
	RenewalDate Date         `json:"renewalDate"`
	Logo        *string      `json:"logo"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// SubscriptionInput is the body of POST /api/subscriptions.
type SubscriptionInput struct {
	Name        string       `json:"name"`
	Cost        *Money       `json:"cost"`
	Cycle       BillingCycle `json:"cycle"`
	RenewalDate Date         `json:"renewalDate"`
	Logo        *string      `json:"logo,omitempty"`
}

func (in SubscriptionInput) Validate() error {
	var v validator
	v.required("name", in.Name)
	v.money("cost", in.Cost)
	v.oneOf("cycle", string(in.Cycle), BillingCycles)
	v.date("renewalDate", in.RenewalDate)
	return v.err()
}

func (in SubscriptionInput) WithDefaults() SubscriptionInput {
	return in
}

// SubscriptionPatch is the body of PATCH /api/subscriptions/{id}.
type SubscriptionPatch struct {
	Name        *string          `json:"name,omitempty"`
	Cost        *Money           `json:"cost,omitempty"`
	Cycle       *BillingCycle    `json:"cycle,omitempty"`
	RenewalDate *Date            `json:"renewalDate,omitempty"`
	Logo        Optional[string] `json:"logo,omitzero"`
}

func (p SubscriptionPatch) Validate() error {
	var v validator
	if p.Name != nil {
		v.required("name", *p.Name)
	}
	if p.Cost != nil {
		v.money("cost", p.Cost)
	}
	if p.Cycle != nil {
		v.oneOf("cycle", string(*p.Cycle), BillingCycles)
	}
	v.optionalDate("renewalDate", p.RenewalDate)
	return v.err()
}

func (p SubscriptionPatch) Apply(s Subscription) Subscription {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Cost != nil {
		s.Cost = *p.Cost
	}
	if p.Cycle != nil {
		s.Cycle = *p.Cycle
	}
	if p.RenewalDate != nil {
		s.RenewalDate = *p.RenewalDate
	}
	s.Logo = p.Logo.Apply(s.Logo)
	return s
}
