package models

import "time"

// BillStatus is set by the user; it is never derived from the due date.
type BillStatus string

const (
	BillDue     BillStatus = "Due"
	BillPaid    BillStatus = "Paid"
	BillOverdue BillStatus = "Overdue"
)

// BillStatuses lists the accepted statuses.
var BillStatuses = []string{"Due", "Paid", "Overdue"}

// DefaultSource marks records entered by hand.
const DefaultSource = "manual"

// Bill is a one-off or recurring payment owed to a provider.
type Bill struct {
	ID            int64      `json:"id"`
	Provider      string     `json:"provider"`
	Amount        Money      `json:"amount"`
	DueDate       Date       `json:"dueDate"`
	Status        BillStatus `json:"status"`
	LastPaid      *Date      `json:"lastPaid"`
	AttachmentURL *string    `json:"attachmentUrl"`
	Source        string     `json:"source"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// BillInput is the body of POST /api/bills.
type BillInput struct {
	Provider      string     `json:"provider"`
	Amount        *Money     `json:"amount"`
	DueDate       Date       `json:"dueDate"`
	Status        BillStatus `json:"status"`
	LastPaid      *Date      `json:"lastPaid,omitempty"`
	AttachmentURL *string    `json:"attachmentUrl,omitempty"`
	Source        string     `json:"source,omitempty"`
}

// Validate checks required fields and enums.
func (in BillInput) Validate() error {
	var v validator
	v.required("provider", in.Provider)
	v.money("amount", in.Amount)
	v.date("dueDate", in.DueDate)
	v.oneOf("status", string(in.Status), BillStatuses)
	v.optionalDate("lastPaid", in.LastPaid)
	return v.err()
}

// WithDefaults fills in the source.
func (in BillInput) WithDefaults() BillInput {
	if in.Source == "" {
		in.Source = DefaultSource
	}
	return in
}

// BillPatch is the body of PATCH /api/bills/{id}.
type BillPatch struct {
	Provider      *string          `json:"provider,omitempty"`
	Amount        *Money           `json:"amount,omitempty"`
	DueDate       *Date            `json:"dueDate,omitempty"`
	Status        *BillStatus      `json:"status,omitempty"`
	LastPaid      Optional[Date]   `json:"lastPaid,omitzero"`
	AttachmentURL Optional[string] `json:"attachmentUrl,omitzero"`
	Source        *string          `json:"source,omitempty"`
}

// Validate checks the supplied fields only.
func (p BillPatch) Validate() error {
	var v validator
	if p.Provider != nil {
		v.required("provider", *p.Provider)
	}
	if p.Amount != nil {
		v.money("amount", p.Amount)
	}
	v.optionalDate("dueDate", p.DueDate)
	if p.Status != nil {
		v.oneOf("status", string(*p.Status), BillStatuses)
	}
	v.optionalDate("lastPaid", p.LastPaid.Value)
	return v.err()
}

// Apply merges the patch into b.
func (p BillPatch) Apply(b Bill) Bill {
	if p.Provider != nil {
		b.Provider = *p.Provider
	}
	if p.Amount != nil {
		b.Amount = *p.Amount
	}
	if p.DueDate != nil {
		b.DueDate = *p.DueDate
	}
	if p.Status != nil {
		b.Status = *p.Status
	}
	b.LastPaid = p.LastPaid.Apply(b.LastPaid)
	b.AttachmentURL = p.AttachmentURL.Apply(b.AttachmentURL)
	if p.Source != nil {
		b.Source = *p.Source
	}
	return b
}
