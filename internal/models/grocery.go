package models

import "time"

// Grocery is one line of the shopping list.
type Grocery struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Checked   bool      `json:"checked"`
	CreatedAt time.Time `json:"createdAt"`
}

// GroceryInput is the body of POST /api/groceries.
type GroceryInput struct {
	Name    string `json:"name"`
	Checked bool   `json:"checked"`
}

func (in GroceryInput) Validate() error {
	var v validator
	v.required("name", in.Name)
	return v.err()
}

func (in GroceryInput) WithDefaults() GroceryInput {
	return in
}

// GroceryPatch is the body of PATCH /api/groceries/{id}.
type GroceryPatch struct {
	Name    *string `json:"name,omitempty"`
	Checked *bool   `json:"checked,omitempty"`
}

func (p GroceryPatch) Validate() error {
	var v validator
	if p.Name != nil {
		v.required("name", *p.Name)
	}
	return v.err()
}

func (p GroceryPatch) Apply(g Grocery) Grocery {
	if p.Name != nil {
		g.Name = *p.Name
	}
	if p.Checked != nil {
		g.Checked = *p.Checked
	}
	return g
}
