package models

import "time"

// KidsEvent is a school or activity event for one of the children.
type KidsEvent struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	EventDate       Date      `json:"eventDate"`
	EventTime       *string   `json:"eventTime"`
	ChildName       *string   `json:"childName"`
	Location        *string   `json:"location"`
	Description     *string   `json:"description"`
	Source          string    `json:"source"`
	SourceID        *string   `json:"sourceId"`
	ReminderEnabled bool      `json:"reminderEnabled"`
	CreatedAt       time.Time `json:"createdAt"`
}

// KidsEventInput is the body of POST /api/kids-events.
type KidsEventInput struct {
	Title           string  `json:"title"`
	EventDate       Date    `json:"eventDate"`
	EventTime       *string `json:"eventTime,omitempty"`
	ChildName       *string `json:"childName,omitempty"`
	Location        *string `json:"location,omitempty"`
	Description     *string `json:"description,omitempty"`
	Source          string  `json:"source,omitempty"`
	SourceID        *string `json:"sourceId,omitempty"`
	ReminderEnabled *bool   `json:"reminderEnabled,omitempty"`
}

func (in KidsEventInput) Validate() error {
	var v validator
	v.required("title", in.Title)
	v.date("eventDate", in.EventDate)
	return v.err()
}

// WithDefaults fills in the source and turns reminders on.
func (in KidsEventInput) WithDefaults() KidsEventInput {
	if in.Source == "" {
		in.Source = DefaultSource
	}
	if in.ReminderEnabled == nil {
		enabled := true
		in.ReminderEnabled = &enabled
	}
	return in
}

// KidsEventPatch is the body of PATCH /api/kids-events/{id}.
type KidsEventPatch struct {
	Title           *string          `json:"title,omitempty"`
	EventDate       *Date            `json:"eventDate,omitempty"`
	EventTime       Optional[string] `json:"eventTime,omitzero"`
	ChildName       Optional[string] `json:"childName,omitzero"`
	Location        Optional[string] `json:"location,omitzero"`
	Description     Optional[string] `json:"description,omitzero"`
	Source          *string          `json:"source,omitempty"`
	SourceID        Optional[string] `json:"sourceId,omitzero"`
	ReminderEnabled *bool            `json:"reminderEnabled,omitempty"`
}

func (p KidsEventPatch) Validate() error {
	var v validator
	if p.Title != nil {
		v.required("title", *p.Title)
	}
	v.optionalDate("eventDate", p.EventDate)
	return v.err()
}

func (p KidsEventPatch) Apply(e KidsEvent) KidsEvent {
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.EventDate != nil {
		e.EventDate = *p.EventDate
	}
	e.EventTime = p.EventTime.Apply(e.EventTime)
	e.ChildName = p.ChildName.Apply(e.ChildName)
	e.Location = p.Location.Apply(e.Location)
	e.Description = p.Description.Apply(e.Description)
	if p.Source != nil {
		e.Source = *p.Source
	}
	e.SourceID = p.SourceID.Apply(e.SourceID)
	if p.ReminderEnabled != nil {
		e.ReminderEnabled = *p.ReminderEnabled
	}
	return e
}
