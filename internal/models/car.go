package models

import "time"

// Car is a household vehicle.
type Car struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Make         *string   `json:"make"`
	Model        *string   `json:"model"`
	Year         *int      `json:"year"`
	LicensePlate *string   `json:"licensePlate"`
	VIN          *string   `json:"vin"`
	Notes        *string   `json:"notes"`
	CreatedAt    time.Time `json:"createdAt"`
}

// CarInput is the body of POST /api/cars.
type CarInput struct {
	Name         string  `json:"name"`
	Make         *string `json:"make,omitempty"`
	Model        *string `json:"model,omitempty"`
	Year         *int    `json:"year,omitempty"`
	LicensePlate *string `json:"licensePlate,omitempty"`
	VIN          *string `json:"vin,omitempty"`
	Notes        *string `json:"notes,omitempty"`
}

func (in CarInput) Validate() error {
	var v validator
	v.required("name", in.Name)
	if in.Year != nil && *in.Year < 0 {
		v.add("year", "must not be negative")
	}
	return v.err()
}

func (in CarInput) WithDefaults() CarInput {
	return in
}

// CarPatch is the body of PATCH /api/cars/{id}.
type CarPatch struct {
	Name         *string          `json:"name,omitempty"`
	Make         Optional[string] `json:"make,omitzero"`
	Model        Optional[string] `json:"model,omitzero"`
	Year         Optional[int]    `json:"year,omitzero"`
	LicensePlate Optional[string] `json:"licensePlate,omitzero"`
	VIN          Optional[string] `json:"vin,omitzero"`
	Notes        Optional[string] `json:"notes,omitzero"`
}

func (p CarPatch) Validate() error {
	var v validator
	if p.Name != nil {
		v.required("name", *p.Name)
	}
	if p.Year.Value != nil && *p.Year.Value < 0 {
		v.add("year", "must not be negative")
	}
	return v.err()
}

func (p CarPatch) Apply(c Car) Car {
	if p.Name != nil {
		c.Name = *p.Name
	}
	c.Make = p.Make.Apply(c.Make)
	c.Model = p.Model.Apply(c.Model)
	c.Year = p.Year.Apply(c.Year)
	c.LicensePlate = p.LicensePlate.Apply(c.LicensePlate)
	c.VIN = p.VIN.Apply(c.VIN)
	c.Notes = p.Notes.Apply(c.Notes)
	return c
}

// ServiceType is the kind of vehicle maintenance.
type ServiceType string

const (
	ServiceRoutine      ServiceType = "Service"
	ServiceTyres        ServiceType = "Tyres"
	ServiceRegistration ServiceType = "Registration"
	ServiceInsurance    ServiceType = "Insurance"
)

// ServiceTypes lists the accepted maintenance kinds.
var ServiceTypes = []string{"Service", "Tyres", "Registration", "Insurance"}

// ServiceStatus tracks a maintenance record.
type ServiceStatus string

const (
	ServiceUpcoming  ServiceStatus = "Upcoming"
	ServiceCompleted ServiceStatus = "Completed"
	ServiceOverdue   ServiceStatus = "Overdue"
)

// ServiceStatuses lists the accepted maintenance statuses.
var ServiceStatuses = []string{"Upcoming", "Completed", "Overdue"}

// CarService is a maintenance record. CarID may be nil for records that
// predate vehicle tracking, and may point at a car that no longer exists.
type CarService struct {
	ID        int64         `json:"id"`
	CarID     *int64        `json:"carId"`
	Type      ServiceType   `json:"type"`
	Date      *Date         `json:"date"`
	Km        *int          `json:"km"`
	Notes     *string       `json:"notes"`
	Status    ServiceStatus `json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
}

// CarServiceInput is the body of POST /api/car-services.
type CarServiceInput struct {
	CarID  *int64        `json:"carId,omitempty"`
	Type   ServiceType   `json:"type"`
	Date   *Date         `json:"date,omitempty"`
	Km     *int          `json:"km,omitempty"`
	Notes  *string       `json:"notes,omitempty"`
	Status ServiceStatus `json:"status"`
}

func (in CarServiceInput) Validate() error {
	var v validator
	v.oneOf("type", string(in.Type), ServiceTypes)
	v.optionalDate("date", in.Date)
	if in.Km != nil && *in.Km < 0 {
		v.add("km", "must not be negative")
	}
	v.oneOf("status", string(in.Status), ServiceStatuses)
	return v.err()
}

func (in CarServiceInput) WithDefaults() CarServiceInput {
	return in
}

// CarServicePatch is the body of PATCH /api/car-services/{id}.
type CarServicePatch struct {
	CarID  Optional[int64]  `json:"carId,omitzero"`
	Type   *ServiceType     `json:"type,omitempty"`
	Date   Optional[Date]   `json:"date,omitzero"`
	Km     Optional[int]    `json:"km,omitzero"`
	Notes  Optional[string] `json:"notes,omitzero"`
	Status *ServiceStatus   `json:"status,omitempty"`
}

func (p CarServicePatch) Validate() error {
	var v validator
	if p.Type != nil {
		v.oneOf("type", string(*p.Type), ServiceTypes)
	}
	v.optionalDate("date", p.Date.Value)
	if p.Km.Value != nil && *p.Km.Value < 0 {
		v.add("km", "must not be negative")
	}
	if p.Status != nil {
		v.oneOf("status", string(*p.Status), ServiceStatuses)
	}
	return v.err()
}

func (p CarServicePatch) Apply(s CarService) CarService {
	s.CarID = p.CarID.Apply(s.CarID)
	if p.Type != nil {
		s.Type = *p.Type
	}
	s.Date = p.Date.Apply(s.Date)
	s.Km = p.Km.Apply(s.Km)
	s.Notes = p.Notes.Apply(s.Notes)
	if p.Status != nil {
		s.Status = *p.Status
	}
	return s
}
