package repository

import (
	"database/sql"

	"github.com/atinyakov/homehub/internal/models"
)

const (
	carColumns        = `id, name, make, model, year, license_plate, vin, notes, created_at`
	carServiceColumns = `id, car_id, type, date, km, notes, status, created_at`
)

// PostgresCarRepository is the PostgreSQL car table.
type PostgresCarRepository = PostgresRepository[models.Car, models.CarInput, models.CarPatch]

// PostgresCarServiceRepository is the PostgreSQL car_services table.
type PostgresCarServiceRepository = PostgresRepository[models.CarService, models.CarServiceInput, models.CarServicePatch]

// NewPostgresCarRepository creates the car repository using the provided *sql.DB.
func NewPostgresCarRepository(db *sql.DB) *PostgresCarRepository {
	return &PostgresCarRepository{
		DB:      db,
		table:   "cars",
		columns: carColumns,
		orderBy: "created_at DESC, id DESC",
		scan: func(s scanner) (models.Car, error) {
			var c models.Car
			err := s.Scan(&c.ID, &c.Name, &c.Make, &c.Model, &c.Year,
				&c.LicensePlate, &c.VIN, &c.Notes, &c.CreatedAt)
			return c, err
		},
		insert: func(in models.CarInput) []column {
			return []column{
				{"name", in.Name},
				{"make", in.Make},
				{"model", in.Model},
				{"year", in.Year},
				{"license_plate", in.LicensePlate},
				{"vin", in.VIN},
				{"notes", in.Notes},
			}
		},
		patch: func(p models.CarPatch) []column {
			var cols []column
			cols = set(cols, "name", p.Name)
			cols = setOptional(cols, "make", p.Make)
			cols = setOptional(cols, "model", p.Model)
			cols = setOptional(cols, "year", p.Year)
			cols = setOptional(cols, "license_plate", p.LicensePlate)
			cols = setOptional(cols, "vin", p.VIN)
			cols = setOptional(cols, "notes", p.Notes)
			return cols
		},
	}
}

// NewPostgresCarServiceRepository creates the service-record repository.
// car_id carries no foreign key: records may outlive their car.
func NewPostgresCarServiceRepository(db *sql.DB) *PostgresCarServiceRepository {
	return &PostgresCarServiceRepository{
		DB:      db,
		table:   "car_services",
		columns: carServiceColumns,
		orderBy: "created_at DESC, id DESC",
		scan: func(s scanner) (models.CarService, error) {
			var cs models.CarService
			err := s.Scan(&cs.ID, &cs.CarID, &cs.Type, &cs.Date, &cs.Km, &cs.Notes, &cs.Status, &cs.CreatedAt)
			return cs, err
		},
		insert: func(in models.CarServiceInput) []column {
			return []column{
				{"car_id", in.CarID},
				{"type", in.Type},
				{"date", in.Date},
				{"km", in.Km},
				{"notes", in.Notes},
				{"status", in.Status},
			}
		},
		patch: func(p models.CarServicePatch) []column {
			var cols []column
			cols = setOptional(cols, "car_id", p.CarID)
			cols = set(cols, "type", p.Type)
			cols = setOptional(cols, "date", p.Date)
			cols = setOptional(cols, "km", p.Km)
			cols = setOptional(cols, "notes", p.Notes)
			cols = set(cols, "status", p.Status)
			return cols
		},
	}
}
