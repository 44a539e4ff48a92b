package catalog

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"voyage/pkg/db"
)

// Repository serves the catalog from Postgres.
type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Destinations(ctx context.Context) ([]Destination, error) {
	const q = `
SELECT id, name, COALESCE(image,''), packages, COALESCE(price_range,''), COALESCE(description,'')
FROM destinations
ORDER BY id ASC
`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Destination
	for rows.Next() {
		var d Destination
		if err := rows.Scan(&d.ID, &d.Name, &d.Image, &d.Packages, &d.PriceRange, &d.Description); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *Repository) Destination(ctx context.Context, id int) (*Destination, error) {
	const q = `
SELECT id, name, COALESCE(image,''), packages, COALESCE(price_range,''), COALESCE(description,'')
FROM destinations
WHERE id = $1
`
	d := &Destination{}
	err := r.db.QueryRow(ctx, q, id).Scan(&d.ID, &d.Name, &d.Image, &d.Packages, &d.PriceRange, &d.Description)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *Repository) Tours(ctx context.Context) ([]Tour, error) {
	const q = `
SELECT id, location, name, price, days, COALESCE(description,''), COALESCE(image,''), destination_id, status
FROM tours
ORDER BY id ASC
`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Tour
	for rows.Next() {
		var t Tour
		if err := rows.Scan(&t.ID, &t.Location, &t.Name, &t.Price, &t.Days, &t.Description, &t.Image, &t.DestinationID, &t.Status); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Import upserts a full dataset in one transaction. Used to seed a fresh
// database with the mock catalog.
func (r *Repository) Import(ctx context.Context, destinations []Destination, tours []Tour) error {
	const qDest = `
INSERT INTO destinations (id, name, image, packages, price_range, description)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (id) DO UPDATE SET
  name = EXCLUDED.name,
  image = EXCLUDED.image,
  packages = EXCLUDED.packages,
  price_range = EXCLUDED.price_range,
  description = EXCLUDED.description
`
	const qTour = `
INSERT INTO tours (id, location, name, price, days, description, image, destination_id, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (id) DO UPDATE SET
  location = EXCLUDED.location,
  name = EXCLUDED.name,
  price = EXCLUDED.price,
  days = EXCLUDED.days,
  description = EXCLUDED.description,
  image = EXCLUDED.image,
  destination_id = EXCLUDED.destination_id,
  status = EXCLUDED.status
`
	return db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		for _, d := range destinations {
			if _, err := tx.Exec(ctx, qDest, d.ID, d.Name, d.Image, d.Packages, d.PriceRange, d.Description); err != nil {
				return err
			}
		}
		for _, t := range tours {
			if _, err := tx.Exec(ctx, qTour, t.ID, t.Location, t.Name, t.Price, t.Days, t.Description, t.Image, t.DestinationID, string(t.Status)); err != nil {
				return err
			}
		}
		return nil
	})
}
