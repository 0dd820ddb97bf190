package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/example/dining-concierge/internal/domain/recommend"
	"github.com/example/dining-concierge/internal/internaltypes"
)

type RestaurantRepo struct{ pool *pgxpool.Pool }

func NewRestaurantRepo(pool *pgxpool.Pool) *RestaurantRepo { return &RestaurantRepo{pool: pool} }

func (r *RestaurantRepo) GetByID(ctx context.Context, id string) (recommend.Restaurant, error) {
	row := r.pool.QueryRow(ctx, `SELECT id, name, address FROM restaurants WHERE id=$1`, id)
	var rec recommend.Restaurant
	if err := row.Scan(&rec.ID, &rec.Name, &rec.Address); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return recommend.Restaurant{}, internaltypes.ErrNotFound
		}
		return recommend.Restaurant{}, err
	}
	return rec, nil
}

func (r *RestaurantRepo) Upsert(ctx context.Context, rec recommend.Restaurant, cuisine string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO restaurants (id, name, address, cuisine) VALUES ($1,$2,$3,$4)
		ON CONFLICT (id) DO UPDATE
		SET name=EXCLUDED.name, address=EXCLUDED.address, cuisine=EXCLUDED.cuisine, updated_at=$5
	`, rec.ID, rec.Name, rec.Address, cuisine, time.Now().UTC())
	return err
}
