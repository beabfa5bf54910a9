package deliveries

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pizzeria-delivery/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryInterface defines storage operations for delivery records.
type RepositoryInterface interface {
	Insert(ctx context.Context, d *models.Delivery) (*models.Delivery, error)
	FindByID(ctx context.Context, deliveryID string) (*models.Delivery, error)
	// ListRange returns records with created_at in [start, end), newest
	// first, optionally limited to one courier (empty or "all" means no
	// courier filter).
	ListRange(ctx context.Context, start, end time.Time, courierID string) ([]models.Delivery, error)
	Update(ctx context.Context, deliveryID string, req models.UpdateDeliveryRequest) (*models.Delivery, error)
	SetRoundTripKm(ctx context.Context, deliveryID string, km float64) error
	Delete(ctx context.Context, deliveryID string) error
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

const deliveryColumns = `id, courier_id, courier_name, address, neighborhood_name, payment_type,
	order_value, delivery_fee, distance_km, round_trip_km, created_at`

func (r *Repository) scan(row pgx.Row) (*models.Delivery, error) {
	d := &models.Delivery{}
	err := row.Scan(
		&d.ID, &d.CourierID, &d.CourierName, &d.Address, &d.NeighborhoodName,
		&d.PaymentType, &d.OrderValue, &d.DeliveryFee, &d.DistanceKm, &d.RoundTripKm,
		&d.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan delivery: %w", err)
	}
	return d, nil
}

func (r *Repository) Insert(ctx context.Context, d *models.Delivery) (*models.Delivery, error) {
	query := `
		INSERT INTO deliveries (courier_id, courier_name, address, neighborhood_name, payment_type,
			order_value, delivery_fee, distance_km, round_trip_km)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + deliveryColumns
	saved, err := r.scan(r.db.QueryRow(ctx, query,
		d.CourierID, d.CourierName, d.Address, d.NeighborhoodName, d.PaymentType,
		d.OrderValue, d.DeliveryFee, d.DistanceKm, d.RoundTripKm,
	))
	if err != nil {
		return nil, fmt.Errorf("repository.Insert: %w", err)
	}
	return saved, nil
}

func (r *Repository) FindByID(ctx context.Context, deliveryID string) (*models.Delivery, error) {
	query := `SELECT ` + deliveryColumns + ` FROM deliveries WHERE id = $1`
	d, err := r.scan(r.db.QueryRow(ctx, query, deliveryID))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("repository.FindByID: %w", err)
	}
	return d, nil
}

func (r *Repository) ListRange(ctx context.Context, start, end time.Time, courierID string) ([]models.Delivery, error) {
	query := `
		SELECT ` + deliveryColumns + `
		FROM deliveries
		WHERE created_at >= $1 AND created_at < $2
		  AND ($3 = '' OR courier_id::text = $3)
		ORDER BY created_at DESC`

	if courierID == "all" {
		courierID = ""
	}
	rows, err := r.db.Query(ctx, query, start, end, courierID)
	if err != nil {
		return nil, fmt.Errorf("repository.ListRange: %w", err)
	}
	defer rows.Close()

	deliveries := []models.Delivery{}
	for rows.Next() {
		d, err := r.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("repository.ListRange: %w", err)
		}
		deliveries = append(deliveries, *d)
	}
	return deliveries, rows.Err()
}

func (r *Repository) Update(ctx context.Context, deliveryID string, req models.UpdateDeliveryRequest) (*models.Delivery, error) {
	query := `
		UPDATE deliveries
		SET address = COALESCE($1, address),
		    neighborhood_name = COALESCE($2, neighborhood_name),
		    payment_type = COALESCE($3, payment_type),
		    order_value = COALESCE($4, order_value),
		    delivery_fee = COALESCE($5, delivery_fee),
		    round_trip_km = COALESCE($6, round_trip_km)
		WHERE id = $7
		RETURNING ` + deliveryColumns
	d, err := r.scan(r.db.QueryRow(ctx, query,
		req.Address, req.NeighborhoodName, req.PaymentType,
		req.OrderValue, req.DeliveryFee, req.RoundTripKm, deliveryID,
	))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("repository.Update: %w", err)
	}
	return d, nil
}

func (r *Repository) SetRoundTripKm(ctx context.Context, deliveryID string, km float64) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE deliveries SET round_trip_km = $1 WHERE id = $2`, km, deliveryID)
	if err != nil {
		return fmt.Errorf("repository.SetRoundTripKm: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, deliveryID string) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM deliveries WHERE id = $1`, deliveryID)
	if err != nil {
		return fmt.Errorf("repository.Delete: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		// Deleted by another session; already gone.
		return models.ErrNotFound
	}
	return nil
}
